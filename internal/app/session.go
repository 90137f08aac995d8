package app

import (
	"math/rand"
	"sync"
	"time"

	"carbrand-quiz/internal/domain"
)

// Engine is what a presenter (terminal, websocket) drives during a playthrough.
type Engine interface {
	ID() string
	State() domain.SessionState
	RevealClue() (domain.ClueRef, error)
	SubmitAnswer(text string) (domain.AnswerResult, error)
	CheckAchievement() (domain.Achievement, bool)
	NewAchievement() (domain.Achievement, bool)
	Accuracy() (float64, bool)
}

var _ Engine = (*Session)(nil)

// Session owns the state of one playthrough. Every mutation happens under mu,
// so score, streak and clue counters change together or not at all.
type Session struct {
	id     string
	player string
	rnd    *rand.Rand

	mu           sync.Mutex
	remaining    []domain.Question
	current      *domain.Question
	clueRevealed bool
	score        int
	answered     int
	cluesUsed    int
	streak       int
	bestStreak   int
	ended        bool
	announced    map[string]struct{}
}

// StartSession snapshots pool and presents the first question.
// A nil rnd seeds a new source from the wall clock.
func StartSession(id, player string, pool []domain.Question, rnd *rand.Rand) (*Session, error) {
	remaining := snapshotPool(pool)
	if len(remaining) == 0 {
		return nil, domain.ErrEmptyPool
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		id:        id,
		player:    player,
		rnd:       rnd,
		remaining: remaining,
		announced: make(map[string]struct{}),
	}
	s.drawLocked()
	return s, nil
}

// snapshotPool copies the pool, dropping repeated IDs.
func snapshotPool(pool []domain.Question) []domain.Question {
	seen := make(map[int64]struct{}, len(pool))
	out := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.ID != 0 {
			if _, dup := seen[q.ID]; dup {
				continue
			}
			seen[q.ID] = struct{}{}
		}
		out = append(out, q)
	}
	return out
}

func (s *Session) ID() string {
	return s.id
}

// Player returns the name the session was started for.
func (s *Session) Player() string {
	return s.player
}

// State returns a copy of the current session state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := domain.SessionState{
		PlayerName:         s.player,
		Score:              s.score,
		QuestionsRemaining: len(s.remaining),
		ClueRevealed:       s.clueRevealed,
		QuestionsAnswered:  s.answered,
		CluesUsed:          s.cluesUsed,
		CurrentStreak:      s.streak,
		BestStreak:         s.bestStreak,
		Ended:              s.ended,
	}
	if s.current != nil {
		q := *s.current
		state.CurrentQuestion = &q
	}
	return state
}

// RevealClue charges the clue penalty and returns the clue for the current question.
// A second reveal on the same question returns ErrClueAlreadyRevealed and charges nothing.
func (s *Session) RevealClue() (domain.ClueRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return "", domain.ErrSessionEnded
	}
	if s.clueRevealed {
		return "", domain.ErrClueAlreadyRevealed
	}
	s.clueRevealed = true
	s.score -= domain.CluePenalty
	s.cluesUsed++
	return s.current.Clue, nil
}

// SubmitAnswer scores text against the current question and advances to the next one,
// ending the session once the pool is exhausted.
func (s *Session) SubmitAnswer(text string) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return domain.AnswerResult{}, domain.ErrSessionEnded
	}

	result := domain.AnswerResult{}
	if s.current.Answers.Matches(text) {
		result.Correct = true
		result.Delta = domain.CorrectReward
		s.score += domain.CorrectReward
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
	} else {
		s.streak = 0
	}
	s.answered++

	if len(s.remaining) == 0 {
		s.ended = true
		s.current = nil
		s.clueRevealed = false
	} else {
		s.drawLocked()
	}

	result.Score = s.score
	result.Streak = s.streak
	result.BestStreak = s.bestStreak
	result.Ended = s.ended
	return result, nil
}

// CheckAchievement reports the highest-priority achievement the state currently qualifies for.
// It does not remember what was already reported.
func (s *Session) CheckAchievement() (domain.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.achievementLocked()
}

// NewAchievement is CheckAchievement that yields each achievement at most once per session.
func (s *Session) NewAchievement() (domain.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.achievementLocked()
	if !ok {
		return domain.Achievement{}, false
	}
	if _, seen := s.announced[a.Name]; seen {
		return domain.Achievement{}, false
	}
	s.announced[a.Name] = struct{}{}
	return a, true
}

func (s *Session) achievementLocked() (domain.Achievement, bool) {
	switch {
	case s.streak >= 5:
		return domain.HotStreak, true
	case s.score >= 100:
		return domain.Century, true
	case s.answered >= 10 && s.cluesUsed == 0:
		return domain.NoHelpNeeded, true
	}
	return domain.Achievement{}, false
}

// Accuracy is the net score as a percentage of the maximum reward for the questions answered.
// Clue penalties pull it down and it can be negative. ok is false before any answer.
func (s *Session) Accuracy() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.answered == 0 {
		return 0, false
	}
	return float64(s.score) / float64(s.answered*domain.CorrectReward) * 100, true
}

func (s *Session) drawLocked() {
	i := s.rnd.Intn(len(s.remaining))
	q := s.remaining[i]
	last := len(s.remaining) - 1
	s.remaining[i] = s.remaining[last]
	s.remaining = s.remaining[:last]
	s.current = &q
	s.clueRevealed = false
}
