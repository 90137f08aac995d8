package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"carbrand-quiz/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuestionStore holds the question pool.
type QuestionStore interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	Add(ctx context.Context, q domain.Question) (int64, error)
}

// ScoreLedger keeps the best score per player.
type ScoreLedger interface {
	Record(ctx context.Context, player string, score int) error
	Leaderboard(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

// GameService contains the quiz use cases shared by every presenter.
type GameService struct {
	sessions  SessionRepository
	questions QuestionStore
	ledger    ScoreLedger
	newRand   func() *rand.Rand
}

func NewGameService(sessions SessionRepository, questions QuestionStore, ledger ScoreLedger) *GameService {
	return NewGameServiceWithRand(sessions, questions, ledger, func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
}

// NewGameServiceWithRand lets callers control question order through the random source given to each session.
func NewGameServiceWithRand(sessions SessionRepository, questions QuestionStore, ledger ScoreLedger, newRand func() *rand.Rand) *GameService {
	return &GameService{sessions: sessions, questions: questions, ledger: ledger, newRand: newRand}
}

// StartSession validates the player, snapshots the pool and presents the first question.
func (s *GameService) StartSession(ctx context.Context, player string) (*Session, error) {
	name, err := domain.NormalizePlayerName(player)
	if err != nil {
		return nil, err
	}
	pool, err := s.questions.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	session, err := StartSession(uuid.New().String(), name, pool, s.newRand())
	if err != nil {
		return nil, err
	}
	s.sessions.Save(session)
	return session, nil
}

// Session returns a live session by ID.
func (s *GameService) Session(_ context.Context, sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RevealClue reveals the clue of the current question, charging the penalty.
func (s *GameService) RevealClue(ctx context.Context, sessionID string) (domain.ClueRef, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.RevealClue()
}

// SubmitAnswer scores an answer. When it exhausts the pool the session is dropped and the
// final score goes to the ledger; a ledger failure is returned alongside the final result.
func (s *GameService) SubmitAnswer(ctx context.Context, sessionID, text string) (domain.AnswerResult, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	result, err := session.SubmitAnswer(text)
	if err != nil {
		return result, err
	}
	if !result.Ended {
		return result, nil
	}

	s.sessions.Delete(sessionID)
	if err := s.ledger.Record(ctx, session.Player(), result.Score); err != nil {
		log.Printf("record score for %q failed: %v", session.Player(), err)
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return result, err
	}
	return result, nil
}

// NewAchievement returns an achievement the session has not announced yet.
func (s *GameService) NewAchievement(ctx context.Context, sessionID string) (domain.Achievement, bool, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return domain.Achievement{}, false, err
	}
	a, ok := session.NewAchievement()
	return a, ok, nil
}

// Abandon discards a session without recording its score.
func (s *GameService) Abandon(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Leaderboard returns the top best scores.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if err := domain.ValidateLimit(limit); err != nil {
		return nil, err
	}
	return s.ledger.Leaderboard(ctx, limit)
}

// AddQuestion stores a new question and returns its ID.
func (s *GameService) AddQuestion(ctx context.Context, q domain.Question) (int64, error) {
	q.Answers = domain.NewAnswerSet(q.Answers...)
	if err := q.Validate(); err != nil {
		return 0, err
	}
	return s.questions.Add(ctx, q)
}
