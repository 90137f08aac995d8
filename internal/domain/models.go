package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scoring constants.
const (
	CorrectReward = 10
	CluePenalty   = 5
)

// MaxPlayerNameLen bounds player names as shown on the leaderboard.
const MaxPlayerNameLen = 20

// ClueRef is an opaque handle to a clue image (a file name inside the clues directory).
type ClueRef string

// Question is a single quiz item. It is never mutated once stored.
type Question struct {
	ID      int64     `json:"id"`
	Prompt  string    `json:"prompt"`
	Clue    ClueRef   `json:"clue"`
	Answers AnswerSet `json:"answers"`
}

// Validate checks the fields required for a question to be stored.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question prompt is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(string(q.Clue)) == "" {
		return fmt.Errorf("%w: clue image is empty", ErrInvalidArgument)
	}
	if len(q.Answers) == 0 {
		return fmt.Errorf("%w: no accepted answers", ErrInvalidArgument)
	}
	return nil
}

// SessionState is a snapshot of a playthrough.
type SessionState struct {
	PlayerName         string    `json:"playerName"`
	Score              int       `json:"score"`
	QuestionsRemaining int       `json:"questionsRemaining"`
	CurrentQuestion    *Question `json:"currentQuestion,omitempty"`
	ClueRevealed       bool      `json:"clueRevealed"`
	QuestionsAnswered  int       `json:"questionsAnswered"`
	CluesUsed          int       `json:"cluesUsed"`
	CurrentStreak      int       `json:"currentStreak"`
	BestStreak         int       `json:"bestStreak"`
	Ended              bool      `json:"ended"`
}

// AnswerResult summarizes the outcome of one submitted answer.
type AnswerResult struct {
	Correct    bool `json:"correct"`
	Delta      int  `json:"delta"`
	Score      int  `json:"score"`
	Streak     int  `json:"streak"`
	BestStreak int  `json:"bestStreak"`
	Ended      bool `json:"ended"`
}

// ScoreEntry is the best score recorded for a player.
type ScoreEntry struct {
	PlayerName string `json:"playerName"`
	BestScore  int    `json:"bestScore"`
}

// Achievement is a milestone reached during a session.
type Achievement struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

var (
	HotStreak    = Achievement{Name: "Hot Streak", Message: "Hot Streak: 5 correct answers in a row!"}
	Century      = Achievement{Name: "Century", Message: "Century: Reached 100 points!"}
	NoHelpNeeded = Achievement{Name: "No Help Needed", Message: "No Help Needed: Answered 10 questions without clues!"}
)

// NormalizePlayerName trims the name and checks it against leaderboard rules.
func NormalizePlayerName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: player name is empty", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLen {
		return "", fmt.Errorf("%w: player name must be %d characters or less", ErrInvalidArgument, MaxPlayerNameLen)
	}
	for _, r := range name {
		if r != ' ' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: player name can only contain letters, numbers, and spaces", ErrInvalidArgument)
		}
	}
	return name, nil
}

// ValidateLimit rejects non-positive leaderboard limits.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	return nil
}

// GameOverMessage is the closing line shown to a player.
func GameOverMessage(player string, score int) string {
	if score > 0 {
		return fmt.Sprintf("Congratulations %s!", player)
	}
	return fmt.Sprintf("Keep practicing %s! Better luck next time!", player)
}
