package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"carbrand-quiz/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Store keeps questions and best scores in a local SQLite file.
// It implements both app.QuestionStore and app.ScoreLedger.
type Store struct {
	db *sqlx.DB
}

// Open creates the parent directory if needed, connects, and initializes the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: connect sqlite: %w", domain.ErrPersistence, err)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init schema: %w", domain.ErrPersistence, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			prompt TEXT NOT NULL,
			clue_image_ref TEXT UNIQUE NOT NULL,
			accepted_answers TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT UNIQUE NOT NULL,
			best_score INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_best ON scores(best_score DESC, id ASC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type questionRow struct {
	ID      int64  `db:"id"`
	Prompt  string `db:"prompt"`
	Clue    string `db:"clue_image_ref"`
	Answers string `db:"accepted_answers"`
}

func (s *Store) LoadAll(ctx context.Context) ([]domain.Question, error) {
	var rows []questionRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, prompt, clue_image_ref, accepted_answers FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: select questions: %w", domain.ErrPersistence, err)
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		answers, err := domain.ParseAnswerSet(r.Answers)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", r.ID, err)
		}
		out = append(out, domain.Question{
			ID:      r.ID,
			Prompt:  r.Prompt,
			Clue:    domain.ClueRef(r.Clue),
			Answers: answers,
		})
	}
	return out, nil
}

func (s *Store) Add(ctx context.Context, q domain.Question) (int64, error) {
	q.Answers = domain.NewAnswerSet(q.Answers...)
	if err := q.Validate(); err != nil {
		return 0, err
	}
	encoded, err := q.Answers.Encode()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (prompt, clue_image_ref, accepted_answers) VALUES (?, ?, ?)`,
		q.Prompt, string(q.Clue), encoded,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, domain.ErrDuplicateClue
		}
		return 0, fmt.Errorf("%w: insert question: %w", domain.ErrPersistence, err)
	}
	return res.LastInsertId()
}

// Record inserts the player's score or raises it; a lower score never overwrites a higher one.
func (s *Store) Record(ctx context.Context, player string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (player_name, best_score) VALUES (?, ?)
		ON CONFLICT(player_name) DO UPDATE SET best_score = MAX(best_score, excluded.best_score)`,
		player, score,
	)
	if err != nil {
		return fmt.Errorf("%w: record score: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if err := domain.ValidateLimit(limit); err != nil {
		return nil, err
	}
	var rows []struct {
		Player string `db:"player_name"`
		Best   int    `db:"best_score"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT player_name, best_score FROM scores ORDER BY best_score DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: select scores: %w", domain.ErrPersistence, err)
	}
	out := make([]domain.ScoreEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ScoreEntry{PlayerName: r.Player, BestScore: r.Best})
	}
	return out, nil
}
