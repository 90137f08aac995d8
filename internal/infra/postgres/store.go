package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carbrand-quiz/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// Store keeps questions and best scores in Postgres.
// It implements both app.QuestionStore and app.ScoreLedger.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) LoadAll(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, prompt, clue_image_ref, accepted_answers FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			q    domain.Question
			clue string
			raw  []byte
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &clue, &raw); err != nil {
			return nil, fmt.Errorf("%w: scan question: %w", domain.ErrPersistence, err)
		}
		answers, err := domain.ParseAnswerSet(string(raw))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		q.Clue = domain.ClueRef(clue)
		q.Answers = answers
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load questions: %w", domain.ErrPersistence, err)
	}
	return out, nil
}

func (s *Store) Add(ctx context.Context, q domain.Question) (int64, error) {
	q.Answers = domain.NewAnswerSet(q.Answers...)
	if err := q.Validate(); err != nil {
		return 0, err
	}
	data, err := json.Marshal([]string(q.Answers))
	if err != nil {
		return 0, fmt.Errorf("marshal answers: %w", err)
	}

	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO questions (prompt, clue_image_ref, accepted_answers) VALUES ($1, $2, $3::jsonb) RETURNING id`,
		q.Prompt, string(q.Clue), string(data),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateClue
		}
		return 0, fmt.Errorf("%w: insert question: %w", domain.ErrPersistence, err)
	}
	return id, nil
}

// Record inserts the player's score or raises it; a lower score never overwrites a higher one.
func (s *Store) Record(ctx context.Context, player string, score int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (player_name, best_score) VALUES ($1, $2)
		ON CONFLICT (player_name) DO UPDATE SET best_score = GREATEST(scores.best_score, EXCLUDED.best_score)`,
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
	rows, err := s.pool.Query(ctx,
		`SELECT player_name, best_score FROM scores ORDER BY best_score DESC, id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var out []domain.ScoreEntry
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.PlayerName, &e.BestScore); err != nil {
			return nil, fmt.Errorf("%w: scan score: %w", domain.ErrPersistence, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", domain.ErrPersistence, err)
	}
	return out, nil
}
