package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"carbrand-quiz/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "branddb.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestQuestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pool, err := store.LoadAll(ctx)
	if err != nil || len(pool) != 0 {
		t.Fatalf("expected empty pool, got %v err=%v", pool, err)
	}

	id, err := store.Add(ctx, domain.Question{
		Prompt:  "Which German car manufacturer is known for the 911 model?",
		Clue:    "Porsche.jpg",
		Answers: domain.AnswerSet{"Porsche", " porsche"},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err = store.Add(ctx, domain.Question{Prompt: "again", Clue: "Porsche.jpg", Answers: domain.AnswerSet{"x"}})
	if !errors.Is(err, domain.ErrDuplicateClue) {
		t.Fatalf("expected duplicate clue error, got %v", err)
	}

	pool, err = store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pool) != 1 || pool[0].ID != id || pool[0].Clue != "Porsche.jpg" {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if len(pool[0].Answers) != 1 || !pool[0].Answers.Matches("PORSCHE") {
		t.Fatalf("unexpected answers %v", pool[0].Answers)
	}
}

func TestLegacyAnswerRowsAreParsed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO questions (prompt, clue_image_ref, accepted_answers) VALUES (?, ?, ?)`,
		"An England company founded in 1910's", "Rolls Royce.jpg", "{'Rolls Royce'}")
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	pool, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !pool[0].Answers.Matches("rolls royce") {
		t.Fatalf("expected legacy answers parsed, got %v", pool[0].Answers)
	}
}

func TestRecordKeepsBestScore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, s := range []int{15, 40, 25} {
		if err := store.Record(ctx, "Alice", s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	_ = store.Record(ctx, "Bob", 40)
	_ = store.Record(ctx, "Cara", 50)

	top, err := store.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []domain.ScoreEntry{
		{PlayerName: "Cara", BestScore: 50},
		{PlayerName: "Alice", BestScore: 40},
		{PlayerName: "Bob", BestScore: 40},
	}
	if len(top) != len(want) {
		t.Fatalf("expected %v, got %v", want, top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, top)
		}
	}

	top, _ = store.Leaderboard(ctx, 1)
	if len(top) != 1 || top[0].PlayerName != "Cara" {
		t.Fatalf("expected limit applied, got %v", top)
	}
	if _, err := store.Leaderboard(ctx, -1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestClosedStoreReportsPersistenceError(t *testing.T) {
	store := newTestStore(t)
	_ = store.Close()
	if err := store.Record(context.Background(), "Alice", 10); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestStoreConcurrentRecordsKeepMax(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const writers = 50
	best := 0
	for i := 0; i < writers; i++ {
		if s := (i*37)%101 - 10; s > best {
			best = s
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if err := store.Record(ctx, "Alice", score); err != nil {
				errs <- err
			}
		}((i*37)%101 - 10)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("record: %v", err)
	}

	top, err := store.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 1 || top[0] != (domain.ScoreEntry{PlayerName: "Alice", BestScore: best}) {
		t.Fatalf("expected (Alice, %d), got %+v", best, top)
	}
}
