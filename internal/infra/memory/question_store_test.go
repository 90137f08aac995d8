package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"carbrand-quiz/internal/domain"
)

func TestQuestionStoreAddAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore()

	pool, err := store.LoadAll(ctx)
	if err != nil || len(pool) != 0 {
		t.Fatalf("expected empty pool, got %v err=%v", pool, err)
	}

	id1, err := store.Add(ctx, sampleQuestion("Porsche.jpg", "Porsche"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id2, err := store.Add(ctx, sampleQuestion("Ferrari.jpg", " FERRARI "))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id1 == id2 || id1 == 0 {
		t.Fatalf("expected distinct generated IDs, got %d and %d", id1, id2)
	}

	if _, err := store.Add(ctx, sampleQuestion("Porsche.jpg", "911")); !errors.Is(err, domain.ErrDuplicateClue) {
		t.Fatalf("expected duplicate clue error, got %v", err)
	}

	pool, _ = store.LoadAll(ctx)
	if len(pool) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pool))
	}
	if pool[1].Answers[0] != "ferrari" {
		t.Fatalf("expected normalized answers, got %v", pool[1].Answers)
	}
}

func TestQuestionStoreRejectsIncompleteQuestion(t *testing.T) {
	_, err := NewQuestionStore().Add(context.Background(), domain.Question{Prompt: "?", Clue: "x.jpg"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewQuestionStore(sampleQuestion("Porsche.jpg", "Porsche"))}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.LoadAll(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.LoadAll(context.Background()); err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionCacheInvalidatesOnAdd(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{QuestionLoader: NewQuestionStore(sampleQuestion("Porsche.jpg", "Porsche"))}
	cache := NewQuestionCache(loader, time.Minute)

	_, _ = cache.LoadAll(ctx)
	if _, err := cache.Add(ctx, sampleQuestion("Ferrari.jpg", "Ferrari")); err != nil {
		t.Fatalf("add: %v", err)
	}
	pool, err := cache.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pool) != 2 || loader.calls != 2 {
		t.Fatalf("expected reload with 2 questions, got %d questions after %d loads", len(pool), loader.calls)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewQuestionStore(sampleQuestion("Porsche.jpg", "Porsche"))}
	cache := NewQuestionCache(loader, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	_, _ = cache.LoadAll(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = cache.LoadAll(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadAll(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadAll(ctx)
}

func sampleQuestion(clue string, answers ...string) domain.Question {
	return domain.Question{
		Prompt:  "Which brand is this?",
		Clue:    domain.ClueRef(clue),
		Answers: domain.NewAnswerSet(answers...),
	}
}

func TestQuestionCacheSkipsEmptyPool(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore()
	loader := &countingLoader{QuestionLoader: store}
	cache := NewQuestionCache(loader, time.Minute)

	pool, err := cache.LoadAll(ctx)
	if err != nil || len(pool) != 0 {
		t.Fatalf("expected empty pool, got %v err=%v", pool, err)
	}
	// written by another process, bypassing the cache
	if _, err := store.Add(ctx, sampleQuestion("Ferrari.jpg", "Ferrari")); err != nil {
		t.Fatalf("add: %v", err)
	}
	pool, err = cache.LoadAll(ctx)
	if err != nil || len(pool) != 1 {
		t.Fatalf("expected the new question, got %v err=%v", pool, err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected a reload after the empty pool, got %d loads", loader.calls)
	}
}
