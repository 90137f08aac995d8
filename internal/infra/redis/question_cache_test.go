package redis

import (
	"context"
	"testing"
	"time"

	"carbrand-quiz/internal/domain"
	"carbrand-quiz/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionStore(sampleQuestion("Porsche.jpg", "Porsche"))}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	pool, err := cache.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.calls != 1 || len(pool) != 1 {
		t.Fatalf("expected loader called once for 1 question, got calls=%d pool=%d", loader.calls, len(pool))
	}
	if !mr.Exists("quiz:questions") {
		t.Fatalf("expected pool cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	pool, _ = cache.LoadAll(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if !pool[0].Answers.Matches("porsche") || pool[0].Clue != "Porsche.jpg" {
		t.Fatalf("expected cached question intact, got %+v", pool[0])
	}
}

func TestQuestionCacheAddInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	loader := &countingLoader{QuestionLoader: memory.NewQuestionStore(sampleQuestion("Porsche.jpg", "Porsche"))}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	_, _ = cache.LoadAll(ctx)
	if _, err := cache.Add(ctx, sampleQuestion("Ferrari.jpg", "Ferrari")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if mr.Exists("quiz:questions") {
		t.Fatalf("expected cached pool dropped")
	}
	pool, _ := cache.LoadAll(ctx)
	if len(pool) != 2 || loader.calls != 2 {
		t.Fatalf("expected reload with 2 questions, got %d after %d loads", len(pool), loader.calls)
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestQuestionCacheSkipsEmptyPool(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewQuestionStore()
	loader := &countingLoader{QuestionLoader: store}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	if pool, err := cache.LoadAll(ctx); err != nil || len(pool) != 0 {
		t.Fatalf("expected empty pool, got %v err=%v", pool, err)
	}
	if mr.Exists(questionsKey) {
		t.Fatalf("expected empty pool not to be cached")
	}
	if _, err := store.Add(ctx, sampleQuestion("Ferrari.jpg", "Ferrari")); err != nil {
		t.Fatalf("add: %v", err)
	}
	pool, err := cache.LoadAll(ctx)
	if err != nil || len(pool) != 1 {
		t.Fatalf("expected the new question, got %v err=%v", pool, err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected a reload after the empty pool, got %d loads", loader.calls)
	}
}
