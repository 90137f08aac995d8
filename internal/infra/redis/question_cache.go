package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"carbrand-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader is the backing store the cache reads through to (SQLite, Postgres, ...).
type QuestionLoader interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	Add(ctx context.Context, q domain.Question) (int64, error)
}

// QuestionCache caches the whole question pool in Redis as one JSON value and
// falls back to the loader on cache miss.
//
//	SET quiz:questions [{"id":1,"prompt":...},...] EX ttl
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadAll(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := c.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := c.cached(ctx); ok {
			return pool, nil
		}

		pool, err := c.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}

		if len(pool) == 0 {
			return pool, nil
		}
		if data, err := json.Marshal(pool); err == nil {
			_ = c.client.Set(ctx, questionsKey, data, c.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Add writes through to the loader and drops the cached pool.
func (c *QuestionCache) Add(ctx context.Context, q domain.Question) (int64, error) {
	id, err := c.loader.Add(ctx, q)
	if err != nil {
		return 0, err
	}
	_ = c.client.Del(ctx, questionsKey).Err()
	return id, nil
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, questionsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
