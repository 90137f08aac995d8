package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"carbrand-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader is the backing store a cache reads through to.
type QuestionLoader interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
	Add(ctx context.Context, q domain.Question) (int64, error)
}

const poolKey = "pool"

// QuestionCache caches the question pool with TTL to avoid repeated DB hits.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	pool      []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadAll(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := c.cached(c.clock()); ok {
		return pool, nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		now := c.clock()
		if pool, ok := c.cached(now); ok {
			return pool, nil
		}

		pool, err := c.loader.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		// an empty pool is never cached so questions added elsewhere show up on the next load
		if len(pool) == 0 {
			return pool, nil
		}

		c.mu.Lock()
		c.pool = pool
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePool(result.([]domain.Question)), nil
}

// Add writes through to the loader and invalidates the cached pool.
func (c *QuestionCache) Add(ctx context.Context, q domain.Question) (int64, error) {
	id, err := c.loader.Add(ctx, q)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.pool = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	return id, nil
}

func (c *QuestionCache) cached(now time.Time) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pool != nil && c.expiresAt.After(now) {
		return clonePool(c.pool), true
	}
	return nil, false
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func clonePool(pool []domain.Question) []domain.Question {
	out := make([]domain.Question, len(pool))
	copy(out, pool)
	return out
}
