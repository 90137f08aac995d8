package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/config"
	"carbrand-quiz/internal/infra/clues"
	"carbrand-quiz/internal/infra/memory"
	"carbrand-quiz/internal/infra/postgres"
	redisinfra "carbrand-quiz/internal/infra/redis"
	"carbrand-quiz/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// env bundles the backends selected by the config for one command run.
type env struct {
	cfg       config.Config
	questions app.QuestionStore
	sessions  app.SessionRepository
	ledger    app.ScoreLedger
	service   *app.GameService
	clues     *clues.Library
	closers   []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openEnvWithConfig(ctx, cfg)
}

func openEnvWithConfig(ctx context.Context, cfg config.Config) (*env, error) {
	e := &env{cfg: cfg, clues: clues.NewLibrary(cfg.Clues.Dir)}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		e.closers = append(e.closers, func() { _ = redisClient.Close() })
	}

	var (
		questions app.QuestionStore
		ledger    app.ScoreLedger
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewQuestionStore()
		if _, err := app.SeedSamples(ctx, store); err != nil {
			e.Close()
			return nil, err
		}
		questions, ledger = store, memory.NewScoreLedger()
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, func() { _ = store.Close() })
		questions, ledger = store, store
	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, cfg.Postgres.URL); err != nil {
			e.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, pool.Close)
		store := postgres.NewStore(pool)
		questions, ledger = store, store
	default:
		e.Close()
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, time.Minute)
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	var sessions app.SessionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionCache(redisClient, questions, cacheTTL)
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		// memory and sqlite stores are cheap to read and sqlite is shared with
		// authoring commands running in other processes
		if cfg.Store.Driver == config.DriverPostgres {
			questions = memory.NewQuestionCache(questions, cacheTTL)
		}
		sessions = memory.NewSessionStore()
	}
	if cfg.Ledger.Backend == config.LedgerRedis {
		if redisClient == nil {
			e.Close()
			return nil, fmt.Errorf("ledger backend redis requires redis.addr")
		}
		ledger = redisinfra.NewScoreLedger(redisClient)
	}

	log.Printf("using %s store, %s ledger", cfg.Store.Driver, cfg.Ledger.Backend)
	e.questions, e.sessions, e.ledger = questions, sessions, ledger
	e.service = app.NewGameService(sessions, questions, ledger)
	return e, nil
}
