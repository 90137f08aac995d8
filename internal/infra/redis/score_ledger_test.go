package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carbrand-quiz/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestScoreLedgerKeepsHigherScore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewScoreLedger(newClient(mr))

	for _, s := range []int{30, 5, 45, 10} {
		if err := ledger.Record(ctx, "Alice", s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	top, err := ledger.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 1 || top[0].BestScore != 45 {
		t.Fatalf("expected Alice at 45, got %+v", top)
	}
}

func TestScoreLedgerTiesFollowInsertionOrder(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewScoreLedger(newClient(mr))
	_ = ledger.Record(ctx, "Zed", 20)
	_ = ledger.Record(ctx, "Amy", 20)
	_ = ledger.Record(ctx, "Max", 35)
	_ = ledger.Record(ctx, "Zed", 10)

	top, err := ledger.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 2 || top[0].PlayerName != "Max" || top[1].PlayerName != "Zed" {
		t.Fatalf("expected Max then Zed, got %+v", top)
	}

	if _, err := ledger.Leaderboard(ctx, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestScoreLedgerUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	ledger := NewScoreLedger(newClient(mr))
	mr.Close()

	if err := ledger.Record(context.Background(), "Alice", 10); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestScoreLedgerConcurrentRecordsKeepMax(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewScoreLedger(newClient(mr))

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
			if err := ledger.Record(ctx, "Alice", score); err != nil {
				errs <- err
			}
		}((i*37)%101 - 10)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("record: %v", err)
	}

	top, err := ledger.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 1 || top[0] != (domain.ScoreEntry{PlayerName: "Alice", BestScore: best}) {
		t.Fatalf("expected (Alice, %d), got %+v", best, top)
	}
}
