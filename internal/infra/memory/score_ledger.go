package memory

import (
	"context"
	"sort"
	"sync"

	"carbrand-quiz/internal/domain"
)

// ScoreLedger keeps best scores in memory; data is lost on restart.
type ScoreLedger struct {
	mu      sync.Mutex
	entries []*ledgerEntry
	byName  map[string]*ledgerEntry
}

type ledgerEntry struct {
	player string
	best   int
	seq    int
}

func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{byName: make(map[string]*ledgerEntry)}
}

func (l *ScoreLedger) Record(_ context.Context, player string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.byName[player]; ok {
		if score > e.best {
			e.best = score
		}
		return nil
	}
	e := &ledgerEntry{player: player, best: score, seq: len(l.entries)}
	l.entries = append(l.entries, e)
	l.byName[player] = e
	return nil
}

func (l *ScoreLedger) Leaderboard(_ context.Context, limit int) ([]domain.ScoreEntry, error) {
	if err := domain.ValidateLimit(limit); err != nil {
		return nil, err
	}
	l.mu.Lock()
	sorted := make([]ledgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		sorted = append(sorted, *e)
	}
	l.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].best != sorted[j].best {
			return sorted[i].best > sorted[j].best
		}
		return sorted[i].seq < sorted[j].seq
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]domain.ScoreEntry, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, domain.ScoreEntry{PlayerName: e.player, BestScore: e.best})
	}
	return out, nil
}
