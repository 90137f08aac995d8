package redis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"carbrand-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ScoreLedger keeps best scores in a sorted set. ZADD GT makes the
// keep-the-higher rule atomic on the server, so concurrent writers for the
// same player cannot lower a score. First-insertion order for tie-breaks is
// kept in a hash of sequence numbers.
type ScoreLedger struct {
	client *redis.Client
}

func NewScoreLedger(client *redis.Client) *ScoreLedger {
	return &ScoreLedger{client: client}
}

func (l *ScoreLedger) Record(ctx context.Context, player string, score int) error {
	known, err := l.client.HExists(ctx, scoreSeqKey, player).Result()
	if err != nil {
		return fmt.Errorf("%w: record score: %w", domain.ErrPersistence, err)
	}
	if !known {
		seq, err := l.client.Incr(ctx, scoreSeqNextKey).Result()
		if err != nil {
			return fmt.Errorf("%w: record score: %w", domain.ErrPersistence, err)
		}
		if err := l.client.HSetNX(ctx, scoreSeqKey, player, seq).Err(); err != nil {
			return fmt.Errorf("%w: record score: %w", domain.ErrPersistence, err)
		}
	}
	if err := l.client.ZAddGT(ctx, scoresKey, redis.Z{Score: float64(score), Member: player}).Err(); err != nil {
		return fmt.Errorf("%w: record score: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (l *ScoreLedger) Leaderboard(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if err := domain.ValidateLimit(limit); err != nil {
		return nil, err
	}
	members, err := l.client.ZRevRangeWithScores(ctx, scoresKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", domain.ErrPersistence, err)
	}
	seqs, err := l.client.HGetAll(ctx, scoreSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", domain.ErrPersistence, err)
	}

	type ranked struct {
		entry domain.ScoreEntry
		seq   int64
	}
	all := make([]ranked, 0, len(members))
	for _, m := range members {
		name, _ := m.Member.(string)
		seq, err := strconv.ParseInt(seqs[name], 10, 64)
		if err != nil {
			seq = math.MaxInt64
		}
		all = append(all, ranked{
			entry: domain.ScoreEntry{PlayerName: name, BestScore: int(m.Score)},
			seq:   seq,
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].entry.BestScore != all[j].entry.BestScore {
			return all[i].entry.BestScore > all[j].entry.BestScore
		}
		return all[i].seq < all[j].seq
	})
	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]domain.ScoreEntry, 0, len(all))
	for _, r := range all {
		out = append(out, r.entry)
	}
	return out, nil
}
