package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

const (
	// Key prefixes for Redis
	scoreKeyPrefix      = "rmw:score:"
	globalRankingKey    = "rmw:ranking:global"
	dailyRankingPrefix  = "rmw:ranking:daily:"
	rankingRecordSuffix = ":records"
	playsKeyPrefix      = "rmw:plays:"

	// DefaultDailyTTL keeps a daily view readable a little past its day.
	DefaultDailyTTL = 48 * time.Hour

	maxTxRetries = 8
)

// RedisConfig holds configuration for the Redis repositories.
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client
	// Clock decides the current daily view. Defaults to the system clock.
	Clock clock.Clock
	// DailyTTL is the expiry of a daily view. Defaults to DefaultDailyTTL.
	DailyTTL time.Duration
}

func (cfg *RedisConfig) validate(ctx context.Context) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return errors.New("redis client cannot be nil")
	}
	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}
	if cfg.DailyTTL <= 0 {
		cfg.DailyTTL = DefaultDailyTTL
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}

// RedisScoreCache implements ScoreCache on plain string keys holding JSON.
type RedisScoreCache struct {
	client *redis.Client
}

var _ ScoreCache = (*RedisScoreCache)(nil)

// NewRedisScoreCache creates a Redis-backed global score cache.
func NewRedisScoreCache(ctx context.Context, cfg *RedisConfig) (*RedisScoreCache, error) {
	if err := cfg.validate(ctx); err != nil {
		return nil, err
	}
	return &RedisScoreCache{client: cfg.RedisClient}, nil
}

// Lookup implements ScoreCache.
func (c *RedisScoreCache) Lookup(ctx context.Context, prompt, response string) (model.ScoreResult, bool, error) {
	defer observe("score_lookup", time.Now())

	raw, err := c.client.Get(ctx, scoreKeyPrefix+model.NewScoreKey(prompt, response).String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ScoreResult{}, false, nil
	}
	if err != nil {
		return model.ScoreResult{}, false, fmt.Errorf("failed to get score: %w", err)
	}
	var res model.ScoreResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.ScoreResult{}, false, fmt.Errorf("failed to unmarshal score: %w", err)
	}
	return res, true, nil
}

// Save implements ScoreCache. SETNX keeps the first verdict.
func (c *RedisScoreCache) Save(ctx context.Context, prompt, response string, res model.ScoreResult) error {
	defer observe("score_save", time.Now())

	if !res.Cacheable() {
		return ErrNotCacheable
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}
	key := scoreKeyPrefix + model.NewScoreKey(prompt, response).String()
	if err := c.client.SetNX(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// RedisLeaderboard implements Leaderboard with one sorted set per view and a
// hash per view holding the JSON row of each member's best.
type RedisLeaderboard struct {
	client   *redis.Client
	clock    clock.Clock
	dailyTTL time.Duration
}

var _ Leaderboard = (*RedisLeaderboard)(nil)

// NewRedisLeaderboard creates a Redis-backed leaderboard.
func NewRedisLeaderboard(ctx context.Context, cfg *RedisConfig) (*RedisLeaderboard, error) {
	if err := cfg.validate(ctx); err != nil {
		return nil, err
	}
	return &RedisLeaderboard{client: cfg.RedisClient, clock: cfg.Clock, dailyTTL: cfg.DailyTTL}, nil
}

func dailyKey(day string) string { return dailyRankingPrefix + day }

// Submit implements Leaderboard.
func (l *RedisLeaderboard) Submit(ctx context.Context, rec model.RankingRecord) (bool, error) {
	defer observe("submit", time.Now())

	rec, err := normalizeRecord(rec, l.clock.Now())
	if err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_record")
		return false, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("failed to marshal ranking: %w", err)
	}
	member := memberID(rec)

	improved, err := l.submitView(ctx, globalRankingKey, member, rec.Score, data, 0)
	if err != nil {
		return false, fmt.Errorf("failed to submit global ranking: %w", err)
	}
	if _, err := l.submitView(ctx, dailyKey(dayOf(rec.CreatedAt)), member, rec.Score, data, l.dailyTTL); err != nil {
		return improved, fmt.Errorf("failed to submit daily ranking: %w", err)
	}
	metrics.RecordLeaderboardSubmission()
	return improved, nil
}

// submitView writes member into one view when score beats its current best.
// The sorted set is watched so the score and the stored row never disagree.
func (l *RedisLeaderboard) submitView(ctx context.Context, zkey, member string, score float64, data []byte, ttl time.Duration) (bool, error) {
	hkey := zkey + rankingRecordSuffix
	var improved bool
	txf := func(tx *redis.Tx) error {
		improved = false
		cur, err := tx.ZScore(ctx, zkey, member).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		case score <= cur:
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZAdd(ctx, zkey, redis.Z{Score: score, Member: member})
			pipe.HSet(ctx, hkey, member, data)
			if ttl > 0 {
				pipe.Expire(ctx, zkey, ttl)
				pipe.Expire(ctx, hkey, ttl)
			}
			return nil
		})
		if err == nil {
			improved = true
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := l.client.Watch(ctx, txf, zkey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, err
		}
		return improved, nil
	}
	return false, ErrConflict
}

// Global implements Leaderboard.
func (l *RedisLeaderboard) Global(ctx context.Context, n int) ([]model.RankingRecord, error) {
	return l.top(ctx, globalRankingKey, n)
}

// Daily implements Leaderboard.
func (l *RedisLeaderboard) Daily(ctx context.Context, n int) ([]model.RankingRecord, error) {
	return l.top(ctx, dailyKey(dayOf(l.clock.Now())), n)
}

func (l *RedisLeaderboard) top(ctx context.Context, zkey string, n int) ([]model.RankingRecord, error) {
	defer observe("top", time.Now())

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	members, err := l.client.ZRevRange(ctx, zkey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking: %w", err)
	}
	out := make([]model.RankingRecord, 0, len(members))
	if len(members) == 0 {
		return out, nil
	}
	rows, err := l.client.HMGet(ctx, zkey+rankingRecordSuffix, members...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking rows: %w", err)
	}
	for i, row := range rows {
		s, ok := row.(string)
		if !ok {
			// row expired between the two reads
			continue
		}
		var rec model.RankingRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ranking %s: %w", members[i], err)
		}
		out = append(out, rec)
	}
	metrics.RecordRankingsReturned(len(out))
	return out, nil
}

// RedisPlays implements PlayStore on one capped list per user, newest first.
type RedisPlays struct {
	client *redis.Client
	clock  clock.Clock
}

var _ PlayStore = (*RedisPlays)(nil)

// NewRedisPlays creates a Redis-backed play history.
func NewRedisPlays(ctx context.Context, cfg *RedisConfig) (*RedisPlays, error) {
	if err := cfg.validate(ctx); err != nil {
		return nil, err
	}
	return &RedisPlays{client: cfg.RedisClient, clock: cfg.Clock}, nil
}

// SaveUserPlay implements PlayStore.
func (p *RedisPlays) SaveUserPlay(ctx context.Context, play model.UserPlay) error {
	defer observe("play_save", time.Now())

	play, err := normalizePlay(play, p.clock.Now())
	if err != nil {
		return err
	}
	raw, err := json.Marshal(play)
	if err != nil {
		return fmt.Errorf("failed to marshal play: %w", err)
	}
	key := playsKeyPrefix + play.UserID
	pipe := p.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, MaxUserPlays-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save play: %w", err)
	}
	return nil
}

// UserPlays implements PlayStore.
func (p *RedisPlays) UserPlays(ctx context.Context, userID string, n int) ([]model.UserPlay, error) {
	defer observe("play_list", time.Now())

	if n < 1 {
		return nil, ErrInvalidLimit
	}
	raws, err := p.client.LRange(ctx, playsKeyPrefix+userID, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	out := make([]model.UserPlay, 0, len(raws))
	for _, raw := range raws {
		var play model.UserPlay
		if err := json.Unmarshal([]byte(raw), &play); err != nil {
			return nil, fmt.Errorf("failed to unmarshal play: %w", err)
		}
		out = append(out, play)
	}
	return out, nil
}
