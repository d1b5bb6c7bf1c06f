package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/examprep/internal/summary"
)

// redisClient is the subset of *redis.Client the summary repo uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisSummaryRepo stores the last summary under LastSummaryKey in Redis,
// for dashboards that read it from another process.
type RedisSummaryRepo struct {
	client redisClient
	prefix string

	mu sync.Mutex // orders read-compare-write in SaveLast
}

// NewRedisSummaryRepo creates a repo. prefix namespaces the key, e.g. per
// learner; empty means no prefix.
func NewRedisSummaryRepo(client redisClient, prefix string) *RedisSummaryRepo {
	return &RedisSummaryRepo{client: client, prefix: prefix}
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisSummaryRepo) key() string {
	if r.prefix == "" {
		return LastSummaryKey
	}
	return r.prefix + ":" + LastSummaryKey
}

// SaveLast replaces the stored summary unless the stored one completed
// later.
func (r *RedisSummaryRepo) SaveLast(ctx context.Context, s summary.Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.client.Get(ctx, r.key()).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return fmt.Errorf("get last summary: %w", err)
	default:
		if stored, derr := decodeSummary(raw); derr == nil && supersedes(stored, s) {
			return nil
		}
	}

	if err := r.client.Set(ctx, r.key(), b, 0).Err(); err != nil {
		return fmt.Errorf("save last summary: %w", err)
	}
	return nil
}

func (r *RedisSummaryRepo) Last(ctx context.Context) (*summary.Summary, error) {
	b, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last summary: %w", err)
	}
	return decodeSummary(b)
}
