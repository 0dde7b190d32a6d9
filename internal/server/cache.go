package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotCache keeps recently read progress snapshots. Every uid carries a
// generation that Invalidate advances, so a snapshot read from the database
// before a write can never be stored after it.
type SnapshotCache interface {
	// Get returns the cached snapshot, if any, and uid's current
	// generation. A miss is (nil, gen, false, nil).
	Get(ctx context.Context, uid string) (map[string]bool, int64, bool, error)

	// Set stores snap unless uid's generation has moved past gen.
	Set(ctx context.Context, uid string, gen int64, snap map[string]bool) error

	// Invalidate drops the cached snapshot and advances the generation.
	Invalidate(ctx context.Context, uid string) error
}

// RedisCacheOptions configures NewRedisCache.
type RedisCacheOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts RedisCacheOptions) (SnapshotCache, func() error, error) {
	if opts.Addr == "" {
		return nil, nil, errors.New("missing redis address")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisCache{rdb: rdb, ttl: ttl}, rdb.Close, nil
}

func snapshotKey(uid string) string {
	return "carnetlify:progress:" + uid
}

// generationKey has no expiry so a generation never goes back to a value a
// slow reader may still hold.
func generationKey(uid string) string {
	return "carnetlify:progress-gen:" + uid
}

var errStaleGeneration = errors.New("snapshot generation moved")

func (r *redisCache) Get(ctx context.Context, uid string) (map[string]bool, int64, bool, error) {
	vals, err := r.rdb.MGet(ctx, snapshotKey(uid), generationKey(uid)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis mget: %w", err)
	}
	var gen int64
	if s, ok := vals[1].(string); ok {
		gen, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, 0, false, fmt.Errorf("decode generation: %w", err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var snap map[string]bool
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snap, gen, true, nil
}

func (r *redisCache) Set(ctx context.Context, uid string, gen int64, snap map[string]bool) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	err = r.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, generationKey(uid)).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, snapshotKey(uid), raw, r.ttl)
			return nil
		})
		return err
	}, generationKey(uid))
	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, goredis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("redis set: %w", err)
	}
}

func (r *redisCache) Invalidate(ctx context.Context, uid string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, generationKey(uid))
		p.Del(ctx, snapshotKey(uid))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
