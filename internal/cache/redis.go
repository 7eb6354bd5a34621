package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abrezinsky/eventvote/internal/models"
)

const (
	keyPrefix      = "eventvote:leaderboard"
	versionKeyFmt  = keyPrefix + ":%d:version"
	boardKeyFmt    = keyPrefix + ":%d:v%d:%s:%d"
	allDivisionKey = "all"
)

// Client is the subset of *redis.Client used by the leaderboard cache
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// NewClient creates a go-redis client and checks the connection
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rdb, nil
}

// Leaderboard caches computed leaderboards in Redis. Each event has a version
// counter that is part of every key; invalidation bumps the counter so stale
// boards are never read again and expire on their own.
type Leaderboard struct {
	client Client
	ttl    time.Duration
}

// NewLeaderboard creates a Redis-backed leaderboard cache
func NewLeaderboard(client Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{client: client, ttl: ttl}
}

// Get returns the cached leaderboard, if present, and the event version it
// was looked up under
func (c *Leaderboard) Get(ctx context.Context, eventID int, divisionID *int, limit int) ([]models.Result, int64, bool, error) {
	version, err := c.version(ctx, eventID)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.client.Get(ctx, boardKey(eventID, version, divisionID, limit)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var results []models.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached leaderboard: %w", err)
	}
	return results, version, true, nil
}

// Set stores a leaderboard under version, the one returned by the Get that
// missed. If the event was invalidated since, the board lands under a
// retired version and is never read.
func (c *Leaderboard) Set(ctx context.Context, eventID int, version int64, divisionID *int, limit int, results []models.Result) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, boardKey(eventID, version, divisionID, limit), data, c.ttl).Err()
}

// Invalidate drops every cached leaderboard of the event
func (c *Leaderboard) Invalidate(ctx context.Context, eventID int) error {
	return c.client.Incr(ctx, fmt.Sprintf(versionKeyFmt, eventID)).Err()
}

func (c *Leaderboard) version(ctx context.Context, eventID int) (int64, error) {
	v, err := c.client.Get(ctx, fmt.Sprintf(versionKeyFmt, eventID)).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func boardKey(eventID int, version int64, divisionID *int, limit int) string {
	division := allDivisionKey
	if divisionID != nil {
		division = fmt.Sprint(*divisionID)
	}
	return fmt.Sprintf(boardKeyFmt, eventID, version, division, limit)
}
