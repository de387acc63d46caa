package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared client behind the session store and the redis
// rate limiter. Both key spaces live in the same DB, separated by prefix
// ("session:" and "ratelimit:").
type Redis struct {
	Client *redis.Client
}

// NewRedis builds a lazily connecting client. Timeouts stay short so a
// slow redis surfaces as a session or limiter error instead of a hung
// request.
func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy backs the redis entry of /healthz.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
