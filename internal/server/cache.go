// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ============================================================================
// CACHE
// ============================================================================

// DefaultCacheTTL is how long an answer stays cached.
const DefaultCacheTTL = time.Hour

// DefaultCacheMaxEntries is the size at which new answers stop being cached.
const DefaultCacheMaxEntries = 1000

// Cache stores answers by key.
type Cache interface {
	// Get returns the cached answer. The boolean is false on a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores an answer for ttl.
	Set(ctx context.Context, key, answer string, ttl time.Duration) error
	// Len returns the number of live entries.
	Len(ctx context.Context) (int, error)
	// Close releases the backend.
	Close() error
}

// ============================================================================
// MEMORY CACHE
// ============================================================================

type memoryEntry struct {
	answer  string
	expires time.Time
}

// MemoryCache is an in-process TTL map.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return "", false, nil
	}
	return e.answer, true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key, answer string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{answer: answer, expires: c.now().Add(ttl)}
	return nil
}

// Len implements Cache. Expired entries are pruned first.
func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	return len(c.entries), nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	return nil
}

// ============================================================================
// REDIS CACHE
// ============================================================================

// RedisCache stores answers as JSON strings in a Redis database.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, db int) (*RedisCache, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	var answer string
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return "", false, fmt.Errorf("decode cached answer: %w", err)
	}
	return answer, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key, answer string, ttl time.Duration) error {
	raw, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Len implements Cache using the database size.
func (c *RedisCache) Len(ctx context.Context) (int, error) {
	n, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, fmt.Errorf("redis dbsize: %w", err)
	}
	return int(n), nil
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
