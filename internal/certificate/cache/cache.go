// Package cache keeps recent certificate verifications in Redis, or in
// process when Redis is not configured.
//
// Superseding a code writes a tombstone next to the entry. A verification
// that still claims to be latest is never cached over a tombstone, so a read
// that raced an issuance cannot republish the old version as latest.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"bankeu/internal/certificate/models"
	"bankeu/pkg/platform/sentinel"
)

const keyPrefix = "bankeu:certificate:verify:"

func key(code string) string {
	return keyPrefix + code
}

func tombstoneKey(code string) string {
	return keyPrefix + "superseded:" + code
}

// KEYS[1] entry, KEYS[2] tombstone; ARGV[1] payload, ARGV[2] "1" when the
// payload claims latest, ARGV[3] ttl in milliseconds.
var setScript = redis.NewScript(`
if ARGV[2] == '1' and redis.call('EXISTS', KEYS[2]) == 1 then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// Redis caches positive verifications for ttl. Unknown codes are not
// cached. Tombstones live as long as entries.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, code string) (*models.Verification, bool, error) {
	raw, err := c.client.Get(ctx, key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read verify cache: %w: %w", sentinel.ErrUnavailable, err)
	}
	var v models.Verification
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("decode verify cache entry %s: %w", code, err)
	}
	return &v, true, nil
}

func (c *Redis) Set(ctx context.Context, v *models.Verification) error {
	if !v.Valid {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode verify cache entry: %w", err)
	}
	latest := "0"
	if v.IsLatest {
		latest = "1"
	}
	err = setScript.Run(ctx, c.client, []string{key(v.Code), tombstoneKey(v.Code)},
		raw, latest, c.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("write verify cache: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Supersede tombstones codes and drops their entries in one MULTI.
func (c *Redis) Supersede(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, code := range codes {
			pipe.Set(ctx, tombstoneKey(code), "1", c.ttl)
			pipe.Del(ctx, key(code))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("supersede verify cache: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Memory is the in-process cache used when Redis is off. It follows the
// same tombstone rule as Redis.
type Memory struct {
	mu    sync.Mutex
	items *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, 2*ttl)}
}

func (c *Memory) Get(_ context.Context, code string) (*models.Verification, bool, error) {
	x, found := c.items.Get(key(code))
	if !found {
		return nil, false, nil
	}
	v := x.(models.Verification)
	return &v, true, nil
}

func (c *Memory) Set(_ context.Context, v *models.Verification) error {
	if !v.Valid {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, superseded := c.items.Get(tombstoneKey(v.Code)); superseded && v.IsLatest {
		return nil
	}
	c.items.Set(key(v.Code), *v, gocache.DefaultExpiration)
	return nil
}

func (c *Memory) Supersede(_ context.Context, codes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, code := range codes {
		c.items.Set(tombstoneKey(code), struct{}{}, gocache.DefaultExpiration)
		c.items.Delete(key(code))
	}
	return nil
}
