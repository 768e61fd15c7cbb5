// Package gate answers the external preconditions of a village-wide
// kecamatan review: whether the district's submission channel is open and
// whether the village has a cover letter.
package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
)

const channelKeyPrefix = "bankeu:submission-channel:district:"

func channelKey(district domain.DistrictID) string {
	return channelKeyPrefix + district.String()
}

// RedisChannel keeps the per-district open flag in Redis. A missing key
// means closed.
type RedisChannel struct {
	client *redis.Client
}

func NewRedisChannel(client *redis.Client) *RedisChannel {
	return &RedisChannel{client: client}
}

func (g *RedisChannel) IsOpen(ctx context.Context, district domain.DistrictID) (bool, error) {
	v, err := g.client.Get(ctx, channelKey(district)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read submission channel: %w: %w", sentinel.ErrUnavailable, err)
	}
	open, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse submission channel %q: %w", v, err)
	}
	return open, nil
}

func (g *RedisChannel) SetOpen(ctx context.Context, district domain.DistrictID, open bool) error {
	if err := g.client.Set(ctx, channelKey(district), strconv.FormatBool(open), 0).Err(); err != nil {
		return fmt.Errorf("write submission channel: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// MemoryChannel is the in-process fallback when Redis is not configured.
type MemoryChannel struct {
	mu   sync.RWMutex
	open map[domain.DistrictID]bool
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{open: make(map[domain.DistrictID]bool)}
}

func (g *MemoryChannel) IsOpen(_ context.Context, district domain.DistrictID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.open[district], nil
}

func (g *MemoryChannel) SetOpen(_ context.Context, district domain.DistrictID, open bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open[district] = open
	return nil
}

// PostgresCoverLetters reads the flag written by the cover-letter generator.
type PostgresCoverLetters struct {
	db *sql.DB
}

func NewPostgresCoverLetters(db *sql.DB) *PostgresCoverLetters {
	return &PostgresCoverLetters{db: db}
}

func (c *PostgresCoverLetters) HasCoverLetter(ctx context.Context, village domain.VillageID) (bool, error) {
	var ok bool
	err := txcontext.Use(ctx, c.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cover_letters WHERE village_id = $1)`, int64(village)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check cover letter: %w", err)
	}
	return ok, nil
}

// MemoryCoverLetters is a settable flag set for tests and local runs.
type MemoryCoverLetters struct {
	mu       sync.RWMutex
	villages map[domain.VillageID]bool
}

func NewMemoryCoverLetters() *MemoryCoverLetters {
	return &MemoryCoverLetters{villages: make(map[domain.VillageID]bool)}
}

func (c *MemoryCoverLetters) Set(village domain.VillageID, issued bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.villages[village] = issued
}

func (c *MemoryCoverLetters) HasCoverLetter(_ context.Context, village domain.VillageID) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.villages[village], nil
}
