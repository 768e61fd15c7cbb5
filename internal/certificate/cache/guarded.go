package cache

import (
	"context"
	"log/slog"
	"sync"

	"bankeu/internal/certificate/models"
	"bankeu/pkg/platform/circuit"
)

type backend interface {
	Get(ctx context.Context, code string) (*models.Verification, bool, error)
	Set(ctx context.Context, v *models.Verification) error
	Supersede(ctx context.Context, codes ...string) error
}

// Guarded stops reading from an unhealthy cache. While the breaker is open
// reads report a miss without touching the backend; writes still go through
// and close the breaker once the backend recovers.
//
// Codes whose tombstone could not be written are retried before the next
// read. Until that succeeds reads bypass the cache and latest writes for
// those codes are dropped.
type Guarded struct {
	inner   backend
	breaker *circuit.Breaker
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewGuarded(inner backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{
		inner:   inner,
		breaker: breaker,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

func (g *Guarded) Get(ctx context.Context, code string) (*models.Verification, bool, error) {
	if g.breaker.IsOpen() || !g.flushPending(ctx) {
		return nil, false, nil
	}
	v, ok, err := g.inner.Get(ctx, code)
	if err != nil {
		g.failure(ctx, err)
		return nil, false, err
	}
	g.success(ctx)
	return v, ok, nil
}

func (g *Guarded) Set(ctx context.Context, v *models.Verification) error {
	if v.IsLatest && g.isPending(v.Code) {
		return nil
	}
	if err := g.inner.Set(ctx, v); err != nil {
		g.failure(ctx, err)
		return err
	}
	g.success(ctx)
	return nil
}

func (g *Guarded) Supersede(ctx context.Context, codes ...string) error {
	if err := g.inner.Supersede(ctx, codes...); err != nil {
		g.mu.Lock()
		for _, code := range codes {
			g.pending[code] = struct{}{}
		}
		g.mu.Unlock()
		g.failure(ctx, err)
		return err
	}
	g.success(ctx)
	return nil
}

func (g *Guarded) isPending(code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[code]
	return ok
}

// flushPending reports whether no tombstones are outstanding.
func (g *Guarded) flushPending(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.pending) == 0 {
		return true
	}
	codes := make([]string, 0, len(g.pending))
	for code := range g.pending {
		codes = append(codes, code)
	}
	if err := g.inner.Supersede(ctx, codes...); err != nil {
		g.failure(ctx, err)
		return false
	}
	clear(g.pending)
	g.success(ctx)
	return true
}

func (g *Guarded) failure(ctx context.Context, err error) {
	if _, change := g.breaker.RecordFailure(); change.Opened {
		g.logger.WarnContext(ctx, "verify cache circuit opened",
			"breaker", g.breaker.Name(),
			"error", err,
		)
	}
}

func (g *Guarded) success(ctx context.Context) {
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "verify cache circuit closed", "breaker", g.breaker.Name())
	}
}
