// Package outbox relays committed workflow events from the outbox table to
// the message broker consumed by the notification dispatcher.
package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	auditpg "bankeu/pkg/platform/audit/store/postgres"
)

// Source drains unpublished outbox rows in batches.
type Source interface {
	Drain(ctx context.Context, limit int, publish func(ctx context.Context, msgs []auditpg.Message) error) (int, error)
}

// Producer delivers a batch synchronously; a nil return means every message
// was acknowledged by the broker.
type Producer interface {
	Publish(ctx context.Context, msgs []auditpg.Message) error
}

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// Relay polls the outbox and publishes pending events. Delivery is
// at-least-once: a crash between broker ack and commit re-publishes the batch.
type Relay struct {
	source   Source
	producer Producer
	logger   *slog.Logger
	batch    int
	interval time.Duration
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// New constructs a Relay.
func New(source Source, producer Producer, opts ...Option) (*Relay, error) {
	if source == nil {
		return nil, errors.New("outbox source is required")
	}
	if producer == nil {
		return nil, errors.New("outbox producer is required")
	}
	r := &Relay{
		source:   source,
		producer: producer,
		logger:   slog.Default(),
		batch:    defaultBatchSize,
		interval: defaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run publishes until ctx is cancelled. A full batch is followed immediately
// by another drain; otherwise the relay waits for the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		n, err := r.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "outbox relay batch failed", "error", err)
		}
		if err == nil && n >= r.batch {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce drains a single batch.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	n, err := r.source.Drain(ctx, r.batch, r.producer.Publish)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.DebugContext(ctx, "outbox batch published", "count", n)
	}
	return n, nil
}
