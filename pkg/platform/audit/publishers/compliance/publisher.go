// Package compliance provides a fail-closed publisher for workflow events.
//
// Every stage decision and certificate issuance is compliance-significant:
// the event is written to the outbox inside the caller's transaction, and if
// the write fails the calling operation fails with it.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "bankeu/pkg/platform/audit"
	"bankeu/pkg/requestcontext"
)

// Publisher emits workflow events with fail-closed semantics.
// All writes are synchronous - the caller blocks until persistence succeeds or fails.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher.
// The store must be outbox-backed for guaranteed delivery.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes an event. Returns error if persistence fails -
// the caller MUST fail its operation.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.Type == "" {
		return fmt.Errorf("workflow event requires Type")
	}
	if event.ActorID.IsZero() {
		return fmt.Errorf("workflow event %s requires ActorID", event.Type)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "workflow event persistence failed",
				"type", event.Type,
				"proposal_id", event.ProposalID,
				"error", err,
			)
		}
		return fmt.Errorf("workflow event persistence failed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.ObservePersistDuration(time.Since(start).Seconds())
		p.metrics.IncEventsEmitted(string(event.Type))
	}
	return nil
}
