// Package service implements the proposal state machine. Every transition
// loads the proposal, checks the caller's affiliation, runs the model guard,
// and commits a conditioned update together with its history row and
// workflow event.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bankeu/internal/platform/metrics"
	"bankeu/internal/proposal/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

var tracer = otel.Tracer("bankeu/proposal")

type Store interface {
	VillageDistrict(ctx context.Context, village domain.VillageID) (domain.DistrictID, error)
	Create(ctx context.Context, p *models.Proposal) error
	FindByID(ctx context.Context, id domain.ProposalID) (*models.Proposal, error)
	CompareAndSwap(ctx context.Context, expected models.State, next *models.Proposal) error
	ListAwaitingReview(ctx context.Context, village domain.VillageID) ([]*models.Proposal, error)
	ForwardToDPMD(ctx context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error)
	ReturnToVillage(ctx context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error)
	AppendDecision(ctx context.Context, d *models.Decision) error
	ListDecisions(ctx context.Context, id domain.ProposalID) ([]*models.Decision, error)
}

// Service is the proposal state machine.
type Service struct {
	store     Store
	tx        txcontext.Runner
	channel   ChannelGate
	covers    CoverLetters
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New constructs the state machine.
func New(store Store, tx txcontext.Runner, channel ChannelGate, covers CoverLetters, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tx:      tx,
		channel: channel,
		covers:  covers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, event)
}

// load fetches the proposal for an authenticated caller.
func (s *Service) load(ctx context.Context, id domain.ProposalID) (*models.Proposal, domain.Actor, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, actor, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, actor, s.translate(ctx, err, "load proposal")
	}
	return p, actor, nil
}

func forbidden(actor domain.Actor, what string) error {
	return dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with %s", actor.Role, actor.UserID, what)
}

func authorizeDistrict(actor domain.Actor, role domain.Role, district domain.DistrictID) error {
	if !actor.CanActForDistrict(role, district) {
		return forbidden(actor, "district "+district.String())
	}
	return nil
}

// translate maps store sentinels onto workflow codes. Coded errors pass
// through untouched.
func (s *Service) translate(ctx context.Context, err error, op string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "proposal not found")
	case errors.Is(err, sentinel.ErrStateChanged):
		return dErrors.Wrap(err, dErrors.CodeConcurrencyConflict, "proposal state changed, please refresh")
	default:
		s.logger.ErrorContext(ctx, "proposal storage failure",
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeStorage, op)
	}
}

func (s *Service) rejected(ctx context.Context, p *models.Proposal, attempted string, err error) error {
	s.logger.WarnContext(ctx, "transition rejected",
		"proposal_id", p.ID,
		"attempted", attempted,
		"state", p.State.String(),
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return err
}

type transition struct {
	stage  models.Stage
	action string
	notes  string
	event  audit.EventType
	apply  func(next *models.Proposal, actor domain.UserID, now time.Time)
}

// commit applies t to a copy of p and writes it under a conditioned update.
func (s *Service) commit(ctx context.Context, p *models.Proposal, actor domain.Actor, t transition) (*models.Proposal, error) {
	ctx, span := tracer.Start(ctx, "proposal.transition")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("proposal.id", int64(p.ID)),
		attribute.String("proposal.stage", string(t.stage)),
		attribute.String("proposal.action", t.action),
	)

	now := requestcontext.Now(ctx)
	next := p.Clone()
	t.apply(next, actor.UserID, now)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CompareAndSwap(ctx, p.State, next); err != nil {
			return err
		}
		if err := s.store.AppendDecision(ctx, &models.Decision{
			ProposalID: p.ID,
			Stage:      t.stage,
			Action:     t.action,
			From:       p.State.String(),
			To:         next.State.String(),
			ActorID:    actor.UserID,
			Notes:      t.notes,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			Type:       t.event,
			Timestamp:  now,
			ActorID:    actor.UserID,
			ProposalID: p.ID,
			VillageID:  p.VillageID,
			DistrictID: p.DistrictID,
			From:       p.State.String(),
			To:         next.State.String(),
			Notes:      t.notes,
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrStateChanged) {
			s.metrics.IncrementConflict(string(t.stage))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return nil, s.translate(ctx, err, "commit transition")
	}

	s.metrics.IncrementTransition(string(t.stage), t.action)
	s.logger.InfoContext(ctx, "proposal transition committed",
		"proposal_id", p.ID,
		"stage", t.stage,
		"action", t.action,
		"from", p.State.String(),
		"to", next.State.String(),
		"actor_id", actor.UserID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return next, nil
}
