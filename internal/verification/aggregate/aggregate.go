// Package aggregate implements the Questionnaire Aggregator. Preview and
// certificate finalization both call Aggregate, so what an operator previews
// is what the certificate snapshots.
package aggregate

import (
	"context"
	"errors"
	"log/slog"

	proposalmodels "bankeu/internal/proposal/models"
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/sentinel"
	"bankeu/pkg/requestcontext"
)

type RosterResolver interface {
	Resolve(ctx context.Context, district domain.DistrictID, proposal domain.ProposalID) ([]*models.RosterEntry, error)
}

type Submissions interface {
	ListSubmissions(ctx context.Context, proposal domain.ProposalID) ([]*models.Submission, error)
}

type Proposals interface {
	FindByID(ctx context.Context, id domain.ProposalID) (*proposalmodels.Proposal, error)
}

type Aggregator struct {
	roster      RosterResolver
	submissions Submissions
	proposals   Proposals
	logger      *slog.Logger
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

func New(roster RosterResolver, submissions Submissions, proposals Proposals, opts ...Option) *Aggregator {
	a := &Aggregator{roster: roster, submissions: submissions, proposals: proposals, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes the consensus checklist. The caller is trusted to have
// authorized access to the proposal.
func (a *Aggregator) Aggregate(ctx context.Context, proposal domain.ProposalID, district domain.DistrictID) (*models.AggregateResult, error) {
	ev, err := a.Collect(ctx, proposal, district)
	if err != nil {
		return nil, err
	}
	return models.Aggregate(proposal, district, ev.Roster, ev.Submissions), nil
}

// Collect resolves the roster and lists the questionnaires once.
func (a *Aggregator) Collect(ctx context.Context, proposal domain.ProposalID, district domain.DistrictID) (*models.Evidence, error) {
	return Collect(ctx, a.roster, a.submissions, a.logger, proposal, district)
}

func Collect(
	ctx context.Context,
	roster RosterResolver,
	submissions Submissions,
	logger *slog.Logger,
	proposal domain.ProposalID,
	district domain.DistrictID,
) (*models.Evidence, error) {
	entries, err := roster.Resolve(ctx, district, proposal)
	if err != nil {
		return nil, err
	}
	subs, err := submissions.ListSubmissions(ctx, proposal)
	if err != nil {
		return nil, storageError(ctx, logger, err, "list questionnaires")
	}
	return &models.Evidence{Roster: entries, Submissions: subs}, nil
}

// Preview returns the aggregate for an operator of the proposal's district.
func (a *Aggregator) Preview(ctx context.Context, id domain.ProposalID) (*models.AggregateResult, error) {
	p, err := LoadInspectable(ctx, a.proposals, id)
	if err != nil {
		return nil, err
	}
	return a.Aggregate(ctx, p.ID, p.DistrictID)
}

// LoadInspectable loads a proposal for a caller allowed to read its
// verification results.
func LoadInspectable(ctx context.Context, proposals Proposals, id domain.ProposalID) (*proposalmodels.Proposal, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	p, err := proposals.FindByID(ctx, id)
	if err != nil {
		var de *dErrors.Error
		switch {
		case errors.As(err, &de):
			return nil, err
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "proposal not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "load proposal")
		}
	}
	if !models.CanInspect(actor, p.DistrictID) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with district %s", actor.Role, actor.UserID, p.DistrictID)
	}
	return p, nil
}

func storageError(ctx context.Context, logger *slog.Logger, err error, op string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	logger.ErrorContext(ctx, "verification storage failure",
		"operation", op,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeStorage, op)
}
