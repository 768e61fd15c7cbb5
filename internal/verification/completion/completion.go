// Package completion implements the Completion Validator that gates
// certificate issuance.
package completion

import (
	"context"
	"log/slog"

	"bankeu/internal/verification/aggregate"
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/requestcontext"
)

type Validator struct {
	roster      aggregate.RosterResolver
	submissions aggregate.Submissions
	proposals   aggregate.Proposals
	logger      *slog.Logger
}

type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

func New(roster aggregate.RosterResolver, submissions aggregate.Submissions, proposals aggregate.Proposals, opts ...Option) *Validator {
	v := &Validator{roster: roster, submissions: submissions, proposals: proposals, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks the resolved roster of proposal. All checks run; the
// result lists every failure.
func (v *Validator) Validate(ctx context.Context, proposal domain.ProposalID, district domain.DistrictID) (*models.CompletionResult, error) {
	ev, err := aggregate.Collect(ctx, v.roster, v.submissions, v.logger, proposal, district)
	if err != nil {
		return nil, err
	}
	return v.Evaluate(ctx, proposal, ev), nil
}

// Evaluate checks an already collected roster and its questionnaires.
func (v *Validator) Evaluate(ctx context.Context, proposal domain.ProposalID, ev *models.Evidence) *models.CompletionResult {
	res := models.CheckCompletion(proposal, ev.Roster, ev.Submissions)
	if !res.Valid {
		v.logger.InfoContext(ctx, "roster incomplete",
			"proposal_id", proposal,
			"errors", len(res.Errors),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return res
}

// Check validates on behalf of an operator of the proposal's district.
func (v *Validator) Check(ctx context.Context, id domain.ProposalID) (*models.CompletionResult, error) {
	p, err := aggregate.LoadInspectable(ctx, v.proposals, id)
	if err != nil {
		return nil, err
	}
	return v.Validate(ctx, p.ID, p.DistrictID)
}

// Require returns IncompleteRoster carrying the remediation list unless
// res is valid.
func Require(res *models.CompletionResult) error {
	if res.Valid {
		return nil
	}
	return dErrors.WithDetails(dErrors.CodeIncompleteRoster, "verification roster is incomplete", res.Errors)
}
