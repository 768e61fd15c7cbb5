package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"bankeu/internal/certificate/models"
	pmodels "bankeu/internal/proposal/models"
	"bankeu/internal/verification/completion"
	vmodels "bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/sentinel"
	"bankeu/pkg/requestcontext"
)

// EvidenceCollector reads the resolved roster and its questionnaires.
type EvidenceCollector interface {
	Collect(ctx context.Context, proposal domain.ProposalID, district domain.DistrictID) (*vmodels.Evidence, error)
}

type CompletionValidator interface {
	Evaluate(ctx context.Context, proposal domain.ProposalID, ev *vmodels.Evidence) *vmodels.CompletionResult
}

// Finalizer runs the issuance pipeline for a kecamatan operator:
// completion check, aggregation, roster snapshot, then the ledger. The
// roster is read once so the snapshot holds exactly the validated members.
type Finalizer struct {
	ledger    *Ledger
	proposals Proposals
	evidence  EvidenceCollector
	validator CompletionValidator
	logger    *slog.Logger
}

func NewFinalizer(ledger *Ledger, proposals Proposals, evidence EvidenceCollector, validator CompletionValidator, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalizer{
		ledger:    ledger,
		proposals: proposals,
		evidence:  evidence,
		validator: validator,
		logger:    logger,
	}
}

// FinalizeRequest names the rendered document. Blanket issues the
// certificate for every activity of the village instead of the proposal's.
type FinalizeRequest struct {
	ProposalID domain.ProposalID
	File       models.FileMeta
	Blanket    bool
}

func (f *Finalizer) Finalize(ctx context.Context, req FinalizeRequest) (*models.IssueResult, error) {
	ctx, span := tracer.Start(ctx, "certificate.finalize")
	defer span.End()
	span.SetAttributes(attribute.Int64("proposal.id", int64(req.ProposalID)))

	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	p, err := f.proposals.FindByID(ctx, req.ProposalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "proposal not found")
		}
		return nil, f.ledger.translate(ctx, err, "load proposal")
	}
	if !actor.CanActForDistrict(domain.RoleKecamatan, p.DistrictID) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with district %s", actor.Role, actor.UserID, p.DistrictID)
	}
	if err := canFinalize(p); err != nil {
		f.logger.WarnContext(ctx, "certificate refused",
			"proposal_id", p.ID,
			"current", p.State.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	ev, err := f.evidence.Collect(ctx, p.ID, p.DistrictID)
	if err != nil {
		return nil, err
	}
	if err := completion.Require(f.validator.Evaluate(ctx, p.ID, ev)); err != nil {
		return nil, err
	}
	agg := vmodels.Aggregate(p.ID, p.DistrictID, ev.Roster, ev.Submissions)

	activity := domain.SomeActivity(p.ActivityID)
	if req.Blanket {
		activity = domain.OptionalActivity{}
	}
	return f.ledger.Issue(ctx, models.IssueRequest{
		ProposalID: p.ID,
		VillageID:  p.VillageID,
		DistrictID: p.DistrictID,
		Activity:   activity,
		File:       req.File,
		IssuedBy:   actor.UserID,
		Checklist:  *agg,
		Roster:     models.SnapshotRoster(ev.Roster),
	})
}

// canFinalize allows issuance once kecamatan has approved and until the
// proposal is forwarded to dpmd.
func canFinalize(p *pmodels.Proposal) error {
	if p.Kecamatan != pmodels.KecamatanApproved {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot issue certificate: kecamatan decision is %s (current state: %s)", p.Kecamatan, p.State)
	}
	if p.SubmittedToDPMD {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot issue certificate: proposal already forwarded to dpmd (current state: %s)", p.State)
	}
	return nil
}
