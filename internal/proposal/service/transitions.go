package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"bankeu/internal/proposal/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/sentinel"
	"bankeu/pkg/requestcontext"
)

// CreateRequest carries a village's new proposal.
type CreateRequest struct {
	VillageID   domain.VillageID
	ActivityID  domain.ActivityID
	Amount      int64
	Description string
}

// Create inserts a proposal in the unset/unset/unset state.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Proposal, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !actor.CanActForVillage(req.VillageID) {
		return nil, forbidden(actor, "village "+req.VillageID.String())
	}
	district, err := s.store.VillageDistrict(ctx, req.VillageID)
	if err != nil {
		return nil, s.translate(ctx, err, "find village")
	}
	now := requestcontext.Now(ctx)
	p, err := models.NewProposal(req.VillageID, district, req.ActivityID, req.Amount, req.Description, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, p); err != nil {
			return err
		}
		if err := s.store.AppendDecision(ctx, &models.Decision{
			ProposalID: p.ID,
			Stage:      models.StageVillage,
			Action:     "create",
			To:         p.State.String(),
			ActorID:    actor.UserID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			Type:       audit.EventProposalCreated,
			Timestamp:  now,
			ActorID:    actor.UserID,
			ProposalID: p.ID,
			VillageID:  p.VillageID,
			DistrictID: p.DistrictID,
		})
	})
	if err != nil {
		return nil, s.translate(ctx, err, "create proposal")
	}
	s.logger.InfoContext(ctx, "proposal created",
		"proposal_id", p.ID,
		"village_id", p.VillageID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

// Get returns a proposal visible to the caller.
func (s *Service) Get(ctx context.Context, id domain.ProposalID) (*models.Proposal, error) {
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, p) {
		return nil, forbidden(actor, "proposal "+id.String())
	}
	return p, nil
}

// History returns the proposal's transitions oldest first.
func (s *Service) History(ctx context.Context, id domain.ProposalID) ([]*models.Decision, error) {
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, p) {
		return nil, forbidden(actor, "proposal "+id.String())
	}
	decisions, err := s.store.ListDecisions(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err, "list decisions")
	}
	return decisions, nil
}

func canView(actor domain.Actor, p *models.Proposal) bool {
	if actor.Role == domain.RoleVillage {
		return actor.CanActForVillage(p.VillageID)
	}
	return actor.CanActForDistrict(actor.Role, p.DistrictID)
}

// SubmitToKecamatan sends a dinas-approved proposal, or one kecamatan
// returned, to the district team.
func (s *Service) SubmitToKecamatan(ctx context.Context, id domain.ProposalID) (*models.Proposal, error) {
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActForVillage(p.VillageID) {
		return nil, forbidden(actor, "village "+p.VillageID.String())
	}
	if err := p.CanSubmitToKecamatan(); err != nil {
		return nil, s.rejected(ctx, p, "submit to kecamatan", err)
	}
	return s.commit(ctx, p, actor, transition{
		stage:  models.StageVillage,
		action: "submit",
		event:  audit.EventProposalSubmitted,
		apply: func(next *models.Proposal, _ domain.UserID, now time.Time) {
			next.ApplySubmitToKecamatan(now)
		},
	})
}

// DinasDecide records the technical agency's verdict.
func (s *Service) DinasDecide(ctx context.Context, id domain.ProposalID, action models.DinasAction, notes string) (*models.Proposal, error) {
	notes = strings.TrimSpace(notes)
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeDistrict(actor, domain.RoleDinas, p.DistrictID); err != nil {
		return nil, err
	}
	if action == models.DinasReject && notes == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "notes are required when rejecting")
	}
	if err := p.CanDinasDecide(action); err != nil {
		return nil, s.rejected(ctx, p, "dinas "+string(action), err)
	}
	event := audit.EventDinasApproved
	if action == models.DinasReject {
		event = audit.EventDinasRejected
	}
	return s.commit(ctx, p, actor, transition{
		stage:  models.StageDinas,
		action: string(action),
		notes:  notes,
		event:  event,
		apply: func(next *models.Proposal, by domain.UserID, now time.Time) {
			next.ApplyDinasDecision(action, by, notes, now)
		},
	})
}

// KecamatanDecide records the district team's verdict on one proposal.
// Reject and revision return the proposal to the village; approve leaves it
// at kecamatan until the village-wide review forwards it.
func (s *Service) KecamatanDecide(ctx context.Context, id domain.ProposalID, action models.KecamatanAction, notes string) (*models.Proposal, error) {
	notes = strings.TrimSpace(notes)
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeDistrict(actor, domain.RoleKecamatan, p.DistrictID); err != nil {
		return nil, err
	}
	if action != models.KecamatanApprove && notes == "" {
		return nil, dErrors.Newf(dErrors.CodeValidation, "notes are required for %s", action)
	}
	if err := p.CanKecamatanDecide(action); err != nil {
		return nil, s.rejected(ctx, p, "kecamatan "+string(action), err)
	}
	var event audit.EventType
	switch action {
	case models.KecamatanApprove:
		event = audit.EventKecamatanApproved
	case models.KecamatanReject:
		event = audit.EventKecamatanRejected
	case models.KecamatanRevision:
		event = audit.EventKecamatanRevision
	}
	return s.commit(ctx, p, actor, transition{
		stage:  models.StageKecamatan,
		action: string(action),
		notes:  notes,
		event:  event,
		apply: func(next *models.Proposal, by domain.UserID, now time.Time) {
			next.ApplyKecamatanDecision(action, by, notes, now)
		},
	})
}

// DPMDDecide records the terminal decision on a forwarded proposal.
func (s *Service) DPMDDecide(ctx context.Context, id domain.ProposalID, action models.DPMDAction, notes string) (*models.Proposal, error) {
	notes = strings.TrimSpace(notes)
	p, actor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeDistrict(actor, domain.RoleDPMD, p.DistrictID); err != nil {
		return nil, err
	}
	if err := p.CanDPMDDecide(action); err != nil {
		return nil, s.rejected(ctx, p, "dpmd "+string(action), err)
	}
	event := audit.EventDPMDApproved
	if action == models.DPMDReject {
		event = audit.EventDPMDRejected
	}
	return s.commit(ctx, p, actor, transition{
		stage:  models.StageDPMD,
		action: string(action),
		notes:  notes,
		event:  event,
		apply: func(next *models.Proposal, by domain.UserID, now time.Time) {
			next.ApplyDPMDDecision(action, by, notes, now)
		},
	})
}

// SubmitReview forwards (submit) or returns (return) every proposal of the
// village awaiting kecamatan review. Preconditions are reported together;
// the mutation is one conditioned bulk update.
func (s *Service) SubmitReview(ctx context.Context, village domain.VillageID, action models.ReviewAction) (*models.ReviewResult, error) {
	ctx, span := tracer.Start(ctx, "proposal.submit_review")
	defer span.End()
	span.SetAttributes(attribute.Int64("village.id", int64(village)), attribute.String("review.action", string(action)))

	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	district, err := s.store.VillageDistrict(ctx, village)
	if err != nil {
		return nil, s.translate(ctx, err, "find village")
	}
	if err := authorizeDistrict(actor, domain.RoleKecamatan, district); err != nil {
		return nil, err
	}

	pending, err := s.store.ListAwaitingReview(ctx, village)
	if err != nil {
		return nil, s.translate(ctx, err, "list proposals awaiting review")
	}
	if len(pending) == 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot %s review: no proposals of village %s await kecamatan review", action, village)
	}

	if action == models.ReviewSubmit {
		unmet, err := s.forwardPreconditions(ctx, village, district, pending)
		if err != nil {
			return nil, err
		}
		if len(unmet) > 0 {
			s.logger.WarnContext(ctx, "review submission rejected",
				"village_id", village,
				"unmet", unmet,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.WithDetails(dErrors.CodeInvalidTransition,
				fmt.Sprintf("cannot submit review of village %s to dpmd: %d precondition(s) not met", village, len(unmet)), unmet)
		}
	}

	expected := make([]domain.ProposalID, len(pending))
	for i, p := range pending {
		expected[i] = p.ID
	}
	now := requestcontext.Now(ctx)

	var updated []domain.ProposalID
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		switch action {
		case models.ReviewSubmit:
			updated, err = s.store.ForwardToDPMD(ctx, village, expected, now)
		case models.ReviewReturn:
			updated, err = s.store.ReturnToVillage(ctx, village, expected, now)
		default:
			return dErrors.Newf(dErrors.CodeValidation, "unknown review action %q", action)
		}
		if err != nil {
			return err
		}
		for _, p := range pending {
			next := p.Clone()
			if action == models.ReviewSubmit {
				next.ApplyForwardToDPMD(now)
			} else {
				next.ApplyReturnToVillage(now)
			}
			if err := s.store.AppendDecision(ctx, &models.Decision{
				ProposalID: p.ID,
				Stage:      models.StageKecamatanReview,
				Action:     string(action),
				From:       p.State.String(),
				To:         next.State.String(),
				ActorID:    actor.UserID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		event := audit.EventReviewSubmitted
		if action == models.ReviewReturn {
			event = audit.EventReviewReturned
		}
		return s.emit(ctx, audit.Event{
			Type:       event,
			Timestamp:  now,
			ActorID:    actor.UserID,
			VillageID:  village,
			DistrictID: district,
			Affected:   len(updated),
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrStateChanged) {
			s.metrics.IncrementConflict(string(models.StageKecamatanReview))
		}
		span.RecordError(err)
		return nil, s.translate(ctx, err, "submit review")
	}

	s.metrics.IncrementTransition(string(models.StageKecamatanReview), string(action))
	s.logger.InfoContext(ctx, "kecamatan review committed",
		"village_id", village,
		"action", action,
		"affected", len(updated),
		"actor_id", actor.UserID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.ReviewResult{
		VillageID:   village,
		Action:      action,
		Affected:    len(updated),
		ProposalIDs: updated,
	}, nil
}

func (s *Service) forwardPreconditions(ctx context.Context, village domain.VillageID, district domain.DistrictID, pending []*models.Proposal) ([]string, error) {
	var unmet []string
	open, err := s.channel.IsOpen(ctx, district)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "read submission channel")
	}
	if !open {
		unmet = append(unmet, fmt.Sprintf("submission channel for district %s is closed", district))
	}
	hasLetter, err := s.covers.HasCoverLetter(ctx, village)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "read cover letter")
	}
	if !hasLetter {
		unmet = append(unmet, fmt.Sprintf("village %s has no cover letter", village))
	}
	for _, p := range pending {
		unmet = append(unmet, p.ForwardBlockers()...)
	}
	return unmet, nil
}

// SetChannelOpen opens or closes a district's submission channel.
func (s *Service) SetChannelOpen(ctx context.Context, district domain.DistrictID, open bool) error {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !actor.CanActForDistrict(domain.RoleDPMD, district) && !actor.CanActForDistrict(domain.RoleDinas, district) {
		return forbidden(actor, "district "+district.String())
	}
	if err := s.channel.SetOpen(ctx, district, open); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "write submission channel")
	}
	s.logger.InfoContext(ctx, "submission channel updated",
		"district_id", district,
		"open", open,
		"actor_id", actor.UserID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
