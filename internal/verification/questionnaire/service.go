// Package questionnaire records verifiers' checklists.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"bankeu/internal/platform/metrics"
	"bankeu/internal/verification/aggregate"
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

type Store interface {
	UpsertSubmission(ctx context.Context, sub *models.Submission) error
	ListSubmissions(ctx context.Context, proposal domain.ProposalID) ([]*models.Submission, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store     Store
	roster    aggregate.RosterResolver
	proposals aggregate.Proposals
	tx        txcontext.Runner
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	strict    bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithStrictChecklist accepts a submission only when every item is true.
func WithStrictChecklist(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

func New(store Store, roster aggregate.RosterResolver, proposals aggregate.Proposals, tx txcontext.Runner, opts ...Option) *Service {
	s := &Service{
		store:     store,
		roster:    roster,
		proposals: proposals,
		tx:        tx,
		logger:    slog.Default(),
		strict:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest is one verifier's questionnaire.
type SubmitRequest struct {
	ProposalID     domain.ProposalID
	RosterEntryID  domain.RosterEntryID
	Items          models.Checklist
	Remarks        map[string]string
	Recommendation models.Recommendation
}

const maxRemarkLength = 1000

// Submit stores the questionnaire of one resolved roster entry, replacing
// its earlier submission for the proposal.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Submission, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if _, err := models.ParseRecommendation(string(req.Recommendation)); err != nil {
		return nil, err
	}
	if err := models.ValidateRemarks(req.Remarks); err != nil {
		return nil, err
	}
	remarks := make(map[string]string, len(req.Remarks))
	for key, text := range req.Remarks {
		text = strings.TrimSpace(text)
		if len(text) > maxRemarkLength {
			return nil, dErrors.Newf(dErrors.CodeValidation, "remark for %s must be at most %d characters", key, maxRemarkLength)
		}
		if text != "" {
			remarks[key] = text
		}
	}
	if s.strict && !req.Items.AllTrue() {
		missing := req.Items.NotTrue()
		details := make([]string, len(missing))
		for i, key := range missing {
			details[i] = key + " is not checked"
		}
		return nil, dErrors.WithDetails(dErrors.CodeValidation, "every checklist item must be checked before submitting", details)
	}

	p, err := aggregate.LoadInspectable(ctx, s.proposals, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if !models.CanManage(actor, p.DistrictID) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with district %s", actor.Role, actor.UserID, p.DistrictID)
	}
	if !p.SubmittedToKecamatan || p.SubmittedToDPMD {
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot submit questionnaire: proposal is not under kecamatan verification (current state: %s)", p.State)
	}
	if p.HasCertificate() {
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot submit questionnaire: certificate %s already issued for proposal %s", p.Certificate.Code, p.ID)
	}

	roster, err := s.roster.Resolve(ctx, p.DistrictID, p.ID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(roster, func(e *models.RosterEntry) bool { return e.ID == req.RosterEntryID }) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "roster entry %s does not verify proposal %s", req.RosterEntryID, p.ID)
	}

	now := requestcontext.Now(ctx)
	sub := &models.Submission{
		ProposalID:     p.ID,
		RosterEntryID:  req.RosterEntryID,
		Items:          req.Items,
		Remarks:        remarks,
		Recommendation: req.Recommendation,
		SubmittedAt:    now,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.UpsertSubmission(ctx, sub); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		return s.publisher.Emit(ctx, audit.Event{
			Type:       audit.EventQuestionnaireSubmitted,
			Timestamp:  now,
			ActorID:    actor.UserID,
			ProposalID: p.ID,
			VillageID:  p.VillageID,
			DistrictID: p.DistrictID,
			To:         string(req.Recommendation),
			Notes:      fmt.Sprintf("roster entry %s", req.RosterEntryID),
			RequestID:  requestcontext.RequestID(ctx),
		})
	})
	if err != nil {
		var de *dErrors.Error
		switch {
		case errors.As(err, &de):
			return nil, err
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "proposal or roster entry not found")
		}
		s.logger.ErrorContext(ctx, "questionnaire storage failure",
			"proposal_id", p.ID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "save questionnaire")
	}

	s.metrics.IncrementQuestionnaire()
	s.logger.InfoContext(ctx, "questionnaire saved",
		"proposal_id", p.ID,
		"roster_entry_id", req.RosterEntryID,
		"recommendation", req.Recommendation,
		"request_id", requestcontext.RequestID(ctx),
	)
	return sub, nil
}

// List returns the proposal's submissions.
func (s *Service) List(ctx context.Context, id domain.ProposalID) ([]*models.Submission, error) {
	p, err := aggregate.LoadInspectable(ctx, s.proposals, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, p.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "list questionnaires")
	}
	return subs, nil
}
