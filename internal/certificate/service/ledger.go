// Package service implements the certificate history ledger and the
// finalizer that feeds it from the verification results.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bankeu/internal/certificate/models"
	"bankeu/internal/platform/metrics"
	pmodels "bankeu/internal/proposal/models"
	vmodels "bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

var tracer = otel.Tracer("bankeu/certificate")

type Store interface {
	Issue(ctx context.Context, e *models.Entry) ([]string, error)
	FindByCode(ctx context.Context, code string) (*models.Verification, error)
	History(ctx context.Context, subject models.Subject) ([]*models.Entry, error)
}

// Proposals is the slice of the proposal store the ledger writes through.
type Proposals interface {
	FindByID(ctx context.Context, id domain.ProposalID) (*pmodels.Proposal, error)
	VillageDistrict(ctx context.Context, village domain.VillageID) (domain.DistrictID, error)
	LinkCertificate(ctx context.Context, id domain.ProposalID, link pmodels.CertificateLink) error
}

type VerifyCache interface {
	Get(ctx context.Context, code string) (*models.Verification, bool, error)
	Set(ctx context.Context, v *models.Verification) error
	Supersede(ctx context.Context, codes ...string) error
}

type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Ledger issues, verifies and lists certificate versions.
type Ledger struct {
	store     Store
	proposals Proposals
	tx        txcontext.Runner
	cache     VerifyCache
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	entropy   io.Reader
}

type Option func(*Ledger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithVerifyCache(c VerifyCache) Option {
	return func(l *Ledger) { l.cache = c }
}

// WithEntropy replaces the random source behind certificate codes.
func WithEntropy(r io.Reader) Option {
	return func(l *Ledger) { l.entropy = r }
}

func NewLedger(store Store, proposals Proposals, tx txcontext.Runner, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		proposals: proposals,
		tx:        tx,
		cache:     noCache{},
		logger:    slog.Default(),
		entropy:   rand.Reader,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*models.Verification, bool, error) {
	return nil, false, nil
}
func (noCache) Set(context.Context, *models.Verification) error { return nil }
func (noCache) Supersede(context.Context, ...string) error      { return nil }

const maxFileField = 1024

func validateIssue(req *models.IssueRequest) error {
	req.File.Path = strings.TrimSpace(req.File.Path)
	req.File.Name = strings.TrimSpace(req.File.Name)
	var details []string
	if req.ProposalID.IsZero() || req.VillageID.IsZero() || req.DistrictID.IsZero() {
		details = append(details, "proposal, village and district are required")
	}
	if req.IssuedBy.IsZero() {
		details = append(details, "issuer is required")
	}
	if req.File.Path == "" || len(req.File.Path) > maxFileField {
		details = append(details, "file path must be 1-1024 characters")
	}
	if req.File.Name == "" || len(req.File.Name) > maxFileField {
		details = append(details, "file name must be 1-1024 characters")
	}
	if req.File.Size < 0 {
		details = append(details, "file size must not be negative")
	}
	if len(details) > 0 {
		return dErrors.WithDetails(dErrors.CodeValidation, "invalid certificate", details)
	}
	return nil
}

// Issue records a new certificate version for the request's subject and
// links it to the proposal. It does not re-check roster completion.
func (l *Ledger) Issue(ctx context.Context, req models.IssueRequest) (*models.IssueResult, error) {
	ctx, span := tracer.Start(ctx, "certificate.issue")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("proposal.id", int64(req.ProposalID)),
		attribute.Int64("village.id", int64(req.VillageID)),
		attribute.Int64("activity.key", req.Activity.Key()),
	)
	started := time.Now()

	if err := validateIssue(&req); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	code, err := models.NewCode(req.DistrictID, req.ProposalID, now, l.entropy)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate certificate code")
	}
	entry := &models.Entry{
		ProposalID: req.ProposalID,
		VillageID:  req.VillageID,
		DistrictID: req.DistrictID,
		Activity:   req.Activity,
		File:       req.File,
		Code:       code,
		IssuedBy:   req.IssuedBy,
		IssuedAt:   now,
		Checklist:  req.Checklist,
		Roster:     req.Roster,
	}

	var superseded []string
	err = l.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if superseded, err = l.store.Issue(ctx, entry); err != nil {
			return err
		}
		issuedAt := now
		if err := l.proposals.LinkCertificate(ctx, req.ProposalID, pmodels.CertificateLink{
			Path: req.File.Path, Code: code, IssuedAt: &issuedAt,
		}); err != nil {
			return err
		}
		if l.publisher == nil {
			return nil
		}
		return l.publisher.Emit(ctx, audit.Event{
			Type:       audit.EventCertificateIssued,
			Timestamp:  now,
			ActorID:    req.IssuedBy,
			ProposalID: req.ProposalID,
			VillageID:  req.VillageID,
			DistrictID: req.DistrictID,
			Code:       code,
			Notes:      fmt.Sprintf("version %d", entry.Version),
			RequestID:  requestcontext.RequestID(ctx),
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue failed")
		return nil, l.translate(ctx, err, "issue certificate")
	}

	if err := l.cache.Supersede(ctx, superseded...); err != nil {
		l.logger.WarnContext(ctx, "verify cache supersede failed",
			"codes", superseded,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	l.metrics.ObserveIssue(time.Since(started).Seconds())
	l.logger.InfoContext(ctx, "certificate issued",
		"proposal_id", req.ProposalID,
		"village_id", req.VillageID,
		"activity", req.Activity.Key(),
		"version", entry.Version,
		"code", code,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.IssueResult{HistoryID: entry.ID, Version: entry.Version, Code: code}, nil
}

// Verify looks a code up. It needs no caller identity; unknown codes yield
// {valid:false} rather than an error.
func (l *Ledger) Verify(ctx context.Context, raw string) (*models.Verification, error) {
	code := models.NormalizeCode(raw)
	if code == "" {
		l.metrics.IncrementVerification("invalid")
		return &models.Verification{}, nil
	}
	if v, ok, err := l.cache.Get(ctx, code); err != nil {
		l.logger.WarnContext(ctx, "verify cache read failed", "request_id", requestcontext.RequestID(ctx), "error", err)
	} else if ok {
		l.metrics.IncrementVerification("valid")
		return v, nil
	}

	v, err := l.store.FindByCode(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		l.metrics.IncrementVerification("invalid")
		return &models.Verification{}, nil
	}
	if err != nil {
		return nil, l.translate(ctx, err, "verify certificate")
	}
	if err := l.cache.Set(ctx, v); err != nil {
		l.logger.WarnContext(ctx, "verify cache write failed", "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	l.metrics.IncrementVerification("valid")
	return v, nil
}

// History lists every version for a village and activity, newest first.
// A zero activity selects the blanket certificates.
func (l *Ledger) History(ctx context.Context, village domain.VillageID, activity domain.OptionalActivity) ([]*models.Entry, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	district, err := l.proposals.VillageDistrict(ctx, village)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "village not found")
		}
		return nil, l.translate(ctx, err, "resolve village")
	}
	if !actor.CanActForVillage(village) && !vmodels.CanInspect(actor, district) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with village %s", actor.Role, actor.UserID, village)
	}
	entries, err := l.store.History(ctx, models.Subject{VillageID: village, Activity: activity})
	if err != nil {
		return nil, l.translate(ctx, err, "list certificate history")
	}
	return entries, nil
}

func (l *Ledger) translate(ctx context.Context, err error, op string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "proposal or village not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "certificate code already exists, retry issuance")
	default:
		l.logger.ErrorContext(ctx, "certificate storage failure",
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeStorage, op)
	}
}
