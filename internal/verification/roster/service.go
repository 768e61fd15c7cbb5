// Package roster implements the Verifier Registry: the per-district team of
// named reviewers and the rule that resolves which of them verify a given
// proposal.
package roster

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	proposalmodels "bankeu/internal/proposal/models"
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/sentinel"
	txcontext "bankeu/pkg/platform/tx"
	"bankeu/pkg/requestcontext"
)

type Store interface {
	CreateEntry(ctx context.Context, e *models.RosterEntry) error
	UpdateEntry(ctx context.Context, e *models.RosterEntry) error
	FindEntry(ctx context.Context, id domain.RosterEntryID) (*models.RosterEntry, error)
	ListEntries(ctx context.Context, district domain.DistrictID, activeOnly bool) ([]*models.RosterEntry, error)
}

// Proposals looks up the proposal a scoped entry is bound to.
type Proposals interface {
	FindByID(ctx context.Context, id domain.ProposalID) (*proposalmodels.Proposal, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store     Store
	proposals Proposals
	tx        txcontext.Runner
	publisher EventPublisher
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func New(store Store, proposals Proposals, tx txcontext.Runner, opts ...Option) *Service {
	s := &Service{store: store, proposals: proposals, tx: tx, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertRequest creates an entry when ID is zero and replaces its profile
// otherwise.
type UpsertRequest struct {
	ID         domain.RosterEntryID
	DistrictID domain.DistrictID
	Role       models.Role
	Name       string
	Position   string
	OfficialID string
	ProposalID domain.ProposalID
}

const maxFieldLength = 200

func (r *UpsertRequest) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Position = strings.TrimSpace(r.Position)
	r.OfficialID = strings.TrimSpace(r.OfficialID)
	if r.DistrictID.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "district is required")
	}
	role, err := models.ParseRole(string(r.Role))
	if err != nil {
		return err
	}
	r.Role = role
	for field, v := range map[string]string{"name": r.Name, "position": r.Position, "official_id": r.OfficialID} {
		if len(v) > maxFieldLength {
			return dErrors.Newf(dErrors.CodeValidation, "%s must be at most %d characters", field, maxFieldLength)
		}
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, district domain.DistrictID, inspect bool) (domain.Actor, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return actor, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	allowed := models.CanManage(actor, district)
	if inspect {
		allowed = models.CanInspect(actor, district)
	}
	if !allowed {
		return actor, dErrors.Newf(dErrors.CodeForbidden, "%s operator %s is not affiliated with district %s", actor.Role, actor.UserID, district)
	}
	return actor, nil
}

func (s *Service) translate(ctx context.Context, err error, op string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "roster entry not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "the district already has an active holder of this role")
	default:
		s.logger.ErrorContext(ctx, "roster storage failure",
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeStorage, op)
	}
}

// Upsert creates or updates a roster entry.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*models.RosterEntry, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	actor, err := s.authorize(ctx, req.DistrictID, false)
	if err != nil {
		return nil, err
	}
	if !req.ProposalID.IsZero() {
		p, err := s.proposals.FindByID(ctx, req.ProposalID)
		if err != nil {
			return nil, s.translate(ctx, err, "find proposal")
		}
		if p.DistrictID != req.DistrictID {
			return nil, dErrors.Newf(dErrors.CodeValidation, "proposal %s does not belong to district %s", req.ProposalID, req.DistrictID)
		}
	}

	now := requestcontext.Now(ctx)
	var entry *models.RosterEntry
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if req.ID.IsZero() {
			entry = &models.RosterEntry{DistrictID: req.DistrictID, Active: true, CreatedAt: now}
		} else {
			cur, err := s.store.FindEntry(ctx, req.ID)
			if err != nil {
				return err
			}
			if cur.DistrictID != req.DistrictID {
				return dErrors.Newf(dErrors.CodeNotFound, "roster entry %s not found in district %s", req.ID, req.DistrictID)
			}
			entry = cur
		}
		entry.Role = req.Role
		entry.Name = req.Name
		entry.Position = req.Position
		entry.OfficialID = req.OfficialID
		entry.ProposalID = req.ProposalID
		entry.UpdatedAt = now

		if req.ID.IsZero() {
			if err := s.store.CreateEntry(ctx, entry); err != nil {
				return err
			}
		} else if err := s.store.UpdateEntry(ctx, entry); err != nil {
			return err
		}
		return s.emit(ctx, actor, entry, "upsert")
	})
	if err != nil {
		return nil, s.translate(ctx, err, "upsert roster entry")
	}
	s.logger.InfoContext(ctx, "roster entry saved",
		"roster_entry_id", entry.ID,
		"district_id", entry.DistrictID,
		"role", entry.Role,
		"request_id", requestcontext.RequestID(ctx),
	)
	return entry, nil
}

// Deactivate retires an entry. Its past questionnaires stay on record but
// it no longer resolves for any proposal.
func (s *Service) Deactivate(ctx context.Context, id domain.RosterEntryID) (*models.RosterEntry, error) {
	return s.mutate(ctx, id, "deactivate", func(e *models.RosterEntry) error {
		if !e.Active {
			return dErrors.Newf(dErrors.CodeConflict, "roster entry %s is already inactive", id)
		}
		e.Active = false
		return nil
	})
}

// SetSignature records the storage reference of an uploaded signature.
func (s *Service) SetSignature(ctx context.Context, id domain.RosterEntryID, ref string) (*models.RosterEntry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || len(ref) > 1024 {
		return nil, dErrors.New(dErrors.CodeValidation, "signature reference must be 1 to 1024 characters")
	}
	return s.mutate(ctx, id, "signature", func(e *models.RosterEntry) error {
		e.SignaturePath = ref
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, id domain.RosterEntryID, action string, fn func(*models.RosterEntry) error) (*models.RosterEntry, error) {
	actor := requestcontext.Actor(ctx)
	if actor.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	var entry *models.RosterEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.store.FindEntry(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.authorize(ctx, cur.DistrictID, false); err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}
		cur.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateEntry(ctx, cur); err != nil {
			return err
		}
		entry = cur
		return s.emit(ctx, actor, cur, action)
	})
	if err != nil {
		return nil, s.translate(ctx, err, action+" roster entry")
	}
	s.logger.InfoContext(ctx, "roster entry updated",
		"roster_entry_id", id,
		"action", action,
		"request_id", requestcontext.RequestID(ctx),
	)
	return entry, nil
}

func (s *Service) emit(ctx context.Context, actor domain.Actor, e *models.RosterEntry, action string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, audit.Event{
		Type:       audit.EventRosterUpdated,
		Timestamp:  requestcontext.Now(ctx),
		ActorID:    actor.UserID,
		ProposalID: e.ProposalID,
		DistrictID: e.DistrictID,
		To:         string(e.Role) + ":" + action,
		RequestID:  requestcontext.RequestID(ctx),
	})
}

// List returns the whole district roster, inactive entries included.
func (s *Service) List(ctx context.Context, district domain.DistrictID) ([]*models.RosterEntry, error) {
	if _, err := s.authorize(ctx, district, true); err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, district, false)
	if err != nil {
		return nil, s.translate(ctx, err, "list roster")
	}
	return entries, nil
}

// Resolve returns the entries that verify proposal. It does not check the
// caller; consumers authorize before calling it.
func (s *Service) Resolve(ctx context.Context, district domain.DistrictID, proposal domain.ProposalID) ([]*models.RosterEntry, error) {
	entries, err := s.store.ListEntries(ctx, district, true)
	if err != nil {
		return nil, s.translate(ctx, err, "resolve roster")
	}
	return models.ResolveRoster(entries, district, proposal), nil
}
