// Package handler exposes the proposal state machine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankeu/internal/proposal/models"
	"bankeu/internal/proposal/service"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/httputil"
	"bankeu/pkg/requestcontext"
)

// Service defines the proposal operations the handler drives.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Proposal, error)
	Get(ctx context.Context, id domain.ProposalID) (*models.Proposal, error)
	History(ctx context.Context, id domain.ProposalID) ([]*models.Decision, error)
	SubmitToKecamatan(ctx context.Context, id domain.ProposalID) (*models.Proposal, error)
	DinasDecide(ctx context.Context, id domain.ProposalID, action models.DinasAction, notes string) (*models.Proposal, error)
	KecamatanDecide(ctx context.Context, id domain.ProposalID, action models.KecamatanAction, notes string) (*models.Proposal, error)
	DPMDDecide(ctx context.Context, id domain.ProposalID, action models.DPMDAction, notes string) (*models.Proposal, error)
	SubmitReview(ctx context.Context, village domain.VillageID, action models.ReviewAction) (*models.ReviewResult, error)
	SetChannelOpen(ctx context.Context, district domain.DistrictID, open bool) error
}

// Handler wires proposal endpoints to the state machine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts proposal endpoints. The router is expected to carry the
// actor middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/proposals", h.HandleCreate)
	r.Get("/proposals/{id}", h.HandleGet)
	r.Get("/proposals/{id}/history", h.HandleHistory)
	r.Post("/proposals/{id}/submit", h.HandleSubmit)
	r.Post("/proposals/{id}/dinas-decision", h.HandleDinasDecision)
	r.Post("/proposals/{id}/kecamatan-decision", h.HandleKecamatanDecision)
	r.Post("/proposals/{id}/dpmd-decision", h.HandleDPMDDecision)
	r.Post("/villages/{villageID}/review", h.HandleReview)
	r.Put("/districts/{districtID}/submission-channel", h.HandleSetChannel)
}

func (h *Handler) proposalID(w http.ResponseWriter, r *http.Request) (domain.ProposalID, bool) {
	id, err := domain.ParseProposalID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return id, true
}

// HandleCreate handles POST /proposals.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.Create(ctx, service.CreateRequest{
		VillageID:   domain.VillageID(req.VillageID),
		ActivityID:  domain.ActivityID(req.ActivityID),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "create proposal failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromProposal(p))
}

// HandleGet handles GET /proposals/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "get proposal failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// HandleHistory handles GET /proposals/{id}/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.History(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "proposal history failed", err)
		return
	}
	if entries == nil {
		entries = []*models.Decision{}
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{ProposalID: id, Entries: entries})
}

// HandleSubmit handles POST /proposals/{id}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	p, err := h.service.SubmitToKecamatan(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "submit to kecamatan failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// HandleDinasDecision handles POST /proposals/{id}/dinas-decision.
func (h *Handler) HandleDinasDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DinasDecisionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.DinasDecide(ctx, id, req.action, req.Notes)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "dinas decision failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// HandleKecamatanDecision handles POST /proposals/{id}/kecamatan-decision.
func (h *Handler) HandleKecamatanDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[KecamatanDecisionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.KecamatanDecide(ctx, id, req.action, req.Notes)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "kecamatan decision failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// HandleDPMDDecision handles POST /proposals/{id}/dpmd-decision.
func (h *Handler) HandleDPMDDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DPMDDecisionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.DPMDDecide(ctx, id, req.action, req.Notes)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "dpmd decision failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProposal(p))
}

// HandleReview handles POST /villages/{villageID}/review.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	village, err := domain.ParseVillageID(chi.URLParam(r, "villageID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.SubmitReview(ctx, village, req.action)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "kecamatan review failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromReviewResult(res))
}

// HandleSetChannel handles PUT /districts/{districtID}/submission-channel.
func (h *Handler) HandleSetChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	district, err := domain.ParseDistrictID(chi.URLParam(r, "districtID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChannelRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.SetChannelOpen(ctx, district, *req.Open); err != nil {
		httputil.Fail(ctx, w, h.logger, "set submission channel failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
