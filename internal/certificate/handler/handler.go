// Package handler exposes certificate issuance, history and the public
// verification endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankeu/internal/certificate/models"
	"bankeu/internal/certificate/service"
	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/platform/httputil"
	"bankeu/pkg/requestcontext"
)

type Finalizer interface {
	Finalize(ctx context.Context, req service.FinalizeRequest) (*models.IssueResult, error)
}

type Ledger interface {
	Verify(ctx context.Context, code string) (*models.Verification, error)
	History(ctx context.Context, village domain.VillageID, activity domain.OptionalActivity) ([]*models.Entry, error)
}

type Handler struct {
	finalizer Finalizer
	ledger    Ledger
	logger    *slog.Logger
}

func New(finalizer Finalizer, ledger Ledger, logger *slog.Logger) *Handler {
	return &Handler{finalizer: finalizer, ledger: ledger, logger: logger}
}

// Register mounts the authenticated endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/proposals/{id}/certificate", h.HandleFinalize)
	r.Get("/villages/{villageID}/certificates", h.HandleHistory)
}

// RegisterPublic mounts the endpoints that need no actor.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/certificates/verify/{code}", h.HandleVerify)
}

// HandleFinalize handles POST /proposals/{id}/certificate.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseProposalID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.finalizer.Finalize(ctx, service.FinalizeRequest{
		ProposalID: id,
		File:       models.FileMeta{Path: req.FilePath, Name: req.FileName, Size: req.FileSize},
		Blanket:    req.Blanket,
	})
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "issue certificate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleHistory handles GET /villages/{villageID}/certificates. Without
// activity_id the blanket certificates are listed.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	village, err := domain.ParseVillageID(chi.URLParam(r, "villageID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var activity domain.OptionalActivity
	if raw := r.URL.Query().Get("activity_id"); raw != "" {
		id, err := domain.ParseActivityID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		activity = domain.SomeActivity(id)
	}
	entries, err := h.ledger.History(ctx, village, activity)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "certificate history failed", err)
		return
	}
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromEntry(e))
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{VillageID: village, ActivityID: activity.Ptr(), Entries: out})
}

// HandleVerify handles GET /certificates/verify/{code}.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")
	if len(code) > maxCodeLength {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "certificate code too long"))
		return
	}
	v, err := h.ledger.Verify(ctx, code)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "verify certificate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

const maxCodeLength = 128
