// Package handler exposes roster management, questionnaires and the
// verification read models over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankeu/internal/verification/models"
	"bankeu/internal/verification/questionnaire"
	"bankeu/internal/verification/roster"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/httputil"
	"bankeu/pkg/requestcontext"
)

type RosterService interface {
	Upsert(ctx context.Context, req roster.UpsertRequest) (*models.RosterEntry, error)
	Deactivate(ctx context.Context, id domain.RosterEntryID) (*models.RosterEntry, error)
	SetSignature(ctx context.Context, id domain.RosterEntryID, ref string) (*models.RosterEntry, error)
	List(ctx context.Context, district domain.DistrictID) ([]*models.RosterEntry, error)
}

type QuestionnaireService interface {
	Submit(ctx context.Context, req questionnaire.SubmitRequest) (*models.Submission, error)
	List(ctx context.Context, id domain.ProposalID) ([]*models.Submission, error)
}

type Aggregator interface {
	Preview(ctx context.Context, id domain.ProposalID) (*models.AggregateResult, error)
}

type CompletionChecker interface {
	Check(ctx context.Context, id domain.ProposalID) (*models.CompletionResult, error)
}

type Handler struct {
	roster        RosterService
	questionnaire QuestionnaireService
	aggregator    Aggregator
	completion    CompletionChecker
	logger        *slog.Logger
}

func New(roster RosterService, questionnaire QuestionnaireService, aggregator Aggregator, completion CompletionChecker, logger *slog.Logger) *Handler {
	return &Handler{
		roster:        roster,
		questionnaire: questionnaire,
		aggregator:    aggregator,
		completion:    completion,
		logger:        logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/districts/{districtID}/roster", h.HandleListRoster)
	r.Post("/districts/{districtID}/roster", h.HandleUpsertRoster)
	r.Delete("/roster/{entryID}", h.HandleDeactivate)
	r.Put("/roster/{entryID}/signature", h.HandleSetSignature)
	r.Get("/proposals/{id}/questionnaires", h.HandleListQuestionnaires)
	r.Post("/proposals/{id}/questionnaires", h.HandleSubmitQuestionnaire)
	r.Get("/proposals/{id}/aggregate", h.HandleAggregate)
	r.Get("/proposals/{id}/completion", h.HandleCompletion)
}

func pathID[T any](w http.ResponseWriter, r *http.Request, param string, parse func(string) (T, error)) (T, bool) {
	id, err := parse(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, err)
		var zero T
		return zero, false
	}
	return id, true
}

// HandleListRoster handles GET /districts/{districtID}/roster.
func (h *Handler) HandleListRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	district, ok := pathID(w, r, "districtID", domain.ParseDistrictID)
	if !ok {
		return
	}
	entries, err := h.roster.List(ctx, district)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "list roster failed", err)
		return
	}
	if entries == nil {
		entries = []*models.RosterEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, RosterResponse{DistrictID: district, Entries: entries})
}

// HandleUpsertRoster handles POST /districts/{districtID}/roster. A body
// carrying an id replaces that entry's profile.
func (h *Handler) HandleUpsertRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	district, ok := pathID(w, r, "districtID", domain.ParseDistrictID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RosterEntryRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	entry, err := h.roster.Upsert(ctx, roster.UpsertRequest{
		ID:         domain.RosterEntryID(req.ID),
		DistrictID: district,
		Role:       models.Role(req.Role),
		Name:       req.Name,
		Position:   req.Position,
		OfficialID: req.OfficialID,
		ProposalID: domain.ProposalID(req.ProposalID),
	})
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "upsert roster entry failed", err)
		return
	}
	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, entry)
}

// HandleDeactivate handles DELETE /roster/{entryID}.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "entryID", domain.ParseRosterEntryID)
	if !ok {
		return
	}
	entry, err := h.roster.Deactivate(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "deactivate roster entry failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleSetSignature handles PUT /roster/{entryID}/signature.
func (h *Handler) HandleSetSignature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "entryID", domain.ParseRosterEntryID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SignatureRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	entry, err := h.roster.SetSignature(ctx, id, req.Path)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "set signature failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// HandleListQuestionnaires handles GET /proposals/{id}/questionnaires.
func (h *Handler) HandleListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "id", domain.ParseProposalID)
	if !ok {
		return
	}
	subs, err := h.questionnaire.List(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "list questionnaires failed", err)
		return
	}
	if subs == nil {
		subs = []*models.Submission{}
	}
	httputil.WriteJSON(w, http.StatusOK, QuestionnairesResponse{ProposalID: id, Submissions: subs})
}

// HandleSubmitQuestionnaire handles POST /proposals/{id}/questionnaires.
func (h *Handler) HandleSubmitQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "id", domain.ParseProposalID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[QuestionnaireRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	sub, err := h.questionnaire.Submit(ctx, questionnaire.SubmitRequest{
		ProposalID:     id,
		RosterEntryID:  domain.RosterEntryID(req.RosterEntryID),
		Items:          req.Items,
		Remarks:        req.Remarks,
		Recommendation: req.recommendation,
	})
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "submit questionnaire failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// HandleAggregate handles GET /proposals/{id}/aggregate.
func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "id", domain.ParseProposalID)
	if !ok {
		return
	}
	res, err := h.aggregator.Preview(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "aggregate questionnaires failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleCompletion handles GET /proposals/{id}/completion. An incomplete
// roster is still a 200; the body lists what is missing.
func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "id", domain.ParseProposalID)
	if !ok {
		return
	}
	res, err := h.completion.Check(ctx, id)
	if err != nil {
		httputil.Fail(ctx, w, h.logger, "completion check failed", err)
		return
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
