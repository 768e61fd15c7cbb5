package handler

import (
	"strings"

	"bankeu/internal/verification/models"
)

// RosterEntryRequest is the body of POST /districts/{districtID}/roster.
type RosterEntryRequest struct {
	ID         int64  `json:"id"          validate:"gte=0"`
	Role       string `json:"role"        validate:"required"`
	Name       string `json:"name"        validate:"max=200"`
	Position   string `json:"position"    validate:"max=200"`
	OfficialID string `json:"official_id" validate:"max=200"`
	ProposalID int64  `json:"proposal_id" validate:"gte=0"`
}

func (r *RosterEntryRequest) Validate() error {
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.Role = string(role)
	return nil
}

// SignatureRequest is the body of PUT /roster/{entryID}/signature.
type SignatureRequest struct {
	Path string `json:"path" validate:"required,max=1024"`
}

func (r *SignatureRequest) Validate() error {
	r.Path = strings.TrimSpace(r.Path)
	return nil
}

// QuestionnaireRequest is the body of POST /proposals/{id}/questionnaires.
type QuestionnaireRequest struct {
	RosterEntryID  int64             `json:"roster_entry_id" validate:"required,gt=0"`
	Items          models.Checklist  `json:"items"`
	Remarks        map[string]string `json:"remarks"`
	Recommendation string            `json:"recommendation"  validate:"required"`

	recommendation models.Recommendation
}

func (r *QuestionnaireRequest) Validate() error {
	rec, err := models.ParseRecommendation(r.Recommendation)
	if err != nil {
		return err
	}
	r.recommendation = rec
	return models.ValidateRemarks(r.Remarks)
}
