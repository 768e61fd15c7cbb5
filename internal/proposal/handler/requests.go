package handler

import (
	"strings"

	"bankeu/internal/proposal/models"
)

// CreateRequest is the body of POST /proposals.
type CreateRequest struct {
	VillageID   int64  `json:"village_id"  validate:"required,gt=0"`
	ActivityID  int64  `json:"activity_id" validate:"required,gt=0"`
	Amount      int64  `json:"amount"      validate:"required,gt=0"`
	Description string `json:"description" validate:"max=2000"`
}

func (r *CreateRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	return nil
}

// DinasDecisionRequest is the body of POST /proposals/{id}/dinas-decision.
type DinasDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Notes  string `json:"notes"  validate:"max=2000"`

	action models.DinasAction
}

func (r *DinasDecisionRequest) Validate() error {
	action, err := models.ParseDinasAction(r.Action)
	if err != nil {
		return err
	}
	r.action = action
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}

// KecamatanDecisionRequest is the body of POST /proposals/{id}/kecamatan-decision.
type KecamatanDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject revision"`
	Notes  string `json:"notes"  validate:"max=2000"`

	action models.KecamatanAction
}

func (r *KecamatanDecisionRequest) Validate() error {
	action, err := models.ParseKecamatanAction(r.Action)
	if err != nil {
		return err
	}
	r.action = action
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}

// DPMDDecisionRequest is the body of POST /proposals/{id}/dpmd-decision.
type DPMDDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Notes  string `json:"notes"  validate:"max=2000"`

	action models.DPMDAction
}

func (r *DPMDDecisionRequest) Validate() error {
	action, err := models.ParseDPMDAction(r.Action)
	if err != nil {
		return err
	}
	r.action = action
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}

// ReviewRequest is the body of POST /villages/{villageID}/review.
type ReviewRequest struct {
	Action string `json:"action" validate:"required,oneof=submit return"`

	action models.ReviewAction
}

func (r *ReviewRequest) Validate() error {
	action, err := models.ParseReviewAction(r.Action)
	if err != nil {
		return err
	}
	r.action = action
	return nil
}

// ChannelRequest is the body of PUT /districts/{districtID}/submission-channel.
type ChannelRequest struct {
	Open *bool `json:"open" validate:"required"`
}

func (r *ChannelRequest) Validate() error { return nil }
