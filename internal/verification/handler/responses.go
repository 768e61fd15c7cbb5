package handler

import (
	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
)

type RosterResponse struct {
	DistrictID domain.DistrictID     `json:"district_id"`
	Entries    []*models.RosterEntry `json:"entries"`
}

type QuestionnairesResponse struct {
	ProposalID  domain.ProposalID    `json:"proposal_id"`
	Submissions []*models.Submission `json:"submissions"`
}
