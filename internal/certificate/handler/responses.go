package handler

import (
	"time"

	"bankeu/internal/certificate/models"
	vmodels "bankeu/internal/verification/models"
	"bankeu/pkg/domain"
)

type HistoryEntryResponse struct {
	ID         domain.HistoryID        `json:"id"`
	ProposalID domain.ProposalID       `json:"proposal_id"`
	Code       string                  `json:"code"`
	Version    int                     `json:"version"`
	IsLatest   bool                    `json:"is_latest"`
	File       models.FileMeta         `json:"file"`
	IssuedBy   domain.UserID           `json:"issued_by"`
	IssuedAt   time.Time               `json:"issued_at"`
	Checklist  vmodels.AggregateResult `json:"checklist_snapshot"`
	Roster     []models.RosterMember   `json:"roster_snapshot"`
}

type HistoryResponse struct {
	VillageID  domain.VillageID       `json:"village_id"`
	ActivityID *int64                 `json:"activity_id"`
	Entries    []HistoryEntryResponse `json:"entries"`
}

func fromEntry(e *models.Entry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:         e.ID,
		ProposalID: e.ProposalID,
		Code:       e.Code,
		Version:    e.Version,
		IsLatest:   e.IsLatest,
		File:       e.File,
		IssuedBy:   e.IssuedBy,
		IssuedAt:   e.IssuedAt,
		Checklist:  e.Checklist,
		Roster:     e.Roster,
	}
}
