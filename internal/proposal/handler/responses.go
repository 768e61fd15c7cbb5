package handler

import (
	"time"

	"bankeu/internal/proposal/models"
	"bankeu/pkg/domain"
)

// ReviewResponse mirrors one stage's decision metadata.
type ReviewResponse struct {
	ReviewerID domain.UserID `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

// ProposalResponse is the wire form of a proposal.
type ProposalResponse struct {
	ID                     domain.ProposalID `json:"id"`
	VillageID              domain.VillageID  `json:"village_id"`
	DistrictID             domain.DistrictID `json:"district_id"`
	ActivityID             domain.ActivityID `json:"activity_id"`
	Amount                 int64             `json:"amount"`
	Description            string            `json:"description,omitempty"`
	DinasDecision          string            `json:"dinas_decision"`
	KecamatanDecision      string            `json:"kecamatan_decision"`
	DPMDDecision           string            `json:"dpmd_decision"`
	SubmittedToKecamatan   bool              `json:"submitted_to_kecamatan"`
	SubmittedToDPMD        bool              `json:"submitted_to_dpmd"`
	SubmittedToKecamatanAt *time.Time        `json:"submitted_to_kecamatan_at,omitempty"`
	SubmittedToDPMDAt      *time.Time        `json:"submitted_to_dpmd_at,omitempty"`
	Dinas                  ReviewResponse    `json:"dinas_review"`
	Kecamatan              ReviewResponse    `json:"kecamatan_review"`
	DPMD                   ReviewResponse    `json:"dpmd_review"`
	Certificate            *CertificateLink  `json:"certificate,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

type CertificateLink struct {
	Path     string     `json:"path"`
	Code     string     `json:"code"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
}

func review(r models.Review) ReviewResponse {
	return ReviewResponse{ReviewerID: r.ReviewerID, ReviewedAt: r.ReviewedAt, Notes: r.Notes}
}

// FromProposal converts the aggregate to its response.
func FromProposal(p *models.Proposal) *ProposalResponse {
	resp := &ProposalResponse{
		ID:                     p.ID,
		VillageID:              p.VillageID,
		DistrictID:             p.DistrictID,
		ActivityID:             p.ActivityID,
		Amount:                 p.Amount,
		Description:            p.Description,
		DinasDecision:          string(p.Dinas),
		KecamatanDecision:      string(p.Kecamatan),
		DPMDDecision:           string(p.DPMD),
		SubmittedToKecamatan:   p.SubmittedToKecamatan,
		SubmittedToDPMD:        p.SubmittedToDPMD,
		SubmittedToKecamatanAt: p.SubmittedToKecamatanAt,
		SubmittedToDPMDAt:      p.SubmittedToDPMDAt,
		Dinas:                  review(p.DinasReview),
		Kecamatan:              review(p.KecamatanReview),
		DPMD:                   review(p.DPMDReview),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
	if p.HasCertificate() {
		resp.Certificate = &CertificateLink{Path: p.Certificate.Path, Code: p.Certificate.Code, IssuedAt: p.Certificate.IssuedAt}
	}
	return resp
}

// HistoryResponse lists a proposal's transitions oldest first.
type HistoryResponse struct {
	ProposalID domain.ProposalID  `json:"proposal_id"`
	Entries    []*models.Decision `json:"entries"`
}

// ReviewResultResponse reports a village-wide review.
type ReviewResultResponse struct {
	VillageID   domain.VillageID    `json:"village_id"`
	Action      string              `json:"action"`
	Affected    int                 `json:"affected"`
	ProposalIDs []domain.ProposalID `json:"proposal_ids"`
}

func FromReviewResult(r *models.ReviewResult) *ReviewResultResponse {
	ids := r.ProposalIDs
	if ids == nil {
		ids = []domain.ProposalID{}
	}
	return &ReviewResultResponse{
		VillageID:   r.VillageID,
		Action:      string(r.Action),
		Affected:    r.Affected,
		ProposalIDs: ids,
	}
}
