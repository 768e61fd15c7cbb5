package models

import (
	"fmt"
	"strings"
	"time"

	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
)

// State is the workflow portion of a proposal. Conditioned updates compare
// the whole value against the stored row.
//
// Invariants:
//   - DPMD != unset requires Kecamatan == approved
//   - SubmittedToDPMD requires Kecamatan == approved
//   - a returned Kecamatan decision requires !SubmittedToKecamatan
type State struct {
	Dinas                DinasDecision
	Kecamatan            KecamatanDecision
	DPMD                 DPMDDecision
	SubmittedToKecamatan bool
	SubmittedToDPMD      bool
}

func (s State) String() string {
	return fmt.Sprintf("dinas=%s kecamatan=%s dpmd=%s submitted_to_kecamatan=%t submitted_to_dpmd=%t",
		s.Dinas, s.Kecamatan, s.DPMD, s.SubmittedToKecamatan, s.SubmittedToDPMD)
}

// Validate reports the first broken invariant.
func (s State) Validate() error {
	if s.DPMD != DPMDUnset && s.Kecamatan != KecamatanApproved {
		return fmt.Errorf("dpmd decision %s without kecamatan approval", s.DPMD)
	}
	if s.SubmittedToDPMD && s.Kecamatan != KecamatanApproved {
		return fmt.Errorf("submitted to dpmd without kecamatan approval")
	}
	if s.Kecamatan.Returned() && s.SubmittedToKecamatan {
		return fmt.Errorf("returned proposal still submitted to kecamatan")
	}
	return nil
}

// Review is one stage's decision metadata.
type Review struct {
	ReviewerID domain.UserID `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

func (r *Review) record(actor domain.UserID, notes string, now time.Time) {
	r.ReviewerID = actor
	r.ReviewedAt = &now
	r.Notes = notes
}

// CertificateLink points at the latest certificate issued for the proposal.
type CertificateLink struct {
	Path     string     `json:"path,omitempty"`
	Code     string     `json:"code,omitempty"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
}

// Proposal is one funding request from a village for one activity.
// It is mutated only through the guard/apply pairs below.
type Proposal struct {
	ID          domain.ProposalID
	VillageID   domain.VillageID
	DistrictID  domain.DistrictID
	ActivityID  domain.ActivityID
	Amount      int64
	Description string
	CreatedBy   domain.UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	State
	DinasReview     Review
	KecamatanReview Review
	DPMDReview      Review

	SubmittedToKecamatanAt *time.Time
	SubmittedToDPMDAt      *time.Time

	Certificate CertificateLink
}

const maxDescriptionLength = 2000

// NewProposal builds a proposal in the unset/unset/unset state.
func NewProposal(village domain.VillageID, district domain.DistrictID, activity domain.ActivityID,
	amount int64, description string, createdBy domain.UserID, now time.Time) (*Proposal, error) {
	description = strings.TrimSpace(description)
	if village.IsZero() || activity.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "village and activity are required")
	}
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	if len(description) > maxDescriptionLength {
		return nil, dErrors.Newf(dErrors.CodeValidation, "description must be at most %d characters", maxDescriptionLength)
	}
	return &Proposal{
		VillageID:   village,
		DistrictID:  district,
		ActivityID:  activity,
		Amount:      amount,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasCertificate reports whether a certificate has been linked.
func (p *Proposal) HasCertificate() bool {
	return p.Certificate.Code != ""
}

// Clone returns a deep copy so a guard/apply sequence can run without
// touching the loaded value.
func (p *Proposal) Clone() *Proposal {
	cp := *p
	cp.DinasReview.ReviewedAt = clonePtr(p.DinasReview.ReviewedAt)
	cp.KecamatanReview.ReviewedAt = clonePtr(p.KecamatanReview.ReviewedAt)
	cp.DPMDReview.ReviewedAt = clonePtr(p.DPMDReview.ReviewedAt)
	cp.SubmittedToKecamatanAt = clonePtr(p.SubmittedToKecamatanAt)
	cp.SubmittedToDPMDAt = clonePtr(p.SubmittedToDPMDAt)
	cp.Certificate.IssuedAt = clonePtr(p.Certificate.IssuedAt)
	return &cp
}

func clonePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// CanDinasDecide allows a decision before submission to kecamatan. A
// rejection may later be turned into an approval; an approval is final.
func (p *Proposal) CanDinasDecide(action DinasAction) error {
	attempted := "dinas " + string(action)
	if p.SubmittedToKecamatan || p.SubmittedToDPMD {
		return invalidTransition(p.State, attempted, "proposal already submitted to kecamatan")
	}
	switch p.Dinas {
	case DinasUnset:
		return nil
	case DinasRejected:
		if action == DinasReject {
			return invalidTransition(p.State, attempted, "proposal is already rejected by dinas")
		}
		return nil
	case DinasApproved:
		return invalidTransition(p.State, attempted, "proposal is already approved by dinas")
	default:
		return invalidTransition(p.State, attempted, "unknown dinas decision")
	}
}

// ApplyDinasDecision must only be called after CanDinasDecide returns nil.
func (p *Proposal) ApplyDinasDecision(action DinasAction, actor domain.UserID, notes string, now time.Time) {
	switch action {
	case DinasApprove:
		p.Dinas = DinasApproved
	case DinasReject:
		p.Dinas = DinasRejected
	}
	p.DinasReview.record(actor, notes, now)
	p.UpdatedAt = now
}

// CanSubmitToKecamatan allows the village to send a dinas-approved proposal,
// including one previously returned by kecamatan.
func (p *Proposal) CanSubmitToKecamatan() error {
	const attempted = "submit to kecamatan"
	switch {
	case p.Dinas != DinasApproved:
		return invalidTransition(p.State, attempted, "dinas has not approved the proposal")
	case p.SubmittedToDPMD:
		return invalidTransition(p.State, attempted, "proposal already forwarded to dpmd")
	case p.SubmittedToKecamatan:
		return invalidTransition(p.State, attempted, "proposal is already at kecamatan")
	}
	return nil
}

// ApplySubmitToKecamatan opens the kecamatan gate and clears any earlier
// kecamatan verdict so the proposal re-enters review.
func (p *Proposal) ApplySubmitToKecamatan(now time.Time) {
	p.SubmittedToKecamatan = true
	p.SubmittedToKecamatanAt = &now
	p.Kecamatan = KecamatanUnset
	p.KecamatanReview = Review{}
	p.UpdatedAt = now
}

// CanKecamatanDecide allows a decision while the proposal sits at kecamatan
// and has no approval yet.
func (p *Proposal) CanKecamatanDecide(action KecamatanAction) error {
	attempted := "kecamatan " + string(action)
	switch {
	case !p.SubmittedToKecamatan:
		return invalidTransition(p.State, attempted, "proposal is not submitted to kecamatan")
	case p.SubmittedToDPMD:
		return invalidTransition(p.State, attempted, "proposal already forwarded to dpmd")
	case p.Kecamatan == KecamatanApproved:
		return invalidTransition(p.State, attempted, "proposal is already approved by kecamatan")
	}
	return nil
}

// ApplyKecamatanDecision records the verdict. Reject and revision return
// the proposal to the village.
func (p *Proposal) ApplyKecamatanDecision(action KecamatanAction, actor domain.UserID, notes string, now time.Time) {
	switch action {
	case KecamatanApprove:
		p.Kecamatan = KecamatanApproved
	case KecamatanReject:
		p.Kecamatan = KecamatanRejected
		p.SubmittedToKecamatan = false
	case KecamatanRevision:
		p.Kecamatan = KecamatanRevisionRequested
		p.SubmittedToKecamatan = false
	}
	p.KecamatanReview.record(actor, notes, now)
	p.UpdatedAt = now
}

// CanDPMDDecide allows the terminal decision on a forwarded proposal.
func (p *Proposal) CanDPMDDecide(action DPMDAction) error {
	attempted := "dpmd " + string(action)
	switch {
	case !p.SubmittedToDPMD:
		return invalidTransition(p.State, attempted, "proposal is not submitted to dpmd")
	case p.DPMD != DPMDPending:
		return invalidTransition(p.State, attempted, "dpmd decision already recorded")
	}
	return nil
}

func (p *Proposal) ApplyDPMDDecision(action DPMDAction, actor domain.UserID, notes string, now time.Time) {
	switch action {
	case DPMDApprove:
		p.DPMD = DPMDApproved
	case DPMDReject:
		p.DPMD = DPMDRejected
	}
	p.DPMDReview.record(actor, notes, now)
	p.UpdatedAt = now
}

// AwaitingKecamatanReview reports whether the proposal is in the set a
// village-wide review operates on.
func (p *Proposal) AwaitingKecamatanReview() bool {
	return p.SubmittedToKecamatan && !p.SubmittedToDPMD
}

// ForwardBlockers lists why the proposal cannot be forwarded to dpmd.
func (p *Proposal) ForwardBlockers() []string {
	var out []string
	if p.Kecamatan != KecamatanApproved {
		out = append(out, fmt.Sprintf("proposal %s: kecamatan decision is %s", p.ID, p.Kecamatan))
	}
	if !p.HasCertificate() {
		out = append(out, fmt.Sprintf("proposal %s: certificate not issued", p.ID))
	}
	return out
}

// ApplyForwardToDPMD must only be called when ForwardBlockers is empty.
func (p *Proposal) ApplyForwardToDPMD(now time.Time) {
	p.SubmittedToDPMD = true
	p.SubmittedToDPMDAt = &now
	p.DPMD = DPMDPending
	p.UpdatedAt = now
}

// ApplyReturnToVillage clears the kecamatan gate.
func (p *Proposal) ApplyReturnToVillage(now time.Time) {
	p.SubmittedToKecamatan = false
	p.UpdatedAt = now
}

// Decision is one row of a proposal's transition history.
type Decision struct {
	ID         int64             `json:"id"`
	ProposalID domain.ProposalID `json:"proposal_id"`
	Stage      Stage             `json:"stage"`
	Action     string            `json:"action"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	ActorID    domain.UserID     `json:"actor_id"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReviewResult reports a village-wide review.
type ReviewResult struct {
	VillageID   domain.VillageID    `json:"village_id"`
	Action      ReviewAction        `json:"action"`
	Affected    int                 `json:"affected"`
	ProposalIDs []domain.ProposalID `json:"proposal_ids"`
}
