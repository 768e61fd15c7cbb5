package models

import (
	"fmt"

	dErrors "bankeu/pkg/domain-errors"
)

// DinasDecision is the provincial technical agency's verdict.
type DinasDecision string

const (
	DinasUnset    DinasDecision = ""
	DinasApproved DinasDecision = "approved"
	DinasRejected DinasDecision = "rejected"
)

// ParseDinasDecision maps a stored value onto the closed set.
func ParseDinasDecision(raw string) (DinasDecision, error) {
	switch d := DinasDecision(raw); d {
	case DinasUnset, DinasApproved, DinasRejected:
		return d, nil
	}
	return "", unknownValue("dinas decision", raw)
}

func (d DinasDecision) String() string { return labelOrUnset(string(d)) }

// KecamatanDecision is the district verification team's verdict.
type KecamatanDecision string

const (
	KecamatanUnset             KecamatanDecision = ""
	KecamatanApproved          KecamatanDecision = "approved"
	KecamatanRejected          KecamatanDecision = "rejected"
	KecamatanRevisionRequested KecamatanDecision = "revision-requested"
)

func ParseKecamatanDecision(raw string) (KecamatanDecision, error) {
	switch d := KecamatanDecision(raw); d {
	case KecamatanUnset, KecamatanApproved, KecamatanRejected, KecamatanRevisionRequested:
		return d, nil
	}
	return "", unknownValue("kecamatan decision", raw)
}

func (d KecamatanDecision) String() string { return labelOrUnset(string(d)) }

// Returned reports whether the decision sent the proposal back to the village.
func (d KecamatanDecision) Returned() bool {
	return d == KecamatanRejected || d == KecamatanRevisionRequested
}

// DPMDDecision is the final agency verdict. Pending means forwarded and
// awaiting a decision.
type DPMDDecision string

const (
	DPMDUnset    DPMDDecision = ""
	DPMDPending  DPMDDecision = "pending"
	DPMDApproved DPMDDecision = "approved"
	DPMDRejected DPMDDecision = "rejected"
)

func ParseDPMDDecision(raw string) (DPMDDecision, error) {
	switch d := DPMDDecision(raw); d {
	case DPMDUnset, DPMDPending, DPMDApproved, DPMDRejected:
		return d, nil
	}
	return "", unknownValue("dpmd decision", raw)
}

func (d DPMDDecision) String() string { return labelOrUnset(string(d)) }

// DinasAction is what a dinas operator may do.
type DinasAction string

const (
	DinasApprove DinasAction = "approve"
	DinasReject  DinasAction = "reject"
)

func ParseDinasAction(raw string) (DinasAction, error) {
	switch a := DinasAction(raw); a {
	case DinasApprove, DinasReject:
		return a, nil
	}
	return "", unknownAction(raw)
}

// KecamatanAction is what the district team may decide on one proposal.
type KecamatanAction string

const (
	KecamatanApprove  KecamatanAction = "approve"
	KecamatanReject   KecamatanAction = "reject"
	KecamatanRevision KecamatanAction = "revision"
)

func ParseKecamatanAction(raw string) (KecamatanAction, error) {
	switch a := KecamatanAction(raw); a {
	case KecamatanApprove, KecamatanReject, KecamatanRevision:
		return a, nil
	}
	return "", unknownAction(raw)
}

// DPMDAction is the final decision.
type DPMDAction string

const (
	DPMDApprove DPMDAction = "approve"
	DPMDReject  DPMDAction = "reject"
)

func ParseDPMDAction(raw string) (DPMDAction, error) {
	switch a := DPMDAction(raw); a {
	case DPMDApprove, DPMDReject:
		return a, nil
	}
	return "", unknownAction(raw)
}

// ReviewAction is the village-wide bulk operation at kecamatan.
type ReviewAction string

const (
	ReviewSubmit ReviewAction = "submit"
	ReviewReturn ReviewAction = "return"
)

func ParseReviewAction(raw string) (ReviewAction, error) {
	switch a := ReviewAction(raw); a {
	case ReviewSubmit, ReviewReturn:
		return a, nil
	}
	return "", unknownAction(raw)
}

// Stage names who recorded a transition.
type Stage string

const (
	StageVillage         Stage = "desa"
	StageDinas           Stage = "dinas"
	StageKecamatan       Stage = "kecamatan"
	StageKecamatanReview Stage = "kecamatan_review"
	StageDPMD            Stage = "dpmd"
)

func labelOrUnset(v string) string {
	if v == "" {
		return "unset"
	}
	return v
}

func unknownValue(kind, raw string) error {
	return dErrors.Newf(dErrors.CodeStorage, "unknown %s %q", kind, raw)
}

func unknownAction(raw string) error {
	return dErrors.Newf(dErrors.CodeValidation, "unknown action %q", raw)
}

func invalidTransition(current State, attempted, reason string) error {
	return dErrors.New(dErrors.CodeInvalidTransition,
		fmt.Sprintf("cannot %s: %s (current state: %s)", attempted, reason, current))
}
