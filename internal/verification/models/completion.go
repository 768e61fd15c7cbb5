package models

import (
	"fmt"
	"strings"

	"bankeu/pkg/domain"
)

// MemberCompletion reports what one resolved roster entry still lacks.
type MemberCompletion struct {
	RosterEntryID domain.RosterEntryID `json:"roster_entry_id"`
	Name          string               `json:"name"`
	Role          Role                 `json:"role"`
	HasName       bool                 `json:"has_name"`
	HasPosition   bool                 `json:"has_position"`
	HasSignature  bool                 `json:"has_signature"`
	HasSubmission bool                 `json:"has_submission"`
	Complete      bool                 `json:"complete"`
}

// CompletionResult gates certificate issuance.
type CompletionResult struct {
	ProposalID domain.ProposalID  `json:"proposal_id"`
	Valid      bool               `json:"valid"`
	Errors     []string           `json:"errors"`
	Members    []MemberCompletion `json:"members"`
}

// CheckCompletion runs every roster check and collects all failures.
func CheckCompletion(proposal domain.ProposalID, roster []*RosterEntry, subs []*Submission) *CompletionResult {
	byEntry := indexByEntry(subs, proposal)
	res := &CompletionResult{
		ProposalID: proposal,
		Errors:     []string{},
		Members:    make([]MemberCompletion, 0, len(roster)),
	}

	var hasChair, hasSecretary bool
	for _, e := range roster {
		switch e.Role {
		case RoleChair:
			hasChair = true
		case RoleSecretary:
			hasSecretary = true
		}
	}
	if !hasChair {
		res.Errors = append(res.Errors, "roster has no active chair")
	}
	if !hasSecretary {
		res.Errors = append(res.Errors, "roster has no active secretary")
	}

	for _, e := range roster {
		_, submitted := byEntry[e.ID]
		m := MemberCompletion{
			RosterEntryID: e.ID,
			Name:          e.Name,
			Role:          e.Role,
			HasName:       strings.TrimSpace(e.Name) != "",
			HasPosition:   strings.TrimSpace(e.Position) != "",
			HasSignature:  e.HasSignature(),
			HasSubmission: submitted,
		}
		m.Complete = m.HasName && m.HasPosition && m.HasSignature && m.HasSubmission
		res.Members = append(res.Members, m)

		label := e.Label()
		if !m.HasName {
			res.Errors = append(res.Errors, label+": display name is missing")
		}
		if !m.HasPosition {
			res.Errors = append(res.Errors, label+": position is missing")
		}
		if !m.HasSignature {
			res.Errors = append(res.Errors, label+": signature not uploaded")
		}
		if !m.HasSubmission {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: questionnaire for proposal %s not submitted", label, proposal))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}
