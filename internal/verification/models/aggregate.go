package models

import (
	"math"

	"bankeu/pkg/domain"
)

// MemberStatus is one resolved roster entry in an aggregate breakdown.
type MemberStatus struct {
	RosterEntryID domain.RosterEntryID `json:"roster_entry_id"`
	Name          string               `json:"name"`
	Role          Role                 `json:"role"`
	Position      string               `json:"position"`
	Submitted     bool                 `json:"submitted"`
}

// Evidence is one read of a proposal's resolved roster and its
// questionnaires. Completion, aggregation and the certificate snapshot of a
// single issuance are all computed from the same Evidence.
type Evidence struct {
	Roster      []*RosterEntry
	Submissions []*Submission
}

// AggregateResult is the consensus checklist for a proposal.
type AggregateResult struct {
	ProposalID   domain.ProposalID `json:"proposal_id"`
	DistrictID   domain.DistrictID `json:"district_id"`
	Items        Checklist         `json:"items"`
	Completeness int               `json:"completeness"`
	Submitted    int               `json:"submitted"`
	RosterSize   int               `json:"roster_size"`
	Members      []MemberStatus    `json:"members"`
}

// Aggregate combines the submissions of a resolved roster. An item is true
// when any submission marks it true, false when none does, and undecided
// when nobody has submitted. Submissions from entries outside roster are
// ignored.
func Aggregate(proposal domain.ProposalID, district domain.DistrictID, roster []*RosterEntry, subs []*Submission) *AggregateResult {
	byEntry := indexByEntry(subs, proposal)
	res := &AggregateResult{
		ProposalID: proposal,
		DistrictID: district,
		RosterSize: len(roster),
		Members:    make([]MemberStatus, 0, len(roster)),
	}

	var counted []*Submission
	for _, e := range roster {
		s, ok := byEntry[e.ID]
		if ok {
			counted = append(counted, s)
		}
		res.Members = append(res.Members, MemberStatus{
			RosterEntryID: e.ID,
			Name:          e.Name,
			Role:          e.Role,
			Position:      e.Position,
			Submitted:     ok,
		})
	}
	res.Submitted = len(counted)

	if len(counted) > 0 {
		for i := range res.Items {
			v := false
			for _, s := range counted {
				if s.Items[i] != nil && *s.Items[i] {
					v = true
					break
				}
			}
			res.Items[i] = &v
		}
	}
	if len(roster) > 0 {
		res.Completeness = int(math.Round(float64(res.Submitted) / float64(len(roster)) * 100))
	}
	return res
}
