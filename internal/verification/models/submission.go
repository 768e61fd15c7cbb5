package models

import (
	"time"

	"bankeu/pkg/domain"
)

// Submission is one verifier's questionnaire for one proposal. A later
// submission by the same roster entry replaces the earlier one.
type Submission struct {
	ID             int64                `json:"id"`
	ProposalID     domain.ProposalID    `json:"proposal_id"`
	RosterEntryID  domain.RosterEntryID `json:"roster_entry_id"`
	Items          Checklist            `json:"items"`
	Remarks        map[string]string    `json:"remarks,omitempty"`
	Recommendation Recommendation       `json:"recommendation"`
	SubmittedAt    time.Time            `json:"submitted_at"`
}

func (s *Submission) Clone() *Submission {
	c := *s
	c.Items = s.Items.Clone()
	if s.Remarks != nil {
		c.Remarks = make(map[string]string, len(s.Remarks))
		for k, v := range s.Remarks {
			c.Remarks[k] = v
		}
	}
	return &c
}

func indexByEntry(subs []*Submission, proposal domain.ProposalID) map[domain.RosterEntryID]*Submission {
	out := make(map[domain.RosterEntryID]*Submission, len(subs))
	for _, s := range subs {
		if s.ProposalID == proposal {
			out[s.RosterEntryID] = s
		}
	}
	return out
}
