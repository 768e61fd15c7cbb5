// Package models holds the verification team roster, questionnaire
// submissions and the results derived from them.
package models

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
)

// Role is a roster slot: chair, secretary, or member-N.
type Role string

const (
	RoleChair     Role = "chair"
	RoleSecretary Role = "secretary"
	// RoleGenericMember is the unnumbered member slot of older rosters. It
	// is never part of a resolved roster.
	RoleGenericMember Role = "member"

	memberPrefix   = "member-"
	maxMemberSlots = 20
)

// MemberRole returns the numbered member slot n.
func MemberRole(n int) Role {
	return Role(memberPrefix + strconv.Itoa(n))
}

// ParseRole accepts chair, secretary and member-1 through member-20.
func ParseRole(raw string) (Role, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch Role(raw) {
	case RoleChair, RoleSecretary:
		return Role(raw), nil
	case RoleGenericMember:
		return "", dErrors.New(dErrors.CodeValidation, "role member is deprecated; use a numbered member slot")
	}
	if n, ok := memberSlot(Role(raw)); ok && n >= 1 && n <= maxMemberSlots {
		return Role(raw), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown roster role %q", raw)
}

func memberSlot(r Role) (int, bool) {
	rest, ok := strings.CutPrefix(string(r), memberPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || strconv.Itoa(n) != rest {
		return 0, false
	}
	return n, true
}

// rank orders chair, secretary, then members by slot number.
func (r Role) rank() int {
	switch r {
	case RoleChair:
		return 0
	case RoleSecretary:
		return 1
	}
	if n, ok := memberSlot(r); ok {
		return 1 + n
	}
	return 1 << 20
}

// Leader reports whether the role is limited to one unscoped holder per
// district.
func (r Role) Leader() bool {
	return r == RoleChair || r == RoleSecretary
}

// RosterEntry is one seat on a district's verification team. A zero
// ProposalID means the entry serves every proposal of the district.
type RosterEntry struct {
	ID            domain.RosterEntryID `json:"id"`
	DistrictID    domain.DistrictID    `json:"district_id"`
	Role          Role                 `json:"role"`
	Name          string               `json:"name"`
	Position      string               `json:"position"`
	OfficialID    string               `json:"official_id,omitempty"`
	SignaturePath string               `json:"signature_path,omitempty"`
	Active        bool                 `json:"active"`
	ProposalID    domain.ProposalID    `json:"proposal_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Scoped reports whether the entry is limited to one proposal.
func (e *RosterEntry) Scoped() bool {
	return !e.ProposalID.IsZero()
}

// HasSignature reports whether a signature image has been uploaded.
func (e *RosterEntry) HasSignature() bool {
	return strings.TrimSpace(e.SignaturePath) != ""
}

func (e *RosterEntry) Clone() *RosterEntry {
	c := *e
	return &c
}

// Label names the entry in remediation messages.
func (e *RosterEntry) Label() string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return fmt.Sprintf("%s (%s)", name, e.Role)
	}
	return fmt.Sprintf("%s #%s", e.Role, e.ID)
}

// appliesTo is the scoping rule: unscoped entries serve every proposal of
// the district, scoped entries only their own.
func (e *RosterEntry) appliesTo(district domain.DistrictID, proposal domain.ProposalID) bool {
	if !e.Active || e.DistrictID != district || e.Role == RoleGenericMember {
		return false
	}
	return !e.Scoped() || e.ProposalID == proposal
}

// ResolveRoster selects the entries that verify proposal from a district's
// roster, ordered chair, secretary, member-1, member-2 and so on. It is the
// only definition of roster scoping; the aggregator, the completion check
// and the certificate snapshot all go through it.
func ResolveRoster(entries []*RosterEntry, district domain.DistrictID, proposal domain.ProposalID) []*RosterEntry {
	out := make([]*RosterEntry, 0, len(entries))
	for _, e := range entries {
		if e.appliesTo(district, proposal) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b *RosterEntry) int {
		if c := cmp.Compare(a.Role.rank(), b.Role.rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
