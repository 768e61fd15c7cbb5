// Package models holds the certificate history ledger's records.
package models

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	vmodels "bankeu/internal/verification/models"
	"bankeu/pkg/domain"
)

// FileMeta describes the rendered document. The ledger never touches the
// bytes.
type FileMeta struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// RosterMember is the frozen copy of one verifier at issuance time.
type RosterMember struct {
	RosterEntryID domain.RosterEntryID `json:"roster_entry_id"`
	Role          vmodels.Role         `json:"role"`
	Name          string               `json:"name"`
	Position      string               `json:"position"`
	OfficialID    string               `json:"official_id,omitempty"`
	SignaturePath string               `json:"signature_path"`
}

// SnapshotRoster copies the resolved roster.
func SnapshotRoster(roster []*vmodels.RosterEntry) []RosterMember {
	out := make([]RosterMember, 0, len(roster))
	for _, e := range roster {
		out = append(out, RosterMember{
			RosterEntryID: e.ID,
			Role:          e.Role,
			Name:          e.Name,
			Position:      e.Position,
			OfficialID:    e.OfficialID,
			SignaturePath: e.SignaturePath,
		})
	}
	return out
}

// Entry is one version of a certificate for a (village, activity) subject.
type Entry struct {
	ID         domain.HistoryID
	ProposalID domain.ProposalID
	VillageID  domain.VillageID
	DistrictID domain.DistrictID
	Activity   domain.OptionalActivity
	File       FileMeta
	Code       string
	Version    int
	IsLatest   bool
	IssuedBy   domain.UserID
	IssuedAt   time.Time
	Checklist  vmodels.AggregateResult
	Roster     []RosterMember
}

func (e *Entry) Clone() *Entry {
	c := *e
	c.Roster = append([]RosterMember(nil), e.Roster...)
	c.Checklist.Items = e.Checklist.Items.Clone()
	c.Checklist.Members = append([]vmodels.MemberStatus(nil), e.Checklist.Members...)
	return &c
}

// Subject identifies the version chain an entry belongs to.
type Subject struct {
	VillageID domain.VillageID
	Activity  domain.OptionalActivity
}

func (e *Entry) Subject() Subject {
	return Subject{VillageID: e.VillageID, Activity: e.Activity}
}

const codePrefix = "BA"

// NewCode builds BA-{district}-{proposal}-{unixMillis}-{8 hex}. A nil r
// uses the uuid package's random source.
func NewCode(district domain.DistrictID, proposal domain.ProposalID, now time.Time, r io.Reader) (string, error) {
	var (
		u   uuid.UUID
		err error
	)
	if r == nil {
		u, err = uuid.NewRandom()
	} else {
		u, err = uuid.NewRandomFromReader(r)
	}
	if err != nil {
		return "", fmt.Errorf("certificate code entropy: %w", err)
	}
	return NormalizeCode(fmt.Sprintf("%s-%s-%s-%d-%s", codePrefix, district, proposal, now.UnixMilli(), hex.EncodeToString(u[:4]))), nil
}

// NormalizeCode is the case folding applied on issue and on lookup.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IssueRequest carries everything the ledger records. The caller has
// already established that the roster is complete.
type IssueRequest struct {
	ProposalID domain.ProposalID
	VillageID  domain.VillageID
	DistrictID domain.DistrictID
	Activity   domain.OptionalActivity
	File       FileMeta
	IssuedBy   domain.UserID
	Checklist  vmodels.AggregateResult
	Roster     []RosterMember
}

type IssueResult struct {
	HistoryID domain.HistoryID `json:"history_id"`
	Version   int              `json:"version"`
	Code      string           `json:"code"`
}

// Verification is the public answer for a code. Only Valid is set when the
// code is unknown.
type Verification struct {
	Valid        bool              `json:"valid"`
	Code         string            `json:"code,omitempty"`
	ProposalID   domain.ProposalID `json:"proposal_id,omitempty"`
	VillageID    domain.VillageID  `json:"village_id,omitempty"`
	VillageName  string            `json:"village_name,omitempty"`
	DistrictID   domain.DistrictID `json:"district_id,omitempty"`
	DistrictName string            `json:"district_name,omitempty"`
	ActivityName string            `json:"activity_name,omitempty"`
	Summary      string            `json:"proposal_summary,omitempty"`
	Version      int               `json:"version,omitempty"`
	IssuedAt     *time.Time        `json:"issued_at,omitempty"`
	IssuedBy     domain.UserID     `json:"issued_by,omitempty"`
	IsLatest     bool              `json:"is_latest"`
	FilePath     string            `json:"file_path,omitempty"`
}

// Verified builds a positive verification from an entry. Names are filled
// by stores that can join the reference tables.
func Verified(e *Entry) *Verification {
	issuedAt := e.IssuedAt
	return &Verification{
		Valid:      true,
		Code:       e.Code,
		ProposalID: e.ProposalID,
		VillageID:  e.VillageID,
		DistrictID: e.DistrictID,
		Version:    e.Version,
		IssuedAt:   &issuedAt,
		IssuedBy:   e.IssuedBy,
		IsLatest:   e.IsLatest,
		FilePath:   e.File.Path,
	}
}

const maxSummaryRunes = 120

// Summary is the one-line proposal description disclosed by verification.
func Summary(description string, amount int64) string {
	description = strings.TrimSpace(description)
	if r := []rune(description); len(r) > maxSummaryRunes {
		description = string(r[:maxSummaryRunes]) + "..."
	}
	if description == "" {
		return fmt.Sprintf("Rp %d", amount)
	}
	return fmt.Sprintf("%s (Rp %d)", description, amount)
}
