// Package domain holds typed identifiers shared across bounded contexts.
//
// Every table in the workflow uses integer keys. Wrapping them in distinct
// types keeps a VillageID from being passed where a DistrictID is expected;
// the compiler rejects the mix-up.
package domain

import (
	"strconv"
	"strings"

	dErrors "bankeu/pkg/domain-errors"
)

type (
	ProposalID    int64
	VillageID     int64
	DistrictID    int64
	ActivityID    int64
	RosterEntryID int64
	UserID        int64
	HistoryID     int64
)

func (id ProposalID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id VillageID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id DistrictID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id ActivityID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id RosterEntryID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string        { return strconv.FormatInt(int64(id), 10) }
func (id HistoryID) String() string     { return strconv.FormatInt(int64(id), 10) }

func (id ProposalID) IsZero() bool    { return id == 0 }
func (id VillageID) IsZero() bool     { return id == 0 }
func (id DistrictID) IsZero() bool    { return id == 0 }
func (id ActivityID) IsZero() bool    { return id == 0 }
func (id RosterEntryID) IsZero() bool { return id == 0 }
func (id UserID) IsZero() bool        { return id == 0 }

// parsePositive is the single trust-boundary parser: ids are positive base-10
// integers with no sign, whitespace or leading zeros.
func parsePositive(kind, raw string) (int64, error) {
	if raw == "" {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s is required", kind)
	}
	if strings.TrimSpace(raw) != raw || raw[0] == '+' || raw[0] == '-' || (len(raw) > 1 && raw[0] == '0') {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", kind)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", kind)
	}
	return v, nil
}

func ParseProposalID(raw string) (ProposalID, error) {
	v, err := parsePositive("proposal id", raw)
	return ProposalID(v), err
}

func ParseVillageID(raw string) (VillageID, error) {
	v, err := parsePositive("village id", raw)
	return VillageID(v), err
}

func ParseDistrictID(raw string) (DistrictID, error) {
	v, err := parsePositive("district id", raw)
	return DistrictID(v), err
}

func ParseActivityID(raw string) (ActivityID, error) {
	v, err := parsePositive("activity id", raw)
	return ActivityID(v), err
}

func ParseRosterEntryID(raw string) (RosterEntryID, error) {
	v, err := parsePositive("roster entry id", raw)
	return RosterEntryID(v), err
}

// OptionalActivity is the nullable activity reference used by blanket
// certificates that cover every activity of a village.
type OptionalActivity struct {
	ID    ActivityID
	Valid bool
}

// SomeActivity wraps a concrete activity id.
func SomeActivity(id ActivityID) OptionalActivity {
	return OptionalActivity{ID: id, Valid: true}
}

// Key returns the lock/uniqueness key for the activity: 0 for "all activities".
func (a OptionalActivity) Key() int64 {
	if !a.Valid {
		return 0
	}
	return int64(a.ID)
}

// Ptr returns nil for the blanket case, for nullable columns.
func (a OptionalActivity) Ptr() *int64 {
	if !a.Valid {
		return nil
	}
	v := int64(a.ID)
	return &v
}
