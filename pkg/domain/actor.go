package domain

import dErrors "bankeu/pkg/domain-errors"

// Role is the organizational actor kind supplied by the authentication layer.
type Role string

const (
	RoleVillage   Role = "desa"
	RoleDinas     Role = "dinas"
	RoleKecamatan Role = "kecamatan"
	RoleDPMD      Role = "dpmd"
)

// ParseRole rejects any role outside the known set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleVillage, RoleDinas, RoleKecamatan, RoleDPMD:
		return Role(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", raw)
	}
}

// Actor is the authenticated caller. DistrictID scopes kecamatan operators
// to one district; for dinas and dpmd operators a zero DistrictID means
// province-wide authority. VillageID is only set for village operators.
type Actor struct {
	UserID     UserID
	Role       Role
	DistrictID DistrictID
	VillageID  VillageID
}

// IsZero reports whether no actor was supplied.
func (a Actor) IsZero() bool {
	return a.UserID == 0 && a.Role == ""
}

// CanActForVillage checks a village operator's affiliation.
func (a Actor) CanActForVillage(village VillageID) bool {
	return a.Role == RoleVillage && a.VillageID != 0 && a.VillageID == village
}

// CanActForDistrict checks that the actor holds role and is affiliated with
// the district. Kecamatan operators must match exactly; agency operators
// match when unscoped or scoped to the same district.
func (a Actor) CanActForDistrict(role Role, district DistrictID) bool {
	if a.Role != role {
		return false
	}
	switch role {
	case RoleKecamatan:
		return a.DistrictID != 0 && a.DistrictID == district
	case RoleDinas, RoleDPMD:
		return a.DistrictID == 0 || a.DistrictID == district
	default:
		return false
	}
}
