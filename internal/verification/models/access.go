package models

import "bankeu/pkg/domain"

// CanManage reports whether actor runs the district's verification team.
func CanManage(actor domain.Actor, district domain.DistrictID) bool {
	return actor.CanActForDistrict(domain.RoleKecamatan, district)
}

// CanInspect extends CanManage to the provincial agencies, which read
// rosters and results but do not change them.
func CanInspect(actor domain.Actor, district domain.DistrictID) bool {
	return CanManage(actor, district) ||
		actor.CanActForDistrict(domain.RoleDinas, district) ||
		actor.CanActForDistrict(domain.RoleDPMD, district)
}
