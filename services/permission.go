package services

import "pipecrm/models"

// memberWritable are the only write capabilities a MEMBER may exercise, and
// only against resources they own.
var memberWritable = map[models.Permission]bool{
	models.PermWriteContact: true,
	models.PermWriteDeal:    true,
	models.PermWriteTask:    true,
}

// Allow evaluates a capability that has no resource owner in play, such as
// listing or creating entities. Pure and total over the role/permission
// space; unknown roles are denied.
//
// Rules, in order:
//   - OWNER and ADMIN always pass.
//   - MANAGER passes everything except organization settings.
//   - MEMBER passes reads; ownerless writes are denied.
func Allow(role models.MemberRole, permission models.Permission) bool {
	switch role {
	case models.RoleOwner, models.RoleAdmin:
		return true
	case models.RoleManager:
		return permission != models.PermReadOrgSettings && permission != models.PermWriteOrgSettings
	case models.RoleMember:
		return permission.IsRead()
	}
	return false
}

// AllowOwned evaluates a capability against a concrete resource owner. The
// only rule that differs from Allow is the MEMBER write path: a member may
// write contacts, deals and tasks they own, and nothing else.
func AllowOwned(role models.MemberRole, permission models.Permission, resourceOwnerID, actingUserID uint) bool {
	if role != models.RoleMember {
		return Allow(role, permission)
	}
	if permission.IsRead() {
		return true
	}
	if resourceOwnerID != actingUserID {
		return false
	}
	return memberWritable[permission]
}
