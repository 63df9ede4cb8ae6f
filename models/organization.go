package models

import (
	"strings"

	"gorm.io/gorm"
)

// MemberRole is the role a user holds inside one organization
type MemberRole string

const (
	RoleOwner   MemberRole = "owner"
	RoleAdmin   MemberRole = "admin"
	RoleManager MemberRole = "manager"
	RoleMember  MemberRole = "member"
)

// IsValid reports whether the role is one of the known values
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Permission is a fixed capability scoped to an organization
type Permission string

const (
	PermAllPermissions Permission = "all_permissions"

	PermReadOrganization  Permission = "read_organization"
	PermWriteOrganization Permission = "write_organization"

	PermReadOrgSettings  Permission = "read_org_settings"
	PermWriteOrgSettings Permission = "write_org_settings"

	PermReadContact  Permission = "read_contact"
	PermWriteContact Permission = "write_contact"

	PermReadDeal  Permission = "read_deal"
	PermWriteDeal Permission = "write_deal"

	PermReadTask  Permission = "read_task"
	PermWriteTask Permission = "write_task"

	PermReadActivity  Permission = "read_activity"
	PermWriteActivity Permission = "write_activity"
)

// IsRead reports whether the permission is a read capability
func (p Permission) IsRead() bool {
	return strings.HasPrefix(string(p), "read")
}

// Organization is the tenancy root; members, contacts and deals cascade with it
type Organization struct {
	gorm.Model
	Name string `gorm:"size:200;uniqueIndex;not null" json:"name"`

	// Relations
	Members  []OrganizationMember `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Contacts []Contact            `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Deals    []Deal               `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"deals,omitempty"`
}

// OrganizationMember is a user's role-bearing relationship to one organization.
// A user may hold independent roles in several organizations.
type OrganizationMember struct {
	gorm.Model
	UserID         uint       `gorm:"not null;uniqueIndex:uq_organization_user" json:"user_id"`
	OrganizationID uint       `gorm:"not null;uniqueIndex:uq_organization_user" json:"organization_id"`
	Role           MemberRole `gorm:"size:20;not null" json:"role"`

	// Relations
	User         User                           `json:"-"`
	Organization Organization                   `json:"-"`
	Permissions  []OrganizationMemberPermission `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

// OrganizationMemberPermission is an explicit per-member grant. Day-to-day
// permissions derive from the role; this table only carries the wildcard
// grant written at organization creation.
type OrganizationMemberPermission struct {
	gorm.Model
	MemberID   uint       `gorm:"not null;index" json:"member_id"`
	Permission Permission `gorm:"size:40;not null" json:"permission"`

	// Relations
	Member OrganizationMember `json:"-"`
}
