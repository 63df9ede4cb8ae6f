package models

import "gorm.io/gorm"

// Contact belongs to one organization and one owning user.
// Email is unique within the organization.
type Contact struct {
	gorm.Model
	OwnerID        uint   `gorm:"not null;index" json:"owner_id"`
	OrganizationID uint   `gorm:"not null;uniqueIndex:uq_organization_contact_email;index:ix_contacts_organization_name" json:"organization_id"`
	Name           string `gorm:"size:100;not null;index:ix_contacts_organization_name" json:"name"`
	Email          string `gorm:"size:100;not null;uniqueIndex:uq_organization_contact_email" json:"email"`
	Phone          string `gorm:"size:30" json:"phone"`

	// Relations
	Owner        User         `gorm:"foreignKey:OwnerID" json:"-"`
	Organization Organization `json:"-"`
	Deals        []Deal       `gorm:"foreignKey:ContactID" json:"deals,omitempty"`
}
