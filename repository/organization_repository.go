package repository

import (
	"errors"

	"gorm.io/gorm"

	"pipecrm/models"
)

// OrganizationRepository persists organizations and their owner bootstrap
type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

// CreateWithOwner creates the organization, the owner membership and the
// explicit wildcard grant in one transaction.
func (r *OrganizationRepository) CreateWithOwner(name string, ownerID uint) (*models.Organization, error) {
	org := &models.Organization{Name: name}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		member := &models.OrganizationMember{
			UserID:         ownerID,
			OrganizationID: org.ID,
			Role:           models.RoleOwner,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		grant := &models.OrganizationMemberPermission{
			MemberID:   member.ID,
			Permission: models.PermAllPermissions,
		}
		return tx.Create(grant).Error
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) GetByName(name string) (*models.Organization, error) {
	var org models.Organization
	if err := r.DB.Where("name = ?", name).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// ListByUser returns the organizations the user is a member of
func (r *OrganizationRepository) ListByUser(userID uint) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.DB.
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
		Where("organization_members.user_id = ?", userID).
		Find(&orgs).Error
	return orgs, err
}
