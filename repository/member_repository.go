package repository

import (
	"errors"

	"gorm.io/gorm"

	"pipecrm/models"
)

// MemberRepository persists organization memberships
type MemberRepository struct {
	DB *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{DB: db}
}

func (r *MemberRepository) Create(member *models.OrganizationMember) error {
	return r.DB.Create(member).Error
}

// GetMember returns the membership for a (user, organization) pair, or nil
// when the user is not a member.
func (r *MemberRepository) GetMember(userID, organizationID uint) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	err := r.DB.
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}
