package repository

import (
	"errors"

	"gorm.io/gorm"

	"pipecrm/models"
)

// ActivityRepository persists the append-only audit trail. There is no
// update or delete method on purpose.
type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *models.Activity) error {
	return r.DB.Create(activity).Error
}

// GetDealInOrg confirms the target deal belongs to the organization
func (r *ActivityRepository) GetDealInOrg(dealID, organizationID uint) (*models.Deal, error) {
	var deal models.Deal
	err := r.DB.
		Where("id = ? AND organization_id = ?", dealID, organizationID).
		First(&deal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// ListForDeal returns activities only when the deal belongs to the
// organization, guarding against cross-tenant deal_id guessing.
func (r *ActivityRepository) ListForDeal(dealID, organizationID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.DB.
		Joins("JOIN deals ON deals.id = activities.deal_id").
		Where("activities.deal_id = ? AND deals.organization_id = ?", dealID, organizationID).
		Order("activities.created_at ASC").
		Find(&activities).Error
	return activities, err
}
