package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"pipecrm/models"
)

// TaskFilter narrows a tenant-scoped task listing
type TaskFilter struct {
	OrganizationID uint
	DealID         *uint
	OnlyOpen       bool
	DueBefore      *time.Time
	DueAfter       *time.Time
}

// TaskRepository persists deal tasks
type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.DB.Create(task).Error
}

// GetDealInOrg confirms a deal belongs to the organization
func (r *TaskRepository) GetDealInOrg(dealID, organizationID uint) (*models.Deal, error) {
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

// List returns the organization's tasks, scoped through the owning deals
func (r *TaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.DB.
		Joins("JOIN deals ON deals.id = tasks.deal_id").
		Where("deals.organization_id = ?", filter.OrganizationID)
	if filter.DealID != nil {
		query = query.Where("tasks.deal_id = ?", *filter.DealID)
	}
	if filter.OnlyOpen {
		query = query.Where("tasks.is_done = ?", false)
	}
	if filter.DueAfter != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		query = query.Where("tasks.due_date <= ?", *filter.DueBefore)
	}

	var tasks []models.Task
	err := query.Find(&tasks).Error
	return tasks, err
}
