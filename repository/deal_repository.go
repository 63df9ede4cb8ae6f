package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pipecrm/models"
)

// DealFilter narrows a tenant-scoped deal listing
type DealFilter struct {
	OrganizationID uint
	Statuses       []string
	Stage          string
	MinAmount      *float64
	MaxAmount      *float64
	OwnerID        *uint
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
}

// StatusSummaryRow is one per-status rollup line
type StatusSummaryRow struct {
	Status models.DealStatus `json:"status"`
	Count  int64             `json:"count"`
	Total  float64           `json:"total_amount"`
}

// StageStatusCount is one (stage, status) bucket of the funnel
type StageStatusCount struct {
	Stage  models.DealStage
	Status models.DealStatus
	Count  int64
}

// orderColumns whitelists sortable columns; anything else falls back to created_at
var orderColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"amount":     "amount",
	"title":      "title",
}

// DealRepository persists deals and their derived audit records
type DealRepository struct {
	DB *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{DB: db}
}

func (r *DealRepository) Create(deal *models.Deal) error {
	return r.DB.Create(deal).Error
}

func (r *DealRepository) GetByID(id uint) (*models.Deal, error) {
	var deal models.Deal
	if err := r.DB.First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// GetContactInOrg confirms a contact belongs to the organization
func (r *DealRepository) GetContactInOrg(contactID, organizationID uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.DB.
		Where("id = ? AND organization_id = ?", contactID, organizationID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// UpdateWithActivities saves the deal and appends its derived audit records
// in a single transaction so the deal never mutates without its trail.
func (r *DealRepository) UpdateWithActivities(deal *models.Deal, activities []models.Activity) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(deal).Error; err != nil {
			return err
		}
		for i := range activities {
			activities[i].DealID = deal.ID
			if err := tx.Create(&activities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DealRepository) List(filter DealFilter) ([]models.Deal, error) {
	query := r.DB.Where("organization_id = ?", filter.OrganizationID)
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	column, ok := orderColumns[filter.OrderBy]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if filter.OrderDir == "desc" {
		dir = "DESC"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, dir))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var deals []models.Deal
	err := query.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&deals).Error
	return deals, err
}

// StatusSummary groups deals by status within the organization
func (r *DealRepository) StatusSummary(organizationID uint) ([]StatusSummaryRow, error) {
	var rows []StatusSummaryRow
	err := r.DB.Model(&models.Deal{}).
		Select("status, COUNT(id) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// AvgWonAmount returns the average amount of WON deals, 0 when there are none
func (r *DealRepository) AvgWonAmount(organizationID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&models.Deal{}).
		Select("AVG(amount)").
		Where("organization_id = ? AND status = ?", organizationID, models.StatusWon).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// CountCreatedSince counts deals created after the given time
func (r *DealRepository) CountCreatedSince(organizationID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Deal{}).
		Where("organization_id = ? AND created_at >= ?", organizationID, since).
		Count(&count).Error
	return count, err
}

// StageStatusCounts groups deals by (stage, status) for the funnel
func (r *DealRepository) StageStatusCounts(organizationID uint) ([]StageStatusCount, error) {
	var rows []StageStatusCount
	err := r.DB.Model(&models.Deal{}).
		Select("stage, status, COUNT(id) AS count").
		Where("organization_id = ?", organizationID).
		Group("stage, status").
		Scan(&rows).Error
	return rows, err
}
