package repository

import (
	"errors"

	"gorm.io/gorm"

	"pipecrm/models"
)

// ContactFilter narrows a tenant-scoped contact listing
type ContactFilter struct {
	OrganizationID uint
	OwnerID        *uint
	Search         string
	Page           int
	PageSize       int
}

// ContactRepository persists contacts
type ContactRepository struct {
	DB *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(contact *models.Contact) error {
	return r.DB.Create(contact).Error
}

func (r *ContactRepository) GetByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.DB.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) GetByOrgAndEmail(organizationID uint, email string) (*models.Contact, error) {
	var contact models.Contact
	err := r.DB.
		Where("organization_id = ? AND email = ?", organizationID, email).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) List(filter ContactFilter) ([]models.Contact, error) {
	query := r.DB.Where("organization_id = ?", filter.OrganizationID)
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var contacts []models.Contact
	err := query.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&contacts).Error
	return contacts, err
}

// CountDeals returns the number of deals referencing the contact
func (r *ContactRepository) CountDeals(contactID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Deal{}).Where("contact_id = ?", contactID).Count(&count).Error
	return count, err
}

func (r *ContactRepository) Delete(contact *models.Contact) error {
	return r.DB.Delete(contact).Error
}
