package services

import (
	"pipecrm/apperrors"
	"pipecrm/models"
)

// OrganizationStore is the persistence surface the organization service needs
type OrganizationStore interface {
	ListByUser(userID uint) ([]models.Organization, error)
}

// OrganizationService reads organization data for members
type OrganizationService struct {
	orgs OrganizationStore
}

func NewOrganizationService(orgs OrganizationStore) *OrganizationService {
	return &OrganizationService{orgs: orgs}
}

// ListForUser returns the organizations the user belongs to
func (s *OrganizationService) ListForUser(userID uint) ([]models.Organization, error) {
	orgs, err := s.orgs.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list organizations", err)
	}
	return orgs, nil
}
