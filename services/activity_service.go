package services

import (
	"pipecrm/apperrors"
	"pipecrm/models"
)

// ActivityStore is the persistence surface the activity recorder needs.
// Insert-only: the audit trail is never updated or deleted.
type ActivityStore interface {
	Create(activity *models.Activity) error
	GetDealInOrg(dealID, organizationID uint) (*models.Deal, error)
	ListForDeal(dealID, organizationID uint) ([]models.Activity, error)
}

// ActivityService records and reads the append-only audit trail of a deal
type ActivityService struct {
	activities ActivityStore
}

func NewActivityService(activities ActivityStore) *ActivityService {
	return &ActivityService{activities: activities}
}

// Record appends one audit record to a deal. authorID is nil for
// system-generated records.
func (s *ActivityService) Record(dealID uint, actType models.ActivityType, payload models.JSONMap, authorID *uint) (*models.Activity, error) {
	activity := &models.Activity{
		DealID:   dealID,
		Type:     actType,
		Payload:  payload,
		AuthorID: authorID,
	}
	if err := s.activities.Create(activity); err != nil {
		return nil, apperrors.Internal("failed to record activity", err)
	}
	return activity, nil
}

// Comment appends a user comment to a deal in the caller's organization
func (s *ActivityService) Comment(dealID, organizationID uint, payload models.JSONMap, authorID uint) (*models.Activity, error) {
	deal, err := s.activities.GetDealInOrg(dealID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to look up deal", err)
	}
	if deal == nil {
		return nil, apperrors.NotFound("Deal not found in organization")
	}
	return s.Record(dealID, models.ActivityComment, payload, &authorID)
}

// ListForDeal returns a deal's activities, confirming the deal belongs to the
// caller's organization first.
func (s *ActivityService) ListForDeal(dealID, organizationID uint) ([]models.Activity, error) {
	activities, err := s.activities.ListForDeal(dealID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to list activities", err)
	}
	return activities, nil
}
