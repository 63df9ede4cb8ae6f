package services

import (
	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

// DealStore is the persistence surface the deal service needs
type DealStore interface {
	Create(deal *models.Deal) error
	GetByID(id uint) (*models.Deal, error)
	GetContactInOrg(contactID, organizationID uint) (*models.Contact, error)
	UpdateWithActivities(deal *models.Deal, activities []models.Activity) error
	List(filter repository.DealFilter) ([]models.Deal, error)
}

// DealService runs the deal lifecycle: creation, listing, and the
// status/stage state machine with its derived audit trail.
type DealService struct {
	deals DealStore
}

func NewDealService(deals DealStore) *DealService {
	return &DealService{deals: deals}
}

// Create opens a deal in the caller's organization. The contact must belong
// to the same organization; cross-tenant references are rejected outright.
func (s *DealService) Create(organizationID, contactID, ownerID uint, title string, amount float64, currency models.Currency) (*models.Deal, error) {
	if !currency.IsValid() {
		return nil, apperrors.Validation("invalid currency")
	}
	contact, err := s.deals.GetContactInOrg(contactID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to look up contact", err)
	}
	if contact == nil {
		return nil, apperrors.Validation("Contact does not belong to this organization")
	}

	deal := &models.Deal{
		OrganizationID: organizationID,
		ContactID:      contactID,
		OwnerID:        ownerID,
		Title:          title,
		Amount:         amount,
		Currency:       currency,
		Status:         models.StatusNew,
		Stage:          models.StageQualification,
	}
	if err := s.deals.Create(deal); err != nil {
		return nil, apperrors.Internal("failed to create deal", err)
	}
	return deal, nil
}

// List returns the organization's deals. A MEMBER only ever sees their own;
// higher roles may filter by owner.
func (s *DealService) List(member *models.OrganizationMember, filter repository.DealFilter) ([]models.Deal, error) {
	filter.OrganizationID = member.OrganizationID
	if member.Role == models.RoleMember {
		userID := member.UserID
		filter.OwnerID = &userID
	}
	deals, err := s.deals.List(filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list deals", err)
	}
	return deals, nil
}

// Update applies status and stage transitions in one call. The two axes are
// independent: each is checked and applied on its own, no-ops emit nothing,
// and accepted transitions append audit records in status-then-stage order.
// The deal row and its activities are persisted in a single transaction.
func (s *DealService) Update(dealID uint, member *models.OrganizationMember, status *models.DealStatus, stage *models.DealStage) (*models.Deal, error) {
	deal, err := s.deals.GetByID(dealID)
	if err != nil {
		return nil, apperrors.Internal("failed to load deal", err)
	}
	if deal == nil || deal.OrganizationID != member.OrganizationID {
		// Masks cross-tenant existence: a foreign deal looks like no deal.
		return nil, apperrors.NotFound("Deal not found in organization")
	}

	authorID := member.UserID
	var activities []models.Activity

	if status != nil && *status != deal.Status {
		if !status.IsValid() {
			return nil, apperrors.Validation("invalid deal status")
		}
		if *status == models.StatusWon && deal.Amount <= 0 {
			return nil, apperrors.Validation("Cannot close deal with status 'won' when amount <= 0")
		}
		actType, payload := models.StatusChangeActivity(deal.Status, *status)
		deal.Status = *status
		activities = append(activities, models.Activity{
			Type:     actType,
			Payload:  payload,
			AuthorID: &authorID,
		})
	}

	if stage != nil && *stage != deal.Stage {
		if !stage.IsValid() {
			return nil, apperrors.Validation("invalid deal stage")
		}
		if *stage == models.StageClosed && deal.Amount <= 0 {
			return nil, apperrors.Validation("Cannot close deal with amount <= 0")
		}
		if member.Role == models.RoleMember && stage.Index() < deal.Stage.Index() {
			return nil, apperrors.Forbidden("Member cannot move stage backward")
		}
		actType, payload := models.StageChangeActivity(deal.Stage, *stage)
		deal.Stage = *stage
		activities = append(activities, models.Activity{
			Type:     actType,
			Payload:  payload,
			AuthorID: &authorID,
		})
	}

	if err := s.deals.UpdateWithActivities(deal, activities); err != nil {
		return nil, apperrors.Internal("failed to update deal", err)
	}
	return deal, nil
}
