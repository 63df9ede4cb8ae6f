package services

import (
	"github.com/badoux/checkmail"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

// ContactStore is the persistence surface the contact service needs
type ContactStore interface {
	Create(contact *models.Contact) error
	GetByID(id uint) (*models.Contact, error)
	GetByOrgAndEmail(organizationID uint, email string) (*models.Contact, error)
	List(filter repository.ContactFilter) ([]models.Contact, error)
	CountDeals(contactID uint) (int64, error)
	Delete(contact *models.Contact) error
}

// ContactService manages organization contacts
type ContactService struct {
	contacts ContactStore
}

func NewContactService(contacts ContactStore) *ContactService {
	return &ContactService{contacts: contacts}
}

// Create adds a contact owned by the acting user. Email must be well formed
// and unique within the organization.
func (s *ContactService) Create(name, email, phone string, ownerID, organizationID uint) (*models.Contact, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, apperrors.Validation("Invalid email format")
	}
	existing, err := s.contacts.GetByOrgAndEmail(organizationID, email)
	if err != nil {
		return nil, apperrors.Internal("failed to check contact email", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Contact with this email already exists in the organization")
	}

	contact := &models.Contact{
		OrganizationID: organizationID,
		OwnerID:        ownerID,
		Name:           name,
		Email:          email,
		Phone:          phone,
	}
	if err := s.contacts.Create(contact); err != nil {
		return nil, apperrors.Internal("failed to create contact", err)
	}
	return contact, nil
}

// List returns the organization's contacts. Roles below MANAGER are pinned
// to their own contacts regardless of the requested owner filter.
func (s *ContactService) List(member *models.OrganizationMember, filter repository.ContactFilter) ([]models.Contact, error) {
	filter.OrganizationID = member.OrganizationID
	switch member.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleManager:
		if filter.OwnerID == nil {
			userID := member.UserID
			filter.OwnerID = &userID
		}
	default:
		userID := member.UserID
		filter.OwnerID = &userID
	}
	contacts, err := s.contacts.List(filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list contacts", err)
	}
	return contacts, nil
}

// Delete removes a contact. Contacts with linked deals cannot be deleted;
// MEMBERs may only delete their own.
func (s *ContactService) Delete(contactID uint, member *models.OrganizationMember) error {
	contact, err := s.contacts.GetByID(contactID)
	if err != nil {
		return apperrors.Internal("failed to load contact", err)
	}
	if contact == nil || contact.OrganizationID != member.OrganizationID {
		return apperrors.NotFound("Contact not found in organization")
	}
	if !AllowOwned(member.Role, models.PermWriteContact, contact.OwnerID, member.UserID) {
		return apperrors.PermissionDenied("Permission denied")
	}
	deals, err := s.contacts.CountDeals(contactID)
	if err != nil {
		return apperrors.Internal("failed to count contact deals", err)
	}
	if deals > 0 {
		return apperrors.Conflict("Cannot delete contact with linked deals")
	}
	if err := s.contacts.Delete(contact); err != nil {
		return apperrors.Internal("failed to delete contact", err)
	}
	return nil
}
