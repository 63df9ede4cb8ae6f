package services

import (
	"github.com/sirupsen/logrus"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/utils"
)

// MemberStore is the persistence surface the member service needs
type MemberStore interface {
	Create(member *models.OrganizationMember) error
	GetMember(userID, organizationID uint) (*models.OrganizationMember, error)
}

// MemberUserStore looks up the users being added to organizations
type MemberUserStore interface {
	GetByID(id uint) (*models.User, error)
}

// MemberService resolves memberships and manages organization membership
type MemberService struct {
	members MemberStore
	users   MemberUserStore
}

func NewMemberService(members MemberStore, users MemberUserStore) *MemberService {
	return &MemberService{members: members, users: users}
}

// Resolve maps a (user, organization) pair to its membership. A missing pair
// is a NotMember error: callers treat it as 403 so organization existence is
// never disclosed to outsiders.
func (s *MemberService) Resolve(userID, organizationID uint) (*models.OrganizationMember, error) {
	member, err := s.members.GetMember(userID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to resolve membership", err)
	}
	if member == nil {
		return nil, apperrors.NotMember("You are not a member of this organization")
	}
	return member, nil
}

// AddMember adds an existing user to the organization with the given role.
// Roles are never auto-upgraded; adding an existing member is a conflict.
func (s *MemberService) AddMember(organizationID, userID uint, role models.MemberRole, organizationName string) (*models.OrganizationMember, error) {
	if !role.IsValid() {
		return nil, apperrors.Validation("invalid member role")
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	existing, err := s.members.GetMember(userID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to check membership", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("User is already a member of this organization")
	}

	member := &models.OrganizationMember{
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           role,
	}
	if err := s.members.Create(member); err != nil {
		return nil, apperrors.Internal("failed to add member", err)
	}

	// Delivery is best effort; membership stands either way.
	if err := utils.SendMemberInviteEmail(user.Email, organizationName, string(role)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":         userID,
			"organization_id": organizationID,
		}).Warn("failed to send invite email")
	}

	return member, nil
}
