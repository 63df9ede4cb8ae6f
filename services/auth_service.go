package services

import (
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"

	"pipecrm/apperrors"
	"pipecrm/config"
	"pipecrm/models"
)

// AuthUserStore is the user persistence surface for authentication
type AuthUserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
}

// AuthOrgStore bootstraps the registering user's organization
type AuthOrgStore interface {
	CreateWithOwner(name string, ownerID uint) (*models.Organization, error)
	GetByName(name string) (*models.Organization, error)
}

// RefreshTokenStore persists opaque refresh tokens
type RefreshTokenStore interface {
	Create(token *models.RefreshToken) error
	GetByToken(token string) (*models.RefreshToken, error)
	DeleteByUser(userID uint) error
	Revoke(token *models.RefreshToken) error
}

// AuthService registers and authenticates users and rotates refresh tokens
type AuthService struct {
	users   AuthUserStore
	orgs    AuthOrgStore
	refresh RefreshTokenStore
}

func NewAuthService(users AuthUserStore, orgs AuthOrgStore, refresh RefreshTokenStore) *AuthService {
	return &AuthService{users: users, orgs: orgs, refresh: refresh}
}

// Register creates the user, their organization and the OWNER membership,
// and issues the first refresh token.
func (s *AuthService) Register(email, password, name, organizationName string) (*models.User, string, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, "", apperrors.Validation("Invalid email format")
	}

	existingUser, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, "", apperrors.Internal("failed to check email", err)
	}
	if existingUser != nil {
		return nil, "", apperrors.Conflict("User with this email already exists")
	}

	existingOrg, err := s.orgs.GetByName(organizationName)
	if err != nil {
		return nil, "", apperrors.Internal("failed to check organization name", err)
	}
	if existingOrg != nil {
		return nil, "", apperrors.Conflict("Organization with this name already exists")
	}

	user := &models.User{Email: email, Name: name}
	if err := user.SetPassword(password); err != nil {
		return nil, "", apperrors.Internal("failed to hash password", err)
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", apperrors.Internal("failed to create user", err)
	}

	if _, err := s.orgs.CreateWithOwner(organizationName, user.ID); err != nil {
		return nil, "", apperrors.Internal("failed to create organization", err)
	}

	refreshToken, err := s.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, refreshToken, nil
}

// Authenticate checks credentials. Returns nil without error on a mismatch
// so the boundary can answer 401 without leaking which part was wrong.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, nil
	}
	return user, nil
}

// CreateRefreshToken issues a fresh opaque token, dropping any previous ones
// so a single refresh token is live per user.
func (s *AuthService) CreateRefreshToken(userID uint) (string, error) {
	if err := s.refresh.DeleteByUser(userID); err != nil {
		return "", apperrors.Internal("failed to clear refresh tokens", err)
	}
	token := uuid.NewString() + uuid.NewString()
	stored := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(config.AppConfig.RefreshTokenTTL),
	}
	if err := s.refresh.Create(stored); err != nil {
		return "", apperrors.Internal("failed to store refresh token", err)
	}
	return token, nil
}

// Rotate exchanges a valid refresh token for a new one, revoking the old.
// Returns the user id to mint an access token for, and the replacement token.
func (s *AuthService) Rotate(refreshToken string) (uint, string, error) {
	stored, err := s.refresh.GetByToken(refreshToken)
	if err != nil {
		return 0, "", apperrors.Internal("failed to look up refresh token", err)
	}
	if stored == nil || !stored.IsValid() {
		return 0, "", apperrors.Validation("Refresh token is invalid or expired")
	}
	if err := s.refresh.Revoke(stored); err != nil {
		return 0, "", apperrors.Internal("failed to revoke refresh token", err)
	}
	replacement, err := s.CreateRefreshToken(stored.UserID)
	if err != nil {
		return 0, "", err
	}
	return stored.UserID, replacement, nil
}
