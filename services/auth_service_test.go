package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/apperrors"
	"pipecrm/config"
	"pipecrm/models"
)

type fakeAuthUserStore struct {
	users map[string]*models.User
}

func (f *fakeAuthUserStore) Create(user *models.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users[user.Email] = user
	return nil
}

func (f *fakeAuthUserStore) GetByEmail(email string) (*models.User, error) {
	return f.users[email], nil
}

type fakeAuthOrgStore struct {
	orgs      map[string]*models.Organization
	ownerSeen uint
}

func (f *fakeAuthOrgStore) CreateWithOwner(name string, ownerID uint) (*models.Organization, error) {
	org := &models.Organization{Name: name}
	org.ID = 1
	f.orgs[name] = org
	f.ownerSeen = ownerID
	return org, nil
}

func (f *fakeAuthOrgStore) GetByName(name string) (*models.Organization, error) {
	return f.orgs[name], nil
}

type fakeRefreshTokenStore struct {
	tokens  map[string]*models.RefreshToken
	deletes int
	revoked *models.RefreshToken
}

func (f *fakeRefreshTokenStore) Create(token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeRefreshTokenStore) GetByToken(token string) (*models.RefreshToken, error) {
	return f.tokens[token], nil
}

func (f *fakeRefreshTokenStore) DeleteByUser(userID uint) error {
	f.deletes++
	for key, stored := range f.tokens {
		if stored.UserID == userID {
			delete(f.tokens, key)
		}
	}
	return nil
}

func (f *fakeRefreshTokenStore) Revoke(token *models.RefreshToken) error {
	token.Revoked = true
	f.revoked = token
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeAuthUserStore, *fakeAuthOrgStore, *fakeRefreshTokenStore) {
	t.Helper()
	config.AppConfig.RefreshTokenTTL = 30 * 24 * time.Hour

	users := &fakeAuthUserStore{users: make(map[string]*models.User)}
	orgs := &fakeAuthOrgStore{orgs: make(map[string]*models.Organization)}
	refresh := &fakeRefreshTokenStore{tokens: make(map[string]*models.RefreshToken)}
	return NewAuthService(users, orgs, refresh), users, orgs, refresh
}

func TestRegisterBootstrapsOwner(t *testing.T) {
	svc, users, orgs, refresh := newAuthFixture(t)

	user, token, err := svc.Register("ada@example.com", "s3cret-pass", "Ada", "Acme")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, orgs.ownerSeen)
	assert.True(t, users.users["ada@example.com"].CheckPassword("s3cret-pass"))

	stored := refresh.tokens[token]
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.UserID)
	assert.True(t, stored.IsValid())
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, err := svc.Register("nope", "s3cret-pass", "Ada", "Acme")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.users["ada@example.com"] = &models.User{Email: "ada@example.com"}

	_, _, err := svc.Register("ada@example.com", "s3cret-pass", "Ada", "Acme")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRegisterDuplicateOrganizationConflicts(t *testing.T) {
	svc, _, orgs, _ := newAuthFixture(t)
	orgs.orgs["Acme"] = &models.Organization{Name: "Acme"}

	_, _, err := svc.Register("ada@example.com", "s3cret-pass", "Ada", "Acme")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestAuthenticateMismatchReturnsNil(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	user := &models.User{Email: "ada@example.com"}
	require.NoError(t, user.SetPassword("s3cret-pass"))
	users.users[user.Email] = user

	got, err := svc.Authenticate("ada@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.Authenticate("nobody@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.Authenticate("ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestCreateRefreshTokenDropsPrevious(t *testing.T) {
	svc, _, _, refresh := newAuthFixture(t)

	first, err := svc.CreateRefreshToken(7)
	require.NoError(t, err)
	second, err := svc.CreateRefreshToken(7)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Nil(t, refresh.tokens[first])
	assert.NotNil(t, refresh.tokens[second])
	assert.Len(t, refresh.tokens, 1)
}

func TestRotateRevokesAndReissues(t *testing.T) {
	svc, _, _, refresh := newAuthFixture(t)

	original, err := svc.CreateRefreshToken(7)
	require.NoError(t, err)

	userID, replacement, err := svc.Rotate(original)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.NotEqual(t, original, replacement)
	require.NotNil(t, refresh.revoked)
	assert.True(t, refresh.revoked.Revoked)

	// Replaying the consumed token must fail.
	_, _, err = svc.Rotate(original)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRotateExpiredTokenFails(t *testing.T) {
	svc, _, _, refresh := newAuthFixture(t)
	refresh.tokens["stale"] = &models.RefreshToken{
		UserID:    7,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, _, err := svc.Rotate("stale")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
