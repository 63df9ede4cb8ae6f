package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

type fakeDealStore struct {
	deals         map[uint]*models.Deal
	contactOrgs   map[uint]uint
	savedDeal     *models.Deal
	savedActivity []models.Activity
	updateCalls   int
	createdDeal   *models.Deal
	listFilter    repository.DealFilter
	listResult    []models.Deal
}

func newFakeDealStore() *fakeDealStore {
	return &fakeDealStore{
		deals:       make(map[uint]*models.Deal),
		contactOrgs: make(map[uint]uint),
	}
}

func (f *fakeDealStore) Create(deal *models.Deal) error {
	deal.ID = uint(len(f.deals) + 1)
	f.deals[deal.ID] = deal
	f.createdDeal = deal
	return nil
}

func (f *fakeDealStore) GetByID(id uint) (*models.Deal, error) {
	return f.deals[id], nil
}

func (f *fakeDealStore) GetContactInOrg(contactID, organizationID uint) (*models.Contact, error) {
	if f.contactOrgs[contactID] != organizationID {
		return nil, nil
	}
	return &models.Contact{OrganizationID: organizationID}, nil
}

func (f *fakeDealStore) UpdateWithActivities(deal *models.Deal, activities []models.Activity) error {
	f.updateCalls++
	f.savedDeal = deal
	f.savedActivity = activities
	return nil
}

func (f *fakeDealStore) List(filter repository.DealFilter) ([]models.Deal, error) {
	f.listFilter = filter
	return f.listResult, nil
}

func member(role models.MemberRole) *models.OrganizationMember {
	return &models.OrganizationMember{UserID: 7, OrganizationID: 1, Role: role}
}

func seedDeal(store *fakeDealStore, amount float64, status models.DealStatus, stage models.DealStage) *models.Deal {
	deal := &models.Deal{
		OrganizationID: 1,
		ContactID:      1,
		OwnerID:        7,
		Title:          "Acme renewal",
		Amount:         amount,
		Currency:       models.CurrencyUSD,
		Status:         status,
		Stage:          stage,
	}
	deal.ID = 10
	store.deals[deal.ID] = deal
	return deal
}

func statusPtr(s models.DealStatus) *models.DealStatus { return &s }

func stagePtr(s models.DealStage) *models.DealStage { return &s }

func TestDealCreateRejectsCrossTenantContact(t *testing.T) {
	store := newFakeDealStore()
	store.contactOrgs[5] = 2 // contact lives in another organization
	svc := NewDealService(store)

	_, err := svc.Create(1, 5, 7, "Acme renewal", 1000, models.CurrencyUSD)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestDealCreateDefaultsLifecycle(t *testing.T) {
	store := newFakeDealStore()
	store.contactOrgs[5] = 1
	svc := NewDealService(store)

	deal, err := svc.Create(1, 5, 7, "Acme renewal", 1000, models.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, deal.Status)
	assert.Equal(t, models.StageQualification, deal.Stage)
	assert.Equal(t, uint(7), deal.OwnerID)
}

func TestDealUpdateNotFoundMasksTenant(t *testing.T) {
	store := newFakeDealStore()
	deal := seedDeal(store, 1000, models.StatusNew, models.StageQualification)
	deal.OrganizationID = 2 // caller's org is 1
	svc := NewDealService(store)

	_, err := svc.Update(deal.ID, member(models.RoleAdmin), statusPtr(models.StatusWon), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.Update(999, member(models.RoleAdmin), statusPtr(models.StatusWon), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDealUpdateStatusNoOpEmitsNothing(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusNew, models.StageQualification)
	svc := NewDealService(store)

	deal, err := svc.Update(10, member(models.RoleManager), statusPtr(models.StatusNew), stagePtr(models.StageQualification))
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, deal.Status)
	assert.Empty(t, store.savedActivity)
	assert.Equal(t, 1, store.updateCalls)
}

func TestDealUpdateWonEmitsSystemActivity(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusNew, models.StageQualification)
	svc := NewDealService(store)

	deal, err := svc.Update(10, member(models.RoleManager), statusPtr(models.StatusWon), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWon, deal.Status)

	require.Len(t, store.savedActivity, 1)
	act := store.savedActivity[0]
	assert.Equal(t, models.ActivitySystem, act.Type)
	assert.Equal(t, "new", act.Payload["old_status"])
	assert.Equal(t, "won", act.Payload["new_status"])
	assert.Equal(t, "Deal closed", act.Payload["message"])
	require.NotNil(t, act.AuthorID)
	assert.Equal(t, uint(7), *act.AuthorID)
}

func TestDealUpdateInProgressEmitsStatusChange(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusNew, models.StageQualification)
	svc := NewDealService(store)

	_, err := svc.Update(10, member(models.RoleMember), statusPtr(models.StatusInProgress), nil)
	require.NoError(t, err)

	require.Len(t, store.savedActivity, 1)
	act := store.savedActivity[0]
	assert.Equal(t, models.ActivityStatusChange, act.Type)
	assert.NotContains(t, act.Payload, "message")
}

func TestDealUpdateWonZeroAmountFails(t *testing.T) {
	for _, role := range []models.MemberRole{models.RoleOwner, models.RoleAdmin, models.RoleManager, models.RoleMember} {
		store := newFakeDealStore()
		seedDeal(store, 0, models.StatusNew, models.StageQualification)
		svc := NewDealService(store)

		_, err := svc.Update(10, member(role), statusPtr(models.StatusWon), nil)
		require.Error(t, err, "role %s", role)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.Equal(t, 0, store.updateCalls, "no mutation may be persisted")
	}
}

func TestDealUpdateCloseStageZeroAmountFails(t *testing.T) {
	for _, role := range []models.MemberRole{models.RoleOwner, models.RoleAdmin, models.RoleManager, models.RoleMember} {
		store := newFakeDealStore()
		seedDeal(store, 0, models.StatusNew, models.StageNegotiation)
		svc := NewDealService(store)

		_, err := svc.Update(10, member(role), nil, stagePtr(models.StageClosed))
		require.Error(t, err, "role %s", role)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.EqualError(t, err, "Cannot close deal with amount <= 0")
		assert.Equal(t, 0, store.updateCalls)
	}
}

func TestDealUpdateMemberCannotMoveStageBackward(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusInProgress, models.StageNegotiation)
	svc := NewDealService(store)

	_, err := svc.Update(10, member(models.RoleMember), nil, stagePtr(models.StageProposal))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, 0, store.updateCalls)
}

func TestDealUpdateManagerMovesStageBackward(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusInProgress, models.StageNegotiation)
	svc := NewDealService(store)

	deal, err := svc.Update(10, member(models.RoleManager), nil, stagePtr(models.StageProposal))
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, deal.Stage)

	require.Len(t, store.savedActivity, 1)
	assert.Equal(t, models.ActivityStageChange, store.savedActivity[0].Type)
	assert.Equal(t, "negotiation", store.savedActivity[0].Payload["old_stage"])
	assert.Equal(t, "proposal", store.savedActivity[0].Payload["new_stage"])
}

func TestDealUpdateMemberMovesStageForward(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusInProgress, models.StageQualification)
	svc := NewDealService(store)

	deal, err := svc.Update(10, member(models.RoleMember), nil, stagePtr(models.StageProposal))
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, deal.Stage)
}

func TestDealUpdateCloseStageEmitsSystemActivity(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusInProgress, models.StageNegotiation)
	svc := NewDealService(store)

	_, err := svc.Update(10, member(models.RoleManager), nil, stagePtr(models.StageClosed))
	require.NoError(t, err)

	require.Len(t, store.savedActivity, 1)
	act := store.savedActivity[0]
	assert.Equal(t, models.ActivitySystem, act.Type)
	assert.Equal(t, "Stage closed", act.Payload["message"])
}

func TestDealUpdateStatusThenStageOrder(t *testing.T) {
	store := newFakeDealStore()
	seedDeal(store, 1000, models.StatusNew, models.StageQualification)
	svc := NewDealService(store)

	deal, err := svc.Update(10, member(models.RoleManager), statusPtr(models.StatusInProgress), stagePtr(models.StageProposal))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, deal.Status)
	assert.Equal(t, models.StageProposal, deal.Stage)

	require.Len(t, store.savedActivity, 2)
	assert.Equal(t, models.ActivityStatusChange, store.savedActivity[0].Type)
	assert.Equal(t, models.ActivityStageChange, store.savedActivity[1].Type)
	assert.Equal(t, 1, store.updateCalls, "single transactional update")
}

func TestDealListPinsMemberToOwnDeals(t *testing.T) {
	store := newFakeDealStore()
	svc := NewDealService(store)

	_, err := svc.List(member(models.RoleMember), repository.DealFilter{})
	require.NoError(t, err)
	require.NotNil(t, store.listFilter.OwnerID)
	assert.Equal(t, uint(7), *store.listFilter.OwnerID)
	assert.Equal(t, uint(1), store.listFilter.OrganizationID)

	_, err = svc.List(member(models.RoleManager), repository.DealFilter{})
	require.NoError(t, err)
	assert.Nil(t, store.listFilter.OwnerID)
}
