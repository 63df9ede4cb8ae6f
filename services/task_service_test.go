package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

type fakeTaskStore struct {
	deal    *models.Deal
	created *models.Task
}

func (f *fakeTaskStore) Create(task *models.Task) error {
	task.ID = 1
	f.created = task
	return nil
}

func (f *fakeTaskStore) GetDealInOrg(dealID, organizationID uint) (*models.Deal, error) {
	if f.deal == nil || f.deal.ID != dealID || f.deal.OrganizationID != organizationID {
		return nil, nil
	}
	return f.deal, nil
}

func (f *fakeTaskStore) List(filter repository.TaskFilter) ([]models.Task, error) {
	return nil, nil
}

func newTaskFixture(dealOwnerID uint) (*TaskService, *fakeTaskStore) {
	deal := &models.Deal{OrganizationID: 1, OwnerID: dealOwnerID}
	deal.ID = 10
	store := &fakeTaskStore{deal: deal}
	svc := NewTaskService(store)
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC)
	}
	return svc, store
}

func dueOn(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestTaskCreateHappyPath(t *testing.T) {
	svc, store := newTaskFixture(7)

	task, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(20), 1, member(models.RoleMember))
	require.NoError(t, err)
	assert.Equal(t, "Call back", task.Title)
	assert.False(t, task.IsDone)
	assert.Equal(t, uint(10), store.created.DealID)
}

func TestTaskCreateDueTodayPasses(t *testing.T) {
	svc, _ := newTaskFixture(7)

	_, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(15), 1, member(models.RoleManager))
	require.NoError(t, err)
}

func TestTaskCreateUnknownDealFails(t *testing.T) {
	svc, _ := newTaskFixture(7)

	_, err := svc.Create(999, "Call back", "Discuss the renewal terms", dueOn(20), 1, member(models.RoleOwner))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestTaskCreatePastDueDateFailsForEveryRole(t *testing.T) {
	for _, role := range []models.MemberRole{models.RoleOwner, models.RoleAdmin, models.RoleManager, models.RoleMember} {
		svc, _ := newTaskFixture(7)

		_, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(14), 1, member(role))
		require.Error(t, err, "role %s", role)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		assert.EqualError(t, err, "Due date is in the past")
	}
}

func TestTaskCreateMemberForeignDealForbidden(t *testing.T) {
	svc, _ := newTaskFixture(99) // deal owned by someone else

	_, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(20), 1, member(models.RoleMember))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestTaskCreateManagerForeignDealAllowed(t *testing.T) {
	svc, _ := newTaskFixture(99)

	_, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(20), 1, member(models.RoleManager))
	require.NoError(t, err)
}

func TestTaskCreateCheckOrderDateBeforeOwnership(t *testing.T) {
	// Past due date on someone else's deal: the date check must win.
	svc, _ := newTaskFixture(99)

	_, err := svc.Create(10, "Call back", "Discuss the renewal terms", dueOn(14), 1, member(models.RoleMember))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.EqualError(t, err, "Due date is in the past")
}

func TestTaskCreateTextValidation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		message     string
	}{
		{"blank title", "   ", "Discuss the renewal terms", "Title cannot be empty"},
		{"long title", strings.Repeat("x", 101), "Discuss the renewal terms", "Title cannot exceed 100 characters"},
		{"blank description", "Call back", "\t ", "Description cannot be empty"},
		{"long description", "Call back", strings.Repeat("x", 301), "Description cannot exceed 300 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTaskFixture(7)

			_, err := svc.Create(10, tt.title, tt.description, dueOn(20), 1, member(models.RoleAdmin))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestTaskCreateRuneLimitsCountRunes(t *testing.T) {
	svc, _ := newTaskFixture(7)

	// 100 multibyte runes fit even though the byte length is larger.
	title := strings.Repeat("ё", 100)
	_, err := svc.Create(10, title, "Discuss the renewal terms", dueOn(20), 1, member(models.RoleAdmin))
	require.NoError(t, err)
}
