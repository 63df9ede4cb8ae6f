package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"pipecrm/apperrors"
	"pipecrm/models"
	"pipecrm/repository"
)

// TaskStore is the persistence surface the task service needs
type TaskStore interface {
	Create(task *models.Task) error
	GetDealInOrg(dealID, organizationID uint) (*models.Deal, error)
	List(filter repository.TaskFilter) ([]models.Task, error)
}

// TaskService validates and creates tasks tied to deals
type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// Create validates and persists a task. The check order is fixed so error
// messages stay deterministic: deal existence, due date, ownership, title,
// description.
func (s *TaskService) Create(dealID uint, title, description string, dueDate time.Time, organizationID uint, member *models.OrganizationMember) (*models.Task, error) {
	deal, err := s.tasks.GetDealInOrg(dealID, organizationID)
	if err != nil {
		return nil, apperrors.Internal("failed to look up deal", err)
	}
	if deal == nil {
		return nil, apperrors.NotFound("Deal not found in organization")
	}

	today := s.today()
	if dueDate.Before(today) {
		return nil, apperrors.Validation("Due date is in the past")
	}

	if member.Role == models.RoleMember && deal.OwnerID != member.UserID {
		return nil, apperrors.Forbidden("You cannot create tasks for someone else's deal")
	}

	if strings.TrimSpace(title) == "" {
		return nil, apperrors.Validation("Title cannot be empty")
	}
	if utf8.RuneCountInString(title) > 100 {
		return nil, apperrors.Validation("Title cannot exceed 100 characters")
	}

	if strings.TrimSpace(description) == "" {
		return nil, apperrors.Validation("Description cannot be empty")
	}
	if utf8.RuneCountInString(description) > 300 {
		return nil, apperrors.Validation("Description cannot exceed 300 characters")
	}

	task := &models.Task{
		DealID:      dealID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, apperrors.Internal("failed to create task", err)
	}
	return task, nil
}

// List returns the organization's tasks
func (s *TaskService) List(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.tasks.List(filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

// today is the current date at UTC midnight, matching the date-only
// precision of task due dates.
func (s *TaskService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
