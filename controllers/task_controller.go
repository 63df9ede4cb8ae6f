package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pipecrm/models"
	"pipecrm/repository"
	"pipecrm/services"
	"pipecrm/utils"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

type TaskCreateRequest struct {
	DealID      uint   `json:"deal_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
}

const dateLayout = "2006-01-02"

func (tc *TaskController) service() *services.TaskService {
	return services.NewTaskService(repository.NewTaskRepository(tc.DB))
}

// GetTasks lists the organization's tasks across its deals
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	member := c.Locals("member").(*models.OrganizationMember)

	filter := repository.TaskFilter{
		OrganizationID: member.OrganizationID,
		OnlyOpen:       c.QueryBool("only_open", false),
	}
	if dealParam := c.Query("deal_id"); dealParam != "" {
		dealID := utils.ParseUint(dealParam)
		filter.DealID = &dealID
	}
	if beforeParam := c.Query("due_before"); beforeParam != "" {
		if before, err := time.Parse(dateLayout, beforeParam); err == nil {
			filter.DueBefore = &before
		}
	}
	if afterParam := c.Query("due_after"); afterParam != "" {
		if after, err := time.Parse(dateLayout, afterParam); err == nil {
			filter.DueAfter = &after
		}
	}

	tasks, err := tc.service().List(filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(utils.SuccessResponse(tasks))
}

// CreateTask validates and creates a task on a deal in the caller's organization
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var req TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "due_date must be formatted as YYYY-MM-DD", nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	task, err := tc.service().Create(
		req.DealID,
		req.Title,
		req.Description,
		dueDate,
		member.OrganizationID,
		member,
	)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}
