package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pipecrm/models"
	"pipecrm/repository"
	"pipecrm/services"
	"pipecrm/utils"
)

type DealController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDealController(db *gorm.DB, logger *log.Logger) *DealController {
	return &DealController{
		DB:     db,
		Logger: logger,
	}
}

type DealCreateRequest struct {
	ContactID uint    `json:"contact_id" validate:"required"`
	Title     string  `json:"title" validate:"required,max=200"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Currency  string  `json:"currency" validate:"required,oneof=USD EUR GBP JPY CNY"`
}

type DealUpdateRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=new in_progress won lost"`
	Stage  *string `json:"stage" validate:"omitempty,oneof=qualification proposal negotiation closed"`
}

type ActivityCreateRequest struct {
	Type    string         `json:"type" validate:"required"`
	Payload models.JSONMap `json:"payload"`
}

func (dc *DealController) service() *services.DealService {
	return services.NewDealService(repository.NewDealRepository(dc.DB))
}

// GetDeals lists the organization's deals with filters and pagination
func (dc *DealController) GetDeals(c *fiber.Ctx) error {
	member := c.Locals("member").(*models.OrganizationMember)

	filter := repository.DealFilter{
		Stage:    c.Query("stage"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
		OrderBy:  c.Query("order_by", "created_at"),
		OrderDir: c.Query("order", "desc"),
	}
	if statusParam := c.Query("status"); statusParam != "" {
		filter.Statuses = strings.Split(statusParam, ",")
	}
	if minParam := c.Query("min_amount"); minParam != "" {
		if min, err := strconv.ParseFloat(minParam, 64); err == nil {
			filter.MinAmount = &min
		}
	}
	if maxParam := c.Query("max_amount"); maxParam != "" {
		if max, err := strconv.ParseFloat(maxParam, 64); err == nil {
			filter.MaxAmount = &max
		}
	}
	if ownerParam := c.Query("owner_id"); ownerParam != "" {
		ownerID := utils.ParseUint(ownerParam)
		filter.OwnerID = &ownerID
	}

	deals, err := dc.service().List(member, filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(utils.SuccessResponse(deals))
}

// CreateDeal opens a deal against a contact in the caller's organization
func (dc *DealController) CreateDeal(c *fiber.Ctx) error {
	var req DealCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	deal, err := dc.service().Create(
		member.OrganizationID,
		req.ContactID,
		member.UserID,
		req.Title,
		req.Amount,
		models.Currency(req.Currency),
	)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(deal))
}

// UpdateDeal applies status and stage transitions through the state machine
func (dc *DealController) UpdateDeal(c *fiber.Ctx) error {
	dealID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid deal id", nil)
	}

	var req DealUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var status *models.DealStatus
	if req.Status != nil {
		s := models.DealStatus(*req.Status)
		status = &s
	}
	var stage *models.DealStage
	if req.Stage != nil {
		s := models.DealStage(*req.Stage)
		stage = &s
	}

	member := c.Locals("member").(*models.OrganizationMember)
	deal, err := dc.service().Update(uint(dealID), member, status, stage)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return c.JSON(utils.SuccessResponse(deal))
}

// GetDealActivities returns the deal's audit trail
func (dc *DealController) GetDealActivities(c *fiber.Ctx) error {
	dealID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid deal id", nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	activityService := services.NewActivityService(repository.NewActivityRepository(dc.DB))
	activities, err := activityService.ListForDeal(uint(dealID), member.OrganizationID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(utils.SuccessResponse(activities))
}

// CreateDealActivity appends a comment to the deal. Derived audit records
// come only from the state machine; the API accepts comments alone.
func (dc *DealController) CreateDealActivity(c *fiber.Ctx) error {
	dealID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid deal id", nil)
	}

	var req ActivityCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if req.Type != string(models.ActivityComment) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only 'comment' type is allowed", nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	activityService := services.NewActivityService(repository.NewActivityRepository(dc.DB))
	activity, err := activityService.Comment(uint(dealID), member.OrganizationID, req.Payload, member.UserID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(activity))
}
