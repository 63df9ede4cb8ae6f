package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pipecrm/models"
	"pipecrm/repository"
	"pipecrm/services"
	"pipecrm/utils"
)

type ContactController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewContactController(db *gorm.DB, logger *log.Logger) *ContactController {
	return &ContactController{
		DB:     db,
		Logger: logger,
	}
}

type ContactCreateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

func (cc *ContactController) service() *services.ContactService {
	return services.NewContactService(repository.NewContactRepository(cc.DB))
}

// GetContacts lists the organization's contacts with search and pagination
func (cc *ContactController) GetContacts(c *fiber.Ctx) error {
	member := c.Locals("member").(*models.OrganizationMember)

	filter := repository.ContactFilter{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if ownerParam := c.Query("owner_id"); ownerParam != "" {
		ownerID := utils.ParseUint(ownerParam)
		filter.OwnerID = &ownerID
	}

	contacts, err := cc.service().List(member, filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(utils.SuccessResponse(contacts))
}

// CreateContact adds a contact owned by the caller
func (cc *ContactController) CreateContact(c *fiber.Ctx) error {
	var req ContactCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	contact, err := cc.service().Create(req.Name, req.Email, req.Phone, member.UserID, member.OrganizationID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(contact))
}

// DeleteContact removes a contact without linked deals
func (cc *ContactController) DeleteContact(c *fiber.Ctx) error {
	contactID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact id", nil)
	}

	member := c.Locals("member").(*models.OrganizationMember)
	if err := cc.service().Delete(uint(contactID), member); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	cc.Logger.Printf("contact deleted: id=%d org=%d", contactID, member.OrganizationID)
	return c.SendStatus(fiber.StatusNoContent)
}
