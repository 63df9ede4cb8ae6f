package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pipecrm/models"
	"pipecrm/repository"
	"pipecrm/services"
	"pipecrm/utils"
)

type OrganizationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewOrganizationController(db *gorm.DB, logger *log.Logger) *OrganizationController {
	return &OrganizationController{
		DB:     db,
		Logger: logger,
	}
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=owner admin manager member"`
}

// GetMyOrganizations lists the organizations the caller belongs to
func (oc *OrganizationController) GetMyOrganizations(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	orgService := services.NewOrganizationService(repository.NewOrganizationRepository(oc.DB))
	orgs, err := orgService.ListForUser(user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(utils.SuccessResponse(orgs))
}

// AddMember adds an existing user to the acting organization
func (oc *OrganizationController) AddMember(c *fiber.Ctx) error {
	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	orgID := c.Locals("organizationID").(uint)

	var org models.Organization
	if err := oc.DB.First(&org, orgID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Organization not found", nil)
	}

	memberService := services.NewMemberService(
		repository.NewMemberRepository(oc.DB),
		repository.NewUserRepository(oc.DB),
	)
	member, err := memberService.AddMember(orgID, req.UserID, models.MemberRole(req.Role), org.Name)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	oc.Logger.Printf("member added: user=%d org=%d role=%s", req.UserID, orgID, req.Role)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(member))
}
