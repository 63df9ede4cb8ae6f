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

type AnalyticsController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewAnalyticsController(db *gorm.DB, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{
		DB:     db,
		Logger: logger,
	}
}

func (ac *AnalyticsController) service() *services.AnalyticsService {
	return services.NewAnalyticsService(repository.NewDealRepository(ac.DB))
}

// GetSummary returns per-status deal rollups for the acting organization
func (ac *AnalyticsController) GetSummary(c *fiber.Ctx) error {
	member := c.Locals("member").(*models.OrganizationMember)
	days := c.QueryInt("days", 30)

	summary, err := ac.service().Summary(member.OrganizationID, days)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(summary)
}

// GetFunnel returns (stage, status) counts and stage conversion rates
func (ac *AnalyticsController) GetFunnel(c *fiber.Ctx) error {
	member := c.Locals("member").(*models.OrganizationMember)

	funnel, err := ac.service().Funnel(member.OrganizationID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.JSON(funnel)
}
