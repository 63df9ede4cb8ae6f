package middleware

import (
	"github.com/gofiber/fiber/v2"

	"pipecrm/config"
	"pipecrm/models"
	"pipecrm/repository"
	"pipecrm/services"
	"pipecrm/utils"
)

// RequireMember resolves the acting organization from the X-Organization-ID
// header and the caller's membership in it. Non-members get a 403 that does
// not reveal whether the organization exists.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgID := utils.ParseUint(c.Get("X-Organization-ID"))
		if orgID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing X-Organization-ID header",
			})
		}

		user := c.Locals("user").(*models.User)
		memberService := services.NewMemberService(
			repository.NewMemberRepository(config.DB),
			repository.NewUserRepository(config.DB),
		)
		member, err := memberService.Resolve(user.ID, orgID)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}

		c.Locals("member", member)
		c.Locals("organizationID", orgID)
		return c.Next()
	}
}

// RequirePermission gates a route on a role-derived capability with no
// resource owner in play. Ownership-scoped checks live in the services.
func RequirePermission(permission models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		member := c.Locals("member").(*models.OrganizationMember)
		if !services.Allow(member.Role, permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Permission denied",
			})
		}
		return c.Next()
	}
}
