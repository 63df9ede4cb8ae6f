package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "pipecrm/controllers"
	"pipecrm/middleware"
	"pipecrm/models"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize logger
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/api/v1/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", middleware.LoginRateLimiter(), controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize controllers with their respective loggers
	orgController := controller.NewOrganizationController(db, log.New(os.Stdout, "ORG: ", log.LstdFlags))
	contactController := controller.NewContactController(db, log.New(os.Stdout, "CONTACT: ", log.LstdFlags))
	dealController := controller.NewDealController(db, log.New(os.Stdout, "DEAL: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	analyticsController := controller.NewAnalyticsController(db, log.New(os.Stdout, "ANALYTICS: ", log.LstdFlags))

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Organization routes; listing needs no acting organization
	api.Get("/organizations/me", orgController.GetMyOrganizations)
	api.Post("/organizations/members",
		middleware.RequireMember(),
		middleware.RequirePermission(models.PermWriteOrgSettings),
		orgController.AddMember)

	// Everything below acts within one organization
	org := api.Group("", middleware.RequireMember())

	// Contact routes
	contact := org.Group("/contacts")
	contact.Get("/", middleware.RequirePermission(models.PermReadContact), contactController.GetContacts)
	contact.Post("/", middleware.RequirePermission(models.PermWriteContact), contactController.CreateContact)
	contact.Delete("/:id", contactController.DeleteContact)

	// Deal routes
	deal := org.Group("/deals")
	deal.Get("/", middleware.RequirePermission(models.PermReadDeal), dealController.GetDeals)
	deal.Post("/", middleware.RequirePermission(models.PermWriteDeal), dealController.CreateDeal)
	// State machine owns the role rules for updates (backward-move checks),
	// so the route carries no ownerless write gate.
	deal.Patch("/:id", dealController.UpdateDeal)
	deal.Get("/:id/activities", middleware.RequirePermission(models.PermReadActivity), dealController.GetDealActivities)
	deal.Post("/:id/activities", middleware.RequirePermission(models.PermWriteActivity), dealController.CreateDealActivity)

	// Task routes
	task := org.Group("/tasks")
	task.Get("/", middleware.RequirePermission(models.PermReadTask), taskController.GetTasks)
	// Task creation checks deal ownership itself, in a fixed order.
	task.Post("/", taskController.CreateTask)

	// Analytics routes
	analytics := org.Group("/analytics/deals", middleware.RequirePermission(models.PermReadOrganization))
	analytics.Get("/summary", analyticsController.GetSummary)
	analytics.Get("/funnel", analyticsController.GetFunnel)
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)
}
