package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "fiich/controllers"
	"fiich/middleware"
	"fiich/services"
	"fiich/utils"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize services with their respective loggers
	shareLogger := log.New(os.Stdout, "SHARE: ", log.Ldate|log.Ltime|log.Lshortfile)
	inviteLogger := log.New(os.Stdout, "INVITE: ", log.Ldate|log.Ltime|log.Lshortfile)
	memberLogger := log.New(os.Stdout, "MEMBER: ", log.Ldate|log.Ltime|log.Lshortfile)
	accessLogger := log.New(os.Stdout, "ACCESS: ", log.LstdFlags)
	mailLogger := log.New(os.Stdout, "MAIL: ", log.LstdFlags)

	mailer := utils.NewMailer(mailLogger)
	memberships := services.NewMembershipService(db, memberLogger)
	shares := services.NewShareService(db, shareLogger)
	invitations := services.NewInvitationService(db, shares, mailer, inviteLogger)
	access := services.NewAccessService(db, shares, memberships, accessLogger)

	authController := controller.NewAuthController(db)
	companyController := controller.NewCompanyController(db, access, log.New(os.Stdout, "COMPANY: ", log.LstdFlags))
	shareController := controller.NewShareController(shares, access, shareLogger)
	invitationController := controller.NewInvitationController(invitations, inviteLogger)
	membershipController := controller.NewMembershipController(memberships, access, memberLogger)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh", authController.RefreshToken)

	protectedAuth := auth.Group("", middleware.Protected(db))
	protectedAuth.Get("/me", authController.GetCurrentUser)

	// Public capability endpoint: token in, permitted view out. Rate
	// limited since it takes no credential.
	app.Get("/shared/:token", middleware.SharedResolveRateLimiter(), shareController.ResolveShared)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(db), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Company routes
	company := api.Group("/companies")
	company.Post("/", companyController.CreateCompany)
	company.Get("/", companyController.GetCompanies)
	company.Get("/:id", companyController.GetCompany)
	company.Post("/:id/documents", companyController.AddDocument)
	company.Post("/:id/share-link", shareController.CreatePublicLink)
	company.Get("/:id/shares", shareController.ListShares)
	company.Post("/:id/invitations", invitationController.CreateInvitation)
	company.Get("/:id/members", membershipController.ListMembers)

	// Share routes
	share := api.Group("/shares")
	share.Put("/:id/permissions", shareController.UpdatePermissions)
	share.Post("/:id/revoke", shareController.RevokeShare)

	// Invitation routes
	invitation := api.Group("/invitations")
	invitation.Get("/", invitationController.ListInvitations)
	invitation.Post("/accept", invitationController.AcceptInvitation)
	invitation.Post("/:id/decline", invitationController.DeclineInvitation)
	invitation.Post("/:id/revoke", invitationController.RevokeInvitation)

	// Membership maintenance
	api.Post("/memberships/ensure", membershipController.EnsureMemberships)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	log.Println("API routes initialized successfully")
}
