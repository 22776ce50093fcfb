package routes

import (
	"loandesk/internal/adapters/http/handlers"
	"loandesk/internal/adapters/http/middleware"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/config"
	"loandesk/internal/core/services"
	"loandesk/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	images := storage.NewImageStore(cfg.UploadDir)
	userService := services.NewUserService(userRepo, refreshTokenRepo, images, cfg)
	loanService := services.NewLoanService(loanRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(userService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// Root and health check
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Serve uploaded profile images
	app.Static("/uploads/profile-images", cfg.UploadDir)

	api := app.Group("/api/v1")

	auth := middleware.AuthMiddleware(cfg)

	// Public user routes with stricter rate limiting
	users := api.Group("/users")
	users.Post("/signup", middleware.AuthRateLimiter(), userHandler.Signup)
	users.Post("/login", middleware.AuthRateLimiter(), userHandler.Login)
	users.Post("/refresh", middleware.AuthRateLimiter(), userHandler.Refresh)

	// Authenticated user routes
	users.Post("/logout", auth, userHandler.Logout)
	users.Get("/profile", auth, userHandler.GetProfile)
	users.Delete("/profile", auth, userHandler.DeleteAccount)
	users.Patch("/password", auth, userHandler.ChangePassword)
	users.Patch("/image", auth, userHandler.UpdateImage)

	// Loan routes (all authenticated)
	loans := api.Group("/loans", auth)
	loans.Post("/apply", loanHandler.Apply)
	loans.Get("/", middleware.ManagerOrAuditor(), loanHandler.List)
	// Registered before /:id so "my" is not parsed as a loan id.
	loans.Get("/my", loanHandler.ListMine)
	loans.Get("/:id", loanHandler.Get)
	loans.Patch("/:id", loanHandler.Update)
	loans.Delete("/:id", loanHandler.Delete)
	loans.Post("/:id/approve", middleware.ManagerOnly(), loanHandler.Approve)
	loans.Post("/:id/reject", middleware.ManagerOnly(), loanHandler.Reject)
}
