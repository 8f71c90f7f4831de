package routes

import (
	"lendtrack/internal/adapters/http/handlers"
	"lendtrack/internal/adapters/http/middleware"
	"lendtrack/internal/adapters/persistence/repositories"
	"lendtrack/internal/config"
	"lendtrack/internal/core/services"
	"lendtrack/internal/pkg/retry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	store := repositories.NewStore(db)
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	laptopService := services.NewLaptopService(store)
	distService := services.NewDistributionService(store,
		retry.WithMaxAttempts(cfg.Retry.MaxAttempts),
		retry.WithBaseDelay(cfg.Retry.BaseDelay),
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	laptopHandler := handlers.NewLaptopHandler(laptopService)
	distHandler := handlers.NewDistributionHandler(distService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Laptop inventory routes (Authenticated users)
	laptopRoutes := apiV1.Group("/laptops")
	laptopRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLaptopRoutes(laptopRoutes, laptopHandler)

	// Distribution lifecycle routes (Authenticated users)
	distRoutes := apiV1.Group("/distributions")
	distRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDistributionRoutes(distRoutes, distHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/sign-up", handler.SignUp)
	router.Post("/sign-in", handler.SignIn)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/sign-out", handler.SignOut)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/sign-out-all", middleware.AuthMiddleware(cfg), handler.SignOutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/deactivate", handler.Deactivate)
}

// setupLaptopRoutes configures laptop inventory routes
func setupLaptopRoutes(router fiber.Router, handler *handlers.LaptopHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.GetAll)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupDistributionRoutes configures distribution lifecycle routes
func setupDistributionRoutes(router fiber.Router, handler *handlers.DistributionHandler) {
	router.Post("/", handler.Distribute)
	router.Get("/", handler.GetAll)
	router.Get("/laptop/:laptopId", handler.GetByLaptopID)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/return", handler.Return)
	router.Put("/:id", handler.Update)

	// delete bypasses the lifecycle invariants, so it is admin territory
	router.Delete("/:id", middleware.AdminOnly(), handler.Delete)
}
