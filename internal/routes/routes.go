// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"handy/internal/config"
	"handy/internal/handlers"
	"handy/internal/middleware"
	"handy/internal/models"
	"handy/internal/repositories"
	"handy/internal/services/auth"
	"handy/internal/services/charge"
	"handy/internal/services/payout"
	"handy/internal/services/settlement"
	"handy/internal/services/transaction"
	"handy/internal/services/user"
	"handy/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, collector wallet.MetricsCollector, log *zap.Logger) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	chargeRepo := repositories.NewChargeRepository(db)
	userRepo := repositories.NewUserRepository(db)
	cacheRepo := repositories.NewRedisCacheRepository(repositories.RedisClient)
	uow := repositories.NewUnitOfWork(db)

	// Services
	walletService := wallet.NewService(walletRepo, cacheRepo, collector, log)
	chargeService := charge.NewService(uow, chargeRepo, walletService, log)
	payouts := payout.NewDispatcher(
		payout.NewStripeProvider(config.GetEnv("STRIPE_SECRET_KEY", "")),
		payout.NewManualProvider(log),
	)
	transactionService := transaction.NewService(uow, transactionRepo, walletService, chargeService, payouts, log)
	settlementHandler := settlement.NewHandler(uow, walletService, log)
	authService := auth.NewService(userRepo, walletService, log)
	userService := user.NewService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService, transactionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	chargeHandler := handlers.NewChargeHandler(chargeService)
	orderHandler := handlers.NewOrderHandler(settlementHandler)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo, log)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)

	// Profile routes
	protected.Get("/me", userHandler.Me)
	protected.Put("/me", userHandler.UpdateMe)

	// Wallet routes
	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/balance", walletHandler.GetBalance)
	walletGroup.Post("/withdraw", walletHandler.Withdraw)

	// Transaction routes
	protected.Get("/transactions", transactionHandler.List)
	protected.Get("/transactions/:id", transactionHandler.Get)
	protected.Post("/transactions/:id/process", transactionHandler.Process)

	// Charge routes; creation and advancement come from internal
	// subsystems, so they are admin-only.
	protected.Get("/charges", chargeHandler.ListMine)
	protected.Post("/charges", middleware.RequireRole(models.RoleAdmin), chargeHandler.Create)
	protected.Post("/charges/:id/advance", middleware.RequireRole(models.RoleAdmin), chargeHandler.Advance)

	// Order-saved hook from the order subsystem.
	protected.Post("/orders/:id/saved", middleware.RequireRole(models.RoleAdmin), orderHandler.Saved)
}
