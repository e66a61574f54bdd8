package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-supermarket-pos/internal/handler"
	"go-supermarket-pos/internal/middleware"
	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/service"
	"go-supermarket-pos/internal/ws"
	"go-supermarket-pos/pkg/cache"
	"go-supermarket-pos/pkg/config"
	"go-supermarket-pos/pkg/database"
	"go-supermarket-pos/pkg/jwt"
	"go-supermarket-pos/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	cfg := config.Load()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(&model.Privilege{}, &model.Role{}, &model.User{}, &model.Product{}, &model.Transaction{}, &model.TransactionItem{}); err != nil {
		logger.Error("Failed to migrate database", err)
		os.Exit(1)
	}

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(context.Background(), db, cfg.Admin)

	// 4. Optional catalog cache. The interface stays nil when Redis is off.
	var catalogCache service.CatalogCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	switch {
	case errors.Is(err, cache.ErrCacheDisabled):
		logger.Info("REDIS_ADDR not set, POS catalog cache disabled")
	case err != nil:
		logger.Warn("Redis unavailable, POS catalog cache disabled: %v", err)
	default:
		catalogCache = redisClient
		defer redisClient.Close()
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	threshold := cfg.Inventory.LowStockThreshold

	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	posService := service.NewPOSService(db, productRepo, txRepo, wsHub, catalogCache, service.POSOptions{
		LowStockThreshold: threshold,
		CatalogTTL:        cfg.Redis.TTL,
	})
	invService := service.NewInventoryService(productRepo, txRepo, wsHub, catalogCache, threshold)
	dashService := service.NewDashboardService(txRepo, productRepo, threshold)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	alertService := service.NewAlertService(productRepo, wsHub, threshold)
	if err := alertService.Start(cfg.Alerts.Cron); err != nil {
		logger.Error("Invalid ALERT_CRON %q", err, cfg.Alerts.Cron)
		os.Exit(1)
	}
	defer alertService.Stop()

	posHandler := handler.NewPOSHandler(posService)
	invHandler := handler.NewInventoryHandler(invService)
	dashHandler := handler.NewDashboardHandler(dashService, alertService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(userService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	app.Get("/api/health", handler.Health(cfg.Server.AppName))

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(tokens, userRepo))

	// POS Routes
	protected.Get("/pos/products", middleware.RequirePrivilege(model.PrivProductView), posHandler.Catalog)
	protected.Post("/pos/transactions", middleware.RequirePrivilege(model.PrivTransactionCreate), posHandler.CreateSale)

	// Product Routes
	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), invHandler.DeleteProduct)

	// Transaction Routes
	protected.Get("/transactions", middleware.RequirePrivilege(model.PrivTransactionView), invHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege(model.PrivTransactionView), invHandler.GetTransaction)

	// Dashboard Routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivActivityView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/sales", middleware.RequirePrivilege(model.PrivActivityView), dashHandler.GetDailySales)
	protected.Get("/dashboard/low-stock", middleware.RequirePrivilege(model.PrivActivityView), dashHandler.GetLowStock)
	protected.Post("/alerts/scan", middleware.RequirePrivilege(model.PrivAlertManage), dashHandler.TriggerAlertScan)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Patch("/users/:id/state", middleware.RequirePrivilege(model.PrivUserUpdate), userHandler.SetUserState)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege(model.PrivUserPrivileges), userHandler.UpdateUserPrivileges)

	// Role & Privilege Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logger.Error("Server stopped listening", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", err)
	}

	logger.Info("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		logger.Warn("Failed to seed privileges: %v", err)
	}

	// 2. Seed roles with their default privileges
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		logger.Warn("Failed to seed roles: %v", err)
	}

	// 3. Create default admin user
	if _, err := userRepo.FindByUsernameOrEmail(ctx, admin.Username); err == nil {
		return
	}
	adminRole, err := roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		logger.Warn("ADMIN role missing, admin user not created: %v", err)
		return
	}

	user := &model.User{
		Username:   admin.Username,
		Email:      admin.Email,
		FullName:   "Administrator",
		RoleID:     &adminRole.ID,
		IsActive:   true,
		Privileges: adminRole.Privileges,
	}
	user.CreatedBy = "system"
	user.UpdatedBy = "system"

	if err := user.SetPassword(admin.Password); err != nil {
		logger.Warn("Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(ctx, user); err != nil {
		logger.Warn("Failed to create admin user: %v", err)
		return
	}
	logger.Info("Admin user created: %s (ADMIN)", admin.Username)
}
