package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-engine/internal/handler"
	"go-pos-engine/internal/middleware"
	"go-pos-engine/internal/model"
	"go-pos-engine/internal/repository"
	"go-pos-engine/internal/service"
	"go-pos-engine/internal/ws"
	"go-pos-engine/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Product{}, &model.Customer{},
		&model.Sale{}, &model.SaleLineItem{},
		&model.Credit{}, &model.CreditPayment{},
		&model.Return{}, &model.ReturnLineItem{},
		&model.OverrideThrottle{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed privileges, roles, admin user, and the throttle row
	seedPrivilegesRolesAndAdmin(db)

	overrideRepo := repository.NewOverrideRepo(db)
	if err := overrideRepo.Seed(); err != nil {
		log.Printf("Warning: Failed to seed override throttle row: %v", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	creditRepo := repository.NewCreditRepo(db)
	returnRepo := repository.NewReturnRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	checkoutService := service.NewCheckoutService(productRepo, customerRepo, saleRepo, creditRepo, db, wsHub)
	returnsService := service.NewReturnsService(saleRepo, returnRepo, creditRepo, productRepo, db, wsHub)
	creditService := service.NewCreditService(creditRepo, db)
	overrideService := service.NewOverrideService(overrideRepo, db, service.LoadOverrideConfig())
	reportService := service.NewReportService(saleRepo)
	catalogService := service.NewCatalogService(productRepo, customerRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	returnsHandler := handler.NewReturnsHandler(returnsService)
	creditHandler := handler.NewCreditHandler(creditService)
	overrideHandler := handler.NewOverrideHandler(overrideService)
	reportHandler := handler.NewReportHandler(reportService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Engine v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Checkout and sales
	protected.Post("/checkout", middleware.RequirePrivilege("sale:create"), checkoutHandler.Commit)
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), checkoutHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), checkoutHandler.GetSale)

	// Returns
	protected.Get("/returns/search", middleware.RequirePrivilege("return:view"), returnsHandler.Search)
	protected.Get("/returns", middleware.RequirePrivilege("return:view"), returnsHandler.GetReturns)
	protected.Get("/returns/:id", middleware.RequirePrivilege("return:view"), returnsHandler.GetReturn)
	protected.Post("/returns", middleware.RequirePrivilege("return:create"), returnsHandler.Accept)

	// Credits
	protected.Post("/credits/payments", middleware.RequirePrivilege("credit:record_payment"), creditHandler.RecordPayment)
	protected.Get("/credits/debtors", middleware.RequirePrivilege("credit:view"), creditHandler.GetDebtors)
	protected.Get("/credits/debtors/:customerId", middleware.RequirePrivilege("credit:view"), creditHandler.GetDebtor)
	protected.Get("/credits/:id", middleware.RequirePrivilege("credit:view"), creditHandler.GetCredit)

	// Price override throttle
	protected.Post("/override/validate", middleware.RequirePrivilege("override:validate"), overrideHandler.Validate)
	protected.Get("/override/status", middleware.RequirePrivilege("override:validate"), overrideHandler.Status)

	// Catalog
	protected.Get("/products", middleware.RequirePrivilege("product:view"), catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Get("/customers", middleware.RequirePrivilege("customer:view"), catalogHandler.GetCustomers)
	protected.Get("/customers/:id", middleware.RequirePrivilege("customer:view"), catalogHandler.GetCustomer)
	protected.Post("/customers", middleware.RequirePrivilege("customer:create"), catalogHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequirePrivilege("customer:update"), catalogHandler.UpdateCustomer)

	// Reports
	protected.Get("/reports/revenue", middleware.RequirePrivilege("report:view"), reportHandler.GetRevenueSummary)
	protected.Get("/reports/stock-movement", middleware.RequirePrivilege("report:view"), reportHandler.GetStockMovement)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update"), userHandler.UpdateUserPrivileges)

	// Role and privilege listings
	protected.Get("/roles", func(c *fiber.Ctx) error {
		roles, err := roleRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
		}
		return c.JSON(roles)
	})
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

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

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the
// admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// ADMIN gets ALL privileges
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		if err := roleRepo.AssignPrivileges(adminRole, allPrivileges); err != nil {
			log.Printf("Warning: Failed to assign ADMIN privileges: %v", err)
		}
	}

	// MANAGER gets everything except user management
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		managerPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if !model.ManagerExcluded[p.Code] {
				managerPrivileges = append(managerPrivileges, p)
			}
		}
		if err := roleRepo.AssignPrivileges(managerRole, managerPrivileges); err != nil {
			log.Printf("Warning: Failed to assign MANAGER privileges: %v", err)
		}
	}

	// CASHIER gets the register working set
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		wanted := map[string]bool{}
		for _, code := range model.CashierPrivileges {
			wanted[code] = true
		}
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if wanted[p.Code] {
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		if err := roleRepo.AssignPrivileges(cashierRole, cashierPrivileges); err != nil {
			log.Printf("Warning: Failed to assign CASHIER privileges: %v", err)
		}
	}

	// Default admin user with the ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (ADMIN)")
		}
	}
}
