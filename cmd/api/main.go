package main

import (
	"log"
	"os"

	"github.com/aerocrest/fbo-api/internal/application/service"
	"github.com/aerocrest/fbo-api/internal/config"
	"github.com/aerocrest/fbo-api/internal/infrastructure/database"
	"github.com/aerocrest/fbo-api/internal/infrastructure/repository"
	"github.com/aerocrest/fbo-api/internal/presentation/http/handler"
	"github.com/aerocrest/fbo-api/internal/presentation/http/routes"
	"github.com/aerocrest/fbo-api/pkg/email"
	"github.com/aerocrest/fbo-api/pkg/oauth"
	"github.com/aerocrest/fbo-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	taxRate, err := decimal.NewFromString(cfg.Receipt.TaxRate)
	if err != nil {
		log.Fatalf("Invalid RECEIPT_TAX_RATE %q: %v", cfg.Receipt.TaxRate, err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	aircraftRepo := repository.NewAircraftRepository(db)
	fuelTypeRepo := repository.NewFuelTypeRepository(db)
	feeRuleRepo := repository.NewFeeRuleRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewService(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.Username,
		SMTPPassword: cfg.Email.Password,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleService(oauth.GoogleConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	receiptService := service.NewReceiptService(receiptRepo, customerRepo, aircraftRepo, fuelTypeRepo, feeRuleRepo, emailService, taxRate, cfg.Receipt.NumberPrefix)
	feeScheduleService := service.NewFeeScheduleService(feeRuleRepo, aircraftRepo)
	aircraftService := service.NewAircraftService(aircraftRepo)
	fuelTypeService := service.NewFuelTypeService(fuelTypeRepo)
	customerService := service.NewCustomerService(customerRepo)
	reportService := service.NewReportService(receiptRepo)
	userService := service.NewUserService(userRepo, roleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Receipt:     handler.NewReceiptHandler(receiptService, reportService, cfg.Email.FromName),
		FeeSchedule: handler.NewFeeScheduleHandler(feeScheduleService),
		Aircraft:    handler.NewAircraftHandler(aircraftService),
		FuelType:    handler.NewFuelTypeHandler(fuelTypeService),
		Customer:    handler.NewCustomerHandler(customerService),
		Dashboard:   handler.NewDashboardHandler(reportService),
		User:        handler.NewUserHandler(userService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
