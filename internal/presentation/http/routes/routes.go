package routes

import (
	"time"

	"github.com/aerocrest/fbo-api/internal/config"
	domainRepo "github.com/aerocrest/fbo-api/internal/domain/repository"
	"github.com/aerocrest/fbo-api/internal/presentation/http/handler"
	"github.com/aerocrest/fbo-api/internal/presentation/http/middleware"
	"github.com/aerocrest/fbo-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Receipt     *handler.ReceiptHandler
	FeeSchedule *handler.FeeScheduleHandler
	Aircraft    *handler.AircraftHandler
	FuelType    *handler.FuelTypeHandler
	Customer    *handler.CustomerHandler
	Dashboard   *handler.DashboardHandler
	User        *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.Use(middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("", h.Dashboard.Stats)
	}

	// Receipts
	registerReceiptRoutes(protected, h, deps)

	// Customers
	registerCustomerRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Fee schedule admin
	registerAdminRoutes(protected, h)

	// Staff management (admin)
	registerUserRoutes(protected, h)
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := protected.Group("/receipts")
	receipts.Use(middleware.RequirePermission("manage-receipts"))
	{
		receipts.GET("", h.Receipt.List)
		// Receipt creation uses idempotency middleware so a retried create
		// from the auto-save client cannot fork two drafts
		receipts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Receipt.Create)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.PATCH("/:id", h.Receipt.Update)
		receipts.DELETE("/:id", h.Receipt.Delete)
		receipts.POST("/:id/calculate-fees", h.Receipt.CalculateFees)
		receipts.POST("/:id/line-items/:line_item_id/toggle-waiver", h.Receipt.ToggleWaiver)
		receipts.POST("/:id/generate", h.Receipt.Generate)
		receipts.POST("/:id/mark-paid", h.Receipt.MarkPaid)
		receipts.POST("/:id/void", h.Receipt.Void)
		receipts.GET("/:id/print", h.Receipt.Print)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/receipts/export", h.Receipt.Export)
	}
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequirePermission("manage-fee-schedule"))
	{
		classifications := admin.Group("/classifications")
		{
			classifications.GET("", h.Aircraft.ListClassifications)
			classifications.POST("", h.Aircraft.CreateClassification)
			classifications.PUT("/:id", h.Aircraft.UpdateClassification)
			classifications.DELETE("/:id", h.Aircraft.DeleteClassification)
			classifications.GET("/:id/fee-rules", h.FeeSchedule.ListForClassification)
		}

		aircraftTypes := admin.Group("/aircraft-types")
		{
			aircraftTypes.GET("", h.Aircraft.ListTypes)
			aircraftTypes.POST("", h.Aircraft.CreateType)
			aircraftTypes.GET("/:id", h.Aircraft.GetType)
			aircraftTypes.PUT("/:id", h.Aircraft.UpdateType)
			aircraftTypes.DELETE("/:id", h.Aircraft.DeleteType)
		}

		feeRules := admin.Group("/fee-rules")
		{
			feeRules.GET("", h.FeeSchedule.ListFeeRules)
			feeRules.POST("", h.FeeSchedule.CreateFeeRule)
			feeRules.GET("/:id", h.FeeSchedule.GetFeeRule)
			feeRules.PUT("/:id", h.FeeSchedule.UpdateFeeRule)
			feeRules.DELETE("/:id", h.FeeSchedule.DeleteFeeRule)
			feeRules.GET("/:id/effective-amount", h.FeeSchedule.EffectiveAmount)
			feeRules.GET("/:id/overrides", h.FeeSchedule.ListOverrides)
			feeRules.PUT("/:id/overrides", h.FeeSchedule.UpsertOverride)
			feeRules.POST("/overrides/batch", h.FeeSchedule.BatchUpsertOverrides)
			feeRules.DELETE("/overrides/:override_id", h.FeeSchedule.DeleteOverride)
		}

		fuelTypes := admin.Group("/fuel-types")
		{
			fuelTypes.GET("", h.FuelType.List)
			fuelTypes.POST("", h.FuelType.Create)
			fuelTypes.PUT("/:id", h.FuelType.Update)
			fuelTypes.PUT("/:id/price", h.FuelType.UpdatePrice)
			fuelTypes.DELETE("/:id", h.FuelType.Delete)
		}
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/admin/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/roles", h.User.ListRoles)
		users.GET("/:id", h.User.Get)
		users.POST("/:id/roles", h.User.AssignRole)
		users.DELETE("/:id/roles", h.User.RemoveRole)
		users.DELETE("/:id", h.User.Delete)
	}
}
