package main

import (
	"log"
	"time"

	"legal_connect_go/config"
	"legal_connect_go/db"
	"legal_connect_go/handlers"
	"legal_connect_go/middleware"
	"legal_connect_go/models"
	"legal_connect_go/services"
	"legal_connect_go/services/i18n"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseLog{},
		&models.CaseDocument{},
		&models.LawyerProfile{},
		&models.LawyerDocument{},
		&models.LegalSpecialty{},
		&models.DocumentTemplate{},
		&models.University{},
		&models.Listing{},
		&models.Plan{},
		&models.UserSubscription{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load translation dictionaries
	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	// Initialize storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Seed reference data
	if err := services.SeedSpecialties(db.DB); err != nil {
		log.Fatalf("Failed to seed specialties: %v", err)
	}
	if err := services.SeedPlans(db.DB); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(middleware.Locale())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyConfig, cfg)
			return next(c)
		}
	})

	authLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many authentication attempts. Please try again later.",
	})
	chatLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: 30,
		Window:   time.Minute,
	})

	// Public routes
	e.POST("/api/auth/register", handlers.RegisterHandler, authLimiter.Middleware())
	e.POST("/api/auth/login", handlers.LoginHandler, authLimiter.Middleware())
	e.GET("/api/jurisdictions", handlers.GetJurisdictionsHandler)
	e.GET("/api/specialties", handlers.GetSpecialtiesHandler)
	e.GET("/api/plans", handlers.GetPlansHandler)
	e.GET("/api/universities", handlers.GetUniversitiesHandler)
	e.GET("/api/universities/:id", handlers.GetUniversityHandler)
	e.GET("/api/listings", handlers.GetListingsHandler)
	e.GET("/api/listings/:id", handlers.GetListingHandler)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetCurrentUserHandler)
		api.GET("/me/subscription", handlers.GetMySubscriptionHandler)
		api.POST("/me/subscription", handlers.SubscribeHandler)

		// Cases
		api.GET("/cases", handlers.GetCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.PATCH("/cases/:id", handlers.UpdateCaseHandler)
		api.POST("/cases/:id/status", handlers.ChangeCaseStatusHandler)
		api.GET("/cases/:id/logs", handlers.GetCaseLogsHandler)
		api.POST("/cases/:id/notes", handlers.AddCaseNoteHandler)
		api.POST("/cases/:id/documents", handlers.UploadCaseDocumentHandler)
		api.GET("/cases/:id/documents/:docId", handlers.DownloadCaseDocumentHandler)
		api.DELETE("/cases/:id/documents/:docId", handlers.DeleteCaseDocumentHandler)
		api.POST("/cases/:id/documents/generate", handlers.GenerateCaseDocumentHandler)

		// Lawyer registration and profile
		api.POST("/lawyers/register", handlers.RegisterLawyerHandler)
		api.GET("/lawyers/me", handlers.GetMyLawyerProfileHandler)

		// Consultation chat
		api.POST("/universities/:id/chat", handlers.UniversityChatHandler, chatLimiter.Middleware())
		api.GET("/universities/:id/chat", handlers.GetChatHistoryHandler)

		// Listings
		api.POST("/listings", handlers.CreateListingHandler)
		api.DELETE("/listings/:id", handlers.DeactivateListingHandler)

		// Lawyer-only routes
		lawyerRoutes := api.Group("/lawyer")
		lawyerRoutes.Use(middleware.RequireRole(models.RoleLawyer))
		{
			lawyerRoutes.GET("/dashboard", handlers.GetLawyerDashboardHandler)
			lawyerRoutes.PUT("/availability", handlers.SetAvailabilityHandler)
		}

		// Admin-only routes
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.GET("/lawyers", handlers.GetVerificationQueueHandler)
			adminRoutes.POST("/lawyers/:id/verify", handlers.VerifyLawyerHandler)
			adminRoutes.POST("/lawyers/:id/reject", handlers.RejectLawyerHandler)
			adminRoutes.GET("/lawyers/:id/documents/:docId", handlers.DownloadLawyerDocumentHandler)
			adminRoutes.POST("/cases/:id/assign", handlers.AssignCaseHandler)
			adminRoutes.GET("/reports/cases", handlers.ExportCasesReportHandler)
		}

		// Document templates (admin-only, but addressed as a top-level resource)
		adminOnly := middleware.RequireRole(models.RoleAdmin)
		api.GET("/templates", handlers.GetTemplatesHandler, adminOnly)
		api.POST("/templates/upload", handlers.UploadTemplateHandler, adminOnly)
		api.DELETE("/templates/:name", handlers.DeleteTemplateHandler, adminOnly)
	}

	// Background cleanup of old consultation history (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupOldChatMessages(db.DB); err != nil {
				log.Printf("Error cleaning up chat messages: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
