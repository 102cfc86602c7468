package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/uipafrica/evaluation-backend/internal/config"
	"github.com/uipafrica/evaluation-backend/internal/database"
	"github.com/uipafrica/evaluation-backend/internal/handlers"
	"github.com/uipafrica/evaluation-backend/internal/mailer"
	"github.com/uipafrica/evaluation-backend/internal/pdf"
	"github.com/uipafrica/evaluation-backend/internal/services"
	"github.com/uipafrica/evaluation-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Disconnect(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}
	cancel()
	logger.Info("Connected to database", zap.String("db", cfg.DBName))

	// PDF output needs the UniDoc license before the first render
	if cfg.UnidocLicenseKey != "" {
		if err := pdf.SetLicenseKey(cfg.UnidocLicenseKey); err != nil {
			logger.Fatal("Failed to load UniDoc license", zap.Error(err))
		}
	} else {
		logger.Warn("UNIDOC_LICENSE_API_KEY not set; PDF downloads will fail")
	}

	// Wire components
	evalStore := store.NewMongoStore(db)
	notifier := mailer.New(cfg.SMTP, logger)
	svc := services.NewEvaluationService(evalStore, notifier, cfg, logger)
	h := handlers.New(svc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Password",
		AllowMethods: "GET, POST",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "API is running"})
	})

	// Routes
	api := app.Group("/api")

	evaluations := api.Group("/evaluations")
	evaluations.Post("/create", h.CreateEvaluation)
	evaluations.Get("/token/:token", h.GetEvaluationByToken)
	evaluations.Post("/acknowledge/:token", h.AcknowledgeEvaluation)

	// Admin routes behind the shared password
	admin := api.Group("/admin")
	admin.Use(handlers.AdminAuth(cfg))
	admin.Get("/evaluations", h.SearchEvaluations)
	admin.Get("/evaluations/:id", h.GetEvaluationByID)
	admin.Get("/evaluations/:id/pdf", h.DownloadEvaluationPDF)

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
