package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"resumeai/resume-service/internal/config"
	"resumeai/resume-service/internal/handlers"
	"resumeai/resume-service/internal/ratelimit"
	"resumeai/resume-service/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize analytics (best-effort usage log)
	analytics := services.NewAnalyticsService(cfg.Analytics.UsageLogPath)
	analytics.Start()
	log.Println("✅ Analytics started")

	// Initialize Gemini AI
	completion, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize grader
	grader := services.NewGraderService(completion, cfg.Upload.MaxResumeChars)
	log.Println("✅ Grader service initialized")

	// Initialize rate limiter
	limiter, err := buildLimiter(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize rate limiter: %v", err)
	}
	log.Printf("✅ Rate limiter initialized: %d requests per %s (%s backend)",
		cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.Backend)

	// Initialize handlers
	gradeHandler := handlers.NewGradeHandler(grader, analytics, cfg.Upload.MaxFileSize)
	chatHandler := handlers.NewChatHandler(completion, analytics)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume AI Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Rate-limited API endpoints
	admit := ratelimit.Middleware(limiter)
	api.Post("/analyze", admit, gradeHandler.HandleAnalyze)
	api.Post("/grade_resume", admit, gradeHandler.HandleGradeResume)
	api.Post("/grade_resume_pdf", admit, gradeHandler.HandleGradeResumePDF)
	api.Post("/chat", admit, chatHandler.HandleChat)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume AI Service",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/analyze",
				"POST /api/v1/grade_resume",
				"POST /api/v1/grade_resume_pdf",
				"POST /api/v1/chat",
				"GET /api/v1/health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		analytics.Stop()
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildLimiter picks the configured rate-limit backend. Redis is the
// default so horizontally scaled deployments share one window; set
// RATE_LIMIT_BACKEND=memory for single-process setups.
func buildLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimit.Backend == "memory" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window), nil
	}

	client, err := ratelimit.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window), nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
