package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"fintrack/database"
	"fintrack/handlers"
	"fintrack/handlers/admin"
	"fintrack/middleware"
	"fintrack/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database (runs migrations and seeds the achievement catalog)
	database.InitDB()
	defer database.CloseDB()

	// Start the achievement scheduler
	services.InitScheduler(database.GetDB())
	services.GetScheduler().Start()
	defer services.GetScheduler().Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)

	// Expense routes
	expenseGroup := api.Group("/expenses")
	expenseGroup.Use(middleware.AuthMiddleware)
	expenseGroup.Post("/", handlers.CreateExpense)
	expenseGroup.Get("/", handlers.GetExpenses)
	expenseGroup.Put("/:id", handlers.UpdateExpense)
	expenseGroup.Delete("/:id", handlers.DeleteExpense)

	// Income routes
	incomeGroup := api.Group("/income")
	incomeGroup.Use(middleware.AuthMiddleware)
	incomeGroup.Post("/", handlers.CreateIncome)
	incomeGroup.Get("/", handlers.GetIncomes)
	incomeGroup.Put("/:id", handlers.UpdateIncome)
	incomeGroup.Delete("/:id", handlers.DeleteIncome)

	// Budget routes
	budgetGroup := api.Group("/budgets")
	budgetGroup.Use(middleware.AuthMiddleware)
	budgetGroup.Post("/", handlers.CreateBudget)
	budgetGroup.Get("/", handlers.GetBudgets)
	budgetGroup.Put("/:id", handlers.UpdateBudget)
	budgetGroup.Delete("/:id", handlers.DeleteBudget)

	// Task routes
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware)
	taskGroup.Post("/", handlers.CreateTask)
	taskGroup.Get("/", handlers.GetTasks)
	taskGroup.Put("/:id", handlers.UpdateTask)
	taskGroup.Delete("/:id", handlers.DeleteTask)
	taskGroup.Post("/:id/complete", handlers.CompleteTask)
	taskGroup.Post("/:id/timelogs", handlers.AddTimeLog)
	taskGroup.Get("/:id/timelogs", handlers.GetTimeLogs)

	// Achievement routes
	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", handlers.GetUserAchievements)
	achievementGroup.Get("/summary", handlers.GetProgressSummary)
	achievementGroup.Get("/category/:category", handlers.GetAchievementsByCategory)
	achievementGroup.Get("/:id", handlers.GetAchievementByID)

	// Stats routes
	statsGroup := api.Group("/stats")
	statsGroup.Use(middleware.AuthMiddleware)
	statsGroup.Get("/monthly", handlers.GetMonthlyStats)
	statsGroup.Get("/tasks", handlers.GetTaskStats)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.GetNotifications)
	notificationGroup.Put("/:id/read", handlers.MarkNotificationRead)
	notificationGroup.Get("/stream", handlers.NotificationSocketUpgrade, handlers.NotificationSocket)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Delete("/users/:id", admin.DeleteUser)
	adminProtected.Get("/templates", admin.GetTemplates)
	adminProtected.Post("/templates", admin.CreateTemplate)
	adminProtected.Put("/templates/:id", admin.UpdateTemplate)
	adminProtected.Delete("/templates/:id", admin.DeleteTemplate)
	adminProtected.Post("/batch/:period", admin.RunBatch)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("HTTP server starting on port %s", port)
	log.Printf("Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
