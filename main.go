// main.go
package main

import (
	"log"
	"os"
	"time"

	"fitforge/database"
	"fitforge/handlers"
	"fitforge/middleware"
	"fitforge/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Notification hub + service graph
	hub := notify.NewHub()
	handlers.InitHandlers(hub)

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
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/guest", handlers.GuestLogin)

	// Workout routes (activity-completion entry points)
	workoutGroup := api.Group("/workouts")
	workoutGroup.Use(middleware.AuthMiddleware)
	workoutGroup.Post("/complete", handlers.CompleteWorkout)
	workoutGroup.Post("/manual", handlers.LogManualWorkout)
	workoutGroup.Get("/history", handlers.GetWorkoutHistory)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Get("/achievements", handlers.GetUserAchievements)
	progressionGroup.Get("/achievements/progress", handlers.GetAchievementProgress)
	progressionGroup.Post("/achievements/rescan", handlers.RescanAchievements)
	progressionGroup.Post("/achievements/invalidate-cache", handlers.InvalidateAchievementCache)

	// Stats routes
	api.Get("/users/stats", middleware.AuthMiddleware, handlers.GetUserStats)

	// Leaderboard routes
	api.Get("/leaderboard", handlers.GetLeaderboard)

	// Guild routes
	guildGroup := api.Group("/guilds")
	guildGroup.Use(middleware.AuthMiddleware)
	guildGroup.Post("/", handlers.CreateGuild)
	guildGroup.Get("/", handlers.GetUserGuilds)
	guildGroup.Post("/join", handlers.JoinGuild)
	guildGroup.Get("/:id", handlers.GetGuild)
	guildGroup.Post("/:id/leave", handlers.LeaveGuild)
	guildGroup.Get("/:id/members", handlers.GetGuildMembers)

	// Raid routes
	guildGroup.Post("/:id/raids", handlers.CreateRaid)
	guildGroup.Get("/:id/raids", handlers.GetGuildRaids)
	raidGroup := api.Group("/raids")
	raidGroup.Use(middleware.AuthMiddleware)
	raidGroup.Post("/:id/participate", handlers.RecordRaidParticipation)
	raidGroup.Get("/:id/progress", handlers.GetRaidProgress)

	// Websocket notifications
	app.Use("/ws/notifications", handlers.WebSocketUpgrade)
	app.Get("/ws/notifications", handlers.NotificationSocket())

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

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🌐 Notifications available at ws://localhost:%s/ws/notifications", port)

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
