package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bloxtalent-waitlist/internal/auth"
	"bloxtalent-waitlist/internal/config"
	"bloxtalent-waitlist/internal/database"
	"bloxtalent-waitlist/internal/handlers"
	"bloxtalent-waitlist/internal/jobs"
	"bloxtalent-waitlist/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	referralService := services.NewReferralService(database.GetDB(), cfg.Waitlist.ReferralReward)
	waitlistService := services.NewWaitlistService(database.GetDB(), referralService, cfg.Waitlist.VIPDomains)
	missionService := services.NewMissionService(database.GetDB(), cfg.Waitlist.MissionReward)
	statsService := services.NewStatsService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg.App.AdminAPIKey)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistService, missionService, referralService)
	adminHandler := handlers.NewAdminHandler(waitlistService, statsService)

	// Start stats snapshot job
	snapshotJob := jobs.NewStatsSnapshotJob(database.GetDB(), statsService)
	snapshotJob.Start(time.Duration(cfg.Waitlist.StatsIntervalMinutes) * time.Minute)
	log.Println("Stats snapshot job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000", // Local development
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	// Add additional frontend URL from environment if provided
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/admin", authHandler.AdminLogin)
	}

	// Public waitlist routes
	api := router.Group("/api")
	{
		api.POST("/waitlist/signup", waitlistHandler.Signup)
		api.GET("/waitlist/status", waitlistHandler.GetStatus)
		api.GET("/waitlist/:id", waitlistHandler.GetByID)
		api.POST("/waitlist/:id/missions", waitlistHandler.CreditMission)
		api.GET("/waitlist/:id/referrals", waitlistHandler.GetReferrals)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/waitlist", adminHandler.GetWaitlist)
		admin.GET("/waitlist/stats", adminHandler.GetStats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
