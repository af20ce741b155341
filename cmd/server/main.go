package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tamariki-backend/internal/calendar"
	"tamariki-backend/internal/config"
	"tamariki-backend/internal/database"
	"tamariki-backend/internal/handlers"
	"tamariki-backend/internal/middleware"
	"tamariki-backend/internal/repository"
	"tamariki-backend/internal/router"
	"tamariki-backend/internal/services"
)

func main() {
	log.Println("Starting Tamariki Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Reference Calendar ────
	cal, err := calendar.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("✗ Invalid timezone %q: %v", cfg.Timezone, err)
	}
	log.Printf("✓ Reference timezone: %s", cfg.Timezone)

	// ──── Initialize Repositories ────
	parentRepo := repository.NewParentRepo(pool)
	studentRepo := repository.NewStudentRepo(pool)
	streakRepo := repository.NewStreakRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(parentRepo, redisClient, jwtAuth)
	streakService := services.NewStreakService(streakRepo, cal)
	activityService := services.NewActivityService(activityRepo, cal)
	contentService := services.NewContentService(cfg.ContentPath, redisClient, cfg.ContentCacheTTL)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	streakHandler := handlers.NewStreakHandler(streakService)
	activityHandler := handlers.NewActivityHandler(activityService)
	studentsHandler := handlers.NewStudentsHandler(studentRepo)
	dashboardHandler := handlers.NewDashboardHandler(pool, cal)
	contentHandler := handlers.NewContentHandler(contentService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		streakHandler,
		activityHandler,
		studentsHandler,
		dashboardHandler,
		contentHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Tamariki Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
