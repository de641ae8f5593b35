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

	"wikiquiz-backend/internal/config"
	"wikiquiz-backend/internal/database"
	"wikiquiz-backend/internal/handlers"
	"wikiquiz-backend/internal/repository"
	"wikiquiz-backend/internal/router"
	"wikiquiz-backend/internal/services"
	"wikiquiz-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting WikiQuiz Backend...")

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

	// ──── Initialize Repositories ────
	historyRepo := repository.NewHistoryRepo(pool)

	// ──── Step 5: Initialize Gemini Adapter ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiConcurrentReqs,
		time.Duration(cfg.GeminiTimeoutSecs)*time.Second,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	if geminiService.Enabled() {
		log.Println("✓ Gemini Flash client initialized")
	} else {
		log.Println("⚠ GEMINI_API_KEY not set; every quiz will use the fallback generator")
	}

	// ──── Initialize Services ────
	extractService := services.NewExtractService(redisClient)
	generationService := services.NewGenerationService(extractService, geminiService, redisClient)

	// ──── Initialize Handlers ────
	quizHandler := handlers.NewQuizHandler(generationService, historyRepo)
	historyHandler := handlers.NewHistoryHandler(historyRepo)
	sessionHandler := handlers.NewSessionHandler()

	// ──── Step 6: Start History Worker Pool ────
	workerPool := worker.NewPool(redisClient, historyRepo, cfg.HistoryWorkers)
	workerPool.Start()
	log.Printf("✓ History worker pool started (%d goroutines)", cfg.HistoryWorkers)

	// ──── Step 7: Start HTTP Server ────
	r := router.New(quizHandler, historyHandler, sessionHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ WikiQuiz Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
