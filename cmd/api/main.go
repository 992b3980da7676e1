package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/davideorlandi/habitpulse/internal/adapters/cache"
	adapterHTTP "github.com/davideorlandi/habitpulse/internal/adapters/handler/http"
	"github.com/davideorlandi/habitpulse/internal/adapters/repository"
	"github.com/davideorlandi/habitpulse/internal/core/analytics"
	"github.com/davideorlandi/habitpulse/internal/core/domain"
	"github.com/davideorlandi/habitpulse/internal/core/services"
	"github.com/davideorlandi/habitpulse/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title        HabitPulse API
// @version      1.0
// @description  Habit analytics and streak computation service.
// @BasePath     /api/v1
func main() {
	_ = godotenv.Load()

	startTime := time.Now()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	completionRepo := repository.NewPostgresCompletionRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)

	// Redis is optional: without it the service runs uncached and unlimited.
	redisClient, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		atoiOr(os.Getenv("REDIS_DB"), 0),
	)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		habitRepo = repository.NewCachedHabitRepository(habitRepo, redisClient)
	}

	engine := analytics.NewEngine(analytics.NewCalculator())

	worker := workers.NewStreakWorker(habitRepo, completionRepo, streakRepo, engine.Calculator())
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker.Start(workerCtx)

	habitService := services.NewHabitService(habitRepo, completionRepo, streakRepo)
	completionService := services.NewCompletionService(completionRepo, habitRepo, worker)
	streakService := services.NewStreakService(habitRepo, completionRepo, streakRepo, engine)
	analyticsService := services.NewAnalyticsService(habitRepo, completionRepo, streakRepo, engine)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:      adapterHTTP.NewHabitHandler(habitService),
		CompletionHandler: adapterHTTP.NewCompletionHandler(completionService),
		StreakHandler:     adapterHTTP.NewStreakHandler(streakService),
		AnalyticsHandler:  adapterHTTP.NewAnalyticsHandler(analyticsService),
		DB:                db,
		Redis:             redisClient,
		StartTime:         startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HabitPulse running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
