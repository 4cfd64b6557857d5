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
	"github.com/redis/go-redis/v9"

	"github.com/f2re/diplom-monitor/internal/adapters/cache"
	adapterHTTP "github.com/f2re/diplom-monitor/internal/adapters/handler/http"
	"github.com/f2re/diplom-monitor/internal/adapters/notify"
	"github.com/f2re/diplom-monitor/internal/adapters/repository"
	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/services"
	"github.com/f2re/diplom-monitor/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustParseDate(key, fallback string) domain.Date {
	d, err := domain.ParseDate(envOr(key, fallback))
	if err != nil {
		log.Fatalf("Critical: invalid %s: %v", key, err)
	}
	return d
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	serverPort := envOr("PORT", "8080")

	config := domain.GlobalConfig{
		StartDate: mustParseDate("GOAL_START_DATE", "2024-09-01"),
		Deadline:  mustParseDate("GOAL_DEADLINE", "2025-06-30"),
	}

	var (
		db         *sqlx.DB
		weekRepo   domain.WeekRepository
		periodRepo domain.PeriodRepository
		userRepo   domain.UserRepository
		cohortRepo domain.CohortRepository
	)

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			envOr("DB_HOST", "localhost"), envOr("DB_PORT", "5432"), dbName)

		log.Println("Connecting to database...")

		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		weekRepo = repository.NewPostgresWeekRepository(db)
		periodRepo = repository.NewPostgresPeriodRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)
		cohortRepo = repository.NewPostgresCohortRepository(db)
	} else {
		log.Println("DB_NAME not set, running with in-memory storage.")

		memUsers := repository.NewInMemoryUserRepository()
		memWeeks := repository.NewInMemoryWeekRepository()
		weekRepo = memWeeks
		periodRepo = repository.NewInMemoryPeriodRepository()
		userRepo = memUsers
		cohortRepo = repository.NewInMemoryCohortRepository(memUsers, memWeeks)
	}

	var rdb *redis.Client
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		var err error
		rdb, err = cache.NewRedisClient(redisHost, envOr("REDIS_PORT", "6379"), os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			rdb = nil
		} else {
			cohortRepo = repository.NewCachedCohortRepository(cohortRepo, rdb)
			log.Println("Redis connected, cohort progress cache enabled.")
		}
	}

	gridService := services.NewGridService(weekRepo, periodRepo, userRepo, cohortRepo, config)
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(
		envOr("JWT_SECRET", "dev-secret-do-not-use-in-prod"),
		envOr("JWT_ISSUER", "diplom-monitor"),
		100*24*time.Hour,
		userRepo,
	)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:  adapterHTTP.NewAuthHandler(authService, tokenService),
		UserHandler:  adapterHTTP.NewUserHandler(authService),
		GridHandler:  adapterHTTP.NewGridHandler(gridService),
		TokenService: tokenService,
		DB:           db,
		Redis:        rdb,
		StartTime:    startTime,
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var notifier workers.Notifier = notify.LogNotifier{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		notifier = notify.NewTelegramNotifier(token)
	}

	reminderHours, err := strconv.Atoi(envOr("REMINDER_INTERVAL_HOURS", "24"))
	if err != nil || reminderHours <= 0 {
		reminderHours = 24
	}
	worker := workers.NewReminderWorker(userRepo, weekRepo, notifier, time.Duration(reminderHours)*time.Hour)
	worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Diplom Monitor API running on http://localhost:%s", serverPort)
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
