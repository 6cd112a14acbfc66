package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub-backend/internal/analytics"
	"studyhub-backend/internal/config"
	"studyhub-backend/internal/database"
	"studyhub-backend/internal/handlers"
	"studyhub-backend/internal/logging"
	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/repository"
	"studyhub-backend/internal/router"
	"studyhub-backend/internal/services"
	"studyhub-backend/internal/websocket"
	"studyhub-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.Info().Str("env", cfg.Env).Str("timezone", cfg.StatsLocation.String()).Msg("starting StudyHub backend")

	ctx := context.Background()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("PostgreSQL connection failed")
	}
	defer pool.Close()
	logging.Info().Msg("PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClients.Close()
	logging.Info().Msg("Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(ctx, pool, "migrations"); err != nil {
		logging.Fatal().Err(err).Msg("database migration failed")
	}
	logging.Info().Msg("database migrations applied")

	// ──── Step 5: Initialize Repositories ────
	sessionRepo := repository.NewStudySessionRepo(pool)
	membershipRepo := repository.NewMembershipRepo(pool)
	groupRepo := repository.NewGroupRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	store := repository.NewGuardedStore(sessionRepo, membershipRepo, groupRepo, profileRepo, repository.BreakerConfig{
		FailureThreshold: uint32(cfg.BreakerFailureThreshold),
		OpenTimeout:      cfg.BreakerOpenTimeout,
	})

	// ──── Step 6: Initialize Services ────
	cal := analytics.NewCalendar(cfg.StatsLocation)
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	statsCache := services.NewRedisStatsCache(redisClients.Cache, cfg.StatsCacheTTL)

	statsService := services.NewStatsService(store, store, store, statsCache, cal, cfg.StatsLookbackDays)
	groupService := services.NewGroupService(store, store, store, store)
	feedService := services.NewFeedService(store, store, store, store, services.FeedLimits{
		Events:   cfg.FeedLimit,
		Sessions: cfg.FeedSessionLimit,
		Joins:    cfg.FeedJoinLimit,
	})
	refreshQueue := worker.NewRedisQueue(redisClients.Cache)
	studyLogService := services.NewStudyLogService(store, store, statsCache, refreshQueue)

	// ──── Step 7: Initialize Handlers ────
	statsHandler := handlers.NewStatsHandler(statsService)
	activityHandler := handlers.NewActivityHandler(feedService)
	groupHandler := handlers.NewGroupHandler(groupService)
	studyLogHandler := handlers.NewStudyLogHandler(studyLogService)

	// ──── Step 8: Start Stats Refresh Workers ────
	workerPool := worker.NewPool(refreshQueue, statsService, cfg.StatsRefreshWorkers)
	workerPool.Start()

	// ──── Step 9: Start Streak Reminder Scheduler ────
	reminderScheduler := services.NewReminderScheduler(
		store,
		services.NewRedisReminderStore(redisClients.Cache),
		cal,
		cfg.StatsLookbackDays,
		cfg.ReminderInterval,
	)
	reminderScheduler.Start()

	// ──── Step 10: Start WebSocket Hub ────
	wsHub := websocket.NewHub(websocket.NewRedisUpdates(redisClients.PubSub), jwtAuth)
	logging.Info().Msg("WebSocket hub started")

	// ──── Step 11: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		statsHandler,
		activityHandler,
		groupHandler,
		studyLogHandler,
		wsHub,
		router.Options{
			FrontendURL:        cfg.FrontendURL,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
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

		logging.Info().Msg("shutting down")
		workerPool.Stop()
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logging.Info().
		Str("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)).
		Str("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)).
		Msg("StudyHub backend ready")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("server error")
	}
}
