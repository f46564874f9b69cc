package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qnabot/internal/chatqueue"
	"qnabot/internal/config"
	"qnabot/internal/handler"
	"qnabot/internal/metrics"
	"qnabot/internal/repository"
	"qnabot/internal/repository/memory"
	"qnabot/internal/repository/postgres"
	"qnabot/internal/repository/redis"
	"qnabot/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Q&A Bot",
		zap.Bool("auth_required", cfg.AuthRequired),
		zap.String("dialogue_backend", cfg.DialogueBackend),
		zap.String("run_mode", cfg.RunMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	knowledgeRepo := postgres.NewKnowledgeRepo(db)

	dialogues, closeDialogues, err := newDialogueStore(ctx, cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize dialogue store", zap.Error(err))
	}
	defer closeDialogues()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.AuthRequired, logger)
	dialogueService := service.NewDialogueService(dialogues, cfg.DialogueRetention, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.New(registry)

	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, registry, logger)
		metricsServer.Start()
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:       cfg.BotToken,
		Poller:      newPoller(cfg),
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			logger.Error("Bot error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize handler
	queue := chatqueue.New(logger)
	h := handler.NewHandler(handler.Deps{
		Knowledge: knowledgeRepo,
		Dialogues: dialogues,
		Auth:      authService,
		Unblocker: dialogueService,
		Sender:    handler.NewTeleSender(bot),
		Metrics:   botMetrics,
		StaticDir: cfg.StaticDir,
		Logger:    logger,
	}, queue)
	h.RegisterHandlers(bot)

	logger.Info("Handlers registered")

	// Start cleanup job in background
	go runCleanupJob(ctx, dialogueService, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	queue.Close()
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
		shutdownCancel()
	}

	logger.Info("Bot stopped gracefully")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newPoller returns the update source for the configured run mode
func newPoller(cfg *config.Config) tele.Poller {
	allowed := []string{"message", "my_chat_member"}

	if cfg.RunMode == config.ModeWebhook {
		return &tele.Webhook{
			Listen:         cfg.Webhook.Listen,
			AllowedUpdates: allowed,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{
		Timeout:        cfg.LongPollTimeout,
		AllowedUpdates: allowed,
	}
}

// newDialogueStore opens the configured dialogue backend and returns its close function
func newDialogueStore(ctx context.Context, cfg *config.Config, db *sql.DB) (repository.DialogueStore, func(), error) {
	switch cfg.DialogueBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return redis.NewDialogueRepo(client, cfg.DialogueRetention), func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return memory.NewDialogueRepo(), func() {}, nil
	default:
		return postgres.NewDialogueRepo(db), func() {}, nil
	}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob prunes idle dialogues at startup and then daily
func runCleanupJob(ctx context.Context, dialogueService *service.DialogueService, logger *zap.Logger) {
	if err := dialogueService.CleanupStale(ctx); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := dialogueService.CleanupStale(ctx); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}
