package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oskaros/reminder-engine/internal/app"
	"github.com/oskaros/reminder-engine/internal/config"
	"github.com/oskaros/reminder-engine/internal/domain"
	"github.com/oskaros/reminder-engine/internal/infra/calendar"
	"github.com/oskaros/reminder-engine/internal/infra/handler"
	"github.com/oskaros/reminder-engine/internal/infra/interpreter"
	"github.com/oskaros/reminder-engine/internal/infra/notifier"
	"github.com/oskaros/reminder-engine/internal/infra/pubsub"
	"github.com/oskaros/reminder-engine/internal/infra/repository"
	"github.com/oskaros/reminder-engine/internal/observability/logging"
	"github.com/oskaros/reminder-engine/internal/observability/middleware"
	"github.com/oskaros/reminder-engine/internal/observability/tracing"
	"github.com/oskaros/reminder-engine/internal/scheduler"
)

const serviceName = "reminder-engine"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: version(),
		Environment:    cfg.Tracing.Environment,
		Endpoint:       cfg.Tracing.Endpoint,
	})
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	db, err := initDatabase(cfg.Database)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	publisher, err := initPublisher(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize publisher", "error", err)
		os.Exit(1)
	}

	reminderRepo := repository.NewReminderRepository(db)

	reminderUseCase := app.NewReminderUseCase(
		reminderRepo,
		initInterpreter(cfg.Interpreter),
		initCalendar(cfg.Calendar),
		publisher,
		nil,
	)

	reminderHandler := handler.NewReminderHandler(reminderUseCase)

	router := setupRouter(reminderHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "address", cfg.Server.Address())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	startScheduler(ctx, cfg, reminderRepo)

	<-ctx.Done()

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close publisher", "error", err)
		}
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shut down tracing", "error", err)
	}

	slog.Info("server exited properly")
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{
		Logger: logging.NewGormLogger(200 * time.Millisecond).LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&repository.ReminderModel{}); err != nil {
		return nil, err
	}

	return db, nil
}

func initPublisher(ctx context.Context, cfg *config.Config) (pubsub.Publisher, error) {
	if cfg.PubSub.NatsURL == "" {
		slog.Warn("NATS_URL not set, event publishing disabled")

		return nil, nil
	}

	publisher, err := pubsub.NewNATSPublisherWithStream(ctx, pubsub.NATSPublisherConfig{
		URL: cfg.PubSub.NatsURL,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("NATS publisher initialized", "url", cfg.PubSub.NatsURL)

	return publisher, nil
}

func initInterpreter(cfg config.InterpreterConfig) interpreter.Interpreter {
	if cfg.APIKey == "" {
		slog.Warn("OPENROUTER_API_KEY not set, LLM date interpretation disabled")

		return interpreter.NewNoop()
	}

	return interpreter.NewOpenRouterClient(interpreter.OpenRouterConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}

func initCalendar(cfg config.CalendarConfig) calendar.Calendar {
	if cfg.URL == "" {
		slog.Warn("CALDAV_URL not set, calendar mirroring disabled")

		return calendar.NewNoop()
	}

	return calendar.NewCalDAVClient(calendar.CalDAVConfig{
		BaseURL:  cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
	})
}

func startScheduler(ctx context.Context, cfg *config.Config, repo domain.ReminderRepository) {
	if cfg.Notifier.TelegramToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, notification dispatch disabled")

		return
	}

	n := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Token: cfg.Notifier.TelegramToken,
	})

	scanner := scheduler.NewScanner(repo, cfg.Scheduler.Tolerance, cfg.Scheduler.Lookback)
	dispatcher := scheduler.NewDispatcher(repo, n, scheduler.DispatcherConfig{
		SendDelay:     cfg.Scheduler.SendDelay,
		MissThreshold: cfg.Scheduler.MissThreshold,
	})
	service := scheduler.NewService(repo, scanner, dispatcher, scheduler.ServiceConfig{
		Interval:  cfg.Scheduler.Interval,
		Tolerance: cfg.Scheduler.Tolerance,
		Lookback:  cfg.Scheduler.Lookback,
	})

	go service.Run(ctx)
}

func setupRouter(reminderHandler *handler.ReminderHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/ping"},
		Module:     logging.ModuleAPI,
		TracerName: serviceName,
	}))
	router.Use(middleware.PanicRecoveryGin())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	reminderHandler.RegisterRoutes(v1)

	return router
}

func version() string {
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		return v
	}

	return "dev"
}
