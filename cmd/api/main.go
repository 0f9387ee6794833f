package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/anonrelay/internal/api/http"
	"github.com/spec-kit/anonrelay/internal/api/http/handlers"
	"github.com/spec-kit/anonrelay/internal/auth"
	"github.com/spec-kit/anonrelay/internal/config"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/filter"
	"github.com/spec-kit/anonrelay/internal/notify"
	"github.com/spec-kit/anonrelay/internal/observability"
	"github.com/spec-kit/anonrelay/internal/persistence"
	"github.com/spec-kit/anonrelay/internal/repository"
	"github.com/spec-kit/anonrelay/internal/service"
	"github.com/spec-kit/anonrelay/internal/session"
	"github.com/spec-kit/anonrelay/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	pendingRepo := repository.NewPendingRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	var sessions session.Store
	if redis.Ping(ctx) == nil {
		sessions = session.NewRedisStore(redis.Client, cfg.Relay.SessionTTL())
	} else {
		logger.Warn("redis unavailable; conversation state will not survive restarts")
		sessions = session.NewMemoryStore(cfg.Relay.SessionTTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewWebhookNotifier(logger, cfg.Notify)

	admissionService := service.NewAdmissionService(service.AdmissionDependencies{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
		Filter:    filter.New(cfg.Relay.Denylist, cfg.Relay.Mode()),
		Window:    cfg.Relay.Window(),
		Cooldown:  cfg.Relay.Cooldown(),
		Metrics:   metrics,
	})
	moderationService := service.NewModerationService(service.ModerationDependencies{
		PendingRepo: pendingRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		UserRepo:       userRepo,
		AdminRepo:      adminRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		AliasImmutable: cfg.Relay.AliasImmutable,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Sessions:   sessions,
		Admission:  admissionService,
		Moderation: moderationService,
		Accounts:   accountService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(cfg.Auth, adminRepo)
	notificationService := service.NewNotificationService(dispatcher, notifier, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Messages:       handlers.NewMessagesHandler(intakeService),
		Moderation:     handlers.NewModerationHandler(moderationService),
		Users:          handlers.NewUsersHandler(accountService),
		Admins:         handlers.NewAdminsHandler(authService, accountService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
