package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/itsm-routing/internal/api/http"
	"github.com/spec-kit/itsm-routing/internal/api/http/handlers"
	"github.com/spec-kit/itsm-routing/internal/auth"
	"github.com/spec-kit/itsm-routing/internal/config"
	"github.com/spec-kit/itsm-routing/internal/events"
	"github.com/spec-kit/itsm-routing/internal/observability"
	"github.com/spec-kit/itsm-routing/internal/persistence"
	"github.com/spec-kit/itsm-routing/internal/repository"
	"github.com/spec-kit/itsm-routing/internal/service"
	"github.com/spec-kit/itsm-routing/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.Pool
	userRepo := repository.NewUserRepository(pool)
	customRoleRepo := repository.NewCustomRoleRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	auditRepo := repository.NewAuditSettingsRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	accessService := service.NewAccessService(service.AccessDependencies{
		UserRepo:       userRepo,
		CustomRoleRepo: customRoleRepo,
		TenantRepo:     tenantRepo,
		Logger:         logger.Named("access"),
	})
	routingService := service.NewRoutingService(service.RoutingDependencies{
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		TenantRepo:  tenantRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger.Named("routing"),
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		TicketRepo:     ticketRepo,
		UserRepo:       userRepo,
		CustomRoleRepo: customRoleRepo,
		TenantRepo:     tenantRepo,
		HistoryRepo:    historyRepo,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger.Named("escalation"),
	})
	auditLogger := service.NewAuditLogger(service.NewAuditGate(service.AuditGateDependencies{
		SettingsRepo:   auditRepo,
		Cache:          redis.Client,
		CacheTTL:       cfg.Audit.CacheTTL(),
		DefaultEnabled: cfg.Audit.DefaultEnabled,
		Logger:         logger,
	}), logger)

	// Delivery runs on the worker pool; the event handlers only enqueue.
	delivery := service.NewNotificationService(nil, nil, logger, cfg.Notification)
	notifications := worker.NewNotificationWorker(delivery, cfg.Notification.Workers, cfg.Notification.QueueSize, logger)
	worker.StartNotificationWorker(ctx, notifications,
		service.NewNotificationService(dispatcher, notifications, logger, cfg.Notification))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
		handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping},
		handlers.DependencyCheck{Name: "redis", Ping: redis.Ping})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         health,
		Access:         handlers.NewAccessHandler(accessService),
		Tickets:        handlers.NewTicketsHandler(routingService, escalationService, auditLogger),
		CustomRoles:    handlers.NewCustomRolesHandler(accessService, auditLogger),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	notifications.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
