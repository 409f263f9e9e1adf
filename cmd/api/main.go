package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/technicalhatchet/fieldserve/internal/api/http"
	"github.com/technicalhatchet/fieldserve/internal/api/http/handlers"
	"github.com/technicalhatchet/fieldserve/internal/config"
	"github.com/technicalhatchet/fieldserve/internal/events"
	"github.com/technicalhatchet/fieldserve/internal/observability"
	"github.com/technicalhatchet/fieldserve/internal/persistence"
	"github.com/technicalhatchet/fieldserve/internal/repository"
	"github.com/technicalhatchet/fieldserve/internal/service"
	"github.com/technicalhatchet/fieldserve/internal/worker"
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
	technicianRepo := repository.NewTechnicianRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewQueuedDispatcher(256)
	defer dispatcher.Close()

	slotCache := persistence.NewSlotCache(redis, cfg.Scheduling.SlotCacheTTL(), logger)

	schedulingService := service.NewSchedulingService(cfg.Scheduling, service.SchedulingDependencies{
		WorkOrderRepo:  workOrderRepo,
		TechnicianRepo: technicianRepo,
		Dispatcher:     dispatcher,
		SlotCache:      slotCache,
		SlotCacheKey:   persistence.SlotCacheKey,
		Logger:         logger,
	})
	technicianService := service.NewTechnicianService(service.TechnicianDependencies{
		TechnicianRepo: technicianRepo,
		WorkOrderRepo:  workOrderRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	workOrderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		WorkOrderRepo: workOrderRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	notificationService := service.NewNotificationService(cfg.Notification, cfg.Scheduling.NotifyTimeout(), service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Scheduling:  handlers.NewSchedulingHandler(schedulingService),
		Technicians: handlers.NewTechniciansHandler(technicianService),
		WorkOrders:  handlers.NewWorkOrdersHandler(workOrderService),
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
