package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/homecare-api/internal/api/http"
	"github.com/spec-kit/homecare-api/internal/api/http/handlers"
	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/cache"
	"github.com/spec-kit/homecare-api/internal/config"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/observability"
	"github.com/spec-kit/homecare-api/internal/persistence"
	"github.com/spec-kit/homecare-api/internal/ratelimit"
	"github.com/spec-kit/homecare-api/internal/repository"
	"github.com/spec-kit/homecare-api/internal/service"
	"github.com/spec-kit/homecare-api/internal/storage"
	"github.com/spec-kit/homecare-api/internal/worker"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	txManager := repository.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)

	var objectStore storage.ObjectStore
	s3Store, err := storage.NewS3Store(ctx, cfg.Storage, logger)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Warn("object storage not configured, resume uploads disabled")
	case err != nil:
		logger.Fatal("failed to init object storage", zap.Error(err))
	default:
		objectStore = s3Store
	}

	notifier := worker.NewNotificationWorker(events.NewInMemoryDispatcher(), 256, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: userRepo})
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		ShiftRepo:  shiftRepo,
		TxManager:  txManager,
		Dispatcher: notifier,
		Conflicts:  metrics,
		Logger:     logger,
	})
	reportService := service.NewShiftReportService(service.ShiftReportDependencies{
		ReportRepo: repository.NewShiftReportRepository(pool),
		ShiftRepo:  shiftRepo,
		Schedule:   scheduleService,
		TxManager:  txManager,
	})
	timeLogService := service.NewTimeLogService(repository.NewTimeLogRepository(pool))
	careRequestRepo := repository.NewCareRequestRepository(pool)
	careRequestService := service.NewCareRequestService(careRequestRepo, notifier, logger)
	careersService := service.NewCareersService(service.CareersDependencies{
		PositionRepo:    repository.NewPositionRepository(pool),
		ApplicationRepo: repository.NewApplicationRepository(pool),
		Store:           objectStore,
		Dispatcher:      notifier,
		MaxResumeBytes:  cfg.Storage.MaxResumeBytes(),
		Logger:          logger,
	})
	blogService := service.NewBlogService(repository.NewBlogRepository(pool), cache.NewCategoryCache(redis.Client, 10*time.Minute), logger)
	adminService := service.NewAdminService(service.AdminDependencies{
		AdminRepo:       repository.NewAdminRepository(pool),
		CareRequestRepo: careRequestRepo,
		ClientRepo:      repository.NewClientRepository(pool),
	})
	teamService := service.NewTeamService(userRepo, cfg.Auth.BcryptCost)
	notificationService := service.NewNotificationService(notifier, logger, cfg.Notification)

	workerCtx, stopWorker := context.WithCancel(ctx)
	worker.StartNotificationWorker(workerCtx, notificationService, notifier)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.App.RequestTimeout(),
		CORS:    cfg.CORS,
	})

	var limiter fiber.Handler
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.Middleware(
			ratelimit.NewLimiter(ratelimit.NewRedisStore(redis.Client), cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
			logger, metrics)
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:         handlers.NewAuthHandler(authService),
		Schedule:     handlers.NewScheduleHandler(scheduleService, reportService),
		TimeLogs:     handlers.NewTimeLogHandler(timeLogService),
		CareRequests: handlers.NewCareRequestHandler(careRequestService),
		Careers:      handlers.NewCareersHandler(careersService),
		Blog:         handlers.NewBlogHandler(blogService),
		Admin:        handlers.NewAdminHandler(adminService, teamService),
		Gate:         auth.NewGate(authService.TokenManager()),
		RateLimit:    limiter,
		Gatherer:     registry,
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
	stopWorker()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
