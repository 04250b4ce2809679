package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-directory/internal/api/http"
	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/cache"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/persistence"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/service"
	"github.com/spec-kit/employee-directory/internal/worker"
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo     repository.UserRepository
		employeeRepo repository.EmployeeRepository
	)
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		employeeRepo = repository.NewEmployeeRepository(pg.PoolHandle())
	} else {
		users := repository.NewMemoryUserRepository()
		userRepo = users
		employeeRepo = repository.NewMemoryEmployeeRepository(users)
	}

	var pageCache cache.PageCache = cache.Noop{}
	if redis.Enabled() {
		pageCache = cache.NewRedisPageCache(redis.Client, cfg.Cache.KeyPrefix, cfg.Cache.PageTTL)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCacheInvalidationWorker(dispatcher, pageCache, logger)

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	if cfg.Auth.BootstrapAdmin() {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		EmployeeRepo: employeeRepo,
		PageCache:    pageCache,
		Metrics:      metrics,
		Logger:       logger,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	})

	app := httptransport.NewApp(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout,
		Logger:         logger,
		Metrics:        metrics,
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
				"postgres": pg,
				"redis":    redis,
			}),
			Auth:           handlers.NewAuthHandler(authService),
			Employees:      handlers.NewEmployeesHandler(employeeService, directoryService),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
