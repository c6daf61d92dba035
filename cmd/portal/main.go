package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/informreaders/portal/internal/account"
	"github.com/informreaders/portal/internal/admin"
	"github.com/informreaders/portal/internal/app"
	"github.com/informreaders/portal/internal/auth"
	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/bankcode"
	"github.com/informreaders/portal/internal/coupon"
	jobmetrics "github.com/informreaders/portal/internal/jobs"
	"github.com/informreaders/portal/internal/observability"
	"github.com/informreaders/portal/internal/platform/cache"
	"github.com/informreaders/portal/internal/platform/db"
	"github.com/informreaders/portal/internal/postalcode"
	"github.com/informreaders/portal/internal/rbac"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/software"
	"github.com/informreaders/portal/internal/tools"
	"github.com/informreaders/portal/internal/vehicle"
	"github.com/informreaders/portal/internal/view"
	"github.com/informreaders/portal/internal/weather"
	"github.com/informreaders/portal/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "portal_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	responseCache := backend.NewCache(redisClient, cfg.BackendCacheTTL, logger)
	if err := responseCache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("subscribe cache invalidation", slog.Any("error", err))
	}
	client := backend.NewClient(backend.Options{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		AdminToken: cfg.BackendAdminToken,
		Logger:     logger,
		Observer:   metrics,
	})

	redisOpts := cfg.QueueRedis()
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	upstream := &http.Client{Timeout: cfg.BackendTimeout}
	weatherService := weather.NewService(
		weather.NewForecastClient(cfg.GeocodingURL, cfg.WeatherURL, upstream, metrics),
		weather.NewHolidayClient(cfg.HolidaysURL, upstream, metrics),
		responseCache,
		logger,
	)

	authService := auth.NewService(auth.NewRepository(dbpool))
	rbacMiddleware := rbac.Middleware{Service: rbac.NewService(authService), Logger: logger}
	adminService := admin.NewService(client, shared.NewAuditLogger(dbpool).WithLogger(logger), responseCache, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Metrics:        metrics,

		BankCodeHandler:   bankcode.NewHandler(logger, bankcode.NewService(client, responseCache), templates, csrfManager),
		PostalCodeHandler: postalcode.NewHandler(logger, postalcode.NewService(client, responseCache), templates, csrfManager),
		CouponHandler:     coupon.NewHandler(logger, coupon.NewService(client, responseCache), templates, csrfManager),
		SoftwareHandler:   software.NewHandler(logger, software.NewService(client, responseCache), templates, csrfManager),
		VehicleHandler:    vehicle.NewHandler(logger, vehicle.NewService(client, responseCache), templates, csrfManager),
		WeatherHandler:    weather.NewHandler(logger, weatherService, templates, csrfManager),
		ToolsHandler:      tools.NewHandler(logger, templates, csrfManager),
		AccountHandler:    account.NewHandler(logger, client, jobClient, cfg.AppBaseURL, templates, csrfManager),

		AuthHandler:        auth.NewHandler(logger, authService, templates, sessionManager, csrfManager),
		AdminHandler:       admin.NewHandler(logger, adminService, templates, csrfManager, rbacMiddleware),
		PermissionsHandler: rbac.NewPermissionsHandler(logger, templates, csrfManager, rbacMiddleware),
		JobHandler:         jobs.NewHandler(inspector, jobmetrics.NewMetrics(metrics.Registerer()), logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
