package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-manager/internal/db"
	"github.com/BruksfildServices01/studio-manager/internal/logs"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
	"github.com/BruksfildServices01/studio-manager/internal/payments"
	"github.com/BruksfildServices01/studio-manager/internal/routes"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/status"
	"github.com/BruksfildServices01/studio-manager/internal/storage"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
	"github.com/BruksfildServices01/studio-manager/internal/views"
	"github.com/BruksfildServices01/studio-manager/internal/web"
)

func main() {

	cfg := config.Load()

	logger, err := logs.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	slog.SetDefault(logger)

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	clock := timezone.SystemClock(cfg.StudioTimezone)

	// ======================================================
	// REVOGAÇÃO + EVENTOS DE SESSÃO (redis opcional)
	// ======================================================
	var (
		revocations backend.Revocations = backend.NewMemoryRevocations()
		bus         backend.EventBus    = backend.NewLocalBus()
		redisBus    *backend.RedisBus
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()

		if err != nil {
			logger.Warn("redis unavailable, using in-process session events", slog.String("error", err.Error()))
			_ = client.Close()
		} else {
			revocations = backend.NewRedisRevocations(client)
			redisBus = backend.NewRedisBus(client, logger)
			bus = redisBus
			defer client.Close()
		}
	}

	if cfg.AllowAdminSignup {
		logger.Warn("admin self-signup is enabled (ALLOW_ADMIN_SIGNUP=true)")
	}

	auth := backend.NewJWTAuth(db, revocations, bus, logger, backend.JWTAuthOptions{
		Secret:           cfg.JWTSecret,
		TTL:              cfg.SessionTTL,
		AllowAdminSignup: cfg.AllowAdminSignup,
	})

	be := &backend.Backend{
		Auth:      auth,
		Bus:       bus,
		Store:     backend.NewGormStore(db),
		Functions: backend.NewGormFunctions(db, clock),
	}

	// ======================================================
	// AUDIT
	// ======================================================
	auditLogs := backend.NewGormTable[models.AuditLog](db)
	dispatcher := audit.NewDispatcher(audit.New(auditLogs), logger)

	// ======================================================
	// POLLERS
	// ======================================================
	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	stats := status.NewPoller[backend.DashboardStats]("dashboard_stats", cfg.StatusPollInterval, be.Functions.DashboardStats, logger)
	studioStatus := status.NewPoller[backend.StudioStatus]("studio_status", cfg.StatusPollInterval, be.Functions.StudioStatus, logger)
	for _, start := range []func(context.Context) error{stats.Start, studioStatus.Start} {
		if err := start(rootCtx); err != nil {
			logger.Error("failed to start poller", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// ======================================================
	// ABAS
	// ======================================================
	deps := views.Deps{
		Backend:  be,
		Validate: validators.New(),
		Audit:    dispatcher,
		Clock:    clock,
		Logger:   logger,
		Session:  session.Options{RefreshWindow: cfg.SessionTTL / 4},
		Stats:    stats,
		Status:   studioStatus,
	}
	registry := views.NewRegistry(deps)

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 10m", func() { registry.Sweep(cfg.TabIdle) }); err != nil {
		logger.Error("failed to schedule tab sweeper", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sweeper.Start()

	// ======================================================
	// HANDOFFS EXTERNOS
	// ======================================================
	var mailer notify.Mailer = notify.NewNoopMailer(logger)
	if cfg.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, logger)
	}
	notifier := notify.NewNotifier(be.Store.Notifications, mailer, logger)

	pay, err := payments.NewMercadoPago(cfg.MPAccessToken, be.Store.Appointments)
	if err != nil {
		logger.Error("failed to configure payments", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logos := storage.NewS3Logos(storage.S3Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
		AccessKey:     cfg.AWSAccessKey,
		SecretKey:     cfg.AWSSecretKey,
	})

	templates, err := web.Templates()
	if err != nil {
		logger.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var resolver validators.Resolver
	if cfg.CheckEmailDomain {
		resolver = net.DefaultResolver
	}

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	routes.RegisterRoutes(r, routes.App{
		Config:    cfg,
		Deps:      deps,
		Registry:  registry,
		Templates: templates,
		Notifier:  notifier,
		Payments:  pay,
		Logos:     logos,
		AuditLogs: auditLogs,
		Resolver:  resolver,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", slog.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// ======================================================
	// SHUTDOWN
	// ======================================================
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", slog.String("error", err.Error()))
	}

	<-sweeper.Stop().Done()
	stats.Stop()
	studioStatus.Stop()
	registry.Close()

	if err := dispatcher.Close(ctx); err != nil {
		logger.Warn("audit drain incomplete", slog.String("error", err.Error()))
	}
	if redisBus != nil {
		_ = redisBus.Close()
	}
}
