package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
	"github.com/BruksfildServices01/headspa-scheduler/internal/notify"
	"github.com/BruksfildServices01/headspa-scheduler/internal/routes"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/chat"
)

func newServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		autoMigrate     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg, autoMigrate, shutdownTimeout)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 20*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Run migrations before serving")

	return cmd
}

func serve(cfg *config.Config, autoMigrate bool, shutdownTimeout time.Duration) error {
	logger := logs.New(cfg)
	slog.SetDefault(logger)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}
	}

	// --------------------------------------------------
	// Lock de reserva: Redis quando configurado
	// --------------------------------------------------
	var (
		locker domain.DateLocker
		rdb    *redis.Client
	)
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		locker = lock.NewRedisDateLocker(rdb, cfg.Lock.TTL, cfg.Lock.Wait)
		logger.Info("booking lock: redis", "addr", cfg.Redis.Addr)
	} else {
		locker = lock.NewLocalDateLocker(cfg.Lock.Wait)
		logger.Warn("booking lock: in-process (single instance only)")
	}

	var store storage.ObjectStore
	if cfg.S3.Enabled() {
		s3store, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			return err
		}
		store = s3store
	} else {
		logger.Warn("S3 not configured, gallery uploads disabled")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer auditDispatcher.Close()

	var notifier ucAppointment.Notifier
	if cfg.SMTP.Enabled() {
		n := notify.NewNotifier(notify.NewMailer(cfg.SMTP), logger)
		defer n.Close()
		notifier = n
	} else {
		logger.Warn("SMTP not configured, e-mail notifications disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	hub := ucChat.NewHub()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Clock:    timezone.NewClock(cfg.Timezone),
		Locker:   locker,
		Redis:    rdb,
		Store:    store,
		Audit:    auditDispatcher,
		Notifier: notifier,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// streams SSE não terminam sozinhos
	srv.RegisterOnShutdown(hub.Close)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// handlers ainda rodando: audit e notifier descartam o que chegar depois do Close
		logger.Error("graceful shutdown timed out", "error", err)
		return err
	}
	return nil
}
