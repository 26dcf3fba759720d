package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/task-manager/internal/api"
	"github.com/baharkarakas/task-manager/internal/auth"
	"github.com/baharkarakas/task-manager/internal/config"
	"github.com/baharkarakas/task-manager/internal/db"
	"github.com/baharkarakas/task-manager/internal/logger"
	"github.com/baharkarakas/task-manager/internal/metrics"
	"github.com/baharkarakas/task-manager/internal/notify"
	"github.com/baharkarakas/task-manager/internal/repository"
	"github.com/baharkarakas/task-manager/internal/repository/memory"
	"github.com/baharkarakas/task-manager/internal/repository/postgres"
	"github.com/baharkarakas/task-manager/internal/services"
	"github.com/baharkarakas/task-manager/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users repository.Users
		tasks repository.Tasks
	)
	if cfg.IsMemoryStore() {
		log.Warn("using in-memory store; data is lost on restart")
		store := memory.New()
		users, tasks = store.Users(), store.Tasks()
	} else {
		dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer dbPool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, dbPool); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		repos := postgres.NewRepositories(dbPool)
		users, tasks = repos.Users, repos.Tasks
	}

	mailer, err := notify.NewMailer(cfg.Mail)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	dispatcher := notify.NewDispatcher(mailer, wp, log)
	userSvc := services.NewUserService(users, tasks, tm, dispatcher)
	taskSvc := services.NewTaskService(tasks)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{Cfg: cfg, Log: log, UserSvc: userSvc, TaskSvc: taskSvc})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	// deferred: drain worker pool, then close the db pool
	return nil
}
