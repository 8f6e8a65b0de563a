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

	redisv9 "github.com/redis/go-redis/v9"

	"faculty_backend/internal/app/config"
	"faculty_backend/internal/app/di"
	"faculty_backend/internal/app/router"
	"faculty_backend/internal/platform/db"
	platformhandler "faculty_backend/internal/platform/http/handler"
	jwtmw "faculty_backend/internal/platform/jwt"
	"faculty_backend/internal/platform/logger"
	infraredis "faculty_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 設定
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})
	slog.SetDefault(log)

	// JWT_SECRETチェック（本番でデフォルト値のままなら起動しない）
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.JWT.Secret == config.InsecureJWTSecret {
		log.Warn("JWT_SECRET is using the insecure default. Set a strong secret in production.")
	}

	// db
	gdb, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Error("Failed to close Redis client", "error", err)
				}
			}()
		}
	}

	mgr := jwtmw.NewManager(cfg.JWT.Secret)
	h := di.NewHandlers(di.Deps{
		DB:             gdb,
		Redis:          rdb,
		JWT:            mgr,
		CacheTTL:       cfg.Cache.TTL,
		CacheNamespace: cfg.Cache.Namespace,
	})

	checks := map[string]platformhandler.Check{
		"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ルータ生成
	engine := router.NewRouter(router.Config{
		Logger:      log,
		Verifier:    mgr,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		ReadyChecks: checks,
	}, h.Auth, h.Teachers)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// グレースフルシャットダウン
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.HTTP.ShutdownTimeout))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
