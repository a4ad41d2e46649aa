package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Cyril-dot/billionBackend/internal/config"
	"github.com/Cyril-dot/billionBackend/internal/db"
	"github.com/Cyril-dot/billionBackend/internal/httpapi"
	"github.com/Cyril-dot/billionBackend/internal/logger"
	"github.com/Cyril-dot/billionBackend/internal/notify"
	"github.com/Cyril-dot/billionBackend/internal/realtime"
	"github.com/Cyril-dot/billionBackend/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Log.Sync() }()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Log.Fatal("db connect", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Log.Fatal("db migrate", zap.Error(err))
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rds.Ping(pingCtx); err != nil {
		cancel()
		logger.Log.Fatal("redis ping", zap.Error(err))
	}
	cancel()
	defer func() { _ = rds.Close() }()

	queue, err := notify.NewQueue(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		logger.Log.Fatal("rabbit connect", zap.Error(err))
	}
	defer func() { _ = queue.Close() }()

	hub := realtime.NewHub()
	defer hub.Close()

	router := httpapi.NewRouter(gdb, cfg, rds, hub, queue)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("api listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown", zap.Error(err))
	}
}
