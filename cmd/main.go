package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizblog/gateway/internal/api/handler"
	"quizblog/gateway/internal/auth"
	"quizblog/gateway/internal/broker"
	"quizblog/gateway/internal/chathub"
	"quizblog/gateway/internal/config"
	"quizblog/gateway/internal/localization"
	"quizblog/gateway/internal/logger"
	"quizblog/gateway/internal/storage"
	"quizblog/gateway/internal/telegram"
)

const (
	eventBuffer     = 1024
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	text, err := localization.Default()
	if err != nil {
		zl.Fatal("load locales", zap.Error(err))
	}

	sinks, revocations, cleanup := setupSinks(ctx, cfg, text, zl)
	defer cleanup()

	events := broker.NewAsync(zl, eventBuffer, sinks...)

	hub := chathub.NewManagerService(chathub.Options{
		Config:     cfg.Realtime,
		Logger:     zl,
		Publisher:  events,
		Translator: text,
	})
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	var revoked auth.RevocationList
	if revocations != nil {
		revoked = revocations
	}
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, revoked, zl)

	gin.SetMode(gin.ReleaseMode)
	h := handler.NewHandler(hub, verifier, cfg.Server.AllowedOrigins, cfg.Realtime.SendBuffer, zl)

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        h.Router(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zl.Info("gateway listening", zap.String("addr", server.Addr), zap.Int("sinks", len(sinks)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown", zap.Error(err))
	}
	<-hubDone
	if err := events.Close(); err != nil {
		zl.Warn("event broker close", zap.Error(err))
	}
}

// setupSinks builds every configured event sink. A sink whose backend cannot
// be reached is skipped with a warning.
func setupSinks(ctx context.Context, cfg *config.Config, text *localization.Localizer, zl *zap.Logger) ([]broker.Sink, *storage.RevocationList, func()) {
	var (
		sinks       []broker.Sink
		revocations *storage.RevocationList
		closers     []func()
	)

	if cfg.Redis.Address != "" {
		rdb, err := storage.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			zl.Warn("redis disabled", zap.Error(err))
		} else {
			sinks = append(sinks, broker.NewRedisSink(rdb, cfg.Redis.Channel, zl))
			revocations = storage.NewRevocationList(rdb, cfg.Auth.RevocationKey)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		ks, err := broker.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, zl)
		if err != nil {
			zl.Warn("kafka disabled", zap.Error(err))
		} else {
			sinks = append(sinks, ks)
			closers = append(closers, func() { _ = ks.Close() })
		}
	}

	if cfg.Postgres.DSN != "" {
		db, err := storage.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			zl.Warn("contact archive disabled", zap.Error(err))
		} else {
			sinks = append(sinks, storage.NewContactArchive(db))
		}
	}

	if cfg.Telegram.Token != "" {
		n, err := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, text, zl)
		if err != nil {
			zl.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			sinks = append(sinks, n)
		}
	}

	return sinks, revocations, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
