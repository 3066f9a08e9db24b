package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/auth"
	"github.com/jobmaroc/jobboard/internal/config"
	"github.com/jobmaroc/jobboard/internal/logging"
	"github.com/jobmaroc/jobboard/internal/server"
	"github.com/jobmaroc/jobboard/internal/session"
	"github.com/jobmaroc/jobboard/internal/storage"
	"github.com/jobmaroc/jobboard/internal/storage/memory"
	"github.com/jobmaroc/jobboard/internal/storage/postgres"
	redisstore "github.com/jobmaroc/jobboard/internal/storage/redis"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger.Desugar())

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalw("init storage", "driver", cfg.StorageDriver, "error", err)
	}
	defer store.Close()

	revoker, closeRevoker, err := openRevoker(ctx, cfg)
	if err != nil {
		logger.Fatalw("init token revocation", "error", err)
	}
	defer closeRevoker()

	var google auth.IdentityVerifier
	if cfg.GoogleClientID != "" {
		verifier, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			logger.Fatalw("init google sign-in", "error", err)
		}
		google = verifier
	}

	if err := server.EnsureAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatalw("bootstrap administrator", "error", err)
	}

	srv := server.New(cfg, server.Deps{Store: store, Revoker: revoker, Google: google, Logger: logger})

	go func() {
		logger.Infow("job board listening", "addr", cfg.HTTPAddress(), "storage", cfg.StorageDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Warnw("graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.New(), nil
	}
	s, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openRevoker(ctx context.Context, cfg config.Config) (session.Revoker, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryRevoker(), func() {}, nil
	}
	client, err := redisstore.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return redisstore.NewRevocationStore(client), func() { _ = client.Close() }, nil
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
