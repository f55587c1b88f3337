package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"google.golang.org/grpc"

	"github.com/rl1809/axion/internal/adapter/handler"
	"github.com/rl1809/axion/internal/adapter/storage"
	"github.com/rl1809/axion/internal/config"
	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/core/service"
	"github.com/rl1809/axion/internal/observability"
	"github.com/rl1809/axion/internal/port"
	logx "github.com/rl1809/axion/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}

	logx.Init(logx.LoggerOpts{Production: cfg.Environment.IsProduction()})

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Str("backend", string(cfg.Store.Backend)).Msg("failed to open store")
	}
	logx.Info().Str("backend", string(cfg.Store.Backend)).Msg("store ready")

	metrics := observability.NewCollector("axion")

	repo := storage.NewProductRepository(kv, cfg.Store.KeyPrefix)
	app := service.NewApp(kv, repo, service.Options{
		KeyPrefix:      cfg.Store.KeyPrefix,
		SyncHold:       cfg.Sync.Hold,
		QueueSize:      cfg.Sync.QueueSize,
		PersistTimeout: cfg.Sync.PersistTimeout,
		Elasticity:     cfg.SimulatorElasticity,
		Metrics:        metrics,
	})

	if err := app.Start(ctx, domain.DefaultProducts()); err != nil {
		logx.Fatal().Err(err).Msg("failed to start workspace")
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.NewGRPCHandler(app).Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logx.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	go func() {
		logx.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logx.Error().Err(err).Msg("gRPC server error")
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(app, handler.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpHandler.Routes(metrics.Handler(), metrics.Middleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logx.Warn().Err(err).Msg("HTTP shutdown")
	}
	logx.Info().Msg("HTTP server stopped")

	grpcServer.GracefulStop()
	logx.Info().Msg("gRPC server stopped")

	// Drain pending writes before closing the store
	app.Close()
	logx.Info().Msg("persistence queue drained")

	if err := closeStore.Close(); err != nil {
		logx.Warn().Err(err).Msg("close store")
	}
	logx.Info().Msg("connections closed")
}

func openStore(ctx context.Context, cfg *config.Config) (port.KVStore, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisAdapter(rdb), rdb, nil

	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, db, nil

	default:
		return storage.NewMemoryAdapter(), io.NopCloser(nil), nil
	}
}
