package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/penstore/config"
	"github.com/fekuna/penstore/internal/app"
	"github.com/fekuna/penstore/internal/server"
	"github.com/fekuna/penstore/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := app.NewLogger(cfg)
	defer appLogger.Sync()

	i18n.Init()
	if cfg.I18n.Dir != "" {
		files, _ := filepath.Glob(filepath.Join(cfg.I18n.Dir, "active.*.json"))
		for _, f := range files {
			if err := i18n.Load(f); err != nil {
				appLogger.Warn("Failed to load locale file", zap.String("file", f), zap.Error(err))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLogger, app.Options{Consumer: true})
	if err != nil {
		appLogger.Error("Could not start application", zap.Error(err))
		return err
	}
	defer a.Close()

	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := server.NewRouter(server.RouterConfig{
		MediaPrefix: cfg.Media.URLPrefix,
		MediaDir:    a.Storage.Dir(),
		Tokens:      a.Tokens,
		DB:          a.DB,
		Registry:    registry,
	}, server.NewHandlers(a), appLogger)

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer, healthServer := server.NewGRPCServer(appLogger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
		if err != nil {
			return err
		}
		healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_SERVING)
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		return grpcServer.Serve(lis)
	})

	if a.Consumer != nil {
		g.Go(func() error {
			return a.StockListener.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
