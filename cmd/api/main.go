package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"goldprice/internal/bootstrap"
	"goldprice/internal/config"
	defaults "goldprice/internal/infrastructure/config"
	httpserver "goldprice/internal/infrastructure/http"
	"goldprice/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	svc, ready, err := bootstrap.BuildQueryService(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap query service", zap.Error(err))
	}
	srv := httpserver.NewServer(svc)
	srv.SetReadyCheck(ready)

	server := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(srv),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", zap.String("addr", addr), zap.String("csv", cfg.CSVPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaults.DefaultShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("server stopped")
}
