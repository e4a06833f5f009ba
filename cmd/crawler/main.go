package main

import (
	"context"
	"os/signal"
	"syscall"

	"goldprice/internal/bootstrap"
	"goldprice/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := bootstrap.InitCrawler(ctx)
	if err != nil {
		log.Fatal("init crawler", zap.Error(err))
	}
	res, err := svc.Crawl(ctx)
	cleanup()
	if err != nil {
		log.Fatal("crawl", zap.Error(err))
	}
	if res.Skipped {
		log.Info("crawl skipped", zap.String("reason", res.Reason))
	}
	_ = log.Sync()
}
