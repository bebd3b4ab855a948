package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"go.uber.org/zap"

	"github.com/finsight/finsight/config"
	"github.com/finsight/finsight/internal"
	"github.com/finsight/finsight/internal/services/market/collector"
	"github.com/finsight/finsight/internal/setup"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			logger.Fatal("setup failed", zap.Error(err))
		}
		return
	}

	conf, err := config.Get()
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	var client any
	switch conf.Platform {
	case "binance":
		// public market data endpoints need no credentials
		client = binance.NewClient("", "")
	case "bybit":
		client = bybit.NewClient()
	case "simulate":
		client = collector.NewSimulatedMarket(conf.SimulationSeed)
	}

	advisor, err := internal.NewAdvisor(conf, client, logger)
	if err != nil {
		logger.Fatal("failed to create advisor", zap.Error(err))
	}
	defer advisor.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("advisor started",
		zap.String("platform", conf.Platform),
		zap.String("class", conf.AssetClass.String()),
		zap.Int("watchlist", len(conf.Watchlist)),
		zap.Int("universe", len(conf.Universe)))

	if err := advisor.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("advisor stopped with error", zap.Error(err))
	}
}
