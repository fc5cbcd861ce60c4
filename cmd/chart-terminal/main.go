package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/chart-terminal/internal/api"
	"github.com/STTM-NSU/chart-terminal/internal/config"
	"github.com/STTM-NSU/chart-terminal/internal/desktop"
	"github.com/STTM-NSU/chart-terminal/internal/feed"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/server"
	"github.com/STTM-NSU/chart-terminal/internal/terminal"
	"github.com/joho/godotenv"
)

const (
	_cfgFilePath = "./configs/chart-terminal.yaml"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(_cfgFilePath)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapFileLogger(logger.ParseLevel(cfg.Log.Level), logger.FileConfig{
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if envErr != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	feedClient := feed.NewClient(cfg.Feed, zapLogger)
	manager := desktop.NewManager(zapLogger)
	svc := terminal.NewService(manager, feedClient, cfg.Widget, zapLogger)
	defer svc.Close()

	handler := api.NewServer(svc, zapLogger)

	zapLogger.Infof("chart terminal listening on :%s, feed %s", cfg.Server.Port, cfg.Feed.Address)
	if err := server.NewHTTPServer(ctx, cfg.Server.Port, handler).
		WithShutdownTimeout(cfg.Server.ShutdownTimeout).
		Run(ctx); err != nil {
		zapLogger.Errorf("%s: server stopped", err)
	}
	zapLogger.Infof("chart terminal stopped")
}
