package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/config"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/mockfeed"
	"github.com/STTM-NSU/chart-terminal/internal/postgres"
	"github.com/STTM-NSU/chart-terminal/internal/server"
	"github.com/joho/godotenv"
)

const (
	_cfgFilePath = "./configs/mock-feed.yaml"
)

func main() {
	var (
		cfgPath   = flag.String("config", _cfgFilePath, "config file")
		exportDir = flag.String("export-dir", "", "write generated candles as parquet files here and exit")
		tickers   = flag.String("tickers", "AAPL,MSFT,GOOGL,AMZN,TSLA", "comma separated tickers for -export-dir")
		years     = flag.Int("years", 2, "years of history for -export-dir")
	)
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.LoadMockFeedConfig(*cfgPath)
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

	if *exportDir != "" {
		to := time.Now().UTC()
		from := to.AddDate(-*years, 0, 0)
		n, err := mockfeed.Export(ctx, mockfeed.NewGeneratorSource(cfg.MockFeed.Seed), mockfeed.NewParquetSource(*exportDir), mockfeed.SplitTickers(*tickers), from, to)
		if err != nil {
			zapLogger.Fatalf("%s: can't export candles", err)
		}
		zapLogger.Infof("exported %d candles to %s", n, *exportDir)
		return
	}

	var source mockfeed.Source
	switch cfg.MockFeed.Source {
	case config.ParquetSource:
		source = mockfeed.NewParquetSource(cfg.MockFeed.ParquetDir)
	case config.PostgresSource:
		db, err := postgres.NewDB(ctx, postgres.NewConfigFromEnv().Setup())
		if err != nil {
			zapLogger.Fatalf("%s: can't connect to postgres", err)
		}
		defer db.Close()
		if err := postgres.EnsureCandles(ctx, db); err != nil {
			zapLogger.Fatalf("%s: can't prepare postgres", err)
		}
		source = mockfeed.NewPostgresSource(db)
	default:
		source = mockfeed.NewGeneratorSource(cfg.MockFeed.Seed)
	}

	handler := mockfeed.NewServer(source, zapLogger).Handler()

	zapLogger.Infof("mock feed (%s) listening on :%s", cfg.MockFeed.Source, cfg.Server.Port)
	if err := server.NewHTTPServer(ctx, cfg.Server.Port, handler).
		WithShutdownTimeout(cfg.Server.ShutdownTimeout).
		Run(ctx); err != nil {
		zapLogger.Errorf("%s: server stopped", err)
	}
}
