package main

import (
	"fmt"

	"golang-market-scryper/internal/scraper/browser"
	"golang-market-scryper/internal/scraper/config"
	"golang-market-scryper/internal/scraper/live"
	"golang-market-scryper/internal/scraper/publisher"
	"golang-market-scryper/internal/scraper/repository"
	"golang-market-scryper/internal/scraper/service"
	"golang-market-scryper/pkg/logger"
	"golang-market-scryper/pkg/postgres"
	"golang-market-scryper/pkg/redis"
	"golang-market-scryper/pkg/telegram"
)

// app holds the wired dependencies for one CLI invocation.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	ingestion service.IngestionService
	cleanup   func()
}

// newApp loads configuration and wires the ingestion service.
// Redis and Telegram are optional: an empty host or bot token disables them.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = appLogger.Sync()
	}

	var tickPublisher publisher.TickPublisher
	if cfg.Redis.Host != "" && cfg.Scraper.Live.TickStream != "" {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		tickPublisher = publisher.NewRedisTickPublisher(redisClient.Client, cfg.Scraper.Live.TickStream, cfg.Redis.StreamMaxLen)
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
		}
	}

	fetcher := live.NewFetcher(cfg, appLogger)
	newActor := func(headless bool) (browser.Actor, error) {
		return browser.NewChrome(headless, appLogger)
	}

	ingestion := service.NewIngestionService(
		cfg,
		appLogger,
		db.DB,
		fetcher,
		newActor,
		repository.NewStocksRepository(db.DB),
		repository.NewDailyPricesRepository(db.DB),
		repository.NewLivePricesRepository(db.DB),
		tickPublisher,
		notifier,
	)

	return &app{
		cfg:       cfg,
		log:       appLogger,
		ingestion: ingestion,
		cleanup:   cleanup,
	}, nil
}
