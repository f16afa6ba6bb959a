package cmd

import (
	"errors"

	"crypto-meanrev/config"
	"crypto-meanrev/internal/repository"
	"crypto-meanrev/internal/service"
	"crypto-meanrev/pkg/cache"
	"crypto-meanrev/pkg/logger"
	"crypto-meanrev/pkg/telegram"

	"github.com/joho/godotenv"
)

type AppDependency struct {
	cfg      *config.Config
	log      *logger.Logger
	cache    cache.Cache
	service  *service.Service
	notifier *telegram.Notifier
}

func NewAppDependency() (*AppDependency, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	coinGeckoRepo := repository.NewCoinGeckoRepository(cfg, log)

	notifier, err := telegram.NewNotifier(&cfg.Telegram, log)
	if err != nil {
		if !errors.Is(err, telegram.ErrNotConfigured) {
			return nil, err
		}
		log.Warn("Telegram not configured, reports will only be logged")
		notifier = nil
	}

	return &AppDependency{
		cfg:      cfg,
		log:      log,
		cache:    cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		service:  service.NewService(cfg, log, coinGeckoRepo),
		notifier: notifier,
	}, nil
}

func (d *AppDependency) Close() {
	_ = d.log.Sync()
}
