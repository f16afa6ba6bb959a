package service

import (
	"errors"

	"crypto-meanrev/config"
	"crypto-meanrev/internal/repository"
	"crypto-meanrev/pkg/logger"
	"crypto-meanrev/pkg/ratelimit"
)

// ErrEmptyUniverse is returned when universe filtering removes every
// instrument.
var ErrEmptyUniverse = errors.New("empty market universe after filters")

type Service struct {
	cfg           *config.Config
	log           *logger.Logger
	coinGeckoRepo repository.CoinGeckoRepository
	pacer         *ratelimit.Pacer
}

func NewService(cfg *config.Config, log *logger.Logger, coinGeckoRepo repository.CoinGeckoRepository) *Service {
	return &Service{
		cfg:           cfg,
		log:           log,
		coinGeckoRepo: coinGeckoRepo,
		pacer:         ratelimit.NewPacer(cfg.CoinGecko.PacingInterval),
	}
}
