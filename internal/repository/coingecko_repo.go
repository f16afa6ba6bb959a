package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"crypto-meanrev/config"
	"crypto-meanrev/internal/dto"
	"crypto-meanrev/pkg/httpclient"
	"crypto-meanrev/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	userAgent      = "meanrev-bot/1.0"
	marketsPerPage = 250
	vsCurrency     = "usd"
)

type CoinGeckoRepository interface {
	// GetMarkets fetches the highest-available page of instruments
	// ranked by market capitalization.
	GetMarkets(ctx context.Context) ([]dto.MarketRow, error)
	// GetMarketChartDaily fetches the daily closing-price series for one
	// instrument, ascending by time.
	GetMarketChartDaily(ctx context.Context, coinID string, days int) ([]float64, error)
}

type coinGeckoRepository struct {
	fetcher        *httpclient.Fetcher
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewCoinGeckoRepository(cfg *config.Config, log *logger.Logger) CoinGeckoRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	client := httpclient.New(cfg.CoinGecko.BaseURL, cfg.CoinGecko.Timeout, userAgent)
	fetcher := httpclient.NewFetcher(client, httpclient.RetryPolicy{
		MaxAttempts: cfg.CoinGecko.MaxRetries,
		BackoffMin:  cfg.CoinGecko.BackoffMin,
		BackoffMax:  cfg.CoinGecko.BackoffMax,
	}, log)

	return &coinGeckoRepository{
		fetcher:        fetcher,
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *coinGeckoRepository) headers() map[string]string {
	if r.cfg.CoinGecko.APIKey == "" {
		return nil
	}
	return map[string]string{"x-cg-pro-api-key": r.cfg.CoinGecko.APIKey}
}

func (r *coinGeckoRepository) GetMarkets(ctx context.Context) ([]dto.MarketRow, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"vs_currency":             vsCurrency,
		"order":                   "market_cap_desc",
		"per_page":                strconv.Itoa(marketsPerPage),
		"page":                    "1",
		"sparkline":               "false",
		"price_change_percentage": "7d,30d",
	}

	var rows []dto.MarketRow
	if err := r.fetcher.FetchJSON(ctx, "/coins/markets", queryParams, r.headers(), &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch markets from coingecko: %w", err)
	}

	r.logger.Info("Fetched market universe page",
		logger.IntField("rows", len(rows)),
	)
	return rows, nil
}

func (r *coinGeckoRepository) GetMarketChartDaily(ctx context.Context, coinID string, days int) ([]float64, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/coins/%s/market_chart", coinID)
	queryParams := map[string]string{
		"vs_currency": vsCurrency,
		"days":        strconv.Itoa(days),
		"interval":    "daily",
	}

	var chart dto.MarketChart
	if err := r.fetcher.FetchJSON(ctx, endpoint, queryParams, r.headers(), &chart); err != nil {
		return nil, fmt.Errorf("failed to fetch market chart for %s: %w", coinID, err)
	}

	return chart.ClosingPrices(), nil
}
