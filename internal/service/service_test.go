package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-meanrev/config"
	"crypto-meanrev/internal/dto"
	"crypto-meanrev/pkg/logger"
)

// fakeCoinGeckoRepo serves canned responses so builders can be exercised
// without a network.
type fakeCoinGeckoRepo struct {
	mu         sync.Mutex
	markets    []dto.MarketRow
	marketsErr error
	charts     map[string][]float64
	chartErrs  map[string]error
	emptyFirst map[string]int // serve this many empty responses before the data
	chartCalls map[string]int
}

func (f *fakeCoinGeckoRepo) GetMarkets(ctx context.Context) ([]dto.MarketRow, error) {
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	return f.markets, nil
}

func (f *fakeCoinGeckoRepo) GetMarketChartDaily(ctx context.Context, coinID string, days int) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chartCalls == nil {
		f.chartCalls = map[string]int{}
	}
	f.chartCalls[coinID]++
	if err, ok := f.chartErrs[coinID]; ok {
		return nil, err
	}
	if f.emptyFirst[coinID] >= f.chartCalls[coinID] {
		return nil, nil
	}
	return f.charts[coinID], nil
}

var errUpstream = errors.New("upstream unavailable")

func testConfig() *config.Config {
	return &config.Config{
		Universe: config.Universe{
			Mode:            "TOP100",
			MinVolumeUSD24h: 20_000_000,
			MinPriceUSD:     0.05,
			ExcludeStables:  true,
		},
		Indicators: config.Indicators{
			MAShort:         3,
			MABase:          7,
			ZScoreWindow:    7,
			ZScoreThreshold: 1.2,
		},
		Candidates: config.Candidates{BuyTopN: 5, SellTopN: 5},
		CoinGecko: config.CoinGecko{
			LookbackDays:     30,
			PacingInterval:   time.Millisecond,
			PanelConcurrency: 2,
		},
	}
}

func newTestService(cfg *config.Config, repo *fakeCoinGeckoRepo) *Service {
	return NewService(cfg, logger.Nop(), repo)
}

func marketRow(id string, price, volume float64) dto.MarketRow {
	return dto.MarketRow{
		ID:           id,
		Symbol:       id[:3],
		Name:         id,
		CurrentPrice: &price,
		TotalVolume:  &volume,
	}
}

// flatSeries is n-1 copies of base followed by last.
func flatSeries(base, last float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
	}
	out[n-1] = last
	return out
}
