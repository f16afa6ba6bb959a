package service

import (
	"context"
	"fmt"
	"time"

	"crypto-meanrev/internal/dto"
	"crypto-meanrev/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// Accepted series are truncated to at least this many recent entries.
	panelFloorDays = 14
	// Extra wait on top of the pacing interval before re-asking for a
	// momentarily empty chart.
	emptyRetryExtraDelay = 2 * time.Second
)

// BuildPricePanel fetches the daily closing series for every market row.
// One instrument's failure or short history drops only that instrument;
// the run aborts only when the panel would be empty because of fetch
// failures, or when the context is cancelled.
func (s *Service) BuildPricePanel(ctx context.Context, rows []dto.MarketRow) (dto.PricePanel, error) {
	days := s.cfg.CoinGecko.LookbackDays
	minLen := max(8, s.cfg.Indicators.ZScoreWindow+1)
	keepDays := max(panelFloorDays, days)

	type chartResult struct {
		id     string
		closes []float64
		err    error
	}
	results := make([]chartResult, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.CoinGecko.PanelConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			if err := s.pacer.Wait(gctx); err != nil {
				return err
			}
			closes, err := s.coinGeckoRepo.GetMarketChartDaily(gctx, row.ID, days)
			if err == nil && len(closes) == 0 {
				// An empty body sometimes just means the upstream cache
				// is catching up; ask once more after an extended pause.
				if waitErr := sleepFor(gctx, s.pacer.Interval()+emptyRetryExtraDelay); waitErr != nil {
					return waitErr
				}
				closes, err = s.coinGeckoRepo.GetMarketChartDaily(gctx, row.ID, days)
			}
			results[i] = chartResult{id: row.ID, closes: closes, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	panel := dto.PricePanel{}
	var lastErr error
	failed := 0
	for _, res := range results {
		if res.err != nil {
			s.log.Warn("Dropping instrument after failed chart fetch",
				logger.StringField("id", res.id),
				logger.ErrorField(res.err),
			)
			lastErr = res.err
			failed++
			continue
		}
		if len(res.closes) < minLen {
			s.log.Debug("Dropping instrument with insufficient history",
				logger.StringField("id", res.id),
				logger.IntField("days", len(res.closes)),
			)
			continue
		}
		closes := res.closes
		if len(closes) > keepDays {
			closes = closes[len(closes)-keepDays:]
		}
		panel[res.id] = closes
	}

	if len(panel) == 0 && lastErr != nil {
		return nil, fmt.Errorf("price panel empty, %d instrument(s) failed: %w", failed, lastErr)
	}

	s.log.Info("Built price panel",
		logger.IntField("instruments", len(panel)),
		logger.IntField("failed", failed),
	)
	return panel, nil
}

func sleepFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
