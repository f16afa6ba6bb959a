package service

import (
	"context"
	"strings"

	"crypto-meanrev/internal/dto"
	"crypto-meanrev/pkg/logger"
)

// BuildUniverse fetches the ranked market page and narrows it to the
// working candidate set. Order matters: universe slice, then stablecoin
// exclusion, then liquidity and price floors.
func (s *Service) BuildUniverse(ctx context.Context) ([]dto.MarketRow, error) {
	rows, err := s.coinGeckoRepo.GetMarkets(ctx)
	if err != nil {
		return nil, err
	}

	rows = s.sliceUniverse(rows)

	if s.cfg.Universe.ExcludeStables {
		kept := rows[:0]
		for _, row := range rows {
			if _, stable := dto.Stablecoins[row.ID]; stable {
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}

	filtered := rows[:0]
	for _, row := range rows {
		if row.Volume() >= s.cfg.Universe.MinVolumeUSD24h && row.Price() >= s.cfg.Universe.MinPriceUSD {
			filtered = append(filtered, row)
		}
	}

	if len(filtered) == 0 {
		return nil, ErrEmptyUniverse
	}

	s.log.Info("Built market universe",
		logger.StringField("mode", s.cfg.Universe.Mode),
		logger.IntField("instruments", len(filtered)),
	)
	return filtered, nil
}

func (s *Service) sliceUniverse(rows []dto.MarketRow) []dto.MarketRow {
	switch s.cfg.Universe.Mode {
	case "TOP50":
		return headRows(rows, 50)
	case "MANUAL":
		watch := make(map[string]struct{}, len(s.cfg.Universe.Watchlist))
		for _, id := range s.cfg.Universe.Watchlist {
			watch[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
		}
		kept := make([]dto.MarketRow, 0, len(watch))
		for _, row := range rows {
			if _, ok := watch[strings.ToLower(row.ID)]; ok {
				kept = append(kept, row)
			}
		}
		return kept
	default: // TOP100
		return headRows(rows, 100)
	}
}

func headRows(rows []dto.MarketRow, n int) []dto.MarketRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
