package service

import (
	"math"
	"sort"
	"strings"

	"crypto-meanrev/internal/dto"
	"crypto-meanrev/internal/indicator"
	"crypto-meanrev/pkg/logger"
)

const (
	// MA(short) and MA(base) closer than this count as a flat trend.
	maEqualityTolerance = 1e-9
	// |z| below this softens a strong arrow into its diagonal form.
	weakTrendZ = 0.6
)

// BuildSignals turns market rows and the price panel into ranked buy and
// sell candidates, each truncated to its configured count. It never fails;
// an empty panel simply yields empty candidate lists.
func (s *Service) BuildSignals(marketRows []dto.MarketRow, panel dto.PricePanel) (buys, sells []dto.SignalRow) {
	window := s.cfg.Indicators.ZScoreWindow
	threshold := s.cfg.Indicators.ZScoreThreshold

	for _, m := range marketRows {
		series, ok := panel[m.ID]
		if !ok || len(series) < max(7, window) || m.CurrentPrice == nil {
			continue
		}

		row := dto.ComputedRow{
			ID:        m.ID,
			Symbol:    upperSymbol(m),
			Name:      nameOrID(m),
			Price:     m.Price(),
			Volume24h: m.Volume(),
			MAShort:   indicator.LastValid(indicator.MA(series, s.cfg.Indicators.MAShort)),
			MABase:    indicator.LastValid(indicator.MA(series, s.cfg.Indicators.MABase)),
			Std:       indicator.LastValid(indicator.RollingStd(series, window)),
			ZScore:    indicator.ZScoreLast(series, window),
			Change3d:  indicator.PctChange(series, 3),
			Change7d:  indicator.PctChange(series, 7),
		}

		arrow := soften(arrowFromMA(row.MAShort, row.MABase), row.ZScore)

		if !row.ZScore.Valid {
			continue
		}

		switch {
		case row.ZScore.V <= -threshold:
			buys = append(buys, dto.SignalRow{
				ComputedRow: row,
				Arrow:       arrow,
				Verdict:     verdictFor(row.ZScore, dto.SideBuy),
				Levels:      computeLevels(row.Price, row.MABase, row.Std),
			})
		case row.ZScore.V >= threshold:
			sells = append(sells, dto.SignalRow{
				ComputedRow: row,
				Arrow:       arrow,
				Verdict:     verdictFor(row.ZScore, dto.SideSell),
			})
		}
	}

	sort.Slice(buys, func(i, j int) bool { return buys[i].ZScore.V < buys[j].ZScore.V })
	sort.Slice(sells, func(i, j int) bool { return sells[i].ZScore.V > sells[j].ZScore.V })

	buys = headSignals(buys, s.cfg.Candidates.BuyTopN)
	sells = headSignals(sells, s.cfg.Candidates.SellTopN)

	s.log.Info("Classified candidates",
		logger.IntField("buys", len(buys)),
		logger.IntField("sells", len(sells)),
	)
	return buys, sells
}

func upperSymbol(m dto.MarketRow) string {
	return strings.ToUpper(m.Symbol)
}

func nameOrID(m dto.MarketRow) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

func arrowFromMA(maShort, maBase indicator.Value) dto.Arrow {
	if !maShort.Valid || !maBase.Valid {
		return dto.ArrowNeutral
	}
	if math.Abs(maShort.V-maBase.V) < maEqualityTolerance {
		return dto.ArrowNeutral
	}
	if maShort.V > maBase.V {
		return dto.ArrowUp
	}
	return dto.ArrowDown
}

// soften converts strong arrows to diagonal ones when the z-score says the
// move is weak. An undefined z-score keeps the raw arrow.
func soften(a dto.Arrow, z indicator.Value) dto.Arrow {
	if !z.Valid || math.Abs(z.V) >= weakTrendZ {
		return a
	}
	switch a {
	case dto.ArrowUp:
		return dto.ArrowDiagUp
	case dto.ArrowDown:
		return dto.ArrowDiagDown
	}
	return a
}

func verdictFor(z indicator.Value, side dto.Side) dto.Verdict {
	if !z.Valid {
		return dto.VerdictUndetermined
	}
	if side == dto.SideBuy {
		switch {
		case z.V <= -1.5:
			return dto.VerdictBuyDeep
		case z.V <= -1.2:
			return dto.VerdictBuyModerate
		default:
			return dto.VerdictBuyWait
		}
	}
	switch {
	case z.V >= 1.6:
		return dto.VerdictSellStrong
	case z.V >= 1.2:
		return dto.VerdictSellCaution
	default:
		return dto.VerdictSellMild
	}
}

// computeLevels derives suggested buy levels from the base MA and the
// rolling std. Both must be defined, otherwise the row carries no levels.
func computeLevels(price float64, maBase, std indicator.Value) *dto.TradeLevels {
	if !maBase.Valid || !std.Valid {
		return nil
	}
	return &dto.TradeLevels{
		Entry:       price,
		BetterEntry: math.Min(price, maBase.V-0.25*std.V),
		StopLoss:    price - 1.25*std.V,
		Target1:     maBase.V,
		Target2:     maBase.V + 0.5*std.V,
		SplitEntry:  price < maBase.V-1.5*std.V,
	}
}

func headSignals(rows []dto.SignalRow, n int) []dto.SignalRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
