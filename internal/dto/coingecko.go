package dto

// MarketRow is one instrument's market snapshot from /coins/markets.
// Price and volume are pointers because CoinGecko omits them for thin
// markets; downstream treats nil as zero.
type MarketRow struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	TotalVolume  *float64 `json:"total_volume"`
}

// Price returns the current price, zero when missing.
func (m MarketRow) Price() float64 {
	if m.CurrentPrice == nil {
		return 0
	}
	return *m.CurrentPrice
}

// Volume returns the 24h volume, zero when missing.
func (m MarketRow) Volume() float64 {
	if m.TotalVolume == nil {
		return 0
	}
	return *m.TotalVolume
}

// MarketChart is the /coins/{id}/market_chart response. Each entry of
// Prices is a [timestampMilliseconds, price] pair.
type MarketChart struct {
	Prices [][]float64 `json:"prices"`
}

// ClosingPrices strips timestamps, preserving ascending time order.
func (c MarketChart) ClosingPrices() []float64 {
	out := make([]float64, 0, len(c.Prices))
	for _, pair := range c.Prices {
		if len(pair) < 2 {
			continue
		}
		out = append(out, pair[1])
	}
	return out
}

// PricePanel maps instrument id to its daily closing-price series,
// ascending by time. An id absent from the panel means insufficient data.
type PricePanel map[string][]float64
