package dto

import "crypto-meanrev/internal/indicator"

// Arrow is the trend glyph derived from the short/base MA relation.
type Arrow string

const (
	ArrowUp       Arrow = "↑"
	ArrowDown     Arrow = "↓"
	ArrowDiagUp   Arrow = "↗"
	ArrowDiagDown Arrow = "↘"
	ArrowNeutral  Arrow = "·"
)

// Verdict is an informational confidence label, ordered by severity.
// It never participates in ranking.
type Verdict string

const (
	VerdictBuyDeep      Verdict = "🟢 Worth considering — deep pullback"
	VerdictBuyModerate  Verdict = "🟢 Worth considering"
	VerdictBuyWait      Verdict = "🟡 Still waiting"
	VerdictSellStrong   Verdict = "🔴 Overextended — correction risk"
	VerdictSellCaution  Verdict = "🟠 Caution — pullback may follow"
	VerdictSellMild     Verdict = "🟡 Slightly overextended"
	VerdictUndetermined Verdict = "🟡 Undetermined"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ComputedRow is a MarketRow enriched with indicator readings. Every
// derived field is optional; each indicator has its own minimum-history
// requirement.
type ComputedRow struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     float64         `json:"price"`
	Volume24h float64         `json:"volume_24h"`
	MAShort   indicator.Value `json:"ma_short"`
	MABase    indicator.Value `json:"ma_base"`
	Std       indicator.Value `json:"std"`
	ZScore    indicator.Value `json:"zscore"`
	Change3d  indicator.Value `json:"change_3d"`
	Change7d  indicator.Value `json:"change_7d"`
}

// TradeLevels are the suggested levels for a buy candidate.
type TradeLevels struct {
	Entry       float64 `json:"entry"`
	BetterEntry float64 `json:"better_entry"`
	StopLoss    float64 `json:"stop_loss"`
	Target1     float64 `json:"target_1"`
	Target2     float64 `json:"target_2"`
	SplitEntry  bool    `json:"split_entry"`
}

// SignalRow is a classified candidate. Levels is set for buy-side rows
// only, and only when MA(base) and the rolling std are both defined.
type SignalRow struct {
	ComputedRow
	Arrow   Arrow        `json:"arrow"`
	Verdict Verdict      `json:"verdict"`
	Levels  *TradeLevels `json:"levels,omitempty"`
}

// SignalSnapshot is one completed run's output, as served by the API.
type SignalSnapshot struct {
	GeneratedAt string      `json:"generated_at"`
	Buys        []SignalRow `json:"buys"`
	Sells       []SignalRow `json:"sells"`
}
