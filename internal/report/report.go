package report

import (
	"fmt"
	"strings"
	"time"

	"crypto-meanrev/config"
	"crypto-meanrev/internal/dto"
	"crypto-meanrev/internal/indicator"
)

// Build renders the daily Markdown summary for the ranked candidates.
func Build(cfg *config.Config, now time.Time, buys, sells []dto.SignalRow) string {
	parts := []string{
		header(cfg, now),
		sectionTable("🟩 Buy candidates *(oversold, possible reversion to the mean)*", buys),
		sectionTable("🟥 Sell / Trim candidates *(overbought, possible correction risk)*", sells),
		buyLevels(buys),
		summaryLine(cfg, buys, sells),
	}
	return strings.Join(parts, "\n\n")
}

// BuildSkipNotice renders the short degraded-mode notice sent when market
// data could not be fetched.
func BuildSkipNotice(reason string, err error) string {
	return fmt.Sprintf("Mean-Revert: Skipped run (%s): %v", reason, err)
}

func header(cfg *config.Config, now time.Time) string {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	city := cfg.Report.Timezone
	if idx := strings.LastIndex(city, "/"); idx >= 0 {
		city = city[idx+1:]
	}
	return fmt.Sprintf("## 🧠 Mean-Revert Rebalance — Daily Summary\n🕓 %s | ⏰ %s %s\n\n---",
		local.Format("2006-01-02"), local.Format("15:04"), city)
}

func sectionTable(title string, rows []dto.SignalRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("\n### %s\nNo candidates under the current filters and thresholds.\n", title)
	}
	lines := []string{
		fmt.Sprintf("### %s", title),
		"| Coin | Z | 3d % | 7d % | Signal |",
		"|:-----|:--:|:----:|:----:|:-------|",
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("| **%s** | %s %s | %s | %s | %s |",
			r.Symbol, FmtZ(r.ZScore), r.Arrow, FmtPct(r.Change3d), FmtPct(r.Change7d), r.Verdict))
	}
	return strings.Join(lines, "\n")
}

func buyLevels(rows []dto.SignalRow) string {
	var keep []dto.SignalRow
	for _, r := range rows {
		if r.Levels != nil {
			keep = append(keep, r)
		}
	}
	if len(keep) == 0 {
		return ""
	}
	lines := []string{
		"\n**🎯 Trade levels (buy candidates only)**",
		"> Levels from daily data; prices < $1 → 4 decimals, otherwise → 2.",
	}
	for _, r := range keep {
		split := ""
		if r.Levels.SplitEntry {
			split = " · _Consider splitting the entry into 2–3 parts_"
		}
		lines = append(lines, fmt.Sprintf(
			"- **%s** — `E` %s *(Eₗ: %s)* · `SL` %s · `TP1` %s · `TP2` %s%s",
			r.Symbol,
			FmtPrice(r.Levels.Entry),
			FmtPrice(r.Levels.BetterEntry),
			FmtPrice(r.Levels.StopLoss),
			FmtPrice(r.Levels.Target1),
			FmtPrice(r.Levels.Target2),
			split,
		))
	}
	return strings.Join(lines, "\n")
}

func summaryLine(cfg *config.Config, buys, sells []dto.SignalRow) string {
	return fmt.Sprintf("\n📊 **Summary:**\n👉 **Today's view:** *Buy zones:* %s; *Sell zones:* %s.\n"+
		"*Mean-revert view — not financial advice. Data: CoinGecko; Z = %dd window; MA(%d/%d).*",
		symbolList(buys), symbolList(sells),
		cfg.Indicators.ZScoreWindow, cfg.Indicators.MAShort, cfg.Indicators.MABase)
}

func symbolList(rows []dto.SignalRow) string {
	if len(rows) == 0 {
		return "—"
	}
	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		symbols = append(symbols, r.Symbol)
	}
	return strings.Join(symbols, ", ")
}

// FmtPct renders an optional percentage as "+1.2 %" or an em dash.
func FmtPct(v indicator.Value) string {
	if !v.Valid {
		return "—"
	}
	return fmt.Sprintf("%+.1f %%", v.V)
}

// FmtZ renders an optional z-score with two decimals.
func FmtZ(v indicator.Value) string {
	if !v.Valid {
		return "—"
	}
	return fmt.Sprintf("%+.2f", v.V)
}

// FmtPrice renders a USD price, four decimals under a dollar.
func FmtPrice(value float64) string {
	if value < 1 {
		return fmt.Sprintf("$%.4f", value)
	}
	return fmt.Sprintf("$%.2f", value)
}
