package dto

// Stablecoins excluded from the universe when the exclusion toggle is on.
// Keyed by CoinGecko id.
var Stablecoins = map[string]struct{}{
	"tether":            {},
	"usd-coin":          {},
	"binance-usd":       {},
	"dai":               {},
	"true-usd":          {},
	"usdd":              {},
	"frax":              {},
	"paxos-standard":    {},
	"first-digital-usd": {},
	"gemini-dollar":     {},
	"paypal-usd":        {},
	"lusd":              {},
	"usdx":              {},
	"musd":              {},
	"susd":              {},
	"fei-usd":           {},
	"liquity-usd":       {},
}
