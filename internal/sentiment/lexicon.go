package sentiment

import "strings"

// Fixed keyword lexicon for naive headline polarity. Matching is
// case-insensitive substring counting; multi-word phrases are allowed.
var (
	bullishKeywords = []string{
		"surge", "rally", "soar", "breakout", "bullish", "adoption",
		"partnership", "upgrade", "approval", "record high", "all-time high",
		"accumulation", "institutional", "buyback", "listing",
	}

	bearishKeywords = []string{
		"crash", "plunge", "dump", "selloff", "sell-off", "bearish", "hack",
		"exploit", "lawsuit", "ban", "fraud", "scam", "liquidation",
		"delisting", "insolvency",
	}
)

// headlinePolarity returns the signed keyword hit count for one headline:
// bullish occurrences minus bearish occurrences.
func headlinePolarity(headline string) int {
	lower := strings.ToLower(headline)
	score := 0
	for _, kw := range bullishKeywords {
		score += strings.Count(lower, kw)
	}
	for _, kw := range bearishKeywords {
		score -= strings.Count(lower, kw)
	}
	return score
}
