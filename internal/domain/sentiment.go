package domain

// SentimentLabel is the discrete market-sentiment bucket.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "BULLISH"
	SentimentBearish SentimentLabel = "BEARISH"
	SentimentNeutral SentimentLabel = "NEUTRAL"
)

// PriceMomentum carries externally supplied price change inputs.
type PriceMomentum struct {
	Change24h float64 // percent
	Change7d  float64 // percent
}

// SentimentComponents is the per-source breakdown of a blended score.
// Every component is independently reproducible from the same inputs.
type SentimentComponents struct {
	WhaleBias     float64 `json:"whale_bias"`
	WhaleNetFlow  float64 `json:"whale_net_flow"`
	WhaleMomentum float64 `json:"whale_momentum"`
	PriceMomentum float64 `json:"price_momentum"`
	NewsSentiment float64 `json:"news_sentiment"`
}

// SentimentCounts carries the raw counts behind a sentiment result.
type SentimentCounts struct {
	Buys       int     `json:"buys"`
	Sells      int     `json:"sells"`
	Excluded   int     `json:"excluded"` // transactions not counting toward signal
	NewsItems  int     `json:"news_items"`
	NetFlowUSD float64 `json:"net_flow_usd"`
}

// SentimentResult is the normalized, explainable blend of whale, price and
// news signals. Never mutated after creation.
type SentimentResult struct {
	Label      SentimentLabel      `json:"label"`
	Score      float64             `json:"score"` // [-1,1], 3-decimal precision
	Components SentimentComponents `json:"components"`
	Counts     SentimentCounts     `json:"counts"`
}
