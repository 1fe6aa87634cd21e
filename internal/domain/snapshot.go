package domain

// SentimentSnapshot is the persisted hourly sentiment aggregate for a ticker.
// Corresponds to sentiment_scores table. Append-only: one row per ticker per
// hour bucket, duplicate inserts for the same hour are rejected by storage.
type SentimentSnapshot struct {
	Ticker               string  `json:"ticker"`
	Timestamp            int64   `json:"timestamp"` // hour bucket, Unix ms, UTC-truncated
	ProviderSentimentAvg float64 `json:"provider_sentiment_avg"`
	LLMSentimentAvg      float64 `json:"llm_sentiment_avg"`
	AggregatedScore      float64 `json:"aggregated_score"`
	NewsCount24h         int     `json:"news_count_24h"`
	PositiveCount        int     `json:"positive_count"`
	NegativeCount        int     `json:"negative_count"`
	NeutralCount         int     `json:"neutral_count"`
	Confidence           float64 `json:"confidence"` // [0,1]
}
