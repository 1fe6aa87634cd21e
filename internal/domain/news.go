package domain

// NewsItem is a raw news/social row as persisted by the ingestion
// collaborator. Corresponds to news_items table in PostgreSQL.
type NewsItem struct {
	ID           int64    // BIGSERIAL primary key
	Ticker       string   // token symbol the item is about
	Headline     string   // item title, used for keyword sentiment
	SentimentRaw *float64 // provider-supplied score in [-1,1], nullable
	SentimentLLM *float64 // LLM-derived score in [-1,1], nullable
	FetchedAt    int64    // Unix timestamp in milliseconds
}
