package domain

// WhaleAggregate is the rolled-up trading activity of one address over a
// window. Pure aggregation result: recomputed fresh on each request.
type WhaleAggregate struct {
	Address       string   `json:"address"`
	BuyCount      int      `json:"buy_count"`
	SellCount     int      `json:"sell_count"`
	BuyVolumeUSD  float64  `json:"buy_volume_usd"`
	SellVolumeUSD float64  `json:"sell_volume_usd"`
	NetFlowUSD    float64  `json:"net_flow_usd"`   // buy volume minus sell volume
	BuySellRatio  float64  `json:"buy_sell_ratio"` // buys/(buys+sells), 0.5 with no trades
	Tokens        []string `json:"tokens"`         // distinct tokens traded, sorted
	WhaleScore    float64  `json:"whale_score"`    // max score observed in the window
	LastSeen      int64    `json:"last_seen"`      // most recent transaction timestamp (ms)

	// Display enrichment, attached by the entity resolver. Optional.
	EntityName string `json:"entity_name,omitempty"`
	Label      string `json:"label,omitempty"`
	Category   string `json:"category,omitempty"`
	IsFamous   bool   `json:"is_famous,omitempty"`
}

// BuySellRatio returns buys/(buys+sells), or 0.5 when there are no trades.
// Aggregation recomputes it whenever counts change, e.g. on entity merges.
func BuySellRatio(buys, sells int) float64 {
	total := buys + sells
	if total == 0 {
		return 0.5
	}
	return float64(buys) / float64(total)
}
