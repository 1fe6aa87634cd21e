package whale

import (
	"sort"

	"whale-intel/internal/classify"
	"whale-intel/internal/domain"
)

// computeFromTransactions folds classified activity for one address into a
// WhaleAggregate. Only transactions that count toward signal math and carry a
// known token symbol enter the tallies. Returns nil when the address has zero
// qualifying transactions: such addresses are omitted entirely, never emitted
// with zero counts.
func computeFromTransactions(txs []*domain.Transaction, target string) *domain.WhaleAggregate {
	agg := &domain.WhaleAggregate{Address: target}
	tokens := make(map[string]struct{})
	qualifying := 0

	for _, c := range classify.ClassifyBatch(txs, target) {
		if !c.CountsTowardSignal || !c.Transaction.HasKnownToken() {
			continue
		}
		tx := c.Transaction
		qualifying++

		switch c.Classification {
		case domain.ClassificationBuy:
			agg.BuyCount++
			agg.BuyVolumeUSD += tx.USDValue
		case domain.ClassificationSell:
			agg.SellCount++
			agg.SellVolumeUSD += tx.USDValue
		}

		tokens[tx.TokenSymbol] = struct{}{}
		if tx.WhaleScore > agg.WhaleScore {
			agg.WhaleScore = tx.WhaleScore
		}
		if tx.Timestamp > agg.LastSeen {
			agg.LastSeen = tx.Timestamp
		}
	}

	if qualifying == 0 {
		return nil
	}

	agg.NetFlowUSD = agg.BuyVolumeUSD - agg.SellVolumeUSD
	agg.BuySellRatio = domain.BuySellRatio(agg.BuyCount, agg.SellCount)
	agg.Tokens = sortedTokens(tokens)
	return agg
}

// sortedTokens flattens the distinct token set deterministically.
func sortedTokens(set map[string]struct{}) []string {
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// sortByNetFlow orders aggregates by descending |netFlowUSD|, ties broken by
// address string ordering for deterministic leaderboards.
func sortByNetFlow(aggs []*domain.WhaleAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		fi, fj := abs(aggs[i].NetFlowUSD), abs(aggs[j].NetFlowUSD)
		if fi != fj {
			return fi > fj
		}
		return aggs[i].Address < aggs[j].Address
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
