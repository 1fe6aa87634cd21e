// Package sentiment blends whale flow, price momentum and news polarity into
// one normalized, explainable market signal.
package sentiment

import (
	"math"
	"sort"

	"whale-intel/internal/domain"
)

// Source weights and label thresholds. Kept as configuration with fixed
// defaults rather than re-derived; see Config.
const (
	defaultWhaleBiasWeight     = 0.30
	defaultWhaleNetFlowWeight  = 0.25
	defaultWhaleMomentumWeight = 0.15
	defaultPriceWeight         = 0.20
	defaultNewsWeight          = 0.10

	defaultBullishThreshold = 0.15
	defaultBearishThreshold = -0.15

	// Median-based tanh scaling multipliers. The median keeps one outlier
	// transaction from saturating the signal.
	netFlowScaleMultiplier  = 20.0
	momentumScaleMultiplier = 10.0
)

// Config holds blend weights and label thresholds.
type Config struct {
	WhaleBiasWeight     float64
	WhaleNetFlowWeight  float64
	WhaleMomentumWeight float64
	PriceWeight         float64
	NewsWeight          float64

	BullishThreshold float64 // label is BULLISH when score > threshold (strict)
	BearishThreshold float64 // label is BEARISH when score < threshold (strict)
}

// DefaultConfig returns the standard weights (0.30/0.25/0.15/0.20/0.10) and
// thresholds (±0.15).
func DefaultConfig() Config {
	return Config{
		WhaleBiasWeight:     defaultWhaleBiasWeight,
		WhaleNetFlowWeight:  defaultWhaleNetFlowWeight,
		WhaleMomentumWeight: defaultWhaleMomentumWeight,
		PriceWeight:         defaultPriceWeight,
		NewsWeight:          defaultNewsWeight,
		BullishThreshold:    defaultBullishThreshold,
		BearishThreshold:    defaultBearishThreshold,
	}
}

// Input is one blend request. Price and News are optional: absent sources
// contribute nothing and their weight shifts onto the whale terms.
type Input struct {
	Transactions []domain.ClassifiedTransaction
	Price        *domain.PriceMomentum
	News         []*domain.NewsItem
}

// Blender produces sentiment results. Stateless: safe for concurrent use.
type Blender struct {
	cfg Config
}

// NewBlender creates a Blender with the given config.
func NewBlender(cfg Config) *Blender {
	return &Blender{cfg: cfg}
}

// Blend computes the weighted sentiment score and label for one input batch.
// Every output number is reproducible from the same inputs.
func (b *Blender) Blend(in Input) *domain.SentimentResult {
	comp, counts := b.whaleTerms(in.Transactions)

	havePrice := in.Price != nil
	if havePrice {
		comp.PriceMomentum = priceStrength(in.Price)
	}

	haveNews := len(in.News) > 0
	if haveNews {
		comp.NewsSentiment = newsSentiment(in.News)
		counts.NewsItems = len(in.News)
	}

	// Redistribute inactive source weight evenly across the three whale
	// terms so active weights always sum to 1.0. Whale data is the
	// load-bearing signal when other sources are unavailable.
	wBias := b.cfg.WhaleBiasWeight
	wFlow := b.cfg.WhaleNetFlowWeight
	wMom := b.cfg.WhaleMomentumWeight
	shortfall := 0.0
	if !havePrice {
		shortfall += b.cfg.PriceWeight
	}
	if !haveNews {
		shortfall += b.cfg.NewsWeight
	}
	if shortfall > 0 {
		share := shortfall / 3
		wBias += share
		wFlow += share
		wMom += share
	}

	score := wBias*comp.WhaleBias +
		wFlow*comp.WhaleNetFlow +
		wMom*comp.WhaleMomentum
	if havePrice {
		score += b.cfg.PriceWeight * comp.PriceMomentum
	}
	if haveNews {
		score += b.cfg.NewsWeight * comp.NewsSentiment
	}

	return &domain.SentimentResult{
		Label:      b.label(score),
		Score:      round3(score),
		Components: comp,
		Counts:     counts,
	}
}

// label applies the strict cut points to the unrounded score.
func (b *Blender) label(score float64) domain.SentimentLabel {
	switch {
	case score > b.cfg.BullishThreshold:
		return domain.SentimentBullish
	case score < b.cfg.BearishThreshold:
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

// whaleTerms derives bias, net flow and momentum from the classified batch.
func (b *Blender) whaleTerms(txs []domain.ClassifiedTransaction) (domain.SentimentComponents, domain.SentimentCounts) {
	var comp domain.SentimentComponents
	var counts domain.SentimentCounts

	var netFlow float64
	var usdValues []float64
	var minTs, maxTs int64

	for _, c := range txs {
		if !c.CountsTowardSignal {
			counts.Excluded++
			continue
		}
		tx := c.Transaction
		switch c.Classification {
		case domain.ClassificationBuy:
			counts.Buys++
			netFlow += tx.USDValue
		case domain.ClassificationSell:
			counts.Sells++
			netFlow -= tx.USDValue
		default:
			counts.Excluded++
			continue
		}
		usdValues = append(usdValues, math.Abs(tx.USDValue))
		if minTs == 0 || tx.Timestamp < minTs {
			minTs = tx.Timestamp
		}
		if tx.Timestamp > maxTs {
			maxTs = tx.Timestamp
		}
	}
	counts.NetFlowUSD = netFlow

	// buyPct defaults to 50 with no trades: bias 0, not an error.
	buyPct := 50.0
	if total := counts.Buys + counts.Sells; total > 0 {
		buyPct = 100 * float64(counts.Buys) / float64(total)
	}
	comp.WhaleBias = (buyPct - 50) / 50

	med := median(usdValues)
	comp.WhaleNetFlow = math.Tanh(netFlow / scale(med, netFlowScaleMultiplier))

	// Momentum compares the most recent half-window's net flow to the
	// prior half-window's: acceleration, not absolute level.
	if len(usdValues) > 0 && maxTs > minTs {
		mid := minTs + (maxTs-minTs)/2
		var recentNet, priorNet float64
		for _, c := range txs {
			if !c.CountsTowardSignal {
				continue
			}
			signed := 0.0
			switch c.Classification {
			case domain.ClassificationBuy:
				signed = c.Transaction.USDValue
			case domain.ClassificationSell:
				signed = -c.Transaction.USDValue
			default:
				continue
			}
			if c.Transaction.Timestamp > mid {
				recentNet += signed
			} else {
				priorNet += signed
			}
		}
		comp.WhaleMomentum = math.Tanh((recentNet - priorNet) / scale(med, momentumScaleMultiplier))
	}

	return comp, counts
}

// priceStrength blends the 24h and 7d trends equally.
func priceStrength(p *domain.PriceMomentum) float64 {
	return (math.Tanh(p.Change24h/10) + math.Tanh(p.Change7d/10)) / 2
}

// newsSentiment sums signed keyword hits across the batch and normalizes by
// tanh(sum / max(count, 3)).
func newsSentiment(items []*domain.NewsItem) float64 {
	sum := 0
	for _, item := range items {
		sum += headlinePolarity(item.Headline)
	}
	denom := float64(len(items))
	if denom < 3 {
		denom = 3
	}
	return math.Tanh(float64(sum) / denom)
}

// scale returns max(1, median * multiplier).
func scale(median, multiplier float64) float64 {
	s := median * multiplier
	if s < 1 {
		return 1
	}
	return s
}

// median of values; 0 for an empty slice. Input order is irrelevant.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// round3 rounds to 3-decimal precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
