// Package tokenscore blends sentiment, social, price, whale and activity
// inputs into a 0-100 composite score with a discrete recommendation label.
package tokenscore

import (
	"math"

	"whale-intel/internal/domain"
)

// Input carries the score components. Optional pointers contribute zero when
// absent; missing data is never an error.
type Input struct {
	SentimentScore      float64  // [-1,1]
	SentimentConfidence float64  // [0,1]
	GalaxyScore         *float64 // social engagement 0-100
	SocialSentimentPct  *float64 // social sentiment percentage 0-100
	Change24h           float64  // percent
	Change7d            float64  // percent
	WhaleNetFlowUSD     float64
	WhaleVolumeUSD      float64
	VolumeToMarketCap   *float64 // 24h volume / market cap
	DevActivity         int      // commits/contributor events
}

const baseline = 50.0

// Compute returns the composite token score. The result is a pure function of
// the input, clamped to [0,100] and rounded to the nearest integer.
func Compute(in Input) domain.TokenScore {
	score := baseline

	// Sentiment: score scaled to ±15, confidence deviation from the 0.5
	// midpoint adds up to ±5.
	score += in.SentimentScore * 15
	score += (in.SentimentConfidence - 0.5) * 10

	// Social metrics: deviation from the 50 midpoint, ±10 each at the extremes.
	if in.GalaxyScore != nil {
		score += (*in.GalaxyScore - 50) / 5
	}
	if in.SocialSentimentPct != nil {
		score += (*in.SocialSentimentPct - 50) / 5
	}

	// Price momentum: 24h reacts twice as fast as 7d.
	score += math.Tanh(in.Change24h/10) * 10
	score += math.Tanh(in.Change7d/20) * 10

	// Whale conviction: saturates at $1M absolute net flow.
	if in.WhaleNetFlowUSD != 0 {
		magnitude := math.Min(1, math.Abs(in.WhaleNetFlowUSD)/1e6)
		if in.WhaleNetFlowUSD > 0 {
			score += magnitude * 10
		} else {
			score -= magnitude * 10
		}
	}

	// Volume activity relative to market cap, centered on a 5% ratio.
	if in.VolumeToMarketCap != nil {
		score += math.Tanh((*in.VolumeToMarketCap-0.05)/0.05) * 5
	}

	score += devActivityBonus(in.DevActivity)

	value := int(math.Round(clamp(score, 0, 100)))
	return domain.TokenScore{Value: value, Label: labelFor(value)}
}

// devActivityBonus is a step bonus at the 100/50/10 thresholds.
func devActivityBonus(activity int) float64 {
	switch {
	case activity >= 100:
		return 5
	case activity >= 50:
		return 3
	case activity >= 10:
		return 1
	default:
		return 0
	}
}

// labelFor maps a clamped score onto the fixed 7-bucket ordinal scale.
// Buckets are monotonic and non-overlapping.
func labelFor(value int) domain.ScoreLabel {
	switch {
	case value < 20:
		return domain.ScoreStrongSell
	case value < 35:
		return domain.ScoreSell
	case value < 45:
		return domain.ScoreWeakSell
	case value < 55:
		return domain.ScoreNeutral
	case value < 65:
		return domain.ScoreWeakBuy
	case value < 80:
		return domain.ScoreBuy
	default:
		return domain.ScoreStrongBuy
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
