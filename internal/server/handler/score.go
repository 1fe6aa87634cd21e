package handler

import (
	"log"
	"math"
	"net/http"

	"whale-intel/internal/classify"
	"whale-intel/internal/domain"
	"whale-intel/internal/sentiment"
	"whale-intel/internal/storage"
	"whale-intel/internal/tokenscore"
)

// ScoreHandler serves the composite 0-100 token score.
type ScoreHandler struct {
	txStore   storage.TransactionStore
	newsStore storage.NewsItemStore
	blender   *sentiment.Blender
	logger    *log.Logger
}

// NewScoreHandler creates a ScoreHandler.
func NewScoreHandler(txStore storage.TransactionStore, newsStore storage.NewsItemStore, blender *sentiment.Blender, logger *log.Logger) *ScoreHandler {
	return &ScoreHandler{
		txStore:   txStore,
		newsStore: newsStore,
		blender:   blender,
		logger:    logger,
	}
}

// GetScore blends the symbol's stored whale and news data with caller-supplied
// social/price/activity metrics into the composite score.
// GET /api/tokens/{symbol}/score?start=&end=&change_24h=&change_7d=
//
//	&galaxy_score=&social_pct=&volume_to_mcap=&dev_activity=
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	start, end := parseTimeRange(r)

	txs, err := h.txStore.GetBySymbol(r.Context(), symbol, start, end)
	if err != nil {
		h.logger.Printf("score transactions %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	classified := make([]domain.ClassifiedTransaction, 0, len(txs))
	var whaleVolume float64
	for _, tx := range txs {
		c := classify.Classify(tx, tx.WhaleAddress)
		classified = append(classified, c)
		if c.CountsTowardSignal {
			whaleVolume += tx.USDValue
		}
	}

	news, err := h.newsStore.GetByTicker(r.Context(), symbol, start, end)
	if err != nil {
		h.logger.Printf("score news %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to load news")
		return
	}

	change24h := floatParam(r, "change_24h")
	change7d := floatParam(r, "change_7d")

	blendIn := sentiment.Input{
		Transactions: classified,
		News:         news,
	}
	if change24h != nil || change7d != nil {
		price := &domain.PriceMomentum{}
		if change24h != nil {
			price.Change24h = *change24h
		}
		if change7d != nil {
			price.Change7d = *change7d
		}
		blendIn.Price = price
	}
	blend := h.blender.Blend(blendIn)

	in := tokenscore.Input{
		SentimentScore:      blend.Score,
		SentimentConfidence: sentimentConfidence(blend.Counts),
		GalaxyScore:         floatParam(r, "galaxy_score"),
		SocialSentimentPct:  floatParam(r, "social_pct"),
		WhaleNetFlowUSD:     blend.Counts.NetFlowUSD,
		WhaleVolumeUSD:      whaleVolume,
		VolumeToMarketCap:   floatParam(r, "volume_to_mcap"),
		DevActivity:         intParam(r, "dev_activity", 0),
	}
	if change24h != nil {
		in.Change24h = *change24h
	}
	if change7d != nil {
		in.Change7d = *change7d
	}

	score := tokenscore.Compute(in)

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":    symbol,
		"start":     start,
		"end":       end,
		"score":     score,
		"sentiment": blend,
	})
}

// sentimentConfidence grows with the qualifying trade count, saturating at 10.
func sentimentConfidence(counts domain.SentimentCounts) float64 {
	return math.Min(1, float64(counts.Buys+counts.Sells)/10)
}
