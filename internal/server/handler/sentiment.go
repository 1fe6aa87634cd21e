package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"whale-intel/internal/cache"
	"whale-intel/internal/classify"
	"whale-intel/internal/domain"
	"whale-intel/internal/observability"
	"whale-intel/internal/sentiment"
	"whale-intel/internal/storage"
)

// SentimentHandler serves on-demand sentiment blends for one token symbol.
type SentimentHandler struct {
	txStore   storage.TransactionStore
	newsStore storage.NewsItemStore
	blender   *sentiment.Blender
	cache     cache.ResponseCache
	cacheTTL  time.Duration
	logger    *log.Logger
}

// NewSentimentHandler creates a SentimentHandler.
func NewSentimentHandler(txStore storage.TransactionStore, newsStore storage.NewsItemStore, blender *sentiment.Blender, respCache cache.ResponseCache, cacheTTL time.Duration, logger *log.Logger) *SentimentHandler {
	return &SentimentHandler{
		txStore:   txStore,
		newsStore: newsStore,
		blender:   blender,
		cache:     respCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// GetSentiment blends whale flow, optional price momentum and news for the
// symbol over the requested window. Price changes come from the caller since
// the engine does not track quotes itself.
// GET /api/tokens/{symbol}/sentiment?start=&end=&change_24h=&change_7d=
func (h *SentimentHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	start, end := parseTimeRange(r)

	change24h := floatParam(r, "change_24h")
	change7d := floatParam(r, "change_7d")

	key := sentimentCacheKey(symbol, start, end, change24h, change7d)
	if payload, hit, err := h.cache.Get(r.Context(), key); err == nil {
		observability.RecordCacheLookup("sentiment", hit)
		if hit {
			writeRawJSON(w, http.StatusOK, payload)
			return
		}
	} else {
		h.logger.Printf("cache get %s: %v", key, err)
	}

	in, err := h.buildInput(r, symbol, start, end, change24h, change7d)
	if err != nil {
		h.logger.Printf("sentiment %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to load sentiment inputs")
		return
	}

	result := h.blender.Blend(*in)

	data, err := json.Marshal(map[string]any{
		"symbol":    symbol,
		"start":     start,
		"end":       end,
		"sentiment": result,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	if err := h.cache.Set(r.Context(), key, data, h.cacheTTL); err != nil {
		h.logger.Printf("cache set %s: %v", key, err)
	}
	writeRawJSON(w, http.StatusOK, data)
}

// buildInput loads and classifies the blend inputs for one symbol window.
func (h *SentimentHandler) buildInput(r *http.Request, symbol string, start, end int64, change24h, change7d *float64) (*sentiment.Input, error) {
	txs, err := h.txStore.GetBySymbol(r.Context(), symbol, start, end)
	if err != nil {
		return nil, err
	}

	// Each transaction is read from its own whale's perspective.
	classified := make([]domain.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		classified = append(classified, classify.Classify(tx, tx.WhaleAddress))
	}

	news, err := h.newsStore.GetByTicker(r.Context(), symbol, start, end)
	if err != nil {
		return nil, err
	}

	in := &sentiment.Input{
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
		in.Price = price
	}
	return in, nil
}

func sentimentCacheKey(symbol string, start, end int64, change24h, change7d *float64) string {
	fmtFloat := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return cache.Key("sentiment", symbol,
		strconv.FormatInt(start, 10), strconv.FormatInt(end, 10),
		fmtFloat(change24h), fmtFloat(change7d))
}
