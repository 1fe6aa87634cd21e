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
	"whale-intel/internal/entity"
	"whale-intel/internal/observability"
	"whale-intel/internal/storage"
	"whale-intel/internal/whale"
)

// WhaleHandler serves whale leaderboard and per-address activity endpoints.
type WhaleHandler struct {
	agg      *whale.Aggregator
	resolver *entity.Resolver
	txStore  storage.TransactionStore
	cache    cache.ResponseCache
	cacheTTL time.Duration
	logger   *log.Logger
}

// NewWhaleHandler creates a WhaleHandler.
func NewWhaleHandler(agg *whale.Aggregator, resolver *entity.Resolver, txStore storage.TransactionStore, respCache cache.ResponseCache, cacheTTL time.Duration, logger *log.Logger) *WhaleHandler {
	return &WhaleHandler{
		agg:      agg,
		resolver: resolver,
		txStore:  txStore,
		cache:    respCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Leaderboard returns whale aggregates ranked by absolute net flow. Rows
// optionally collapse to one per resolved entity with group_by=entity.
// GET /api/whales/leaderboard?start=&end=&limit=&group_by=entity
func (h *WhaleHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	start, end := parseTimeRange(r)
	limit := parseLimit(r, 50, 500)
	groupBy := r.URL.Query().Get("group_by")

	key := cache.Key("leaderboard",
		strconv.FormatInt(start, 10), strconv.FormatInt(end, 10),
		strconv.Itoa(limit), groupBy)
	if payload, ok := h.cached(r, "leaderboard", key); ok {
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	// Fetch more rows than requested when grouping, since merging by entity
	// shrinks the list after ranking.
	fetchLimit := limit
	if groupBy == "entity" {
		fetchLimit = 0
	}

	aggs, err := h.agg.Leaderboard(r.Context(), start, end, fetchLimit)
	if err != nil {
		h.logger.Printf("leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute leaderboard")
		return
	}

	if err := h.resolver.Enrich(r.Context(), aggs); err != nil {
		h.logger.Printf("leaderboard enrich: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve entities")
		return
	}

	if groupBy == "entity" {
		aggs = entity.GroupByEntity(aggs)
		entity.SortLeaderboard(aggs)
		if limit > 0 && len(aggs) > limit {
			aggs = aggs[:limit]
		}
	}

	h.respond(w, r, "leaderboard", key, map[string]any{
		"start":  start,
		"end":    end,
		"whales": aggs,
	})
}

// Entities returns the leaderboard collapsed by entity and ordered for
// directory-style listings: famous entities first, then by name.
// GET /api/whales/entities?start=&end=
func (h *WhaleHandler) Entities(w http.ResponseWriter, r *http.Request) {
	start, end := parseTimeRange(r)

	key := cache.Key("entities",
		strconv.FormatInt(start, 10), strconv.FormatInt(end, 10))
	if payload, ok := h.cached(r, "entities", key); ok {
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	aggs, err := h.agg.Leaderboard(r.Context(), start, end, 0)
	if err != nil {
		h.logger.Printf("entities: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute entity view")
		return
	}

	if err := h.resolver.Enrich(r.Context(), aggs); err != nil {
		h.logger.Printf("entities enrich: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve entities")
		return
	}

	grouped := entity.GroupByEntity(aggs)
	entity.SortEntityView(grouped)

	h.respond(w, r, "entities", key, map[string]any{
		"start":    start,
		"end":      end,
		"entities": grouped,
	})
}

// Activity returns the aggregate and classified transactions for one address,
// each transaction labeled from the address's own perspective.
// GET /api/whales/{address}/activity?start=&end=
func (h *WhaleHandler) Activity(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	start, end := parseTimeRange(r)

	agg, err := h.agg.AggregateAddress(r.Context(), address, start, end)
	if err != nil {
		h.logger.Printf("activity %s: %v", address, err)
		writeError(w, http.StatusInternalServerError, "failed to aggregate address")
		return
	}

	if agg != nil {
		if err := h.resolver.Enrich(r.Context(), []*domain.WhaleAggregate{agg}); err != nil {
			h.logger.Printf("activity enrich %s: %v", address, err)
			writeError(w, http.StatusInternalServerError, "failed to resolve entity")
			return
		}
	}

	txs, err := h.txStore.GetByAddress(r.Context(), address, start, end)
	if err != nil {
		h.logger.Printf("activity transactions %s: %v", address, err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address":      address,
		"start":        start,
		"end":          end,
		"aggregate":    agg,
		"transactions": classify.ClassifyBatch(txs, address),
	})
}

// cached checks the response cache for key, recording hit/miss metrics.
func (h *WhaleHandler) cached(r *http.Request, shape, key string) ([]byte, bool) {
	payload, hit, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.logger.Printf("cache get %s: %v", key, err)
		return nil, false
	}
	observability.RecordCacheLookup(shape, hit)
	return payload, hit
}

// respond marshals and writes the body, storing it in the response cache.
func (h *WhaleHandler) respond(w http.ResponseWriter, r *http.Request, shape, key string, body map[string]any) {
	data, err := json.Marshal(body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	if err := h.cache.Set(r.Context(), key, data, h.cacheTTL); err != nil {
		h.logger.Printf("cache set %s: %v", key, err)
	}
	writeRawJSON(w, http.StatusOK, data)
}
