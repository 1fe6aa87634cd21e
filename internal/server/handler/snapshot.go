package handler

import (
	"errors"
	"log"
	"net/http"

	"whale-intel/internal/storage"
)

// SnapshotHandler serves persisted hourly sentiment snapshots.
type SnapshotHandler struct {
	snapshotStore storage.SentimentSnapshotStore
	logger        *log.Logger
}

// NewSnapshotHandler creates a SnapshotHandler.
func NewSnapshotHandler(snapshotStore storage.SentimentSnapshotStore, logger *log.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotStore: snapshotStore,
		logger:        logger,
	}
}

// ListSnapshots returns the snapshots for a ticker within a time range.
// GET /api/tokens/{symbol}/snapshots?start=&end=
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	start, end := parseTimeRange(r)

	snaps, err := h.snapshotStore.GetByTicker(r.Context(), symbol, start, end)
	if err != nil {
		h.logger.Printf("snapshots %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshots")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":    symbol,
		"start":     start,
		"end":       end,
		"snapshots": snaps,
	})
}

// LatestSnapshot returns the most recent snapshot for a ticker.
// GET /api/tokens/{symbol}/snapshots/latest
func (h *SnapshotHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	snap, err := h.snapshotStore.GetLatest(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshot for ticker")
			return
		}
		h.logger.Printf("latest snapshot %s: %v", symbol, err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
