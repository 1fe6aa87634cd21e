package handler

import (
	"net/http"
	"sync"
	"time"
)

// StatusHandler reports process-level runtime information, including the
// outcome of the most recent aggregation run.
type StatusHandler struct {
	storage   string
	startedAt time.Time

	mu      sync.RWMutex
	lastRun *RunSummary
}

// RunSummary is the slice of an aggregation run surfaced over the API.
type RunSummary struct {
	RunID             string `json:"run_id"`
	HourBucket        int64  `json:"hour_bucket"`
	TickersProcessed  int    `json:"tickers_processed"`
	SnapshotsInserted int    `json:"snapshots_inserted"`
	DuplicatesSkipped int    `json:"duplicates_skipped"`
	ErrorCount        int    `json:"error_count"`
	CompletedAt       int64  `json:"completed_at"`
}

// NewStatusHandler creates a StatusHandler for the given storage backend name.
func NewStatusHandler(storage string) *StatusHandler {
	return &StatusHandler{
		storage:   storage,
		startedAt: time.Now().UTC(),
	}
}

// RecordRun stores the latest aggregation run summary. Safe for concurrent use.
func (h *StatusHandler) RecordRun(summary RunSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &summary
}

// GetStatus reports uptime, backend and the last aggregation run.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	lastRun := h.lastRun
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"storage":        h.storage,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"last_run":       lastRun,
	})
}
