package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// SentimentSnapshotStore is an in-memory implementation of
// storage.SentimentSnapshotStore.
type SentimentSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SentimentSnapshot // keyed by ticker|timestamp
}

// NewSentimentSnapshotStore creates a new in-memory snapshot store.
func NewSentimentSnapshotStore() *SentimentSnapshotStore {
	return &SentimentSnapshotStore{
		data: make(map[string]*domain.SentimentSnapshot),
	}
}

func snapshotKey(ticker string, timestamp int64) string {
	return fmt.Sprintf("%s|%d", ticker, timestamp)
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if (ticker, timestamp) exists.
func (s *SentimentSnapshotStore) Insert(_ context.Context, snap *domain.SentimentSnapshot) error {
	if snap == nil || snap.Ticker == "" || snap.Timestamp == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := snapshotKey(snap.Ticker, snap.Timestamp)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	snapCopy := *snap
	s.data[key] = &snapCopy
	return nil
}

// GetByTicker retrieves snapshots for a ticker within [start, end].
func (s *SentimentSnapshotStore) GetByTicker(_ context.Context, ticker string, start, end int64) ([]*domain.SentimentSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SentimentSnapshot
	for _, snap := range s.data {
		if snap.Ticker == ticker && snap.Timestamp >= start && snap.Timestamp <= end {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result, nil
}

// GetLatest retrieves the most recent snapshot for a ticker.
func (s *SentimentSnapshotStore) GetLatest(_ context.Context, ticker string) (*domain.SentimentSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.SentimentSnapshot
	for _, snap := range s.data {
		if snap.Ticker != ticker {
			continue
		}
		if latest == nil || snap.Timestamp > latest.Timestamp {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	snapCopy := *latest
	return &snapCopy, nil
}

var _ storage.SentimentSnapshotStore = (*SentimentSnapshotStore)(nil)
