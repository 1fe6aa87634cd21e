package memory

import (
	"context"
	"sort"
	"sync"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// NewsItemStore is an in-memory implementation of storage.NewsItemStore.
type NewsItemStore struct {
	mu     sync.RWMutex
	data   []*domain.NewsItem
	nextID int64
}

// NewNewsItemStore creates a new in-memory news item store.
func NewNewsItemStore() *NewsItemStore {
	return &NewsItemStore{nextID: 1}
}

// Insert adds a new news item, assigning a sequential ID.
func (s *NewsItemStore) Insert(_ context.Context, n *domain.NewsItem) error {
	if n == nil || n.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	itemCopy := *n
	itemCopy.ID = s.nextID
	s.nextID++
	s.data = append(s.data, &itemCopy)
	return nil
}

// GetByTicker retrieves items for a ticker fetched within [start, end].
func (s *NewsItemStore) GetByTicker(_ context.Context, ticker string, start, end int64) ([]*domain.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(n *domain.NewsItem) bool {
		return n.Ticker == ticker && n.FetchedAt >= start && n.FetchedAt <= end
	}), nil
}

// GetByTimeRange retrieves all items fetched within [start, end].
func (s *NewsItemStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.NewsItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(n *domain.NewsItem) bool {
		return n.FetchedAt >= start && n.FetchedAt <= end
	}), nil
}

// filter returns copies of matching items sorted by fetched_at ASC, id ASC.
func (s *NewsItemStore) filter(match func(*domain.NewsItem) bool) []*domain.NewsItem {
	var result []*domain.NewsItem
	for _, n := range s.data {
		if match(n) {
			itemCopy := *n
			result = append(result, &itemCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FetchedAt != result[j].FetchedAt {
			return result[i].FetchedAt < result[j].FetchedAt
		}
		return result[i].ID < result[j].ID
	})
	return result
}

var _ storage.NewsItemStore = (*NewsItemStore)(nil)
