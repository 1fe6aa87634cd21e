package memory

import (
	"context"
	"sort"
	"sync"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by blockchain|hash
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

func txKey(blockchain, hash string) string {
	return blockchain + "|" + hash
}

// Insert adds a new transaction. Returns ErrDuplicateKey if (blockchain, hash) exists.
func (s *TransactionStore) Insert(_ context.Context, t *domain.Transaction) error {
	if t == nil || t.Hash == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := txKey(t.Blockchain, t.Hash)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	txCopy := *t
	s.data[key] = &txCopy
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(txs))
	for _, t := range txs {
		if t == nil || t.Hash == "" {
			return storage.ErrInvalidInput
		}
		key := txKey(t.Blockchain, t.Hash)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, t := range txs {
		txCopy := *t
		s.data[txKey(t.Blockchain, t.Hash)] = &txCopy
	}
	return nil
}

// GetByTimeRange retrieves transactions within [start, end] inclusive.
func (s *TransactionStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t *domain.Transaction) bool {
		return t.Timestamp >= start && t.Timestamp <= end
	}), nil
}

// GetByAddress retrieves transactions touching the address within [start, end].
func (s *TransactionStore) GetByAddress(_ context.Context, address string, start, end int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t *domain.Transaction) bool {
		if t.Timestamp < start || t.Timestamp > end {
			return false
		}
		return t.FromAddress == address || t.ToAddress == address || t.WhaleAddress == address
	}), nil
}

// GetBySymbol retrieves transactions for a token symbol within [start, end].
func (s *TransactionStore) GetBySymbol(_ context.Context, symbol string, start, end int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(t *domain.Transaction) bool {
		return t.TokenSymbol == symbol && t.Timestamp >= start && t.Timestamp <= end
	}), nil
}

// filter returns copies of matching transactions sorted by timestamp ASC, hash ASC.
func (s *TransactionStore) filter(match func(*domain.Transaction) bool) []*domain.Transaction {
	var result []*domain.Transaction
	for _, t := range s.data {
		if match(t) {
			txCopy := *t
			result = append(result, &txCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].Hash < result[j].Hash
	})
	return result
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
