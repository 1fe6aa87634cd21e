package memory

import (
	"context"
	"sync"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// AddressEntityStore is an in-memory implementation of storage.AddressEntityStore.
type AddressEntityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AddressEntity
}

// NewAddressEntityStore creates a new in-memory address entity store.
func NewAddressEntityStore() *AddressEntityStore {
	return &AddressEntityStore{
		data: make(map[string]*domain.AddressEntity),
	}
}

// Insert adds a new entity row. Returns ErrDuplicateKey if address exists.
func (s *AddressEntityStore) Insert(_ context.Context, e *domain.AddressEntity) error {
	if e == nil || e.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.Address]; exists {
		return storage.ErrDuplicateKey
	}

	entityCopy := *e
	s.data[e.Address] = &entityCopy
	return nil
}

// GetByAddress retrieves one entity. Returns ErrNotFound if not exists.
func (s *AddressEntityStore) GetByAddress(_ context.Context, address string) (*domain.AddressEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}
	entityCopy := *e
	return &entityCopy, nil
}

// GetByAddresses retrieves entities for up to MaxEntityBatch addresses.
func (s *AddressEntityStore) GetByAddresses(_ context.Context, addresses []string) (map[string]*domain.AddressEntity, error) {
	if len(addresses) > storage.MaxEntityBatch {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*domain.AddressEntity)
	for _, addr := range addresses {
		if e, exists := s.data[addr]; exists {
			entityCopy := *e
			result[addr] = &entityCopy
		}
	}
	return result, nil
}

// GetExchangeAddresses retrieves all addresses flagged CEX or DEX.
func (s *AddressEntityStore) GetExchangeAddresses(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]struct{})
	for addr, e := range s.data {
		if e.IsExchange() {
			result[addr] = struct{}{}
		}
	}
	return result, nil
}

var _ storage.AddressEntityStore = (*AddressEntityStore)(nil)
