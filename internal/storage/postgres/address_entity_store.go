package postgres

import (
	"context"
	"fmt"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// AddressEntityStore implements storage.AddressEntityStore using PostgreSQL.
type AddressEntityStore struct {
	pool *Pool
}

// NewAddressEntityStore creates a new AddressEntityStore.
func NewAddressEntityStore(pool *Pool) *AddressEntityStore {
	return &AddressEntityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AddressEntityStore = (*AddressEntityStore)(nil)

// Insert adds a new entity row. Returns ErrDuplicateKey if address exists.
func (s *AddressEntityStore) Insert(ctx context.Context, e *domain.AddressEntity) error {
	query := `
		INSERT INTO addresses (address, address_type, entity_name, label, category, is_famous)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		e.Address, e.AddressType, e.EntityName, e.Label, e.Category, e.IsFamous,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert address entity: %w", err)
	}
	return nil
}

// GetByAddress retrieves one entity. Returns ErrNotFound if not exists.
func (s *AddressEntityStore) GetByAddress(ctx context.Context, address string) (*domain.AddressEntity, error) {
	query := `
		SELECT address, address_type, entity_name, label, category, is_famous
		FROM addresses
		WHERE address = $1
	`

	var e domain.AddressEntity
	err := s.pool.QueryRow(ctx, query, address).Scan(
		&e.Address, &e.AddressType, &e.EntityName, &e.Label, &e.Category, &e.IsFamous,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get address entity: %w", err)
	}
	return &e, nil
}

// GetByAddresses retrieves entities for up to MaxEntityBatch addresses.
func (s *AddressEntityStore) GetByAddresses(ctx context.Context, addresses []string) (map[string]*domain.AddressEntity, error) {
	if len(addresses) > storage.MaxEntityBatch {
		return nil, storage.ErrInvalidInput
	}
	if len(addresses) == 0 {
		return map[string]*domain.AddressEntity{}, nil
	}

	query := `
		SELECT address, address_type, entity_name, label, category, is_famous
		FROM addresses
		WHERE address = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, addresses)
	if err != nil {
		return nil, fmt.Errorf("get address entities: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*domain.AddressEntity, len(addresses))
	for rows.Next() {
		var e domain.AddressEntity
		err := rows.Scan(&e.Address, &e.AddressType, &e.EntityName, &e.Label, &e.Category, &e.IsFamous)
		if err != nil {
			return nil, fmt.Errorf("scan address entity row: %w", err)
		}
		result[e.Address] = &e
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address entity rows: %w", err)
	}
	return result, nil
}

// GetExchangeAddresses retrieves all addresses flagged CEX or DEX.
func (s *AddressEntityStore) GetExchangeAddresses(ctx context.Context) (map[string]struct{}, error) {
	query := `
		SELECT address
		FROM addresses
		WHERE address_type = $1 OR address_type = $2
	`

	rows, err := s.pool.Query(ctx, query, domain.AddressTypeCEX, domain.AddressTypeDEX)
	if err != nil {
		return nil, fmt.Errorf("get exchange addresses: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan exchange address row: %w", err)
		}
		result[addr] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchange address rows: %w", err)
	}
	return result, nil
}
