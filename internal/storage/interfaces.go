package storage

import (
	"context"

	"whale-intel/internal/domain"
)

// MaxEntityBatch caps the number of addresses per directory lookup.
const MaxEntityBatch = 100

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// Insert adds a new transaction. Returns ErrDuplicateKey if (blockchain, hash) exists.
	Insert(ctx context.Context, t *domain.Transaction) error

	// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, txs []*domain.Transaction) error

	// GetByTimeRange retrieves transactions within [start, end] (inclusive, ms),
	// ordered by timestamp ASC, hash ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Transaction, error)

	// GetByAddress retrieves transactions where the address appears as sender,
	// receiver or tracked whale, within [start, end], ordered by timestamp ASC.
	GetByAddress(ctx context.Context, address string, start, end int64) ([]*domain.Transaction, error)

	// GetBySymbol retrieves transactions for a token symbol within [start, end],
	// ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string, start, end int64) ([]*domain.Transaction, error)
}

// NewsItemStore provides access to news_items storage.
type NewsItemStore interface {
	// Insert adds a new news item.
	Insert(ctx context.Context, n *domain.NewsItem) error

	// GetByTicker retrieves items for a ticker fetched within [start, end],
	// ordered by fetched_at ASC.
	GetByTicker(ctx context.Context, ticker string, start, end int64) ([]*domain.NewsItem, error)

	// GetByTimeRange retrieves all items fetched within [start, end],
	// ordered by fetched_at ASC, id ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.NewsItem, error)
}

// AddressEntityStore provides access to the address reference directory.
type AddressEntityStore interface {
	// Insert adds a new entity row. Returns ErrDuplicateKey if address exists.
	Insert(ctx context.Context, e *domain.AddressEntity) error

	// GetByAddress retrieves one entity. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.AddressEntity, error)

	// GetByAddresses retrieves entities for up to MaxEntityBatch addresses.
	// Unknown addresses are simply absent from the result map.
	// Returns ErrInvalidInput if the batch exceeds MaxEntityBatch.
	GetByAddresses(ctx context.Context, addresses []string) (map[string]*domain.AddressEntity, error)

	// GetExchangeAddresses retrieves all addresses flagged CEX or DEX.
	GetExchangeAddresses(ctx context.Context) (map[string]struct{}, error)
}

// SentimentSnapshotStore provides access to sentiment_scores storage.
type SentimentSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if (ticker, timestamp)
	// exists. Append-only: existing rows are never overwritten.
	Insert(ctx context.Context, s *domain.SentimentSnapshot) error

	// GetByTicker retrieves snapshots for a ticker within [start, end],
	// ordered by timestamp ASC.
	GetByTicker(ctx context.Context, ticker string, start, end int64) ([]*domain.SentimentSnapshot, error)

	// GetLatest retrieves the most recent snapshot for a ticker.
	// Returns ErrNotFound if none exists.
	GetLatest(ctx context.Context, ticker string) (*domain.SentimentSnapshot, error)
}
