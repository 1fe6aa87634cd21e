package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// NewsItemStore implements storage.NewsItemStore using PostgreSQL.
type NewsItemStore struct {
	pool *Pool
}

// NewNewsItemStore creates a new NewsItemStore.
func NewNewsItemStore(pool *Pool) *NewsItemStore {
	return &NewsItemStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NewsItemStore = (*NewsItemStore)(nil)

// Insert adds a new news item.
func (s *NewsItemStore) Insert(ctx context.Context, n *domain.NewsItem) error {
	query := `
		INSERT INTO news_items (ticker, headline, sentiment_raw, sentiment_llm, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		n.Ticker, n.Headline, n.SentimentRaw, n.SentimentLLM, n.FetchedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert news item: %w", err)
	}
	return nil
}

// GetByTicker retrieves items for a ticker fetched within [start, end].
func (s *NewsItemStore) GetByTicker(ctx context.Context, ticker string, start, end int64) ([]*domain.NewsItem, error) {
	query := `
		SELECT id, ticker, headline, sentiment_raw, sentiment_llm, fetched_at
		FROM news_items
		WHERE ticker = $1 AND fetched_at >= $2 AND fetched_at <= $3
		ORDER BY fetched_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("get news items by ticker: %w", err)
	}
	defer rows.Close()

	return scanNewsItems(rows)
}

// GetByTimeRange retrieves all items fetched within [start, end].
func (s *NewsItemStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.NewsItem, error) {
	query := `
		SELECT id, ticker, headline, sentiment_raw, sentiment_llm, fetched_at
		FROM news_items
		WHERE fetched_at >= $1 AND fetched_at <= $2
		ORDER BY fetched_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get news items by time range: %w", err)
	}
	defer rows.Close()

	return scanNewsItems(rows)
}

// scanNewsItems scans multiple rows into a slice of NewsItem.
func scanNewsItems(rows pgx.Rows) ([]*domain.NewsItem, error) {
	var items []*domain.NewsItem

	for rows.Next() {
		var n domain.NewsItem
		err := rows.Scan(&n.ID, &n.Ticker, &n.Headline, &n.SentimentRaw, &n.SentimentLLM, &n.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("scan news item row: %w", err)
		}
		items = append(items, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news item rows: %w", err)
	}
	return items, nil
}
