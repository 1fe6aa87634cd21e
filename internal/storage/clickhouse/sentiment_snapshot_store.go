package clickhouse

import (
	"context"
	"fmt"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// SentimentSnapshotStore implements storage.SentimentSnapshotStore using
// ClickHouse. MergeTree does not enforce uniqueness at insert time, so
// append-only semantics are kept via an explicit existence check.
type SentimentSnapshotStore struct {
	conn *Conn
}

// NewSentimentSnapshotStore creates a new SentimentSnapshotStore.
func NewSentimentSnapshotStore(conn *Conn) *SentimentSnapshotStore {
	return &SentimentSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SentimentSnapshotStore = (*SentimentSnapshotStore)(nil)

// Insert adds a new snapshot. Returns ErrDuplicateKey if (ticker, timestamp) exists.
func (s *SentimentSnapshotStore) Insert(ctx context.Context, snap *domain.SentimentSnapshot) error {
	exists, err := s.exists(ctx, snap.Ticker, snap.Timestamp)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO sentiment_scores (
			ticker, timestamp,
			provider_sentiment_avg, llm_sentiment_avg, aggregated_score,
			news_count_24h, positive_count, negative_count, neutral_count,
			confidence
		) VALUES (
			?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?
		)
	`

	err = s.conn.Exec(ctx, query,
		snap.Ticker, snap.Timestamp,
		snap.ProviderSentimentAvg, snap.LLMSentimentAvg, snap.AggregatedScore,
		snap.NewsCount24h, snap.PositiveCount, snap.NegativeCount, snap.NeutralCount,
		snap.Confidence,
	)
	if err != nil {
		return fmt.Errorf("insert sentiment snapshot: %w", err)
	}
	return nil
}

// exists checks whether a snapshot for (ticker, timestamp) is already stored.
func (s *SentimentSnapshotStore) exists(ctx context.Context, ticker string, timestamp int64) (bool, error) {
	query := `
		SELECT count() FROM sentiment_scores
		WHERE ticker = ? AND timestamp = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, ticker, timestamp).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByTicker retrieves snapshots for a ticker within [start, end].
func (s *SentimentSnapshotStore) GetByTicker(ctx context.Context, ticker string, start, end int64) ([]*domain.SentimentSnapshot, error) {
	query := `
		SELECT
			ticker, timestamp,
			provider_sentiment_avg, llm_sentiment_avg, aggregated_score,
			news_count_24h, positive_count, negative_count, neutral_count,
			confidence
		FROM sentiment_scores
		WHERE ticker = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by ticker: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.SentimentSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}

// GetLatest retrieves the most recent snapshot for a ticker.
func (s *SentimentSnapshotStore) GetLatest(ctx context.Context, ticker string) (*domain.SentimentSnapshot, error) {
	query := `
		SELECT
			ticker, timestamp,
			provider_sentiment_avg, llm_sentiment_avg, aggregated_score,
			news_count_24h, positive_count, negative_count, neutral_count,
			confidence
		FROM sentiment_scores
		WHERE ticker = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, storage.ErrNotFound
	}
	return scanSnapshot(rows)
}

// scanner abstracts driver.Rows for scanning one snapshot.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.SentimentSnapshot, error) {
	var snap domain.SentimentSnapshot
	var newsCount, positive, negative, neutral uint32

	err := row.Scan(
		&snap.Ticker, &snap.Timestamp,
		&snap.ProviderSentimentAvg, &snap.LLMSentimentAvg, &snap.AggregatedScore,
		&newsCount, &positive, &negative, &neutral,
		&snap.Confidence,
	)
	if err != nil {
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}

	snap.NewsCount24h = int(newsCount)
	snap.PositiveCount = int(positive)
	snap.NegativeCount = int(negative)
	snap.NeutralCount = int(neutral)
	return &snap, nil
}
