package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const txColumns = `
	hash, timestamp, blockchain, token_symbol, usd_value,
	from_address, to_address, whale_address,
	classification, counterparty_type, whale_score, created_at
`

const insertTxQuery = `
	INSERT INTO transactions (
		hash, timestamp, blockchain, token_symbol, usd_value,
		from_address, to_address, whale_address,
		classification, counterparty_type, whale_score, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, $12
	)
`

// Insert adds a new transaction. Returns ErrDuplicateKey if (blockchain, hash) exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	_, err := s.pool.Exec(ctx, insertTxQuery,
		t.Hash, t.Timestamp, t.Blockchain, t.TokenSymbol, t.USDValue,
		t.FromAddress, t.ToAddress, t.WhaleAddress,
		t.Classification, t.CounterpartyType, t.WhaleScore, t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []*domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range txs {
		_, err := tx.Exec(ctx, insertTxQuery,
			t.Hash, t.Timestamp, t.Blockchain, t.TokenSymbol, t.USDValue,
			t.FromAddress, t.ToAddress, t.WhaleAddress,
			t.Classification, t.CounterpartyType, t.WhaleScore, t.CreatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves transactions within [start, end] inclusive.
func (s *TransactionStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC, hash ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transactions by time range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByAddress retrieves transactions touching the address within [start, end].
func (s *TransactionStore) GetByAddress(ctx context.Context, address string, start, end int64) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE timestamp >= $2 AND timestamp <= $3
		  AND (from_address = $1 OR to_address = $1 OR whale_address = $1)
		ORDER BY timestamp ASC, hash ASC
	`

	rows, err := s.pool.Query(ctx, query, address, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transactions by address: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetBySymbol retrieves transactions for a token symbol within [start, end].
func (s *TransactionStore) GetBySymbol(ctx context.Context, symbol string, start, end int64) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE token_symbol = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, hash ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transactions by symbol: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.Hash, &t.Timestamp, &t.Blockchain, &t.TokenSymbol, &t.USDValue,
			&t.FromAddress, &t.ToAddress, &t.WhaleAddress,
			&t.Classification, &t.CounterpartyType, &t.WhaleScore, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txs, nil
}
