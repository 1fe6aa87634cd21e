// Package whale rolls classified transactions into per-address aggregates
// and ranked leaderboards over a time window.
package whale

import (
	"context"
	"fmt"

	"whale-intel/internal/chainaddr"
	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// Aggregator computes whale aggregates from stored transactions.
// All computation is stateless per request: nothing is mutated in place and
// concurrent calls share only read-only stores.
type Aggregator struct {
	txStore     storage.TransactionStore
	entityStore storage.AddressEntityStore
}

// NewAggregator creates a new whale aggregator.
func NewAggregator(txStore storage.TransactionStore, entityStore storage.AddressEntityStore) *Aggregator {
	return &Aggregator{
		txStore:     txStore,
		entityStore: entityStore,
	}
}

// AggregateAddress computes the aggregate for one target address over
// [start, end]. Returns (nil, nil) when the address has no qualifying
// transactions in the window.
func (a *Aggregator) AggregateAddress(ctx context.Context, address string, start, end int64) (*domain.WhaleAggregate, error) {
	txs, err := a.txStore.GetByAddress(ctx, address, start, end)
	if err != nil {
		return nil, fmt.Errorf("load transactions for %s: %w", address, err)
	}
	return computeFromTransactions(txs, address), nil
}

// Leaderboard computes ranked aggregates over all transactions in
// [start, end]. Each transaction is classified against its own tracked whale
// address. Known exchange addresses are filtered before aggregation so that
// addresses acting purely as counterparties never surface as whales, and
// Solana program-derived accounts are dropped: they cannot sign, so they are
// venues or vaults rather than wallets. Limit <= 0 means no limit.
func (a *Aggregator) Leaderboard(ctx context.Context, start, end int64, limit int) ([]*domain.WhaleAggregate, error) {
	txs, err := a.txStore.GetByTimeRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	exchanges, err := a.entityStore.GetExchangeAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exchange addresses: %w", err)
	}

	byWhale := make(map[string][]*domain.Transaction)
	for _, tx := range txs {
		addr := tx.WhaleAddress
		if addr == "" || !chainaddr.IsValid(tx.Blockchain, addr) {
			continue
		}
		if tx.Blockchain == domain.BlockchainSolana && !chainaddr.IsOnCurve(addr) {
			continue
		}
		if _, isExchange := exchanges[addr]; isExchange {
			continue
		}
		byWhale[addr] = append(byWhale[addr], tx)
	}

	aggs := make([]*domain.WhaleAggregate, 0, len(byWhale))
	for addr, group := range byWhale {
		if agg := computeFromTransactions(group, addr); agg != nil {
			aggs = append(aggs, agg)
		}
	}

	sortByNetFlow(aggs)
	if limit > 0 && len(aggs) > limit {
		aggs = aggs[:limit]
	}
	return aggs, nil
}
