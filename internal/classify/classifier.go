// Package classify resolves the direction of a transaction from a tracked
// address's perspective. Classification is a pure function of
// (transaction, target): identical inputs always yield identical results.
package classify

import (
	"whale-intel/internal/chainaddr"
	"whale-intel/internal/domain"
)

// Classify resolves one transaction against the target address.
//
// Rules, in order:
//  1. Stored TRANSFER/DEFI classifications pass through and never count
//     toward buy/sell tallies (own-wallet moves, protocol interactions).
//  2. Direction comes from the target's address role: target == to_address
//     is a BUY, target == from_address is a SELL, neither is UNKNOWN.
//  3. A transaction counts toward signal math only when the counterparty is
//     a market venue (CEX/DEX) and the USD value is positive.
//
// Malformed or missing addresses degrade to UNKNOWN, never an error.
func Classify(tx *domain.Transaction, target string) domain.ClassifiedTransaction {
	out := domain.ClassifiedTransaction{
		Transaction:        tx,
		Classification:     domain.ClassificationUnknown,
		CountsTowardSignal: false,
	}
	if tx == nil {
		return out
	}

	// Stored transfer/DeFi classifications are authoritative: direction
	// re-derivation only applies to market trades.
	switch domain.Classification(tx.Classification) {
	case domain.ClassificationTransfer:
		out.Classification = domain.ClassificationTransfer
		return out
	case domain.ClassificationDefi:
		out.Classification = domain.ClassificationDefi
		return out
	}

	if target == "" || !chainaddr.IsValid(tx.Blockchain, target) {
		return out
	}

	switch target {
	case tx.ToAddress:
		out.Classification = domain.ClassificationBuy
	case tx.FromAddress:
		out.Classification = domain.ClassificationSell
	default:
		return out
	}

	out.CountsTowardSignal = tx.HasMarketCounterparty() && tx.USDValue > 0
	return out
}

// ClassifyBatch resolves every transaction in txs against the target.
func ClassifyBatch(txs []*domain.Transaction, target string) []domain.ClassifiedTransaction {
	classified := make([]domain.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		classified = append(classified, Classify(tx, target))
	}
	return classified
}
