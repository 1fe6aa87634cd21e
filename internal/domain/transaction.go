package domain

import "strings"

// Transaction represents a large on-chain transaction as persisted by the
// ingestion collaborator. Corresponds to transactions table in PostgreSQL.
type Transaction struct {
	Hash             string  `json:"hash"`          // unique per blockchain
	Timestamp        int64   `json:"timestamp"`     // Unix timestamp in milliseconds
	Blockchain       string  `json:"blockchain"`    // chain identifier ("ethereum", "solana", ...)
	TokenSymbol      string  `json:"token_symbol"`  // traded token symbol, may be empty or "unknown*"
	USDValue         float64 `json:"usd_value"`     // non-negative USD notional
	FromAddress      string  `json:"from_address"`  // sender address
	ToAddress        string  `json:"to_address"`    // receiver address
	WhaleAddress     string  `json:"whale_address"` // tracked owner address, empty if unattributed
	Classification   string  `json:"classification,omitempty"`   // classification as stored by ingestion
	CounterpartyType string  `json:"counterparty_type,omitempty"` // CEX | DEX | empty/other
	WhaleScore       float64 `json:"whale_score"` // ingestion-assigned conviction score for the whale
	CreatedAt        int64   `json:"created_at"`  // record creation timestamp (ms)
}

// Counterparty type constants
const (
	CounterpartyCEX = "CEX"
	CounterpartyDEX = "DEX"
)

// Blockchain identifiers with address-format support.
const (
	BlockchainEthereum = "ethereum"
	BlockchainSolana   = "solana"
)

// HasMarketCounterparty reports whether the other party is a market venue.
// Only CEX/DEX counterparties qualify a transaction as a market trade.
func (t *Transaction) HasMarketCounterparty() bool {
	return t.CounterpartyType == CounterpartyCEX || t.CounterpartyType == CounterpartyDEX
}

// HasKnownToken reports whether the token symbol is usable for trading
// aggregates. Empty or "unknown*" symbols are excluded.
func (t *Transaction) HasKnownToken() bool {
	if t.TokenSymbol == "" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(t.TokenSymbol), "unknown")
}
