// Package chainaddr validates on-chain address syntax per blockchain.
// It performs format checks only, no network calls.
package chainaddr

import (
	"filippo.io/edwards25519"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"whale-intel/internal/domain"
)

// IsValid reports whether address is syntactically valid for the given chain.
// Unknown chains fall back to a non-empty check: the engine must degrade, not
// reject, records from chains it has no validator for.
func IsValid(blockchain, address string) bool {
	if address == "" {
		return false
	}
	switch blockchain {
	case domain.BlockchainEthereum:
		return common.IsHexAddress(address)
	case domain.BlockchainSolana:
		return isSolanaAddress(address)
	default:
		return true
	}
}

// isSolanaAddress checks base58 decoding to a 32-byte ed25519 point.
// Off-curve program-derived addresses are accepted: they appear as transfer
// counterparties and must not be dropped.
func isSolanaAddress(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// IsOnCurve reports whether a Solana address is a valid ed25519 curve point,
// i.e. a wallet rather than a program-derived account.
func IsOnCurve(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
