// Package entity enriches whale aggregates with human-readable identities
// from the reference address directory.
package entity

import (
	"context"
	"fmt"
	"math"
	"sort"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

// Resolver attaches entity metadata to aggregate rows. Enrichment is
// best-effort: every returned row carries at least its raw address, and a
// missing directory entry never removes a row.
type Resolver struct {
	entityStore storage.AddressEntityStore
}

// NewResolver creates a new entity resolver.
func NewResolver(entityStore storage.AddressEntityStore) *Resolver {
	return &Resolver{entityStore: entityStore}
}

// Enrich resolves entity metadata for the given aggregates in place.
// Directory lookups are chunked to storage.MaxEntityBatch addresses per call
// to bound lookup cost.
func (r *Resolver) Enrich(ctx context.Context, aggs []*domain.WhaleAggregate) error {
	addresses := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		addresses = append(addresses, agg.Address)
	}

	resolved := make(map[string]*domain.AddressEntity, len(addresses))
	for start := 0; start < len(addresses); start += storage.MaxEntityBatch {
		end := start + storage.MaxEntityBatch
		if end > len(addresses) {
			end = len(addresses)
		}
		batch, err := r.entityStore.GetByAddresses(ctx, addresses[start:end])
		if err != nil {
			return fmt.Errorf("resolve entity batch: %w", err)
		}
		for addr, e := range batch {
			resolved[addr] = e
		}
	}

	for _, agg := range aggs {
		if e, ok := resolved[agg.Address]; ok {
			agg.EntityName = e.EntityName
			agg.Label = e.Label
			agg.Category = e.Category
			agg.IsFamous = e.IsFamous
		}
	}
	return nil
}

// GroupByEntity merges rows resolving to the same entity name into one
// combined aggregate; unresolved addresses stay ungrouped per-address.
// The merged row keeps the lexicographically first member address.
func GroupByEntity(aggs []*domain.WhaleAggregate) []*domain.WhaleAggregate {
	byEntity := make(map[string]*domain.WhaleAggregate)
	var out []*domain.WhaleAggregate

	for _, agg := range aggs {
		if agg.EntityName == "" {
			out = append(out, agg)
			continue
		}
		existing, ok := byEntity[agg.EntityName]
		if !ok {
			merged := *agg
			merged.Tokens = append([]string(nil), agg.Tokens...)
			byEntity[agg.EntityName] = &merged
			out = append(out, &merged)
			continue
		}
		mergeInto(existing, agg)
	}
	return out
}

// mergeInto folds src into dst, which already belongs to the same entity.
func mergeInto(dst, src *domain.WhaleAggregate) {
	dst.BuyCount += src.BuyCount
	dst.SellCount += src.SellCount
	dst.BuyVolumeUSD += src.BuyVolumeUSD
	dst.SellVolumeUSD += src.SellVolumeUSD
	dst.NetFlowUSD += src.NetFlowUSD
	dst.BuySellRatio = domain.BuySellRatio(dst.BuyCount, dst.SellCount)
	dst.Tokens = unionTokens(dst.Tokens, src.Tokens)
	if src.WhaleScore > dst.WhaleScore {
		dst.WhaleScore = src.WhaleScore
	}
	if src.LastSeen > dst.LastSeen {
		dst.LastSeen = src.LastSeen
	}
	if src.Address < dst.Address {
		dst.Address = src.Address
	}
	dst.IsFamous = dst.IsFamous || src.IsFamous
}

// SortEntityView orders rows for entity listings: famous entities first, then
// alphabetically by entity name, with unresolved rows last by address.
func SortEntityView(aggs []*domain.WhaleAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]
		if a.IsFamous != b.IsFamous {
			return a.IsFamous
		}
		an, bn := a.EntityName, b.EntityName
		if (an == "") != (bn == "") {
			return an != ""
		}
		if an != bn {
			return an < bn
		}
		return a.Address < b.Address
	})
}

// SortLeaderboard orders rows by descending absolute net flow, ties broken by
// address ordering.
func SortLeaderboard(aggs []*domain.WhaleAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		fi, fj := math.Abs(aggs[i].NetFlowUSD), math.Abs(aggs[j].NetFlowUSD)
		if fi != fj {
			return fi > fj
		}
		return aggs[i].Address < aggs[j].Address
	})
}

// unionTokens merges two sorted token lists, deduplicated and sorted.
func unionTokens(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
