package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

func TestAddressEntityStore_InsertAndGet(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	entity := &domain.AddressEntity{
		Address:     "0x1111111111111111111111111111111111111111",
		AddressType: domain.AddressTypeWhale,
		EntityName:  "a16z",
		Label:       "a16z wallet 1",
		Category:    "fund",
		IsFamous:    true,
	}
	if err := store.Insert(ctx, entity); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, entity.Address)
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.EntityName != "a16z" || !got.IsFamous {
		t.Errorf("unexpected entity: %+v", got)
	}

	if _, err := store.GetByAddress(ctx, "0xmissing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddressEntityStore_InsertDuplicate(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	entity := &domain.AddressEntity{Address: "0xabc", AddressType: domain.AddressTypeWhale}
	if err := store.Insert(ctx, entity); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if err := store.Insert(ctx, entity); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAddressEntityStore_InsertInvalid(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil insert: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.AddressEntity{AddressType: domain.AddressTypeCEX}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty address: expected ErrInvalidInput, got %v", err)
	}
}

func TestAddressEntityStore_GetByAddresses(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entity := &domain.AddressEntity{
			Address:     fmt.Sprintf("0xaddr%d", i),
			AddressType: domain.AddressTypeWhale,
			EntityName:  fmt.Sprintf("entity%d", i),
		}
		if err := store.Insert(ctx, entity); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	// Unknown addresses are absent from the map, not errors.
	got, err := store.GetByAddresses(ctx, []string{"0xaddr0", "0xaddr2", "0xunknown"})
	if err != nil {
		t.Fatalf("GetByAddresses failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
	if got["0xaddr0"].EntityName != "entity0" || got["0xaddr2"].EntityName != "entity2" {
		t.Errorf("unexpected entities: %+v", got)
	}
}

func TestAddressEntityStore_GetByAddressesBatchLimit(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	batch := make([]string, storage.MaxEntityBatch+1)
	for i := range batch {
		batch[i] = fmt.Sprintf("0xaddr%d", i)
	}
	if _, err := store.GetByAddresses(ctx, batch); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for oversized batch, got %v", err)
	}

	// Exactly at the cap is accepted.
	if _, err := store.GetByAddresses(ctx, batch[:storage.MaxEntityBatch]); err != nil {
		t.Errorf("batch at cap failed: %v", err)
	}
}

func TestAddressEntityStore_GetExchangeAddresses(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	entities := []*domain.AddressEntity{
		{Address: "0xcex", AddressType: domain.AddressTypeCEX, EntityName: "Binance"},
		{Address: "0xdex", AddressType: domain.AddressTypeDEX, EntityName: "Uniswap"},
		{Address: "0xwhale", AddressType: domain.AddressTypeWhale, EntityName: "a16z"},
		{Address: "0xcontract", AddressType: domain.AddressTypeContract},
	}
	for _, e := range entities {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert %s failed: %v", e.Address, err)
		}
	}

	got, err := store.GetExchangeAddresses(ctx)
	if err != nil {
		t.Fatalf("GetExchangeAddresses failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 exchange addresses, got %d", len(got))
	}
	if _, ok := got["0xcex"]; !ok {
		t.Error("missing CEX address")
	}
	if _, ok := got["0xdex"]; !ok {
		t.Error("missing DEX address")
	}
}

func TestAddressEntityStore_ReturnsCopies(t *testing.T) {
	store := NewAddressEntityStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.AddressEntity{Address: "0xabc", EntityName: "original"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	first, _ := store.GetByAddress(ctx, "0xabc")
	first.EntityName = "mutated"

	second, _ := store.GetByAddress(ctx, "0xabc")
	if second.EntityName != "original" {
		t.Errorf("mutation leaked into store: %q", second.EntityName)
	}
}
