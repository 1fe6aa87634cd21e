package memory

import (
	"context"
	"errors"
	"testing"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

func sampleTx(hash string, ts int64) *domain.Transaction {
	return &domain.Transaction{
		Hash:             hash,
		Timestamp:        ts,
		Blockchain:       domain.BlockchainEthereum,
		TokenSymbol:      "PEPE",
		USDValue:         125000,
		FromAddress:      "0x1111111111111111111111111111111111111111",
		ToAddress:        "0x2222222222222222222222222222222222222222",
		WhaleAddress:     "0x1111111111111111111111111111111111111111",
		CounterpartyType: domain.CounterpartyDEX,
		WhaleScore:       0.8,
	}
}

func TestTransactionStore_InsertAndGet(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	tx := sampleTx("0xabc", 1000)
	if err := store.Insert(ctx, tx); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, 0, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if got[0].Hash != "0xabc" || got[0].USDValue != 125000 {
		t.Errorf("unexpected transaction: %+v", got[0])
	}
}

func TestTransactionStore_InsertDuplicate(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleTx("0xabc", 1000)); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	err := store.Insert(ctx, sampleTx("0xabc", 2000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Same hash on a different chain is a distinct key.
	other := sampleTx("0xabc", 1000)
	other.Blockchain = domain.BlockchainSolana
	if err := store.Insert(ctx, other); err != nil {
		t.Errorf("cross-chain insert failed: %v", err)
	}
}

func TestTransactionStore_InsertInvalid(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil insert: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Transaction{Timestamp: 1}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty hash: expected ErrInvalidInput, got %v", err)
	}
}

func TestTransactionStore_InsertBulkAtomic(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleTx("0xaaa", 1000)); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	batch := []*domain.Transaction{
		sampleTx("0xbbb", 2000),
		sampleTx("0xaaa", 3000), // duplicate of seeded row
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch must have landed.
	got, err := store.GetByTimeRange(ctx, 0, 10000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 transaction after failed bulk, got %d", len(got))
	}
}

func TestTransactionStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	batch := []*domain.Transaction{
		sampleTx("0xccc", 1000),
		sampleTx("0xccc", 2000),
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByTimeRange(ctx, 0, 10000)
	if len(got) != 0 {
		t.Errorf("expected empty store after failed bulk, got %d rows", len(got))
	}
}

func TestTransactionStore_GetByTimeRangeOrdering(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	for _, tc := range []struct {
		hash string
		ts   int64
	}{
		{"0xccc", 3000},
		{"0xbbb", 1000},
		{"0xaaa", 1000},
	} {
		if err := store.Insert(ctx, sampleTx(tc.hash, tc.ts)); err != nil {
			t.Fatalf("Insert %s failed: %v", tc.hash, err)
		}
	}

	got, err := store.GetByTimeRange(ctx, 0, 5000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	wantOrder := []string{"0xaaa", "0xbbb", "0xccc"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d rows, got %d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].Hash != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].Hash)
		}
	}

	// Bounds are inclusive on both ends.
	got, _ = store.GetByTimeRange(ctx, 1000, 1000)
	if len(got) != 2 {
		t.Errorf("inclusive range: expected 2 rows, got %d", len(got))
	}
}

func TestTransactionStore_GetByAddress(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	asSender := sampleTx("0x111", 1000)
	asSender.FromAddress = "0xdddddddddddddddddddddddddddddddddddddddd"
	asSender.WhaleAddress = ""

	asReceiver := sampleTx("0x222", 2000)
	asReceiver.ToAddress = "0xdddddddddddddddddddddddddddddddddddddddd"
	asReceiver.WhaleAddress = ""

	asWhale := sampleTx("0x333", 3000)
	asWhale.WhaleAddress = "0xdddddddddddddddddddddddddddddddddddddddd"

	unrelated := sampleTx("0x444", 1500)

	for _, tx := range []*domain.Transaction{asSender, asReceiver, asWhale, unrelated} {
		if err := store.Insert(ctx, tx); err != nil {
			t.Fatalf("Insert %s failed: %v", tx.Hash, err)
		}
	}

	got, err := store.GetByAddress(ctx, "0xdddddddddddddddddddddddddddddddddddddddd", 0, 5000)
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].Hash != "0x111" || got[1].Hash != "0x222" || got[2].Hash != "0x333" {
		t.Errorf("unexpected order: %s %s %s", got[0].Hash, got[1].Hash, got[2].Hash)
	}
}

func TestTransactionStore_GetBySymbol(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	pepe := sampleTx("0x111", 1000)
	doge := sampleTx("0x222", 2000)
	doge.TokenSymbol = "DOGE"

	if err := store.InsertBulk(ctx, []*domain.Transaction{pepe, doge}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySymbol(ctx, "DOGE", 0, 5000)
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}
	if len(got) != 1 || got[0].Hash != "0x222" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestTransactionStore_ReturnsCopies(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	if err := store.Insert(ctx, sampleTx("0xabc", 1000)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	first, _ := store.GetByTimeRange(ctx, 0, 2000)
	first[0].USDValue = -1

	second, _ := store.GetByTimeRange(ctx, 0, 2000)
	if second[0].USDValue != 125000 {
		t.Errorf("mutation leaked into store: %v", second[0].USDValue)
	}
}
