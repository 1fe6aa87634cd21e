package memory

import (
	"context"
	"errors"
	"testing"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewsItemStore_InsertAssignsIDs(t *testing.T) {
	store := NewNewsItemStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item := &domain.NewsItem{Ticker: "PEPE", Headline: "whale accumulation", FetchedAt: int64(1000 + i)}
		if err := store.Insert(ctx, item); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	got, err := store.GetByTicker(ctx, "PEPE", 0, 2000)
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, item := range got {
		if item.ID != int64(i+1) {
			t.Errorf("item %d: expected ID %d, got %d", i, i+1, item.ID)
		}
	}
}

func TestNewsItemStore_InsertInvalid(t *testing.T) {
	store := NewNewsItemStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil insert: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.NewsItem{Headline: "no ticker"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty ticker: expected ErrInvalidInput, got %v", err)
	}
}

func TestNewsItemStore_GetByTickerFilters(t *testing.T) {
	store := NewNewsItemStore()
	ctx := context.Background()

	items := []*domain.NewsItem{
		{Ticker: "PEPE", Headline: "a", FetchedAt: 1000},
		{Ticker: "DOGE", Headline: "b", FetchedAt: 1500},
		{Ticker: "PEPE", Headline: "c", FetchedAt: 3000},
	}
	for _, item := range items {
		if err := store.Insert(ctx, item); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByTicker(ctx, "PEPE", 0, 2000)
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(got) != 1 || got[0].Headline != "a" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestNewsItemStore_GetByTimeRangeOrdering(t *testing.T) {
	store := NewNewsItemStore()
	ctx := context.Background()

	// Insert out of time order; same fetched_at breaks ties by insertion ID.
	items := []*domain.NewsItem{
		{Ticker: "PEPE", Headline: "late", FetchedAt: 3000},
		{Ticker: "DOGE", Headline: "tie-first", FetchedAt: 1000},
		{Ticker: "SHIB", Headline: "tie-second", FetchedAt: 1000},
	}
	for _, item := range items {
		if err := store.Insert(ctx, item); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByTimeRange(ctx, 0, 5000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	wantOrder := []string{"tie-first", "tie-second", "late"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(got))
	}
	for i, want := range wantOrder {
		if got[i].Headline != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Headline)
		}
	}
}

func TestNewsItemStore_ReturnsCopies(t *testing.T) {
	store := NewNewsItemStore()
	ctx := context.Background()

	item := &domain.NewsItem{Ticker: "PEPE", Headline: "original", SentimentRaw: ptr(0.5), FetchedAt: 1000}
	if err := store.Insert(ctx, item); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	first, _ := store.GetByTicker(ctx, "PEPE", 0, 2000)
	first[0].Headline = "mutated"

	second, _ := store.GetByTicker(ctx, "PEPE", 0, 2000)
	if second[0].Headline != "original" {
		t.Errorf("mutation leaked into store: %q", second[0].Headline)
	}
}
