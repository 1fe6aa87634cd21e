package classify

import (
	"testing"

	"whale-intel/internal/domain"
)

const (
	whaleAddr   = "0x1111111111111111111111111111111111111111"
	venueAddr   = "0x2222222222222222222222222222222222222222"
	unknownAddr = "0x3333333333333333333333333333333333333333"
)

func marketTx(from, to string) *domain.Transaction {
	return &domain.Transaction{
		Hash:             "0xabc",
		Timestamp:        1000,
		Blockchain:       domain.BlockchainEthereum,
		TokenSymbol:      "PEPE",
		USDValue:         50000,
		FromAddress:      from,
		ToAddress:        to,
		CounterpartyType: domain.CounterpartyDEX,
	}
}

func TestClassify_Direction(t *testing.T) {
	tests := []struct {
		name       string
		tx         *domain.Transaction
		target     string
		want       domain.Classification
		wantCounts bool
	}{
		{"target receives is BUY", marketTx(venueAddr, whaleAddr), whaleAddr, domain.ClassificationBuy, true},
		{"target sends is SELL", marketTx(whaleAddr, venueAddr), whaleAddr, domain.ClassificationSell, true},
		{"target on neither side is UNKNOWN", marketTx(venueAddr, unknownAddr), whaleAddr, domain.ClassificationUnknown, false},
		{"empty target is UNKNOWN", marketTx(venueAddr, whaleAddr), "", domain.ClassificationUnknown, false},
		{"nil transaction is UNKNOWN", nil, whaleAddr, domain.ClassificationUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.tx, tt.target)
			if got.Classification != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Classification)
			}
			if got.CountsTowardSignal != tt.wantCounts {
				t.Errorf("expected counts=%v, got %v", tt.wantCounts, got.CountsTowardSignal)
			}
		})
	}
}

func TestClassify_StoredClassificationPassThrough(t *testing.T) {
	for _, stored := range []domain.Classification{domain.ClassificationTransfer, domain.ClassificationDefi} {
		tx := marketTx(venueAddr, whaleAddr)
		tx.Classification = string(stored)

		got := Classify(tx, whaleAddr)
		if got.Classification != stored {
			t.Errorf("%s: expected pass-through, got %s", stored, got.Classification)
		}
		if got.CountsTowardSignal {
			t.Errorf("%s must never count toward signal", stored)
		}
	}
}

func TestClassify_SignalRequiresMarketCounterpartyAndValue(t *testing.T) {
	noVenue := marketTx(venueAddr, whaleAddr)
	noVenue.CounterpartyType = ""
	got := Classify(noVenue, whaleAddr)
	if got.Classification != domain.ClassificationBuy {
		t.Errorf("direction still resolves without a venue, got %s", got.Classification)
	}
	if got.CountsTowardSignal {
		t.Error("non-market counterparty must not count toward signal")
	}

	zeroValue := marketTx(venueAddr, whaleAddr)
	zeroValue.USDValue = 0
	got = Classify(zeroValue, whaleAddr)
	if got.CountsTowardSignal {
		t.Error("zero USD value must not count toward signal")
	}

	cex := marketTx(whaleAddr, venueAddr)
	cex.CounterpartyType = domain.CounterpartyCEX
	got = Classify(cex, whaleAddr)
	if got.Classification != domain.ClassificationSell || !got.CountsTowardSignal {
		t.Errorf("CEX sell should count: %+v", got)
	}
}

func TestClassify_MalformedTargetAddress(t *testing.T) {
	tx := marketTx(venueAddr, "not-a-hex-address")
	got := Classify(tx, "not-a-hex-address")
	if got.Classification != domain.ClassificationUnknown || got.CountsTowardSignal {
		t.Errorf("malformed address must degrade to UNKNOWN, got %+v", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	tx := marketTx(venueAddr, whaleAddr)
	first := Classify(tx, whaleAddr)
	second := Classify(tx, whaleAddr)
	if first != second {
		t.Errorf("identical inputs produced %+v and %+v", first, second)
	}
}

func TestClassifyBatch(t *testing.T) {
	txs := []*domain.Transaction{
		marketTx(venueAddr, whaleAddr),
		marketTx(whaleAddr, venueAddr),
		nil,
	}

	got := ClassifyBatch(txs, whaleAddr)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Classification != domain.ClassificationBuy {
		t.Errorf("expected BUY, got %s", got[0].Classification)
	}
	if got[1].Classification != domain.ClassificationSell {
		t.Errorf("expected SELL, got %s", got[1].Classification)
	}
	if got[2].Classification != domain.ClassificationUnknown {
		t.Errorf("expected UNKNOWN for nil, got %s", got[2].Classification)
	}

	if empty := ClassifyBatch(nil, whaleAddr); len(empty) != 0 {
		t.Errorf("expected empty result for nil batch, got %d", len(empty))
	}
}
