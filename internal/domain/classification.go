package domain

// Classification is the resolved direction of a transaction from a tracked
// address's perspective.
type Classification string

const (
	ClassificationBuy      Classification = "BUY"
	ClassificationSell     Classification = "SELL"
	ClassificationTransfer Classification = "TRANSFER"
	ClassificationDefi     Classification = "DEFI"
	ClassificationUnknown  Classification = "UNKNOWN"
)

// ClassifiedTransaction pairs a transaction with its perspective-resolved
// classification. Derived and ephemeral: recomputed per query, never persisted.
type ClassifiedTransaction struct {
	Transaction        *Transaction   `json:"transaction"`
	Classification     Classification `json:"classification"`
	CountsTowardSignal bool           `json:"counts_toward_signal"`
}
