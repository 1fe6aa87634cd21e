package domain

// ScoreLabel is the 7-bucket ordinal recommendation scale.
type ScoreLabel string

const (
	ScoreStrongSell ScoreLabel = "STRONG SELL"
	ScoreSell       ScoreLabel = "SELL"
	ScoreWeakSell   ScoreLabel = "WEAK SELL"
	ScoreNeutral    ScoreLabel = "NEUTRAL"
	ScoreWeakBuy    ScoreLabel = "WEAK BUY"
	ScoreBuy        ScoreLabel = "BUY"
	ScoreStrongBuy  ScoreLabel = "STRONG BUY"
)

// TokenScore is the 0-100 composite score with its recommendation label.
// Pure function of current inputs; not persisted.
type TokenScore struct {
	Value int        `json:"value"` // clamped to [0,100]
	Label ScoreLabel `json:"label"`
}
