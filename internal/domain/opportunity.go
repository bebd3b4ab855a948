package domain

import "github.com/shopspring/decimal"

// SubScores are the per-factor scores behind an opportunity's confidence.
// For crypto batches Network/Market carry network health and category fit;
// for equity batches the same slots carry growth and innovation scores.
type SubScores struct {
	Technical float64
	Network   float64
	Market    float64
}

// Opportunity is one ranked candidate in an investment batch.
// Produced by a ranking pass, consumed immediately by the allocation
// projector; not persisted.
type Opportunity struct {
	Symbol       string
	Name         string
	Category     string
	CurrentPrice decimal.Decimal
	// Confidence is the composite score in [0,100] used for ranking.
	Confidence float64
	SubScores  SubScores
	// MonthlyUpside is the projected 1-month gain in percent.
	MonthlyUpside float64
	// Dispersion is the volatility measure feeding the batch risk level:
	// ATR-based volatility percent for crypto, |weekly change| for equities.
	Dispersion float64
	Reasons    []string
	Risks      []string
}
