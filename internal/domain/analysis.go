package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation is the discrete trading advice derived from a confidence score.
type Recommendation int

const (
	RecommendationHold Recommendation = iota
	RecommendationBuy
	RecommendationSell
)

// recommendation string constants to avoid magic strings
const (
	recommendationStringBuy  = "BUY"
	recommendationStringSell = "SELL"
	recommendationStringHold = "HOLD"
)

// String returns the string representation of the recommendation.
func (r Recommendation) String() string {
	switch r {
	case RecommendationBuy:
		return recommendationStringBuy
	case RecommendationSell:
		return recommendationStringSell
	case RecommendationHold:
		return recommendationStringHold
	default:
		return "unknown"
	}
}

// AnalysisResult is the outcome of a single-instrument analysis run.
// It is never mutated after construction.
type AnalysisResult struct {
	// ID uniquely identifies the analysis run.
	ID     string
	Symbol string
	Name   string
	// CurrentPrice is the quote price at analysis time.
	CurrentPrice decimal.Decimal
	// Confidence is the composite score in [0,100].
	Confidence     float64
	Recommendation Recommendation
	Indicators     Indicators
	// Reasons are human-readable justifications in evaluation order
	// (RSI, MACD, Bollinger, then sentiment).
	Reasons    []string
	AnalyzedAt time.Time
}
