package domain

// MACDResult holds the MACD line, its signal line and their difference.
type MACDResult struct {
	Value     float64
	Signal    float64
	Histogram float64
}

// BollingerBands holds the three Bollinger band levels.
// Invariant: Lower <= Middle <= Upper for any non-degenerate input.
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Indicators is the set of technical indicators derived from one
// price series snapshot. Immutable once computed.
type Indicators struct {
	// RSI is bounded to [0,100].
	RSI       float64
	MACD      MACDResult
	Bollinger BollingerBands
}

// Trend is a coarse market direction label derived from EMA alignment.
type Trend int

const (
	TrendSideways Trend = iota
	TrendBullish
	TrendBearish
)

// String returns the string representation of the trend.
func (t Trend) String() string {
	switch t {
	case TrendBullish:
		return "bullish"
	case TrendBearish:
		return "bearish"
	default:
		return "sideways"
	}
}
