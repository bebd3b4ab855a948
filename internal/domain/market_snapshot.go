package domain

import "github.com/shopspring/decimal"

// MarketSnapshot is a coarse market-level view of one instrument used by
// batch ranking flows. Fields a data source cannot supply stay zero; the
// scoring layer degrades the affected sub-score to neutral.
type MarketSnapshot struct {
	Symbol string
	Price  decimal.Decimal
	// Volume24h is the 24h quote volume.
	Volume24h decimal.Decimal
	// MarketCap is zero when the source does not report capitalization.
	MarketCap decimal.Decimal
	// ChangePct24h is the 24h price change in percent.
	ChangePct24h float64
	// CirculatingSupply and MaxSupply feed the category market score;
	// zero when unknown.
	CirculatingSupply decimal.Decimal
	MaxSupply         decimal.Decimal
}
