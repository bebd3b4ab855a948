package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time market quote for an instrument.
type Quote struct {
	Symbol string
	// Price is the last traded price.
	Price decimal.Decimal
	// High and Low are the 24h extremes.
	High decimal.Decimal
	Low  decimal.Decimal
	// Volume is the 24h base volume.
	Volume decimal.Decimal
}

// MarketCandle is an OHLCV candlestick with its time bounds.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// Closes extracts the chronological closing prices from a candle series.
func Closes(candles []MarketCandle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i], _ = c.Close.Float64()
	}
	return out
}
