package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
)

// crypto sub-score thresholds
const (
	volumeRatioStrong  = 0.2
	volumeRatioHealthy = 0.1
	volumeRatioThin    = 0.01

	volatilityCalm  = 30
	volatilityWild  = 60
	volatilityRisky = 50
)

// categoryCredits biases the market score towards established crypto
// categories.
var categoryCredits = map[string]float64{
	"Store of Value":  20,
	"Smart Contracts": 15,
	"Layer 1":         10,
	"Layer 2":         5,
}

// CryptoTechnicalScore scores a crypto instrument from its RSI, recent
// volatility and trend direction. Same base-and-fixed-weights policy as
// TechnicalScore, with volatility and trend replacing MACD and Bollinger.
func CryptoTechnicalScore(rsi, volatilityPct float64, trend domain.Trend, cfg Config) (float64, []string) {
	score := cfg.Base
	var reasons []string

	switch {
	case rsi < cfg.RSIOversold:
		score += cfg.RSIWeight
		reasons = append(reasons, "attractive price level (RSI in oversold zone)")
	case rsi > cfg.RSIOverbought:
		score -= cfg.RSIWeight
		reasons = append(reasons, "stretched price level (RSI in overbought zone)")
	}

	switch {
	case volatilityPct < volatilityCalm:
		score += cfg.BandWeight
	case volatilityPct > volatilityWild:
		score -= cfg.BandWeight
	}

	switch trend {
	case domain.TrendBullish:
		score += cfg.MACDWeight
		reasons = append(reasons, "confirmed bullish trend")
	case domain.TrendBearish:
		score -= cfg.MACDWeight
	}

	return clamp(score), reasons
}

// NetworkScore rates on-chain liquidity from the 24h volume to market cap
// ratio. An unknown market cap degrades to neutral rather than failing.
func NetworkScore(volume24h, marketCap decimal.Decimal) float64 {
	if !marketCap.IsPositive() {
		return sentimentBase
	}

	ratio, _ := volume24h.Div(marketCap).Float64()

	score := 50.0
	switch {
	case ratio > volumeRatioStrong:
		score += 25
	case ratio > volumeRatioHealthy:
		score += 15
	case ratio < volumeRatioThin:
		score -= 15
	}

	return clamp(score)
}

// MarketScore rates category positioning and supply scarcity.
// Unknown supply figures contribute nothing.
func MarketScore(category string, circulating, max decimal.Decimal) float64 {
	score := 50 + categoryCredits[category]

	if max.IsPositive() && circulating.IsPositive() {
		ratio, _ := circulating.Div(max).Float64()
		switch {
		case ratio < 0.5:
			score += 15
		case ratio < 0.7:
			score += 10
		case ratio < 0.9:
			score += 5
		}
	}

	return clamp(score)
}

// monthly upside model: a flat base adjusted by trend, oversold RSI and
// category multipliers, rounded to one decimal place.
const monthlyUpsideBase = 2.5

// MonthlyUpside projects the 1-month upside percent for a crypto
// opportunity. Deterministic by construction; simulated universes inject
// their own randomness upstream.
func MonthlyUpside(category string, rsi float64, trend domain.Trend) float64 {
	upside := monthlyUpsideBase

	if trend == domain.TrendBullish {
		upside *= 1.5
	}
	if rsi < 30 {
		upside *= 1.3
	}
	if category == "Layer 1" || category == "Smart Contracts" {
		upside *= 1.2
	}

	return math.Round(upside*10) / 10
}

// CryptoReasons explains a crypto opportunity from its sub-scores.
func CryptoReasons(technical, network, market float64, trendReasons []string) []string {
	var reasons []string

	if technical > 70 {
		reasons = append(reasons, "excellent technical indicators")
	}
	if network > 70 {
		reasons = append(reasons, "strong trading volume and deep liquidity")
	}
	if market > 70 {
		reasons = append(reasons, "dominant position in its category")
	}

	return append(reasons, trendReasons...)
}

// CryptoRisks lists the risk factors of a crypto opportunity.
func CryptoRisks(category string, volatilityPct float64) []string {
	risks := []string{"volatility inherent to cryptocurrencies"}

	if volatilityPct > volatilityRisky {
		risks = append(risks, "particularly high recent volatility")
	}

	switch category {
	case "Smart Contracts":
		risks = append(risks, "smart contract and security risks")
	case "Layer 1":
		risks = append(risks, "strong competition between blockchains")
	case "Layer 2":
		risks = append(risks, "dependency on the underlying blockchain")
	case "Exchange Token":
		risks = append(risks, "dependency on the exchange's performance")
	}

	return risks
}
