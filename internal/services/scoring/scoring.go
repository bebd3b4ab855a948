// Package scoring turns indicator values and auxiliary sub-scores into a
// confidence value, a discrete recommendation and human-readable reasons.
package scoring

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/finsight/finsight/internal/domain"
)

// Config holds the scoring thresholds and factor weights.
// All paths share one policy: scores start at Base and each factor adds or
// subtracts its fixed weight, clamped to [0,100].
type Config struct {
	// Base is the starting score before any factor contributes. Default 50.
	Base float64
	// RSIOversold and RSIOverbought bound the neutral RSI zone. Defaults 30, 70.
	RSIOversold   float64
	RSIOverbought float64
	// RSIWeight is the contribution of an oversold (+) or overbought (-) RSI. Default 20.
	RSIWeight float64
	// RSINeutralCredit is the small positive credit for a neutral RSI. Default 5.
	RSINeutralCredit float64
	// MACDWeight is the contribution of the MACD histogram sign. Default 15.
	MACDWeight float64
	// BandWeight is the contribution of price touching a Bollinger band. Default 15.
	BandWeight float64
	// BuyThreshold and SellThreshold classify confidence into a
	// recommendation: strictly above BuyThreshold is BUY, strictly below
	// SellThreshold is SELL. Defaults 70, 30.
	BuyThreshold  float64
	SellThreshold float64
}

// DefaultConfig returns the canonical scoring parameterization.
func DefaultConfig() Config {
	return Config{
		Base:             50,
		RSIOversold:      30,
		RSIOverbought:    70,
		RSIWeight:        20,
		RSINeutralCredit: 5,
		MACDWeight:       15,
		BandWeight:       15,
		BuyThreshold:     70,
		SellThreshold:    30,
	}
}

// TechnicalScore scores an indicator set against the current price.
// Factors contribute in a fixed order (RSI, MACD, Bollinger) so the reasons
// list is deterministic.
func TechnicalScore(ind domain.Indicators, price float64, cfg Config) (float64, []string) {
	score := cfg.Base
	var reasons []string

	switch {
	case ind.RSI < cfg.RSIOversold:
		score += cfg.RSIWeight
		reasons = append(reasons, "RSI indicates oversold condition")
	case ind.RSI > cfg.RSIOverbought:
		score -= cfg.RSIWeight
		reasons = append(reasons, "RSI indicates overbought condition")
	default:
		score += cfg.RSINeutralCredit
	}

	if ind.MACD.Histogram > 0 {
		score += cfg.MACDWeight
		reasons = append(reasons, "MACD shows bullish momentum")
	} else {
		score -= cfg.MACDWeight
		reasons = append(reasons, "MACD shows bearish momentum")
	}

	switch {
	case price <= ind.Bollinger.Lower:
		score += cfg.BandWeight
		reasons = append(reasons, "price near lower Bollinger band")
	case price >= ind.Bollinger.Upper:
		score -= cfg.BandWeight
		reasons = append(reasons, "price near upper Bollinger band")
	}

	return clamp(score), reasons
}

// sentiment scoring constants: only the most recent headlines count,
// each shifting the neutral base by a fixed step.
const (
	sentimentBase       = 50
	sentimentStep       = 5
	sentimentRecentNews = 5
)

// SentimentScore scores a news feed. A nil or empty feed is neutral, never
// an error: absence of news must not fail an analysis.
func SentimentScore(news []domain.NewsItem) (float64, []string) {
	score := float64(sentimentBase)
	var reasons []string

	recent := news
	if len(recent) > sentimentRecentNews {
		recent = recent[:sentimentRecentNews]
	}

	for _, item := range recent {
		switch item.Sentiment {
		case domain.SentimentPositive:
			score += sentimentStep
			reasons = append(reasons, fmt.Sprintf("positive news: %s", item.Title))
		case domain.SentimentNegative:
			score -= sentimentStep
			reasons = append(reasons, fmt.Sprintf("negative news: %s", item.Title))
		}
	}

	return clamp(score), reasons
}

// WeightedScore is one sub-score with its blend weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// Confidence blends weighted sub-scores into one [0,100] confidence value.
// Callers supply weights summing to 1; the result is rounded to the nearest
// integer as the original scores are presented as whole percentages.
func Confidence(parts ...WeightedScore) (float64, error) {
	if len(parts) == 0 {
		return 0, errors.Wrap(domain.ErrInvalidInput, "confidence needs at least one sub-score")
	}

	var sum float64
	for _, p := range parts {
		sum += p.Score * p.Weight
	}
	return clamp(math.Round(sum)), nil
}

// Recommend classifies a confidence value. The comparison is strict on both
// boundaries and identical on single-asset and batch paths.
func Recommend(confidence float64, cfg Config) domain.Recommendation {
	switch {
	case confidence > cfg.BuyThreshold:
		return domain.RecommendationBuy
	case confidence < cfg.SellThreshold:
		return domain.RecommendationSell
	default:
		return domain.RecommendationHold
	}
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
