// Package allocation distributes an investable amount across a ranked
// opportunity batch proportionally to composite score, and derives the
// batch risk and diversification metrics.
package allocation

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
)

// Weights blend an opportunity's confidence and sub-scores into the
// composite score used for both ranking and allocation. They sum to 1.
type Weights struct {
	Confidence float64
	Network    float64
	Market     float64
}

// Config holds the projector parameterization for one asset class.
type Config struct {
	Weights Weights
	// RiskHigh and RiskMedium are dispersion thresholds: an average batch
	// dispersion strictly above RiskHigh is HIGH risk, above RiskMedium is
	// MEDIUM, anything else LOW. Units match Opportunity.Dispersion.
	RiskHigh   float64
	RiskMedium float64
}

// DefaultCryptoConfig uses ATR volatility percent as the dispersion metric.
func DefaultCryptoConfig() Config {
	return Config{
		Weights:    Weights{Confidence: 0.4, Network: 0.3, Market: 0.3},
		RiskHigh:   50,
		RiskMedium: 30,
	}
}

// DefaultEquityConfig uses |weekly change| percent as the dispersion metric.
func DefaultEquityConfig() Config {
	return Config{
		Weights:    Weights{Confidence: 0.4, Network: 0.3, Market: 0.3},
		RiskHigh:   10,
		RiskMedium: 5,
	}
}

// CompositeScore computes the ranking score of one opportunity.
func CompositeScore(opp domain.Opportunity, w Weights) float64 {
	return opp.Confidence*w.Confidence + opp.SubScores.Network*w.Network + opp.SubScores.Market*w.Market
}

// Projector computes allocation projections. Stateless; every call
// recomputes from its inputs.
type Projector struct {
	cfg Config
}

// NewProjector creates a projector with the given configuration.
func NewProjector(cfg Config) *Projector {
	return &Projector{cfg: cfg}
}

// Project distributes totalAmount across the batch proportionally to
// composite score. Monetary outputs keep full precision; rounding is a
// presentation concern.
func (p *Projector) Project(opps []domain.Opportunity, totalAmount decimal.Decimal) (domain.AllocationProjection, error) {
	if len(opps) == 0 {
		return domain.AllocationProjection{}, errors.Wrap(domain.ErrInvalidInput, "empty opportunity batch")
	}
	if !totalAmount.IsPositive() {
		return domain.AllocationProjection{}, errors.Wrapf(domain.ErrInvalidInput, "amount must be positive, got %s", totalAmount.String())
	}

	totalScore := decimal.Zero
	scores := make([]decimal.Decimal, len(opps))
	for i, opp := range opps {
		scores[i] = decimal.NewFromFloat(CompositeScore(opp, p.cfg.Weights))
		totalScore = totalScore.Add(scores[i])
	}
	if !totalScore.IsPositive() {
		return domain.AllocationProjection{}, errors.Wrap(domain.ErrInvalidInput, "batch composite score sums to zero")
	}

	hundred := decimal.NewFromInt(100)
	allocations := make([]domain.Allocation, len(opps))
	totalGain := decimal.Zero

	for i, opp := range opps {
		amount := totalAmount.Mul(scores[i]).Div(totalScore)
		gain := amount.Mul(decimal.NewFromFloat(opp.MonthlyUpside)).Div(hundred)

		allocations[i] = domain.Allocation{
			Symbol:        opp.Symbol,
			Amount:        amount,
			ProjectedGain: gain,
		}
		totalGain = totalGain.Add(gain)
	}

	return domain.AllocationProjection{
		Allocations:          allocations,
		TotalProjectedGain:   totalGain,
		RiskLevel:            p.riskLevel(opps),
		DiversificationScore: diversificationScore(opps),
	}, nil
}

// riskLevel classifies the average dispersion across the batch.
func (p *Projector) riskLevel(opps []domain.Opportunity) domain.RiskLevel {
	var sum float64
	for _, opp := range opps {
		sum += opp.Dispersion
	}
	avg := sum / float64(len(opps))

	switch {
	case avg > p.cfg.RiskHigh:
		return domain.RiskHigh
	case avg > p.cfg.RiskMedium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// diversificationScore is the share of distinct categories in the batch,
// as a percentage.
func diversificationScore(opps []domain.Opportunity) float64 {
	categories := make(map[string]struct{}, len(opps))
	for _, opp := range opps {
		categories[opp.Category] = struct{}{}
	}
	return float64(len(categories)) / float64(len(opps)) * 100
}
