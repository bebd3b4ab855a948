package domain

import "github.com/shopspring/decimal"

// RiskLevel is the aggregate risk classification of an allocation batch.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	}
	return "unknown"
}

// Allocation is the capital assigned to one instrument of a batch.
type Allocation struct {
	Symbol string
	// Amount is in the same currency unit as the projection's input amount.
	Amount decimal.Decimal
	// ProjectedGain is Amount * monthlyUpside / 100.
	ProjectedGain decimal.Decimal
}

// AllocationProjection distributes a total investable amount across a
// ranked opportunity batch. Allocations preserve the batch order.
// Invariant: the amounts sum to the input total (within floating tolerance)
// and the gains sum to TotalProjectedGain.
type AllocationProjection struct {
	Allocations        []Allocation
	TotalProjectedGain decimal.Decimal
	RiskLevel          RiskLevel
	// DiversificationScore is 100 * distinct categories / batch size.
	DiversificationScore float64
}

// AllocationFor returns the allocation entry for a symbol.
func (p *AllocationProjection) AllocationFor(symbol string) (Allocation, bool) {
	for _, a := range p.Allocations {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Allocation{}, false
}

// TotalAllocated sums the allocated amounts.
func (p *AllocationProjection) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}
