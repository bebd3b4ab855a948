package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientData means the price history is shorter than the
	// lookback an indicator requires. Indicator functions fail fast with
	// this error instead of returning zero-filled values.
	ErrInsufficientData = errors.New("insufficient price history")

	// ErrInvalidInput means a malformed request: empty batch, non-finite
	// or non-positive amount, empty price series.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch means a market data collaborator failed.
	// The engine does not retry; the orchestrator decides abort vs exclude.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)

// PartialBatchError reports instruments excluded from a ranking batch
// because their upstream data could not be fetched or scored.
// The batch still proceeds with the remaining instruments.
type PartialBatchError struct {
	// Failed maps instrument symbol to the error that excluded it.
	Failed map[string]error
}

// Error lists the excluded symbols in stable order.
func (e *PartialBatchError) Error() string {
	symbols := make([]string, 0, len(e.Failed))
	for s := range e.Failed {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return fmt.Sprintf("%d instrument(s) excluded from batch: %s", len(e.Failed), strings.Join(symbols, ", "))
}

// Unwrap lets errors.Is match the underlying fetch failure class.
func (e *PartialBatchError) Unwrap() error {
	return ErrUpstreamFetch
}
