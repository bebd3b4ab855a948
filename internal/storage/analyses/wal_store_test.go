package analyses

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func newTestJournal(t *testing.T) *Journal {
	j, err := NewJournal(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func testResult(symbol string, confidence float64) domain.AnalysisResult {
	return domain.AnalysisResult{
		ID:             "run-" + symbol,
		Symbol:         symbol,
		Name:           symbol,
		CurrentPrice:   decimal.NewFromInt(100),
		Confidence:     confidence,
		Recommendation: domain.RecommendationHold,
		Reasons:        []string{"MACD shows bullish momentum"},
		AnalyzedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestJournal_SaveAndReplay(t *testing.T) {
	j := newTestJournal(t)

	require.NoError(t, j.Save(testResult("BTCUSDT", 62)))
	require.NoError(t, j.Save(testResult("ETHUSDT", 48)))
	require.NoError(t, j.Save(testResult("BTCUSDT", 71)))

	results, err := j.Replay()
	require.NoError(t, err)
	require.Len(t, results, 3)

	// append order is preserved
	require.Equal(t, "BTCUSDT", results[0].Symbol)
	require.Equal(t, 62.0, results[0].Confidence)
	require.Equal(t, "ETHUSDT", results[1].Symbol)
	require.Equal(t, 71.0, results[2].Confidence)
}

func TestJournal_SaveRequiresSymbol(t *testing.T) {
	j := newTestJournal(t)

	err := j.Save(domain.AnalysisResult{ID: "run-1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJournal_ReplayEmpty(t *testing.T) {
	j := newTestJournal(t)

	results, err := j.Replay()
	require.NoError(t, err)
	require.Empty(t, results)
}
