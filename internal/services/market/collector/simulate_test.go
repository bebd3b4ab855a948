package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulatedMarket_Deterministic(t *testing.T) {
	ctx := context.Background()

	a, err := NewSimulatedMarket(42).GetCandles(ctx, "BTCUSDT", 90)
	require.NoError(t, err)
	b, err := NewSimulatedMarket(42).GetCandles(ctx, "BTCUSDT", 90)
	require.NoError(t, err)

	require.Len(t, a, 90)
	for i := range a {
		require.True(t, a[i].Close.Equal(b[i].Close), "candle %d differs", i)
	}
}

func TestSimulatedMarket_SeedChangesSeries(t *testing.T) {
	ctx := context.Background()

	a, err := NewSimulatedMarket(1).GetCandles(ctx, "BTCUSDT", 90)
	require.NoError(t, err)
	b, err := NewSimulatedMarket(2).GetCandles(ctx, "BTCUSDT", 90)
	require.NoError(t, err)

	require.False(t, a[len(a)-1].Close.Equal(b[len(b)-1].Close))
}

func TestSimulatedMarket_SymbolsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewSimulatedMarket(42)

	// requesting another symbol first must not shift the series
	btcFirst, err := m.GetCandles(ctx, "BTCUSDT", 30)
	require.NoError(t, err)
	_, err = m.GetCandles(ctx, "ETHUSDT", 30)
	require.NoError(t, err)
	btcSecond, err := m.GetCandles(ctx, "BTCUSDT", 30)
	require.NoError(t, err)

	for i := range btcFirst {
		require.True(t, btcFirst[i].Close.Equal(btcSecond[i].Close))
	}
}

func TestSimulatedMarket_CandlesAreWellFormed(t *testing.T) {
	candles, err := NewSimulatedMarket(7).GetCandles(context.Background(), "SOLUSDT", 90)
	require.NoError(t, err)

	for i, c := range candles {
		require.True(t, c.High.GreaterThanOrEqual(c.Low), "candle %d: high below low", i)
		require.True(t, c.High.GreaterThanOrEqual(c.Close), "candle %d: close above high", i)
		require.True(t, c.Low.LessThanOrEqual(c.Open), "candle %d: open below low", i)
		require.True(t, c.Close.IsPositive())
		if i > 0 {
			require.True(t, c.OpenTime.After(candles[i-1].OpenTime))
		}
	}
}

func TestSimulatedMarket_QuoteMatchesLastCandle(t *testing.T) {
	ctx := context.Background()
	m := NewSimulatedMarket(42)

	candles, err := m.GetCandles(ctx, "BTCUSDT", 90)
	require.NoError(t, err)
	quote, err := m.GetQuote(ctx, "BTCUSDT")
	require.NoError(t, err)

	require.Equal(t, "BTCUSDT", quote.Symbol)
	require.True(t, quote.Price.Equal(candles[len(candles)-1].Close))
}

func TestSimulatedMarket_Snapshots(t *testing.T) {
	m := NewSimulatedMarket(42)

	snapshots, err := m.GetSnapshots(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	for _, s := range snapshots {
		require.True(t, s.Price.IsPositive())
		require.True(t, s.MarketCap.IsPositive())
		require.True(t, s.Volume24h.IsPositive())
		require.True(t, s.MaxSupply.GreaterThanOrEqual(s.CirculatingSupply))
	}
}

func TestSimulatedMarket_News(t *testing.T) {
	m := NewSimulatedMarket(42)

	first, err := m.GetNews(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	second, err := m.GetNews(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.LessOrEqual(t, len(first), 3)
}
