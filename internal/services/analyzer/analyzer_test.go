package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
)

// fakeMarket implements every provider interface with canned data and
// per-symbol failure injection.
type fakeMarket struct {
	quotes       map[string]domain.Quote
	candles      map[string][]domain.MarketCandle
	news         map[string][]domain.NewsItem
	snapshots    []domain.MarketSnapshot
	quoteErr     error
	historyErr   map[string]error
	newsErr      error
	snapshotsErr error
}

func (f *fakeMarket) GetQuote(_ context.Context, symbol string) (domain.Quote, error) {
	if f.quoteErr != nil {
		return domain.Quote{}, f.quoteErr
	}
	return f.quotes[symbol], nil
}

func (f *fakeMarket) GetCandles(_ context.Context, symbol string, _ int) ([]domain.MarketCandle, error) {
	if err := f.historyErr[symbol]; err != nil {
		return nil, err
	}
	return f.candles[symbol], nil
}

func (f *fakeMarket) GetNews(_ context.Context, symbol string) ([]domain.NewsItem, error) {
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return f.news[symbol], nil
}

func (f *fakeMarket) GetSnapshots(_ context.Context, _ []string) ([]domain.MarketSnapshot, error) {
	if f.snapshotsErr != nil {
		return nil, f.snapshotsErr
	}
	return f.snapshots, nil
}

// risingCandles builds a steadily climbing daily series, oldest first.
func risingCandles(n int, start, step float64) []domain.MarketCandle {
	now := time.Now().Truncate(24 * time.Hour)
	candles := make([]domain.MarketCandle, n)
	price := start
	for i := range candles {
		open := price
		price += step
		candles[i] = domain.MarketCandle{
			OpenTime:  now.AddDate(0, 0, i-n),
			Open:      decimal.NewFromFloat(open),
			High:      decimal.NewFromFloat(price + 1),
			Low:       decimal.NewFromFloat(open - 1),
			Close:     decimal.NewFromFloat(price),
			Volume:    decimal.NewFromInt(10_000),
			CloseTime: now.AddDate(0, 0, i-n+1),
		}
	}
	return candles
}

func snapshot(symbol string, price, volume24h float64) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Symbol:            symbol,
		Price:             decimal.NewFromFloat(price),
		Volume24h:         decimal.NewFromFloat(volume24h),
		MarketCap:         decimal.NewFromInt(1_000_000),
		CirculatingSupply: decimal.NewFromInt(400),
		MaxSupply:         decimal.NewFromInt(1000),
	}
}

func newTestAnalyzer(market *fakeMarket, withNews bool) *Analyzer {
	var news NewsProvider
	if withNews {
		news = market
	}
	return New(market, market, news, market, DefaultConfig(), zap.NewNop())
}

func TestAnalyze(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		quotes:  map[string]domain.Quote{"AAPL": {Symbol: "AAPL", Price: candles[len(candles)-1].Close}},
		candles: map[string][]domain.MarketCandle{"AAPL": candles},
	}

	result, err := newTestAnalyzer(market, false).Analyze(context.Background(), domain.Instrument{Symbol: "AAPL", Name: "Apple"})
	require.NoError(t, err)

	require.NotEmpty(t, result.ID)
	require.Equal(t, "AAPL", result.Symbol)
	require.Equal(t, "Apple", result.Name)
	require.True(t, result.CurrentPrice.Equal(candles[len(candles)-1].Close))
	require.False(t, result.AnalyzedAt.IsZero())

	// a relentless climb maxes out RSI but MACD stays bullish:
	// technical 45, neutral sentiment 50, blended 70/30 and rounded
	require.Equal(t, 100.0, result.Indicators.RSI)
	require.Equal(t, 47.0, result.Confidence)
	require.Equal(t, domain.RecommendationHold, result.Recommendation)
	require.Contains(t, result.Reasons, "RSI indicates overbought condition")
	require.Contains(t, result.Reasons, "MACD shows bullish momentum")
}

func TestAnalyze_QuoteFailureAborts(t *testing.T) {
	market := &fakeMarket{
		quoteErr: errors.New("exchange unreachable"),
		candles:  map[string][]domain.MarketCandle{"AAPL": risingCandles(90, 100, 1)},
	}

	_, err := newTestAnalyzer(market, false).Analyze(context.Background(), domain.Instrument{Symbol: "AAPL"})
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestAnalyze_HistoryFailureAborts(t *testing.T) {
	market := &fakeMarket{
		quotes:     map[string]domain.Quote{"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(100)}},
		historyErr: map[string]error{"AAPL": errors.New("exchange unreachable")},
	}

	_, err := newTestAnalyzer(market, false).Analyze(context.Background(), domain.Instrument{Symbol: "AAPL"})
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestAnalyze_NewsFailureDegradesToNeutral(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		quotes:  map[string]domain.Quote{"AAPL": {Symbol: "AAPL", Price: candles[len(candles)-1].Close}},
		candles: map[string][]domain.MarketCandle{"AAPL": candles},
		newsErr: errors.New("feed down"),
	}

	result, err := newTestAnalyzer(market, true).Analyze(context.Background(), domain.Instrument{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Equal(t, 47.0, result.Confidence)
}

func TestAnalyze_ShortHistory(t *testing.T) {
	market := &fakeMarket{
		quotes:  map[string]domain.Quote{"AAPL": {Symbol: "AAPL", Price: decimal.NewFromInt(100)}},
		candles: map[string][]domain.MarketCandle{"AAPL": risingCandles(20, 100, 1)},
	}

	_, err := newTestAnalyzer(market, false).Analyze(context.Background(), domain.Instrument{Symbol: "AAPL"})
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func cryptoUniverse() []domain.Instrument {
	return []domain.Instrument{
		{Symbol: "AAA", Name: "Alpha", Category: "Layer 1"},
		{Symbol: "BBB", Name: "Beta", Category: "Layer 1"},
		{Symbol: "CCC", Name: "Gamma", Category: "Layer 1"},
	}
}

func TestRankOpportunities_SortsByCompositeScore(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		candles: map[string][]domain.MarketCandle{"AAA": candles, "BBB": candles, "CCC": candles},
		snapshots: []domain.MarketSnapshot{
			// identical technicals, liquidity decides the ranking
			snapshot("AAA", 190, 250_000),
			snapshot("BBB", 190, 50_000),
			snapshot("CCC", 190, 5_000),
		},
	}

	opps, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 3)
	require.NoError(t, err)
	require.Len(t, opps, 3)
	require.Equal(t, "AAA", opps[0].Symbol)
	require.Equal(t, "BBB", opps[1].Symbol)
	require.Equal(t, "CCC", opps[2].Symbol)
	require.Greater(t, opps[0].SubScores.Network, opps[2].SubScores.Network)
	require.NotEmpty(t, opps[0].Reasons)
	require.NotEmpty(t, opps[0].Risks)
}

func TestRankOpportunities_TruncatesToTopN(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		candles: map[string][]domain.MarketCandle{"AAA": candles, "BBB": candles, "CCC": candles},
		snapshots: []domain.MarketSnapshot{
			snapshot("AAA", 190, 250_000),
			snapshot("BBB", 190, 50_000),
			snapshot("CCC", 190, 5_000),
		},
	}

	opps, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 2)
	require.NoError(t, err)
	require.Len(t, opps, 2)
	require.Equal(t, "AAA", opps[0].Symbol)
}

func TestRankOpportunities_ExcludesFailedInstruments(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		candles:    map[string][]domain.MarketCandle{"AAA": candles, "CCC": candles},
		historyErr: map[string]error{"BBB": errors.New("exchange unreachable")},
		snapshots: []domain.MarketSnapshot{
			snapshot("AAA", 190, 250_000),
			snapshot("BBB", 190, 50_000),
			snapshot("CCC", 190, 5_000),
		},
	}

	opps, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 3)
	require.Len(t, opps, 2)

	var partial *domain.PartialBatchError
	require.ErrorAs(t, err, &partial)
	require.Contains(t, partial.Failed, "BBB")
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestRankOpportunities_MissingSnapshotExcludes(t *testing.T) {
	candles := risingCandles(90, 100, 1)
	market := &fakeMarket{
		candles: map[string][]domain.MarketCandle{"AAA": candles, "BBB": candles, "CCC": candles},
		snapshots: []domain.MarketSnapshot{
			snapshot("AAA", 190, 250_000),
			snapshot("CCC", 190, 5_000),
		},
	}

	opps, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 3)
	require.Len(t, opps, 2)

	var partial *domain.PartialBatchError
	require.ErrorAs(t, err, &partial)
	require.Contains(t, partial.Failed, "BBB")
}

// equitySnapshot mimics an exchange snapshot: no capitalization or supply.
func equitySnapshot(symbol string, price, volume24h float64) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Volume24h: decimal.NewFromFloat(volume24h),
	}
}

func TestRankOpportunities_EquityBatch(t *testing.T) {
	universe := []domain.Instrument{
		{Symbol: "GROW", Name: "Growco", Category: "Software"},
		{Symbol: "FLAT", Name: "Flatco", Category: "Software"},
	}
	market := &fakeMarket{
		candles: map[string][]domain.MarketCandle{
			"GROW": risingCandles(90, 100, 1),
			"FLAT": risingCandles(90, 100, 0),
		},
		snapshots: []domain.MarketSnapshot{
			equitySnapshot("GROW", 190, 50_000),
			equitySnapshot("FLAT", 100, 50_000),
		},
	}

	opps, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), universe, domain.AssetTech, 2)
	require.NoError(t, err)
	require.Len(t, opps, 2)

	// price momentum carries the growth sub-score
	require.Equal(t, "GROW", opps[0].Symbol)
	require.Equal(t, 80.0, opps[0].SubScores.Network) // monthly +18.75%, weekly +3.83%
	require.Equal(t, 50.0, opps[1].SubScores.Network)

	// sector positioning carries the innovation sub-score
	require.Equal(t, 75.0, opps[0].SubScores.Market)
	require.Equal(t, 75.0, opps[1].SubScores.Market)

	// dispersion is |weekly change|, not ATR volatility
	require.InDelta(t, 700.0/183, opps[0].Dispersion, 1e-9)
	require.InDelta(t, 0, opps[1].Dispersion, 1e-9)

	require.Contains(t, opps[0].Reasons, "strong expected revenue growth")
	require.Contains(t, opps[0].Risks, "intense competition in software development")
}

func TestRankOpportunities_AllFailed(t *testing.T) {
	market := &fakeMarket{
		historyErr: map[string]error{
			"AAA": errors.New("down"),
			"BBB": errors.New("down"),
			"CCC": errors.New("down"),
		},
		snapshots: []domain.MarketSnapshot{
			snapshot("AAA", 190, 250_000),
			snapshot("BBB", 190, 50_000),
			snapshot("CCC", 190, 5_000),
		},
	}

	_, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 3)
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestRankOpportunities_EmptyUniverse(t *testing.T) {
	_, err := newTestAnalyzer(&fakeMarket{}, false).RankOpportunities(context.Background(), nil, domain.AssetCrypto, 3)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRankOpportunities_SnapshotFetchFails(t *testing.T) {
	market := &fakeMarket{snapshotsErr: errors.New("down")}

	_, err := newTestAnalyzer(market, false).RankOpportunities(context.Background(), cryptoUniverse(), domain.AssetCrypto, 3)
	require.ErrorIs(t, err, domain.ErrUpstreamFetch)
}

func TestProjectAllocation(t *testing.T) {
	a := newTestAnalyzer(&fakeMarket{}, false)

	opps := []domain.Opportunity{
		{Symbol: "AAA", Category: "Layer 1", Confidence: 80, SubScores: domain.SubScores{Network: 80, Market: 80}, MonthlyUpside: 5, Dispersion: 10},
		{Symbol: "BBB", Category: "Payments", Confidence: 40, SubScores: domain.SubScores{Network: 40, Market: 40}, MonthlyUpside: 5, Dispersion: 10},
	}

	proj, err := a.ProjectAllocation(opps, decimal.NewFromInt(900), domain.AssetCrypto)
	require.NoError(t, err)
	require.Len(t, proj.Allocations, 2)

	amountA, _ := proj.Allocations[0].Amount.Float64()
	require.InDelta(t, 600, amountA, 1e-6)
	require.Equal(t, domain.RiskLow, proj.RiskLevel)
	require.InDelta(t, 100, proj.DiversificationScore, 1e-9)
}
