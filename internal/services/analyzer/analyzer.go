// Package analyzer orchestrates market data fetches, indicator computation
// and scoring into analysis results, opportunity rankings and allocation
// projections.
package analyzer

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/services/allocation"
	"github.com/finsight/finsight/internal/services/market/indicators"
	"github.com/finsight/finsight/internal/services/scoring"
)

// QuoteProvider fetches the current quote for an instrument.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (domain.Quote, error)
}

// HistoryProvider fetches the trailing candle history for an instrument,
// oldest first.
type HistoryProvider interface {
	GetCandles(ctx context.Context, symbol string, limit int) ([]domain.MarketCandle, error)
}

// NewsProvider fetches classified headlines for an instrument. Optional:
// a nil provider or a failing fetch degrades sentiment to neutral.
type NewsProvider interface {
	GetNews(ctx context.Context, symbol string) ([]domain.NewsItem, error)
}

// SnapshotProvider fetches market-level snapshots for a set of instruments.
type SnapshotProvider interface {
	GetSnapshots(ctx context.Context, symbols []string) ([]domain.MarketSnapshot, error)
}

// Config holds the orchestration parameters and the weight schemes that
// blend sub-scores per asset class.
type Config struct {
	// HistoryBars is the number of daily candles fetched per instrument.
	HistoryBars int
	// TopN truncates ranked opportunity batches.
	TopN int
	// MaxParallel bounds concurrent per-instrument scoring in batch flows.
	MaxParallel int
	// TechnicalWeight and SentimentWeight blend the single-asset
	// confidence. They sum to 1.
	TechnicalWeight float64
	SentimentWeight float64
	// RankWeights blend confidence and sub-scores for batch ranking and
	// allocation.
	RankWeights allocation.Weights

	Indicators indicators.Config
	Scoring    scoring.Config

	// CryptoAllocation and EquityAllocation parameterize the projector
	// per asset class.
	CryptoAllocation allocation.Config
	EquityAllocation allocation.Config
}

// DefaultConfig returns the documented default parameterization.
func DefaultConfig() Config {
	return Config{
		HistoryBars:      90,
		TopN:             5,
		MaxParallel:      4,
		TechnicalWeight:  0.7,
		SentimentWeight:  0.3,
		RankWeights:      allocation.Weights{Confidence: 0.4, Network: 0.3, Market: 0.3},
		Indicators:       indicators.DefaultConfig(),
		Scoring:          scoring.DefaultConfig(),
		CryptoAllocation: allocation.DefaultCryptoConfig(),
		EquityAllocation: allocation.DefaultEquityConfig(),
	}
}

// Analyzer coordinates the external collaborators and the pure computation
// layers. All computation is deterministic given fetched inputs.
type Analyzer struct {
	quotes    QuoteProvider
	history   HistoryProvider
	news      NewsProvider
	snapshots SnapshotProvider
	cfg       Config
	logger    *zap.Logger
}

// New creates an analyzer. news may be nil.
func New(quotes QuoteProvider, history HistoryProvider, news NewsProvider, snapshots SnapshotProvider,
	cfg Config, logger *zap.Logger) *Analyzer {

	return &Analyzer{
		quotes:    quotes,
		history:   history,
		news:      news,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger,
	}
}

// Analyze runs a full single-instrument analysis. The quote, history and
// news fetches run concurrently; a failed quote or history fetch aborts the
// analysis with no partial result, a failed news fetch only degrades the
// sentiment sub-score to neutral.
func (a *Analyzer) Analyze(ctx context.Context, instrument domain.Instrument) (*domain.AnalysisResult, error) {
	var (
		quote   domain.Quote
		candles []domain.MarketCandle
		news    []domain.NewsItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = a.quotes.GetQuote(gctx, instrument.Symbol)
		if err != nil {
			return errors.Wrapf(domain.ErrUpstreamFetch, "quote for %s: %v", instrument.Symbol, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		candles, err = a.history.GetCandles(gctx, instrument.Symbol, a.cfg.HistoryBars)
		if err != nil {
			return errors.Wrapf(domain.ErrUpstreamFetch, "history for %s: %v", instrument.Symbol, err)
		}
		return nil
	})
	if a.news != nil {
		g.Go(func() error {
			items, err := a.news.GetNews(gctx, instrument.Symbol)
			if err != nil {
				a.logger.Warn("news fetch failed, sentiment degrades to neutral",
					zap.String("symbol", instrument.Symbol), zap.Error(err))
				return nil
			}
			news = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ind, err := indicators.Calculate(domain.Closes(candles), a.cfg.Indicators)
	if err != nil {
		return nil, err
	}

	price, _ := quote.Price.Float64()
	technical, techReasons := scoring.TechnicalScore(ind, price, a.cfg.Scoring)
	sentiment, sentReasons := scoring.SentimentScore(news)

	confidence, err := scoring.Confidence(
		scoring.WeightedScore{Score: technical, Weight: a.cfg.TechnicalWeight},
		scoring.WeightedScore{Score: sentiment, Weight: a.cfg.SentimentWeight},
	)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		ID:             uuid.NewString(),
		Symbol:         instrument.Symbol,
		Name:           instrument.Name,
		CurrentPrice:   quote.Price,
		Confidence:     confidence,
		Recommendation: scoring.Recommend(confidence, a.cfg.Scoring),
		Indicators:     ind,
		Reasons:        append(techReasons, sentReasons...),
		AnalyzedAt:     time.Now(),
	}

	a.logger.Info("analysis completed",
		zap.String("symbol", instrument.Symbol),
		zap.Float64("confidence", confidence),
		zap.String("recommendation", result.Recommendation.String()))

	return result, nil
}

// RankOpportunities scores every instrument of the universe, sorts them by
// composite score descending and truncates to topN. Instruments whose
// upstream data cannot be fetched are excluded, never scored with fabricated
// values; exclusions are reported through a *domain.PartialBatchError
// returned alongside the surviving batch.
func (a *Analyzer) RankOpportunities(ctx context.Context, universe []domain.Instrument,
	class domain.AssetClass, topN int) ([]domain.Opportunity, error) {

	if len(universe) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty universe")
	}
	if topN <= 0 {
		topN = a.cfg.TopN
	}

	symbols := make([]string, len(universe))
	for i, inst := range universe {
		symbols[i] = inst.Symbol
	}
	snapshots, err := a.snapshots.GetSnapshots(ctx, symbols)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamFetch, "market snapshots: %v", err)
	}
	bySymbol := make(map[string]domain.MarketSnapshot, len(snapshots))
	for _, s := range snapshots {
		bySymbol[s.Symbol] = s
	}

	results := make([]*domain.Opportunity, len(universe))
	failed := make(map[string]error)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxParallel)
	for i, inst := range universe {
		g.Go(func() error {
			snap, ok := bySymbol[inst.Symbol]
			if !ok {
				mu.Lock()
				failed[inst.Symbol] = errors.Wrap(domain.ErrUpstreamFetch, "no market snapshot")
				mu.Unlock()
				return nil
			}

			opp, err := a.buildOpportunity(gctx, inst, snap, class)
			if err != nil {
				a.logger.Warn("instrument excluded from batch",
					zap.String("symbol", inst.Symbol), zap.Error(err))
				mu.Lock()
				failed[inst.Symbol] = err
				mu.Unlock()
				return nil
			}

			results[i] = opp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opps := make([]domain.Opportunity, 0, len(universe))
	for _, opp := range results {
		if opp != nil {
			opps = append(opps, *opp)
		}
	}
	if len(opps) == 0 {
		return nil, errors.Wrapf(domain.ErrUpstreamFetch, "all %d instruments failed to score", len(universe))
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return allocation.CompositeScore(opps[i], a.cfg.RankWeights) > allocation.CompositeScore(opps[j], a.cfg.RankWeights)
	})
	if len(opps) > topN {
		opps = opps[:topN]
	}

	if len(failed) > 0 {
		return opps, &domain.PartialBatchError{Failed: failed}
	}
	return opps, nil
}

// ProjectAllocation distributes totalAmount across a ranked batch using the
// asset class's projector configuration.
func (a *Analyzer) ProjectAllocation(opps []domain.Opportunity, totalAmount decimal.Decimal,
	class domain.AssetClass) (domain.AllocationProjection, error) {

	cfg := a.cfg.EquityAllocation
	if class == domain.AssetCrypto {
		cfg = a.cfg.CryptoAllocation
	}
	return allocation.NewProjector(cfg).Project(opps, totalAmount)
}

// daily-candle distances approximating one week and one month
const (
	weeklyChangeBars  = 7
	monthlyChangeBars = 30
)

// changeOverBars is the percent change of the last close against the close
// bars candles earlier. Zero when the series is too short.
func changeOverBars(closes []float64, bars int) float64 {
	if len(closes) <= bars {
		return 0
	}
	prev := closes[len(closes)-1-bars]
	if prev == 0 {
		return 0
	}
	return (closes[len(closes)-1] - prev) / prev * 100
}

// buildOpportunity computes one batch candidate from real market data.
func (a *Analyzer) buildOpportunity(ctx context.Context, inst domain.Instrument,
	snap domain.MarketSnapshot, class domain.AssetClass) (*domain.Opportunity, error) {

	candles, err := a.history.GetCandles(ctx, inst.Symbol, a.cfg.HistoryBars)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamFetch, "history for %s: %v", inst.Symbol, err)
	}
	closes := domain.Closes(candles)

	rsi, err := indicators.RSI(closes, a.cfg.Indicators.RSIPeriod)
	if err != nil {
		return nil, err
	}
	trend, err := indicators.DetectTrend(closes)
	if err != nil {
		return nil, err
	}
	volatility, err := indicators.VolatilityPercent(candles, a.cfg.Indicators.RSIPeriod)
	if err != nil {
		return nil, err
	}

	weeklyChange := changeOverBars(closes, weeklyChangeBars)

	// the Network/Market sub-score slots carry network health and category
	// fit for crypto, growth momentum and sector innovation for equities
	var (
		technical   float64
		network     float64
		market      float64
		techReasons []string
		reasons     []string
		risks       []string
	)
	if class == domain.AssetCrypto {
		network = scoring.NetworkScore(snap.Volume24h, snap.MarketCap)
		market = scoring.MarketScore(inst.Category, snap.CirculatingSupply, snap.MaxSupply)
		technical, techReasons = scoring.CryptoTechnicalScore(rsi, volatility, trend, a.cfg.Scoring)
		reasons = scoring.CryptoReasons(technical, network, market, techReasons)
		risks = scoring.CryptoRisks(inst.Category, volatility)
	} else {
		network = scoring.GrowthScore(weeklyChange, changeOverBars(closes, monthlyChangeBars))
		market = scoring.InnovationScore(inst.Category)
		ind, err := indicators.Calculate(closes, a.cfg.Indicators)
		if err != nil {
			return nil, err
		}
		price, _ := snap.Price.Float64()
		technical, techReasons = scoring.TechnicalScore(ind, price, a.cfg.Scoring)
		reasons = append(scoring.EquityReasons(technical, network, market), techReasons...)
		risks = scoring.EquityRisks(inst.Category)
	}

	confidence, err := scoring.Confidence(
		scoring.WeightedScore{Score: technical, Weight: a.cfg.RankWeights.Confidence},
		scoring.WeightedScore{Score: network, Weight: a.cfg.RankWeights.Network},
		scoring.WeightedScore{Score: market, Weight: a.cfg.RankWeights.Market},
	)
	if err != nil {
		return nil, err
	}

	dispersion := math.Abs(weeklyChange)
	if class == domain.AssetCrypto {
		dispersion = volatility
	}

	return &domain.Opportunity{
		Symbol:        inst.Symbol,
		Name:          inst.Name,
		Category:      inst.Category,
		CurrentPrice:  snap.Price,
		Confidence:    confidence,
		SubScores:     domain.SubScores{Technical: technical, Network: network, Market: market},
		MonthlyUpside: scoring.MonthlyUpside(inst.Category, rsi, trend),
		Dispersion:    dispersion,
		Reasons:       reasons,
		Risks:         risks,
	}, nil
}
