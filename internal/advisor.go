package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/finsight/finsight/config"
	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/services/analyzer"
	"github.com/finsight/finsight/internal/storage/analyses"
)

// Advisor runs the analysis engine: the watchlist is analyzed on a fixed
// interval and the opportunity universe is scanned on a cron schedule.
type Advisor struct {
	cfg      config.Config
	analyzer *analyzer.Analyzer
	journal  *analyses.Journal
	logger   *zap.Logger
}

// NewAdvisor wires the platform collaborators, the analyzer and the
// analysis journal for the given client.
func NewAdvisor(conf config.Config, client any, logger *zap.Logger) (*Advisor, error) {
	providers, err := NewMarketProviders(client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create market providers")
	}

	analyzerCfg := analyzer.DefaultConfig()
	analyzerCfg.TopN = conf.TopN
	analyzerCfg.HistoryBars = conf.HistoryBars

	journal, err := analyses.NewJournal(conf.JournalDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open analysis journal")
	}

	return &Advisor{
		cfg:      conf,
		analyzer: analyzer.New(providers.Quotes, providers.History, providers.News, providers.Snapshots, analyzerCfg, logger),
		journal:  journal,
		logger:   logger,
	}, nil
}

// Close releases the journal.
func (a *Advisor) Close() error {
	return a.journal.Close()
}

// Run blocks until the context is cancelled. The watchlist pass and the
// opportunity scan both run once at startup so a fresh instance produces
// output immediately.
func (a *Advisor) Run(ctx context.Context) error {
	a.reportHistory()

	scheduler := cron.New()
	if len(a.cfg.Universe) > 0 {
		if _, err := scheduler.AddFunc(a.cfg.ScanSchedule, func() { a.scanOpportunities(ctx) }); err != nil {
			return errors.Wrapf(err, "invalid scan schedule %q", a.cfg.ScanSchedule)
		}
		scheduler.Start()
		defer scheduler.Stop()

		a.scanOpportunities(ctx)
	}

	if len(a.cfg.Watchlist) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	a.analyzeWatchlist(ctx)

	ticker := time.NewTicker(a.cfg.AnalyzeInterval)
	defer ticker.Stop()

	a.logger.Info("advisor started",
		zap.String("platform", a.cfg.Platform),
		zap.Int("watchlist", len(a.cfg.Watchlist)),
		zap.Duration("interval", a.cfg.AnalyzeInterval))

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("context done, stopping advisor")
			return ctx.Err()
		case <-ticker.C:
			a.analyzeWatchlist(ctx)
		}
	}
}

// reportHistory replays the analysis journal so a restarted advisor shows
// its track record before the first fresh pass. Returns the number of
// replayed analyses.
func (a *Advisor) reportHistory() int {
	results, err := a.journal.Replay()
	if err != nil {
		a.logger.Warn("failed to replay analysis journal", zap.Error(err))
		return 0
	}
	if len(results) == 0 {
		return 0
	}

	last := results[len(results)-1]
	a.logger.Info("replayed journaled analyses",
		zap.Int("count", len(results)),
		zap.String("last_symbol", last.Symbol),
		zap.String("last_recommendation", last.Recommendation.String()),
		zap.Time("last_analyzed_at", last.AnalyzedAt))
	return len(results)
}

// analyzeWatchlist analyzes every watchlist instrument and journals the
// results. A failed instrument is logged and skipped; it never aborts the
// pass for the others.
func (a *Advisor) analyzeWatchlist(ctx context.Context) {
	for _, inst := range a.cfg.Watchlist {
		result, err := a.analyzer.Analyze(ctx, inst)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				a.logger.Warn("not enough history to analyze", zap.String("symbol", inst.Symbol), zap.Error(err))
			} else {
				a.logger.Error("analysis failed", zap.String("symbol", inst.Symbol), zap.Error(err))
			}
			continue
		}

		if err := a.journal.Save(*result); err != nil {
			a.logger.Error("failed to journal analysis", zap.String("symbol", inst.Symbol), zap.Error(err))
		}

		a.logger.Info("watchlist analysis",
			zap.String("symbol", result.Symbol),
			zap.String("price", result.CurrentPrice.String()),
			zap.Float64("confidence", result.Confidence),
			zap.String("recommendation", result.Recommendation.String()),
			zap.Strings("reasons", result.Reasons))
	}
}

// scanOpportunities ranks the universe and projects the configured amount
// across the surviving batch.
func (a *Advisor) scanOpportunities(ctx context.Context) {
	opps, err := a.analyzer.RankOpportunities(ctx, a.cfg.Universe, a.cfg.AssetClass, a.cfg.TopN)

	var partial *domain.PartialBatchError
	switch {
	case errors.As(err, &partial):
		a.logger.Warn("opportunity scan is partial", zap.Error(partial))
	case err != nil:
		a.logger.Error("opportunity scan failed", zap.Error(err))
		return
	}

	projection, err := a.analyzer.ProjectAllocation(opps, a.cfg.InvestAmount, a.cfg.AssetClass)
	if err != nil {
		a.logger.Error("allocation projection failed", zap.Error(err))
		return
	}

	for i, opp := range opps {
		alloc, ok := projection.AllocationFor(opp.Symbol)
		if !ok {
			continue
		}
		a.logger.Info("opportunity",
			zap.Int("rank", i+1),
			zap.String("symbol", opp.Symbol),
			zap.String("category", opp.Category),
			zap.Float64("confidence", opp.Confidence),
			zap.Float64("monthly_upside_pct", opp.MonthlyUpside),
			zap.String("allocation", alloc.Amount.StringFixed(2)),
			zap.String("projected_gain", alloc.ProjectedGain.StringFixed(2)))
	}

	a.logger.Info("allocation projection",
		zap.String("total_amount", a.cfg.InvestAmount.String()),
		zap.String("total_projected_gain", projection.TotalProjectedGain.StringFixed(2)),
		zap.String("risk_level", projection.RiskLevel.String()),
		zap.Float64("diversification", projection.DiversificationScore))
}
