// Package config loads the advisor configuration from a YAML file or CLI
// flags, with documented defaults for every knob.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finsight/finsight/internal/domain"
)

// Config is the validated runtime configuration.
type Config struct {
	// Platform selects the market data source: binance, bybit or simulate.
	Platform string
	// AssetClass selects scoring weights and risk thresholds.
	AssetClass domain.AssetClass
	// Watchlist instruments are analyzed individually every AnalyzeInterval.
	Watchlist []domain.Instrument
	// Universe instruments are ranked by the scheduled opportunity scan.
	Universe []domain.Instrument
	// InvestAmount is the total capital projected across ranked opportunities.
	InvestAmount decimal.Decimal
	// TopN truncates the ranked batch.
	TopN int
	// AnalyzeInterval is the watchlist polling period.
	AnalyzeInterval time.Duration
	// ScanSchedule is the cron spec of the opportunity scan.
	ScanSchedule string
	// HistoryBars is the number of daily candles fetched per instrument.
	HistoryBars int
	// SimulationSeed seeds the simulated market; only used when Platform
	// is simulate.
	SimulationSeed int64
	// JournalDir is the analysis WAL directory.
	JournalDir string
}

type instrumentTmp struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type configTmp struct {
	Platform        string          `yaml:"platform"`
	AssetClass      string          `yaml:"asset_class"`
	Watchlist       []instrumentTmp `yaml:"watchlist"`
	Universe        []instrumentTmp `yaml:"universe"`
	InvestAmount    string          `yaml:"invest_amount"`
	TopN            int             `yaml:"top_n,omitempty"`
	AnalyzeInterval time.Duration   `yaml:"analyze_interval,omitempty"`
	ScanSchedule    string          `yaml:"scan_schedule,omitempty"`
	HistoryBars     int             `yaml:"history_bars,omitempty"`
	SimulationSeed  int64           `yaml:"simulation_seed,omitempty"`
	JournalDir      string          `yaml:"journal_dir,omitempty"`
}

const (
	defaultPlatform        = "simulate"
	defaultInvestAmount    = "1000"
	defaultTopN            = 5
	defaultAnalyzeInterval = time.Hour
	defaultScanSchedule    = "0 9 * * MON"
	defaultHistoryBars     = 90
	defaultSimulationSeed  = 42
)

// defaultUniverse is the built-in crypto universe with categories, used
// when no config file provides one.
var defaultUniverse = []domain.Instrument{
	{Symbol: "BTCUSDT", Name: "Bitcoin", Category: "Store of Value"},
	{Symbol: "ETHUSDT", Name: "Ethereum", Category: "Smart Contracts"},
	{Symbol: "BNBUSDT", Name: "BNB", Category: "Exchange Token"},
	{Symbol: "SOLUSDT", Name: "Solana", Category: "Smart Contracts"},
	{Symbol: "ADAUSDT", Name: "Cardano", Category: "Smart Contracts"},
	{Symbol: "XRPUSDT", Name: "XRP", Category: "Payments"},
	{Symbol: "DOTUSDT", Name: "Polkadot", Category: "Layer 1"},
	{Symbol: "AVAXUSDT", Name: "Avalanche", Category: "Layer 1"},
	{Symbol: "MATICUSDT", Name: "Polygon", Category: "Layer 2"},
	{Symbol: "LINKUSDT", Name: "Chainlink", Category: "Oracle"},
}

// Get loads the configuration from --config when given, otherwise from the
// remaining CLI flags and defaults.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", defaultPlatform, "market data platform: binance, bybit or simulate")
	assetClass := flag.String("class", "crypto", "asset class: stock, crypto or tech")
	watch := flag.String("watch", "BTCUSDT,ETHUSDT", "comma-separated watchlist symbols")
	amount := flag.String("amount", defaultInvestAmount, "total investable amount")
	topN := flag.Int("top", defaultTopN, "number of top opportunities to keep")
	interval := flag.Duration("interval", defaultAnalyzeInterval, "watchlist analysis interval")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	investAmount, err := decimal.NewFromString(*amount)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --amount provided, --amount=%s", *amount)
	}

	class, ok := domain.ParseAssetClass(*assetClass)
	if !ok {
		return Config{}, fmt.Errorf("invalid --class provided, --class=%s", *assetClass)
	}

	var watchlist []domain.Instrument
	for _, symbol := range strings.Split(*watch, ",") {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}
		watchlist = append(watchlist, instrumentForSymbol(symbol))
	}

	conf := Config{
		Platform:        *platform,
		AssetClass:      class,
		Watchlist:       watchlist,
		Universe:        defaultUniverse,
		InvestAmount:    investAmount,
		TopN:            *topN,
		AnalyzeInterval: *interval,
		ScanSchedule:    defaultScanSchedule,
		HistoryBars:     defaultHistoryBars,
		SimulationSeed:  defaultSimulationSeed,
	}
	return conf, conf.validate()
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if tmp.Platform == "" {
		tmp.Platform = defaultPlatform
	}
	if tmp.InvestAmount == "" {
		tmp.InvestAmount = defaultInvestAmount
	}
	if tmp.TopN == 0 {
		tmp.TopN = defaultTopN
	}
	if tmp.AnalyzeInterval == 0 {
		tmp.AnalyzeInterval = defaultAnalyzeInterval
	}
	if tmp.ScanSchedule == "" {
		tmp.ScanSchedule = defaultScanSchedule
	}
	if tmp.HistoryBars == 0 {
		tmp.HistoryBars = defaultHistoryBars
	}
	if tmp.SimulationSeed == 0 {
		tmp.SimulationSeed = defaultSimulationSeed
	}

	investAmount, err := decimal.NewFromString(tmp.InvestAmount)
	if err != nil {
		return Config{}, fmt.Errorf("invalid invest_amount %q: %w", tmp.InvestAmount, err)
	}

	class := domain.AssetCrypto
	if tmp.AssetClass != "" {
		var ok bool
		class, ok = domain.ParseAssetClass(tmp.AssetClass)
		if !ok {
			return Config{}, fmt.Errorf("invalid asset_class %q", tmp.AssetClass)
		}
	}

	universe := convertInstruments(tmp.Universe)
	if len(universe) == 0 {
		universe = defaultUniverse
	}

	conf := Config{
		Platform:        tmp.Platform,
		AssetClass:      class,
		Watchlist:       convertInstruments(tmp.Watchlist),
		Universe:        universe,
		InvestAmount:    investAmount,
		TopN:            tmp.TopN,
		AnalyzeInterval: tmp.AnalyzeInterval,
		ScanSchedule:    tmp.ScanSchedule,
		HistoryBars:     tmp.HistoryBars,
		SimulationSeed:  tmp.SimulationSeed,
		JournalDir:      tmp.JournalDir,
	}
	return conf, conf.validate()
}

func (c Config) validate() error {
	switch c.Platform {
	case "binance", "bybit", "simulate":
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}
	if !c.InvestAmount.IsPositive() {
		return fmt.Errorf("invest amount must be positive, got %s", c.InvestAmount.String())
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	if len(c.Watchlist) == 0 && len(c.Universe) == 0 {
		return fmt.Errorf("config needs a watchlist or a universe")
	}
	return nil
}

func convertInstruments(tmp []instrumentTmp) []domain.Instrument {
	out := make([]domain.Instrument, 0, len(tmp))
	for _, i := range tmp {
		if i.Symbol == "" {
			continue
		}
		out = append(out, domain.Instrument{Symbol: i.Symbol, Name: i.Name, Category: i.Category})
	}
	return out
}

// instrumentForSymbol resolves a bare CLI symbol against the built-in
// universe to recover its name and category.
func instrumentForSymbol(symbol string) domain.Instrument {
	for _, inst := range defaultUniverse {
		if inst.Symbol == symbol {
			return inst
		}
	}
	return domain.Instrument{Symbol: symbol, Name: symbol}
}
