package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"

	"github.com/finsight/finsight/internal/services/analyzer"
	"github.com/finsight/finsight/internal/services/market/collector"
)

// MarketProviders bundles the data collaborators consumed by the analyzer.
// News may be nil: sentiment then degrades to neutral.
type MarketProviders struct {
	Quotes    analyzer.QuoteProvider
	History   analyzer.HistoryProvider
	News      analyzer.NewsProvider
	Snapshots analyzer.SnapshotProvider
}

// NewMarketProviders dispatches to the platform-specific collectors based
// on the client type. This is the single point of truth for platform
// wiring.
func NewMarketProviders(client any) (MarketProviders, error) {
	switch c := client.(type) {
	case *binance.Client:
		col := collector.NewBinanceCollector(c)
		return MarketProviders{Quotes: col, History: col, Snapshots: col}, nil
	case *bybit.Client:
		col := collector.NewBybitCollector(c)
		return MarketProviders{Quotes: col, History: col, Snapshots: col}, nil
	case *collector.SimulatedMarket:
		return MarketProviders{Quotes: c, History: c, News: c, Snapshots: c}, nil
	default:
		return MarketProviders{}, fmt.Errorf("unsupported client type: %T", client)
	}
}
