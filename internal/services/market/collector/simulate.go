package collector

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
)

// SimulatedMarket generates deterministic synthetic market data from a
// seed. It exists only for the "simulate" platform (demos and offline
// runs); default platforms always compute from real exchange data.
// The same seed and symbol always produce the same series.
type SimulatedMarket struct {
	seed int64
}

// NewSimulatedMarket creates a simulated market for the given seed.
func NewSimulatedMarket(seed int64) *SimulatedMarket {
	return &SimulatedMarket{seed: seed}
}

// rng derives an independent generator per symbol so results do not depend
// on the order symbols are requested in.
func (m *SimulatedMarket) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return rand.New(rand.NewSource(m.seed ^ int64(h.Sum64())))
}

// GetCandles generates a bounded random walk of daily candles, oldest first.
func (m *SimulatedMarket) GetCandles(_ context.Context, symbol string, limit int) ([]domain.MarketCandle, error) {
	rng := m.rng(symbol)

	price := 20 + rng.Float64()*480
	drift := (rng.Float64() - 0.45) * 0.004 // slight bias in either direction

	now := time.Now().Truncate(24 * time.Hour)
	candles := make([]domain.MarketCandle, limit)
	for i := range candles {
		open := price
		change := drift + (rng.Float64()-0.5)*0.04
		price = math.Max(open*(1+change), 0.01)

		high := math.Max(open, price) * (1 + rng.Float64()*0.01)
		low := math.Min(open, price) * (1 - rng.Float64()*0.01)
		volume := 1e5 + rng.Float64()*9e5

		openTime := now.AddDate(0, 0, i-limit)
		candles[i] = domain.MarketCandle{
			OpenTime:  openTime,
			Open:      decimal.NewFromFloat(open),
			High:      decimal.NewFromFloat(high),
			Low:       decimal.NewFromFloat(low),
			Close:     decimal.NewFromFloat(price),
			Volume:    decimal.NewFromFloat(volume),
			CloseTime: openTime.Add(24 * time.Hour),
		}
	}

	return candles, nil
}

// quoteHistoryBars keeps the quote consistent with GetCandles output.
const quoteHistoryBars = 90

// GetQuote derives the quote from the tail of the simulated candle series.
func (m *SimulatedMarket) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	candles, err := m.GetCandles(ctx, symbol, quoteHistoryBars)
	if err != nil {
		return domain.Quote{}, err
	}

	last := candles[len(candles)-1]
	return domain.Quote{
		Symbol: symbol,
		Price:  last.Close,
		High:   last.High,
		Low:    last.Low,
		Volume: last.Volume,
	}, nil
}

// GetSnapshots generates market snapshots consistent with the candle
// series, including synthetic capitalization and supply figures.
func (m *SimulatedMarket) GetSnapshots(ctx context.Context, symbols []string) ([]domain.MarketSnapshot, error) {
	snapshots := make([]domain.MarketSnapshot, 0, len(symbols))

	for _, symbol := range symbols {
		candles, err := m.GetCandles(ctx, symbol, quoteHistoryBars)
		if err != nil {
			return nil, err
		}
		rng := m.rng(symbol + "/snapshot")

		last := candles[len(candles)-1]
		prev := candles[len(candles)-2]

		lastClose, _ := last.Close.Float64()
		prevClose, _ := prev.Close.Float64()
		changePct := 0.0
		if prevClose != 0 {
			changePct = (lastClose - prevClose) / prevClose * 100
		}

		maxSupply := 1e6 + rng.Float64()*2e6
		circulating := maxSupply * (0.3 + rng.Float64()*0.65)
		marketCap := lastClose * circulating
		volume24h := marketCap * (0.005 + rng.Float64()*0.25)

		snapshots = append(snapshots, domain.MarketSnapshot{
			Symbol:            symbol,
			Price:             last.Close,
			Volume24h:         decimal.NewFromFloat(volume24h),
			MarketCap:         decimal.NewFromFloat(marketCap),
			ChangePct24h:      changePct,
			CirculatingSupply: decimal.NewFromFloat(circulating),
			MaxSupply:         decimal.NewFromFloat(maxSupply),
		})
	}

	return snapshots, nil
}

// canned headline templates for the simulated news feed
var simulatedHeadlines = []struct {
	title     string
	sentiment domain.Sentiment
}{
	{"quarterly results beat expectations", domain.SentimentPositive},
	{"new strategic partnership announced", domain.SentimentPositive},
	{"analysts raise price target", domain.SentimentPositive},
	{"regulatory inquiry opened", domain.SentimentNegative},
	{"guidance cut for next quarter", domain.SentimentNegative},
	{"trading volumes in line with seasonal averages", domain.SentimentNeutral},
}

// GetNews generates a deterministic headline feed for the symbol.
func (m *SimulatedMarket) GetNews(_ context.Context, symbol string) ([]domain.NewsItem, error) {
	rng := m.rng(symbol + "/news")

	count := rng.Intn(4)
	items := make([]domain.NewsItem, count)
	for i := range items {
		h := simulatedHeadlines[rng.Intn(len(simulatedHeadlines))]
		items[i] = domain.NewsItem{
			Title:     symbol + ": " + h.title,
			Sentiment: h.sentiment,
		}
	}
	return items, nil
}
