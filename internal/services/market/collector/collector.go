// Package collector implements the market data providers consumed by the
// analyzer: exchange-backed collectors for Binance and Bybit, and a seeded
// simulator for demo mode.
package collector

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/pkg/retrier"
)

// candleInterval is the kline timeframe used for analysis history.
const candleInterval = "1d"

// BinanceCollector fetches quotes, candle history and market snapshots from
// the Binance public API. Retries happen here, at the collaborator
// boundary; the analysis core never retries.
type BinanceCollector struct {
	client  *binance.Client
	retrier *retrier.Retrier
}

// NewBinanceCollector creates a Binance-backed collector.
func NewBinanceCollector(client *binance.Client) *BinanceCollector {
	return &BinanceCollector{
		client:  client,
		retrier: retrier.New(),
	}
}

// GetQuote fetches the current quote from 24h ticker statistics.
func (c *BinanceCollector) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	stats, err := c.fetchStats(ctx, symbol)
	if err != nil {
		return domain.Quote{}, err
	}

	price, err := decimal.NewFromString(stats.LastPrice)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse last price for %s", symbol)
	}
	high, err := decimal.NewFromString(stats.HighPrice)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse high price for %s", symbol)
	}
	low, err := decimal.NewFromString(stats.LowPrice)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse low price for %s", symbol)
	}
	volume, err := decimal.NewFromString(stats.Volume)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse volume for %s", symbol)
	}

	return domain.Quote{
		Symbol: symbol,
		Price:  price,
		High:   high,
		Low:    low,
		Volume: volume,
	}, nil
}

// GetCandles fetches daily klines, oldest first.
func (c *BinanceCollector) GetCandles(ctx context.Context, symbol string, limit int) ([]domain.MarketCandle, error) {
	klines, err := retrier.DoWithData(ctx, c.retrier, func(ctx context.Context) ([]*binance.Kline, error) {
		return c.client.NewKlinesService().
			Symbol(symbol).
			Interval(candleInterval).
			Limit(limit).
			Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Binance for %s", symbol)
	}

	result := make([]domain.MarketCandle, len(klines))
	for i, k := range klines {
		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse open price at index %d", i)
		}
		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse high price at index %d", i)
		}
		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse low price at index %d", i)
		}
		close, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse close price at index %d", i)
		}
		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse volume at index %d", i)
		}

		result[i] = domain.MarketCandle{
			OpenTime:  time.Unix(0, k.OpenTime*int64(time.Millisecond)),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: time.Unix(0, k.CloseTime*int64(time.Millisecond)),
		}
	}

	return result, nil
}

// GetSnapshots fetches 24h market snapshots. Binance does not report
// capitalization or supply, so those fields stay zero and the scoring
// layer treats the affected sub-scores as neutral.
func (c *BinanceCollector) GetSnapshots(ctx context.Context, symbols []string) ([]domain.MarketSnapshot, error) {
	snapshots := make([]domain.MarketSnapshot, 0, len(symbols))

	for _, symbol := range symbols {
		stats, err := c.fetchStats(ctx, symbol)
		if err != nil {
			return nil, err
		}

		price, err := decimal.NewFromString(stats.LastPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse last price for %s", symbol)
		}
		volume, err := decimal.NewFromString(stats.QuoteVolume)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse quote volume for %s", symbol)
		}
		changePct, err := decimal.NewFromString(stats.PriceChangePercent)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse price change for %s", symbol)
		}
		change, _ := changePct.Float64()

		snapshots = append(snapshots, domain.MarketSnapshot{
			Symbol:       symbol,
			Price:        price,
			Volume24h:    volume,
			ChangePct24h: change,
		})
	}

	return snapshots, nil
}

func (c *BinanceCollector) fetchStats(ctx context.Context, symbol string) (*binance.PriceChangeStats, error) {
	stats, err := retrier.DoWithData(ctx, c.retrier, func(ctx context.Context) ([]*binance.PriceChangeStats, error) {
		return c.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch 24h stats from Binance for %s", symbol)
	}
	if len(stats) == 0 {
		return nil, errors.Errorf("binance API returned empty stats for %s", symbol)
	}
	return stats[0], nil
}
