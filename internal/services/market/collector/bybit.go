package collector

import (
	"context"
	"strconv"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/pkg/retrier"
)

// BybitCollector fetches quotes, candle history and market snapshots from
// the Bybit V5 spot API.
type BybitCollector struct {
	client  *bybit.Client
	retrier *retrier.Retrier
}

// NewBybitCollector creates a Bybit-backed collector.
func NewBybitCollector(client *bybit.Client) *BybitCollector {
	return &BybitCollector{
		client:  client,
		retrier: retrier.New(),
	}
}

// GetQuote fetches the current quote from the V5 spot tickers.
func (c *BybitCollector) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	ticker, err := c.fetchTicker(ctx, symbol)
	if err != nil {
		return domain.Quote{}, err
	}

	price, err := decimal.NewFromString(ticker.LastPrice)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse last price for %s", symbol)
	}
	high, err := decimal.NewFromString(ticker.HighPrice24H)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse high price for %s", symbol)
	}
	low, err := decimal.NewFromString(ticker.LowPrice24H)
	if err != nil {
		return domain.Quote{}, errors.Wrapf(err, "failed to parse low price for %s", symbol)
	}
	volume, err := decimal.NewFromString(ticker.Volume24H)
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
func (c *BybitCollector) GetCandles(ctx context.Context, symbol string, limit int) ([]domain.MarketCandle, error) {
	resp, err := retrier.DoWithData(ctx, c.retrier, func(context.Context) (*bybit.V5GetKlineResponse, error) {
		return c.client.V5().Market().GetKline(bybit.V5GetKlineParam{
			Category: bybit.CategoryV5Spot,
			Symbol:   bybit.SymbolV5(symbol),
			Interval: bybit.IntervalD,
			Limit:    &limit,
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Bybit for %s", symbol)
	}

	list := resp.Result.List
	// Bybit returns klines newest first
	result := make([]domain.MarketCandle, len(list))
	for i, k := range list {
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

		startMs, err := strconv.ParseInt(k.StartTime, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start time at index %d", i)
		}
		openTime := time.Unix(0, startMs*int64(time.Millisecond))

		result[len(list)-1-i] = domain.MarketCandle{
			OpenTime:  openTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: openTime.Add(24 * time.Hour),
		}
	}

	return result, nil
}

// GetSnapshots fetches 24h market snapshots from the V5 spot tickers.
// Capitalization and supply are not reported by the exchange and stay zero.
func (c *BybitCollector) GetSnapshots(ctx context.Context, symbols []string) ([]domain.MarketSnapshot, error) {
	snapshots := make([]domain.MarketSnapshot, 0, len(symbols))

	for _, symbol := range symbols {
		ticker, err := c.fetchTicker(ctx, symbol)
		if err != nil {
			return nil, err
		}

		price, err := decimal.NewFromString(ticker.LastPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse last price for %s", symbol)
		}
		volume, err := decimal.NewFromString(ticker.Turnover24H)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse turnover for %s", symbol)
		}
		changeRatio, err := strconv.ParseFloat(ticker.Price24HPcnt, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse price change for %s", symbol)
		}

		snapshots = append(snapshots, domain.MarketSnapshot{
			Symbol:       symbol,
			Price:        price,
			Volume24h:    volume,
			ChangePct24h: changeRatio * 100,
		})
	}

	return snapshots, nil
}

func (c *BybitCollector) fetchTicker(ctx context.Context, symbol string) (*bybit.V5GetTickersSpotItem, error) {
	sym := bybit.SymbolV5(symbol)

	result, err := retrier.DoWithData(ctx, c.retrier, func(context.Context) (*bybit.V5GetTickersResponse, error) {
		return c.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: bybit.CategoryV5Spot,
			Symbol:   &sym,
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch tickers from Bybit for %s", symbol)
	}
	if len(result.Result.Spot.List) == 0 {
		return nil, errors.Errorf("bybit API returned empty tickers for %s", symbol)
	}
	return &result.Result.Spot.List[0], nil
}
