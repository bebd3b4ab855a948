// Package indicators provides technical analysis indicators (RSI, MACD,
// Bollinger Bands) plus EMA-based trend detection and ATR-based volatility.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"
	"github.com/pkg/errors"

	"github.com/finsight/finsight/internal/domain"
)

// Config holds the indicator lookback parameters. Zero value is not usable;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// RSIPeriod is the RSI lookback. Default 14.
	RSIPeriod int
	// MACDFast, MACDSlow and MACDSignal are the MACD EMA periods.
	// Defaults 12, 26, 9.
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	// BollingerPeriod is the band SMA lookback. Default 20.
	BollingerPeriod int
	// BollingerStdDev is the band width in standard deviations. Default 2.
	BollingerStdDev float64
}

// DefaultConfig returns the standard indicator parameterization.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerStdDev: 2,
	}
}

// MinHistory returns the shortest price series length for which every
// indicator in the config is defined.
func (c Config) MinHistory() int {
	min := c.RSIPeriod + 1
	if n := c.MACDSlow + c.MACDSignal - 1; n > min {
		min = n
	}
	if c.BollingerPeriod > min {
		min = c.BollingerPeriod
	}
	return min
}

// RSI calculates the Relative Strength Index over the trailing period using
// simple averages of per-step gains and losses. Returns 100 when the average
// loss over the window is zero.
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, errors.Wrapf(domain.ErrInsufficientData, "rsi needs %d data points, got %d", period+1, len(closes))
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff >= 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// MACD calculates the MACD line, its signal line and the histogram.
// The MACD line is EMA(fast) - EMA(slow); the signal line is an EMA of the
// MACD line series over the overlap where both EMAs are defined.
// Requires at least slow+signal-1 data points.
func MACD(closes []float64, fast, slow, signal int) (domain.MACDResult, error) {
	if len(closes) < slow+signal-1 {
		return domain.MACDResult{}, errors.Wrapf(domain.ErrInsufficientData,
			"macd needs %d data points, got %d", slow+signal-1, len(closes))
	}

	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)

	// both series end at the last close; align on the slow series
	offset := len(fastSeries) - len(slowSeries)
	macdLine := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdLine[i] = fastSeries[offset+i] - slowSeries[i]
	}

	signalSeries := emaSeries(macdLine, signal)

	value := macdLine[len(macdLine)-1]
	sig := signalSeries[len(signalSeries)-1]

	return domain.MACDResult{
		Value:     value,
		Signal:    sig,
		Histogram: value - sig,
	}, nil
}

// BollingerBands calculates the Bollinger bands over the trailing period.
// The middle band is the SMA, the outer bands are offset by stdDev
// population standard deviations.
func BollingerBands(closes []float64, period int, stdDev float64) (domain.BollingerBands, error) {
	if len(closes) < period {
		return domain.BollingerBands{}, errors.Wrapf(domain.ErrInsufficientData,
			"bollinger bands need %d data points, got %d", period, len(closes))
	}

	window := closes[len(closes)-period:]
	middle := mean(window)

	var variance float64
	for _, v := range window {
		d := v - middle
		variance += d * d
	}
	sigma := math.Sqrt(variance / float64(period))

	return domain.BollingerBands{
		Upper:  middle + stdDev*sigma,
		Middle: middle,
		Lower:  middle - stdDev*sigma,
	}, nil
}

// Calculate computes the full indicator set for a closing price series.
func Calculate(closes []float64, cfg Config) (domain.Indicators, error) {
	rsi, err := RSI(closes, cfg.RSIPeriod)
	if err != nil {
		return domain.Indicators{}, err
	}

	macd, err := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return domain.Indicators{}, err
	}

	bands, err := BollingerBands(closes, cfg.BollingerPeriod, cfg.BollingerStdDev)
	if err != nil {
		return domain.Indicators{}, err
	}

	return domain.Indicators{
		RSI:       rsi,
		MACD:      macd,
		Bollinger: bands,
	}, nil
}

const (
	trendFastPeriod = 20
	trendSlowPeriod = 50
)

// DetectTrend labels the market direction from EMA20/EMA50 alignment:
// price above both and EMA20 above EMA50 is bullish, the mirror is bearish,
// anything else is sideways.
func DetectTrend(closes []float64) (domain.Trend, error) {
	if len(closes) < trendSlowPeriod {
		return domain.TrendSideways, errors.Wrapf(domain.ErrInsufficientData,
			"trend detection needs %d data points, got %d", trendSlowPeriod, len(closes))
	}

	emaFast := cinarEMA(closes, trendFastPeriod)
	emaSlow := cinarEMA(closes, trendSlowPeriod)

	price := closes[len(closes)-1]
	fast := emaFast[len(emaFast)-1]
	slow := emaSlow[len(emaSlow)-1]

	switch {
	case price > fast && fast > slow:
		return domain.TrendBullish, nil
	case price < fast && fast < slow:
		return domain.TrendBearish, nil
	default:
		return domain.TrendSideways, nil
	}
}

// VolatilityPercent measures recent volatility as the ATR over the period
// relative to the last close, in percent.
func VolatilityPercent(candles []domain.MarketCandle, period int) (float64, error) {
	if len(candles) < period+1 {
		return 0, errors.Wrapf(domain.ErrInsufficientData,
			"volatility needs %d data points, got %d", period+1, len(candles))
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
		closes[i], _ = c.Close.Float64()
	}

	atr := volatility.NewAtrWithPeriod[float64](period)
	highChan := helper.SliceToChan(highs)
	lowChan := helper.SliceToChan(lows)
	closeChan := helper.SliceToChan(closes)
	atrValues := helper.ChanToSlice(atr.Compute(highChan, lowChan, closeChan))

	lastClose := closes[len(closes)-1]
	if lastClose == 0 {
		return 0, errors.Wrap(domain.ErrInvalidInput, "last close is zero")
	}

	return atrValues[len(atrValues)-1] / lastClose * 100, nil
}

// cinarEMA computes an EMA series via the cinar indicator library.
func cinarEMA(values []float64, period int) []float64 {
	ema := trend.NewEmaWithPeriod[float64](period)
	inputChan := helper.SliceToChan(values)
	return helper.ChanToSlice(ema.Compute(inputChan))
}

// emaSeries computes the EMA series seeded with the simple average of the
// first period values, then the standard recurrence with multiplier
// 2/(period+1). The result is aligned to the tail of the input.
func emaSeries(values []float64, period int) []float64 {
	multiplier := 2 / float64(period+1)

	out := make([]float64, 0, len(values)-period+1)
	ema := mean(values[:period])
	out = append(out, ema)

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
