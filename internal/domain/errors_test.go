package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPartialBatchError(t *testing.T) {
	err := &PartialBatchError{Failed: map[string]error{
		"ETHUSDT": errors.New("history unavailable"),
		"BTCUSDT": errors.New("no snapshot"),
	}}

	// symbols are listed in stable order regardless of map iteration
	require.Equal(t, "2 instrument(s) excluded from batch: BTCUSDT, ETHUSDT", err.Error())
	require.ErrorIs(t, err, ErrUpstreamFetch)
}

func TestRecommendationString(t *testing.T) {
	require.Equal(t, "BUY", RecommendationBuy.String())
	require.Equal(t, "SELL", RecommendationSell.String())
	require.Equal(t, "HOLD", RecommendationHold.String())
}

func TestRiskLevelString(t *testing.T) {
	require.Equal(t, "LOW", RiskLow.String())
	require.Equal(t, "MEDIUM", RiskMedium.String())
	require.Equal(t, "HIGH", RiskHigh.String())
}

func TestParseAssetClass(t *testing.T) {
	class, ok := ParseAssetClass("crypto")
	require.True(t, ok)
	require.Equal(t, AssetCrypto, class)

	_, ok = ParseAssetClass("bonds")
	require.False(t, ok)
}
