// Package domain defines core data structures used throughout the analysis engine.
package domain

// AssetClass identifies the market segment an instrument belongs to.
// It selects the scoring weights and risk thresholds applied to it.
type AssetClass int

const (
	AssetStock AssetClass = iota
	AssetCrypto
	AssetTech
)

// asset class string constants to avoid magic strings
const (
	assetClassStringStock  = "stock"
	assetClassStringCrypto = "crypto"
	assetClassStringTech   = "tech"
)

// String returns the string representation of the asset class.
func (a AssetClass) String() string {
	switch a {
	case AssetStock:
		return assetClassStringStock
	case AssetCrypto:
		return assetClassStringCrypto
	case AssetTech:
		return assetClassStringTech
	default:
		return "unknown"
	}
}

// ParseAssetClass converts a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, bool) {
	switch s {
	case assetClassStringStock:
		return AssetStock, true
	case assetClassStringCrypto:
		return AssetCrypto, true
	case assetClassStringTech:
		return AssetTech, true
	}
	return AssetStock, false
}

// Instrument is a tradable asset in an analysis universe.
type Instrument struct {
	// Symbol is the exchange symbol, e.g. "BTCUSDT".
	Symbol string
	// Name is the human-readable name, e.g. "Bitcoin".
	Name string
	// Category is the sector or crypto category, e.g. "Smart Contracts".
	Category string
}
