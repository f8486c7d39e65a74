package marketdata

import (
	"slices"

	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	RequiresAuth   bool   `json:"requiresAuth"`
	SupportsStream bool   `json:"supportsStream"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:           string(ProviderPolygon),
		DisplayName:    "Polygon.io",
		Description:    "US stock market data provider with historical OHLCV aggregates",
		RequiresAuth:   true,
		SupportsStream: false,
	},
	ProviderBinance: {
		Name:           string(ProviderBinance),
		DisplayName:    "Binance",
		Description:    "Cryptocurrency exchange with klines over REST and WebSocket",
		RequiresAuth:   false,
		SupportsStream: true,
	},
}

// GetSupportedProviders returns the supported provider names in sorted order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return strategy.ToJSONSchema(PolygonDownloadConfig{})
	case ProviderBinance:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return strategy.ToJSONSchema(BinanceDownloadConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}

// ParseDownloadConfig parses and validates a JSON configuration string for the given provider.
func ParseDownloadConfig(providerName string, jsonConfig string) (DownloadConfig, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		config, err := ParsePolygonConfig(jsonConfig)
		if err != nil {
			return nil, err
		}

		return config, nil
	case ProviderBinance:
		config, err := ParseBinanceConfig(jsonConfig)
		if err != nil {
			return nil, err
		}

		return config, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}
