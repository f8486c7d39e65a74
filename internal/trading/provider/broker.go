package tradingprovider

import (
	"context"
	"sort"

	"github.com/rxtech-lab/argo-ledger/internal/account"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// Broker is the order surface the live engine hands to a strategy.
// Buy and Sell follow the same argument contracts as account.Account.
type Broker interface {
	strategy.Broker
	// UpdateSharesAndBalances refreshes Shares and BuyingPower from the venue.
	UpdateSharesAndBalances(ctx context.Context) error
}

// LedgerBroker is a Broker backed by a local account. The live engine runs the
// stop-loss and equity steps against the account after every closed bar.
type LedgerBroker interface {
	Broker
	Account() *account.Account
}

type ProviderType string

const (
	ProviderPaper          ProviderType = "paper"
	ProviderBinance        ProviderType = "binance"
	ProviderBinanceTestnet ProviderType = "binance-testnet"
)

type ProviderInfo struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	IsPaperTrading bool   `json:"isPaperTrading"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPaper: {
		Name:           string(ProviderPaper),
		DisplayName:    "Paper",
		Description:    "Local simulated account fed by live candles",
		IsPaperTrading: true,
	},
	ProviderBinance: {
		Name:           string(ProviderBinance),
		DisplayName:    "Binance Live",
		Description:    "Binance live environment for real-funds cryptocurrency trading",
		IsPaperTrading: false,
	},
	ProviderBinanceTestnet: {
		Name:           string(ProviderBinanceTestnet),
		DisplayName:    "Binance Testnet",
		Description:    "Binance testnet for trading cryptocurrency without real funds",
		IsPaperTrading: true,
	},
}

// GetSupportedProviders returns the registered broker names in sorted order.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific trading provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported trading provider: %s", providerName)
	}

	return info, nil
}

// GetProviderConfigSchema returns the JSON schema for a provider's configuration.
func GetProviderConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPaper:
		return strategy.ToJSONSchema(PaperBrokerConfig{})
	case ProviderBinance, ProviderBinanceTestnet:
		return strategy.ToJSONSchema(BinanceProviderConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported trading provider: %s", providerName)
	}
}

// ParseProviderConfig parses a JSON configuration string for the given provider.
func ParseProviderConfig(providerName string, jsonConfig string) (any, error) {
	switch ProviderType(providerName) {
	case ProviderPaper:
		return parsePaperConfig(jsonConfig)
	case ProviderBinance, ProviderBinanceTestnet:
		return parseBinanceConfig(jsonConfig)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported trading provider: %s", providerName)
	}
}

// NewBroker creates a broker for providerType. config must be the pointer returned by
// ParseProviderConfig for the same provider.
func NewBroker(ctx context.Context, providerType ProviderType, config any, opts ...BrokerOption) (Broker, error) {
	switch providerType {
	case ProviderPaper:
		cfg, ok := config.(*PaperBrokerConfig)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "invalid config type for paper provider")
		}

		return NewPaperBroker(*cfg, opts...)

	case ProviderBinance, ProviderBinanceTestnet:
		cfg, ok := config.(*BinanceProviderConfig)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid config type for %s provider", providerType)
		}

		return NewBinanceBroker(ctx, *cfg, providerType == ProviderBinanceTestnet, opts...)

	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported trading provider: %s", providerType)
	}
}
