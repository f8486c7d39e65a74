package main

import (
	"os"

	"github.com/joho/godotenv"
	tradingprovider "github.com/rxtech-lab/argo-ledger/internal/trading/provider"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
)

// Environment variables the trading command reads exchange credentials from.
const (
	EnvBinanceAPIKey    = "BINANCE_API_KEY"
	EnvBinanceSecretKey = "BINANCE_SECRET_KEY"
	EnvPolygonAPIKey    = "POLYGON_API_KEY"
)

// loadEnv loads path into the process environment. A missing file is not an error so that
// plain environment variables keep working.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(path)
}

type brokerFlags struct {
	capital    float64
	commission float64
	baseAsset  string
	quoteAsset string
	precision  int
}

// brokerConfig builds the provider config NewBroker expects for brokerType.
func brokerConfig(brokerType tradingprovider.ProviderType, flags brokerFlags, getenv func(string) string) (any, error) {
	switch brokerType {
	case tradingprovider.ProviderPaper:
		config := &tradingprovider.PaperBrokerConfig{
			InitialCapital: flags.capital,
			Commission:     flags.commission,
		}

		if err := config.Validate(); err != nil {
			return nil, err
		}

		return config, nil

	case tradingprovider.ProviderBinance, tradingprovider.ProviderBinanceTestnet:
		precision := flags.precision
		config := &tradingprovider.BinanceProviderConfig{
			ApiKey:            getenv(EnvBinanceAPIKey),
			SecretKey:         getenv(EnvBinanceSecretKey),
			BaseAsset:         flags.baseAsset,
			QuoteAsset:        flags.quoteAsset,
			QuantityPrecision: &precision,
			BaseURL:           "",
		}

		if err := config.Validate(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err,
				"set %s and %s and pass --base-asset and --quote-asset", EnvBinanceAPIKey, EnvBinanceSecretKey)
		}

		return config, nil

	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported trading provider: %s", brokerType)
	}
}

type marketDataFlags struct {
	provider   string
	configFile string
	symbol     string
	interval   string
}

// marketDataConfig builds the stream config of the market data provider either from a JSON
// file or from the symbol and interval flags.
func marketDataConfig(flags marketDataFlags, getenv func(string) string) (provider.StreamConfig, error) {
	if flags.configFile != "" {
		raw, err := os.ReadFile(flags.configFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read market data config", err)
		}

		return provider.ParseStreamConfig(flags.provider, string(raw))
	}

	symbols := []string{}
	if flags.symbol != "" {
		symbols = append(symbols, flags.symbol)
	}

	base := provider.BaseStreamConfig{Symbols: symbols, Interval: flags.interval}

	var config interface {
		provider.StreamConfig
		Validate() error
	}

	switch provider.ProviderType(flags.provider) {
	case provider.ProviderPolygon:
		config = &provider.PolygonStreamConfig{BaseStreamConfig: base, ApiKey: getenv(EnvPolygonAPIKey)}
	case provider.ProviderBinance:
		config = &provider.BinanceStreamConfig{BaseStreamConfig: base}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", flags.provider)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
