package provider

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// StreamConfig is a validated streaming configuration for one market data provider.
type StreamConfig interface {
	// Base returns the symbols and interval to stream.
	Base() BaseStreamConfig
	// NewProvider creates the provider the configuration describes.
	NewProvider() (Provider, error)
}

// BaseStreamConfig contains common fields for all streaming market data configurations.
type BaseStreamConfig struct {
	Symbols  []string `json:"symbols" yaml:"symbols" jsonschema:"title=Symbols,description=List of symbols to stream (e.g. BTCUSDT or SPY),required" validate:"required,min=1"`
	Interval string   `json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Candlestick interval for streaming data,required,enum=1s,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d,enum=3d,enum=1w,enum=1M" validate:"required,oneof=1s 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
}

// PolygonStreamConfig contains configuration for Polygon.io market data.
type PolygonStreamConfig struct {
	BaseStreamConfig `yaml:",inline"`

	ApiKey string `json:"apiKey" yaml:"apiKey" jsonschema:"title=API Key,description=Polygon.io API key for authentication,required" validate:"required"`
}

// BinanceStreamConfig contains configuration for Binance market data.
type BinanceStreamConfig struct {
	BaseStreamConfig `yaml:",inline"`
}

func (c BaseStreamConfig) Base() BaseStreamConfig {
	return c
}

// Validate validates the BaseStreamConfig fields.
func (c *BaseStreamConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid stream config", err)
	}

	return nil
}

// Validate validates the PolygonStreamConfig.
func (c *PolygonStreamConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid polygon stream config", err)
	}

	return c.BaseStreamConfig.Validate()
}

func (c *PolygonStreamConfig) NewProvider() (Provider, error) {
	return NewPolygonClient(c.ApiKey)
}

// Validate validates the BinanceStreamConfig.
func (c *BinanceStreamConfig) Validate() error {
	return c.BaseStreamConfig.Validate()
}

func (c *BinanceStreamConfig) NewProvider() (Provider, error) {
	return NewBinanceClient()
}

// GetStreamConfigSchema returns the JSON schema for a provider's streaming configuration.
func GetStreamConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return strategy.ToJSONSchema(PolygonStreamConfig{})
	case ProviderBinance:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return strategy.ToJSONSchema(BinanceStreamConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerName)
	}
}

// ParseStreamConfig parses and validates a JSON configuration string for the given provider.
func ParseStreamConfig(providerName string, jsonConfig string) (StreamConfig, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		var config PolygonStreamConfig

		return parseStreamConfig(jsonConfig, &config)
	case ProviderBinance:
		var config BinanceStreamConfig

		return parseStreamConfig(jsonConfig, &config)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerName)
	}
}

func parseStreamConfig[T interface {
	StreamConfig
	Validate() error
}](jsonConfig string, config T) (StreamConfig, error) {
	if err := json.Unmarshal([]byte(jsonConfig), config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
