package tradingprovider

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// DefaultQuantityPrecision is the number of decimals order quantities are truncated to
// when the config leaves QuantityPrecision unset.
const DefaultQuantityPrecision = 1

// BinanceProviderConfig contains configuration for Binance trading.
type BinanceProviderConfig struct {
	ApiKey            string `json:"apiKey" jsonschema:"title=API Key,description=Binance API key" validate:"required"`
	SecretKey         string `json:"secretKey" jsonschema:"title=Secret Key,description=Binance API secret key" validate:"required"`
	BaseAsset         string `json:"baseAsset" jsonschema:"title=Base Asset,description=Asset being traded e.g. BTC" validate:"required"`
	QuoteAsset        string `json:"quoteAsset" jsonschema:"title=Quote Asset,description=Asset prices are quoted in e.g. USDT" validate:"required"`
	QuantityPrecision *int   `json:"quantityPrecision,omitempty" jsonschema:"title=Quantity Precision,description=Decimals order quantities are truncated to,default=1" validate:"omitempty,gte=0,lte=8"`
	BaseURL           string `json:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Overrides the REST endpoint" validate:"omitempty,url"`
}

// Validate validates the BinanceProviderConfig struct.
func (c *BinanceProviderConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid binance provider config", err)
	}

	return nil
}

// Precision returns the configured quantity precision or DefaultQuantityPrecision.
func (c *BinanceProviderConfig) Precision() int {
	if c.QuantityPrecision == nil {
		return DefaultQuantityPrecision
	}

	return *c.QuantityPrecision
}

// parseBinanceConfig parses a JSON configuration string into a BinanceProviderConfig.
func parseBinanceConfig(jsonConfig string) (*BinanceProviderConfig, error) {
	var config BinanceProviderConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse binance config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
