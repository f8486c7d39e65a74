package engine

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	tradingprovider "github.com/rxtech-lab/argo-ledger/internal/trading/provider"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
)

// Lifecycle callback types for live trading phases.
// All callbacks with error return can abort execution if they return an error.

// OnEngineStartCallback is called once the history is loaded and indicators are computed,
// right before the stream is opened.
type OnEngineStartCallback func(symbol string, interval string, historyBars int) error

// OnEngineStopCallback is called when the engine stops (always called via defer).
type OnEngineStopCallback func(err error)

// OnMarketDataCallback is called for each closed candle received from the stream.
type OnMarketDataCallback func(data types.MarketData) error

// OnErrorCallback is called when a non-fatal error occurs, such as a dropped connection.
type OnErrorCallback func(err error)

// OnStrategyErrorCallback is called when the strategy or the broker fails on a candle.
// Returning nil keeps the engine running; returning an error stops it.
type OnStrategyErrorCallback func(data types.MarketData, err error) error

// LiveTradingCallbacks holds all lifecycle callback functions for the live trading engine.
// All fields are pointers - nil means no callback will be invoked.
type LiveTradingCallbacks struct {
	OnEngineStart   *OnEngineStartCallback
	OnEngineStop    *OnEngineStopCallback
	OnMarketData    *OnMarketDataCallback
	OnError         *OnErrorCallback
	OnStrategyError *OnStrategyErrorCallback
}

// LiveTradingEngineConfig holds the configuration for the live trading engine.
type LiveTradingEngineConfig struct {
	// Symbol is the instrument to trade, e.g. BTCUSDT
	Symbol string `json:"symbol" yaml:"symbol" jsonschema:"title=Symbol,description=Symbol to trade,required" validate:"required"`

	// Interval is the candle interval in exchange notation
	Interval string `json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Candle interval,required,enum=1s,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d,enum=3d,enum=1w,enum=1M" validate:"required,oneof=1s 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`

	// MarketDataCacheSize is the number of bars kept in memory for the strategy
	// and indicator calculations (default: 1000)
	MarketDataCacheSize int `json:"market_data_cache_size" yaml:"market_data_cache_size" jsonschema:"description=Number of bars kept for the strategy,default=1000" validate:"gte=0"`

	// HistoryStart fetches history from this time instead of the most recent bars
	HistoryStart time.Time `json:"history_start,omitzero" yaml:"history_start,omitempty" jsonschema:"description=Fetch history from this time instead of the latest bars"`
}

// Validate validates the config fields.
func (c LiveTradingEngineConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid live trading config", err)
	}

	return nil
}

// GetConfigSchema returns the JSON schema for LiveTradingEngineConfig.
func GetConfigSchema() (string, error) {
	return strategy.ToJSONSchema(&LiveTradingEngineConfig{}) //nolint:exhaustruct // Empty config for schema generation
}

// LiveTradingEngine runs a strategy against a stream of closed candles.
type LiveTradingEngine interface {
	// Initialize sets up the engine with the given configuration.
	Initialize(config LiveTradingEngineConfig) error

	// LoadStrategy sets the strategy to run.
	LoadStrategy(strategy strategy.Strategy) error

	// SetMarketDataProvider configures the provider history and candles are read from.
	// The provider must support the Stream() method.
	SetMarketDataProvider(provider provider.Provider) error

	// SetBroker configures the broker orders are sent to.
	SetBroker(broker tradingprovider.Broker) error

	// Run starts the live trading engine.
	// Blocks until the stream ends, the context is cancelled or a fatal error occurs.
	Run(ctx context.Context, callbacks LiveTradingCallbacks) error

	// GetConfigSchema returns the JSON schema for engine configuration.
	GetConfigSchema() (string, error)
}
