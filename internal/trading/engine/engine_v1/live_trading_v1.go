package engine_v1

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/trading/engine"
	tradingprovider "github.com/rxtech-lab/argo-ledger/internal/trading/provider"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultMarketDataCacheSize = 1000
)

// LiveTradingEngineV1 implements the LiveTradingEngine interface for real-time trading.
type LiveTradingEngineV1 struct {
	config             engine.LiveTradingEngineConfig
	strategy           strategy.Strategy
	marketDataProvider provider.Provider
	broker             tradingprovider.Broker
	log                *logger.Logger
	initialized        bool
}

// Option configures a LiveTradingEngineV1.
type Option func(*LiveTradingEngineV1)

// WithLogger replaces the default production logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *LiveTradingEngineV1) {
		e.log = log
	}
}

// NewLiveTradingEngineV1 creates a new LiveTradingEngineV1 instance.
func NewLiveTradingEngineV1(opts ...Option) (engine.LiveTradingEngine, error) {
	e := &LiveTradingEngineV1{
		config:             engine.LiveTradingEngineConfig{}, //nolint:exhaustruct // initialized via Initialize()
		strategy:           nil,
		marketDataProvider: nil,
		broker:             nil,
		log:                nil,
		initialized:        false,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		log, err := logger.NewLogger()
		if err != nil {
			return nil, err
		}

		e.log = log
	}

	return e, nil
}

// Initialize implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) Initialize(config engine.LiveTradingEngineConfig) error {
	if config.MarketDataCacheSize <= 0 {
		config.MarketDataCacheSize = DefaultMarketDataCacheSize
	}

	if err := config.Validate(); err != nil {
		return err
	}

	e.config = config
	e.initialized = true

	e.log.Debug("Live trading engine initialized",
		zap.String("symbol", config.Symbol),
		zap.String("interval", config.Interval),
		zap.Int("cache_size", config.MarketDataCacheSize),
	)

	return nil
}

// LoadStrategy implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) LoadStrategy(s strategy.Strategy) error {
	if s == nil {
		return errors.New(errors.ErrCodeStrategyNotLoaded, "strategy cannot be nil")
	}

	e.strategy = s
	e.log.Debug("Strategy loaded", zap.String("name", s.Name()))

	return nil
}

// SetMarketDataProvider implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) SetMarketDataProvider(marketProvider provider.Provider) error {
	e.marketDataProvider = marketProvider
	e.log.Debug("Market data provider set")

	return nil
}

// SetBroker implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) SetBroker(broker tradingprovider.Broker) error {
	e.broker = broker
	e.log.Debug("Broker set")

	return nil
}

// Run implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) Run(ctx context.Context, callbacks engine.LiveTradingCallbacks) (runErr error) {
	if callbacks.OnEngineStop != nil {
		defer func() {
			(*callbacks.OnEngineStop)(runErr)
		}()
	}

	if err := e.preRunCheck(); err != nil {
		return err
	}

	bars, err := e.loadHistory(ctx)
	if err != nil {
		return err
	}

	registry := indicator.NewIndicatorRegistry()
	if err := e.strategy.Setup(registry); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategySetupFailed, err, "failed to set up strategy %s", e.strategy.Name())
	}

	if err := indicator.ComputeAll(registry, bars); err != nil {
		return err
	}

	e.log.Info("Live trading started",
		zap.String("strategy", e.strategy.Name()),
		zap.String("symbol", e.config.Symbol),
		zap.String("interval", e.config.Interval),
		zap.Int("history_bars", len(bars)),
	)

	if callbacks.OnEngineStart != nil {
		if err := (*callbacks.OnEngineStart)(e.config.Symbol, e.config.Interval, len(bars)); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnEngineStart callback failed", err)
		}
	}

	stream := e.marketDataProvider.Stream(ctx, []string{e.config.Symbol}, e.config.Interval)

	for data, err := range stream {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			e.log.Warn("Stream error received",
				zap.String("category", errors.GetCode(err).Category()),
				zap.Error(err),
			)

			if callbacks.OnError != nil {
				(*callbacks.OnError)(err)
			}

			continue
		}

		if err := data.Validate(); err != nil {
			e.log.Warn("Skipping invalid candle", zap.Error(err))

			if callbacks.OnError != nil {
				(*callbacks.OnError)(err)
			}

			continue
		}

		if n := len(bars); n > 0 && !data.Time.After(bars[n-1].Time) {
			unordered := errors.Newf(errors.ErrCodeUnorderedData,
				"candle at %s is not after the last candle at %s", data.Time, bars[n-1].Time)

			e.log.Warn("Skipping out-of-order candle", zap.Error(unordered))

			if callbacks.OnError != nil {
				(*callbacks.OnError)(unordered)
			}

			continue
		}

		bars = e.appendBar(bars, data)

		if err := indicator.UpdateAll(registry, bars); err != nil {
			return err
		}

		indicator.TrimAll(registry, e.config.MarketDataCacheSize)

		if callbacks.OnMarketData != nil {
			if err := (*callbacks.OnMarketData)(data); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "OnMarketData callback failed", err)
			}
		}

		if err := e.processBar(ctx, bars, registry); err != nil {
			e.log.Warn("Strategy error",
				zap.String("symbol", data.Symbol),
				zap.String("category", errors.GetCode(err).Category()),
				zap.Time("time", data.Time),
				zap.Error(err),
			)

			if callbacks.OnStrategyError == nil {
				return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "strategy failed", err)
			}

			if cbErr := (*callbacks.OnStrategyError)(data, err); cbErr != nil {
				return errors.Wrap(errors.ErrCodeStrategyRuntimeError, "strategy failed", cbErr)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	e.log.Info("Market data stream ended")

	return nil
}

// processBar syncs the broker, settles a local ledger against the new candle and runs
// the strategy on the cached bars.
func (e *LiveTradingEngineV1) processBar(ctx context.Context, bars []types.MarketData, registry indicator.IndicatorRegistry) error {
	bar := bars[len(bars)-1]

	if err := e.broker.UpdateSharesAndBalances(ctx); err != nil {
		return err
	}

	if ledger, ok := e.broker.(tradingprovider.LedgerBroker); ok {
		acc := ledger.Account()

		stop, err := acc.SettleBar(bar)
		if err != nil {
			return err
		}

		if stop.IsSome() {
			e.log.Info("Stop-loss triggered", zap.Time("time", bar.Time), zap.String("price", stop.Unwrap().String()))
		}

		acc.SetCurrentDate(bar.Time)
	}

	indicator.SetLookbackAll(registry, -1)

	return e.runLogic(strategy.NewLookback(bars, registry))
}

func (e *LiveTradingEngineV1) runLogic(lookback strategy.Lookback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeStrategyPanic, "strategy panicked: %v", r)
		}
	}()

	return e.strategy.Logic(e.broker, lookback)
}

// appendBar adds bar and drops the oldest bars beyond the cache size. The result never
// shares its backing array with a lookback already handed to the strategy.
func (e *LiveTradingEngineV1) appendBar(bars []types.MarketData, bar types.MarketData) []types.MarketData {
	keep := min(len(bars)+1, e.config.MarketDataCacheSize)
	next := make([]types.MarketData, 0, keep)
	next = append(next, bars[len(bars)+1-keep:]...)

	return append(next, bar)
}

func (e *LiveTradingEngineV1) loadHistory(ctx context.Context) ([]types.MarketData, error) {
	start := optional.None[time.Time]()
	if !e.config.HistoryStart.IsZero() {
		start = optional.Some(e.config.HistoryStart)
	}

	bars, err := e.marketDataProvider.History(ctx, e.config.Symbol, e.config.Interval, start)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch history", err)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	if len(bars) > e.config.MarketDataCacheSize {
		bars = bars[len(bars)-e.config.MarketDataCacheSize:]
	}

	return bars, nil
}

// GetConfigSchema implements engine.LiveTradingEngine.
func (e *LiveTradingEngineV1) GetConfigSchema() (string, error) {
	return engine.GetConfigSchema()
}

// preRunCheck validates that all required components are configured before running.
func (e *LiveTradingEngineV1) preRunCheck() error {
	if !e.initialized {
		return errors.New(errors.ErrCodeBacktestInitFailed, "engine not initialized - call Initialize() first")
	}

	if e.strategy == nil {
		return errors.New(errors.ErrCodeStrategyNotLoaded, "strategy not loaded - call LoadStrategy() first")
	}

	if e.marketDataProvider == nil {
		return errors.New(errors.ErrCodeBacktestInitFailed, "market data provider not set - call SetMarketDataProvider() first")
	}

	if e.broker == nil {
		return errors.New(errors.ErrCodeBacktestInitFailed, "broker not set - call SetBroker() first")
	}

	return nil
}

// Verify LiveTradingEngineV1 implements engine.LiveTradingEngine interface.
var _ engine.LiveTradingEngine = (*LiveTradingEngineV1)(nil)
