package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/account"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type BacktestEngineV1 struct {
	config      BacktestEngineV1Config
	initialized bool
	strategy    strategy.Strategy
	datasource  datasource.DataSource
	log         *logger.Logger
	newID       func() string
}

// Option configures a BacktestEngineV1.
type Option func(*BacktestEngineV1)

// WithLogger replaces the logger Initialize would otherwise create.
func WithLogger(log *logger.Logger) Option {
	return func(b *BacktestEngineV1) {
		b.log = log
	}
}

// WithIDGenerator replaces the uuid generator used for run, trade and position ids.
func WithIDGenerator(fn func() string) Option {
	return func(b *BacktestEngineV1) {
		b.newID = fn
	}
}

func NewBacktestEngineV1(opts ...Option) engine.Engine {
	b := &BacktestEngineV1{
		config:      EmptyConfig(),
		initialized: false,
		strategy:    nil,
		datasource:  nil,
		log:         nil,
		newID:       func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed

	if b.log == nil {
		level := zapcore.InfoLevel
		if parsed.Verbose {
			level = zapcore.DebugLevel
		}

		b.log, err = logger.NewLoggerWithLevel(level)
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
		}
	}

	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.String("symbol", parsed.Symbol),
		zap.Float64("initial_capital", parsed.InitialCapital),
		zap.Float64("commission", parsed.Commission),
	)

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(s strategy.Strategy) error {
	if s == nil {
		return errors.New(errors.ErrCodeStrategyNotLoaded, "strategy cannot be nil")
	}

	b.strategy = s

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(ds datasource.DataSource) error {
	if ds == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "data source cannot be nil")
	}

	b.datasource = ds

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (result *engine.Result, err error) {
	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(err)
		}()
	}

	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	bars, err := b.loadBars()
	if err != nil {
		return nil, err
	}

	symbol := b.config.Symbol
	if symbol == "" {
		symbol = bars[0].Symbol
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(bars)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCallbackFailed, "OnBacktestStart callback failed", err)
		}
	}

	acc, err := account.NewAccount(
		decimal.NewFromFloat(b.config.InitialCapital),
		account.WithCommission(b.config.CommissionRate()),
		account.WithLogger(b.log),
		account.WithVerbose(b.config.Verbose),
		account.WithIDGenerator(b.newID),
	)
	if err != nil {
		return nil, err
	}

	registry := indicator.NewIndicatorRegistry()
	if err := b.strategy.Setup(registry); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStrategySetupFailed, err, "failed to set up strategy %s", b.strategy.Name())
	}

	if err := indicator.ComputeAll(registry, bars); err != nil {
		return nil, err
	}

	runID := b.newID()

	b.log.Info("Running backtest",
		zap.String("run_id", runID),
		zap.String("strategy", b.strategy.Name()),
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
	)

	outcomes := make([]types.BarOutcome, 0, len(bars))

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			b.log.Info("Backtest cancelled", zap.Int("bar", i))

			return nil, err
		}

		if err := b.settleBar(acc, bar); err != nil {
			return nil, err
		}

		acc.SetCurrentDate(bar.Time)
		indicator.SetLookbackAll(registry, i+1)

		strategyErr := b.runLogic(acc, strategy.NewLookback(bars[:i+1], registry))
		if strategyErr != nil {
			b.log.Warn("Strategy failed on bar",
				zap.Int("bar", i),
				zap.String("category", errors.GetCode(strategyErr).Category()),
				zap.Time("time", bar.Time),
				zap.Error(strategyErr),
			)
		}

		outcomes = append(outcomes, types.NewBarOutcome(i, bar.Time, strategyErr))

		if strategyErr != nil && callbacks.OnStrategyError != nil {
			(*callbacks.OnStrategyError)(bar, strategyErr)
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, len(bars)); err != nil {
				return nil, errors.Wrap(errors.ErrCodeCallbackFailed, "OnProcessData callback failed", err)
			}
		}
	}

	indicator.SetLookbackAll(registry, -1)

	finalValue, err := acc.TotalValue(decimal.NewFromFloat(bars[len(bars)-1].Close))
	if err != nil {
		return nil, err
	}

	result = &engine.Result{
		RunID:           runID,
		Symbol:          symbol,
		EquityCurve:     acc.EquityCurve(),
		Trades:          acc.Trades(),
		ClosedPositions: acc.ClosedPositions(),
		ActivePosition:  acc.ActivePosition(),
		Outcomes:        outcomes,
		Stats:           calculateStats(runID, b.strategy.Name(), symbol, acc, bars, outcomes, finalValue.InexactFloat64()),
	}

	b.log.Info("Backtest finished",
		zap.String("run_id", runID),
		zap.String("final_value", finalValue.String()),
		zap.Int("trades", len(result.Trades)),
		zap.Int("failed_bars", result.Stats.FailedBars),
	)

	if b.config.ResultsFolder != "" {
		if err := b.writeResults(result, bars); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// settleBar marks the account to market at the bar's close and enforces stop-losses
// before the strategy sees the bar.
func (b *BacktestEngineV1) settleBar(acc *account.Account, bar types.MarketData) error {
	stop, err := acc.SettleBar(bar)
	if err != nil {
		return err
	}

	if stop.IsSome() {
		b.log.Debug("Stop-loss triggered", zap.Time("time", bar.Time), zap.String("price", stop.Unwrap().String()))
	}

	return nil
}

func (b *BacktestEngineV1) runLogic(broker strategy.Broker, lookback strategy.Lookback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeStrategyPanic, "strategy panicked: %v", r)
		}
	}()

	return b.strategy.Logic(broker, lookback)
}

func (b *BacktestEngineV1) loadBars() ([]types.MarketData, error) {
	bars, err := datasource.ReadSlice(b.datasource, optional.None[time.Time](), optional.None[time.Time]())
	if err != nil {
		return nil, err
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	bars = applyWindow(bars, b.config)
	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "no market data to backtest")
	}

	return bars, nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}

func (b *BacktestEngineV1) writeResults(result *engine.Result, bars []types.MarketData) error {
	state, err := NewBacktestState(b.log)
	if err != nil {
		return err
	}
	defer state.Close()

	if err := state.Initialize(); err != nil {
		return err
	}

	if err := state.Record(result, bars); err != nil {
		return err
	}

	folder := getResultFolder(b.config.ResultsFolder, b.strategy.Name(), result.Symbol, bars)

	files, err := state.Write(folder)
	if err != nil {
		return err
	}

	result.Stats.TradesFilePath = files.Trades
	result.Stats.EquityFilePath = files.Equity
	result.Stats.PositionsFilePath = files.Positions
	result.Stats.OutcomesFilePath = files.Outcomes

	if err := types.WriteBacktestStats(filepath.Join(folder, "stats.yaml"), result.Stats); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to write stats", err)
	}

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		return errors.New(errors.ErrCodeBacktestInitFailed, "engine is not initialized")
	}

	if b.strategy == nil {
		b.log.Error("No strategy loaded")

		return errors.New(errors.ErrCodeStrategyNotLoaded, "no strategy loaded")
	}

	if b.datasource == nil {
		b.log.Error("No data source set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no data source set")
	}

	return nil
}
