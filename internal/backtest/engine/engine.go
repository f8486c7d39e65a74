package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/shopspring/decimal"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called once the bar window is known, before the first bar.
type OnBacktestStartCallback func(totalBars int) error

// OnBacktestEndCallback is called when the backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnProcessDataCallback is called after each bar is processed.
type OnProcessDataCallback func(current int, total int) error

// OnStrategyErrorCallback is called when the strategy fails or panics on a bar.
// The failure is recorded and the run continues.
type OnStrategyErrorCallback func(bar types.MarketData, err error)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnProcessData   *OnProcessDataCallback
	OnStrategyError *OnStrategyErrorCallback
}

// Result is everything a backtest run produced.
type Result struct {
	RunID           string
	Symbol          string
	EquityCurve     []decimal.Decimal
	Trades          []types.Trade
	ClosedPositions []types.Position
	ActivePosition  optional.Option[types.Position]
	// Outcomes holds one entry per simulated bar, in bar order.
	Outcomes []types.BarOutcome
	Stats    types.BacktestStats
}

type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetDataSource sets the data source bars are read from.
	SetDataSource(dataSource datasource.DataSource) error
	// LoadStrategy sets the strategy to backtest.
	LoadStrategy(strategy strategy.Strategy) error
	// Run simulates the strategy over every bar of the data source.
	// The context is checked between bars and cancels the run.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (*Result, error)
	// GetConfigSchema returns the JSON schema of the engine configuration
	GetConfigSchema() (string, error)
}
