package types

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ReturnStats compares the strategy against holding the instrument over the same bars.
type ReturnStats struct {
	// Strategy return as a fraction: (final value - initial capital) / initial capital.
	StrategyReturn float64 `yaml:"strategy_return" json:"strategy_return"`
	// Net profit of the strategy in quote currency.
	StrategyProfit float64 `yaml:"strategy_profit" json:"strategy_profit"`
	// Buy and hold return from the first open to the last close.
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
	// Profit the initial capital would have made holding the instrument.
	BuyAndHoldProfit float64 `yaml:"buy_and_hold_profit" json:"buy_and_hold_profit"`
	// StrategyReturn - BuyAndHoldReturn.
	RelativeReturn float64 `yaml:"relative_return" json:"relative_return"`
	// StrategyProfit - BuyAndHoldProfit.
	RelativeProfit float64 `yaml:"relative_profit" json:"relative_profit"`
	// Largest peak to trough decline of the equity curve, as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// Sample standard deviation of the per-bar close to close log returns.
	Volatility float64 `yaml:"volatility" json:"volatility"`
}

type TradeCounts struct {
	Buys  int `yaml:"buys" json:"buys"`
	Sells int `yaml:"sells" json:"sells"`
	Total int `yaml:"total" json:"total"`
}

// BacktestStats summarises one backtest run.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	// First and last bar times of the simulated window.
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	EndTime   time.Time `yaml:"end_time" json:"end_time"`
	Bars      int       `yaml:"bars" json:"bars"`
	// Bars on which the strategy returned an error or panicked.
	FailedBars     int         `yaml:"failed_bars" json:"failed_bars"`
	InitialCapital float64     `yaml:"initial_capital" json:"initial_capital"`
	FinalValue     float64     `yaml:"final_value" json:"final_value"`
	Returns        ReturnStats `yaml:"returns" json:"returns"`
	Trades         TradeCounts `yaml:"trades" json:"trades"`
	// Paths of the exported result files, empty when results were not persisted.
	TradesFilePath    string `yaml:"trades_file_path,omitempty" json:"trades_file_path,omitempty"`
	EquityFilePath    string `yaml:"equity_file_path,omitempty" json:"equity_file_path,omitempty"`
	PositionsFilePath string `yaml:"positions_file_path,omitempty" json:"positions_file_path,omitempty"`
	OutcomesFilePath  string `yaml:"outcomes_file_path,omitempty" json:"outcomes_file_path,omitempty"`
	DataPath          string `yaml:"data_path,omitempty" json:"data_path,omitempty"`
}

// PercentChange returns (to - from) / from.
func PercentChange(from, to float64) float64 {
	return (to - from) / from
}

// Profit converts a return multiplier into profit on the initial capital.
func Profit(initialCapital, multiplier float64) float64 {
	return initialCapital*(multiplier+1.0) - initialCapital
}

// MaxDrawdown returns the largest peak to trough decline of the curve as a fraction of the peak.
func MaxDrawdown(curve []float64) float64 {
	var peak, worst float64

	for i, v := range curve {
		if i == 0 || v > peak {
			peak = v
		}

		if peak <= 0 {
			continue
		}

		if dd := (peak - v) / peak; dd > worst {
			worst = dd
		}
	}

	return worst
}

// Volatility returns the sample standard deviation of LogReturns(bars), ignoring NaN entries.
// Fewer than two usable returns yield 0.
func Volatility(bars []MarketData) float64 {
	var sum, sumSq float64

	n := 0

	for _, r := range LogReturns(bars) {
		if math.IsNaN(r) {
			continue
		}

		sum += r
		sumSq += r * r
		n++
	}

	if n < 2 {
		return 0
	}

	mean := sum / float64(n)
	variance := (sumSq - float64(n)*mean*mean) / float64(n-1)

	if variance <= 0 {
		return 0
	}

	return math.Sqrt(variance)
}

func WriteBacktestStats(path string, stats BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}

// ReadBacktestStats loads stats previously written by WriteBacktestStats.
func ReadBacktestStats(path string) (BacktestStats, error) {
	var stats BacktestStats

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to read backtest stats: %w", err)
	}

	if err := yaml.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("failed to unmarshal backtest stats: %w", err)
	}

	return stats, nil
}
