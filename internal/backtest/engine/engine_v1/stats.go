package engine

import (
	"time"

	"github.com/rxtech-lab/argo-ledger/internal/account"
	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// calculateStats summarises a finished run. finalValue is the account's total value at the
// last close; bars must not be empty.
func calculateStats(
	runID string,
	strategyName string,
	symbol string,
	acc *account.Account,
	bars []types.MarketData,
	outcomes []types.BarOutcome,
	finalValue float64,
) types.BacktestStats {
	initial := acc.InitialCapital().InexactFloat64()
	first, last := bars[0], bars[len(bars)-1]

	strategyReturn := types.PercentChange(initial, finalValue)
	buyAndHoldReturn := types.PercentChange(first.Open, last.Close)
	strategyProfit := types.Profit(initial, strategyReturn)
	buyAndHoldProfit := types.Profit(initial, buyAndHoldReturn)

	curve := acc.EquityCurve()
	equity := make([]float64, len(curve))

	for i, v := range curve {
		equity[i] = v.InexactFloat64()
	}

	trades := acc.Trades()
	buys, sells := types.CountTrades(trades)

	return types.BacktestStats{
		ID:             runID,
		Timestamp:      time.Now(),
		Symbol:         symbol,
		Strategy:       strategyName,
		StartTime:      first.Time,
		EndTime:        last.Time,
		Bars:           len(bars),
		FailedBars:     types.CountFailures(outcomes),
		InitialCapital: initial,
		FinalValue:     finalValue,
		Returns: types.ReturnStats{
			StrategyReturn:   strategyReturn,
			StrategyProfit:   strategyProfit,
			BuyAndHoldReturn: buyAndHoldReturn,
			BuyAndHoldProfit: buyAndHoldProfit,
			RelativeReturn:   strategyReturn - buyAndHoldReturn,
			RelativeProfit:   strategyProfit - buyAndHoldProfit,
			MaxDrawdown:      types.MaxDrawdown(equity),
			Volatility:       types.Volatility(bars),
		},
		Trades: types.TradeCounts{
			Buys:  buys,
			Sells: sells,
			Total: len(trades),
		},
	}
}
