package main

import (
	backtestv1 "github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"go.uber.org/zap"
)

// checkSymbol makes sure the data file holds bars for the symbol named in the engine config,
// so a mismatched file fails before the strategy runs. An empty symbol is taken from the
// data by the engine and is not checked.
func checkSymbol(ds datasource.DataSource, config string, log *logger.Logger) error {
	parsed, err := backtestv1.ParseConfig(config)
	if err != nil {
		return err
	}

	if parsed.Symbol == "" {
		return nil
	}

	last, err := ds.ReadLastData(parsed.Symbol)
	if err != nil {
		return err
	}

	log.Info("Loaded market data",
		zap.String("symbol", parsed.Symbol),
		zap.Time("last_bar", last.Time),
		zap.Float64("last_close", last.Close),
	)

	return nil
}

// logStrategyError keeps orders the ledger rejected at debug level. Any other strategy
// failure is a warning.
func logStrategyError(log *logger.Logger, data types.MarketData, err error) {
	fields := []zap.Field{zap.Time("time", data.Time), zap.Error(err)}

	if errors.IsLedgerError(err) {
		log.Debug("Order rejected by ledger", fields...)

		return
	}

	log.Warn("Strategy failed on bar", append(fields, zap.String("category", errors.GetCode(err).Category()))...)
}

// showSavedRun renders the summary of a run saved to a stats.yaml file.
func showSavedRun(path string) (string, error) {
	stats, err := types.ReadBacktestStats(path)
	if err != nil {
		return "", err
	}

	return renderSummary(stats), nil
}
