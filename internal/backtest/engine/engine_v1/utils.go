package engine

import (
	"fmt"
	"path/filepath"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// getResultFolder returns <root>/<strategy>/<symbol>_<first bar>_<last bar>.
func getResultFolder(root string, strategyName string, symbol string, bars []types.MarketData) string {
	if symbol == "" {
		symbol = "unknown"
	}

	timeRange := "empty"
	if len(bars) > 0 {
		timeRange = fmt.Sprintf("%s_%s",
			bars[0].Time.Format("20060102"),
			bars[len(bars)-1].Time.Format("20060102"))
	}

	return filepath.Join(root, strategyName, fmt.Sprintf("%s_%s", symbol, timeRange))
}

// applyWindow drops bars before startTime, or keeps only the last lookbackSize bars when
// no start time is configured.
func applyWindow(bars []types.MarketData, config BacktestEngineV1Config) []types.MarketData {
	if start, err := config.StartTime.Take(); err == nil {
		for i, bar := range bars {
			if !bar.Time.Before(start) {
				return bars[i:]
			}
		}

		return nil
	}

	if size, err := config.RelativeLookbackSize.Take(); err == nil && size < len(bars) {
		return bars[len(bars)-size:]
	}

	return bars
}
