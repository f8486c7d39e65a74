package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// ATR is the average true range with Wilder smoothing.
type ATR struct {
	state
	period int
	avg    wilderState
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	a := &ATR{period: 14, avg: newWilderState(14)}
	a.state = newState(a)

	return a
}

func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config expects period (int).
func (a *ATR) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	a.period = period
	a.avg = newWilderState(period)

	return nil
}

func (a *ATR) reset() {
	a.avg.reset()
}

func (a *ATR) next(window []types.MarketData) Value {
	return Scalar(a.avg.push(barTrueRange(window)))
}

// barTrueRange is the true range of the last bar of window.
func barTrueRange(window []types.MarketData) float64 {
	bar := window[len(window)-1]
	if len(window) < 2 {
		return trueRange(bar.High, bar.Low, math.NaN(), false)
	}

	return trueRange(bar.High, bar.Low, window[len(window)-2].Close, true)
}
