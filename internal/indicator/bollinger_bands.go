package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// BollingerBands are a moving average of closes with bands stdDev population standard
// deviations away. Values are (upper, middle, lower).
type BollingerBands struct {
	state
	period int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	b := &BollingerBands{period: 20, stdDev: 2.0}
	b.state = newState(b)

	return b
}

func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config expects period (int), stdDev (float64).
func (b *BollingerBands) Config(params ...any) error {
	if err := expectParams(params, 2, "period (int), stdDev (float64)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	stdDev, err := floatParam(params, 1, "stdDev")
	if err != nil {
		return err
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "stdDev must be a positive number, got %f", stdDev)
	}

	b.period = period
	b.stdDev = stdDev

	return nil
}

func (b *BollingerBands) reset() {}

func (b *BollingerBands) next(window []types.MarketData) Value {
	bars := tail(window, b.period)
	if bars == nil {
		return Undefined(3)
	}

	prices := closes(bars)
	middle := mean(prices)
	width := b.stdDev * populationStdDev(prices)

	return Tuple(middle+width, middle, middle-width)
}

// Width returns (upper - lower) / middle for a band value, NaN during warm-up.
func Width(v Value) float64 {
	if v.IsNaN() || v.At(1) == 0 {
		return math.NaN()
	}

	return (v.At(0) - v.At(2)) / v.At(1)
}
