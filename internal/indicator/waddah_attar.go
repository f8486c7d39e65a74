package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// WaddahAttar is the Waddah Attar Explosion: the MACD line and the ATR, both scaled by
// multiplier. Values are (trend, explosion).
type WaddahAttar struct {
	state
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	atrPeriod    int
	multiplier   float64

	lines macdState
	atr   wilderState
}

// NewWaddahAttar creates a new Waddah Attar Explosion indicator with default configuration
func NewWaddahAttar() Indicator {
	wa := &WaddahAttar{
		fastPeriod:   20,
		slowPeriod:   40,
		signalPeriod: 9,
		atrPeriod:    14,
		multiplier:   150.0,
		lines:        newMACDState(20, 40, 9),
		atr:          newWilderState(14),
	}
	wa.state = newState(wa)

	return wa
}

func (wa *WaddahAttar) Name() types.IndicatorType {
	return types.IndicatorTypeWaddahAttar
}

// Config expects fastPeriod (int), slowPeriod (int), signalPeriod (int), atrPeriod (int), multiplier (float64).
func (wa *WaddahAttar) Config(params ...any) error {
	if err := expectParams(params, 5,
		"fastPeriod (int), slowPeriod (int), signalPeriod (int), atrPeriod (int), multiplier (float64)"); err != nil {
		return err
	}

	fast, slow, signal, err := macdPeriods(params)
	if err != nil {
		return err
	}

	atrPeriod, err := periodParam(params, 3, "atrPeriod")
	if err != nil {
		return err
	}

	multiplier, err := floatParam(params, 4, "multiplier")
	if err != nil {
		return err
	}

	if multiplier <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be a positive number, got %f", multiplier)
	}

	wa.fastPeriod = fast
	wa.slowPeriod = slow
	wa.signalPeriod = signal
	wa.atrPeriod = atrPeriod
	wa.multiplier = multiplier
	wa.lines = newMACDState(fast, slow, signal)
	wa.atr = newWilderState(atrPeriod)

	return nil
}

func (wa *WaddahAttar) reset() {
	wa.lines.reset()
	wa.atr.reset()
}

func (wa *WaddahAttar) next(window []types.MarketData) Value {
	macd, _ := wa.lines.push(window[len(window)-1].Close)
	atr := wa.atr.push(barTrueRange(window))

	if math.IsNaN(macd) || math.IsNaN(atr) {
		return Undefined(2)
	}

	return Tuple(macd*wa.multiplier, atr*wa.multiplier)
}
