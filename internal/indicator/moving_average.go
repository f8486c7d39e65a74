package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// MA is the simple moving average of closes.
type MA struct {
	state
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	m := &MA{period: 20}
	m.state = newState(m)

	return m
}

func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config expects period (int).
func (m *MA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

func (m *MA) reset() {}

func (m *MA) next(window []types.MarketData) Value {
	bars := tail(window, m.period)
	if bars == nil {
		return Scalar(math.NaN())
	}

	return Scalar(mean(closes(bars)))
}

// EMA is the exponential moving average of closes, seeded with the SMA of the first period bars.
type EMA struct {
	state
	period int
	ema    emaState
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	e := &EMA{period: 20, ema: newEMAState(20)}
	e.state = newState(e)

	return e
}

func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config expects period (int).
func (e *EMA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	e.period = period
	e.ema = newEMAState(period)

	return nil
}

func (e *EMA) reset() {
	e.ema.reset()
}

func (e *EMA) next(window []types.MarketData) Value {
	return Scalar(e.ema.push(window[len(window)-1].Close))
}

// DEMA is the double exponential moving average: 2*EMA - EMA(EMA).
type DEMA struct {
	state
	period int
	first  emaState
	second emaState
}

// NewDEMA creates a new DEMA indicator with default configuration.
func NewDEMA() Indicator {
	d := &DEMA{period: 20, first: newEMAState(20), second: newEMAState(20)}
	d.state = newState(d)

	return d
}

func (d *DEMA) Name() types.IndicatorType {
	return types.IndicatorTypeDEMA
}

// Config expects period (int).
func (d *DEMA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	d.period = period
	d.first = newEMAState(period)
	d.second = newEMAState(period)

	return nil
}

func (d *DEMA) reset() {
	d.first.reset()
	d.second.reset()
}

func (d *DEMA) next(window []types.MarketData) Value {
	ema := d.first.push(window[len(window)-1].Close)
	if math.IsNaN(ema) {
		return Scalar(math.NaN())
	}

	emaOfEMA := d.second.push(ema)
	if math.IsNaN(emaOfEMA) {
		return Scalar(math.NaN())
	}

	return Scalar(2*ema - emaOfEMA)
}

// WMA is the linearly weighted moving average of closes; the newest bar weighs period.
type WMA struct {
	state
	period int
}

// NewWMA creates a new WMA indicator with default configuration.
func NewWMA() Indicator {
	w := &WMA{period: 20}
	w.state = newState(w)

	return w
}

func (w *WMA) Name() types.IndicatorType {
	return types.IndicatorTypeWMA
}

// Config expects period (int).
func (w *WMA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	w.period = period

	return nil
}

func (w *WMA) reset() {}

func (w *WMA) next(window []types.MarketData) Value {
	bars := tail(window, w.period)
	if bars == nil {
		return Scalar(math.NaN())
	}

	weighted := 0.0
	for i, bar := range bars {
		weighted += float64(i+1) * bar.Close
	}

	return Scalar(weighted / float64(w.period*(w.period+1)/2))
}

// MidPoint is (highest close + lowest close) / 2 over the period.
type MidPoint struct {
	state
	period int
}

// NewMidPoint creates a new MidPoint indicator with default configuration.
func NewMidPoint() Indicator {
	m := &MidPoint{period: 14}
	m.state = newState(m)

	return m
}

func (m *MidPoint) Name() types.IndicatorType {
	return types.IndicatorTypeMidPoint
}

// Config expects period (int).
func (m *MidPoint) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

func (m *MidPoint) reset() {}

func (m *MidPoint) next(window []types.MarketData) Value {
	bars := tail(window, m.period)
	if bars == nil {
		return Scalar(math.NaN())
	}

	highest, lowest := math.Inf(-1), math.Inf(1)
	for _, bar := range bars {
		highest = math.Max(highest, bar.Close)
		lowest = math.Min(lowest, bar.Close)
	}

	return Scalar((highest + lowest) / 2)
}
