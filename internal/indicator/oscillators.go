package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// RSI is the relative strength index with Wilder smoothing of gains and losses.
type RSI struct {
	state
	period int
	gains  wilderState
	losses wilderState
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	r := &RSI{period: 14, gains: newWilderState(14), losses: newWilderState(14)}
	r.state = newState(r)

	return r
}

func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config expects period (int).
func (r *RSI) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	r.period = period
	r.gains = newWilderState(period)
	r.losses = newWilderState(period)

	return nil
}

func (r *RSI) reset() {
	r.gains.reset()
	r.losses.reset()
}

func (r *RSI) next(window []types.MarketData) Value {
	if len(window) < 2 {
		return Scalar(math.NaN())
	}

	change := window[len(window)-1].Close - window[len(window)-2].Close
	avgGain := r.gains.push(math.Max(change, 0))
	avgLoss := r.losses.push(math.Max(-change, 0))

	if math.IsNaN(avgGain) {
		return Scalar(math.NaN())
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return Scalar(50)
		}

		return Scalar(100)
	}

	return Scalar(100 - 100/(1+avgGain/avgLoss))
}

// Stochastic is the slow stochastic oscillator. Values are (%K, %D).
type Stochastic struct {
	state
	kPeriod int
	kSmooth int
	dPeriod int
	rawK    ring
	slowK   ring
}

// NewStochastic creates a new Stochastic indicator with default configuration.
func NewStochastic() Indicator {
	s := &Stochastic{kPeriod: 14, kSmooth: 3, dPeriod: 3, rawK: newRing(3), slowK: newRing(3)}
	s.state = newState(s)

	return s
}

func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOsciallator
}

// Config expects kPeriod (int), kSmooth (int), dPeriod (int).
func (s *Stochastic) Config(params ...any) error {
	if err := expectParams(params, 3, "kPeriod (int), kSmooth (int), dPeriod (int)"); err != nil {
		return err
	}

	kPeriod, err := periodParam(params, 0, "kPeriod")
	if err != nil {
		return err
	}

	kSmooth, err := periodParam(params, 1, "kSmooth")
	if err != nil {
		return err
	}

	dPeriod, err := periodParam(params, 2, "dPeriod")
	if err != nil {
		return err
	}

	s.kPeriod = kPeriod
	s.kSmooth = kSmooth
	s.dPeriod = dPeriod
	s.rawK = newRing(kSmooth)
	s.slowK = newRing(dPeriod)

	return nil
}

func (s *Stochastic) reset() {
	s.rawK.reset()
	s.slowK.reset()
}

func (s *Stochastic) next(window []types.MarketData) Value {
	bars := tail(window, s.kPeriod)
	if bars == nil {
		return Undefined(2)
	}

	highest, lowest := highLow(bars)

	raw := 50.0
	if highest > lowest {
		raw = 100 * (bars[len(bars)-1].Close - lowest) / (highest - lowest)
	}

	s.rawK.push(raw)
	if !s.rawK.full() {
		return Undefined(2)
	}

	k := s.rawK.mean()

	s.slowK.push(k)
	if !s.slowK.full() {
		return Tuple(k, math.NaN())
	}

	return Tuple(k, s.slowK.mean())
}

// WilliamsR is Williams %R, ranging from -100 to 0.
type WilliamsR struct {
	state
	period int
}

// NewWilliamsR creates a new Williams %R indicator with default configuration.
func NewWilliamsR() Indicator {
	w := &WilliamsR{period: 14}
	w.state = newState(w)

	return w
}

func (w *WilliamsR) Name() types.IndicatorType {
	return types.IndicatorTypeWilliamsR
}

// Config expects period (int).
func (w *WilliamsR) Config(params ...any) error {
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

func (w *WilliamsR) reset() {}

func (w *WilliamsR) next(window []types.MarketData) Value {
	bars := tail(window, w.period)
	if bars == nil {
		return Scalar(math.NaN())
	}

	highest, lowest := highLow(bars)
	if highest == lowest {
		return Scalar(-50)
	}

	return Scalar(-100 * (highest - bars[len(bars)-1].Close) / (highest - lowest))
}

// Momentum is close - close[period bars ago].
type Momentum struct {
	state
	period int
}

// NewMomentum creates a new Momentum indicator with default configuration.
func NewMomentum() Indicator {
	m := &Momentum{period: 10}
	m.state = newState(m)

	return m
}

func (m *Momentum) Name() types.IndicatorType {
	return types.IndicatorTypeMomentum
}

// Config expects period (int).
func (m *Momentum) Config(params ...any) error {
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

func (m *Momentum) reset() {}

func (m *Momentum) next(window []types.MarketData) Value {
	bars := tail(window, m.period+1)
	if bars == nil {
		return Scalar(math.NaN())
	}

	return Scalar(bars[m.period].Close - bars[0].Close)
}

// ROC is the rate of change in percent over the period.
type ROC struct {
	state
	period int
}

// NewROC creates a new ROC indicator with default configuration.
func NewROC() Indicator {
	r := &ROC{period: 10}
	r.state = newState(r)

	return r
}

func (r *ROC) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

// Config expects period (int).
func (r *ROC) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

func (r *ROC) reset() {}

func (r *ROC) next(window []types.MarketData) Value {
	bars := tail(window, r.period+1)
	if bars == nil || bars[0].Close == 0 {
		return Scalar(math.NaN())
	}

	return Scalar(100 * (bars[r.period].Close - bars[0].Close) / bars[0].Close)
}

// CCI is the commodity channel index of the typical price.
type CCI struct {
	state
	period int
}

// NewCCI creates a new CCI indicator with default configuration.
func NewCCI() Indicator {
	c := &CCI{period: 20}
	c.state = newState(c)

	return c
}

func (c *CCI) Name() types.IndicatorType {
	return types.IndicatorTypeCCI
}

// Config expects period (int).
func (c *CCI) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	c.period = period

	return nil
}

func (c *CCI) reset() {}

func (c *CCI) next(window []types.MarketData) Value {
	bars := tail(window, c.period)
	if bars == nil {
		return Scalar(math.NaN())
	}

	typical := make([]float64, len(bars))
	for i, bar := range bars {
		typical[i] = (bar.High + bar.Low + bar.Close) / 3
	}

	avg := mean(typical)

	deviation := 0.0
	for _, tp := range typical {
		deviation += math.Abs(tp - avg)
	}

	deviation /= float64(len(typical))
	if deviation == 0 {
		return Scalar(0)
	}

	return Scalar((typical[len(typical)-1] - avg) / (0.015 * deviation))
}

// Aroon measures bars since the period high and low. Values are (down, up).
type Aroon struct {
	state
	period int
}

// NewAroon creates a new Aroon indicator with default configuration.
func NewAroon() Indicator {
	a := &Aroon{period: 25}
	a.state = newState(a)

	return a
}

func (a *Aroon) Name() types.IndicatorType {
	return types.IndicatorTypeAroon
}

// Config expects period (int).
func (a *Aroon) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

func (a *Aroon) reset() {}

func (a *Aroon) next(window []types.MarketData) Value {
	bars := tail(window, a.period+1)
	if bars == nil {
		return Undefined(2)
	}

	// ties resolve to the most recent bar
	highIdx, lowIdx := 0, 0
	for i, bar := range bars {
		if bar.High >= bars[highIdx].High {
			highIdx = i
		}

		if bar.Low <= bars[lowIdx].Low {
			lowIdx = i
		}
	}

	period := float64(a.period)

	return Tuple(100*float64(lowIdx)/period, 100*float64(highIdx)/period)
}

// highLow returns the highest high and lowest low of bars.
func highLow(bars []types.MarketData) (float64, float64) {
	highest, lowest := math.Inf(-1), math.Inf(1)
	for _, bar := range bars {
		highest = math.Max(highest, bar.High)
		lowest = math.Min(lowest, bar.Low)
	}

	return highest, lowest
}
