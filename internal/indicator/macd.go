package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// MACD is the moving average convergence divergence. Values are (macd, signal, histogram).
type MACD struct {
	state
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
	lines        macdState
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	m := &MACD{fastPeriod: 12, slowPeriod: 26, signalPeriod: 9, lines: newMACDState(12, 26, 9)}
	m.state = newState(m)

	return m
}

func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config expects fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if err := expectParams(params, 3, "fastPeriod (int), slowPeriod (int), signalPeriod (int)"); err != nil {
		return err
	}

	fast, slow, signal, err := macdPeriods(params)
	if err != nil {
		return err
	}

	m.fastPeriod = fast
	m.slowPeriod = slow
	m.signalPeriod = signal
	m.lines = newMACDState(fast, slow, signal)

	return nil
}

func (m *MACD) reset() {
	m.lines.reset()
}

func (m *MACD) next(window []types.MarketData) Value {
	macd, signal := m.lines.push(window[len(window)-1].Close)
	if math.IsNaN(macd) {
		return Undefined(3)
	}

	return Tuple(macd, signal, macd-signal)
}

type macdState struct {
	fast   emaState
	slow   emaState
	signal emaState
}

func newMACDState(fast, slow, signal int) macdState {
	return macdState{fast: newEMAState(fast), slow: newEMAState(slow), signal: newEMAState(signal)}
}

func (s *macdState) reset() {
	s.fast.reset()
	s.slow.reset()
	s.signal.reset()
}

// push returns the macd line and its signal line; either may be NaN during warm-up.
func (s *macdState) push(x float64) (float64, float64) {
	fast := s.fast.push(x)
	slow := s.slow.push(x)

	if math.IsNaN(fast) || math.IsNaN(slow) {
		return math.NaN(), math.NaN()
	}

	macd := fast - slow

	return macd, s.signal.push(macd)
}

func macdPeriods(params []any) (int, int, int, error) {
	fast, err := periodParam(params, 0, "fastPeriod")
	if err != nil {
		return 0, 0, 0, err
	}

	slow, err := periodParam(params, 1, "slowPeriod")
	if err != nil {
		return 0, 0, 0, err
	}

	signal, err := periodParam(params, 2, "signalPeriod")
	if err != nil {
		return 0, 0, 0, err
	}

	if fast >= slow {
		return 0, 0, 0, errors.Newf(errors.ErrCodeInvalidPeriod,
			"fastPeriod must be less than slowPeriod, got fast=%d slow=%d", fast, slow)
	}

	return fast, slow, signal, nil
}
