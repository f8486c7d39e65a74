package indicator

import (
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// Indicator is a technical indicator that can be rebuilt over a full bar history or
// advanced by a single new bar. Both paths yield the same value for the same bar.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config sets the indicator parameters. It must be called before Compute.
	Config(params ...any) error
	// Compute discards all values and carried state and recomputes one value per bar.
	Compute(bars []types.MarketData) error
	// Update appends exactly one value for the last bar of bars.
	// bars must be the previous series plus one new bar, and may be capped at the front.
	Update(bars []types.MarketData) error
	// Values returns every computed value.
	Values() Series
	// Lookback returns the values visible to the strategy for the current bar.
	Lookback() Series
	// SetLookback limits Lookback to the first n values. A negative n removes the limit.
	SetLookback(n int)
	// Trim drops the oldest values so that at most keep remain.
	Trim(keep int)
}

// calculator is the per-indicator arithmetic shared by Compute and Update.
type calculator interface {
	reset()
	// next returns the value for the last bar of window and advances any carried state.
	next(window []types.MarketData) Value
}

// state stores the computed values of an indicator and drives its calculator.
type state struct {
	calc     calculator
	values   []Value
	lookback int
}

func newState(calc calculator) state {
	return state{
		calc:     calc,
		values:   []Value{},
		lookback: -1,
	}
}

func (s *state) Compute(bars []types.MarketData) error {
	s.calc.reset()
	s.values = make([]Value, 0, len(bars))
	s.lookback = -1

	for i := range bars {
		s.values = append(s.values, s.calc.next(bars[:i+1]))
	}

	return nil
}

func (s *state) Update(bars []types.MarketData) error {
	if len(bars) == 0 {
		return errors.NewInsufficientDataError(1, 0, "", "update requires at least one bar")
	}

	s.values = append(s.values, s.calc.next(bars))

	return nil
}

func (s *state) Values() Series {
	return Series{values: s.values}
}

func (s *state) Lookback() Series {
	if s.lookback < 0 || s.lookback >= len(s.values) {
		return Series{values: s.values}
	}

	return Series{values: s.values[:s.lookback]}
}

func (s *state) SetLookback(n int) {
	s.lookback = n
}

func (s *state) Trim(keep int) {
	if keep < 0 || len(s.values) <= keep {
		return
	}

	trimmed := make([]Value, keep)
	copy(trimmed, s.values[len(s.values)-keep:])
	s.values = trimmed
}

// closes extracts the close prices of bars.
func closes(bars []types.MarketData) []float64 {
	out := make([]float64, len(bars))
	for i, bar := range bars {
		out[i] = bar.Close
	}

	return out
}

// tail returns the last n bars, or nil when fewer are available.
func tail(bars []types.MarketData, n int) []types.MarketData {
	if len(bars) < n {
		return nil
	}

	return bars[len(bars)-n:]
}
