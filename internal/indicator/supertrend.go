package indicator

import (
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// SuperTrend is a trailing band that flips between the final upper and lower bands when the
// close crosses it. True range and bands are rounded to 2 decimals. The first bar is 0.
type SuperTrend struct {
	state
	period int
	factor float64

	seen int
	atr  float64
	fub  float64
	flb  float64
	st   float64
}

// NewSuperTrend creates a new SuperTrend indicator with default configuration.
func NewSuperTrend() Indicator {
	s := &SuperTrend{period: 10, factor: 3.0}
	s.state = newState(s)

	return s
}

func (s *SuperTrend) Name() types.IndicatorType {
	return types.IndicatorTypeSuperTrend
}

// Config expects period (int), factor (float64).
func (s *SuperTrend) Config(params ...any) error {
	if err := expectParams(params, 2, "period (int), factor (float64)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	factor, err := floatParam(params, 1, "factor")
	if err != nil {
		return err
	}

	if factor <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "factor must be a positive number, got %f", factor)
	}

	s.period = period
	s.factor = factor

	return nil
}

func (s *SuperTrend) reset() {
	s.seen = 0
	s.atr = 0
	s.fub = 0
	s.flb = 0
	s.st = 0
}

func (s *SuperTrend) next(window []types.MarketData) Value {
	s.seen++
	if s.seen == 1 || len(window) < 2 {
		return Scalar(0)
	}

	bar := window[len(window)-1]
	prevClose := window[len(window)-2].Close

	tr := roundHalfEven(trueRange(bar.High, bar.Low, prevClose, true), 2)
	atr := (s.atr*float64(s.period-1) + tr) / float64(s.period)

	hl2 := (bar.High + bar.Low) / 2
	basicUpper := roundHalfEven(hl2+s.factor*atr, 2)
	basicLower := roundHalfEven(hl2-s.factor*atr, 2)

	finalUpper := s.fub
	if basicUpper < s.fub || prevClose > s.fub {
		finalUpper = basicUpper
	}

	finalLower := s.flb
	if basicLower > s.flb || prevClose < s.flb {
		finalLower = basicLower
	}

	var st float64

	switch {
	case s.st == s.fub && bar.Close <= finalUpper:
		st = finalUpper
	case s.st == s.fub && bar.Close > finalUpper:
		st = finalLower
	case s.st == s.flb && bar.Close >= finalLower:
		st = finalLower
	case s.st == s.flb && bar.Close < finalLower:
		st = finalUpper
	}

	s.atr = atr
	s.fub = finalUpper
	s.flb = finalLower
	s.st = st

	return Scalar(st)
}
