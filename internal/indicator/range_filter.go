package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// RangeFilter follows the close but only moves when price leaves a band of smoothed
// average range. Values are (filter, smooth range, upward count, downward count).
type RangeFilter struct {
	state
	period     int
	multiplier float64

	avgRange    emaState
	smoothRange emaState
	seen        int
	prevSource  float64
	prevFilter  float64
	upward      float64
	downward    float64
}

// NewRangeFilter creates a new Range Filter indicator with default configuration.
func NewRangeFilter() Indicator {
	rf := &RangeFilter{period: 100, multiplier: 3.0}
	rf.avgRange = newEMAState(rf.period)
	rf.smoothRange = newEMAState(rf.period*2 - 1)
	rf.state = newState(rf)

	return rf
}

func (rf *RangeFilter) Name() types.IndicatorType {
	return types.IndicatorTypeRangeFilter
}

// Config expects period (int), multiplier (float64).
func (rf *RangeFilter) Config(params ...any) error {
	if err := expectParams(params, 2, "period (int), multiplier (float64)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	multiplier, err := floatParam(params, 1, "multiplier")
	if err != nil {
		return err
	}

	if multiplier <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be a positive number, got %f", multiplier)
	}

	rf.period = period
	rf.multiplier = multiplier
	rf.avgRange = newEMAState(period)
	rf.smoothRange = newEMAState(period*2 - 1)

	return nil
}

func (rf *RangeFilter) reset() {
	rf.avgRange.reset()
	rf.smoothRange.reset()
	rf.seen = 0
	rf.prevSource = math.NaN()
	rf.prevFilter = math.NaN()
	rf.upward = 0
	rf.downward = 0
}

func (rf *RangeFilter) next(window []types.MarketData) Value {
	src := window[len(window)-1].Close

	rf.seen++
	if rf.seen == 1 {
		rf.prevSource = src
		rf.prevFilter = src

		return Undefined(4)
	}

	avg := rf.avgRange.push(math.Abs(src - rf.prevSource))
	rf.prevSource = src

	if math.IsNaN(avg) {
		rf.prevFilter = src

		return Undefined(4)
	}

	smoothed := rf.smoothRange.push(avg)
	if math.IsNaN(smoothed) {
		rf.prevFilter = src

		return Undefined(4)
	}

	smrng := smoothed * rf.multiplier
	filt := rangeFilterValue(src, rf.prevFilter, smrng)

	switch {
	case filt > rf.prevFilter:
		rf.upward++
		rf.downward = 0
	case filt < rf.prevFilter:
		rf.upward = 0
		rf.downward++
	}

	rf.prevFilter = filt

	return Tuple(filt, smrng, rf.upward, rf.downward)
}

// rangeFilterValue moves the previous filter toward src only by more than smrng.
func rangeFilterValue(src, prevFilt, smrng float64) float64 {
	if src > prevFilt {
		if src-smrng < prevFilt {
			return prevFilt
		}

		return src - smrng
	}

	if src+smrng > prevFilt {
		return prevFilt
	}

	return src + smrng
}
