package provider

import (
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// Interval is a candle interval in exchange notation, e.g. "15m" or "4h".
type Interval string

const (
	IntervalOneSecond      Interval = "1s"
	IntervalOneMinute      Interval = "1m"
	IntervalThreeMinutes   Interval = "3m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalOneHour        Interval = "1h"
	IntervalTwoHours       Interval = "2h"
	IntervalFourHours      Interval = "4h"
	IntervalSixHours       Interval = "6h"
	IntervalEightHours     Interval = "8h"
	IntervalTwelveHours    Interval = "12h"
	IntervalOneDay         Interval = "1d"
	IntervalThreeDays      Interval = "3d"
	IntervalOneWeek        Interval = "1w"
	IntervalOneMonth       Interval = "1M"
)

type intervalSpec struct {
	multiplier int
	timespan   models.Timespan
	duration   time.Duration
}

var intervals = map[Interval]intervalSpec{
	IntervalOneSecond:      {1, models.Second, time.Second},
	IntervalOneMinute:      {1, models.Minute, time.Minute},
	IntervalThreeMinutes:   {3, models.Minute, 3 * time.Minute},
	IntervalFiveMinutes:    {5, models.Minute, 5 * time.Minute},
	IntervalFifteenMinutes: {15, models.Minute, 15 * time.Minute},
	IntervalThirtyMinutes:  {30, models.Minute, 30 * time.Minute},
	IntervalOneHour:        {1, models.Hour, time.Hour},
	IntervalTwoHours:       {2, models.Hour, 2 * time.Hour},
	IntervalFourHours:      {4, models.Hour, 4 * time.Hour},
	IntervalSixHours:       {6, models.Hour, 6 * time.Hour},
	IntervalEightHours:     {8, models.Hour, 8 * time.Hour},
	IntervalTwelveHours:    {12, models.Hour, 12 * time.Hour},
	IntervalOneDay:         {1, models.Day, 24 * time.Hour},
	IntervalThreeDays:      {3, models.Day, 72 * time.Hour},
	IntervalOneWeek:        {1, models.Week, 7 * 24 * time.Hour},
	// calendar months vary; 30 days is used for lookback arithmetic only
	IntervalOneMonth: {1, models.Month, 30 * 24 * time.Hour},
}

// ParseInterval validates s against the supported intervals.
func ParseInterval(s string) (Interval, error) {
	interval := Interval(s)
	if _, ok := intervals[interval]; !ok {
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval: %q", s)
	}

	return interval, nil
}

// Multiplier returns the count of timespan units in the interval, e.g. 15 for "15m".
func (i Interval) Multiplier() int {
	if spec, ok := intervals[i]; ok {
		return spec.multiplier
	}

	return 1
}

// Timespan returns the polygon timespan unit of the interval.
func (i Interval) Timespan() models.Timespan {
	if spec, ok := intervals[i]; ok {
		return spec.timespan
	}

	return models.Day
}

// Duration returns the length of one candle.
func (i Interval) Duration() time.Duration {
	return intervals[i].duration
}

// IntervalFromTimespan converts a polygon timespan and multiplier to an exchange interval.
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func IntervalFromTimespan(timespan models.Timespan, multiplier int) (Interval, error) {
	var s string

	switch timespan {
	case models.Second:
		s = fmt.Sprintf("%ds", multiplier)
	case models.Minute:
		s = fmt.Sprintf("%dm", multiplier)
	case models.Hour:
		s = fmt.Sprintf("%dh", multiplier)
	case models.Day:
		s = fmt.Sprintf("%dd", multiplier)
	case models.Week:
		s = fmt.Sprintf("%dw", multiplier)
	case models.Month:
		s = fmt.Sprintf("%dM", multiplier)
	default:
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported timespan: %s", timespan)
	}

	interval, err := ParseInterval(s)
	if err != nil {
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported %s multiplier: %d", timespan, multiplier)
	}

	return interval, nil
}
