package provider

import (
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IntervalTestSuite struct {
	suite.Suite
}

func TestIntervalSuite(t *testing.T) {
	suite.Run(t, new(IntervalTestSuite))
}

func (suite *IntervalTestSuite) TestParseInterval() {
	tests := []struct {
		input      string
		multiplier int
		timespan   models.Timespan
		duration   time.Duration
	}{
		{"1s", 1, models.Second, time.Second},
		{"15m", 15, models.Minute, 15 * time.Minute},
		{"4h", 4, models.Hour, 4 * time.Hour},
		{"1d", 1, models.Day, 24 * time.Hour},
		{"3d", 3, models.Day, 72 * time.Hour},
		{"1w", 1, models.Week, 168 * time.Hour},
		{"1M", 1, models.Month, 720 * time.Hour},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			interval, err := ParseInterval(tc.input)
			suite.Require().NoError(err)
			suite.Equal(tc.multiplier, interval.Multiplier())
			suite.Equal(tc.timespan, interval.Timespan())
			suite.Equal(tc.duration, interval.Duration())
		})
	}
}

func (suite *IntervalTestSuite) TestParseIntervalRejectsUnknown() {
	for _, input := range []string{"", "2m", "1y", "1H", "minute"} {
		_, err := ParseInterval(input)
		suite.Equal(errors.ErrCodeInvalidInterval, errors.GetCode(err), input)
	}
}

func (suite *IntervalTestSuite) TestIntervalFromTimespan() {
	tests := []struct {
		timespan   models.Timespan
		multiplier int
		expected   Interval
	}{
		{models.Second, 1, IntervalOneSecond},
		{models.Minute, 5, IntervalFiveMinutes},
		{models.Minute, 30, IntervalThirtyMinutes},
		{models.Hour, 12, IntervalTwelveHours},
		{models.Day, 1, IntervalOneDay},
		{models.Week, 1, IntervalOneWeek},
		{models.Month, 1, IntervalOneMonth},
	}

	for _, tc := range tests {
		interval, err := IntervalFromTimespan(tc.timespan, tc.multiplier)
		suite.Require().NoError(err)
		suite.Equal(tc.expected, interval)
	}

	_, err := IntervalFromTimespan(models.Minute, 7)
	suite.Equal(errors.ErrCodeInvalidInterval, errors.GetCode(err))

	_, err = IntervalFromTimespan(models.Quarter, 1)
	suite.Equal(errors.ErrCodeInvalidInterval, errors.GetCode(err))
}

func (suite *IntervalTestSuite) TestLastClosed() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []types.MarketData{
		{Symbol: "BTCUSDT", Time: start},
		{Symbol: "BTCUSDT", Time: start.Add(time.Hour)},
		{Symbol: "BTCUSDT", Time: start.Add(2 * time.Hour)},
	}

	suite.Len(lastClosed(bars, IntervalOneHour, start.Add(3*time.Hour)), 3)
	suite.Len(lastClosed(bars, IntervalOneHour, start.Add(2*time.Hour+time.Minute)), 2)
	suite.Empty(lastClosed(bars, IntervalOneHour, start.Add(30*time.Minute)))
	suite.Empty(lastClosed(nil, IntervalOneHour, start))
}
