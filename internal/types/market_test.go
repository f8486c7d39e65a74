package types

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func bar(t time.Time, close float64) MarketData {
	return MarketData{Symbol: "BTCUSDT", Time: t, Open: close, High: close + 1, Low: close - 1, Close: close, Volume: 10}
}

func (suite *MarketTestSuite) TestValidate() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.NoError(bar(now, 100).Validate())

	inverted := bar(now, 100)
	inverted.High = 90
	err := inverted.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	negative := bar(now, 100)
	negative.Low = -1
	suite.Error(negative.Validate())

	suite.Error(MarketData{}.Validate(), "zero time is rejected")
}

func (suite *MarketTestSuite) TestValidateOrdering() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ordered := []MarketData{bar(start, 1), bar(start.Add(time.Minute), 2), bar(start.Add(2*time.Minute), 3)}
	suite.NoError(ValidateOrdering(ordered))
	suite.NoError(ValidateOrdering(nil))

	duplicated := []MarketData{bar(start, 1), bar(start, 2)}
	err := ValidateOrdering(duplicated)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnorderedData))

	backwards := []MarketData{bar(start.Add(time.Minute), 1), bar(start, 2)}
	suite.Error(ValidateOrdering(backwards))
}

func (suite *MarketTestSuite) TestValidateBars() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.NoError(ValidateBars([]MarketData{bar(start, 1), bar(start.Add(time.Minute), 2)}))

	inverted := bar(start.Add(time.Minute), 2)
	inverted.High, inverted.Low = 1, 3
	err := ValidateBars([]MarketData{bar(start, 1), inverted})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	suite.Contains(err.Error(), "bar 1 is invalid")

	negative := bar(start.Add(time.Minute), 2)
	negative.Close = -5
	suite.Error(ValidateBars([]MarketData{bar(start, 1), negative}))

	err = ValidateBars([]MarketData{bar(start, 1), bar(start, 2)})
	suite.True(errors.HasCode(err, errors.ErrCodeUnorderedData))
}

func (suite *MarketTestSuite) TestLogReturns() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []MarketData{bar(start, 100), bar(start.Add(time.Minute), 110), bar(start.Add(2*time.Minute), 99)}

	returns := LogReturns(bars)
	suite.Len(returns, 3)
	suite.True(math.IsNaN(returns[0]))
	suite.InDelta(math.Log(1.1), returns[1], 1e-12)
	suite.InDelta(math.Log(0.9), returns[2], 1e-12)
}
