package types

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestPercentChangeAndProfit() {
	suite.InDelta(0.5, PercentChange(1000, 1500), 1e-12)
	suite.InDelta(-0.25, PercentChange(100, 75), 1e-12)

	suite.InDelta(500, Profit(1000, 0.5), 1e-9)
	suite.InDelta(-250, Profit(1000, -0.25), 1e-9)
	suite.InDelta(0, Profit(1000, 0), 1e-9)
}

func (suite *StatisticsTestSuite) TestMaxDrawdown() {
	tests := []struct {
		name     string
		curve    []float64
		expected float64
	}{
		{name: "empty", curve: nil, expected: 0},
		{name: "monotonic rise", curve: []float64{100, 110, 120}, expected: 0},
		{name: "single dip", curve: []float64{100, 120, 90, 130}, expected: 0.25},
		{name: "two dips keeps worst", curve: []float64{100, 80, 100, 95}, expected: 0.2},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, MaxDrawdown(tc.curve), 1e-12)
		})
	}
}

func (suite *StatisticsTestSuite) TestVolatility() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []MarketData{bar(start, 100), bar(start.Add(time.Minute), 110), bar(start.Add(2*time.Minute), 99)}

	// two samples: the stddev is half their spread times sqrt(2)
	expected := math.Abs(math.Log(1.1)-math.Log(0.9)) / math.Sqrt2
	suite.InDelta(expected, Volatility(bars), 1e-12)

	suite.Zero(Volatility(bars[:2]))
	suite.Zero(Volatility(nil))
}

func (suite *StatisticsTestSuite) TestWriteAndReadBacktestStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	stats := BacktestStats{
		ID:             "run-1",
		Timestamp:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Symbol:         "BTCUSDT",
		Strategy:       "buy_and_hold",
		Bars:           100,
		InitialCapital: 1000,
		FinalValue:     1100,
		Returns:        ReturnStats{StrategyReturn: 0.1, StrategyProfit: 100},
		Trades:         TradeCounts{Buys: 1, Sells: 0, Total: 1},
	}

	suite.Require().NoError(WriteBacktestStats(path, stats))

	loaded, err := ReadBacktestStats(path)
	suite.Require().NoError(err)
	suite.Equal("run-1", loaded.ID)
	suite.Equal(100, loaded.Bars)
	suite.Equal(1, loaded.Trades.Buys)
	suite.InDelta(0.1, loaded.Returns.StrategyReturn, 1e-12)
	suite.True(stats.Timestamp.Equal(loaded.Timestamp))
}

func (suite *StatisticsTestSuite) TestReadMissingStats() {
	_, err := ReadBacktestStats(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}
