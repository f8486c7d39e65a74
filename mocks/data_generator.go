package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// DataGenerator produces synthetic bars for engine tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a generator. A fixed seed gives reproducible bars.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval between consecutive bars
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the standard deviation of the per-bar return, e.g. 0.002 for 0.2%.
	Volatility float64
	// Trend is the total drift spread over Count bars.
	Trend      float64
	VolumeBase float64
}

func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "BTCUSDT",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Minute,
		Count:        1000,
		InitialPrice: 100.0,
		Volatility:   0.002,
		Trend:        0.0,
		VolumeBase:   10000,
	}
}

// Generate creates bars following a geometric random walk. Every bar satisfies
// low <= min(open, close) and high >= max(open, close), and prices stay positive.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	bars := make([]types.MarketData, config.Count)
	price := config.InitialPrice
	drift := 0.0

	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := range bars {
		open := price

		// Box-Muller
		z := math.Sqrt(-2*math.Log(1-g.rng.Float64())) * math.Cos(2*math.Pi*g.rng.Float64())

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		wick := config.Volatility * open * 0.5
		high := math.Max(open, closePrice) + g.rng.Float64()*wick
		low := math.Min(open, closePrice) - g.rng.Float64()*wick

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		bars[i] = types.MarketData{
			Id:     "",
			Symbol: config.Symbol,
			Time:   config.StartTime.Add(time.Duration(i) * config.Interval),
			Open:   round(open, 4),
			High:   round(high, 4),
			Low:    round(low, 4),
			Close:  round(closePrice, 4),
			Volume: round(config.VolumeBase*(0.7+0.6*g.rng.Float64()), 2),
		}

		price = closePrice
	}

	return bars
}

// Linear returns count bars whose close moves by step every bar, starting at
// config.InitialPrice. Open equals the previous close, and the wicks are one unit wide.
func Linear(config GeneratorConfig, step float64) []types.MarketData {
	bars := make([]types.MarketData, config.Count)
	prev := config.InitialPrice

	for i := range bars {
		closePrice := config.InitialPrice + step*float64(i)
		bars[i] = types.MarketData{
			Id:     "",
			Symbol: config.Symbol,
			Time:   config.StartTime.Add(time.Duration(i) * config.Interval),
			Open:   prev,
			High:   math.Max(prev, closePrice) + 1,
			Low:    math.Max(math.Min(prev, closePrice)-1, 0),
			Close:  closePrice,
			Volume: config.VolumeBase,
		}
		prev = closePrice
	}

	return bars
}

func round(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
