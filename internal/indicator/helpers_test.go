package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-ledger/internal/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// closeBars builds bars whose high, low and close all equal the given closes.
func closeBars(closes ...float64) []types.MarketData {
	bars := make([]types.MarketData, len(closes))
	for i, c := range closes {
		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   testStart.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}

	return bars
}

// hlcBars builds bars from (high, low, close) triples.
func hlcBars(triples ...[3]float64) []types.MarketData {
	bars := make([]types.MarketData, len(triples))
	for i, t := range triples {
		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   testStart.Add(time.Duration(i) * time.Minute),
			Open:   t[2],
			High:   t[0],
			Low:    t[1],
			Close:  t[2],
			Volume: 1,
		}
	}

	return bars
}

// wavyBars is a deterministic trending, oscillating series with real ranges.
func wavyBars(n int) []types.MarketData {
	bars := make([]types.MarketData, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 0.05*x + 8*math.Sin(x/7) + 3*math.Sin(x/2.3)
		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   testStart.Add(time.Duration(i) * time.Minute),
			Open:   c - 0.4*math.Cos(x),
			High:   c + 1 + 0.5*math.Abs(math.Sin(x/3)),
			Low:    c - 1 - 0.5*math.Abs(math.Cos(x/5)),
			Close:  c,
			Volume: 1000 + 10*x,
		}
	}

	return bars
}
