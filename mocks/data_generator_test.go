package mocks

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataGenerator_Generate(t *testing.T) {
	config := DefaultConfig()
	config.Count = 500

	bars := NewDataGenerator(42).Generate(config)
	require.Len(t, bars, 500)
	require.NoError(t, types.ValidateOrdering(bars))

	for i, bar := range bars {
		assert.NoError(t, bar.Validate(), "bar %d", i)
		assert.Equal(t, config.Symbol, bar.Symbol)
		assert.GreaterOrEqual(t, bar.High, math.Max(bar.Open, bar.Close), "bar %d", i)
		assert.LessOrEqual(t, bar.Low, math.Min(bar.Open, bar.Close), "bar %d", i)
		assert.Positive(t, bar.Low, "bar %d", i)

		if i > 0 {
			assert.Equal(t, config.Interval, bar.Time.Sub(bars[i-1].Time))
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 20

	assert.Equal(t, NewDataGenerator(42).Generate(config), NewDataGenerator(42).Generate(config))
	assert.NotEqual(t, NewDataGenerator(42).Generate(config), NewDataGenerator(123).Generate(config))
}

func TestLinear(t *testing.T) {
	config := DefaultConfig()
	config.Count = 4
	config.InitialPrice = 10
	config.Interval = time.Hour

	bars := Linear(config, 2)
	require.Len(t, bars, 4)
	assert.Equal(t, []float64{10, 12, 14, 16}, []float64{bars[0].Close, bars[1].Close, bars[2].Close, bars[3].Close})
	assert.Equal(t, 10.0, bars[0].Open)
	assert.Equal(t, 12.0, bars[2].Open)
	assert.Equal(t, 15.0, bars[2].High)
	assert.Equal(t, 11.0, bars[2].Low)
	assert.Equal(t, time.Hour, bars[1].Time.Sub(bars[0].Time))
	assert.NoError(t, types.ValidateOrdering(bars))
}
