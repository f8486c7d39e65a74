package strategy

import (
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
)

// Lookback is the history visible to a strategy on the current bar: the bars up to and
// including it and the indicators whose values are truncated to the same length.
type Lookback struct {
	bars     []types.MarketData
	registry indicator.IndicatorRegistry
}

// NewLookback creates a lookback over bars backed by registry.
func NewLookback(bars []types.MarketData, registry indicator.IndicatorRegistry) Lookback {
	return Lookback{bars: bars, registry: registry}
}

func (l Lookback) Len() int {
	return len(l.bars)
}

// At returns bar i. Negative indices count from the end.
func (l Lookback) At(i int) types.MarketData {
	if i < 0 {
		i += len(l.bars)
	}

	return l.bars[i]
}

// Last returns the current bar.
func (l Lookback) Last() types.MarketData {
	return l.bars[len(l.bars)-1]
}

// LastPrice returns the current close as a decimal.
func (l Lookback) LastPrice() decimal.Decimal {
	return decimal.NewFromFloat(l.Last().Close)
}

// Closes returns the close prices of every visible bar.
func (l Lookback) Closes() []float64 {
	out := make([]float64, len(l.bars))
	for i, bar := range l.bars {
		out[i] = bar.Close
	}

	return out
}

// Indicator returns the values of a registered indicator visible on the current bar.
func (l Lookback) Indicator(name types.IndicatorType) (indicator.Series, error) {
	if l.registry == nil {
		return indicator.Series{}, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	ind, err := l.registry.GetIndicator(name)
	if err != nil {
		return indicator.Series{}, err
	}

	return ind.Lookback(), nil
}

// LastValue returns the current value of a registered indicator.
func (l Lookback) LastValue(name types.IndicatorType) (indicator.Value, error) {
	series, err := l.Indicator(name)
	if err != nil {
		return indicator.Value{}, err
	}

	value, ok := series.Last()
	if !ok {
		return indicator.Value{}, errors.NewInsufficientDataErrorf(1, 0, l.Last().Symbol, "%s has no values", name)
	}

	return value, nil
}
