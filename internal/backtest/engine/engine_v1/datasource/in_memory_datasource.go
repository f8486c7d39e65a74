package datasource

import (
	"iter"
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// InMemoryDataSource serves bars held in memory. Bars are yielded in the order given;
// the engine rejects sequences whose timestamps are not strictly increasing.
type InMemoryDataSource struct {
	bars []types.MarketData
}

func NewInMemoryDataSource(bars []types.MarketData) *InMemoryDataSource {
	return &InMemoryDataSource{bars: slices.Clone(bars)}
}

// Initialize is a no-op; the bars were supplied at construction.
func (m *InMemoryDataSource) Initialize(_ string) error {
	return nil
}

func inRange(t time.Time, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if s, err := start.Take(); err == nil && t.Before(s) {
		return false
	}

	if e, err := end.Take(); err == nil && t.After(e) {
		return false
	}

	return true
}

func (m *InMemoryDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.MarketData, error] {
	return func(yield func(types.MarketData, error) bool) {
		for _, bar := range m.bars {
			if !inRange(bar.Time, start, end) {
				continue
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

func (m *InMemoryDataSource) ReadLastData(symbol string) (types.MarketData, error) {
	for i := len(m.bars) - 1; i >= 0; i-- {
		if m.bars[i].Symbol == symbol {
			return m.bars[i], nil
		}
	}

	return types.MarketData{}, errors.Newf(errors.ErrCodeDataNotFound, "no market data found for symbol %s", symbol)
}

func (m *InMemoryDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	n := 0

	for _, bar := range m.bars {
		if inRange(bar.Time, start, end) {
			n++
		}
	}

	return n, nil
}

func (m *InMemoryDataSource) Close() error {
	return nil
}
