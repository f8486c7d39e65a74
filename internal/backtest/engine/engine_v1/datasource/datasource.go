package datasource

import (
	"iter"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/types"
)

type DataSource interface {
	// Initialize loads the bars stored at path. Parquet and CSV files are supported.
	Initialize(path string) error
	// ReadAll yields the bars between start and end (inclusive) in ascending time order.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.MarketData, error]
	// ReadLastData reads the latest bar for a specific symbol
	ReadLastData(symbol string) (types.MarketData, error)
	// Count returns the number of bars between start and end
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}

// ReadSlice drains ReadAll into a slice, stopping at the first error.
func ReadSlice(ds DataSource, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.MarketData, error) {
	var bars []types.MarketData

	for bar, err := range ds.ReadAll(start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, nil
}
