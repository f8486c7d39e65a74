package writer

import (
	"github.com/rxtech-lab/argo-ledger/internal/types"
)

// MarketDataWriter persists downloaded bars. Bars arrive in provider order; the writer
// keeps them sorted by time in its output.
type MarketDataWriter interface {
	// Initialize prepares the staging storage. It must be called before Write.
	Initialize() error
	// Write stages one bar.
	Write(data types.MarketData) error
	// Finalize flushes the staged bars to the output file and returns its path.
	Finalize() (outputPath string, err error)
	Close() error
	GetOutputPath() string
}
