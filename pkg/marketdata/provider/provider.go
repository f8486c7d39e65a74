package provider

import (
	"context"
	"iter"
	"time"

	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// DefaultHistorySize is how many closed candles History returns when no start is given.
const DefaultHistorySize = 1000

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer Download persists bars to.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download downloads the data for the given ticker and date range.
	// The context can be used to cancel the download operation.
	// example:
	// Download(ctx, "AAPL", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), 1, models.Minute, onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
	// History returns closed candles in time order, from start when given and otherwise
	// the most recent DefaultHistorySize.
	History(ctx context.Context, symbol string, interval string, start optional.Option[time.Time]) ([]types.MarketData, error)
	// Stream returns an iterator that yields closed candles as they complete.
	// The iterator yields MarketData and error pairs. Cancel the context to stop streaming.
	Stream(ctx context.Context, symbols []string, interval string) iter.Seq2[types.MarketData, error]
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
// Polygon requires its API key as config.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// lastClosed drops trailing candles that have not closed by now.
func lastClosed(bars []types.MarketData, interval Interval, now time.Time) []types.MarketData {
	for len(bars) > 0 && bars[len(bars)-1].Time.Add(interval.Duration()).After(now) {
		bars = bars[:len(bars)-1]
	}

	return bars
}
