package provider

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/writer"
)

// PolygonAggsIterator abstracts the Polygon aggregates iterator for testing.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the Polygon REST client for testing.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type realPolygonAPIClient struct {
	client *polygon.Client
}

func (r *realPolygonAPIClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return r.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
	now       func() time.Time
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "apiKey is required")
	}

	return NewPolygonClientWithAPI(&realPolygonAPIClient{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client with a custom API client.
// This is used for testing with mock clients.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		writer:    nil,
		now:       time.Now,
	}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "no writer configured for PolygonClient. Call ConfigWriter first")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
		}
	}()

	total := endDate.Sub(startDate).Hours()/24 + 1
	processed := 0

	err = c.each(ctx, ticker, startDate, endDate, multiplier, timespan, func(data types.MarketData) error {
		if err := c.writer.Write(data); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write data", err)
		}

		processed++
		if onProgress != nil && processed%1000 == 0 {
			onProgress(data.Time.Sub(startDate).Hours()/24, total, fmt.Sprintf("Downloading %s", ticker))
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	if onProgress != nil {
		onProgress(total, total, fmt.Sprintf("Downloaded %d bars for %s", processed, ticker))
	}

	path, err = c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return path, nil
}

// History returns closed aggregates for symbol. Without a start it reaches back
// DefaultHistorySize intervals from now.
func (c *PolygonClient) History(ctx context.Context, symbol string, interval string, start optional.Option[time.Time]) ([]types.MarketData, error) {
	parsed, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	now := c.now()
	from := start.TakeOr(now.Add(-time.Duration(DefaultHistorySize) * parsed.Duration()))

	var bars []types.MarketData

	err = c.each(ctx, symbol, from, now, parsed.Multiplier(), parsed.Timespan(), func(data types.MarketData) error {
		bars = append(bars, data)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return lastClosed(bars, parsed, now), nil
}

// Stream is not available on the REST aggregates API.
func (c *PolygonClient) Stream(_ context.Context, _ []string, _ string) iter.Seq2[types.MarketData, error] {
	return func(yield func(types.MarketData, error) bool) {
		yield(types.MarketData{}, errors.New(errors.ErrCodeProviderError, "polygon provider does not support streaming"))
	}
}

func (c *PolygonClient) each(ctx context.Context, ticker string, from, to time.Time, multiplier int, timespan models.Timespan, fn func(types.MarketData) error) error {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithLimit(50000).WithOrder(models.Asc)

	it := c.apiClient.ListAggs(ctx, params)

	for it.Next() {
		agg := it.Item()

		err := fn(types.MarketData{
			Id:     "",
			Symbol: ticker,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
		if err != nil {
			return err
		}
	}

	if err := it.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating polygon aggregates", err)
	}

	return nil
}
