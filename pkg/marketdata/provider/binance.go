package provider

import (
	"context"
	"iter"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/writer"
)

// binancePageSize is the most klines Binance returns per request.
const binancePageSize = 1000

// BinanceKlinesService abstracts the klines request builder for testing.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient abstracts the REST client for testing.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

// BinanceWsKline is a candle pushed over the kline WebSocket.
type BinanceWsKline struct {
	StartTime int64
	EndTime   int64
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	IsFinal   bool
}

// BinanceWsKlineEvent is a kline WebSocket message.
type BinanceWsKlineEvent struct {
	Symbol string
	Kline  BinanceWsKline
}

type WsKlineHandler func(event *BinanceWsKlineEvent)

type WsErrorHandler func(err error)

// BinanceWebSocketService abstracts the kline WebSocket for testing.
type BinanceWebSocketService interface {
	WsKlineServe(symbol string, interval string, handler WsKlineHandler, errHandler WsErrorHandler) (doneC chan struct{}, stopC chan struct{}, err error)
}

type realBinanceAPIClient struct {
	client *binance.Client
}

func (r *realBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &realBinanceKlinesService{service: r.client.NewKlinesService()}
}

type realBinanceKlinesService struct {
	service *binance.KlinesService
}

func (s *realBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *realBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *realBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realBinanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type realBinanceWebSocketService struct{}

func (realBinanceWebSocketService) WsKlineServe(symbol string, interval string, handler WsKlineHandler, errHandler WsErrorHandler) (chan struct{}, chan struct{}, error) {
	return binance.WsKlineServe(symbol, interval, func(event *binance.WsKlineEvent) {
		handler(&BinanceWsKlineEvent{
			Symbol: event.Symbol,
			Kline: BinanceWsKline{
				StartTime: event.Kline.StartTime,
				EndTime:   event.Kline.EndTime,
				Open:      event.Kline.Open,
				High:      event.Kline.High,
				Low:       event.Kline.Low,
				Close:     event.Kline.Close,
				Volume:    event.Kline.Volume,
				IsFinal:   event.Kline.IsFinal,
			},
		})
	}, binance.ErrHandler(errHandler))
}

// BinanceClient reads klines from Binance's public market data endpoints.
type BinanceClient struct {
	apiClient BinanceAPIClient
	wsService BinanceWebSocketService
	writer    writer.MarketDataWriter
	now       func() time.Time
}

func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithWebSocket(&realBinanceAPIClient{client: binance.NewClient("", "")}, realBinanceWebSocketService{}), nil
}

// NewBinanceClientWithAPI creates a client with a custom REST client.
// This is used for testing with mock clients.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return NewBinanceClientWithWebSocket(apiClient, realBinanceWebSocketService{})
}

// NewBinanceClientWithWebSocket creates a client with custom REST and WebSocket clients.
func NewBinanceClientWithWebSocket(apiClient BinanceAPIClient, wsService BinanceWebSocketService) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		wsService: wsService,
		writer:    nil,
		now:       time.Now,
	}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download writes the klines for ticker between startDate and endDate to the configured writer.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error) {
	interval, err := IntervalFromTimespan(timespan, multiplier)
	if err != nil {
		return "", err
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeInvalidConfiguration, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
		}
	}()

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()

	err = c.paginate(ctx, ticker, interval, startMillis, endMillis, func(page []*binance.Kline, next int64) error {
		for _, k := range page {
			data, err := klineToMarketData(ticker, k)
			if err != nil {
				return err
			}

			if err := c.writer.Write(data); err != nil {
				return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write market data", err)
			}
		}

		if onProgress != nil {
			onProgress(float64(next-startMillis), float64(endMillis-startMillis), "Downloading "+ticker+" klines from Binance")
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	path, err = c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return path, nil
}

// History returns closed klines for symbol.
func (c *BinanceClient) History(ctx context.Context, symbol string, interval string, start optional.Option[time.Time]) ([]types.MarketData, error) {
	parsed, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}

	now := c.now()

	startMillis := now.Add(-time.Duration(DefaultHistorySize+1) * parsed.Duration()).UnixMilli()
	if from, err := start.Take(); err == nil {
		startMillis = from.UnixMilli()
	}

	bars := make([]types.MarketData, 0, DefaultHistorySize)

	err = c.paginate(ctx, symbol, parsed, startMillis, now.UnixMilli(), func(page []*binance.Kline, _ int64) error {
		for _, k := range page {
			data, err := klineToMarketData(symbol, k)
			if err != nil {
				return err
			}

			bars = append(bars, data)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	bars = lastClosed(bars, parsed, now)

	if start.IsNone() && len(bars) > DefaultHistorySize {
		bars = bars[len(bars)-DefaultHistorySize:]
	}

	return bars, nil
}

// paginate requests pages of klines from startMillis until a short page or endMillis.
// Each page starts 1ms after the previous page's last close time.
func (c *BinanceClient) paginate(ctx context.Context, symbol string, interval Interval, startMillis, endMillis int64, onPage func(page []*binance.Kline, next int64) error) error {
	current := startMillis

	for current < endMillis {
		if err := ctx.Err(); err != nil {
			return err
		}

		klines, err := c.apiClient.NewKlinesService().
			Symbol(symbol).
			Interval(string(interval)).
			StartTime(current).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to fetch klines from Binance", err)
		}

		if len(klines) > 0 {
			current = klines[len(klines)-1].CloseTime + 1
		}

		if err := onPage(klines, current); err != nil {
			return err
		}

		if len(klines) < binancePageSize {
			break
		}
	}

	return nil
}

// Stream yields the final candle of every interval for each symbol until ctx is cancelled or
// every WebSocket connection closes. Connection errors are yielded and streaming continues.
func (c *BinanceClient) Stream(ctx context.Context, symbols []string, interval string) iter.Seq2[types.MarketData, error] {
	return func(yield func(types.MarketData, error) bool) {
		if _, err := ParseInterval(interval); err != nil {
			yield(types.MarketData{}, err)

			return
		}

		if len(symbols) == 0 {
			yield(types.MarketData{}, errors.New(errors.ErrCodeInvalidParameter, "at least one symbol is required"))

			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		type result struct {
			data types.MarketData
			err  error
		}

		results := make(chan result, 100)
		send := func(r result) {
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}

		dones := make([]chan struct{}, 0, len(symbols))
		stops := make([]chan struct{}, 0, len(symbols))

		defer func() {
			for _, stopC := range stops {
				close(stopC)
			}
		}()

		for _, symbol := range symbols {
			doneC, stopC, err := c.wsService.WsKlineServe(symbol, interval, func(event *BinanceWsKlineEvent) {
				if !event.Kline.IsFinal {
					return
				}

				data, err := wsKlineToMarketData(event)
				send(result{data: data, err: err})
			}, func(err error) {
				send(result{err: errors.Wrap(errors.ErrCodeProviderError, "binance websocket error", err)})
			})
			if err != nil {
				yield(types.MarketData{}, errors.Wrapf(errors.ErrCodeProviderError, err, "failed to subscribe to %s klines", symbol))

				return
			}

			dones = append(dones, doneC)
			stops = append(stops, stopC)
		}

		finished := make(chan struct{})

		go func() {
			for _, doneC := range dones {
				<-doneC
			}

			close(finished)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case r := <-results:
				if !yield(r.data, r.err) {
					return
				}
			case <-finished:
				for {
					select {
					case r := <-results:
						if !yield(r.data, r.err) {
							return
						}
					default:
						return
					}
				}
			}
		}
	}
}

func klineToMarketData(symbol string, k *binance.Kline) (types.MarketData, error) {
	return parseCandle(symbol, time.UnixMilli(k.OpenTime).UTC(), k.Open, k.High, k.Low, k.Close, k.Volume)
}

func wsKlineToMarketData(event *BinanceWsKlineEvent) (types.MarketData, error) {
	k := event.Kline

	return parseCandle(event.Symbol, time.UnixMilli(k.StartTime).UTC(), k.Open, k.High, k.Low, k.Close, k.Volume)
}

func parseCandle(symbol string, openTime time.Time, fields ...string) (types.MarketData, error) {
	values := make([]float64, len(fields))

	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", field, symbol)
		}

		values[i] = v
	}

	return types.MarketData{
		Id:     "",
		Symbol: symbol,
		Time:   openTime,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
