package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	ledgererrors "github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockWriter is a simple mock implementation of MarketDataWriter for testing.
type mockWriter struct {
	initialized       bool
	initializeErr     error
	writeErr          error
	finalizeErr       error
	closeErr          error
	outputPath        string
	writtenData       []types.MarketData
	finalizeCallCount int
	closeCallCount    int
}

func (m *mockWriter) Initialize() error {
	if m.initializeErr != nil {
		return m.initializeErr
	}

	m.initialized = true

	return nil
}

func (m *mockWriter) Write(data types.MarketData) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	m.writtenData = append(m.writtenData, data)

	return nil
}

func (m *mockWriter) Finalize() (string, error) {
	m.finalizeCallCount++
	if m.finalizeErr != nil {
		return "", m.finalizeErr
	}

	return m.outputPath, nil
}

func (m *mockWriter) Close() error {
	m.closeCallCount++

	return m.closeErr
}

func (m *mockWriter) GetOutputPath() string {
	return m.outputPath
}

// mockBinanceAPIClient implements BinanceAPIClient for testing.
// Each Do call returns the next page; calls past the last page return nothing.
type mockBinanceAPIClient struct {
	pages    [][]*binance.Kline
	errs     []error
	requests []mockKlinesRequest
}

type mockKlinesRequest struct {
	symbol   string
	interval string
	start    int64
	end      int64
	limit    int
}

func (m *mockBinanceAPIClient) NewKlinesService() BinanceKlinesService {
	return &mockBinanceKlinesService{client: m}
}

type mockBinanceKlinesService struct {
	client  *mockBinanceAPIClient
	request mockKlinesRequest
}

func (m *mockBinanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	m.request.symbol = symbol

	return m
}

func (m *mockBinanceKlinesService) Interval(interval string) BinanceKlinesService {
	m.request.interval = interval

	return m
}

func (m *mockBinanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	m.request.start = startTime

	return m
}

func (m *mockBinanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	m.request.end = endTime

	return m
}

func (m *mockBinanceKlinesService) Limit(limit int) BinanceKlinesService {
	m.request.limit = limit

	return m
}

func (m *mockBinanceKlinesService) Do(_ context.Context) ([]*binance.Kline, error) {
	idx := len(m.client.requests)
	m.client.requests = append(m.client.requests, m.request)

	var err error
	if idx < len(m.client.errs) {
		err = m.client.errs[idx]
	}

	if idx < len(m.client.pages) {
		return m.client.pages[idx], err
	}

	return nil, err
}

// minuteKlines builds n one-minute klines starting at start. markLast gives the final kline a distinct close.
func minuteKlines(start time.Time, n int, markLast bool) []*binance.Kline {
	klines := make([]*binance.Kline, n)

	for i := range n {
		open := start.Add(time.Duration(i) * time.Minute)
		klines[i] = &binance.Kline{
			OpenTime:  open.UnixMilli(),
			Open:      "100.5",
			High:      "101",
			Low:       "99.5",
			Close:     "100.75",
			Volume:    "12.5",
			CloseTime: open.Add(time.Minute).UnixMilli() - 1,
		}
	}

	if n > 0 && markLast {
		klines[n-1].Close = "123.25"
	}

	return klines
}

type BinanceClientTestSuite struct {
	suite.Suite
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) TestNewBinanceClient() {
	client, err := NewBinanceClient()
	suite.NoError(err)

	binanceClient, ok := client.(*BinanceClient)
	suite.Require().True(ok)
	suite.NotNil(binanceClient.apiClient)
	suite.NotNil(binanceClient.wsService)
	suite.Nil(binanceClient.writer)
}

func (suite *BinanceClientTestSuite) TestDownloadSinglePage() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{minuteKlines(start, 3, true)}}
	w := &mockWriter{outputPath: "/tmp/btc.parquet"}

	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(w)

	var progressCalls int

	path, err := client.Download(context.Background(), "BTCUSDT", start, start.Add(time.Hour), 1, models.Minute, func(current, total float64, message string) {
		progressCalls++
		suite.LessOrEqual(current, total)
		suite.Contains(message, "BTCUSDT")
	})
	suite.Require().NoError(err)
	suite.Equal("/tmp/btc.parquet", path)
	suite.True(w.initialized)
	suite.Equal(1, w.closeCallCount)
	suite.Equal(1, progressCalls)

	suite.Require().Len(w.writtenData, 3)
	suite.Equal("BTCUSDT", w.writtenData[0].Symbol)
	suite.Equal(start, w.writtenData[0].Time)
	suite.InDelta(100.5, w.writtenData[0].Open, 1e-9)
	suite.InDelta(101, w.writtenData[0].High, 1e-9)
	suite.InDelta(99.5, w.writtenData[0].Low, 1e-9)
	suite.InDelta(100.75, w.writtenData[0].Close, 1e-9)
	suite.InDelta(12.5, w.writtenData[0].Volume, 1e-9)
	suite.InDelta(123.25, w.writtenData[2].Close, 1e-9)

	suite.Require().Len(api.requests, 1)
	suite.Equal(mockKlinesRequest{
		symbol:   "BTCUSDT",
		interval: "1m",
		start:    start.UnixMilli(),
		end:      start.Add(time.Hour).UnixMilli(),
		limit:    1000,
	}, api.requests[0])
}

func (suite *BinanceClientTestSuite) TestDownloadPaginates() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := minuteKlines(start, 1000, false)
	second := minuteKlines(start.Add(1000*time.Minute), 20, false)

	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{first, second}}
	w := &mockWriter{outputPath: "/tmp/btc.parquet"}

	client := NewBinanceClientWithAPI(api)
	client.ConfigWriter(w)

	_, err := client.Download(context.Background(), "BTCUSDT", start, start.Add(48*time.Hour), 1, models.Minute, nil)
	suite.Require().NoError(err)
	suite.Len(w.writtenData, 1020)

	suite.Require().Len(api.requests, 2)
	suite.Equal(start.Add(1000*time.Minute).UnixMilli(), api.requests[1].start)
}

func (suite *BinanceClientTestSuite) TestDownloadErrors() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	suite.Run("unsupported timespan", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})
		client.ConfigWriter(&mockWriter{})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 7, models.Minute, nil)
		suite.Equal(ledgererrors.ErrCodeInvalidInterval, ledgererrors.GetCode(err))
	})

	suite.Run("no writer", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.Equal(ledgererrors.ErrCodeInvalidConfiguration, ledgererrors.GetCode(err))
	})

	suite.Run("initialize fails", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})
		client.ConfigWriter(&mockWriter{initializeErr: errors.New("disk gone")})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.ErrorContains(err, "failed to initialize writer")
	})

	suite.Run("api fails", func() {
		w := &mockWriter{}
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{errs: []error{errors.New("rate limited")}})
		client.ConfigWriter(w)

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.Equal(ledgererrors.ErrCodeMarketDataFetchFailed, ledgererrors.GetCode(err))
		suite.ErrorContains(err, "rate limited")
		suite.Equal(0, w.finalizeCallCount)
		suite.Equal(1, w.closeCallCount)
	})

	suite.Run("unparseable kline", func() {
		klines := minuteKlines(start, 1, false)
		klines[0].High = "n/a"

		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{pages: [][]*binance.Kline{klines}})
		client.ConfigWriter(&mockWriter{})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.Equal(ledgererrors.ErrCodeMarketDataParseFailed, ledgererrors.GetCode(err))
	})

	suite.Run("write fails", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{pages: [][]*binance.Kline{minuteKlines(start, 1, false)}})
		client.ConfigWriter(&mockWriter{writeErr: errors.New("disk full")})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.ErrorContains(err, "failed to write market data")
	})

	suite.Run("finalize fails", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{pages: [][]*binance.Kline{minuteKlines(start, 1, false)}})
		client.ConfigWriter(&mockWriter{finalizeErr: errors.New("bad parquet")})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.ErrorContains(err, "failed to finalize writer")
	})

	suite.Run("close fails", func() {
		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{pages: [][]*binance.Kline{minuteKlines(start, 1, false)}})
		client.ConfigWriter(&mockWriter{closeErr: errors.New("busy")})

		_, err := client.Download(context.Background(), "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.ErrorContains(err, "error closing writer")
	})

	suite.Run("cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewBinanceClientWithAPI(&mockBinanceAPIClient{})
		client.ConfigWriter(&mockWriter{})

		_, err := client.Download(ctx, "BTCUSDT", start, end, 1, models.Minute, nil)
		suite.ErrorIs(err, context.Canceled)
	})
}

func (suite *BinanceClientTestSuite) TestHistoryDropsOpenCandle() {
	now := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)
	// the last kline opened at 10:00 and is still forming
	klines := minuteKlines(now.Truncate(time.Minute).Add(-4*time.Minute), 5, false)

	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{klines}}
	client := NewBinanceClientWithAPI(api)
	client.now = func() time.Time { return now }

	bars, err := client.History(context.Background(), "BTCUSDT", "1m", optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 4)
	suite.Equal(time.Date(2024, 1, 1, 9, 59, 0, 0, time.UTC), bars[3].Time)

	suite.Require().Len(api.requests, 1)
	suite.Equal(now.Add(-1001*time.Minute).UnixMilli(), api.requests[0].start)
	suite.Equal(now.UnixMilli(), api.requests[0].end)
}

func (suite *BinanceClientTestSuite) TestHistoryCapsToDefaultSize() {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	start := now.Add(-1001 * time.Minute)

	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{
		minuteKlines(start, 1000, false),
		minuteKlines(start.Add(1000*time.Minute), 1, false),
	}}
	client := NewBinanceClientWithAPI(api)
	client.now = func() time.Time { return now }

	bars, err := client.History(context.Background(), "BTCUSDT", "1m", optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Len(bars, DefaultHistorySize)
	suite.Equal(now.Add(-time.Minute), bars[len(bars)-1].Time)
}

func (suite *BinanceClientTestSuite) TestHistoryFromStart() {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	from := now.Add(-3 * time.Hour)

	api := &mockBinanceAPIClient{pages: [][]*binance.Kline{{
		{OpenTime: from.UnixMilli(), Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "10", CloseTime: from.Add(time.Hour).UnixMilli() - 1},
		{OpenTime: from.Add(time.Hour).UnixMilli(), Open: "1.5", High: "2", Low: "1", Close: "1.8", Volume: "10", CloseTime: from.Add(2*time.Hour).UnixMilli() - 1},
	}}}
	client := NewBinanceClientWithAPI(api)
	client.now = func() time.Time { return now }

	bars, err := client.History(context.Background(), "ETHUSDT", "1h", optional.Some(from))
	suite.Require().NoError(err)
	suite.Len(bars, 2)
	suite.Equal("ETHUSDT", bars[0].Symbol)
	suite.Equal(from.UnixMilli(), api.requests[0].start)
	suite.Equal("1h", api.requests[0].interval)
}

func (suite *BinanceClientTestSuite) TestHistoryErrors() {
	client := NewBinanceClientWithAPI(&mockBinanceAPIClient{errs: []error{errors.New("down")}})

	_, err := client.History(context.Background(), "BTCUSDT", "7m", optional.None[time.Time]())
	suite.Equal(ledgererrors.ErrCodeInvalidInterval, ledgererrors.GetCode(err))

	_, err = client.History(context.Background(), "BTCUSDT", "1m", optional.None[time.Time]())
	suite.Equal(ledgererrors.ErrCodeMarketDataFetchFailed, ledgererrors.GetCode(err))
}
