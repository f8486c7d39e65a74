package marketdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-ledger/mocks"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// ClientTestSuite is a test suite for the Client implementation
type ClientTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockProvider *mocks.MockProvider
	tempDir      string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockProvider = mocks.NewMockProvider(suite.ctrl)
	suite.tempDir = suite.T().TempDir()
}

func (suite *ClientTestSuite) newClient() *Client {
	return newClientWithProvider(ClientConfig{
		ProviderType: ProviderBinance,
		WriterType:   WriterDuckDB,
		DataPath:     suite.tempDir,
	}, suite.mockProvider, nil, nil)
}

func (suite *ClientTestSuite) validParams() DownloadParams {
	return DownloadParams{
		Ticker:     "BTCUSDT",
		StartDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		Multiplier: 15,
		Timespan:   models.Minute,
	}
}

func (suite *ClientTestSuite) TestDownload() {
	params := suite.validParams()
	expectedPath := filepath.Join(suite.tempDir, "BTCUSDT_2023-01-01_2023-01-31_15_minute.parquet")

	suite.mockProvider.EXPECT().
		ConfigWriter(gomock.Any()).
		Do(func(w writer.MarketDataWriter) {
			suite.Equal(expectedPath, w.GetOutputPath())
		})

	suite.mockProvider.EXPECT().
		Download(gomock.Any(), "BTCUSDT", params.StartDate, params.EndDate, 15, models.Minute, gomock.Any()).
		Return(expectedPath, nil)

	path, err := suite.newClient().Download(context.Background(), params)
	suite.Require().NoError(err)
	suite.Equal(expectedPath, path)
}

func (suite *ClientTestSuite) TestDownloadProviderError() {
	suite.mockProvider.EXPECT().ConfigWriter(gomock.Any())
	suite.mockProvider.EXPECT().
		Download(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New(errors.ErrCodeMarketDataFetchFailed, "rate limited"))

	_, err := suite.newClient().Download(context.Background(), suite.validParams())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "download failed")
	suite.Equal(errors.ErrCodeMarketDataFetchFailed, errors.GetCode(err))
}

func (suite *ClientTestSuite) TestDownloadParamsValidation() {
	tests := []struct {
		name   string
		mutate func(p *DownloadParams)
	}{
		{"missing ticker", func(p *DownloadParams) { p.Ticker = "" }},
		{"end before start", func(p *DownloadParams) { p.EndDate = p.StartDate.Add(-time.Hour) }},
		{"zero multiplier", func(p *DownloadParams) { p.Multiplier = 0 }},
		{"missing timespan", func(p *DownloadParams) { p.Timespan = "" }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			params := suite.validParams()
			tc.mutate(&params)

			_, err := suite.newClient().Download(context.Background(), params)
			suite.Require().Error(err)
			suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))
		})
	}
}

func (suite *ClientTestSuite) TestUnsupportedWriter() {
	client := newClientWithProvider(ClientConfig{
		ProviderType: ProviderBinance,
		WriterType:   "csv",
		DataPath:     suite.tempDir,
	}, suite.mockProvider, nil, nil)

	_, err := client.Download(context.Background(), suite.validParams())
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ClientTestSuite) TestNewClient() {
	tests := []struct {
		name     string
		config   ClientConfig
		expected bool
	}{
		{"binance", ClientConfig{ProviderType: ProviderBinance, WriterType: WriterDuckDB, DataPath: suite.tempDir}, true},
		{"polygon with key", ClientConfig{ProviderType: ProviderPolygon, WriterType: WriterDuckDB, DataPath: suite.tempDir, PolygonApiKey: "key"}, true},
		{"polygon without key", ClientConfig{ProviderType: ProviderPolygon, WriterType: WriterDuckDB, DataPath: suite.tempDir}, false},
		{"unknown provider", ClientConfig{ProviderType: "kraken", WriterType: WriterDuckDB, DataPath: suite.tempDir}, false},
		{"unknown writer", ClientConfig{ProviderType: ProviderBinance, WriterType: "csv", DataPath: suite.tempDir}, false},
		{"missing data path", ClientConfig{ProviderType: ProviderBinance, WriterType: WriterDuckDB}, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			client, err := NewClient(tc.config, nil, nil)
			if tc.expected {
				suite.Require().NoError(err)
				suite.NotNil(client.provider)
			} else {
				suite.Error(err)
				suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
			}
		})
	}
}

func (suite *ClientTestSuite) TestProviderTypesShared() {
	suite.Equal(provider.ProviderBinance, ProviderBinance)
	suite.Equal(provider.ProviderPolygon, ProviderPolygon)
}
