package main

import (
	"os"
	"path/filepath"
	"testing"

	tradingprovider "github.com/rxtech-lab/argo-ledger/internal/trading/provider"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata/provider"
	"github.com/stretchr/testify/suite"
)

type EnvTestSuite struct {
	suite.Suite
}

func TestEnvSuite(t *testing.T) {
	suite.Run(t, new(EnvTestSuite))
}

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func (suite *EnvTestSuite) TestPaperConfig() {
	config, err := brokerConfig(tradingprovider.ProviderPaper, brokerFlags{capital: 5000, commission: 0.001}, env(nil))
	suite.Require().NoError(err)

	paper, ok := config.(*tradingprovider.PaperBrokerConfig)
	suite.Require().True(ok)
	suite.Equal(5000.0, paper.InitialCapital)
	suite.Equal(0.001, paper.Commission)
}

func (suite *EnvTestSuite) TestPaperConfigRejectsZeroCapital() {
	config, err := brokerConfig(tradingprovider.ProviderPaper, brokerFlags{capital: 0}, env(nil))
	suite.Error(err)
	suite.Nil(config)
}

func (suite *EnvTestSuite) TestBinanceConfigFromEnv() {
	values := map[string]string{
		EnvBinanceAPIKey:    "key",
		EnvBinanceSecretKey: "secret",
	}

	config, err := brokerConfig(tradingprovider.ProviderBinanceTestnet, brokerFlags{
		baseAsset:  "BTC",
		quoteAsset: "USDT",
		precision:  3,
	}, env(values))
	suite.Require().NoError(err)

	binance, ok := config.(*tradingprovider.BinanceProviderConfig)
	suite.Require().True(ok)
	suite.Equal("key", binance.ApiKey)
	suite.Equal("secret", binance.SecretKey)
	suite.Equal("BTC", binance.BaseAsset)
	suite.Equal(3, binance.Precision())
}

func (suite *EnvTestSuite) TestBinanceConfigRequiresCredentials() {
	_, err := brokerConfig(tradingprovider.ProviderBinance, brokerFlags{baseAsset: "BTC", quoteAsset: "USDT"}, env(nil))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
	suite.Contains(err.Error(), EnvBinanceAPIKey)
}

func (suite *EnvTestSuite) TestUnknownBroker() {
	_, err := brokerConfig("kraken", brokerFlags{}, env(nil))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidProvider, errors.GetCode(err))
}

func (suite *EnvTestSuite) TestLoadEnv() {
	suite.NoError(loadEnv(""))
	suite.NoError(loadEnv(filepath.Join(suite.T().TempDir(), "missing.env")))

	path := filepath.Join(suite.T().TempDir(), ".env")
	suite.Require().NoError(os.WriteFile(path, []byte("ARGO_LEDGER_TEST_VALUE=loaded\n"), 0o600))
	suite.T().Cleanup(func() { _ = os.Unsetenv("ARGO_LEDGER_TEST_VALUE") })

	suite.Require().NoError(loadEnv(path))
	suite.Equal("loaded", os.Getenv("ARGO_LEDGER_TEST_VALUE"))
}

func (suite *EnvTestSuite) TestMarketDataConfigFromFlags() {
	config, err := marketDataConfig(marketDataFlags{provider: "binance", symbol: "BTCUSDT", interval: "1m"}, env(nil))
	suite.Require().NoError(err)

	_, ok := config.(*provider.BinanceStreamConfig)
	suite.Require().True(ok)
	suite.Equal([]string{"BTCUSDT"}, config.Base().Symbols)
	suite.Equal("1m", config.Base().Interval)
}

func (suite *EnvTestSuite) TestMarketDataConfigRequiresSymbol() {
	_, err := marketDataConfig(marketDataFlags{provider: "binance", interval: "1m"}, env(nil))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *EnvTestSuite) TestMarketDataConfigPolygonKey() {
	flags := marketDataFlags{provider: "polygon", symbol: "SPY", interval: "1d"}

	_, err := marketDataConfig(flags, env(nil))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	config, err := marketDataConfig(flags, env(map[string]string{EnvPolygonAPIKey: "key"}))
	suite.Require().NoError(err)

	polygon, ok := config.(*provider.PolygonStreamConfig)
	suite.Require().True(ok)
	suite.Equal("key", polygon.ApiKey)
}

func (suite *EnvTestSuite) TestMarketDataConfigFromFile() {
	path := filepath.Join(suite.T().TempDir(), "stream.json")
	suite.Require().NoError(os.WriteFile(path, []byte(`{"symbols":["ETHUSDT"],"interval":"15m"}`), 0o600))

	config, err := marketDataConfig(marketDataFlags{provider: "binance", configFile: path, symbol: "BTCUSDT", interval: "1m"}, env(nil))
	suite.Require().NoError(err)
	suite.Equal([]string{"ETHUSDT"}, config.Base().Symbols)
	suite.Equal("15m", config.Base().Interval)
}

func (suite *EnvTestSuite) TestMarketDataConfigUnknownProvider() {
	_, err := marketDataConfig(marketDataFlags{provider: "kraken", symbol: "BTCUSDT", interval: "1m"}, env(nil))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidProvider, errors.GetCode(err))
}
