package tradingprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	ledgererrors "github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Mock implementations for testing

// mockBinanceClient implements BinanceClient interface for testing
type mockBinanceClient struct {
	createOrderService  *mockCreateOrderService
	getAccountService   *mockGetAccountService
	exchangeInfoService *mockExchangeInfoService
}

func newMockBinanceClient() *mockBinanceClient {
	return &mockBinanceClient{
		createOrderService: &mockCreateOrderService{},
		getAccountService: &mockGetAccountService{
			account: &binance.Account{
				Balances: []binance.Balance{
					{Asset: "BTC", Free: "0.5", Locked: "0.1"},
					{Asset: "ETH", Free: "3", Locked: "0"},
					{Asset: "USDT", Free: "1000.25", Locked: "0"},
				},
			},
		},
		exchangeInfoService: &mockExchangeInfoService{
			info: &binance.ExchangeInfo{
				Symbols: []binance.Symbol{
					{Symbol: "ETHUSDT", BaseAsset: "ETH", QuoteAsset: "USDT"},
					{Symbol: "BTCUSDT", BaseAsset: "BTC", QuoteAsset: "USDT"},
				},
			},
		},
	}
}

func (m *mockBinanceClient) NewCreateOrderService() CreateOrderService {
	return m.createOrderService
}

func (m *mockBinanceClient) NewGetAccountService() GetAccountService {
	return m.getAccountService
}

func (m *mockBinanceClient) NewExchangeInfoService() ExchangeInfoService {
	return m.exchangeInfoService
}

// mockCreateOrderService implements CreateOrderService
type mockCreateOrderService struct {
	response *binance.CreateOrderResponse
	err      error
	calls    int
	symbol   string
	side     binance.SideType
	orderTyp binance.OrderType
	quantity string
	price    string
	tif      binance.TimeInForceType
	ctx      context.Context
}

func (m *mockCreateOrderService) Symbol(symbol string) CreateOrderService {
	m.symbol = symbol
	return m
}

func (m *mockCreateOrderService) Side(side binance.SideType) CreateOrderService {
	m.side = side
	return m
}

func (m *mockCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	m.orderTyp = orderType
	return m
}

func (m *mockCreateOrderService) Quantity(quantity string) CreateOrderService {
	m.quantity = quantity
	return m
}

func (m *mockCreateOrderService) Price(price string) CreateOrderService {
	m.price = price
	return m
}

func (m *mockCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	m.tif = tif
	return m
}

func (m *mockCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	m.calls++
	m.ctx = ctx

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return m.response, m.err
}

// mockGetAccountService implements GetAccountService
type mockGetAccountService struct {
	account *binance.Account
	err     error
}

func (m *mockGetAccountService) Do(_ context.Context) (*binance.Account, error) {
	return m.account, m.err
}

// mockExchangeInfoService implements ExchangeInfoService
type mockExchangeInfoService struct {
	info *binance.ExchangeInfo
	err  error
}

func (m *mockExchangeInfoService) Do(_ context.Context) (*binance.ExchangeInfo, error) {
	return m.info, m.err
}

type BinanceBrokerTestSuite struct {
	suite.Suite
	client *mockBinanceClient
	config BinanceProviderConfig
}

func TestBinanceBrokerSuite(t *testing.T) {
	suite.Run(t, new(BinanceBrokerTestSuite))
}

func (suite *BinanceBrokerTestSuite) SetupTest() {
	suite.client = newMockBinanceClient()
	suite.config = BinanceProviderConfig{
		ApiKey:     "test-api-key",
		SecretKey:  "test-secret-key",
		BaseAsset:  "BTC",
		QuoteAsset: "USDT",
	}
}

func (suite *BinanceBrokerTestSuite) newBroker() *BinanceBroker {
	broker, err := newBinanceBrokerWithClient(context.Background(), suite.client, suite.config)
	suite.Require().NoError(err)

	return broker
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *BinanceBrokerTestSuite) TestResolvesSymbolAndBalances() {
	broker := suite.newBroker()

	suite.Equal("BTCUSDT", broker.Symbol())
	suite.Equal("0.5", broker.Shares().String())
	suite.Equal("1000.25", broker.BuyingPower().String())
}

func (suite *BinanceBrokerTestSuite) TestSymbolNotFound() {
	suite.config.BaseAsset = "DOGE"

	_, err := newBinanceBrokerWithClient(context.Background(), suite.client, suite.config)
	suite.Require().Error(err)
	suite.Equal(ledgererrors.ErrCodeSymbolNotFound, ledgererrors.GetCode(err))
}

func (suite *BinanceBrokerTestSuite) TestExchangeInfoFailure() {
	suite.client.exchangeInfoService.err = errors.New("timeout")

	_, err := newBinanceBrokerWithClient(context.Background(), suite.client, suite.config)
	suite.Require().Error(err)
	suite.Equal(ledgererrors.ErrCodeProviderError, ledgererrors.GetCode(err))
}

func (suite *BinanceBrokerTestSuite) TestMissingAssetsReadAsZero() {
	broker := suite.newBroker()
	suite.client.getAccountService.account = &binance.Account{Balances: []binance.Balance{}}

	suite.Require().NoError(broker.UpdateSharesAndBalances(context.Background()))
	suite.True(broker.Shares().IsZero())
	suite.True(broker.BuyingPower().IsZero())
}

func (suite *BinanceBrokerTestSuite) TestUpdateFailures() {
	broker := suite.newBroker()

	suite.client.getAccountService.err = errors.New("unauthorized")
	err := broker.UpdateSharesAndBalances(context.Background())
	suite.Equal(ledgererrors.ErrCodeProviderError, ledgererrors.GetCode(err))

	suite.client.getAccountService.err = nil
	suite.client.getAccountService.account = &binance.Account{
		Balances: []binance.Balance{{Asset: "BTC", Free: "abc"}},
	}
	err = broker.UpdateSharesAndBalances(context.Background())
	suite.Equal(ledgererrors.ErrCodeProviderError, ledgererrors.GetCode(err))
	suite.Equal("0.5", broker.Shares().String())
}

func (suite *BinanceBrokerTestSuite) TestBuyPlacesTruncatedLimitOrder() {
	broker := suite.newBroker()

	suite.Require().NoError(broker.Buy(dec("100"), dec("30"), optional.Some(dec("25"))))

	order := suite.client.createOrderService
	suite.Equal(1, order.calls)
	suite.Equal("BTCUSDT", order.symbol)
	suite.Equal(binance.SideTypeBuy, order.side)
	suite.Equal(binance.OrderTypeLimit, order.orderTyp)
	suite.Equal(binance.TimeInForceTypeGTC, order.tif)
	suite.Equal("3.3", order.quantity)
	suite.Equal("30", order.price)
}

func (suite *BinanceBrokerTestSuite) TestBuyWithCustomPrecision() {
	precision := 3
	suite.config.QuantityPrecision = &precision
	broker := suite.newBroker()

	suite.Require().NoError(broker.Buy(dec("100"), dec("30"), optional.None[decimal.Decimal]()))
	suite.Equal("3.333", suite.client.createOrderService.quantity)
}

func (suite *BinanceBrokerTestSuite) TestBuyValidation() {
	tests := []struct {
		name         string
		capital      string
		price        string
		expectedCode ledgererrors.ErrorCode
	}{
		{name: "zero capital", capital: "0", price: "30", expectedCode: ledgererrors.ErrCodeInvalidParameter},
		{name: "negative price", capital: "10", price: "-1", expectedCode: ledgererrors.ErrCodeInvalidParameter},
		{name: "more than buying power", capital: "1000.26", price: "30", expectedCode: ledgererrors.ErrCodeInsufficientFunds},
		{name: "quantity truncates to zero", capital: "1", price: "30", expectedCode: ledgererrors.ErrCodeInvalidParameter},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			broker := suite.newBroker()

			err := broker.Buy(dec(tc.capital), dec(tc.price), optional.None[decimal.Decimal]())
			suite.Require().Error(err)
			suite.Equal(tc.expectedCode, ledgererrors.GetCode(err))
			suite.Equal(0, suite.client.createOrderService.calls)
		})
	}
}

func (suite *BinanceBrokerTestSuite) TestSellPlacesTruncatedLimitOrder() {
	broker := suite.newBroker()

	suite.Require().NoError(broker.Sell(dec("0.5"), dec("40"), optional.None[decimal.Decimal]()))

	order := suite.client.createOrderService
	suite.Equal(binance.SideTypeSell, order.side)
	suite.Equal("0.2", order.quantity)
	suite.Equal("40", order.price)
}

func (suite *BinanceBrokerTestSuite) TestSellValidation() {
	broker := suite.newBroker()

	err := broker.Sell(dec("1.5"), dec("40"), optional.None[decimal.Decimal]())
	suite.Equal(ledgererrors.ErrCodeInvalidParameter, ledgererrors.GetCode(err))

	suite.client.getAccountService.account = &binance.Account{
		Balances: []binance.Balance{{Asset: "USDT", Free: "10"}},
	}
	suite.Require().NoError(broker.UpdateSharesAndBalances(context.Background()))

	err = broker.Sell(dec("1"), dec("40"), optional.None[decimal.Decimal]())
	suite.Equal(ledgererrors.ErrCodeNoActivePosition, ledgererrors.GetCode(err))
	suite.Equal(0, suite.client.createOrderService.calls)
}

func (suite *BinanceBrokerTestSuite) TestOrderRejected() {
	broker := suite.newBroker()
	suite.client.createOrderService.err = errors.New("filter failure: LOT_SIZE")

	err := broker.Sell(dec("1"), dec("40"), optional.None[decimal.Decimal]())
	suite.Require().Error(err)
	suite.Equal(ledgererrors.ErrCodeProviderError, ledgererrors.GetCode(err))
	suite.Contains(err.Error(), "LOT_SIZE")
}

type runKey struct{}

func (suite *BinanceBrokerTestSuite) TestOrdersUseContextOfLastUpdate() {
	broker := suite.newBroker()

	ctx := context.WithValue(context.Background(), runKey{}, "live-run")
	suite.Require().NoError(broker.UpdateSharesAndBalances(ctx))
	suite.Require().NoError(broker.Buy(dec("100"), dec("30"), optional.None[decimal.Decimal]()))

	order := suite.client.createOrderService
	suite.Require().NotNil(order.ctx)
	suite.Equal("live-run", order.ctx.Value(runKey{}))
}

func (suite *BinanceBrokerTestSuite) TestCancelledRunCancelsOrders() {
	broker := suite.newBroker()

	ctx, cancel := context.WithCancel(context.Background())
	suite.Require().NoError(broker.UpdateSharesAndBalances(ctx))
	cancel()

	err := broker.Sell(dec("1"), dec("40"), optional.None[decimal.Decimal]())
	suite.Require().Error(err)
	suite.Equal(ledgererrors.ErrCodeProviderError, ledgererrors.GetCode(err))
	suite.ErrorIs(err, context.Canceled)
}
