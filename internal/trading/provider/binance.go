package tradingprovider

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service interfaces for mocking the Binance API

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side binance.SideType) CreateOrderService
	Type(orderType binance.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	Price(price string) CreateOrderService
	TimeInForce(tif binance.TimeInForceType) CreateOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

// GetAccountService interface for getting account info.
type GetAccountService interface {
	Do(ctx context.Context) (*binance.Account, error)
}

// ExchangeInfoService interface for listing tradable symbols.
type ExchangeInfoService interface {
	Do(ctx context.Context) (*binance.ExchangeInfo, error)
}

// BinanceClient interface abstracts the Binance client for testing.
type BinanceClient interface {
	NewCreateOrderService() CreateOrderService
	NewGetAccountService() GetAccountService
	NewExchangeInfoService() ExchangeInfoService
}

// realBinanceClient wraps the actual binance.Client.
type realBinanceClient struct {
	client *binance.Client
}

func (r *realBinanceClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realBinanceClient) NewExchangeInfoService() ExchangeInfoService {
	return &realExchangeInfoService{service: r.client.NewExchangeInfoService()}
}

// Real service wrappers

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Price(price string) CreateOrderService {
	s.service = s.service.Price(price)

	return s
}

func (s *realCreateOrderService) TimeInForce(tif binance.TimeInForceType) CreateOrderService {
	s.service = s.service.TimeInForce(tif)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *binance.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*binance.Account, error) {
	return s.service.Do(ctx)
}

type realExchangeInfoService struct {
	service *binance.ExchangeInfoService
}

func (s *realExchangeInfoService) Do(ctx context.Context) (*binance.ExchangeInfo, error) {
	return s.service.Do(ctx)
}

// BinanceBroker relays strategy orders to Binance as GTC limit orders.
// Shares and buying power are the free balances of the base and quote assets as of the
// last UpdateSharesAndBalances call. Orders are placed under the context of that call, so
// cancelling the engine's run also cancels in-flight orders.
type BinanceBroker struct {
	ctx        context.Context //nolint:containedctx // strategy.Broker order methods take no context
	client     BinanceClient
	symbol     string
	baseAsset  string
	quoteAsset string
	precision  int32

	shares      decimal.Decimal
	buyingPower decimal.Decimal

	log     *logger.Logger
	verbose bool
}

// NewBinanceBroker creates a broker for config.BaseAsset/config.QuoteAsset, resolving the
// exchange symbol and loading the initial balances.
// If useTestnet is true, connects to Binance Testnet (https://testnet.binance.vision/).
// If config.BaseURL is set, it takes precedence over useTestnet.
func NewBinanceBroker(ctx context.Context, config BinanceProviderConfig, useTestnet bool, opts ...BrokerOption) (*BinanceBroker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if useTestnet {
		binance.UseTestnet = true
	}

	client := binance.NewClient(config.ApiKey, config.SecretKey)

	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return newBinanceBrokerWithClient(ctx, &realBinanceClient{client: client}, config, opts...)
}

// newBinanceBrokerWithClient creates a broker with a custom client.
// This is used for testing with mock clients.
func newBinanceBrokerWithClient(ctx context.Context, client BinanceClient, config BinanceProviderConfig, opts ...BrokerOption) (*BinanceBroker, error) {
	options := applyOptions(opts)

	b := &BinanceBroker{
		ctx:         ctx,
		client:      client,
		symbol:      "",
		baseAsset:   config.BaseAsset,
		quoteAsset:  config.QuoteAsset,
		precision:   int32(config.Precision()), //nolint:gosec // bounded by validation
		shares:      decimal.Zero,
		buyingPower: decimal.Zero,
		log:         options.log,
		verbose:     options.verbose,
	}

	symbol, err := b.resolveSymbol(ctx)
	if err != nil {
		return nil, err
	}

	b.symbol = symbol

	if err := b.UpdateSharesAndBalances(ctx); err != nil {
		return nil, err
	}

	return b, nil
}

// resolveSymbol finds the exchange symbol trading baseAsset against quoteAsset.
func (b *BinanceBroker) resolveSymbol(ctx context.Context) (string, error) {
	info, err := b.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeProviderError, "failed to get exchange info from Binance", err)
	}

	for _, s := range info.Symbols {
		if s.BaseAsset == b.baseAsset && s.QuoteAsset == b.quoteAsset {
			return s.Symbol, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeSymbolNotFound, "no valid symbols exist for the pair %s/%s", b.baseAsset, b.quoteAsset)
}

// Symbol returns the resolved exchange symbol, e.g. BTCUSDT.
func (b *BinanceBroker) Symbol() string {
	return b.symbol
}

// UpdateSharesAndBalances reloads the free base balance into Shares and the free quote
// balance into BuyingPower. Assets missing from the account read as zero.
func (b *BinanceBroker) UpdateSharesAndBalances(ctx context.Context) error {
	b.ctx = ctx

	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProviderError, "failed to get account info from Binance", err)
	}

	shares := decimal.Zero
	buyingPower := decimal.Zero

	for _, balance := range account.Balances {
		if balance.Asset != b.baseAsset && balance.Asset != b.quoteAsset {
			continue
		}

		free, err := decimal.NewFromString(balance.Free)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeProviderError, err, "invalid free balance %q for %s", balance.Free, balance.Asset)
		}

		if balance.Asset == b.baseAsset {
			shares = free
		} else {
			buyingPower = free
		}
	}

	b.shares = shares
	b.buyingPower = buyingPower

	return nil
}

func (b *BinanceBroker) Buy(entryCapital, entryPrice decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	if !entryCapital.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "entry capital must be positive, got %s", entryCapital)
	}

	if !entryPrice.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "entry price must be positive, got %s", entryPrice)
	}

	if entryCapital.GreaterThan(b.buyingPower) {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"not enough buying power to enter position: need %s, have %s", entryCapital, b.buyingPower)
	}

	quantity := entryCapital.Div(entryPrice).Truncate(b.precision)

	return b.placeLimitOrder(binance.SideTypeBuy, quantity, entryPrice, stopLoss)
}

func (b *BinanceBroker) Sell(percent, price decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "percent must range between 0 and 1, got %s", percent)
	}

	if !price.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "price must be positive, got %s", price)
	}

	if !b.shares.IsPositive() {
		return errors.Newf(errors.ErrCodeNoActivePosition, "no %s held, cannot sell", b.baseAsset)
	}

	quantity := b.shares.Mul(percent).Truncate(b.precision)

	return b.placeLimitOrder(binance.SideTypeSell, quantity, price, stopLoss)
}

func (b *BinanceBroker) placeLimitOrder(side binance.SideType, quantity, price decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	if !quantity.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"order quantity is too small after truncating to %d decimal places", b.precision)
	}

	if stopLoss.IsSome() {
		b.log.Debug("Exchange orders carry no stop loss, ignoring", zap.String("stop_loss", stopLoss.Unwrap().String()))
	}

	_, err := b.client.NewCreateOrderService().
		Symbol(b.symbol).
		Side(side).
		Type(binance.OrderTypeLimit).
		TimeInForce(binance.TimeInForceTypeGTC).
		Quantity(quantity.StringFixed(b.precision)).
		Price(price.String()).
		Do(b.ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProviderError, "failed to place order on Binance", err)
	}

	if b.verbose {
		b.log.Debug(string(side)+" ORDER",
			zap.String("symbol", b.symbol),
			zap.String("units", quantity.String()),
			zap.String("price", price.String()),
		)
	}

	return nil
}

func (b *BinanceBroker) BuyingPower() decimal.Decimal {
	return b.buyingPower
}

func (b *BinanceBroker) Shares() decimal.Decimal {
	return b.shares
}
