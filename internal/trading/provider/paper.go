package tradingprovider

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/account"
	"github.com/rxtech-lab/argo-ledger/internal/logger"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
)

// PaperBrokerConfig configures a paper account for live candles.
type PaperBrokerConfig struct {
	InitialCapital float64 `json:"initialCapital" jsonschema:"title=Initial Capital,description=Starting buying power in quote currency" validate:"gt=0"`
	Commission     float64 `json:"commission" jsonschema:"title=Commission,description=Commission rate charged per order e.g. 0.001" validate:"gte=0,lt=1"`
}

// Validate validates the PaperBrokerConfig struct.
func (c *PaperBrokerConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid paper provider config", err)
	}

	return nil
}

func parsePaperConfig(jsonConfig string) (*PaperBrokerConfig, error) {
	var config PaperBrokerConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse paper config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

type brokerOptions struct {
	log     *logger.Logger
	verbose bool
	newID   func() string
}

// BrokerOption configures brokers created by NewBroker.
type BrokerOption func(*brokerOptions)

// WithLogger sets the logger brokers report orders to.
func WithLogger(log *logger.Logger) BrokerOption {
	return func(o *brokerOptions) {
		o.log = log
	}
}

// WithVerbose logs every order at debug level.
func WithVerbose(verbose bool) BrokerOption {
	return func(o *brokerOptions) {
		o.verbose = verbose
	}
}

// WithIDGenerator replaces the uuid generator of the paper ledger.
func WithIDGenerator(fn func() string) BrokerOption {
	return func(o *brokerOptions) {
		o.newID = fn
	}
}

func applyOptions(opts []BrokerOption) brokerOptions {
	options := brokerOptions{
		log:     logger.NewNopLogger(),
		verbose: false,
		newID:   func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// PaperBroker trades a local account.Account at the prices the strategy passes in.
type PaperBroker struct {
	account *account.Account
}

// NewPaperBroker creates a paper broker funded with config.InitialCapital.
func NewPaperBroker(config PaperBrokerConfig, opts ...BrokerOption) (*PaperBroker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	options := applyOptions(opts)

	acc, err := account.NewAccount(
		decimal.NewFromFloat(config.InitialCapital),
		account.WithCommission(decimal.NewFromFloat(config.Commission)),
		account.WithLogger(options.log),
		account.WithVerbose(options.verbose),
		account.WithIDGenerator(options.newID),
	)
	if err != nil {
		return nil, err
	}

	return &PaperBroker{account: acc}, nil
}

// UpdateSharesAndBalances is a no-op: the ledger is the source of truth.
func (p *PaperBroker) UpdateSharesAndBalances(_ context.Context) error {
	return nil
}

func (p *PaperBroker) Buy(entryCapital, entryPrice decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	return p.account.Buy(entryCapital, entryPrice, stopLoss)
}

func (p *PaperBroker) Sell(percent, price decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error {
	return p.account.Sell(percent, price, stopLoss)
}

func (p *PaperBroker) BuyingPower() decimal.Decimal {
	return p.account.BuyingPower()
}

func (p *PaperBroker) Shares() decimal.Decimal {
	return p.account.Shares()
}

// Account exposes the ledger for the engine's stop-loss and equity steps.
func (p *PaperBroker) Account() *account.Account {
	return p.account
}
