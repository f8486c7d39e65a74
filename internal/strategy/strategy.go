package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/shopspring/decimal"
)

// Broker is the order surface a strategy trades through. The paper account and the live
// exchange brokers both implement it with the same argument contracts.
type Broker interface {
	// Buy spends entryCapital of quote currency at entryPrice.
	Buy(entryCapital, entryPrice decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error
	// Sell liquidates percent (0..1) of the held position at price.
	Sell(percent, price decimal.Decimal, stopLoss optional.Option[decimal.Decimal]) error
	BuyingPower() decimal.Decimal
	Shares() decimal.Decimal
}

// Strategy is user trading logic run once per bar by the backtest and live engines.
type Strategy interface {
	// Name returns the name of the strategy
	Name() string
	// Setup registers the indicators the strategy reads. It is called once before the first bar.
	Setup(registry indicator.IndicatorRegistry) error
	// Logic decides and places orders for the latest bar of lookback.
	Logic(broker Broker, lookback Lookback) error
}
