package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/shopspring/decimal"
)

// BuyAndHold invests all buying power on the first bar and never sells.
type BuyAndHold struct {
	bought bool
}

func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{bought: false}
}

func (s *BuyAndHold) Name() string {
	return NameBuyAndHold
}

func (s *BuyAndHold) Setup(_ indicator.IndicatorRegistry) error {
	s.bought = false

	return nil
}

func (s *BuyAndHold) Logic(broker Broker, lookback Lookback) error {
	if s.bought || !broker.BuyingPower().IsPositive() {
		return nil
	}

	if err := broker.Buy(broker.BuyingPower(), lookback.LastPrice(), optional.None[decimal.Decimal]()); err != nil {
		return err
	}

	s.bought = true

	return nil
}
