package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/shopspring/decimal"
)

type MACrossoverConfig struct {
	FastPeriod      int     `yaml:"fast_period" json:"fast_period" jsonschema:"title=Fast Period,description=Period of the fast exponential moving average,minimum=1,default=10" validate:"gt=0"`
	SlowPeriod      int     `yaml:"slow_period" json:"slow_period" jsonschema:"title=Slow Period,description=Period of the slow simple moving average,minimum=2,default=30" validate:"gtfield=FastPeriod"`
	StopLossPercent float64 `yaml:"stop_loss_percent" json:"stop_loss_percent" jsonschema:"title=Stop Loss Percent,description=Stop-loss distance below the entry price as a fraction; 0 disables it,minimum=0,default=0" validate:"gte=0,lt=1"`
}

// MACrossover goes long when the fast EMA crosses above the slow MA and exits on the
// opposite cross.
type MACrossover struct {
	config MACrossoverConfig
}

func NewMACrossover(config MACrossoverConfig) *MACrossover {
	return &MACrossover{config: config}
}

func DefaultMACrossoverConfig() MACrossoverConfig {
	return MACrossoverConfig{FastPeriod: 10, SlowPeriod: 30, StopLossPercent: 0}
}

func (s *MACrossover) Name() string {
	return NameMACrossover
}

func (s *MACrossover) Setup(registry indicator.IndicatorRegistry) error {
	fast, err := indicator.NewIndicator(types.IndicatorTypeEMA, s.config.FastPeriod)
	if err != nil {
		return err
	}

	slow, err := indicator.NewIndicator(types.IndicatorTypeMA, s.config.SlowPeriod)
	if err != nil {
		return err
	}

	if err := registry.RegisterIndicator(fast); err != nil {
		return err
	}

	return registry.RegisterIndicator(slow)
}

func (s *MACrossover) Logic(broker Broker, lookback Lookback) error {
	fast, err := lookback.Indicator(types.IndicatorTypeEMA)
	if err != nil {
		return err
	}

	slow, err := lookback.Indicator(types.IndicatorTypeMA)
	if err != nil {
		return err
	}

	if fast.Len() < 2 || slow.Len() < 2 {
		return nil
	}

	prevFast, currFast := fast.At(-2), fast.At(-1)
	prevSlow, currSlow := slow.At(-2), slow.At(-1)

	if prevFast.IsNaN() || prevSlow.IsNaN() || currFast.IsNaN() || currSlow.IsNaN() {
		return nil
	}

	price := lookback.LastPrice()

	switch {
	case prevFast.Float() <= prevSlow.Float() && currFast.Float() > currSlow.Float():
		if broker.Shares().IsZero() && broker.BuyingPower().IsPositive() {
			return broker.Buy(broker.BuyingPower(), price, stopBelow(price, s.config.StopLossPercent))
		}
	case prevFast.Float() >= prevSlow.Float() && currFast.Float() < currSlow.Float():
		if broker.Shares().IsPositive() {
			return broker.Sell(decimal.NewFromInt(1), price, optional.None[decimal.Decimal]())
		}
	}

	return nil
}
