package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/shopspring/decimal"
)

type RSIReversionConfig struct {
	Period          int     `yaml:"period" json:"period" jsonschema:"title=Period,description=RSI period,minimum=1,default=14" validate:"gt=0"`
	Oversold        float64 `yaml:"oversold" json:"oversold" jsonschema:"title=Oversold,description=Buy when the RSI falls below this level,minimum=0,maximum=100,default=30" validate:"gte=0,lte=100"`
	Overbought      float64 `yaml:"overbought" json:"overbought" jsonschema:"title=Overbought,description=Sell when the RSI rises above this level,minimum=0,maximum=100,default=70" validate:"gtfield=Oversold,lte=100"`
	StopLossPercent float64 `yaml:"stop_loss_percent" json:"stop_loss_percent" jsonschema:"title=Stop Loss Percent,description=Stop-loss distance below the entry price as a fraction; 0 disables it,minimum=0,default=0.05" validate:"gte=0,lt=1"`
}

// RSIReversion buys oversold dips with a protective stop and sells into overbought rallies.
type RSIReversion struct {
	config RSIReversionConfig
}

func NewRSIReversion(config RSIReversionConfig) *RSIReversion {
	return &RSIReversion{config: config}
}

func DefaultRSIReversionConfig() RSIReversionConfig {
	return RSIReversionConfig{Period: 14, Oversold: 30, Overbought: 70, StopLossPercent: 0.05}
}

func (s *RSIReversion) Name() string {
	return NameRSIReversion
}

func (s *RSIReversion) Setup(registry indicator.IndicatorRegistry) error {
	rsi, err := indicator.NewIndicator(types.IndicatorTypeRSI, s.config.Period)
	if err != nil {
		return err
	}

	return registry.RegisterIndicator(rsi)
}

func (s *RSIReversion) Logic(broker Broker, lookback Lookback) error {
	rsi, err := lookback.LastValue(types.IndicatorTypeRSI)
	if err != nil {
		return err
	}

	if rsi.IsNaN() {
		return nil
	}

	price := lookback.LastPrice()

	if rsi.Float() < s.config.Oversold && broker.Shares().IsZero() && broker.BuyingPower().IsPositive() {
		return broker.Buy(broker.BuyingPower(), price, stopBelow(price, s.config.StopLossPercent))
	}

	if rsi.Float() > s.config.Overbought && broker.Shares().IsPositive() {
		return broker.Sell(decimal.NewFromInt(1), price, optional.None[decimal.Decimal]())
	}

	return nil
}
