package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/indicator"
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/shopspring/decimal"
)

type SuperTrendFollowConfig struct {
	Period int     `yaml:"period" json:"period" jsonschema:"title=Period,description=ATR period of the SuperTrend,minimum=2,default=10" validate:"gt=1"`
	Factor float64 `yaml:"factor" json:"factor" jsonschema:"title=Factor,description=ATR multiplier of the bands,exclusiveMinimum=0,default=3" validate:"gt=0"`
}

// SuperTrendFollow holds a long position while the close stays above the SuperTrend line.
type SuperTrendFollow struct {
	config SuperTrendFollowConfig
}

func NewSuperTrendFollow(config SuperTrendFollowConfig) *SuperTrendFollow {
	return &SuperTrendFollow{config: config}
}

func DefaultSuperTrendFollowConfig() SuperTrendFollowConfig {
	return SuperTrendFollowConfig{Period: 10, Factor: 3}
}

func (s *SuperTrendFollow) Name() string {
	return NameSuperTrendFollow
}

func (s *SuperTrendFollow) Setup(registry indicator.IndicatorRegistry) error {
	st, err := indicator.NewIndicator(types.IndicatorTypeSuperTrend, s.config.Period, s.config.Factor)
	if err != nil {
		return err
	}

	return registry.RegisterIndicator(st)
}

func (s *SuperTrendFollow) Logic(broker Broker, lookback Lookback) error {
	st, err := lookback.LastValue(types.IndicatorTypeSuperTrend)
	if err != nil {
		return err
	}

	// zero until the bands exist
	if st.IsNaN() || st.Float() == 0 {
		return nil
	}

	price := lookback.LastPrice()
	closePrice := lookback.Last().Close

	if closePrice > st.Float() && broker.Shares().IsZero() && broker.BuyingPower().IsPositive() {
		return broker.Buy(broker.BuyingPower(), price, optional.None[decimal.Decimal]())
	}

	if closePrice < st.Float() && broker.Shares().IsPositive() {
		return broker.Sell(decimal.NewFromInt(1), price, optional.None[decimal.Decimal]())
	}

	return nil
}
