package indicator

import (
	"github.com/rxtech-lab/argo-ledger/internal/types"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

var constructors = map[types.IndicatorType]func() Indicator{
	types.IndicatorTypeMA:                    NewMA,
	types.IndicatorTypeEMA:                   NewEMA,
	types.IndicatorTypeDEMA:                  NewDEMA,
	types.IndicatorTypeWMA:                   NewWMA,
	types.IndicatorTypeRSI:                   NewRSI,
	types.IndicatorTypeMACD:                  NewMACD,
	types.IndicatorTypeBollingerBands:        NewBollingerBands,
	types.IndicatorTypeATR:                   NewATR,
	types.IndicatorTypeStochasticOsciallator: NewStochastic,
	types.IndicatorTypeWilliamsR:             NewWilliamsR,
	types.IndicatorTypeMomentum:              NewMomentum,
	types.IndicatorTypeROC:                   NewROC,
	types.IndicatorTypeCCI:                   NewCCI,
	types.IndicatorTypeAroon:                 NewAroon,
	types.IndicatorTypeSuperTrend:            NewSuperTrend,
	types.IndicatorTypeMidPoint:              NewMidPoint,
	types.IndicatorTypeRangeFilter:           NewRangeFilter,
	types.IndicatorTypeWaddahAttar:           NewWaddahAttar,
}

// NewIndicator creates an indicator by name. When params are given they are passed to Config;
// otherwise the indicator keeps its defaults.
func NewIndicator(name types.IndicatorType, params ...any) (Indicator, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "unknown indicator %s", name)
	}

	ind := constructor()
	if len(params) == 0 {
		return ind, nil
	}

	if err := ind.Config(params...); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid configuration for %s", name)
	}

	return ind, nil
}
