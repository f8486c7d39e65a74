package types

// IndicatorType is the registry name of an indicator.
type IndicatorType string

const (
	IndicatorTypeMA                    IndicatorType = "ma"
	IndicatorTypeEMA                   IndicatorType = "ema"
	IndicatorTypeDEMA                  IndicatorType = "dema"
	IndicatorTypeWMA                   IndicatorType = "wma"
	IndicatorTypeRSI                   IndicatorType = "rsi"
	IndicatorTypeMACD                  IndicatorType = "macd"
	IndicatorTypeBollingerBands        IndicatorType = "bollinger_bands"
	IndicatorTypeATR                   IndicatorType = "atr"
	IndicatorTypeStochasticOsciallator IndicatorType = "stochastic_oscillator"
	IndicatorTypeWilliamsR             IndicatorType = "williams_r"
	IndicatorTypeMomentum              IndicatorType = "momentum"
	IndicatorTypeROC                   IndicatorType = "roc"
	IndicatorTypeCCI                   IndicatorType = "cci"
	IndicatorTypeAroon                 IndicatorType = "aroon"
	IndicatorTypeSuperTrend            IndicatorType = "supertrend"
	IndicatorTypeMidPoint              IndicatorType = "midpoint"
	IndicatorTypeRangeFilter           IndicatorType = "range_filter"
	IndicatorTypeWaddahAttar           IndicatorType = "waddah_attar"
)
