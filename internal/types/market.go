package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// MarketData is one OHLCV bar for a fixed interval.
type MarketData struct {
	Id     string    `yaml:"id" json:"id" csv:"id"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time" validate:"required"`
	Open   float64   `yaml:"open" json:"open" csv:"open" validate:"gte=0"`
	High   float64   `yaml:"high" json:"high" csv:"high" validate:"gte=0,gtefield=Low"`
	Low    float64   `yaml:"low" json:"low" csv:"low" validate:"gte=0"`
	Close  float64   `yaml:"close" json:"close" csv:"close" validate:"gte=0"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

var barValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that prices are non-negative and that the high is not below the low.
func (m MarketData) Validate() error {
	if err := barValidator.Struct(m); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid bar at %s", m.Time.Format(time.RFC3339))
	}

	return nil
}

// ValidateBars validates every bar and then their ordering.
func ValidateBars(bars []MarketData) error {
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "bar %d is invalid", i)
		}
	}

	return ValidateOrdering(bars)
}

// ValidateOrdering checks that bars have strictly increasing, non-duplicated timestamps.
func ValidateOrdering(bars []MarketData) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeUnorderedData,
				"bar %d (%s) is not after bar %d (%s)",
				i, bars[i].Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// LogReturns returns ln(close[i]/close[i-1]) for every bar. The first entry is NaN.
func LogReturns(bars []MarketData) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if i == 0 || bars[i-1].Close <= 0 || bars[i].Close <= 0 {
			out[i] = math.NaN()

			continue
		}

		out[i] = math.Log(bars[i].Close / bars[i-1].Close)
	}

	return out
}
