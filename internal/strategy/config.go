package strategy

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var configValidator = validator.New()

// decodeConfig overlays YAML or JSON onto cfg, which already holds the defaults, and validates it.
func decodeConfig[T any](strategyName string, raw string, cfg *T) error {
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), cfg); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse %s config", strategyName)
		}
	}

	if err := configValidator.Struct(cfg); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s config", strategyName)
	}

	return nil
}

// stopBelow returns a stop-loss percent below price, or none when percent is zero.
func stopBelow(price decimal.Decimal, percent float64) optional.Option[decimal.Decimal] {
	if percent <= 0 {
		return optional.None[decimal.Decimal]()
	}

	return optional.Some(price.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(percent))))
}
