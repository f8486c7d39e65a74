package strategy

import (
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

const (
	NameBuyAndHold       = "buy_and_hold"
	NameMACrossover      = "ma_crossover"
	NameRSIReversion     = "rsi_reversion"
	NameSuperTrendFollow = "supertrend_follow"
)

// Names lists the built-in strategies.
func Names() []string {
	return []string{NameBuyAndHold, NameMACrossover, NameRSIReversion, NameSuperTrendFollow}
}

// NewStrategy creates a built-in strategy from a YAML or JSON config. An empty config keeps
// the defaults.
func NewStrategy(name string, config string) (Strategy, error) {
	switch name {
	case NameBuyAndHold:
		return NewBuyAndHold(), nil
	case NameMACrossover:
		cfg := DefaultMACrossoverConfig()
		if err := decodeConfig(name, config, &cfg); err != nil {
			return nil, err
		}

		return NewMACrossover(cfg), nil
	case NameRSIReversion:
		cfg := DefaultRSIReversionConfig()
		if err := decodeConfig(name, config, &cfg); err != nil {
			return nil, err
		}

		return NewRSIReversion(cfg), nil
	case NameSuperTrendFollow:
		cfg := DefaultSuperTrendFollowConfig()
		if err := decodeConfig(name, config, &cfg); err != nil {
			return nil, err
		}

		return NewSuperTrendFollow(cfg), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy: %s", name)
	}
}

// ConfigSchema returns the JSON schema of a built-in strategy's config.
func ConfigSchema(name string) (string, error) {
	switch name {
	case NameBuyAndHold:
		return ToJSONSchema(struct{}{})
	case NameMACrossover:
		return ToJSONSchema(DefaultMACrossoverConfig())
	case NameRSIReversion:
		return ToJSONSchema(DefaultRSIReversionConfig())
	case NameSuperTrendFollow:
		return ToJSONSchema(DefaultSuperTrendFollowConfig())
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy: %s", name)
	}
}
