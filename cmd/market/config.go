package main

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/rxtech-lab/argo-ledger/pkg/marketdata"
)

type downloadFlags struct {
	provider   string
	configFile string
	ticker     string
	start      time.Time
	end        time.Time
	interval   string
	apiKey     string
}

// downloadConfig builds the provider download config either from a JSON file or from flags.
func downloadConfig(flags downloadFlags) (marketdata.DownloadConfig, error) {
	if flags.configFile != "" {
		raw, err := os.ReadFile(flags.configFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read download config", err)
		}

		return marketdata.ParseDownloadConfig(flags.provider, string(raw))
	}

	base := marketdata.BaseDownloadConfig{
		Ticker:    flags.ticker,
		StartDate: flags.start.UTC().Format(time.RFC3339),
		EndDate:   flags.end.UTC().Format(time.RFC3339),
		Interval:  flags.interval,
	}

	var config interface {
		marketdata.DownloadConfig
		Validate() error
	}

	switch marketdata.ProviderType(flags.provider) {
	case marketdata.ProviderPolygon:
		config = &marketdata.PolygonDownloadConfig{BaseDownloadConfig: base, ApiKey: flags.apiKey}
	case marketdata.ProviderBinance:
		config = &marketdata.BinanceDownloadConfig{BaseDownloadConfig: base}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", flags.provider)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
