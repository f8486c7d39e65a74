package main

import (
	"log"
	"os"
	"path/filepath"

	backtestv1 "github.com/rxtech-lab/argo-ledger/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-ledger/internal/strategy"
	"github.com/rxtech-lab/argo-ledger/internal/trading/engine"
	"gopkg.in/yaml.v3"
)

const (
	backtestSchemaName = "backtest-engine-v1-config.json"
	backtestSampleName = "backtest-engine-v1-config.yaml"
	liveSchemaName     = "live-trading-engine-v1-config.json"
	liveSampleName     = "live-trading-engine-v1-config.yaml"
)

// sampleBacktestConfig mirrors the YAML keys of the backtest config without its optional fields.
type sampleBacktestConfig struct {
	Symbol         string  `yaml:"symbol"`
	InitialCapital float64 `yaml:"initial_capital"`
	Commission     float64 `yaml:"commission"`
	Verbose        bool    `yaml:"verbose"`
	ResultsFolder  string  `yaml:"results_folder"`
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, content, 0o644)
}

// writeSample writes value as YAML with a schema reference, unless path already exists.
func writeSample(path string, schemaName string, value any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(value)
	if err != nil {
		return err
	}

	yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

	if err := writeFile(path, yamlBytes); err != nil {
		return err
	}

	log.Printf("Sample config successfully generated at %s", path)

	return nil
}

// generate writes the engine and strategy config schemas plus sample engine configs to dir.
func generate(dir string) error {
	config := backtestv1.EmptyConfig()

	backtestSchema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, backtestSchemaName), []byte(backtestSchema)); err != nil {
		return err
	}

	err = writeSample(filepath.Join(dir, backtestSampleName), backtestSchemaName, sampleBacktestConfig{
		Symbol:         "BTCUSDT",
		InitialCapital: 10000,
		Commission:     0.001,
		Verbose:        false,
		ResultsFolder:  "results",
	})
	if err != nil {
		return err
	}

	liveSchema, err := engine.GetConfigSchema()
	if err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, liveSchemaName), []byte(liveSchema)); err != nil {
		return err
	}

	//nolint:exhaustruct // zero HistoryStart is omitted
	err = writeSample(filepath.Join(dir, liveSampleName), liveSchemaName, engine.LiveTradingEngineConfig{
		Symbol:              "BTCUSDT",
		Interval:            "1m",
		MarketDataCacheSize: 1000,
	})
	if err != nil {
		return err
	}

	for _, name := range strategy.Names() {
		schema, err := strategy.ConfigSchema(name)
		if err != nil {
			return err
		}

		if err := writeFile(filepath.Join(dir, "strategies", name+".json"), []byte(schema)); err != nil {
			return err
		}
	}

	log.Printf("Schemas successfully generated in %s", dir)

	return nil
}

func main() {
	if err := generate("./config"); err != nil {
		log.Fatalf("Failed to generate schemas: %v", err)
	}
}
