package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(0.0, config.InitialCapital)
	suite.Equal(0.0, config.Commission)
	suite.True(config.StartTime.IsNone())
	suite.True(config.RelativeLookbackSize.IsNone())
	suite.False(config.Verbose)
}

func (suite *ConfigTestSuite) TestTestConfig() {
	config := TestConfig("BTCUSDT", 10000, 0.001)

	suite.Equal("BTCUSDT", config.Symbol)
	suite.Equal(10000.0, config.InitialCapital)
	suite.Equal("0.001", config.CommissionRate().String())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestParseConfig() {
	config, err := ParseConfig(`
symbol: BTCUSDT
initial_capital: 1000
commission: 0.01
start_time: 2024-03-01T00:00:00Z
relative_lookback_size: 50
verbose: true
results_folder: ./results
`)
	suite.Require().NoError(err)

	suite.Equal("BTCUSDT", config.Symbol)
	suite.Equal(1000.0, config.InitialCapital)
	suite.Equal(0.01, config.Commission)
	suite.True(config.Verbose)
	suite.Equal("./results", config.ResultsFolder)
	suite.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	suite.Equal(50, config.RelativeLookbackSize.Unwrap())
}

func (suite *ConfigTestSuite) TestParseConfigOptionalFieldsAbsent() {
	config, err := ParseConfig("initial_capital: 500\n")
	suite.Require().NoError(err)

	suite.True(config.StartTime.IsNone())
	suite.True(config.RelativeLookbackSize.IsNone())
	suite.Empty(config.ResultsFolder)
}

func (suite *ConfigTestSuite) TestParseConfigErrors() {
	tests := []struct {
		name         string
		yaml         string
		expectedCode errors.ErrorCode
	}{
		{name: "malformed yaml", yaml: "initial_capital: [", expectedCode: errors.ErrCodeBacktestConfigError},
		{name: "missing capital", yaml: "symbol: BTCUSDT\n", expectedCode: errors.ErrCodeBacktestConfigError},
		{name: "negative commission", yaml: "initial_capital: 10\ncommission: -0.1\n", expectedCode: errors.ErrCodeBacktestConfigError},
		{name: "zero lookback size", yaml: "initial_capital: 10\nrelative_lookback_size: 0\n", expectedCode: errors.ErrCodeBacktestConfigError},
		{name: "engine too old", yaml: "initial_capital: 10\nengine_version: \">= 99.0\"\n", expectedCode: errors.ErrCodeVersionMismatch},
		{name: "bad constraint", yaml: "initial_capital: 10\nengine_version: nope\n", expectedCode: errors.ErrCodeInvalidVersion},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseConfig(tc.yaml)
			suite.Require().Error(err)
			suite.Equal(tc.expectedCode, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := &BacktestEngineV1Config{}
	schema, err := config.GenerateSchema()

	suite.NoError(err)
	suite.NotNil(schema)
	suite.Equal("backtest-engine-v1-config", schema.Title)
	suite.Equal("Configuration schema for BacktestEngineV1", schema.Description)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var parsed map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &parsed))

	properties, ok := parsed["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "initial_capital")
	suite.Contains(properties, "commission")

	startTime, ok := properties["start_time"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("date-time", startTime["format"])

	lookback, ok := properties["relative_lookback_size"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("integer", lookback["type"])
}
