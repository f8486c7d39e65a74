package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-ledger/internal/version"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1Config struct {
	Symbol         string  `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Instrument the bars belong to"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital of the paper account in quote currency,minimum=0" validate:"gt=0"`
	Commission     float64 `yaml:"commission" json:"commission" jsonschema:"title=Commission,description=Commission rate charged on every order e.g. 0.001 for 0.1%,minimum=0,default=0" validate:"gte=0,lt=1"`
	// StartTime drops every bar before it.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time of the simulated window"`
	// RelativeLookbackSize keeps only the last N bars. Ignored when StartTime is set.
	RelativeLookbackSize optional.Option[int] `yaml:"relative_lookback_size" json:"relative_lookback_size" jsonschema:"title=Relative Lookback Size,description=Simulate only the last N bars; ignored when start_time is set,minimum=1"`
	Verbose              bool                 `yaml:"verbose" json:"verbose" jsonschema:"title=Verbose,description=Log every ledger mutation at debug level"`
	EngineVersion        string               `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Semver constraint the engine must satisfy e.g. ~0.3"`
	ResultsFolder        string               `yaml:"results_folder" json:"results_folder,omitempty" jsonschema:"title=Results Folder,description=Folder results are exported to; empty disables persistence"`
}

var configValidator = validator.New()

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		Symbol               string     `yaml:"symbol"`
		InitialCapital       float64    `yaml:"initial_capital"`
		Commission           float64    `yaml:"commission"`
		StartTime            *time.Time `yaml:"start_time"`
		RelativeLookbackSize *int       `yaml:"relative_lookback_size"`
		Verbose              bool       `yaml:"verbose"`
		EngineVersion        string     `yaml:"engine_version"`
		ResultsFolder        string     `yaml:"results_folder"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	c.Symbol = config.Symbol
	c.InitialCapital = config.InitialCapital
	c.Commission = config.Commission
	c.Verbose = config.Verbose
	c.EngineVersion = config.EngineVersion
	c.ResultsFolder = config.ResultsFolder

	c.StartTime = optional.None[time.Time]()
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	c.RelativeLookbackSize = optional.None[int]()
	if config.RelativeLookbackSize != nil {
		c.RelativeLookbackSize = optional.Some(*config.RelativeLookbackSize)
	}

	return nil
}

// ParseConfig decodes and validates a YAML engine configuration.
func ParseConfig(raw string) (BacktestEngineV1Config, error) {
	config := EmptyConfig()
	if err := yaml.Unmarshal([]byte(raw), &config); err != nil {
		return config, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks field ranges and that the running engine satisfies EngineVersion.
func (c BacktestEngineV1Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if size, err := c.RelativeLookbackSize.Take(); err == nil && size <= 0 {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "relative_lookback_size must be positive, got %d", size)
	}

	return version.CheckConstraint(version.GetVersion(), c.EngineVersion)
}

// CommissionRate returns the commission as a decimal rate.
func (c BacktestEngineV1Config) CommissionRate() decimal.Decimal {
	return decimal.NewFromFloat(c.Commission)
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[time.Time]{}):
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case reflect.TypeOf(optional.Option[int]{}):
				return &jsonschema.Schema{
					Type: "integer",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(symbol string, initialCapital float64, commission float64) BacktestEngineV1Config {
	config := EmptyConfig()
	config.Symbol = symbol
	config.InitialCapital = initialCapital
	config.Commission = commission

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Symbol:               "",
		InitialCapital:       0,
		Commission:           0,
		StartTime:            optional.None[time.Time](),
		RelativeLookbackSize: optional.None[int](),
		Verbose:              false,
		EngineVersion:        "",
		ResultsFolder:        "",
	}
}
