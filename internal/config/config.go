// Package config loads the YAML run configuration of the daily data source.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Recorder backends.
const (
	RecorderMySQL   = "mysql"
	RecorderParquet = "parquet"
	RecorderMemory  = "memory"
)

// Config is the whole run configuration.
type Config struct {
	Base    BaseConfig    `yaml:"base" json:"base" jsonschema:"title=Base,description=Backtest period and account" validate:"required"`
	Mod     ModConfig     `yaml:"mod" json:"mod" jsonschema:"title=Mod,description=Data source and result recording" validate:"required"`
	Log     logger.Config `yaml:"log" json:"log" jsonschema:"title=Log,description=Logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" jsonschema:"title=Metrics,description=Prometheus exposition"`
}

// BaseConfig describes the backtest the data source serves.
type BaseConfig struct {
	StartDate   string             `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,format=date,required" validate:"required,datetime=2006-01-02"`
	EndDate     string             `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,format=date,required" validate:"required,datetime=2006-01-02"`
	StockCash   float64            `yaml:"stock_cash" json:"stock_cash" jsonschema:"title=Stock Cash,description=Initial cash of the stock account,minimum=0" validate:"gte=0"`
	Benchmark   string             `yaml:"benchmark" json:"benchmark,omitempty" jsonschema:"title=Benchmark,description=Order book id of the benchmark index"`
	Instruments []types.Instrument `yaml:"instruments" json:"instruments,omitempty" jsonschema:"title=Instruments,description=Instruments whose type cannot be inferred from the id" validate:"dive"`
}

// ModConfig wires the data source and the recorder.
type ModConfig struct {
	// DBURL is the DuckDB database holding the daily tables. ":memory:"
	// together with Parquet serves bars straight from parquet files.
	DBURL string `yaml:"db_url" json:"db_url" jsonschema:"title=Database URL,description=DuckDB database with the daily bar tables,required" validate:"required"`
	// Parquet maps a daily table name to a parquet file exposed under that name.
	Parquet map[string]string `yaml:"parquet" json:"parquet,omitempty" jsonschema:"title=Parquet Tables,description=Parquet file per daily table"`
	// StrategyID enables result recording when set.
	StrategyID  string `yaml:"strategy_id" json:"strategy_id,omitempty" jsonschema:"title=Strategy ID,description=Records trades and portfolios under this id"`
	Recorder    string `yaml:"recorder" json:"recorder,omitempty" jsonschema:"title=Recorder,enum=mysql,enum=parquet,enum=memory" validate:"omitempty,oneof=mysql parquet memory"`
	RecorderDSN string `yaml:"recorder_dsn" json:"recorder_dsn,omitempty" jsonschema:"title=Recorder DSN,description=MySQL DSN of the results database" validate:"required_if=Recorder mysql"`
	ResultsDir  string `yaml:"results_dir" json:"results_dir,omitempty" jsonschema:"title=Results Directory,description=Directory of the parquet recorder" validate:"required_if=Recorder parquet"`
	AutoMigrate bool   `yaml:"auto_migrate" json:"auto_migrate,omitempty" jsonschema:"title=Auto Migrate,description=Create the result tables on start up"`
}

// MetricsConfig controls the Prometheus endpoint of the CLI.
type MetricsConfig struct {
	Listen string `yaml:"listen" json:"listen,omitempty" jsonschema:"title=Listen Address,description=Address of the /metrics endpoint. Empty disables it" validate:"omitempty,hostname_port"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mod.StrategyID != "" && c.Mod.Recorder == "" {
		c.Mod.Recorder = RecorderMySQL
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks struct tags and the date ordering.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	start, _ := time.Parse(types.MetaDateLayout, c.Base.StartDate)
	end, _ := time.Parse(types.MetaDateLayout, c.Base.EndDate)

	if end.Before(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"end_date %s is before start_date %s", c.Base.EndDate, c.Base.StartDate)
	}

	return nil
}

// Start returns the parsed start date.
func (b BaseConfig) Start() time.Time {
	t, _ := time.Parse(types.MetaDateLayout, b.StartDate)

	return t
}

// End returns the parsed end date.
func (b BaseConfig) End() time.Time {
	t, _ := time.Parse(types.MetaDateLayout, b.EndDate)

	return t
}

// Schema returns the JSON schema of Config.
func Schema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "argo-daily-config"
	schema.Description = "Configuration schema of the daily bar data source"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// SchemaJSON returns Schema as indented JSON.
func SchemaJSON() (string, error) {
	schema, err := Schema()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode schema", err)
	}

	return string(data), nil
}
