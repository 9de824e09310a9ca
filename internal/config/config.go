package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load, so the
// logging level for example is LEGO_LOGGING_LEVEL.
const EnvPrefix = "LEGO"

// Config represents the complete application configuration.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Prepare     PrepareConfig     `yaml:"prepare" envconfig:"PREPARE"`
	Aggregation AggregationConfig `yaml:"aggregation" envconfig:"AGGREGATION"`
	Export      ExportConfig      `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the file system locations the pipeline reads from and
// writes to. Relative paths resolve against the working directory.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// PrepareConfig toggles the construction-time transforms of the case study.
type PrepareConfig struct {
	MergeSingleNodeBuses bool `yaml:"merge_single_node_buses" envconfig:"MERGE_SINGLE_NODE_BUSES"`
	ScaleUnits           bool `yaml:"scale_units" envconfig:"SCALE_UNITS"`
}

// AggregationConfig configures the optional k-medoids aggregation step.
// Clusters stays zero while the step is disabled.
type AggregationConfig struct {
	Enabled       bool   `yaml:"enabled" envconfig:"ENABLED"`
	Clusters      int    `yaml:"clusters" envconfig:"CLUSTERS" validate:"gte=0"`
	PeriodLength  int    `yaml:"period_length" envconfig:"PERIOD_LENGTH" validate:"gt=0"`
	Strategy      string `yaml:"strategy" envconfig:"STRATEGY" validate:"oneof=aggregated disaggregated"`
	Normalization string `yaml:"normalization" envconfig:"NORMALIZATION" validate:"oneof=installed maxInvestment"`
	SumProduction bool   `yaml:"sum_production" envconfig:"SUM_PRODUCTION"`
}

// ExportConfig selects the output formats and the per-scenario export
// parallelism.
type ExportConfig struct {
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=excel csv sqlite"`
	Workers int      `yaml:"workers" envconfig:"WORKERS" validate:"gt=0"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// LEGO_* environment, in that order of precedence (environment wins), and
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Absent keys leave the
// current values in place.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks the struct tags plus the cross-field rules the tags cannot
// express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}
	if c.Aggregation.Enabled && c.Aggregation.Clusters <= 0 {
		return fmt.Errorf("aggregation enabled with %d clusters", c.Aggregation.Clusters)
	}
	return nil
}

// configFilePath returns the YAML file to overlay, or empty when none
// applies. LEGO_CONFIG points at an explicit file; otherwise the common
// locations are probed.
func configFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	locations := []string{
		"legoio.yaml",
		"configs/legoio.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration: console logging, conventional
// data and output directories, the full preparation sequence and a plain
// Excel export.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/legoio.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "output",
		},
		Prepare: PrepareConfig{
			MergeSingleNodeBuses: true,
			ScaleUnits:           true,
		},
		Aggregation: AggregationConfig{
			Enabled:       false,
			Clusters:      0,
			PeriodLength:  24,
			Strategy:      "aggregated",
			Normalization: "maxInvestment",
		},
		Export: ExportConfig{
			Formats: []string{"excel"},
			Workers: 4,
		},
	}
}
