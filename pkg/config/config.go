// Package config provides configuration loading for the wine ETL pipeline.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissing = errors.New("required value missing")
	ErrInvalid = errors.New("invalid value")
)

// Error is a configuration error tied to a config key.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %v", e.Key, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func missing(key string) error { return &Error{Key: key, Err: ErrMissing} }

func invalid(key, format string, args ...any) error {
	return &Error{Key: key, Err: fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))}
}

// Step names accepted in pipeline.steps.
const (
	StepImputeMedian       = "impute_median"
	StepRemoveOutliersIQR  = "remove_outliers_iqr"
	StepFeatureEngineering = "feature_engineering"
	StepEncodeCategorical  = "encode_categorical"
	StepPHBucket           = "ph_bucket"
	StepDropDuplicates     = "drop_duplicates"
	StepStandardScale      = "standard_scale"
)

var knownSteps = map[string]bool{
	StepImputeMedian:       true,
	StepRemoveOutliersIQR:  true,
	StepFeatureEngineering: true,
	StepEncodeCategorical:  true,
	StepPHBucket:           true,
	StepDropDuplicates:     true,
	StepStandardScale:      true,
}

// Config is the full pipeline configuration.
type Config struct {
	RawPath       string `yaml:"raw_path"`
	ProcessedPath string `yaml:"processed_path"`
	ReportDir     string `yaml:"report_dir"`

	Logging     LoggingConfig      `yaml:"logging"`
	Validation  ValidationConfig   `yaml:"validation"`
	Pipeline    PipelineConfig     `yaml:"pipeline"`
	ObjectStore *ObjectStoreConfig `yaml:"object_store"`
	Server      ServerConfig       `yaml:"server"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ValidationConfig holds the quality gate settings.
type ValidationConfig struct {
	RequiredColumns      []string `yaml:"required_columns"`
	MinRows              int      `yaml:"min_rows"`
	MaxAllowedViolations int      `yaml:"max_allowed_violations"`
	Strict               bool     `yaml:"strict"`
	// HaltOnRangeViolation turns the numeric-range soft gate into a hard one.
	HaltOnRangeViolation bool `yaml:"halt_on_range_violation"`
	// RangeK overrides pipeline.outlier_k for range computation.
	RangeK *float64 `yaml:"range_k"`
}

// PipelineConfig holds the transform settings.
type PipelineConfig struct {
	OutlierK     float64      `yaml:"outlier_k"`
	TargetColumn string       `yaml:"target_column"`
	Steps        []StepConfig `yaml:"steps"`
}

// StepConfig configures one transform step. Columns defaults to the numeric
// feature columns and K to pipeline.outlier_k.
type StepConfig struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns,omitempty"`
	K       *float64 `yaml:"k,omitempty"`
}

// ObjectStoreConfig describes an S3-compatible bucket for the processed output.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		RawPath:       "data/raw/winequality.csv",
		ProcessedPath: "data/processed/wine_processed.csv",
		ReportDir:     "reports",
		Logging:       LoggingConfig{Level: "INFO"},
		Validation: ValidationConfig{
			MinRows:              1,
			MaxAllowedViolations: 1000,
		},
		Pipeline: PipelineConfig{
			OutlierK:     3.0,
			TargetColumn: "quality",
			Steps: []StepConfig{
				{Name: StepImputeMedian},
				{Name: StepRemoveOutliersIQR},
				{Name: StepFeatureEngineering},
				{Name: StepEncodeCategorical},
			},
		},
		Server: ServerConfig{Addr: ":8000"},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c Config) Validate() error {
	if len(c.Validation.RequiredColumns) == 0 {
		return missing("validation.required_columns")
	}
	if c.Validation.MinRows < 0 {
		return invalid("validation.min_rows", "%d is negative", c.Validation.MinRows)
	}
	if c.Validation.MaxAllowedViolations < 0 {
		return invalid("validation.max_allowed_violations", "%d is negative", c.Validation.MaxAllowedViolations)
	}
	if c.Validation.RangeK != nil && *c.Validation.RangeK < 0 {
		return invalid("validation.range_k", "%v is negative", *c.Validation.RangeK)
	}
	if c.Pipeline.OutlierK < 0 {
		return invalid("pipeline.outlier_k", "%v is negative", c.Pipeline.OutlierK)
	}
	for i, s := range c.Pipeline.Steps {
		key := fmt.Sprintf("pipeline.steps[%d]", i)
		if s.Name == "" {
			return missing(key + ".name")
		}
		if !knownSteps[s.Name] {
			return invalid(key+".name", "unknown step %q", s.Name)
		}
		if s.K != nil && *s.K < 0 {
			return invalid(key+".k", "%v is negative", *s.K)
		}
	}
	if store := c.ObjectStore; store != nil {
		if store.Endpoint == "" {
			return missing("object_store.endpoint")
		}
		if store.Bucket == "" {
			return missing("object_store.bucket")
		}
	}
	return nil
}

// RangeK returns the tolerance factor used for numeric-range bounds.
func (c Config) RangeK() float64 {
	if c.Validation.RangeK != nil {
		return *c.Validation.RangeK
	}
	return c.Pipeline.OutlierK
}

// SlogLevel maps the configured level name to a slog level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(l.Level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) applyEnv() {
	c.RawPath = getEnv("WINEETL_RAW_PATH", c.RawPath)
	c.ProcessedPath = getEnv("WINEETL_PROCESSED_PATH", c.ProcessedPath)
	c.ReportDir = getEnv("WINEETL_REPORT_DIR", c.ReportDir)
	c.Logging.Level = getEnv("WINEETL_LOG_LEVEL", c.Logging.Level)
	c.Validation.MaxAllowedViolations = getEnvInt("WINEETL_MAX_ALLOWED_VIOLATIONS", c.Validation.MaxAllowedViolations)
	c.Server.Addr = getEnv("WINEETL_ADDR", c.Server.Addr)
	if c.ObjectStore != nil {
		c.ObjectStore.AccessKey = getEnv("WINEETL_S3_ACCESS_KEY", c.ObjectStore.AccessKey)
		c.ObjectStore.SecretKey = getEnv("WINEETL_S3_SECRET_KEY", c.ObjectStore.SecretKey)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
