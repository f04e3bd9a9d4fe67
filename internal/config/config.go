// Package config handles tracker configuration from defaults, an optional
// YAML file, and environment variables. Precedence: flag > env > file >
// default; flags are applied by the CLI after Load.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/service/kpi"
)

// DefaultFile is the config file picked up from the working directory when
// --config is not given.
const DefaultFile = "tracker.yaml"

// Config holds every knob of one tracker run.
type Config struct {
	OutDir   string // artifact root; data/ and reports/ are created below it
	InputDir string // CSV input directory; empty means generate synthetic data

	Seed       int64 // RNG seed for synthetic generation
	Employees  int   // synthetic employee count
	Exceptions int   // synthetic exception count
	GraceDays  int   // extra days before a lapsed deadline counts as overdue

	AsOf time.Time // reference date for all "today" comparisons

	Charts   bool   // emit standalone HTML charts
	LogLevel string // debug, info, warn, error

	Weights kpi.Weights // compliance score weighting

	// Warnings collects non-fatal issues hit during loading. They are
	// logged by the caller once the logger exists.
	Warnings []string
}

// fileConfig is the YAML shape of the optional config file.
type fileConfig struct {
	OutDir     string       `yaml:"out_dir"`
	InputDir   string       `yaml:"input_dir"`
	Seed       *int64       `yaml:"seed"`
	Employees  *int         `yaml:"employees"`
	Exceptions *int         `yaml:"exceptions"`
	GraceDays  *int         `yaml:"grace_days"`
	AsOf       string       `yaml:"as_of"`
	Charts     *bool        `yaml:"charts"`
	LogLevel   string       `yaml:"log_level"`
	Weights    *kpi.Weights `yaml:"weights"`
}

// Load builds the configuration. path points at a YAML config file; when
// empty, tracker.yaml in the working directory is used if it exists.
func Load(path string) (*Config, error) {
	cfg := &Config{
		OutDir:     "./output",
		Seed:       42,
		Employees:  150,
		Exceptions: 20,
		GraceDays:  0,
		AsOf:       today(),
		Charts:     true,
		LogLevel:   "info",
		Weights:    kpi.DefaultWeights,
	}

	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.applyFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.OutDir != "" {
		c.OutDir = fc.OutDir
	}
	if fc.InputDir != "" {
		c.InputDir = fc.InputDir
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.Employees != nil {
		c.Employees = *fc.Employees
	}
	if fc.Exceptions != nil {
		c.Exceptions = *fc.Exceptions
	}
	if fc.GraceDays != nil {
		c.GraceDays = *fc.GraceDays
	}
	if fc.AsOf != "" {
		t, err := time.Parse("2006-01-02", fc.AsOf)
		if err != nil {
			return fmt.Errorf("config file %s: as_of must be YYYY-MM-DD: %w", path, err)
		}
		c.AsOf = t
	}
	if fc.Charts != nil {
		c.Charts = *fc.Charts
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Weights != nil {
		c.Weights = *fc.Weights
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TRACKER_OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv("TRACKER_INPUT_DIR"); v != "" {
		c.InputDir = v
	}
	c.envInt64("TRACKER_SEED", &c.Seed)
	c.envInt("TRACKER_EMPLOYEES", &c.Employees)
	c.envInt("TRACKER_EXCEPTIONS", &c.Exceptions)
	c.envInt("TRACKER_GRACE_DAYS", &c.GraceDays)
	if v := os.Getenv("TRACKER_AS_OF"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			c.AsOf = t
		} else {
			c.warnf("TRACKER_AS_OF=%q is not YYYY-MM-DD, ignoring", v)
		}
	}
	if v := os.Getenv("TRACKER_CHARTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Charts = b
		} else {
			c.warnf("TRACKER_CHARTS=%q is not a boolean, ignoring", v)
		}
	}
	if v := os.Getenv("TRACKER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	c.envFloat("TRACKER_WEIGHT_ENROLLMENT", &c.Weights.Enrollment)
	c.envFloat("TRACKER_WEIGHT_EXCEPTION_RESOLUTION", &c.Weights.ExceptionResolution)
	c.envFloat("TRACKER_WEIGHT_DEADLINE_ADHERENCE", &c.Weights.DeadlineAdherence)
}

func (c *Config) envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			c.warnf("%s=%q is not an integer, ignoring", key, v)
		}
	}
}

func (c *Config) envInt64(key string, dst *int64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		} else {
			c.warnf("%s=%q is not an integer, ignoring", key, v)
		}
	}
}

func (c *Config) envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		} else {
			c.warnf("%s=%q is not a number, ignoring", key, v)
		}
	}
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if c.Employees <= 0 {
		return fmt.Errorf("employee count must be positive, got %d", c.Employees)
	}
	if c.Exceptions < 0 {
		return fmt.Errorf("exception count must not be negative, got %d", c.Exceptions)
	}
	if c.GraceDays < 0 {
		return fmt.Errorf("grace period must not be negative, got %d days", c.GraceDays)
	}
	if c.AsOf.IsZero() {
		return fmt.Errorf("reference date must be set")
	}
	return c.Weights.Validate()
}

// DataDir is where table and query CSVs are written.
func (c *Config) DataDir() string { return filepath.Join(c.OutDir, "data") }

// ReportsDir is where the HTML report and charts are written.
func (c *Config) ReportsDir() string { return filepath.Join(c.OutDir, "reports") }

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
