package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/utkarsh5026/bootfactory/factory"
	"github.com/utkarsh5026/bootfactory/internal/algorithms"
	"github.com/utkarsh5026/bootfactory/internal/logging"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. BOOTFACTORY_WORK_UNIT for work.unit.
const EnvPrefix = "BOOTFACTORY"

// Config represents the complete bootfactory configuration
type Config struct {
	Workers  int            `mapstructure:"workers"`
	Work     WorkConfig     `mapstructure:"work"`
	Reporter ReporterConfig `mapstructure:"reporter"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WorkConfig controls what a single work unit looks like
type WorkConfig struct {
	// Unit is the wall-clock length of one time unit (default: 1s)
	Unit time.Duration `mapstructure:"unit"`
	// Strategy picks durations from the set: "random", "fixed" or "sequence"
	Strategy string `mapstructure:"strategy"`
	// Durations is the set of work durations, in units (default: 1, 3, 5)
	Durations []float64 `mapstructure:"durations"`
	// Target stops the run after this many units complete (0 = run until stopped)
	Target int64 `mapstructure:"target"`
	// RatePerSecond caps how many units start per second (0 = unlimited)
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	// Burst is the rate limiter burst size
	Burst int `mapstructure:"burst"`
	// PinCPU locks each worker to an OS thread pinned to a core
	PinCPU bool `mapstructure:"pin_cpu"`
}

// ReporterConfig controls the periodic reporter
type ReporterConfig struct {
	// DriftCorrection keeps printed timestamps aligned to whole units
	DriftCorrection bool `mapstructure:"drift_correction"`
	// RunFor stops the run after this long (0 = run until stopped)
	RunFor time.Duration `mapstructure:"run_for"`
}

// OutputConfig controls how samples are rendered
type OutputConfig struct {
	// Label names the counted thing in each line (default: "boots")
	Label string `mapstructure:"label"`
	// Color highlights the line output on terminals
	Color bool `mapstructure:"color"`
	// Progress draws a progress bar toward work.target instead of lines
	Progress bool `mapstructure:"progress"`
	// Summary prints a per-worker table when the run ends
	Summary bool `mapstructure:"summary"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Level is the minimum level logged: DEBUG, INFO, WARN, ERROR (default: WARN)
	Level string `mapstructure:"level"`
	// Format is "text" or "json" (default: text)
	Format string `mapstructure:"format"`
	// File receives the logs instead of stderr when set
	File string `mapstructure:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Workers: 1,
		Work: WorkConfig{
			Unit:      time.Second,
			Strategy:  algorithms.DurationRandomChoice.String(),
			Durations: append([]float64(nil), algorithms.DefaultDurations...),
			Burst:     1,
		},
		Reporter: ReporterConfig{
			DriftCorrection: true,
		},
		Output: OutputConfig{
			Label:   "boots",
			Color:   true,
			Summary: true,
		},
		Logging: LoggingConfig{
			Level:  logging.LevelWarn,
			Format: logging.FormatText,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("workers", defaults.Workers)

	viper.SetDefault("work.unit", defaults.Work.Unit)
	viper.SetDefault("work.strategy", defaults.Work.Strategy)
	viper.SetDefault("work.durations", defaults.Work.Durations)
	viper.SetDefault("work.target", defaults.Work.Target)
	viper.SetDefault("work.rate_per_second", defaults.Work.RatePerSecond)
	viper.SetDefault("work.burst", defaults.Work.Burst)
	viper.SetDefault("work.pin_cpu", defaults.Work.PinCPU)

	viper.SetDefault("reporter.drift_correction", defaults.Reporter.DriftCorrection)
	viper.SetDefault("reporter.run_for", defaults.Reporter.RunFor)

	viper.SetDefault("output.label", defaults.Output.Label)
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.progress", defaults.Output.Progress)
	viper.SetDefault("output.summary", defaults.Output.Summary)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// BindEnv makes every key overridable through BOOTFACTORY_* variables
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., BOOTFACTORY_REPORTER_DRIFT_CORRECTION for reporter.drift_correction
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the factory cannot run with.
// Every error wraps factory.ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must not be negative (got %d)", c.Workers))
	}
	if c.Work.Unit <= 0 {
		problems = append(problems, fmt.Sprintf("work.unit must be positive (got %v)", c.Work.Unit))
	}
	if _, err := algorithms.ParseDurationType(c.Work.Strategy); err != nil {
		problems = append(problems, fmt.Sprintf("work.strategy: %v", err))
	}
	if len(c.Work.Durations) == 0 {
		problems = append(problems, "work.durations must not be empty")
	}
	for _, d := range c.Work.Durations {
		if d < 0 {
			problems = append(problems, fmt.Sprintf("work.durations must not contain negative values (got %v)", d))
			break
		}
	}
	if c.Work.Target < 0 {
		problems = append(problems, fmt.Sprintf("work.target must not be negative (got %d)", c.Work.Target))
	}
	if c.Work.Target > 0 && c.Workers == 0 {
		problems = append(problems, "work.target can never be reached without workers")
	}
	if c.Work.RatePerSecond < 0 {
		problems = append(problems, fmt.Sprintf("work.rate_per_second must not be negative (got %v)", c.Work.RatePerSecond))
	}
	if c.Work.RatePerSecond > 0 && c.Work.Burst < 1 {
		problems = append(problems, fmt.Sprintf("work.burst must be at least 1 when rate limiting (got %d)", c.Work.Burst))
	}
	if c.Reporter.RunFor < 0 {
		problems = append(problems, fmt.Sprintf("reporter.run_for must not be negative (got %v)", c.Reporter.RunFor))
	}
	if c.Output.Progress && c.Work.Target == 0 {
		problems = append(problems, "output.progress requires work.target")
	}
	switch strings.ToLower(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be %q or %q (got %q)",
			logging.FormatText, logging.FormatJSON, c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", factory.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// FactoryOptions translates the configuration into supervisor options.
// Sink and logger are wired by the caller.
func (c *Config) FactoryOptions() ([]factory.Option, error) {
	durationType, err := algorithms.ParseDurationType(c.Work.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", factory.ErrInvalidConfig, err)
	}

	opts := []factory.Option{
		factory.WithWorkerCount(c.Workers),
		factory.WithTimeUnit(c.Work.Unit),
		factory.WithDurations(durationType, c.Work.Durations...),
		factory.WithDriftCorrection(c.Reporter.DriftCorrection),
		factory.WithUnitLimit(c.Work.Target),
		factory.WithCPUAffinity(c.Work.PinCPU),
	}
	if c.Work.RatePerSecond > 0 {
		opts = append(opts, factory.WithRateLimit(c.Work.RatePerSecond, c.Work.Burst))
	}
	return opts, nil
}
