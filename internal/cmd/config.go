package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
	"github.com/felixgeelhaar/stepflow/internal/exec"
	"github.com/felixgeelhaar/stepflow/internal/flow"
	"github.com/felixgeelhaar/stepflow/internal/log"
)

// Config is the optional <state-dir>/config.yaml
type Config struct {
	Retention   int           `yaml:"retention"`
	MaxParallel int           `yaml:"max_parallel"`
	Shell       string        `yaml:"shell"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the diagnostic log written to stderr
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var validLogFormats = []string{"text", "json"}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		Retention:   flow.DefaultRetention,
		MaxParallel: 0,
		Shell:       exec.DefaultShell,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig reads path over the defaults. A missing or empty file yields
// the defaults; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, sferrors.Wrap(sferrors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config %s", path), err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return cfg, sferrors.NewConfigInvalidError(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, sferrors.NewConfigInvalidError(path, err)
	}
	return cfg, nil
}

// Apply overrides the file settings with the flags that were given
func (c *Config) Apply(cc *CommandContext) error {
	if cc.LogLevel != "" {
		c.Logging.Level = cc.LogLevel
	}
	if cc.LogFormat != "" {
		c.Logging.Format = cc.LogFormat
	}
	if cc.MaxParallel != nil {
		c.MaxParallel = *cc.MaxParallel
	}
	if cc.Retention != nil {
		c.Retention = *cc.Retention
	}
	if err := c.Validate(); err != nil {
		return sferrors.NewConfigInvalidError("flags", err)
	}
	return nil
}

// Validate reports every out-of-range setting
func (c Config) Validate() error {
	var errs error
	if c.Retention < 1 {
		errs = multierr.Append(errs, fmt.Errorf("retention must be at least 1, got %d", c.Retention))
	}
	if c.MaxParallel < 0 {
		errs = multierr.Append(errs, fmt.Errorf("max_parallel must not be negative, got %d", c.MaxParallel))
	}
	if c.Shell == "" {
		errs = multierr.Append(errs, fmt.Errorf("shell must not be empty"))
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		errs = multierr.Append(errs, fmt.Errorf("logging.format %q is not one of %v", c.Logging.Format, validLogFormats))
	}
	return errs
}

// LogConfig converts the logging settings for log.New. The settings are
// expected to have passed Validate; an unparseable level keeps the default.
func (c Config) LogConfig(w io.Writer) log.Config {
	cfg := log.DefaultConfig()
	if level, err := log.ParseLevel(c.Logging.Level); err == nil {
		cfg.Level = level
	}
	cfg.Format = log.ParseFormat(c.Logging.Format)
	cfg.Output = log.NewOutput(w)
	cfg.AddSource = cfg.Level == log.LevelDebug
	return cfg
}
