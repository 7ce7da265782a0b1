// Package config loads the settings of a scanrt run: a YAML file, then a
// .env file, then SCANRT_* environment variables, each overriding the one
// before.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/scanrt/logging"
	"github.com/sarchlab/scanrt/memimage"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "SCANRT_"

// ErrInvalid reports a configuration that cannot run.
var ErrInvalid = errors.New("invalid configuration")

// Log configures the logging package.
type Log struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Journal bool   `yaml:"journal"`
}

// Monitor configures the HTTP monitor.
type Monitor struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
	Open    bool `yaml:"open"`
}

// Record configures the SQLite recorder.
type Record struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is everything a run needs besides the program itself.
type Config struct {
	Program   string          `yaml:"program"`
	Script    string          `yaml:"script"`
	Period    time.Duration   `yaml:"period"`
	MaxCycles uint64          `yaml:"max_cycles"`
	Layout    memimage.Layout `yaml:"layout"`
	Log       Log             `yaml:"log"`
	Monitor   Monitor         `yaml:"monitor"`
	Record    Record          `yaml:"record"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Program: "palletizer",
		Period:  10 * time.Millisecond,
		Layout:  memimage.DefaultLayout,
		Log:     Log{Level: "info"},
	}
}

// Load reads path over the defaults, then applies the .env file in the
// working directory and the environment. An empty path skips the file.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}

		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf(".env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return c, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	envString("PROGRAM", &c.Program)
	envString("SCRIPT", &c.Script)
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FILE", &c.Log.File)
	envString("RECORD_PATH", &c.Record.Path)

	if v, ok := lookup("PERIOD"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sPERIOD: %w", EnvPrefix, err)
		}

		c.Period = d
	}

	if v, ok := lookup("MAX_CYCLES"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_CYCLES: %w", EnvPrefix, err)
		}

		c.MaxCycles = n
	}

	if v, ok := lookup("MONITOR_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMONITOR_PORT: %w", EnvPrefix, err)
		}

		c.Monitor.Port = n
		c.Monitor.Enabled = true
	}

	for name, dst := range map[string]*bool{
		"LOG_JOURNAL":  &c.Log.Journal,
		"MONITOR":      &c.Monitor.Enabled,
		"MONITOR_OPEN": &c.Monitor.Open,
		"RECORD":       &c.Record.Enabled,
	} {
		v, ok := lookup(name)
		if !ok {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}

		*dst = b
	}

	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.Program == "" {
		return fmt.Errorf("%w: no program", ErrInvalid)
	}

	if c.Period < 0 {
		return fmt.Errorf("%w: negative period %v", ErrInvalid, c.Period)
	}

	if c.Layout.Inputs <= 0 || c.Layout.Outputs <= 0 || c.Layout.Markers <= 0 {
		return fmt.Errorf("%w: layout %+v", ErrInvalid, c.Layout)
	}

	if c.Monitor.Port < 0 || c.Monitor.Port > 65535 {
		return fmt.Errorf("%w: monitor port %d", ErrInvalid, c.Monitor.Port)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// LogOptions converts the log settings for logging.New.
func (c Config) LogOptions() logging.Options {
	return logging.Options{
		Level:   c.Log.Level,
		File:    c.Log.File,
		Journal: c.Log.Journal,
	}
}
