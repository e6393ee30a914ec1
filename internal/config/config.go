// Package config loads the tracked lines and service settings from YAML or
// TOML files, with secrets taken from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"leaveby.app/internal/appconf"
	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/utils"
)

// APIKeyEnv names the environment variable holding the upstream feed key.
const APIKeyEnv = "MTA_API_KEY"

type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

type ServerConfig struct {
	Port      int      `yaml:"port" toml:"port" validate:"gt=0,lte=65535"`
	APIKeys   []string `yaml:"apiKeys" toml:"apiKeys" validate:"dive,required"`
	RateLimit int      `yaml:"rateLimit" toml:"rateLimit" validate:"gte=0"`
}

type RefreshConfig struct {
	RefreshIntervalMS   int `yaml:"refreshIntervalMS" toml:"refreshIntervalMS" validate:"gt=0"`
	CountdownIntervalMS int `yaml:"countdownIntervalMS" toml:"countdownIntervalMS" validate:"gt=0"`
	TimeoutMS           int `yaml:"timeoutMS" toml:"timeoutMS" validate:"gt=0"`
	CacheTTLMS          int `yaml:"cacheTTLMS" toml:"cacheTTLMS" validate:"gte=0"`
}

type FeedConfig struct {
	APIKeyHeader string `yaml:"apiKeyHeader" toml:"apiKeyHeader" validate:"required"`
	// APIKey is read from APIKeyEnv, never from the file.
	APIKey string `yaml:"-" toml:"-"`
}

// LineConfig describes one tracked line. Thresholds are in minutes.
type LineConfig struct {
	ID            string   `yaml:"id" toml:"id" validate:"required"`
	Name          string   `yaml:"name" toml:"name" validate:"required"`
	Source        string   `yaml:"source" toml:"source" validate:"required"`
	Format        string   `yaml:"format" toml:"format" validate:"omitempty,oneof=gtfsrt nyct"`
	Station       string   `yaml:"station" toml:"station" validate:"required,alphanum"`
	HideThreshold float64  `yaml:"hideThreshold" toml:"hideThreshold" validate:"gte=0"`
	WalkTime      *float64 `yaml:"walkTime" toml:"walkTime" validate:"omitempty,gte=0"`
}

type Config struct {
	Env     string        `yaml:"env" toml:"env"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Refresh RefreshConfig `yaml:"refresh" toml:"refresh"`
	Feed    FeedConfig    `yaml:"feed" toml:"feed"`
	Lines   []LineConfig  `yaml:"lines" toml:"lines" validate:"required,min=1,dive"`
}

// Load reads the config file at path over the defaults, applies the
// environment and validates the result. An empty path selects the built-in
// defaults. Values already present in the environment win over those in
// envFiles.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	cfg.Feed.APIKey = os.Getenv(APIKeyEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", describe(path), err)
	}
	return cfg, nil
}

func describe(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}

// decodeFile decodes path into cfg by extension. Lines given in the file
// replace the default lines rather than merging with them.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	defaults := cfg.Lines
	cfg.Lines = nil

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	if len(cfg.Lines) == 0 {
		cfg.Lines = defaults
	}
	return nil
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	var errs []error
	if c.Refresh.CountdownIntervalMS > c.Refresh.RefreshIntervalMS {
		errs = append(errs, fmt.Errorf("countdownIntervalMS (%d) must not exceed refreshIntervalMS (%d)",
			c.Refresh.CountdownIntervalMS, c.Refresh.RefreshIntervalMS))
	}

	seen := make(map[string]bool, len(c.Lines))
	for _, line := range c.Lines {
		if err := utils.ValidateID(line.ID); err != nil {
			errs = append(errs, fmt.Errorf("line %q: %w", line.ID, err))
		}
		if seen[line.ID] {
			errs = append(errs, fmt.Errorf("duplicate line id %q", line.ID))
		}
		seen[line.ID] = true
	}

	return errors.Join(errs...)
}

// Environment returns the configured operating environment.
func (c *Config) Environment() appconf.Environment {
	return appconf.EnvFlagToEnvironment(c.Env)
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.RefreshIntervalMS) * time.Millisecond
}

func (c *Config) CountdownInterval() time.Duration {
	return time.Duration(c.Refresh.CountdownIntervalMS) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Refresh.TimeoutMS) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Refresh.CacheTTLMS) * time.Millisecond
}

// FeedHeaders returns the headers sent with every upstream request.
func (c *Config) FeedHeaders() map[string]string {
	headers := map[string]string{}
	if c.Feed.APIKey != "" {
		headers[c.Feed.APIKeyHeader] = c.Feed.APIKey
	}
	return headers
}

// TrackedLines converts the configured lines, in order.
func (c *Config) TrackedLines() []arrivals.TrackedLine {
	lines := make([]arrivals.TrackedLine, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = arrivals.TrackedLine{
			ID:            l.ID,
			Name:          l.Name,
			Source:        l.Source,
			Format:        l.Format,
			Station:       l.Station,
			HideThreshold: minutes(l.HideThreshold),
		}
		if l.WalkTime != nil {
			walk := minutes(*l.WalkTime)
			lines[i].WalkTime = &walk
		}
	}
	return lines
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
