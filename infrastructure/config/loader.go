package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"discord-uploader/domain/upload"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Environment variables that override the config file
const (
	EnvEndpoint = "DISCORD_UPLOADER_ENDPOINT"
	EnvAPIKey   = "DISCORD_UPLOADER_API_KEY"
	EnvTimeout  = "DISCORD_UPLOADER_TIMEOUT"
)

// Config represents the complete application configuration
type Config struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig contains the upload endpoint settings
type WebhookConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key,omitempty"`
	// Timeout is a Go duration string such as "30s"; empty means the client default
	Timeout string `yaml:"timeout,omitempty"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Webhook: WebhookConfig{Endpoint: upload.DefaultEndpoint},
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Webhook.Endpoint == "" {
		cfg.Webhook.Endpoint = upload.DefaultEndpoint
	}
	if _, err := cfg.Webhook.TimeoutDuration(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WithDotEnv returns a lookup that consults lookup first and then the values
// read from the given .env files. Missing files are ignored, earlier files win,
// and the process environment is never modified.
func WithDotEnv(lookup func(string) (string, bool), paths ...string) (func(string) (string, bool), error) {
	values := map[string]string{}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		vars, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", p, err)
		}
		for k, v := range vars {
			if _, ok := values[k]; !ok {
				values[k] = v
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides config values with any DISCORD_UPLOADER_* variables set in lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Webhook.Endpoint = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.Webhook.APIKey = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Webhook.Timeout = v
	}
	return nil
}

// TimeoutDuration parses Timeout; an empty value yields zero
func (w WebhookConfig) TimeoutDuration() (time.Duration, error) {
	if w.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid webhook timeout %q: %w", w.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid webhook timeout %q: must not be negative", w.Timeout)
	}
	return d, nil
}
