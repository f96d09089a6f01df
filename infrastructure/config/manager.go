package config

import (
	"errors"
	"fmt"
	"strings"

	"discord-uploader/domain/upload"
)

// Errors for config management
var (
	ErrUnknownKey      = errors.New("unknown config key")
	ErrInvalidEndpoint = errors.New("endpoint must start with http:// or https://")
)

// Settable config keys
const (
	KeyEndpoint = "endpoint"
	KeyAPIKey   = "api_key"
	KeyTimeout  = "timeout"
)

// Keys lists the config keys in display order
var Keys = []string{KeyEndpoint, KeyAPIKey, KeyTimeout}

// Entry is a single key/value pair for display
type Entry struct {
	Key   string
	Value string
}

// ConfigManager provides get/set operations for webhook config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// NormalizeKey lowercases key and accepts dashes in place of underscores
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// Set validates and stores value under key, then saves the file
func (m *ConfigManager) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch NormalizeKey(key) {
	case KeyEndpoint:
		if !upload.HasURLPrefix(value) {
			return fmt.Errorf("%w: %q", ErrInvalidEndpoint, value)
		}
		m.config.Webhook.Endpoint = value

	case KeyAPIKey:
		if value == "" {
			return fmt.Errorf("api_key value is required; use unset to clear it")
		}
		m.config.Webhook.APIKey = value

	case KeyTimeout:
		w := m.config.Webhook
		w.Timeout = value
		if _, err := w.TimeoutDuration(); err != nil {
			return err
		}
		m.config.Webhook.Timeout = value

	default:
		return fmt.Errorf("%w %q. Use %s", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}

	return Save(m.config, m.configPath)
}

// Unset restores key to its default, then saves the file
func (m *ConfigManager) Unset(key string) error {
	switch NormalizeKey(key) {
	case KeyEndpoint:
		m.config.Webhook.Endpoint = upload.DefaultEndpoint
	case KeyAPIKey:
		m.config.Webhook.APIKey = ""
	case KeyTimeout:
		m.config.Webhook.Timeout = ""
	default:
		return fmt.Errorf("%w %q. Use %s", ErrUnknownKey, key, strings.Join(Keys, ", "))
	}

	return Save(m.config, m.configPath)
}

// List returns all entries with the API key masked
func (m *ConfigManager) List() []Entry {
	w := m.config.Webhook
	return []Entry{
		{Key: KeyEndpoint, Value: w.Endpoint},
		{Key: KeyAPIKey, Value: MaskSecret(w.APIKey)},
		{Key: KeyTimeout, Value: w.Timeout},
	}
}

// MaskSecret hides all but the last four characters of s
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
