package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discord-uploader/infrastructure/config"
)

// mockPrompter implements Prompter for testing
type mockPrompter struct {
	inputs    []string
	passwords []string
	confirms  []bool
	failAll   bool
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.failAll {
		return "", errors.New("interrupt")
	}
	if len(m.inputs) == 0 {
		return defaultValue, nil
	}
	v := m.inputs[0]
	m.inputs = m.inputs[1:]
	return v, nil
}

func (m *mockPrompter) Password(message string) (string, error) {
	if len(m.passwords) == 0 {
		return "", nil
	}
	v := m.passwords[0]
	m.passwords = m.passwords[1:]
	return v, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if len(m.confirms) == 0 {
		return defaultValue, nil
	}
	v := m.confirms[0]
	m.confirms = m.confirms[1:]
	return v, nil
}

func TestRunSetupWithPrompter(t *testing.T) {
	tests := []struct {
		name        string
		prompter    *mockPrompter
		want        config.WebhookConfig
		wantErr     bool
		errContains string
	}{
		{
			name:     "defaults",
			prompter: &mockPrompter{inputs: []string{"", ""}},
			want:     config.WebhookConfig{Endpoint: "http://localhost:5000/api/webhook/upload"},
		},
		{
			name: "custom endpoint with api key",
			prompter: &mockPrompter{
				inputs:    []string{"https://uploader.example.com/api/webhook/upload", "30s"},
				confirms:  []bool{true},
				passwords: []string{"secret"},
			},
			want: config.WebhookConfig{
				Endpoint: "https://uploader.example.com/api/webhook/upload",
				APIKey:   "secret",
				Timeout:  "30s",
			},
		},
		{
			name:        "endpoint without scheme",
			prompter:    &mockPrompter{inputs: []string{"uploader.example.com"}},
			wantErr:     true,
			errContains: "must start with http:// or https://",
		},
		{
			name:        "empty api key",
			prompter:    &mockPrompter{inputs: []string{""}, confirms: []bool{true}},
			wantErr:     true,
			errContains: "API key is required",
		},
		{
			name:        "bad timeout",
			prompter:    &mockPrompter{inputs: []string{"", "whenever"}},
			wantErr:     true,
			errContains: "invalid webhook timeout",
		},
		{
			name:        "cancelled",
			prompter:    &mockPrompter{failAll: true},
			wantErr:     true,
			errContains: "prompt cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config", "config.yaml")
			var out bytes.Buffer

			err := RunSetupWithPrompter(tt.prompter, configPath, &out)

			if tt.wantErr {
				if err == nil {
					t.Fatal("RunSetupWithPrompter() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %q", err, tt.errContains)
				}
				if _, statErr := os.Stat(configPath); statErr == nil {
					t.Error("config file should not be written on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("RunSetupWithPrompter() unexpected error: %v", err)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				t.Fatalf("config.Load() error = %v", err)
			}
			if cfg.Webhook != tt.want {
				t.Errorf("saved webhook = %+v, want %+v", cfg.Webhook, tt.want)
			}
			if !strings.Contains(out.String(), "Configuration saved to "+configPath) {
				t.Errorf("output missing save line:\n%s", out.String())
			}
		})
	}
}

func TestRunSetupWithPrompter_ExistingConfigKept(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	original := "webhook:\n  endpoint: https://keep.example.com/upload\n"
	if err := os.WriteFile(configPath, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := RunSetupWithPrompter(&mockPrompter{confirms: []bool{false}}, configPath, &out)
	if err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}

	data, _ := os.ReadFile(configPath)
	if string(data) != original {
		t.Errorf("config changed to:\n%s", data)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output = %q, want cancellation notice", out.String())
	}
}
