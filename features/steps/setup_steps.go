//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"discord-uploader/cmd"
	"discord-uploader/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses    []string
	passwordResponses []string
	confirmResponses  []bool
	inputIndex        int
	passwordIndex     int
	confirmIndex      int
}

func NewMockPrompter(inputs []string, passwords []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:    inputs,
		passwordResponses: passwords,
		confirmResponses:  confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Password(message string) (string, error) {
	if m.passwordIndex >= len(m.passwordResponses) {
		return "", fmt.Errorf("no more password responses available for message: %s", message)
	}
	response := m.passwordResponses[m.passwordIndex]
	m.passwordIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		SharedSetupContext = &setupContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSetupContext.tempDir != "" {
			os.RemoveAll(SharedSetupContext.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with API key "([^"]*)" and inputs:$`, iRunTheSetupCommandWithAPIKeyAndInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, aConfigFileShouldExist)
	ctx.Step(`^the config should have endpoint "([^"]*)"$`, theConfigShouldHaveEndpoint)
	ctx.Step(`^the config should have API key "([^"]*)"$`, theConfigShouldHaveAPIKey)
	ctx.Step(`^the config should have no API key$`, theConfigShouldHaveNoAPIKey)
	ctx.Step(`^the config should have timeout "([^"]*)"$`, theConfigShouldHaveTimeout)
	ctx.Step(`^the setup should be cancelled$`, theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, theExistingConfigShouldBeUnchanged)
}

func noConfigFileExistsForSetup() error {
	s := SharedSetupContext
	if _, err := os.Stat(s.configPath); err == nil {
		return fmt.Errorf("config file unexpectedly exists at %s", s.configPath)
	}
	return nil
}

func aConfigFileAlreadyExistsForSetup() error {
	s := SharedSetupContext
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	s.originalContent = "webhook:\n  endpoint: https://existing.example.com/api/webhook/upload\n"
	return os.WriteFile(s.configPath, []byte(s.originalContent), 0644)
}

// tableInputs reads the value column of a | prompt | value | table
func tableInputs(table *godog.Table) []string {
	var inputs []string
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		inputs = append(inputs, strings.TrimSpace(row.Cells[1].Value))
	}
	return inputs
}

func (s *setupContext) run(prompter *MockPrompter) error {
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, &s.output)
	return s.err
}

func iRunTheSetupCommandWithInputs(table *godog.Table) error {
	return SharedSetupContext.run(NewMockPrompter(tableInputs(table), nil, []bool{false}))
}

func iRunTheSetupCommandWithAPIKeyAndInputs(key string, table *godog.Table) error {
	return SharedSetupContext.run(NewMockPrompter(tableInputs(table), []string{key}, []bool{true}))
}

func iRunTheSetupCommandWithConfirmation(answer string) error {
	return SharedSetupContext.run(NewMockPrompter(nil, nil, []bool{answer == "yes"}))
}

func loadSetupConfig() (*config.Config, error) {
	return config.Load(SharedSetupContext.configPath)
}

func aConfigFileShouldExist() error {
	if _, err := os.Stat(SharedSetupContext.configPath); err != nil {
		return fmt.Errorf("expected config file to exist: %w", err)
	}
	return nil
}

func theConfigShouldHaveEndpoint(want string) error {
	cfg, err := loadSetupConfig()
	if err != nil {
		return err
	}
	if cfg.Webhook.Endpoint != want {
		return fmt.Errorf("expected endpoint %q, got %q", want, cfg.Webhook.Endpoint)
	}
	return nil
}

func theConfigShouldHaveAPIKey(want string) error {
	cfg, err := loadSetupConfig()
	if err != nil {
		return err
	}
	if cfg.Webhook.APIKey != want {
		return fmt.Errorf("expected API key %q, got %q", want, cfg.Webhook.APIKey)
	}
	return nil
}

func theConfigShouldHaveNoAPIKey() error {
	return theConfigShouldHaveAPIKey("")
}

func theConfigShouldHaveTimeout(want string) error {
	cfg, err := loadSetupConfig()
	if err != nil {
		return err
	}
	if cfg.Webhook.Timeout != want {
		return fmt.Errorf("expected timeout %q, got %q", want, cfg.Webhook.Timeout)
	}
	return nil
}

func theSetupShouldBeCancelled() error {
	if !strings.Contains(SharedSetupContext.output.String(), "Setup cancelled.") {
		return fmt.Errorf("expected setup to be cancelled, output:\n%s", SharedSetupContext.output.String())
	}
	return nil
}

func theExistingConfigShouldBeUnchanged() error {
	s := SharedSetupContext
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(data) != s.originalContent {
		return fmt.Errorf("config changed:\n%s", data)
	}
	return nil
}
