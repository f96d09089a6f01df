package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"discord-uploader/domain/upload"
	"discord-uploader/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Password(message string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Password(message string) (string, error) {
	result := ""
	prompt := &survey.Password{
		Message: message,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for the webhook endpoint, an optional API key and a request
timeout, and writes them to the config file (default config/config.yaml).`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to discord-uploader setup!")
	fmt.Fprintln(out)

	cfg := config.Default()
	if err := promptWebhook(prompter, cfg); err != nil {
		return err
	}

	if err := ensureConfigDir(configPath); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptWebhook(prompter Prompter, cfg *config.Config) error {
	endpoint, err := prompter.Input("Upload API endpoint?", upload.DefaultEndpoint)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if endpoint == "" {
		endpoint = upload.DefaultEndpoint
	}
	if !upload.HasURLPrefix(endpoint) {
		return fmt.Errorf("endpoint %q must start with http:// or https://", endpoint)
	}
	cfg.Webhook.Endpoint = endpoint

	needsKey, err := prompter.Confirm("Does the endpoint require an API key?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if needsKey {
		key, err := prompter.Password("API key:")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if key == "" {
			return fmt.Errorf("API key is required")
		}
		cfg.Webhook.APIKey = key
	}

	timeout, err := prompter.Input("Request timeout (e.g. 30s, empty for client default)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Webhook.Timeout = timeout
	if _, err := cfg.Webhook.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}
