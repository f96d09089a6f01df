package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	appupload "discord-uploader/application/upload"
	"discord-uploader/domain/upload"
	"discord-uploader/infrastructure/config"
	"discord-uploader/infrastructure/filesystem"
	"discord-uploader/infrastructure/webhook"

	"github.com/spf13/cobra"
)

// ErrUploadFailed is returned after a failed result has been printed.
// Execute turns it into exit code 1 without printing it again.
var ErrUploadFailed = errors.New("upload failed")

var (
	cfgFile string
	apiURL  string
	apiKey  string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "discord-uploader <file-path-or-url>",
	Short: "Send a file or file URL to a Discord upload webhook",
	Long: `discord-uploader forwards a file to a webhook endpoint that posts it
into a Discord channel.

Arguments starting with http:// or https:// are sent as {"fileUrl": ...}
JSON; the server downloads them. Anything else must be an existing local
file, which is sent as a multipart upload.

The result is printed as JSON on stdout. The exit code is 1 when the
upload did not succeed.

Example:
  discord-uploader https://example.com/screenshot.png
  discord-uploader ./report.pdf --api https://uploader.example.com/api/webhook/upload`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUpload,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrUploadFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
	rootCmd.Flags().StringVar(&apiURL, "api", "", "API endpoint URL (default: "+upload.DefaultEndpoint+")")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key sent in the X-API-Key header")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with DISCORD_UPLOADER_* overrides")
}

// ResolveConfig loads the config file and applies .env, environment and flag
// overrides, in increasing order of precedence
func ResolveConfig(configPath, envFile, endpointFlag, apiKeyFlag string, lookup func(string) (string, bool)) (*config.Config, error) {
	lookup, err := config.WithDotEnv(lookup, envFile)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if endpointFlag != "" {
		cfg.Webhook.Endpoint = endpointFlag
	}
	if apiKeyFlag != "" {
		cfg.Webhook.APIKey = apiKeyFlag
	}

	return cfg, nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := ResolveConfig(cfgFile, envFile, apiURL, apiKey, os.LookupEnv)
	if err != nil {
		return err
	}

	timeout, err := cfg.Webhook.TimeoutDuration()
	if err != nil {
		return err
	}

	client := webhook.NewClient(
		webhook.WithAPIKey(cfg.Webhook.APIKey),
		webhook.WithTimeout(timeout),
	)

	return RunUploadWithDependencies(
		cmd.Context(),
		client,
		filesystem.NewChecker(),
		cfg.Webhook.Endpoint,
		args[0],
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
	)
}

// RunUploadWithDependencies runs the upload with injected dependencies (for testing).
// The result JSON goes to output and progress lines to progress.
func RunUploadWithDependencies(
	ctx context.Context,
	sender upload.Sender,
	files appupload.Files,
	endpoint string,
	input string,
	output io.Writer,
	progress io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dispatcher := appupload.NewDispatcher(sender, files, endpoint, progress)
	result := dispatcher.Dispatch(ctx, input)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(output, string(data))

	if !result.Success {
		return ErrUploadFailed
	}
	return nil
}
