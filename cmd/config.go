package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"discord-uploader/infrastructure/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change webhook settings",
	Long: `Show or change the webhook settings stored in the config file.

Keys: endpoint, api_key, timeout

Examples:
  discord-uploader config show
  discord-uploader config set endpoint https://uploader.example.com/api/webhook/upload
  discord-uploader config set timeout 30s
  discord-uploader config unset api_key`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Long: `Show the settings an upload would use, after applying .env and
DISCORD_UPLOADER_* environment overrides. The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := ResolveConfig(cfgFile, envFile, "", "", os.LookupEnv)
	if err != nil {
		return err
	}
	return RunConfigShowWithDependencies(cfg, cfgFile, cmd.OutOrStdout())
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		value := e.Value
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Key, value)
	}

	return w.Flush()
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], cmd.OutOrStdout())
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out io.Writer) error {
	if err := ensureConfigDir(configPath); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}

	if config.NormalizeKey(key) == config.KeyAPIKey {
		value = config.MaskSecret(value)
	}
	fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// --- UNSET command ---

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a config value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	return RunConfigUnsetWithDependencies(cfg, cfgFile, args[0], cmd.OutOrStdout())
}

// RunConfigUnsetWithDependencies runs the unset command with injected dependencies
func RunConfigUnsetWithDependencies(cfg *config.Config, configPath, key string, out io.Writer) error {
	if err := ensureConfigDir(configPath); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Unset(key); err != nil {
		return err
	}

	fmt.Fprintf(out, "Unset %s\n", key)
	return nil
}

func ensureConfigDir(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
