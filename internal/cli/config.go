package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/daemon"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.Flags().Bool("defaults", false, "print built-in defaults instead of the effective config")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after applying the config file and FINQUEST_*
environment overrides. The auth secret is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := daemon.DefaultConfig()
		if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}
		}
		if cfg.Auth.Secret != "" {
			cfg.Auth.Secret = "********"
		}
		return cfg.Encode(cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = daemon.DefaultConfigPath()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}
