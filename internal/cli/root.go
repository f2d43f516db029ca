// Package cli implements the finquest command line.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/daemon"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "finquest",
	Short: "Gamified personal finance tracker",
	Long: `FinQuest turns saving into a game: log savings, set goals and answer
financial literacy quizzes to earn points and badges.

Configuration is read from ~/.finquest/config.toml (or --config), then
FINQUEST_* environment variables. A .env file in the working directory is
loaded first if present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.finquest/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves --config and loads the effective configuration.
func loadConfig() (daemon.Config, error) {
	path := configPath
	if path == "" {
		path = daemon.DefaultConfigPath()
	}
	return daemon.LoadConfig(path)
}
