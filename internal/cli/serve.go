package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/finquest-app/finquest/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().String("storage", "", "storage driver: memory or sqlite (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FinQuest API server",
	Long:  `Start the HTTP API. Stops gracefully on SIGINT or SIGTERM.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.API.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.API.Port = v
	}
	if v, _ := cmd.Flags().GetString("storage"); v != "" {
		cfg.Storage.Driver = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := daemon.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	d, err := daemon.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}
