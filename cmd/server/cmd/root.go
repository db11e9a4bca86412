package cmd

import (
	"log/slog"
	"os"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authform",
	Short: "Login and signup form server",
	Long: `authform serves a server-rendered login/signup form backed by
SurrealDB or an in-memory user store.

Use "authform [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.New()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("addr") {
		cfg.AppAddr, _ = cmd.Flags().GetString("addr")
	}
	return cfg, nil
}
