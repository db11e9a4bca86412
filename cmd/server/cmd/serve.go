package cmd

import (
	"github.com/nfrund/authform/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		s, err := server.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return s.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, overrides APP_ADDR")
	rootCmd.AddCommand(serveCmd)
}
