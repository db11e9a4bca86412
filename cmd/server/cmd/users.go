package cmd

import (
	"errors"
	"fmt"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/server"
	"github.com/pterm/pterm"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/surrealdb/surrealdb.go"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <email> <password>",
	Short: "Register a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.GetDBDriver() != config.DriverSurreal {
			return errors.New("users add needs DB_DRIVER=surreal; the memory store does not outlive this command")
		}

		injector := server.NewInjector(cfg)
		defer injector.Shutdown()

		users, err := do.Invoke[domain.UserRepository](injector)
		if err != nil {
			return fmt.Errorf("user store: %w", err)
		}
		defer do.MustInvoke[*surrealdb.DB](injector).Close(cmd.Context())
		if _, err := users.SignUp(cmd.Context(), &domain.User{Email: args[0]}, args[1]); err != nil {
			return fmt.Errorf("add user %s: %w", args[0], err)
		}

		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Added user %s", args[0])
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersAddCmd)
	rootCmd.AddCommand(usersCmd)
}
