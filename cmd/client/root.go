package main

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/fasalsaathi/internal/client/api"
	"github.com/iudanet/fasalsaathi/internal/client/auth"
	"github.com/iudanet/fasalsaathi/internal/client/storage/boltdb"
)

// Global flags available to all subcommands.
var (
	serverURL string
	dbPath    string
)

// NewRootCmd creates the root command of the client.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fasalsaathi-client",
		Short:        "Command-line client for the FasalSaathi API",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "server URL")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "fasalsaathi-client.db", "path to the local session database")

	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newMeCmd())
	cmd.AddCommand(newFarmsCmd())
	cmd.AddCommand(newPricesCmd())

	return cmd
}

// env is what every command works with.
type env struct {
	api     *api.Client
	session *auth.Service
}

// withEnv opens the session database for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(e *env) error) error {
	store, err := boltdb.New(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := api.NewClient(serverURL)
	return fn(&env{api: client, session: auth.NewService(client, store, serverURL)})
}

// authorized runs fn with the current bearer token.
func authorized(cmd *cobra.Command, fn func(e *env, token string) error) error {
	return withEnv(cmd, func(e *env) error {
		token, err := e.session.Token(cmd.Context())
		if err != nil {
			return err
		}
		err = fn(e, token)
		if api.IsUnauthorized(err) {
			// Сервер больше не принимает токен
			_ = e.session.Logout(cmd.Context())
			return auth.ErrSessionExpired
		}
		return err
	})
}
