package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iudanet/fasalsaathi/internal/server"
	"github.com/iudanet/fasalsaathi/internal/server/auth"
	"github.com/iudanet/fasalsaathi/internal/server/storage"
)

// NewAccountsCmd creates the accounts subcommand group.
func NewAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Administer registered accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <email>",
		Short: "Allow an account to use the API again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd, func(svc *auth.Service) error {
				return setActive(cmd, svc, args[0], true)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate <email>",
		Short: "Block an account from using the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd, func(svc *auth.Service) error {
				return setActive(cmd, svc, args[0], false)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-password <email>",
		Short: "Replace the password of an account",
		Long:  `Replace the password of an account. The new password is read from the terminal, or from the first line of stdin when it is not a terminal.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, "New password: ")
			if err != nil {
				return err
			}
			return withAccounts(cmd, func(svc *auth.Service) error {
				if err := svc.SetPassword(cmd.Context(), args[0], password); err != nil {
					return accountError(args[0], err)
				}
				cmd.Printf("password updated for %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func withAccounts(cmd *cobra.Command, fn func(svc *auth.Service) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), cfg, logger, Version)
	if err != nil {
		return err
	}
	defer srv.Close()

	return fn(srv.Accounts())
}

func setActive(cmd *cobra.Command, svc *auth.Service, email string, active bool) error {
	if err := svc.SetActive(cmd.Context(), email, active); err != nil {
		return accountError(email, err)
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	cmd.Printf("account %s %s\n", email, state)
	return nil
}

func accountError(email string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Errorf("no account registered with %s", email)
	}
	return err
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print(prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
