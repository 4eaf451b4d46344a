package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iudanet/fasalsaathi/pkg/api"
)

func newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			req.Password = password

			return withEnv(cmd, func(e *env) error {
				resp, err := e.session.Register(cmd.Context(), req)
				if err != nil {
					return err
				}
				cmd.Printf("registered %s (id %s)\n", resp.Email, resp.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&req.LanguagePreference, "language", "", "preferred language code (default en)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			return withEnv(cmd, func(e *env) error {
				session, err := e.session.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				cmd.Printf("logged in as %s\n", session.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(e *env) error {
				if err := e.session.Logout(cmd.Context()); err != nil {
					return err
				}
				cmd.Println("logged out")
				return nil
			})
		},
	}
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return authorized(cmd, func(e *env, token string) error {
				me, err := e.api.Me(cmd.Context(), token)
				if err != nil {
					return err
				}
				cmd.Printf("ID:       %s\n", me.ID)
				cmd.Printf("Email:    %s\n", me.Email)
				cmd.Printf("Name:     %s\n", me.FullName)
				cmd.Printf("Phone:    %s\n", me.Phone)
				cmd.Printf("Language: %s\n", me.LanguagePreference)
				cmd.Printf("Active:   %t\n", me.IsActive)
				return nil
			})
		},
	}
}

// readPassword читает пароль без эха в терминале, иначе одну строку из stdin
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print(prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
