package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"oasi/internal/api"
	"oasi/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session for the storefront",
		Long: `Authenticates against the backend and stores the session in the data
dir, so the next storefront run starts logged in. Missing credentials are
prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				if email, err = prompt(cmd, in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd, in, "Senha: "); err != nil {
					return err
				}
			}
			return a.login(cmd, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func (a *app) login(cmd *cobra.Command, email, password string) error {
	store, db, err := a.openSession()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	client, err := api.New(a.cfg)
	if err != nil {
		return err
	}
	resp, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return errors.New(api.UserMessage(err, "Ocorreu um erro."))
	}

	user := session.UserSummary{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email, Phone: resp.User.Phone}
	if err := store.Login(resp.Token, user); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Olá, %s! Sessão salva.\n", user.Name)
	return nil
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := a.openSession()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			if err := store.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, db, err := a.openSession()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			cur := store.Current()
			if !cur.Present() {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma sessão ativa.")
				return nil
			}
			u := cur.User
			if u.Email != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", u.Name, u.ID)
			}
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword hides the typed password when stdin is a terminal.
func promptPassword(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(cmd, in, label)
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
