package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobmaroc/jobboard/internal/client"
	"github.com/jobmaroc/jobboard/internal/session"
)

type identity struct {
	Username string       `json:"username"`
	Role     session.Role `json:"userRole"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with an email and password and store the session locally.

The password may also be supplied through JOBCTL_PASSWORD. Accounts still
waiting for administrator approval are refused.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("JOBCTL_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			c := client.New(rootOpts.Server)
			sess, err := c.Signin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := rootOpts.store().Save(sess); err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(identity{Username: sess.Username, Role: sess.Role}, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s (%s)\n", sess.Username, sess.Role)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := rootOpts.store()
			sess, err := store.Load()
			if errors.Is(err, session.ErrNoSession) {
				rootOpts.formatter(cmd.OutOrStdout()).Line("Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			c := client.New(rootOpts.Server, client.WithToken(sess.Token))
			// An expired or already revoked token still ends the local session.
			if err := c.Logout(cmd.Context()); err != nil && !client.IsStatus(err, http.StatusUnauthorized) {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			rootOpts.formatter(cmd.OutOrStdout()).Line("Signed out")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rootOpts.store().Load()
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return err
			}
			if !sess.Authenticated() {
				return ErrNotLoggedIn
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(identity{Username: sess.Username, Role: sess.Role}, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s)\n", sess.Username, sess.Role)
			})
		},
	}
}
