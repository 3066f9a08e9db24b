// Package cli implements jobctl, a command-line front-end for the job board API.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobmaroc/jobboard/internal/client"
	"github.com/jobmaroc/jobboard/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server      string
	SessionFile string
	Format      string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the jobctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jobctl",
		Short: "Job board command-line client",
		Long:  "Sign in to a job board server, browse and manage offers, applications and account approvals.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("JOBCTL_SERVER", "http://localhost:8080"), "job board server URL")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", envOr("JOBCTL_SESSION", session.DefaultPath()), "where the signed-in session is stored")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewOffersCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewApplicationsCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))

	return cmd
}

func (o *RootOptions) store() *session.FileStore {
	return session.NewFileStore(o.SessionFile)
}

func (o *RootOptions) formatter(w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: w}
}

// authorize loads the stored session and checks it against allowed, the same
// way the page router does. It returns a client carrying the session token.
func (o *RootOptions) authorize(allowed ...session.Role) (*client.Client, *session.Session, error) {
	sess, err := o.store().Load()
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return nil, nil, err
	}
	switch session.NewGuard("", "").Decide(sess, allowed) {
	case session.RedirectLogin:
		return nil, nil, ErrNotLoggedIn
	case session.RedirectUnauthorized:
		return nil, nil, fmt.Errorf("%w: %s may not run this command", ErrUnauthorized, sess.Role)
	}
	return client.New(o.Server, client.WithToken(sess.Token)), sess, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
