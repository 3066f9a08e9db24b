package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jobmaroc/jobboard/internal/accounts"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/paging"
	"github.com/jobmaroc/jobboard/internal/session"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List accounts and review those awaiting approval",
	}
	cmd.AddCommand(newUsersListCommand(rootOpts))
	cmd.AddCommand(newUsersPendingCommand(rootOpts))
	cmd.AddCommand(newUsersApproveCommand(rootOpts))
	return cmd
}

func newUsersPendingCommand(rootOpts *RootOptions) *cobra.Command {
	var table userTableFlags
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List accounts waiting for approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := table.query.Validate(); err != nil {
				return err
			}
			c, _, err := rootOpts.authorize(session.RoleAdmin, session.RoleManager)
			if err != nil {
				return err
			}
			users, err := c.PendingUsers(cmd.Context(), table.query)
			if err != nil {
				return err
			}
			return table.emit(rootOpts.formatter(cmd.OutOrStdout()), users)
		},
	}
	table.register(cmd)
	return cmd
}

func newUsersListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		table  userTableFlags
		role   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally by role and status",
		Long: `List accounts. Managers only see talents.

--search matches first and last name, email and nationality, ignoring case.
--sort takes name, email or date; prefix it with - to reverse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := table.query.Validate(); err != nil {
				return err
			}
			var (
				r  session.Role
				st models.AcceptanceStatus
			)
			if role != "" {
				parsed, err := session.ParseRole(role)
				if err != nil {
					return err
				}
				r = parsed
			}
			if status != "" {
				parsed, err := models.ParseAcceptanceStatus(status)
				if err != nil {
					return err
				}
				st = parsed
			}
			c, _, err := rootOpts.authorize(session.RoleAdmin, session.RoleManager)
			if err != nil {
				return err
			}
			users, err := c.Users(cmd.Context(), r, st, table.query)
			if err != nil {
				return err
			}
			return table.emit(rootOpts.formatter(cmd.OutOrStdout()), users)
		},
	}
	table.register(cmd)
	cmd.Flags().StringVar(&role, "role", "", "ADMIN, MANAGER or TALENT")
	cmd.Flags().StringVar(&status, "status", "", "WAITING, ACCEPTED or REJECTED")
	return cmd
}

// userTableFlags are the search, sort and page flags shared by user listings.
type userTableFlags struct {
	query accounts.Query
	page  int
}

func (f *userTableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query.Search, "search", "s", "", "search name, email or nationality")
	cmd.Flags().StringVar(&f.query.Sort, "sort", "", "name, email or date; prefix with - to reverse")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
}

func (f *userTableFlags) emit(out *OutputFormatter, users []models.User) error {
	view := paging.NewView(users, paging.DefaultPageSize)
	view.Goto(f.page)
	current := view.Current()
	strip := view.Strip()
	return out.Emit(current, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tSTATUS\tREGISTERED")
		for _, u := range current.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName(), u.Role, u.Status, u.RegistrationDate.Format("2006-01-02"))
		}
		tw.Flush()
		fmt.Fprintf(w, "\n%d user(s), page %d of %d\n", current.TotalItems, current.Number, current.TotalPages)
		if current.TotalPages > 1 {
			fmt.Fprintln(w, paging.FormatStrip(strip))
		}
	})
}

func newUsersApproveCommand(rootOpts *RootOptions) *cobra.Command {
	var reject bool
	cmd := &cobra.Command{
		Use:   "approve <user-id>",
		Short: "Accept an account, or reject it with --reject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			c, _, err := rootOpts.authorize(session.RoleAdmin)
			if err != nil {
				return err
			}
			status := models.StatusAccepted
			if reject {
				status = models.StatusRejected
			}
			user, err := c.SetUserStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(user, func(w io.Writer) {
				fmt.Fprintf(w, "%s is now %s\n", user.Email, user.Status)
			})
		},
	}
	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of accepting")
	return cmd
}
