package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/session"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		cvID  int64
		notes string
	)
	cmd := &cobra.Command{
		Use:   "apply <offer-id>",
		Short: "Apply to an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offerID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid offer id %q", args[0])
			}
			c, _, err := rootOpts.authorize(session.RoleTalent)
			if err != nil {
				return err
			}
			req := dto.ApplicationRequest{OfferID: offerID, Notes: notes}
			if cvID > 0 {
				req.CVID = &cvID
			}
			app, err := c.Apply(cmd.Context(), req)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(app, func(w io.Writer) {
				fmt.Fprintf(w, "Applied to %q (application %d, %s)\n", app.OfferTitle, app.ID, app.Status)
			})
		},
	}
	cmd.Flags().Int64Var(&cvID, "cv", 0, "id of the CV to attach")
	cmd.Flags().StringVar(&notes, "notes", "", "notes for the recruiter")
	return cmd
}

// NewApplicationsCommand lists the talent's own applications, or those to a
// manager's offers.
func NewApplicationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "applications",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := rootOpts.authorize(session.RoleTalent, session.RoleManager)
			if err != nil {
				return err
			}
			var apps []models.Application
			if sess.Role == session.RoleTalent {
				apps, err = c.MyApplications(cmd.Context())
			} else {
				apps, err = c.ManagerApplications(cmd.Context())
			}
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(apps, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tOFFER\tTALENT\tSTATUS\tAPPLIED")
				for _, a := range apps {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.OfferTitle, a.TalentEmail, a.Status, a.AppliedAt.Format("2006-01-02"))
				}
				tw.Flush()
			})
		},
	}
}
