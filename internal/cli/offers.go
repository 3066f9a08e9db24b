package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/offers"
	"github.com/jobmaroc/jobboard/internal/paging"
	"github.com/jobmaroc/jobboard/internal/session"
)

// NewOffersCommand creates the offers command group.
func NewOffersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Browse and manage job offers",
	}
	cmd.AddCommand(newOffersListCommand(rootOpts))
	cmd.AddCommand(newOffersDeleteCommand(rootOpts))
	return cmd
}

func newOffersListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		query offers.Query
		page  int
		mine  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List offers with search, filters and pagination",
		Long: `Fetch the offer catalogue, then filter and paginate it locally.

--search matches title, description, location, company, skills and contract
types, ignoring case. --modality and --sector must match exactly, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := rootOpts.authorize()
			if err != nil {
				return err
			}
			all, err := c.AllOffers(cmd.Context(), mine && sess.Role == session.RoleManager)
			if err != nil {
				return err
			}

			view := paging.NewView(all, paging.DefaultPageSize)
			view.SetPredicate(query.Predicate())
			view.Goto(page)
			current := view.Current()
			strip := view.Strip()

			out := dto.OfferPage{Page: current, Strip: strip}
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(out, func(w io.Writer) {
				printOffers(w, current.Items)
				fmt.Fprintf(w, "\n%d offer(s), page %d of %d\n", current.TotalItems, current.Number, current.TotalPages)
				if current.TotalPages > 1 {
					fmt.Fprintln(w, paging.FormatStrip(strip))
				}
			})
		},
	}
	cmd.Flags().StringVarP(&query.Search, "search", "s", "", "search term")
	cmd.Flags().StringVar(&query.Modality, "modality", "", "OnSite, Remote or Hybrid")
	cmd.Flags().StringVar(&query.Sector, "sector", "", "sector of activity")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&mine, "mine", false, "only offers published by the signed-in manager")
	return cmd
}

func newOffersDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <offer-id>",
		Short: "Delete an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid offer id %q", args[0])
			}
			c, sess, err := rootOpts.authorize(session.RoleAdmin, session.RoleManager)
			if err != nil {
				return err
			}
			all, err := c.AllOffers(cmd.Context(), sess.Role == session.RoleManager)
			if err != nil {
				return err
			}
			board := offers.NewBoard(all)
			if err := board.Delete(cmd.Context(), id, c.DeleteOffer); err != nil {
				return err
			}
			remaining := board.Offers()
			return rootOpts.formatter(cmd.OutOrStdout()).Emit(remaining, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted offer %d, %d remaining\n", id, len(remaining))
			})
		},
	}
}

func printOffers(w io.Writer, items []models.Offer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tMODALITY\tSECTOR\tSTATUS")
	for _, o := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.Title, o.CompanyName, o.Modality, o.SectorActivity, o.Status)
	}
	tw.Flush()
}
