package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}

			hist, err := c.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if hist.Count == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no analyses recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tANALYZED\tCLASSIFICATION\tSCORE\tSTRENGTH\tTEXT LENGTH")
			for _, e := range hist.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n",
					e.ID,
					e.AnalyzedAt.Format("2006-01-02 15:04:05"),
					e.Classification,
					e.RiskScore,
					e.Strength,
					e.TextLength,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries to show (0 = server default)")
	return cmd
}
