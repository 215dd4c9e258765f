package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tsync "timebridge/pkg/sync"
)

// mappingsCmd represents the mappings command
var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Preview how activities and tags resolve, without submitting",
	Long: `Runs the full resolution pass over the selected time entries and shows
which FreshBooks client and service each query would map to. Nothing is
submitted. Useful for checking fuzzy matches before a real sync.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		days, _ := cmd.Flags().GetInt("days")
		out, _ := cmd.Flags().GetString("out")

		ctx := context.Background()

		records, _, err := loadRecords(ctx, file, days)
		if err != nil {
			return err
		}

		clients, services, err := fetchResolvers(ctx, freshbooksClient())
		if err != nil {
			return err
		}

		pipeline := tsync.NewPipeline(clients, services, nil, tsync.Options{DryRun: true})
		result := pipeline.Run(ctx, records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tQUERY\tMATCH\tTYPE\tSCORE")
		printRows := func(kind string, reports []tsync.MatchReport) {
			for _, r := range reports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n", kind, r.Query, r.MatchedName, r.Type, r.Score)
			}
		}
		printRows("client", result.ClientMatches)
		printRows("service", result.ServiceMatches)
		if err := w.Flush(); err != nil {
			return err
		}

		if out != "" {
			return tsync.WriteMappings(out, result)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
	mappingsCmd.Flags().StringP("file", "f", "", "Load time entries from a CSV export instead of the Timeular API")
	mappingsCmd.Flags().IntP("days", "d", 30, "How many days back to fetch from Timeular")
	mappingsCmd.Flags().StringP("out", "o", "", "Also write the report to this CSV file")
}
