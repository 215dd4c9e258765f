package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// servicesCmd represents the services command
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List FreshBooks services",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := freshbooksClient().FetchServices(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBILLABLE")
		for _, r := range records {
			billable := "unknown"
			if r.Billable != nil {
				billable = fmt.Sprintf("%t", *r.Billable)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, billable)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
