package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// clientsCmd represents the clients command
var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List FreshBooks clients",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := freshbooksClient().FetchClients(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tORGANIZATION")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.FullName(), r.Organization)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(clientsCmd)
}
