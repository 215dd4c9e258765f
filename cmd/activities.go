package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// activitiesCmd represents the activities command
var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List Timeular activities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		tm := timeularClient()
		if err := tm.SignIn(ctx); err != nil {
			return err
		}
		activities, err := tm.Activities(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, a := range activities {
			fmt.Fprintf(w, "%s\t%s\n", a.ID, a.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(activitiesCmd)
}
