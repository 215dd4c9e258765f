package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"timebridge/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded sync runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("db")
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetInt64("run")

		if dbPath == "" {
			dbPath = "timebridge.sqlite"
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		if runID > 0 {
			decisions, err := db.Decisions(ctx, runID)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "KIND\tQUERY\tMATCH\tTYPE\tSCORE")
			for _, d := range decisions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n", d.Kind, d.Query, d.MatchedName, d.MatchType, d.Score)
			}
			return w.Flush()
		}

		runs, err := db.RecentRuns(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tSTARTED\tSOURCE\tDRY\tTOTAL\tOK\tFAILED")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%d\t%d\t%d\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Source, r.DryRun, r.Total, r.Success, r.Failure)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("db", "", "Path to SQLite ledger file (default: timebridge.sqlite in CWD)")
	historyCmd.Flags().Int("limit", 20, "Number of recent runs to show")
	historyCmd.Flags().Int64("run", 0, "Show the match decisions of one run instead")
}
