package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"timebridge/pkg/timeular"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize tracked time per activity and per day",
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")
		out, _ := cmd.Flags().GetString("out")

		ctx := context.Background()
		tm := timeularClient()
		if err := tm.SignIn(ctx); err != nil {
			return err
		}

		to := time.Now().UTC()
		from := to.AddDate(0, 0, -days)
		entries, err := tm.TimeEntries(ctx, from, to)
		if err != nil {
			return err
		}

		summary := timeular.Summarize(entries, from, to)
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}

		if out != "" {
			return os.WriteFile(out, data, 0644)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntP("days", "d", 7, "How many days back to summarize")
	reportCmd.Flags().StringP("out", "o", "", "Write the JSON summary to this file instead of stdout")
}
