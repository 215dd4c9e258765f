package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"timebridge/internal/utils"
	"timebridge/pkg/freshbooks"
	"timebridge/pkg/loader"
	"timebridge/pkg/match"
	"timebridge/pkg/storage"
	tsync "timebridge/pkg/sync"
	"timebridge/pkg/timeular"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Match and submit tracked time to FreshBooks",
	Long: `Pulls time entries from Timeular (or loads them from a CSV export),
resolves each activity name to a FreshBooks client and each tag to a
service, and submits the entries as logged time. Records that fail to
transform or submit are reported at the end; they never abort the batch.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		days, _ := cmd.Flags().GetInt("days")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		mappingsPath, _ := cmd.Flags().GetString("mappings")
		dbPath, _ := cmd.Flags().GetString("db")
		identityID, _ := cmd.Flags().GetString("identity")

		ctx := context.Background()

		records, source, err := loadRecords(ctx, file, days)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}

		fb := freshbooksClient()
		clients, services, err := fetchResolvers(ctx, fb)
		if err != nil {
			return err
		}

		if identityID == "" && !dryRun {
			identityID, err = fb.Identity(ctx)
			if err != nil {
				utils.Log.Warn("could not resolve identity id: ", err)
			}
		}

		var submitter tsync.Submitter
		if !dryRun {
			submitter = fb
		}
		pipeline := tsync.NewPipeline(clients, services, submitter, tsync.Options{
			DryRun:     dryRun,
			IdentityID: identityID,
		})

		result := pipeline.Run(ctx, records)

		fmt.Printf("\nSummary: %d entries created, %d failed\n", result.Stats.Success, result.Stats.Failure)
		if len(result.Failed) > 0 {
			fmt.Println("\nFailed entries:")
			for _, out := range result.Failed {
				fmt.Printf("- %s (%s hours): %s\n", out.Record.Activity, out.Record.Duration, out.Err)
			}
		}

		if mappingsPath != "" {
			if err := tsync.WriteMappings(mappingsPath, result); err != nil {
				return err
			}
		}
		if dbPath != "" {
			db, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			runID, err := db.RecordRun(ctx, source, dryRun, result)
			if err != nil {
				return err
			}
			utils.Log.Infof("recorded run %d in %s", runID, dbPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringP("file", "f", "", "Load time entries from a CSV export instead of the Timeular API")
	syncCmd.Flags().IntP("days", "d", 30, "How many days back to fetch from Timeular")
	syncCmd.Flags().BoolP("dry-run", "n", false, "Resolve and transform everything but submit nothing")
	syncCmd.Flags().StringP("mappings", "m", "", "Write the match audit report to this CSV file")
	syncCmd.Flags().String("db", "", "Record the run in this SQLite ledger")
	syncCmd.Flags().String("identity", "", "FreshBooks identity id to log entries for (default: looked up)")
}

func freshbooksClient() *freshbooks.Client {
	return freshbooks.New(
		viper.GetString("freshbooks.token"),
		viper.GetString("freshbooks.business_id"),
	)
}

func timeularClient() *timeular.Client {
	return timeular.New(
		viper.GetString("timeular.api_key"),
		viper.GetString("timeular.api_secret"),
	)
}

// loadRecords picks the input source: a CSV export when file is set, the
// Timeular API otherwise.
func loadRecords(ctx context.Context, file string, days int) ([]tsync.TimeRecord, string, error) {
	if file != "" {
		records, err := loader.LoadCSV(file)
		return records, file, err
	}

	tm := timeularClient()
	if err := tm.SignIn(ctx); err != nil {
		return nil, "", err
	}
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	entries, err := tm.TimeEntries(ctx, from, to)
	if err != nil {
		return nil, "", err
	}
	utils.Log.Infof("retrieved %d time entries from Timeular", len(entries))
	return timeular.BuildRecords(entries), "timeular", nil
}

// fetchResolvers materializes both FreshBooks catalogs up front so a dead
// token or network fault surfaces before any entry is processed.
func fetchResolvers(ctx context.Context, fb *freshbooks.Client) (*match.Resolver, *match.Resolver, error) {
	clientRecords, err := fb.FetchClients(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching clients: %w", err)
	}
	serviceRecords, err := fb.FetchServices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching services: %w", err)
	}

	clients := match.NewResolver(match.BuildIndex(match.KindClient, clientRecords))
	services := match.NewResolver(match.BuildIndex(match.KindService, serviceRecords))
	return clients, services, nil
}
