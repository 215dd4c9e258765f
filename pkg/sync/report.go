package sync

import (
	"encoding/csv"
	"fmt"
	"os"

	"timebridge/internal/utils"
)

// WriteMappings exports the deduplicated resolution audit for both entity
// kinds as a CSV table, one row per distinct query.
func WriteMappings(path string, result BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"kind", "query", "matched_name", "matched_id", "match_type", "score"}); err != nil {
		return err
	}

	writeRows := func(kind string, reports []MatchReport) error {
		for _, r := range reports {
			row := []string{kind, r.Query, r.MatchedName, r.MatchedID, string(r.Type), fmt.Sprintf("%.2f", r.Score)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRows("client", result.ClientMatches); err != nil {
		return err
	}
	if err := writeRows("service", result.ServiceMatches); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	utils.Log.Infof("wrote %d mapping rows to %s", len(result.ClientMatches)+len(result.ServiceMatches), path)
	return nil
}
