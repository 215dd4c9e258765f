// Package loader reads time records from exported CSV files. Spreadsheets
// are exported to CSV first; only .csv input is supported.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"timebridge/internal/utils"
	tsync "timebridge/pkg/sync"
)

// Column synonyms, checked in order. Header matching is case-insensitive.
var (
	idColumns        = []string{"timeentryid", "id"}
	activityColumns  = []string{"activity", "activityname"}
	tagColumns       = []string{"tags", "tag", "servicetag", "service_tag", "service"}
	startedAtColumns = []string{"startdate", "started_at", "start"}
	durationColumns  = []string{"duration"}
	billableColumns  = []string{"billable"}
	noteColumns      = []string{"note"}
	projectColumns   = []string{"folderid"}
	clientColumns    = []string{"clientid", "client_id"}
)

// LoadCSV reads one exported file into pipeline input records. Unknown
// columns are ignored; rows keep their raw field values, validation happens
// at transform time.
func LoadCSV(path string) ([]tsync.TimeRecord, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		return nil, fmt.Errorf("unsupported file format %q, export to .csv first", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file %q", path)
	}

	columns := indexColumns(rows[0])
	if _, ok := pick(columns, activityColumns); !ok {
		if _, ok := pick(columns, clientColumns); !ok {
			return nil, fmt.Errorf("no activity or client column in %q", path)
		}
	}

	var records []tsync.TimeRecord
	for _, row := range rows[1:] {
		field := func(names []string) string {
			idx, ok := pick(columns, names)
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rec := tsync.TimeRecord{
			ID:           field(idColumns),
			Activity:     field(activityColumns),
			Note:         field(noteColumns),
			StartedAt:    field(startedAtColumns),
			Duration:     field(durationColumns),
			Billable:     field(billableColumns),
			ServiceQuery: field(tagColumns),
			ProjectID:    field(projectColumns),
			ClientID:     field(clientColumns),
		}
		records = append(records, rec)
	}

	utils.Log.Infof("loaded %d records from %s", len(records), path)
	return records, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, taken := columns[name]; !taken {
			columns[name] = i
		}
	}
	return columns
}

// pick returns the index of the first synonym present in the header.
func pick(columns map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := columns[name]; ok {
			return idx, true
		}
	}
	return 0, false
}
