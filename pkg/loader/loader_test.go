package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `TimeEntryID,StartDate,Duration,Billable,Activity,FolderId,service,Note
1,2024-03-05,2.5,yes,Acme Corp,900,Development,sprint work
2,2024-03-06,01:30:00,no,Blue Harbor,,"design, review",
`)

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("loaded %d records", len(records))
	}

	first := records[0]
	if first.ID != "1" || first.Activity != "Acme Corp" || first.Note != "sprint work" {
		t.Fatalf("first record = %+v", first)
	}
	if first.StartedAt != "2024-03-05" || first.Duration != "2.5" || first.Billable != "yes" {
		t.Fatalf("first record raw fields = %+v", first)
	}
	if first.ServiceQuery != "Development" || first.ProjectID != "900" {
		t.Fatalf("first record mappings = %+v", first)
	}

	second := records[1]
	if second.ServiceQuery != "design, review" || second.ProjectID != "" {
		t.Fatalf("second record = %+v", second)
	}
}

func TestLoadCSVHeaderSynonyms(t *testing.T) {
	path := writeCSV(t, `ACTIVITYNAME,Started_At,DURATION,client_id
Acme,2024-03-05,1,77
`)

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := records[0]
	if rec.Activity != "Acme" || rec.StartedAt != "2024-03-05" || rec.ClientID != "77" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestLoadCSVTagPriority(t *testing.T) {
	// "tags" outranks "service" when both are present
	path := writeCSV(t, `activity,tags,service,duration,startdate
Acme,Development,Ignored,1,2024-03-05
`)

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].ServiceQuery != "Development" {
		t.Fatalf("service query = %q", records[0].ServiceQuery)
	}
}

func TestLoadCSVRejections(t *testing.T) {
	if _, err := LoadCSV("entries.xlsx"); err == nil {
		t.Fatal("spreadsheet path accepted")
	}

	noActivity := writeCSV(t, `duration,startdate
1,2024-03-05
`)
	if _, err := LoadCSV(noActivity); err == nil {
		t.Fatal("file without activity or client column accepted")
	}

	empty := writeCSV(t, "")
	if _, err := LoadCSV(empty); err == nil {
		t.Fatal("empty file accepted")
	}
}
