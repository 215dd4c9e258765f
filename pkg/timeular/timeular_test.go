package timeular

import (
	"testing"
	"time"
)

func TestRoundHours(t *testing.T) {
	tests := []struct {
		hours    float64
		expected float64
	}{
		{0, 0.25},
		{0.1, 0.25},
		{0.24, 0.25},
		{0.25, 0.5},
		{0.49, 0.5},
		{0.5, 0.5},
		{0.6, 0.5},
		{0.75, 1.0},
		{1.1, 1.0},
		{1.4, 1.5},
		{2.0, 2.0},
		{2.7, 2.5},
	}

	for _, tc := range tests {
		if got := RoundHours(tc.hours); got != tc.expected {
			t.Fatalf("RoundHours(%v) = %v, expected %v", tc.hours, got, tc.expected)
		}
	}
}

const entriesBody = `{
	"timeEntries": [
		{
			"id": "e1",
			"activity": {"id": "a1", "name": "Acme"},
			"duration": {"startedAt": "2024-03-05T09:00:00.000", "stoppedAt": "2024-03-05T10:10:00.000"},
			"note": {"text": "sprint work", "tags": [{"label": "Development"}, {"label": "Review"}]}
		},
		{
			"id": "e2",
			"activity": {"id": "a2", "name": "Blue Harbor"},
			"duration": {"startedAt": "2024-03-05T14:00:00.000"},
			"note": {"text": "", "tags": []}
		}
	]
}`

func TestParseEntries(t *testing.T) {
	entries := parseEntries(entriesBody)
	if len(entries) != 2 {
		t.Fatalf("parsed %d entries", len(entries))
	}

	first := entries[0]
	if first.ID != "e1" || first.Activity != "Acme" || first.Note != "sprint work" {
		t.Fatalf("first entry = %+v", first)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "Development" {
		t.Fatalf("tags = %v", first.Tags)
	}
	expectedStart := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	if !first.StartedAt.Equal(expectedStart) {
		t.Fatalf("startedAt = %v", first.StartedAt)
	}
	if first.Ongoing() {
		t.Fatal("stopped entry reported as ongoing")
	}

	second := entries[1]
	if !second.Ongoing() {
		t.Fatal("running entry not reported as ongoing")
	}
	if second.Hours() != 0 {
		t.Fatalf("ongoing hours = %v", second.Hours())
	}
}

func TestBuildRecords(t *testing.T) {
	records := BuildRecords(parseEntries(entriesBody))
	if len(records) != 2 {
		t.Fatalf("built %d records", len(records))
	}

	first := records[0]
	if first.Activity != "Acme" || first.Note != "sprint work" {
		t.Fatalf("first record = %+v", first)
	}
	// 1h10m tracked, rounded to the nearest half hour
	if first.Duration != "1" {
		t.Fatalf("duration = %q", first.Duration)
	}
	if first.StartedAt != "2024-03-05T09:00:00Z" {
		t.Fatalf("startedAt = %q", first.StartedAt)
	}
	if first.Billable != "true" {
		t.Fatalf("billable = %q", first.Billable)
	}
	if len(first.Tags) != 2 {
		t.Fatalf("tags = %v", first.Tags)
	}

	// ongoing entry gets the 15-minute floor
	if records[1].Duration != "0.25" {
		t.Fatalf("ongoing duration = %q", records[1].Duration)
	}
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		{
			Activity:  "Acme",
			StartedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			StoppedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			Activity:  "Acme",
			StartedAt: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
			StoppedAt: time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC),
		},
		{
			Activity:  "Blue Harbor",
			StartedAt: time.Date(2024, 3, 6, 11, 0, 0, 0, time.UTC),
			StoppedAt: time.Date(2024, 3, 6, 11, 5, 0, 0, time.UTC),
		},
	}

	summary := Summarize(entries, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))

	if summary.Period.Start != "2024-03-01" || summary.Period.End != "2024-03-07" {
		t.Fatalf("period = %+v", summary.Period)
	}

	acme := summary.ActivityTotals["Acme"]
	if acme.TotalHours != 2.5 || acme.EntryCount != 2 {
		t.Fatalf("acme totals = %+v", acme)
	}
	harbor := summary.ActivityTotals["Blue Harbor"]
	if harbor.TotalHours != 0.25 || harbor.EntryCount != 1 {
		t.Fatalf("harbor totals = %+v", harbor)
	}

	if summary.DailyTotals["2024-03-05"] != 1.0 {
		t.Fatalf("march 5 total = %v", summary.DailyTotals["2024-03-05"])
	}
	if summary.DailyTotals["2024-03-06"] != 1.75 {
		t.Fatalf("march 6 total = %v", summary.DailyTotals["2024-03-06"])
	}
	if summary.GrandTotal != 2.75 {
		t.Fatalf("grand total = %v", summary.GrandTotal)
	}
}
