package timeular

import "time"

// ActivityTotal aggregates one activity's share of a reporting period.
type ActivityTotal struct {
	TotalHours float64 `json:"total_hours"`
	EntryCount int     `json:"entry_count"`
}

// Summary is a per-activity and per-day rollup of a set of entries, with
// rounded durations so the totals line up with what gets submitted.
type Summary struct {
	Period struct {
		Start string `json:"start_date"`
		End   string `json:"end_date"`
	} `json:"period"`
	ActivityTotals map[string]ActivityTotal `json:"activity_totals"`
	DailyTotals    map[string]float64       `json:"daily_totals"`
	GrandTotal     float64                  `json:"grand_total"`
}

// Summarize rolls up entries over [from, to].
func Summarize(entries []Entry, from, to time.Time) Summary {
	summary := Summary{
		ActivityTotals: make(map[string]ActivityTotal),
		DailyTotals:    make(map[string]float64),
	}
	summary.Period.Start = from.UTC().Format("2006-01-02")
	summary.Period.End = to.UTC().Format("2006-01-02")

	for _, e := range entries {
		hours := RoundHours(e.Hours())

		total := summary.ActivityTotals[e.Activity]
		total.TotalHours += hours
		total.EntryCount++
		summary.ActivityTotals[e.Activity] = total

		day := "no date"
		if !e.StartedAt.IsZero() {
			day = e.StartedAt.UTC().Format("2006-01-02")
		}
		summary.DailyTotals[day] += hours
		summary.GrandTotal += hours
	}
	return summary
}
