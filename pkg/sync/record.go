// Package sync runs the batch submission pipeline: it resolves inbound
// time-tracking records against the client and service indexes, transforms
// them into the FreshBooks time-entry shape and submits them one at a time,
// collecting a per-run report.
package sync

// TimeRecord is one inbound time-tracking record. Duration, StartedAt and
// Billable keep the raw text they arrived with (API or CSV); the pipeline
// coerces them during transformation so a malformed field fails one record,
// not the ingest.
type TimeRecord struct {
	ID           string
	Activity     string // free-text customer query
	Note         string
	StartedAt    string // ISO-8601 date or instant
	Duration     string // decimal hours, or HH:MM:SS
	Billable     string // truthy tokens: yes/true/1/y
	Tags         []string
	ServiceQuery string // delimited tag text when Tags is empty
	ClientID     string // explicit identifier, skips customer resolution
	ProjectID    string
}
