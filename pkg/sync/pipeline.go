package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"timebridge/internal/utils"
	"timebridge/pkg/match"
)

// Submitter sends one transformed time-entry payload to the accounting
// provider. Payload and response are JSON documents.
type Submitter interface {
	Submit(ctx context.Context, payload string) (string, error)
}

// Options tunes one pipeline run.
type Options struct {
	// DryRun skips network submission and fabricates an echo response.
	DryRun bool
	// IdentityID is the FreshBooks user the entries are logged for.
	IdentityID string
}

// Pipeline resolves, transforms and submits a batch of time records,
// strictly one at a time in input order.
type Pipeline struct {
	clients   *match.Resolver
	services  *match.Resolver
	submitter Submitter
	opts      Options
}

func NewPipeline(clients, services *match.Resolver, submitter Submitter, opts Options) *Pipeline {
	return &Pipeline{
		clients:   clients,
		services:  services,
		submitter: submitter,
		opts:      opts,
	}
}

// Outcome is the fate of one record: its provider response on success, the
// failure reason otherwise, plus the resolution metadata either way.
type Outcome struct {
	Record       TimeRecord
	Response     string
	Err          string
	ClientQuery  string
	ClientMatch  *match.Result
	ServiceQuery string
	ServiceMatch *match.Result
}

// MatchReport is one row of the fuzzy-match audit report.
type MatchReport struct {
	Query       string
	MatchedID   string
	MatchedName string
	Type        match.MatchType
	Score       float64
}

type Stats struct {
	Total   int
	Success int
	Failure int
}

// BatchResult aggregates one full pipeline run. Match reports are
// deduplicated by query text (best score kept) and sorted by descending
// score.
type BatchResult struct {
	Successful     []Outcome
	Failed         []Outcome
	Stats          Stats
	ClientMatches  []MatchReport
	ServiceMatches []MatchReport
}

// Run processes every record. Per-record transform or submission failures
// mark that record failed and the batch continues; Run itself never fails.
func (p *Pipeline) Run(ctx context.Context, records []TimeRecord) BatchResult {
	var result BatchResult
	var clientReports, serviceReports []MatchReport

	for _, rec := range records {
		out := p.process(ctx, rec)

		if report, ok := reportFrom(out.ClientQuery, out.ClientMatch); ok {
			clientReports = append(clientReports, report)
		}
		if report, ok := reportFrom(out.ServiceQuery, out.ServiceMatch); ok {
			serviceReports = append(serviceReports, report)
		}

		if out.Err == "" {
			result.Successful = append(result.Successful, out)
		} else {
			utils.Log.Warnf("record %q failed: %s", rec.Activity, out.Err)
			result.Failed = append(result.Failed, out)
		}
	}

	result.Stats = Stats{
		Total:   len(records),
		Success: len(result.Successful),
		Failure: len(result.Failed),
	}
	result.ClientMatches = dedupeReports(clientReports)
	result.ServiceMatches = dedupeReports(serviceReports)
	return result
}

func (p *Pipeline) process(ctx context.Context, rec TimeRecord) Outcome {
	out := Outcome{Record: rec}

	clientID := rec.ClientID
	if clientID == "" && strings.TrimSpace(rec.Activity) != "" && p.clients != nil {
		res := p.clients.Resolve(rec.Activity)
		out.ClientQuery = rec.Activity
		out.ClientMatch = &res
		if res.Entity != nil {
			clientID = res.Entity.ID
		}
	}

	var serviceID string
	if p.services != nil {
		query, res := p.resolveService(rec)
		if res != nil {
			out.ServiceQuery = query
			out.ServiceMatch = res
			if res.Entity != nil {
				serviceID = res.Entity.ID
			}
		}
	}

	payload, err := p.buildPayload(rec, clientID, serviceID)
	if err != nil {
		out.Err = fmt.Sprintf("transform: %v", err)
		return out
	}

	if p.opts.DryRun {
		out.Response, _ = sjson.Set(payload, "time_entry.id", "dry-run")
		return out
	}

	response, err := p.submitter.Submit(ctx, payload)
	if err != nil {
		out.Err = fmt.Sprintf("submit: %v", err)
		return out
	}
	out.Response = response
	return out
}

// resolveService picks the service reference for one record: each candidate
// tag is tried in order and the first one yielding any match wins. Delimited
// tag text is split on the first delimiter found, comma before semicolon.
func (p *Pipeline) resolveService(rec TimeRecord) (string, *match.Result) {
	tags := rec.Tags
	if len(tags) == 0 {
		query := strings.TrimSpace(rec.ServiceQuery)
		if query == "" {
			return "", nil
		}
		tags = splitTags(query)
	}

	first := ""
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if first == "" {
			first = tag
		}
		res := p.services.Resolve(tag)
		if res.Type != match.MatchNone {
			return tag, &res
		}
	}
	if first == "" {
		return "", nil
	}
	return first, &match.Result{Type: match.MatchNone}
}

func splitTags(s string) []string {
	if strings.Contains(s, ",") {
		return strings.Split(s, ",")
	}
	if strings.Contains(s, ";") {
		return strings.Split(s, ";")
	}
	return []string{s}
}

// buildPayload assembles the FreshBooks time_entry document for one record.
func (p *Pipeline) buildPayload(rec TimeRecord, clientID, serviceID string) (string, error) {
	seconds, err := ParseDurationSeconds(rec.Duration)
	if err != nil {
		return "", err
	}
	startedAt, err := NormalizeStartedAt(rec.StartedAt)
	if err != nil {
		return "", err
	}

	payload := `{"time_entry":{"is_logged":true}}`
	payload, _ = sjson.Set(payload, "time_entry.duration", seconds)
	payload, _ = sjson.Set(payload, "time_entry.started_at", startedAt)
	payload, _ = sjson.Set(payload, "time_entry.note", rec.Note)
	payload, _ = sjson.Set(payload, "time_entry.billable", ParseBillable(rec.Billable))

	if clientID != "" {
		payload, _ = sjson.Set(payload, "time_entry.client_id", clientID)
	}
	if rec.ProjectID != "" {
		payload, _ = sjson.Set(payload, "time_entry.project_id", rec.ProjectID)
	}
	if serviceID != "" {
		payload, _ = sjson.Set(payload, "time_entry.service_id", serviceID)
	}
	if p.opts.IdentityID != "" {
		payload, _ = sjson.Set(payload, "time_entry.identity_id", p.opts.IdentityID)
	}
	return payload, nil
}

func reportFrom(query string, res *match.Result) (MatchReport, bool) {
	if query == "" || res == nil {
		return MatchReport{}, false
	}
	report := MatchReport{
		Query: query,
		Type:  res.Type,
		Score: res.Score,
	}
	if res.Entity != nil {
		report.MatchedID = res.Entity.ID
		report.MatchedName = res.Entity.DisplayName()
	}
	return report, true
}

// dedupeReports collapses repeated queries, keeping the highest-scoring row,
// then orders by descending score.
func dedupeReports(reports []MatchReport) []MatchReport {
	if len(reports) == 0 {
		return nil
	}

	best := make(map[string]MatchReport, len(reports))
	var order []string
	for _, report := range reports {
		prev, seen := best[report.Query]
		if !seen {
			order = append(order, report.Query)
			best[report.Query] = report
			continue
		}
		if report.Score > prev.Score {
			best[report.Query] = report
		}
	}

	out := make([]MatchReport, 0, len(order))
	for _, q := range order {
		out = append(out, best[q])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
