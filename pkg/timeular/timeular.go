package timeular

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"timebridge/internal/utils"
	tsync "timebridge/pkg/sync"
	"timebridge/pkg/whttp"
)

const (
	DefaultBaseURL = "https://api.timeular.com/api/v4"

	// fetchTimeLayout is the millisecond instant format the time-entries
	// endpoint takes in its URL path. No zone marker, times are UTC.
	fetchTimeLayout = "2006-01-02T15:04:05.000"
)

// Client talks to the Timeular v4 API. SignIn must succeed before any
// other call.
type Client struct {
	BaseURL   string
	APIKey    string
	APISecret string
	HTTP      *retryablehttp.Client

	token string
}

func New(apiKey, apiSecret string) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		HTTP:      whttp.GetDefaultClient(),
	}
}

// SignIn trades the developer key pair for a bearer token.
func (c *Client) SignIn(ctx context.Context) error {
	payload, _ := sjson.Set("{}", "apiKey", c.APIKey)
	payload, _ = sjson.Set(payload, "apiSecret", c.APISecret)

	res, err := whttp.Send(ctx, &whttp.Request{
		Method: "POST",
		URL:    c.BaseURL + "/developer/sign-in",
		Body:   payload,
	}, c.HTTP)
	if err != nil {
		return err
	}
	if res.StatusCode != 200 {
		return fmt.Errorf("sign-in failed with status %d", res.StatusCode)
	}

	token := gjson.Get(res.BodyString, "token")
	if !token.Exists() || token.String() == "" {
		return fmt.Errorf("sign-in response carried no token")
	}
	c.token = token.String()
	return nil
}

func (c *Client) authHeaders() []whttp.Header {
	return []whttp.Header{{Name: "Authorization", Value: "Bearer " + c.token}}
}

// Activity is one trackable Timeular activity.
type Activity struct {
	ID   string
	Name string
}

func (c *Client) Activities(ctx context.Context) ([]Activity, error) {
	res, err := whttp.Send(ctx, &whttp.Request{
		Method:  "GET",
		URL:     c.BaseURL + "/activities",
		Headers: c.authHeaders(),
	}, c.HTTP)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("activities fetch failed with status %d", res.StatusCode)
	}

	var activities []Activity
	for _, a := range gjson.Get(res.BodyString, "activities").Array() {
		activities = append(activities, Activity{
			ID:   a.Get("id").String(),
			Name: a.Get("name").String(),
		})
	}
	return activities, nil
}

// Entry is one tracked interval. StoppedAt is the zero time while tracking
// is still running.
type Entry struct {
	ID        string
	Activity  string
	StartedAt time.Time
	StoppedAt time.Time
	Note      string
	Tags      []string
}

// Ongoing reports whether the entry has no stop time yet.
func (e Entry) Ongoing() bool {
	return e.StoppedAt.IsZero()
}

// Hours is the raw tracked span in decimal hours, before rounding.
func (e Entry) Hours() float64 {
	if e.Ongoing() {
		return 0
	}
	return e.StoppedAt.Sub(e.StartedAt).Hours()
}

// TimeEntries fetches every entry whose interval touches [from, to].
func (c *Client) TimeEntries(ctx context.Context, from, to time.Time) ([]Entry, error) {
	url := fmt.Sprintf("%s/time-entries/%s/%s",
		c.BaseURL,
		from.UTC().Format(fetchTimeLayout),
		to.UTC().Format(fetchTimeLayout))

	res, err := whttp.Send(ctx, &whttp.Request{Method: "GET", URL: url, Headers: c.authHeaders()}, c.HTTP)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("time entries fetch failed with status %d", res.StatusCode)
	}

	entries := parseEntries(res.BodyString)
	utils.Log.Debugf("fetched %d time entries", len(entries))
	return entries, nil
}

func parseEntries(body string) []Entry {
	var entries []Entry
	for _, raw := range gjson.Get(body, "timeEntries").Array() {
		entry := Entry{
			ID:       raw.Get("id").String(),
			Activity: raw.Get("activity.name").String(),
			Note:     raw.Get("note.text").String(),
		}
		entry.StartedAt = parseInstant(raw.Get("duration.startedAt").String())
		entry.StoppedAt = parseInstant(raw.Get("duration.stoppedAt").String())
		for _, tag := range raw.Get("note.tags").Array() {
			if label := tag.Get("label").String(); label != "" {
				entry.Tags = append(entry.Tags, label)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseInstant(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{fetchTimeLayout, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// RoundHours rounds a tracked span up to billing increments: anything under
// 15 minutes becomes a quarter hour, under 30 becomes a half, everything
// else is rounded to the nearest half hour.
func RoundHours(hours float64) float64 {
	switch {
	case hours < 0.25:
		return 0.25
	case hours < 0.5:
		return 0.5
	default:
		return math.Round(hours*2) / 2
	}
}

// BuildRecords converts fetched entries into pipeline input. Durations are
// rounded, timestamps rendered in UTC, and entries default to billable.
func BuildRecords(entries []Entry) []tsync.TimeRecord {
	var records []tsync.TimeRecord
	for _, e := range entries {
		rec := tsync.TimeRecord{
			ID:       e.ID,
			Activity: e.Activity,
			Note:     e.Note,
			Tags:     e.Tags,
			Duration: strconv.FormatFloat(RoundHours(e.Hours()), 'f', -1, 64),
			Billable: "true",
		}
		if !e.StartedAt.IsZero() {
			rec.StartedAt = e.StartedAt.UTC().Format(time.RFC3339)
		}
		records = append(records, rec)
	}
	return records
}
