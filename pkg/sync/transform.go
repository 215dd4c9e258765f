package sync

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// submitTimeLayout is the instant format FreshBooks expects for started_at.
const submitTimeLayout = "2006-01-02T15:04:05.000Z"

// ParseDurationSeconds converts a raw duration field to whole seconds.
// "HH:MM:SS" is parsed component-wise; anything else is read as a decimal
// hour count.
func ParseDurationSeconds(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return 0, fmt.Errorf("malformed duration %q", raw)
		}
		var secs int
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 {
				return 0, fmt.Errorf("malformed duration %q", raw)
			}
			secs = secs*60 + n
		}
		return secs, nil
	}

	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration %q", raw)
	}
	if hours < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return int(math.Round(hours * 3600)), nil
}

var startedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeStartedAt converts a raw start field to a single UTC instant in
// the submission format. A bare date becomes midnight UTC; a timestamp
// without a zone marker is taken as UTC.
func NormalizeStartedAt(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty start timestamp")
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC().Format(submitTimeLayout), nil
	}
	for _, layout := range startedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(submitTimeLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized start timestamp %q", raw)
}

// ParseBillable reports whether a raw billable field is one of the accepted
// truthy tokens. Everything else, including the empty string, is false.
func ParseBillable(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
