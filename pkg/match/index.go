package match

import (
	"strings"

	"timebridge/internal/utils"
)

// Kind selects which entity collection an index or scorer works on.
type Kind string

const (
	KindClient  Kind = "client"
	KindService Kind = "service"
)

// Record is one entity fetched from the accounting provider. Clients carry
// first/last name and organization; services carry Name. Raw holds the
// original provider JSON for callers that need fields we don't model.
type Record struct {
	ID           string
	FirstName    string
	LastName     string
	Organization string
	Name         string
	Billable     *bool
	Raw          string
}

// FullName is "FirstName LastName" with empty parts collapsed.
func (r *Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// DisplayName is the single best human-readable label for reports.
func (r *Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if full := r.FullName(); full != "" {
		if r.Organization != "" {
			return full + " - " + r.Organization
		}
		return full
	}
	return r.Organization
}

// ComparisonText is the raw text fuzzy candidates are substring-matched
// against: every display field joined with spaces.
func (r *Record) ComparisonText() string {
	parts := make([]string, 0, 3)
	if full := r.FullName(); full != "" {
		parts = append(parts, full)
	}
	if r.Organization != "" {
		parts = append(parts, r.Organization)
	}
	if r.Name != "" {
		parts = append(parts, r.Name)
	}
	return strings.Join(parts, " ")
}

// lookupNames returns the strings that become byName keys for this record.
// Clients get full name, organization and the combined "full - org" form;
// services get their label.
func (r *Record) lookupNames(kind Kind) []string {
	if kind == KindService {
		if r.Name == "" {
			return nil
		}
		return []string{r.Name}
	}

	var names []string
	full := r.FullName()
	if full != "" {
		names = append(names, full)
	}
	if r.Organization != "" {
		names = append(names, r.Organization)
	}
	if full != "" && r.Organization != "" {
		names = append(names, full+" - "+r.Organization)
	}
	return names
}

// Index is a read-only dual lookup over one entity collection. byName keys
// keep insertion order so fuzzy scans are reproducible; colliding keys are
// last-write-wins, silently shadowing the earlier record.
type Index struct {
	kind   Kind
	byID   map[string]*Record
	byName map[string]*Record
	keys   []string
}

// BuildIndex materializes the lookup structure for a fetched collection.
// Records without any display string stay reachable by ID only.
func BuildIndex(kind Kind, records []Record) *Index {
	idx := &Index{
		kind:   kind,
		byID:   make(map[string]*Record, len(records)),
		byName: make(map[string]*Record, len(records)),
	}

	for i := range records {
		rec := &records[i]
		if rec.ID != "" {
			idx.byID[rec.ID] = rec
		}
		for _, name := range rec.lookupNames(kind) {
			key := NormalizeKey(name)
			if key == "" {
				continue
			}
			if prev, exists := idx.byName[key]; exists {
				if prev != rec {
					utils.Log.Debugf("%s index: key %q now points at %s, shadowing %s", kind, key, rec.ID, prev.ID)
				}
			} else {
				idx.keys = append(idx.keys, key)
			}
			idx.byName[key] = rec
		}
	}

	return idx
}

func (x *Index) Kind() Kind { return x.kind }

// ByID looks a record up by its provider identifier.
func (x *Index) ByID(id string) *Record { return x.byID[id] }

// ByName looks a record up by an already-normalized display key.
func (x *Index) ByName(key string) *Record { return x.byName[key] }

// Len reports the number of distinct records reachable by ID.
func (x *Index) Len() int { return len(x.byID) }
