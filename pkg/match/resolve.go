package match

import "timebridge/internal/utils"

// MatchType classifies how a query was resolved.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// Result is the outcome of resolving one query. A miss is a normal value,
// never an error.
type Result struct {
	Entity *Record
	Type   MatchType
	Score  float64
}

// Default confidence thresholds below which a fuzzy best-candidate is
// reported as a miss.
const (
	ClientThreshold  = 0.4
	ServiceThreshold = 0.35
)

// Resolver answers name queries against one entity index: exact key lookup
// first, full fuzzy scan as the fallback.
type Resolver struct {
	index     *Index
	scorer    *Scorer
	threshold float64
}

func NewResolver(index *Index) *Resolver {
	threshold := ClientThreshold
	if index.Kind() == KindService {
		threshold = ServiceThreshold
	}
	return &Resolver{
		index:     index,
		scorer:    NewScorer(index.Kind()),
		threshold: threshold,
	}
}

// Threshold reports the minimum fuzzy score this resolver accepts.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve maps a free-text query to the best matching record. Ties keep the
// first candidate encountered in index insertion order.
func (r *Resolver) Resolve(query string) Result {
	key := NormalizeKey(query)
	if rec := r.index.ByName(key); rec != nil {
		return Result{Entity: rec, Type: MatchExact, Score: 1.0}
	}

	queryTokens := Tokenize(query, r.scorer.stop)

	var best *Record
	bestScore := 0.0
	for _, k := range r.index.keys {
		rec := r.index.byName[k]
		score, comparable := r.scorer.score(queryTokens, key, rec)
		if !comparable {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = rec
		}
	}

	if best != nil && bestScore >= r.threshold {
		utils.Log.Debugf("fuzzy %s match for %q: %q (%.2f)", r.index.Kind(), query, best.DisplayName(), bestScore)
		return Result{Entity: best, Type: MatchFuzzy, Score: bestScore}
	}

	utils.Log.Debugf("no %s match for %q", r.index.Kind(), query)
	return Result{Type: MatchNone}
}
