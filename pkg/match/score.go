package match

import "strings"

// Sub-score weights. Containment is deliberately counted twice for clients:
// once inside the 10% bonus slot and once as the flat post-hoc boost. The
// service profile only gets the bonus-slot variant. Compatibility with the
// historical matcher is locked by tests; do not unify the two paths.
const (
	overlapWeight    = 0.6
	substringWeight  = 0.3
	bonusWeight      = 0.1
	bonusHit         = 0.8
	containmentBoost = 0.2
)

// Scorer computes a confidence score in [0,1] for a query against one
// candidate record, using the stop-word set of its entity kind.
type Scorer struct {
	kind Kind
	stop map[string]struct{}
}

func NewScorer(kind Kind) *Scorer {
	s := &Scorer{kind: kind}
	switch kind {
	case KindService:
		s.stop = ServiceStopWords
	default:
		s.stop = ClientStopWords
	}
	return s
}

// Score returns the confidence for query against rec. The second return is
// false when the pair cannot be compared at all (either side tokenizes to
// the empty set); such candidates must be skipped, not scored zero.
func (s *Scorer) Score(query string, rec *Record) (float64, bool) {
	return s.score(Tokenize(query, s.stop), NormalizeKey(query), rec)
}

func (s *Scorer) score(queryTokens map[string]struct{}, queryNorm string, rec *Record) (float64, bool) {
	if len(queryTokens) == 0 {
		return 0, false
	}

	text := strings.ToLower(rec.ComparisonText())
	candTokens := Tokenize(text, s.stop)
	if len(candTokens) == 0 {
		return 0, false
	}

	// Overlap coefficient: tolerant of very different set sizes.
	inter := 0
	for tok := range queryTokens {
		if _, ok := candTokens[tok]; ok {
			inter++
		}
	}
	minLen := len(queryTokens)
	if len(candTokens) < minLen {
		minLen = len(candTokens)
	}
	overlap := float64(inter) / float64(minLen)

	// Substring hits: 0.5 per query token found anywhere in the raw text.
	substring := 0.0
	for tok := range queryTokens {
		if strings.Contains(text, tok) {
			substring += 0.5
		}
	}
	substring /= float64(len(queryTokens))
	if substring > 1.0 {
		substring = 1.0
	}

	contained := queryNorm != "" && (strings.Contains(text, queryNorm) || strings.Contains(queryNorm, text))

	bonus := 0.0
	switch s.kind {
	case KindClient:
		// "JD" should reach John Doe, but only when the record really has
		// distinct first and last names.
		if initials := rec.initials(); initials != "" {
			for tok := range queryTokens {
				if len(tok) == 2 && tok == initials {
					bonus = bonusHit
				}
			}
		}
	case KindService:
		if contained {
			bonus = bonusHit
		}
	}

	score := overlap*overlapWeight + substring*substringWeight + bonus*bonusWeight

	if s.kind == KindClient && contained {
		score += containmentBoost
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, true
}

// initials returns the lower-cased first-name-initial + last-name-initial
// pair, or "" when the record lacks either name part.
func (r *Record) initials() string {
	first := []rune(strings.TrimSpace(r.FirstName))
	last := []rune(strings.TrimSpace(r.LastName))
	if len(first) == 0 || len(last) == 0 {
		return ""
	}
	return strings.ToLower(string(first[0]) + string(last[0]))
}
