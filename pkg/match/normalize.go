// Package match resolves free-text names and tags against a collection of
// FreshBooks entities (clients or billing services). Resolution is exact
// lookup first, then a weighted fuzzy scan over the whole index.
package match

import "strings"

// BaseStopWords never contribute to matching, regardless of entity kind.
var BaseStopWords = newStopSet("and", "the", "of", "in", "for", "to", "with", "by", "at", "from")

// ClientStopWords are legal-suffix noise stripped from client names.
var ClientStopWords = newStopSet("llc", "inc", "ltd", "corp", "corporation", "company", "co")

// ServiceStopWords are filler words stripped from billing-service labels.
var ServiceStopWords = newStopSet("service", "services", "consulting", "time", "hours", "work")

func newStopSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var tokenReplacer = strings.NewReplacer("-", " ", "/", " ")

// Tokenize turns a display string or query into its set of significant
// tokens: lower-cased, '-' and '/' treated as spaces, stop words and
// single-character tokens dropped. An empty result means the text cannot be
// scored, not that it trivially matches everything.
func Tokenize(text string, extraStop map[string]struct{}) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(tokenReplacer.Replace(strings.ToLower(text))) {
		if len(tok) <= 1 {
			continue
		}
		if _, ok := BaseStopWords[tok]; ok {
			continue
		}
		if extraStop != nil {
			if _, ok := extraStop[tok]; ok {
				continue
			}
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}

// NormalizeKey is the lossless normalization applied to byName lookup keys
// and to queries before the exact-match check.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
