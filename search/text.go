package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TokenSet is the normalized, de-duplicated set of terms in a query.
// Tokens keep the order of their first appearance.
type TokenSet struct {
	tokens []string
}

// Normalize turns a raw query into a TokenSet: NFKC-normalize, lowercase,
// trim, collapse whitespace and split. Empty or whitespace-only input yields
// an empty set. No stemming or stop-word removal is applied, and punctuation
// stays part of the token.
func Normalize(query string) TokenSet {
	fields := strings.Fields(foldText(query))
	if len(fields) == 0 {
		return TokenSet{}
	}

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return TokenSet{tokens: tokens}
}

// NewTokenSet builds a TokenSet from already-split terms, normalizing each.
func NewTokenSet(terms ...string) TokenSet {
	return Normalize(strings.Join(terms, " "))
}

// Len returns the number of distinct tokens.
func (ts TokenSet) Len() int {
	return len(ts.tokens)
}

// Empty reports whether the set has no tokens.
func (ts TokenSet) Empty() bool {
	return len(ts.tokens) == 0
}

// Tokens returns a copy of the tokens.
func (ts TokenSet) Tokens() []string {
	out := make([]string, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}

// String returns the tokens joined by single spaces.
func (ts TokenSet) String() string {
	return strings.Join(ts.tokens, " ")
}

// foldText applies the comparison normalization shared by queries and field
// values. Stored records are never modified; only their folded copies are.
func foldText(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// countContained returns how many tokens occur as substrings of value.
func countContained(value string, tokens []string) int {
	if value == "" {
		return 0
	}
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(value, tok) {
			matched++
		}
	}
	return matched
}
