package search

import (
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit names that fuzzily match query, best first.
// The query is folded the same way as for ranking. Zero limit means no cap.
func Suggest(query string, names []string, limit int) []string {
	pattern := Normalize(query).String()
	if pattern == "" || len(names) == 0 {
		return []string{}
	}

	matches := fuzzy.FindFrom(pattern, nameSource{names: names})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = names[m.Index]
	}
	return out
}

// nameSource implements fuzzy.Source over folded names so matching is
// case-insensitive while results map back to the original spelling.
type nameSource struct {
	names []string
}

func (s nameSource) String(i int) string { return foldText(s.names[i]) }
func (s nameSource) Len() int            { return len(s.names) }
