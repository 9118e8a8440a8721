package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/layerscout/core"
)

// Coverage multipliers applied to a field's weight.
const (
	fullCoverage    = 1.0 // every query token occurs in the field
	partialCoverage = 0.5 // at least one, but not every, token occurs
)

// Weights sets how much each searchable field contributes to a score.
type Weights struct {
	Name   float64
	Agency float64
}

// DefaultWeights returns the standard field weights: name matches count
// twice as much as agency matches.
func DefaultWeights() Weights {
	return Weights{Name: 2, Agency: 1}
}

// Filter decides whether a record may appear in ranking output.
type Filter func(record core.CatalogRecord) bool

// StatusIs returns a Filter admitting only records with one of the statuses.
func StatusIs(statuses ...core.Status) Filter {
	allowed := make(map[core.Status]struct{}, len(statuses))
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}
	return func(record core.CatalogRecord) bool {
		_, ok := allowed[record.Status]
		return ok
	}
}

type indexEntry struct {
	record core.CatalogRecord
	name   string // folded for comparison
	agency string // folded for comparison
}

// Index holds a catalog with its searchable fields folded once up front.
type Index struct {
	entries []indexEntry
}

// NewIndex folds the searchable fields of every usable record.
// Records with a blank name cannot be identified and are left out.
func NewIndex(records []core.CatalogRecord) *Index {
	entries := make([]indexEntry, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		entries = append(entries, indexEntry{
			record: r,
			name:   foldText(r.Name),
			agency: foldText(r.Agency),
		})
	}
	return &Index{entries: entries}
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Ranker scores an indexed catalog against token sets.
type Ranker struct {
	index   *Index
	weights Weights
	filter  Filter
	limit   int
	logger  *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithWeights overrides the field weights.
// Weights must be non-negative and at least one must be positive.
func WithWeights(w Weights) Option {
	return func(r *Ranker) error {
		if w.Name < 0 || w.Agency < 0 || (w.Name == 0 && w.Agency == 0) {
			return ErrInvalidWeights
		}
		r.weights = w
		return nil
	}
}

// WithFilter restricts output to records the filter accepts.
// Default is no filtering.
func WithFilter(f Filter) Option {
	return func(r *Ranker) error {
		r.filter = f
		return nil
	}
}

// WithLimit caps the number of results. Zero means unlimited (the default).
func WithLimit(limit int) Option {
	return func(r *Ranker) error {
		if limit < 0 {
			return ErrInvalidLimit
		}
		r.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRanker creates a ranker over index.
func NewRanker(index *Index, opts ...Option) (*Ranker, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	r := &Ranker{
		index:   index,
		weights: DefaultWeights(),
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Rank scores every indexed record against tokens and returns the matches
// ordered by score descending, then name ascending.
// An empty token set yields an empty, non-nil result.
func Rank(tokens TokenSet, catalog []core.CatalogRecord) []core.MatchResult {
	r := &Ranker{
		index:   NewIndex(catalog),
		weights: DefaultWeights(),
		logger:  slog.Default(),
	}
	return r.Rank(tokens)
}

// Rank scores the catalog against tokens.
func (r *Ranker) Rank(tokens TokenSet) []core.MatchResult {
	return r.RankWithMonitor(tokens, nil)
}

// RankWithMonitor scores the catalog against tokens, reporting each step to monitor.
func (r *Ranker) RankWithMonitor(tokens TokenSet, monitor RankMonitor) []core.MatchResult {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if tokens.Empty() {
		return []core.MatchResult{}
	}

	monitor.Start(tokens, len(r.index.entries))

	results := make([]core.MatchResult, 0)
	for _, entry := range r.index.entries {
		if r.filter != nil && !r.filter(entry.record) {
			monitor.Filtered(entry.record)
			continue
		}

		result := r.score(entry, tokens.tokens)
		if result.Score <= 0 {
			continue
		}
		monitor.Scored(result)
		results = append(results, result)
	}

	sortResults(results)
	if r.limit > 0 && len(results) > r.limit {
		results = results[:r.limit]
	}
	monitor.Finish(results)

	r.logger.Debug("ranked catalog", "query", tokens.String(), "candidates", len(r.index.entries), "hits", len(results))
	return results
}

// Browse lists every record the filter admits, ordered by name, with a zero
// score and no matched fields. It backs the optional browse-all mode for
// empty queries and is never mixed with ranked output.
func (r *Ranker) Browse() []core.MatchResult {
	results := make([]core.MatchResult, 0, len(r.index.entries))
	for _, entry := range r.index.entries {
		if r.filter != nil && !r.filter(entry.record) {
			continue
		}
		results = append(results, core.MatchResult{Record: entry.record})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Record.Name < results[j].Record.Name
	})
	if r.limit > 0 && len(results) > r.limit {
		results = results[:r.limit]
	}
	return results
}

// score sums the weighted coverage of each searchable field.
func (r *Ranker) score(entry indexEntry, tokens []string) core.MatchResult {
	result := core.MatchResult{Record: entry.record}

	if s := fieldScore(entry.name, tokens, r.weights.Name); s > 0 {
		result.Score += s
		result.MatchedFields = result.MatchedFields.With(core.FieldName)
	}
	if s := fieldScore(entry.agency, tokens, r.weights.Agency); s > 0 {
		result.Score += s
		result.MatchedFields = result.MatchedFields.With(core.FieldAgency)
	}

	return result
}

// fieldScore returns weight for full token coverage, half of it for partial
// coverage and zero when no token occurs in value.
func fieldScore(value string, tokens []string, weight float64) float64 {
	matched := countContained(value, tokens)
	switch {
	case matched == 0:
		return 0
	case matched == len(tokens):
		return weight * fullCoverage
	default:
		return weight * partialCoverage
	}
}

// sortResults orders by score descending, breaking ties by name ascending.
func sortResults(results []core.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.Name < results[j].Record.Name
	})
}
