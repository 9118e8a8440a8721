// Package session coordinates searching the catalog and maintaining the
// user's layer selection.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/search"
	"github.com/poiesic/layerscout/selection"
)

// Catalog is the read side of a catalog store. *catalog.Store satisfies it.
type Catalog interface {
	Loaded() bool
	All() []core.CatalogRecord
	Lookup(name string) (core.CatalogRecord, bool)
	Names() []string
}

// State reports what a session is doing.
type State int

const (
	// StateIdle means no search is running.
	StateIdle State = iota
	// StateSearching means a search is being ranked.
	StateSearching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session holds one user's latest search results and layer selection.
// All methods are safe for concurrent use; calls are applied one at a time
// in the order they acquire the session.
type Session struct {
	mu            sync.Mutex
	catalog       Catalog
	ranker        *search.Ranker
	rankerOpts    []search.Option
	selection     *selection.Set
	results       []core.MatchResult
	lastQuery     string
	state         State
	browseOnEmpty bool
	presets       map[string]Preset
	logger        *slog.Logger
}

// Option configures a Session.
type Option func(*Session) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRankerOptions passes options to the ranker built over the catalog.
func WithRankerOptions(opts ...search.Option) Option {
	return func(s *Session) error {
		s.rankerOpts = append(s.rankerOpts, opts...)
		return nil
	}
}

// WithBrowseOnEmptyQuery makes an empty query list every layer by name
// instead of returning nothing. Default is off.
func WithBrowseOnEmptyQuery(enabled bool) Option {
	return func(s *Session) error {
		s.browseOnEmpty = enabled
		return nil
	}
}

// WithPresets registers named presets for ApplyPreset.
func WithPresets(presets ...Preset) Option {
	return func(s *Session) error {
		for _, p := range presets {
			if err := p.validate(); err != nil {
				return err
			}
			s.presets[p.Name] = p
		}
		return nil
	}
}

// New creates a session over catalog. The catalog may still be loading;
// operations that need it report core.ErrCatalogNotReady until it is.
func New(catalog Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}

	s := &Session{
		catalog:   catalog,
		selection: selection.New(),
		results:   []core.MatchResult{},
		presets:   make(map[string]Preset),
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	// Surface bad ranker options now rather than on first search.
	if _, err := search.NewRanker(search.NewIndex(nil), s.rankerOpts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Search ranks the catalog against query and stores the result as the
// session's current results. Before the catalog has loaded it returns an
// empty list with core.ErrCatalogNotReady and leaves the session untouched.
func (s *Session) Search(query string) ([]core.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranker, err := s.readyRanker()
	if err != nil {
		return []core.MatchResult{}, err
	}

	s.state = StateSearching
	defer func() { s.state = StateIdle }()

	tokens := search.Normalize(query)
	var results []core.MatchResult
	if tokens.Empty() && s.browseOnEmpty {
		results = ranker.Browse()
	} else {
		results = ranker.Rank(tokens)
	}

	s.results = results
	s.lastQuery = query
	s.logger.Debug("search", "query", tokens.String(), "results", len(results))
	return copyResults(results), nil
}

// Activate adds the named layer to the selection. The name is resolved
// against the latest results first and then the whole catalog. Unknown
// names and layers without an endpoint are ignored.
func (s *Session) Activate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Loaded() {
		return core.ErrCatalogNotReady
	}

	record, ok := s.resolve(name)
	if !ok {
		s.logger.Debug("activate: unknown layer", "name", name)
		return nil
	}
	s.selection.Add(record)
	return nil
}

// Deactivate removes the named layer from the selection. Unknown names are ignored.
func (s *Session) Deactivate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Loaded() {
		return core.ErrCatalogNotReady
	}
	s.selection.Remove(name)
	return nil
}

// Clear empties the selection. It works whether or not the catalog has loaded.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Clear()
}

// ActivateAll replaces the selection with the named layers, in order.
// Names that cannot be resolved or have no endpoint are skipped.
func (s *Session) ActivateAll(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Loaded() {
		return core.ErrCatalogNotReady
	}

	records := make([]core.CatalogRecord, 0, len(names))
	for _, name := range names {
		if record, ok := s.resolve(name); ok {
			records = append(records, record)
		}
	}
	s.selection.ReplaceAll(records)
	return nil
}

// CurrentSelection returns a snapshot of the selection in insertion order.
func (s *Session) CurrentSelection() []core.SelectionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selection.Entries()
}

// CurrentResults returns a snapshot of the latest search results.
func (s *Session) CurrentResults() []core.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyResults(s.results)
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// LastQuery returns the raw text of the latest completed search.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastQuery
}

// Suggest returns catalog names resembling query, for zero-hit searches.
func (s *Session) Suggest(query string, limit int) ([]string, error) {
	if !s.catalog.Loaded() {
		return []string{}, core.ErrCatalogNotReady
	}
	return search.Suggest(query, s.catalog.Names(), limit), nil
}

// readyRanker returns the ranker, building it on first use after the
// catalog has loaded. Caller must hold s.mu.
func (s *Session) readyRanker() (*search.Ranker, error) {
	if s.ranker != nil {
		return s.ranker, nil
	}
	if !s.catalog.Loaded() {
		return nil, core.ErrCatalogNotReady
	}

	ranker, err := search.NewRanker(search.NewIndex(s.catalog.All()), s.rankerOpts...)
	if err != nil {
		return nil, err
	}
	s.ranker = ranker
	return ranker, nil
}

// resolve finds a record by exact name. Caller must hold s.mu.
func (s *Session) resolve(name string) (core.CatalogRecord, bool) {
	if strings.TrimSpace(name) == "" {
		return core.CatalogRecord{}, false
	}
	for _, r := range s.results {
		if r.Record.Name == name {
			return r.Record, true
		}
	}
	return s.catalog.Lookup(name)
}

func copyResults(results []core.MatchResult) []core.MatchResult {
	out := make([]core.MatchResult, len(results))
	copy(out, results)
	return out
}
