package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/search"
)

// Preset is a named list of queries whose best matches form a selection.
type Preset struct {
	Name     string   `yaml:"name" json:"name"`
	Queries  []string `yaml:"queries" json:"queries"`
	PerQuery int      `yaml:"per_query,omitempty" json:"perQuery,omitempty"`
}

func (p Preset) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidPreset)
	}
	if len(p.Queries) == 0 {
		return fmt.Errorf("%w: %s has no queries", ErrInvalidPreset, p.Name)
	}
	if p.PerQuery < 0 {
		return fmt.Errorf("%w: %s per_query is negative", ErrInvalidPreset, p.Name)
	}
	return nil
}

// Presets returns the names of the registered presets.
func (s *Session) Presets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the selection using the registered preset name.
func (s *Session) ApplyPreset(name string) ([]core.SelectionEntry, error) {
	s.mu.Lock()
	p, ok := s.presets[name]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return s.ApplyPresetDef(p)
}

// ApplyPresetDef ranks each query of p, takes the top PerQuery layers that
// have an endpoint (one when PerQuery is zero) and replaces the selection
// with them in query order. The latest search results are left alone.
func (s *Session) ApplyPresetDef(p Preset) ([]core.SelectionEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ranker, err := s.readyRanker()
	if err != nil {
		return nil, err
	}

	perQuery := p.PerQuery
	if perQuery == 0 {
		perQuery = 1
	}

	var picked []core.CatalogRecord
	for _, q := range p.Queries {
		taken := 0
		for _, r := range ranker.Rank(search.Normalize(q)) {
			if taken == perQuery {
				break
			}
			if !r.Record.HasEndpoint() {
				continue
			}
			picked = append(picked, r.Record)
			taken++
		}
	}

	entries := s.selection.ReplaceAll(picked)
	s.logger.Info("applied preset", "preset", p.Name, "layers", len(entries))
	return entries, nil
}
