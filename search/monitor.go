package search

import (
	"github.com/poiesic/layerscout/core"
)

// RankMonitor provides hooks to observe a ranking pass.
// Implement this interface to trace scoring decisions, e.g. for an explain view.
type RankMonitor interface {
	Start(tokens TokenSet, candidates int)
	Filtered(record core.CatalogRecord)
	Scored(result core.MatchResult)
	Finish(results []core.MatchResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ TokenSet, _ int)       {}
func (n *noopMonitor) Filtered(_ core.CatalogRecord) {}
func (n *noopMonitor) Scored(_ core.MatchResult)     {}
func (n *noopMonitor) Finish(_ []core.MatchResult)   {}
