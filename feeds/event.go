// Package feeds fetches live hazard events (storms, wildfires) from public
// feeds and turns them into search presets. Fetching fails closed: a feed
// that errors contributes no events and is never retried.
package feeds

import (
	"context"

	"github.com/poiesic/layerscout/session"
)

// Kind classifies an event by the hazard it describes.
type Kind string

const (
	KindStorm    Kind = "storm"
	KindWildfire Kind = "wildfire"
	KindFlood    Kind = "flood"
)

// Event is one active hazard reported by a feed.
type Event struct {
	Feed       string            `json:"feed"`
	Kind       Kind              `json:"kind"`
	Title      string            `json:"title"`
	Latitude   float64           `json:"latitude,omitempty"`
	Longitude  float64           `json:"longitude,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Feed is a source of events.
type Feed interface {
	Name() string
	Fetch(ctx context.Context) ([]Event, error)
}

// DefaultQueries maps each hazard kind to catalog searches worth running
// while such an event is active.
func DefaultQueries() map[Kind][]string {
	return map[Kind][]string{
		KindStorm:    {"shelter", "hospital", "evacuation"},
		KindWildfire: {"fire station", "hospital", "shelter"},
		KindFlood:    {"levee", "dam", "shelter"},
	}
}

// SeedPresetName names the preset built by SeedQueries.
const SeedPresetName = "live-events"

// SeedQueries builds a preset from the queries mapped to each event's kind.
// Queries keep the order of first appearance and are not repeated.
// Kinds without a mapping are ignored.
func SeedQueries(events []Event, mapping map[Kind][]string) session.Preset {
	preset := session.Preset{Name: SeedPresetName}
	seen := make(map[string]struct{})
	for _, e := range events {
		for _, q := range mapping[e.Kind] {
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			preset.Queries = append(preset.Queries, q)
		}
	}
	return preset
}
