package api

import (
	"github.com/poiesic/layerscout/core"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Layers      int    `json:"layers"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Sessions    int    `json:"sessions"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID string `json:"id"`
}

// LayerView is a catalog record as exposed over HTTP.
type LayerView struct {
	Name            string `json:"name"`
	Agency          string `json:"agency"`
	ServiceEndpoint string `json:"serviceEndpoint,omitempty"`
	Status          string `json:"status,omitempty"`
	DUARequired     bool   `json:"duaRequired"`
	GIIRequired     bool   `json:"giiRequired"`
}

// ResultView is one ranked search result.
type ResultView struct {
	LayerView
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matchedFields"`
}

// SearchResponse is returned by the search endpoint.
type SearchResponse struct {
	Query       string       `json:"query"`
	Results     []ResultView `json:"results"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

// SelectionEntryView is one selected layer.
type SelectionEntryView struct {
	LayerView
	Sequence uint64 `json:"sequence"`
}

// SelectionResponse lists the selected layers in order.
type SelectionResponse struct {
	Layers []SelectionEntryView `json:"layers"`
}

// ActivateRequest names one layer to add.
type ActivateRequest struct {
	Name string `json:"name"`
}

// ReplaceRequest names the layers that make up the new selection.
type ReplaceRequest struct {
	Names []string `json:"names"`
}

func layerView(r core.CatalogRecord) LayerView {
	return LayerView{
		Name:            r.Name,
		Agency:          r.Agency,
		ServiceEndpoint: r.ServiceEndpoint,
		Status:          string(r.Status),
		DUARequired:     r.DUARequired,
		GIIRequired:     r.GIIRequired,
	}
}

func resultViews(results []core.MatchResult) []ResultView {
	out := make([]ResultView, len(results))
	for i, r := range results {
		out[i] = ResultView{
			LayerView:     layerView(r.Record),
			Score:         r.Score,
			MatchedFields: r.MatchedFields.Names(),
		}
	}
	return out
}

func selectionResponse(entries []core.SelectionEntry) SelectionResponse {
	layers := make([]SelectionEntryView, len(entries))
	for i, e := range entries {
		layers[i] = SelectionEntryView{LayerView: layerView(e.Record), Sequence: e.Sequence}
	}
	return SelectionResponse{Layers: layers}
}
