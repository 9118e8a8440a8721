package session

import (
	"testing"

	"github.com/poiesic/layerscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presetCatalog() []core.CatalogRecord {
	return []core.CatalogRecord{
		{Name: "Hurricane Shelters", Agency: "FEMA", ServiceEndpoint: "http://shelters"},
		{Name: "Hospitals", Agency: "HHS", ServiceEndpoint: "http://hospitals"},
		{Name: "Hospital Beds", Agency: "HHS"},
		{Name: "Evacuation Routes", Agency: "DOT", ServiceEndpoint: "http://routes"},
		{Name: "Evacuation Zones", Agency: "FEMA", ServiceEndpoint: "http://zones"},
	}
}

func TestSession_ApplyPreset(t *testing.T) {
	hurricane := Preset{Name: "hurricane", Queries: []string{"shelter", "hospital", "evacuation"}}
	s := loadedSession(t, presetCatalog(), WithPresets(hurricane))

	entries, err := s.ApplyPreset("hurricane")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hurricane Shelters", "Hospitals", "Evacuation Routes"}, selectionNames(entries))
	assert.Equal(t, entries, s.CurrentSelection())
}

func TestSession_ApplyPresetSkipsEndpointlessLayers(t *testing.T) {
	s := loadedSession(t, presetCatalog())

	// "Hospital Beds" ranks first but has no endpoint.
	entries, err := s.ApplyPresetDef(Preset{Name: "beds", Queries: []string{"hospital beds"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hospitals"}, selectionNames(entries))
}

func TestSession_ApplyPresetPerQuery(t *testing.T) {
	s := loadedSession(t, presetCatalog())

	entries, err := s.ApplyPresetDef(Preset{Name: "evac", Queries: []string{"evacuation", "fema"}, PerQuery: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Evacuation Routes", "Evacuation Zones", "Hurricane Shelters"}, selectionNames(entries))
}

func TestSession_ApplyPresetReplacesSelection(t *testing.T) {
	s := loadedSession(t, presetCatalog())
	require.NoError(t, s.Activate("Evacuation Zones"))
	_, err := s.Search("hospital")
	require.NoError(t, err)
	before := s.CurrentResults()

	entries, err := s.ApplyPresetDef(Preset{Name: "shelter", Queries: []string{"shelter"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hurricane Shelters"}, selectionNames(entries))
	assert.Equal(t, before, s.CurrentResults(), "presets leave search results alone")
}

func TestSession_ApplyPresetErrors(t *testing.T) {
	s := loadedSession(t, presetCatalog())

	_, err := s.ApplyPreset("missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = s.ApplyPresetDef(Preset{Queries: []string{"x"}})
	assert.ErrorIs(t, err, ErrInvalidPreset)

	_, err = s.ApplyPresetDef(Preset{Name: "neg", Queries: []string{"x"}, PerQuery: -1})
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestSession_Presets(t *testing.T) {
	s := loadedSession(t, presetCatalog(), WithPresets(
		Preset{Name: "wildfire", Queries: []string{"fire"}},
		Preset{Name: "flood", Queries: []string{"flood"}},
	))
	assert.Equal(t, []string{"flood", "wildfire"}, s.Presets())
}
