package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/layerscout/core"
	"github.com/poiesic/layerscout/feeds"
	"github.com/poiesic/layerscout/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layerscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// dur converts Duration to time.Duration for comparison
func dur(d Duration) time.Duration {
	return time.Duration(d)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "catalog.csv", cfg.Catalog.Path)
	assert.Empty(t, cfg.Catalog.CacheDir)
	assert.Equal(t, 2.0, cfg.Search.NameWeight)
	assert.Equal(t, 1.0, cfg.Search.AgencyWeight)
	assert.Zero(t, cfg.Search.Limit)
	assert.False(t, cfg.Search.BrowseOnEmptyQuery)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, dur(cfg.Server.ReadTimeout))
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, []string{"shelter", "hospital", "evacuation"}, cfg.FeedQueries["storm"])
}

func TestLoad_DefaultPathFromEnv(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: from-env.csv\n")
	t.Setenv("LAYERSCOUT_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Catalog.Path)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: /data/layers.tsv
  cache_dir: /var/cache/layerscout
search:
  name_weight: 3
  agency_weight: 0.5
  limit: 25
  browse_on_empty_query: true
  statuses: [active]
server:
  addr: 127.0.0.1:9000
  read_timeout: 5s
log:
  level: debug
  format: json
export:
  format: yaml
  basemap: satellite
feeds:
  - name: nhc
    url: https://www.nhc.noaa.gov/CurrentStorms.json
    format: nhc
  - name: fires
    url: https://services.example.test/arcgis/rest/services/Fires/FeatureServer/0/query?f=json
    format: arcgis
    title_field: IncidentName
    timeout: 3s
presets:
  - name: hurricane
    queries: [shelter, hospital]
    per_query: 2
feed_queries:
  storm: [shelter]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/layers.tsv", cfg.Catalog.Path)
	assert.Equal(t, "/var/cache/layerscout", cfg.Catalog.CacheDir)
	assert.Equal(t, 3.0, cfg.Search.NameWeight)
	assert.Equal(t, 0.5, cfg.Search.AgencyWeight)
	assert.Equal(t, 25, cfg.Search.Limit)
	assert.True(t, cfg.Search.BrowseOnEmptyQuery)
	assert.Equal(t, []string{"active"}, cfg.Search.Statuses)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, dur(cfg.Server.ReadTimeout))
	assert.Equal(t, 15*time.Second, dur(cfg.Server.WriteTimeout), "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "satellite", cfg.Export.Basemap)
	require.Len(t, cfg.Feeds, 2)
	assert.Equal(t, 3*time.Second, dur(cfg.Feeds[1].Timeout))
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, 2, cfg.Presets[0].PerQuery)
	assert.Equal(t, []string{"shelter"}, cfg.FeedQueryMapping()[feeds.KindStorm])

	built, err := cfg.BuildFeeds()
	require.NoError(t, err)
	assert.Equal(t, "nhc", built[0].Name())
	assert.Equal(t, "fires", built[1].Name())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "catalog:\n  path: file.csv\nlog:\n  level: warn\n")
	t.Setenv("LAYERSCOUT_CATALOG_PATH", "env.csv")
	t.Setenv("LAYERSCOUT_CACHE_DIR", "/tmp/cache")
	t.Setenv("LAYERSCOUT_LOG_LEVEL", "error")
	t.Setenv("LAYERSCOUT_SEARCH_LIMIT", "10")
	t.Setenv("LAYERSCOUT_BROWSE_ON_EMPTY_QUERY", "true")
	t.Setenv("LAYERSCOUT_SEARCH_STATUSES", "Active,Migrated")
	t.Setenv("LAYERSCOUT_ADDR", ":9999")
	t.Setenv("LAYERSCOUT_READ_TIMEOUT", "1m")
	t.Setenv("LAYERSCOUT_EXPORT_FORMAT", "yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.csv", cfg.Catalog.Path)
	assert.Equal(t, "/tmp/cache", cfg.Catalog.CacheDir)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.True(t, cfg.Search.BrowseOnEmptyQuery)
	assert.Equal(t, []string{"Active", "Migrated"}, cfg.Search.Statuses)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, time.Minute, dur(cfg.Server.ReadTimeout))
	assert.Equal(t, "yaml", cfg.Export.Format)
}

func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("LAYERSCOUT_SEARCH_LIMIT", "lots")
	t.Setenv("LAYERSCOUT_READ_TIMEOUT", "soon")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Search.Limit)
	assert.Equal(t, 15*time.Second, dur(cfg.Server.ReadTimeout))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "catalog: [unclosed"},
		{"bad duration", "server:\n  read_timeout: soon\n"},
		{"negative weight", "search:\n  name_weight: -1\n"},
		{"zero weights", "search:\n  name_weight: 0\n  agency_weight: 0\n"},
		{"negative limit", "search:\n  limit: -5\n"},
		{"empty status", "search:\n  statuses: [\"\"]\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"bad export format", "export:\n  format: pdf\n"},
		{"bad feed", "feeds:\n  - name: x\n    url: not a url\n    format: nhc\n"},
		{"arcgis feed without title", "feeds:\n  - name: x\n    url: https://example.test\n    format: arcgis\n"},
		{"preset without queries", "presets:\n  - name: empty\n"},
		{"duplicate preset", "presets:\n  - name: a\n    queries: [x]\n  - name: a\n    queries: [y]\n"},
		{"empty catalog path", "catalog:\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRankerOptions(t *testing.T) {
	cfg := Default()
	cfg.Search.Statuses = []string{"active"}
	cfg.Search.Limit = 1

	r, err := search.NewRanker(search.NewIndex([]core.CatalogRecord{
		{Name: "Hospitals", Status: core.StatusActive},
		{Name: "Hospitals (Legacy)", Status: core.StatusMigrated},
		{Name: "Hospital Beds", Status: core.StatusActive},
	}), cfg.RankerOptions()...)
	require.NoError(t, err)

	results := r.Rank(search.Normalize("hospital"))
	require.Len(t, results, 1)
	assert.Equal(t, "Hospital Beds", results[0].Record.Name)
}

func TestParseLogLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
		_, err := ParseLogLevel(lvl)
		assert.NoError(t, err, lvl)
	}
	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
