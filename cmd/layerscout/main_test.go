package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/layerscout/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testCatalog = `Layer Name,Agency,Service Endpoint,Status
Hospital A,HHS,http://x,Active
Hospital B,HHS,,Active
Fire Station 1,DHS,http://y,Active
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"layerscout"}, args...))
	return out.String(), err
}

func TestGlobalFlags(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		_, err := run(t, "--log-level", "loud", "search", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("config file is loaded", func(t *testing.T) {
		dir := t.TempDir()
		catalogPath := writeFile(t, dir, "layers.csv", testCatalog)
		cfgPath := writeFile(t, dir, "layerscout.yaml", fmt.Sprintf("catalog:\n  path: %s\n", catalogPath))

		out, err := run(t, "--config", cfgPath, "search", "fire")
		require.NoError(t, err)
		assert.Contains(t, out, "Fire Station 1")
	})

	t.Run("commands are registered", func(t *testing.T) {
		app := newApp()
		names := make([]string, 0, len(app.Commands))
		for _, cmd := range app.Commands {
			names = append(names, cmd.Name)
		}
		assert.Equal(t, []string{"search", "export", "serve", "feeds", "cache"}, names)
	})
}

func TestSearchCommand(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "catalog.csv", testCatalog)

	t.Run("ranked table", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", catalogPath, "hospital")
		require.NoError(t, err)
		assert.Contains(t, out, "Hospital A")
		assert.Contains(t, out, "Hospital B")
		assert.NotContains(t, out, "Fire Station 1")
		assert.Less(t, strings.Index(out, "Hospital A"), strings.Index(out, "Hospital B"))
	})

	t.Run("no hits suggests names", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", catalogPath, "hsptl")
		require.NoError(t, err)
		assert.Contains(t, out, `No layers matched "hsptl"`)
		assert.Contains(t, out, "Did you mean")
	})

	t.Run("empty query", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", catalogPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Enter a query")
	})

	t.Run("browse lists everything", func(t *testing.T) {
		out, err := run(t, "search", "--catalog", catalogPath, "--browse")
		require.NoError(t, err)
		assert.Contains(t, out, "Fire Station 1")
		assert.Contains(t, out, "Hospital B")
	})

	t.Run("missing catalog", func(t *testing.T) {
		_, err := run(t, "search", "--catalog", filepath.Join(t.TempDir(), "none.csv"), "x")
		assert.Error(t, err)
	})
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "catalog.csv", testCatalog)
	jsonPath := filepath.Join(dir, "selection.json")

	t.Run("queries and layers", func(t *testing.T) {
		_, err := run(t, "export", "--catalog", catalogPath,
			"--query", "fire", "--layer", "Hospital A", "--zoom", "5", "--lon", "-90", "--lat", "30",
			"--output", jsonPath)
		require.NoError(t, err)

		f, err := os.Open(jsonPath)
		require.NoError(t, err)
		defer f.Close()
		doc, err := export.Decode(f, export.FormatJSON)
		require.NoError(t, err)

		assert.Equal(t, []string{"Fire Station 1", "Hospital A"}, doc.Names())
		assert.Equal(t, 5.0, doc.View.Zoom)
		assert.Equal(t, [2]float64{-90, 30}, doc.View.Center)
		assert.Equal(t, "topo", doc.View.Basemap)
	})

	t.Run("re-import as yaml", func(t *testing.T) {
		out, err := run(t, "export", "--catalog", catalogPath, "--from", jsonPath, "--format", "yaml")
		require.NoError(t, err)

		doc, err := export.Decode(strings.NewReader(out), export.FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fire Station 1", "Hospital A"}, doc.Names())
		assert.Equal(t, 5.0, doc.View.Zoom)
	})

	t.Run("from and preset are exclusive", func(t *testing.T) {
		_, err := run(t, "export", "--catalog", catalogPath, "--from", jsonPath, "--preset", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either --from or --preset")
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := run(t, "export", "--catalog", catalogPath, "--preset", "missing")
		assert.Error(t, err)
	})

	t.Run("invalid view", func(t *testing.T) {
		_, err := run(t, "export", "--catalog", catalogPath, "--lat", "95")
		assert.ErrorIs(t, err, export.ErrInvalidView)
	})
}

func TestFeedsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"activeStorms": [{"id": "al052024", "name": "Ernesto",
			"latitudeNumeric": 18.6, "longitudeNumeric": -65.2}]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "catalog.csv", testCatalog)
	cfgPath := writeFile(t, dir, "layerscout.yaml", fmt.Sprintf(`feeds:
  - name: nhc
    url: %s
    format: nhc
`, srv.URL))

	t.Run("lists events", func(t *testing.T) {
		out, err := run(t, "--config", cfgPath, "feeds")
		require.NoError(t, err)
		assert.Contains(t, out, "Ernesto")
		assert.Contains(t, out, "storm")
	})

	t.Run("selects layers for events", func(t *testing.T) {
		out, err := run(t, "--config", cfgPath, "feeds", "--select", "--catalog", catalogPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Ernesto")
		assert.Contains(t, out, "Hospital A")
	})

	t.Run("no feeds configured", func(t *testing.T) {
		empty := writeFile(t, t.TempDir(), "layerscout.yaml", "log:\n  level: warn\n")
		_, err := run(t, "--config", empty, "feeds")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no feeds configured")
	})
}

func TestCacheCommand(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "catalog.csv", testCatalog)
	cfgPath := writeFile(t, dir, "layerscout.yaml",
		fmt.Sprintf("catalog:\n  path: %s\n  cache_dir: %s\n", catalogPath, filepath.Join(dir, "cache")))

	t.Run("list", func(t *testing.T) {
		out, err := run(t, "--config", cfgPath, "cache", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Loaded catalog fingerprint")
	})

	t.Run("prune keeps the current catalog", func(t *testing.T) {
		out, err := run(t, "--config", cfgPath, "cache", "prune")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 0 cached snapshot(s).")
	})

	t.Run("requires a cache dir", func(t *testing.T) {
		_, err := run(t, "cache", "list", "--catalog", catalogPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache_dir")
	})
}

func TestServeCommandFlags(t *testing.T) {
	cmd := serveCommand()
	var addr *cli.StringFlag
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == "addr" {
			addr = f
		}
	}
	require.NotNil(t, addr)
	assert.Empty(t, addr.Value)
}
