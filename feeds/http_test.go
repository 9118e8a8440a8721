package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nhcPayload = `{
  "activeStorms": [
    {"id": "al052024", "name": "Ernesto", "classification": "HU", "intensity": "75",
     "latitudeNumeric": 18.6, "longitudeNumeric": -65.2},
    {"id": "ep062024", "name": "Gilma", "classification": "TS", "intensity": "45",
     "latitudeNumeric": 15.1, "longitudeNumeric": -118.0}
  ]
}`

const arcgisPayload = `{
  "features": [
    {"attributes": {"IncidentName": "Park Fire", "Acres": 429603, "County": "Butte"},
     "geometry": {"x": -121.7, "y": 39.8}},
    {"attributes": {"IncidentName": "  ", "Acres": 10}},
    {"attributes": {"IncidentName": "Line Fire", "Acres": null}}
  ]
}`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewHTTPFeed(t *testing.T) {
	t.Run("valid nhc", func(t *testing.T) {
		f, err := NewHTTPFeed("nhc", "https://www.nhc.noaa.gov/CurrentStorms.json", FormatNHC)
		require.NoError(t, err)
		assert.Equal(t, "nhc", f.Name())
		assert.Equal(t, KindStorm, f.kind)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := NewHTTPFeed(" ", "https://example.test", FormatNHC)
		assert.ErrorIs(t, err, ErrFeedNameRequired)
	})

	t.Run("bad url", func(t *testing.T) {
		for _, u := range []string{"", "ftp://example.test/x", "/relative", "https://"} {
			_, err := NewHTTPFeed("x", u, FormatNHC)
			assert.ErrorIs(t, err, ErrInvalidURL, u)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewHTTPFeed("x", "https://example.test", Format("rss"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("arcgis needs title field", func(t *testing.T) {
		_, err := NewHTTPFeed("x", "https://example.test", FormatArcGIS)
		assert.ErrorIs(t, err, ErrTitleFieldRequired)
	})

	t.Run("kind override", func(t *testing.T) {
		f, err := NewHTTPFeed("x", "https://example.test", FormatArcGIS, WithTitleField("Name"), WithKind(KindFlood))
		require.NoError(t, err)
		assert.Equal(t, KindFlood, f.kind)
	})
}

func TestHTTPFeed_FetchNHC(t *testing.T) {
	srv := serve(t, http.StatusOK, nhcPayload)
	f, err := NewHTTPFeed("nhc", srv.URL, FormatNHC)
	require.NoError(t, err)

	events, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Ernesto", events[0].Title)
	assert.Equal(t, KindStorm, events[0].Kind)
	assert.Equal(t, "nhc", events[0].Feed)
	assert.Equal(t, 18.6, events[0].Latitude)
	assert.Equal(t, -65.2, events[0].Longitude)
	assert.Equal(t, "HU", events[0].Attributes["classification"])
}

func TestHTTPFeed_FetchArcGIS(t *testing.T) {
	srv := serve(t, http.StatusOK, arcgisPayload)
	f, err := NewHTTPFeed("fires", srv.URL, FormatArcGIS, WithTitleField("IncidentName"))
	require.NoError(t, err)

	events, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Park Fire", events[0].Title)
	assert.Equal(t, KindWildfire, events[0].Kind)
	assert.Equal(t, "429603", events[0].Attributes["Acres"])
	assert.Equal(t, 39.8, events[0].Latitude)
	assert.Equal(t, "Line Fire", events[1].Title)
	assert.Equal(t, "", events[1].Attributes["Acres"])
	assert.Zero(t, events[1].Latitude)
}

func TestHTTPFeed_FailsClosed(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := serve(t, http.StatusServiceUnavailable, "down")
		f, err := NewHTTPFeed("nhc", srv.URL, FormatNHC)
		require.NoError(t, err)

		events, err := f.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrBadStatus)
		assert.Nil(t, events)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "<html>")
		f, err := NewHTTPFeed("nhc", srv.URL, FormatNHC)
		require.NoError(t, err)

		_, err = f.Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("arcgis error payload", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"error": {"code": 400, "message": "Invalid query"}}`)
		f, err := NewHTTPFeed("fires", srv.URL, FormatArcGIS, WithTitleField("IncidentName"))
		require.NoError(t, err)

		_, err = f.Fetch(context.Background())
		assert.ErrorIs(t, err, ErrFeedError)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)

		f, err := NewHTTPFeed("slow", srv.URL, FormatNHC, WithTimeout(50*time.Millisecond))
		require.NoError(t, err)

		_, err = f.Fetch(context.Background())
		assert.Error(t, err)
	})
}
