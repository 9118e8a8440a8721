package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Format names the payload layout of a feed.
type Format string

const (
	// FormatNHC is the National Hurricane Center CurrentStorms.json layout.
	FormatNHC Format = "nhc"
	// FormatArcGIS is an ArcGIS REST feature query response (f=json).
	FormatArcGIS Format = "arcgis"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// HTTPFeed fetches events from a JSON endpoint.
type HTTPFeed struct {
	name       string
	url        string
	format     Format
	kind       Kind
	titleField string
	client     *http.Client
	timeout    time.Duration
}

var _ Feed = (*HTTPFeed)(nil)

// HTTPOption configures an HTTPFeed.
type HTTPOption func(*HTTPFeed) error

// WithHTTPClient sets the client used for requests.
// Default is a client with no timeout of its own; see WithTimeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFeed) error {
		if client != nil {
			f.client = client
		}
		return nil
	}
}

// WithTimeout bounds each fetch. Default is 10s.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFeed) error {
		if d > 0 {
			f.timeout = d
		}
		return nil
	}
}

// WithKind sets the kind of the events the feed produces.
// NHC feeds default to KindStorm; ArcGIS feeds to KindWildfire.
func WithKind(kind Kind) HTTPOption {
	return func(f *HTTPFeed) error {
		if kind != "" {
			f.kind = kind
		}
		return nil
	}
}

// WithTitleField names the ArcGIS attribute used as the event title.
func WithTitleField(field string) HTTPOption {
	return func(f *HTTPFeed) error {
		f.titleField = field
		return nil
	}
}

// NewHTTPFeed creates a feed reading rawURL in the given format.
func NewHTTPFeed(name, rawURL string, format Format, opts ...HTTPOption) (*HTTPFeed, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFeedNameRequired
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	f := &HTTPFeed{
		name:    name,
		url:     rawURL,
		format:  format,
		client:  http.DefaultClient,
		timeout: defaultTimeout,
	}
	switch format {
	case FormatNHC:
		f.kind = KindStorm
	case FormatArcGIS:
		f.kind = KindWildfire
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	if f.format == FormatArcGIS && f.titleField == "" {
		return nil, ErrTitleFieldRequired
	}
	return f, nil
}

// Name returns the feed name.
func (f *HTTPFeed) Name() string {
	return f.name
}

// Fetch performs one GET and decodes the events. There is no retry.
func (f *HTTPFeed) Fetch(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	switch f.format {
	case FormatNHC:
		return f.decodeNHC(body)
	default:
		return f.decodeArcGIS(body)
	}
}

type nhcResponse struct {
	ActiveStorms []struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Classification string  `json:"classification"`
		Intensity      string  `json:"intensity"`
		Latitude       float64 `json:"latitudeNumeric"`
		Longitude      float64 `json:"longitudeNumeric"`
	} `json:"activeStorms"`
}

func (f *HTTPFeed) decodeNHC(r io.Reader) ([]Event, error) {
	var payload nhcResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding nhc payload: %w", err)
	}

	events := make([]Event, 0, len(payload.ActiveStorms))
	for _, s := range payload.ActiveStorms {
		events = append(events, Event{
			Feed:      f.name,
			Kind:      f.kind,
			Title:     s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Attributes: map[string]string{
				"id":             s.ID,
				"classification": s.Classification,
				"intensity":      s.Intensity,
			},
		})
	}
	return events, nil
}

type arcgisResponse struct {
	Features []struct {
		Attributes map[string]any `json:"attributes"`
		Geometry   *struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"geometry"`
	} `json:"features"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *HTTPFeed) decodeArcGIS(r io.Reader) ([]Event, error) {
	var payload arcgisResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding arcgis payload: %w", err)
	}
	// ArcGIS reports query errors with a 200 status.
	if payload.Error != nil {
		return nil, fmt.Errorf("%w: %d %s", ErrFeedError, payload.Error.Code, payload.Error.Message)
	}

	events := make([]Event, 0, len(payload.Features))
	for _, feat := range payload.Features {
		attrs := make(map[string]string, len(feat.Attributes))
		for k, v := range feat.Attributes {
			attrs[k] = attributeString(v)
		}
		title := strings.TrimSpace(attrs[f.titleField])
		if title == "" {
			continue
		}

		e := Event{Feed: f.name, Kind: f.kind, Title: title, Attributes: attrs}
		if feat.Geometry != nil {
			e.Longitude, e.Latitude = feat.Geometry.X, feat.Geometry.Y
		}
		events = append(events, e)
	}
	return events, nil
}

func attributeString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
