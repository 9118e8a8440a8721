// Package export writes a session's selected layers, with map view
// metadata, as a portable JSON or YAML document and reads it back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/layerscout/core"
	"gopkg.in/yaml.v3"
)

// Version is the document format version written by Encode.
const Version = 1

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Extent is a bounding box in WGS84 degrees.
type Extent struct {
	XMin float64 `json:"xmin" yaml:"xmin"`
	YMin float64 `json:"ymin" yaml:"ymin"`
	XMax float64 `json:"xmax" yaml:"xmax"`
	YMax float64 `json:"ymax" yaml:"ymax"`
}

// View is the map state saved alongside the layers.
type View struct {
	Basemap string     `json:"basemap,omitempty" yaml:"basemap,omitempty"`
	Zoom    float64    `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	Center  [2]float64 `json:"center" yaml:"center,flow"` // longitude, latitude
	Extent  *Extent    `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// Validate checks that coordinates are within WGS84 bounds.
func (v View) Validate() error {
	lon, lat := v.Center[0], v.Center[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: center %v out of range", ErrInvalidView, v.Center)
	}
	if v.Zoom < 0 {
		return fmt.Errorf("%w: negative zoom", ErrInvalidView)
	}
	if e := v.Extent; e != nil && (e.XMin > e.XMax || e.YMin > e.YMax) {
		return fmt.Errorf("%w: extent min exceeds max", ErrInvalidView)
	}
	return nil
}

// Layer is one selected layer in a document.
type Layer struct {
	Name            string `json:"name" yaml:"name"`
	Agency          string `json:"agency,omitempty" yaml:"agency,omitempty"`
	ServiceEndpoint string `json:"serviceEndpoint" yaml:"serviceEndpoint"`
	Status          string `json:"status,omitempty" yaml:"status,omitempty"`
	DUARequired     bool   `json:"duaRequired,omitempty" yaml:"duaRequired,omitempty"`
	GIIRequired     bool   `json:"giiRequired,omitempty" yaml:"giiRequired,omitempty"`
}

// Document is the portable form of a session's selection.
type Document struct {
	Version            int       `json:"version" yaml:"version"`
	GeneratedAt        time.Time `json:"generatedAt" yaml:"generatedAt"`
	CatalogFingerprint string    `json:"catalogFingerprint,omitempty" yaml:"catalogFingerprint,omitempty"`
	View               View      `json:"view" yaml:"view"`
	Layers             []Layer   `json:"layers" yaml:"layers"`
}

// Build creates a document from selection entries, keeping their order.
func Build(entries []core.SelectionEntry, view View, fingerprint core.ID) *Document {
	layers := make([]Layer, len(entries))
	for i, e := range entries {
		layers[i] = Layer{
			Name:            e.Record.Name,
			Agency:          e.Record.Agency,
			ServiceEndpoint: e.Record.ServiceEndpoint,
			Status:          string(e.Record.Status),
			DUARequired:     e.Record.DUARequired,
			GIIRequired:     e.Record.GIIRequired,
		}
	}

	doc := &Document{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		View:        view,
		Layers:      layers,
	}
	if fingerprint != 0 {
		doc.CatalogFingerprint = FormatFingerprint(fingerprint)
	}
	return doc
}

// FormatFingerprint renders a catalog fingerprint as 16 hex digits.
func FormatFingerprint(id core.ID) string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ParseFingerprint is the inverse of FormatFingerprint.
func ParseFingerprint(s string) (core.ID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return core.ID(v), nil
}

// Names returns the layer names in document order, suitable for
// re-activating the selection in a new session.
func (d *Document) Names() []string {
	names := make([]string, len(d.Layers))
	for i, l := range d.Layers {
		names[i] = l.Name
	}
	return names
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode reads a document in the given format from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding json document: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if doc.Version < 1 || doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Layers == nil {
		doc.Layers = []Layer{}
	}
	return &doc, nil
}
