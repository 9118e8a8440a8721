package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status is the publication state of a catalog layer.
type Status string

const (
	// StatusActive marks a layer that is published at its endpoint.
	StatusActive Status = "Active"
	// StatusMigrated marks a layer that has moved to a new home.
	StatusMigrated Status = "Migrated"
)

// CatalogRecord describes one discoverable infrastructure data layer.
// Records are immutable once handed to a catalog store.
type CatalogRecord struct {
	Name            string `json:"name" yaml:"name"`
	Agency          string `json:"agency" yaml:"agency"`
	ServiceEndpoint string `json:"serviceEndpoint,omitempty" yaml:"serviceEndpoint,omitempty"` // empty when the layer is reference-only
	Status          Status `json:"status" yaml:"status"`
	DUARequired     bool   `json:"duaRequired" yaml:"duaRequired"`
	GIIRequired     bool   `json:"giiRequired" yaml:"giiRequired"`
}

// HasEndpoint reports whether the record has a renderable service endpoint.
func (r CatalogRecord) HasEndpoint() bool {
	return strings.TrimSpace(r.ServiceEndpoint) != ""
}

// Field identifies a searchable field of a CatalogRecord.
type Field uint8

const (
	// FieldName is the layer name, the primary search field.
	FieldName Field = 1 << iota
	// FieldAgency is the data provider.
	FieldAgency
)

// FieldSet is a set of Fields that contributed to a match.
type FieldSet uint8

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	return s&FieldSet(f) != 0
}

// With returns the set with f added.
func (s FieldSet) With(f Field) FieldSet {
	return s | FieldSet(f)
}

// Names returns the lowercase names of the fields in the set, name first.
func (s FieldSet) Names() []string {
	names := make([]string, 0, 2)
	if s.Has(FieldName) {
		names = append(names, "name")
	}
	if s.Has(FieldAgency) {
		names = append(names, "agency")
	}
	return names
}

// MatchResult pairs a catalog record with its relevance score for a query.
type MatchResult struct {
	Record        CatalogRecord
	Score         float64
	MatchedFields FieldSet
}

// SelectionEntry is an activated layer tagged with its insertion sequence.
type SelectionEntry struct {
	Record   CatalogRecord
	Sequence uint64
}
