package catalog

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/layerscout/core"
)

// Store holds the immutable catalog of layer records for a session.
// It is loaded exactly once; every accessor returns copies.
type Store struct {
	mu          sync.RWMutex
	records     []core.CatalogRecord
	byName      map[string]int
	fingerprint core.ID
	loaded      bool
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore creates an empty, unloaded store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs the catalog. It fails with core.ErrAlreadyLoaded once a
// catalog is in place, and with core.ErrEmptyCatalog when no usable record
// is supplied (in which case the store stays unloaded).
//
// Records with a blank name are dropped. When names repeat, the last record
// in input order wins and keeps the position of that last occurrence.
func (s *Store) Load(records []core.CatalogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return core.ErrAlreadyLoaded
	}
	if len(records) == 0 {
		return core.ErrEmptyCatalog
	}

	// Walk backwards so the first sighting of a name is its last occurrence.
	seen := make(map[string]struct{}, len(records))
	kept := make([]core.CatalogRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if err := core.ValidateCatalogRecord(&record); err != nil {
			s.logger.Warn("dropping unusable catalog record", "index", i, "err", err)
			continue
		}
		if _, dup := seen[record.Name]; dup {
			s.logger.Debug("duplicate catalog name superseded", "name", record.Name, "index", i)
			continue
		}
		seen[record.Name] = struct{}{}
		kept = append(kept, record)
	}
	if len(kept) == 0 {
		return core.ErrEmptyCatalog
	}

	// Restore input order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	byName := make(map[string]int, len(kept))
	for i, record := range kept {
		byName[record.Name] = i
	}

	s.records = kept
	s.byName = byName
	s.fingerprint = fingerprint(kept)
	s.loaded = true

	s.logger.Info("catalog loaded", "records", len(kept), "supplied", len(records))
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// All returns a copy of the catalog in load order. Nil before Load.
func (s *Store) All() []core.CatalogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil
	}
	out := make([]core.CatalogRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup finds a record by exact name.
func (s *Store) Lookup(name string) (core.CatalogRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byName[name]
	if !ok {
		return core.CatalogRecord{}, false
	}
	return s.records[i], true
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Names returns the record names in load order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.records))
	for i, record := range s.records {
		names[i] = record.Name
	}
	return names
}

// Fingerprint returns a content hash of the loaded catalog, or 0 before Load.
func (s *Store) Fingerprint() core.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

func fingerprint(records []core.CatalogRecord) core.ID {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.Name)
		b.WriteByte(0x1f)
		b.WriteString(r.Agency)
		b.WriteByte(0x1f)
		b.WriteString(r.ServiceEndpoint)
		b.WriteByte(0x1f)
		b.WriteString(string(r.Status))
		b.WriteByte(0x1f)
		b.WriteString(strconv.FormatBool(r.DUARequired))
		b.WriteByte(0x1f)
		b.WriteString(strconv.FormatBool(r.GIIRequired))
		b.WriteByte(0x1e)
	}
	return core.IDFromContent(b.String())
}
