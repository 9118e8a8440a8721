// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage defines the persistence abstraction for parsed catalogs.
//
// Parsing the tabular catalog source is the slowest step of opening a
// workspace, and the source rarely changes. A CatalogRepository keeps each
// parsed catalog under the content hash of its source file (see
// core.IDFromContent), so reopening an unchanged file skips parsing.
// A changed file hashes differently and simply misses the cache.
//
// Only the static catalog is cached. Sessions and selections are never
// persisted; the export document is the one portable artifact of a session.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/cache", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo := badger.NewCatalogRepository(backend)
//	info, err := repo.SaveCatalog(ctx, source, records)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Encoding
//
// Records are encoded with MUS (github.com/mus-format/mus-go). Field order
// is part of the stored format.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
