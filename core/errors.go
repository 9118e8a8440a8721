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


package core

import "errors"

// Catalog lifecycle errors
var (
	// ErrEmptyCatalog indicates a catalog load received no usable records.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrAlreadyLoaded indicates a second load on a load-once catalog store.
	ErrAlreadyLoaded = errors.New("catalog already loaded")

	// ErrCatalogNotReady indicates an operation ran before the catalog was loaded.
	ErrCatalogNotReady = errors.New("catalog not ready")
)

// Validation errors
var (
	// ErrInvalidRecord indicates a CatalogRecord failed validation.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrEmptyName indicates the Name field is blank.
	ErrEmptyName = errors.New("name cannot be empty")
)
