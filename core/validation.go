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

import (
	"fmt"
	"strings"
)

// ValidateCatalogRecord validates a CatalogRecord according to domain rules.
//
// Validation rules:
//   - Name must not be blank
//
// NOT validated (informational or optional):
//   - ServiceEndpoint (absent means searchable but not addable)
//   - Status (unknown values are carried verbatim)
//   - Agency (may be empty)
func ValidateCatalogRecord(record *CatalogRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyName)
	}

	return nil
}

// ParseStatus maps a raw status string to a Status.
// Known values are matched case-insensitively; anything else is kept as-is.
func ParseStatus(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "active":
		return StatusActive
	case "migrated":
		return StatusMigrated
	default:
		return Status(trimmed)
	}
}
