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

package storage

import (
	"fmt"

	"github.com/poiesic/layerscout/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalCatalogRecord serializes a CatalogRecord to bytes.
func MarshalCatalogRecord(record *core.CatalogRecord) []byte {
	buf := make([]byte, core.CatalogRecordMUS.Size(*record))
	core.CatalogRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCatalogRecord deserializes a CatalogRecord from bytes.
func UnmarshalCatalogRecord(data []byte) (*core.CatalogRecord, error) {
	record, _, err := core.CatalogRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalCatalogInfo serializes a CatalogInfo to bytes.
func MarshalCatalogInfo(info *core.CatalogInfo) []byte {
	buf := make([]byte, core.CatalogInfoMUS.Size(*info))
	core.CatalogInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalCatalogInfo deserializes a CatalogInfo from bytes.
func UnmarshalCatalogInfo(data []byte) (*core.CatalogInfo, error) {
	info, _, err := core.CatalogInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
