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


package search

import "errors"

var (
	// ErrIndexRequired is returned when a ranker is created without an index.
	ErrIndexRequired = errors.New("search index required")

	// ErrInvalidWeights is returned for negative or all-zero field weights.
	ErrInvalidWeights = errors.New("field weights must be non-negative and not all zero")

	// ErrInvalidLimit is returned for a negative result limit.
	ErrInvalidLimit = errors.New("result limit must not be negative")
)
