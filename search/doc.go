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


// Package search provides query normalization and field-weighted ranking
// over the layer catalog.
//
// Normalize turns free text into a TokenSet. A Ranker scores each record of
// an Index field by field:
//   - a field whose folded value contains every token scores its full weight
//   - a field containing only some of the tokens scores half its weight
//   - a field containing none scores nothing
//
// Field scores are summed (name weighs 2, agency 1 by default), records that
// score zero are dropped, and results are ordered by score descending with
// ties broken by name. Matching is plain substring containment, so the
// output is fully deterministic.
//
// Suggest offers fuzzy "did you mean" names for queries that match nothing.
// It is separate from ranking and never influences scores.
package search
