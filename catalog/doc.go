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


// Package catalog holds the static layer catalog.
//
// A Store is loaded exactly once with already-parsed records and is read-only
// afterwards. A second Load returns core.ErrAlreadyLoaded; loading nothing
// returns core.ErrEmptyCatalog. Duplicate names resolve to the last record in
// input order.
//
// ReadFile, ReadCSV and ReadDelimited turn tabular catalog exports into
// records. Header names are matched loosely ("Service_Endpoint", "url",
// "Layer Name", ...), so the reader tolerates the column naming of the usual
// catalog spreadsheets.
package catalog
