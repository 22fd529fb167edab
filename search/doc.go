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

// Package search matches regular expressions against notebook content.
//
// Matching is line-scoped: each source or output line is evaluated
// independently, so a large embedded binary blob never gets treated as one
// giant line that swamps the output. Non-text payloads are matched as opaque
// units instead, which lets users detect their presence without ever
// printing encoded data.
//
// The Scanner type drives matching across a notebook's cells, applying the
// configured cell-type and output-type filters and tagging every hit with
// its provenance.
package search
