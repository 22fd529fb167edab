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

// Package notebook models Jupyter notebook documents and decodes them from
// their JSON representation.
//
// A notebook is an ordered sequence of cells; each cell carries source text
// and, for executed code cells, zero or more outputs. Output payloads are
// keyed by MIME type and kept as raw JSON until a caller asks for them as
// text lines or as an opaque blob, because the two shapes cannot be told
// apart without knowing the MIME type.
package notebook
