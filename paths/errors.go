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

package paths

import "errors"

var (
	// ErrPathLookup indicates a path's metadata could not be read during
	// resolution setup.
	ErrPathLookup = errors.New("cannot read path")

	// ErrBadIncludePattern indicates an invalid --include glob pattern.
	ErrBadIncludePattern = errors.New("invalid include pattern")

	// ErrNoNotebooks indicates that resolution produced no notebook files.
	ErrNoNotebooks = errors.New("no notebook files listed or found in the given directories")
)
