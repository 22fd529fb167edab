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

package notebook

import "errors"

var (
	// ErrInvalidNotebook indicates the document is not well-formed JSON or
	// does not match the expected notebook shape.
	ErrInvalidNotebook = errors.New("invalid notebook document")

	// ErrOutputTextShape indicates an output data entry declared with a text
	// MIME type whose value is not an array of strings.
	ErrOutputTextShape = errors.New("malformed output text data")

	// ErrOutputBlobShape indicates an output data entry declared with a
	// non-text MIME type whose value is not a single string.
	ErrOutputBlobShape = errors.New("malformed output data")
)
