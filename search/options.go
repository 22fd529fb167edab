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

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/poiesic/nbgrep/notebook"
)

// MIMETextPlain is the only MIME type whose output data is recognized as
// text. Every other type is matched as an opaque unit.
const MIMETextPlain = "text/plain"

// textDataTypes lists the MIME types whose data values decode as line arrays.
var textDataTypes = []string{MIMETextPlain}

// DefaultCellTypes returns the cell types scanned when none are configured.
func DefaultCellTypes() []string {
	return []string{notebook.CellTypeMarkdown, notebook.CellTypeCode, notebook.CellTypeRaw}
}

// DefaultOutputTypes returns the output MIME types scanned when none are
// configured: plain text only, so image and other binary payloads stay out
// of the results.
func DefaultOutputTypes() []string {
	return []string{MIMETextPlain}
}

// Options is the immutable configuration for one search run.
type Options struct {
	// Pattern is the regular expression to search for.
	Pattern string

	// IgnoreCase folds case into the compiled pattern.
	IgnoreCase bool

	// InvertMatch keeps lines the pattern does NOT match.
	InvertMatch bool

	// CellTypes are the cell types to scan. Cells of any other type are
	// skipped entirely.
	CellTypes []string

	// OutputTypes are the output MIME types to scan. An empty set disables
	// output scanning altogether.
	OutputTypes []string

	// IncludeSource controls whether cell source text is scanned.
	IncludeSource bool

	re *regexp.Regexp
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// WithIgnoreCase makes the pattern case-insensitive.
func WithIgnoreCase() Option {
	return func(o *Options) {
		o.IgnoreCase = true
	}
}

// WithInvertMatch keeps only the lines the pattern does not match.
func WithInvertMatch() Option {
	return func(o *Options) {
		o.InvertMatch = true
	}
}

// WithCellTypes restricts scanning to the given cell types.
func WithCellTypes(types ...string) Option {
	return func(o *Options) {
		o.CellTypes = types
	}
}

// WithOutputTypes restricts output scanning to the given MIME types.
// Passing none disables output scanning.
func WithOutputTypes(types ...string) Option {
	return func(o *Options) {
		o.OutputTypes = types
	}
}

// WithoutSource disables scanning of cell source text.
func WithoutSource() Option {
	return func(o *Options) {
		o.IncludeSource = false
	}
}

// WithoutOutputs disables scanning of cell outputs.
func WithoutOutputs() Option {
	return func(o *Options) {
		o.OutputTypes = nil
	}
}

// NewOptions creates Options for the given pattern with the default scan
// surface (all cell types, source text, plain-text outputs) and applies the
// provided options. Compile must be called before the pattern is used;
// NewScanner does this automatically.
func NewOptions(pattern string, opts ...Option) *Options {
	o := &Options{
		Pattern:       pattern,
		CellTypes:     DefaultCellTypes(),
		OutputTypes:   DefaultOutputTypes(),
		IncludeSource: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compile builds the regular expression. Multi-line mode is always enabled
// so that $ matches before the trailing newline a notebook line carries:
// "Subsetting ci\n" would otherwise never match "Subsetting [a-z]{2}$".
// A syntactically invalid pattern wraps ErrBadPattern.
func (o *Options) Compile() error {
	expr := "(?m)" + o.Pattern
	if o.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	o.re = re
	return nil
}

// Regexp returns the compiled pattern, or nil before Compile has run.
func (o *Options) Regexp() *regexp.Regexp {
	return o.re
}

// IncludeOutput reports whether output scanning is enabled, i.e. whether the
// output-type set is non-empty.
func (o *Options) IncludeOutput() bool {
	return len(o.OutputTypes) > 0
}

func (o *Options) includesCellType(cellType string) bool {
	return slices.Contains(o.CellTypes, cellType)
}

func (o *Options) includesOutputType(mime string) bool {
	return slices.Contains(o.OutputTypes, mime)
}

func isTextType(mime string) bool {
	return slices.Contains(textDataTypes, mime)
}
