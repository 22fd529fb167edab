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

package nbgrep

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/nbgrep/notebook"
	"github.com/poiesic/nbgrep/paths"
	"github.com/poiesic/nbgrep/render"
	"github.com/poiesic/nbgrep/search"
)

// Grep ties path resolution, notebook decoding, scanning, and rendering
// together for one search run. Files are processed one at a time, each
// decoded, scanned, and rendered to completion before the next begins.
type Grep struct {
	scanner  *search.Scanner
	renderer *render.Renderer
	resolver *paths.Resolver
	logger   *slog.Logger
}

// Option configures a Grep.
type Option func(*runOptions)

type runOptions struct {
	resolver *paths.Resolver
	logger   *slog.Logger
}

// WithResolver sets a custom path resolver.
// Default resolves notebooks without recursion.
func WithResolver(resolver *paths.Resolver) Option {
	return func(o *runOptions) {
		o.resolver = resolver
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New creates a Grep for the given search options, compiling the pattern.
func New(opts *search.Options, renderer *render.Renderer, gopts ...Option) (*Grep, error) {
	if renderer == nil {
		return nil, ErrRendererRequired
	}

	options := &runOptions{logger: slog.Default()}
	for _, opt := range gopts {
		opt(options)
	}

	scanner, err := search.NewScanner(opts, search.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	resolver := options.resolver
	if resolver == nil {
		resolver, err = paths.NewResolver(paths.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
	}

	return &Grep{
		scanner:  scanner,
		renderer: renderer,
		resolver: resolver,
		logger:   options.logger,
	}, nil
}

// SearchFile decodes one notebook, renders every hit found in it, and
// reports whether anything matched.
func (g *Grep) SearchFile(path string) (bool, error) {
	nb, err := notebook.Load(path)
	if err != nil {
		return false, err
	}

	found := false
	for hit := range g.scanner.Scan(nb) {
		g.renderer.Render(path, hit)
		found = true
	}
	return found, nil
}

// Run resolves the input paths and searches each file in turn. A file that
// cannot be read or decoded is reported and skipped; the run continues with
// the remaining files. Returns whether any file produced a match.
//
// Resolution failures are fatal, as is resolving no notebooks at all, which
// returns paths.ErrNoNotebooks.
func (g *Grep) Run(inputs []string) (bool, error) {
	files, err := g.resolver.Resolve(inputs)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, paths.ErrNoNotebooks
	}

	anyFound := false
	for _, file := range files {
		found, err := g.SearchFile(file)
		if err != nil {
			g.logger.Error("error in file", "file", file, "err", err)
			continue
		}
		if found {
			anyFound = true
		}
	}
	return anyFound, nil
}

// ListTypes resolves the input paths and writes each notebook's cell types
// and output types to w, so users can discover which --cell-type and
// --output-type values their notebooks offer. Undecodable files are
// reported and skipped like in Run.
func ListTypes(inputs []string, w io.Writer, gopts ...Option) error {
	options := &runOptions{logger: slog.Default()}
	for _, opt := range gopts {
		opt(options)
	}

	resolver := options.resolver
	if resolver == nil {
		var err error
		resolver, err = paths.NewResolver(paths.WithLogger(options.logger))
		if err != nil {
			return err
		}
	}

	files, err := resolver.Resolve(inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return paths.ErrNoNotebooks
	}

	for _, file := range files {
		nb, err := notebook.Load(file)
		if err != nil {
			options.logger.Error("error in file", "file", file, "err", err)
			continue
		}

		fmt.Fprintf(w, "%s:\n", file)
		for icell := range nb.Cells {
			cell := &nb.Cells[icell]
			fmt.Fprintf(w, "  cell %d: %s\n", icell, cell.CellType)
			for iout := range cell.Outputs {
				out := &cell.Outputs[iout]
				types := out.DataTypes()
				if len(out.Text) > 0 {
					types = append(types, "text")
				}
				fmt.Fprintf(w, "    output %d (%s): %s\n", iout, out.OutputType, strings.Join(types, " "))
			}
		}
	}
	return nil
}
