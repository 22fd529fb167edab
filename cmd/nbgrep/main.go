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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/nbgrep"
	"github.com/poiesic/nbgrep/paths"
	"github.com/poiesic/nbgrep/render"
	"github.com/poiesic/nbgrep/search"
)

// usageExitCode is EX_USAGE: a configuration or pattern error reported
// before any file was scanned.
const usageExitCode = 64

// noMatchExitCode follows the grep convention for a clean run that found
// nothing.
const noMatchExitCode = 1

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "nbgrep",
		Usage:     "Search Jupyter notebooks for a regular expression",
		ArgsUsage: "PATTERN [PATH ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Ignore case when matching",
			},
			&cli.BoolFlag{
				Name:    "invert-match",
				Aliases: []string{"v"},
				Usage:   "Report lines that do NOT match the pattern",
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"R"},
				Usage:   "Recurse into subdirectories of directory arguments",
			},
			&cli.StringSliceFlag{
				Name:    "cell-type",
				Aliases: []string{"t"},
				Usage:   "Cell types to search (repeatable; default: markdown, code, raw)",
			},
			&cli.StringSliceFlag{
				Name:    "output-type",
				Aliases: []string{"O"},
				Usage:   "Output MIME types to search (repeatable; default: text/plain)",
			},
			&cli.BoolFlag{
				Name:    "no-include-source",
				Aliases: []string{"X"},
				Usage:   "Do not search cell source text",
			},
			&cli.BoolFlag{
				Name:  "no-include-output",
				Usage: "Do not search cell outputs",
			},
			&cli.BoolFlag{
				Name:  "include-output",
				Usage: "Search the default output types, overriding --output-type",
			},
			&cli.IntFlag{
				Name:    "line-info",
				Aliases: []string{"l"},
				Usage:   "Detail level for match provenance (0-3)",
			},
			&cli.BoolFlag{
				Name:    "max-line-info",
				Aliases: []string{"L"},
				Usage:   "Print the most verbose match provenance",
			},
			&cli.StringFlag{
				Name:  "filename",
				Usage: "When to prefix matches with the file name (always, never, auto)",
				Value: "auto",
			},
			&cli.BoolFlag{
				Name:    "with-filename",
				Aliases: []string{"H"},
				Usage:   "Always prefix matches with the file name",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "When to highlight matches (always, never, auto)",
				Value: "auto",
			},
			&cli.StringFlag{
				Name:  "include",
				Usage: "Only search directory-discovered files matching this glob",
			},
			&cli.BoolFlag{
				Name:  "list-types",
				Usage: "List cell and output types instead of searching",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Before: setupLogger,
		Action: grepCommand,
	}
}

func grepCommand(c *cli.Context) error {
	resolver, err := newResolver(c)
	if err != nil {
		return cli.Exit(err.Error(), usageExitCode)
	}

	if c.Bool("list-types") {
		inputs := c.Args().Slice()
		if len(inputs) == 0 {
			inputs = []string{"."}
		}
		if err := nbgrep.ListTypes(inputs, os.Stdout, nbgrep.WithResolver(resolver)); err != nil {
			return cli.Exit(err.Error(), usageExitCode)
		}
		return nil
	}

	if c.NArg() < 1 {
		return cli.Exit("usage: nbgrep [options] PATTERN [PATH ...]", usageExitCode)
	}

	opts := buildSearchOptions(c)
	if err := opts.Compile(); err != nil {
		return cli.Exit(fmt.Sprintf("the search pattern is not valid: %v", err), usageExitCode)
	}

	inputs := c.Args().Tail()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	mode, err := render.ParseColorMode(c.String("color"))
	if err != nil {
		return cli.Exit(err.Error(), usageExitCode)
	}

	showFileNames, err := resolveFileNamePolicy(c, inputs)
	if err != nil {
		return cli.Exit(err.Error(), usageExitCode)
	}

	renderer := render.NewRenderer(os.Stdout,
		render.WithColorMode(mode),
		render.WithFileNames(showFileNames),
		render.WithDetail(detailLevel(c)),
	)

	g, err := nbgrep.New(opts, renderer, nbgrep.WithResolver(resolver))
	if err != nil {
		return cli.Exit(err.Error(), usageExitCode)
	}

	found, err := g.Run(inputs)
	if err != nil {
		return cli.Exit(err.Error(), usageExitCode)
	}
	if !found {
		return cli.Exit("", noMatchExitCode)
	}
	return nil
}

// buildSearchOptions assembles search options from the command line. The
// pattern is the first positional argument.
func buildSearchOptions(c *cli.Context) *search.Options {
	var opts []search.Option
	if c.Bool("ignore-case") {
		opts = append(opts, search.WithIgnoreCase())
	}
	if c.Bool("invert-match") {
		opts = append(opts, search.WithInvertMatch())
	}
	if types := c.StringSlice("cell-type"); len(types) > 0 {
		opts = append(opts, search.WithCellTypes(types...))
	}
	if types := c.StringSlice("output-type"); len(types) > 0 {
		opts = append(opts, search.WithOutputTypes(types...))
	}
	// --include-output restores the default output set over any
	// --output-type values, and --no-include-output wins over both.
	if c.Bool("include-output") {
		opts = append(opts, search.WithOutputTypes(search.DefaultOutputTypes()...))
	}
	if c.Bool("no-include-output") {
		opts = append(opts, search.WithoutOutputs())
	}
	if c.Bool("no-include-source") {
		opts = append(opts, search.WithoutSource())
	}
	return search.NewOptions(c.Args().First(), opts...)
}

func detailLevel(c *cli.Context) int {
	if c.Bool("max-line-info") {
		return render.DetailFull
	}
	return c.Int("line-info")
}

// resolveFileNamePolicy decides whether output lines carry a file name
// prefix. The auto policy is decided on the raw arguments, before directory
// expansion: more than one argument, or any directory argument, means the
// reader needs file names to tell results apart.
func resolveFileNamePolicy(c *cli.Context, inputs []string) (bool, error) {
	if c.Bool("with-filename") {
		return true, nil
	}
	switch c.String("filename") {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
	default:
		return false, fmt.Errorf("filename must be one of always, never, auto")
	}

	if len(inputs) > 1 {
		return true, nil
	}
	for _, p := range inputs {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return true, nil
		}
	}
	return false, nil
}

func newResolver(c *cli.Context) (*paths.Resolver, error) {
	ropts := []paths.Option{paths.WithRecursive(c.Bool("recursive"))}
	if pattern := c.String("include"); pattern != "" {
		ropts = append(ropts, paths.WithInclude(pattern))
	}
	return paths.NewResolver(ropts...)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
