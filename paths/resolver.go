package paths

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtension is the file extension directory expansion looks for.
const DefaultExtension = ".ipynb"

// Resolver expands user-specified paths into a concrete, de-duplicated list
// of notebook files.
type Resolver struct {
	fsys      FileSystem
	recursive bool
	ext       string
	include   string
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithRecursive enables descending into subdirectories.
func WithRecursive(recursive bool) Option {
	return func(r *Resolver) error {
		r.recursive = recursive
		return nil
	}
}

// WithExtension overrides the extension directory expansion matches.
// Default is DefaultExtension.
func WithExtension(ext string) Option {
	return func(r *Resolver) error {
		r.ext = ext
		return nil
	}
}

// WithInclude restricts directory-discovered files to those matching the
// given doublestar glob pattern. Explicit file arguments bypass it.
func WithInclude(pattern string) Option {
	return func(r *Resolver) error {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrBadIncludePattern, pattern)
		}
		r.include = pattern
		return nil
	}
}

// WithFileSystem sets a custom filesystem implementation.
// Default is the operating system.
func WithFileSystem(fsys FileSystem) Option {
	return func(r *Resolver) error {
		if fsys == nil {
			fsys = osFS{}
		}
		r.fsys = fsys
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver with the default settings and applies the
// provided options.
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		fsys:   osFS{},
		ext:    DefaultExtension,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve expands the input paths into an ordered list of notebook files:
// paths as given, files within a directory in the order the filesystem
// lists them, subdirectories interleaved at the point encountered.
//
// Explicit file arguments are included as-is, never filtered by extension
// or include pattern. Directory arguments contribute their entries matching
// the configured extension, descending into subdirectories when recursion
// is enabled. A directory is never listed twice: directories are tracked by
// canonicalized path, which keeps traversal finite when a symlink points
// back at an ancestor.
//
// A top-level path whose metadata cannot be read aborts resolution with an
// error wrapping ErrPathLookup. Unreadable entries encountered inside a
// directory listing are logged and skipped instead.
func (r *Resolver) Resolve(inputs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)    // canonical paths of collected files
	visited := make(map[string]bool) // canonical paths of listed directories

	for _, input := range inputs {
		info, err := r.fsys.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPathLookup, err)
		}
		if info.IsDir() {
			if err := r.walkDir(input, &files, seen, visited); err != nil {
				return nil, err
			}
			continue
		}
		canon, err := r.fsys.Canonical(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPathLookup, err)
		}
		if !seen[canon] {
			seen[canon] = true
			files = append(files, input)
		}
	}

	return files, nil
}

func (r *Resolver) walkDir(dir string, files *[]string, seen, visited map[string]bool) error {
	// Insert before listing. Adding the directory only when descending
	// into subdirectories would leave the top directory out of the set,
	// and a symlink back to it would loop forever.
	canon, err := r.fsys.Canonical(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathLookup, err)
	}
	if visited[canon] {
		return nil
	}
	visited[canon] = true

	entries, err := r.fsys.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathLookup, err)
	}

	for _, entry := range entries {
		name := filepath.Join(dir, entry.Name())
		info, err := r.fsys.Stat(name)
		if err != nil {
			r.logger.Warn("skipping unreadable directory entry", "path", name, "err", err)
			continue
		}

		switch {
		case info.IsDir():
			if !r.recursive {
				continue
			}
			if err := r.walkDir(name, files, seen, visited); err != nil {
				r.logger.Warn("skipping unreadable directory", "path", name, "err", err)
			}
		case filepath.Ext(name) == r.ext && r.includeMatch(name):
			canon, err := r.fsys.Canonical(name)
			if err != nil {
				r.logger.Warn("skipping unreadable directory entry", "path", name, "err", err)
				continue
			}
			if !seen[canon] {
				seen[canon] = true
				*files = append(*files, name)
			}
		}
	}

	return nil
}

func (r *Resolver) includeMatch(name string) bool {
	if r.include == "" {
		return true
	}
	if ok, _ := doublestar.Match(r.include, filepath.ToSlash(name)); ok {
		return true
	}
	// A bare pattern like "demo*.ipynb" should match on the file name.
	ok, _ := doublestar.Match(r.include, filepath.Base(name))
	return ok
}
