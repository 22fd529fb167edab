package search

import (
	"iter"
	"log/slog"

	"github.com/poiesic/nbgrep/notebook"
)

// Origin classifies where a match was found within its cell.
type Origin int

const (
	// OriginSource marks a match in a cell's source text.
	OriginSource Origin = iota + 1
	// OriginOutputText marks a match in a textual output payload.
	OriginOutputText
	// OriginOutputData marks a match in an opaque, non-text output payload.
	OriginOutputData
)

// String returns the origin tag used in rendered output.
func (o Origin) String() string {
	switch o {
	case OriginSource:
		return "source"
	case OriginOutputText:
		return "output/text"
	case OriginOutputData:
		return "output/data"
	default:
		return "unknown"
	}
}

// Hit is one match plus its provenance within the notebook.
type Hit struct {
	MatchedLine

	// CellIndex is the 0-based position of the owning cell.
	CellIndex int

	// ExecutionCount is the owning cell's execution count, nil when the
	// cell has not been executed.
	ExecutionCount *int

	// Origin tells whether the match came from source, textual output, or
	// opaque output data.
	Origin Origin
}

// Scanner walks a notebook's cells and applies the configured pattern to the
// selected parts of each cell.
type Scanner struct {
	opts   *Options
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScanner creates a scanner for the given options, compiling the pattern
// if that has not happened yet.
func NewScanner(opts *Options, sopts ...ScannerOption) (*Scanner, error) {
	if opts == nil {
		return nil, ErrOptionsRequired
	}
	if opts.Regexp() == nil {
		if err := opts.Compile(); err != nil {
			return nil, err
		}
	}

	s := &Scanner{
		opts:   opts,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range sopts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Scan returns a lazy sequence of hits found in the notebook, in document
// order. Cells whose type is not configured are skipped entirely. A
// malformed output data entry is logged and skipped without aborting the
// rest of the scan.
func (s *Scanner) Scan(nb *notebook.Notebook) iter.Seq[Hit] {
	return func(yield func(Hit) bool) {
		re := s.opts.Regexp()
		invert := s.opts.InvertMatch

		for icell := range nb.Cells {
			cell := &nb.Cells[icell]
			if !s.opts.includesCellType(cell.CellType) {
				continue
			}

			if s.opts.IncludeSource {
				for _, m := range MatchLines(cell.Source, re, invert) {
					if !yield(s.hit(m, cell, icell, OriginSource)) {
						return
					}
				}
			}

			if !s.opts.IncludeOutput() {
				continue
			}

			for iout := range cell.Outputs {
				out := &cell.Outputs[iout]

				for _, mime := range out.DataTypes() {
					if !s.opts.includesOutputType(mime) {
						continue
					}
					if isTextType(mime) {
						lines, err := out.TextLines(mime)
						if err != nil {
							s.logger.Warn("skipping malformed output entry",
								"cell", icell, "output", iout, "mime", mime, "err", err)
							continue
						}
						for _, m := range MatchLines(lines, re, invert) {
							if !yield(s.hit(m, cell, icell, OriginOutputText)) {
								return
							}
						}
					} else {
						blob, err := out.Blob(mime)
						if err != nil {
							s.logger.Warn("skipping malformed output entry",
								"cell", icell, "output", iout, "mime", mime, "err", err)
							continue
						}
						if m, ok := MatchOpaque(blob, re, invert); ok {
							if !yield(s.hit(m, cell, icell, OriginOutputData)) {
								return
							}
						}
					}
				}

				// Direct text payloads are already-resolved lines, so they
				// are not gated by the output-type set.
				if len(out.Text) > 0 {
					for _, m := range MatchLines(out.Text, re, invert) {
						if !yield(s.hit(m, cell, icell, OriginOutputText)) {
							return
						}
					}
				}
			}
		}
	}
}

func (s *Scanner) hit(m MatchedLine, cell *notebook.Cell, icell int, origin Origin) Hit {
	return Hit{
		MatchedLine:    m,
		CellIndex:      icell,
		ExecutionCount: cell.ExecutionCount,
		Origin:         origin,
	}
}
