package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/poiesic/nbgrep/search"
)

// nonTextNotice is printed in place of opaque payload content. Matched
// binary data is never written to the output stream.
const nonTextNotice = "Non-text output data matches."

// DetailFull is the detail level at which the sentence template is used and
// an absent execution count is rendered explicitly instead of omitted.
const DetailFull = 4

// ColorMode selects when match highlighting is applied.
type ColorMode int

const (
	// ColorAuto highlights only when the output stream is a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways highlights unconditionally.
	ColorAlways
	// ColorNever disables highlighting.
	ColorNever
)

// ParseColorMode parses a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("%w: %q", ErrBadColorMode, s)
	}
}

// Renderer writes one line of output per hit. The color decision is made
// once at construction, not re-checked per line.
type Renderer struct {
	w             io.Writer
	highlight     lipgloss.Style
	colorize      bool
	colorMode     ColorMode
	showFileNames bool
	detail        int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFileNames controls whether each output line is prefixed with the file
// it was found in.
func WithFileNames(show bool) Option {
	return func(r *Renderer) {
		r.showFileNames = show
	}
}

// WithDetail sets the verbosity of the per-line provenance prefix. Level 0
// prints no detail; levels 1-3 add cell index, execution count, and origin;
// DetailFull and above use the long sentence template.
func WithDetail(level int) Option {
	return func(r *Renderer) {
		r.detail = level
	}
}

// WithColorMode sets the highlighting policy. Default is ColorAuto.
func WithColorMode(mode ColorMode) Option {
	return func(r *Renderer) {
		r.colorMode = mode
	}
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w}
	for _, opt := range opts {
		opt(r)
	}

	r.colorize = resolveColor(w, r.colorMode)

	// Pin the profile rather than letting lipgloss sniff the writer, so
	// that --color always works through a pipe and --color never really
	// emits no escape codes.
	lr := lipgloss.NewRenderer(w)
	if r.colorize {
		lr.SetColorProfile(termenv.ANSI)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	r.highlight = lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	return r
}

func resolveColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
}

// Render writes the output line for one hit found in the named file.
func (r *Renderer) Render(path string, hit search.Hit) {
	var b strings.Builder
	r.writePrefix(&b, path, hit)

	if hit.IsText {
		b.WriteString(r.highlightLine(trimNewline(hit.Line), hit.Spans))
	} else if r.colorize {
		b.WriteString(r.highlight.Render(nonTextNotice))
	} else {
		b.WriteString(nonTextNotice)
	}
	b.WriteByte('\n')

	io.WriteString(r.w, b.String())
}

func (r *Renderer) writePrefix(b *strings.Builder, path string, hit search.Hit) {
	if r.showFileNames {
		fmt.Fprintf(b, "%s: ", path)
	}
	if r.detail == 0 {
		b.WriteByte('\t')
		return
	}

	exec := ""
	if hit.ExecutionCount != nil {
		exec = fmt.Sprintf(" [%d]", *hit.ExecutionCount)
	} else if r.detail >= DetailFull {
		exec = "[None]"
	}

	line := hit.LineNumber + 1
	var info string
	switch r.detail {
	case 1:
		info = fmt.Sprintf("c.%d l.%d", hit.CellIndex, line)
	case 2:
		info = fmt.Sprintf("c.%d%s l.%d", hit.CellIndex, exec, line)
	case 3:
		info = fmt.Sprintf("c.%d%s (%s) l.%d", hit.CellIndex, exec, hit.Origin, line)
	default:
		info = fmt.Sprintf("Cell #%d (exec. %s) %s, line %d", hit.CellIndex, exec, hit.Origin, line)
	}

	fmt.Fprintf(b, "%s: \t", info)
}

// highlightLine wraps every span of the line in the highlight style. Spans
// are byte offsets from the regexp engine, so the line is sliced by bytes;
// splitting on runes would misplace highlights next to multi-byte
// characters. Spans may reach past the trimmed newline and are clamped.
func (r *Renderer) highlightLine(line string, spans []search.Span) string {
	if !r.colorize || len(spans) == 0 {
		return line
	}

	var b strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.Start >= len(line) {
			break
		}
		end := min(sp.End, len(line))
		b.WriteString(line[last:sp.Start])
		b.WriteString(r.highlight.Render(line[sp.Start:end]))
		last = end
	}
	b.WriteString(line[last:])
	return b.String()
}

// trimNewline strips one trailing newline and, if present before it, one
// carriage return.
func trimNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
		s = strings.TrimSuffix(s, "\r")
	}
	return s
}
