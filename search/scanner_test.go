package search

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/nbgrep/notebook"
)

func intPtr(n int) *int { return &n }

func codeCell(execCount *int, source []string, outputs ...notebook.Output) notebook.Cell {
	return notebook.Cell{
		CellType:       notebook.CellTypeCode,
		ExecutionCount: execCount,
		Source:         source,
		Outputs:        outputs,
	}
}

func scan(t *testing.T, nb *notebook.Notebook, pattern string, opts ...Option) []Hit {
	t.Helper()
	scanner, err := NewScanner(NewOptions(pattern, opts...))
	require.NoError(t, err)
	return slices.Collect(scanner.Scan(nb))
}

func TestNewScanner(t *testing.T) {
	t.Run("nil options", func(t *testing.T) {
		_, err := NewScanner(nil)
		assert.Equal(t, ErrOptionsRequired, err)
	})

	t.Run("bad pattern surfaces at construction", func(t *testing.T) {
		_, err := NewScanner(NewOptions("foo["))
		assert.ErrorIs(t, err, ErrBadPattern)
	})

	t.Run("precompiled options are not recompiled", func(t *testing.T) {
		opts := NewOptions("numpy")
		require.NoError(t, opts.Compile())
		re := opts.Regexp()

		_, err := NewScanner(opts)
		require.NoError(t, err)
		assert.Same(t, re, opts.Regexp())
	})
}

func TestScan_SourceOnly(t *testing.T) {
	// One code cell, no outputs; default options.
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"import numpy as np\n"}),
	}}

	hits := scan(t, nb, "numpy")
	require.Len(t, hits, 1)

	h := hits[0]
	assert.Equal(t, OriginSource, h.Origin)
	assert.Equal(t, 0, h.CellIndex)
	assert.Equal(t, 0, h.LineNumber)
	assert.Equal(t, 1, *h.ExecutionCount)
	assert.True(t, h.IsText)
}

func TestScan_TextOutput(t *testing.T) {
	// The default output-type set scans text/plain data.
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"import numpy as np\n"}, notebook.Output{
			OutputType: "execute_result",
			Data: map[string]json.RawMessage{
				"text/plain": json.RawMessage(`["array([1, 2, 3])\n"]`),
			},
		}),
	}}

	hits := scan(t, nb, "array")
	require.Len(t, hits, 1)
	assert.Equal(t, OriginOutputText, hits[0].Origin)
	assert.Equal(t, "array([1, 2, 3])\n", hits[0].Line)
	assert.NotEmpty(t, hits[0].Spans)
}

func TestScan_NonTextOutputExcludedByDefault(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"plot()\n"}, notebook.Output{
			OutputType: "display_data",
			Data: map[string]json.RawMessage{
				"image/png": json.RawMessage(`"iVBORw0KGgoAAAANSUhEUg=="`),
			},
		}),
	}}

	// image/png is excluded by the default output-type set, so even a
	// pattern matching the payload finds nothing there.
	hits := scan(t, nb, "VBOR")
	assert.Empty(t, hits)
}

func TestScan_NonTextOutputOptIn(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(3), []string{"plot()\n"}, notebook.Output{
			OutputType: "display_data",
			Data: map[string]json.RawMessage{
				"image/png": json.RawMessage(`"iVBORw0KGgoAAAANSUhEUg=="`),
			},
		}),
	}}

	hits := scan(t, nb, "VBOR", WithOutputTypes("image/png"))
	require.Len(t, hits, 1)

	h := hits[0]
	assert.Equal(t, OriginOutputData, h.Origin)
	assert.False(t, h.IsText)
	assert.Empty(t, h.Spans)
}

func TestScan_Invert(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"import numpy\n", "import pandas\n"}),
	}}

	hits := scan(t, nb, "numpy", WithInvertMatch())
	require.Len(t, hits, 1)
	assert.Equal(t, "import pandas\n", hits[0].Line)
	assert.Equal(t, 1, hits[0].LineNumber)
	assert.Empty(t, hits[0].Spans)
}

func TestScan_CellTypeFilter(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		{CellType: notebook.CellTypeMarkdown, Source: []string{"numpy is great\n"}},
		codeCell(intPtr(1), []string{"import numpy\n"}),
		{CellType: notebook.CellTypeRaw, Source: []string{"numpy raw\n"}},
	}}

	hits := scan(t, nb, "numpy", WithCellTypes(notebook.CellTypeMarkdown))
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].CellIndex)
}

func TestScan_SourceDisabled(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"import numpy\n"}, notebook.Output{
			OutputType: "stream",
			Text:       []string{"numpy loaded\n"},
		}),
	}}

	hits := scan(t, nb, "numpy", WithoutSource())
	require.Len(t, hits, 1)
	assert.Equal(t, OriginOutputText, hits[0].Origin)
}

func TestScan_OutputsDisabled(t *testing.T) {
	// An empty output-type set disables output scanning entirely,
	// including direct text payloads.
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"plot()\n"}, notebook.Output{
			OutputType: "stream",
			Text:       []string{"numpy loaded\n"},
			Data: map[string]json.RawMessage{
				"text/plain": json.RawMessage(`["numpy everywhere\n"]`),
			},
		}),
	}}

	hits := scan(t, nb, "numpy", WithoutOutputs())
	assert.Empty(t, hits)
}

func TestScan_DirectTextNotGatedByOutputTypes(t *testing.T) {
	// Direct text payloads are already-resolved lines; they are scanned
	// whenever output scanning is on, whatever the type set says.
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"plot()\n"}, notebook.Output{
			OutputType: "stream",
			Text:       []string{"numpy loaded\n"},
		}),
	}}

	hits := scan(t, nb, "numpy", WithOutputTypes("image/png"))
	require.Len(t, hits, 1)
	assert.Equal(t, OriginOutputText, hits[0].Origin)
}

func TestScan_MalformedOutputEntryIsSkipped(t *testing.T) {
	// The text/plain value has the wrong shape. The entry is skipped but
	// the rest of the notebook is still scanned.
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"first\n"}, notebook.Output{
			OutputType: "execute_result",
			Data: map[string]json.RawMessage{
				"text/plain": json.RawMessage(`"not an array"`),
			},
		}),
		codeCell(intPtr(2), []string{"numpy again\n"}),
	}}

	hits := scan(t, nb, "numpy")
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].CellIndex)
}

func TestScan_DeterministicDataOrder(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), nil, notebook.Output{
			OutputType: "execute_result",
			Data: map[string]json.RawMessage{
				"text/plain": json.RawMessage(`["match a\n"]`),
				"text/html":  json.RawMessage(`"<p>match b</p>"`),
				"image/png":  json.RawMessage(`"matchc=="`),
			},
		}),
	}}

	first := scan(t, nb, "match", WithOutputTypes("text/plain", "text/html", "image/png"))
	for range 10 {
		again := scan(t, nb, "match", WithOutputTypes("text/plain", "text/html", "image/png"))
		assert.Equal(t, first, again)
	}
}

func TestScan_EarlyStop(t *testing.T) {
	nb := &notebook.Notebook{Cells: []notebook.Cell{
		codeCell(intPtr(1), []string{"numpy\n", "numpy\n", "numpy\n"}),
	}}

	scanner, err := NewScanner(NewOptions("numpy"))
	require.NoError(t, err)

	var got []Hit
	for hit := range scanner.Scan(nb) {
		got = append(got, hit)
		break
	}
	assert.Len(t, got, 1)
}
