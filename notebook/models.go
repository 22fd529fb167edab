package notebook

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Conventional cell types found in notebook documents. The cell_type field
// is an open string set; these are the values the format actually uses.
const (
	CellTypeMarkdown = "markdown"
	CellTypeCode     = "code"
	CellTypeRaw      = "raw"
)

// Notebook is the decoded document: an ordered sequence of cells.
// It is immutable after decoding and owned by the scan of a single file.
type Notebook struct {
	Cells []Cell `json:"cells"`
}

// Cell is one unit of document content. Source holds the cell's text in
// document order; line numbers reported to users are 1-based positions
// within it. ExecutionCount is only present for executed code cells, and
// Outputs only for code cells that produced output.
type Cell struct {
	CellType       string   `json:"cell_type"`
	ExecutionCount *int     `json:"execution_count"`
	Source         []string `json:"source"`
	Outputs        []Output `json:"outputs"`
}

// Output is a result attached to a code cell.
//
// Data maps MIME-type strings to raw JSON values because the value shape
// depends on the key: text types ("text/plain") hold an array of line
// strings while every other type holds a single string (e.g. base64 image
// data). Text is an alternate encoding some outputs use directly instead of
// going through Data; zero, one, or both may be present.
type Output struct {
	OutputType string                     `json:"output_type"`
	Data       map[string]json.RawMessage `json:"data"`
	Text       []string                   `json:"text"`
}

// DataTypes returns the MIME-type keys of Data in sorted order. Map
// iteration order is randomized per range loop, so callers that must be
// deterministic within a run iterate these instead.
func (o *Output) DataTypes() []string {
	if len(o.Data) == 0 {
		return nil
	}
	types := make([]string, 0, len(o.Data))
	for t := range o.Data {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TextLines decodes the Data value for a text MIME type as an array of line
// strings. A value of any other shape wraps ErrOutputTextShape.
func (o *Output) TextLines(mime string) ([]string, error) {
	raw, ok := o.Data[mime]
	if !ok {
		return nil, fmt.Errorf("%w: no %q entry", ErrOutputTextShape, mime)
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: %q value is not an array of strings", ErrOutputTextShape, mime)
	}
	return lines, nil
}

// Blob decodes the Data value for a non-text MIME type as a single opaque
// string. A value of any other shape wraps ErrOutputBlobShape.
func (o *Output) Blob(mime string) (string, error) {
	raw, ok := o.Data[mime]
	if !ok {
		return "", fmt.Errorf("%w: no %q entry", ErrOutputBlobShape, mime)
	}
	var blob string
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", fmt.Errorf("%w: %q value is not a string", ErrOutputBlobShape, mime)
	}
	return blob, nil
}
