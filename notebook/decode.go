package notebook

import (
	"encoding/json"
	"fmt"
	"os"
)

// Decode parses raw notebook bytes into a Notebook. Decoding is total and
// single-pass; any parse or shape failure wraps ErrInvalidNotebook.
func Decode(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if nb.Cells == nil {
		return nil, fmt.Errorf("%w: missing cells field", ErrInvalidNotebook)
	}
	return &nb, nil
}

// Load reads the file at path and decodes it as a Notebook.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	return Decode(data)
}
