package nbgrep

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/nbgrep/paths"
	"github.com/poiesic/nbgrep/render"
	"github.com/poiesic/nbgrep/search"
)

const numpyNotebook = `{
	"cells": [
		{
			"cell_type": "code",
			"execution_count": 1,
			"source": ["import numpy as np\n"],
			"outputs": [
				{
					"output_type": "execute_result",
					"data": {"text/plain": ["array([1, 2, 3])\n"]}
				}
			]
		}
	]
}`

const pandasNotebook = `{
	"cells": [
		{
			"cell_type": "code",
			"execution_count": null,
			"source": ["import pandas as pd\n"]
		}
	]
}`

func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestGrep(t *testing.T, pattern string, buf *bytes.Buffer, opts ...search.Option) *Grep {
	t.Helper()
	renderer := render.NewRenderer(buf, render.WithFileNames(true))
	g, err := New(search.NewOptions(pattern, opts...), renderer)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	t.Run("nil renderer", func(t *testing.T) {
		_, err := New(search.NewOptions("x"), nil)
		assert.Equal(t, ErrRendererRequired, err)
	})

	t.Run("nil options", func(t *testing.T) {
		_, err := New(nil, render.NewRenderer(&bytes.Buffer{}))
		assert.ErrorIs(t, err, search.ErrOptionsRequired)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := New(search.NewOptions("foo["), render.NewRenderer(&bytes.Buffer{}))
		assert.ErrorIs(t, err, search.ErrBadPattern)
	})
}

func TestSearchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "demo.ipynb", numpyNotebook)

	t.Run("match found", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "numpy", &buf)

		found, err := g.SearchFile(path)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, buf.String(), "import numpy as np")
		assert.Contains(t, buf.String(), "demo.ipynb: ")
	})

	t.Run("no match", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "matplotlib", &buf)

		found, err := g.SearchFile(path)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, buf.String())
	})

	t.Run("undecodable file", func(t *testing.T) {
		bad := writeNotebook(t, dir, "bad.ipynb", "not json")
		var buf bytes.Buffer
		g := newTestGrep(t, "numpy", &buf)

		_, err := g.SearchFile(bad)
		assert.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, dir, "a.ipynb", numpyNotebook)
	writeNotebook(t, dir, "b.ipynb", pandasNotebook)

	t.Run("searches every notebook in a directory", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "import", &buf)

		found, err := g.Run([]string{dir})
		require.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, buf.String(), "numpy")
		assert.Contains(t, buf.String(), "pandas")
	})

	t.Run("reports whether anything matched", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "matplotlib", &buf)

		found, err := g.Run([]string{dir})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("a bad file does not abort the run", func(t *testing.T) {
		badDir := t.TempDir()
		writeNotebook(t, badDir, "1-broken.ipynb", "{{{")
		writeNotebook(t, badDir, "2-good.ipynb", numpyNotebook)

		var buf bytes.Buffer
		g := newTestGrep(t, "numpy", &buf)

		found, err := g.Run([]string{badDir})
		require.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, buf.String(), "import numpy")
	})

	t.Run("no notebooks found", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "numpy", &buf)

		_, err := g.Run([]string{t.TempDir()})
		assert.ErrorIs(t, err, paths.ErrNoNotebooks)
	})

	t.Run("unreadable input aborts", func(t *testing.T) {
		var buf bytes.Buffer
		g := newTestGrep(t, "numpy", &buf)

		_, err := g.Run([]string{filepath.Join(dir, "missing.ipynb")})
		assert.ErrorIs(t, err, paths.ErrPathLookup)
	})
}

func TestRun_CustomResolver(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeNotebook(t, sub, "nested.ipynb", numpyNotebook)

	resolver, err := paths.NewResolver(paths.WithRecursive(true))
	require.NoError(t, err)

	var buf bytes.Buffer
	renderer := render.NewRenderer(&buf)
	g, err := New(search.NewOptions("numpy"), renderer, WithResolver(resolver))
	require.NoError(t, err)

	found, err := g.Run([]string{dir})
	require.NoError(t, err)
	assert.True(t, found)
}

func TestListTypes(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, dir, "demo.ipynb", numpyNotebook)

	var buf bytes.Buffer
	require.NoError(t, ListTypes([]string{dir}, &buf))

	out := buf.String()
	assert.Contains(t, out, "demo.ipynb:")
	assert.Contains(t, out, "cell 0: code")
	assert.Contains(t, out, "output 0 (execute_result): text/plain")
}
