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

// Package mock provides an in-memory test double for paths.FileSystem.
//
// Trees are built with AddDir, AddFile, and AddSymlink, so traversal
// behavior, including symlink cycles, can be tested deterministically
// without touching the real filesystem. Stat and ReadDir failures can be
// injected per path to exercise error handling.
package mock

import (
	"fmt"
	"io/fs"
	"path"
	"time"
)

type node struct {
	dir     bool
	link    string   // symlink target, empty for regular nodes
	entries []string // child names in insertion order, dirs only
}

// FS is an in-memory paths.FileSystem. All paths are slash-separated and
// absolute (e.g. "/nb/demo.ipynb"). ReadDir returns entries in the order
// they were added, standing in for the OS-provided order.
type FS struct {
	nodes       map[string]*node
	statErrs    map[string]error
	readDirErrs map[string]error
}

// NewFS creates an empty in-memory filesystem containing only the root
// directory "/".
func NewFS() *FS {
	return &FS{
		nodes:       map[string]*node{"/": {dir: true}},
		statErrs:    make(map[string]error),
		readDirErrs: make(map[string]error),
	}
}

// AddDir adds a directory, registering it in its parent. The parent must
// already exist.
func (f *FS) AddDir(name string) *FS {
	f.add(name, &node{dir: true})
	return f
}

// AddFile adds a regular file, registering it in its parent.
func (f *FS) AddFile(name string) *FS {
	f.add(name, &node{})
	return f
}

// AddSymlink adds a symbolic link to target, registering it in its parent.
// The target does not need to exist yet.
func (f *FS) AddSymlink(name, target string) *FS {
	f.add(name, &node{link: target})
	return f
}

// FailStat makes Stat on the given path return err.
func (f *FS) FailStat(name string, err error) *FS {
	f.statErrs[name] = err
	return f
}

// FailReadDir makes ReadDir on the given path return err.
func (f *FS) FailReadDir(name string, err error) *FS {
	f.readDirErrs[name] = err
	return f
}

func (f *FS) add(name string, n *node) {
	parent := path.Dir(name)
	p, ok := f.nodes[parent]
	if !ok || !p.dir {
		panic(fmt.Sprintf("mock: parent directory %q does not exist", parent))
	}
	p.entries = append(p.entries, path.Base(name))
	f.nodes[name] = n
}

// resolve follows symlinks to the underlying node. The hop limit guards
// against link-to-link cycles, which the resolver never canonicalizes away.
func (f *FS) resolve(name string) (string, *node, error) {
	for hops := 0; hops < 40; hops++ {
		n, ok := f.nodes[name]
		if !ok {
			return "", nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		if n.link == "" {
			return name, n, nil
		}
		name = n.link
	}
	return "", nil, fmt.Errorf("%s: too many levels of symbolic links", name)
}

// Stat implements paths.FileSystem.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	if err := f.statErrs[name]; err != nil {
		return nil, err
	}
	resolved, n, err := f.resolve(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: path.Base(resolved), dir: n.dir}, nil
}

// ReadDir implements paths.FileSystem.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.readDirErrs[name]; err != nil {
		return nil, err
	}
	_, n, err := f.resolve(name)
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, fmt.Errorf("%s: not a directory", name)
	}
	entries := make([]fs.DirEntry, 0, len(n.entries))
	for _, e := range n.entries {
		child := f.nodes[path.Join(name, e)]
		entries = append(entries, &dirEntry{name: e, dir: child != nil && child.dir})
	}
	return entries, nil
}

// Canonical implements paths.FileSystem.
func (f *FS) Canonical(name string) (string, error) {
	resolved, _, err := f.resolve(name)
	if err != nil {
		return "", err
	}
	return path.Clean(resolved), nil
}

type fileInfo struct {
	name string
	dir  bool
}

func (i *fileInfo) Name() string { return i.name }
func (i *fileInfo) Size() int64  { return 0 }
func (i *fileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir
	}
	return 0
}
func (i *fileInfo) ModTime() time.Time { return time.Time{} }
func (i *fileInfo) IsDir() bool        { return i.dir }
func (i *fileInfo) Sys() any           { return nil }

type dirEntry struct {
	name string
	dir  bool
}

func (e *dirEntry) Name() string { return e.name }
func (e *dirEntry) IsDir() bool  { return e.dir }
func (e *dirEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}
func (e *dirEntry) Info() (fs.FileInfo, error) {
	return &fileInfo{name: e.name, dir: e.dir}, nil
}
