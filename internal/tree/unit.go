// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"slices"
	"sort"
	"strings"
	"sync/atomic"
)

// Unit is an immutable snapshot of one compilation unit.
type Unit struct {
	info  UnitInfo
	root  *Node
	lines []Pos // start offsets of lines, when the source is known
}

// UnitInfo holds the file level facts of a compilation unit.
type UnitInfo struct {
	// Path is the slash separated path of the source file.
	Path string

	// Imports are the namespaces imported by the file.
	Imports []string

	// Generated marks generated source files.
	Generated bool

	// Source is the optional original text, used to map offsets to lines.
	Source string
}

// NewUnit creates a snapshot from a root node.
func NewUnit(info UnitInfo, root *Node) *Unit {
	info.Imports = slices.Clone(info.Imports)

	u := &Unit{info: info, root: root}
	if info.Source != "" {
		u.lines = lineStarts(info.Source)
	}

	return u
}

func lineStarts(src string) []Pos {
	lines := []Pos{0}
	for i := range len(src) {
		if src[i] == '\n' {
			lines = append(lines, Pos(i+1))
		}
	}

	return lines
}

// Path returns the path of the source file.
func (u *Unit) Path() string { return u.info.Path }

// Imports returns the namespaces imported by the file.
func (u *Unit) Imports() []string { return slices.Clone(u.info.Imports) }

// Generated reports whether the unit stems from a generated file.
func (u *Unit) Generated() bool { return u.info.Generated }

// Info returns the file level facts of the unit.
func (u *Unit) Info() UnitInfo {
	info := u.info
	info.Imports = slices.Clone(info.Imports)

	return info
}

// Root returns the root node.
func (u *Unit) Root() *Node { return u.root }

// Cursor returns a cursor at the root node.
func (u *Unit) Cursor() *Cursor { return Root(u.root) }

// WithRoot returns a new snapshot sharing the file level facts of u.
func (u *Unit) WithRoot(root *Node) *Unit {
	return &Unit{info: u.info, root: root, lines: u.lines}
}

// Position maps an offset to a 1-based line and column.
// Without source text, line 0 and the offset plus one are returned.
func (u *Unit) Position(p Pos) (line, column int) {
	if !p.IsValid() {
		return 0, 0
	}

	if len(u.lines) == 0 {
		return 0, int(p) + 1
	}

	i := sort.Search(len(u.lines), func(i int) bool { return u.lines[i] > p }) - 1

	return i + 1, int(p-u.lines[i]) + 1
}

// Text returns the source text of the span, when available.
func (u *Unit) Text(s Span) string {
	if !s.IsValid() || int(s.End) > len(u.info.Source) {
		return ""
	}

	return u.info.Source[s.Start:s.End]
}

// IsGeneratedPath reports whether a file name follows the conventions of generated sources.
func IsGeneratedPath(path string) bool {
	name := strings.ToLower(path[strings.LastIndexByte(path, '/')+1:])

	for _, suffix := range [...]string{".g.cs", ".generated.cs", ".designer.cs", ".g.i.cs"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

// Document holds the current snapshot of a unit and publishes new ones atomically.
type Document struct {
	current atomic.Pointer[Unit]
}

// NewDocument creates a document starting with the given snapshot.
func NewDocument(u *Unit) *Document {
	d := &Document{}
	d.current.Store(u)

	return d
}

// Load returns the current snapshot.
func (d *Document) Load() *Unit { return d.current.Load() }

// Commit replaces base by next, unless another commit happened since base was loaded.
func (d *Document) Commit(base, next *Unit) bool {
	return d.current.CompareAndSwap(base, next)
}
