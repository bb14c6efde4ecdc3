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

// Package unitfile reads and writes compilations: syntax trees annotated with
// semantic facts together with the symbol table they reference.
//
// Human written compilations are YAML documents, machine generated snapshots
// are encoded with MessagePack. Both formats share the same data model.
package unitfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// ErrInvalid is returned for compilations that cannot be turned into trees.
var ErrInvalid = errors.New("invalid compilation")

// Format is an encoding of compilations.
type Format uint8

const (
	// YAML is the human readable encoding.
	YAML Format = iota

	// MessagePack is the compact binary encoding.
	MessagePack
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"

	case MessagePack:
		return "msgpack"

	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatOf selects the format by file extension.
func FormatOf(name string) (Format, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".yaml", ".yml":
		return YAML, nil

	case ".msgpack", ".mpk":
		return MessagePack, nil

	default:
		return 0, fmt.Errorf("%w: unknown extension %q of %s", ErrInvalid, ext, name)
	}
}

// Compilation is a set of units sharing one symbol table.
type Compilation struct {
	Symbols []*symbols.Symbol `yaml:"symbols,omitempty" msgpack:"symbols,omitempty"`
	Units   []Unit            `yaml:"units"             msgpack:"units"`
}

// Unit is a serialized compilation unit.
type Unit struct {
	Path      string   `yaml:"path"                msgpack:"path"`
	Imports   []string `yaml:"imports,omitempty"   msgpack:"imports,omitempty"`
	Generated bool     `yaml:"generated,omitempty" msgpack:"generated,omitempty"`
	Source    string   `yaml:"source,omitempty"    msgpack:"source,omitempty"`
	Members   []Node   `yaml:"members"             msgpack:"members"`
}

// Node is a serialized syntax node.
//
// Span holds the start and end offset. When no node of a unit has a span,
// all nodes are numbered in document order.
type Node struct {
	Kind     string   `yaml:"kind"                msgpack:"kind"`
	Flags    []string `yaml:"flags,omitempty"     msgpack:"flags,omitempty"`
	Span     []int64  `yaml:"span,omitempty,flow" msgpack:"span,omitempty"`
	Text     string   `yaml:"text,omitempty"      msgpack:"text,omitempty"`
	Type     string   `yaml:"type,omitempty"      msgpack:"type,omitempty"`
	Symbol   string   `yaml:"symbol,omitempty"    msgpack:"symbol,omitempty"`
	Leading  string   `yaml:"leading,omitempty"   msgpack:"leading,omitempty"`
	Children []Node   `yaml:"children,omitempty"  msgpack:"children,omitempty"`
}

// Decode reads a compilation in the given format.
func Decode(r io.Reader, format Format) (*Compilation, error) {
	var c Compilation

	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)

		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

	case MessagePack:
		if err := msgpack.NewDecoder(r).Decode(&c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalid, format)
	}

	return &c, nil
}

// Encode writes a compilation in the given format.
func Encode(w io.Writer, format Format, c *Compilation) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(c); err != nil {
			return err
		}

		return enc.Close()

	case MessagePack:
		enc := msgpack.NewEncoder(w)
		enc.SetOmitEmpty(true)

		return enc.Encode(c)

	default:
		return fmt.Errorf("%w: unsupported format %s", ErrInvalid, format)
	}
}

// ReadFile reads a compilation, selecting the format by extension.
func ReadFile(fsys fs.FS, name string) (*Compilation, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return c, nil
}

// Table returns the symbol table of the compilation.
func (c *Compilation) Table() *symbols.Table {
	return symbols.NewTable(c.Symbols...)
}

// Trees converts all units of the compilation.
func (c *Compilation) Trees() ([]*tree.Unit, error) {
	units := make([]*tree.Unit, 0, len(c.Units))

	for i := range c.Units {
		u, err := c.Units[i].Tree()
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", c.Units[i].Path, err)
		}

		units = append(units, u)
	}

	return units, nil
}
