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

package symbols

import (
	"cmp"
	"slices"
)

// Source supplies symbols by qualified name.
//
// Implementations must be safe for concurrent reads.
type Source interface {
	// Lookup returns the symbol with the given qualified definition name.
	Lookup(name string) (*Symbol, bool)

	// ExtensionMethods returns all extension methods with the given simple name.
	ExtensionMethods(name string) []*Symbol
}

// Table is an in-memory [Source].
//
// A Table must not be modified after it has been handed to a [Cache].
type Table struct {
	symbols    map[string]*Symbol
	extensions map[string][]*Symbol
}

var _ Source = (*Table)(nil)

// NewTable creates a table holding the given symbols.
func NewTable(syms ...*Symbol) *Table {
	t := &Table{
		symbols:    make(map[string]*Symbol, len(syms)),
		extensions: make(map[string][]*Symbol),
	}

	for _, s := range syms {
		t.Add(s)
	}

	return t
}

// Add registers a symbol. Extension methods are indexed by their simple name;
// overloads share one qualified name.
func (t *Table) Add(s *Symbol) {
	if s.IsExtension() {
		name := s.SimpleName()
		t.extensions[name] = append(t.extensions[name], s)

		if _, ok := t.symbols[s.Name]; ok {
			return
		}
	}

	t.symbols[s.Name] = s
}

// Lookup implements [Source].
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]

	return s, ok
}

// ExtensionMethods implements [Source].
func (t *Table) ExtensionMethods(name string) []*Symbol {
	return slices.Clone(t.extensions[name])
}

// Len returns the number of distinct qualified names.
func (t *Table) Len() int { return len(t.symbols) }

// Symbols returns all symbols sorted by name, extension overloads included.
func (t *Table) Symbols() []*Symbol {
	all := make([]*Symbol, 0, len(t.symbols))
	for _, s := range t.symbols {
		if !s.IsExtension() {
			all = append(all, s)
		}
	}

	for _, ext := range t.extensions {
		all = append(all, ext...)
	}

	slices.SortStableFunc(all, func(a, b *Symbol) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Receiver, b.Receiver))
	})

	return all
}
