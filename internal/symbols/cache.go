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
	"slices"
	"strings"
	"sync"
)

// Cache memoizes symbol resolution for one compilation.
//
// A Cache is safe for concurrent use. Concurrent first resolutions of the same
// name may both consult the [Source], but all callers observe the first stored
// answer. A nil *Cache resolves nothing.
type Cache struct {
	source Source

	symbols    sync.Map // definition name -> resolved
	supertypes sync.Map // definition name -> []string
	extensions sync.Map // simple method name -> []*Symbol
}

type resolved struct {
	sym *Symbol
}

// NewCache creates a cache over the given source.
func NewCache(src Source) *Cache {
	return &Cache{source: src}
}

// Resolve returns the symbol with the given qualified name, or nil when the
// compilation does not contain it. Constructed generic names resolve to their definition.
func (c *Cache) Resolve(name string) *Symbol {
	if c == nil || name == "" {
		return nil
	}

	def := Definition(name)
	if v, ok := c.symbols.Load(def); ok {
		return v.(resolved).sym
	}

	s, _ := c.source.Lookup(def)
	v, _ := c.symbols.LoadOrStore(def, resolved{sym: s})

	return v.(resolved).sym
}

// Exists reports whether the name resolves.
func (c *Cache) Exists(name string) bool { return c.Resolve(name) != nil }

// Supertypes returns the definition names of all base types and implemented
// interfaces of a type, nearest base first, interfaces after the base chain.
// The type itself is not included.
func (c *Cache) Supertypes(name string) []string {
	if c == nil || name == "" {
		return nil
	}

	def := Definition(name)
	if v, ok := c.supertypes.Load(def); ok {
		return v.([]string)
	}

	supers := c.collectSupertypes(def)
	v, _ := c.supertypes.LoadOrStore(def, supers)

	return v.([]string)
}

func (c *Cache) collectSupertypes(def string) []string {
	var (
		bases, ifaces []string
		seen          = map[string]struct{}{def: {}}
		pending       []string
	)

	for s := c.Resolve(def); s != nil; {
		pending = append(pending, s.Interfaces...)

		if s.Base == "" {
			break
		}

		base := Definition(s.Base)
		if _, ok := seen[base]; ok {
			break // cyclic
		}

		seen[base] = struct{}{}
		bases = append(bases, base)
		s = c.Resolve(base)
	}

	for len(pending) > 0 {
		iface := Definition(pending[0])
		pending = pending[1:]

		if _, ok := seen[iface]; ok {
			continue
		}

		seen[iface] = struct{}{}
		ifaces = append(ifaces, iface)

		if s := c.Resolve(iface); s != nil {
			pending = append(pending, s.Interfaces...)
		}
	}

	return append(bases, ifaces...)
}

// InheritsFrom reports whether base is a strict base class of the type.
func (c *Cache) InheritsFrom(name, base string) bool {
	if c.Resolve(name) == nil || c.Resolve(base) == nil {
		return false
	}

	base = Definition(base)
	for s, seen := c.Resolve(name), 0; s != nil && s.Base != "" && seen < 64; seen++ {
		if Definition(s.Base) == base {
			return true
		}

		s = c.Resolve(s.Base)
	}

	return false
}

// Implements reports whether the type implements the interface, directly or through a base.
func (c *Cache) Implements(name, iface string) bool {
	target := c.Resolve(iface)
	if c.Resolve(name) == nil || target == nil || target.Kind != KindInterface {
		return false
	}

	return slices.Contains(c.Supertypes(name), Definition(iface))
}

// IsOrDerivesFrom reports whether the type is target or inherits from or implements it.
func (c *Cache) IsOrDerivesFrom(name, target string) bool {
	if c.Resolve(name) == nil || c.Resolve(target) == nil {
		return false
	}

	return Definition(name) == Definition(target) || slices.Contains(c.Supertypes(name), Definition(target))
}

// Scope describes the point of use for member lookup.
type Scope struct {
	// Namespace is the dotted name of the innermost enclosing namespace.
	Namespace string

	// Imports are the namespaces imported by the compilation unit.
	Imports []string
}

// Sees reports whether declarations of namespace ns are in scope.
func (s Scope) Sees(ns string) bool {
	return ns == "" ||
		ns == s.Namespace ||
		strings.HasPrefix(s.Namespace, ns+".") ||
		slices.Contains(s.Imports, ns)
}

// HasAccessibleMember reports whether a member with the given name can be found
// on the type at the point of use: declared on the type or one of its supertypes,
// or an extension method in scope extending any of them.
func (c *Cache) HasAccessibleMember(name, member string, scope Scope) bool {
	s := c.Resolve(name)
	if s == nil {
		return false
	}

	if slices.Contains(s.Members, member) {
		return true
	}

	supers := c.Supertypes(name)
	for _, super := range supers {
		if t := c.Resolve(super); t != nil && slices.Contains(t.Members, member) {
			return true
		}
	}

	def := Definition(name)
	for _, ext := range c.extensionMethods(member) {
		if !scope.Sees(ext.Namespace) {
			continue
		}

		receiver := Definition(ext.Receiver)
		if receiver == def || slices.Contains(supers, receiver) {
			return true
		}
	}

	return false
}

func (c *Cache) extensionMethods(name string) []*Symbol {
	if v, ok := c.extensions.Load(name); ok {
		return v.([]*Symbol)
	}

	v, _ := c.extensions.LoadOrStore(name, c.source.ExtensionMethods(name))

	return v.([]*Symbol)
}

// HasAttribute reports whether the symbol carries an attribute of the given
// type or of a type derived from it.
func (c *Cache) HasAttribute(s *Symbol, attr string) bool {
	if s == nil {
		return false
	}

	for _, a := range s.Attributes {
		if Definition(a) == Definition(attr) || c.InheritsFrom(a, attr) {
			return true
		}
	}

	return false
}
