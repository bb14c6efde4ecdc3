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

package testsource

import (
	"slices"
	"strings"

	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/unitfile"
)

func namespaceOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}

	return ""
}

// ClassSymbol builds a class symbol.
func ClassSymbol(name, base string, ifaces ...string) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: symbols.KindClass, Base: base, Interfaces: ifaces, Namespace: namespaceOf(name)}
}

// StructSymbol builds a struct symbol with members.
func StructSymbol(name string, members ...string) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: symbols.KindStruct, Members: members, Namespace: namespaceOf(name)}
}

// InterfaceSymbol builds an interface symbol.
func InterfaceSymbol(name string, ifaces ...string) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: symbols.KindInterface, Interfaces: ifaces, Namespace: namespaceOf(name)}
}

// MethodSymbol builds a method symbol carrying attributes.
func MethodSymbol(name string, attrs ...string) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: symbols.KindMethod, Attributes: attrs, Namespace: namespaceOf(namespaceOf(name))}
}

// ExtensionSymbol builds an extension method declared in a static class.
func ExtensionSymbol(name, receiver string) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: symbols.KindMethod, Receiver: receiver, Namespace: namespaceOf(namespaceOf(name))}
}

// Prelude returns the platform symbols available to test compilations.
func Prelude() []*symbols.Symbol {
	syms, err := unitfile.Platform()
	if err != nil {
		panic(err)
	}

	return syms
}

// PreludeWithout returns the prelude lacking the named symbols.
func PreludeWithout(names ...string) []*symbols.Symbol {
	return slices.DeleteFunc(Prelude(), func(s *symbols.Symbol) bool {
		return slices.Contains(names, s.Name)
	})
}

// Symbols builds a resolution cache over the prelude and the extra symbols.
func Symbols(extra ...*symbols.Symbol) *symbols.Cache {
	return symbols.NewCache(symbols.NewTable(append(Prelude(), extra...)...))
}
