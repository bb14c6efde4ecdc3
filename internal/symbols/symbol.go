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

// Package symbols resolves qualified names to symbols and answers capability
// queries on them: inheritance, interface implementation and member lookup.
package symbols

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a symbol.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindClass
	KindStruct
	KindInterface
	KindMethod
	KindProperty
	KindField
)

var kindNames = [...]string{"unknown", "class", "struct", "interface", "method", "property", "field"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)

			return nil
		}
	}

	return fmt.Errorf("unknown symbol kind %q", text)
}

// IsType reports whether the symbol declares a type.
func (k Kind) IsType() bool { return k == KindClass || k == KindStruct || k == KindInterface }

// Symbol describes a declared type or member.
//
// Types are named by their qualified definition name; generic definitions carry
// their arity, as in "System.Threading.Tasks.Task`1".
type Symbol struct {
	Name       string   `yaml:"name"                 msgpack:"name"`
	Kind       Kind     `yaml:"kind"                 msgpack:"kind"`
	Base       string   `yaml:"base,omitempty"       msgpack:"base,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	Members    []string `yaml:"members,omitempty"    msgpack:"members,omitempty"`
	Attributes []string `yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`

	// Namespace is the namespace declaring the symbol or its containing type.
	Namespace string `yaml:"namespace,omitempty" msgpack:"namespace,omitempty"`

	// Receiver is the extended type of an extension method.
	Receiver string `yaml:"receiver,omitempty" msgpack:"receiver,omitempty"`
}

// IsExtension reports whether the symbol is an extension method.
func (s *Symbol) IsExtension() bool { return s != nil && s.Kind == KindMethod && s.Receiver != "" }

// SimpleName returns the last component of the qualified name, without arity.
func (s *Symbol) SimpleName() string {
	name := s.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}

	return name
}

// Definition maps a constructed type name to its generic definition name.
//
//	Definition("System.Threading.Tasks.Task<System.Int32>") == "System.Threading.Tasks.Task`1"
//
// Names without type arguments are returned unchanged.
func Definition(name string) string {
	open := strings.IndexByte(name, '<')
	if open < 0 || !strings.HasSuffix(name, ">") {
		return name
	}

	arity, depth := 1, 0

	for _, r := range name[open+1 : len(name)-1] {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				arity++
			}
		}
	}

	return name[:open] + "`" + strconv.Itoa(arity)
}

// TypeArguments returns the top level type arguments of a constructed type name.
func TypeArguments(name string) []string {
	open := strings.IndexByte(name, '<')
	if open < 0 || !strings.HasSuffix(name, ">") {
		return nil
	}

	var (
		args  []string
		depth int
		start = open + 1
	)

	inner := name[:len(name)-1]
	for i := start; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}

	return append(args, strings.TrimSpace(inner[start:]))
}
