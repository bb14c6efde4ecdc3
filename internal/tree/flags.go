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
	"fmt"
	"iter"
	"math/bits"
)

// Flags carry modifiers and operation facts attached to a node.
type Flags uint32

const (
	// FlagAsync marks asynchronous functions and lambdas.
	FlagAsync Flags = 1 << iota

	// FlagStatic marks static declarations.
	FlagStatic

	// FlagAwait marks asynchronous iteration and asynchronous resource acquisition.
	FlagAwait

	// FlagUsing marks local declarations that acquire resources.
	FlagUsing

	// FlagImplicit marks compiler-inserted conversions.
	FlagImplicit

	// FlagConstant marks expressions with a compile-time constant value.
	FlagConstant

	// FlagLocal marks identifiers referencing a local variable.
	FlagLocal

	// FlagParameter marks identifiers referencing a parameter.
	FlagParameter

	// FlagRef marks by-reference parameters and arguments.
	FlagRef

	// FlagOut marks output parameters and arguments.
	FlagOut

	// FlagParams marks variadic parameters.
	FlagParams

	// FlagThis marks the receiver parameter of extension methods.
	FlagThis

	// FlagDefault marks the default label of a switch section.
	FlagDefault

	// FlagInterface marks interface declarations.
	FlagInterface

	// FlagStruct marks value type declarations.
	FlagStruct
)

var flagNames = [...]string{
	"async", "static", "await", "using", "implicit", "constant", "local", "parameter",
	"ref", "out", "params", "this", "default", "interface", "struct",
}

// ParseFlag returns the flag named s.
func ParseFlag(s string) (Flags, error) {
	for i, name := range flagNames {
		if name == s {
			return 1 << i, nil
		}
	}

	return 0, fmt.Errorf("unknown flag %q", s)
}

// Has reports whether all flags in f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Names yields the names of all set flags, lowest bit first.
func (fl Flags) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for v := uint32(fl); v != 0; v &= v - 1 {
			i := bits.TrailingZeros32(v)
			if i >= len(flagNames) {
				return
			}

			if !yield(flagNames[i]) {
				return
			}
		}
	}
}
