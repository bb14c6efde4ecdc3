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

import "strconv"

// Pos is a byte offset into the source of a compilation unit.
type Pos int32

// NoPos marks synthesized nodes without a source location.
const NoPos Pos = -1

// IsValid reports whether the position refers to source text.
func (p Pos) IsValid() bool { return p >= 0 }

// Span is the half-open source range [Start, End) of a node.
type Span struct {
	Start, End Pos
}

// NoSpan is the span of synthesized nodes.
var NoSpan = Span{Start: NoPos, End: NoPos}

// IsValid reports whether both ends of the span refer to source text.
func (s Span) IsValid() bool { return s.Start.IsValid() && s.End >= s.Start }

// Contains reports whether the span encloses o.
func (s Span) Contains(o Span) bool {
	return s.IsValid() && o.IsValid() && s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether the spans share at least one position.
func (s Span) Overlaps(o Span) bool {
	return s.IsValid() && o.IsValid() && s.Start < o.End && o.Start < s.End
}

// Compare orders spans by start, then by descending length, so enclosing spans sort first.
func (s Span) Compare(o Span) int {
	switch {
	case s.Start != o.Start:
		return int(s.Start - o.Start)

	default:
		return int(o.End - s.End)
	}
}

func (s Span) String() string {
	if !s.IsValid() {
		return "[-]"
	}

	return "[" + strconv.Itoa(int(s.Start)) + "," + strconv.Itoa(int(s.End)) + ")"
}
