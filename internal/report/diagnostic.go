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

// Package report defines diagnostics and their properties.
package report

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"fortio.org/safecast"

	"fillmore-labs.com/awaitguard/internal/tree"
)

// Property keys and values understood by fixes.
const (
	// PropKind distinguishes suspension point kinds for message formatting.
	PropKind = "kind"

	// PropIndex holds the decimal source offset used as split anchor by extraction fixes.
	PropIndex = "Index"

	KindForEach = "foreach"
	KindUsing   = "using"
)

// Diagnostic is a finding of a rule.
type Diagnostic struct {
	RuleID     string            `yaml:"rule"                 msgpack:"rule"`
	Severity   Severity          `yaml:"severity"             msgpack:"severity"`
	Path       string            `yaml:"path,omitempty"       msgpack:"path,omitempty"`
	Span       tree.Span         `yaml:"span"                 msgpack:"span"`
	Message    string            `yaml:"message"              msgpack:"message"`
	Properties map[string]string `yaml:"properties,omitempty" msgpack:"properties,omitempty"`
}

// Property returns the value of a property.
func (d Diagnostic) Property(key string) (string, bool) {
	v, ok := d.Properties[key]

	return v, ok
}

// Index returns the split anchor of the diagnostic.
func (d Diagnostic) Index() (tree.Pos, error) {
	v, ok := d.Properties[PropIndex]
	if !ok {
		return tree.NoPos, fmt.Errorf("diagnostic %s has no %s property", d.RuleID, PropIndex)
	}

	return ParseIndex(v)
}

// FormatIndex renders a source offset as a property value.
func FormatIndex(p tree.Pos) string {
	return strconv.FormatInt(int64(p), 10)
}

// ParseIndex parses a property value produced by [FormatIndex].
func ParseIndex(s string) (tree.Pos, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return tree.NoPos, fmt.Errorf("invalid index %q: %w", s, err)
	}

	p, err := safecast.Conv[int32](v)
	if err != nil {
		return tree.NoPos, fmt.Errorf("index %d out of range: %w", v, err)
	}

	if p < 0 {
		return tree.NoPos, fmt.Errorf("negative index %d", p)
	}

	return tree.Pos(p), nil
}

// Format renders the diagnostic with a position resolved in the unit.
func (d Diagnostic) Format(u *tree.Unit) string {
	line, col := u.Position(d.Span.Start)

	return fmt.Sprintf("%s:%d:%d: %s %s: %s", d.Path, line, col, d.Severity, d.RuleID, d.Message)
}

// Compare orders diagnostics by path, position, then rule.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		a.Span.Compare(b.Span),
		cmp.Compare(a.RuleID, b.RuleID),
		cmp.Compare(a.Message, b.Message),
	)
}

// Sort orders diagnostics deterministically and removes exact duplicates.
func Sort(ds []Diagnostic) []Diagnostic {
	slices.SortFunc(ds, Compare)

	return slices.CompactFunc(ds, func(a, b Diagnostic) bool {
		return Compare(a, b) == 0 && maps.Equal(a.Properties, b.Properties)
	})
}
