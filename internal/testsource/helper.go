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

// Package testsource provides utilities for building and inspecting compilation units in tests.
//
// It is designed to simplify testing of the awaitguard rules by handling common
// boilerplate code for constructing typed trees and symbol tables.
package testsource

import (
	"context"
	"testing"

	"fillmore-labs.com/awaitguard/internal/tree"
)

// All returns the cursors of the given kind in the unit, including nested functions, in preorder.
func All(u *tree.Unit, kind tree.Kind) []*tree.Cursor {
	var found []*tree.Cursor

	_ = u.Cursor().Inspect(context.Background(), func(c *tree.Cursor) bool {
		if c.Node().Kind() == kind {
			found = append(found, c)
		}

		return true
	})

	return found
}

// Nth returns the i-th cursor of the given kind in the unit.
func Nth(tb testing.TB, u *tree.Unit, kind tree.Kind, i int) *tree.Cursor {
	tb.Helper()

	found := All(u, kind)
	if i >= len(found) {
		tb.Fatalf("Can't find %s #%d, only %d present", kind, i, len(found))
	}

	return found[i]
}

// Named returns the first cursor of the given kind with the given text.
func Named(tb testing.TB, u *tree.Unit, kind tree.Kind, text string) *tree.Cursor {
	tb.Helper()

	for _, c := range All(u, kind) {
		if c.Node().Text() == text {
			return c
		}
	}

	tb.Fatalf("Can't find %s %q", kind, text)

	return nil
}
