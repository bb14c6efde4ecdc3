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

package tree_test

import (
	"errors"
	"testing"

	. "fillmore-labs.com/awaitguard/internal/tree"
)

func TestApply(t *testing.T) {
	t.Parallel()

	u := sample()
	await := first(u, KindAwait)
	decl := first(u, KindLocalDecl)

	var plan EditPlan
	plan.Replace(await, call("Replaced"))

	got, err := u.Apply(&plan)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got == u || got.Root() == u.Root() {
		t.Fatal("Expected a new snapshot")
	}

	if first(u, KindAwait) == nil {
		t.Error("Expected the original snapshot unchanged")
	}

	if first(got, KindAwait) != nil {
		t.Error("Expected the await replaced")
	}

	if after := first(got, KindLocalDecl); after.Node() != decl.Node() {
		t.Error("Expected untouched subtrees to be shared")
	}

	if got.Path() != u.Path() {
		t.Errorf("Got path %q, expected %q", got.Path(), u.Path())
	}
}

func TestApplyEmpty(t *testing.T) {
	t.Parallel()

	u := sample()

	if got, err := u.Apply(&EditPlan{}); err != nil || got != u {
		t.Errorf("Got %v, %v, expected the unit unchanged", got, err)
	}
}

func TestApplyConflict(t *testing.T) {
	t.Parallel()

	u := sample()
	await := first(u, KindAwait)

	var plan EditPlan
	plan.Replace(await, call("X"))
	plan.Replace(await.Parent(), stmt(call("Y")))

	got, err := u.Apply(&plan)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Got error %v, expected %v", err, ErrConflict)
	}

	if got != u {
		t.Error("Expected the unit unchanged on conflict")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	u := sample()
	await := first(u, KindAwait)
	decl := first(u, KindLocalDecl)

	var a, b, c EditPlan
	a.Replace(await, call("X"))
	b.Replace(decl, stmt(call("Y")))
	c.Replace(await.Parent(), stmt(call("Z")))

	if !a.Merge(&b) || a.Len() != 2 {
		t.Errorf("Got %d replacements, expected disjoint plans merged", a.Len())
	}

	if a.Merge(&c) || a.Len() != 2 {
		t.Errorf("Got %d replacements, expected overlapping plan rejected", a.Len())
	}

	if !a.Merge(nil) {
		t.Error("Expected an empty plan to merge")
	}

	if _, err := u.Apply(&a); err != nil {
		t.Errorf("Apply failed: %v", err)
	}
}

func TestMergeIdentical(t *testing.T) {
	t.Parallel()

	u := sample()
	await := first(u, KindAwait)

	var a, b, c EditPlan
	a.Replace(await, call("X"))
	b.Replace(await, call("X"))
	c.Replace(await, call("Y"))

	if !a.Merge(&b) || a.Len() != 1 {
		t.Errorf("Got %d replacements, expected identical replacement merged once", a.Len())
	}

	if a.Merge(&c) || a.Len() != 1 {
		t.Errorf("Got %d replacements, expected differing replacement of the same node rejected", a.Len())
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	u := sample()
	root := u.Root()

	if !Equal(root, AssignSpans(root)) {
		t.Error("Expected renumbering a numbered tree to be equal")
	}

	if Equal(root, root.WithLeading("// x\n")) {
		t.Error("Expected differing trivia to be unequal")
	}

	if Equal(call("X"), call("Y")) || !Equal(call("X"), call("X")) {
		t.Error("Expected equality by structure")
	}
}

func TestAssignSpans(t *testing.T) {
	t.Parallel()

	u := sample()

	seen := make(map[Pos]bool)

	_ = u.Cursor().Inspect(t.Context(), func(c *Cursor) bool {
		span := c.Node().Span()
		if !span.IsValid() {
			t.Errorf("Got invalid span at %v", c.Path())
		}

		if seen[span.Start] {
			t.Errorf("Got duplicate start %d at %v", span.Start, c.Path())
		}

		seen[span.Start] = true

		if p := c.Parent(); p != nil && !p.Node().Span().Contains(span) {
			t.Errorf("Got span %s outside parent %s", span, p.Node().Span())
		}

		return true
	})
}

func TestDocument(t *testing.T) {
	t.Parallel()

	u := sample()
	doc := NewDocument(u)

	next := u.WithRoot(u.Root())
	if !doc.Commit(u, next) {
		t.Fatal("Expected commit to succeed")
	}

	if doc.Commit(u, u.WithRoot(u.Root())) {
		t.Error("Expected commit on a stale base to fail")
	}

	if doc.Load() != next {
		t.Error("Expected the first commit to be kept")
	}
}
