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
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "fillmore-labs.com/awaitguard/internal/tree"
)

func TestPath(t *testing.T) {
	t.Parallel()

	u := sample()

	await := first(u, KindAwait)
	if await == nil {
		t.Fatal("Expected an await expression")
	}

	// CompilationUnit > Namespace > TypeDecl > MethodDecl > Block > ExprStmt > Await
	if diff := cmp.Diff(Path{0, 0, 0, 2, 1, 0}, await.Path()); diff != "" {
		t.Errorf("Path() mismatch (-want +got):\n%s", diff)
	}

	if got := await.EnclosingStatement().Node().Kind(); got != KindExprStmt {
		t.Errorf("Got enclosing statement %s, expected %s", got, KindExprStmt)
	}

	if got := await.EnclosingFunction().Node().Text(); got != "RunAsync" {
		t.Errorf("Got enclosing function %q, expected RunAsync", got)
	}

	if got := await.EnclosingNamespace(); got != "App" {
		t.Errorf("Got namespace %q, expected App", got)
	}
}

func TestPreorderSkipsNestedFunctions(t *testing.T) {
	t.Parallel()

	u := sample()
	fn := first(u, KindMethodDecl)

	var got []string
	for c := range fn.Preorder(KindInvocation) {
		got = append(got, c.Node().Callee().Text())
	}

	if diff := cmp.Diff([]string{"A", "B"}, got); diff != "" {
		t.Errorf("Preorder() mismatch (-want +got):\n%s", diff)
	}

	var all int
	for range fn.Preorder() {
		all++
	}

	// method, type ref, params, block, 2 × (stmt, call, ident), await, local decl, type ref, declarator
	if all != 14 {
		t.Errorf("Got %d nodes, expected 14 without the lambda", all)
	}
}

func TestFindSpan(t *testing.T) {
	t.Parallel()

	u := sample()
	await := first(u, KindAwait)
	span := await.Node().Span()

	found := u.Cursor().FindSpan(span)
	if found == nil || !found.Equal(await) {
		t.Fatalf("Got %v, expected await at %v", found, await.Path())
	}

	if got := u.Cursor().FindKind(span, KindInvocation); got != nil {
		t.Errorf("Got %s, expected no invocation with the await span", got.Node().Kind())
	}

	if got := u.Cursor().FindSpan(NoSpan); got != nil {
		t.Errorf("Got %s for an invalid span, expected none", got.Node().Kind())
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	u := sample()

	var kinds int
	err := u.Cursor().Inspect(t.Context(), func(c *Cursor) bool {
		kinds++

		return c.Node().Kind() != KindLocalDecl
	})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	// unit, namespace, type, method, type ref, params, block, 2 × (stmt, call, ident), await, local decl
	if kinds != 15 {
		t.Errorf("Got %d visited nodes, expected 15", kinds)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = u.Cursor().Inspect(ctx, func(*Cursor) bool { return true })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Got error %v, expected %v", err, context.Canceled)
	}
}
