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

package rewrite_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	. "fillmore-labs.com/awaitguard/internal/rewrite"
	"fillmore-labs.com/awaitguard/internal/rules/configureawait"
	"fillmore-labs.com/awaitguard/internal/rules/namespaces"
	"fillmore-labs.com/awaitguard/internal/rules/validation"
	"fillmore-labs.com/awaitguard/internal/symbols"
	. "fillmore-labs.com/awaitguard/internal/testsource"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const resource = "App.Resource"

func workerSymbols() *symbols.Cache {
	return Symbols(
		ClassSymbol("App.Worker", "System.Object"),
		MethodSymbol("App.Worker.RunAsync"),
		ClassSymbol(resource, "System.Object", AsyncDisposable),
	)
}

func worker(params *tree.Node, stmts ...*tree.Node) *tree.Unit {
	return Unit(Namespace("App", Class("App.Worker", AsyncMethod("App.Worker.RunAsync", Task, params, stmts...))))
}

func load() *tree.Node { return Invoke("App.Worker.LoadAsync", Task) }

func analyze(t *testing.T, u *tree.Unit, cache *symbols.Cache) []report.Diagnostic {
	t.Helper()

	r := dispatch.MustRegistry(configureawait.New(), validation.New(), namespaces.New())
	env := &dispatch.Env{Unit: u, Symbols: cache, Rules: r.DefaultRules()}

	got, err := r.Dispatch(t.Context(), env, u.Cursor())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	return report.Sort(got)
}

func TestAddConfigureAwait(t *testing.T) {
	t.Parallel()

	items := Invoke("App.Worker.Items", Of(AsyncEnumerable, Int))

	tests := []struct {
		name string
		stmt *tree.Node
		want string
	}{
		{"Await", Expr(Await(load())), "await LoadAsync().ConfigureAwait(false);"},
		{"ForEach", AwaitForEach(Int, "x", items, Block()), "await foreach (Int32 x in Items().ConfigureAwait(false))"},
		{"Using", AwaitUsing(NewObject(resource), Block()), "await using (new Resource().ConfigureAwait(false))"},
		{"Declarator", AwaitUsingDecl(resource, Declarator("r", resource, NewObject(resource))),
			"await using var r = new Resource().ConfigureAwait(false);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := worker(nil, tt.stmt)
			cache := workerSymbols()

			ds := analyze(t, u, cache)
			if len(ds) != 1 {
				t.Fatalf("Got %d diagnostics, expected 1", len(ds))
			}

			got, err := NewFixer(nil).Fix(t.Context(), u, cache, ds[0])
			if err != nil {
				t.Fatalf("Fix failed: %v", err)
			}

			if printed := tree.Print(got.Root()); !strings.Contains(printed, tt.want) {
				t.Errorf("Got:\n%s\nexpected to contain %q", printed, tt.want)
			}

			if again := analyze(t, got, cache); len(again) != 0 {
				t.Errorf("Got %d diagnostics after fix, expected none", len(again))
			}
		})
	}
}

func TestFixAll(t *testing.T) {
	t.Parallel()

	u := worker(nil,
		Expr(Await(load())),
		AwaitUsingDecl(resource,
			Declarator("a", resource, NewObject(resource)),
			Declarator("b", resource, NewObject(resource))),
		Expr(Await(load())),
	)
	cache := workerSymbols()

	ds := analyze(t, u, cache)
	if len(ds) != 4 {
		t.Fatalf("Got %d diagnostics, expected 4", len(ds))
	}

	got, res, err := NewFixer(nil).FixAll(t.Context(), u, cache, ds)
	if err != nil {
		t.Fatalf("FixAll failed: %v", err)
	}

	if res.Applied != 4 || res.Skipped != 0 {
		t.Errorf("Got %+v, expected 4 applied", res)
	}

	if again := analyze(t, got, cache); len(again) != 0 {
		t.Errorf("Got %d diagnostics after batch fix, expected none", len(again))
	}

	const group = "await using System.Runtime.CompilerServices.ConfiguredAsyncDisposable a = new Resource().ConfigureAwait(false), b = new Resource().ConfigureAwait(false);"
	if printed := tree.Print(got.Root()); !strings.Contains(printed, group) {
		t.Errorf("Got:\n%s\nexpected to contain %q", printed, group)
	}

	// fixing one at a time gives the same tree; the first declarator fixes the group
	seq := u
	for _, d := range ds {
		next, err := NewFixer(nil).Fix(t.Context(), seq, cache, d)
		switch {
		case errors.Is(err, ErrNotApplicable):
			continue

		case err != nil:
			t.Fatalf("Fix failed: %v", err)
		}

		seq = next
	}

	if a, b := tree.Print(got.Root()), tree.Print(seq.Root()); a != b {
		t.Errorf("Got batch result:\n%s\nexpected sequential result:\n%s", a, b)
	}
}

func TestConfigureDeclaration(t *testing.T) {
	t.Parallel()

	u := worker(nil, AwaitUsingDecl(resource, Declarator("r", resource, NewObject(resource))))
	cache := workerSymbols()

	ds := analyze(t, u, cache)
	if len(ds) != 1 {
		t.Fatalf("Got %d diagnostics, expected 1", len(ds))
	}

	got, err := NewFixer(nil).Fix(t.Context(), u, cache, ds[0])
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}

	decl := Nth(t, got, tree.KindLocalDecl, 0).Node()

	if typ := decl.Child(0); typ.Text() != "var" || typ.Type() != ConfiguredAsyncDisposable {
		t.Errorf("Got declared type %q (%s), expected var (%s)", typ.Text(), typ.Type(), ConfiguredAsyncDisposable)
	}

	for _, d := range decl.Declarators() {
		if d.Type() != ConfiguredAsyncDisposable || d.Operand().Type() != ConfiguredAsyncDisposable {
			t.Errorf("Got declarator %s of type %s initialized with %s, expected %s",
				d.Text(), d.Type(), d.Operand().Type(), ConfiguredAsyncDisposable)
		}
	}
}

func TestConfigureDeclarationReferenced(t *testing.T) {
	t.Parallel()

	u := worker(nil,
		AwaitUsingDecl(resource, Declarator("r", resource, NewObject(resource))),
		Expr(Invoke("App.Worker.Use", Void, Var("r", resource))),
	)
	cache := workerSymbols()

	ds := analyze(t, u, cache)
	if len(ds) != 1 {
		t.Fatalf("Got %d diagnostics, expected 1", len(ds))
	}

	got, err := NewFixer(nil).Fix(t.Context(), u, cache, ds[0])
	if !errors.Is(err, ErrNotApplicable) || got != u {
		t.Errorf("Got error %v, expected %v with unchanged unit", err, ErrNotApplicable)
	}
}

func TestConfiguredResultType(t *testing.T) {
	t.Parallel()

	items := Invoke("App.Worker.Items", Of(AsyncEnumerable, Int))
	u := worker(nil, AwaitForEach(Int, "x", items, Block()))
	cache := workerSymbols()

	ds := analyze(t, u, cache)
	if len(ds) != 1 {
		t.Fatalf("Got %d diagnostics, expected 1", len(ds))
	}

	got, err := NewFixer(nil).Fix(t.Context(), u, cache, ds[0])
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}

	want := Of(ConfiguredCancelableStream, Int)
	if typ := Nth(t, got, tree.KindForEach, 0).Node().Collection().Type(); typ != want {
		t.Errorf("Got collection type %s, expected %s", typ, want)
	}
}

func TestFixAllOverlapping(t *testing.T) {
	t.Parallel()

	check := If(Binary("==", ParamRef("name", String), Lit("null", String), Bool),
		Throw(NewObject("System.ArgumentNullException", Lit(`"name"`, String))))

	u := worker(Params(Param("name", String)), check, Expr(Await(load())))
	cache := workerSymbols()

	ds := analyze(t, u, cache)
	if len(ds) != 2 || ds[0].RuleID != validation.ID || ds[1].RuleID != configureawait.ID {
		t.Fatalf("Got %v, expected validation and configure await diagnostics", ds)
	}

	f := NewFixer(nil)

	got, res, err := f.FixAll(t.Context(), u, cache, ds)
	if err != nil {
		t.Fatalf("FixAll failed: %v", err)
	}

	if res.Applied != 1 || res.Skipped != 1 {
		t.Errorf("Got %+v, expected one applied and one skipped", res)
	}

	// the skipped fix applies in the next round
	again := analyze(t, got, cache)
	if len(again) != 1 || again[0].RuleID != configureawait.ID {
		t.Fatalf("Got %v after first round, expected the configure await diagnostic", again)
	}

	final, res, err := f.FixAll(t.Context(), got, cache, again)
	if err != nil || res.Applied != 1 {
		t.Fatalf("Got %+v, %v in second round, expected one applied", res, err)
	}

	if rest := analyze(t, final, cache); len(rest) != 0 {
		t.Errorf("Got %d diagnostics after two rounds, expected none", len(rest))
	}
}

func TestNoFix(t *testing.T) {
	t.Parallel()

	u := Unit(Class("Program"))
	cache := Symbols()

	ds := analyze(t, u, cache)
	if len(ds) != 1 || ds[0].RuleID != namespaces.ID {
		t.Fatalf("Got %v, expected namespace diagnostic", ds)
	}

	f := NewFixer(nil)
	if f.CanFix(namespaces.ID) {
		t.Errorf("Expected no fix for %s", namespaces.ID)
	}

	if _, err := f.Fix(t.Context(), u, cache, ds[0]); !errors.Is(err, ErrNoFix) {
		t.Errorf("Got error %v, expected %v", err, ErrNoFix)
	}

	got, res, err := f.FixAll(t.Context(), u, cache, ds)
	if err != nil || got != u || res.Skipped != 1 {
		t.Errorf("Got %+v, %v, expected unchanged unit with one skipped", res, err)
	}
}

func TestCommit(t *testing.T) {
	t.Parallel()

	u := worker(nil, Expr(Await(load())))
	cache := workerSymbols()
	ds := analyze(t, u, cache)

	doc := tree.NewDocument(u)

	res, err := NewFixer(nil).Commit(t.Context(), doc, cache, ds)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.Applied != 1 || doc.Load() == u {
		t.Errorf("Got %+v, expected a committed fix", res)
	}
}

func TestCommitStale(t *testing.T) {
	t.Parallel()

	u := worker(nil, Expr(Await(load())))
	cache := workerSymbols()
	ds := analyze(t, u, cache)

	doc := tree.NewDocument(u)
	concurrent := u.WithRoot(u.Root())

	f := NewFixer(nil)
	f.Register(configureawait.ID, func(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.EditPlan, error) {
		doc.Commit(u, concurrent)

		return PlanAddConfigureAwait(ctx, u, cache, d)
	})

	if _, err := f.Commit(t.Context(), doc, cache, ds); !errors.Is(err, ErrStale) {
		t.Errorf("Got error %v, expected %v", err, ErrStale)
	}

	if doc.Load() != concurrent {
		t.Error("Expected the concurrent snapshot to be kept")
	}
}

func TestFixAllCanceled(t *testing.T) {
	t.Parallel()

	u := worker(nil, Expr(Await(load())))
	cache := workerSymbols()
	ds := analyze(t, u, cache)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got, _, err := NewFixer(nil).FixAll(ctx, u, cache, ds)
	if !errors.Is(err, context.Canceled) || got != u {
		t.Errorf("Got error %v, expected %v with unchanged unit", err, context.Canceled)
	}
}
