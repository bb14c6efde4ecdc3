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

package dispatch_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"fillmore-labs.com/awaitguard/internal/config"
	. "fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/testsource"
	"fillmore-labs.com/awaitguard/internal/tree"
)

func testUnit() *tree.Unit {
	body := tree.New(tree.KindBlock, "",
		tree.New(tree.KindExprStmt, "", tree.New(tree.KindAwait, "", tree.New(tree.KindIdentifier, "a"))),
		tree.New(tree.KindExprStmt, "", tree.New(tree.KindAwait, "", tree.New(tree.KindIdentifier, "b"))),
	)
	method := tree.New(tree.KindMethodDecl, "M",
		tree.New(tree.KindTypeRef, "Task"), tree.New(tree.KindParameterList, ""), body)
	root := tree.New(tree.KindCompilationUnit, "",
		tree.New(tree.KindNamespace, "App", tree.New(tree.KindTypeDecl, "C", method)))

	return tree.NewUnit(tree.UnitInfo{Path: "src/a.cs"}, tree.AssignSpans(root))
}

func awaitRule(id string, flag config.RuleFlags, run func(*Pass)) *Rule {
	return &Rule{
		ID:       id,
		Name:     strings.ToLower(id),
		Severity: report.SeverityInfo,
		Enabled:  true,
		Flag:     flag,
		Kinds:    []tree.Kind{tree.KindAwait},
		Run:      run,
	}
}

func reportOperand(p *Pass) {
	p.Report(p.Node().Span(), map[string]string{"mode": p.ReportMode().String()}, "await %s", p.Node().Operand().Text())
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	r := MustRegistry(awaitRule("R1", config.ConfigureAwaitRule, reportOperand))
	u := testUnit()

	env := &Env{Unit: u, Rules: r.DefaultRules(), Report: config.Always}

	got, err := r.Dispatch(t.Context(), env, u.Cursor())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Got %d diagnostics, expected 2", len(got))
	}

	for i, want := range []string{"await a", "await b"} {
		d := got[i]
		if d.Message != want || d.RuleID != "R1" || d.Path != "src/a.cs" || d.Severity != report.SeverityInfo {
			t.Errorf("Unexpected diagnostic %d: %+v", i, d)
		}

		if mode := d.Properties["mode"]; mode != "always" {
			t.Errorf("Got mode %q, expected always", mode)
		}
	}
}

func TestPanicIsolation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	panicking := awaitRule("R0", config.NamespaceRule, func(p *Pass) {
		if p.Node().Operand().Text() == "a" {
			p.Report(p.Node().Span(), nil, "lost")
			panic("boom")
		}
	})

	r := MustRegistry(panicking, awaitRule("R1", config.ConfigureAwaitRule, reportOperand))
	u := testUnit()

	env := &Env{
		Unit:   u,
		Rules:  r.DefaultRules(),
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}

	got, err := r.Dispatch(t.Context(), env, u.Cursor())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(got) != 2 {
		t.Errorf("Got %d diagnostics, expected 2 from the healthy rule", len(got))
	}

	for _, d := range got {
		if d.RuleID != "R1" {
			t.Errorf("Unexpected diagnostic from %s", d.RuleID)
		}
	}

	if log := buf.String(); !strings.Contains(log, "rule=R0") || !strings.Contains(log, "panic=boom") {
		t.Errorf("Expected panic to be logged, got %q", log)
	}
}

func TestCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	r := MustRegistry(awaitRule("R1", config.ConfigureAwaitRule, func(p *Pass) {
		reportOperand(p)
		cancel()
	}))
	u := testUnit()

	got, err := r.Dispatch(ctx, &Env{Unit: u, Rules: r.DefaultRules()}, u.Cursor())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Got error %v, expected %v", err, context.Canceled)
	}

	if got != nil {
		t.Errorf("Expected partial results to be discarded, got %v", got)
	}
}

func TestCancellationInLastHandler(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	r := MustRegistry(awaitRule("R1", config.ConfigureAwaitRule, func(p *Pass) {
		reportOperand(p)

		if p.Node().Operand().Text() == "b" {
			cancel()
		}
	}))
	u := testUnit()

	got, err := r.Dispatch(ctx, &Env{Unit: u, Rules: r.DefaultRules()}, u.Cursor())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Got error %v, expected %v", err, context.Canceled)
	}

	if got != nil {
		t.Errorf("Got %d diagnostics, expected findings of a canceled walk to be discarded", len(got))
	}
}

func TestFileSettings(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/.awaitguard.toml": {Data: []byte(`
[rules.r1]
severity = "error"
report = "always"

[rules.R2]
enabled = false
`)},
	}

	settings, err := config.NewLoader(fsys).Settings("src/a.cs")
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}

	r := MustRegistry(
		awaitRule("R1", config.ConfigureAwaitRule, reportOperand),
		awaitRule("R2", config.NamespaceRule, reportOperand),
	)
	u := testUnit()

	env := &Env{Unit: u, Settings: settings, Rules: r.DefaultRules(), Report: config.DetectContext}

	got, err := r.Dispatch(t.Context(), env, u.Cursor())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Got %d diagnostics, expected 2", len(got))
	}

	for _, d := range got {
		if d.RuleID != "R1" || d.Severity != report.SeverityError || d.Properties["mode"] != "always" {
			t.Errorf("Unexpected diagnostic %+v", d)
		}
	}
}

func TestDisabledByOptions(t *testing.T) {
	t.Parallel()

	r := MustRegistry(awaitRule("R1", config.ConfigureAwaitRule, reportOperand))
	u := testUnit()

	got, err := r.Dispatch(t.Context(), &Env{Unit: u}, u.Cursor())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Expected no diagnostics from disabled rule, got %d", len(got))
	}
}

func TestDispatchNode(t *testing.T) {
	t.Parallel()

	r := MustRegistry(awaitRule("R1", config.ConfigureAwaitRule, reportOperand))
	u := testUnit()
	env := &Env{Unit: u, Rules: r.DefaultRules()}

	got, err := r.DispatchNode(t.Context(), env, u.Cursor())
	if err != nil || len(got) != 0 {
		t.Errorf("DispatchNode(root) = %v, %v; want no diagnostics", got, err)
	}

	got, err = r.DispatchNode(t.Context(), env, testsource.Nth(t, u, tree.KindAwait, 0))
	if err != nil || len(got) != 1 {
		t.Errorf("DispatchNode(await) = %v, %v; want one diagnostic", got, err)
	}
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	run := func(*Pass) {}

	tests := []struct {
		name  string
		rules []*Rule
		want  error
	}{
		{"NoKinds", []*Rule{{ID: "R1", Run: run}}, ErrInvalidRule},
		{"NoHandler", []*Rule{{ID: "R1", Kinds: []tree.Kind{tree.KindAwait}}}, ErrInvalidRule},
		{"InvalidKind", []*Rule{{ID: "R1", Run: run, Kinds: []tree.Kind{tree.KindInvalid}}}, ErrInvalidRule},
		{"Duplicate", []*Rule{
			{ID: "R1", Run: run, Kinds: []tree.Kind{tree.KindAwait}},
			{ID: "R1", Run: run, Kinds: []tree.Kind{tree.KindForEach}},
		}, ErrDuplicateRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewRegistry(tt.rules...); !errors.Is(err, tt.want) {
				t.Errorf("Got error %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	r1 := awaitRule("R1", config.ConfigureAwaitRule, reportOperand)
	r2 := awaitRule("R2", config.NamespaceRule, reportOperand)
	r2.Kinds = append(r2.Kinds, tree.KindForEach, tree.KindAwait)

	r := MustRegistry(r1, r2)

	if got := r.Handlers(tree.KindAwait); len(got) != 2 || got[0] != r1 || got[1] != r2 {
		t.Errorf("Unexpected handlers for await: %v", got)
	}

	if got := r.Handlers(tree.KindForEach); len(got) != 1 || got[0] != r2 {
		t.Errorf("Unexpected handlers for foreach: %v", got)
	}

	if rule, ok := r.Rule("r2"); !ok || rule != r2 {
		t.Errorf("Rule(r2) = %v, %t", rule, ok)
	}
}
