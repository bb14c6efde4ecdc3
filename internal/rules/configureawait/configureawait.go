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

// Package configureawait reports suspension points that should configure the
// scheduling context with ConfigureAwait(false).
//
// A suspension point is an await expression, an asynchronous foreach loop or an
// asynchronous resource acquisition. The decision for each point is, in order:
//
//  1. The operand type must expose a ConfigureAwait member, otherwise nothing is reported.
//  2. The report mode "always" requires configuration.
//  3. A configured await in the same function that dominates the point requires configuration.
//  4. Points in UI, web or component types and in test methods are exempt.
//  5. Everything else requires configuration.
package configureawait

import (
	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/reachability"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const (
	// ID is the rule identifier.
	ID = "AG0001"

	// Name is the configuration key of the rule.
	Name = "configure-await"

	// Member is the name of the configuration method.
	Member = "ConfigureAwait"
)

// New creates the rule.
func New() *dispatch.Rule {
	return &dispatch.Rule{
		ID:       ID,
		Name:     Name,
		Doc:      "use ConfigureAwait(false) if the current synchronization context is not needed",
		Severity: report.SeverityWarning,
		Enabled:  true,
		Flag:     config.ConfigureAwaitRule,
		Kinds:    []tree.Kind{tree.KindAwait, tree.KindForEach, tree.KindUsing, tree.KindLocalDecl},
		Run:      run,
	}
}

func run(p *dispatch.Pass) {
	a := analysis{
		pass:    p,
		symbols: p.Symbols(),
		scope:   p.Scope(),
	}

	c, n := p.Cursor(), p.Node()

	switch n.Kind() {
	case tree.KindAwait:
		a.await(c)

	case tree.KindForEach:
		if n.Has(tree.FlagAwait) {
			a.forEach(c)
		}

	case tree.KindUsing:
		if n.Has(tree.FlagAwait) {
			a.using(c)
		}

	case tree.KindLocalDecl:
		if n.Has(tree.FlagUsing | tree.FlagAwait) {
			a.declarations(c)
		}
	}
}

// analysis is the state of one handler invocation.
type analysis struct {
	pass    *dispatch.Pass
	symbols *symbols.Cache
	scope   symbols.Scope
	oracle  *reachability.Oracle
}

func (a *analysis) await(c *tree.Cursor) {
	typ := c.Node().Operand().Type()
	if typ == "" || !a.canConfigure(typ) {
		return
	}

	if a.mustConfigure(c) {
		a.report(c, c.Node().Span(), "")
	}
}

func (a *analysis) forEach(c *tree.Cursor) {
	coll := c.Node().Collection()
	actual := unwrapImplicit(coll)

	typ := actual.Type()
	if typ == "" {
		return
	}

	if symbols.Definition(typ) == ConfiguredCancelableAsyncEnumerable {
		// e.ConfigureAwait(false) or e.WithCancellation(ct) on a sequence
		if hasConfigureAwait(coll) && a.hasAsyncEnumerable(coll) {
			return
		}

		// A local of the wrapper type is assumed to be configured
		if actual.Kind() == tree.KindIdentifier && actual.Has(tree.FlagLocal) {
			return
		}
	}

	if !a.canConfigure(typ) {
		return
	}

	if a.mustConfigure(c) {
		a.report(c, coll.Span(), report.KindForEach)
	}
}

func (a *analysis) using(c *tree.Cursor) {
	resource := c.Child(0)
	if resource.Node().Kind() == tree.KindLocalDecl {
		a.declarations(resource)

		return
	}

	typ := resource.Node().Type()
	if typ == "" || !a.canConfigure(typ) {
		return
	}

	if a.mustConfigure(resource) {
		a.report(resource, resource.Node().Span(), report.KindUsing)
	}
}

// declarations checks the declarators of a group in order. The first declarator
// that is already configured or cannot be configured ends the check for the group.
func (a *analysis) declarations(c *tree.Cursor) {
	for i, decl := range c.Node().Children() {
		if decl.Kind() != tree.KindDeclarator {
			continue
		}

		init := decl.Operand()
		if init == nil {
			continue
		}

		typ := unwrapImplicit(init).Type()
		if typ == "" || symbols.Definition(typ) == ConfiguredAsyncDisposable {
			return
		}

		if !a.canConfigure(typ) {
			return
		}

		if d := c.Child(i); a.mustConfigure(d) {
			a.report(d, decl.Span(), report.KindUsing)
		}
	}
}

// canConfigure reports whether ConfigureAwait can be called on a value of the type at the point of use.
func (a *analysis) canConfigure(typ string) bool {
	return a.symbols.HasAccessibleMember(typ, Member, a.scope)
}

func (a *analysis) mustConfigure(point *tree.Cursor) bool {
	if a.pass.ReportMode() == config.Always {
		return true
	}

	if a.hasDominatingMarker(point) {
		return true
	}

	return !a.exempt(point)
}

// hasDominatingMarker reports whether a configured await earlier in the same function dominates the point.
func (a *analysis) hasDominatingMarker(point *tree.Cursor) bool {
	fn := point.EnclosingFunction()
	if fn == nil {
		return false
	}

	start := point.Node().Pos()

	for marker := range fn.Preorder(tree.KindAwait) {
		if marker.Node().Pos() >= start {
			break
		}

		if !a.isConfigured(marker.Node()) {
			continue
		}

		if a.oracle == nil {
			a.oracle = reachability.NewOracle(a.pass.Context())
		}

		if a.oracle.Dominates(marker, point) {
			return true
		}
	}

	return false
}

// isConfigured reports whether an await expression awaits a configured awaitable.
func (a *analysis) isConfigured(await *tree.Node) bool {
	switch symbols.Definition(await.Operand().Type()) {
	case ConfiguredTaskAwaitable, ConfiguredTaskAwaitableOfT,
		ConfiguredValueTaskAwaitable, ConfiguredValueTaskAwaitableOfT:
		return a.symbols.Exists(await.Operand().Type())

	default:
		return false
	}
}

func (a *analysis) report(point *tree.Cursor, span tree.Span, kind string) {
	props := make(map[string]string, 2)
	if kind != "" {
		props[report.PropKind] = kind
	}

	if stmt := point.EnclosingStatement(); stmt != nil && stmt.Node().Pos().IsValid() {
		props[report.PropIndex] = report.FormatIndex(stmt.Node().Pos())
	}

	a.pass.Report(span, props, "%s", message(kind))
}

func message(kind string) string {
	switch kind {
	case report.KindForEach:
		return "Use ConfigureAwait(false) on the asynchronous sequence if the current SynchronizationContext is not needed"

	case report.KindUsing:
		return "Use ConfigureAwait(false) on the asynchronous resource if the current SynchronizationContext is not needed"

	default:
		return "Use Task.ConfigureAwait(false) if the current SynchronizationContext is not needed"
	}
}

// unwrapImplicit returns the operand of implicit conversions.
func unwrapImplicit(n *tree.Node) *tree.Node {
	for n.Kind() == tree.KindConversion && n.Has(tree.FlagImplicit) {
		n = n.Operand()
	}

	return n
}

// hasConfigureAwait reports whether the expression contains a ConfigureAwait call.
func hasConfigureAwait(n *tree.Node) bool {
	return contains(n, func(n *tree.Node) bool {
		return n.Kind() == tree.KindInvocation && n.Callee().Text() == Member
	})
}

// hasAsyncEnumerable reports whether a subexpression is an asynchronous sequence.
func (a *analysis) hasAsyncEnumerable(n *tree.Node) bool {
	return contains(n, func(n *tree.Node) bool {
		typ := n.Type()

		return typ != "" && a.symbols.IsOrDerivesFrom(typ, AsyncEnumerable)
	})
}

func contains(n *tree.Node, pred func(*tree.Node) bool) bool {
	if n == nil {
		return false
	}

	if pred(n) {
		return true
	}

	for _, child := range n.Children() {
		if contains(child, pred) {
			return true
		}
	}

	return false
}
