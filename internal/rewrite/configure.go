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

package rewrite

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/rules/configureawait"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const (
	asyncDisposable = "System.IAsyncDisposable"
	extensions      = "System.Threading.Tasks.TaskAsyncEnumerableExtensions"
)

// configured maps awaitable definitions to the result of calling ConfigureAwait on them.
var configured = map[string]struct{ result, method string }{
	"System.Threading.Tasks.Task":        {configureawait.ConfiguredTaskAwaitable, "System.Threading.Tasks.Task"},
	"System.Threading.Tasks.Task`1":      {configureawait.ConfiguredTaskAwaitableOfT, "System.Threading.Tasks.Task`1"},
	"System.Threading.Tasks.ValueTask":   {configureawait.ConfiguredValueTaskAwaitable, "System.Threading.Tasks.ValueTask"},
	"System.Threading.Tasks.ValueTask`1": {configureawait.ConfiguredValueTaskAwaitableOfT, "System.Threading.Tasks.ValueTask`1"},
	configureawait.AsyncEnumerable:       {configureawait.ConfiguredCancelableAsyncEnumerable, extensions},
	asyncDisposable:                      {configureawait.ConfiguredAsyncDisposable, extensions},
}

// PlanAddConfigureAwait plans wrapping the value flagged by a ConfigureAwait
// diagnostic as value.ConfigureAwait(false).
func PlanAddConfigureAwait(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.EditPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := u.Cursor()
	kind, _ := d.Property(report.PropKind)

	if kind == report.KindUsing {
		if decl := root.FindKind(d.Span, tree.KindDeclarator); decl != nil {
			return planDeclaration(cache, decl.Parent())
		}
	}

	target, err := configureTarget(root, kind, d.Span)
	if err != nil {
		return nil, err
	}

	var plan tree.EditPlan
	plan.Replace(target, configureAwait(cache, target.Node()))

	return &plan, nil
}

// configureTarget locates the expression to wrap.
func configureTarget(root *tree.Cursor, kind string, span tree.Span) (*tree.Cursor, error) {
	switch kind {
	case "":
		if await := root.FindKind(span, tree.KindAwait); await != nil {
			return await.Child(0), nil
		}

	case report.KindForEach, report.KindUsing:
		if c := outermost(root.FindSpan(span)); c != nil {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: no %q suspension point at %s", ErrNotApplicable, kind, span)
}

// planDeclaration configures all initializers of a resource declaration group
// and retypes the declaration to the configured wrapper. The variables then hold
// the wrappers, so declarations whose variables are referenced are not fixed.
func planDeclaration(cache *symbols.Cache, decl *tree.Cursor) (*tree.EditPlan, error) {
	if decl == nil || decl.Node().Kind() != tree.KindLocalDecl {
		return nil, fmt.Errorf("%w: declarator outside of a declaration", ErrNotApplicable)
	}

	n := decl.Node()

	children := n.ChildList(0)

	var (
		names   []string
		changed bool
	)

	for i, c := range children {
		if c.Kind() != tree.KindDeclarator {
			continue
		}

		names = append(names, c.Text())

		init := c.Operand()
		if init == nil {
			return nil, fmt.Errorf("%w: declarator %s has no initializer", ErrNotApplicable, c.Text())
		}

		if symbols.Definition(unwrapImplicit(init).Type()) == configureawait.ConfiguredAsyncDisposable {
			continue
		}

		wrapped := configureAwait(cache, init)
		if wrapped.Type() == "" {
			return nil, fmt.Errorf("%w: resource %s can not be configured", ErrNotApplicable, c.Text())
		}

		children[i] = c.WithChild(0, wrapped).WithType(wrapped.Type())
		changed = true
	}

	if !changed {
		return nil, fmt.Errorf("%w: declaration is already configured", ErrNotApplicable)
	}

	if fn := decl.EnclosingFunction(); fn != nil && referencesLocal(fn.Node(), names) {
		return nil, fmt.Errorf("%w: resources %v are referenced", ErrNotApplicable, names)
	}

	// implicitly typed declarations can not have multiple declarators
	text := "var"
	if len(names) > 1 {
		text = configureawait.ConfiguredAsyncDisposable
	}

	if ref := children[0]; ref.Kind() == tree.KindTypeRef {
		children[0] = tree.Make(tree.Spec{
			Kind:    tree.KindTypeRef,
			Span:    ref.Span(),
			Text:    text,
			Type:    configureawait.ConfiguredAsyncDisposable,
			Symbol:  configureawait.ConfiguredAsyncDisposable,
			Leading: ref.Leading(),
		})
	}

	var plan tree.EditPlan
	plan.Replace(decl, n.WithChildren(children...).WithType(configureawait.ConfiguredAsyncDisposable))

	return &plan, nil
}

// referencesLocal reports whether n contains a reference to one of the local variables.
func referencesLocal(n *tree.Node, names []string) bool {
	if n.Kind() == tree.KindIdentifier && n.Has(tree.FlagLocal) && slices.Contains(names, n.Text()) {
		return true
	}

	for _, c := range n.Children() {
		if referencesLocal(c, names) {
			return true
		}
	}

	return false
}

// outermost returns the outermost ancestor of c with the same span.
func outermost(c *tree.Cursor) *tree.Cursor {
	if c == nil {
		return nil
	}

	for p := c.Parent(); p != nil && p.Node().Span() == c.Node().Span(); p = c.Parent() {
		c = p
	}

	return c
}

// configureAwait builds e.ConfigureAwait(false).
func configureAwait(cache *symbols.Cache, e *tree.Node) *tree.Node {
	typ := unwrapImplicit(e).Type()
	result, method := configuredType(cache, typ)

	member := tree.Make(tree.Spec{
		Kind:     tree.KindMemberAccess,
		Text:     configureawait.Member,
		Symbol:   method,
		Children: []*tree.Node{e.WithLeading("")},
	})

	arg := tree.Make(tree.Spec{
		Kind: tree.KindArgument,
		Type: "System.Boolean",
		Children: []*tree.Node{
			tree.Make(tree.Spec{Kind: tree.KindLiteral, Flags: tree.FlagConstant, Text: "false", Type: "System.Boolean"}),
		},
	})

	return tree.Make(tree.Spec{
		Kind:     tree.KindInvocation,
		Span:     e.Span(),
		Type:     result,
		Symbol:   method,
		Leading:  e.Leading(),
		Children: []*tree.Node{member, arg},
	})
}

// configuredType returns the type and method symbol of calling ConfigureAwait on a value of type typ.
func configuredType(cache *symbols.Cache, typ string) (result, method string) {
	def := symbols.Definition(typ)

	c, ok := configured[def]
	if !ok && cache.IsOrDerivesFrom(typ, asyncDisposable) {
		c, ok = configured[asyncDisposable], true
	}

	if !ok {
		return "", ""
	}

	result = c.result
	if args := symbols.TypeArguments(typ); len(args) == 1 && strings.HasSuffix(result, "`1") {
		result = strings.TrimSuffix(result, "`1") + "<" + args[0] + ">"
	}

	return result, c.method + "." + configureawait.Member
}

func unwrapImplicit(n *tree.Node) *tree.Node {
	for n.Kind() == tree.KindConversion && n.Has(tree.FlagImplicit) {
		n = n.Operand()
	}

	return n
}
