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

	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// enumeratorCancellation marks the cancellation token parameter of async iterators.
const enumeratorCancellation = "System.Runtime.CompilerServices.EnumeratorCancellationAttribute"

// PlanExtractLocalFunction plans moving the statements of fn starting after anchor
// into a local function that the shortened fn returns the result of.
//
// The local function copies the parameters without default values and the async
// modifier. The outer function keeps its defaults, loses the async modifier and
// drops the enumerator cancellation attribute from its parameters.
func PlanExtractLocalFunction(ctx context.Context, cache *symbols.Cache, fn *tree.Cursor, anchor tree.Pos) (*tree.EditPlan, error) {
	n := fn.Node()
	if k := n.Kind(); k != tree.KindMethodDecl && k != tree.KindLocalFunction {
		return nil, fmt.Errorf("%w: %s is not a function", ErrNotApplicable, k)
	}

	if cache.Resolve(n.Symbol()) == nil {
		return nil, fmt.Errorf("%w: unresolved function %q", ErrNotApplicable, n.Symbol())
	}

	body := n.Body()
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrNotApplicable, n.Text())
	}

	stmts := body.Statements()

	split := len(stmts)
	for i, s := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.Pos() > anchor {
			split = i

			break
		}
	}

	if split == len(stmts) {
		return nil, fmt.Errorf("%w: no statement after offset %d", ErrNotApplicable, anchor)
	}

	head, tail := stmts[:split], stmts[split:]

	local := localFunction(n, tail)
	delegate := tree.Make(tree.Spec{
		Kind:     tree.KindReturn,
		Leading:  "\n",
		Children: []*tree.Node{forward(n, local.Text())},
	})

	outer := n.WithFlags(n.Flags() &^ tree.FlagAsync).WithChildren(
		n.ReturnType(),
		outerParams(cache, n.Params()),
		body.WithChildren(slices.Concat(head, []*tree.Node{delegate, local})...),
	)

	var plan tree.EditPlan
	plan.Replace(fn, outer)

	return &plan, nil
}

// ExtractLocalFunction applies [PlanExtractLocalFunction] and returns the new
// snapshot, or u unchanged when the extraction is not applicable.
func ExtractLocalFunction(ctx context.Context, u *tree.Unit, cache *symbols.Cache, fn *tree.Cursor, anchor tree.Pos) *tree.Unit {
	plan, err := PlanExtractLocalFunction(ctx, cache, fn, anchor)
	if err != nil {
		return u
	}

	next, err := u.Apply(plan)
	if err != nil {
		return u
	}

	return next
}

func localFunction(fn *tree.Node, stmts []*tree.Node) *tree.Node {
	params := fn.Params()

	stripped := make([]*tree.Node, 0, params.Len())
	for _, p := range params.Children() {
		if p.Default() != nil {
			p = p.WithChildren(p.ChildList(0)[:p.Len()-1]...)
		}

		stripped = append(stripped, p)
	}

	// the moved statements keep their positions, so span lookups still find them
	span := tree.Span{Start: stmts[0].Pos(), End: stmts[len(stmts)-1].End()}

	return tree.Make(tree.Spec{
		Kind:    tree.KindLocalFunction,
		Flags:   fn.Flags() & tree.FlagAsync,
		Span:    span,
		Text:    fn.Text(),
		Leading: "\n",
		Children: []*tree.Node{
			fn.ReturnType(),
			params.WithChildren(stripped...),
			tree.Make(tree.Spec{Kind: tree.KindBlock, Span: span, Children: stmts}),
		},
	})
}

// forward builds the call of the local function passing all parameters through.
func forward(fn *tree.Node, name string) *tree.Node {
	children := []*tree.Node{tree.New(tree.KindIdentifier, name)}

	for _, p := range fn.Params().Children() {
		ref := tree.Make(tree.Spec{Kind: tree.KindIdentifier, Flags: tree.FlagParameter, Text: p.Text(), Type: p.Type()})
		children = append(children, tree.Make(tree.Spec{Kind: tree.KindArgument, Type: p.Type(), Children: []*tree.Node{ref}}))
	}

	var typ string
	if r := fn.ReturnType(); r != nil {
		typ = r.Type()
	}

	return tree.Make(tree.Spec{Kind: tree.KindInvocation, Type: typ, Children: children})
}

// outerParams removes the enumerator cancellation attribute, which only applies to iterators.
func outerParams(cache *symbols.Cache, params *tree.Node) *tree.Node {
	if !cache.Exists(enumeratorCancellation) {
		return params
	}

	list := make([]*tree.Node, 0, params.Len())
	for _, p := range params.Children() {
		attrs := p.Attributes()

		kept := make([]*tree.Node, 0, p.Len())
		for _, a := range attrs {
			if symbols.Definition(a.Type()) != enumeratorCancellation {
				kept = append(kept, a)
			}
		}

		if len(kept) != len(attrs) {
			p = p.WithChildren(append(kept, p.ChildList(len(attrs))...)...)
		}

		list = append(list, p)
	}

	return params.WithChildren(list...)
}
