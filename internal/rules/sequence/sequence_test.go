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

package sequence_test

import (
	"testing"

	"fillmore-labs.com/awaitguard/internal/dispatch"
	. "fillmore-labs.com/awaitguard/internal/rules/sequence"
	"fillmore-labs.com/awaitguard/internal/symbols"
	. "fillmore-labs.com/awaitguard/internal/testsource"
	"fillmore-labs.com/awaitguard/internal/tree"
)

func builderCall(method string, args ...*tree.Node) *tree.Node {
	builder := Var("builder", RenderTreeBuilder)
	callee := tree.Make(tree.Spec{
		Kind: tree.KindMemberAccess, Text: method,
		Symbol:   RenderTreeBuilder + "." + method,
		Children: []*tree.Node{builder},
	})

	return Expr(Call(callee, Void, args...))
}

func extensionCall(method string, args ...*tree.Node) *tree.Node {
	callee := tree.Make(tree.Spec{
		Kind: tree.KindIdentifier, Text: method,
		Symbol: WebRenderTreeBuilderExtensions + "." + method,
	})

	return Expr(Call(callee, Void, args...))
}

func TestSequenceNumber(t *testing.T) {
	t.Parallel()

	seq := Var("seq", Int)
	builder := Var("builder", RenderTreeBuilder)

	tests := []struct {
		name string
		stmt *tree.Node
		want int
	}{
		{"Constant", builderCall("OpenElement", Lit("0", Int), Lit(`"div"`, String)), 0},
		{"Parameter", builderCall("OpenElement", ParamRef("sequence", Int), Lit(`"div"`, String)), 0},
		{"ConvertedConstant", builderCall("AddContent", Implicit(Lit("1", "System.Int16"), Int), Lit(`"x"`, String)), 0},
		{"Local", builderCall("OpenElement", seq, Lit(`"div"`, String)), 1},
		{"Increment", builderCall("AddContent", tree.Make(tree.Spec{
			Kind: tree.KindUnary, Text: "++", Type: Int, Children: []*tree.Node{seq},
		}), Lit(`"x"`, String)), 1},
		{"OtherMethod", builderCall("CloseElement"), 0},
		{"Extension", extensionCall("AddEventPreventDefaultAttribute", seq, Lit(`"onclick"`, String), True()), 1},
		{"StaticExtension", extensionCall("AddEventStopPropagationAttribute", builder, Lit("2", Int), Lit(`"onclick"`, String), True()), 0},
		{"StaticExtensionLocal", extensionCall("AddEventStopPropagationAttribute", builder, seq, Lit(`"onclick"`, String), True()), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := Unit(Namespace("App", Class("App.Counter",
				Method("App.Counter.BuildRenderTree", Void, Params(Param("builder", RenderTreeBuilder)), tt.stmt))))

			r := dispatch.MustRegistry(New())
			env := &dispatch.Env{
				Unit:    u,
				Symbols: Symbols(ClassSymbol(RenderTreeBuilder, "System.Object")),
				Rules:   r.DefaultRules(),
			}

			got, err := r.Dispatch(t.Context(), env, u.Cursor())
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}

			if len(got) != tt.want {
				t.Errorf("Got %d diagnostics, expected %d", len(got), tt.want)
			}
		})
	}
}

func TestWithoutRenderTree(t *testing.T) {
	t.Parallel()

	u := Unit(Namespace("App", Class("App.C",
		Method("App.C.M", Void, nil, builderCall("OpenElement", Var("seq", Int))))))

	r := dispatch.MustRegistry(New())
	env := &dispatch.Env{Unit: u, Symbols: symbols.NewCache(symbols.NewTable(Prelude()...)), Rules: r.DefaultRules()}

	got, err := r.Dispatch(t.Context(), env, u.Cursor())
	if err != nil || len(got) != 0 {
		t.Errorf("Got %v, %v without render tree builder, expected no diagnostics", got, err)
	}
}
