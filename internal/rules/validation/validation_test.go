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

package validation_test

import (
	"testing"

	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	. "fillmore-labs.com/awaitguard/internal/rules/validation"
	. "fillmore-labs.com/awaitguard/internal/testsource"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const enumerable = "System.Collections.Generic.IEnumerable"

func checkNull() *tree.Node {
	cond := Binary("==", ParamRef("name", String), Lit("null", String), Bool)

	return If(cond, Throw(NewObject("System.ArgumentNullException", Lit(`"name"`, String))))
}

func throwIfNull() *tree.Node {
	guard := Member(Ident("ArgumentNullException", "System.ArgumentNullException"), "ThrowIfNull", Void)

	return Expr(Call(guard, Void, ParamRef("name", String)))
}

func yieldOne() *tree.Node { return YieldReturn(Lit("1", Int)) }

func awaitDelay() *tree.Node { return Expr(Await(Invoke("System.Threading.Tasks.Task.Delay", Task))) }

func TestValidateArguments(t *testing.T) {
	t.Parallel()

	params := Params(Param("name", String))
	iterator := Of(enumerable, Int)

	tests := []struct {
		name    string
		method  *tree.Node
		want    int
		message string
	}{
		{"Iterator", Method("App.C.Items", iterator, params, checkNull(), yieldOne()), 1,
			"Validate arguments of iterator method 'Items' before the body is deferred"},
		{"IteratorBlock", Method("App.C.Items", iterator, params,
			If(Binary("==", ParamRef("name", String), Lit("null", String), Bool),
				Block(Throw(NewObject("System.ArgumentNullException")))),
			yieldOne()), 1, ""},
		{"Async", AsyncMethod("App.C.RunAsync", Task, params, throwIfNull(), awaitDelay()), 1,
			"Validate arguments of async method 'RunAsync' before the body is deferred"},
		{"AsyncUnvalidated", AsyncMethod("App.C.RunAsync", Task, params, awaitDelay()), 0, ""},
		{"Synchronous", Method("App.C.Run", Void, params, checkNull(), Expr(Invoke("App.C.F", Void))), 0, ""},
		{"ValidationAfterYield", Method("App.C.Items", iterator, params, yieldOne(), checkNull()), 0, ""},
		{"NothingDeferred", AsyncMethod("App.C.RunAsync", Task, params, checkNull()), 0, ""},
		{"Else", Method("App.C.Items", iterator, params,
			IfElse(Cond("c"), Throw(NewObject("System.ArgumentException")), Empty()), yieldOne()), 0, ""},
		{"OtherException", Method("App.C.Items", iterator, params,
			If(Cond("c"), Throw(NewObject("System.InvalidOperationException"))), yieldOne()), 0, ""},
		{"Abstract", AbstractMethod("App.C.Items", iterator, params), 0, ""},
		{"YieldInLambda", Method("App.C.Run", Void, params,
			checkNull(),
			Local("System.Func", "f", Lambda(0, nil, YieldBreak()))), 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := Unit(Namespace("App", Class("App.C", tt.method)))

			r := dispatch.MustRegistry(New())
			env := &dispatch.Env{Unit: u, Symbols: Symbols(), Rules: r.DefaultRules()}

			got, err := r.Dispatch(t.Context(), env, u.Cursor())
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}

			if len(got) != tt.want {
				t.Fatalf("Got %d diagnostics, expected %d", len(got), tt.want)
			}

			if tt.want == 0 {
				return
			}

			d := got[0]
			method := Nth(t, u, tree.KindMethodDecl, 0)

			if d.Span != method.Node().Span() {
				t.Errorf("Got span %s, expected method span %s", d.Span, method.Node().Span())
			}

			if tt.message != "" && d.Message != tt.message {
				t.Errorf("Got message %q, expected %q", d.Message, tt.message)
			}

			first := method.Node().Body().Child(0)
			if index, err := d.Index(); err != nil || index != first.Pos() {
				t.Errorf("Got %s %q (%v), expected %d", report.PropIndex, d.Properties[report.PropIndex], err, first.Pos())
			}
		})
	}
}
