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

package reachability_test

import (
	"context"
	"testing"

	. "fillmore-labs.com/awaitguard/internal/reachability"
	. "fillmore-labs.com/awaitguard/internal/testsource"
	"fillmore-labs.com/awaitguard/internal/tree"
)

func call(name string) *tree.Node {
	return Expr(Invoke("App.C."+name, Void))
}

func TestEndPointReachable(t *testing.T) {
	t.Parallel()

	c := Cond("c")

	tests := []struct {
		name      string
		stmt      *tree.Node
		reachable bool
		ok        bool
	}{
		{"Expression", call("F"), true, true},
		{"Return", Return(nil), false, true},
		{"Throw", Throw(NewObject("System.Exception")), false, true},
		{"YieldBreak", YieldBreak(), false, true},
		{"BreakLeaves", Break(), false, true},
		{"BlockEndsInReturn", Block(call("F"), Return(nil)), false, true},
		{"EmptyBlock", Block(), true, true},
		{"IfWithoutElse", If(c, Return(nil)), true, true},
		{"IfBothExit", IfElse(c, Return(nil), Throw(NewObject("System.Exception"))), false, true},
		{"IfOneExits", IfElse(c, Return(nil), call("F")), true, true},
		{"IfTrueReturns", If(True(), Return(nil)), false, true},
		{"IfFalseReturns", If(False(), Return(nil)), true, true},
		{"WhileTrue", While(True(), Block(call("F"))), false, true},
		{"WhileTrueBreak", While(True(), Block(Break())), true, true},
		{"WhileTrueNestedBreak", While(True(), Block(If(c, Break()))), true, true},
		{"WhileReturn", While(c, Block(Return(nil))), true, true},
		{"WhileContinue", While(True(), Block(Continue())), false, true},
		{"DoReturn", Do(Block(Return(nil)), c), false, true},
		{"DoTrue", Do(Block(), True()), false, true},
		{"DoBreak", Do(Block(Break()), True()), true, true},
		{"ForEver", For(nil, nil, nil, Block()), false, true},
		{"ForEverBreak", For(nil, nil, nil, Block(Break())), true, true},
		{"ForCond", For(Local(Int, "i", Lit("0", Int)), c, Expr(Ident("i", Int)), Block()), true, true},
		{"ForEachReturn", ForEach(Int, "x", Ident("xs", Int), Block(Return(nil))), true, true},
		{"UsingReturn", Using(Ident("r", AsyncDisposable), Block(Return(nil))), false, true},
		{"TryCatch", Try(Block(Return(nil)), Catch("", Block())), true, true},
		{"TryCatchThrow", Try(Block(Return(nil)), Catch("", Block(Throw(nil)))), false, true},
		{"TryFinallyReturn", Try(Block(), Finally(Block(Return(nil)))), false, true},
		{"TryReturnFinally", Try(Block(Return(nil)), Finally(Block())), false, true},
		{"TryFinally", Try(Block(call("F")), Finally(Block(call("G")))), true, true},
		{"SwitchNoDefault", Switch(Ident("x", Int),
			Section([]*tree.Node{Case(Lit("1", Int))}, Return(nil))), true, true},
		{"SwitchAllReturn", Switch(Ident("x", Int),
			Section([]*tree.Node{Case(Lit("1", Int))}, Return(nil)),
			Section([]*tree.Node{Default()}, Return(nil))), false, true},
		{"SwitchBreak", Switch(Ident("x", Int),
			Section([]*tree.Node{Case(Lit("1", Int)), Default()}, Break())), true, true},
		{"GotoForward", Block(Goto("L"), Return(nil), Label("L", call("F"))), true, true},
		{"GotoOutside", Block(call("F"), Goto("Out")), false, true},
		{"GotoLoop", Block(Label("L", call("F")), Goto("L")), false, true},
		{"DuplicateLabel", Block(Label("L", Empty()), Label("L", Empty())), false, false},
		{"Unsupported", tree.New(tree.KindAwait, "", Ident("t", Task)), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o := NewOracle(t.Context())
			stmt := tree.AssignSpans(tt.stmt)

			reachable, ok := o.EndPointReachable(stmt)
			if reachable != tt.reachable || ok != tt.ok {
				t.Errorf("Got reachable=%t ok=%t, expected reachable=%t ok=%t", reachable, ok, tt.reachable, tt.ok)
			}

			if r2, ok2 := o.EndPointReachable(stmt); r2 != reachable || ok2 != ok {
				t.Errorf("Memoized result differs: reachable=%t ok=%t", r2, ok2)
			}
		})
	}
}

func TestEndPointReachableCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	o := NewOracle(ctx)
	if reachable, ok := o.EndPointReachable(tree.AssignSpans(call("F"))); reachable || ok {
		t.Errorf("Got reachable=%t ok=%t after cancellation, expected false, false", reachable, ok)
	}
}

func awaitOf(name string) *tree.Node {
	return Await(Ident(name, Task))
}

func configured(name string) *tree.Node {
	return Await(ConfigureAwait(Ident(name, Task), ConfiguredTaskAwaitable))
}

func TestDominates(t *testing.T) {
	t.Parallel()

	c := Cond("c")

	tests := []struct {
		name string
		body []*tree.Node
		want bool
	}{
		{"Sequential", []*tree.Node{
			Expr(configured("a")),
			Expr(awaitOf("b")),
		}, true},
		{"SameStatement", []*tree.Node{
			Expr(Invoke("App.C.F", Task, configured("a"), awaitOf("b"))),
		}, true},
		{"BranchReturns", []*tree.Node{
			If(c, Block(Expr(configured("a")), Return(nil))),
			Expr(awaitOf("b")),
		}, false},
		{"BranchFallsThrough", []*tree.Node{
			If(c, Block(Expr(configured("a")))),
			Expr(awaitOf("b")),
		}, true},
		{"ElseReturns", []*tree.Node{
			IfElse(c, Block(Expr(configured("a"))), Block(Return(nil))),
			Expr(awaitOf("b")),
		}, true},
		{"ThenBreakInLoop", []*tree.Node{
			While(c, Block(Expr(configured("a")), Break())),
			Expr(awaitOf("b")),
		}, false},
		{"Nested", []*tree.Node{
			Expr(configured("a")),
			While(c, Block(If(c, Block(Expr(awaitOf("b")))))),
		}, true},
		{"InsideBranch", []*tree.Node{
			If(c, Block(Expr(configured("a")), Expr(awaitOf("b")))),
		}, true},
		{"MarkerAfterPoint", []*tree.Node{
			Expr(awaitOf("b")),
			Expr(configured("a")),
		}, false},
		{"UnsupportedLevel", []*tree.Node{
			Block(Label("L", Expr(configured("a"))), Label("L", Empty())),
			Expr(awaitOf("b")),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := Unit(Namespace("App", Class("App.C", AsyncMethod("App.C.M", Task, nil, tt.body...))))

			var marker, point *tree.Cursor
			for _, a := range All(u, tree.KindAwait) {
				if a.Node().Operand().Kind() == tree.KindInvocation {
					marker = a
				} else {
					point = a
				}
			}

			if marker == nil || point == nil {
				t.Fatal("Can't find marker and point")
			}

			if got := NewOracle(t.Context()).Dominates(marker, point); got != tt.want {
				t.Errorf("Got Dominates=%t, expected %t", got, tt.want)
			}
		})
	}
}

func TestDominatesAcrossFunctions(t *testing.T) {
	t.Parallel()

	lambda := Lambda(tree.FlagAsync, nil, Expr(configured("a")))
	u := Unit(Namespace("App", Class("App.C", AsyncMethod("App.C.M", Task, nil,
		Local("System.Func", "f", lambda),
		Expr(awaitOf("b")),
	))))

	marker, point := Nth(t, u, tree.KindAwait, 0), Nth(t, u, tree.KindAwait, 1)

	if NewOracle(t.Context()).Dominates(marker, point) {
		t.Error("Marker in lambda must not dominate the enclosing method")
	}
}
