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

	. "fillmore-labs.com/awaitguard/internal/tree"
)

func ident(name string) *Node { return New(KindIdentifier, name) }

func call(name string, args ...*Node) *Node {
	children := []*Node{ident(name)}
	for _, a := range args {
		children = append(children, New(KindArgument, "", a))
	}

	return New(KindInvocation, "", children...)
}

func stmt(e *Node) *Node { return New(KindExprStmt, "", e) }

func method(name string, flags Flags, stmts ...*Node) *Node {
	return Make(Spec{
		Kind:  KindMethodDecl,
		Flags: flags,
		Text:  name,
		Children: []*Node{
			New(KindTypeRef, "Task"),
			New(KindParameterList, ""),
			New(KindBlock, "", stmts...),
		},
	})
}

// sample builds
//
//	namespace App { class C { async Task RunAsync() { A(); await B(); Action f = () => { C(); }; } } }
func sample() *Unit {
	lambda := Make(Spec{
		Kind:     KindLambda,
		Children: []*Node{New(KindParameterList, ""), New(KindBlock, "", stmt(call("C")))},
	})

	decl := New(KindLocalDecl, "", New(KindTypeRef, "Action"), New(KindDeclarator, "f", lambda))

	root := New(KindCompilationUnit, "",
		New(KindNamespace, "App",
			New(KindTypeDecl, "C",
				method("RunAsync", FlagAsync,
					stmt(call("A")),
					stmt(New(KindAwait, "", call("B"))),
					decl,
				),
			),
		),
	)

	return NewUnit(UnitInfo{Path: "src/C.cs"}, AssignSpans(root))
}

func first(u *Unit, kind Kind) *Cursor {
	var found *Cursor

	_ = u.Cursor().Inspect(context.Background(), func(c *Cursor) bool {
		if found == nil && c.Node().Kind() == kind {
			found = c
		}

		return found == nil
	})

	return found
}
