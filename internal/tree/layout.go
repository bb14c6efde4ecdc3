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

package tree

import "slices"

// Child layouts per kind:
//
//	MethodDecl, LocalFunction  [TypeRef, ParameterList, Block?]
//	Lambda                     [ParameterList, Block | expression]
//	Parameter                  [Attribute..., TypeRef, default?]
//	LocalDecl                  [TypeRef, Declarator...]
//	Declarator                 [initializer?]
//	If                         [cond, then, else?]
//	While                      [cond, body]
//	Do                         [body, cond]
//	For                        [init, cond, step, body] (Empty for absent parts)
//	ForEach                    [TypeRef, collection, body]
//	Using                      [LocalDecl | expression, body]
//	Try                        [Block, Catch..., Finally?]
//	Catch, Finally, Labeled    [body]
//	Switch                     [value, Section...]
//	Section                    [CaseLabel..., statement...]
//	Invocation                 [callee, Argument...]
//	ObjectCreation, Attribute  [Argument...]
//	Binary, Assignment         [left, right]
//	ExprStmt, Return, Throw, YieldReturn, Await, Argument,
//	MemberAccess, Conversion, Unary, CaseLabel   [operand?]

// Body returns the body of functions, loops, resource acquisitions and clauses.
func (n *Node) Body() *Node {
	switch n.Kind() {
	case KindMethodDecl, KindLocalFunction:
		return n.Child(2)

	case KindLambda, KindWhile, KindUsing:
		return n.Child(1)

	case KindDo, KindTry, KindCatch, KindFinally, KindLabeled:
		return n.Child(0)

	case KindFor:
		return n.Child(3)

	case KindForEach:
		return n.Child(2)

	default:
		return nil
	}
}

// Params returns the parameter list of a function.
func (n *Node) Params() *Node {
	switch n.Kind() {
	case KindMethodDecl, KindLocalFunction:
		return n.Child(1)

	case KindLambda:
		return n.Child(0)

	default:
		return nil
	}
}

// ReturnType returns the declared return type of a method or local function.
func (n *Node) ReturnType() *Node {
	switch n.Kind() {
	case KindMethodDecl, KindLocalFunction:
		return n.Child(0)

	default:
		return nil
	}
}

// Cond returns the condition of branches and loops.
func (n *Node) Cond() *Node {
	switch n.Kind() {
	case KindIf, KindWhile:
		return n.Child(0)

	case KindDo, KindFor:
		return n.Child(1)

	default:
		return nil
	}
}

// Then returns the consequence of an if statement.
func (n *Node) Then() *Node {
	if n.Kind() != KindIf {
		return nil
	}

	return n.Child(1)
}

// Else returns the alternative of an if statement or nil.
func (n *Node) Else() *Node {
	if n.Kind() != KindIf {
		return nil
	}

	return n.Child(2)
}

// Operand returns the single operand of unary shaped nodes.
func (n *Node) Operand() *Node {
	switch n.Kind() {
	case KindExprStmt, KindReturn, KindThrow, KindYieldReturn, KindAwait, KindArgument,
		KindMemberAccess, KindConversion, KindUnary, KindCaseLabel, KindDeclarator:
		return n.Child(0)

	default:
		return nil
	}
}

// Collection returns the iterated expression of a foreach statement.
func (n *Node) Collection() *Node {
	if n.Kind() != KindForEach {
		return nil
	}

	return n.Child(1)
}

// Resource returns the acquired resource of a using statement.
func (n *Node) Resource() *Node {
	if n.Kind() != KindUsing {
		return nil
	}

	return n.Child(0)
}

// Callee returns the invoked expression of an invocation.
func (n *Node) Callee() *Node {
	if n.Kind() != KindInvocation {
		return nil
	}

	return n.Child(0)
}

// Arguments returns the argument nodes of invocations, object creations and attributes.
func (n *Node) Arguments() []*Node {
	switch n.Kind() {
	case KindInvocation:
		return n.ChildList(1)

	case KindObjectCreation, KindAttribute:
		return n.ChildList(0)

	default:
		return nil
	}
}

// Declarators returns the declarators of a local declaration.
func (n *Node) Declarators() []*Node {
	if n.Kind() != KindLocalDecl {
		return nil
	}

	return n.ChildList(1)
}

// Statements returns the statements of a block or switch section.
func (n *Node) Statements() []*Node {
	switch n.Kind() {
	case KindBlock:
		return n.ChildList(0)

	case KindSection:
		return n.ChildList(n.leadingCount(KindCaseLabel))

	default:
		return nil
	}
}

// Labels returns the case labels of a switch section.
func (n *Node) Labels() []*Node {
	if n.Kind() != KindSection {
		return nil
	}

	return slices.Clone(n.children[:n.leadingCount(KindCaseLabel)])
}

// Catches returns the catch clauses of a try statement.
func (n *Node) Catches() []*Node {
	if n.Kind() != KindTry {
		return nil
	}

	var catches []*Node

	for _, c := range n.ChildList(1) {
		if c.Kind() == KindCatch {
			catches = append(catches, c)
		}
	}

	return catches
}

// FinallyClause returns the finally clause of a try statement or nil.
func (n *Node) FinallyClause() *Node {
	if n.Kind() != KindTry {
		return nil
	}

	if last := n.Child(n.Len() - 1); last.Kind() == KindFinally {
		return last
	}

	return nil
}

// Attributes returns the attributes of a parameter.
func (n *Node) Attributes() []*Node {
	if n.Kind() != KindParameter {
		return nil
	}

	return slices.Clone(n.children[:n.leadingCount(KindAttribute)])
}

// ParamType returns the declared type of a parameter.
func (n *Node) ParamType() *Node {
	if n.Kind() != KindParameter {
		return nil
	}

	return n.Child(n.leadingCount(KindAttribute))
}

// Default returns the default value of a parameter or nil.
func (n *Node) Default() *Node {
	if n.Kind() != KindParameter {
		return nil
	}

	return n.Child(n.leadingCount(KindAttribute) + 1)
}

func (n *Node) leadingCount(kind Kind) int {
	i := 0
	for i < len(n.children) && n.children[i].Kind() == kind {
		i++
	}

	return i
}
