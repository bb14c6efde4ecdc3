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

package testsource

import (
	"strings"

	"fillmore-labs.com/awaitguard/internal/tree"
)

// Well-known type names.
const (
	Void                       = "System.Void"
	Bool                       = "System.Boolean"
	Int                        = "System.Int32"
	String                     = "System.String"
	Task                       = "System.Threading.Tasks.Task"
	ValueTask                  = "System.Threading.Tasks.ValueTask"
	ConfiguredTaskAwaitable    = "System.Runtime.CompilerServices.ConfiguredTaskAwaitable"
	ConfiguredValueTask        = "System.Runtime.CompilerServices.ConfiguredValueTaskAwaitable"
	AsyncEnumerable            = "System.Collections.Generic.IAsyncEnumerable"
	AsyncDisposable            = "System.IAsyncDisposable"
	ConfiguredAsyncDisposable  = "System.Runtime.CompilerServices.ConfiguredAsyncDisposable"
	ConfiguredCancelableStream = "System.Runtime.CompilerServices.ConfiguredCancelableAsyncEnumerable"
	CancellationToken          = "System.Threading.CancellationToken"
	EnumeratorCancellation     = "System.Runtime.CompilerServices.EnumeratorCancellationAttribute"
)

// Of constructs a generic type name.
func Of(generic string, args ...string) string {
	return generic + "<" + strings.Join(args, ", ") + ">"
}

// DefaultPath is the path of units built by [Unit].
const DefaultPath = "test.cs"

// DefaultImports are the namespaces imported by units built by [Unit].
var DefaultImports = []string{"System", "System.Threading.Tasks"}

// Unit builds a compilation unit with numbered spans.
func Unit(members ...*tree.Node) *tree.Unit {
	return UnitWith(tree.UnitInfo{Path: DefaultPath, Imports: DefaultImports}, members...)
}

// UnitWith builds a compilation unit with the given file facts and numbered spans.
func UnitWith(info tree.UnitInfo, members ...*tree.Node) *tree.Unit {
	root := tree.New(tree.KindCompilationUnit, "", members...)

	return tree.NewUnit(info, tree.AssignSpans(root))
}

func simpleName(qualified string) string {
	if i := strings.IndexByte(qualified, '<'); i >= 0 {
		qualified = qualified[:i]
	}

	return qualified[strings.LastIndexByte(qualified, '.')+1:]
}

// Namespace builds a namespace declaration.
func Namespace(name string, members ...*tree.Node) *tree.Node {
	return tree.New(tree.KindNamespace, name, members...)
}

// Class builds a class declaration for the qualified type name.
func Class(qualified string, members ...*tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindTypeDecl, Text: simpleName(qualified), Symbol: qualified, Children: members})
}

// Interface builds an interface declaration.
func Interface(qualified string, members ...*tree.Node) *tree.Node {
	return tree.Make(tree.Spec{
		Kind: tree.KindTypeDecl, Flags: tree.FlagInterface,
		Text: simpleName(qualified), Symbol: qualified, Children: members,
	})
}

// TypeRef builds a type reference.
func TypeRef(typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindTypeRef, Text: simpleName(typ), Type: typ, Symbol: typ})
}

// Params builds a parameter list.
func Params(params ...*tree.Node) *tree.Node {
	return tree.New(tree.KindParameterList, "", params...)
}

// Param builds a parameter.
func Param(name, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindParameter, Text: name, Type: typ, Children: []*tree.Node{TypeRef(typ)}})
}

// ParamDefault builds a parameter with a default value.
func ParamDefault(name, typ string, def *tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindParameter, Text: name, Type: typ, Children: []*tree.Node{TypeRef(typ), def}})
}

// AttrParam builds a parameter carrying an attribute.
func AttrParam(name, typ, attr string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindParameter, Text: name, Type: typ, Children: []*tree.Node{Attribute(attr), TypeRef(typ)}})
}

// Attribute builds an attribute of the given type.
func Attribute(typ string, args ...*tree.Node) *tree.Node {
	name := strings.TrimSuffix(simpleName(typ), "Attribute")

	return tree.Make(tree.Spec{Kind: tree.KindAttribute, Text: name, Type: typ, Symbol: typ, Children: arguments(args)})
}

func function(kind tree.Kind, flags tree.Flags, qualified, ret string, params *tree.Node, body *tree.Node) *tree.Node {
	if params == nil {
		params = Params()
	}

	children := []*tree.Node{TypeRef(ret), params}
	if body != nil {
		children = append(children, body)
	}

	return tree.Make(tree.Spec{Kind: kind, Flags: flags, Text: simpleName(qualified), Symbol: qualified, Children: children})
}

// Method builds a method declaration for the qualified method name.
func Method(qualified, ret string, params *tree.Node, stmts ...*tree.Node) *tree.Node {
	return function(tree.KindMethodDecl, 0, qualified, ret, params, Block(stmts...))
}

// AsyncMethod builds an async method declaration.
func AsyncMethod(qualified, ret string, params *tree.Node, stmts ...*tree.Node) *tree.Node {
	return function(tree.KindMethodDecl, tree.FlagAsync, qualified, ret, params, Block(stmts...))
}

// AbstractMethod builds a method declaration without body.
func AbstractMethod(qualified, ret string, params *tree.Node) *tree.Node {
	return function(tree.KindMethodDecl, 0, qualified, ret, params, nil)
}

// LocalFunc builds a local function statement.
func LocalFunc(name, ret string, flags tree.Flags, params *tree.Node, stmts ...*tree.Node) *tree.Node {
	return function(tree.KindLocalFunction, flags, name, ret, params, Block(stmts...))
}

// Lambda builds a lambda with a block body.
func Lambda(flags tree.Flags, params *tree.Node, stmts ...*tree.Node) *tree.Node {
	if params == nil {
		params = Params()
	}

	return tree.Make(tree.Spec{Kind: tree.KindLambda, Flags: flags, Children: []*tree.Node{params, Block(stmts...)}})
}

// Block builds a block statement.
func Block(stmts ...*tree.Node) *tree.Node {
	return tree.New(tree.KindBlock, "", stmts...)
}

// Expr builds an expression statement.
func Expr(e *tree.Node) *tree.Node {
	return tree.New(tree.KindExprStmt, "", e)
}

// Return builds a return statement; e may be nil.
func Return(e *tree.Node) *tree.Node {
	if e == nil {
		return tree.New(tree.KindReturn, "")
	}

	return tree.New(tree.KindReturn, "", e)
}

// Throw builds a throw statement; e is nil for a rethrow.
func Throw(e *tree.Node) *tree.Node {
	if e == nil {
		return tree.New(tree.KindThrow, "")
	}

	return tree.New(tree.KindThrow, "", e)
}

// Break builds a break statement.
func Break() *tree.Node { return tree.New(tree.KindBreak, "") }

// Continue builds a continue statement.
func Continue() *tree.Node { return tree.New(tree.KindContinue, "") }

// Empty builds an empty statement.
func Empty() *tree.Node { return tree.New(tree.KindEmpty, "") }

// Goto builds a goto statement.
func Goto(label string) *tree.Node { return tree.New(tree.KindGoto, label) }

// Label builds a labeled statement.
func Label(label string, stmt *tree.Node) *tree.Node { return tree.New(tree.KindLabeled, label, stmt) }

// YieldReturn builds a yield return statement.
func YieldReturn(e *tree.Node) *tree.Node { return tree.New(tree.KindYieldReturn, "", e) }

// YieldBreak builds a yield break statement.
func YieldBreak() *tree.Node { return tree.New(tree.KindYieldBreak, "") }

// If builds an if statement without else.
func If(cond, then *tree.Node) *tree.Node {
	return tree.New(tree.KindIf, "", cond, then)
}

// IfElse builds an if statement with else.
func IfElse(cond, then, els *tree.Node) *tree.Node {
	return tree.New(tree.KindIf, "", cond, then, els)
}

// While builds a while loop.
func While(cond, body *tree.Node) *tree.Node {
	return tree.New(tree.KindWhile, "", cond, body)
}

// Do builds a do-while loop.
func Do(body, cond *tree.Node) *tree.Node {
	return tree.New(tree.KindDo, "", body, cond)
}

// For builds a for loop; nil parts are empty.
func For(init, cond, step, body *tree.Node) *tree.Node {
	orEmpty := func(n *tree.Node) *tree.Node {
		if n == nil {
			return Empty()
		}

		return n
	}

	return tree.New(tree.KindFor, "", orEmpty(init), orEmpty(cond), orEmpty(step), body)
}

// ForEach builds a foreach loop.
func ForEach(typ, name string, coll, body *tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindForEach, Text: name, Children: []*tree.Node{TypeRef(typ), coll, body}})
}

// AwaitForEach builds an asynchronous foreach loop.
func AwaitForEach(typ, name string, coll, body *tree.Node) *tree.Node {
	return ForEach(typ, name, coll, body).WithFlags(tree.FlagAwait)
}

// Using builds a using statement.
func Using(resource, body *tree.Node) *tree.Node {
	return tree.New(tree.KindUsing, "", resource, body)
}

// AwaitUsing builds an asynchronous using statement.
func AwaitUsing(resource, body *tree.Node) *tree.Node {
	return Using(resource, body).WithFlags(tree.FlagAwait)
}

// Try builds a try statement with catch and finally clauses.
func Try(block *tree.Node, clauses ...*tree.Node) *tree.Node {
	return tree.New(tree.KindTry, "", append([]*tree.Node{block}, clauses...)...)
}

// Catch builds a catch clause; typ may be empty.
func Catch(typ string, body *tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindCatch, Type: typ, Children: []*tree.Node{body}})
}

// Finally builds a finally clause.
func Finally(body *tree.Node) *tree.Node {
	return tree.New(tree.KindFinally, "", body)
}

// Switch builds a switch statement.
func Switch(value *tree.Node, sections ...*tree.Node) *tree.Node {
	return tree.New(tree.KindSwitch, "", append([]*tree.Node{value}, sections...)...)
}

// Section builds a switch section.
func Section(labels []*tree.Node, stmts ...*tree.Node) *tree.Node {
	return tree.New(tree.KindSection, "", append(labels, stmts...)...)
}

// Case builds a case label.
func Case(e *tree.Node) *tree.Node { return tree.New(tree.KindCaseLabel, "", e) }

// Default builds a default label.
func Default() *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindCaseLabel, Flags: tree.FlagDefault})
}

// Declarator builds a variable declarator; init may be nil.
func Declarator(name, typ string, init *tree.Node) *tree.Node {
	var children []*tree.Node
	if init != nil {
		children = []*tree.Node{init}
	}

	return tree.Make(tree.Spec{Kind: tree.KindDeclarator, Text: name, Type: typ, Children: children})
}

// Local builds a local variable declaration with one declarator.
func Local(typ, name string, init *tree.Node) *tree.Node {
	return LocalDecl(0, typ, Declarator(name, typ, init))
}

// LocalDecl builds a local declaration with the given flags and declarators.
func LocalDecl(flags tree.Flags, typ string, decls ...*tree.Node) *tree.Node {
	return tree.Make(tree.Spec{
		Kind: tree.KindLocalDecl, Flags: flags, Type: typ,
		Children: append([]*tree.Node{TypeRef(typ)}, decls...),
	})
}

// AwaitUsingDecl builds an asynchronous using declaration.
func AwaitUsingDecl(typ string, decls ...*tree.Node) *tree.Node {
	return LocalDecl(tree.FlagUsing|tree.FlagAwait, typ, decls...)
}

// Await builds an await expression.
func Await(e *tree.Node) *tree.Node {
	return tree.New(tree.KindAwait, "", e)
}

// Ident builds an identifier of the given type.
func Ident(name, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindIdentifier, Text: name, Type: typ})
}

// Var builds a reference to a local variable.
func Var(name, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindIdentifier, Flags: tree.FlagLocal, Text: name, Type: typ})
}

// ParamRef builds a reference to a parameter.
func ParamRef(name, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindIdentifier, Flags: tree.FlagParameter, Text: name, Type: typ})
}

// Lit builds a literal of the given type.
func Lit(text, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindLiteral, Flags: tree.FlagConstant, Text: text, Type: typ})
}

// True builds the literal true.
func True() *tree.Node { return Lit("true", Bool) }

// False builds the literal false.
func False() *tree.Node { return Lit("false", Bool) }

// Cond builds a non-constant boolean condition.
func Cond(name string) *tree.Node { return Ident(name, Bool) }

// Member builds a member access.
func Member(recv *tree.Node, name, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindMemberAccess, Text: name, Type: typ, Children: []*tree.Node{recv}})
}

func arguments(args []*tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(args))
	for _, a := range args {
		if a.Kind() != tree.KindArgument {
			a = tree.Make(tree.Spec{Kind: tree.KindArgument, Type: a.Type(), Children: []*tree.Node{a}})
		}

		out = append(out, a)
	}

	return out
}

// Call builds an invocation returning typ.
func Call(callee *tree.Node, typ string, args ...*tree.Node) *tree.Node {
	return tree.Make(tree.Spec{
		Kind: tree.KindInvocation, Type: typ, Symbol: callee.Symbol(),
		Children: append([]*tree.Node{callee}, arguments(args)...),
	})
}

// Invoke builds a call of a method symbol by simple name.
func Invoke(method, typ string, args ...*tree.Node) *tree.Node {
	callee := tree.Make(tree.Spec{Kind: tree.KindIdentifier, Text: simpleName(method), Symbol: method})

	return Call(callee, typ, args...)
}

// ConfigureAwait builds e.ConfigureAwait(false) with the given result type.
func ConfigureAwait(e *tree.Node, typ string) *tree.Node {
	return Call(Member(e, "ConfigureAwait", ""), typ, False())
}

// Implicit wraps e in an implicit conversion to typ.
func Implicit(e *tree.Node, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindConversion, Flags: tree.FlagImplicit, Type: typ, Children: []*tree.Node{e}})
}

// NewObject builds an object creation.
func NewObject(typ string, args ...*tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindObjectCreation, Text: simpleName(typ), Type: typ, Children: arguments(args)})
}

// Assign builds an assignment.
func Assign(left, right *tree.Node) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindAssignment, Text: "=", Type: left.Type(), Children: []*tree.Node{left, right}})
}

// Binary builds a binary operation.
func Binary(op string, left, right *tree.Node, typ string) *tree.Node {
	return tree.Make(tree.Spec{Kind: tree.KindBinary, Text: op, Type: typ, Children: []*tree.Node{left, right}})
}
