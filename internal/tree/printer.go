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

import (
	"bufio"
	"io"
	"strings"
)

const indentUnit = "    "

// Fprint writes n in C# surface syntax to w.
func Fprint(w io.Writer, n *Node) error {
	p := printer{w: bufio.NewWriter(w)}
	p.node(n)

	if p.err != nil {
		return p.err
	}

	return p.w.Flush()
}

// Print returns n in C# surface syntax.
func Print(n *Node) string {
	var b strings.Builder
	_ = Fprint(&b, n)

	return b.String()
}

type printer struct {
	w      *bufio.Writer
	indent int
	err    error
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}

		_, p.err = p.w.WriteString(s)
	}
}

func (p *printer) line(parts ...string) {
	p.print(strings.Repeat(indentUnit, max(p.indent, 0)))
	p.print(parts...)
	p.print("\n")
}

// trivia writes the full lines of the leading trivia; blank lines are kept.
func (p *printer) trivia(n *Node) {
	leading := n.Leading()
	if leading == "" {
		return
	}

	lines := strings.Split(leading, "\n")
	for _, l := range lines[:len(lines)-1] {
		if l = strings.TrimSpace(l); l == "" {
			p.print("\n")
		} else {
			p.line(l)
		}
	}
}

func (p *printer) node(n *Node) {
	switch k := n.Kind(); {
	case k == KindCompilationUnit:
		for i, c := range n.Children() {
			if i > 0 {
				p.print("\n")
			}

			p.node(c)
		}

	case k.IsStatement() || k.IsTypeLevel():
		p.stmt(n)

	default:
		p.print(p.expr(n))
	}
}

func (p *printer) block(n *Node) {
	p.line("{")
	p.indent++

	for _, c := range n.Children() {
		p.stmt(c)
	}

	p.indent--
	p.line("}")
}

// body prints an embedded statement, indenting it unless it is a block.
func (p *printer) body(n *Node) {
	if n.Kind() == KindBlock {
		p.trivia(n)
		p.block(n)

		return
	}

	p.indent++
	p.stmt(n)
	p.indent--
}

func (p *printer) stmt(n *Node) {
	p.trivia(n)

	switch n.Kind() {
	case KindNamespace:
		p.line("namespace ", n.Text())
		p.block(n)

	case KindTypeDecl:
		keyword := "class"
		switch {
		case n.Has(FlagInterface):
			keyword = "interface"
		case n.Has(FlagStruct):
			keyword = "struct"
		}

		p.line(modifiers(n), keyword, " ", n.Text())
		p.block(n)

	case KindMethodDecl, KindLocalFunction:
		p.function(n)

	case KindBlock:
		p.block(n)

	case KindExprStmt:
		p.line(p.expr(n.Operand()), ";")

	case KindLocalDecl:
		p.line(p.localDecl(n), ";")

	case KindReturn:
		p.line(keywordExpr("return", p.expr(n.Operand())), ";")

	case KindThrow:
		p.line(keywordExpr("throw", p.expr(n.Operand())), ";")

	case KindYieldReturn:
		p.line("yield return ", p.expr(n.Operand()), ";")

	case KindYieldBreak:
		p.line("yield break;")

	case KindBreak:
		p.line("break;")

	case KindContinue:
		p.line("continue;")

	case KindGoto:
		p.line("goto ", n.Text(), ";")

	case KindEmpty:
		p.line(";")

	case KindLabeled:
		p.indent--
		p.line(n.Text(), ":")
		p.indent++
		p.stmt(n.Body())

	case KindIf:
		p.line("if (", p.expr(n.Cond()), ")")
		p.body(n.Then())

		if e := n.Else(); e != nil {
			p.line("else")
			p.body(e)
		}

	case KindWhile:
		p.line("while (", p.expr(n.Cond()), ")")
		p.body(n.Body())

	case KindDo:
		p.line("do")
		p.body(n.Body())
		p.line("while (", p.expr(n.Cond()), ");")

	case KindFor:
		p.line("for (", p.forPart(n.Child(0)), "; ", p.forPart(n.Child(1)), "; ", p.forPart(n.Child(2)), ")")
		p.body(n.Body())

	case KindForEach:
		p.line(awaitPrefix(n), "foreach (", p.expr(n.Child(0)), " ", n.Text(), " in ", p.expr(n.Collection()), ")")
		p.body(n.Body())

	case KindUsing:
		resource := n.Resource()

		var r string
		if resource.Kind() == KindLocalDecl {
			r = p.localDecl(resource)
		} else {
			r = p.expr(resource)
		}

		p.line(awaitPrefix(n), "using (", r, ")")
		p.body(n.Body())

	case KindTry:
		p.line("try")
		p.body(n.Body())

		for _, c := range n.ChildList(1) {
			p.stmt(c)
		}

	case KindCatch:
		if t := n.Type(); t != "" {
			p.line("catch (", t, optionalName(n.Text()), ")")
		} else {
			p.line("catch")
		}

		p.body(n.Body())

	case KindFinally:
		p.line("finally")
		p.body(n.Body())

	case KindSwitch:
		p.line("switch (", p.expr(n.Child(0)), ")")
		p.line("{")
		p.indent++

		for _, s := range n.ChildList(1) {
			p.stmt(s)
		}

		p.indent--
		p.line("}")

	case KindSection:
		for _, l := range n.Labels() {
			if l.Has(FlagDefault) {
				p.line("default:")
			} else {
				p.line("case ", p.expr(l.Operand()), ":")
			}
		}

		p.indent++

		for _, s := range n.Statements() {
			p.stmt(s)
		}

		p.indent--

	default:
		p.line(p.expr(n), ";")
	}
}

func (p *printer) function(n *Node) {
	ret := "void"
	if r := n.ReturnType(); r != nil {
		ret = r.Text()
	}

	head := modifiers(n) + ret + " " + n.Text() + "(" + p.params(n.Params()) + ")"

	body := n.Body()
	if body == nil {
		p.line(head, ";")

		return
	}

	p.line(head)
	p.block(body)
}

func (p *printer) params(list *Node) string {
	parts := make([]string, 0, list.Len())
	for _, param := range list.Children() {
		parts = append(parts, p.param(param))
	}

	return strings.Join(parts, ", ")
}

func (p *printer) param(n *Node) string {
	var b strings.Builder

	for _, a := range n.Attributes() {
		b.WriteString("[" + p.expr(a) + "] ")
	}

	for _, m := range [...]struct {
		flag Flags
		word string
	}{{FlagThis, "this"}, {FlagRef, "ref"}, {FlagOut, "out"}, {FlagParams, "params"}} {
		if n.Has(m.flag) {
			b.WriteString(m.word + " ")
		}
	}

	b.WriteString(n.ParamType().Text() + " " + n.Text())

	if d := n.Default(); d != nil {
		b.WriteString(" = " + p.expr(d))
	}

	return b.String()
}

func (p *printer) localDecl(n *Node) string {
	parts := make([]string, 0, n.Len())
	for _, d := range n.Declarators() {
		s := d.Text()
		if init := d.Operand(); init != nil {
			s += " = " + p.expr(init)
		}

		parts = append(parts, s)
	}

	var prefix string
	if n.Has(FlagUsing) {
		prefix = awaitPrefix(n) + "using "
	}

	return prefix + n.Child(0).Text() + " " + strings.Join(parts, ", ")
}

func (p *printer) forPart(n *Node) string {
	switch n.Kind() {
	case KindEmpty, KindInvalid:
		return ""

	case KindLocalDecl:
		return p.localDecl(n)

	case KindExprStmt:
		return p.expr(n.Operand())

	default:
		return p.expr(n)
	}
}

func (p *printer) args(args []*Node) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, p.expr(a))
	}

	return strings.Join(parts, ", ")
}

func (p *printer) expr(n *Node) string {
	switch n.Kind() {
	case KindInvalid:
		return ""

	case KindAwait:
		return "await " + p.expr(n.Operand())

	case KindInvocation:
		return p.expr(n.Callee()) + "(" + p.args(n.Arguments()) + ")"

	case KindArgument:
		var prefix string
		switch {
		case n.Has(FlagRef):
			prefix = "ref "
		case n.Has(FlagOut):
			prefix = "out "
		}

		if n.Text() != "" {
			prefix = n.Text() + ": " + prefix
		}

		return prefix + p.expr(n.Operand())

	case KindMemberAccess:
		if n.Operand() == nil {
			return n.Text()
		}

		return p.expr(n.Operand()) + "." + n.Text()

	case KindConversion:
		if n.Has(FlagImplicit) {
			return p.expr(n.Operand())
		}

		return "(" + n.Type() + ")" + p.expr(n.Operand())

	case KindObjectCreation:
		return "new " + n.Text() + "(" + p.args(n.Arguments()) + ")"

	case KindAttribute:
		if n.Len() == 0 {
			return n.Text()
		}

		return n.Text() + "(" + p.args(n.Arguments()) + ")"

	case KindBinary:
		return p.expr(n.Child(0)) + " " + n.Text() + " " + p.expr(n.Child(1))

	case KindAssignment:
		op := n.Text()
		if op == "" {
			op = "="
		}

		return p.expr(n.Child(0)) + " " + op + " " + p.expr(n.Child(1))

	case KindUnary:
		return n.Text() + p.expr(n.Operand())

	case KindLambda:
		body := n.Body()

		var b string
		if body.Kind() == KindBlock {
			b = "{ " + p.inlineStatements(body) + "}"
		} else {
			b = p.expr(body)
		}

		return asyncPrefix(n) + "(" + p.params(n.Params()) + ") => " + b

	case KindLocalDecl:
		return p.localDecl(n)

	default:
		return n.Text()
	}
}

func (p *printer) inlineStatements(block *Node) string {
	var b strings.Builder

	sub := printer{w: bufio.NewWriter(&b)}
	for _, s := range block.Children() {
		sub.stmt(s)
	}

	_ = sub.w.Flush()

	return strings.Join(strings.Fields(b.String()), " ") + " "
}

func modifiers(n *Node) string {
	var b strings.Builder

	if n.Has(FlagStatic) {
		b.WriteString("static ")
	}

	b.WriteString(asyncPrefix(n))

	return b.String()
}

func asyncPrefix(n *Node) string {
	if n.Has(FlagAsync) {
		return "async "
	}

	return ""
}

func awaitPrefix(n *Node) string {
	if n.Has(FlagAwait) {
		return "await "
	}

	return ""
}

func keywordExpr(keyword, expr string) string {
	if expr == "" {
		return keyword
	}

	return keyword + " " + expr
}

func optionalName(name string) string {
	if name == "" {
		return ""
	}

	return " " + name
}
