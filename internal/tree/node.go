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
	"iter"
	"slices"
)

// Node is an immutable syntax tree node annotated with semantic facts.
//
// Nodes are persistent: every With* method returns a shallow copy and leaves
// the receiver untouched, so unedited subtrees are shared between snapshots.
type Node struct {
	kind     Kind
	flags    Flags
	span     Span
	text     string // identifier, member or declared name, literal text, operator
	typ      string // qualified name of the static type
	sym      string // qualified name of the declared or referenced symbol
	leading  string // leading trivia
	children []*Node
}

// Spec describes a node to be created with [Make].
type Spec struct {
	Kind     Kind
	Flags    Flags
	Span     Span
	Text     string
	Type     string
	Symbol   string
	Leading  string
	Children []*Node
}

// Make creates a node. Nodes without an explicit valid span are synthesized.
func Make(s Spec) *Node {
	span := s.Span
	if span == (Span{}) {
		span = NoSpan
	}

	return &Node{
		kind:     s.Kind,
		flags:    s.Flags,
		span:     span,
		text:     s.Text,
		typ:      s.Type,
		sym:      s.Symbol,
		leading:  s.Leading,
		children: slices.Clone(s.Children),
	}
}

// New creates a synthesized node of the given kind.
func New(kind Kind, text string, children ...*Node) *Node {
	return Make(Spec{Kind: kind, Text: text, Children: children})
}

// Kind returns the node discriminator.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindInvalid
	}

	return n.kind
}

// Flags returns all modifiers of the node.
func (n *Node) Flags() Flags {
	if n == nil {
		return 0
	}

	return n.flags
}

// Has reports whether all flags in f are set.
func (n *Node) Has(f Flags) bool { return n != nil && n.flags.Has(f) }

// Span returns the source range of the node.
func (n *Node) Span() Span {
	if n == nil {
		return NoSpan
	}

	return n.span
}

// Pos returns the start offset of the node.
func (n *Node) Pos() Pos { return n.Span().Start }

// End returns the end offset of the node.
func (n *Node) End() Pos { return n.Span().End }

// Text returns the name, literal text or operator of the node.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}

	return n.text
}

// Type returns the qualified name of the static type of an expression, or the empty string.
func (n *Node) Type() string {
	if n == nil {
		return ""
	}

	return n.typ
}

// Symbol returns the qualified name of the declared or referenced symbol, or the empty string.
func (n *Node) Symbol() string {
	if n == nil {
		return ""
	}

	return n.sym
}

// Leading returns the leading trivia of the node.
func (n *Node) Leading() string {
	if n == nil {
		return ""
	}

	return n.leading
}

// Len returns the number of children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}

	return len(n.children)
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}

	return n.children[i]
}

// Children yields all children with their index.
func (n *Node) Children() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		if n == nil {
			return
		}

		for i, c := range n.children {
			if !yield(i, c) {
				return
			}
		}
	}
}

// ChildList returns a copy of the children in the range [from, Len()).
func (n *Node) ChildList(from int) []*Node {
	if n == nil || from >= len(n.children) {
		return nil
	}

	return slices.Clone(n.children[from:])
}

func (n *Node) clone() *Node {
	c := *n

	return &c
}

// WithChildren returns a copy of n with the given children.
func (n *Node) WithChildren(children ...*Node) *Node {
	c := n.clone()
	c.children = slices.Clone(children)

	return c
}

// WithChild returns a copy of n with the i-th child replaced.
func (n *Node) WithChild(i int, child *Node) *Node {
	c := n.clone()
	c.children = slices.Clone(n.children)
	c.children[i] = child

	return c
}

// WithFlags returns a copy of n with the given flags.
func (n *Node) WithFlags(f Flags) *Node {
	c := n.clone()
	c.flags = f

	return c
}

// WithText returns a copy of n with the given text.
func (n *Node) WithText(text string) *Node {
	c := n.clone()
	c.text = text

	return c
}

// WithType returns a copy of n with the given static type.
func (n *Node) WithType(typ string) *Node {
	c := n.clone()
	c.typ = typ

	return c
}

// WithLeading returns a copy of n with the given leading trivia.
func (n *Node) WithLeading(trivia string) *Node {
	c := n.clone()
	c.leading = trivia

	return c
}

// WithSpan returns a copy of n with the given source range.
func (n *Node) WithSpan(span Span) *Node {
	c := n.clone()
	c.span = span

	return c
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return a.kind == b.kind && a.flags == b.flags && a.span == b.span &&
		a.text == b.text && a.typ == b.typ && a.sym == b.sym && a.leading == b.leading &&
		slices.EqualFunc(a.children, b.children, Equal)
}

// Spec returns a description of n that recreates it with [Make].
func (n *Node) Spec() Spec {
	return Spec{
		Kind:     n.kind,
		Flags:    n.flags,
		Span:     n.span,
		Text:     n.text,
		Type:     n.typ,
		Symbol:   n.sym,
		Leading:  n.leading,
		Children: slices.Clone(n.children),
	}
}
