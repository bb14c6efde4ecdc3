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
	"context"
	"iter"
	"slices"
	"strings"
)

// Cursor is a node together with its chain of ancestors.
//
// Persistent nodes carry no parent links; a Cursor records the path taken
// from the root, which makes enclosing statements and functions available.
type Cursor struct {
	node   *Node
	parent *Cursor
	index  int // position in the parent's children, -1 for the root
	depth  int
}

// Root returns a cursor at the given root node.
func Root(n *Node) *Cursor {
	return &Cursor{node: n, index: -1}
}

// Node returns the node at the cursor.
func (c *Cursor) Node() *Node {
	if c == nil {
		return nil
	}

	return c.node
}

// Parent returns the cursor of the parent node or nil at the root.
func (c *Cursor) Parent() *Cursor { return c.parent }

// Index returns the position of the node among its siblings, -1 for the root.
func (c *Cursor) Index() int { return c.index }

// Child returns a cursor at the i-th child or nil.
func (c *Cursor) Child(i int) *Cursor {
	child := c.node.Child(i)
	if child == nil {
		return nil
	}

	return &Cursor{node: child, parent: c, index: i, depth: c.depth + 1}
}

// Children yields cursors for all children.
func (c *Cursor) Children() iter.Seq[*Cursor] {
	return func(yield func(*Cursor) bool) {
		for i := range c.node.Len() {
			if child := c.Child(i); child != nil && !yield(child) {
				return
			}
		}
	}
}

// Ancestors yields the strict ancestors of the cursor, innermost first.
func (c *Cursor) Ancestors() iter.Seq[*Cursor] {
	return func(yield func(*Cursor) bool) {
		for p := c.parent; p != nil; p = p.parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Path returns the child indices leading from the root to the cursor.
func (c *Cursor) Path() Path {
	path := make(Path, c.depth)
	for p := c; p.parent != nil; p = p.parent {
		path[p.depth-1] = p.index
	}

	return path
}

// Equal reports whether both cursors denote the same position in the same tree.
func (c *Cursor) Equal(o *Cursor) bool {
	for ; c != nil && o != nil; c, o = c.parent, o.parent {
		if c == o {
			return true
		}

		if c.node != o.node || c.index != o.index {
			return false
		}
	}

	return c == nil && o == nil
}

// EnclosingStatement returns the innermost statement containing the cursor, including itself.
// The search stops at function boundaries.
func (c *Cursor) EnclosingStatement() *Cursor {
	if c.node.Kind().IsStatement() {
		return c
	}

	return c.ParentStatement()
}

// ParentStatement returns the innermost statement strictly containing the cursor.
// The search stops at function boundaries.
func (c *Cursor) ParentStatement() *Cursor {
	for p := range c.Ancestors() {
		kind := p.node.Kind()
		if kind.IsFunction() || kind.IsTypeLevel() {
			return nil
		}

		if kind.IsStatement() {
			return p
		}
	}

	return nil
}

// EnclosingFunction returns the innermost method, local function or lambda containing the cursor.
func (c *Cursor) EnclosingFunction() *Cursor {
	for p := range c.Ancestors() {
		if p.node.Kind().IsFunction() {
			return p
		}
	}

	return nil
}

// EnclosingType returns the innermost type declaration containing the cursor.
func (c *Cursor) EnclosingType() *Cursor {
	for p := range c.Ancestors() {
		if p.node.Kind() == KindTypeDecl {
			return p
		}
	}

	return nil
}

// EnclosingNamespace returns the dotted name of the namespaces containing the cursor.
func (c *Cursor) EnclosingNamespace() string {
	var parts []string

	for p := range c.Ancestors() {
		if p.node.Kind() == KindNamespace {
			parts = append(parts, p.node.Text())
		}
	}

	slices.Reverse(parts)

	return strings.Join(parts, ".")
}

// Inspect visits the subtree rooted at the cursor in depth-first order.
// f returns false to skip the children of a node.
// Cancellation is polled once per visited statement; the context error is returned on abort.
func (c *Cursor) Inspect(ctx context.Context, f func(*Cursor) bool) error {
	if c == nil || c.node == nil {
		return nil
	}

	if c.node.Kind().IsStatement() {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if !f(c) {
		return nil
	}

	for child := range c.Children() {
		if err := child.Inspect(ctx, f); err != nil {
			return err
		}
	}

	return nil
}

// Preorder yields the cursors in the subtree of the given kinds, without descending into nested functions.
// An empty kind list yields every node.
func (c *Cursor) Preorder(kinds ...Kind) iter.Seq[*Cursor] {
	return func(yield func(*Cursor) bool) {
		c.preorder(kinds, true, yield)
	}
}

func (c *Cursor) preorder(kinds []Kind, root bool, yield func(*Cursor) bool) bool {
	kind := c.node.Kind()
	if !root && kind.IsFunction() {
		return true
	}

	if len(kinds) == 0 || slices.Contains(kinds, kind) {
		if !yield(c) {
			return false
		}
	}

	for child := range c.Children() {
		if !child.preorder(kinds, false, yield) {
			return false
		}
	}

	return true
}

// FindSpan returns the innermost cursor whose node has exactly the given span.
// Ties between nested nodes with equal spans resolve to the innermost node.
func (c *Cursor) FindSpan(span Span) *Cursor {
	if c == nil || !c.node.Span().Contains(span) {
		return nil
	}

	for child := range c.Children() {
		if found := child.FindSpan(span); found != nil {
			return found
		}
	}

	if c.node.Span() == span {
		return c
	}

	return nil
}

// FindKind returns the innermost cursor of the given kind whose node has exactly the given span.
func (c *Cursor) FindKind(span Span, kind Kind) *Cursor {
	if c == nil || !c.node.Span().Contains(span) {
		return nil
	}

	for child := range c.Children() {
		if found := child.FindKind(span, kind); found != nil {
			return found
		}
	}

	if c.node.Kind() == kind && c.node.Span() == span {
		return c
	}

	return nil
}
