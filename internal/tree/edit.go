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
	"errors"
	"fmt"
	"slices"
)

// Path addresses a node by the child indices leading to it from the root.
type Path []int

// HasPrefix reports whether q addresses p itself or one of its ancestors.
func (p Path) HasPrefix(q Path) bool {
	return len(q) <= len(p) && slices.Equal(p[:len(q)], q)
}

var (
	// ErrConflict is returned when replacements of a plan overlap.
	ErrConflict = errors.New("overlapping replacements")

	// ErrInvalidPath is returned when a replacement does not address a node of the unit.
	ErrInvalidPath = errors.New("invalid replacement path")
)

// Replacement substitutes the node at Path.
type Replacement struct {
	Path Path
	Node *Node
}

// EditPlan is a set of node replacements applied to a unit as a whole.
type EditPlan struct {
	replacements []Replacement
}

// Replace records the replacement of the node at c with n.
func (p *EditPlan) Replace(c *Cursor, n *Node) {
	p.replacements = append(p.replacements, Replacement{Path: c.Path(), Node: n})
}

// Len returns the number of recorded replacements.
func (p *EditPlan) Len() int {
	if p == nil {
		return 0
	}

	return len(p.replacements)
}

// Conflicts reports whether any replacement of o overlaps one of p.
func (p *EditPlan) Conflicts(o *EditPlan) bool {
	for _, a := range p.replacements {
		for _, b := range o.replacements {
			if a.Path.HasPrefix(b.Path) || b.Path.HasPrefix(a.Path) {
				return true
			}
		}
	}

	return false
}

// Merge adds the replacements of o unless they overlap replacements of p.
// Replacements identical to one already in p are dropped.
func (p *EditPlan) Merge(o *EditPlan) bool {
	if o.Len() == 0 {
		return true
	}

	rest := &EditPlan{replacements: slices.DeleteFunc(slices.Clone(o.replacements), p.contains)}

	if p.Conflicts(rest) {
		return false
	}

	p.replacements = append(p.replacements, rest.replacements...)

	return true
}

func (p *EditPlan) contains(r Replacement) bool {
	return slices.ContainsFunc(p.replacements, func(q Replacement) bool {
		return slices.Equal(q.Path, r.Path) && Equal(q.Node, r.Node)
	})
}

// Apply commits all replacements of the plan and returns the new snapshot.
// On error the unit is returned unchanged.
func (u *Unit) Apply(p *EditPlan) (*Unit, error) {
	if p.Len() == 0 {
		return u, nil
	}

	repls := slices.Clone(p.replacements)
	slices.SortFunc(repls, func(a, b Replacement) int { return slices.Compare(a.Path, b.Path) })

	for i := 1; i < len(repls); i++ {
		if repls[i].Path.HasPrefix(repls[i-1].Path) {
			return u, fmt.Errorf("%w at %v", ErrConflict, repls[i].Path)
		}
	}

	root, err := rebuild(u.root, 0, repls)
	if err != nil {
		return u, err
	}

	return u.WithRoot(root), nil
}

// rebuild copies the nodes along the replaced paths; everything else is shared.
func rebuild(n *Node, depth int, repls []Replacement) (*Node, error) {
	if len(repls[0].Path) == depth {
		return repls[0].Node, nil
	}

	if n == nil {
		return nil, ErrInvalidPath
	}

	children := slices.Clone(n.children)

	for i := 0; i < len(repls); {
		idx := repls[i].Path[depth]

		j := i + 1
		for j < len(repls) && repls[j].Path[depth] == idx {
			j++
		}

		if idx < 0 || idx >= len(children) {
			return nil, fmt.Errorf("%w: index %d at depth %d", ErrInvalidPath, idx, depth)
		}

		child, err := rebuild(children[idx], depth+1, repls[i:j])
		if err != nil {
			return nil, err
		}

		children[idx] = child
		i = j
	}

	c := n.clone()
	c.children = children

	return c, nil
}

// AssignSpans numbers the nodes of a tree in document order and returns the renumbered tree.
// Every node receives a span enclosing the spans of its children, starting at offset 0.
func AssignSpans(n *Node) *Node {
	next := Pos(0)

	return assignSpans(n, &next)
}

func assignSpans(n *Node, next *Pos) *Node {
	if n == nil {
		return nil
	}

	c := n.clone()
	c.span.Start = *next
	*next++

	c.children = make([]*Node, len(n.children))
	for i, child := range n.children {
		c.children[i] = assignSpans(child, next)
	}

	c.span.End = *next
	*next++

	return c
}
