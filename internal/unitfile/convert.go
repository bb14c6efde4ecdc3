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

package unitfile

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Tree converts the unit to a snapshot.
func (u *Unit) Tree() (*tree.Unit, error) {
	members := make([]*tree.Node, 0, len(u.Members))

	for i := range u.Members {
		n, err := u.Members[i].tree()
		if err != nil {
			return nil, err
		}

		members = append(members, n)
	}

	info := tree.UnitInfo{
		Path:      u.Path,
		Imports:   slices.Clone(u.Imports),
		Generated: u.Generated,
		Source:    u.Source,
	}

	if !slices.ContainsFunc(u.Members, hasSpan) {
		return tree.NewUnit(info, tree.AssignSpans(tree.New(tree.KindCompilationUnit, "", members...))), nil
	}

	end := tree.Pos(0)
	for _, m := range members {
		end = max(end, m.End())
	}

	if n, err := safecast.Conv[int32](len(u.Source)); err == nil {
		end = max(end, tree.Pos(n))
	}

	root := tree.Make(tree.Spec{Kind: tree.KindCompilationUnit, Span: tree.Span{Start: 0, End: end}, Children: members})

	return tree.NewUnit(info, root), nil
}

func hasSpan(n Node) bool {
	return len(n.Span) > 0 || slices.ContainsFunc(n.Children, hasSpan)
}

func (n *Node) tree() (*tree.Node, error) {
	kind, ok := tree.ParseKind(n.Kind)
	if !ok || kind == tree.KindInvalid || kind == tree.KindCompilationUnit {
		return nil, fmt.Errorf("%w: node kind %q", ErrInvalid, n.Kind)
	}

	var flags tree.Flags

	for _, name := range n.Flags {
		f, err := tree.ParseFlag(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, n.Kind, err)
		}

		flags |= f
	}

	span, err := n.span()
	if err != nil {
		return nil, err
	}

	children := make([]*tree.Node, 0, len(n.Children))

	for i := range n.Children {
		c, err := n.Children[i].tree()
		if err != nil {
			return nil, err
		}

		children = append(children, c)
	}

	return tree.Make(tree.Spec{
		Kind:     kind,
		Flags:    flags,
		Span:     span,
		Text:     n.Text,
		Type:     n.Type,
		Symbol:   n.Symbol,
		Leading:  n.Leading,
		Children: children,
	}), nil
}

func (n *Node) span() (tree.Span, error) {
	if len(n.Span) == 0 {
		return tree.NoSpan, nil
	}

	if len(n.Span) != 2 {
		return tree.NoSpan, fmt.Errorf("%w: %s span %v needs start and end", ErrInvalid, n.Kind, n.Span)
	}

	start, err := safecast.Conv[int32](n.Span[0])
	if err != nil {
		return tree.NoSpan, fmt.Errorf("%w: %s span start: %w", ErrInvalid, n.Kind, err)
	}

	end, err := safecast.Conv[int32](n.Span[1])
	if err != nil {
		return tree.NoSpan, fmt.Errorf("%w: %s span end: %w", ErrInvalid, n.Kind, err)
	}

	s := tree.Span{Start: tree.Pos(start), End: tree.Pos(end)}
	if !s.IsValid() {
		return tree.NoSpan, fmt.Errorf("%w: %s span %s", ErrInvalid, n.Kind, s)
	}

	return s, nil
}

// FromTrees serializes snapshots together with their symbol table.
func FromTrees(units []*tree.Unit, syms []*symbols.Symbol) *Compilation {
	c := &Compilation{Symbols: syms, Units: make([]Unit, 0, len(units))}

	for _, u := range units {
		info := u.Info()

		su := Unit{
			Path:      info.Path,
			Imports:   info.Imports,
			Generated: info.Generated,
			Source:    info.Source,
		}

		for _, m := range u.Root().Children() {
			su.Members = append(su.Members, fromTree(m))
		}

		c.Units = append(c.Units, su)
	}

	return c
}

func fromTree(n *tree.Node) Node {
	s := Node{
		Kind:    n.Kind().String(),
		Text:    n.Text(),
		Type:    n.Type(),
		Symbol:  n.Symbol(),
		Leading: n.Leading(),
	}

	for name := range n.Flags().Names() {
		s.Flags = append(s.Flags, name)
	}

	if span := n.Span(); span.IsValid() {
		s.Span = []int64{int64(span.Start), int64(span.End)}
	}

	for _, c := range n.Children() {
		s.Children = append(s.Children, fromTree(c))
	}

	return s
}
