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

// Package block provides the basic blocks of the control-flow graph.
package block

import "fillmore-labs.com/awaitguard/internal/tree"

// Block represents a [basic Block] in the [control-flow graph].
// It is a sequence of statements with a single entry and exit point.
// It tracks its position in the source code and its successor blocks.
//
// [basic Block]: https://en.wikipedia.org/wiki/Basic_block
// [control-flow graph]: https://en.wikipedia.org/wiki/Control-flow_graph
type Block struct {
	Pos, End tree.Pos // The beginning and end of the source range

	// The successors.
	//
	// For unconditional jumps, Successor1 is the only successor.
	// For conditional branches, Successor1 is the "then" branch,
	// Successor2 the "else" branch.
	Successor1, Successor2 *Block

	index int // creation order
}

// Index returns the creation order of the block within its [Factory].
func (b *Block) Index() int { return b.index }

// IsEmpty reports whether no statement has been added to the block.
func (b *Block) IsEmpty() bool {
	return !b.End.IsValid()
}

// Add appends a statement or expression to the block, updating its source code range.
func (b *Block) Add(n *tree.Node) {
	b.update(n.Span())
}

func (b *Block) update(s tree.Span) {
	if !s.IsValid() {
		return
	}

	if !b.Pos.IsValid() || s.Start < b.Pos {
		b.Pos = s.Start
	}

	if s.End > b.End {
		b.End = s.End
	}
}

// SetStart sets the start of the source range of a block created before its position was known.
func (b *Block) SetStart(pos tree.Pos) {
	b.Pos = pos
}

// Link adds an unconditional edge to next. A second link turns the block into a branch.
func (b *Block) Link(next *Block) {
	switch {
	case b.Successor1 == nil:
		b.Successor1 = next

	case b.Successor2 == nil:
		b.Successor2 = next

	default:
		panic("block already has two successors")
	}
}

// LinkBranch sets the successors of a conditional branch.
func (b *Block) LinkBranch(then, els *Block) {
	b.Successor1, b.Successor2 = then, els
}

// LinkClause sets the successors for a clause in a chain (switch/catch dispatch).
//
// It links the current clause to the next clause in the chain, while optionally
// branching to a body if the clause is not the start of the chain.
//
//	current -> clause -> clause -> ...
//	              |         |
//	              v         v
//	            body      body
func (b *Block) LinkClause(body, next *Block) {
	if body == nil {
		b.Successor1 = next
		return
	}

	b.Successor1, b.Successor2 = body, next
}
