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

// Package graph builds the control-flow graph of a single statement.
package graph

import (
	"context"
	"runtime/trace"

	"fillmore-labs.com/awaitguard/internal/reachability/block"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// BlockInterval represents a range in the source file with successor block indices for control-flow analysis.
type BlockInterval struct {
	Start, End tree.Pos // The range of the block in the source file.
	Successors []int    // Indices of successor blocks in the intervals slice.
}

// Graph is the control-flow graph of one statement.
type Graph struct {
	Blocks []BlockInterval

	// Entry is the block holding the start point of the statement,
	// Exit the block holding its end point.
	Entry, Exit int
}

// Build constructs the control-flow graph of the given statement.
//
// Jumps leaving the statement (return, throw, break and continue without an
// enclosed target, goto to an outer label) have no edge to the exit block.
// Build fails for unsupported statement kinds and on cancellation.
func Build(ctx context.Context, stmt *tree.Node) (*Graph, error) {
	defer trace.StartRegion(ctx, "Graph").End()

	b := builder{
		ctx:    ctx,
		labels: make(map[string]*LabelTarget),
	}

	entry := b.New(stmt.Pos())

	exit, err := b.appendStmt(entry, stmt)
	if err != nil {
		return nil, err
	}

	return &Graph{
		Blocks: buildIntervals(b.All()),
		Entry:  entry.Index(),
		Exit:   exit.Index(),
	}, nil
}

// buildIntervals creates a list of block intervals from the CFG blocks.
func buildIntervals(blocks []*block.Block) []BlockInterval {
	intervals := make([]BlockInterval, len(blocks))
	for i, b := range blocks {
		successors := make([]int, 0, 2)

		for _, succ := range [...]*block.Block{b.Successor1, b.Successor2} {
			if succ != nil {
				successors = append(successors, succ.Index())
			}
		}

		intervals[i] = BlockInterval{
			Start:      b.Pos,
			End:        b.End,
			Successors: successors,
		}
	}

	return intervals
}
