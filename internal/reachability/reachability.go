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

// Package reachability decides whether the end point of a statement is
// reachable and whether an earlier suspension point dominates a later one.
package reachability

import (
	"context"
	"runtime/trace"

	"fillmore-labs.com/awaitguard/internal/reachability/graph"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Oracle answers end point reachability queries for statements.
//
// Results are memoized per statement node. An Oracle is meant for a single
// handler invocation and is not safe for concurrent use.
type Oracle struct {
	ctx  context.Context
	memo map[*tree.Node]result

	// Reusable BFS state to avoid allocations on each reachability check
	seen  []bool // Visited set
	queue []int  // Ring buffer
}

type result struct {
	reachable, ok bool
}

// NewOracle creates an oracle polling ctx for cancellation.
func NewOracle(ctx context.Context) *Oracle {
	return &Oracle{ctx: ctx, memo: make(map[*tree.Node]result)}
}

// EndPointReachable reports whether control can reach the point immediately after
// the statement, assuming its start point is reachable. ok is false when the
// control-flow graph could not be built.
func (o *Oracle) EndPointReachable(stmt *tree.Node) (reachable, ok bool) {
	if r, ok := o.memo[stmt]; ok {
		return r.reachable, r.ok
	}

	g, err := graph.Build(o.ctx, stmt)
	if err != nil {
		// Cancellation is not a property of the statement and is not memoized.
		if o.ctx.Err() == nil {
			o.memo[stmt] = result{}
		}

		return false, false
	}

	r := result{reachable: o.reachable(g), ok: true}
	o.memo[stmt] = r

	return r.reachable, r.ok
}

// reachable determines whether the exit block is reachable from the entry block using BFS.
func (o *Oracle) reachable(g *graph.Graph) bool {
	if g.Entry == g.Exit {
		return true
	}

	n := len(g.Blocks)
	if cap(o.seen) < n {
		o.seen = make([]bool, n)
		o.queue = make([]int, n)
	}

	seen, queue := o.seen[:n], o.queue[:n]
	clear(seen) // Reset visited set from previous checks

	seen[g.Entry] = true
	queue[0] = g.Entry

	for qHead, qTail := 0, 1; qHead < qTail; qHead++ {
		for _, succ := range g.Blocks[queue[qHead]].Successors {
			if succ == g.Exit {
				return true
			}

			if seen[succ] {
				continue
			}
			seen[succ] = true

			queue[qTail] = succ
			qTail++
		}
	}

	return false
}

// Dominates reports whether the marker, textually before point in the same
// function, dominates it.
//
// Starting at the statement enclosing the marker, the walk moves outward until it
// reaches a statement that also encloses point. Every statement passed must have
// a reachable end point. A statement whose graph cannot be built rejects the marker.
func (o *Oracle) Dominates(marker, point *tree.Cursor) bool {
	defer trace.StartRegion(o.ctx, "Dominates").End()

	if !sameFunction(marker, point) {
		return false
	}

	if ms, ps := marker.Node().Span(), point.Node().Span(); !ms.IsValid() || !ps.IsValid() || ms.Start >= ps.Start {
		return false
	}

	enclosing := make(map[*tree.Node]struct{})
	for s := point.EnclosingStatement(); s != nil; s = s.ParentStatement() {
		enclosing[s.Node()] = struct{}{}
	}

	for s := marker.EnclosingStatement(); s != nil; s = s.ParentStatement() {
		if _, ok := enclosing[s.Node()]; ok {
			return true
		}

		if reachable, ok := o.EndPointReachable(s.Node()); !ok || !reachable {
			return false
		}
	}

	return true
}

func sameFunction(a, b *tree.Cursor) bool {
	fa, fb := a.EnclosingFunction(), b.EnclosingFunction()
	if fa == nil || fb == nil {
		return false
	}

	return fa.Equal(fb)
}
