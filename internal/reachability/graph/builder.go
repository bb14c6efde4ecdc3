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

package graph

import (
	"context"
	"errors"
	"fmt"

	"fillmore-labs.com/awaitguard/internal/reachability/block"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// ErrUnsupported is returned for statements the builder cannot model.
var ErrUnsupported = errors.New("unsupported statement")

// builder constructs the control flow graph.
// It traverses the tree and creates blocks and edges based on control flow semantics.
//
// The append* methods return the next basic [block] where statements should be added.
type builder struct {
	block.Factory                         // All blocks created during traversal
	ctx           context.Context         // Polled once per statement
	labels        map[string]*LabelTarget // Maps label names to their target blocks
	targetScopes  branchTargetScopes      // Current break/continue targets
}

// appendStmtList appends a list of statements to the current block.
func (b *builder) appendStmtList(current *block.Block, list []*tree.Node) (*block.Block, error) {
	for _, s := range list {
		var err error
		if current, err = b.appendStmt(current, s); err != nil {
			return nil, err
		}
	}

	return current, nil
}

// appendStmt appends a single statement to the current block.
func (b *builder) appendStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}

	switch kind := stmt.Kind(); kind {
	case tree.KindBlock:
		return b.appendStmtList(current, stmt.Statements())

	case tree.KindExprStmt, tree.KindLocalDecl, tree.KindEmpty, tree.KindYieldReturn, tree.KindLocalFunction:
		current.Add(stmt)
		return current, nil

	case tree.KindReturn, tree.KindThrow, tree.KindYieldBreak:
		current.Add(stmt)

		return b.New(stmt.End()), nil // unreachable after return or throw

	case tree.KindBreak, tree.KindContinue:
		current.Add(stmt)

		if target := b.targetScopes.branchTarget(kind); target != nil {
			current.Link(target)
		}

		return b.New(stmt.End()), nil // unreachable after break or continue

	case tree.KindGoto:
		current.Add(stmt)
		current.Link(b.labelTarget(stmt.Text()).Body())

		return b.New(stmt.End()), nil // unreachable after goto

	case tree.KindLabeled:
		return b.appendLabeledStmt(current, stmt)

	case tree.KindIf:
		return b.appendIfStmt(current, stmt)

	case tree.KindWhile:
		return b.appendWhileStmt(current, stmt)

	case tree.KindDo:
		return b.appendDoStmt(current, stmt)

	case tree.KindFor:
		return b.appendForStmt(current, stmt)

	case tree.KindForEach:
		return b.appendForEachStmt(current, stmt)

	case tree.KindUsing:
		current.Add(stmt.Resource())

		return b.appendStmt(current, stmt.Body())

	case tree.KindTry:
		return b.appendTryStmt(current, stmt)

	case tree.KindSwitch:
		return b.appendSwitchStmt(current, stmt)

	default:
		return nil, fmt.Errorf("%w: %s at %s", ErrUnsupported, kind, stmt.Span())
	}
}

// appendLabeledStmt handles labeled statements.
func (b *builder) appendLabeledStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	labeled := b.labelTarget(stmt.Text())
	if !labeled.Define() {
		return nil, fmt.Errorf("%w: duplicate label %q", ErrUnsupported, stmt.Text())
	}

	body := labeled.Body()
	body.SetStart(stmt.Body().Pos())

	current.Link(body)

	return b.appendStmt(body, stmt.Body())
}

// labelTarget retrieves or creates a target for the given label.
// Labels never defined inside the statement stay without successors: a goto to them leaves the statement.
func (b *builder) labelTarget(label string) *LabelTarget {
	if target, ok := b.labels[label]; ok {
		return target
	}

	body := b.New(tree.NoPos) // forward goto reference
	target := NewLabelTarget(body)
	b.labels[label] = target

	return target
}

// constant returns the value of a constant boolean condition.
func constant(cond *tree.Node) (value, ok bool) {
	if cond.Kind() != tree.KindLiteral && !cond.Has(tree.FlagConstant) {
		return false, false
	}

	switch cond.Text() {
	case "true":
		return true, true

	case "false":
		return false, true

	default:
		return false, false
	}
}

// linkCond links a condition to its true and false successors, honoring constant conditions.
func linkCond(current *block.Block, cond *tree.Node, then, els *block.Block) {
	value, ok := constant(cond)

	switch {
	case !ok:
		current.LinkBranch(then, els)

	case value:
		current.Link(then)

	default:
		current.Link(els)
	}
}

// appendIfStmt handles if statements.
func (b *builder) appendIfStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	current.Add(stmt.Cond())

	after := b.New(stmt.End())     // after if
	body := b.New(stmt.Then().Pos()) // if body

	afterBody, err := b.appendStmt(body, stmt.Then())
	if err != nil {
		return nil, err
	}

	afterBody.Link(after)

	elseBranch := after
	if els := stmt.Else(); els != nil {
		elseBranch = b.New(els.Pos()) // else branch

		afterElse, err := b.appendStmt(elseBranch, els)
		if err != nil {
			return nil, err
		}

		afterElse.Link(after)
	}

	linkCond(current, stmt.Cond(), body, elseBranch)

	return after, nil
}

// appendWhileStmt handles while loops.
func (b *builder) appendWhileStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	cond := b.New(stmt.Cond().Pos()) // while condition
	cond.Add(stmt.Cond())
	current.Link(cond)

	body := b.New(stmt.Body().Pos()) // while body
	after, old := b.newAfterBlock(stmt.End())

	linkCond(cond, stmt.Cond(), body, after)

	oldc := b.targetScopes.pushContinue(cond)

	bodyEnd, err := b.appendStmt(body, stmt.Body())
	if err != nil {
		return nil, err
	}

	bodyEnd.Link(cond)

	b.targetScopes.popContinue(oldc)
	b.popAfterBreak(old)

	return after, nil
}

// appendDoStmt handles do-while loops.
func (b *builder) appendDoStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	body := b.New(stmt.Body().Pos()) // do body
	current.Link(body)

	cond := b.New(stmt.Cond().Pos()) // do condition
	cond.Add(stmt.Cond())

	after, old := b.newAfterBlock(stmt.End())

	oldc := b.targetScopes.pushContinue(cond)

	bodyEnd, err := b.appendStmt(body, stmt.Body())
	if err != nil {
		return nil, err
	}

	bodyEnd.Link(cond)
	linkCond(cond, stmt.Cond(), body, after)

	b.targetScopes.popContinue(oldc)
	b.popAfterBreak(old)

	return after, nil
}

// appendForStmt handles for loops.
func (b *builder) appendForStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	if init := stmt.Child(0); init.Kind() != tree.KindEmpty {
		current.Add(init)
	}

	body := b.New(stmt.Body().Pos())          // for body
	after, old := b.newAfterBlock(stmt.End()) // after for

	cond := body
	if c := stmt.Cond(); c != nil && c.Kind() != tree.KindEmpty {
		cond = b.New(c.Pos()) // for condition
		cond.Add(c)
		linkCond(cond, c, body, after)
	}

	current.Link(cond)

	post := cond
	if step := stmt.Child(2); step != nil && step.Kind() != tree.KindEmpty {
		post = b.New(step.Pos()) // for step
		post.Add(step)
		post.Link(cond)
	}

	oldc := b.targetScopes.pushContinue(post)

	bodyEnd, err := b.appendStmt(body, stmt.Body())
	if err != nil {
		return nil, err
	}

	bodyEnd.Link(post)

	b.targetScopes.popContinue(oldc)
	b.popAfterBreak(old)

	return after, nil
}

// appendForEachStmt handles foreach loops. The collection may be empty, so the end point
// is reachable whenever the loop is.
func (b *builder) appendForEachStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	current.Add(stmt.Collection())

	head := b.New(stmt.Collection().End()) // move next
	current.Link(head)

	body := b.New(stmt.Body().Pos())          // foreach body
	after, old := b.newAfterBlock(stmt.End()) // after foreach

	head.LinkBranch(body, after)

	oldc := b.targetScopes.pushContinue(head)

	bodyEnd, err := b.appendStmt(body, stmt.Body())
	if err != nil {
		return nil, err
	}

	bodyEnd.Link(head)

	b.targetScopes.popContinue(oldc)
	b.popAfterBreak(old)

	return after, nil
}

// appendTryStmt handles try statements.
//
// Every catch clause is reachable when the try statement is. The end point is
// reachable when the end of the try block or of a catch clause is, and the end
// of the finally clause, if any, is reachable as well.
func (b *builder) appendTryStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	after := b.New(stmt.End()) // after try

	join := after
	if fin := stmt.FinallyClause(); fin != nil {
		join = b.New(fin.Pos()) // finally
	}

	body := b.New(stmt.Body().Pos()) // try block

	bodyEnd, err := b.appendStmt(body, stmt.Body())
	if err != nil {
		return nil, err
	}

	bodyEnd.Link(join)

	// dispatch chain current -> catch -> catch -> ...
	prevDispatch, prevBody := current, body

	for _, clause := range stmt.Catches() {
		dispatch := b.New(tree.NoPos) // catch dispatch
		prevDispatch.LinkClause(prevBody, dispatch)

		handler := b.New(clause.Pos()) // catch body

		handlerEnd, err := b.appendStmt(handler, clause.Body())
		if err != nil {
			return nil, err
		}

		handlerEnd.Link(join)

		prevDispatch, prevBody = dispatch, handler
	}

	prevDispatch.Link(prevBody)

	if fin := stmt.FinallyClause(); fin != nil {
		finEnd, err := b.appendStmt(join, fin.Body())
		if err != nil {
			return nil, err
		}

		finEnd.Link(after)
	}

	return after, nil
}

// appendSwitchStmt handles switch statements. Sections do not fall through.
func (b *builder) appendSwitchStmt(current *block.Block, stmt *tree.Node) (*block.Block, error) {
	current.Add(stmt.Child(0))

	after, old := b.newAfterBlock(stmt.End()) // after switch

	// no default, switch can skip all sections
	defaultTarget := after

	// previous case labels, linked current -> labels1 -> labels2 -> default
	prevLabels := current

	var prevBody *block.Block

	for _, section := range stmt.ChildList(1) {
		body := b.New(section.Pos()) // section body

		hasCase := false

		for _, label := range section.Labels() {
			if label.Has(tree.FlagDefault) {
				defaultTarget = body
			} else {
				hasCase = true
			}
		}

		if hasCase {
			labels := b.New(section.Pos()) // case labels
			prevLabels.LinkClause(prevBody, labels)
			prevBody, prevLabels = body, labels
		}

		bodyEnd, err := b.appendStmtList(body, section.Statements())
		if err != nil {
			return nil, err
		}

		bodyEnd.Link(after)
	}

	// default section after all labels
	prevLabels.LinkClause(prevBody, defaultTarget)

	b.popAfterBreak(old)

	return after, nil
}

func (b *builder) newAfterBlock(pos tree.Pos) (after, old *block.Block) {
	after = b.New(pos) // after

	old = b.targetScopes.pushBreak(after)

	return after, old
}

func (b *builder) popAfterBreak(old *block.Block) {
	b.targetScopes.popBreak(old)
}
