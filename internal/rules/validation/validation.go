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

// Package validation reports argument validation in iterator and async methods.
//
// Exceptions thrown by such validation surface only when the sequence is
// enumerated or the task is awaited. Moving the rest of the method body into a
// local function makes the validation run eagerly.
package validation

import (
	"strings"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const (
	// ID is the rule identifier.
	ID = "AG0002"

	// Name is the configuration key of the rule.
	Name = "validate-arguments"

	// ArgumentException is the base type of argument validation exceptions.
	ArgumentException = "System.ArgumentException"
)

// New creates the rule.
func New() *dispatch.Rule {
	return &dispatch.Rule{
		ID:       ID,
		Name:     Name,
		Doc:      "validate arguments of iterator and async methods eagerly",
		Severity: report.SeverityWarning,
		Enabled:  true,
		Flag:     config.ArgumentValidationRule,
		Kinds:    []tree.Kind{tree.KindMethodDecl},
		Run:      run,
	}
}

func run(p *dispatch.Pass) {
	method := p.Node()

	body := method.Body()
	if body == nil {
		return
	}

	var what string

	switch {
	case isIterator(p.Cursor()):
		what = "iterator"

	case method.Has(tree.FlagAsync):
		what = "async"

	default:
		return
	}

	stmts := body.Statements()

	last := -1
	for i, s := range stmts {
		if !isValidation(p.Symbols(), s) {
			break
		}

		last = i
	}

	// nothing validated or nothing left to defer
	if last < 0 || last == len(stmts)-1 || !stmts[last].Pos().IsValid() {
		return
	}

	props := map[string]string{report.PropIndex: report.FormatIndex(stmts[last].Pos())}
	p.Report(method.Span(), props, "Validate arguments of %s method '%s' before the body is deferred", what, method.Text())
}

// isIterator reports whether the method body yields.
func isIterator(c *tree.Cursor) bool {
	for range c.Preorder(tree.KindYieldReturn, tree.KindYieldBreak) {
		return true
	}

	return false
}

// isValidation reports whether the statement is `if (...) throw new ArgumentException(...)`
// or a call to a static ThrowIf... guard of an argument exception type.
func isValidation(cache *symbols.Cache, s *tree.Node) bool {
	switch s.Kind() {
	case tree.KindIf:
		if s.Else() != nil {
			return false
		}

		then := s.Then()
		if then.Kind() == tree.KindBlock {
			if stmts := then.Statements(); len(stmts) == 1 {
				then = stmts[0]
			}
		}

		if then.Kind() != tree.KindThrow {
			return false
		}

		typ := then.Operand().Type()

		return typ != "" && cache.IsOrDerivesFrom(typ, ArgumentException)

	case tree.KindExprStmt:
		call := s.Operand()
		if call.Kind() != tree.KindInvocation {
			return false
		}

		callee := call.Callee()
		if callee.Kind() != tree.KindMemberAccess || !strings.HasPrefix(callee.Text(), "ThrowIf") {
			return false
		}

		typ := callee.Operand().Type()

		return typ != "" && cache.IsOrDerivesFrom(typ, ArgumentException)

	default:
		return false
	}
}
