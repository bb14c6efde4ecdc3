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

// Package rewrite implements the structural fixes for diagnostics.
//
// Fixes are planned against an immutable snapshot and committed as a whole:
// a fix either produces a new snapshot or leaves the unit unchanged.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/rules/configureawait"
	"fillmore-labs.com/awaitguard/internal/rules/validation"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

var (
	// ErrNotApplicable is returned when a fix does not apply to the tree at the diagnostic.
	ErrNotApplicable = errors.New("fix not applicable")

	// ErrNoFix is returned for diagnostics of rules without a fix.
	ErrNoFix = errors.New("no fix available")

	// ErrStale is returned when the document changed while fixes were planned.
	ErrStale = errors.New("document changed concurrently")
)

// Fix plans the edit resolving a diagnostic.
type Fix func(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.EditPlan, error)

// Fixer maps rule identifiers to their fixes.
//
// A Fixer is safe for concurrent use once all fixes are registered.
type Fixer struct {
	fixes  map[string]Fix
	logger *slog.Logger
}

// NewFixer creates a fixer with the fixes of the built-in rules.
func NewFixer(logger *slog.Logger) *Fixer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f := &Fixer{fixes: make(map[string]Fix), logger: logger}
	f.Register(configureawait.ID, PlanAddConfigureAwait)
	f.Register(validation.ID, planExtraction)

	return f
}

// Register sets the fix for a rule.
func (f *Fixer) Register(ruleID string, fix Fix) { f.fixes[ruleID] = fix }

// CanFix reports whether diagnostics of the rule have a fix.
func (f *Fixer) CanFix(ruleID string) bool {
	_, ok := f.fixes[ruleID]

	return ok
}

// Plan computes the edit for a single diagnostic.
func (f *Fixer) Plan(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.EditPlan, error) {
	fix, ok := f.fixes[d.RuleID]
	if !ok {
		return nil, fmt.Errorf("%w for rule %s", ErrNoFix, d.RuleID)
	}

	return fix(ctx, u, cache, d)
}

// Fix applies the fix for one diagnostic and returns the new snapshot.
// On error the unit is returned unchanged.
func (f *Fixer) Fix(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.Unit, error) {
	plan, err := f.Plan(ctx, u, cache, d)
	if err != nil {
		return u, err
	}

	return u.Apply(plan)
}

// Result summarizes a batch fix.
type Result struct {
	Applied int // diagnostics fixed
	Skipped int // diagnostics without applicable fix or overlapping an earlier one
}

// FixAll plans fixes for all diagnostics against the same snapshot and commits
// those with disjoint targets as one edit. Fixes overlapping an earlier one are
// skipped; running FixAll again on the result picks them up.
func (f *Fixer) FixAll(ctx context.Context, u *tree.Unit, cache *symbols.Cache, ds []report.Diagnostic) (*tree.Unit, Result, error) {
	var (
		merged tree.EditPlan
		res    Result
	)

	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return u, Result{}, err
		}

		plan, err := f.Plan(ctx, u, cache, d)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return u, Result{}, err

		case err != nil:
			f.logger.LogAttrs(ctx, slog.LevelDebug, "Skipping fix",
				slog.String("rule", d.RuleID), slog.String("span", d.Span.String()), slog.Any("error", err))

			res.Skipped++

			continue
		}

		if !merged.Merge(plan) {
			f.logger.LogAttrs(ctx, slog.LevelDebug, "Skipping overlapping fix",
				slog.String("rule", d.RuleID), slog.String("span", d.Span.String()))

			res.Skipped++

			continue
		}

		res.Applied++
	}

	next, err := u.Apply(&merged)
	if err != nil {
		return u, Result{}, err
	}

	return next, res, nil
}

// Commit fixes the diagnostics of the current snapshot of doc and publishes the
// result, unless the document changed in the meantime.
func (f *Fixer) Commit(ctx context.Context, doc *tree.Document, cache *symbols.Cache, ds []report.Diagnostic) (Result, error) {
	base := doc.Load()

	next, res, err := f.FixAll(ctx, base, cache, ds)
	if err != nil {
		return Result{}, err
	}

	if next == base {
		return res, nil
	}

	if !doc.Commit(base, next) {
		return Result{}, ErrStale
	}

	return res, nil
}

// planExtraction plans the extraction for an argument validation diagnostic
// reported on a function, split after the validation statements.
func planExtraction(ctx context.Context, u *tree.Unit, cache *symbols.Cache, d report.Diagnostic) (*tree.EditPlan, error) {
	anchor, err := d.Index()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotApplicable, err)
	}

	root := u.Cursor()

	fn := root.FindKind(d.Span, tree.KindMethodDecl)
	if fn == nil {
		fn = root.FindKind(d.Span, tree.KindLocalFunction)
	}

	if fn == nil {
		return nil, fmt.Errorf("%w: no function at %s", ErrNotApplicable, d.Span)
	}

	return PlanExtractLocalFunction(ctx, cache, fn, anchor)
}
