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

package analyzer

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/rewrite"
	"fillmore-labs.com/awaitguard/internal/rules/configureawait"
	"fillmore-labs.com/awaitguard/internal/rules/namespaces"
	"fillmore-labs.com/awaitguard/internal/rules/sequence"
	"fillmore-labs.com/awaitguard/internal/rules/validation"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// maxRounds bounds the analysis and fix rounds of [Analyzer.FixAll].
const maxRounds = 4

// Analyzer runs the awaitguard rules over compilations.
type Analyzer struct {
	opts     *runOptions
	registry *dispatch.Registry
	fixer    *rewrite.Fixer
}

// New creates a new instance of the awaitguard analyzer.
// It allows for programmatic configuration using [Option].
func New(opts ...Option) *Analyzer {
	r := makeRunOptions(opts)

	return &Analyzer{
		opts: r,
		registry: dispatch.MustRegistry(
			configureawait.New(),
			validation.New(),
			namespaces.New(),
			sequence.New(),
		),
		fixer: rewrite.NewFixer(r.logger),
	}
}

// RegisterFlags binds the analyzer options to command line flags.
// A nil flag set registers with [flag.CommandLine].
func (a *Analyzer) RegisterFlags(flags *flag.FlagSet) {
	registerFlags(a.opts, a.registry, flags)
}

// Rules returns the registered rules.
func (a *Analyzer) Rules() []*dispatch.Rule { return a.registry.Rules() }

// Run analyzes the units of one compilation and returns the sorted diagnostics.
func (a *Analyzer) Run(ctx context.Context, units []*tree.Unit, src symbols.Source) ([]report.Diagnostic, error) {
	a.opts.logger.LogAttrs(ctx, slog.LevelDebug, "Running analysis",
		slog.Int("units", len(units)), a.opts.logAttr())

	ds, _, err := a.opts.run().Run(ctx, a.registry, units, src)

	return ds, err
}

// Fix applies the fix of one diagnostic to its unit.
func (a *Analyzer) Fix(ctx context.Context, u *tree.Unit, src symbols.Source, d report.Diagnostic) (*tree.Unit, error) {
	return a.fixer.Fix(ctx, u, symbols.NewCache(src), d)
}

// FixAll repeatedly analyzes the units and applies all non-overlapping fixes,
// until no fix applies anymore. It returns the fixed units and the remaining diagnostics.
func (a *Analyzer) FixAll(ctx context.Context, units []*tree.Unit, src symbols.Source) ([]*tree.Unit, []report.Diagnostic, error) {
	units = slices.Clone(units)
	cache := symbols.NewCache(src)

	for round := 0; ; round++ {
		ds, err := a.Run(ctx, units, src)
		if err != nil {
			return nil, nil, err
		}

		if round == maxRounds {
			return units, ds, nil
		}

		byPath := make(map[string][]report.Diagnostic)
		for _, d := range ds {
			if a.fixer.CanFix(d.RuleID) {
				byPath[d.Path] = append(byPath[d.Path], d)
			}
		}

		applied := 0

		for i, u := range units {
			fixable, ok := byPath[u.Path()]
			if !ok {
				continue
			}

			doc := tree.NewDocument(u)

			res, err := a.fixer.Commit(ctx, doc, cache, fixable)
			if err != nil {
				return nil, nil, fmt.Errorf("fixing %s: %w", u.Path(), err)
			}

			units[i] = doc.Load()
			applied += res.Applied
		}

		if applied == 0 {
			return units, ds, nil
		}

		a.opts.logger.LogAttrs(ctx, slog.LevelDebug, "Applied fixes",
			slog.Int("round", round+1), slog.Int("fixes", applied),
			slog.Any("files", slices.Sorted(maps.Keys(byPath))))
	}
}
