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

package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Env is the read-only context of one compilation pass.
type Env struct {
	// Unit is the analyzed compilation unit.
	Unit *tree.Unit

	// Symbols is the resolution cache shared by all handlers of the compilation.
	Symbols *symbols.Cache

	// Settings is the file configuration of the unit, possibly nil.
	Settings *config.Settings

	// Rules are the rules enabled unless the file configuration says otherwise.
	Rules config.BitMask[config.RuleFlags]

	// Report is the reporting mode unless the file configuration says otherwise.
	Report config.ReportMode

	// Logger receives handler failures. A nil logger discards.
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return e.Logger
}

// Pass is the view of one handler invocation on one node.
type Pass struct {
	ctx      context.Context
	env      *Env
	rule     *Rule
	cursor   *tree.Cursor
	severity report.Severity
	mode     config.ReportMode

	diagnostics []report.Diagnostic
}

// Context returns the cancellation context of the dispatch.
func (p *Pass) Context() context.Context { return p.ctx }

// Cursor returns the cursor of the subscribed node.
func (p *Pass) Cursor() *tree.Cursor { return p.cursor }

// Node returns the subscribed node.
func (p *Pass) Node() *tree.Node { return p.cursor.Node() }

// Unit returns the analyzed compilation unit.
func (p *Pass) Unit() *tree.Unit { return p.env.Unit }

// Symbols returns the resolution cache of the compilation.
func (p *Pass) Symbols() *symbols.Cache { return p.env.Symbols }

// Rule returns the rule being run.
func (p *Pass) Rule() *Rule { return p.rule }

// ReportMode returns the reporting mode configured for the rule at the node's location.
func (p *Pass) ReportMode() config.ReportMode { return p.mode }

// Logger returns the logger of the pass.
func (p *Pass) Logger() *slog.Logger { return p.env.logger() }

// Scope returns the member lookup scope at the node.
func (p *Pass) Scope() symbols.Scope {
	return symbols.Scope{
		Namespace: p.cursor.EnclosingNamespace(),
		Imports:   p.env.Unit.Imports(),
	}
}

// Report records a diagnostic for the rule.
func (p *Pass) Report(span tree.Span, props map[string]string, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, report.Diagnostic{
		RuleID:     p.rule.ID,
		Severity:   p.severity,
		Path:       p.env.Unit.Path(),
		Span:       span,
		Message:    fmt.Sprintf(format, args...),
		Properties: maps.Clone(props),
	})
}
