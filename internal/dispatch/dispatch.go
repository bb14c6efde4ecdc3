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
	"log/slog"
	"runtime/trace"

	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Dispatch invokes the enabled handlers for every node in the subtree at c.
//
// Cancellation is polled per statement. On cancellation all findings of the
// subtree are discarded and the context error is returned.
func (r *Registry) Dispatch(ctx context.Context, env *Env, c *tree.Cursor) ([]report.Diagnostic, error) {
	defer trace.StartRegion(ctx, "Dispatch").End()

	d := r.newDispatcher(env)

	var diagnostics []report.Diagnostic

	err := c.Inspect(ctx, func(c *tree.Cursor) bool {
		diagnostics = append(diagnostics, d.node(ctx, c)...)

		return true
	})
	if err != nil {
		return nil, err
	}

	// a handler may observe cancellation after the last statement was polled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return diagnostics, nil
}

// DispatchNode invokes the enabled handlers for the node at c only.
func (r *Registry) DispatchNode(ctx context.Context, env *Env, c *tree.Cursor) ([]report.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diagnostics := r.newDispatcher(env).node(ctx, c)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return diagnostics, nil
}

type settings struct {
	enabled bool
	pass    Pass
}

// dispatcher holds the per-file rule settings of one dispatch.
type dispatcher struct {
	r        *Registry
	env      *Env
	settings map[*Rule]*settings
}

func (r *Registry) newDispatcher(env *Env) *dispatcher {
	d := &dispatcher{r: r, env: env, settings: make(map[*Rule]*settings, len(r.rules))}

	for _, rule := range r.rules {
		rs := env.Settings.Rule(rule.ID, rule.Name)
		d.settings[rule] = &settings{
			enabled: rs.EnabledOr(env.Rules.Enabled(rule.Flag)),
			pass: Pass{
				env:      env,
				rule:     rule,
				severity: rs.SeverityOr(rule.Severity),
				mode:     rs.ReportOr(env.Report),
			},
		}
	}

	return d
}

func (d *dispatcher) node(ctx context.Context, c *tree.Cursor) []report.Diagnostic {
	var diagnostics []report.Diagnostic

	for _, rule := range d.r.table[c.Node().Kind()] {
		s := d.settings[rule]
		if !s.enabled {
			continue
		}

		diagnostics = append(diagnostics, d.invoke(ctx, s, c)...)
	}

	return diagnostics
}

// invoke runs one handler on its own [Pass]. A panic discards the findings of this invocation only.
func (d *dispatcher) invoke(ctx context.Context, s *settings, c *tree.Cursor) (diagnostics []report.Diagnostic) {
	p := s.pass
	p.ctx = ctx
	p.cursor = c

	defer func() {
		if v := recover(); v != nil {
			d.env.logger().LogAttrs(ctx, slog.LevelError, "Rule handler panicked",
				slog.String("rule", p.rule.ID),
				slog.String("kind", c.Node().Kind().String()),
				slog.String("span", c.Node().Span().String()),
				slog.Any("panic", v))

			diagnostics = nil
		}
	}()

	p.rule.Run(&p)

	if ctx.Err() != nil {
		return nil
	}

	return p.diagnostics
}
