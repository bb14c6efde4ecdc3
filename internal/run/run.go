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

// Package run drives the analysis of a compilation the way a host does:
// type level containers are visited in order, members are analyzed
// concurrently by a bounded pool of workers.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/trace"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Summary describes a finished run.
type Summary struct {
	Units     int // analyzed units
	Generated int // generated units skipped
	Members   int // members dispatched concurrently
}

// Run analyzes all units of one compilation against a shared resolution cache
// and returns the sorted diagnostics.
//
// On cancellation or a configuration error no diagnostics are returned.
func (o *Options) Run(ctx context.Context, reg *dispatch.Registry, units []*tree.Unit, src symbols.Source) ([]report.Diagnostic, Summary, error) {
	ctx, task := trace.NewTask(ctx, "AwaitGuard")
	defer task.End()

	start := time.Now()

	envs, summary, err := o.environments(units, symbols.NewCache(src))
	if err != nil {
		return nil, Summary{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())

	c := collector{reg: reg, g: g}

	for _, env := range envs {
		trace.Log(ctx, "unit", env.Unit.Path())

		if err := c.container(gctx, env, env.Unit.Cursor()); err != nil {
			_ = g.Wait()

			return nil, Summary{}, err
		}
	}

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	diagnostics := report.Sort(c.diagnostics)
	summary.Members = c.members

	o.logger().LogAttrs(ctx, slog.LevelDebug, "Analysis finished",
		slog.Int("units", summary.Units),
		slog.Int("generated", summary.Generated),
		slog.Int("members", summary.Members),
		slog.Int("diagnostics", len(diagnostics)),
		slog.Duration("elapsed", time.Since(start)))

	return diagnostics, summary, nil
}

// environments resolves the settings of every unit and drops excluded generated units.
func (o *Options) environments(units []*tree.Unit, cache *symbols.Cache) ([]*dispatch.Env, Summary, error) {
	var summary Summary

	envs := make([]*dispatch.Env, 0, len(units))

	for _, u := range units {
		settings, err := o.Loader.Settings(u.Path())
		if err != nil {
			return nil, Summary{}, fmt.Errorf("settings for %s: %w", u.Path(), err)
		}

		generated := u.Generated() || tree.IsGeneratedPath(u.Path())
		if generated && !settings.GeneratedOr(o.Behavior.Enabled(config.IncludeGenerated)) {
			summary.Generated++

			continue
		}

		envs = append(envs, &dispatch.Env{
			Unit:     u,
			Symbols:  cache,
			Settings: settings,
			Rules:    o.Rules,
			Report:   o.Report,
			Logger:   o.Logger,
		})
		summary.Units++
	}

	return envs, summary, nil
}

// collector gathers the findings of concurrently analyzed members.
type collector struct {
	reg *dispatch.Registry
	g   *errgroup.Group

	mu          sync.Mutex
	diagnostics []report.Diagnostic
	members     int
}

func (c *collector) add(ds []report.Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.diagnostics = append(c.diagnostics, ds...)
}

// container dispatches a type level node and schedules its members.
func (c *collector) container(ctx context.Context, env *dispatch.Env, cur *tree.Cursor) error {
	ds, err := c.reg.DispatchNode(ctx, env, cur)
	if err != nil {
		return err
	}

	c.add(ds)

	for child := range cur.Children() {
		if child.Node().Kind().IsTypeLevel() {
			if err := c.container(ctx, env, child); err != nil {
				return err
			}

			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		c.members++

		c.g.Go(func() error {
			ds, err := c.reg.Dispatch(ctx, env, child)
			if err != nil {
				return err
			}

			c.add(ds)

			return nil
		})
	}

	return nil
}
