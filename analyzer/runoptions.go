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
	"log/slog"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/run"
)

// runOptions represent configuration runOptions for the awaitguard analyzer.
type runOptions struct {
	// rules represents the rules to be enabled.
	rules config.BitMask[config.RuleFlags]

	// behavior holds behavioral options.
	behavior config.BitMask[config.Config]

	// report is the default reporting mode of the suspension point rule.
	report config.ReportMode

	// workers limits concurrent member analysis.
	workers int

	loader *config.Loader
	logger *slog.Logger
}

// makeRunOptions returns a [runOptions] struct with overriding [Options] applied.
func makeRunOptions(opts Options) *runOptions {
	r := defaultRunOptions()
	opts.apply(r)

	return r
}

// defaultRunOptions initializes and returns a new runOptions instance with default values.
func defaultRunOptions() *runOptions {
	d := run.DefaultOptions()

	return &runOptions{
		rules:    d.Rules,
		behavior: d.Behavior,
		report:   d.Report,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// run returns the options of an analysis run.
func (r *runOptions) run() *run.Options {
	return &run.Options{
		Rules:    r.rules,
		Behavior: r.behavior,
		Report:   r.report,
		Workers:  r.workers,
		Loader:   r.loader,
		Logger:   r.logger,
	}
}

func (r *runOptions) logAttr() slog.Attr {
	return slog.Group("options",
		slog.Int("rules", r.rules.Count()),
		slog.Bool("generated", r.behavior.Enabled(config.IncludeGenerated)),
		slog.String("report", r.report.String()),
		slog.Int("workers", r.workers),
	)
}
