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
	"io/fs"
	"log/slog"

	"fillmore-labs.com/awaitguard/internal/config"
)

// Option configures specific behavior of a [New] awaitguard analyzer.
type Option interface {
	apply(r *runOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *runOptions) {
	r.behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithReportMode is an [Option] to configure when suspension points are reported.
func WithReportMode(mode config.ReportMode) Option { return reportOption{mode: mode} }

type reportOption struct{ mode config.ReportMode }

func (o reportOption) apply(r *runOptions) {
	r.report = o.mode
}

func (o reportOption) LogAttr() slog.Attr {
	return slog.String("report", o.mode.String())
}

// WithConfigureAwait is an [Option] to configure whether suspension points are checked.
func WithConfigureAwait(enabled bool) Option {
	return ruleOption{name: "configure-await", flag: config.ConfigureAwaitRule, enabled: enabled}
}

// WithArgumentValidation is an [Option] to configure whether argument validation is checked.
func WithArgumentValidation(enabled bool) Option {
	return ruleOption{name: "validate-arguments", flag: config.ArgumentValidationRule, enabled: enabled}
}

// WithNamespaces is an [Option] to configure whether types outside namespaces are reported.
func WithNamespaces(enabled bool) Option {
	return ruleOption{name: "declare-types-in-namespaces", flag: config.NamespaceRule, enabled: enabled}
}

// WithSequenceNumbers is an [Option] to configure whether render tree sequence numbers are checked.
func WithSequenceNumbers(enabled bool) Option {
	return ruleOption{name: "sequence-number-constant", flag: config.SequenceNumberRule, enabled: enabled}
}

type ruleOption struct {
	name    string
	flag    config.RuleFlags
	enabled bool
}

func (o ruleOption) apply(r *runOptions) {
	r.rules.Set(o.flag, o.enabled)
}

func (o ruleOption) LogAttr() slog.Attr {
	return slog.Bool(o.name, o.enabled)
}

// WithWorkers is an [Option] to limit the number of members analyzed concurrently.
// Zero or less uses GOMAXPROCS.
func WithWorkers(workers int) Option { return workersOption{workers: workers} }

type workersOption struct{ workers int }

func (o workersOption) apply(r *runOptions) {
	r.workers = o.workers
}

func (o workersOption) LogAttr() slog.Attr {
	return slog.Int("workers", o.workers)
}

// WithConfigFS is an [Option] to read per-directory configuration files from fsys.
func WithConfigFS(fsys fs.FS) Option { return configFSOption{fsys: fsys} }

type configFSOption struct{ fsys fs.FS }

func (o configFSOption) apply(r *runOptions) {
	if o.fsys == nil {
		r.loader = nil

		return
	}

	r.loader = config.NewLoader(o.fsys)
}

func (o configFSOption) LogAttr() slog.Attr {
	return slog.Bool("config", o.fsys != nil)
}

// WithLogger is an [Option] to set the logger for run summaries and skipped fixes.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *runOptions) {
	if o.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)

		return
	}

	r.logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
