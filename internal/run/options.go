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

package run

import (
	"log/slog"
	"runtime"

	"fillmore-labs.com/awaitguard/internal/config"
)

// Options represent configuration options of an analysis run.
type Options struct {
	// Rules are the rules enabled unless a configuration file says otherwise.
	Rules config.BitMask[config.RuleFlags]

	// Behavior holds behavioral options.
	Behavior config.BitMask[config.Config]

	// Report is the default reporting mode of the configure await rule.
	Report config.ReportMode

	// Workers limits the number of members analyzed concurrently. Zero or less uses GOMAXPROCS.
	Workers int

	// Loader resolves per-file configuration. A nil loader yields empty settings.
	Loader *config.Loader

	// Logger receives the run summary and handler failures. A nil logger discards.
	Logger *slog.Logger
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Rules:  config.NewBitMask(config.AllRules),
		Report: config.DetectContext,
	}
}

func (o *Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return o.Logger
}
