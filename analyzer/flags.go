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
	"flag"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
)

// registerFlags binds the [runOptions] values to command line flag values.
// A nil flag set value defaults to the program's command line.
func registerFlags(r *runOptions, reg *dispatch.Registry, flags *flag.FlagSet) {
	if flags == nil {
		flags = flag.CommandLine
	}

	for _, rule := range reg.Rules() {
		flags.Var(boolValue[config.RuleFlags, *config.BitMask[config.RuleFlags]]{flags: &r.rules, value: rule.Flag},
			rule.Name, "enable "+rule.ID+": "+rule.Doc)
	}

	flags.Var(boolValue[config.Config, *config.BitMask[config.Config]]{flags: &r.behavior, value: config.IncludeGenerated},
		"generated", "check generated files")
	flags.Var((*reportValue)(&r.report), "report", `when to report suspension points ("detect-context" or "always")`)
	flags.IntVar(&r.workers, "workers", r.workers, "maximum number of members analyzed concurrently (0 uses GOMAXPROCS)")
}
