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

package analyzer_test

import (
	"flag"
	"strings"
	"testing"

	. "fillmore-labs.com/awaitguard/analyzer"
	"fillmore-labs.com/awaitguard/internal/config"
)

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial config.RuleFlags
		args    []string
		want    bool
	}{
		{
			name:    "Enable",
			initial: config.NamespaceRule,
			args:    []string{"-configure-await"},
			want:    true,
		},
		{
			name:    "Disable",
			initial: config.ConfigureAwaitRule,
			args:    []string{"-configure-await=false"},
			want:    false,
		},
		{
			name:    "Off",
			initial: config.AllRules,
			args:    []string{"-configure-await=off"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := config.NewBitMask(tt.initial)

			fs := flag.NewFlagSet("test", flag.ContinueOnError)

			const value = config.ConfigureAwaitRule
			fv := NewRuleValue(&flags, value)
			fs.Var(fv, "configure-await", "enable AG0001")

			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if fv.Get() != tt.want {
				t.Errorf("Got flag value %v, expected %v", fv.Get(), tt.want)
			}

			if flags.Enabled(value) != tt.want {
				t.Errorf("Got rule enabled %v, expected %v", flags.Enabled(value), tt.want)
			}
		})
	}
}

func TestFlagValueInvalid(t *testing.T) {
	t.Parallel()

	flags := config.NewBitMask(config.AllRules)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	fs.Var(NewRuleValue(&flags, config.ConfigureAwaitRule), "configure-await", "enable AG0001")

	if err := fs.Parse([]string{"-configure-await=maybe"}); err == nil {
		t.Error("Expected parse error")
	}

	if !flags.Enabled(config.ConfigureAwaitRule) {
		t.Error("Expected rule to stay enabled")
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	flags := config.NewBitMask(config.ConfigureAwaitRule)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(NewRuleValue(&flags, config.ConfigureAwaitRule), "configure-await", "enable AG0001")

	const expectedUsage = `
  -configure-await
    	enable AG0001 (default true)
`

	var out strings.Builder
	fs.SetOutput(&out)
	fs.Usage()

	if got, want := out.String(), expectedUsage; !strings.HasSuffix(got, want) {
		t.Errorf("Got usage %q, expected suffix %q", got, want)
	}
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	a := New()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	a.RegisterFlags(fs)

	for _, rule := range a.Rules() {
		if fs.Lookup(rule.Name) == nil {
			t.Errorf("Expected flag -%s", rule.Name)
		}
	}

	if err := fs.Parse([]string{"-report=always", "-workers=2", "-generated"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := fs.Lookup("report").Value.(flag.Getter).Get(); got != config.Always {
		t.Errorf("Got report mode %v, expected %v", got, config.Always)
	}

	if err := fs.Parse([]string{"-report=sometimes"}); err == nil {
		t.Error("Expected error for unknown report mode")
	}
}
