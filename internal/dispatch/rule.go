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

// Package dispatch invokes rules on the nodes they subscribe to.
//
// A [Registry] maps each node kind to the ordered list of interested rules. The
// table is built once and only read afterwards, so a registry can serve any
// number of concurrent dispatches. Each handler invocation gets its own [Pass];
// a handler that panics loses its own findings and nothing else.
package dispatch

import (
	"errors"
	"fmt"
	"slices"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// Rule describes a rule and its handler.
type Rule struct {
	// ID is the stable identifier reported with diagnostics.
	ID string

	// Name is the human readable configuration key.
	Name string

	// Doc is a one line description.
	Doc string

	// Severity is the default severity.
	Severity report.Severity

	// Enabled tells whether the rule runs when not configured otherwise.
	Enabled bool

	// Flag selects the rule in option bitmasks.
	Flag config.RuleFlags

	// Kinds are the node kinds the handler subscribes to.
	Kinds []tree.Kind

	// Run is invoked once per subscribed node. It must be safe for concurrent use
	// and keep no state between invocations.
	Run func(*Pass)
}

var (
	// ErrInvalidRule is returned for incomplete rule registrations.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrDuplicateRule is returned when two rules share an identifier.
	ErrDuplicateRule = errors.New("duplicate rule")
)

// Registry is the static table of rules per node kind.
type Registry struct {
	rules []*Rule
	table [tree.NumKinds][]*Rule
}

// NewRegistry builds the dispatch table. Handlers of one kind run in registration order.
func NewRegistry(rules ...*Rule) (*Registry, error) {
	r := &Registry{rules: slices.Clone(rules)}
	seen := make(map[string]struct{}, len(rules))

	for _, rule := range rules {
		if rule.ID == "" || rule.Run == nil || len(rule.Kinds) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRule, rule.ID)
		}

		if _, ok := seen[rule.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.ID)
		}

		seen[rule.ID] = struct{}{}

		for _, k := range rule.Kinds {
			if int(k) >= tree.NumKinds || k == tree.KindInvalid {
				return nil, fmt.Errorf("%w: %s subscribes to %v", ErrInvalidRule, rule.ID, k)
			}

			if !slices.Contains(r.table[k], rule) {
				r.table[k] = append(r.table[k], rule)
			}
		}
	}

	return r, nil
}

// MustRegistry is like [NewRegistry] but panics on invalid registrations.
func MustRegistry(rules ...*Rule) *Registry {
	r, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}

	return r
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []*Rule { return slices.Clone(r.rules) }

// Rule returns the rule with the given identifier or name.
func (r *Registry) Rule(key string) (*Rule, bool) {
	for _, rule := range r.rules {
		if rule.ID == key || rule.Name == key {
			return rule, true
		}
	}

	return nil, false
}

// Handlers returns the rules subscribed to a kind.
func (r *Registry) Handlers(k tree.Kind) []*Rule {
	if int(k) >= tree.NumKinds {
		return nil
	}

	return slices.Clone(r.table[k])
}

// DefaultRules returns the bitmask of rules enabled by default.
func (r *Registry) DefaultRules() config.BitMask[config.RuleFlags] {
	var b config.BitMask[config.RuleFlags]
	for _, rule := range r.rules {
		b.Set(rule.Flag, rule.Enabled)
	}

	return b
}
