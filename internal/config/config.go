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

// Package config holds rule selection flags, reporting modes and layered
// per-directory configuration files.
package config

// RuleFlags represents specific rules.
type RuleFlags uint8

const (
	// ConfigureAwaitRule enables the suspension point configuration rule.
	ConfigureAwaitRule RuleFlags = 1 << iota

	// ArgumentValidationRule enables argument validation checks in async and iterator methods.
	ArgumentValidationRule

	// NamespaceRule enables the check for types declared outside a namespace.
	NamespaceRule

	// SequenceNumberRule enables the check for non-constant render tree sequence numbers.
	SequenceNumberRule

	// AllRules enables every rule.
	AllRules = ConfigureAwaitRule | ArgumentValidationRule | NamespaceRule | SequenceNumberRule
)

// Config represents behavior options for the analyzer.
type Config uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Config = 1 << iota
)
