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

// Package namespaces reports top level types declared outside of a namespace.
package namespaces

import (
	"strings"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const (
	// ID is the rule identifier.
	ID = "AG0003"

	// Name is the configuration key of the rule.
	Name = "declare-types-in-namespaces"
)

// New creates the rule.
func New() *dispatch.Rule {
	return &dispatch.Rule{
		ID:       ID,
		Name:     Name,
		Doc:      "declare types in namespaces",
		Severity: report.SeverityWarning,
		Enabled:  true,
		Flag:     config.NamespaceRule,
		Kinds:    []tree.Kind{tree.KindTypeDecl},
		Run:      run,
	}
}

func run(p *dispatch.Pass) {
	c := p.Cursor()

	name := c.Node().Text()
	if name == "" || strings.ContainsRune(name, '$') {
		return // compiler generated
	}

	if c.EnclosingType() != nil || c.EnclosingNamespace() != "" {
		return
	}

	p.Report(c.Node().Span(), nil, "Declare type '%s' in a namespace", name)
}
