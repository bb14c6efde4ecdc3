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

// Package sequence reports render tree builder calls whose sequence number is not a constant.
package sequence

import (
	"slices"
	"strings"

	"fillmore-labs.com/awaitguard/internal/config"
	"fillmore-labs.com/awaitguard/internal/dispatch"
	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
)

const (
	// ID is the rule identifier.
	ID = "AG0004"

	// Name is the configuration key of the rule.
	Name = "sequence-number-constant"

	// RenderTreeBuilder is the component render tree builder.
	RenderTreeBuilder = "Microsoft.AspNetCore.Components.Rendering.RenderTreeBuilder"

	// WebRenderTreeBuilderExtensions holds the event attribute extension methods.
	WebRenderTreeBuilderExtensions = "Microsoft.AspNetCore.Components.Web.WebRenderTreeBuilderExtensions"
)

var builderMethods = []string{
	"AddAttribute",
	"AddComponentReferenceCapture",
	"AddContent",
	"AddElementReferenceCapture",
	"AddMarkupContent",
	"AddMultipleAttributes",
	"OpenComponent",
	"OpenElement",
	"OpenRegion",
}

var extensionMethods = []string{
	"AddEventPreventDefaultAttribute",
	"AddEventStopPropagationAttribute",
}

// New creates the rule.
func New() *dispatch.Rule {
	return &dispatch.Rule{
		ID:       ID,
		Name:     Name,
		Doc:      "sequence numbers of render tree builder calls must be constants",
		Severity: report.SeverityWarning,
		Enabled:  true,
		Flag:     config.SequenceNumberRule,
		Kinds:    []tree.Kind{tree.KindInvocation},
		Run:      run,
	}
}

func run(p *dispatch.Pass) {
	if !p.Symbols().Exists(RenderTreeBuilder) {
		return
	}

	call := p.Node()

	arg := sequenceArgument(p.Symbols(), call)
	if arg == nil {
		return
	}

	if value := arg.Operand(); value != nil && !isValid(value) {
		p.Report(value.Span(), nil, "Sequence number must be a constant")
	}
}

// sequenceArgument returns the argument holding the sequence number, if the call has one.
func sequenceArgument(cache *symbols.Cache, call *tree.Node) *tree.Node {
	method := call.Symbol()

	i := strings.LastIndexByte(method, '.')
	if i < 0 {
		return nil
	}

	typ, name := method[:i], method[i+1:]
	args := call.Arguments()

	switch {
	case typ == RenderTreeBuilder && slices.Contains(builderMethods, name):
		if len(args) >= 1 {
			return args[0]
		}

	case typ == WebRenderTreeBuilderExtensions && slices.Contains(extensionMethods, name):
		// the builder is the first argument when called as a static method
		seq := 0
		if len(args) > 0 && cache.IsOrDerivesFrom(args[0].Type(), RenderTreeBuilder) {
			seq = 1
		}

		if len(args) > seq {
			return args[seq]
		}
	}

	return nil
}

// isValid reports whether the sequence number is a constant or forwarded parameter.
func isValid(n *tree.Node) bool {
	switch {
	case n.Has(tree.FlagConstant):
		return true

	case n.Kind() == tree.KindIdentifier && n.Has(tree.FlagParameter):
		return true

	case n.Kind() == tree.KindConversion:
		return isValid(n.Operand())

	default:
		return false
	}
}
