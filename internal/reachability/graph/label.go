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

package graph

import "fillmore-labs.com/awaitguard/internal/reachability/block"

// LabelTarget represents the control flow target for a labeled statement.
type LabelTarget struct {
	statement *block.Block // The labeled statement itself
	defined   bool         // The labeled statement is part of the graph
}

// NewLabelTarget creates a new label target with the given body block.
func NewLabelTarget(body *block.Block) *LabelTarget {
	return &LabelTarget{statement: body}
}

// Body returns the block of the labeled statement itself.
func (l *LabelTarget) Body() *block.Block {
	return l.statement
}

// Define marks the label as declared inside the analyzed statement.
// It reports false when the label has been defined before.
func (l *LabelTarget) Define() bool {
	if l.defined {
		return false
	}

	l.defined = true

	return true
}
