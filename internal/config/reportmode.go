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

package config

import (
	"fmt"
	"strings"
)

// ReportMode selects when the suspension point rule reports.
type ReportMode uint8

const (
	// DetectContext reports only when no exemption applies to the enclosing context.
	DetectContext ReportMode = iota

	// Always reports every configurable suspension point.
	Always
)

func (m ReportMode) String() string {
	switch m {
	case DetectContext:
		return "detect-context"

	case Always:
		return "always"

	default:
		return fmt.Sprintf("ReportMode(%d)", uint8(m))
	}
}

// ParseReportMode parses a reporting mode, ignoring case, dashes and underscores.
func ParseReportMode(s string) (ReportMode, bool) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s))

	switch {
	case strings.EqualFold(norm, "DetectContext"):
		return DetectContext, true

	case strings.EqualFold(norm, "Always"):
		return Always, true

	default:
		return DetectContext, false
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (m ReportMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// Unknown values select [DetectContext].
func (m *ReportMode) UnmarshalText(text []byte) error {
	*m, _ = ParseReportMode(string(text))

	return nil
}
