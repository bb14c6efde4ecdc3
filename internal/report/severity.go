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

package report

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type Severity -linecomment

// Severity is the reporting level of a diagnostic.
type Severity uint8

const (
	SeverityHidden  Severity = iota // hidden
	SeverityInfo                    // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	if s > SeverityError {
		return nil, fmt.Errorf("invalid severity %d", s)
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Names are matched ignoring case.
func (s *Severity) UnmarshalText(text []byte) error {
	for v := SeverityHidden; v <= SeverityError; v++ {
		if strings.EqualFold(v.String(), string(text)) {
			*s = v

			return nil
		}
	}

	return fmt.Errorf("unknown severity %q", text)
}
