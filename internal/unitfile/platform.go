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

package unitfile

import (
	"bytes"
	_ "embed"
	"slices"
	"sync"

	"fillmore-labs.com/awaitguard/internal/symbols"
)

//go:embed platform.yaml
var platformYAML []byte

var platform = sync.OnceValues(func() (*Compilation, error) {
	return Decode(bytes.NewReader(platformYAML), YAML)
})

// Platform returns the framework types and attributes the rules recognize.
func Platform() ([]*symbols.Symbol, error) {
	c, err := platform()
	if err != nil {
		return nil, err
	}

	syms := make([]*symbols.Symbol, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		cp := *s
		syms = append(syms, &cp)
	}

	return syms, nil
}

// TableWithPlatform returns the symbol table of the compilation on top of the
// [Platform] symbols. Symbols of the compilation replace platform symbols of the same name.
func (c *Compilation) TableWithPlatform() (*symbols.Table, error) {
	base, err := Platform()
	if err != nil {
		return nil, err
	}

	return symbols.NewTable(slices.Concat(base, c.Symbols)...), nil
}
