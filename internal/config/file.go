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
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"fillmore-labs.com/awaitguard/internal/report"
)

// FileName is the name of per-directory configuration files.
const FileName = ".awaitguard.toml"

// RuleSettings are the configurable keys of one rule. Unset keys are nil.
type RuleSettings struct {
	Enabled  *bool            `toml:"enabled"`
	Severity *report.Severity `toml:"severity"`
	Report   *ReportMode      `toml:"report"`
}

// overlay returns s with every key set in o replaced.
func (s RuleSettings) overlay(o RuleSettings) RuleSettings {
	if o.Enabled != nil {
		s.Enabled = o.Enabled
	}

	if o.Severity != nil {
		s.Severity = o.Severity
	}

	if o.Report != nil {
		s.Report = o.Report
	}

	return s
}

// EnabledOr returns the configured enablement or def.
func (s RuleSettings) EnabledOr(def bool) bool {
	if s.Enabled == nil {
		return def
	}

	return *s.Enabled
}

// SeverityOr returns the configured severity or def.
func (s RuleSettings) SeverityOr(def report.Severity) report.Severity {
	if s.Severity == nil {
		return def
	}

	return *s.Severity
}

// ReportOr returns the configured reporting mode or def.
func (s RuleSettings) ReportOr(def ReportMode) ReportMode {
	if s.Report == nil {
		return def
	}

	return *s.Report
}

// File is the content of one configuration file.
type File struct {
	// Root stops the search for configuration files in parent directories.
	Root bool `toml:"root"`

	// Generated includes generated files in the analysis.
	Generated *bool `toml:"generated"`

	// Rules maps rule identifiers or names to their settings.
	Rules map[string]RuleSettings `toml:"rules"`

	// Overrides apply to files matching one of their patterns.
	Overrides []Override `toml:"override"`
}

// Override are rule settings restricted to matching files.
type Override struct {
	// Files are [path.Match] patterns, matched against the base name or, when
	// they contain a slash, against the path relative to the configuration file.
	Files []string                `toml:"files"`
	Rules map[string]RuleSettings `toml:"rules"`
}

func (o Override) matches(rel string) bool {
	for _, pattern := range o.Files {
		name := rel
		if !strings.Contains(pattern, "/") {
			name = path.Base(rel)
		}

		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}

	return false
}

// Settings is the effective configuration of one source file.
type Settings struct {
	generated *bool
	rules     map[string]RuleSettings
}

// Rule returns the settings of a rule; keys given by identifier take precedence over keys given by name.
func (s *Settings) Rule(id, name string) RuleSettings {
	if s == nil {
		return RuleSettings{}
	}

	return s.rules[name].overlay(s.rules[id])
}

// GeneratedOr returns whether generated files are included, or def when unset.
func (s *Settings) GeneratedOr(def bool) bool {
	if s == nil || s.generated == nil {
		return def
	}

	return *s.generated
}

func (s *Settings) apply(rules map[string]RuleSettings) {
	for key, r := range rules {
		s.rules[key] = s.rules[key].overlay(r)
	}
}

// ErrInvalidConfig is returned for configuration files that cannot be decoded.
var ErrInvalidConfig = errors.New("invalid configuration")

// Loader resolves layered configuration files from a file system.
// Files are cached per directory; a Loader is safe for concurrent use.
type Loader struct {
	fsys  fs.FS
	files sync.Map // directory -> *File, nil when absent
}

// NewLoader creates a loader reading from fsys. A nil file system yields empty settings.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Settings returns the effective settings for the file at the slash separated path.
//
// Configuration files are collected from the file's directory up to the root of the
// file system, stopping at a file with root = true. Nearer files override farther ones.
func (l *Loader) Settings(file string) (*Settings, error) {
	s := &Settings{rules: make(map[string]RuleSettings)}
	if l == nil || l.fsys == nil {
		return s, nil
	}

	type layer struct {
		dir  string
		file *File
	}

	var layers []layer

	for dir := path.Dir(path.Clean(file)); ; dir = path.Dir(dir) {
		f, err := l.load(dir)
		if err != nil {
			return nil, err
		}

		if f != nil {
			layers = append(layers, layer{dir, f})
			if f.Root {
				break
			}
		}

		if dir == "." || dir == "/" {
			break
		}
	}

	for _, ly := range slices.Backward(layers) {
		if ly.file.Generated != nil {
			s.generated = ly.file.Generated
		}

		s.apply(ly.file.Rules)

		rel := relativeTo(ly.dir, file)
		for _, o := range ly.file.Overrides {
			if o.matches(rel) {
				s.apply(o.Rules)
			}
		}
	}

	return s, nil
}

func relativeTo(dir, file string) string {
	if dir == "." {
		return path.Clean(file)
	}

	return strings.TrimPrefix(path.Clean(file), dir+"/")
}

func (l *Loader) load(dir string) (*File, error) {
	if v, ok := l.files.Load(dir); ok {
		return v.(*File), nil
	}

	f, err := decodeFile(l.fsys, path.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	v, _ := l.files.LoadOrStore(dir, f)

	return v.(*File), nil
}

func decodeFile(fsys fs.FS, name string) (*File, error) {
	var f File

	meta, err := toml.DecodeFS(fsys, name, &f)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil

	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, name, undecoded[0].String())
	}

	return &f, nil
}
