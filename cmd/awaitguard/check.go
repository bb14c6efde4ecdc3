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

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fillmore-labs.com/awaitguard/internal/report"
	"fillmore-labs.com/awaitguard/internal/tree"
)

// palette colors diagnostic output.
type palette struct {
	path, rule, err, warn, info *color.Color
}

// newPalette returns colors following mode, which is one of "auto", "on" or "off".
// In "auto" mode the terminal detection of [color.NoColor] applies.
func newPalette(mode string) (*palette, error) {
	p := &palette{
		path: color.New(color.Bold),
		rule: color.New(color.Faint),
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
	}

	all := []*color.Color{p.path, p.rule, p.err, p.warn, p.info}

	switch mode {
	case "auto":
	case "on":
		for _, c := range all {
			c.EnableColor()
		}
	case "off":
		for _, c := range all {
			c.DisableColor()
		}
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}

	return p, nil
}

func (p *palette) severity(s report.Severity) *color.Color {
	switch s {
	case report.SeverityError:
		return p.err

	case report.SeverityWarning:
		return p.warn

	default:
		return p.info
	}
}

func (a *app) checkCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check [flags] <compilation>...",
		Short: "Report rule violations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q", format)
			}

			var all []report.Diagnostic

			for _, name := range args {
				c, err := a.load(name)
				if err != nil {
					return err
				}

				ds, err := a.analyzer.Run(cmd.Context(), c.units, c.src)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				if format == "text" {
					a.colors.writeDiagnostics(a.stdout, c.units, ds)
				}

				all = append(all, ds...)
			}

			if format == "yaml" {
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)

				if err := enc.Encode(all); err != nil {
					return err
				}

				if err := enc.Close(); err != nil {
					return err
				}
			}

			return findings(all)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text|yaml)")

	return cmd
}

func (p *palette) writeDiagnostics(w io.Writer, units []*tree.Unit, ds []report.Diagnostic) {
	byPath := make(map[string]*tree.Unit, len(units))
	for _, u := range units {
		byPath[u.Path()] = u
	}

	for _, d := range ds {
		line, col := 0, 0
		if u, ok := byPath[d.Path]; ok {
			line, col = u.Position(d.Span.Start)
		}

		fmt.Fprintf(w, "%s %s %s %s\n",
			p.path.Sprintf("%s:%d:%d:", d.Path, line, col),
			p.severity(d.Severity).Sprint(d.Severity),
			p.rule.Sprint(d.RuleID),
			d.Message)
	}
}

// findings returns [errFindings] when a diagnostic is a warning or error.
func findings(ds []report.Diagnostic) error {
	for _, d := range ds {
		if d.Severity >= report.SeverityWarning {
			return errFindings
		}
	}

	return nil
}
