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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fillmore-labs.com/awaitguard/internal/tree"
	"fillmore-labs.com/awaitguard/internal/unitfile"
)

func (a *app) fixCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fix [flags] <compilation>",
		Short: "Apply all available fixes",
		Long: "Apply all available fixes, repeating analysis until no fix applies. " +
			"The fixed compilation is written to the output file, or printed as source when no output is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(args[0])
			if err != nil {
				return err
			}

			fixed, rest, err := a.analyzer.FixAll(cmd.Context(), c.units, c.src)
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}

			if output == "" {
				for _, u := range fixed {
					fmt.Fprintf(a.stdout, "// %s\n%s", u.Path(), tree.Print(u.Root()))
				}
			} else if err := write(output, unitfile.FromTrees(fixed, c.syms)); err != nil {
				return err
			}

			a.colors.writeDiagnostics(a.stderr, fixed, rest)

			return findings(rest)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the fixed compilation to `file` (.yaml or .msgpack)")

	return cmd
}

func write(name string, c *unitfile.Compilation) (err error) {
	format, err := unitfile.FormatOf(name)
	if err != nil {
		return err
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, f.Close()) }()

	return unitfile.Encode(f, format, c)
}
