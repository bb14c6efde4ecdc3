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

	"github.com/spf13/cobra"

	"fillmore-labs.com/awaitguard/internal/tree"
)

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <compilation>",
		Short: "Print the units of a compilation as source",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := a.load(args[0])
			if err != nil {
				return err
			}

			for _, u := range c.units {
				fmt.Fprintf(a.stdout, "// %s\n%s", u.Path(), tree.Print(u.Root()))
			}

			return nil
		},
	}
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, r := range a.analyzer.Rules() {
				fmt.Fprintf(a.stdout, "%s %-28s %-8s %s\n",
					a.colors.rule.Sprint(r.ID), r.Name, a.colors.severity(r.Severity).Sprint(r.Severity), r.Doc)
			}

			return nil
		},
	}
}
