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
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fillmore-labs.com/awaitguard/analyzer"
	"fillmore-labs.com/awaitguard/internal/symbols"
	"fillmore-labs.com/awaitguard/internal/tree"
	"fillmore-labs.com/awaitguard/internal/unitfile"
)

const version = "0.1.0-dev"

// errFindings signals diagnostics at warning level or above.
var errFindings = errors.New("diagnostics reported")

// app holds the state shared by all subcommands.
type app struct {
	analyzer *analyzer.Analyzer
	level    *slog.LevelVar
	stdout   io.Writer
	stderr   io.Writer
	colors   *palette

	color    string
	verbose  bool
	platform bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		level:  new(slog.LevelVar),
		stdout: stdout,
		stderr: stderr,
	}
	a.level.Set(slog.LevelWarn)

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: a.level}))
	a.analyzer = analyzer.New(analyzer.WithLogger(logger), analyzer.WithConfigFS(os.DirFS(".")))

	root := &cobra.Command{
		Use:           "awaitguard",
		Short:         "Check and fix suspension points and argument validation in C# syntax trees",
		Long:          "awaitguard reads compilations of annotated C# syntax trees (YAML or MessagePack) and reports or fixes rule violations.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.color, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log run summaries and skipped fixes")
	pf.BoolVar(&a.platform, "platform", true, "resolve framework types from the built-in platform symbols")

	goFlags := flag.NewFlagSet("awaitguard", flag.ContinueOnError)
	a.analyzer.RegisterFlags(goFlags)
	pf.AddGoFlagSet(goFlags)

	root.AddCommand(a.checkCmd(), a.fixCmd(), a.printCmd(), a.rulesCmd())

	return root
}

func (a *app) setup() error {
	colors, err := newPalette(a.color)
	if err != nil {
		return err
	}

	a.colors = colors

	if a.verbose {
		a.level.Set(slog.LevelDebug)
	}

	return nil
}

// compilation is a decoded input file.
type compilation struct {
	name  string
	units []*tree.Unit
	syms  []*symbols.Symbol
	src   symbols.Source
}

func (a *app) load(name string) (*compilation, error) {
	format, err := unitfile.FormatOf(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := unitfile.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	units, err := c.Trees()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var src symbols.Source = c.Table()
	if a.platform {
		if src, err = c.TableWithPlatform(); err != nil {
			return nil, err
		}
	}

	return &compilation{name: name, units: units, syms: c.Symbols, src: src}, nil
}
