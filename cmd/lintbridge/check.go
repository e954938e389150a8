// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/gohost"
	"github.com/bufbuild/lintbridge/internal/config"
	"github.com/bufbuild/lintbridge/report"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

func newCheckCmd(a *app) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Run every loaded lint over Go packages",
		Long: `Loads the given packages (./... by default) and runs every lint of every
loaded plugin over them, one package at a time.

Exits with status 1 if any diagnostic is at the deny or forbid level.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return a.check(cmd.Context(), cmd.OutOrStdout(), args, compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print one line per diagnostic")
	return cmd
}

func (a *app) check(ctx context.Context, out io.Writer, patterns []string, compact bool) error {
	if a.cfg.Format == config.FormatYAML {
		return fmt.Errorf("check cannot print %s; use %s or %s", config.FormatYAML, config.FormatText, config.FormatJSON)
	}

	lints, err := a.plugins(a.cfg, a.logger)
	if err != nil {
		return err
	}

	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     a.dir,
		Tests:   a.cfg.Tests,
	}, patterns...)
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}
	pkgs = analyzable(pkgs)
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages match %s", strings.Join(patterns, " "))
	}

	merged := new(report.Report)
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.checkPackage(lints, pkg, merged)
	}
	merged.Sort()

	switch a.cfg.Format {
	case config.FormatJSON:
		err = report.RenderJSON(merged, out)
	default:
		r := report.Renderer{Compact: compact, Colorize: a.colorize(out)}
		_, _, err = r.Render(merged, out)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if merged.Failed() {
		return errFailed
	}
	return nil
}

// checkPackage runs one session over pkg and adds what it reports to merged.
func (a *app) checkPackage(lints *adapter.Adapter, pkg *packages.Package, merged *report.Report) {
	logger := a.logger.With(slog.String("package", pkg.ID))
	for _, err := range pkg.Errors {
		logger.Warn("package has errors", slog.String("error", err.Error()))
	}

	s := gohost.NewSession(gohost.FromPackage(pkg),
		gohost.WithLogger(logger),
		gohost.WithLevels(a.cfg.Levels),
	)
	defer s.Close()

	crate, err := s.Crate()
	if err != nil {
		logger.Error("cannot analyze package", slog.Any("error", err))
		return
	}
	lints.ProcessCrate(s, crate)

	stats := s.Stats()
	logger.Debug("checked package",
		slog.Int("items", stats.Items),
		slog.Int("bodies", stats.Bodies),
		slog.Int("emitted", stats.Emitted),
		slog.Int("dropped", stats.Dropped),
		slog.Int("skipped", stats.Skipped),
	)
	merged.Merge(s.Report())
}

// analyzable returns the packages to run sessions over, sorted by ID.
//
// When test files are loaded, a package and its test variant share their
// non-test files, so only the variant is kept; the synthesized test main
// packages are dropped.
func analyzable(pkgs []*packages.Package) []*packages.Package {
	hasTestVariant := make(map[string]bool)
	for _, pkg := range pkgs {
		if pkg.ForTest != "" && pkg.PkgPath == pkg.ForTest {
			hasTestVariant[pkg.PkgPath] = true
		}
	}

	var out []*packages.Package
	for _, pkg := range pkgs {
		switch {
		case strings.HasSuffix(pkg.ID, ".test"):
		case pkg.ForTest == "" && hasTestVariant[pkg.PkgPath]:
		case len(pkg.Syntax) == 0:
		default:
			out = append(out, pkg)
		}
	}
	slices.SortFunc(out, func(a, b *packages.Package) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
