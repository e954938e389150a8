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
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/internal/config"
)

// app is the state shared by every command.
type app struct {
	// Builds the adapter for the configured plugins. Tests replace it to link
	// plugins in statically.
	plugins func(cfg *config.Config, logger *slog.Logger) (*adapter.Adapter, error)
	// The directory packages are loaded relative to. Empty means the
	// working directory.
	dir string

	// Set before any command runs.
	cfg    *config.Config
	logger *slog.Logger
}

func newApp() *app {
	return &app{plugins: loadPlugins}
}

func loadPlugins(cfg *config.Config, logger *slog.Logger) (*adapter.Adapter, error) {
	return adapter.Load(cfg.Plugins, adapter.WithLogger(logger))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lintbridge",
		Short: "Run lint plugins over Go packages",
		Long: `lintbridge loads lint plugins and runs them over the syntax and types of
Go packages, reporting what they find.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.LogLevel,
			}))
			if cfg.File != "" {
				a.logger.Debug("loaded config", slog.String("file", cfg.File))
			}
			return nil
		},
	}
	config.Flags(root.PersistentFlags())

	root.AddCommand(
		newCheckCmd(a),
		newLintsCmd(a),
		newVersionCmd(),
	)
	return root
}

// colorize returns whether output to out should be colored.
func (a *app) colorize(out io.Writer) bool {
	switch a.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	// color.NoColor accounts for NO_COLOR and whether stdout is a terminal.
	f, ok := out.(*os.File)
	return ok && f == os.Stdout && !color.NoColor
}
