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
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/lintbridge/internal/config"
	"github.com/bufbuild/lintbridge/lint"
)

// pluginLints is the lints of one plugin, as printed by the lints command.
type pluginLints struct {
	Plugin string       `json:"plugin" yaml:"plugin"`
	Lints  []*lint.Lint `json:"lints" yaml:"lints"`
}

func newLintsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lints",
		Short: "List the lints of every loaded plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lints, err := a.plugins(a.cfg, a.logger)
			if err != nil {
				return err
			}

			var list []pluginLints
			for _, info := range lints.Plugins() {
				list = append(list, pluginLints{Plugin: info.Name, Lints: info.Lints})
			}
			return printLints(cmd.OutOrStdout(), a.cfg.Format, list)
		},
	}
}

func printLints(out io.Writer, format string, list []pluginLints) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encoding lints: %w", err)
		}
		return enc.Close()

	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Lint", "Plugin", "Default", "Explanation"})
	var n int
	for _, p := range list {
		for _, l := range p.Lints {
			t.AppendRow(table.Row{l.Name, p.Plugin, l.Default, l.Explanation})
			n++
		}
	}
	if n == 0 {
		_, err := fmt.Fprintln(out, "No lints loaded.")
		return err
	}
	t.Render()
	return nil
}
