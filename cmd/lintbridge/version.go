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
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/plugin"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = ""

func newVersionCmd() *cobra.Command {
	var layout bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Shows the version of lintbridge, and the plugin API version and bridge
layout fingerprint plugins must be built against.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "lintbridge %s\n", mainVersion())
			_, _ = fmt.Fprintf(out, "plugin API: %d\n", plugin.APIVersion)
			_, _ = fmt.Fprintf(out, "bridge layout: %016x\n", bridge.LayoutFingerprint())
			if layout {
				_, _ = fmt.Fprintln(out)
				bridge.DescribeLayout(out)
			}
		},
	}
	cmd.Flags().BoolVar(&layout, "layout", false, "also describe the bridge layout")
	return cmd
}

func mainVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
