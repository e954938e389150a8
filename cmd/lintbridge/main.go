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

// Command lintbridge runs lint plugins over Go packages.
//
// Usage:
//
//	lintbridge check [packages...]
//	lintbridge lints
//	lintbridge version
//
// Plugins are listed in .lintbridge.yaml, in the LINTBRIDGE_PLUGINS
// environment variable, or with --plugin. See package internal/config for
// every setting.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // Some diagnostic fails the build.
	exitError  = 2 // Bad usage, configuration or plugins.
)

// errFailed is returned by check when a diagnostic fails the build. It has
// already been reported, so it is not printed.
var errFailed = errors.New("lints failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, newApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	switch err := cmd.ExecuteContext(ctx); {
	case err == nil:
		return exitOK
	case errors.Is(err, errFailed):
		return exitFailed
	default:
		fmt.Fprintln(stderr, "lintbridge:", err)
		return exitError
	}
}
