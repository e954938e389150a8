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

// Command sample is the sample lints built as a Go plugin:
//
//	go build -buildmode=plugin -o sample.so ./internal/testplugin/sample
package main

import (
	"github.com/bufbuild/lintbridge/internal/testplugin"
	"github.com/bufbuild/lintbridge/plugin"
)

// LintPlugin is the plugin's entry point.
func LintPlugin() *plugin.Info {
	return testplugin.Sample()
}

func main() {}
