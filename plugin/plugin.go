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

// Package plugin defines the contract between lint plugins and the host that
// loads them.
//
// A plugin is a Go plugin (built with -buildmode=plugin) whose main package
// exports a function named [EntrySymbol] with the signature
//
//	func LintPlugin() *plugin.Info
//
// returning the result of [NewInfo]. Plugins can also be linked into the host
// statically; see adapter.New.
package plugin

import (
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/visitor"
)

// EntrySymbol is the name of the function every plugin exports.
const EntrySymbol = "LintPlugin"

// APIVersion is the version of this contract. It is incremented whenever
// [Info] or [Callbacks] change incompatibly.
const APIVersion uint32 = 1

// Info describes a plugin to the host.
type Info struct {
	// The contract version and bridge layout the plugin was built against.
	// Set by NewInfo; checked by the loader.
	APIVersion uint32
	Layout     uint64

	Name  string
	Lints []*lint.Lint
	// How deep the plugin needs traversal to go. Plugins that only inspect
	// declarations should leave this at visitor.ScopeItems.
	Scope     visitor.Scope
	Callbacks Callbacks
}

// NewInfo returns the description of a plugin, stamped with the contract
// version and bridge layout of the build it is compiled in.
func NewInfo(name string, lints []*lint.Lint, scope visitor.Scope, callbacks Callbacks) *Info {
	return &Info{
		APIVersion: APIVersion,
		Layout:     bridge.LayoutFingerprint(),
		Name:       name,
		Lints:      lints,
		Scope:      scope,
		Callbacks:  callbacks,
	}
}

// Callbacks are the functions a plugin provides, one per traversal event.
// Nil callbacks are not called.
type Callbacks struct {
	CheckCrate   func(cx *bridge.Context, crate *ast.Crate)
	CheckItem    func(cx *bridge.Context, item ast.Item)
	CheckField   func(cx *bridge.Context, field *ast.Field)
	CheckVariant func(cx *bridge.Context, variant *ast.Variant)
	CheckBody    func(cx *bridge.Context, body *ast.Body)
	CheckStmt    func(cx *bridge.Context, stmt ast.Stmt)
	CheckExpr    func(cx *bridge.Context, expr ast.Expr)
}
