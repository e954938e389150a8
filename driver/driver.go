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

// Package driver defines the interface between lint plugins and a host
// toolchain.
//
// A driver adapts one toolchain's internal representation of a program to the
// stable syntax tree in package ast, and answers the queries plugins make
// while inspecting it. Plugins never see a [Context] directly: it reaches them
// through the function table in package bridge.
package driver

import (
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/lint"
)

// Context is the set of capabilities a driver provides to plugins.
//
// Every ID passed to a Context must have been minted by the same session.
// Passing an ID from another session, or calling into a Context while another
// call on the same session is in flight, is a bug in the bridging layer and
// may panic.
//
// All methods are read-only except EmitDiag.
type Context interface {
	// LintLevelAt returns the level of l at node, taking configuration and
	// source directives into account.
	LintLevelAt(l *lint.Lint, node lint.EmissionNode) lint.Level
	// EmitDiag reports a diagnostic.
	EmitDiag(d *lint.Diagnostic)

	// Item returns the item with the given ID, or nil if the driver does not
	// materialize it, such as for items declared in another crate.
	Item(id ast.ItemID) ast.Item
	// Body returns the body with the given ID, or nil if the driver does not
	// materialize it.
	Body(id ast.BodyID) *ast.Body
	// ResolveTyIDs returns the definitions of the type with the given path,
	// of the form "import/path.Name".
	ResolveTyIDs(path string) []ast.TyDefID

	// ExprTy returns the semantic type of an expression.
	ExprTy(id ast.ExprID) ast.SemTy

	// Span resolves a span ID.
	Span(id ast.SpanID) *ast.Span
	// SpanSnippet returns the source text of a span, if it has any.
	SpanSnippet(span *ast.Span) (string, bool)
	// SpanSource returns where a span's text comes from.
	SpanSource(span *ast.Span) ast.SpanSource
	// SpanPosToFileLoc converts a byte offset in a file to a line and column.
	SpanPosToFileLoc(file *ast.FileInfo, pos ast.SpanPos) (ast.FilePos, bool)
	// SpanExpnInfo describes an expansion region.
	SpanExpnInfo(id ast.ExpnID) (*ast.ExpnInfo, bool)

	// SymbolStr returns the text of an interned symbol.
	SymbolStr(id ast.SymbolID) string

	// ResolveMethodTarget returns the method that a method call expression
	// calls, or zero if it cannot be determined statically.
	ResolveMethodTarget(id ast.ExprID) ast.ItemID
}
