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

package bridge

import (
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/driver"
	"github.com/bufbuild/lintbridge/lint"
)

// Context is the context plugins use to query the driver.
//
// It calls through a [Callbacks] table and converts the table's fixed-layout
// values back into ordinary Go values. It implements [driver.Context], so
// code written against a Context can be tested against any driver.
type Context struct {
	cb *Callbacks
}

var _ driver.Context = (*Context)(nil)

// NewContext returns a context that calls through cb.
func NewContext(cb *Callbacks) *Context {
	if cb == nil || cb.Handle == nil {
		panic("bridge: context requires a callback table with a handle")
	}
	return &Context{cb: cb}
}

// EmitLint reports a finding for l, attached to node, unless l is allowed at
// node.
func (c *Context) EmitLint(l *lint.Lint, node lint.EmissionNode, span ast.SpanID, msg string, options ...lint.DiagOption) {
	if c.LintLevelAt(l, node) == lint.Allow {
		return
	}
	d := &lint.Diagnostic{Lint: l, Node: node, Span: span, Msg: msg}
	c.EmitDiag(d.With(options...))
}

// LintLevelAt implements [driver.Context].
func (c *Context) LintLevelAt(l *lint.Lint, node lint.EmissionNode) lint.Level {
	return c.cb.LintLevelAt(c.cb.Handle, l, nodeToView(node))
}

// EmitDiag implements [driver.Context].
func (c *Context) EmitDiag(d *lint.Diagnostic) {
	c.cb.EmitDiag(c.cb.Handle, diagToView(d))
}

// Item implements [driver.Context].
func (c *Context) Item(id ast.ItemID) ast.Item {
	ref, ok := c.cb.Item(c.cb.Handle, id).Get()
	if !ok {
		return nil
	}
	return items.get(ref)
}

// Body implements [driver.Context].
func (c *Context) Body(id ast.BodyID) *ast.Body {
	body, _ := c.cb.Body(c.cb.Handle, id).Get()
	return body
}

// ResolveTyIDs implements [driver.Context].
func (c *Context) ResolveTyIDs(path string) []ast.TyDefID {
	return c.cb.ResolveTyIDs(c.cb.Handle, StrOf(path)).Slice()
}

// ExprTy implements [driver.Context].
func (c *Context) ExprTy(id ast.ExprID) ast.SemTy {
	return semTys.get(c.cb.ExprTy(c.cb.Handle, id))
}

// Span implements [driver.Context].
func (c *Context) Span(id ast.SpanID) *ast.Span {
	return c.cb.Span(c.cb.Handle, id)
}

// SpanSnippet implements [driver.Context].
func (c *Context) SpanSnippet(span *ast.Span) (string, bool) {
	text, ok := c.cb.SpanSnippet(c.cb.Handle, span).Get()
	return text.String(), ok
}

// SpanSource implements [driver.Context].
func (c *Context) SpanSource(span *ast.Span) ast.SpanSource {
	return spanSources.get(c.cb.SpanSource(c.cb.Handle, span))
}

// SpanPosToFileLoc implements [driver.Context].
func (c *Context) SpanPosToFileLoc(file *ast.FileInfo, pos ast.SpanPos) (ast.FilePos, bool) {
	return c.cb.SpanPosToFileLoc(c.cb.Handle, file, pos).Get()
}

// SpanExpnInfo implements [driver.Context].
func (c *Context) SpanExpnInfo(id ast.ExpnID) (*ast.ExpnInfo, bool) {
	return c.cb.SpanExpnInfo(c.cb.Handle, id).Get()
}

// SymbolStr implements [driver.Context].
func (c *Context) SymbolStr(id ast.SymbolID) string {
	return c.cb.SymbolStr(c.cb.Handle, id).String()
}

// ResolveMethodTarget implements [driver.Context].
func (c *Context) ResolveMethodTarget(id ast.ExprID) ast.ItemID {
	return c.cb.ResolveMethodTarget(c.cb.Handle, id)
}
