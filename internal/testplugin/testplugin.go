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

// Package testplugin contains plugins for tests: one that counts visits, and
// one with a few sample lints.
package testplugin

import (
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/plugin"
	"github.com/bufbuild/lintbridge/visitor"
)

// Counts is the number of visits per event kind.
type Counts struct {
	Crates, Items, Fields, Variants, Bodies, Stmts, Exprs int
}

// Counter returns a plugin that counts how many times each callback is
// called, into the returned Counts.
func Counter(name string, scope visitor.Scope) (*plugin.Info, *Counts) {
	c := new(Counts)
	return plugin.NewInfo(name, nil, scope, plugin.Callbacks{
		CheckCrate:   func(*bridge.Context, *ast.Crate) { c.Crates++ },
		CheckItem:    func(*bridge.Context, ast.Item) { c.Items++ },
		CheckField:   func(*bridge.Context, *ast.Field) { c.Fields++ },
		CheckVariant: func(*bridge.Context, *ast.Variant) { c.Variants++ },
		CheckBody:    func(*bridge.Context, *ast.Body) { c.Bodies++ },
		CheckStmt:    func(*bridge.Context, ast.Stmt) { c.Stmts++ },
		CheckExpr:    func(*bridge.Context, ast.Expr) { c.Exprs++ },
	}), c
}

// Recorder returns a plugin that appends a line per event to log, prefixed
// with name. Used to check dispatch order across plugins.
func Recorder(name string, log *[]string) *plugin.Info {
	return plugin.NewInfo(name, nil, visitor.ScopeItems, plugin.Callbacks{
		CheckCrate: func(*bridge.Context, *ast.Crate) { *log = append(*log, name+": crate") },
		CheckItem: func(cx *bridge.Context, item ast.Item) {
			*log = append(*log, name+": item "+cx.SymbolStr(item.Ident().Sym))
		},
	})
}

// Sample lints.
var (
	EmptyBody = &lint.Lint{
		Name:        "empty_body",
		Default:     lint.Warn,
		Explanation: "Reports functions whose body is empty.",
	}
	BoolComparison = &lint.Lint{
		Name:        "bool_comparison",
		Default:     lint.Warn,
		Explanation: "Reports comparisons of a boolean with true or false.",
	}
	PanicCall = &lint.Lint{
		Name:        "panic_call",
		Default:     lint.Allow,
		Explanation: "Reports calls to the builtin panic.",
	}
)

// Sample returns a plugin with the sample lints.
func Sample() *plugin.Info {
	return plugin.NewInfo("sample", []*lint.Lint{EmptyBody, BoolComparison, PanicCall}, visitor.ScopeBodies, plugin.Callbacks{
		CheckItem: checkEmptyBody,
		CheckExpr: checkExpr,
	})
}

func checkEmptyBody(cx *bridge.Context, item ast.Item) {
	fn, ok := item.(*ast.FnItem)
	if !ok || fn.Body.IsZero() {
		return
	}
	body := cx.Body(fn.Body)
	if block, ok := body.Expr.(*ast.BlockExpr); ok && len(block.Stmts) == 0 {
		cx.EmitLint(EmptyBody, lint.ItemNode(fn.ID), fn.Name.Span,
			"function "+cx.SymbolStr(fn.Name.Sym)+" has an empty body",
			lint.Help("add a comment explaining why the body is empty"),
		)
	}
}

func checkExpr(cx *bridge.Context, expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.BinaryExpr:
		if expr.Op != ast.BinaryEq && expr.Op != ast.BinaryNe {
			return
		}
		lit, other := boolOperand(expr.X, expr.Y)
		if lit == nil {
			return
		}
		if _, ok := cx.ExprTy(other.ExprID()).(*ast.BoolTy); !ok {
			return
		}
		text, _ := cx.SpanSnippet(cx.Span(other.SpanID()))
		if lit.Value != (expr.Op == ast.BinaryEq) {
			text = "!" + text
		}
		cx.EmitLint(BoolComparison, lint.ExprNode(expr.ID), expr.Span,
			"comparison with a boolean literal",
			lint.Suggest(expr.Span, "simplify", text, lint.MachineApplicable),
		)
	case *ast.CallExpr:
		path, ok := expr.Func.(*ast.PathExpr)
		if !ok || path.Res.Kind != ast.ResBuiltin || cx.SymbolStr(path.Name.Sym) != "panic" {
			return
		}
		cx.EmitLint(PanicCall, lint.ExprNode(expr.ID), expr.Span, "call to panic")
	}
}

func boolOperand(x, y ast.Expr) (*ast.BoolLit, ast.Expr) {
	if lit, ok := x.(*ast.BoolLit); ok {
		return lit, y
	}
	if lit, ok := y.(*ast.BoolLit); ok {
		return lit, x
	}
	return nil, nil
}
