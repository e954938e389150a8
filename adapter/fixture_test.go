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

package adapter_test

import (
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/lint"
)

// fixture is a driver serving a hand-built crate:
//
//	type S struct { x int }
//	func f() {}
type fixture struct {
	crate   *ast.Crate
	bodies  map[ast.BodyID]*ast.Body
	symbols []string
	diags   []*lint.Diagnostic
}

func newFixture() *fixture {
	f := &fixture{symbols: []string{"", "S", "x", "f"}}
	f.crate = &ast.Crate{ID: 1, Root: &ast.ModItem{
		ItemData: ast.ItemData{ID: 1},
		Items: []ast.Item{
			&ast.StructItem{
				ItemData: ast.ItemData{ID: 2, Name: &ast.Ident{Sym: 1}, Vis: ast.Public},
				Fields:   []*ast.Field{{ID: 1, Name: &ast.Ident{Sym: 2}}},
			},
			&ast.FnItem{
				ItemData: ast.ItemData{ID: 3, Name: &ast.Ident{Sym: 3, Span: 7}},
				Body:     1,
			},
		},
	}}
	f.bodies = map[ast.BodyID]*ast.Body{
		1: {ID: 1, Owner: 3, Expr: &ast.BlockExpr{ExprData: ast.ExprData{ID: 1}}},
	}
	return f
}

func (f *fixture) LintLevelAt(l *lint.Lint, _ lint.EmissionNode) lint.Level { return l.Default }
func (f *fixture) EmitDiag(d *lint.Diagnostic)                              { f.diags = append(f.diags, d) }
func (f *fixture) Item(ast.ItemID) ast.Item                                 { return nil }
func (f *fixture) Body(id ast.BodyID) *ast.Body                             { return f.bodies[id] }
func (f *fixture) ResolveTyIDs(string) []ast.TyDefID                        { return nil }
func (f *fixture) ExprTy(ast.ExprID) ast.SemTy                              { return &ast.UnstableSemTy{} }
func (f *fixture) Span(ast.SpanID) *ast.Span                                { return &ast.Span{Source: &ast.BuiltinSource{}} }
func (f *fixture) SpanSnippet(*ast.Span) (string, bool)                     { return "", false }
func (f *fixture) SpanSource(s *ast.Span) ast.SpanSource                    { return s.Source }
func (f *fixture) SymbolStr(id ast.SymbolID) string                         { return f.symbols[id] }
func (f *fixture) ResolveMethodTarget(ast.ExprID) ast.ItemID                { return 0 }
func (f *fixture) SpanExpnInfo(ast.ExpnID) (*ast.ExpnInfo, bool)            { return nil, false }
func (f *fixture) SpanPosToFileLoc(*ast.FileInfo, ast.SpanPos) (ast.FilePos, bool) {
	return ast.FilePos{}, false
}
