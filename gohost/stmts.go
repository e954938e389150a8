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

package gohost

import (
	goast "go/ast"
	"go/token"
	"go/types"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/memo"
)

// stmts converts a statement list. Lowering artifacts are dropped without
// affecting their siblings.
func (c *converter) stmts(list []goast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, s := range list {
		out = c.appendStmt(out, s)
	}
	return out
}

// single converts a statement that appears on its own, such as the init
// statement of an if. Returns nil if s is nil or produces no statement.
func (c *converter) single(s goast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}
	out := c.appendStmt(nil, s)
	if len(out) == 0 {
		return nil
	}
	return out[0]
}

// appendStmt appends the statements s lowers to. Most statements lower to
// exactly one, but a declaration lowers to one per declared type or constant,
// and an artifact lowers to none.
func (c *converter) appendStmt(out []ast.Stmt, s goast.Stmt) []ast.Stmt {
	switch s := s.(type) {
	case *goast.EmptyStmt, *goast.BadStmt:
		c.skip(s)
		return out

	case *goast.DeclStmt:
		decl, ok := s.Decl.(*goast.GenDecl)
		if !ok {
			c.skip(s)
			return out
		}
		for _, spec := range decl.Specs {
			switch spec := spec.(type) {
			case *goast.TypeSpec:
				out = c.appendItemStmt(out, spec, spec.Name, site{decl: decl, spec: spec})
			case *goast.ValueSpec:
				if decl.Tok == token.CONST {
					for i, name := range spec.Names {
						out = c.appendItemStmt(out, spec, name, site{decl: decl, spec: spec, index: i})
					}
					continue
				}
				lhs := make([]goast.Expr, len(spec.Names))
				for i, name := range spec.Names {
					lhs[i] = name
				}
				out = append(out, c.let(spec, lhs, spec.Type, spec.Values))
			}
		}
		return out

	case *goast.AssignStmt:
		if s.Tok == token.DEFINE {
			return append(out, c.let(s, s.Lhs, nil, s.Rhs))
		}

	case *goast.ExprStmt:
		return append(out, alloc(&c.st.store, ast.ExprStmt{Span: c.span(s), Expr: c.expr(s.X)}))

	case *goast.LabeledStmt:
		switch inner := s.Stmt.(type) {
		case *goast.ForStmt, *goast.RangeStmt, *goast.SwitchStmt, *goast.TypeSwitchStmt, *goast.SelectStmt:
			return append(out, alloc(&c.st.store, ast.ExprStmt{Span: c.span(s), Expr: c.stmtExpr(inner, s.Label)}))
		default:
			// Labels on other statements are only targets of goto, which
			// names them by symbol.
			return c.appendStmt(out, inner)
		}
	}

	expr := c.stmtExpr(s, nil)
	if expr == nil {
		return out
	}
	return append(out, alloc(&c.st.store, ast.ExprStmt{Span: c.span(s), Expr: expr}))
}

func (c *converter) appendItemStmt(out []ast.Stmt, node goast.Node, name *goast.Ident, s site) []ast.Stmt {
	item := c.localItem(name, s)
	if item == nil {
		return out
	}
	return append(out, alloc(&c.st.store, ast.ItemStmt{Span: c.span(node), Item: item}))
}

// let converts a declaration of local variables.
func (c *converter) let(node goast.Node, lhs []goast.Expr, ty goast.Expr, values []goast.Expr) *ast.LetStmt {
	id := mint[ast.LetStmtID](&c.st.ids, node)
	return memo.Resolve(&c.st.lets, id,
		func() *ast.LetStmt {
			return alloc(&c.st.store, ast.LetStmt{ID: id, Span: c.span(node)})
		},
		func(let *ast.LetStmt) {
			let.Pat = c.pats(lhs)
			let.Ty = c.synTy(ty)
			switch len(values) {
			case 0:
			case 1:
				let.Init = c.expr(values[0])
			default:
				let.Init = c.tuple(node, values)
			}
		},
	)
}

// pats converts the left-hand side of a declaration.
func (c *converter) pats(lhs []goast.Expr) ast.Pat {
	if len(lhs) == 1 {
		return c.pat(lhs[0])
	}
	tuple := alloc(&c.st.store, ast.TuplePat{Span: c.spanOf(lhs[0].Pos(), lhs[len(lhs)-1].End())})
	for _, e := range lhs {
		tuple.Elems = append(tuple.Elems, c.pat(e))
	}
	return tuple
}

// pat converts one name being declared. Names that := redeclares assign to
// the existing variable instead of binding a new one.
func (c *converter) pat(e goast.Expr) ast.Pat {
	name, ok := e.(*goast.Ident)
	switch {
	case !ok:
		return alloc(&c.st.store, ast.PlacePat{Span: c.span(e), Place: c.expr(e)})
	case name.Name == "_":
		return alloc(&c.st.store, ast.WildcardPat{Span: c.span(name)})
	}

	if _, ok := c.info().Defs[name].(*types.Var); ok {
		return alloc(&c.st.store, ast.IdentPat{Span: c.span(name), Name: c.ident(name), Var: c.varID(name)})
	}
	return alloc(&c.st.store, ast.PlacePat{Span: c.span(name), Place: c.expr(name)})
}

// rangePat converts the key or value of a range statement. Returns nil if
// e is nil.
func (c *converter) rangePat(e goast.Expr, tok token.Token) ast.Pat {
	if e == nil {
		return nil
	}
	if tok == token.DEFINE {
		return c.pat(e)
	}
	return alloc(&c.st.store, ast.PlacePat{Span: c.span(e), Place: c.expr(e)})
}

// block converts a block. Returns nil if b is nil.
func (c *converter) block(b *goast.BlockStmt) *ast.BlockExpr {
	if b == nil {
		return nil
	}
	block, _ := c.stmtExpr(b, nil).(*ast.BlockExpr)
	return block
}

// stmtExpr converts a statement other than a declaration into the expression
// it lowers to. label is the statement's label, if it has one.
//
//nolint:gocyclo // One case per statement kind.
func (c *converter) stmtExpr(s goast.Stmt, label *goast.Ident) ast.Expr {
	id := mint[ast.ExprID](&c.st.ids, s)
	if expr, ok := c.st.exprs.Get(id); ok {
		return expr
	}
	data := ast.ExprData{ID: id, Span: c.span(s)}

	switch s := s.(type) {
	case *goast.BlockStmt:
		return resolveExpr(c, id, ast.BlockExpr{ExprData: data}, func(x *ast.BlockExpr) {
			x.Stmts = c.stmts(s.List)
		})

	case *goast.IfStmt:
		return resolveExpr(c, id, ast.IfExpr{ExprData: data}, func(x *ast.IfExpr) {
			x.Init = c.single(s.Init)
			x.Cond = c.expr(s.Cond)
			x.Then = c.block(s.Body)
			if s.Else != nil {
				x.Else = c.stmtExpr(s.Else, nil)
			}
		})

	case *goast.ForStmt:
		return resolveExpr(c, id, ast.ForExpr{ExprData: data}, func(x *ast.ForExpr) {
			x.Label = c.ident(label)
			x.Init = c.single(s.Init)
			x.Cond = c.expr(s.Cond)
			x.Post = c.single(s.Post)
			x.Body = c.block(s.Body)
		})

	case *goast.RangeStmt:
		return resolveExpr(c, id, ast.RangeExpr{ExprData: data}, func(x *ast.RangeExpr) {
			x.Label = c.ident(label)
			x.Key = c.rangePat(s.Key, s.Tok)
			x.Value = c.rangePat(s.Value, s.Tok)
			x.X = c.expr(s.X)
			x.Body = c.block(s.Body)
		})

	case *goast.SwitchStmt:
		return resolveExpr(c, id, ast.SwitchExpr{ExprData: data}, func(x *ast.SwitchExpr) {
			x.Label = c.ident(label)
			x.Init = c.single(s.Init)
			x.Tag = c.expr(s.Tag)
			for _, clause := range s.Body.List {
				clause := clause.(*goast.CaseClause)
				x.Cases = append(x.Cases, alloc(&c.st.store, ast.SwitchCase{
					Span:    c.span(clause),
					Exprs:   c.exprs(clause.List),
					Default: clause.List == nil,
					Body:    c.stmts(clause.Body),
				}))
			}
		})

	case *goast.TypeSwitchStmt:
		return resolveExpr(c, id, ast.TypeSwitchExpr{ExprData: data}, func(x *ast.TypeSwitchExpr) {
			x.Label = c.ident(label)
			x.Init = c.single(s.Init)

			var assert goast.Expr
			switch assign := s.Assign.(type) {
			case *goast.AssignStmt:
				// The bound name has no single variable: each clause declares
				// its own.
				name := assign.Lhs[0].(*goast.Ident)
				x.Bind = alloc(&c.st.store, ast.IdentPat{Span: c.span(name), Name: c.ident(name)})
				assert = assign.Rhs[0]
			case *goast.ExprStmt:
				assert = assign.X
			}
			if assert, ok := goast.Unparen(assert).(*goast.TypeAssertExpr); ok {
				x.X = c.expr(assert.X)
			}

			for _, clause := range s.Body.List {
				clause := clause.(*goast.CaseClause)
				tc := alloc(&c.st.store, ast.TypeCase{
					Span:    c.span(clause),
					Default: clause.List == nil,
					Body:    c.stmts(clause.Body),
				})
				for _, ty := range clause.List {
					tc.Types = append(tc.Types, c.synTy(ty))
				}
				x.Cases = append(x.Cases, tc)
			}
		})

	case *goast.SelectStmt:
		return resolveExpr(c, id, ast.SelectExpr{ExprData: data}, func(x *ast.SelectExpr) {
			x.Label = c.ident(label)
			for _, clause := range s.Body.List {
				clause := clause.(*goast.CommClause)
				x.Cases = append(x.Cases, alloc(&c.st.store, ast.CommCase{
					Span: c.span(clause),
					Comm: c.single(clause.Comm),
					Body: c.stmts(clause.Body),
				}))
			}
		})

	case *goast.AssignStmt:
		return resolveExpr(c, id, ast.AssignExpr{ExprData: data, Op: assignOps[s.Tok]}, func(x *ast.AssignExpr) {
			x.Lhs = c.exprs(s.Lhs)
			x.Rhs = c.exprs(s.Rhs)
		})

	case *goast.IncDecStmt:
		return resolveExpr(c, id, ast.IncDecExpr{ExprData: data, Inc: s.Tok == token.INC}, func(x *ast.IncDecExpr) {
			x.X = c.expr(s.X)
		})

	case *goast.ReturnStmt:
		return resolveExpr(c, id, ast.ReturnExpr{ExprData: data}, func(x *ast.ReturnExpr) {
			x.Results = c.exprs(s.Results)
		})

	case *goast.BranchStmt:
		return resolveExpr(c, id, ast.BranchExpr{ExprData: data, Kind: branchKinds[s.Tok]}, func(x *ast.BranchExpr) {
			x.Label = c.ident(s.Label)
		})

	case *goast.GoStmt:
		return resolveExpr(c, id, ast.GoExpr{ExprData: data}, func(x *ast.GoExpr) {
			x.Call = c.expr(s.Call)
		})

	case *goast.DeferStmt:
		return resolveExpr(c, id, ast.DeferExpr{ExprData: data}, func(x *ast.DeferExpr) {
			x.Call = c.expr(s.Call)
		})

	case *goast.SendStmt:
		return resolveExpr(c, id, ast.SendExpr{ExprData: data}, func(x *ast.SendExpr) {
			x.Chan = c.expr(s.Chan)
			x.Value = c.expr(s.Value)
		})
	}

	// Declarations, labels and artifacts are handled by appendStmt; anything
	// else is a statement kind this converter does not know.
	return c.unstable(data, "statement")
}

var assignOps = map[token.Token]ast.BinaryOp{
	token.ADD_ASSIGN:     ast.BinaryAdd,
	token.SUB_ASSIGN:     ast.BinarySub,
	token.MUL_ASSIGN:     ast.BinaryMul,
	token.QUO_ASSIGN:     ast.BinaryDiv,
	token.REM_ASSIGN:     ast.BinaryRem,
	token.AND_ASSIGN:     ast.BinaryAnd,
	token.OR_ASSIGN:      ast.BinaryOr,
	token.XOR_ASSIGN:     ast.BinaryXor,
	token.SHL_ASSIGN:     ast.BinaryShl,
	token.SHR_ASSIGN:     ast.BinaryShr,
	token.AND_NOT_ASSIGN: ast.BinaryAndNot,
}

var branchKinds = map[token.Token]ast.BranchKind{
	token.BREAK:       ast.BranchBreak,
	token.CONTINUE:    ast.BranchContinue,
	token.GOTO:        ast.BranchGoto,
	token.FALLTHROUGH: ast.BranchFallthrough,
}
