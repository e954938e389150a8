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

package visitor

import (
	"github.com/bufbuild/lintbridge/ast"
)

// walker is the state of one traversal. Once stopped is set, every method
// returns immediately.
type walker struct {
	cx      Bodies
	v       Visitor
	bodies  bool
	stopped bool
}

func newWalker(cx Bodies, v Visitor) *walker {
	return &walker{cx: cx, v: v, bodies: v.Scope() == ScopeBodies}
}

func (w *walker) result() Control {
	if w.stopped {
		return Stop
	}
	return Continue
}

// enter records the outcome of a visit and returns whether to descend.
func (w *walker) enter(c Control) bool {
	if c == Stop {
		w.stopped = true
	}
	return c == Continue
}

func (w *walker) item(item ast.Item) {
	if w.stopped || item == nil || !w.enter(w.v.VisitItem(item)) {
		return
	}

	switch item := item.(type) {
	case *ast.ModItem:
		for _, item := range item.Items {
			w.item(item)
		}
	case *ast.FnItem:
		w.bodyID(item.Body)
	case *ast.StructItem:
		for _, field := range item.Fields {
			if w.stopped {
				return
			}
			w.enter(w.v.VisitField(field))
		}
	case *ast.EnumItem:
		for _, variant := range item.Variants {
			if w.stopped {
				return
			}
			if w.enter(w.v.VisitVariant(variant)) {
				w.bodyID(variant.Body)
			}
		}
	case *ast.ConstItem:
		w.bodyID(item.Body)
	case *ast.VarItem:
		w.bodyID(item.Body)
	}
}

func (w *walker) bodyID(id ast.BodyID) {
	if !w.bodies || id.IsZero() {
		return
	}
	w.body(w.cx.Body(id))
}

func (w *walker) body(body *ast.Body) {
	if w.stopped || body == nil || !w.enter(w.v.VisitBody(body)) {
		return
	}
	w.expr(body.Expr)
}

func (w *walker) stmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		w.stmt(stmt)
	}
}

func (w *walker) stmt(stmt ast.Stmt) {
	if w.stopped || stmt == nil || !w.enter(w.v.VisitStmt(stmt)) {
		return
	}

	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		w.pat(stmt.Pat)
		w.expr(stmt.Init)
	case *ast.ItemStmt:
		w.item(stmt.Item)
	case *ast.ExprStmt:
		w.expr(stmt.Expr)
	}
}

// pat visits the expressions inside a pattern. Patterns themselves are not
// visited.
func (w *walker) pat(pat ast.Pat) {
	switch pat := pat.(type) {
	case *ast.TuplePat:
		for _, elem := range pat.Elems {
			w.pat(elem)
		}
	case *ast.PlacePat:
		w.expr(pat.Place)
	}
}

func (w *walker) exprs(exprs []ast.Expr) {
	for _, expr := range exprs {
		w.expr(expr)
	}
}

//nolint:gocyclo // One case per expression kind.
func (w *walker) expr(expr ast.Expr) {
	if w.stopped || expr == nil || !w.enter(w.v.VisitExpr(expr)) {
		return
	}

	switch e := expr.(type) {
	case *ast.CallExpr:
		w.expr(e.Func)
		w.exprs(e.Args)
	case *ast.MethodCallExpr:
		w.expr(e.Recv)
		w.exprs(e.Args)
	case *ast.FieldExpr:
		w.expr(e.X)
	case *ast.IndexExpr:
		w.expr(e.X)
		w.exprs(e.Indices)
	case *ast.SliceExpr:
		w.expr(e.X)
		w.expr(e.Low)
		w.expr(e.High)
		w.expr(e.Max)
	case *ast.UnaryExpr:
		w.expr(e.X)
	case *ast.BinaryExpr:
		w.expr(e.X)
		w.expr(e.Y)
	case *ast.RefExpr:
		w.expr(e.X)
	case *ast.DerefExpr:
		w.expr(e.X)
	case *ast.RecvExpr:
		w.expr(e.Chan)
	case *ast.ConvExpr:
		w.expr(e.X)
	case *ast.TypeAssertExpr:
		w.expr(e.X)
	case *ast.CtorExpr:
		for _, elem := range e.Elems {
			w.expr(elem.Key)
			w.expr(elem.Value)
		}
	case *ast.ClosureExpr:
		w.bodyID(e.Body)
	case *ast.BlockExpr:
		w.stmts(e.Stmts)
	case *ast.IfExpr:
		w.stmt(e.Init)
		w.expr(e.Cond)
		w.expr(e.Then)
		w.expr(e.Else)
	case *ast.ForExpr:
		w.stmt(e.Init)
		w.expr(e.Cond)
		w.stmt(e.Post)
		w.expr(e.Body)
	case *ast.RangeExpr:
		w.pat(e.Key)
		w.pat(e.Value)
		w.expr(e.X)
		w.expr(e.Body)
	case *ast.SwitchExpr:
		w.stmt(e.Init)
		w.expr(e.Tag)
		for _, c := range e.Cases {
			w.exprs(c.Exprs)
			w.stmts(c.Body)
		}
	case *ast.TypeSwitchExpr:
		w.stmt(e.Init)
		w.expr(e.X)
		for _, c := range e.Cases {
			w.stmts(c.Body)
		}
	case *ast.SelectExpr:
		for _, c := range e.Cases {
			w.stmt(c.Comm)
			w.stmts(c.Body)
		}
	case *ast.AssignExpr:
		w.exprs(e.Lhs)
		w.exprs(e.Rhs)
	case *ast.IncDecExpr:
		w.expr(e.X)
	case *ast.ReturnExpr:
		w.exprs(e.Results)
	case *ast.GoExpr:
		w.expr(e.Call)
	case *ast.DeferExpr:
		w.expr(e.Call)
	case *ast.SendExpr:
		w.expr(e.Chan)
		w.expr(e.Value)
	case *ast.TupleExpr:
		w.exprs(e.Elems)
	}
}
