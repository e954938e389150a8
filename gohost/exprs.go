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
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/memo"
)

// resolveExpr converts an expression of type T through the expression
// table. init is the shell, with its ExprData already set, and fill converts
// its children.
func resolveExpr[T any, P interface {
	*T
	ast.Expr
}](c *converter, id ast.ExprID, init T, fill func(P)) ast.Expr {
	return memo.Resolve(&c.st.exprs, id,
		func() ast.Expr { return P(alloc(&c.st.store, init)) },
		func(e ast.Expr) {
			if fill != nil {
				fill(e.(P))
			}
		},
	)
}

func (c *converter) unstable(data ast.ExprData, desc string) ast.Expr {
	return resolveExpr[ast.UnstableExpr, *ast.UnstableExpr](c, data.ID, ast.UnstableExpr{ExprData: data, Desc: desc}, nil)
}

func (c *converter) exprs(list []goast.Expr) []ast.Expr {
	if len(list) == 0 {
		return nil
	}
	out := make([]ast.Expr, len(list))
	for i, e := range list {
		out[i] = c.expr(e)
	}
	return out
}

// tuple converts the values of a parallel declaration into a single
// expression.
func (c *converter) tuple(node goast.Node, values []goast.Expr) ast.Expr {
	id := mint[ast.ExprID](&c.st.ids, tupleKey{node})
	data := ast.ExprData{ID: id, Span: c.spanOf(values[0].Pos(), values[len(values)-1].End())}
	return resolveExpr(c, id, ast.TupleExpr{ExprData: data}, func(x *ast.TupleExpr) {
		x.Elems = c.exprs(values)
	})
}

// isType returns whether e denotes a type rather than a value.
func (c *converter) isType(e goast.Expr) bool {
	tv, ok := c.info().Types[e]
	return ok && tv.IsType()
}

// expr converts an expression. Returns nil if e is nil. Parentheses are not
// represented: a parenthesized expression converts to its operand.
//
//nolint:gocyclo // One case per expression kind.
func (c *converter) expr(e goast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	e = goast.Unparen(e)

	id := mint[ast.ExprID](&c.st.ids, e)
	if expr, ok := c.st.exprs.Get(id); ok {
		return expr
	}
	data := ast.ExprData{ID: id, Span: c.span(e)}
	info := c.info()

	if c.isType(e) {
		return resolveExpr(c, id, ast.TypeExpr{ExprData: data}, func(x *ast.TypeExpr) {
			x.Ty = c.synTy(e)
		})
	}

	switch e := e.(type) {
	case *goast.BadExpr:
		return c.unstable(data, "bad expression")

	case *goast.Ident:
		obj := info.Uses[e]
		if obj == nil {
			obj = info.Defs[e]
		}
		switch obj := obj.(type) {
		case *types.Const:
			if obj.Pkg() == nil && obj.Val().Kind() == constant.Bool {
				return resolveExpr(c, id, ast.BoolLit{ExprData: data, Value: constant.BoolVal(obj.Val())}, nil)
			}
		case *types.TypeName:
			return resolveExpr(c, id, ast.TypeExpr{ExprData: data}, func(x *ast.TypeExpr) {
				x.Ty = c.synTy(e)
			})
		}
		return resolveExpr(c, id, ast.PathExpr{ExprData: data}, func(x *ast.PathExpr) {
			x.Name = c.ident(e)
			x.Res = c.res(obj)
		})

	case *goast.BasicLit:
		return c.lit(data, e)

	case *goast.CompositeLit:
		return resolveExpr(c, id, ast.CtorExpr{ExprData: data}, func(x *ast.CtorExpr) {
			x.Ty = c.synTy(e.Type)
			c.ctorElems(x, e)
		})

	case *goast.FuncLit:
		return resolveExpr(c, id, ast.ClosureExpr{ExprData: data}, func(x *ast.ClosureExpr) {
			x.Ty = c.fnTy(e.Type)
			x.Body = c.bodyID(e, 0)
		})

	case *goast.SelectorExpr:
		if qual, ok := e.X.(*goast.Ident); ok {
			if _, ok := info.Uses[qual].(*types.PkgName); ok {
				return resolveExpr(c, id, ast.PathExpr{ExprData: data}, func(x *ast.PathExpr) {
					x.Qualifier = c.ident(qual)
					x.Name = c.ident(e.Sel)
					x.Res = c.res(info.Uses[e.Sel])
				})
			}
		}
		return resolveExpr(c, id, ast.FieldExpr{ExprData: data}, func(x *ast.FieldExpr) {
			x.X = c.expr(e.X)
			x.Field = c.ident(e.Sel)
		})

	case *goast.IndexExpr:
		return resolveExpr(c, id, ast.IndexExpr{ExprData: data}, func(x *ast.IndexExpr) {
			x.X = c.expr(e.X)
			x.Indices = c.exprs([]goast.Expr{e.Index})
		})

	case *goast.IndexListExpr:
		return resolveExpr(c, id, ast.IndexExpr{ExprData: data}, func(x *ast.IndexExpr) {
			x.X = c.expr(e.X)
			x.Indices = c.exprs(e.Indices)
		})

	case *goast.SliceExpr:
		return resolveExpr(c, id, ast.SliceExpr{ExprData: data}, func(x *ast.SliceExpr) {
			x.X = c.expr(e.X)
			x.Low = c.expr(e.Low)
			x.High = c.expr(e.High)
			x.Max = c.expr(e.Max)
		})

	case *goast.TypeAssertExpr:
		return resolveExpr(c, id, ast.TypeAssertExpr{ExprData: data}, func(x *ast.TypeAssertExpr) {
			x.X = c.expr(e.X)
			x.Ty = c.synTy(e.Type)
		})

	case *goast.CallExpr:
		return c.call(data, e)

	case *goast.StarExpr:
		return resolveExpr(c, id, ast.DerefExpr{ExprData: data}, func(x *ast.DerefExpr) {
			x.X = c.expr(e.X)
		})

	case *goast.UnaryExpr:
		switch e.Op {
		case token.AND:
			return resolveExpr(c, id, ast.RefExpr{ExprData: data}, func(x *ast.RefExpr) {
				x.X = c.expr(e.X)
			})
		case token.ARROW:
			return resolveExpr(c, id, ast.RecvExpr{ExprData: data}, func(x *ast.RecvExpr) {
				x.Chan = c.expr(e.X)
			})
		}
		op, ok := unaryOps[e.Op]
		if !ok {
			return c.unstable(data, "unary "+e.Op.String())
		}
		return resolveExpr(c, id, ast.UnaryExpr{ExprData: data, Op: op}, func(x *ast.UnaryExpr) {
			x.X = c.expr(e.X)
		})

	case *goast.BinaryExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return c.unstable(data, "binary "+e.Op.String())
		}
		return resolveExpr(c, id, ast.BinaryExpr{ExprData: data, Op: op}, func(x *ast.BinaryExpr) {
			x.X = c.expr(e.X)
			x.Y = c.expr(e.Y)
		})

	case *goast.ArrayType, *goast.StructType, *goast.FuncType, *goast.InterfaceType,
		*goast.MapType, *goast.ChanType, *goast.Ellipsis:
		// Types without type information, such as in code that failed to
		// type-check.
		return resolveExpr(c, id, ast.TypeExpr{ExprData: data}, func(x *ast.TypeExpr) {
			x.Ty = c.synTy(e)
		})
	}

	return c.unstable(data, types.ExprString(e))
}

func (c *converter) lit(data ast.ExprData, e *goast.BasicLit) ast.Expr {
	value := c.info().Types[e].Value
	switch e.Kind {
	case token.INT, token.FLOAT, token.IMAG:
		text := e.Value
		if value != nil {
			text = value.ExactString()
		}
		switch e.Kind {
		case token.INT:
			return resolveExpr(c, data.ID, ast.IntLit{ExprData: data, Value: text}, nil)
		case token.FLOAT:
			return resolveExpr(c, data.ID, ast.FloatLit{ExprData: data, Value: text}, nil)
		default:
			return resolveExpr(c, data.ID, ast.ImagLit{ExprData: data, Value: text}, nil)
		}

	case token.CHAR:
		var r rune
		if value != nil {
			if v, ok := constant.Int64Val(value); ok {
				r = rune(v)
			}
		} else if s, err := strconv.Unquote(e.Value); err == nil {
			r = []rune(s)[0]
		}
		return resolveExpr(c, data.ID, ast.CharLit{ExprData: data, Value: r}, nil)

	default:
		var text string
		if value != nil && value.Kind() == constant.String {
			text = constant.StringVal(value)
		} else {
			text, _ = strconv.Unquote(e.Value)
		}
		raw := strings.HasPrefix(e.Value, "`")
		return resolveExpr(c, data.ID, ast.StrLit{ExprData: data, Value: text, Raw: raw}, nil)
	}
}

// call converts a call, which may be a conversion or a method call.
func (c *converter) call(data ast.ExprData, e *goast.CallExpr) ast.Expr {
	info := c.info()
	fun := goast.Unparen(e.Fun)

	if c.isType(fun) && len(e.Args) == 1 {
		return resolveExpr(c, data.ID, ast.ConvExpr{ExprData: data}, func(x *ast.ConvExpr) {
			x.Ty = c.synTy(fun)
			x.X = c.expr(e.Args[0])
		})
	}

	if sel, ok := fun.(*goast.SelectorExpr); ok {
		if s := info.Selections[sel]; s != nil && s.Kind() == types.MethodVal {
			return resolveExpr(c, data.ID, ast.MethodCallExpr{ExprData: data}, func(x *ast.MethodCallExpr) {
				x.Recv = c.expr(sel.X)
				x.Method = c.ident(sel.Sel)
				x.Args = c.exprs(e.Args)
				x.Spread = e.Ellipsis.IsValid()
			})
		}
	}

	return resolveExpr(c, data.ID, ast.CallExpr{ExprData: data}, func(x *ast.CallExpr) {
		x.Func = c.expr(fun)
		x.Args = c.exprs(e.Args)
		x.Spread = e.Ellipsis.IsValid()
	})
}

// ctorElems converts the elements of a composite literal.
func (c *converter) ctorElems(x *ast.CtorExpr, e *goast.CompositeLit) {
	var isStruct bool
	if ty := c.info().TypeOf(e); ty != nil {
		under := ty.Underlying()
		if ptr, ok := under.(*types.Pointer); ok {
			// An elided &T{} inside another literal.
			under = ptr.Elem().Underlying()
		}
		_, isStruct = under.(*types.Struct)
	}

	for _, elt := range e.Elts {
		elem := alloc(&c.st.store, ast.CtorElem{Span: c.span(elt)})
		kv, ok := elt.(*goast.KeyValueExpr)
		switch {
		case !ok:
			elem.Value = c.expr(elt)
		case isStruct:
			if name, ok := kv.Key.(*goast.Ident); ok {
				elem.Field = c.ident(name)
			}
			elem.Value = c.expr(kv.Value)
		default:
			elem.Key = c.expr(kv.Key)
			elem.Value = c.expr(kv.Value)
		}
		x.Elems = append(x.Elems, elem)
	}
}

// res resolves the object a name refers to.
func (c *converter) res(obj types.Object) ast.Res {
	switch obj := obj.(type) {
	case *types.PkgName:
		return ast.Res{Kind: ast.ResPackage}
	case *types.Builtin, *types.Nil:
		return ast.Res{Kind: ast.ResBuiltin}
	case *types.Var:
		if obj.IsField() || obj.Pkg() == nil || obj.Parent() != obj.Pkg().Scope() {
			return ast.Res{Kind: ast.ResLocal, Var: mint[ast.VarID](&c.st.ids, obj)}
		}
		return ast.Res{Kind: ast.ResItem, Item: c.itemID(obj)}
	case *types.Const:
		if obj.Pkg() == nil {
			return ast.Res{Kind: ast.ResBuiltin}
		}
		if enum := c.decls().variantOf[obj]; enum != nil {
			return ast.Res{
				Kind:    ast.ResItem,
				Item:    c.itemID(enum),
				Ty:      mint[ast.TyDefID](&c.st.ids, enum),
				Variant: mint[ast.VariantID](&c.st.ids, obj),
			}
		}
		return ast.Res{Kind: ast.ResItem, Item: c.itemID(obj)}
	case *types.TypeName:
		if obj.Pkg() == nil {
			return ast.Res{Kind: ast.ResBuiltin}
		}
		return ast.Res{Kind: ast.ResItem, Item: c.itemID(obj), Ty: mint[ast.TyDefID](&c.st.ids, obj)}
	case *types.Func:
		if obj.Pkg() == nil {
			return ast.Res{Kind: ast.ResBuiltin}
		}
		return ast.Res{Kind: ast.ResItem, Item: c.itemID(obj.Origin())}
	default:
		return ast.Res{Kind: ast.ResUnresolved}
	}
}

var unaryOps = map[token.Token]ast.UnaryOp{
	token.SUB: ast.UnaryNeg,
	token.ADD: ast.UnaryPos,
	token.NOT: ast.UnaryNot,
	token.XOR: ast.UnaryBitNot,
}

var binaryOps = map[token.Token]ast.BinaryOp{
	token.ADD:     ast.BinaryAdd,
	token.SUB:     ast.BinarySub,
	token.MUL:     ast.BinaryMul,
	token.QUO:     ast.BinaryDiv,
	token.REM:     ast.BinaryRem,
	token.AND:     ast.BinaryAnd,
	token.OR:      ast.BinaryOr,
	token.XOR:     ast.BinaryXor,
	token.SHL:     ast.BinaryShl,
	token.SHR:     ast.BinaryShr,
	token.AND_NOT: ast.BinaryAndNot,
	token.LAND:    ast.BinaryLogicalAnd,
	token.LOR:     ast.BinaryLogicalOr,
	token.EQL:     ast.BinaryEq,
	token.NEQ:     ast.BinaryNe,
	token.LSS:     ast.BinaryLt,
	token.LEQ:     ast.BinaryLe,
	token.GTR:     ast.BinaryGt,
	token.GEQ:     ast.BinaryGe,
}
