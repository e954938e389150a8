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
	"strings"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/memo"
)

// synTy converts a type as written in source. Returns nil if e is nil.
func (c *converter) synTy(e goast.Expr) ast.SynTy {
	if e == nil {
		return nil
	}
	e = goast.Unparen(e)
	data := ast.SynTyData{Span: c.span(e)}

	switch e := e.(type) {
	case *goast.Ident:
		return c.pathTy(data, nil, e)

	case *goast.SelectorExpr:
		qual, ok := e.X.(*goast.Ident)
		if !ok {
			break
		}
		if _, ok := c.info().Uses[qual].(*types.PkgName); !ok {
			break
		}
		return c.pathTy(data, qual, e.Sel)

	case *goast.IndexExpr:
		if path, ok := c.synTy(e.X).(*ast.PathTy); ok {
			path.SynTyData = data
			path.Args = []ast.SynTy{c.synTy(e.Index)}
			return path
		}

	case *goast.IndexListExpr:
		if path, ok := c.synTy(e.X).(*ast.PathTy); ok {
			path.SynTyData = data
			for _, index := range e.Indices {
				path.Args = append(path.Args, c.synTy(index))
			}
			return path
		}

	case *goast.StarExpr:
		return alloc(&c.st.store, ast.PtrTy{SynTyData: data, Elem: c.synTy(e.X)})

	case *goast.ArrayType:
		switch n := e.Len.(type) {
		case nil:
			return alloc(&c.st.store, ast.SliceTy{SynTyData: data, Elem: c.synTy(e.Elt)})
		case *goast.Ellipsis:
			return alloc(&c.st.store, ast.ArrayTy{SynTyData: data, Elem: c.synTy(e.Elt)})
		default:
			return alloc(&c.st.store, ast.ArrayTy{SynTyData: data, Len: c.expr(n), Elem: c.synTy(e.Elt)})
		}

	case *goast.MapType:
		return alloc(&c.st.store, ast.MapTy{SynTyData: data, Key: c.synTy(e.Key), Value: c.synTy(e.Value)})

	case *goast.ChanType:
		dir := ast.ChanBoth
		switch e.Dir {
		case goast.SEND:
			dir = ast.ChanSend
		case goast.RECV:
			dir = ast.ChanRecv
		}
		return alloc(&c.st.store, ast.ChanTy{SynTyData: data, Dir: dir, Elem: c.synTy(e.Value)})

	case *goast.FuncType:
		return c.fnTy(e)

	case *goast.StructType:
		return alloc(&c.st.store, ast.StructTy{SynTyData: data, Fields: c.fields(e.Fields)})

	case *goast.InterfaceType:
		return c.interfaceTy(e)

	case *goast.Ellipsis:
		return alloc(&c.st.store, ast.EllipsisTy{SynTyData: data, Elem: c.synTy(e.Elt)})
	}

	return alloc(&c.st.store, ast.UnstableTy{SynTyData: data, Desc: types.ExprString(e)})
}

// pathTy converts a possibly-qualified type name.
func (c *converter) pathTy(data ast.SynTyData, qual, name *goast.Ident) ast.SynTy {
	path := alloc(&c.st.store, ast.PathTy{
		SynTyData: data,
		Qualifier: c.ident(qual),
		Name:      c.ident(name),
	})

	obj, _ := c.info().Uses[name].(*types.TypeName)
	switch {
	case obj == nil:
	case isTypeParam(obj):
		path.Generic = true
	case obj.Pkg() != nil:
		path.Target = mint[ast.TyDefID](&c.st.ids, obj)
	}
	return path
}

func isTypeParam(obj *types.TypeName) bool {
	_, ok := obj.Type().(*types.TypeParam)
	return ok
}

func (c *converter) fnTy(e *goast.FuncType) *ast.FnTy {
	return alloc(&c.st.store, ast.FnTy{
		SynTyData: ast.SynTyData{Span: c.span(e)},
		Params:    c.params(e.Params),
		Results:   c.params(e.Results),
		Variadic:  isVariadic(e),
	})
}

func (c *converter) interfaceTy(e *goast.InterfaceType) *ast.InterfaceTy {
	iface := alloc(&c.st.store, ast.InterfaceTy{SynTyData: ast.SynTyData{Span: c.span(e)}})
	if e.Methods == nil {
		return iface
	}
	for _, field := range e.Methods.List {
		fn, ok := field.Type.(*goast.FuncType)
		if !ok || len(field.Names) == 0 {
			iface.Embeds = append(iface.Embeds, c.synTy(field.Type))
			continue
		}
		for _, name := range field.Names {
			iface.Methods = append(iface.Methods, alloc(&c.st.store, ast.InterfaceMethod{
				Span: c.span(field),
				Name: c.ident(name),
				Ty:   c.fnTy(fn),
			}))
		}
	}
	return iface
}

// resolveTy converts a semantic type of type T through the type table.
func resolveTy[T any, P interface {
	*T
	ast.SemTy
}](c *converter, t types.Type, init T, fill func(P)) ast.SemTy {
	return memo.Resolve(&c.st.semTys, t,
		func() ast.SemTy { return P(alloc(&c.st.store, init)) },
		func(ty ast.SemTy) {
			if fill != nil {
				fill(ty.(P))
			}
		},
	)
}

// semTy converts a type computed by the type checker.
func (c *converter) semTy(t types.Type) ast.SemTy {
	if t == nil {
		return alloc(&c.st.store, ast.UnstableSemTy{Desc: "no type"})
	}
	t = types.Unalias(t)
	if ty, ok := c.st.semTys.Get(t); ok {
		return ty
	}

	switch t := t.(type) {
	case *types.Basic:
		switch {
		case t.Info()&types.IsBoolean != 0:
			return resolveTy[ast.BoolTy, *ast.BoolTy](c, t, ast.BoolTy{}, nil)
		case t.Info()&types.IsString != 0:
			return resolveTy[ast.TextTy, *ast.TextTy](c, t, ast.TextTy{}, nil)
		case t.Kind() == types.UntypedNil:
			return resolveTy[ast.NilTy, *ast.NilTy](c, t, ast.NilTy{}, nil)
		}
		if kind, ok := numKinds[t.Kind()]; ok {
			return resolveTy[ast.NumTy, *ast.NumTy](c, t, ast.NumTy{Kind: kind}, nil)
		}

	case *types.Pointer:
		return resolveTy(c, t, ast.PtrSemTy{}, func(x *ast.PtrSemTy) {
			x.Elem = c.semTy(t.Elem())
		})

	case *types.Slice:
		return resolveTy(c, t, ast.SliceSemTy{}, func(x *ast.SliceSemTy) {
			x.Elem = c.semTy(t.Elem())
		})

	case *types.Array:
		return resolveTy(c, t, ast.ArraySemTy{Len: t.Len()}, func(x *ast.ArraySemTy) {
			x.Elem = c.semTy(t.Elem())
		})

	case *types.Map:
		return resolveTy(c, t, ast.MapSemTy{}, func(x *ast.MapSemTy) {
			x.Key = c.semTy(t.Key())
			x.Value = c.semTy(t.Elem())
		})

	case *types.Chan:
		dir := ast.ChanBoth
		switch t.Dir() {
		case types.SendOnly:
			dir = ast.ChanSend
		case types.RecvOnly:
			dir = ast.ChanRecv
		}
		return resolveTy(c, t, ast.ChanSemTy{Dir: dir}, func(x *ast.ChanSemTy) {
			x.Elem = c.semTy(t.Elem())
		})

	case *types.Signature:
		return resolveTy(c, t, ast.FnSemTy{Variadic: t.Variadic()}, func(x *ast.FnSemTy) {
			x.Params = c.semTys(t.Params())
			x.Results = c.semTys(t.Results())
		})

	case *types.Named:
		def := mint[ast.TyDefID](&c.st.ids, t.Origin().Obj())
		return resolveTy(c, t, ast.AdtTy{Def: def}, func(x *ast.AdtTy) {
			args := t.TypeArgs()
			for i := range args.Len() {
				x.Args = append(x.Args, c.semTy(args.At(i)))
			}
		})

	case *types.TypeParam:
		obj := t.Obj()
		return resolveTy(c, t, ast.GenericTy{Name: obj.Name(), Def: mint[ast.TyDefID](&c.st.ids, obj)}, nil)

	case *types.Tuple:
		return resolveTy(c, t, ast.TupleTy{}, func(x *ast.TupleTy) {
			x.Elems = c.semTys(t)
		})

	case *types.Interface:
		return resolveTy(c, t, ast.InterfaceSemTy{}, func(x *ast.InterfaceSemTy) {
			for i := range t.NumMethods() {
				x.Methods = append(x.Methods, t.Method(i).Name())
			}
		})

	case *types.Struct:
		return resolveTy(c, t, ast.StructSemTy{}, func(x *ast.StructSemTy) {
			for i := range t.NumFields() {
				f := t.Field(i)
				x.Fields = append(x.Fields, ast.SemField{
					Name:     f.Name(),
					Ty:       c.semTy(f.Type()),
					Embedded: f.Embedded(),
				})
			}
		})
	}

	return resolveTy(c, t, ast.UnstableSemTy{Desc: t.String()}, nil)
}

func (c *converter) semTys(tuple *types.Tuple) []ast.SemTy {
	if tuple == nil || tuple.Len() == 0 {
		return nil
	}
	out := make([]ast.SemTy, tuple.Len())
	for i := range tuple.Len() {
		out[i] = c.semTy(tuple.At(i).Type())
	}
	return out
}

var numKinds = map[types.BasicKind]ast.NumKind{
	types.Int:            ast.Int,
	types.Int8:           ast.Int8,
	types.Int16:          ast.Int16,
	types.Int32:          ast.Int32,
	types.Int64:          ast.Int64,
	types.Uint:           ast.Uint,
	types.Uint8:          ast.Uint8,
	types.Uint16:         ast.Uint16,
	types.Uint32:         ast.Uint32,
	types.Uint64:         ast.Uint64,
	types.Uintptr:        ast.Uintptr,
	types.Float32:        ast.Float32,
	types.Float64:        ast.Float64,
	types.Complex64:      ast.Complex64,
	types.Complex128:     ast.Complex128,
	types.UntypedInt:     ast.UntypedInt,
	types.UntypedRune:    ast.UntypedRune,
	types.UntypedFloat:   ast.UntypedFloat,
	types.UntypedComplex: ast.UntypedComplex,
}

// exprTy returns the type of the expression with the given ID.
func (c *converter) exprTy(id ast.ExprID) ast.SemTy {
	switch key := lookup(&c.st.ids, id).(type) {
	case tupleKey:
		var values []goast.Expr
		switch node := key.node.(type) {
		case *goast.AssignStmt:
			values = node.Rhs
		case *goast.ValueSpec:
			values = node.Values
		}
		tuple := alloc(&c.st.store, ast.TupleTy{})
		for _, v := range values {
			tuple.Elems = append(tuple.Elems, c.semTy(c.info().TypeOf(v)))
		}
		return tuple
	case goast.Expr:
		return c.semTy(c.info().TypeOf(key))
	default:
		// Statements in expression position have no value.
		return alloc(&c.st.store, ast.TupleTy{})
	}
}

// methodTarget returns the method a method call calls, or zero if the call
// is dispatched dynamically through an interface.
func (c *converter) methodTarget(id ast.ExprID) ast.ItemID {
	call, ok := lookup(&c.st.ids, id).(*goast.CallExpr)
	if !ok {
		return 0
	}
	sel, ok := goast.Unparen(call.Fun).(*goast.SelectorExpr)
	if !ok {
		return 0
	}
	s := c.info().Selections[sel]
	if s == nil || s.Kind() != types.MethodVal {
		return 0
	}
	fn, ok := s.Obj().(*types.Func)
	if !ok {
		return 0
	}
	if recv := fn.Signature().Recv(); recv == nil || types.IsInterface(recv.Type()) {
		return 0
	}
	return c.itemID(fn.Origin())
}

// resolveTyIDs resolves a path of the form "import/path.Name" to the
// definition of that type. Only the package being analyzed and the packages
// it transitively imports can be searched. A path without a package names a
// predeclared type, such as "error".
func (c *converter) resolveTyIDs(path string) []ast.TyDefID {
	var pkgPath, name string
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		pkgPath, name = path[:i], path[i+1:]
	} else {
		name = path
	}
	if !token.IsIdentifier(name) {
		return nil
	}

	var scope *types.Scope
	if pkgPath == "" {
		scope = types.Universe
	} else if pkg := c.findPackage(pkgPath); pkg != nil {
		scope = pkg.Scope()
	}
	if scope == nil {
		return nil
	}

	obj, ok := scope.Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}
	return []ast.TyDefID{mint[ast.TyDefID](&c.st.ids, obj)}
}

// findPackage searches the package being analyzed and its transitive imports.
func (c *converter) findPackage(path string) *types.Package {
	root := c.check().pkg
	if root == nil {
		return nil
	}
	seen := make(map[*types.Package]bool)
	queue := []*types.Package{root}
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		if seen[pkg] {
			continue
		}
		seen[pkg] = true
		if pkg.Path() == path {
			return pkg
		}
		queue = append(queue, pkg.Imports()...)
	}
	return nil
}
