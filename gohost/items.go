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
	"slices"
	"strconv"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/memo"
)

// decls indexes the declarations of the package, built on first need.
type decls struct {
	// Keys of the items in the root module, in declaration order.
	root []any
	// Where each object that becomes an item is declared.
	sites map[types.Object]site

	// Named integer types with constants of that type declared in the same
	// package become enums, and the constants their variants.
	enums     map[*types.TypeName][]*types.Const
	variantOf map[*types.Const]*types.TypeName
}

// site is where an object is declared.
type site struct {
	decl  goast.Decl // A *goast.FuncDecl or *goast.GenDecl.
	spec  goast.Spec // Nil for functions.
	index int        // The object's name within spec, for value specs.
}

func (c *converter) decls() *decls {
	if c.st.decls != nil {
		return c.st.decls
	}
	info := c.info()
	d := &decls{
		sites:     make(map[types.Object]site),
		enums:     make(map[*types.TypeName][]*types.Const),
		variantOf: make(map[*types.Const]*types.TypeName),
	}
	c.st.decls = d

	var consts []*types.Const
	add := func(name *goast.Ident, s site) {
		obj := info.Defs[name]
		if obj == nil {
			return
		}
		d.root = append(d.root, obj)
		d.sites[obj] = s
		if k, ok := obj.(*types.Const); ok {
			consts = append(consts, k)
		}
	}

	for _, f := range c.s.files {
		for _, decl := range f.Decls {
			switch decl := decl.(type) {
			case *goast.FuncDecl:
				add(decl.Name, site{decl: decl})
			case *goast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *goast.ImportSpec:
						d.root = append(d.root, spec)
					case *goast.TypeSpec:
						add(spec.Name, site{decl: decl, spec: spec})
					case *goast.ValueSpec:
						for i, name := range spec.Names {
							add(name, site{decl: decl, spec: spec, index: i})
						}
					}
				}
			}
		}
	}

	for _, k := range consts {
		named, ok := types.Unalias(k.Type()).(*types.Named)
		if !ok {
			continue
		}
		tn := named.Obj()
		basic, ok := named.Underlying().(*types.Basic)
		if _, local := d.sites[tn]; !local || tn.IsAlias() || !ok || basic.Info()&types.IsInteger == 0 {
			continue
		}
		d.enums[tn] = append(d.enums[tn], k)
		d.variantOf[k] = tn
	}
	d.root = slices.DeleteFunc(d.root, func(key any) bool {
		k, ok := key.(*types.Const)
		return ok && d.variantOf[k] != nil
	})
	return d
}

// resolveItem converts an item of type T through the item table.
func resolveItem[T any, P interface {
	*T
	ast.Item
}](c *converter, id ast.ItemID, fill func(P)) ast.Item {
	return memo.Resolve(&c.st.items, id,
		func() ast.Item { return P(alloc(&c.st.store, *new(T))) },
		func(item ast.Item) { fill(item.(P)) },
	)
}

// item converts the item with the given ID. Returns nil for items the
// session does not materialize, such as declarations in other packages.
func (c *converter) item(id ast.ItemID) ast.Item {
	if item, ok := c.st.items.Get(id); ok {
		return item
	}

	switch key := lookup(&c.st.ids, id).(type) {
	case rootKey:
		return resolveItem(c, id, func(mod *ast.ModItem) { c.fillRoot(id, mod) })
	case *goast.ImportSpec:
		return resolveItem(c, id, func(imp *ast.ImportItem) { c.fillImport(id, imp, key) })
	case types.Object:
		site, ok := c.decls().sites[key]
		if !ok {
			return nil
		}
		switch obj := key.(type) {
		case *types.Func:
			return resolveItem(c, id, func(fn *ast.FnItem) { c.fillFn(id, fn, site) })
		case *types.TypeName:
			return c.typeItem(id, obj, site)
		case *types.Const:
			return resolveItem(c, id, func(k *ast.ConstItem) { c.fillConst(id, k, obj, site) })
		case *types.Var:
			return resolveItem(c, id, func(v *ast.VarItem) { c.fillVar(id, v, site) })
		}
	}
	return nil
}

func (c *converter) itemID(key any) ast.ItemID {
	return mint[ast.ItemID](&c.st.ids, key)
}

func (c *converter) itemData(id ast.ItemID, node goast.Node, name *goast.Ident) ast.ItemData {
	vis := ast.Private
	if name != nil && name.IsExported() {
		vis = ast.Public
	}
	return ast.ItemData{ID: id, Span: c.span(node), Name: c.ident(name), Vis: vis}
}

func (c *converter) fillRoot(id ast.ItemID, mod *ast.ModItem) {
	pkg := c.check().pkg
	mod.ItemData = ast.ItemData{ID: id, Vis: ast.Public}
	if len(c.s.files) > 0 {
		f := c.s.files[0]
		mod.Span = c.spanOf(f.Package, f.Name.End())
		mod.Name = alloc(&c.st.store, ast.Ident{Sym: c.sym(pkg.Name()), Span: c.span(f.Name)})
	}

	for _, key := range c.decls().root {
		if item := c.item(c.itemID(key)); item != nil {
			mod.Items = append(mod.Items, item)
		}
	}
}

func (c *converter) fillImport(id ast.ItemID, imp *ast.ImportItem, spec *goast.ImportSpec) {
	imp.ItemData = ast.ItemData{ID: id, Span: c.span(spec)}
	imp.Path, _ = strconv.Unquote(spec.Path.Value)

	switch {
	case spec.Name == nil:
		if obj, ok := c.info().Implicits[spec].(*types.PkgName); ok {
			imp.Name = alloc(&c.st.store, ast.Ident{Sym: c.sym(obj.Name()), Span: c.span(spec.Path)})
		}
	case spec.Name.Name != "_":
		imp.Name = c.ident(spec.Name)
	}
}

func (c *converter) fillFn(id ast.ItemID, fn *ast.FnItem, site site) {
	decl := site.decl.(*goast.FuncDecl)
	fn.ItemData = c.itemData(id, decl, decl.Name)

	if recv := c.params(decl.Recv); len(recv) > 0 {
		fn.Recv = recv[0]
	}
	fn.TypeParams = c.typeParams(decl.Type.TypeParams)
	fn.Params = c.params(decl.Type.Params)
	fn.Results = c.params(decl.Type.Results)
	fn.Variadic = isVariadic(decl.Type)
	if decl.Body != nil {
		fn.Body = c.bodyID(decl, id)
	}
}

func (c *converter) typeItem(id ast.ItemID, obj *types.TypeName, site site) ast.Item {
	spec := site.spec.(*goast.TypeSpec)
	tyDef := mint[ast.TyDefID](&c.st.ids, obj)

	if variants := c.decls().enums[obj]; variants != nil {
		return resolveItem(c, id, func(enum *ast.EnumItem) {
			enum.ItemData = c.itemData(id, spec, spec.Name)
			enum.TyDef = tyDef
			enum.Underlying = c.synTy(spec.Type)
			for _, k := range variants {
				enum.Variants = append(enum.Variants, c.variant(k))
			}
		})
	}

	if !spec.Assign.IsValid() {
		switch ty := goast.Unparen(spec.Type).(type) {
		case *goast.StructType:
			return resolveItem(c, id, func(st *ast.StructItem) {
				st.ItemData = c.itemData(id, spec, spec.Name)
				st.TyDef = tyDef
				st.TypeParams = c.typeParams(spec.TypeParams)
				st.Fields = c.fields(ty.Fields)
			})
		case *goast.InterfaceType:
			return resolveItem(c, id, func(iface *ast.InterfaceItem) {
				iface.ItemData = c.itemData(id, spec, spec.Name)
				iface.TyDef = tyDef
				iface.TypeParams = c.typeParams(spec.TypeParams)
				iface.Ty = c.interfaceTy(ty)
			})
		}
	}

	return resolveItem(c, id, func(alias *ast.TypeAliasItem) {
		alias.ItemData = c.itemData(id, spec, spec.Name)
		alias.TyDef = tyDef
		alias.TypeParams = c.typeParams(spec.TypeParams)
		alias.Ty = c.synTy(spec.Type)
		alias.Alias = spec.Assign.IsValid()
	})
}

func (c *converter) variant(k *types.Const) *ast.Variant {
	site := c.decls().sites[k]
	spec := site.spec.(*goast.ValueSpec)
	name := spec.Names[site.index]

	v := alloc(&c.st.store, ast.Variant{
		ID:    mint[ast.VariantID](&c.st.ids, k),
		Span:  c.span(name),
		Name:  c.ident(name),
		Value: k.Val().ExactString(),
	})
	if site.index < len(spec.Values) {
		v.Body = c.bodyID(spec.Values[site.index], c.itemID(c.decls().variantOf[k]))
	}
	return v
}

func (c *converter) fillConst(id ast.ItemID, k *ast.ConstItem, obj *types.Const, site site) {
	spec := site.spec.(*goast.ValueSpec)
	k.ItemData = c.itemData(id, spec, spec.Names[site.index])
	k.Ty = c.synTy(spec.Type)
	k.Value = obj.Val().ExactString()
	if site.index < len(spec.Values) {
		k.Body = c.bodyID(spec.Values[site.index], id)
	}
}

func (c *converter) fillVar(id ast.ItemID, v *ast.VarItem, site site) {
	spec := site.spec.(*goast.ValueSpec)
	v.ItemData = c.itemData(id, spec, spec.Names[site.index])
	v.Ty = c.synTy(spec.Type)
	switch {
	case len(spec.Values) == len(spec.Names):
		v.Body = c.bodyID(spec.Values[site.index], id)
	case len(spec.Values) == 1 && site.index == 0:
		// var a, b = f(): the call is one body, owned by the first variable.
		v.Body = c.bodyID(spec.Values[0], id)
	}
}

// localItem converts a type or constant declared inside a body.
func (c *converter) localItem(name *goast.Ident, s site) ast.Item {
	obj := c.info().Defs[name]
	if obj == nil {
		return nil
	}
	c.decls().sites[obj] = s
	return c.item(c.itemID(obj))
}

// bodyID returns the ID of the body rooted at node, recording owner as the
// item it belongs to.
func (c *converter) bodyID(node goast.Node, owner ast.ItemID) ast.BodyID {
	id := mint[ast.BodyID](&c.st.ids, node)
	if _, ok := c.st.owners[id]; !ok {
		c.st.owners[id] = owner
	}
	return id
}

func (c *converter) body(id ast.BodyID) *ast.Body {
	key := lookup(&c.st.ids, id)
	return memo.Resolve(&c.st.bodies, id,
		func() *ast.Body {
			return alloc(&c.st.store, ast.Body{ID: id, Owner: c.st.owners[id]})
		},
		func(body *ast.Body) {
			prev := c.st.subject.body
			c.st.subject.body = id
			defer func() { c.st.subject.body = prev }()

			switch key := key.(type) {
			case *goast.FuncDecl:
				body.Expr = c.stmtExpr(key.Body, nil)
			case *goast.FuncLit:
				body.Expr = c.stmtExpr(key.Body, nil)
			case goast.Expr:
				body.Expr = c.expr(key)
			}
		},
	)
}

func (c *converter) typeParams(list *goast.FieldList) []*ast.Ident {
	if list == nil {
		return nil
	}
	var params []*ast.Ident
	for _, field := range list.List {
		for _, name := range field.Names {
			params = append(params, c.ident(name))
		}
	}
	return params
}

// params converts a parameter, result or receiver list. Every name becomes
// its own parameter.
func (c *converter) params(list *goast.FieldList) []*ast.Param {
	if list == nil {
		return nil
	}
	var params []*ast.Param
	for _, field := range list.List {
		ty := c.synTy(field.Type)
		if len(field.Names) == 0 {
			params = append(params, alloc(&c.st.store, ast.Param{Span: c.span(field), Ty: ty}))
			continue
		}
		for _, name := range field.Names {
			params = append(params, alloc(&c.st.store, ast.Param{
				Span: c.span(name),
				Name: c.ident(name),
				Var:  c.varID(name),
				Ty:   ty,
			}))
		}
	}
	return params
}

func isVariadic(ty *goast.FuncType) bool {
	if ty.Params == nil || len(ty.Params.List) == 0 {
		return false
	}
	_, ok := ty.Params.List[len(ty.Params.List)-1].Type.(*goast.Ellipsis)
	return ok
}

// varID returns the ID of the variable name declares, or zero.
func (c *converter) varID(name *goast.Ident) ast.VarID {
	if name.Name == "_" {
		return 0
	}
	obj, ok := c.info().Defs[name].(*types.Var)
	if !ok {
		return 0
	}
	return mint[ast.VarID](&c.st.ids, obj)
}

func (c *converter) fields(list *goast.FieldList) []*ast.Field {
	if list == nil {
		return nil
	}
	var fields []*ast.Field
	for _, field := range list.List {
		ty := c.synTy(field.Type)
		var tag string
		if field.Tag != nil {
			tag, _ = strconv.Unquote(field.Tag.Value)
		}

		if len(field.Names) == 0 {
			fields = append(fields, alloc(&c.st.store, ast.Field{
				ID:       mint[ast.FieldID](&c.st.ids, fieldKey{field, 0}),
				Span:     c.span(field),
				Ty:       ty,
				Embedded: true,
				Tag:      tag,
			}))
			continue
		}
		for i, name := range field.Names {
			fields = append(fields, alloc(&c.st.store, ast.Field{
				ID:   mint[ast.FieldID](&c.st.ids, fieldKey{field, i}),
				Span: c.spanOf(name.Pos(), field.End()),
				Name: c.ident(name),
				Ty:   ty,
				Tag:  tag,
			}))
		}
	}
	return fields
}

// spanOf returns the ID of the span [start, end).
func (c *converter) spanOf(start, end token.Pos) ast.SpanID {
	return mint[ast.SpanID](&c.st.ids, spanKey{start, end})
}

func (c *converter) span(node goast.Node) ast.SpanID {
	return c.spanOf(node.Pos(), node.End())
}
