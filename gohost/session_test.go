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

package gohost_test

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/gohost"
	"github.com/bufbuild/lintbridge/internal/testplugin"
	"github.com/bufbuild/lintbridge/plugin"
	"github.com/bufbuild/lintbridge/visitor"
)

const testPath = "example.com/test"

// program parses and lazily type-checks files, keyed by name. The files may
// not import anything.
func program(t *testing.T, files map[string]string) gohost.Program {
	t.Helper()

	fset := token.NewFileSet()
	var syntax []*goast.File
	sources := make(map[string][]byte)
	for _, name := range slices.Sorted(maps.Keys(files)) {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments|parser.SkipObjectResolution)
		require.NoError(t, err)
		syntax = append(syntax, f)
		sources[name] = []byte(files[name])
	}

	prog := gohost.Check(fset, testPath, syntax, nil)
	prog.Sources = sources
	return prog
}

func session(t *testing.T, files map[string]string, opts ...gohost.Option) (*gohost.Session, *ast.Crate) {
	t.Helper()

	s := gohost.NewSession(program(t, files), opts...)
	crate, err := s.Crate()
	require.NoError(t, err)
	require.NotNil(t, crate.Root)
	return s, crate
}

// item returns the item named name in the root module.
func item[T ast.Item](t *testing.T, s *gohost.Session, crate *ast.Crate, name string) T {
	t.Helper()

	for _, item := range crate.Root.Items {
		if id := item.Ident(); id != nil && s.SymbolStr(id.Sym) == name {
			out, ok := item.(T)
			require.Truef(t, ok, "%s is a %T", name, item)
			return out
		}
	}
	require.Failf(t, "no such item", "%s", name)
	panic("unreachable")
}

// exprs collects every expression of type T in body, in visit order.
func exprs[T ast.Expr](s *gohost.Session, body *ast.Body) []T {
	c := &collector[T]{}
	visitor.TraverseBody(s, c, body)
	return c.found
}

type collector[T ast.Expr] struct {
	visitor.Base
	found []T
}

func (c *collector[T]) VisitExpr(expr ast.Expr) visitor.Control {
	if e, ok := expr.(T); ok {
		c.found = append(c.found, e)
	}
	return visitor.Continue
}

func TestScenario(t *testing.T) {
	t.Parallel()

	files := map[string]string{"a.go": `package test

func f() {
	x := 1
	println(x)
}
`}

	run := func() testplugin.Counts {
		counter, counts := testplugin.Counter("counter", visitor.ScopeBodies)
		a, err := adapter.New([]*plugin.Info{counter})
		require.NoError(t, err)

		s, crate := session(t, files)
		defer s.Close()
		a.ProcessCrate(s, crate)
		return *counts
	}

	first := run()
	assert.Equal(t, 1, first.Crates)
	assert.Equal(t, 1, first.Items)
	assert.Equal(t, 1, first.Bodies)
	assert.Equal(t, 2, first.Stmts)
	assert.GreaterOrEqual(t, first.Exprs, 1)

	for range 3 {
		assert.Equal(t, first, run())
	}
}

func TestLoweringArtifacts(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

func f() {
	x := 1
	;
	{}
	_ = x
}
`})
	defer s.Close()

	fn := item[*ast.FnItem](t, s, crate, "f")
	body := s.Body(fn.Body)
	require.NotNil(t, body)
	block, ok := body.Expr.(*ast.BlockExpr)
	require.True(t, ok)

	require.Len(t, block.Stmts, 3)
	assert.IsType(t, (*ast.LetStmt)(nil), block.Stmts[0])
	inner, ok := block.Stmts[1].(*ast.ExprStmt)
	require.True(t, ok)
	assert.IsType(t, (*ast.BlockExpr)(nil), inner.Expr)
	assign, ok := block.Stmts[2].(*ast.ExprStmt)
	require.True(t, ok)
	assert.IsType(t, (*ast.AssignExpr)(nil), assign.Expr)

	assert.Equal(t, 1, s.Stats().Skipped)

	// Traversal is unaffected.
	counter, counts := testplugin.Counter("counter", visitor.ScopeBodies)
	a, err := adapter.New([]*plugin.Info{counter})
	require.NoError(t, err)
	a.ProcessCrate(s, crate)
	assert.Equal(t, 3, counts.Stmts)
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

var v = 1

func f(a int) int { return a + v }
`})
	defer s.Close()

	again, err := s.Crate()
	require.NoError(t, err)
	assert.Same(t, crate, again)

	for _, item := range crate.Root.Items {
		assert.Same(t, item, s.Item(item.ItemID()))
	}

	fn := item[*ast.FnItem](t, s, crate, "f")
	body := s.Body(fn.Body)
	assert.Same(t, body, s.Body(fn.Body))
	assert.Equal(t, fn.ID, body.Owner)

	// The same variable resolves to the same ID wherever it is named.
	paths := exprs[*ast.PathExpr](s, body)
	require.Len(t, paths, 2)
	assert.Equal(t, ast.ResLocal, paths[0].Res.Kind)
	assert.Equal(t, fn.Params[0].Var, paths[0].Res.Var)
	assert.Equal(t, ast.ResItem, paths[1].Res.Kind)
	assert.Equal(t, item[*ast.VarItem](t, s, crate, "v").ID, paths[1].Res.Item)

	stats := s.Stats()
	assert.Equal(t, 3, stats.Items) // The root, v and f.
	assert.Equal(t, 1, stats.Bodies)
}

func TestCycles(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

type Node struct {
	Next *Node
	Val  int
}

func even(n int) bool {
	if n == 0 {
		return true
	}
	return odd(n - 1)
}

func odd(n int) bool {
	if n == 0 {
		return false
	}
	return even(n - 1)
}
`})
	defer s.Close()

	node := item[*ast.StructItem](t, s, crate, "Node")
	require.Len(t, node.Fields, 2)
	ptr, ok := node.Fields[0].Ty.(*ast.PtrTy)
	require.True(t, ok)
	path, ok := ptr.Elem.(*ast.PathTy)
	require.True(t, ok)
	assert.Equal(t, node.TyDef, path.Target)

	even := item[*ast.FnItem](t, s, crate, "even")
	odd := item[*ast.FnItem](t, s, crate, "odd")
	for _, tt := range []struct{ from, to *ast.FnItem }{{even, odd}, {odd, even}} {
		calls := exprs[*ast.CallExpr](s, s.Body(tt.from.Body))
		require.Len(t, calls, 1)
		callee, ok := calls[0].Func.(*ast.PathExpr)
		require.True(t, ok)
		assert.Equal(t, tt.to.ID, callee.Res.Item)
		assert.Same(t, tt.to, s.Item(callee.Res.Item))
	}

	bins := exprs[*ast.BinaryExpr](s, s.Body(even.Body))
	require.NotEmpty(t, bins)
	assert.Equal(t, ast.BinaryEq, bins[0].Op)
	assert.IsType(t, (*ast.BoolTy)(nil), s.ExprTy(bins[0].ID))
}

func TestEnum(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

type Color int

const (
	Red Color = iota
	Green
	Blue
)

const Max = 3

func paint() Color { return Green }
`})
	defer s.Close()

	require.Len(t, crate.Root.Items, 3)
	color := item[*ast.EnumItem](t, s, crate, "Color")
	var names, values []string
	for _, v := range color.Variants {
		names = append(names, s.SymbolStr(v.Name.Sym))
		values = append(values, v.Value)
	}
	assert.Equal(t, []string{"Red", "Green", "Blue"}, names)
	assert.Equal(t, []string{"0", "1", "2"}, values)

	max := item[*ast.ConstItem](t, s, crate, "Max")
	assert.Equal(t, "3", max.Value)

	paint := item[*ast.FnItem](t, s, crate, "paint")
	paths := exprs[*ast.PathExpr](s, s.Body(paint.Body))
	require.Len(t, paths, 1)
	res := paths[0].Res
	assert.Equal(t, ast.ResItem, res.Kind)
	assert.Equal(t, color.ID, res.Item)
	assert.Equal(t, color.TyDef, res.Ty)
	assert.Equal(t, color.Variants[1].ID, res.Variant)

	adt, ok := s.ExprTy(paths[0].ID).(*ast.AdtTy)
	require.True(t, ok)
	assert.Equal(t, color.TyDef, adt.Def)
}

func TestMethods(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

type T struct{}

func (T) M() {}

type I interface{ M() }

func use(t T, i I) {
	t.M()
	i.M()
}
`})
	defer s.Close()

	var method *ast.FnItem
	for _, item := range crate.Root.Items {
		if fn, ok := item.(*ast.FnItem); ok && fn.Recv != nil {
			method = fn
		}
	}
	require.NotNil(t, method)

	use := item[*ast.FnItem](t, s, crate, "use")
	calls := exprs[*ast.MethodCallExpr](s, s.Body(use.Body))
	require.Len(t, calls, 2)
	assert.Equal(t, method.ID, s.ResolveMethodTarget(calls[0].ID))
	assert.Zero(t, s.ResolveMethodTarget(calls[1].ID))

	tyT := item[*ast.StructItem](t, s, crate, "T")
	assert.Equal(t, []ast.TyDefID{tyT.TyDef}, s.ResolveTyIDs(testPath+".T"))
	assert.Len(t, s.ResolveTyIDs("error"), 1)
	assert.Empty(t, s.ResolveTyIDs(testPath+".use"))
	assert.Empty(t, s.ResolveTyIDs("example.com/missing.T"))

	iface := item[*ast.InterfaceItem](t, s, crate, "I")
	require.Len(t, iface.Ty.Methods, 1)
	assert.Equal(t, "M", s.SymbolStr(iface.Ty.Methods[0].Name.Sym))
}

func TestForeignIDs(t *testing.T) {
	t.Parallel()

	files := map[string]string{"a.go": "package test\n\nfunc f() {}\n"}
	s1, crate1 := session(t, files)
	s2, _ := session(t, files)
	fn := item[*ast.FnItem](t, s1, crate1, "f")

	assert.Panics(t, func() { s2.Item(fn.ID) })
	assert.Panics(t, func() { s2.Body(fn.Body) })
	assert.Panics(t, func() { s2.SymbolStr(fn.Name.Sym) })
	assert.Panics(t, func() { s1.Item(0) })

	s1.Close()
	assert.PanicsWithValue(t, "gohost: session used after Close", func() { s1.Item(fn.ID) })
	assert.NotNil(t, s1.Report())
}

func TestTypeErrors(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

func f() int { return undefined }
`})
	defer s.Close()

	fn := item[*ast.FnItem](t, s, crate, "f")
	paths := exprs[*ast.PathExpr](s, s.Body(fn.Body))
	require.Len(t, paths, 1)
	assert.Equal(t, ast.ResUnresolved, paths[0].Res.Kind)
	assert.Equal(t, 1, s.Stats().TypeErrors)
}

func TestVisitedOnce(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

var a, b = pair()

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func pair() (int, int) { return 1, 2 }

func f() int {
	type T int
	const K = 2
	var x, y = pair()
	g := func() int { return x + y }
	return g() + K + int(T(a+b))
}
`})
	defer s.Close()

	first := item[*ast.VarItem](t, s, crate, "a")
	second := item[*ast.VarItem](t, s, crate, "b")
	require.NotZero(t, first.Body)
	assert.Zero(t, second.Body)
	assert.Equal(t, first.ID, s.Body(first.Body).Owner)

	c := newCounter()
	visitor.TraverseCrate(s, c, crate)

	assert.NotEmpty(t, c.items)
	assert.NotEmpty(t, c.bodies)
	for id, n := range c.items {
		assert.Equalf(t, 1, n, "item %v", id)
	}
	for id, n := range c.bodies {
		assert.Equalf(t, 1, n, "body %v", id)
	}
	for id, n := range c.stmts {
		assert.Equalf(t, 1, n, "stmt %v", id)
	}
	for id, n := range c.exprs {
		assert.Equalf(t, 1, n, "expr %v", id)
	}
}

// counter counts how many times each node of a traversal is visited.
type counter struct {
	visitor.Base
	items  map[ast.ItemID]int
	bodies map[ast.BodyID]int
	stmts  map[ast.StmtID]int
	exprs  map[ast.ExprID]int
}

func newCounter() *counter {
	return &counter{
		items:  make(map[ast.ItemID]int),
		bodies: make(map[ast.BodyID]int),
		stmts:  make(map[ast.StmtID]int),
		exprs:  make(map[ast.ExprID]int),
	}
}

func (*counter) Scope() visitor.Scope { return visitor.ScopeBodies }

func (c *counter) VisitItem(item ast.Item) visitor.Control {
	c.items[item.ItemID()]++
	return visitor.Continue
}

func (c *counter) VisitBody(body *ast.Body) visitor.Control {
	c.bodies[body.ID]++
	return visitor.Continue
}

func (c *counter) VisitStmt(stmt ast.Stmt) visitor.Control {
	c.stmts[stmt.StmtID()]++
	return visitor.Continue
}

func (c *counter) VisitExpr(expr ast.Expr) visitor.Control {
	c.exprs[expr.ExprID()]++
	return visitor.Continue
}
