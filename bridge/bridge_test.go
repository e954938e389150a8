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

package bridge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/lint"
)

// fakeContext is a driver that answers from fixed tables.
type fakeContext struct {
	levels map[string]lint.Level
	items  map[ast.ItemID]ast.Item
	diags  []*lint.Diagnostic
	file   *ast.FileInfo
}

func (f *fakeContext) LintLevelAt(l *lint.Lint, _ lint.EmissionNode) lint.Level {
	if level, ok := f.levels[l.Name]; ok {
		return level
	}
	return l.Default
}

func (f *fakeContext) EmitDiag(d *lint.Diagnostic) {
	f.diags = append(f.diags, d)
}

func (f *fakeContext) Item(id ast.ItemID) ast.Item {
	return f.items[id]
}

func (f *fakeContext) Body(id ast.BodyID) *ast.Body {
	return &ast.Body{ID: id}
}

func (f *fakeContext) ResolveTyIDs(string) []ast.TyDefID {
	return []ast.TyDefID{4, 5}
}

func (f *fakeContext) ExprTy(ast.ExprID) ast.SemTy {
	return &ast.SliceSemTy{Elem: &ast.TextTy{}}
}

func (f *fakeContext) Span(id ast.SpanID) *ast.Span {
	return &ast.Span{Source: &ast.FileSource{File: f.file}, End: ast.SpanPos(id)}
}

func (f *fakeContext) SpanSource(s *ast.Span) ast.SpanSource {
	return s.Source
}

func (f *fakeContext) SymbolStr(ast.SymbolID) string {
	return "symbol"
}

func (f *fakeContext) ResolveMethodTarget(ast.ExprID) ast.ItemID {
	return 99
}

func (f *fakeContext) SpanSnippet(s *ast.Span) (string, bool) {
	if _, ok := s.Source.(*ast.BuiltinSource); ok {
		return "", false
	}
	return "snippet", true
}

func (f *fakeContext) SpanPosToFileLoc(_ *ast.FileInfo, pos ast.SpanPos) (ast.FilePos, bool) {
	return ast.FilePos{Line: 1, Column: int(pos) + 1}, pos < 10
}

func (f *fakeContext) SpanExpnInfo(id ast.ExpnID) (*ast.ExpnInfo, bool) {
	if id.IsZero() {
		return nil, false
	}
	return &ast.ExpnInfo{ID: id, Kind: ast.ExpnGenerated}, true
}

func newFake() *fakeContext {
	return &fakeContext{
		levels: map[string]lint.Level{"quiet": lint.Allow},
		items: map[ast.ItemID]ast.Item{
			1: &ast.FnItem{ItemData: ast.ItemData{ID: 1}},
			2: &ast.StructItem{ItemData: ast.ItemData{ID: 2}},
		},
		file: &ast.FileInfo{Path: "a.go"},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	fake := newFake()
	w := bridge.Wrap(fake)
	defer w.Release()
	cx := bridge.NewContext(w.Callbacks())

	// Nodes come back as the same pointers, with their concrete types.
	assert.Same(t, fake.items[1], cx.Item(1))
	assert.IsType(t, &ast.StructItem{}, cx.Item(2))
	assert.Nil(t, cx.Item(3))

	assert.Equal(t, ast.BodyID(7), cx.Body(7).ID)
	assert.Equal(t, []ast.TyDefID{4, 5}, cx.ResolveTyIDs("example.com/p.T"))
	assert.Equal(t, &ast.SliceSemTy{Elem: &ast.TextTy{}}, cx.ExprTy(1))
	assert.Equal(t, "symbol", cx.SymbolStr(1))
	assert.Equal(t, ast.ItemID(99), cx.ResolveMethodTarget(1))

	span := cx.Span(3)
	assert.Equal(t, ast.SpanPos(3), span.End)
	src, ok := cx.SpanSource(span).(*ast.FileSource)
	require.True(t, ok)
	assert.Same(t, fake.file, src.File)

	text, ok := cx.SpanSnippet(span)
	assert.True(t, ok)
	assert.Equal(t, "snippet", text)
	_, ok = cx.SpanSnippet(&ast.Span{Source: &ast.BuiltinSource{}})
	assert.False(t, ok)

	loc, ok := cx.SpanPosToFileLoc(fake.file, 4)
	assert.True(t, ok)
	assert.Equal(t, ast.FilePos{Line: 1, Column: 5}, loc)
	_, ok = cx.SpanPosToFileLoc(fake.file, 40)
	assert.False(t, ok)

	info, ok := cx.SpanExpnInfo(2)
	assert.True(t, ok)
	assert.Equal(t, ast.ExpnGenerated, info.Kind)
	_, ok = cx.SpanExpnInfo(0)
	assert.False(t, ok)
}

func TestEmitLint(t *testing.T) {
	t.Parallel()

	fake := newFake()
	w := bridge.Wrap(fake)
	defer w.Release()
	cx := bridge.NewContext(w.Callbacks())

	loud := &lint.Lint{Name: "loud", Default: lint.Warn}
	quiet := &lint.Lint{Name: "quiet", Default: lint.Warn}
	node := lint.StmtNode(ast.StmtIDFromLet(5))

	cx.EmitLint(quiet, node, 1, "dropped")
	cx.EmitLint(loud, node, 2, "kept", lint.Suggest(3, "use this", "fixed", lint.MaybeIncorrect))

	require.Len(t, fake.diags, 1)
	d := fake.diags[0]
	assert.Same(t, loud, d.Lint)
	assert.Equal(t, node, d.Node)
	assert.Equal(t, ast.SpanID(2), d.Span)
	assert.Equal(t, "kept", d.Msg)
	assert.Equal(t, []lint.Part{{
		Kind:          lint.PartSuggestion,
		Span:          3,
		Msg:           "use this",
		Replacement:   "fixed",
		Applicability: lint.MaybeIncorrect,
	}}, d.Parts)
}

func TestRelease(t *testing.T) {
	t.Parallel()

	w := bridge.Wrap(newFake())
	cx := bridge.NewContext(w.Callbacks())
	assert.Equal(t, "symbol", cx.SymbolStr(1))

	w.Release()
	assert.PanicsWithValue(t, "bridge: context used after its session ended", func() {
		cx.SymbolStr(1)
	})
	assert.Panics(t, func() { bridge.NewContext(&bridge.Callbacks{}) })
}

func TestValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", bridge.StrOf("hello").String())
	assert.Empty(t, bridge.StrOf("").String())
	assert.Equal(t, []int{1, 2}, bridge.SliceOf([]int{1, 2}).Slice())
	assert.Nil(t, bridge.SliceOf[int](nil).Slice())

	v, ok := bridge.Some(3).Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = bridge.None[int]().Get()
	assert.False(t, ok)
}

func TestLayoutFingerprint(t *testing.T) {
	t.Parallel()

	assert.NotZero(t, bridge.LayoutFingerprint())
	assert.Equal(t, bridge.LayoutFingerprint(), bridge.LayoutFingerprint())

	var b strings.Builder
	bridge.DescribeLayout(&b)
	assert.Contains(t, b.String(), "bridge.Callbacks size=")
	assert.Contains(t, b.String(), ".ResolveMethodTarget @")
}
