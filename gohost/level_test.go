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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/gohost"
	"github.com/bufbuild/lintbridge/internal/testplugin"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/plugin"
	"github.com/bufbuild/lintbridge/report"
)

const directives = `package test

//lint:allow sample
func a() {}

func b() {} //lint:warn sample

//lint:forbid sample
//
// c does nothing.
func c() {}

func d() {}

//lint:allow other_sample
func e() {}

//lint:bogus sample
func f() {}
`

func TestLevels(t *testing.T) {
	t.Parallel()

	sample := &lint.Lint{Name: "sample", Default: lint.Deny}

	tests := []struct {
		name   string
		levels map[string]lint.Level
		want   map[string]lint.Level
	}{
		{
			name: "directives",
			want: map[string]lint.Level{
				"a": lint.Allow,
				"b": lint.Warn,
				"c": lint.Forbid,
				"d": lint.Deny,
				"e": lint.Deny,
				"f": lint.Deny,
			},
		},
		{
			name:   "pattern",
			levels: map[string]lint.Level{"sam*": lint.Warn, "[": lint.Allow},
			want: map[string]lint.Level{
				"a": lint.Allow,
				"d": lint.Warn,
			},
		},
		{
			name:   "exact beats pattern",
			levels: map[string]lint.Level{"*": lint.Allow, "sample": lint.Warn, "sampl?": lint.Deny},
			want: map[string]lint.Level{
				"d": lint.Warn,
			},
		},
		{
			name:   "forbid is not lowered",
			levels: map[string]lint.Level{"sample": lint.Forbid},
			want: map[string]lint.Level{
				"a": lint.Forbid,
				"b": lint.Forbid,
				"d": lint.Forbid,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, crate := session(t, map[string]string{"a.go": directives}, gohost.WithLevels(tt.levels))
			defer s.Close()

			for name, want := range tt.want {
				fn := item[*ast.FnItem](t, s, crate, name)
				assert.Equalf(t, want, s.LintLevelAt(sample, lint.ItemNode(fn.ID)), "at %s", name)
			}
		})
	}
}

func TestLevelInBody(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

//lint:warn sample
func f(x bool) bool {
	//lint:allow sample
	y := x == true
	return y == true
}
`})
	defer s.Close()

	sample := &lint.Lint{Name: "sample", Default: lint.Deny}
	fn := item[*ast.FnItem](t, s, crate, "f")
	bins := exprs[*ast.BinaryExpr](s, s.Body(fn.Body))
	require.Len(t, bins, 2)
	assert.Equal(t, lint.Allow, s.LintLevelAt(sample, lint.ExprNode(bins[0].ID)))
	// Falls back to the doc comment of the enclosing function.
	assert.Equal(t, lint.Warn, s.LintLevelAt(sample, lint.ExprNode(bins[1].ID)))

	block := s.Body(fn.Body).Expr.(*ast.BlockExpr)
	assert.Equal(t, lint.Allow, s.LintLevelAt(sample, lint.StmtNode(block.Stmts[0].StmtID())))
	assert.Equal(t, lint.Warn, s.LintLevelAt(sample, lint.BodyNode(fn.Body)))
}

func TestTrailingDirective(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{"a.go": `package test

func f(x bool) bool {
	a := x == true //lint:allow sample
	b := x == false
	//lint:warn sample
	c := a == b
	return c
}
`})
	defer s.Close()

	sample := &lint.Lint{Name: "sample", Default: lint.Deny}
	fn := item[*ast.FnItem](t, s, crate, "f")
	bins := exprs[*ast.BinaryExpr](s, s.Body(fn.Body))
	require.Len(t, bins, 3)
	assert.Equal(t, lint.Allow, s.LintLevelAt(sample, lint.ExprNode(bins[0].ID)))
	// A directive after code covers its own line only.
	assert.Equal(t, lint.Deny, s.LintLevelAt(sample, lint.ExprNode(bins[1].ID)))
	assert.Equal(t, lint.Warn, s.LintLevelAt(sample, lint.ExprNode(bins[2].ID)))
}

func TestEmit(t *testing.T) {
	t.Parallel()

	a, err := adapter.New([]*plugin.Info{testplugin.Sample()})
	require.NoError(t, err)

	s, crate := session(t, map[string]string{
		"a.go": `package test

func empty() {}

func cmp(x bool) bool {
	return x == true
}

func boom() {
	panic("boom")
}

//lint:allow empty_body
func quiet() {}
`,
		"gen.go": `// Code generated by hand. DO NOT EDIT.

package test

func generated() {}
`,
	})
	a.ProcessCrate(s, crate)
	s.Close()

	r := s.Report()
	r.Sort()
	require.Len(t, r.Diagnostics, 2)

	assert.Equal(t, report.Diagnostic{
		Lint:  "empty_body",
		Level: lint.Warn,
		Msg:   "function empty has an empty body",
		Span: report.Span{
			File:  "a.go",
			Start: report.Location{Line: 3, Column: 6},
			End:   report.Location{Line: 3, Column: 11},
			Line:  "func empty() {}",
		},
		Parts: []report.Part{{
			Kind: lint.PartHelp,
			Msg:  "add a comment explaining why the body is empty",
		}},
	}, r.Diagnostics[0])

	span := report.Span{
		File:  "a.go",
		Start: report.Location{Line: 6, Column: 9},
		End:   report.Location{Line: 6, Column: 18},
		Line:  "\treturn x == true",
	}
	assert.Equal(t, report.Diagnostic{
		Lint:  "bool_comparison",
		Level: lint.Warn,
		Msg:   "comparison with a boolean literal",
		Span:  span,
		Parts: []report.Part{{
			Kind:          lint.PartSuggestion,
			Msg:           "simplify",
			Span:          &span,
			Replacement:   "x",
			Applicability: lint.MachineApplicable,
		}},
	}, r.Diagnostics[1])

	assert.Panics(t, func() { s.Stats() })
}

func TestEmitStats(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{
		"a.go": "package test\n\nfunc f() {}\n",
		"gen.go": `// Code generated by hand. DO NOT EDIT.

package test

func g() {}
`,
	})
	defer s.Close()

	external := &lint.Lint{Name: "external", Default: lint.Warn, ReportInExternal: true}
	internal := &lint.Lint{Name: "internal", Default: lint.Warn}
	allowed := &lint.Lint{Name: "allowed", Default: lint.Allow}

	for _, name := range []string{"f", "g"} {
		fn := item[*ast.FnItem](t, s, crate, name)
		for _, l := range []*lint.Lint{external, internal, allowed} {
			s.EmitDiag(&lint.Diagnostic{
				Lint: l,
				Node: lint.ItemNode(fn.ID),
				Span: fn.Name.Span,
				Msg:  l.Name + " " + name,
			})
		}
	}

	var msgs []string
	for _, d := range s.Report().Diagnostics {
		msgs = append(msgs, d.Msg)
	}
	assert.Equal(t, []string{"external f", "internal f", "external g"}, msgs)

	stats := s.Stats()
	assert.Equal(t, 3, stats.Emitted)
	assert.Equal(t, 3, stats.Dropped)
}

func TestSpans(t *testing.T) {
	t.Parallel()

	s, crate := session(t, map[string]string{
		"a.go": `package test

func f() {}

//line orig.y:10
func g() {}

func h() { /*line other.y:3:7*/ _ = 1 }
`,
		"gen.go": `// Code generated by hand. DO NOT EDIT.

package test

func i() {}
`,
	})
	defer s.Close()

	f := item[*ast.FnItem](t, s, crate, "f")
	span := s.Span(f.Name.Span)
	src, ok := s.SpanSource(span).(*ast.FileSource)
	require.True(t, ok)
	assert.Equal(t, "a.go", src.File.Path)
	assert.Equal(t, ast.SpanPos(19), span.Start)
	assert.Equal(t, 1, span.Len())
	snippet, ok := s.SpanSnippet(span)
	assert.True(t, ok)
	assert.Equal(t, "f", snippet)
	loc, ok := s.SpanPosToFileLoc(src.File, span.Start)
	assert.True(t, ok)
	assert.Equal(t, ast.FilePos{Line: 3, Column: 6}, loc)
	_, ok = s.SpanPosToFileLoc(src.File, 1000)
	assert.False(t, ok)

	g := item[*ast.FnItem](t, s, crate, "g")
	expn, ok := s.SpanSource(s.Span(g.Span)).(*ast.ExpnSource)
	require.True(t, ok)
	info, ok := s.SpanExpnInfo(expn.Expn)
	require.True(t, ok)
	assert.Equal(t, ast.ExpnLineDirective, info.Kind)
	assert.Equal(t, "orig.y", info.Origin)
	assert.Equal(t, ast.FilePos{Line: 10, Column: 1}, info.OriginPos)
	assert.Zero(t, info.Parent)
	callSite, ok := s.SpanSnippet(s.Span(info.CallSite))
	assert.True(t, ok)
	assert.Equal(t, "//line orig.y:10", callSite)
	// Expanded text still has a snippet.
	snippet, ok = s.SpanSnippet(s.Span(g.Name.Span))
	assert.True(t, ok)
	assert.Equal(t, "g", snippet)

	// The //line region ends where the next directive's region begins.
	h := item[*ast.FnItem](t, s, crate, "h")
	hSrc, ok := s.SpanSource(s.Span(h.Name.Span)).(*ast.ExpnSource)
	require.True(t, ok)
	assert.Equal(t, expn.Expn, hSrc.Expn)
	block := s.Body(h.Body).Expr.(*ast.BlockExpr)
	require.Len(t, block.Stmts, 1)
	inline, ok := s.SpanSource(s.Span(block.Stmts[0].SpanID())).(*ast.ExpnSource)
	require.True(t, ok)
	assert.NotEqual(t, expn.Expn, inline.Expn)
	info, ok = s.SpanExpnInfo(inline.Expn)
	require.True(t, ok)
	assert.Equal(t, "other.y", info.Origin)
	assert.Equal(t, ast.FilePos{Line: 3, Column: 7}, info.OriginPos)

	i := item[*ast.FnItem](t, s, crate, "i")
	genSrc, ok := s.SpanSource(s.Span(i.Span)).(*ast.ExpnSource)
	require.True(t, ok)
	info, ok = s.SpanExpnInfo(genSrc.Expn)
	require.True(t, ok)
	assert.Equal(t, ast.ExpnGenerated, info.Kind)
	marker, ok := s.SpanSnippet(s.Span(info.CallSite))
	assert.True(t, ok)
	assert.Equal(t, "// Code generated by hand. DO NOT EDIT.", marker)
}
