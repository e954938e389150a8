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

package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/report"
)

func emptyBody() report.Diagnostic {
	return report.Diagnostic{
		Lint:  "empty_body",
		Level: lint.Warn,
		Msg:   "function f has an empty body",
		Span: report.Span{
			File:  "a.go",
			Start: report.Location{Line: 3, Column: 6},
			End:   report.Location{Line: 3, Column: 7},
			Line:  "func f() {}",
		},
		Parts: []report.Part{{Kind: lint.PartHelp, Msg: "add a comment"}},
	}
}

func boolComparison() report.Diagnostic {
	span := report.Span{
		File:  "a.go",
		Start: report.Location{Line: 10, Column: 5},
		End:   report.Location{Line: 10, Column: 14},
		Line:  "\tif x == true {",
	}
	return report.Diagnostic{
		Lint:  "bool_comparison",
		Level: lint.Deny,
		Msg:   "comparison with a boolean literal",
		Span:  span,
		Parts: []report.Part{{
			Kind:          lint.PartSuggestion,
			Msg:           "simplify",
			Span:          &span,
			Replacement:   "x",
			Applicability: lint.MachineApplicable,
		}},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	r := &report.Report{}
	r.Add(emptyBody())
	r.Add(boolComparison())

	text, errs, warns := report.Renderer{}.RenderString(r)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
	assertText(t, `warning[empty_body]: function f has an empty body
  --> a.go:3:6
   |
 3 | func f() {}
   |      ^
   = help: add a comment

error[bool_comparison]: comparison with a boolean literal
  --> a.go:10:5
   |
10 |     if x == true {
   |        ^^^^^^^^^
   = help: simplify: `+"`x`"+`

encountered 1 error and 1 warning
`, text)
}

func TestRenderCompact(t *testing.T) {
	t.Parallel()

	r := &report.Report{}
	r.Add(emptyBody())
	r.Add(report.Diagnostic{Lint: "panic_call", Level: lint.Warn, Msg: "call to panic"})

	text, _, warns := report.Renderer{Compact: true}.RenderString(r)
	assert.Equal(t, 2, warns)
	assertText(t, `a.go:3:6: warning[empty_body]: function f has an empty body
warning[panic_call]: call to panic
`, text)
}

func TestRenderColor(t *testing.T) {
	t.Parallel()

	plain := report.Renderer{}.Diagnostic(emptyBody())
	colored := report.Renderer{Colorize: true}.Diagnostic(emptyBody())
	assert.NotContains(t, plain, "\033[")
	assert.Contains(t, colored, "\033[")
	assert.Contains(t, colored, "empty_body")
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	r := &report.Report{}
	r.Add(boolComparison())

	var buf strings.Builder
	require.NoError(t, report.RenderJSON(r, &buf))

	var got struct {
		Diagnostics []struct {
			Lint  string
			Level string
			Span  struct{ File string }
			Parts []struct {
				Kind, Applicability, Replacement string
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &got))
	require.Len(t, got.Diagnostics, 1)
	d := got.Diagnostics[0]
	assert.Equal(t, "bool_comparison", d.Lint)
	assert.Equal(t, "deny", d.Level)
	assert.Equal(t, "a.go", d.Span.File)
	require.Len(t, d.Parts, 1)
	assert.Equal(t, "suggestion", d.Parts[0].Kind)
	assert.Equal(t, "machine-applicable", d.Parts[0].Applicability)
	assert.Equal(t, "x", d.Parts[0].Replacement)

	buf.Reset()
	require.NoError(t, report.RenderJSON(&report.Report{}, &buf))
	assert.JSONEq(t, `{"diagnostics": []}`, buf.String())
}

func TestReport(t *testing.T) {
	t.Parallel()

	r := &report.Report{}
	r.Add(boolComparison())
	r.Add(emptyBody())
	assert.True(t, r.Failed())
	assert.Equal(t, 1, r.Count(lint.Warn))
	assert.Equal(t, 1, r.Count(lint.Deny))
	assert.Zero(t, r.Count(lint.Forbid))

	r.Sort()
	assert.Equal(t, "empty_body", r.Diagnostics[0].Lint)

	other := &report.Report{}
	other.Add(emptyBody())
	assert.False(t, other.Failed())
	r.Merge(other)
	assert.Len(t, r.Diagnostics, 3)
}

// assertText compares rendered text, printing a diff on mismatch.
func assertText(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	require.NoError(t, err)
	t.Errorf("rendered text mismatch:\n%s", diff)
}
