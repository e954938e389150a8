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

package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/lint"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	for _, l := range []lint.Level{lint.Allow, lint.Warn, lint.Deny, lint.Forbid} {
		got, err := lint.ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	got, err := lint.ParseLevel("DENY")
	require.NoError(t, err)
	assert.Equal(t, lint.Deny, got)

	_, err = lint.ParseLevel("error")
	require.Error(t, err)

	assert.Less(t, lint.Allow, lint.Warn)
	assert.Less(t, lint.Deny, lint.Forbid)
	assert.Equal(t, "Level(0)", lint.Level(0).String())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level lint.Level
		ok    bool
	}{
		{name: "unused_result", level: lint.Warn, ok: true},
		{name: "x2", level: lint.Deny, ok: true},
		{name: "", level: lint.Warn},
		{name: "Unused", level: lint.Warn},
		{name: "unused-result", level: lint.Warn},
		{name: "_private", level: lint.Warn},
		{name: "9lives", level: lint.Warn},
		{name: "fine", level: 0},
	}
	for _, tt := range tests {
		err := (&lint.Lint{Name: tt.name, Default: tt.level}).Validate()
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.Error(t, err, tt.name)
		}
	}
}

func TestEmissionNode(t *testing.T) {
	t.Parallel()

	stmt := ast.StmtIDFromLet(ast.LetStmtID(3))
	n := lint.StmtNode(stmt)
	assert.Equal(t, lint.NodeStmt, n.Kind())
	got, ok := n.Stmt()
	require.True(t, ok)
	assert.Equal(t, stmt, got)
	_, ok = n.Expr()
	assert.False(t, ok)

	assert.Equal(t, n, lint.EmissionNodeFromRaw(n.Raw()))

	item, ok := lint.ItemNode(ast.ItemID(9)).Item()
	assert.True(t, ok)
	assert.Equal(t, ast.ItemID(9), item)
}

func TestDiagnosticOptions(t *testing.T) {
	t.Parallel()

	l := &lint.Lint{Name: "test", Default: lint.Warn}
	d := (&lint.Diagnostic{Lint: l, Span: ast.SpanID(1), Msg: "bad"}).With(
		lint.Note("seen %d times", 2),
		nil,
		lint.HelpAt(ast.SpanID(2), "try this"),
		lint.Suggest(ast.SpanID(3), "replace", "good", lint.MachineApplicable),
	)

	assert.Equal(t, []lint.Part{
		{Kind: lint.PartNote, Msg: "seen 2 times"},
		{Kind: lint.PartHelp, Msg: "try this", Span: ast.SpanID(2)},
		{
			Kind:          lint.PartSuggestion,
			Msg:           "replace",
			Span:          ast.SpanID(3),
			Replacement:   "good",
			Applicability: lint.MachineApplicable,
		},
	}, d.Parts)
}
