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

package adapter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/internal/testplugin"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/plugin"
	"github.com/bufbuild/lintbridge/visitor"
)

type module map[string]any

func (m module) Lookup(name string) (any, error) {
	sym, ok := m[name]
	if !ok {
		return nil, errors.New("symbol " + name + " not found")
	}
	return sym, nil
}

func opener(modules map[string]module) adapter.Opener {
	return func(path string) (adapter.Module, error) {
		m, ok := modules[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return m, nil
	}
}

func entry(info *plugin.Info) module {
	return module{plugin.EntrySymbol: func() *plugin.Info { return info }}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	counter, _ := testplugin.Counter("counter", visitor.ScopeItems)
	sample := testplugin.Sample()

	a, err := adapter.Load(
		[]adapter.Spec{{Name: "counter", Path: "counter.so"}, {Name: "sample", Path: "sample.so"}},
		adapter.WithOpener(opener(map[string]module{
			"counter.so": entry(counter),
			"sample.so":  entry(sample),
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, []*lint.Lint{testplugin.EmptyBody, testplugin.BoolComparison, testplugin.PanicCall}, a.Lints())
	assert.Same(t, testplugin.PanicCall, a.Lint("panic_call"))
	assert.Nil(t, a.Lint("nope"))
	assert.Equal(t, visitor.ScopeBodies, a.Scope())
	assert.Equal(t, []*plugin.Info{counter, sample}, a.Plugins())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	good := testplugin.Sample()
	oldVersion := testplugin.Sample()
	oldVersion.APIVersion = plugin.APIVersion + 1
	badLayout := testplugin.Sample()
	badLayout.Layout ^= 1
	badLint := plugin.NewInfo("bad", []*lint.Lint{{Name: "Bad-Name", Default: lint.Warn}}, visitor.ScopeItems, plugin.Callbacks{})
	dup := plugin.NewInfo("dup", []*lint.Lint{{Name: "empty_body", Default: lint.Deny}}, visitor.ScopeItems, plugin.Callbacks{})

	modules := map[string]module{
		"good.so":      entry(good),
		"missing.so":   {},
		"wrongtype.so": {plugin.EntrySymbol: func() string { return "" }},
		"nil.so":       entry(nil),
		"version.so":   entry(oldVersion),
		"layout.so":    entry(badLayout),
		"badlint.so":   entry(badLint),
		"dup.so":       entry(dup),
	}

	tests := []struct {
		path string
		want error
	}{
		{path: "nonexistent.so", want: adapter.ErrOpen},
		{path: "missing.so", want: adapter.ErrMissingEntry},
		{path: "wrongtype.so", want: adapter.ErrBadEntry},
		{path: "nil.so", want: adapter.ErrBadEntry},
		{path: "version.so", want: adapter.ErrVersion},
		{path: "layout.so", want: adapter.ErrLayout},
		{path: "badlint.so", want: adapter.ErrBadLint},
		{path: "dup.so", want: adapter.ErrDuplicateLint},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			spec := adapter.Spec{Name: "test", Path: tt.path}
			a, err := adapter.Load(
				[]adapter.Spec{{Name: "good", Path: "good.so"}, spec},
				adapter.WithOpener(opener(modules)),
			)
			assert.Nil(t, a)
			require.ErrorIs(t, err, tt.want)

			var loadErr *adapter.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, spec, loadErr.Plugin)
			assert.Contains(t, err.Error(), "loading plugin test ("+tt.path+")")
		})
	}
}

func TestProcessCrate(t *testing.T) {
	t.Parallel()

	items, itemCounts := testplugin.Counter("items", visitor.ScopeItems)
	bodies, bodyCounts := testplugin.Counter("bodies", visitor.ScopeBodies)
	a, err := adapter.New([]*plugin.Info{items, bodies})
	require.NoError(t, err)

	cx := newFixture()
	a.ProcessCrate(cx, cx.crate)

	// The item-scoped plugin sees items, but no body-level events, even
	// though traversal enters bodies for the other plugin.
	assert.Equal(t, testplugin.Counts{Crates: 1, Items: 2, Fields: 1}, *itemCounts)
	assert.Equal(t, testplugin.Counts{Crates: 1, Items: 2, Fields: 1, Bodies: 1, Exprs: 1}, *bodyCounts)
}

func TestProcessCrateOrder(t *testing.T) {
	t.Parallel()

	var log []string
	a, err := adapter.New([]*plugin.Info{
		testplugin.Recorder("first", &log),
		testplugin.Recorder("second", &log),
	})
	require.NoError(t, err)

	cx := newFixture()
	a.ProcessCrate(cx, cx.crate)
	assert.Equal(t, []string{
		"first: crate", "second: crate",
		"first: item S", "second: item S",
		"first: item f", "second: item f",
	}, log)
}

func TestProcessCrateNoPlugins(t *testing.T) {
	t.Parallel()

	a, err := adapter.Load(nil)
	require.NoError(t, err)
	assert.Empty(t, a.Lints())
	assert.Equal(t, visitor.ScopeItems, a.Scope())

	cx := newFixture()
	assert.NotPanics(t, func() { a.ProcessCrate(cx, cx.crate) })
	assert.Empty(t, cx.diags)
}

func TestProcessCrateReentrant(t *testing.T) {
	t.Parallel()

	var a *adapter.Adapter
	cx := newFixture()
	reenter := plugin.NewInfo("reenter", nil, visitor.ScopeItems, plugin.Callbacks{
		CheckCrate: func(*bridge.Context, *ast.Crate) { a.ProcessCrate(cx, cx.crate) },
	})
	a, err := adapter.New([]*plugin.Info{reenter})
	require.NoError(t, err)

	assert.PanicsWithValue(t, "cell: reentrant borrow of plugin registry", func() {
		a.ProcessCrate(cx, cx.crate)
	})
	// The borrow was released by the panic, so the adapter is usable again
	// by a well-behaved caller.
	assert.Len(t, a.Plugins(), 1)
}

func TestEmitThroughBridge(t *testing.T) {
	t.Parallel()

	a, err := adapter.New([]*plugin.Info{testplugin.Sample()})
	require.NoError(t, err)

	cx := newFixture()
	a.ProcessCrate(cx, cx.crate)
	require.Len(t, cx.diags, 1)
	assert.Same(t, testplugin.EmptyBody, cx.diags[0].Lint)
	assert.Equal(t, "function f has an empty body", cx.diags[0].Msg)
}
