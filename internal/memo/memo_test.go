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

package memo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/internal/memo"
)

type node struct {
	name  string
	edges []*node
}

func TestResolveIdentity(t *testing.T) {
	t.Parallel()

	var table memo.Table[int, *node]
	calls := 0
	build := func() *node {
		return memo.Resolve(&table, 1,
			func() *node { calls++; return &node{} },
			func(n *node) { n.name = "one" },
		)
	}

	a, b := build(), build()
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "one", a.name)
	assert.Equal(t, 1, table.Len())
}

func TestResolveCycle(t *testing.T) {
	t.Parallel()

	// 0 -> 1 -> 2 -> 0, and 2 -> 2.
	graph := map[int][]int{0: {1}, 1: {2}, 2: {0, 2}}

	var table memo.Table[int, *node]
	shells := 0
	var resolve func(int) *node
	resolve = func(id int) *node {
		return memo.Resolve(&table, id,
			func() *node { shells++; return &node{} },
			func(n *node) {
				_, ok := table.Get(id)
				assert.True(t, ok)
				for _, next := range graph[id] {
					n.edges = append(n.edges, resolve(next))
				}
			},
		)
	}

	root := resolve(0)
	require.Len(t, root.edges, 1)
	one := root.edges[0]
	require.Len(t, one.edges, 1)
	two := one.edges[0]
	require.Len(t, two.edges, 2)

	assert.Same(t, root, two.edges[0])
	assert.Same(t, two, two.edges[1])
	assert.Equal(t, 3, shells)
	assert.Equal(t, 3, table.Len())
}

func TestInsertDuplicate(t *testing.T) {
	t.Parallel()

	var table memo.Table[string, int]
	table.Insert("a", 1)
	assert.Panics(t, func() { table.Insert("a", 2) })

	table.Reset()
	_, ok := table.Get("a")
	assert.False(t, ok)
}
