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

package interval_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/lintbridge/internal/interval"
)

func TestInsert(t *testing.T) {
	t.Parallel()

	type in struct {
		start, end int
		value      string
	}

	tests := []struct {
		name    string
		ranges  []in
		want    []interval.Entry[int, string]
		rejects []string // values rejected due to overlap
	}{
		{
			name:   "single",
			ranges: []in{{0, 9, "foo"}},
			want:   []interval.Entry[int, string]{{0, 9, "foo"}},
		},
		{
			name:   "disjoint",
			ranges: []in{{30, 39, "bar"}, {0, 9, "foo"}, {20, 25, "baz"}},
			want: []interval.Entry[int, string]{
				{0, 9, "foo"},
				{20, 25, "baz"},
				{30, 39, "bar"},
			},
		},
		{
			name:    "overlap-left",
			ranges:  []in{{10, 19, "foo"}, {5, 10, "bar"}},
			want:    []interval.Entry[int, string]{{10, 19, "foo"}},
			rejects: []string{"bar"},
		},
		{
			name:    "overlap-inside",
			ranges:  []in{{10, 19, "foo"}, {12, 14, "bar"}},
			want:    []interval.Entry[int, string]{{10, 19, "foo"}},
			rejects: []string{"bar"},
		},
		{
			name:    "overlap-containing",
			ranges:  []in{{10, 19, "foo"}, {0, 30, "bar"}},
			want:    []interval.Entry[int, string]{{10, 19, "foo"}},
			rejects: []string{"bar"},
		},
		{
			name:   "adjacent",
			ranges: []in{{10, 19, "foo"}, {20, 29, "bar"}},
			want: []interval.Entry[int, string]{
				{10, 19, "foo"},
				{20, 29, "bar"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var m interval.Map[int, string]
			var rejects []string
			for _, r := range tt.ranges {
				if _, ok := m.Insert(r.start, r.end, r.value); !ok {
					rejects = append(rejects, r.value)
				}
			}
			assert.Equal(t, tt.want, slices.Collect(m.Entries()))
			assert.Equal(t, tt.rejects, rejects)
			assert.Equal(t, len(tt.want), m.Len())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	var m interval.Map[uint32, string]
	m.Insert(10, 19, "a")
	m.Insert(30, 30, "b")

	tests := []struct {
		point uint32
		want  string
		found bool
	}{
		{point: 0},
		{point: 10, want: "a", found: true},
		{point: 15, want: "a", found: true},
		{point: 19, want: "a", found: true},
		{point: 20},
		{point: 30, want: "b", found: true},
		{point: 31},
	}
	for _, tt := range tests {
		got, ok := m.Get(tt.point)
		assert.Equal(t, tt.found, ok, "point %d", tt.point)
		assert.Equal(t, tt.want, got.Value, "point %d", tt.point)
	}

	assert.Equal(t, `{[0xa, 0x13]: "a", 0x1e: "b"}`, fmt.Sprintf("%q", &m))
}
