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

// Package interval provides an interval map keyed by integer endpoints.
package interval

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Needs integers, not just ordered types.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Map is a map from disjoint closed intervals to values.
//
// A zero value is ready to use.
type Map[K Endpoint, V any] struct {
	// Keys in this map are the ends of intervals in the map.
	tree btree.Map[K, *Entry[K, V]]
}

// Entry is an interval stored in a [Map], along with its value.
type Entry[K Endpoint, V any] struct {
	Start, End K // Inclusive.
	Value      V
}

// Contains returns whether an entry contains a given point.
func (e Entry[K, V]) Contains(point K) bool {
	return e.Start <= point && point <= e.End
}

// Get looks up the interval which contains point.
//
// Returns false if there is no such interval.
func (m *Map[K, V]) Get(point K) (Entry[K, V], bool) {
	iter := m.tree.Iter()
	if !iter.Seek(point) || point < iter.Value().Start {
		// Seek found the least interval with point <= end, but it may still
		// start after point.
		return Entry[K, V]{}, false
	}
	return *iter.Value(), true
}

// Insert inserts a new interval into this map. Both endpoints are inclusive.
//
// If [start, end] overlaps an interval already in the map, nothing is
// inserted and the least overlapping interval is returned along with false.
func (m *Map[K, V]) Insert(start, end K, value V) (Entry[K, V], bool) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	// The least interval [c, d] with start <= d overlaps [start, end] exactly
	// when c <= end.
	iter := m.tree.Iter()
	if iter.Seek(start) && iter.Value().Start <= end {
		return *iter.Value(), false
	}

	entry := &Entry[K, V]{Start: start, End: end, Value: value}
	m.tree.Set(end, entry)
	return *entry, true
}

// Len returns the number of intervals in the map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Entries returns an iterator over the intervals in this map, in order.
func (m *Map[K, V]) Entries() iter.Seq[Entry[K, V]] {
	return func(yield func(Entry[K, V]) bool) {
		iter := m.tree.Iter()
		for more := iter.First(); more; more = iter.Next() {
			if !yield(*iter.Value()) {
				return
			}
		}
	}
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	m.tree.Scan(func(end K, entry *Entry[K, V]) bool {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false

		if entry.Start == end {
			fmt.Fprintf(s, "%#v: ", entry.Start)
		} else {
			fmt.Fprintf(s, "[%#v, %#v]: ", entry.Start, end)
		}
		fmt.Fprintf(s, fmt.FormatString(s, v), entry.Value)

		return true
	})
	fmt.Fprint(s, "}")
}
