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

// Package memo provides the cache tables behind lazy, memoized conversion.
//
// A [Table] maps an ID to the node converted for it. Conversion goes through
// [Resolve], which inserts a node's shell into the table before converting
// the node's children. A child that refers back to the node (directly or
// through a cycle) finds the shell in the table instead of recursing, so
// conversion of cyclic structures terminates and never produces two nodes for
// the same ID.
package memo

import (
	"fmt"
)

// Table is a cache from IDs of one kind to converted nodes.
//
// The zero value is empty and ready to use. Tables are owned by a single
// session and are not safe for concurrent use.
type Table[K comparable, V any] struct {
	entries map[K]V
}

// Get looks up a converted node.
//
// A node whose shell is inserted but whose children are still being converted
// is returned too.
func (t *Table[K, V]) Get(key K) (V, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Insert records the node for key.
//
// Panics if key already has a node: the table is the sole source of truth for
// node identity, so a second node for the same ID is a bug in the converter.
func (t *Table[K, V]) Insert(key K, value V) {
	if _, ok := t.entries[key]; ok {
		panic(fmt.Sprintf("memo: duplicate node for %v", key))
	}
	if t.entries == nil {
		t.entries = make(map[K]V)
	}
	t.entries[key] = value
}

// Len returns the number of nodes in the table.
func (t *Table[K, V]) Len() int {
	return len(t.entries)
}

// Reset drops every node in the table.
func (t *Table[K, V]) Reset() {
	t.entries = nil
}

// Resolve returns the node for key, converting it if necessary.
//
// On a cache hit the cached node is returned unchanged. On a miss, shell
// allocates the node without any children; it is inserted into the table,
// and only then is fill called to convert the children into it. If fill
// (transitively) resolves key again, it receives the same shell.
func Resolve[K comparable, V any](t *Table[K, V], key K, shell func() V, fill func(V)) V {
	if v, ok := t.Get(key); ok {
		return v
	}

	v := shell()
	t.Insert(key, v)
	fill(v)
	return v
}
