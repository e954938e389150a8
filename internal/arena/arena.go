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

// Package arena defines an Arena type with compressed pointers.
//
// Values allocated in an [Arena] never move, so a *T obtained from one stays
// valid for as long as the arena is alive. This is what lets the stable AST
// hand out borrowed references to nodes: the session owns one arena per node
// type and drops all of them at once when the session ends.
package arena

import (
	"fmt"
	"math/bits"
)

// pointersMinLenShift is the log2 of the size of the smallest slice in
// an Arena[T].
const (
	pointersMinLenShift = 4
	pointersMinLen      = 1 << pointersMinLenShift
)

// Untyped is an untyped arena pointer.
//
// The pointer value of a particular pointer in an arena is equal to one
// plus the number of elements allocated before it.
type Untyped uint32

// Nil returns whether this pointer is nil.
func (p Untyped) Nil() bool {
	return p == 0
}

// Pointer is a compressed arena pointer.
//
// Cannot be dereferenced directly; see [Arena.Deref].
//
// The zero value is nil.
type Pointer[T any] Untyped

// Nil returns whether this pointer is nil.
func (p Pointer[T]) Nil() bool {
	return Untyped(p).Nil()
}

// Arena is an arena that offers compressed pointers. Internally, it is a slice
// of T that guarantees the Ts will never be moved.
//
// It does this by maintaining a table of logarithmically-growing slices that
// mimic the resizing behavior of an ordinary slice. Lookup time remains O(1),
// at the cost of two pointer loads instead of one.
//
// A zero Arena[T] is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(table[0]) == 1<<pointersMinLenShift.
	// 2. cap(table[n]) == 2*cap(table[n-1]).
	// 3. cap(table[n]) == len(table[n]) for n < len(table)-1.
	table [][]T
}

// New allocates a new value on the arena and returns a stable pointer to it.
func (a *Arena[T]) New(value T) *T {
	return a.Deref(a.NewCompressed(value))
}

// NewCompressed allocates a new value on the arena and returns its compressed
// pointer.
func (a *Arena[T]) NewCompressed(value T) Pointer[T] {
	if a.table == nil {
		a.table = [][]T{make([]T, 0, pointersMinLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		// If the last slice is full, grow by doubling the size
		// of the next slice.
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	return Pointer[T](a.Len())
}

// Deref dereferences a compressed pointer.
//
// p must have been allocated by this arena. Panics if p is nil or out of
// range.
func (a *Arena[T]) Deref(p Pointer[T]) *T {
	if p.Nil() {
		panic("arena: dereferenced nil pointer")
	}
	slice, idx := a.coordinates(int(p) - 1)
	return &a.table[slice][idx]
}

// Len returns the number of values allocated so far.
func (a *Arena[T]) Len() int {
	if len(a.table) == 0 {
		return 0
	}

	// Only the last slice will be not-fully-filled.
	return a.lenOfFirstNSlices(len(a.table)-1) + len(a.table[len(a.table)-1])
}

// Reset releases every value in the arena at once. Pointers handed out before
// the reset must not be used afterwards.
func (a *Arena[T]) Reset() {
	clear(a.table)
	a.table = nil
}

// lenOfNthSlice returns the length of the nth slice, even if it isn't
// allocated yet.
func (*Arena[T]) lenOfNthSlice(n int) int {
	return pointersMinLen << n
}

// lenOfFirstNSlices returns the length of the first n slices.
func (a *Arena[T]) lenOfFirstNSlices(n int) int {
	// 2^m + 2^(m+1) + ... + 2^n = 2^(n+1) - 2^m
	return max(0, a.lenOfNthSlice(n)-a.lenOfNthSlice(0))
}

// coordinates calculates the coordinates of the given index in table. It
// also performs a bounds check.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.Len() || idx < 0 {
		panic(fmt.Sprintf("arena: pointer out of range: %#x", idx))
	}

	// Given pointersMinLenShift == n, the cumulative starting index of each
	// slice is 0b0 << n, 0b1 << n, 0b11 << n, 0b111 << n. Adding 1 << n maps
	// this to 0b1 << n, 0b10 << n, 0b100 << n, ..., whose one-indexed high bit
	// is 1+n, 2+n, 3+n; subtracting n+1 gives the slice index.
	slice := bits.UintSize - bits.LeadingZeros(uint(idx)+pointersMinLen)
	slice -= pointersMinLenShift + 1

	idx -= a.lenOfFirstNSlices(slice)
	return slice, idx
}
