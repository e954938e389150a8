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

// Package cell provides an exclusively borrowed value.
//
// Mutable session state lives in a [Cell]. Only one borrow of a cell may be
// outstanding at a time; taking a second one is a contract violation that
// panics instead of letting two callers corrupt the same state.
package cell

import (
	"fmt"

	"github.com/petermattis/goid"
)

// Cell holds a value of type T that may be borrowed by one caller at a time.
//
// A Cell must not be copied after first use.
type Cell[T any] struct {
	name  string
	value T

	borrowed bool
	owner    int64 // Goroutine holding the borrow.
}

// New returns a new cell wrapping value. name is used in panic messages.
func New[T any](name string, value T) *Cell[T] {
	return &Cell[T]{name: name, value: value}
}

// Borrow takes the exclusive borrow of c, returning a pointer to the value and
// a function that ends the borrow.
//
// The pointer must not be retained after release is called. Borrow panics if
// c is already borrowed; the panic message distinguishes reentrant borrows
// (on the goroutine that holds the borrow) from concurrent ones.
func (c *Cell[T]) Borrow() (value *T, release func()) {
	gid := goid.Get()
	if c.borrowed {
		if c.owner == gid {
			panic(fmt.Sprintf("cell: reentrant borrow of %s", c.name))
		}
		panic(fmt.Sprintf("cell: concurrent borrow of %s from goroutine %d, held by goroutine %d", c.name, gid, c.owner))
	}

	c.borrowed = true
	c.owner = gid

	released := false
	return &c.value, func() {
		if released {
			panic(fmt.Sprintf("cell: double release of %s", c.name))
		}
		released = true
		c.borrowed = false
		c.owner = 0
	}
}

// With runs f with the exclusive borrow of c held.
//
// The borrow is released even if f panics.
func With[T, R any](c *Cell[T], f func(*T) R) R {
	v, release := c.Borrow()
	defer release()
	return f(v)
}

// Owner records the goroutine that created a single-threaded object.
//
// Objects that must only be used from the goroutine that created them embed
// an Owner and call [Owner.Check] on entry to each method.
type Owner struct {
	name string
	gid  int64
}

// NewOwner returns an Owner for the calling goroutine.
func NewOwner(name string) Owner {
	return Owner{name: name, gid: goid.Get()}
}

// Check panics if called from a goroutine other than the owner's.
func (o Owner) Check() {
	if gid := goid.Get(); gid != o.gid {
		panic(fmt.Sprintf("%s: used from goroutine %d, owned by goroutine %d", o.name, gid, o.gid))
	}
}
