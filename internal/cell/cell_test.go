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

package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lintbridge/internal/cell"
)

func TestBorrow(t *testing.T) {
	t.Parallel()

	c := cell.New("counter", 0)
	v, release := c.Borrow()
	*v = 42
	assert.PanicsWithValue(t, "cell: reentrant borrow of counter", func() { c.Borrow() })
	release()
	assert.Panics(t, release)

	got := cell.With(c, func(v *int) int { return *v })
	assert.Equal(t, 42, got)
	assert.NotPanics(t, func() { cell.With(c, func(v *int) int { return *v }) })
}

func TestBorrowReleasedOnPanic(t *testing.T) {
	t.Parallel()

	c := cell.New("state", "x")
	assert.Panics(t, func() {
		cell.With(c, func(*string) int { panic("boom") })
	})
	got := cell.With(c, func(v *string) string { return *v })
	assert.Equal(t, "x", got)
}

func TestConcurrentBorrow(t *testing.T) {
	t.Parallel()

	c := cell.New("state", 0)
	_, release := c.Borrow()
	defer release()

	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		c.Borrow()
	}()
	r := <-done
	require.NotNil(t, r)
	assert.Contains(t, r, "cell: concurrent borrow of state")
}

func TestOwner(t *testing.T) {
	t.Parallel()

	o := cell.NewOwner("session")
	assert.NotPanics(t, o.Check)

	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		o.Check()
	}()
	r := <-done
	require.NotNil(t, r)
	assert.Contains(t, r, "session: used from goroutine")
}
