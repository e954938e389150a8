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

// Package intern provides an interning table for the symbols of one analysis
// session.
package intern

import (
	"fmt"
	"strings"
)

// ID is an interned string in a particular [Table].
//
// IDs can be compared very cheaply. The zero value of ID always
// corresponds to the empty string.
type ID uint32

// String implements [fmt.Stringer].
//
// Note that this will not convert the ID back into a string; to do that, you
// must call [Table.Value].
func (id ID) String() string {
	if id == 0 {
		return `intern.ID("")`
	}
	return fmt.Sprintf("intern.ID(%d)", uint32(id))
}

// Table is an interning table.
//
// A table can be used to convert strings into [ID]s and back again. Tables
// are owned by a single session and are not safe for concurrent use.
//
// The zero value of Table is empty and ready to use.
type Table struct {
	index map[string]ID
	table []string
}

// Intern interns the given string into this table.
func (t *Table) Intern(s string) ID {
	if s == "" {
		return 0
	}
	if id, ok := t.index[s]; ok {
		return id
	}

	// Tables live as long as their session. Avoid holding onto a larger
	// buffer that s is an internal pointer to by cloning it.
	s = strings.Clone(s)
	t.table = append(t.table, s)

	// The first ID will have value 1. ID 0 is reserved for "".
	id := ID(len(t.table))
	if id == 0 {
		panic(fmt.Sprintf("intern: %d interning IDs exhausted", len(t.table)))
	}

	if t.index == nil {
		t.index = make(map[string]ID)
	}
	t.index[s] = id
	return id
}

// Value converts an [ID] back into its corresponding string.
//
// Panics if id was not created by this table.
func (t *Table) Value(id ID) string {
	if id == 0 {
		return ""
	}
	if int(id) > len(t.table) {
		panic(fmt.Sprintf("intern: %v is not from this table", id))
	}
	return t.table[id-1]
}

// Len returns the number of distinct non-empty strings interned so far.
func (t *Table) Len() int {
	return len(t.table)
}
