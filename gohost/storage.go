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

package gohost

import (
	"reflect"

	"github.com/bufbuild/lintbridge/internal/arena"
)

// storage is the session arena: one [arena.Arena] per node type.
//
// Nodes never move once allocated, so the pointers conversion hands out stay
// valid until the session is closed, at which point every arena is dropped at
// once.
type storage struct {
	arenas map[reflect.Type]any
}

// alloc allocates v in the arena for its type.
func alloc[T any](s *storage, v T) *T {
	ty := reflect.TypeFor[T]()
	a, ok := s.arenas[ty].(*arena.Arena[T])
	if !ok {
		if s.arenas == nil {
			s.arenas = make(map[reflect.Type]any)
		}
		a = new(arena.Arena[T])
		s.arenas[ty] = a
	}
	return a.New(v)
}

// len returns the number of values allocated so far.
func (s *storage) len() int {
	var n int
	for _, a := range s.arenas {
		n += a.(interface{ Len() int }).Len()
	}
	return n
}

// reset drops every arena.
func (s *storage) reset() {
	for _, a := range s.arenas {
		a.(interface{ Reset() }).Reset()
	}
	s.arenas = nil
}
