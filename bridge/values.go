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

package bridge

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/ext/unsafex"
	"github.com/bufbuild/lintbridge/lint"
)

// Option is an optional value with a fixed layout: a presence flag followed
// by the value.
type Option[T any] struct {
	Some  bool
	Value T
}

// Some returns a present [Option].
func Some[T any](v T) Option[T] {
	return Option[T]{Some: true, Value: v}
}

// None returns an absent [Option].
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Some
}

// Str is a string view: a data pointer followed by a length.
//
// A Str does not own its bytes; it is valid for as long as the string it was
// made from.
type Str struct {
	Data *byte
	Len  uintptr
}

// StrOf returns a view of s.
func StrOf(s string) Str {
	return Str{Data: unsafex.StringData(s), Len: uintptr(len(s))}
}

// String returns the viewed string without copying.
func (s Str) String() string {
	return unsafex.StringView(s.Data, int(s.Len))
}

// Slice is a slice view: a data pointer followed by a length.
type Slice[T any] struct {
	Data *T
	Len  uintptr
}

// SliceOf returns a view of s.
func SliceOf[T any](s []T) Slice[T] {
	return Slice[T]{Data: unsafex.SliceData(s), Len: uintptr(len(s))}
}

// Slice returns the viewed slice without copying.
func (s Slice[T]) Slice() []T {
	return unsafex.SliceView(s.Data, int(s.Len))
}

// RefKind identifies the concrete type behind a [Ref]. Zero means "no
// value".
type RefKind uint8

// Ref is a tagged pointer to one of a closed set of node types.
//
// Interface values do not have a layout that can be agreed on across
// independently built binaries, so interface-typed nodes cross the bridge as
// a kind and a pointer, and are reassembled on the other side.
type Ref struct {
	Kind RefKind
	Ptr  unsafe.Pointer
}

// refTable converts between a closed interface type T and [Ref]s.
//
// The kind of each concrete type is its index in the list of constructors
// passed to newRefTable, plus one; the order is part of the layout.
type refTable[T any] struct {
	kinds map[reflect.Type]RefKind
	from  []func(unsafe.Pointer) T
}

func newRefTable[T any](ctors ...func(unsafe.Pointer) T) *refTable[T] {
	t := &refTable[T]{
		kinds: make(map[reflect.Type]RefKind, len(ctors)),
		from:  append([]func(unsafe.Pointer) T{nil}, ctors...),
	}
	for i, ctor := range ctors {
		t.kinds[reflect.TypeOf(ctor(nil))] = RefKind(i + 1)
	}
	return t
}

func (t *refTable[T]) ref(v T) Ref {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsNil() {
		return Ref{}
	}
	kind, ok := t.kinds[rv.Type()]
	if !ok {
		panic(fmt.Sprintf("bridge: %v cannot cross the bridge", rv.Type()))
	}
	return Ref{Kind: kind, Ptr: rv.UnsafePointer()}
}

func (t *refTable[T]) get(r Ref) T {
	if r.Kind == 0 || r.Ptr == nil {
		var z T
		return z
	}
	if int(r.Kind) >= len(t.from) {
		panic(fmt.Sprintf("bridge: invalid ref kind %d", r.Kind))
	}
	return t.from[r.Kind](r.Ptr)
}

var items = newRefTable(
	func(p unsafe.Pointer) ast.Item { return (*ast.ModItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.FnItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.StructItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.EnumItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.InterfaceItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.TypeAliasItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.ConstItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.VarItem)(p) },
	func(p unsafe.Pointer) ast.Item { return (*ast.ImportItem)(p) },
)

var semTys = newRefTable(
	func(p unsafe.Pointer) ast.SemTy { return (*ast.BoolTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.NumTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.TextTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.PtrSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.SliceSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.ArraySemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.MapSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.ChanSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.FnSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.AdtTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.GenericTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.TupleTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.InterfaceSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.StructSemTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.NilTy)(p) },
	func(p unsafe.Pointer) ast.SemTy { return (*ast.UnstableSemTy)(p) },
)

var spanSources = newRefTable(
	func(p unsafe.Pointer) ast.SpanSource { return (*ast.FileSource)(p) },
	func(p unsafe.Pointer) ast.SpanSource { return (*ast.ExpnSource)(p) },
	func(p unsafe.Pointer) ast.SpanSource { return (*ast.BuiltinSource)(p) },
)

// NodeView is the fixed-layout form of a [lint.EmissionNode].
type NodeView struct {
	Kind uint8
	Stmt uint8
	Data uint64
}

// PartView is the fixed-layout form of a [lint.Part].
type PartView struct {
	Kind          uint8
	Applicability uint8
	Span          ast.SpanID
	Msg           Str
	Replacement   Str
}

// DiagView is the fixed-layout form of a [lint.Diagnostic].
type DiagView struct {
	Lint  *lint.Lint
	Node  NodeView
	Span  ast.SpanID
	Msg   Str
	Parts Slice[PartView]
}
