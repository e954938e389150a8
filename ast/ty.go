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

package ast

import "fmt"

// SynTy is a type as written in source.
//
// This is a closed set of types: *PathTy, *PtrTy, *SliceTy, *ArrayTy, *MapTy,
// *ChanTy, *FnTy, *StructTy, *InterfaceTy, *EllipsisTy and *UnstableTy.
type SynTy interface {
	SpanID() SpanID

	isSynTy()
}

// SynTyData is data shared by every [SynTy].
type SynTyData struct {
	Span SpanID
}

func (d *SynTyData) SpanID() SpanID { return d.Span }
func (*SynTyData) isSynTy()         {}

// PathTy names a type.
type PathTy struct {
	SynTyData
	Qualifier *Ident
	Name      *Ident
	Args      []SynTy
	// The named type's definition. Zero for builtin types and type parameters.
	Target  TyDefID
	Generic bool // Names a type parameter.
}

type (
	PtrTy struct {
		SynTyData
		Elem SynTy
	}
	SliceTy struct {
		SynTyData
		Elem SynTy
	}
	ArrayTy struct {
		SynTyData
		Len  Expr // Nil for [...]T.
		Elem SynTy
	}
	MapTy struct {
		SynTyData
		Key, Value SynTy
	}
	ChanTy struct {
		SynTyData
		Dir  ChanDir
		Elem SynTy
	}
	FnTy struct {
		SynTyData
		Params   []*Param
		Results  []*Param
		Variadic bool
	}
	StructTy struct {
		SynTyData
		Fields []*Field
	}
	EllipsisTy struct {
		SynTyData
		Elem SynTy
	}
	UnstableTy struct {
		SynTyData
		Desc string
	}
)

// InterfaceMethod is a method declared in an interface type.
type InterfaceMethod struct {
	Span SpanID
	Name *Ident
	Ty   *FnTy
}

// InterfaceTy is an interface type literal.
type InterfaceTy struct {
	SynTyData
	Methods []*InterfaceMethod
	Embeds  []SynTy // Embedded interfaces and type-set terms.
}

// ChanDir is the direction of a channel type.
type ChanDir uint8

const (
	ChanBoth ChanDir = iota
	ChanSend
	ChanRecv
)

// String implements [fmt.Stringer].
func (d ChanDir) String() string {
	switch d {
	case ChanBoth:
		return "chan"
	case ChanSend:
		return "chan<-"
	case ChanRecv:
		return "<-chan"
	default:
		return fmt.Sprintf("ChanDir(%d)", uint8(d))
	}
}

// SemTy is the semantic type of an expression, as computed by the host's
// type checker.
//
// Named types refer to their definitions only by [TyDefID], so recursive
// types are finite.
type SemTy interface {
	isSemTy()
}

// NumKind is the kind of a [NumTy].
type NumKind uint8

const (
	Int NumKind = iota + 1
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Uintptr
	Float32
	Float64
	Complex64
	Complex128
	// Kinds of untyped constants.
	UntypedInt
	UntypedRune
	UntypedFloat
	UntypedComplex
)

type (
	BoolTy struct{}
	NumTy  struct {
		Kind NumKind
	}
	TextTy     struct{} // string.
	PtrSemTy   struct{ Elem SemTy }
	SliceSemTy struct{ Elem SemTy }
	ArraySemTy struct {
		Len  int64
		Elem SemTy
	}
	MapSemTy  struct{ Key, Value SemTy }
	ChanSemTy struct {
		Dir  ChanDir
		Elem SemTy
	}
	FnSemTy struct {
		Params, Results []SemTy
		Variadic        bool
	}
	// AdtTy is a named type.
	AdtTy struct {
		Def  TyDefID
		Args []SemTy
	}
	GenericTy struct {
		Name string
		Def  TyDefID
	}
	// TupleTy is the type of a multi-valued call.
	TupleTy        struct{ Elems []SemTy }
	InterfaceSemTy struct{ Methods []string }
	StructSemTy    struct{ Fields []SemField }
	NilTy          struct{}
	UnstableSemTy  struct{ Desc string }
)

// SemField is a field of a [StructSemTy].
type SemField struct {
	Name     string
	Ty       SemTy
	Embedded bool
}

func (*BoolTy) isSemTy()         {}
func (*NumTy) isSemTy()          {}
func (*TextTy) isSemTy()         {}
func (*PtrSemTy) isSemTy()       {}
func (*SliceSemTy) isSemTy()     {}
func (*ArraySemTy) isSemTy()     {}
func (*MapSemTy) isSemTy()       {}
func (*ChanSemTy) isSemTy()      {}
func (*FnSemTy) isSemTy()        {}
func (*AdtTy) isSemTy()          {}
func (*GenericTy) isSemTy()      {}
func (*TupleTy) isSemTy()        {}
func (*InterfaceSemTy) isSemTy() {}
func (*StructSemTy) isSemTy()    {}
func (*NilTy) isSemTy()          {}
func (*UnstableSemTy) isSemTy()  {}
