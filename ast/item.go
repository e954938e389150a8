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

// Crate is the root of a program unit: one package.
type Crate struct {
	ID   CrateID
	Root *ModItem
}

// Ident is a name as written in source.
type Ident struct {
	Sym  SymbolID
	Span SpanID
}

// Visibility is whether an item can be named from outside its crate.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// String implements [fmt.Stringer].
func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// Item is a declaration.
//
// This is a closed set of types: *ModItem, *FnItem, *StructItem, *EnumItem,
// *InterfaceItem, *TypeAliasItem, *ConstItem, *VarItem and *ImportItem.
type Item interface {
	ItemID() ItemID
	SpanID() SpanID
	// Returns nil for items without a name, such as a blank import.
	Ident() *Ident
	Visibility() Visibility

	isItem()
}

// ItemData is data shared by every [Item].
type ItemData struct {
	ID   ItemID
	Span SpanID
	Name *Ident
	Vis  Visibility
}

func (d *ItemData) ItemID() ItemID         { return d.ID }
func (d *ItemData) SpanID() SpanID         { return d.Span }
func (d *ItemData) Ident() *Ident          { return d.Name }
func (d *ItemData) Visibility() Visibility { return d.Vis }
func (*ItemData) isItem()                  {}

// ModItem is a module: a flat list of items in declaration order.
type ModItem struct {
	ItemData
	Items []Item
}

// Param is a parameter or result of a function.
type Param struct {
	Span SpanID
	Name *Ident // Nil if unnamed.
	Var  VarID  // Zero if unnamed or blank.
	Ty   SynTy
}

// FnItem is a function or method declaration.
type FnItem struct {
	ItemData
	Recv       *Param // Nil for plain functions.
	TypeParams []*Ident
	Params     []*Param
	Results    []*Param
	Variadic   bool
	Body       BodyID // Zero for functions declared without a body.
}

// Field is a field of a struct.
type Field struct {
	ID       FieldID
	Span     SpanID
	Name     *Ident
	Ty       SynTy
	Embedded bool
	Tag      string
}

// StructItem is a named struct type.
type StructItem struct {
	ItemData
	TyDef      TyDefID
	TypeParams []*Ident
	Fields     []*Field
}

// Variant is a variant of an [EnumItem].
type Variant struct {
	ID    VariantID
	Span  SpanID
	Name  *Ident
	Value string // The variant's constant value, printed exactly.
	Body  BodyID // The initializer, if written explicitly.
}

// EnumItem is a named integer type together with the constants of that type
// declared next to it.
type EnumItem struct {
	ItemData
	TyDef      TyDefID
	Underlying SynTy
	Variants   []*Variant
}

// InterfaceItem is a named interface type.
type InterfaceItem struct {
	ItemData
	TyDef      TyDefID
	TypeParams []*Ident
	Ty         *InterfaceTy
}

// TypeAliasItem is a named type that is not a struct, interface or enum, or a
// type alias declared with =.
type TypeAliasItem struct {
	ItemData
	TyDef      TyDefID
	TypeParams []*Ident
	Ty         SynTy
	Alias      bool // Declared with =.
}

// ConstItem is a constant.
type ConstItem struct {
	ItemData
	Ty    SynTy  // Nil if not written.
	Value string // The constant's value, printed exactly.
	Body  BodyID // Zero for constants with an implicit initializer.
}

// VarItem is a package-level variable.
type VarItem struct {
	ItemData
	Ty   SynTy  // Nil if not written.
	Body BodyID // Zero if the variable has no initializer of its own.
}

// ImportItem is an import declaration.
type ImportItem struct {
	ItemData
	Path string
}
