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

import (
	"fmt"
	"reflect"
)

// ID is an opaque, session-scoped handle for a node of kind K.
//
// IDs are minted by a driver and are only meaningful to the driver that
// minted them: consumers may compare IDs for equality, use them as map keys,
// and pass them back to the driver, but must never interpret their bits,
// persist them, or compare them across sessions. Different kinds are
// different types, so an ID of one kind cannot be passed where another kind
// is expected.
//
// The zero ID is never minted by a driver, and means "no node".
type ID[K any] uint64

// AnyID is a constraint satisfied by every kind of [ID].
type AnyID interface {
	CrateID | ItemID | BodyID | ExprID | LetStmtID | TyDefID | VarID |
		FieldID | VariantID | SpanID | ExpnID | SymbolID
}

// NewID wraps raw driver data into an ID.
//
// Only drivers should call this function.
func NewID[I AnyID](data uint64) I {
	return I(data)
}

// IsZero returns whether this is the zero ID.
func (id ID[K]) IsZero() bool {
	return id == 0
}

// Data returns the raw driver data of this ID.
//
// Only drivers should call this function.
func (id ID[K]) Data() uint64 {
	return uint64(id)
}

// String implements [fmt.Stringer].
//
// The output is for debugging only.
func (id ID[K]) String() string {
	name := reflect.TypeFor[K]().Name()
	if id.IsZero() {
		return name + "(<nil>)"
	}
	return fmt.Sprintf("%s(%#x)", name, uint64(id))
}

// Markers for each ID kind. These are unexported so that the set of kinds
// is closed; use the aliases below.
type (
	crate    struct{}
	item     struct{}
	body     struct{}
	expr     struct{}
	letStmt  struct{}
	tyDef    struct{}
	variable struct{}
	field    struct{}
	variant  struct{}
	span     struct{}
	expn     struct{}
	symbol   struct{}
)

// Aliases for every kind of [ID].
type (
	CrateID   = ID[crate]
	ItemID    = ID[item]
	BodyID    = ID[body]
	ExprID    = ID[expr]
	LetStmtID = ID[letStmt]
	TyDefID   = ID[tyDef]
	VarID     = ID[variable]
	FieldID   = ID[field]
	VariantID = ID[variant]
	SpanID    = ID[span]
	ExpnID    = ID[expn]
	SymbolID  = ID[symbol]
)

// StmtKind is the kind of a [StmtID].
type StmtKind uint8

const (
	StmtNone StmtKind = iota
	StmtExpr
	StmtItem
	StmtLet
)

// String implements [fmt.Stringer].
func (k StmtKind) String() string {
	switch k {
	case StmtNone:
		return "none"
	case StmtExpr:
		return "expr"
	case StmtItem:
		return "item"
	case StmtLet:
		return "let"
	default:
		return fmt.Sprintf("StmtKind(%d)", uint8(k))
	}
}

// StmtID identifies a statement.
//
// A statement is either an expression statement, an item statement or a let
// statement, and its ID is the ID of the underlying expression, item or
// binding, tagged with which of the three it is. This makes a single ID type
// sufficient to identify any statement without a separate statement table.
type StmtID struct {
	kind StmtKind
	data uint64
}

// StmtIDFromExpr returns the ID of an expression statement.
func StmtIDFromExpr(id ExprID) StmtID {
	return StmtID{StmtExpr, id.Data()}
}

// StmtIDFromItem returns the ID of an item statement.
func StmtIDFromItem(id ItemID) StmtID {
	return StmtID{StmtItem, id.Data()}
}

// StmtIDFromLet returns the ID of a let statement.
func StmtIDFromLet(id LetStmtID) StmtID {
	return StmtID{StmtLet, id.Data()}
}

// IsZero returns whether this is the zero ID.
func (id StmtID) IsZero() bool {
	return id.kind == StmtNone
}

// Kind returns what kind of statement this ID refers to.
func (id StmtID) Kind() StmtKind {
	return id.kind
}

// Expr returns the expression ID of an expression statement.
func (id StmtID) Expr() (ExprID, bool) {
	if id.kind != StmtExpr {
		return 0, false
	}
	return ExprID(id.data), true
}

// Item returns the item ID of an item statement.
func (id StmtID) Item() (ItemID, bool) {
	if id.kind != StmtItem {
		return 0, false
	}
	return ItemID(id.data), true
}

// Let returns the binding ID of a let statement.
func (id StmtID) Let() (LetStmtID, bool) {
	if id.kind != StmtLet {
		return 0, false
	}
	return LetStmtID(id.data), true
}

// String implements [fmt.Stringer].
func (id StmtID) String() string {
	if id.IsZero() {
		return "StmtID(<nil>)"
	}
	return fmt.Sprintf("StmtID(%v, %#x)", id.kind, id.data)
}
