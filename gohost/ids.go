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
	"fmt"
	goast "go/ast"
	"go/token"
	"sync/atomic"

	"github.com/bufbuild/lintbridge/ast"
)

// The layout of an ID minted by a session:
//
//	| nonce (16) | kind (8) | index (40) |
//
// The nonce identifies the session, so that an ID passed to the wrong session
// is caught instead of silently resolving to an unrelated node. Indices start
// at 1, so no minted ID is zero.
const (
	indexBits = 40
	kindBits  = 8
	nonceBits = 64 - indexBits - kindBits

	indexMask = 1<<indexBits - 1
	kindMask  = 1<<kindBits - 1
)

type idKind uint8

const (
	kindCrate idKind = iota + 1
	kindItem
	kindBody
	kindExpr
	kindLet
	kindTyDef
	kindVar
	kindField
	kindVariant
	kindSpan
	kindExpn
	kindSymbol

	kindCount
)

var kindNames = [...]string{
	kindCrate:   "crate",
	kindItem:    "item",
	kindBody:    "body",
	kindExpr:    "expression",
	kindLet:     "let statement",
	kindTyDef:   "type definition",
	kindVar:     "variable",
	kindField:   "field",
	kindVariant: "variant",
	kindSpan:    "span",
	kindExpn:    "expansion",
	kindSymbol:  "symbol",
}

func (k idKind) String() string {
	if k > 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("idKind(%d)", uint8(k))
}

func kindOf[I ast.AnyID]() idKind {
	switch any(*new(I)).(type) {
	case ast.CrateID:
		return kindCrate
	case ast.ItemID:
		return kindItem
	case ast.BodyID:
		return kindBody
	case ast.ExprID:
		return kindExpr
	case ast.LetStmtID:
		return kindLet
	case ast.TyDefID:
		return kindTyDef
	case ast.VarID:
		return kindVar
	case ast.FieldID:
		return kindField
	case ast.VariantID:
		return kindVariant
	case ast.SpanID:
		return kindSpan
	case ast.ExpnID:
		return kindExpn
	default:
		return kindSymbol
	}
}

var lastNonce atomic.Uint64

// idTables maps between IDs and the host objects they stand for.
//
// Every kind has its own table. Keys are whatever identifies a node on the
// host side: a [types.Object], a [goast.Node], or one of the key types below.
type idTables struct {
	nonce  uint64
	tables [kindCount]idTable
}

type idTable struct {
	index map[any]uint64
	keys  []any
}

func newIDTables() idTables {
	// Nonces wrap around, skipping zero.
	nonce := lastNonce.Add(1)%(1<<nonceBits-1) + 1
	return idTables{nonce: nonce}
}

func (t *idTables) encode(kind idKind, index uint64) uint64 {
	if index == 0 || index > indexMask {
		panic(fmt.Sprintf("gohost: %v index %d out of range", kind, index))
	}
	return t.nonce<<(indexBits+kindBits) | uint64(kind)<<indexBits | index
}

// decode returns the index of an ID of the given kind, checking that it was
// minted by this session.
func (t *idTables) decode(kind idKind, data uint64) uint64 {
	switch {
	case data == 0:
		panic(fmt.Sprintf("gohost: zero %v ID", kind))
	case data>>(indexBits+kindBits) != t.nonce:
		panic(fmt.Sprintf("gohost: %v ID %#x is from another session", kind, data))
	case idKind(data>>indexBits&kindMask) != kind:
		panic(fmt.Sprintf("gohost: %#x is not a %v ID", data, kind))
	}
	return data & indexMask
}

func (t *idTables) reset() {
	t.tables = [kindCount]idTable{}
}

// mint returns the ID for key, minting a new one the first time key is seen.
func mint[I ast.AnyID](t *idTables, key any) I {
	kind := kindOf[I]()
	table := &t.tables[kind]
	index, ok := table.index[key]
	if !ok {
		if table.index == nil {
			table.index = make(map[any]uint64)
		}
		table.keys = append(table.keys, key)
		index = uint64(len(table.keys))
		table.index[key] = index
	}
	return ast.NewID[I](t.encode(kind, index))
}

// lookup returns the key an ID was minted for.
//
// Panics if the ID is zero, was minted by another session, or was never
// minted at all.
func lookup[I ast.AnyID](t *idTables, id I) any {
	kind := kindOf[I]()
	index := t.decode(kind, uint64(id))
	table := &t.tables[kind]
	if index > uint64(len(table.keys)) {
		panic(fmt.Sprintf("gohost: %v was not minted by this session", id))
	}
	return table.keys[index-1]
}

// Key types for nodes that have no single host object of their own.
type (
	// The crate, and the module item at its root.
	crateKey struct{}
	rootKey  struct{}

	// A span of source text.
	spanKey struct {
		start, end token.Pos
	}

	// One name of a struct field declaration. Embedded fields have index 0.
	fieldKey struct {
		field *goast.Field
		index int
	}

	// The values of a parallel declaration, taken together.
	tupleKey struct {
		node goast.Node
	}
)

func (k spanKey) Pos() token.Pos { return k.start }
func (k tupleKey) Pos() token.Pos { return k.node.Pos() }

func (k fieldKey) Pos() token.Pos {
	if k.index < len(k.field.Names) {
		return k.field.Names[k.index].Pos()
	}
	return k.field.Pos()
}

// posOf returns the position of the host node behind an ID key, or
// [token.NoPos].
func posOf(key any) token.Pos {
	if key, ok := key.(interface{ Pos() token.Pos }); ok {
		return key.Pos()
	}
	return token.NoPos
}
