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

// Body is the executable code attached to a function, closure, constant,
// variable or enum variant.
type Body struct {
	ID    BodyID
	Owner ItemID // Zero for closures.
	// A *BlockExpr for functions and closures, the initializer otherwise.
	Expr Expr
}

// Stmt is a statement.
//
// This is a closed set of types: *LetStmt, *ItemStmt and *ExprStmt.
type Stmt interface {
	StmtID() StmtID
	SpanID() SpanID

	isStmt()
}

// LetStmt introduces local bindings.
type LetStmt struct {
	ID   LetStmtID
	Span SpanID
	Pat  Pat
	Ty   SynTy // Nil if not written.
	Init Expr  // Nil if absent.
}

// ItemStmt is a declaration inside a body.
type ItemStmt struct {
	Span SpanID
	Item Item
}

// ExprStmt is an expression in statement position.
type ExprStmt struct {
	Span SpanID
	Expr Expr
}

func (s *LetStmt) StmtID() StmtID  { return StmtIDFromLet(s.ID) }
func (s *ItemStmt) StmtID() StmtID { return StmtIDFromItem(s.Item.ItemID()) }
func (s *ExprStmt) StmtID() StmtID { return StmtIDFromExpr(s.Expr.ExprID()) }

func (s *LetStmt) SpanID() SpanID  { return s.Span }
func (s *ItemStmt) SpanID() SpanID { return s.Span }
func (s *ExprStmt) SpanID() SpanID { return s.Span }

func (*LetStmt) isStmt()  {}
func (*ItemStmt) isStmt() {}
func (*ExprStmt) isStmt() {}

// Pat is a binding pattern.
//
// This is a closed set of types: *IdentPat, *WildcardPat, *TuplePat and
// *PlacePat.
type Pat interface {
	SpanID() SpanID

	isPat()
}

// IdentPat binds a new variable.
type IdentPat struct {
	Span SpanID
	Name *Ident
	Var  VarID
}

// WildcardPat is the blank identifier.
type WildcardPat struct {
	Span SpanID
}

// TuplePat destructures a multi-valued expression.
type TuplePat struct {
	Span  SpanID
	Elems []Pat
}

// PlacePat assigns to an existing place instead of binding a new variable.
type PlacePat struct {
	Span  SpanID
	Place Expr
}

func (p *IdentPat) SpanID() SpanID    { return p.Span }
func (p *WildcardPat) SpanID() SpanID { return p.Span }
func (p *TuplePat) SpanID() SpanID    { return p.Span }
func (p *PlacePat) SpanID() SpanID    { return p.Span }

func (*IdentPat) isPat()    {}
func (*WildcardPat) isPat() {}
func (*TuplePat) isPat()    {}
func (*PlacePat) isPat()    {}
