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

// Expr is an expression.
//
// Go statements other than declarations are represented as expressions
// wrapped in an [ExprStmt], so that control flow such as *IfExpr and
// *ReturnExpr can be visited uniformly.
type Expr interface {
	ExprID() ExprID
	SpanID() SpanID

	isExpr()
}

// ExprData is data shared by every [Expr].
type ExprData struct {
	ID   ExprID
	Span SpanID
}

func (d *ExprData) ExprID() ExprID { return d.ID }
func (d *ExprData) SpanID() SpanID { return d.Span }
func (*ExprData) isExpr()          {}

// Literals. Numeric values are kept exactly as the host's constant
// evaluation printed them.
type (
	IntLit struct {
		ExprData
		Value string
	}
	FloatLit struct {
		ExprData
		Value string
	}
	ImagLit struct {
		ExprData
		Value string
	}
	CharLit struct {
		ExprData
		Value rune
	}
	StrLit struct {
		ExprData
		Value string
		Raw   bool
	}
	BoolLit struct {
		ExprData
		Value bool
	}
)

// ResKind is what a [Res] resolves to.
type ResKind uint8

const (
	ResUnresolved ResKind = iota
	ResLocal
	ResItem
	ResBuiltin
	ResPackage
)

// Res is the resolution of a path.
type Res struct {
	Kind ResKind
	Var  VarID   // For ResLocal.
	Item ItemID  // For ResItem; may refer to an item in another crate.
	Ty   TyDefID // For ResItem naming a type.
	// For ResItem naming a constant that is a variant of an enum.
	Variant VariantID
}

// PathExpr is a possibly-qualified name.
type PathExpr struct {
	ExprData
	Qualifier *Ident // Nil if unqualified.
	Name      *Ident
	Res       Res
}

// CallExpr is a call of a function value.
type CallExpr struct {
	ExprData
	Func   Expr
	Args   []Expr
	Spread bool // Last argument is followed by "...".
}

// MethodCallExpr is a call of a method on a receiver.
type MethodCallExpr struct {
	ExprData
	Recv   Expr
	Method *Ident
	Args   []Expr
	Spread bool
}

// FieldExpr is a field access.
type FieldExpr struct {
	ExprData
	X     Expr
	Field *Ident
}

// IndexExpr indexes a value, or instantiates a generic function.
type IndexExpr struct {
	ExprData
	X       Expr
	Indices []Expr
}

// SliceExpr is x[low:high:max]; absent bounds are nil.
type SliceExpr struct {
	ExprData
	X, Low, High, Max Expr
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota + 1
	UnaryPos
	UnaryNot
	UnaryBitNot
)

// String implements [fmt.Stringer].
func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryPos:
		return "+"
	case UnaryNot:
		return "!"
	case UnaryBitNot:
		return "^"
	default:
		return fmt.Sprintf("UnaryOp(%d)", uint8(op))
	}
}

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota + 1
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryAnd
	BinaryOr
	BinaryXor
	BinaryShl
	BinaryShr
	BinaryAndNot
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
)

var binaryOps = [...]string{
	BinaryAdd:        "+",
	BinarySub:        "-",
	BinaryMul:        "*",
	BinaryDiv:        "/",
	BinaryRem:        "%",
	BinaryAnd:        "&",
	BinaryOr:         "|",
	BinaryXor:        "^",
	BinaryShl:        "<<",
	BinaryShr:        ">>",
	BinaryAndNot:     "&^",
	BinaryLogicalAnd: "&&",
	BinaryLogicalOr:  "||",
	BinaryEq:         "==",
	BinaryNe:         "!=",
	BinaryLt:         "<",
	BinaryLe:         "<=",
	BinaryGt:         ">",
	BinaryGe:         ">=",
}

// String implements [fmt.Stringer].
func (op BinaryOp) String() string {
	if int(op) < len(binaryOps) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// UnaryExpr is a prefix operator applied to an operand.
type UnaryExpr struct {
	ExprData
	Op UnaryOp
	X  Expr
}

// BinaryExpr is an infix operator applied to two operands.
type BinaryExpr struct {
	ExprData
	Op   BinaryOp
	X, Y Expr
}

// RefExpr takes the address of its operand.
type RefExpr struct {
	ExprData
	X Expr
}

// DerefExpr dereferences a pointer.
type DerefExpr struct {
	ExprData
	X Expr
}

// RecvExpr receives from a channel.
type RecvExpr struct {
	ExprData
	Chan Expr
}

// ConvExpr is a type conversion.
type ConvExpr struct {
	ExprData
	Ty SynTy
	X  Expr
}

// TypeAssertExpr is x.(T).
type TypeAssertExpr struct {
	ExprData
	X  Expr
	Ty SynTy
}

// CtorElem is an element of a [CtorExpr].
type CtorElem struct {
	Span  SpanID
	Field *Ident // For keyed struct literals.
	Key   Expr   // For keyed array, slice and map literals.
	Value Expr
}

// CtorExpr is a composite literal.
type CtorExpr struct {
	ExprData
	Ty    SynTy // Nil when elided inside another composite literal.
	Elems []*CtorElem
}

// ClosureExpr is a function literal.
type ClosureExpr struct {
	ExprData
	Ty   *FnTy
	Body BodyID
}

// BlockExpr is a braced list of statements.
type BlockExpr struct {
	ExprData
	Stmts []Stmt
}

// IfExpr is an if statement.
type IfExpr struct {
	ExprData
	Init Stmt
	Cond Expr
	Then *BlockExpr
	Else Expr // *BlockExpr, *IfExpr or nil.
}

// ForExpr is a three-clause or condition-only loop.
type ForExpr struct {
	ExprData
	Label *Ident
	Init  Stmt
	Cond  Expr
	Post  Stmt
	Body  *BlockExpr
}

// RangeExpr is a for-range loop.
type RangeExpr struct {
	ExprData
	Label      *Ident
	Key, Value Pat // Nil if absent.
	X          Expr
	Body       *BlockExpr
}

// SwitchCase is a clause of a [SwitchExpr].
type SwitchCase struct {
	Span    SpanID
	Exprs   []Expr
	Default bool
	Body    []Stmt
}

// SwitchExpr is an expression switch.
type SwitchExpr struct {
	ExprData
	Label *Ident
	Init  Stmt
	Tag   Expr // Nil for a tagless switch.
	Cases []*SwitchCase
}

// TypeCase is a clause of a [TypeSwitchExpr].
type TypeCase struct {
	Span    SpanID
	Types   []SynTy
	Default bool
	Body    []Stmt
}

// TypeSwitchExpr is a type switch.
type TypeSwitchExpr struct {
	ExprData
	Label *Ident
	Init  Stmt
	Bind  *IdentPat // The x in switch x := y.(type), if present.
	X     Expr
	Cases []*TypeCase
}

// CommCase is a clause of a [SelectExpr].
type CommCase struct {
	Span SpanID
	Comm Stmt // Nil for the default clause.
	Body []Stmt
}

// SelectExpr is a select statement.
type SelectExpr struct {
	ExprData
	Label *Ident
	Cases []*CommCase
}

// AssignExpr assigns to existing places. Op is zero for plain assignment.
type AssignExpr struct {
	ExprData
	Op  BinaryOp
	Lhs []Expr
	Rhs []Expr
}

// IncDecExpr is x++ or x--.
type IncDecExpr struct {
	ExprData
	X   Expr
	Inc bool
}

// ReturnExpr returns from the enclosing function.
type ReturnExpr struct {
	ExprData
	Results []Expr
}

// BranchKind is the kind of a [BranchExpr].
type BranchKind uint8

const (
	BranchBreak BranchKind = iota + 1
	BranchContinue
	BranchGoto
	BranchFallthrough
)

// String implements [fmt.Stringer].
func (k BranchKind) String() string {
	switch k {
	case BranchBreak:
		return "break"
	case BranchContinue:
		return "continue"
	case BranchGoto:
		return "goto"
	case BranchFallthrough:
		return "fallthrough"
	default:
		return fmt.Sprintf("BranchKind(%d)", uint8(k))
	}
}

// BranchExpr is break, continue, goto or fallthrough.
type BranchExpr struct {
	ExprData
	Kind  BranchKind
	Label *Ident
}

// GoExpr starts a goroutine.
type GoExpr struct {
	ExprData
	Call Expr
}

// DeferExpr defers a call.
type DeferExpr struct {
	ExprData
	Call Expr
}

// SendExpr sends on a channel.
type SendExpr struct {
	ExprData
	Chan, Value Expr
}

// TypeExpr is a type in expression position, such as the argument of new.
type TypeExpr struct {
	ExprData
	Ty SynTy
}

// TupleExpr is a list of values produced together, such as the right-hand
// side of a parallel declaration.
type TupleExpr struct {
	ExprData
	Elems []Expr
}

// UnstableExpr is a construct that does not have a stable representation
// yet. Desc is a human-readable description, and is not stable either.
type UnstableExpr struct {
	ExprData
	Desc string
}
