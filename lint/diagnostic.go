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

package lint

import (
	"fmt"

	"github.com/bufbuild/lintbridge/ast"
)

// NodeKind is the kind of an [EmissionNode].
type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeItem
	NodeBody
	NodeExpr
	NodeStmt
	NodeField
	NodeVariant
)

// EmissionNode is the node a diagnostic is attached to. The level of a lint
// is looked up at this node.
type EmissionNode struct {
	kind NodeKind
	stmt ast.StmtKind
	data uint64
}

func ItemNode(id ast.ItemID) EmissionNode       { return EmissionNode{kind: NodeItem, data: id.Data()} }
func BodyNode(id ast.BodyID) EmissionNode       { return EmissionNode{kind: NodeBody, data: id.Data()} }
func ExprNode(id ast.ExprID) EmissionNode       { return EmissionNode{kind: NodeExpr, data: id.Data()} }
func FieldNode(id ast.FieldID) EmissionNode     { return EmissionNode{kind: NodeField, data: id.Data()} }
func VariantNode(id ast.VariantID) EmissionNode { return EmissionNode{kind: NodeVariant, data: id.Data()} }

// StmtNode returns the emission node for a statement.
func StmtNode(id ast.StmtID) EmissionNode {
	var data uint64
	switch id.Kind() {
	case ast.StmtExpr:
		e, _ := id.Expr()
		data = e.Data()
	case ast.StmtItem:
		i, _ := id.Item()
		data = i.Data()
	case ast.StmtLet:
		l, _ := id.Let()
		data = l.Data()
	}
	return EmissionNode{kind: NodeStmt, stmt: id.Kind(), data: data}
}

// Kind returns what kind of node this is.
func (n EmissionNode) Kind() NodeKind {
	return n.kind
}

// Item returns the item, if this is an item node.
func (n EmissionNode) Item() (ast.ItemID, bool) { return ast.ItemID(n.data), n.kind == NodeItem }

// Body returns the body, if this is a body node.
func (n EmissionNode) Body() (ast.BodyID, bool) { return ast.BodyID(n.data), n.kind == NodeBody }

// Expr returns the expression, if this is an expression node.
func (n EmissionNode) Expr() (ast.ExprID, bool) { return ast.ExprID(n.data), n.kind == NodeExpr }

// Field returns the field, if this is a field node.
func (n EmissionNode) Field() (ast.FieldID, bool) { return ast.FieldID(n.data), n.kind == NodeField }

// Variant returns the variant, if this is a variant node.
func (n EmissionNode) Variant() (ast.VariantID, bool) {
	return ast.VariantID(n.data), n.kind == NodeVariant
}

// Stmt returns the statement, if this is a statement node.
func (n EmissionNode) Stmt() (ast.StmtID, bool) {
	if n.kind != NodeStmt {
		return ast.StmtID{}, false
	}
	switch n.stmt {
	case ast.StmtExpr:
		return ast.StmtIDFromExpr(ast.ExprID(n.data)), true
	case ast.StmtItem:
		return ast.StmtIDFromItem(ast.ItemID(n.data)), true
	case ast.StmtLet:
		return ast.StmtIDFromLet(ast.LetStmtID(n.data)), true
	}
	return ast.StmtID{}, false
}

// Raw returns the parts of this node, for moving it across a bridge.
func (n EmissionNode) Raw() (kind NodeKind, stmt ast.StmtKind, data uint64) {
	return n.kind, n.stmt, n.data
}

// EmissionNodeFromRaw reassembles a node returned by [EmissionNode.Raw].
func EmissionNodeFromRaw(kind NodeKind, stmt ast.StmtKind, data uint64) EmissionNode {
	return EmissionNode{kind: kind, stmt: stmt, data: data}
}

// PartKind is the kind of a [Part].
type PartKind uint8

const (
	PartNote PartKind = iota + 1
	PartHelp
	PartSuggestion
)

// String implements [fmt.Stringer].
func (k PartKind) String() string {
	switch k {
	case PartNote:
		return "note"
	case PartHelp:
		return "help"
	case PartSuggestion:
		return "suggestion"
	default:
		return fmt.Sprintf("PartKind(%d)", uint8(k))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k PartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Applicability is how confident a suggestion is.
type Applicability uint8

const (
	Unspecified Applicability = iota
	// The suggestion is definitely what the user intended.
	MachineApplicable
	// The suggestion may be what the user intended, but is uncertain.
	MaybeIncorrect
	// The suggestion contains placeholders the user must fill in.
	HasPlaceholders
)

// String implements [fmt.Stringer].
func (a Applicability) String() string {
	switch a {
	case Unspecified:
		return "unspecified"
	case MachineApplicable:
		return "machine-applicable"
	case MaybeIncorrect:
		return "maybe-incorrect"
	case HasPlaceholders:
		return "has-placeholders"
	default:
		return fmt.Sprintf("Applicability(%d)", uint8(a))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (a Applicability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Part is additional information attached to a [Diagnostic].
type Part struct {
	Kind PartKind
	Msg  string
	Span ast.SpanID // Zero if the part has no span.

	// For PartSuggestion.
	Replacement   string
	Applicability Applicability
}

// Diagnostic is a finding reported by a lint.
type Diagnostic struct {
	Lint  *Lint
	Node  EmissionNode
	Span  ast.SpanID
	Msg   string
	Parts []Part
}

// DiagOption is an option that can be applied to a [Diagnostic].
//
// Nil values passed to [Diagnostic.With] are ignored.
type DiagOption interface {
	Apply(*Diagnostic)
}

// With applies the given options to this diagnostic.
func (d *Diagnostic) With(options ...DiagOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option.Apply(d)
		}
	}
	return d
}

// Note returns a DiagOption that adds context to the diagnostic.
func Note(format string, args ...any) DiagOption {
	return Part{Kind: PartNote, Msg: fmt.Sprintf(format, args...)}
}

// Help returns a DiagOption that suggests in prose how to fix the diagnostic.
func Help(format string, args ...any) DiagOption {
	return Part{Kind: PartHelp, Msg: fmt.Sprintf(format, args...)}
}

// HelpAt is like [Help], but points at a span.
func HelpAt(span ast.SpanID, format string, args ...any) DiagOption {
	return Part{Kind: PartHelp, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// Suggest returns a DiagOption that suggests replacing the text at span.
func Suggest(span ast.SpanID, msg, replacement string, applicability Applicability) DiagOption {
	return Part{
		Kind:          PartSuggestion,
		Span:          span,
		Msg:           msg,
		Replacement:   replacement,
		Applicability: applicability,
	}
}

// Apply implements [DiagOption].
func (p Part) Apply(d *Diagnostic) {
	d.Parts = append(d.Parts, p)
}
