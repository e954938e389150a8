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

// Package visitor walks the stable syntax tree.
//
// Traversal is depth-first and pre-order: a node is visited before its
// children, and children are visited in the order they are declared in
// source. This is a syntactic order. It says nothing about the order in which
// code executes.
package visitor

import (
	"fmt"

	"github.com/bufbuild/lintbridge/ast"
)

// Scope is how deep a traversal goes.
type Scope uint8

const (
	// Visit items, fields and variants only.
	ScopeItems Scope = iota
	// Also visit bodies, and the statements and expressions inside them.
	ScopeBodies
)

// String implements [fmt.Stringer].
func (s Scope) String() string {
	switch s {
	case ScopeItems:
		return "items"
	case ScopeBodies:
		return "bodies"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// Control is returned by visit methods to steer the traversal.
type Control uint8

const (
	// Continue into the node's children.
	Continue Control = iota
	// Skip the node's children, but continue with its siblings.
	SkipChildren
	// Stop the traversal immediately.
	Stop
)

// Bodies resolves body IDs. Both driver.Context and bridge.Context
// implement it.
type Bodies interface {
	Body(id ast.BodyID) *ast.Body
}

// Visitor is called for every node of a traversal.
//
// Embed [Base] to only implement the methods of interest.
type Visitor interface {
	Scope() Scope

	VisitItem(item ast.Item) Control
	VisitField(field *ast.Field) Control
	VisitVariant(variant *ast.Variant) Control
	VisitBody(body *ast.Body) Control
	VisitStmt(stmt ast.Stmt) Control
	VisitExpr(expr ast.Expr) Control
}

// Base is a [Visitor] with item scope that continues everywhere.
type Base struct{}

func (Base) Scope() Scope                      { return ScopeItems }
func (Base) VisitItem(ast.Item) Control        { return Continue }
func (Base) VisitField(*ast.Field) Control     { return Continue }
func (Base) VisitVariant(*ast.Variant) Control { return Continue }
func (Base) VisitBody(*ast.Body) Control       { return Continue }
func (Base) VisitStmt(ast.Stmt) Control        { return Continue }
func (Base) VisitExpr(ast.Expr) Control        { return Continue }

// TraverseCrate visits every item in crate's root module.
//
// Returns Stop if the traversal was stopped early.
func TraverseCrate(cx Bodies, v Visitor, crate *ast.Crate) Control {
	w := newWalker(cx, v)
	for _, item := range crate.Root.Items {
		w.item(item)
	}
	return w.result()
}

// TraverseItem visits item and its children.
func TraverseItem(cx Bodies, v Visitor, item ast.Item) Control {
	w := newWalker(cx, v)
	w.item(item)
	return w.result()
}

// TraverseBody visits body and its children, regardless of v's scope.
func TraverseBody(cx Bodies, v Visitor, body *ast.Body) Control {
	w := newWalker(cx, v)
	w.bodies = true
	w.body(body)
	return w.result()
}

// TraverseStmt visits stmt and its children, regardless of v's scope.
func TraverseStmt(cx Bodies, v Visitor, stmt ast.Stmt) Control {
	w := newWalker(cx, v)
	w.bodies = true
	w.stmt(stmt)
	return w.result()
}

// TraverseExpr visits expr and its children, regardless of v's scope.
func TraverseExpr(cx Bodies, v Visitor, expr ast.Expr) Control {
	w := newWalker(cx, v)
	w.bodies = true
	w.expr(expr)
	return w.result()
}
