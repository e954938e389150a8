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
	"unsafe"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/driver"
	"github.com/bufbuild/lintbridge/lint"
)

// Handle is a type-erased pointer to the driver context behind a
// [Callbacks] table.
type Handle unsafe.Pointer

// Callbacks is the function table through which plugins call into a driver.
//
// Every function takes the table's Handle as its first argument, and every
// argument and result has a fixed layout. Fields must only ever be appended,
// and any change to this struct or to the types it uses changes the result
// of [LayoutFingerprint].
type Callbacks struct {
	Handle Handle

	LintLevelAt func(h Handle, l *lint.Lint, node NodeView) lint.Level
	EmitDiag    func(h Handle, d *DiagView)

	Item         func(h Handle, id ast.ItemID) Option[Ref]
	Body         func(h Handle, id ast.BodyID) Option[*ast.Body]
	ResolveTyIDs func(h Handle, path Str) Slice[ast.TyDefID]

	ExprTy func(h Handle, id ast.ExprID) Ref

	Span             func(h Handle, id ast.SpanID) *ast.Span
	SpanSnippet      func(h Handle, span *ast.Span) Option[Str]
	SpanSource       func(h Handle, span *ast.Span) Ref
	SpanPosToFileLoc func(h Handle, file *ast.FileInfo, pos ast.SpanPos) Option[ast.FilePos]
	SpanExpnInfo     func(h Handle, id ast.ExpnID) Option[*ast.ExpnInfo]

	SymbolStr func(h Handle, id ast.SymbolID) Str

	ResolveMethodTarget func(h Handle, id ast.ExprID) ast.ItemID
}

// Wrapper owns a driver context on the host side of the bridge.
//
// One Wrapper is created per session. Its address is the [Handle] passed to
// every table function, which casts it back and forwards to the context.
type Wrapper struct {
	cx       driver.Context
	released bool
}

// Wrap wraps a driver context for use across the bridge.
func Wrap(cx driver.Context) *Wrapper {
	return &Wrapper{cx: cx}
}

// Release invalidates the handle. Any later call through the table panics.
//
// Release must be called when the session ends.
func (w *Wrapper) Release() {
	w.released = true
	w.cx = nil
}

// Callbacks builds the function table for this wrapper.
func (w *Wrapper) Callbacks() *Callbacks {
	return &Callbacks{
		Handle: Handle(unsafe.Pointer(w)),

		LintLevelAt: func(h Handle, l *lint.Lint, node NodeView) lint.Level {
			return unwrap(h).LintLevelAt(l, nodeFromView(node))
		},
		EmitDiag: func(h Handle, d *DiagView) {
			unwrap(h).EmitDiag(diagFromView(d))
		},

		Item: func(h Handle, id ast.ItemID) Option[Ref] {
			item := unwrap(h).Item(id)
			if item == nil {
				return None[Ref]()
			}
			return Some(items.ref(item))
		},
		Body: func(h Handle, id ast.BodyID) Option[*ast.Body] {
			body := unwrap(h).Body(id)
			if body == nil {
				return None[*ast.Body]()
			}
			return Some(body)
		},
		ResolveTyIDs: func(h Handle, path Str) Slice[ast.TyDefID] {
			return SliceOf(unwrap(h).ResolveTyIDs(path.String()))
		},

		ExprTy: func(h Handle, id ast.ExprID) Ref {
			return semTys.ref(unwrap(h).ExprTy(id))
		},

		Span: func(h Handle, id ast.SpanID) *ast.Span {
			return unwrap(h).Span(id)
		},
		SpanSnippet: func(h Handle, span *ast.Span) Option[Str] {
			text, ok := unwrap(h).SpanSnippet(span)
			if !ok {
				return None[Str]()
			}
			return Some(StrOf(text))
		},
		SpanSource: func(h Handle, span *ast.Span) Ref {
			return spanSources.ref(unwrap(h).SpanSource(span))
		},
		SpanPosToFileLoc: func(h Handle, file *ast.FileInfo, pos ast.SpanPos) Option[ast.FilePos] {
			loc, ok := unwrap(h).SpanPosToFileLoc(file, pos)
			return Option[ast.FilePos]{Some: ok, Value: loc}
		},
		SpanExpnInfo: func(h Handle, id ast.ExpnID) Option[*ast.ExpnInfo] {
			info, ok := unwrap(h).SpanExpnInfo(id)
			return Option[*ast.ExpnInfo]{Some: ok, Value: info}
		},

		SymbolStr: func(h Handle, id ast.SymbolID) Str {
			return StrOf(unwrap(h).SymbolStr(id))
		},

		ResolveMethodTarget: func(h Handle, id ast.ExprID) ast.ItemID {
			return unwrap(h).ResolveMethodTarget(id)
		},
	}
}

// unwrap casts a handle back to the context it wraps.
func unwrap(h Handle) driver.Context {
	w := (*Wrapper)(h)
	if w == nil {
		panic("bridge: nil context handle")
	}
	if w.released {
		panic("bridge: context used after its session ended")
	}
	return w.cx
}

func nodeToView(n lint.EmissionNode) NodeView {
	kind, stmt, data := n.Raw()
	return NodeView{Kind: uint8(kind), Stmt: uint8(stmt), Data: data}
}

func nodeFromView(v NodeView) lint.EmissionNode {
	return lint.EmissionNodeFromRaw(lint.NodeKind(v.Kind), ast.StmtKind(v.Stmt), v.Data)
}

func diagToView(d *lint.Diagnostic) *DiagView {
	parts := make([]PartView, len(d.Parts))
	for i, p := range d.Parts {
		parts[i] = PartView{
			Kind:          uint8(p.Kind),
			Applicability: uint8(p.Applicability),
			Span:          p.Span,
			Msg:           StrOf(p.Msg),
			Replacement:   StrOf(p.Replacement),
		}
	}
	return &DiagView{
		Lint:  d.Lint,
		Node:  nodeToView(d.Node),
		Span:  d.Span,
		Msg:   StrOf(d.Msg),
		Parts: SliceOf(parts),
	}
}

// diagFromView copies a diagnostic out of a view. The view's strings belong
// to the plugin, so they are cloned.
func diagFromView(v *DiagView) *lint.Diagnostic {
	d := &lint.Diagnostic{
		Lint: v.Lint,
		Node: nodeFromView(v.Node),
		Span: v.Span,
		Msg:  clone(v.Msg),
	}
	for _, p := range v.Parts.Slice() {
		d.Parts = append(d.Parts, lint.Part{
			Kind:          lint.PartKind(p.Kind),
			Applicability: lint.Applicability(p.Applicability),
			Span:          p.Span,
			Msg:           clone(p.Msg),
			Replacement:   clone(p.Replacement),
		})
	}
	return d
}

func clone(s Str) string {
	return string([]byte(s.String()))
}
