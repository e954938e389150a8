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

// Package gohost is the driver for the Go toolchain: it converts a package
// parsed by go/parser and checked by go/types into the stable syntax tree of
// package ast, and implements [driver.Context] on top of it.
//
// Conversion is lazy and memoized. Nothing is converted until a node is asked
// for, and each node is converted at most once per [Session]: asking for the
// same ID twice returns the identical node.
package gohost

import (
	"errors"
	"fmt"
	goast "go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/driver"
	"github.com/bufbuild/lintbridge/internal/cell"
	"github.com/bufbuild/lintbridge/internal/intern"
	"github.com/bufbuild/lintbridge/internal/memo"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/report"
)

var _ driver.Context = (*Session)(nil)

// Session is one analysis session over one [Program].
//
// A Session must only be used from the goroutine that created it. It owns
// every node it converts; nodes and IDs must not be used after [Session.Close].
type Session struct {
	prog   Program
	files  []*goast.File // Sorted by file name.
	logger *slog.Logger
	levels []levelOverride
	owner  cell.Owner

	// Everything conversion mutates. Borrowed exclusively by every call into
	// the session.
	state *cell.Cell[state]

	report report.Report
	stats  Stats
	closed bool
}

// Stats counts what a session has done so far.
type Stats struct {
	// Converted nodes, per table.
	Items, Bodies, Exprs, Lets int
	// Values allocated in the session arena, including nodes.
	Allocs int

	// Lowering artifacts that produced no node, such as empty statements.
	Skipped int

	// Diagnostics added to the report, and diagnostics dropped because their
	// lint was allowed or they were in an expansion region.
	Emitted, Dropped int

	// Errors reported by the type checker.
	TypeErrors int
}

type state struct {
	ids   idTables
	syms  intern.Table
	store storage

	crate  *ast.Crate
	items  memo.Table[ast.ItemID, ast.Item]
	bodies memo.Table[ast.BodyID, *ast.Body]
	exprs  memo.Table[ast.ExprID, ast.Expr]
	lets   memo.Table[ast.LetStmtID, *ast.LetStmt]
	spans  memo.Table[ast.SpanID, *ast.Span]
	semTys memo.Table[types.Type, ast.SemTy]

	// The item each body belongs to, recorded when the body's ID is minted.
	owners map[ast.BodyID]ast.ItemID

	subject subject
	decls   *decls
	expns   *expansions
	files   map[*token.File]*fileData
	byPath  map[string]*fileData
}

// release drops every node converted so far.
func (st *state) release() {
	st.items.Reset()
	st.bodies.Reset()
	st.exprs.Reset()
	st.lets.Reset()
	st.spans.Reset()
	st.semTys.Reset()
	st.ids.reset()
	st.store.reset()
	*st = state{}
}

// subject is what conversion is currently working on.
type subject struct {
	// The body being converted, if any.
	body ast.BodyID

	// Type information, fetched from the program on first need.
	checked bool
	pkg     *types.Package
	info    *types.Info
	err     error
}

// Option configures a [Session].
type Option func(*options)

type options struct {
	logger *slog.Logger
	levels map[string]lint.Level
}

// WithLogger sets the logger the session logs to. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLevels overrides the levels of lints. Keys are lint names or
// doublestar patterns matching lint names; an exact name takes precedence
// over any pattern, and a longer pattern over a shorter one.
func WithLevels(levels map[string]lint.Level) Option {
	return func(o *options) { o.levels = levels }
}

// NewSession creates a session over prog.
//
// Nothing is converted, and prog's Checker is not called, until the session
// is first asked for something.
func NewSession(prog Program, opts ...Option) *Session {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		prog:   prog,
		logger: o.logger,
		owner:  cell.NewOwner("gohost: session"),
		state: cell.New("gohost session state", state{
			ids:    newIDTables(),
			owners: make(map[ast.BodyID]ast.ItemID),
			files:  make(map[*token.File]*fileData),
			byPath: make(map[string]*fileData),
		}),
	}
	s.levels = newOverrides(o.levels, s.logger)

	s.files = slices.Clone(prog.Files)
	slices.SortStableFunc(s.files, func(a, b *goast.File) int {
		return strings.Compare(s.fileName(a), s.fileName(b))
	})

	s.logger.Debug("created session",
		slog.String("package", prog.Path),
		slog.Int("files", len(prog.Files)),
	)
	return s
}

func (s *Session) fileName(f *goast.File) string {
	if tf := s.prog.Fset.File(f.Pos()); tf != nil {
		return tf.Name()
	}
	return ""
}

// converter is the state of one call into a session, with the state cell
// borrowed.
type converter struct {
	s  *Session
	st *state
}

// run calls f with the session state borrowed.
func run[R any](s *Session, f func(c *converter) R) R {
	s.owner.Check()
	if s.closed {
		panic("gohost: session used after Close")
	}
	return cell.With(s.state, func(st *state) R {
		return f(&converter{s: s, st: st})
	})
}

// Crate converts the program's package, returning the root of its tree.
//
// Returns an error if the program could not be type-checked at all. Partial
// type information, such as for a package with type errors, is not an error;
// the type errors are logged and counted in [Stats].
func (s *Session) Crate() (*ast.Crate, error) {
	type result struct {
		crate *ast.Crate
		err   error
	}
	r := run(s, func(c *converter) result {
		crate, err := c.crate()
		return result{crate, err}
	})
	return r.crate, r.err
}

// Report returns the diagnostics emitted so far. The report remains valid
// after the session is closed.
func (s *Session) Report() *report.Report {
	s.owner.Check()
	return &s.report
}

// Stats returns what the session has done so far.
func (s *Session) Stats() Stats {
	return run(s, func(c *converter) Stats {
		stats := s.stats
		stats.Items = c.st.items.Len()
		stats.Bodies = c.st.bodies.Len()
		stats.Exprs = c.st.exprs.Len()
		stats.Lets = c.st.lets.Len()
		stats.Allocs = c.st.store.len()
		return stats
	})
}

// Close ends the session, dropping every node, cache and ID table at once.
//
// Calling any method other than Report afterwards panics.
func (s *Session) Close() {
	run(s, func(c *converter) struct{} {
		c.st.release()
		return struct{}{}
	})
	s.closed = true
	s.logger.Debug("closed session",
		slog.String("package", s.prog.Path),
		slog.Int("diagnostics", len(s.report.Diagnostics)),
	)
}

// LintLevelAt implements [driver.Context].
func (s *Session) LintLevelAt(l *lint.Lint, node lint.EmissionNode) lint.Level {
	return run(s, func(c *converter) lint.Level { return c.levelAt(l, node) })
}

// EmitDiag implements [driver.Context].
func (s *Session) EmitDiag(d *lint.Diagnostic) {
	run(s, func(c *converter) struct{} {
		c.emit(d)
		return struct{}{}
	})
}

// Item implements [driver.Context].
func (s *Session) Item(id ast.ItemID) ast.Item {
	return run(s, func(c *converter) ast.Item { return c.item(id) })
}

// Body implements [driver.Context].
func (s *Session) Body(id ast.BodyID) *ast.Body {
	return run(s, func(c *converter) *ast.Body { return c.body(id) })
}

// ResolveTyIDs implements [driver.Context].
func (s *Session) ResolveTyIDs(path string) []ast.TyDefID {
	return run(s, func(c *converter) []ast.TyDefID { return c.resolveTyIDs(path) })
}

// ExprTy implements [driver.Context].
func (s *Session) ExprTy(id ast.ExprID) ast.SemTy {
	return run(s, func(c *converter) ast.SemTy { return c.exprTy(id) })
}

// Span implements [driver.Context].
func (s *Session) Span(id ast.SpanID) *ast.Span {
	return run(s, func(c *converter) *ast.Span { return c.resolveSpan(id) })
}

// SpanSnippet implements [driver.Context].
func (s *Session) SpanSnippet(span *ast.Span) (string, bool) {
	snippet := run(s, func(c *converter) *string { return c.snippet(span) })
	if snippet == nil {
		return "", false
	}
	return *snippet, true
}

// SpanSource implements [driver.Context].
func (s *Session) SpanSource(span *ast.Span) ast.SpanSource {
	s.owner.Check()
	return span.Source
}

// SpanPosToFileLoc implements [driver.Context].
func (s *Session) SpanPosToFileLoc(file *ast.FileInfo, pos ast.SpanPos) (ast.FilePos, bool) {
	loc := run(s, func(c *converter) *ast.FilePos { return c.fileLoc(file, pos) })
	if loc == nil {
		return ast.FilePos{}, false
	}
	return *loc, true
}

// SpanExpnInfo implements [driver.Context].
func (s *Session) SpanExpnInfo(id ast.ExpnID) (*ast.ExpnInfo, bool) {
	info := run(s, func(c *converter) *ast.ExpnInfo { return c.expnInfo(id) })
	return info, info != nil
}

// SymbolStr implements [driver.Context].
func (s *Session) SymbolStr(id ast.SymbolID) string {
	return run(s, func(c *converter) string { return c.symbolStr(id) })
}

// ResolveMethodTarget implements [driver.Context].
func (s *Session) ResolveMethodTarget(id ast.ExprID) ast.ItemID {
	return run(s, func(c *converter) ast.ItemID { return c.methodTarget(id) })
}

// check fetches type information from the program, once.
func (c *converter) check() *subject {
	sub := &c.st.subject
	if sub.checked {
		return sub
	}
	sub.checked = true

	if c.s.prog.Check == nil {
		sub.err = fmt.Errorf("gohost: program %s has no checker", c.s.prog.Path)
	} else {
		sub.pkg, sub.info, sub.err = c.s.prog.Check()
	}
	if sub.info == nil {
		sub.info = NewInfo()
	}

	if sub.err != nil && sub.pkg != nil {
		// Partial information: keep going.
		n := 1
		if joined, ok := sub.err.(interface{ Unwrap() []error }); ok {
			n = len(joined.Unwrap())
		}
		c.s.stats.TypeErrors += n
		c.s.logger.Warn("package has type errors",
			slog.String("package", c.s.prog.Path),
			slog.Int("errors", n),
			slog.Any("error", sub.err),
		)
	}
	return sub
}

func (c *converter) info() *types.Info {
	return c.check().info
}

func (c *converter) crate() (*ast.Crate, error) {
	if c.st.crate != nil {
		return c.st.crate, nil
	}
	if sub := c.check(); sub.pkg == nil {
		return nil, fmt.Errorf("gohost: type-checking %s: %w", c.s.prog.Path, noTypes(sub.err))
	}

	crate := alloc(&c.st.store, ast.Crate{ID: mint[ast.CrateID](&c.st.ids, crateKey{})})
	c.st.crate = crate
	crate.Root, _ = c.item(mint[ast.ItemID](&c.st.ids, rootKey{})).(*ast.ModItem)
	return crate, nil
}

func noTypes(err error) error {
	if err == nil {
		return errors.New("no type information")
	}
	return err
}

func (c *converter) sym(name string) ast.SymbolID {
	id := c.st.syms.Intern(name)
	return ast.NewID[ast.SymbolID](c.st.ids.encode(kindSymbol, uint64(id)+1))
}

func (c *converter) symbolStr(id ast.SymbolID) string {
	index := c.st.ids.decode(kindSymbol, id.Data()) - 1
	if index > uint64(c.st.syms.Len()) {
		panic(fmt.Sprintf("gohost: %v was not minted by this session", id))
	}
	return c.st.syms.Value(intern.ID(index))
}

// ident converts a name.
func (c *converter) ident(id *goast.Ident) *ast.Ident {
	if id == nil {
		return nil
	}
	return alloc(&c.st.store, ast.Ident{Sym: c.sym(id.Name), Span: c.span(id)})
}

func (c *converter) skip(node goast.Node) {
	c.s.stats.Skipped++
	c.s.logger.Debug("skipped lowering artifact",
		slog.String("node", fmt.Sprintf("%T", node)),
		slog.String("pos", c.s.prog.Fset.Position(node.Pos()).String()),
		slog.String("body", c.st.subject.body.String()),
	)
}
