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
	"cmp"
	"fmt"
	goast "go/ast"
	"go/token"
	"log/slog"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/report"
)

// DirectivePrefix starts a comment that sets the level of lints for the line
// it is on, the line after it if it is alone on its line, or the declaration
// it documents:
//
//	//lint:allow bool_compare,empty_body
//	//lint:deny bool_compare
const DirectivePrefix = "//lint:"

// levelOverride is a configured level for the lints matching a pattern.
type levelOverride struct {
	pattern string
	level   lint.Level
	exact   bool
}

func (o levelOverride) match(name string) bool {
	if o.exact {
		return o.pattern == name
	}
	ok, _ := doublestar.Match(o.pattern, name)
	return ok
}

// newOverrides sorts configured levels by precedence: exact names first, then
// longer patterns before shorter ones. Invalid patterns are logged and
// ignored.
func newOverrides(levels map[string]lint.Level, logger *slog.Logger) []levelOverride {
	var out []levelOverride
	for pattern, level := range levels {
		if !doublestar.ValidatePattern(pattern) {
			logger.Warn("ignoring invalid lint pattern", slog.String("pattern", pattern))
			continue
		}
		out = append(out, levelOverride{
			pattern: pattern,
			level:   level,
			exact:   !strings.ContainsAny(pattern, `*?[{\`),
		})
	}
	slices.SortFunc(out, func(a, b levelOverride) int {
		if a.exact != b.exact {
			if a.exact {
				return -1
			}
			return 1
		}
		if n := cmp.Compare(len(b.pattern), len(a.pattern)); n != 0 {
			return n
		}
		return strings.Compare(a.pattern, b.pattern)
	})
	return out
}

// directive is a parsed lint directive.
type directive struct {
	level lint.Level
	lints []string
	alone bool // No code precedes it on its line.
}

func (d directive) names(name string) bool {
	return slices.Contains(d.lints, name)
}

// parseDirective parses a lint directive comment.
func parseDirective(text string) (directive, bool) {
	rest, ok := strings.CutPrefix(text, DirectivePrefix)
	if !ok {
		return directive{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return directive{}, false
	}
	level, err := lint.ParseLevel(fields[0])
	if err != nil {
		return directive{}, false
	}
	var lints []string
	for name := range strings.SplitSeq(fields[1], ",") {
		if name != "" {
			lints = append(lints, name)
		}
	}
	return directive{level: level, lints: lints}, len(lints) > 0
}

// directives returns the lint directives of a file by line.
func (c *converter) directives(fd *fileData) map[int][]directive {
	if fd.directives != nil || fd.syntax == nil {
		return fd.directives
	}
	fd.directives = make(map[int][]directive)
	var lead map[int]token.Pos
	for _, group := range fd.syntax.Comments {
		for _, comment := range group.List {
			d, ok := parseDirective(comment.Text)
			if !ok {
				if strings.HasPrefix(comment.Text, DirectivePrefix) {
					c.s.logger.Warn("malformed lint directive",
						slog.String("pos", c.s.prog.Fset.Position(comment.Pos()).String()),
						slog.String("text", comment.Text),
					)
				}
				continue
			}
			if lead == nil {
				lead = leadingCode(fd.tf, fd.syntax)
			}
			line := fd.tf.PositionFor(comment.Pos(), false).Line
			first, ok := lead[line]
			d.alone = !ok || first > comment.Pos()
			fd.directives[line] = append(fd.directives[line], d)
		}
	}
	return fd.directives
}

// leadingCode returns the position of the first node boundary on each line
// of f that has one.
func leadingCode(tf *token.File, f *goast.File) map[int]token.Pos {
	lead := make(map[int]token.Pos)
	note := func(pos token.Pos) {
		if !pos.IsValid() {
			return
		}
		line := tf.PositionFor(pos, false).Line
		if first, ok := lead[line]; !ok || pos < first {
			lead[line] = pos
		}
	}
	goast.Inspect(f, func(n goast.Node) bool {
		switch n.(type) {
		case nil:
			return false
		case *goast.File:
			return true
		case *goast.CommentGroup, *goast.Comment:
			return false
		}
		note(n.Pos())
		note(n.End() - 1)
		return true
	})
	return lead
}

// levelAt returns the level of l at node.
//
// The configured level applies first, falling back to the lint's default.
// Unless that is Forbid, a directive on the node's line, alone on the line
// before it, or in the doc comment of the declaration enclosing it takes
// precedence, in that order.
func (c *converter) levelAt(l *lint.Lint, node lint.EmissionNode) lint.Level {
	level := l.Default
	for _, o := range c.s.levels {
		if o.match(l.Name) {
			level = o.level
			break
		}
	}
	if level == lint.Forbid {
		return level
	}

	pos := c.nodePos(node)
	tf := c.s.prog.Fset.File(pos)
	if !pos.IsValid() || tf == nil {
		return level
	}
	fd := c.file(tf)
	dirs := c.directives(fd)
	if len(dirs) == 0 {
		return level
	}

	find := func(line int, onlyAlone bool) (lint.Level, bool) {
		list := dirs[line]
		for i := len(list) - 1; i >= 0; i-- {
			if (list[i].alone || !onlyAlone) && list[i].names(l.Name) {
				return list[i].level, true
			}
		}
		return 0, false
	}

	line := tf.PositionFor(pos, false).Line
	if found, ok := find(line, false); ok {
		return found
	}
	if found, ok := find(line-1, true); ok {
		return found
	}
	for _, doc := range enclosingDocs(fd.syntax, pos) {
		for i := len(doc.List) - 1; i >= 0; i-- {
			if found, ok := find(tf.PositionFor(doc.List[i].Pos(), false).Line, false); ok {
				return found
			}
		}
	}
	return level
}

// enclosingDocs returns the doc comments of the declarations enclosing pos,
// innermost first.
func enclosingDocs(f *goast.File, pos token.Pos) []*goast.CommentGroup {
	if f == nil {
		return nil
	}
	within := func(n goast.Node) bool { return n.Pos() <= pos && pos < n.End() }

	var docs []*goast.CommentGroup
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *goast.FuncDecl:
			if within(decl) && decl.Doc != nil {
				docs = append(docs, decl.Doc)
			}
		case *goast.GenDecl:
			if !within(decl) {
				continue
			}
			for _, spec := range decl.Specs {
				if !within(spec) {
					continue
				}
				switch spec := spec.(type) {
				case *goast.TypeSpec:
					if spec.Doc != nil {
						docs = append(docs, spec.Doc)
					}
				case *goast.ValueSpec:
					if spec.Doc != nil {
						docs = append(docs, spec.Doc)
					}
				}
			}
			if decl.Doc != nil {
				docs = append(docs, decl.Doc)
			}
		}
	}
	return docs
}

// nodePos returns the position of the host node behind an emission node.
func (c *converter) nodePos(node lint.EmissionNode) token.Pos {
	switch node.Kind() {
	case lint.NodeItem:
		id, _ := node.Item()
		return keyPos(c, id)
	case lint.NodeBody:
		id, _ := node.Body()
		return keyPos(c, id)
	case lint.NodeExpr:
		id, _ := node.Expr()
		return keyPos(c, id)
	case lint.NodeField:
		id, _ := node.Field()
		return keyPos(c, id)
	case lint.NodeVariant:
		id, _ := node.Variant()
		return keyPos(c, id)
	case lint.NodeStmt:
		id, _ := node.Stmt()
		if e, ok := id.Expr(); ok {
			return keyPos(c, e)
		}
		if i, ok := id.Item(); ok {
			return keyPos(c, i)
		}
		if l, ok := id.Let(); ok {
			return keyPos(c, l)
		}
	}
	return token.NoPos
}

func keyPos[I ast.AnyID](c *converter, id I) token.Pos {
	if id == 0 {
		return token.NoPos
	}
	return posOf(lookup(&c.st.ids, id))
}

// emit resolves a diagnostic and adds it to the session's report.
func (c *converter) emit(d *lint.Diagnostic) {
	if d.Lint == nil {
		panic("gohost: diagnostic without a lint")
	}
	level := c.levelAt(d.Lint, d.Node)
	if level <= lint.Allow {
		c.s.stats.Dropped++
		return
	}

	if !d.Span.IsZero() && !d.Lint.ReportInExternal {
		if _, ok := c.resolveSpan(d.Span).Source.(*ast.ExpnSource); ok {
			c.s.stats.Dropped++
			c.s.logger.Debug("dropped diagnostic in expansion region",
				slog.String("lint", d.Lint.Name),
				slog.String("span", c.resolveSpan(d.Span).String()),
			)
			return
		}
	}

	diag := report.Diagnostic{
		Lint:  d.Lint.Name,
		Level: level,
		Msg:   d.Msg,
	}
	if !d.Span.IsZero() {
		diag.Span = c.reportSpan(d.Span)
	}
	for _, part := range d.Parts {
		p := report.Part{
			Kind:          part.Kind,
			Msg:           part.Msg,
			Replacement:   part.Replacement,
			Applicability: part.Applicability,
		}
		if !part.Span.IsZero() {
			if span := c.reportSpan(part.Span); !span.IsZero() {
				p.Span = &span
			}
		}
		diag.Parts = append(diag.Parts, p)
	}

	c.s.report.Add(diag)
	c.s.stats.Emitted++
	c.s.logger.Debug("emitted diagnostic",
		slog.String("lint", d.Lint.Name),
		slog.String("level", level.String()),
		slog.String("pos", fmt.Sprintf("%s:%d:%d", diag.Span.File, diag.Span.Start.Line, diag.Span.Start.Column)),
	)
}
