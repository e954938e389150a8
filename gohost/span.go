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
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/internal/interval"
	"github.com/bufbuild/lintbridge/report"
)

// fileData is what a session knows about one source file.
type fileData struct {
	tf     *token.File
	info   *ast.FileInfo
	syntax *goast.File // Nil if the file is not part of the program.

	src    []byte
	loaded bool

	// Lint directives by line, parsed on first need.
	directives map[int][]directive
}

// file returns the data for tf, creating it the first time.
func (c *converter) file(tf *token.File) *fileData {
	if fd, ok := c.st.files[tf]; ok {
		return fd
	}
	fd := &fileData{
		tf:   tf,
		info: alloc(&c.st.store, ast.FileInfo{Path: tf.Name(), Size: tf.Size()}),
	}
	for _, f := range c.s.files {
		if c.s.prog.Fset.File(f.Pos()) == tf {
			fd.syntax = f
			break
		}
	}
	c.st.files[tf] = fd
	c.st.byPath[tf.Name()] = fd
	return fd
}

// source returns the text of a file, or nil if it cannot be read.
func (c *converter) source(fd *fileData) []byte {
	if fd.loaded {
		return fd.src
	}
	fd.loaded = true

	if src, ok := c.s.prog.Sources[fd.tf.Name()]; ok {
		fd.src = src
		return src
	}
	src, err := os.ReadFile(fd.tf.Name())
	if err != nil {
		c.s.logger.Debug("cannot read source",
			slog.String("file", fd.tf.Name()),
			slog.Any("error", err),
		)
		return nil
	}
	if len(src) != fd.tf.Size() {
		// Changed on disk since it was parsed.
		c.s.logger.Debug("source changed since parsing", slog.String("file", fd.tf.Name()))
		return nil
	}
	fd.src = src
	return src
}

// resolveSpan converts a span ID into a span.
func (c *converter) resolveSpan(id ast.SpanID) *ast.Span {
	if span, ok := c.st.spans.Get(id); ok {
		return span
	}
	key, _ := lookup(&c.st.ids, id).(spanKey)
	span := alloc(&c.st.store, ast.Span{Source: &ast.BuiltinSource{}})
	c.st.spans.Insert(id, span)

	tf := c.s.prog.Fset.File(key.start)
	if !key.start.IsValid() || tf == nil {
		return span
	}
	fd := c.file(tf)

	end := key.end
	if !end.IsValid() || end < key.start || end > token.Pos(tf.Base()+tf.Size()) {
		end = key.start
	}
	span.Start = offset(tf, key.start)
	span.End = offset(tf, end)

	if expn, ok := c.expansions().at(key.start); ok {
		span.Source = &ast.ExpnSource{Expn: expn, File: fd.info}
	} else {
		span.Source = &ast.FileSource{File: fd.info}
	}
	return span
}

func offset(tf *token.File, pos token.Pos) ast.SpanPos {
	n, err := safecast.Conv[uint32](tf.Offset(pos))
	if err != nil {
		panic(fmt.Sprintf("gohost: offset of %v in %s: %v", pos, tf.Name(), err))
	}
	return ast.SpanPos(n)
}

// snippet returns the source text of span, or nil if it has none.
func (c *converter) snippet(span *ast.Span) *string {
	var info *ast.FileInfo
	switch src := span.Source.(type) {
	case *ast.FileSource:
		info = src.File
	case *ast.ExpnSource:
		info = src.File
	default:
		return nil
	}

	fd := c.st.byPath[info.Path]
	if fd == nil {
		return nil
	}
	src := c.source(fd)
	if src == nil || span.Start > span.End || int(span.End) > len(src) {
		return nil
	}
	text := string(src[span.Start:span.End])
	return &text
}

// fileLoc converts an offset in file to a physical line and column. Line
// directives are ignored.
func (c *converter) fileLoc(file *ast.FileInfo, pos ast.SpanPos) *ast.FilePos {
	fd := c.st.byPath[file.Path]
	if fd == nil || int(pos) > fd.tf.Size() {
		return nil
	}
	p := fd.tf.PositionFor(fd.tf.Pos(int(pos)), false)
	return &ast.FilePos{Line: p.Line, Column: p.Column}
}

// reportSpan converts a span ID into the location a report shows for it.
// Returns the zero span for spans without source text.
func (c *converter) reportSpan(id ast.SpanID) report.Span {
	span := c.resolveSpan(id)
	if _, ok := span.Source.(*ast.BuiltinSource); ok {
		return report.Span{}
	}
	key, _ := lookup(&c.st.ids, id).(spanKey)
	tf := c.s.prog.Fset.File(key.start)
	start := tf.PositionFor(token.Pos(tf.Base()+int(span.Start)), false)
	end := tf.PositionFor(token.Pos(tf.Base()+int(span.End)), false)

	out := report.Span{
		File:  tf.Name(),
		Start: report.Location{Line: start.Line, Column: start.Column},
		End:   report.Location{Line: end.Line, Column: end.Column},
	}
	if src := c.source(c.file(tf)); src != nil {
		lineStart := tf.Offset(tf.LineStart(start.Line))
		line := src[lineStart:]
		if i := strings.IndexByte(string(line), '\n'); i >= 0 {
			line = line[:i]
		}
		out.Line = strings.TrimSuffix(string(line), "\r")
	}
	return out
}

// expansions indexes the expansion regions of a program: generated files,
// and regions remapped by line directives.
type expansions struct {
	infos map[ast.ExpnID]*ast.ExpnInfo
	lines interval.Map[token.Pos, ast.ExpnID]
	files interval.Map[token.Pos, ast.ExpnID]
}

// at returns the innermost expansion region containing pos.
func (e *expansions) at(pos token.Pos) (ast.ExpnID, bool) {
	if entry, ok := e.lines.Get(pos); ok {
		return entry.Value, true
	}
	if entry, ok := e.files.Get(pos); ok {
		return entry.Value, true
	}
	return 0, false
}

func (c *converter) expnInfo(id ast.ExpnID) *ast.ExpnInfo {
	lookup(&c.st.ids, id)
	return c.expansions().infos[id]
}

// expansions finds the expansion regions of every file, once.
func (c *converter) expansions() *expansions {
	if c.st.expns != nil {
		return c.st.expns
	}
	e := &expansions{infos: make(map[ast.ExpnID]*ast.ExpnInfo)}
	c.st.expns = e

	for _, f := range c.s.files {
		tf := c.s.prog.Fset.File(f.Pos())
		if tf == nil {
			continue
		}
		first, last := token.Pos(tf.Base()), token.Pos(tf.Base()+tf.Size())

		var generated ast.ExpnID
		if goast.IsGenerated(f) {
			marker := generatedMarker(f)
			generated = mint[ast.ExpnID](&c.st.ids, marker)
			e.infos[generated] = alloc(&c.st.store, ast.ExpnInfo{
				ID:       generated,
				Kind:     ast.ExpnGenerated,
				CallSite: c.span(marker),
			})
			e.files.Insert(first, last, generated)
		}

		type region struct {
			comment *goast.Comment
			start   token.Pos
			info    ast.ExpnInfo
		}
		var regions []region
		for _, group := range f.Comments {
			for _, comment := range group.List {
				origin, pos, ok := parseLineDirective(comment.Text)
				if !ok {
					continue
				}
				start := comment.End()
				if strings.HasPrefix(comment.Text, "//") {
					// Only recognized at the start of a line, and applies from
					// the next one.
					p := tf.PositionFor(comment.Pos(), false)
					if p.Column != 1 || p.Line >= tf.LineCount() {
						continue
					}
					start = tf.LineStart(p.Line + 1)
				}
				regions = append(regions, region{
					comment: comment,
					start:   start,
					info: ast.ExpnInfo{
						Kind:      ast.ExpnLineDirective,
						Parent:    generated,
						CallSite:  c.span(comment),
						Origin:    origin,
						OriginPos: pos,
					},
				})
			}
		}
		slices.SortFunc(regions, func(a, b region) int { return int(a.start - b.start) })

		for i, r := range regions {
			end := last
			if i+1 < len(regions) {
				end = regions[i+1].start - 1
			}
			if r.start > end {
				continue
			}
			id := mint[ast.ExpnID](&c.st.ids, r.comment)
			r.info.ID = id
			e.infos[id] = alloc(&c.st.store, r.info)
			e.lines.Insert(r.start, end, id)
		}
	}

	c.s.logger.Debug("found expansion regions",
		slog.String("package", c.s.prog.Path),
		slog.Int("generated", e.files.Len()),
		slog.Int("directives", e.lines.Len()),
	)
	return e
}

// generatedMarker returns the "// Code generated ... DO NOT EDIT." comment of
// a generated file.
func generatedMarker(f *goast.File) *goast.Comment {
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}
		for _, comment := range group.List {
			if strings.HasPrefix(comment.Text, "// Code generated ") &&
				strings.HasSuffix(comment.Text, " DO NOT EDIT.") {
				return comment
			}
		}
	}
	// IsGenerated also accepts markers that go/ast does not keep in Comments,
	// such as ones after the package clause in older files.
	return &goast.Comment{Slash: f.Package, Text: "package"}
}

// parseLineDirective parses a //line or /*line*/ comment into the file and
// position it claims. The column is 1 if the directive does not give one.
func parseLineDirective(text string) (string, ast.FilePos, bool) {
	var rest string
	switch {
	case strings.HasPrefix(text, "//line "):
		rest = text[len("//line "):]
	case strings.HasPrefix(text, "/*line ") && strings.HasSuffix(text, "*/"):
		rest = text[len("/*line ") : len(text)-len("*/")]
	default:
		return "", ast.FilePos{}, false
	}

	i := strings.LastIndexByte(rest, ':')
	if i < 0 {
		return "", ast.FilePos{}, false
	}
	n, err := strconv.Atoi(rest[i+1:])
	if err != nil || n <= 0 {
		return "", ast.FilePos{}, false
	}
	rest = rest[:i]
	if j := strings.LastIndexByte(rest, ':'); j >= 0 {
		if line, err := strconv.Atoi(rest[j+1:]); err == nil && line > 0 {
			return rest[:j], ast.FilePos{Line: line, Column: n}, true
		}
	}
	return rest, ast.FilePos{Line: n, Column: 1}, true
}
