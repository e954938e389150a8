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

// SpanPos is a byte offset within the source a [Span] belongs to.
type SpanPos uint32

// Span is a range of source text.
//
// Spans are resolved lazily from a [SpanID] through the driver context; nodes
// only carry the ID.
type Span struct {
	Source     SpanSource
	Start, End SpanPos
}

// Len returns the length of this span in bytes.
func (s *Span) Len() int {
	return int(s.End - s.Start)
}

// String implements [fmt.Stringer].
func (s *Span) String() string {
	switch src := s.Source.(type) {
	case *FileSource:
		return fmt.Sprintf("%s[%d:%d]", src.File.Path, s.Start, s.End)
	case *ExpnSource:
		return fmt.Sprintf("%v[%d:%d]", src.Expn, s.Start, s.End)
	default:
		return fmt.Sprintf("<builtin>[%d:%d]", s.Start, s.End)
	}
}

// SpanSource is where the text of a [Span] comes from.
//
// This is a closed set: *FileSource, *ExpnSource or *BuiltinSource.
type SpanSource interface {
	isSpanSource()
}

// FileSource is a span written directly in a source file.
type FileSource struct {
	File *FileInfo
}

// ExpnSource is a span inside an expansion region: text that was produced by
// a generator or remapped by a line directive rather than written by hand at
// its reported location.
type ExpnSource struct {
	Expn ExpnID
	File *FileInfo // The file the expanded text physically lives in.
}

// BuiltinSource is a span with no source text, such as one on a synthesized
// node.
type BuiltinSource struct{}

func (*FileSource) isSpanSource()    {}
func (*ExpnSource) isSpanSource()    {}
func (*BuiltinSource) isSpanSource() {}

// FileInfo describes a source file.
type FileInfo struct {
	Path string
	Size int
}

// FilePos is a 1-based line and column in a file.
type FilePos struct {
	Line, Column int
}

// String implements [fmt.Stringer].
func (p FilePos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ExpnKind is what produced an expansion region.
type ExpnKind uint8

const (
	// ExpnGenerated is a file produced by a code generator.
	ExpnGenerated ExpnKind = iota + 1
	// ExpnLineDirective is a region remapped by a //line directive.
	ExpnLineDirective
)

// String implements [fmt.Stringer].
func (k ExpnKind) String() string {
	switch k {
	case ExpnGenerated:
		return "generated"
	case ExpnLineDirective:
		return "line directive"
	default:
		return fmt.Sprintf("ExpnKind(%d)", uint8(k))
	}
}

// ExpnInfo describes an expansion region.
type ExpnInfo struct {
	ID   ExpnID
	Kind ExpnKind
	// The enclosing expansion, if this region is nested in another one.
	Parent ExpnID
	// Where the expansion was requested: the generator comment or the line
	// directive.
	CallSite SpanID
	// The file and position the expanded text claims to come from, if any.
	Origin    string
	OriginPos FilePos
}
