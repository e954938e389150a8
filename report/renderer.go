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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/bufbuild/lintbridge/lint"
)

// Renderer configures a diagnostic rendering operation.
type Renderer struct {
	// If set, uses a compact one-line format for each diagnostic.
	Compact bool

	// If set, rendering results are enriched with ANSI color escapes.
	Colorize bool
}

// Render renders a diagnostic report, followed by a summary line.
//
// Returns the number of diagnostics that fail a build and the number of
// warnings. The error is an error writing to out.
func (r Renderer) Render(report *Report, out io.Writer) (errorCount, warningCount int, err error) {
	for _, d := range report.Diagnostics {
		if _, err = fmt.Fprintln(out, r.Diagnostic(d)); err != nil {
			return errorCount, warningCount, err
		}
		if !r.Compact {
			if _, err = fmt.Fprintln(out); err != nil {
				return errorCount, warningCount, err
			}
		}

		switch {
		case d.Level >= lint.Deny:
			errorCount++
		case d.Level == lint.Warn:
			warningCount++
		}
	}
	if r.Compact {
		return errorCount, warningCount, nil
	}

	c := newStyleSheet(r)
	pluralize := func(count int, what string) string {
		if count == 1 {
			return "1 " + what
		}
		return fmt.Sprint(count, " ", what, "s")
	}

	switch {
	case errorCount > 0:
		summary := "encountered " + pluralize(errorCount, "error")
		if warningCount > 0 {
			summary += " and " + pluralize(warningCount, "warning")
		}
		_, err = fmt.Fprintln(out, c.err.Sprint(summary))
	case warningCount > 0:
		_, err = fmt.Fprintln(out, c.warn.Sprint("encountered "+pluralize(warningCount, "warning")))
	}
	return errorCount, warningCount, err
}

// RenderString is a helper for calling [Renderer.Render] with a [strings.Builder].
func (r Renderer) RenderString(report *Report) (text string, errorCount, warningCount int) {
	var buf strings.Builder
	e, w, _ := r.Render(report, &buf)
	return buf.String(), e, w
}

// Diagnostic renders a single diagnostic to a string.
func (r Renderer) Diagnostic(d Diagnostic) string {
	c := newStyleSheet(r)
	level := levelName(d.Level)
	style := c.forLevel(d.Level)

	// For the compact style, we imitate the Go compiler.
	if r.Compact {
		if d.Span.IsZero() {
			return style.Sprintf("%s[%s]: %s", level, d.Lint, d.Msg)
		}
		return fmt.Sprintf("%s:%d:%d: %s",
			d.Span.File, d.Span.Start.Line, d.Span.Start.Column,
			style.Sprintf("%s[%s]: %s", level, d.Lint, d.Msg),
		)
	}

	// Otherwise, we imitate the Rust compiler.
	var out strings.Builder
	out.WriteString(style.Sprintf("%s[%s]", level, d.Lint))
	out.WriteString(c.bold.Sprint(": ", d.Msg))

	// The line bar is as wide as the widest line number we print.
	greatestLine := d.Span.Start.Line
	for _, part := range d.Parts {
		if part.Span != nil {
			greatestLine = max(greatestLine, part.Span.Start.Line)
		}
	}
	lineBarWidth := max(2, len(strconv.Itoa(greatestLine)))

	if !d.Span.IsZero() {
		r.window(&out, c, style, d.Span, lineBarWidth, "-->")
	}

	for _, part := range d.Parts {
		out.WriteByte('\n')
		padBy(&out, lineBarWidth)
		out.WriteString(c.accent.Sprint(" = "))

		kind := "help"
		if part.Kind == lint.PartNote {
			kind = "note"
		}
		out.WriteString(c.remark.Sprint(kind, ": "))
		out.WriteString(part.Msg)
		if part.Kind == lint.PartSuggestion {
			fmt.Fprintf(&out, ": `%s`", part.Replacement)
		}
		if part.Span != nil && !part.Span.IsZero() && *part.Span != d.Span {
			r.window(&out, c, c.remark, *part.Span, lineBarWidth, ":::")
		}
	}
	return out.String()
}

// window renders the location of span and, if its source line is available,
// the line with the span underlined.
func (Renderer) window(out *strings.Builder, c styleSheet, style *color.Color, span Span, lineBarWidth int, arrow string) {
	out.WriteByte('\n')
	padBy(out, lineBarWidth)
	out.WriteString(c.accent.Sprint(arrow, " "))
	fmt.Fprintf(out, "%s:%d:%d", span.File, span.Start.Line, span.Start.Column)
	if span.Line == "" {
		return
	}

	out.WriteByte('\n')
	padBy(out, lineBarWidth)
	out.WriteString(c.accent.Sprint(" |"))

	out.WriteByte('\n')
	lineNo := strconv.Itoa(span.Start.Line)
	padBy(out, lineBarWidth-len(lineNo))
	out.WriteString(c.accent.Sprint(lineNo, " | "))
	var text strings.Builder
	stringWidth(0, span.Line, &text)
	out.WriteString(strings.TrimRight(text.String(), " "))

	// Columns are 1-based byte offsets; clamp them to the line, since the
	// end of a multi-line span is on some other line.
	start := min(max(span.Start.Column-1, 0), len(span.Line))
	end := len(span.Line)
	if span.End.Line == span.Start.Line {
		end = min(max(span.End.Column-1, start), len(span.Line))
	}
	startCol := stringWidth(0, span.Line[:start], nil)
	endCol := stringWidth(startCol, span.Line[start:end], nil)

	out.WriteByte('\n')
	padBy(out, lineBarWidth)
	out.WriteString(c.accent.Sprint(" | "))
	padBy(out, startCol)
	out.WriteString(style.Sprint(strings.Repeat("^", max(1, endCol-startCol))))
}

// RenderJSON writes report to out as a JSON document.
func RenderJSON(report *Report, out io.Writer) error {
	diags := report.Diagnostics
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{Diagnostics: diags})
}

func levelName(l lint.Level) string {
	if l >= lint.Deny {
		return "error"
	}
	return "warning"
}

func padBy(out *strings.Builder, spaces int) {
	for range spaces {
		out.WriteByte(' ')
	}
}

// styleSheet is the colors used for pretty-rendering diagnostics.
type styleSheet struct {
	err, warn, remark, accent, bold *color.Color
}

func newStyleSheet(r Renderer) styleSheet {
	c := styleSheet{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		remark: color.New(color.FgCyan, color.Bold),
		// Used for "accents" such as line numbers, to clearly separate them
		// from the source code.
		accent: color.New(color.FgBlue, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, style := range []*color.Color{c.err, c.warn, c.remark, c.accent, c.bold} {
		if r.Colorize {
			style.EnableColor()
		} else {
			style.DisableColor()
		}
	}
	return c
}

func (c styleSheet) forLevel(l lint.Level) *color.Color {
	if l >= lint.Deny {
		return c.err
	}
	return c.warn
}
