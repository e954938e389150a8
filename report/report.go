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

// Package report collects the diagnostics of an analysis session and renders
// them for a user.
//
// Diagnostics in this package are fully resolved: they carry file names,
// line and column numbers and source text rather than session IDs, so they
// outlive the session that produced them.
package report

import (
	"cmp"
	"slices"

	"github.com/bufbuild/lintbridge/lint"
)

// Report is a list of diagnostics.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic is a finding, resolved against the source it was reported in.
type Diagnostic struct {
	Lint  string     `json:"lint"`
	Level lint.Level `json:"level"`
	Msg   string     `json:"message"`
	Span  Span       `json:"span"`
	Parts []Part     `json:"parts,omitempty"`
}

// Part is a note, help message or suggestion attached to a [Diagnostic].
type Part struct {
	Kind lint.PartKind `json:"kind"`
	Msg  string        `json:"message"`
	Span *Span         `json:"span,omitempty"` // Nil if the part has no span.

	Replacement   string             `json:"replacement,omitempty"`
	Applicability lint.Applicability `json:"applicability,omitempty"`
}

// Span is a range of text in a file.
type Span struct {
	File  string   `json:"file"`
	Start Location `json:"start"`
	End   Location `json:"end"`

	// The text of the line Start is on, without its line terminator.
	// Empty if the source is not available.
	Line string `json:"-"`
}

// Location is a 1-based line and column. Columns count bytes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsZero returns whether this span has no position, such as for a diagnostic
// on synthesized code.
func (s Span) IsZero() bool {
	return s.Start.Line == 0
}

// Add appends a diagnostic to this report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Sort sorts the diagnostics by position, then by lint. Diagnostics at the
// same position keep the order they were added in.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Span.File, b.Span.File),
			cmp.Compare(a.Span.Start.Line, b.Span.Start.Line),
			cmp.Compare(a.Span.Start.Column, b.Span.Start.Column),
			cmp.Compare(a.Lint, b.Lint),
		)
	})
}

// Count returns the number of diagnostics at the given level.
func (r *Report) Count(level lint.Level) int {
	var n int
	for _, d := range r.Diagnostics {
		if d.Level == level {
			n++
		}
	}
	return n
}

// Failed returns whether any diagnostic is at a level that fails a build.
func (r *Report) Failed() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d Diagnostic) bool {
		return d.Level >= lint.Deny
	})
}

// Merge appends the diagnostics of other to this report.
func (r *Report) Merge(other *Report) {
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}
