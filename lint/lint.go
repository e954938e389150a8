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

// Package lint contains lint declarations and the diagnostics lints emit.
package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of a lint.
type Level int8

const (
	// The lint is disabled.
	Allow Level = 1 + iota
	// Yellow. Findings are reported but do not fail the build.
	Warn
	// Red. Findings are reported and fail the build.
	Deny
	// Like Deny, but cannot be lowered by directives in source.
	Forbid
)

var levelNames = [...]string{
	Allow:  "allow",
	Warn:   "warn",
	Deny:   "deny",
	Forbid: "forbid",
}

// String implements [fmt.Stringer].
func (l Level) String() string {
	if l > 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int8(l))
}

// ParseLevel parses the name of a level, as returned by [Level.String].
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name != "" && strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return 0, fmt.Errorf("unknown lint level %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Lint is the declaration of a lint.
//
// Lints are declared by plugins as package-level variables, and are compared
// by pointer.
type Lint struct {
	// A stable identifier, in lower snake case, unique across every loaded
	// plugin.
	Name string `yaml:"name"`
	// The level the lint has unless overridden.
	Default Level `yaml:"default"`
	// Documentation, shown by the lints command.
	Explanation string `yaml:"explanation"`
	// Whether findings inside expansion regions, such as generated files,
	// are reported. They are dropped by default.
	ReportInExternal bool `yaml:"report_in_external,omitempty"`
}

// ErrBadName is returned by [Lint.Validate] for malformed lint names.
var ErrBadName = errors.New("lint name must be lower snake case")

// Validate checks that this lint is well-formed.
func (l *Lint) Validate() error {
	if !validName(l.Name) {
		return fmt.Errorf("%w: %q", ErrBadName, l.Name)
	}
	if l.Default < Allow || l.Default > Forbid {
		return fmt.Errorf("lint %s: invalid default level %v", l.Name, l.Default)
	}
	return nil
}

// String implements [fmt.Stringer].
func (l *Lint) String() string {
	return l.Name
}

func validName(name string) bool {
	if name == "" || name[0] == '_' || name[len(name)-1] == '_' {
		return false
	}
	for i := range len(name) {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
