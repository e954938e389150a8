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
	"fmt"
	"hash/fnv"
	"io"
	"reflect"
	"sync"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/lint"
)

// layoutTypes are the types whose layouts host and plugins must agree on.
var layoutTypes = []reflect.Type{
	reflect.TypeFor[Callbacks](),
	reflect.TypeFor[Option[Ref]](),
	reflect.TypeFor[Option[Str]](),
	reflect.TypeFor[Option[ast.FilePos]](),
	reflect.TypeFor[Slice[ast.TyDefID]](),
	reflect.TypeFor[DiagView](),
	reflect.TypeFor[lint.Lint](),
	reflect.TypeFor[ast.Span](),
	reflect.TypeFor[ast.FileInfo](),
	reflect.TypeFor[ast.ExpnInfo](),
	reflect.TypeFor[ast.Body](),
	reflect.TypeFor[ast.StmtID](),
}

// LayoutFingerprint returns a hash of the layout of every type that crosses
// the bridge: the size, alignment and field offsets of each, recursively.
//
// A plugin records the fingerprint it was built with, and the loader rejects
// plugins whose fingerprint differs from the host's.
func LayoutFingerprint() uint64 {
	return layoutFingerprint()
}

var layoutFingerprint = sync.OnceValue(func() uint64 {
	h := fnv.New64a()
	for _, ty := range layoutTypes {
		writeLayout(h, ty, 0)
	}
	return h.Sum64()
})

// DescribeLayout writes a human-readable description of the layout that
// [LayoutFingerprint] hashes, for debugging mismatches.
func DescribeLayout(w io.Writer) {
	for _, ty := range layoutTypes {
		writeLayout(w, ty, 0)
	}
}

func writeLayout(w io.Writer, ty reflect.Type, depth int) {
	fmt.Fprintf(w, "%*s%v size=%d align=%d\n", 2*depth, "", ty, ty.Size(), ty.Align())

	// Pointers, slices and functions are a fixed number of words regardless
	// of what they point to, so only inline aggregates are followed.
	switch ty.Kind() {
	case reflect.Struct:
		for i := range ty.NumField() {
			f := ty.Field(i)
			fmt.Fprintf(w, "%*s.%s @%d\n", 2*depth+2, "", f.Name, f.Offset)
			writeLayout(w, f.Type, depth+2)
		}
	case reflect.Array:
		fmt.Fprintf(w, "%*s[%d]\n", 2*depth+2, "", ty.Len())
		writeLayout(w, ty.Elem(), depth+2)
	}
}
