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

// Package unsafex contains extensions to Go's package unsafe.
//
// Importing this package should be treated as equivalent to importing unsafe.
package unsafex

import (
	"unsafe"
)

// StringData returns the data pointer of s, like [unsafe.StringData].
//
// Returns nil for the empty string.
func StringData(s string) *byte {
	if s == "" {
		return nil
	}
	return unsafe.StringData(s)
}

// StringView reconstructs a string from a data pointer and length without
// copying.
//
// The bytes must not be modified for as long as the returned string is alive.
func StringView(data *byte, n int) string {
	if data == nil || n == 0 {
		return ""
	}
	return unsafe.String(data, n)
}

// SliceData returns the data pointer of s, like [unsafe.SliceData], except
// that it returns nil for empty slices.
func SliceData[S ~[]E, E any](s S) *E {
	if len(s) == 0 {
		return nil
	}
	return unsafe.SliceData(s)
}

// SliceView reconstructs a slice from a data pointer and length without
// copying. The capacity of the result equals its length.
func SliceView[E any](data *E, n int) []E {
	if data == nil || n == 0 {
		return nil
	}
	return unsafe.Slice(data, n)
}
