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

// Package ast defines the stable syntax tree that lint plugins inspect.
//
// Nodes are produced by a driver (see package driver) from whatever internal
// representation its host toolchain uses, and are immutable once handed out.
// Nodes refer to their children either directly, for children that are always
// converted together with their parent, or by opaque [ID], for relationships
// that may be cyclic or that are only converted on demand, such as a function's
// body or the definition of a named type.
//
// All nodes belong to a session. They, and all IDs that refer to them, must
// not be used after the session ends.
package ast
