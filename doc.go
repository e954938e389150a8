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

// Package lintbridge is the root of a static analysis plugin system whose lints
// do not depend on the toolchain they run in.
//
// A host converts its own syntax trees into a stable, read-only AST on demand,
// and plugins inspect that AST through a narrow interface. The pieces, in the
// order data flows through them:
//
//  1. ast: the stable AST. Nodes refer to each other by opaque IDs, which
//     only the session that minted them can resolve.
//     Also see: ast.Crate
//  2. driver: the interface a host implements to answer queries about IDs.
//     Also see: driver.Context
//  3. gohost: a host over Go packages, converting go/ast and go/types lazily
//     and memoizing every node it produces.
//     Also see: gohost.NewSession
//  4. bridge: the table of functions a plugin calls into the host through,
//     fingerprinted so that mismatched builds are rejected.
//     Also see: bridge.LayoutFingerprint
//  5. plugin and adapter: the contract plugins export, and the loader and
//     registry that dispatch traversal events to them.
//     Also see: adapter.Load
//  6. visitor: the pre-order traversal that drives dispatch.
//     Also see: visitor.TraverseCrate
//  7. report: diagnostics resolved to files and lines, and their rendering.
//     Also see: report.Renderer
//
// # Sessions
//
// Everything a host converts lives as long as its session, and is dropped
// all at once when the session closes. Nodes are immutable, so the same
// pointer is returned every time an ID is resolved. A session is not safe
// for concurrent use; run one per goroutine.
//
// # Lint levels
//
// Every lint has a default level. The lintbridge command's configuration
// overrides it by lint name or glob pattern, and source comments override it
// for a declaration, a line, or the line after the comment:
//
//	//lint:allow empty_body
//	func Init() {}
//
// Forbid cannot be lowered by comments.
//
// The lintbridge command in cmd/lintbridge ties these together.
package lintbridge
