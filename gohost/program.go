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
	"errors"
	"fmt"
	goast "go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Program is one Go package to analyze.
type Program struct {
	Fset  *token.FileSet
	Files []*goast.File
	// The package's import path.
	Path string

	// Optional file contents, keyed by file name. Files that are not in this
	// map are read from disk the first time their text is needed.
	Sources map[string][]byte

	// Produces the package's type information. Called at most once per
	// session, the first time conversion needs types.
	Check Checker
}

// Checker produces the type information for a [Program].
//
// A Checker may return partial information together with an error, such as
// for a package with type errors; conversion proceeds with whatever
// information is available as long as the returned package is not nil.
type Checker func() (*types.Package, *types.Info, error)

// FromPackage adapts a package loaded by [packages.Load]. The package must
// have been loaded with at least [packages.NeedSyntax], [packages.NeedTypes]
// and [packages.NeedTypesInfo].
func FromPackage(pkg *packages.Package) Program {
	return Program{
		Fset:  pkg.Fset,
		Files: pkg.Syntax,
		Path:  pkg.PkgPath,
		Check: func() (*types.Package, *types.Info, error) {
			if pkg.Types == nil || pkg.TypesInfo == nil {
				return nil, nil, fmt.Errorf("gohost: package %s was loaded without type information", pkg.PkgPath)
			}
			var errs []error
			for _, err := range pkg.Errors {
				errs = append(errs, err)
			}
			return pkg.Types, pkg.TypesInfo, errors.Join(errs...)
		},
	}
}

// Check returns a program whose types are computed on demand by [go/types],
// resolving imports with importer.
//
// Type errors do not stop conversion: every error is collected and returned
// from the Checker alongside the partial results.
func Check(fset *token.FileSet, path string, files []*goast.File, importer types.Importer) Program {
	return Program{
		Fset:  fset,
		Files: files,
		Path:  path,
		Check: func() (*types.Package, *types.Info, error) {
			info := NewInfo()
			var errs []error
			conf := types.Config{
				Importer: importer,
				Error:    func(err error) { errs = append(errs, err) },
			}
			pkg, _ := conf.Check(path, fset, files, info)
			return pkg, info, errors.Join(errs...)
		},
	}
}

// NewInfo returns a [types.Info] with every map conversion reads.
func NewInfo() *types.Info {
	return &types.Info{
		Types:      make(map[goast.Expr]types.TypeAndValue),
		Instances:  make(map[*goast.Ident]types.Instance),
		Defs:       make(map[*goast.Ident]types.Object),
		Uses:       make(map[*goast.Ident]types.Object),
		Implicits:  make(map[goast.Node]types.Object),
		Selections: make(map[*goast.SelectorExpr]*types.Selection),
		Scopes:     make(map[goast.Node]*types.Scope),
	}
}
