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

// Package adapter loads lint plugins and runs them over a crate.
package adapter

import (
	"fmt"
	"log/slog"

	"github.com/bufbuild/lintbridge/ast"
	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/driver"
	"github.com/bufbuild/lintbridge/internal/cell"
	"github.com/bufbuild/lintbridge/lint"
	"github.com/bufbuild/lintbridge/plugin"
	"github.com/bufbuild/lintbridge/visitor"
)

// Adapter is the registry of loaded plugins.
//
// An Adapter is not safe for concurrent use: it runs one pass at a time, on
// one goroutine.
type Adapter struct {
	logger *slog.Logger

	// The loaded plugins. Borrowed exclusively for the duration of a pass.
	state *cell.Cell[registry]

	lints  []*lint.Lint
	byName map[string]*loaded
	scope  visitor.Scope
}

type registry struct {
	plugins []*loaded
}

type loaded struct {
	spec   Spec
	info   *plugin.Info
	module Module // Kept to pin the module for the adapter's lifetime.
}

func newAdapter(o options) *Adapter {
	return &Adapter{
		logger: o.logger,
		state:  cell.New("plugin registry", registry{}),
		byName: make(map[string]*loaded),
	}
}

func (a *Adapter) register(spec Spec, info *plugin.Info, module Module) error {
	if err := check(info); err != nil {
		return &LoadError{spec, err}
	}

	p := &loaded{spec: spec, info: info, module: module}
	for _, l := range info.Lints {
		if prev, ok := a.byName[l.Name]; ok {
			return &LoadError{spec, fmt.Errorf("%w: %q is also declared by %s", ErrDuplicateLint, l.Name, prev.info.Name)}
		}
		a.byName[l.Name] = p
	}

	reg, release := a.state.Borrow()
	defer release()
	reg.plugins = append(reg.plugins, p)

	a.lints = append(a.lints, info.Lints...)
	a.scope = max(a.scope, info.Scope)

	a.logger.Debug("loaded plugin",
		slog.String("name", info.Name),
		slog.String("path", spec.Path),
		slog.Int("lints", len(info.Lints)),
		slog.String("scope", info.Scope.String()),
	)
	return nil
}

// Lints returns every lint declared by every plugin, in load order.
func (a *Adapter) Lints() []*lint.Lint {
	return a.lints
}

// Lint returns the lint with the given name, or nil.
func (a *Adapter) Lint(name string) *lint.Lint {
	p, ok := a.byName[name]
	if !ok {
		return nil
	}
	for _, l := range p.info.Lints {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Plugins returns the descriptions of the loaded plugins, in load order.
func (a *Adapter) Plugins() []*plugin.Info {
	reg, release := a.state.Borrow()
	defer release()
	infos := make([]*plugin.Info, len(reg.plugins))
	for i, p := range reg.plugins {
		infos[i] = p.info
	}
	return infos
}

// Scope returns the widest traversal scope any plugin asked for.
func (a *Adapter) Scope() visitor.Scope {
	return a.scope
}

// ProcessCrate runs every plugin over crate.
//
// The driver context is wrapped in a bridge for the duration of the pass.
// Plugins' CheckCrate callbacks run first, then a single traversal dispatches
// every node to every plugin, in load order. Body-level events only reach
// plugins that asked for them.
//
// Calling ProcessCrate while a pass is running, such as from a plugin
// callback, panics.
func (a *Adapter) ProcessCrate(cx driver.Context, crate *ast.Crate) {
	reg, release := a.state.Borrow()
	defer release()

	w := bridge.Wrap(cx)
	defer w.Release()
	bcx := bridge.NewContext(w.Callbacks())

	d := &dispatcher{cx: bcx, scope: a.scope, all: reg.plugins}
	for _, p := range reg.plugins {
		if p.info.Scope == visitor.ScopeBodies {
			d.bodies = append(d.bodies, p)
		}
	}

	for _, p := range reg.plugins {
		if f := p.info.Callbacks.CheckCrate; f != nil {
			f(bcx, crate)
		}
	}
	if len(reg.plugins) == 0 {
		a.logger.Debug("no plugins loaded")
	}
	visitor.TraverseCrate(bcx, d, crate)
}

// dispatcher fans each visited node out to the plugins.
//
// Plugin callbacks return nothing, so the walk always continues and every
// plugin sees every node within its scope.
type dispatcher struct {
	cx     *bridge.Context
	scope  visitor.Scope
	all    []*loaded
	bodies []*loaded // Plugins with ScopeBodies.
}

func (d *dispatcher) Scope() visitor.Scope { return d.scope }

func (d *dispatcher) VisitItem(item ast.Item) visitor.Control {
	for _, p := range d.all {
		if f := p.info.Callbacks.CheckItem; f != nil {
			f(d.cx, item)
		}
	}
	return visitor.Continue
}

func (d *dispatcher) VisitField(field *ast.Field) visitor.Control {
	for _, p := range d.all {
		if f := p.info.Callbacks.CheckField; f != nil {
			f(d.cx, field)
		}
	}
	return visitor.Continue
}

func (d *dispatcher) VisitVariant(variant *ast.Variant) visitor.Control {
	for _, p := range d.all {
		if f := p.info.Callbacks.CheckVariant; f != nil {
			f(d.cx, variant)
		}
	}
	return visitor.Continue
}

func (d *dispatcher) VisitBody(body *ast.Body) visitor.Control {
	for _, p := range d.bodies {
		if f := p.info.Callbacks.CheckBody; f != nil {
			f(d.cx, body)
		}
	}
	return visitor.Continue
}

func (d *dispatcher) VisitStmt(stmt ast.Stmt) visitor.Control {
	for _, p := range d.bodies {
		if f := p.info.Callbacks.CheckStmt; f != nil {
			f(d.cx, stmt)
		}
	}
	return visitor.Continue
}

func (d *dispatcher) VisitExpr(expr ast.Expr) visitor.Control {
	for _, p := range d.bodies {
		if f := p.info.Callbacks.CheckExpr; f != nil {
			f(d.cx, expr)
		}
	}
	return visitor.Continue
}
