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

package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	goplugin "plugin"

	"github.com/bufbuild/lintbridge/bridge"
	"github.com/bufbuild/lintbridge/plugin"
)

// EnvPlugins is the environment variable that lists the plugins to load.
//
// Its value is a list of name=path entries separated by the OS path list
// separator; see package config for how it is parsed.
const EnvPlugins = "LINTBRIDGE_PLUGINS"

// Spec is the location of a plugin to load.
type Spec struct {
	// A name for the plugin, used in errors and logs.
	Name string `yaml:"name"`
	// The path of the plugin's shared object.
	Path string `yaml:"path"`
}

// String implements [fmt.Stringer].
func (s Spec) String() string {
	if s.Name == "" {
		return s.Path
	}
	return fmt.Sprintf("%s (%s)", s.Name, s.Path)
}

// Errors wrapped by a [LoadError].
var (
	ErrOpen          = errors.New("could not open plugin")
	ErrMissingEntry  = errors.New("plugin does not export " + plugin.EntrySymbol)
	ErrBadEntry      = errors.New("plugin entry point has the wrong type")
	ErrVersion       = errors.New("plugin was built for an incompatible API version")
	ErrLayout        = errors.New("plugin was built against an incompatible bridge layout")
	ErrBadLint       = errors.New("plugin declares an invalid lint")
	ErrDuplicateLint = errors.New("lint declared more than once")
)

// LoadError is returned when a plugin cannot be loaded. Loading stops at the
// first error, before any analysis runs.
type LoadError struct {
	Plugin Spec
	Err    error
}

// Error implements [error].
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading plugin %v: %v", e.Plugin, e.Err)
}

// Unwrap implements [errors.Unwrap].
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Module is a loaded plugin module.
type Module interface {
	// Lookup returns the exported symbol with the given name.
	Lookup(name string) (any, error)
}

// Opener opens the plugin module at path.
type Opener func(path string) (Module, error)

// OpenPlugin opens a plugin built with -buildmode=plugin.
func OpenPlugin(path string) (Module, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return goModule{p}, nil
}

type goModule struct {
	p *goplugin.Plugin
}

func (m goModule) Lookup(name string) (any, error) {
	sym, err := m.p.Lookup(name)
	return sym, err
}

// Option configures an [Adapter].
type Option func(*options)

type options struct {
	open   Opener
	logger *slog.Logger
}

// WithOpener sets the function used to open plugin modules. The default is
// [OpenPlugin].
func WithOpener(open Opener) Option {
	return func(o *options) { o.open = open }
}

// WithLogger sets the logger the adapter logs to. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{
		open:   OpenPlugin,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load loads the plugins in specs, in order.
//
// Every plugin is checked before any of them can run: it must export
// [plugin.EntrySymbol] with the right signature, have been built for the
// host's [plugin.APIVersion] and bridge layout, and declare only valid lints
// whose names are not declared by any other plugin. The first failure is
// returned as a *[LoadError].
func Load(specs []Spec, opts ...Option) (*Adapter, error) {
	o := newOptions(opts)
	a := newAdapter(o)
	for _, spec := range specs {
		info, module, err := open(o.open, spec)
		if err != nil {
			return nil, err
		}
		if err := a.register(spec, info, module); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// New builds an adapter from plugins linked into the host, in order. The
// same checks as [Load] apply.
func New(infos []*plugin.Info, opts ...Option) (*Adapter, error) {
	a := newAdapter(newOptions(opts))
	for _, info := range infos {
		spec := Spec{Name: "<static>"}
		if info != nil {
			spec.Name = info.Name
		}
		if err := a.register(spec, info, nil); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func open(opener Opener, spec Spec) (*plugin.Info, Module, error) {
	module, err := opener(spec.Path)
	if err != nil {
		return nil, nil, &LoadError{spec, fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	sym, err := module.Lookup(plugin.EntrySymbol)
	if err != nil {
		return nil, nil, &LoadError{spec, fmt.Errorf("%w: %w", ErrMissingEntry, err)}
	}
	entry, ok := sym.(func() *plugin.Info)
	if !ok {
		return nil, nil, &LoadError{spec, fmt.Errorf("%w: got %T", ErrBadEntry, sym)}
	}
	return entry(), module, nil
}

// check validates a plugin's description against the host.
func check(info *plugin.Info) error {
	switch {
	case info == nil:
		return fmt.Errorf("%w: entry point returned nil", ErrBadEntry)
	case info.APIVersion != plugin.APIVersion:
		return fmt.Errorf("%w: plugin has v%d, host has v%d", ErrVersion, info.APIVersion, plugin.APIVersion)
	case info.Layout != bridge.LayoutFingerprint():
		return fmt.Errorf("%w: plugin has %#x, host has %#x", ErrLayout, info.Layout, bridge.LayoutFingerprint())
	}
	for _, l := range info.Lints {
		if l == nil {
			return fmt.Errorf("%w: nil lint", ErrBadLint)
		}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrBadLint, err)
		}
	}
	return nil
}
