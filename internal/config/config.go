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

// Package config loads the settings of the lintbridge command.
//
// Settings come from, in increasing order of precedence: built-in defaults,
// a YAML file, LINTBRIDGE_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/bufbuild/lintbridge/adapter"
	"github.com/bufbuild/lintbridge/lint"
)

const (
	// FileName is the configuration file looked for in the working directory
	// when none is given explicitly.
	FileName = ".lintbridge.yaml"
	// EnvPrefix starts every environment variable that sets a field.
	EnvPrefix = "LINTBRIDGE_"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalid is wrapped by every error about a bad setting.
var ErrInvalid = errors.New("invalid configuration")

// Config is the loaded configuration.
type Config struct {
	// The plugins to load, after glob expansion.
	Plugins []adapter.Spec
	// Level overrides, keyed by lint name or doublestar pattern.
	Levels map[string]lint.Level
	// Whether to analyze test files too.
	Tests    bool
	Format   string
	Color    string
	LogLevel slog.Level

	// The configuration file that was read, if any.
	File string
}

// raw is the shape configuration is decoded into before validation.
type raw struct {
	Plugins  []adapter.Spec    `koanf:"plugins"`
	Levels   map[string]string `koanf:"levels"`
	Tests    bool              `koanf:"tests"`
	Format   string            `koanf:"format"`
	Color    string            `koanf:"color"`
	LogLevel string            `koanf:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		"tests":     false,
		"format":    FormatText,
		"color":     ColorAuto,
		"log_level": "warn",
	}
}

// Flags registers the flags Load reads on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "configuration file (default "+FileName+" if present)")
	fs.StringArray("plugin", nil, "plugin to load, as name=path or path; path may be a glob (repeatable)")
	fs.StringToString("level", nil, "override a lint level, as pattern=level (repeatable)")
	fs.Bool("tests", false, "also analyze test files")
	fs.String("format", FormatText, "output format: text, json or yaml")
	fs.String("color", ColorAuto, "colorize output: auto, always or never")
	fs.String("log-level", "warn", "log level: debug, info, warn or error")
}

// Load reads the configuration. fs may be nil; otherwise only the flags that
// were set on the command line are applied.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	path, err := findFile(fs)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// LINTBRIDGE_LOG_LEVEL -> log_level.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "config":
				return "", nil
			case "plugin":
				list, _ := fs.GetStringArray(f.Name)
				return "plugins", strings.Join(list, string(os.PathListSeparator))
			case "level":
				levels, _ := fs.GetStringToString(f.Name)
				m := make(map[string]any, len(levels))
				for pattern, level := range levels {
					m[pattern] = level
				}
				return "levels", m
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	// The environment and flags give plugins as a path list rather than as a
	// list of objects.
	if list, ok := k.Get("plugins").(string); ok {
		specs, err := ParsePluginList(list)
		if err != nil {
			return nil, err
		}
		entries := make([]any, 0, len(specs))
		for _, spec := range specs {
			entries = append(entries, map[string]any{"name": spec.Name, "path": spec.Path})
		}
		k.Delete("plugins")
		if err := k.Set("plugins", entries); err != nil {
			return nil, fmt.Errorf("setting plugins: %w", err)
		}
	}

	var r raw
	if err := k.Unmarshal("", &r); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg, err := r.validate()
	if err != nil {
		return nil, err
	}
	cfg.File = path
	return cfg, nil
}

// findFile returns the configuration file to read: the one named by the
// --config flag, or FileName if it exists.
func findFile(fs *pflag.FlagSet) (string, error) {
	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if _, err := os.Stat(path); err != nil {
				return "", fmt.Errorf("config file: %w", err)
			}
			return path, nil
		}
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}
	return "", nil
}

func (r *raw) validate() (*Config, error) {
	cfg := &Config{
		Tests:  r.Tests,
		Format: strings.ToLower(r.Format),
		Color:  strings.ToLower(r.Color),
	}

	if !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, cfg.Format) {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalid, r.Format)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, cfg.Color) {
		return nil, fmt.Errorf("%w: unknown color mode %q", ErrInvalid, r.Color)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return nil, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}

	if len(r.Levels) > 0 {
		cfg.Levels = make(map[string]lint.Level, len(r.Levels))
	}
	for pattern, name := range r.Levels {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: levels: bad pattern %q", ErrInvalid, pattern)
		}
		level, err := lint.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("%w: levels.%s: %w", ErrInvalid, pattern, err)
		}
		cfg.Levels[pattern] = level
	}

	for _, spec := range r.Plugins {
		if spec.Path == "" {
			return nil, fmt.Errorf("%w: plugin %q has no path", ErrInvalid, spec.Name)
		}
		specs, err := expand(spec)
		if err != nil {
			return nil, err
		}
		cfg.Plugins = append(cfg.Plugins, specs...)
	}
	return cfg, nil
}

// ParsePluginList parses a list of plugins separated by the OS path list
// separator, as in the LINTBRIDGE_PLUGINS environment variable. Each entry is
// name=path, or just a path, in which case the plugin is named after the
// file. Empty entries are ignored.
func ParsePluginList(list string) ([]adapter.Spec, error) {
	var specs []adapter.Spec
	for _, entry := range filepath.SplitList(list) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, path, ok := strings.Cut(entry, "=")
		if !ok {
			name, path = "", entry
		}
		if path == "" {
			return nil, fmt.Errorf("%w: plugin entry %q has no path", ErrInvalid, entry)
		}
		specs = append(specs, adapter.Spec{Name: name, Path: path})
	}
	return specs, nil
}

// expand replaces a plugin whose path is a glob with one plugin per matching
// file, in lexical order. A glob that matches nothing is an error.
func expand(spec adapter.Spec) ([]adapter.Spec, error) {
	if !strings.ContainsAny(spec.Path, "*?[{") {
		if spec.Name == "" {
			spec.Name = nameOf(spec.Path)
		}
		return []adapter.Spec{spec}, nil
	}

	if !doublestar.ValidatePathPattern(spec.Path) {
		return nil, fmt.Errorf("%w: bad plugin glob %q", ErrInvalid, spec.Path)
	}
	paths, err := doublestar.FilepathGlob(spec.Path, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding plugin glob %q: %w", spec.Path, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: plugin glob %q matches no files", ErrInvalid, spec.Path)
	}
	slices.Sort(paths)

	specs := make([]adapter.Spec, 0, len(paths))
	for _, path := range paths {
		name := nameOf(path)
		if spec.Name != "" && len(paths) > 1 {
			name = spec.Name + "/" + name
		} else if spec.Name != "" {
			name = spec.Name
		}
		specs = append(specs, adapter.Spec{Name: name, Path: path})
	}
	return specs, nil
}

// nameOf names a plugin after its file, without the extension.
func nameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
