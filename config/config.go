// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the gdml tool,
// read from a TOML file with defaults from struct tags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/gdml/base/exec"
	"cogentcore.org/gdml/base/logx"
	"cogentcore.org/gdml/base/reflectx"
	"cogentcore.org/gdml/export"
	"cogentcore.org/gdml/scene"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the config file used when none is given.
const DefaultFile = "~/.config/gdml/config.toml"

// OutputVar is replaced by the output path in [Export.PostHook].
const OutputVar = "{output}"

// Config is the configuration of the gdml tool.
type Config struct {

	// Log configures logging.
	Log Log `toml:"log"`

	// Import configures how documents are loaded into a scene graph.
	Import Import `toml:"import"`

	// Export configures how scene graphs are written.
	Export Export `toml:"export"`
}

// Log is the logging configuration.
type Log struct {

	// Level is the minimum level of logged messages:
	// debug, info, warn or error.
	Level string `toml:"level" default:"info"`
}

// Import is the import configuration.
type Import struct {

	// Policy is the expansion policy: eager, lazy or depth.
	Policy string `toml:"policy" default:"eager"`

	// Depth is the deepest realized nesting level for the depth policy.
	Depth int `toml:"depth" default:"2"`

	// AbortOnError stops loading at the first volume that fails to build.
	AbortOnError bool `toml:"abort_on_error"`
}

// Export is the export configuration.
type Export struct {
	Lunit string `toml:"lunit" default:"mm"`
	Aunit string `toml:"aunit" default:"deg"`

	// KeepUnits writes solids in the units they were read with.
	KeepUnits bool `toml:"keep_units"`

	// Split writes each section to its own file.
	Split bool `toml:"split"`

	// Compact writes the output without indentation.
	Compact bool `toml:"compact"`

	// PostHook is a command line run after a file is exported, with
	// {output} replaced by the output path.
	PostHook string `toml:"post_hook"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	c := &Config{}
	if err := reflectx.SetFromDefaultTags(c); err != nil {
		panic(err)
	}
	return c
}

// Open reads the configuration from the TOML file at path, after
// expanding a leading ~. Settings absent from the file keep their
// default values.
func Open(path string) (*Config, error) {
	c := Defaults()
	fp, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("config %s: %w", fp, err)
	}
	return c, c.Validate()
}

// Load reads the configuration from path, or from [DefaultFile] if path
// is empty. A missing default file yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return Open(path)
	}
	c, err := Open(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config: no config file, using defaults", "file", DefaultFile)
		return Defaults(), nil
	}
	return c, err
}

// Save writes the configuration to the TOML file at path,
// creating its directory if needed.
func (c *Config) Save(path string) error {
	fp, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fp, data, 0o644)
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, ok := logx.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Apply sets the logging level of the configuration.
func (c *Config) Apply() {
	if lv, ok := logx.ParseLevel(c.Log.Level); ok {
		logx.UserLevel = lv
	}
}

// Policy returns the expansion policy of the import configuration.
func (c *Config) Policy() (scene.ExpansionPolicy, error) {
	switch strings.ToLower(c.Import.Policy) {
	case "", "eager":
		return scene.EagerAll(), nil
	case "lazy":
		return scene.LazyStub(), nil
	case "depth":
		if c.Import.Depth < 0 {
			return scene.ExpansionPolicy{}, fmt.Errorf("config: negative import depth %d", c.Import.Depth)
		}
		return scene.EagerUpToDepth(c.Import.Depth), nil
	}
	return scene.ExpansionPolicy{}, fmt.Errorf("config: unknown import policy %q", c.Import.Policy)
}

// SceneOptions returns the options for building scene graphs.
func (c *Config) SceneOptions() scene.Options {
	p, _ := c.Policy()
	return scene.Options{Policy: p, AbortOnError: c.Import.AbortOnError}
}

// ExportOptions returns the options for exporting scene graphs.
func (c *Config) ExportOptions() *export.Options {
	return &export.Options{Lunit: c.Export.Lunit, Aunit: c.Export.Aunit, KeepUnits: c.Export.KeepUnits, Split: c.Export.Split, Compact: c.Export.Compact}
}

// PostHookArgs returns the post-export hook command for the output path,
// split into arguments, or nil if there is no hook.
func (c *Config) PostHookArgs(output string) ([]string, error) {
	if strings.TrimSpace(c.Export.PostHook) == "" {
		return nil, nil
	}
	args, err := exec.Args(c.Export.PostHook)
	if err != nil {
		return nil, fmt.Errorf("config: post_hook: %w", err)
	}
	for i, a := range args {
		args[i] = strings.ReplaceAll(a, OutputVar, output)
	}
	return args, nil
}
