// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"

	"cogentcore.org/gdml/base/exec"
	"cogentcore.org/gdml/config"
	"cogentcore.org/gdml/export"
	"cogentcore.org/gdml/scene"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input.gdml> <output.gdml>",
		Short: "Load a GDML file into a scene graph and export it again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(a.cfg, args[0], args[1])
		},
	}
}

// load builds the scene graph of the input file. Volumes that failed
// to build are logged, and fail the load.
func load(cfg *config.Config, input string) (*scene.Graph, error) {
	g, err := scene.Load(input, cfg.SceneOptions())
	if err != nil {
		return nil, err
	}
	if n := len(g.Errors); n > 0 {
		return g, fmt.Errorf("%s: %d placement(s) could not be built", input, n)
	}
	return g, nil
}

// convert loads the input file and exports it to the output file,
// then runs the post-export hook.
func convert(cfg *config.Config, input, output string) error {
	g, err := load(cfg, input)
	if err != nil {
		return err
	}
	if err := export.File(output, g, nil, cfg.ExportOptions()); err != nil {
		return err
	}
	args, err := cfg.PostHookArgs(output)
	if err != nil || args == nil {
		return err
	}
	slog.Info("running post-export hook", "cmd", args)
	return exec.Standard().Run(args[0], args[1:]...)
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.gdml>",
		Short: "Print a YAML summary of the scene graph of a GDML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return info(cmd.OutOrStdout(), a.cfg, args[0])
		},
	}
}

// info writes the summary of the scene graph of the input file.
func info(w io.Writer, cfg *config.Config, input string) error {
	g, lerr := load(cfg, input)
	if g == nil {
		return lerr
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.Summary()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return lerr
}
