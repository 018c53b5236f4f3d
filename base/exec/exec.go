// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Adapted in part from: https://github.com/magefile/mage
// Copyright presumably by Nate Finch, primary contributor
// Apache License, Version 2.0, January 2004

// Package exec runs external commands given as shell-style command
// lines, such as the post-export hook of the gdml tool.
package exec

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Config contains the configuration for running commands.
type Config struct {

	// Dir is the directory to run commands in; empty is the current directory.
	Dir string

	// Env holds additional environment variables for the commands.
	Env map[string]string

	// Stdout is the writer for the standard output of commands;
	// nil discards it.
	Stdout io.Writer

	// Stderr is the writer for the standard error of commands;
	// nil discards it.
	Stderr io.Writer
}

// Standard returns a config writing to the standard output and error.
func Standard() *Config {
	return &Config{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Args returns the command line parsed into separate args
// with shell quoting rules.
func Args(cstr string) ([]string, error) {
	args, err := shellwords.Parse(cstr)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("command %q was not parsed correctly into content", cstr)
	}
	return args, nil
}

// Run runs the given command with the given arguments,
// waiting for it to complete.
func (c *Config) Run(cmd string, args ...string) error {
	cm := exec.Command(cmd, args...)
	cm.Dir = c.Dir
	cm.Stdout = c.Stdout
	cm.Stderr = c.Stderr
	if len(c.Env) > 0 {
		cm.Env = os.Environ()
		for k, v := range c.Env {
			cm.Env = append(cm.Env, k+"="+v)
		}
	}
	slog.Debug("exec: running", "cmd", cm.String(), "dir", c.Dir)
	if err := cm.Run(); err != nil {
		return fmt.Errorf("running %q: %w", cm.String(), err)
	}
	return nil
}
