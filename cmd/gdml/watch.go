// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"cogentcore.org/gdml/base/errors"
	"cogentcore.org/gdml/config"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// settleDelay is how long the input must be unchanged before it is
// converted again, so that editors saving in several steps trigger one
// conversion.
const settleDelay = 200 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <input.gdml> <output.gdml>",
		Short: "Convert a GDML file again each time it changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return watch(ctx, a.cfg, args[0], args[1], nil)
		},
	}
}

// watch converts the input to the output, and again after every change
// to the input, until the context is done. The directory of the input
// is watched so that files replaced by rename are followed. Conversion
// errors are logged and do not stop watching. done, if non-nil, is
// called after each conversion.
func watch(ctx context.Context, cfg *config.Config, input, output string, done func(error)) error {
	input, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(input)); err != nil {
		return err
	}
	run := func() {
		err := errors.Log(convert(cfg, input, output))
		if err == nil {
			slog.Info("converted", "input", input, "output", output)
		}
		if done != nil {
			done(err)
		}
	}
	run()
	timer := time.NewTimer(settleDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(settleDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		case <-timer.C:
			run()
		}
	}
}
