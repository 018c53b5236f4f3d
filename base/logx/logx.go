// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx sets up structured logging for the gdml tools,
// with level labels colored for the current terminal.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown.
var UserLevel = defaultUserLevel

// ParseLevel returns the level for the given name (debug, info, warn, error),
// and false if the name is not recognized.
func ParseLevel(name string) (slog.Level, bool) {
	var lv slog.Level
	err := lv.UnmarshalText([]byte(strings.ToUpper(name)))
	return lv, err == nil
}

// NewLogger returns a logger writing to w at [UserLevel], with
// level labels colored according to the terminal capabilities of w.
func NewLogger(w io.Writer) *slog.Logger {
	out := termenv.NewOutput(w)
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelVar{},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				lv := a.Value.Any().(slog.Level)
				a.Value = slog.StringValue(colorLevel(out, lv))
			}
			return a
		},
	})
	return slog.New(h)
}

// SetDefault installs a logger writing to stderr as the slog default.
func SetDefault() {
	slog.SetDefault(NewLogger(os.Stderr))
}

// levelVar always reports the current UserLevel.
type levelVar struct{}

func (levelVar) Level() slog.Level { return UserLevel }

func colorLevel(out *termenv.Output, lv slog.Level) string {
	s := lv.String()
	switch {
	case lv >= slog.LevelError:
		return out.String(s).Foreground(out.Color("1")).Bold().String()
	case lv >= slog.LevelWarn:
		return out.String(s).Foreground(out.Color("3")).String()
	case lv >= slog.LevelInfo:
		return out.String(s).Foreground(out.Color("4")).String()
	}
	return out.String(s).Faint().String()
}
