// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	lv, ok := ParseLevel("warn")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lv)
	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}

func TestNewLogger(t *testing.T) {
	prev := UserLevel
	defer func() { UserLevel = prev }()
	UserLevel = slog.LevelWarn

	var buf bytes.Buffer
	lg := NewLogger(&buf)
	lg.Info("hidden")
	lg.Warn("shown", "volume", "World")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "volume=World")
	assert.NotContains(t, out, "time=")
}
