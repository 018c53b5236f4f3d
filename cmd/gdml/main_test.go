// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"cogentcore.org/gdml/config"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const samplePath = "../../gdml/testdata/sample.gdml"

const dangling = `<?xml version="1.0"?>
<gdml>
<solids><box name="w" x="100" y="100" z="100"/></solids>
<structure>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
<physvol name="bad"><volumeref ref="Missing"/></physvol>
</volume>
</structure>
<setup name="Default" version="1.0"><world ref="W"/></setup>
</gdml>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.gdml")
	require.NoError(t, convert(config.Defaults(), samplePath, out))
	doc, err := gdml.ReadFile(out)
	require.NoError(t, err)
	w, err := doc.World()
	require.NoError(t, err)
	assert.Equal(t, "World", w.Name)

	bad := writeFile(t, dir, "bad.gdml", dangling)
	out2 := filepath.Join(dir, "out2.gdml")
	assert.Error(t, convert(config.Defaults(), bad, out2))
	assert.NoFileExists(t, out2)

	assert.Error(t, convert(config.Defaults(), filepath.Join(dir, "missing.gdml"), out2))
}

func TestPostHook(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs cp")
	}
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Export.PostHook = "cp {output} {output}.bak"
	out := filepath.Join(dir, "out.gdml")
	require.NoError(t, convert(cfg, samplePath, out))
	assert.FileExists(t, out+".bak")

	cfg.Export.PostHook = "false"
	assert.Error(t, convert(cfg, samplePath, out))
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, info(&buf, config.Defaults(), samplePath))
	var s scene.Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &s))
	assert.Equal(t, "World", s.World)
	assert.Equal(t, 1, s.Links)
	assert.Equal(t, 4, s.Nodes)
	assert.Len(t, s.Solids, 3)

	bad := writeFile(t, t.TempDir(), "bad.gdml", dangling)
	buf.Reset()
	assert.Error(t, info(&buf, config.Defaults(), bad))
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &s))
	require.Len(t, s.Errors, 1)
	assert.Contains(t, s.Errors[0], "/W/bad")
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.toml", "[import]\npolicy = \"lazy\"\n")

	var buf bytes.Buffer
	root := newRoot()
	root.SetOut(&buf)
	root.SetArgs([]string{"info", "--config", cfgFile, samplePath})
	require.NoError(t, root.Execute())
	var s scene.Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &s))
	assert.Equal(t, 1, s.Stubs)

	out := filepath.Join(dir, "split.gdml")
	root = newRoot()
	root.SetArgs([]string{"convert", "--config", cfgFile, "--split", "--lunit", "cm", samplePath, out})
	require.NoError(t, root.Execute())
	assert.FileExists(t, filepath.Join(dir, "split_solids.xml"))

	root = newRoot()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"convert", "--config", cfgFile, "--policy", "sometimes", samplePath, out})
	assert.Error(t, root.Execute())

	root = newRoot()
	root.SetArgs([]string{"convert", "--config", cfgFile, samplePath})
	assert.Error(t, root.Execute())
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	input := writeFile(t, dir, "in.gdml", string(data))
	out := filepath.Join(dir, "out.gdml")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 8)
	stopped := make(chan error, 1)
	go func() {
		stopped <- watch(ctx, config.Defaults(), input, out, func(err error) { done <- err })
	}()
	wait := func() error {
		select {
		case err := <-done:
			return err
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for conversion")
		}
		return nil
	}
	require.NoError(t, wait())
	assert.FileExists(t, out)

	require.NoError(t, os.WriteFile(input, []byte(dangling), 0o644))
	assert.Error(t, wait())

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}
