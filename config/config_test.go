// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/gdml/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "eager", c.Import.Policy)
	assert.Equal(t, 2, c.Import.Depth)
	assert.Equal(t, "mm", c.Export.Lunit)
	assert.Equal(t, "deg", c.Export.Aunit)
	assert.False(t, c.Export.Split)
	require.NoError(t, c.Validate())

	p, err := c.Policy()
	require.NoError(t, err)
	assert.Equal(t, scene.EagerAll(), p)
	eo := c.ExportOptions()
	assert.Equal(t, "mm", eo.Lunit)
	assert.Equal(t, "deg", eo.Aunit)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gdml.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[import]
policy = "depth"
depth = 1

[export]
lunit = "cm"
split = true
compact = true
post_hook = "gzip -k {output}"
`), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "cm", c.Export.Lunit)
	assert.Equal(t, "deg", c.Export.Aunit)
	assert.True(t, c.Export.Split)
	assert.True(t, c.ExportOptions().Compact)
	assert.Equal(t, scene.EagerUpToDepth(1), c.SceneOptions().Policy)

	args, err := c.PostHookArgs("/tmp/out dir/det.gdml")
	require.NoError(t, err)
	assert.Equal(t, []string{"gzip", "-k", "/tmp/out dir/det.gdml"}, args)

	c.Export.PostHook = ""
	args, err = c.PostHookArgs("x")
	require.NoError(t, err)
	assert.Nil(t, args)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"unknown.toml": "[export]\nlength = \"cm\"\n",
		"policy.toml":  "[import]\npolicy = \"sometimes\"\n",
		"level.toml":   "[log]\nlevel = \"loud\"\n",
		"syntax.toml":  "[export\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Open(path)
		assert.Error(t, err, name)
	}
	_, err := Open(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	c := Defaults()
	c.Import.Policy = "lazy"
	c.Export.KeepUnits = true
	require.NoError(t, c.Save(path))

	c2, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, c, c2)
	assert.Equal(t, scene.LazyStub(), c2.SceneOptions().Policy)
}
