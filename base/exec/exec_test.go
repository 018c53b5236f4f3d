// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args, err := Args(`gzip -k "my file.gdml"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"gzip", "-k", "my file.gdml"}, args)

	_, err = Args("   ")
	assert.Error(t, err)
	_, err = Args(`echo "unterminated`)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	var out bytes.Buffer
	c := &Config{Env: map[string]string{"GDML_TEST": "set"}, Stdout: &out}
	require.NoError(t, c.Run("sh", "-c", "echo $GDML_TEST"))
	assert.Equal(t, "set\n", out.String())

	err := c.Run("sh", "-c", "exit 3")
	assert.ErrorContains(t, err, "exit status 3")
	args, err := Args("true")
	require.NoError(t, err)
	assert.NoError(t, c.Run(args[0], args[1:]...))
}
