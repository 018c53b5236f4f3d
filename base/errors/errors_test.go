// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func logCaller() error {
	return Log(errors.New("conversion failed"))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(old)

	assert.NoError(t, Log(nil))
	assert.Empty(t, buf.String())

	err := logCaller()
	assert.EqualError(t, err, "conversion failed")
	assert.Contains(t, buf.String(), "conversion failed | ")
	assert.Contains(t, buf.String(), "errors_test.go:")
}
