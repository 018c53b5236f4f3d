// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMillimeters(t *testing.T) {
	tests := map[string]float64{
		"mm": 1,
		"cm": 10,
		"m":  1000,
		"um": 0.001,
		"nm": 1e-6,
		"dm": 100,
		"km": 1e6,
		"":   1,
	}
	for unit, want := range tests {
		got, err := ToMillimeters(1, unit)
		require.NoError(t, err, unit)
		assert.Equal(t, want, got, unit)
		back, err := FromMillimeters(got, unit)
		require.NoError(t, err)
		assert.InDelta(t, 1, back, 1e-12, unit)
	}
}

func TestUnsupportedLength(t *testing.T) {
	_, err := ToMillimeters(5, "unknown")
	assert.ErrorIs(t, err, ErrUnsupportedUnit)
	assert.Contains(t, err.Error(), `"unknown"`)
	_, err = ParseLength("inch")
	assert.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestAngles(t *testing.T) {
	d, err := ToDegrees(math.Pi, "rad")
	require.NoError(t, err)
	assert.InDelta(t, 180, d, 1e-12)

	d, err = ToDegrees(90, "degrees")
	require.NoError(t, err)
	assert.Equal(t, 90.0, d)

	r, err := ToRadians(180, "degree")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, r, 1e-12)

	r, err = ToRadians(1, "radians")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)

	d, err = ToDegrees(math.Pi/2, "")
	require.NoError(t, err)
	assert.InDelta(t, 90, d, 1e-12)

	v, err := FromDegrees(180, "rad")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, v, 1e-12)

	_, err = ToDegrees(1, "grad")
	assert.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestCheckFullCircle(t *testing.T) {
	assert.True(t, CheckFullCircle("deg", 360))
	assert.True(t, CheckFullCircle("rad", 2*math.Pi))
	assert.True(t, CheckFullCircle("degree", 360))
	assert.False(t, CheckFullCircle("deg", 359.999))
	assert.False(t, CheckFullCircle("rad", 6.283))
	assert.False(t, CheckFullCircle("rad", 360))
	assert.False(t, CheckFullCircle("bogus", 360))
}

func TestString(t *testing.T) {
	assert.Equal(t, "cm", Centimeter.String())
	assert.Equal(t, "deg", Degree.String())
	assert.Equal(t, 1000.0, Meter.Factor())
}
