// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package units converts GDML length (lunit) and angle (aunit) values
to and from the canonical units used in memory: millimeters and degrees.

Length units are matched exactly. For angle units only the first three
characters are significant, so "radians" and "degrees" are accepted.
An unknown unit is an error; no unit is silently treated as a factor of 1.
*/
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnsupportedUnit is returned for a length or angle unit that is not supported.
var ErrUnsupportedUnit = errors.New("unsupported unit")

// Length is a GDML length unit.
type Length int32

const (
	// Millimeter is the canonical length unit, and the GDML default lunit.
	Millimeter Length = iota
	Nanometer
	Micrometer
	Centimeter
	Decimeter
	Meter
	Kilometer
)

// lengthInfo holds the lunit spelling and millimeter factor of each [Length].
var lengthInfo = [...]struct {
	name string
	mm   float64
}{
	Millimeter: {"mm", 1},
	Nanometer:  {"nm", 1e-6},
	Micrometer: {"um", 0.001},
	Centimeter: {"cm", 10},
	Decimeter:  {"dm", 100},
	Meter:      {"m", 1000},
	Kilometer:  {"km", 1e6},
}

// String returns the lunit spelling of the unit.
func (l Length) String() string {
	if l < 0 || int(l) >= len(lengthInfo) {
		return fmt.Sprintf("Length(%d)", int32(l))
	}
	return lengthInfo[l].name
}

// Factor returns the number of millimeters in one unit.
func (l Length) Factor() float64 {
	return lengthInfo[l].mm
}

// ParseLength returns the [Length] for the given lunit string.
// An empty string is the GDML default, millimeters.
func ParseLength(lunit string) (Length, error) {
	s := strings.TrimSpace(lunit)
	if s == "" {
		return Millimeter, nil
	}
	for l, li := range lengthInfo {
		if li.name == s {
			return Length(l), nil
		}
	}
	return Millimeter, fmt.Errorf("units: lunit %q: %w", lunit, ErrUnsupportedUnit)
}

// ToMillimeters converts the value in the given lunit to millimeters.
func ToMillimeters(v float64, lunit string) (float64, error) {
	l, err := ParseLength(lunit)
	if err != nil {
		return 0, err
	}
	return v * l.Factor(), nil
}

// FromMillimeters converts the value in millimeters to the given lunit.
func FromMillimeters(v float64, lunit string) (float64, error) {
	l, err := ParseLength(lunit)
	if err != nil {
		return 0, err
	}
	return v / l.Factor(), nil
}

// Angle is a GDML angle unit.
type Angle int32

const (
	// Radian is the GDML schema default aunit.
	Radian Angle = iota

	// Degree is the canonical angle unit used in memory.
	Degree
)

// String returns the aunit spelling of the unit.
func (a Angle) String() string {
	switch a {
	case Radian:
		return "rad"
	case Degree:
		return "deg"
	}
	return fmt.Sprintf("Angle(%d)", int32(a))
}

// ParseAngle returns the [Angle] for the given aunit string,
// matching only its first three characters.
// An empty string is the GDML schema default, radians.
func ParseAngle(aunit string) (Angle, error) {
	s := strings.TrimSpace(aunit)
	if s == "" {
		return Radian, nil
	}
	if len(s) > 3 {
		s = s[:3]
	}
	switch s {
	case "rad":
		return Radian, nil
	case "deg":
		return Degree, nil
	}
	return Radian, fmt.Errorf("units: aunit %q: %w", aunit, ErrUnsupportedUnit)
}

// ToDegrees converts the angle in the given aunit to degrees.
func ToDegrees(v float64, aunit string) (float64, error) {
	a, err := ParseAngle(aunit)
	if err != nil {
		return 0, err
	}
	if a == Radian {
		return v * 180 / math.Pi, nil
	}
	return v, nil
}

// ToRadians converts the angle in the given aunit to radians.
func ToRadians(v float64, aunit string) (float64, error) {
	a, err := ParseAngle(aunit)
	if err != nil {
		return 0, err
	}
	if a == Degree {
		return v * math.Pi / 180, nil
	}
	return v, nil
}

// FromDegrees converts the angle in degrees to the given aunit.
func FromDegrees(v float64, aunit string) (float64, error) {
	a, err := ParseAngle(aunit)
	if err != nil {
		return 0, err
	}
	if a == Radian {
		return v * math.Pi / 180, nil
	}
	return v, nil
}

// CheckFullCircle returns whether the angle v, expressed in aunit,
// is exactly a full circle: 360 in degrees or 2π in radians.
// The comparison is exact equality, so angles derived from expressions
// that round imprecisely are not treated as full circles.
// An unsupported aunit is never a full circle.
func CheckFullCircle(aunit string, v float64) bool {
	a, err := ParseAngle(aunit)
	if err != nil {
		return false
	}
	if a == Degree {
		return v == 360
	}
	return v == 2*math.Pi
}
