// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"math"
	"reflect"
	"strconv"

	"cogentcore.org/gdml/base/reflectx"
	"cogentcore.org/gdml/units"
)

// attrError is an attribute error without element context,
// which the reader fills in.
type attrError struct {
	attr string
	err  error
}

func (e *attrError) Error() string { return e.attr + ": " + e.err.Error() }
func (e *attrError) Unwrap() error { return e.err }

// hasUnits reports whether the tagged fields of v include lengths and angles.
func hasUnits(v any) (length, angle bool) {
	for _, f := range reflectx.TaggedFields(reflect.TypeOf(v), "gdml") {
		length = length || f.HasOption("length")
		angle = angle || f.HasOption("angle")
	}
	return
}

// decodeAttrs sets the tagged fields of the struct pointed to by v from
// the attributes of el, evaluating expressions with eval and converting
// lengths to millimeters and angles to degrees. Absent attributes leave
// their fields unchanged.
func decodeAttrs(el *Element, v any, lunit, aunit string, eval func(string) (float64, error)) error {
	rv := reflectx.NonPointerValue(reflect.ValueOf(v))
	for _, f := range reflectx.TaggedFields(rv.Type(), "gdml") {
		s, ok := el.Attr(f.Name)
		if !ok {
			continue
		}
		x, err := eval(s)
		if err != nil {
			return &attrError{f.Name, err}
		}
		switch {
		case f.HasOption("length"):
			x, err = units.ToMillimeters(x, lunit)
		case f.HasOption("angle"):
			x, err = units.ToDegrees(x, aunit)
		}
		if err != nil {
			return &attrError{f.Name, err}
		}
		fv := rv.FieldByIndex(f.Index)
		if fv.Kind() == reflect.Int {
			fv.SetInt(int64(math.Round(x)))
		} else {
			fv.SetFloat(x)
		}
	}
	return nil
}

// encodeAttrs sets the attributes of el from the tagged fields of v,
// converting lengths and angles to the given units.
func encodeAttrs(el *Element, v any, lunit, aunit string) error {
	rv := reflectx.NonPointerValue(reflect.ValueOf(v))
	for _, f := range reflectx.TaggedFields(rv.Type(), "gdml") {
		fv := rv.FieldByIndex(f.Index)
		if fv.Kind() == reflect.Int {
			el.SetAttr(f.Name, strconv.FormatInt(fv.Int(), 10))
			continue
		}
		x := fv.Float()
		var err error
		switch {
		case f.HasOption("length"):
			x, err = units.FromMillimeters(x, lunit)
		case f.HasOption("angle"):
			x, err = units.FromDegrees(x, aunit)
		}
		if err != nil {
			return &attrError{f.Name, err}
		}
		el.SetAttr(f.Name, FormatFloat(x))
	}
	return nil
}

// FormatFloat formats a number for a GDML attribute, in the shortest
// form that parses back to the same value.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e-5 && a < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// lengthAttr evaluates an optional length attribute to millimeters.
func lengthAttr(el *Element, name, lunit string, eval func(string) (float64, error)) (float64, bool, error) {
	s, ok := el.Attr(name)
	if !ok {
		return 0, false, nil
	}
	x, err := eval(s)
	if err == nil {
		x, err = units.ToMillimeters(x, lunit)
	}
	if err != nil {
		return 0, true, &attrError{name, err}
	}
	return x, true, nil
}

// numberAttr evaluates an optional plain number attribute.
func numberAttr(el *Element, name string, eval func(string) (float64, error)) (float64, bool, error) {
	s, ok := el.Attr(name)
	if !ok {
		return 0, false, nil
	}
	x, err := eval(s)
	if err != nil {
		return 0, true, &attrError{name, err}
	}
	return x, true, nil
}
