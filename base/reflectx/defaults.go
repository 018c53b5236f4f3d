// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"fmt"
	"reflect"
	"strconv"
)

// SetFromDefaultTags sets the values of the fields of the given struct
// pointer from their `default:` struct tags, descending into nested
// struct fields. Fields without a default tag are left unchanged.
func SetFromDefaultTags(obj any) error {
	if reflect.ValueOf(obj).Kind() != reflect.Pointer {
		return fmt.Errorf("SetFromDefaultTags: expected a pointer, not %T", obj)
	}
	val := NonPointerValue(reflect.ValueOf(obj))
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("SetFromDefaultTags: expected a struct, not %v", val.Kind())
	}
	return setFromDefaultTags(val)
}

func setFromDefaultTags(val reflect.Value) error {
	typ := val.Type()
	var err error
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := val.Field(i)
		if f.Type.Kind() == reflect.Struct {
			if serr := setFromDefaultTags(fv); serr != nil {
				err = serr
			}
			continue
		}
		def, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		if serr := setString(fv, def); serr != nil {
			err = fmt.Errorf("SetFromDefaultTags: field %s of %s from %q: %w", f.Name, typ.Name(), def, serr)
		}
	}
	return err
}

// setString sets the value of a basic kind from its string form.
func setString(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(x)
	default:
		return fmt.Errorf("unsupported kind %v", v.Kind())
	}
	return nil
}
