// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reflectx provides helpers for navigating pointers and
// tagged struct fields within the reflect system.
package reflectx

import (
	"reflect"
	"strings"
	"sync"
)

// NonPointerType returns a non-pointer version of the given type.
func NonPointerType(typ reflect.Type) reflect.Type {
	if typ == nil {
		return typ
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

// NonPointerValue returns a non-pointer version of the given value.
func NonPointerValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}

// TaggedField is a struct field with a tag of the form `key:"name,opt,..."`.
type TaggedField struct {
	reflect.StructField

	// Name is the first element of the tag.
	Name string

	// Options are the remaining comma-separated elements of the tag.
	Options []string
}

// HasOption returns whether the tag has the given option.
func (tf *TaggedField) HasOption(opt string) bool {
	for _, o := range tf.Options {
		if o == opt {
			return true
		}
	}
	return false
}

type fieldsKey struct {
	typ reflect.Type
	key string
}

var fieldsCache sync.Map

// TaggedFields returns the exported fields of the struct type (or pointer
// to struct type) that have a tag with the given key, in declaration order.
// Fields tagged "-" are skipped. Results are cached per type and key.
func TaggedFields(typ reflect.Type, key string) []TaggedField {
	typ = NonPointerType(typ)
	ck := fieldsKey{typ, key}
	if fs, ok := fieldsCache.Load(ck); ok {
		return fs.([]TaggedField)
	}
	var fs []TaggedField
	if typ.Kind() == reflect.Struct {
		for i := range typ.NumField() {
			f := typ.Field(i)
			tag, ok := f.Tag.Lookup(key)
			if !ok || tag == "-" || !f.IsExported() {
				continue
			}
			parts := strings.Split(tag, ",")
			fs = append(fs, TaggedField{StructField: f, Name: parts[0], Options: parts[1:]})
		}
	}
	fieldsCache.Store(ck, fs)
	return fs
}
