// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonPointerType(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[int]()))
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[*int]()))
	assert.Equal(t, reflect.TypeFor[int](), NonPointerType(reflect.TypeFor[**int]()))
	assert.Equal(t, nil, NonPointerType(reflect.TypeOf(nil)))
}

func TestNonPointerValue(t *testing.T) {
	v := 1
	rv := reflect.ValueOf(v)
	assert.True(t, NonPointerValue(reflect.ValueOf(v)).Equal(rv))
	assert.True(t, NonPointerValue(reflect.ValueOf(&v)).Equal(rv))

	p := &v
	assert.True(t, NonPointerValue(reflect.ValueOf(&p)).Equal(rv))

	n := (*int)(nil)
	assert.False(t, NonPointerValue(reflect.ValueOf(n)).IsValid())
}

type tagged struct {
	A      float64 `gdml:"a,length"`
	B      int     `gdml:"b"`
	Skip   float64 `gdml:"-"`
	None   float64
	hidden float64 `gdml:"h"`
}

func TestTaggedFields(t *testing.T) {
	fs := TaggedFields(reflect.TypeFor[*tagged](), "gdml")
	if assert.Len(t, fs, 2) {
		assert.Equal(t, "a", fs[0].Name)
		assert.True(t, fs[0].HasOption("length"))
		assert.Equal(t, "A", fs[0].StructField.Name)
		assert.Equal(t, "b", fs[1].Name)
		assert.False(t, fs[1].HasOption("length"))
	}
	// cached
	assert.Equal(t, fs, TaggedFields(reflect.TypeFor[tagged](), "gdml"))
	assert.Empty(t, TaggedFields(reflect.TypeFor[int](), "gdml"))

	_ = tagged{}.hidden
}

func TestSetFromDefaultTags(t *testing.T) {
	type inner struct {
		Depth int     `default:"3"`
		Tol   float64 `default:"1e-9"`
	}
	type config struct {
		Unit    string `default:"mm"`
		Split   bool   `default:"true"`
		Keep    bool
		Inner   inner
		private string `default:"x"`
	}
	c := &config{Keep: true}
	assert.NoError(t, SetFromDefaultTags(c))
	assert.Equal(t, "mm", c.Unit)
	assert.True(t, c.Split)
	assert.True(t, c.Keep)
	assert.Equal(t, 3, c.Inner.Depth)
	assert.Equal(t, 1e-9, c.Inner.Tol)
	assert.Empty(t, c.private)

	type bad struct {
		N int `default:"many"`
	}
	assert.Error(t, SetFromDefaultTags(&bad{}))
	assert.Error(t, SetFromDefaultTags(config{}))
}
