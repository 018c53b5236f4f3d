// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package brep provides the solid shape model that GDML solids are built into.

A [Shape] is a closed, bounded region of space described exactly: analytic
primitives (boxes, cylinders, cones, spheres, tori), ruled solids between two
planar polygons ([Loft]), profiles revolved about the Z axis ([Revolution]),
closed triangle meshes ([Mesh]) and half-spaces, combined through affine
placement ([Transformed]) and the boolean operations union, subtraction and
intersection.

Primitives follow the construction conventions of a CAD kernel: boxes start at
the origin corner and cylinders and cones extend along +Z from z = 0; callers
re-center them as needed. Every shape classifies points exactly and reports
its axis-aligned bounds; primitives also report their exact volume, and other
shapes are measured by sampling (see [Measure]).
*/
package brep

import (
	"cogentcore.org/gdml/math64"
)

// Shape is the interface for all solid shapes.
type Shape interface {

	// Kind returns the name of the kind of shape, such as "Box" or "Union".
	Kind() string

	// Bounds returns the axis-aligned bounding box of the shape.
	// It may be larger than the shape, but never smaller.
	Bounds() math64.Box3

	// Contains returns whether the point is inside or on the boundary of the shape.
	Contains(p math64.Vector3) bool
}

// Volumer is implemented by shapes that know their exact volume.
type Volumer interface {
	Volume() float64
}

// Composite is implemented by shapes that are built from other shapes.
type Composite interface {
	Operands() []Shape
}

// DefaultResolution is the number of samples per axis used by [Volume]
// for shapes without an exact volume.
var DefaultResolution = 48

// Volume returns the volume of the shape: exact when the shape is a [Volumer],
// otherwise measured with [Measure] at [DefaultResolution].
func Volume(s Shape) float64 {
	if v, ok := s.(Volumer); ok {
		return v.Volume()
	}
	return Measure(s, DefaultResolution)
}

// Measure estimates the volume of the shape by classifying the centers of
// an n x n x n grid of cells over its bounds. Shapes with empty or
// infinite bounds measure zero.
func Measure(s Shape, n int) float64 {
	b := s.Bounds()
	if b.IsEmpty() || !b.IsFinite() || n <= 0 {
		return 0
	}
	sz := b.Size()
	step := sz.MulScalar(1 / float64(n))
	count := 0
	for i := 0; i < n; i++ {
		x := b.Min.X + (float64(i)+0.5)*step.X
		for j := 0; j < n; j++ {
			y := b.Min.Y + (float64(j)+0.5)*step.Y
			for k := 0; k < n; k++ {
				z := b.Min.Z + (float64(k)+0.5)*step.Z
				if s.Contains(math64.Vec3(x, y, z)) {
					count++
				}
			}
		}
	}
	return b.Volume() * float64(count) / float64(n*n*n)
}

// Walk calls fn for the shape and then, depth first and in order,
// for every shape it is built from. Walking stops below a shape for
// which fn returns false.
func Walk(s Shape, fn func(s Shape) bool) {
	if !fn(s) {
		return
	}
	if c, ok := s.(Composite); ok {
		for _, o := range c.Operands() {
			Walk(o, fn)
		}
	}
}

// Primitives returns the leaf shapes that s is built from, in order.
func Primitives(s Shape) []Shape {
	var prims []Shape
	Walk(s, func(sh Shape) bool {
		if _, ok := sh.(Composite); !ok {
			prims = append(prims, sh)
		}
		return true
	})
	return prims
}

// Height returns the Z extent of the shape bounds.
func Height(s Shape) float64 {
	b := s.Bounds()
	return b.Max.Z - b.Min.Z
}
