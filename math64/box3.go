// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit solid geometry.

package math64

import "math"

// Box3 represents a 3D bounding box defined by two points:
// the point with minimum coordinates and the point with maximum coordinates.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// B3 returns a new [Box3] from the given minimum and maximum x, y, and z coordinates.
func B3(x0, y0, z0, x1, y1, z1 float64) Box3 {
	return Box3{Vec3(x0, y0, z0), Vec3(x1, y1, z1)}
}

// B3Empty returns a new empty [Box3] (min / max +/- Infinity).
func B3Empty() Box3 {
	return Box3{Vector3Scalar(math.Inf(1)), Vector3Scalar(math.Inf(-1))}
}

// B3Infinite returns a [Box3] spanning all of space.
func B3Infinite() Box3 {
	return Box3{Vector3Scalar(math.Inf(-1)), Vector3Scalar(math.Inf(1))}
}

// IsEmpty returns true if this bounding box is empty (max < min on any coord).
func (b Box3) IsEmpty() bool {
	return (b.Max.X < b.Min.X) || (b.Max.Y < b.Min.Y) || (b.Max.Z < b.Min.Z)
}

// IsFinite returns whether all bounds are finite.
func (b Box3) IsFinite() bool {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// ExpandByPoint returns the box expanded to include the given point.
func (b Box3) ExpandByPoint(p Vector3) Box3 {
	return Box3{b.Min.Min(p), b.Max.Max(p)}
}

// Center returns the center of the bounding box.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the vector from the minimum point to the maximum point.
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the volume of the box, zero if empty.
func (b Box3) Volume() float64 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return s.X * s.Y * s.Z
}

// ContainsPoint returns if this bounding box contains the specified point.
func (b Box3) ContainsPoint(point Vector3) bool {
	if point.X < b.Min.X || point.X > b.Max.X ||
		point.Y < b.Min.Y || point.Y > b.Max.Y ||
		point.Z < b.Min.Z || point.Z > b.Max.Z {
		return false
	}
	return true
}

// Intersect returns the intersection with other box.
func (b Box3) Intersect(other Box3) Box3 {
	return Box3{b.Min.Max(other.Min), b.Max.Min(other.Max)}
}

// Union returns the union with other box.
func (b Box3) Union(other Box3) Box3 {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return Box3{b.Min.Min(other.Min), b.Max.Max(other.Max)}
}

// Corners returns the eight corners of the box.
func (b Box3) Corners() [8]Vector3 {
	return [8]Vector3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
	}
}

// Transform returns the box spanning the corners of this box
// transformed by the given affine transform.
// Infinite or empty boxes are returned unchanged.
func (b Box3) Transform(a Affine) Box3 {
	if b.IsEmpty() || !b.IsFinite() {
		return b
	}
	nb := B3Empty()
	for _, c := range b.Corners() {
		nb = nb.ExpandByPoint(a.Apply(c))
	}
	return nb
}

// IsEqualTol returns whether both corners match within tol.
func (b Box3) IsEqualTol(other Box3, tol float64) bool {
	return b.Min.IsEqualTol(other.Min, tol) && b.Max.IsEqualTol(other.Max, tol)
}
