// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Loft is the ruled solid between the polygon Bottom in the plane z = Z0
// and the polygon Top in the plane z = Z1, where vertex i of Bottom is
// joined to vertex i of Top by a straight edge. The cross section at any
// height is the vertex-wise linear interpolation of the two polygons,
// so twisted side faces are represented exactly.
// Boxes, trapezoids, parallelepipeds, polygonal frustums and extrusion
// segments are all lofts.
type Loft struct {
	Bottom Polygon
	Top    Polygon
	Z0     float64
	Z1     float64
}

func (lf *Loft) Kind() string { return "Loft" }

func (lf *Loft) Bounds() math64.Box3 {
	b := math64.B3Empty()
	for _, p := range lf.Bottom {
		b = b.ExpandByPoint(math64.Vec3(p.X, p.Y, lf.Z0))
	}
	for _, p := range lf.Top {
		b = b.ExpandByPoint(math64.Vec3(p.X, p.Y, lf.Z1))
	}
	return b
}

// Section returns the cross-section polygon at parameter t in [0, 1].
func (lf *Loft) Section(t float64) Polygon {
	pg := make(Polygon, len(lf.Bottom))
	for i := range pg {
		pg[i] = lf.Bottom[i].Lerp(lf.Top[i], t)
	}
	return pg
}

func (lf *Loft) Contains(p math64.Vector3) bool {
	lo, hi := math.Min(lf.Z0, lf.Z1), math.Max(lf.Z0, lf.Z1)
	if p.Z < lo || p.Z > hi {
		return false
	}
	t := (p.Z - lf.Z0) / (lf.Z1 - lf.Z0)
	return lf.Section(t).Contains(math64.Vec2(p.X, p.Y))
}

// Volume integrates the section area, which is quadratic in height,
// exactly with Simpson's rule.
func (lf *Loft) Volume() float64 {
	h := math.Abs(lf.Z1 - lf.Z0)
	return h * (lf.Section(0).Area() + 4*lf.Section(0.5).Area() + lf.Section(1).Area()) / 6
}

// Prism returns the loft with the same polygon at both ends.
func Prism(pg Polygon, z0, z1 float64) *Loft {
	return &Loft{Bottom: pg, Top: pg, Z0: z0, Z1: z1}
}
