// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Box is a rectangular box spanning from the origin to Size.
type Box struct {
	Size math64.Vector3
}

func (bx *Box) Kind() string { return "Box" }

func (bx *Box) Bounds() math64.Box3 {
	return math64.Box3{Max: bx.Size}
}

func (bx *Box) Contains(p math64.Vector3) bool {
	return bx.Bounds().ContainsPoint(p)
}

func (bx *Box) Volume() float64 {
	return bx.Size.X * bx.Size.Y * bx.Size.Z
}

// Cylinder is a circular cylinder about the Z axis from z = 0 to Height.
type Cylinder struct {
	Radius float64
	Height float64
}

func (cy *Cylinder) Kind() string { return "Cylinder" }

func (cy *Cylinder) Bounds() math64.Box3 {
	r := cy.Radius
	return math64.B3(-r, -r, 0, r, r, cy.Height)
}

func (cy *Cylinder) Contains(p math64.Vector3) bool {
	if p.Z < 0 || p.Z > cy.Height {
		return false
	}
	return p.X*p.X+p.Y*p.Y <= cy.Radius*cy.Radius
}

func (cy *Cylinder) Volume() float64 {
	return math.Pi * cy.Radius * cy.Radius * cy.Height
}

// Cone is a circular cone frustum about the Z axis from z = 0, where the
// radius is Radius1, to Height, where the radius is Radius2.
// One of the radii may be zero.
type Cone struct {
	Radius1 float64
	Radius2 float64
	Height  float64
}

func (cn *Cone) Kind() string { return "Cone" }

func (cn *Cone) Bounds() math64.Box3 {
	r := math.Max(cn.Radius1, cn.Radius2)
	return math64.B3(-r, -r, 0, r, r, cn.Height)
}

// RadiusAt returns the radius of the cone at height z.
func (cn *Cone) RadiusAt(z float64) float64 {
	return cn.Radius1 + (cn.Radius2-cn.Radius1)*z/cn.Height
}

func (cn *Cone) Contains(p math64.Vector3) bool {
	if p.Z < 0 || p.Z > cn.Height {
		return false
	}
	r := cn.RadiusAt(p.Z)
	return p.X*p.X+p.Y*p.Y <= r*r
}

func (cn *Cone) Volume() float64 {
	r1, r2 := cn.Radius1, cn.Radius2
	return math.Pi * cn.Height * (r1*r1 + r1*r2 + r2*r2) / 3
}

// Sphere is a sphere centered at the origin.
type Sphere struct {
	Radius float64
}

func (sp *Sphere) Kind() string { return "Sphere" }

func (sp *Sphere) Bounds() math64.Box3 {
	r := sp.Radius
	return math64.B3(-r, -r, -r, r, r, r)
}

func (sp *Sphere) Contains(p math64.Vector3) bool {
	return p.Dot(p) <= sp.Radius*sp.Radius
}

func (sp *Sphere) Volume() float64 {
	return 4 * math.Pi * sp.Radius * sp.Radius * sp.Radius / 3
}

// Torus is a torus centered at the origin about the Z axis, with the
// tube of radius Minor swept along the circle of radius Major.
type Torus struct {
	Major float64
	Minor float64
}

func (tr *Torus) Kind() string { return "Torus" }

func (tr *Torus) Bounds() math64.Box3 {
	r := tr.Major + tr.Minor
	return math64.B3(-r, -r, -tr.Minor, r, r, tr.Minor)
}

func (tr *Torus) Contains(p math64.Vector3) bool {
	d := math.Hypot(p.X, p.Y) - tr.Major
	return d*d+p.Z*p.Z <= tr.Minor*tr.Minor
}

func (tr *Torus) Volume() float64 {
	return 2 * math.Pi * math.Pi * tr.Major * tr.Minor * tr.Minor
}

// HalfSpace is the unbounded region on the side of the plane through
// Point opposite to the outward Normal. It is used to cut other shapes.
type HalfSpace struct {
	Point  math64.Vector3
	Normal math64.Vector3
}

func (hs *HalfSpace) Kind() string { return "HalfSpace" }

// Bounds are infinite, except on the far side of a plane normal to an axis.
func (hs *HalfSpace) Bounds() math64.Box3 {
	b := math64.B3Infinite()
	n, p := hs.Normal, hs.Point
	switch {
	case n.Y == 0 && n.Z == 0 && n.X > 0:
		b.Max.X = p.X
	case n.Y == 0 && n.Z == 0 && n.X < 0:
		b.Min.X = p.X
	case n.X == 0 && n.Z == 0 && n.Y > 0:
		b.Max.Y = p.Y
	case n.X == 0 && n.Z == 0 && n.Y < 0:
		b.Min.Y = p.Y
	case n.X == 0 && n.Y == 0 && n.Z > 0:
		b.Max.Z = p.Z
	case n.X == 0 && n.Y == 0 && n.Z < 0:
		b.Min.Z = p.Z
	}
	return b
}

func (hs *HalfSpace) Contains(p math64.Vector3) bool {
	return hs.Normal.Dot(p.Sub(hs.Point)) <= 0
}
