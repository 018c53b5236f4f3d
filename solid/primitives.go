// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/units"
)

// isFullCircle returns whether deltaphi, in degrees, is a full circle,
// either exactly 360 degrees or exactly 2π in the aunit of the solid.
// Sweeps beyond a full circle are also full.
func isFullCircle(s *gdml.Solid, deltaphi float64) bool {
	if deltaphi >= 360 {
		return true
	}
	v, err := units.FromDegrees(deltaphi, s.Aunit)
	return err == nil && units.CheckFullCircle(s.Aunit, v)
}

// angleSection restricts a shape about the Z axis to the phi range
// [startphi, startphi+deltaphi] in degrees. Sweeps above 90 degrees keep
// the intersection with the wedge; smaller sweeps cut away the
// complementary wedge. The result is then rotated by startphi.
func angleSection(s *gdml.Solid, sh brep.Shape, startphi, deltaphi float64) (brep.Shape, error) {
	if deltaphi <= 0 {
		return nil, invalid("deltaphi %g <= 0", deltaphi)
	}
	if isFullCircle(s, deltaphi) {
		return sh, nil
	}
	bb := sh.Bounds()
	r := 2*math.Max(math.Max(-bb.Min.X, bb.Max.X), math.Max(-bb.Min.Y, bb.Max.Y)) + 1
	z0, z1 := bb.Min.Z-1, bb.Max.Z+1
	if deltaphi > 90 {
		sh = brep.Common(sh, brep.Wedge(r, z0, z1, 0, deltaphi))
	} else {
		sh = brep.Cut(sh, brep.Wedge(r, z0, z1, deltaphi, 360-deltaphi))
	}
	if startphi != 0 {
		sh = brep.Rotate(sh, math64.RotationZ(math64.DegToRad(startphi)))
	}
	return sh, nil
}

func checkRadii(rmin, rmax float64) error {
	if rmax <= 0 {
		return invalid("rmax %g <= 0", rmax)
	}
	if rmin < 0 || rmin >= rmax {
		return invalid("rmin %g outside [0, rmax %g)", rmin, rmax)
	}
	return nil
}

func checkPositive(names string, vs ...float64) error {
	for _, v := range vs {
		if !(v > 0) {
			return invalid("%s must be positive", names)
		}
	}
	return nil
}

func buildBox(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Box)
	if err := checkPositive("x, y, z", p.X, p.Y, p.Z); err != nil {
		return nil, err
	}
	size := math64.Vec3(p.X, p.Y, p.Z)
	return centered(brep.Translate(&brep.Box{Size: size}, size.MulScalar(-0.5))), nil
}

// tube returns a tube section from z = 0 to z = h.
func tube(s *gdml.Solid, rmin, rmax, h, startphi, deltaphi float64) (brep.Shape, error) {
	if err := checkRadii(rmin, rmax); err != nil {
		return nil, err
	}
	if err := checkPositive("z", h); err != nil {
		return nil, err
	}
	var sh brep.Shape = &brep.Cylinder{Radius: rmax, Height: h}
	if rmin > 0 {
		sh = brep.Cut(sh, &brep.Cylinder{Radius: rmin, Height: h})
	}
	return angleSection(s, sh, startphi, deltaphi)
}

func buildTube(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Tube)
	sh, err := tube(s, p.RMin, p.RMax, p.Z, p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	return alongZ(sh, p.Z), nil
}

// buildCutTube builds a tube cut by the planes through the centers of
// its end faces, with the given outward normals. The planes may extend
// the tube beyond its nominal length at the rim, so the tube is built
// long enough to cover them before cutting.
func buildCutTube(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.CutTube)
	low := math64.Vec3(p.LowX, p.LowY, p.LowZ)
	high := math64.Vec3(p.HighX, p.HighY, p.HighZ)
	if !(low.Z < 0) || !(high.Z > 0) {
		return nil, invalid("cut plane normals must point away from the tube: lowZ %g, highZ %g", p.LowZ, p.HighZ)
	}
	extra := func(n math64.Vector3) float64 {
		return p.RMax * math.Hypot(n.X, n.Y) / math.Abs(n.Z)
	}
	e0, e1 := extra(low), extra(high)
	sh, err := tube(s, p.RMin, p.RMax, p.Z+e0+e1, p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	sh = brep.Translate(sh, math64.Vec3(0, 0, -e0))
	sh = brep.Common(sh, &brep.HalfSpace{Normal: low})
	sh = brep.Common(sh, &brep.HalfSpace{Point: math64.Vec3(0, 0, p.Z), Normal: high})
	return alongZ(sh, p.Z), nil
}

func buildCone(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Cone)
	switch {
	case p.RMin1 < 0 || p.RMin2 < 0:
		return nil, invalid("negative rmin")
	case p.RMin1 > p.RMax1 || p.RMin2 > p.RMax2:
		return nil, invalid("rmin > rmax")
	case p.RMax1 <= 0 && p.RMax2 <= 0:
		return nil, invalid("rmax1 and rmax2 are both zero")
	}
	if err := checkPositive("z", p.Z); err != nil {
		return nil, err
	}
	var sh brep.Shape = &brep.Cone{Radius1: p.RMax1, Radius2: p.RMax2, Height: p.Z}
	if p.RMin1 > 0 || p.RMin2 > 0 {
		sh = brep.Cut(sh, &brep.Cone{Radius1: p.RMin1, Radius2: p.RMin2, Height: p.Z})
	}
	sh, err := angleSection(s, sh, p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	return alongZ(sh, p.Z), nil
}

// thetaSection is the part of a ball of the given radius whose polar
// angle from +Z is within [Start, Start+Sweep] degrees.
type thetaSection struct {
	Radius float64
	Start  float64
	Sweep  float64
}

func (ts *thetaSection) Kind() string { return "ThetaSection" }

func (ts *thetaSection) Bounds() math64.Box3 {
	r := ts.Radius
	return math64.B3(-r, -r, -r, r, r, r)
}

func (ts *thetaSection) Contains(p math64.Vector3) bool {
	if p.Dot(p) > ts.Radius*ts.Radius {
		return false
	}
	if p.IsZero() {
		return true
	}
	const eps = 1e-9
	theta := math64.RadToDeg(math.Atan2(math.Hypot(p.X, p.Y), p.Z))
	return theta >= ts.Start-eps && theta <= ts.Start+ts.Sweep+eps
}

func buildSphere(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Sphere)
	if err := checkRadii(p.RMin, p.RMax); err != nil {
		return nil, err
	}
	if p.StartTheta < 0 || p.DeltaTheta <= 0 || p.StartTheta+p.DeltaTheta > 180+1e-9 {
		return nil, invalid("theta range [%g, %g] outside [0, 180]", p.StartTheta, p.StartTheta+p.DeltaTheta)
	}
	var sh brep.Shape = &brep.Sphere{Radius: p.RMax}
	if p.RMin > 0 {
		sh = brep.Cut(sh, &brep.Sphere{Radius: p.RMin})
	}
	if p.StartTheta > 0 || p.StartTheta+p.DeltaTheta < 180 {
		sh = brep.Common(sh, &thetaSection{Radius: p.RMax, Start: p.StartTheta, Sweep: p.DeltaTheta})
	}
	sh, err := angleSection(s, sh, p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	return centered(sh), nil
}

func buildOrb(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Orb)
	if err := checkPositive("r", p.R); err != nil {
		return nil, err
	}
	return centered(&brep.Sphere{Radius: p.R}), nil
}

func buildTorus(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Torus)
	if err := checkRadii(p.RMin, p.RMax); err != nil {
		return nil, err
	}
	if p.RTor < p.RMax {
		return nil, invalid("rtor %g < rmax %g", p.RTor, p.RMax)
	}
	var sh brep.Shape = &brep.Torus{Major: p.RTor, Minor: p.RMax}
	if p.RMin > 0 {
		sh = brep.Cut(sh, &brep.Torus{Major: p.RTor, Minor: p.RMin})
	}
	sh, err := angleSection(s, sh, p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	return centered(sh), nil
}

func buildEllipsoid(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Ellipsoid)
	if err := checkPositive("ax, by, cz", p.Ax, p.By, p.Cz); err != nil {
		return nil, err
	}
	lo, hi := p.ZCut1 != 0 && p.ZCut1 > -p.Cz, p.ZCut2 != 0 && p.ZCut2 < p.Cz
	if lo && hi && p.ZCut1 >= p.ZCut2 {
		return nil, invalid("zcut1 %g >= zcut2 %g", p.ZCut1, p.ZCut2)
	}
	sh := brep.Scale(&brep.Sphere{Radius: 1}, math64.Vec3(p.Ax, p.By, p.Cz))
	if lo {
		sh = brep.Common(sh, &brep.HalfSpace{Point: math64.Vec3(0, 0, p.ZCut1), Normal: math64.Vec3(0, 0, -1)})
	}
	if hi {
		sh = brep.Common(sh, &brep.HalfSpace{Point: math64.Vec3(0, 0, p.ZCut2), Normal: math64.Vec3(0, 0, 1)})
	}
	return centered(sh), nil
}

// buildElCone builds the elliptical cone as a circular cone of slope 1,
// scaled by dx and dy.
func buildElCone(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.ElCone)
	if err := checkPositive("dx, dy, zmax, zcut", p.Dx, p.Dy, p.ZMax, p.ZCut); err != nil {
		return nil, err
	}
	if p.ZCut > p.ZMax {
		return nil, invalid("zcut %g > zmax %g", p.ZCut, p.ZMax)
	}
	cn := &brep.Cone{Radius1: p.ZMax + p.ZCut, Radius2: p.ZMax - p.ZCut, Height: 2 * p.ZCut}
	sh := brep.Translate(cn, math64.Vec3(0, 0, -p.ZCut))
	return centered(brep.Scale(sh, math64.Vec3(p.Dx, p.Dy, 1))), nil
}

func buildElTube(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.ElTube)
	if err := checkPositive("dx, dy, dz", p.Dx, p.Dy, p.Dz); err != nil {
		return nil, err
	}
	sh := brep.Translate(&brep.Cylinder{Radius: 1, Height: 2 * p.Dz}, math64.Vec3(0, 0, -p.Dz))
	return centered(brep.Scale(sh, math64.Vec3(p.Dx, p.Dy, 1))), nil
}
