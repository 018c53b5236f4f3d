// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"cmp"
	"math"
	"slices"

	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
)

// trapFace returns the face of a trapezoid centered at (cx, cy) with half
// height dy, tilted by talpha, with half width dxlo at -dy and dxhi at +dy.
func trapFace(cx, cy, dy, talpha, dxlo, dxhi float64) brep.Polygon {
	return brep.Polygon{
		math64.Vec2(cx-dy*talpha-dxlo, cy-dy),
		math64.Vec2(cx-dy*talpha+dxlo, cy-dy),
		math64.Vec2(cx+dy*talpha+dxhi, cy+dy),
		math64.Vec2(cx+dy*talpha-dxhi, cy+dy),
	}
}

// loft returns a loft, checking that it encloses a volume.
func loft(bottom, top brep.Polygon, z0, z1 float64) (*brep.Loft, error) {
	lf := &brep.Loft{Bottom: bottom, Top: top, Z0: z0, Z1: z1}
	if !(lf.Volume() > 0) {
		return nil, invalid("zero volume")
	}
	return lf, nil
}

func buildTrap(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Trap)
	if err := checkPositive("z, y1, y2", p.Z, p.Y1, p.Y2); err != nil {
		return nil, err
	}
	if p.X1 < 0 || p.X2 < 0 || p.X3 < 0 || p.X4 < 0 {
		return nil, invalid("negative x length")
	}
	dz := p.Z / 2
	theta, phi := math64.DegToRad(p.Theta), math64.DegToRad(p.Phi)
	tx, ty := math.Tan(theta)*math.Cos(phi), math.Tan(theta)*math.Sin(phi)
	ta1, ta2 := math.Tan(math64.DegToRad(p.Alpha1)), math.Tan(math64.DegToRad(p.Alpha2))
	bottom := trapFace(-dz*tx, -dz*ty, p.Y1/2, ta1, p.X1/2, p.X2/2)
	top := trapFace(dz*tx, dz*ty, p.Y2/2, ta2, p.X3/2, p.X4/2)
	lf, err := loft(bottom, top, -dz, dz)
	if err != nil {
		return nil, err
	}
	return centered(lf), nil
}

func buildTrd(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Trd)
	if err := checkPositive("z", p.Z); err != nil {
		return nil, err
	}
	if p.X1 < 0 || p.X2 < 0 || p.Y1 < 0 || p.Y2 < 0 {
		return nil, invalid("negative length")
	}
	bottom := trapFace(0, 0, p.Y1/2, 0, p.X1/2, p.X1/2)
	top := trapFace(0, 0, p.Y2/2, 0, p.X2/2, p.X2/2)
	lf, err := loft(bottom, top, -p.Z/2, p.Z/2)
	if err != nil {
		return nil, err
	}
	return centered(lf), nil
}

func buildPara(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Para)
	if err := checkPositive("x, y, z", p.X, p.Y, p.Z); err != nil {
		return nil, err
	}
	dz := p.Z / 2
	theta, phi := math64.DegToRad(p.Theta), math64.DegToRad(p.Phi)
	tx, ty := math.Tan(theta)*math.Cos(phi), math.Tan(theta)*math.Sin(phi)
	ta := math.Tan(math64.DegToRad(p.Alpha))
	bottom := trapFace(-dz*tx, -dz*ty, p.Y/2, ta, p.X/2, p.X/2)
	top := trapFace(dz*tx, dz*ty, p.Y/2, ta, p.X/2, p.X/2)
	lf, err := loft(bottom, top, -dz, dz)
	if err != nil {
		return nil, err
	}
	return centered(lf), nil
}

func buildArb8(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Arb8)
	if err := checkPositive("dz", p.Dz); err != nil {
		return nil, err
	}
	bottom := brep.Polygon(slices.Clone(p.Vertices[:4]))
	top := brep.Polygon(slices.Clone(p.Vertices[4:]))
	lf, err := loft(bottom, top, -p.Dz, p.Dz)
	if err != nil {
		return nil, err
	}
	return centered(lf), nil
}

// checkZPlanes checks the zplanes of a polycone or polyhedra.
func checkZPlanes(zps []gdml.ZPlane) error {
	if len(zps) < 2 {
		return invalid("%d zplanes, need at least 2", len(zps))
	}
	for i, zp := range zps {
		if zp.RMin < 0 || zp.RMin > zp.RMax {
			return invalid("zplane %d: rmin %g outside [0, rmax %g]", i, zp.RMin, zp.RMax)
		}
		if i > 0 && zp.Z < zps[i-1].Z {
			return invalid("zplane %d: z %g below previous %g", i, zp.Z, zps[i-1].Z)
		}
	}
	return nil
}

// revolved returns the cylinder or cone between radii r1 at z = 0 and
// r2 at z = h, or nil if both radii are zero.
func revolved(r1, r2, h float64) brep.Shape {
	switch {
	case r1 <= 0 && r2 <= 0:
		return nil
	case r1 == r2:
		return &brep.Cylinder{Radius: r1, Height: h}
	}
	return &brep.Cone{Radius1: r1, Radius2: r2, Height: h}
}

// buildPolycone stacks one cylinder or cone per pair of consecutive
// zplanes, in order, skipping pairs at the same z.
func buildPolycone(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Polycone)
	if err := checkZPlanes(p.ZPlanes); err != nil {
		return nil, err
	}
	var sections []brep.Shape
	for i := 1; i < len(p.ZPlanes); i++ {
		lo, hi := p.ZPlanes[i-1], p.ZPlanes[i]
		h := hi.Z - lo.Z
		if h <= 0 {
			continue
		}
		outer := revolved(lo.RMax, hi.RMax, h)
		if outer == nil {
			continue
		}
		sec := brep.Cut(outer, revolved(lo.RMin, hi.RMin, h))
		sections = append(sections, brep.Translate(sec, math64.Vec3(0, 0, lo.Z)))
	}
	if len(sections) == 0 {
		return nil, invalid("no sections of non-zero height")
	}
	sh, err := angleSection(s, brep.FuseAll(sections...), p.StartPhi, p.DeltaPhi)
	if err != nil {
		return nil, err
	}
	return centered(sh), nil
}

// polyhedraSection returns the polygon of a polyhedra section whose side
// faces are at distance r from the axis. Partial sweeps include the axis.
func polyhedraSection(p *gdml.Polyhedra, full bool, r float64) brep.Polygon {
	n := p.NumSides
	sweep := p.DeltaPhi
	if full {
		sweep = 360
	}
	dphi := sweep / float64(n)
	rc := r / math.Cos(math64.DegToRad(dphi/2))
	if full {
		return brep.RegularPolygon(n, rc, p.StartPhi)
	}
	pg := brep.Polygon{math64.Vec2(0, 0)}
	for i := 0; i <= n; i++ {
		a := math64.DegToRad(p.StartPhi + float64(i)*dphi)
		pg = append(pg, math64.Vec2(rc*math.Cos(a), rc*math.Sin(a)))
	}
	return pg
}

func buildPolyhedra(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Polyhedra)
	if p.NumSides < 3 {
		return nil, invalid("numsides %d < 3", p.NumSides)
	}
	if p.DeltaPhi <= 0 {
		return nil, invalid("deltaphi %g <= 0", p.DeltaPhi)
	}
	if err := checkZPlanes(p.ZPlanes); err != nil {
		return nil, err
	}
	// The sides of a partial sweep divide deltaphi, not 360 degrees, so
	// the sections are built as fans over the sweep instead of being cut
	// from a full polygon by angleSection.
	full := isFullCircle(s, p.DeltaPhi)
	var sections []brep.Shape
	for i := 1; i < len(p.ZPlanes); i++ {
		lo, hi := p.ZPlanes[i-1], p.ZPlanes[i]
		if hi.Z <= lo.Z || (lo.RMax <= 0 && hi.RMax <= 0) {
			continue
		}
		var sec brep.Shape = &brep.Loft{
			Bottom: polyhedraSection(p, full, lo.RMax),
			Top:    polyhedraSection(p, full, hi.RMax),
			Z0:     lo.Z, Z1: hi.Z,
		}
		if lo.RMin > 0 || hi.RMin > 0 {
			sec = brep.Cut(sec, &brep.Loft{
				Bottom: polyhedraSection(p, full, lo.RMin),
				Top:    polyhedraSection(p, full, hi.RMin),
				Z0:     lo.Z, Z1: hi.Z,
			})
		}
		sections = append(sections, sec)
	}
	if len(sections) == 0 {
		return nil, invalid("no sections of non-zero height")
	}
	return centered(brep.FuseAll(sections...)), nil
}

func buildXtru(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Xtru)
	if len(p.Vertices) < 3 {
		return nil, invalid("%d vertices, need at least 3", len(p.Vertices))
	}
	if len(p.Sections) < 2 {
		return nil, invalid("%d sections, need at least 2", len(p.Sections))
	}
	base := brep.Polygon(p.Vertices)
	if base.IsSelfIntersecting() {
		return nil, invalid("self-intersecting polygon")
	}
	if base.Area() == 0 {
		return nil, invalid("polygon has zero area")
	}
	secs := slices.Clone(p.Sections)
	slices.SortStableFunc(secs, func(a, b gdml.Section) int {
		return cmp.Compare(a.ZOrder, b.ZOrder)
	})
	polygon := func(sc gdml.Section) brep.Polygon {
		pg := make(brep.Polygon, len(base))
		for i, v := range base {
			pg[i] = v.MulScalar(sc.Scale).Add(sc.Offset)
		}
		return pg
	}
	var parts []brep.Shape
	for i := 1; i < len(secs); i++ {
		lo, hi := secs[i-1], secs[i]
		if hi.ZPosition <= lo.ZPosition {
			return nil, invalid("section %d: zPosition %g not above %g", hi.ZOrder, hi.ZPosition, lo.ZPosition)
		}
		if lo.Scale <= 0 || hi.Scale <= 0 {
			return nil, invalid("non-positive scalingFactor")
		}
		parts = append(parts, &brep.Loft{Bottom: polygon(lo), Top: polygon(hi), Z0: lo.ZPosition, Z1: hi.ZPosition})
	}
	return centered(brep.FuseAll(parts...)), nil
}

func buildTessellated(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Tessellated)
	if len(p.Facets) < 4 {
		return nil, invalid("%d facets, a closed surface needs at least 4", len(p.Facets))
	}
	ms := &brep.Mesh{}
	for i, f := range p.Facets {
		vs := make([]math64.Vector3, len(f.Vertices))
		for j, vi := range f.Vertices {
			if vi < 0 || vi >= len(p.Vertices) {
				return nil, invalid("facet %d: vertex index %d out of range", i, vi)
			}
			vs[j] = p.Vertices[vi].Pos
		}
		var tris []brep.Triangle
		switch len(vs) {
		case 3:
			tris = []brep.Triangle{{vs[0], vs[1], vs[2]}}
		case 4:
			tris = brep.Quad(vs[0], vs[1], vs[2], vs[3])
		default:
			return nil, invalid("facet %d has %d vertices", i, len(vs))
		}
		for _, t := range tris {
			if t.Area() == 0 {
				return nil, invalid("facet %d is degenerate", i)
			}
		}
		ms.Faces = append(ms.Faces, tris...)
	}
	if !(ms.Volume() > 0) {
		return nil, invalid("facets enclose no volume")
	}
	return centered(ms), nil
}

func buildTet(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Tet)
	v := p.Vertices
	ms := brep.Tetrahedron(v[0].Pos, v[1].Pos, v[2].Pos, v[3].Pos)
	if !(ms.Volume() > 0) {
		return nil, invalid("degenerate tetrahedron")
	}
	return centered(ms), nil
}
