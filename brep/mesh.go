// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Triangle is one face of a [Mesh], with vertices in counter-clockwise
// order when viewed from outside.
type Triangle [3]math64.Vector3

// Normal returns the unnormalized outward normal of the triangle.
func (t Triangle) Normal() math64.Vector3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return t.Normal().Length() / 2
}

// Mesh is a closed solid bounded by triangular faces.
type Mesh struct {
	Faces []Triangle
}

// Quad splits the planar quadrilateral a, b, c, d into two triangles.
func Quad(a, b, c, d math64.Vector3) []Triangle {
	return []Triangle{{a, b, c}, {a, c, d}}
}

// Tetrahedron returns the mesh of the tetrahedron with the given vertices,
// with faces oriented outward regardless of vertex order.
func Tetrahedron(v1, v2, v3, v4 math64.Vector3) *Mesh {
	if v2.Sub(v1).Cross(v3.Sub(v1)).Dot(v4.Sub(v1)) > 0 {
		v2, v3 = v3, v2
	}
	return &Mesh{Faces: []Triangle{
		{v1, v2, v3},
		{v1, v4, v2},
		{v2, v4, v3},
		{v3, v4, v1},
	}}
}

func (ms *Mesh) Kind() string { return "Mesh" }

func (ms *Mesh) Bounds() math64.Box3 {
	b := math64.B3Empty()
	for _, f := range ms.Faces {
		for _, v := range f {
			b = b.ExpandByPoint(v)
		}
	}
	return b
}

// rayDir is deliberately irrational in direction so that rays almost never
// pass exactly through a mesh edge or vertex.
var rayDir = math64.Vec3(0.5773502691896258, 0.5345224838248488, 0.6172133998483676)

// Contains counts the faces crossed by a ray from p.
func (ms *Mesh) Contains(p math64.Vector3) bool {
	if !ms.Bounds().ContainsPoint(p) {
		return false
	}
	n := 0
	for _, f := range ms.Faces {
		if onTriangle(p, f) {
			return true
		}
		if rayHits(p, rayDir, f) {
			n++
		}
	}
	return n%2 == 1
}

// rayHits implements the Moller-Trumbore intersection test.
func rayHits(o, d math64.Vector3, t Triangle) bool {
	const eps = 1e-12
	e1 := t[1].Sub(t[0])
	e2 := t[2].Sub(t[0])
	h := d.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < eps {
		return false
	}
	f := 1 / a
	s := o.Sub(t[0])
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := f * d.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	return f*e2.Dot(q) > eps
}

func onTriangle(p math64.Vector3, t Triangle) bool {
	const eps = 1e-9
	n := t.Normal()
	l := n.Length()
	if l == 0 || math.Abs(n.Dot(p.Sub(t[0])))/l > eps {
		return false
	}
	for i := range 3 {
		a, b := t[i], t[(i+1)%3]
		if b.Sub(a).Cross(p.Sub(a)).Dot(n) < -eps*l {
			return false
		}
	}
	return true
}

// Volume sums the signed volumes of the tetrahedra from the origin to each face.
func (ms *Mesh) Volume() float64 {
	v := 0.0
	for _, f := range ms.Faces {
		v += f[0].Dot(f[1].Cross(f[2]))
	}
	return math.Abs(v) / 6
}

// Area returns the total surface area.
func (ms *Mesh) Area() float64 {
	a := 0.0
	for _, f := range ms.Faces {
		a += f.Area()
	}
	return a
}
