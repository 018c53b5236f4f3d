// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"
	"testing"

	"cogentcore.org/gdml/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestPrimitives(t *testing.T) {
	bx := &Box{Size: math64.Vec3(1, 2, 3)}
	assert.Equal(t, 6.0, Volume(bx))
	assert.True(t, bx.Contains(math64.Vec3(0.5, 1, 1.5)))
	assert.False(t, bx.Contains(math64.Vec3(-0.5, 1, 1.5)))

	cy := &Cylinder{Radius: 2, Height: 5}
	assert.InDelta(t, math.Pi*20, Volume(cy), tol)
	assert.True(t, cy.Contains(math64.Vec3(1, 1, 4)))
	assert.False(t, cy.Contains(math64.Vec3(0, 0, -1)))
	assert.Equal(t, 5.0, Height(cy))

	cn := &Cone{Radius1: 2, Radius2: 0, Height: 3}
	assert.InDelta(t, math.Pi*4, Volume(cn), tol)
	assert.True(t, cn.Contains(math64.Vec3(0.5, 0, 1.5)))
	assert.False(t, cn.Contains(math64.Vec3(1.5, 0, 1.5)))

	sp := &Sphere{Radius: 3}
	assert.InDelta(t, 36*math.Pi, Volume(sp), tol)

	tr := &Torus{Major: 5, Minor: 1}
	assert.True(t, tr.Contains(math64.Vec3(5, 0, 0.5)))
	assert.False(t, tr.Contains(math64.Vec3(0, 0, 0)))
	assert.InDelta(t, 10*math.Pi*math.Pi, Volume(tr), tol)
}

func TestMeasure(t *testing.T) {
	sp := &Sphere{Radius: 1}
	// a sphere seen only through Contains and Bounds
	opaque := &Union{A: sp, B: sp}
	assert.InEpsilon(t, sp.Volume(), Volume(opaque), 0.02)
}

func TestPolygon(t *testing.T) {
	sq := Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	assert.Equal(t, 4.0, sq.SignedArea())
	assert.True(t, sq.Contains(math64.Vec2(1, 1)))
	assert.True(t, sq.Contains(math64.Vec2(2, 1)))
	assert.False(t, sq.Contains(math64.Vec2(3, 1)))
	assert.False(t, sq.IsSelfIntersecting())

	bow := Polygon{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	assert.True(t, bow.IsSelfIntersecting())

	hex := RegularPolygon(6, 1, 0)
	assert.InDelta(t, 3*math.Sqrt(3)/2, hex.Area(), tol)
}

func TestLoft(t *testing.T) {
	sq := func(h float64) Polygon {
		return Polygon{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	}
	frustum := &Loft{Bottom: sq(2), Top: sq(1), Z0: -1, Z1: 1}
	assert.InDelta(t, 56.0/3, frustum.Volume(), tol)
	assert.True(t, frustum.Contains(math64.Vec3(1.4, 0, 0)))
	assert.False(t, frustum.Contains(math64.Vec3(1.6, 0, 0)))
	assert.False(t, frustum.Contains(math64.Vec3(0, 0, 1.1)))
	b := frustum.Bounds()
	assert.True(t, b.IsEqualTol(math64.B3(-2, -2, -1, 2, 2, 1), tol))

	prism := Prism(sq(1), 0, 3)
	assert.InDelta(t, 12.0, prism.Volume(), tol)
}

func TestRevolution(t *testing.T) {
	w := Wedge(1, 0, 1, 0, 90)
	assert.InDelta(t, math.Pi/4, w.Volume(), tol)
	assert.True(t, w.Contains(math64.Vec3(0.5, 0.5, 0.5)))
	assert.False(t, w.Contains(math64.Vec3(-0.5, 0.5, 0.5)))
	assert.True(t, w.Bounds().IsEqualTol(math64.B3(0, 0, 0, 1, 1, 1), tol))

	full := Wedge(2, -1, 1, 0, 360)
	assert.InDelta(t, 8*math.Pi, full.Volume(), tol)
	assert.True(t, full.Contains(math64.Vec3(-1, -1, 0)))

	assert.True(t, Wedge(1, 0, 1, 300, 90).InSweep(10))
	assert.False(t, Wedge(1, 0, 1, 300, 90).InSweep(60))
}

func TestMesh(t *testing.T) {
	tet := Tetrahedron(math64.Vec3(0, 0, 0), math64.Vec3(1, 0, 0), math64.Vec3(0, 1, 0), math64.Vec3(0, 0, 1))
	assert.InDelta(t, 1.0/6, tet.Volume(), tol)
	assert.True(t, tet.Contains(math64.Vec3(0.1, 0.1, 0.1)))
	assert.False(t, tet.Contains(math64.Vec3(0.5, 0.5, 0.5)))
	assert.Len(t, tet.Faces, 4)

	// the same tetrahedron with the other vertex order
	tet2 := Tetrahedron(math64.Vec3(0, 0, 0), math64.Vec3(0, 1, 0), math64.Vec3(1, 0, 0), math64.Vec3(0, 0, 1))
	assert.InDelta(t, 1.0/6, tet2.Volume(), tol)
	for _, f := range tet2.Faces {
		c := f[0].Add(f[1]).Add(f[2]).MulScalar(1.0 / 3)
		assert.Greater(t, f.Normal().Dot(c.Sub(math64.Vec3(0.25, 0.25, 0.25))), 0.0)
	}
}

func TestTransformed(t *testing.T) {
	cy := &Cylinder{Radius: 1, Height: 2}
	moved := Translate(cy, math64.Vec3(0, 0, -1))
	assert.True(t, moved.Contains(math64.Vec3(0, 0, -0.5)))
	assert.True(t, moved.Bounds().IsEqualTol(math64.B3(-1, -1, -1, 1, 1, 1), tol))
	assert.Same(t, Shape(cy), Translate(cy, math64.Vector3{}))

	// nested transforms collapse
	twice := Translate(moved, math64.Vec3(0, 0, 1)).(*Transformed)
	assert.Same(t, Shape(cy), twice.Shape)
	assert.True(t, twice.Transform.IsIdentity(tol))

	rot := Rotate(&Box{Size: math64.Vec3(1, 2, 3)}, math64.RotationZ(math.Pi/2))
	assert.True(t, rot.Bounds().IsEqualTol(math64.B3(-2, 0, 0, 0, 1, 3), tol))

	sc := Scale(&Sphere{Radius: 1}, math64.Vec3(2, 1, 1))
	require.NotNil(t, sc)
	assert.InDelta(t, 8*math.Pi/3, Volume(sc), tol)
	assert.True(t, sc.Contains(math64.Vec3(1.9, 0, 0)))
	assert.Nil(t, Scale(&Sphere{Radius: 1}, math64.Vec3(0, 1, 1)))
}

func TestBoolean(t *testing.T) {
	bx := Translate(&Box{Size: math64.Vec3(10, 10, 10)}, math64.Vec3(-5, -5, -5))
	sp := &Sphere{Radius: 3}

	cut := Cut(bx, sp)
	assert.True(t, cut.Bounds().IsEqualTol(bx.Bounds(), tol))
	assert.Less(t, Volume(cut), Volume(bx))
	assert.InEpsilon(t, 1000-36*math.Pi, Volume(cut), 0.02)
	assert.False(t, cut.Contains(math64.Vector3{}))
	assert.True(t, cut.Contains(math64.Vec3(4, 4, 4)))

	common := Common(bx, Translate(sp, math64.Vec3(5, 0, 0)))
	assert.True(t, common.Bounds().IsEqualTol(math64.B3(2, -3, -3, 5, 3, 3), tol))

	fused := FuseAll(sp, Translate(sp, math64.Vec3(10, 0, 0)), Translate(sp, math64.Vec3(20, 0, 0)))
	assert.True(t, fused.Bounds().IsEqualTol(math64.B3(-3, -3, -3, 23, 3, 3), tol))
	assert.Len(t, Primitives(fused), 3)
	assert.Equal(t, "Union", fused.Kind())

	assert.Same(t, Shape(sp), Fuse(nil, sp))
	assert.Same(t, Shape(sp), Cut(sp, nil))
}
