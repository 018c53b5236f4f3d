// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"
	"strings"
	"testing"

	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSample(t *testing.T) *gdml.Document {
	doc, err := gdml.ReadFile("../gdml/testdata/sample.gdml")
	require.NoError(t, err)
	return doc
}

func readSolids(t *testing.T, solids string) *gdml.Document {
	doc, err := gdml.Read(strings.NewReader("<gdml><solids>" + solids + "</solids></gdml>"))
	require.NoError(t, err)
	return doc
}

// single returns a builder for a document holding just the solid,
// whose params are in millimeters and degrees.
func single(t *testing.T, p gdml.Params) (*Builder, *gdml.Solid) {
	doc := gdml.NewDocument()
	s := &gdml.Solid{Name: "S", Lunit: "mm", Aunit: "deg", Params: p}
	require.NoError(t, doc.AddSolid(s))
	doc.Link()
	return NewBuilder(doc), s
}

func build(t *testing.T, b *Builder, name string) *Geometry {
	g, err := b.BuildName(name, "")
	require.NoError(t, err)
	return g
}

func TestBuildSample(t *testing.T) {
	doc := readSample(t)
	b := NewBuilder(doc)
	for _, s := range doc.Solids {
		g, err := b.Build(s)
		if assert.NoError(t, err, s.Name) {
			assert.Same(t, s, g.Solid)
			bb := g.Bounds()
			assert.False(t, bb.IsEmpty(), s.Name)
			assert.True(t, bb.IsFinite(), s.Name)
		}
	}

	vol := func(name string) float64 {
		return build(t, b, name).Volume()
	}
	assert.InDelta(t, 100*200*300, vol("Block"), 1e-6)
	assert.InDelta(t, 4*math.Pi*125/3, vol("Orb"), 1e-9)
	assert.InDelta(t, 20.0/3*(100+36+60), vol("Wedge"), 1e-9)
	assert.InDelta(t, 2*math.Sqrt(3)*25*10, vol("Hex"), 1e-9)
	assert.InDelta(t, 1000.0/6, vol("Corner"), 1e-9)
	assert.InDelta(t, 1000.0/6, vol("Pyramid"), 1e-9)
	assert.InEpsilon(t, math.Pi*(25-1)*20, vol("Pipe"), 0.03)

	egg := build(t, b, "Egg").Bounds()
	assert.InDelta(t, -4, egg.Min.Z, 1e-9)
	assert.InDelta(t, 6, egg.Max.Z, 1e-9)

	// the second cached build is the same geometry
	g1 := build(t, b, "Holed")
	assert.Same(t, g1, build(t, b, "Holed"))
}

func TestTubeOffset(t *testing.T) {
	b := NewBuilder(readSample(t))
	g := build(t, b, "Pipe")
	assert.Equal(t, math64.Vec3(0, 0, -10), g.Offset)
	bb := g.Bounds()
	assert.InDelta(t, -10, bb.Min.Z, 1e-12)
	assert.InDelta(t, 10, bb.Max.Z, 1e-12)
	assert.InDelta(t, 0, g.Shape.Bounds().Min.Z, 1e-12)

	// the construction frame origin is the low end face of the tube
	assert.True(t, g.Centered().Contains(math64.Vec3(3, 0, -9.5)))
	assert.False(t, g.Centered().Contains(math64.Vec3(3, 0, 10.5)))
	assert.True(t, g.Shape.Contains(math64.Vec3(3, 0, 10.5)))
}

func TestAngleSection(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		delta    float64
		inside   []math64.Vector3
		outside  []math64.Vector3
		fullKind string
	}{
		{"quarter", 0, 90,
			[]math64.Vector3{{X: 3, Y: 1}},
			[]math64.Vector3{{X: -3, Y: 1}, {X: 1, Y: -3}}, ""},
		{"three-quarters", 0, 270,
			[]math64.Vector3{{X: 3, Y: 1}, {X: -3, Y: -1}},
			[]math64.Vector3{{X: 1, Y: -3}}, ""},
		{"rotated", 90, 90,
			[]math64.Vector3{{X: -1, Y: 3}},
			[]math64.Vector3{{X: 3, Y: 1}, {X: -3, Y: -1}}, ""},
		{"full", 0, 360,
			[]math64.Vector3{{X: 3, Y: 1}, {X: 1, Y: -3}},
			[]math64.Vector3{{X: 6}}, "Cylinder"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, s := single(t, &gdml.Tube{RMax: 5, Z: 10, StartPhi: test.start, DeltaPhi: test.delta})
			g, err := b.Build(s)
			require.NoError(t, err)
			sh := g.Centered()
			for _, p := range test.inside {
				assert.True(t, sh.Contains(p), "%v", p)
			}
			for _, p := range test.outside {
				assert.False(t, sh.Contains(p), "%v", p)
			}
			if test.fullKind != "" {
				assert.Equal(t, test.fullKind, g.Shape.Kind())
			}
		})
	}
}

func TestFullCircle(t *testing.T) {
	deg := &gdml.Solid{Aunit: "deg"}
	rad := &gdml.Solid{Aunit: "rad"}
	assert.True(t, isFullCircle(deg, 360))
	assert.True(t, isFullCircle(rad, 360))
	assert.True(t, isFullCircle(deg, 400))
	assert.False(t, isFullCircle(deg, 359.9))
	assert.False(t, isFullCircle(rad, 180))
}

func TestPolyconeStack(t *testing.T) {
	b := NewBuilder(readSample(t))
	g := build(t, b, "Stack")
	assert.True(t, g.Offset.IsZero())
	assert.InDelta(t, 20, brep.Height(g.Shape), 1e-12)

	var kinds []string
	for _, p := range brep.Primitives(g.Shape) {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, []string{"Cylinder", "Cone"}, kinds)

	want := math.Pi*25*10 + math.Pi*10*(25+50+100)/3
	assert.InEpsilon(t, want, g.Volume(), 0.03)
}

func TestPolyhedraPartial(t *testing.T) {
	zps := []gdml.ZPlane{{RMax: 5, Z: -5}, {RMax: 5, Z: 5}}
	b, s := single(t, &gdml.Polyhedra{StartPhi: 0, DeltaPhi: 90, NumSides: 2, ZPlanes: zps})
	_, err := b.Build(s)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	b, s = single(t, &gdml.Polyhedra{StartPhi: 0, DeltaPhi: 90, NumSides: 3, ZPlanes: zps})
	g, err := b.Build(s)
	require.NoError(t, err)
	assert.True(t, g.Shape.Contains(math64.Vec3(3, 1, 0)))
	assert.False(t, g.Shape.Contains(math64.Vec3(-3, 1, 0)))

	zps = []gdml.ZPlane{{RMin: 1, RMax: 5, Z: -5}, {RMin: 1, RMax: 5, Z: 5}}
	b, s = single(t, &gdml.Polyhedra{StartPhi: 0, DeltaPhi: 270, NumSides: 6, ZPlanes: zps})
	g, err = b.Build(s)
	require.NoError(t, err)
	at := func(r, phi float64) math64.Vector3 {
		a := math64.DegToRad(phi)
		return math64.Vec3(r*math.Cos(a), r*math.Sin(a), 0)
	}
	for _, phi := range []float64{45, 180, 260} {
		assert.True(t, g.Shape.Contains(at(3, phi)), phi)
		assert.False(t, g.Shape.Contains(at(0.5, phi)), phi)
	}
	for _, phi := range []float64{290, 315, 350} {
		assert.False(t, g.Shape.Contains(at(3, phi)), phi)
	}
}

func TestBooleanSubtraction(t *testing.T) {
	inner, err := gdml.Read(strings.NewReader(`<gdml>
<define><position name="up" x="0" y="0" z="4" unit="mm"/></define>
<solids>
<box name="A" x="10" y="10" z="10" lunit="mm"/>
<box name="B" x="2" y="2" z="2" lunit="mm"/>
<subtraction name="AB"><first ref="A"/><second ref="B"/><positionref ref="up"/></subtraction>
</solids></gdml>`))
	require.NoError(t, err)
	ib := NewBuilder(inner)
	a, ab := build(t, ib, "A"), build(t, ib, "AB")
	assert.True(t, ab.Bounds().IsEqualTol(a.Bounds(), 1e-12))
	assert.Less(t, ab.Volume(), a.Volume())
	assert.False(t, ab.Shape.Contains(math64.Vec3(0, 0, 4)))
	assert.True(t, ab.Shape.Contains(math64.Vec3(0, 0, 0)))

	doc := readSolids(t, `
<box name="B" x="20" y="20" z="20" lunit="mm"/>
<orb name="O" r="5" lunit="mm"/>
<subtraction name="S"><first ref="B"/><second ref="O"/></subtraction>`)
	b := NewBuilder(doc)
	g := build(t, b, "S")
	assert.True(t, g.Bounds().IsEqualTol(math64.B3(-10, -10, -10, 10, 10, 10), 1e-12))
	assert.InEpsilon(t, 8000-4*math.Pi*125/3, g.Volume(), 0.01)
	assert.False(t, g.Shape.Contains(math64.Vec3(0, 0, 0)))
	assert.True(t, g.Shape.Contains(math64.Vec3(8, 8, 8)))

	// Holed: Block minus Pipe rotated onto the Y axis, shifted 10 mm along X
	b = NewBuilder(readSample(t))
	h := build(t, b, "Holed").Shape
	assert.True(t, h.Contains(math64.Vec3(10, 0, 0)), "inside the bore")
	assert.False(t, h.Contains(math64.Vec3(13, 0, 0)), "in the pipe wall")
	assert.False(t, h.Contains(math64.Vec3(13, 9, 0)), "in the pipe wall")
	assert.True(t, h.Contains(math64.Vec3(13, 11, 0)), "past the pipe end")
	assert.True(t, h.Contains(math64.Vec3(13, 0, 6)), "outside the rotated pipe")
}

func TestBooleanPlacement(t *testing.T) {
	b := NewBuilder(readSample(t))
	j := build(t, b, "Joined")
	bb := j.Bounds()
	assert.InDelta(t, -10+5, bb.Min.X, 1e-9)
	assert.InDelta(t, 10+5, bb.Max.X, 1e-9)

	c := build(t, b, "Cluster").Shape
	assert.True(t, c.Contains(math64.Vec3(-10, 0, 0)))
	assert.True(t, c.Contains(math64.Vec3(10, 0, 4)))
	assert.False(t, c.Contains(math64.Vec3(0, 0, 0)))
}

func TestCyclicBoolean(t *testing.T) {
	doc := readSolids(t, `
<orb name="O" r="1" lunit="mm"/>
<union name="A"><first ref="B"/><second ref="O"/></union>
<union name="B"><first ref="A"/><second ref="O"/></union>`)
	b := NewBuilder(doc)
	_, err := b.BuildName("A", "")
	assert.ErrorIs(t, err, ErrCyclicReference)
	var ee *gdml.ElementError
	assert.ErrorAs(t, err, &ee)
}

func TestMissingOperand(t *testing.T) {
	doc := readSolids(t, `
<orb name="Orb" r="1" lunit="mm"/>
<union name="A"><first ref="Orb"/><second ref="Orbb"/></union>`)
	_, err := NewBuilder(doc).BuildName("A", "")
	assert.ErrorIs(t, err, gdml.ErrNotFound)
	var re *gdml.RefError
	if assert.ErrorAs(t, err, &re) {
		assert.Equal(t, "Orb", re.Suggestion)
		assert.Equal(t, "A", re.From)
	}
}

func TestUnsupportedKind(t *testing.T) {
	doc := readSolids(t, `<twistedbox name="T" PhiTwist="10" x="1" y="1" z="1"/>`)
	_, err := NewBuilder(doc).BuildName("T", "")
	assert.ErrorIs(t, err, ErrUnsupportedSolidKind)
	var ee *gdml.ElementError
	if assert.ErrorAs(t, err, &ee) {
		assert.Equal(t, "twistedbox", ee.Element)
		assert.Equal(t, "T", ee.Name)
	}
	assert.False(t, Supported(gdml.KindUnsupported))
	for _, k := range gdml.Kinds() {
		assert.True(t, Supported(k), k.String())
	}
}

func TestInvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		params gdml.Params
	}{
		{"rmin above rmax", &gdml.Tube{RMin: 6, RMax: 5, Z: 10, DeltaPhi: 360}},
		{"zero box", &gdml.Box{X: 0, Y: 1, Z: 1}},
		{"zero deltaphi", &gdml.Tube{RMax: 5, Z: 10}},
		{"one zplane", &gdml.Polycone{DeltaPhi: 360, ZPlanes: []gdml.ZPlane{{RMax: 1}}}},
		{"decreasing z", &gdml.Polycone{DeltaPhi: 360, ZPlanes: []gdml.ZPlane{{RMax: 1, Z: 5}, {RMax: 1, Z: 0}}}},
		{"two sides", &gdml.Polyhedra{DeltaPhi: 360, NumSides: 2, ZPlanes: []gdml.ZPlane{{RMax: 1}, {RMax: 1, Z: 1}}}},
		{"flat tet", &gdml.Tet{Vertices: [4]gdml.Vertex{
			{Pos: math64.Vec3(0, 0, 0)}, {Pos: math64.Vec3(1, 0, 0)},
			{Pos: math64.Vec3(0, 1, 0)}, {Pos: math64.Vec3(1, 1, 0)},
		}}},
		{"bowtie xtru", &gdml.Xtru{
			Vertices: []math64.Vector2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}},
			Sections: []gdml.Section{{ZPosition: 0, Scale: 1}, {ZOrder: 1, ZPosition: 1, Scale: 1}},
		}},
		{"torus inside out", &gdml.Torus{RMax: 5, RTor: 2, DeltaPhi: 360}},
		{"empty multiunion", &gdml.MultiUnion{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, s := single(t, test.params)
			_, err := b.Build(s)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
			var ee *gdml.ElementError
			assert.ErrorAs(t, err, &ee)
		})
	}
}

func TestRebuild(t *testing.T) {
	doc := readSample(t)
	b := NewBuilder(doc)
	holed := build(t, b, "Holed")
	pipe := build(t, b, "Pipe")
	p := math64.Vec3(14, 0, 0)
	require.False(t, holed.Shape.Contains(p))

	ps := pipe.Solid.Params.(*gdml.Tube)
	ps.RMax = 3
	g, err := b.Rebuild(pipe.Solid)
	require.NoError(t, err)
	assert.Same(t, pipe, g)
	assert.InDelta(t, 3, pipe.Bounds().Max.X, 1e-12)
	assert.True(t, holed.Shape.Contains(p), "dependent rebuilt in place")
	assert.Same(t, holed, build(t, b, "Holed"))

	ps.RMax = 0
	_, err = b.Rebuild(pipe.Solid)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.InDelta(t, 3, pipe.Bounds().Max.X, 1e-12, "previous geometry kept")
}
