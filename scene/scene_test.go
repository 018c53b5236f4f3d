// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"errors"
	"strings"
	"testing"

	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePath = "../gdml/testdata/sample.gdml"

func loadSample(t *testing.T, opts Options) *Graph {
	t.Helper()
	g, err := Load(samplePath, opts)
	require.NoError(t, err)
	return g
}

// readDoc reads a document with two boxes "b" and "w", the given
// structure and World "W".
func readDoc(t *testing.T, structure string) *gdml.Document {
	t.Helper()
	doc, err := gdml.Read(strings.NewReader(`<?xml version="1.0"?><gdml>
<solids><box name="b" x="10" y="10" z="10"/><box name="w" x="100" y="100" z="100"/></solids>
<structure>` + structure + `</structure>
<setup name="Default" version="1.0"><world ref="W"/></setup></gdml>`))
	require.NoError(t, err)
	return doc
}

func TestBuildSample(t *testing.T) {
	g := loadSample(t, Options{})
	assert.Empty(t, g.Errors)
	require.NotNil(t, g.Root)
	assert.Equal(t, "World", g.Root.Name)
	assert.Equal(t, KindVolume, g.Root.Kind)
	assert.Equal(t, "G4_AIR", g.Root.Material)

	require.Len(t, g.Root.Children, 1)
	block := g.Root.Children[0]
	assert.Equal(t, "BlockVol", block.Name)
	assert.Equal(t, math64.Vec3(1, 1, -1), block.Scale)
	assert.Equal(t, 1, block.Depth())
	assert.Equal(t, "Holed", block.Geometry.Solid.Name)

	require.Len(t, block.Children, 2)
	pipe1, pipe2 := block.Children[0], block.Children[1]
	assert.Equal(t, "pipe1", pipe1.Name)
	assert.Equal(t, KindVolume, pipe1.Kind)
	assert.Equal(t, "Water", pipe1.Material)
	assert.Equal(t, "pipe2", pipe2.Name)
	assert.True(t, pipe2.IsLink())
	assert.Same(t, pipe1, pipe2.Source)
	assert.Same(t, pipe1.Geometry, pipe2.Geometry)
	assert.Same(t, pipe1, g.FirstInstance(pipe1.Volume))
	assert.Equal(t, Realized, g.State(pipe1.Volume))

	assert.True(t, pipe1.Placement.Pos.IsEqualTol(math64.Vec3(10, 20, 30), 1e-9))
	assert.True(t, pipe2.Placement.Pos.IsEqualTol(math64.Vec3(10, 0, 0), 1e-9))
	assert.True(t, pipe2.Placement.GDMLAngles().IsEqualTol(math64.Vec3(90, 0, 0), 1e-9))

	pipe2.Placement.Pos = math64.Vec3(-5, 0, 0)
	assert.True(t, pipe1.Placement.Pos.IsEqualTol(math64.Vec3(10, 20, 30), 1e-9))
	assert.Same(t, pipe1.Geometry, pipe2.Geometry)
}

func TestPaths(t *testing.T) {
	g := loadSample(t, Options{})
	pipe1 := g.Root.Children[0].Children[0]
	assert.Equal(t, "/World/BlockVol/pipe1", pipe1.Path())
	assert.Same(t, pipe1, g.Find("/World/BlockVol/pipe1"))
	assert.Same(t, g.Root, g.Find("/World"))
	assert.Same(t, g.Root.Children[0].Children[1], g.Root.FindPath("BlockVol/[1]"))
	assert.Same(t, g.Root.Children[0].Children[1], g.Root.FindPath("BlockVol/[-1]"))
	assert.Nil(t, g.Find("/World/BlockVol/pipe3"))
	assert.Nil(t, g.Find("/Other/BlockVol"))
	assert.Nil(t, g.Root.FindPath("BlockVol/[2]"))

	assert.Equal(t, `a\\b`, EscapePathName("a/b"))
	assert.Equal(t, "a/b", UnescapePathName(EscapePathName("a/b")))
}

func TestWorldTransform(t *testing.T) {
	g := loadSample(t, Options{})
	pipe1 := g.Find("/World/BlockVol/pipe1")
	require.NotNil(t, pipe1)
	// the block is mirrored in z by its scale
	origin := pipe1.WorldTransform().Apply(math64.Vector3{})
	assert.True(t, origin.IsEqualTol(math64.Vec3(10, 20, -30), 1e-9), origin.String())

	sh := pipe1.WorldShape()
	require.NotNil(t, sh)
	assert.True(t, sh.Contains(math64.Vec3(13, 20, -30)))
	assert.False(t, sh.Contains(math64.Vec3(10, 20, -30)))
	assert.Nil(t, (&Node{Kind: KindStub}).WorldShape())
}

func TestDanglingVolumeRef(t *testing.T) {
	structure := `
<volume name="A"><materialref ref="G4_AIR"/><solidref ref="b"/></volume>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
  <physvol name="bad"><volumeref ref="Missing"/></physvol>
  <physvol name="good"><volumeref ref="A"/></physvol>
</volume>`
	g, err := Build(readDoc(t, structure), Options{})
	require.NoError(t, err)
	require.Len(t, g.Root.Children, 1)
	assert.Equal(t, "good", g.Root.Children[0].Name)

	require.Len(t, g.Errors, 1)
	var ne *NodeError
	require.True(t, errors.As(g.Errors[0], &ne))
	assert.Equal(t, "/W/bad", ne.Path)
	assert.ErrorIs(t, g.Errors[0], gdml.ErrNotFound)
	var re *gdml.RefError
	require.True(t, errors.As(g.Errors[0], &re))
	assert.Equal(t, "Missing", re.Name)
	assert.Equal(t, "W", re.From)

	_, err = Build(readDoc(t, structure), Options{AbortOnError: true})
	assert.ErrorIs(t, err, gdml.ErrNotFound)
}

func TestBranchErrors(t *testing.T) {
	g, err := Build(readDoc(t, `
<volume name="A"><materialref ref="Unobtainium"/><solidref ref="b"/></volume>
<volume name="B"><materialref ref="G4_AIR"/><solidref ref="nope"/></volume>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
  <physvol name="a"><volumeref ref="A"/></physvol>
  <physvol name="b"><volumeref ref="B"/></physvol>
  <physvol name="c"><volumeref ref="A"/><positionref ref="nowhere"/></physvol>
</volume>`), Options{})
	require.NoError(t, err)
	assert.Empty(t, g.Root.Children)
	require.Len(t, g.Errors, 3)
	for _, err := range g.Errors {
		assert.ErrorIs(t, err, gdml.ErrNotFound)
	}
	var re *gdml.RefError
	require.True(t, errors.As(g.Errors[1], &re))
	assert.Equal(t, gdml.RefSolid, re.Kind)

	_, err = Build(readDoc(t, `<volume name="W"><materialref ref="G4_AIR"/><solidref ref="missing"/></volume>`), Options{})
	assert.ErrorIs(t, err, gdml.ErrNotFound)
}

func TestCyclicStructure(t *testing.T) {
	g, err := Build(readDoc(t, `
<volume name="A"><materialref ref="G4_AIR"/><solidref ref="b"/>
  <physvol name="toB"><volumeref ref="B"/></physvol>
</volume>
<volume name="B"><materialref ref="G4_AIR"/><solidref ref="b"/>
  <physvol name="toA"><volumeref ref="A"/></physvol>
</volume>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
  <physvol name="a"><volumeref ref="A"/></physvol>
</volume>`), Options{})
	require.NoError(t, err)
	require.Len(t, g.Errors, 1)
	assert.ErrorIs(t, g.Errors[0], ErrCyclicReference)
	var ne *NodeError
	require.True(t, errors.As(g.Errors[0], &ne))
	assert.Equal(t, "/W/a/toB/toA", ne.Path)
	assert.NotNil(t, g.Find("/W/a/toB"))
}

func TestCopyNumbers(t *testing.T) {
	g, err := Build(readDoc(t, `
<volume name="A"><materialref ref="G4_AIR"/><solidref ref="b"/></volume>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
  <physvol copynumber="3"><volumeref ref="A"/><position name="p" x="20"/></physvol>
  <physvol><volumeref ref="A"/></physvol>
  <physvol copynumber="2"><volumeref ref="A"/><scale name="s" x="2" y="2" z="2"/></physvol>
</volume>`), Options{})
	require.NoError(t, err)
	assert.Empty(t, g.Errors)
	kids := g.Root.Children
	require.Len(t, kids, 3)
	assert.Equal(t, []string{"A", "A_1", "A_2"}, []string{kids[0].Name, kids[1].Name, kids[2].Name})

	// no earlier instance: the first copy is realized
	assert.Equal(t, KindVolume, kids[0].Kind)
	assert.Equal(t, KindVolume, kids[1].Kind)
	assert.True(t, kids[2].IsLink())
	assert.Same(t, kids[0], kids[2].Source)
	assert.Equal(t, math64.Vec3(2, 2, 2), kids[2].Property("scale"))
	assert.Nil(t, kids[0].Property("scale"))
	assert.Len(t, g.Links(), 1)
}

func TestLazyStub(t *testing.T) {
	g := loadSample(t, Options{Policy: LazyStub()})
	assert.Equal(t, KindVolume, g.Root.Kind)
	stubs := g.Stubs()
	require.Len(t, stubs, 1)
	stub := stubs[0]
	assert.Equal(t, "BlockVol", stub.Name)
	assert.Nil(t, stub.Geometry)
	assert.Equal(t, Unvisited, g.State(stub.Volume))

	block, err := g.Expand(stub)
	require.NoError(t, err)
	assert.Equal(t, KindVolume, block.Kind)
	assert.Same(t, block, g.Root.Children[0])
	assert.Equal(t, "BlockVol", block.Name)
	assert.Nil(t, stub.Parent)
	assert.NotNil(t, block.Geometry)
	require.Len(t, block.Children, 2)
	assert.True(t, block.Children[0].IsStub())
	assert.True(t, block.Children[1].IsStub())

	same, err := g.Expand(block)
	require.NoError(t, err)
	assert.Same(t, block, same)

	pipe1, err := g.Expand(block.Children[0])
	require.NoError(t, err)
	assert.Equal(t, "/World/BlockVol/pipe1", pipe1.Path())
	assert.Len(t, g.Stubs(), 1)
}

func TestExpandAll(t *testing.T) {
	g := loadSample(t, Options{Policy: LazyStub()})
	block, err := g.ExpandAll(g.Root.Children[0])
	require.NoError(t, err)
	assert.Empty(t, g.Stubs())
	require.Len(t, block.Children, 2)
	assert.True(t, block.Children[1].IsLink())
	assert.Same(t, block.Children[0].Geometry, block.Children[1].Geometry)
}

func TestEagerUpToDepth(t *testing.T) {
	g := loadSample(t, Options{Policy: EagerUpToDepth(1)})
	block := g.Root.Children[0]
	assert.Equal(t, KindVolume, block.Kind)
	stubs := g.Stubs()
	require.Len(t, stubs, 2)
	for _, s := range stubs {
		assert.Equal(t, 2, s.Depth())
	}
	assert.Equal(t, "EagerUpToDepth(1)", EagerUpToDepth(1).String())
	assert.True(t, EagerUpToDepth(1).Realize(1))
	assert.False(t, EagerUpToDepth(1).Realize(2))
	assert.True(t, EagerAll().Realize(100))
	assert.False(t, LazyStub().Realize(1))
}

func TestRebuild(t *testing.T) {
	g := loadSample(t, Options{})
	pipe1 := g.Find("/World/BlockVol/pipe1")
	pipe2 := g.Find("/World/BlockVol/pipe2")
	before := pipe1.Geometry.Volume()

	s, err := g.Doc.Resolver().Solid("Pipe", "")
	require.NoError(t, err)
	s.Params.(*gdml.Tube).RMax = 3
	geo, err := g.Rebuild("Pipe")
	require.NoError(t, err)
	assert.Same(t, pipe1.Geometry, geo)
	assert.Less(t, pipe2.Geometry.Volume(), before)
	assert.False(t, pipe2.Shape().Contains(math64.Vec3(4, 0, 0)))

	_, err = g.Rebuild("Nope")
	assert.ErrorIs(t, err, gdml.ErrNotFound)
}

func TestSummary(t *testing.T) {
	g := loadSample(t, Options{})
	s := g.Summary()
	assert.Equal(t, "World", s.World)
	assert.Equal(t, 3, s.Volumes)
	assert.Equal(t, 0, s.Assemblies)
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 1, s.Links)
	assert.Equal(t, 0, s.Stubs)
	assert.Empty(t, s.Errors)
	require.Len(t, s.Solids, 3)
	assert.Equal(t, "Holed", s.Solids[0].Name)
	assert.Equal(t, "subtraction", s.Solids[0].Kind)
	assert.Equal(t, "WorldBox", s.Solids[2].Name)
	assert.InDelta(t, 1e9, s.Solids[2].Volume, 1e-3)
}

func TestWalk(t *testing.T) {
	g := loadSample(t, Options{})
	var names []string
	g.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return Continue
	})
	assert.Equal(t, []string{"World", "BlockVol", "pipe1", "pipe2"}, names)

	names = nil
	g.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "BlockVol"
	})
	assert.Equal(t, []string{"World", "BlockVol"}, names)

	names = nil
	g.Root.WalkDownPost(func(n *Node) {
		names = append(names, n.Name)
	})
	assert.Equal(t, []string{"pipe1", "pipe2", "BlockVol", "World"}, names)

	var up []string
	g.Find("/World/BlockVol/pipe2").WalkUp(func(n *Node) bool {
		up = append(up, n.Name)
		return Continue
	})
	assert.Equal(t, []string{"pipe2", "BlockVol", "World"}, up)
}

func TestAssembly(t *testing.T) {
	g, err := Build(readDoc(t, `
<volume name="A"><materialref ref="G4_AIR"/><solidref ref="b"/></volume>
<assembly name="Asm">
  <physvol name="a1"><volumeref ref="A"/><position name="a1p" x="-20"/></physvol>
  <physvol name="a2"><volumeref ref="A"/><position name="a2p" x="20"/></physvol>
</assembly>
<volume name="W"><materialref ref="G4_AIR"/><solidref ref="w"/>
  <physvol name="asm"><volumeref ref="Asm"/><position name="ap" y="5"/></physvol>
</volume>`), Options{})
	require.NoError(t, err)
	asm := g.Find("/W/asm")
	require.NotNil(t, asm)
	assert.Equal(t, KindAssembly, asm.Kind)
	assert.Nil(t, asm.Geometry)
	assert.Nil(t, asm.Shape())
	a2 := g.Find("/W/asm/a2")
	require.NotNil(t, a2)
	origin := a2.WorldTransform().Apply(math64.Vector3{})
	assert.True(t, origin.IsEqualTol(math64.Vec3(20, 5, 0), 1e-9), origin.String())
	assert.Equal(t, 1, g.Summary().Assemblies)
}
