// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
)

// operand returns the geometry of a boolean operand, using the linked
// ID when it still names the operand.
func (b *Builder) operand(s *gdml.Solid, id gdml.SolidID, name string) (*Geometry, error) {
	if b.doc != nil {
		if o := b.doc.Solid(id); o != nil && o.Name == name {
			return b.Build(o)
		}
	}
	return b.BuildName(name, s.Name)
}

// placed returns the operand shape in its GDML frame, moved by the
// placement given as a GDML position and rotation.
func placed(g *Geometry, pos, angles math64.Vector3) brep.Shape {
	return brep.Place(g.Centered(), math64.PlacementFromGDML(pos, angles))
}

// buildBoolean combines the two operands, with the second placed
// relative to the first.
func buildBoolean(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.Boolean)
	first, err := b.operand(s, p.FirstID, p.First)
	if err != nil {
		return nil, err
	}
	second, err := b.operand(s, p.SecondID, p.Second)
	if err != nil {
		return nil, err
	}
	a := placed(first, p.FirstPosition, p.FirstRotation)
	c := placed(second, p.Position, p.Rotation)
	var sh brep.Shape
	switch p.Op {
	case gdml.KindUnion:
		sh = brep.Fuse(a, c)
	case gdml.KindSubtraction:
		sh = brep.Cut(a, c)
	default:
		sh = brep.Common(a, c)
	}
	return centered(sh), nil
}

func buildMultiUnion(b *Builder, s *gdml.Solid) (*Geometry, error) {
	p := s.Params.(*gdml.MultiUnion)
	if len(p.Nodes) == 0 {
		return nil, invalid("multiUnion without nodes")
	}
	shapes := make([]brep.Shape, len(p.Nodes))
	for i, n := range p.Nodes {
		g, err := b.operand(s, n.SolidID, n.Solid)
		if err != nil {
			return nil, err
		}
		shapes[i] = placed(g, n.Position, n.Rotation)
	}
	return centered(brep.FuseAll(shapes...)), nil
}
