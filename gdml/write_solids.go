// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"
	"strconv"

	"cogentcore.org/gdml/units"
)

// solid returns the element for the solid, generating the defines it
// references: boolean second placements and tessellated vertices.
func (wr *writer) solid(s *Solid) (*Element, error) {
	if s.Kind() == KindUnsupported {
		tag := "unknown"
		if u, ok := s.Params.(*Unsupported); ok {
			tag = u.Tag
		}
		return nil, fmt.Errorf("<%s>: %w", tag, ErrNoWriter)
	}
	el := NewElement(s.Kind().String(), "name", s.Name)
	if err := encodeAttrs(el, s.Params, s.Lunit, s.Aunit); err != nil {
		return nil, err
	}
	length, angle := hasUnits(s.Params)
	var err error
	switch p := s.Params.(type) {
	case *Polycone:
		err = wr.zplanes(el, p.ZPlanes, s.Lunit)
		length = true
	case *Polyhedra:
		err = wr.zplanes(el, p.ZPlanes, s.Lunit)
		length = true
	case *Xtru:
		err = wr.xtru(el, p, s.Lunit)
		length = true
	case *Tessellated:
		err = wr.tessellated(el, s, p)
	case *Tet:
		err = wr.tet(el, s, p)
	case *Arb8:
		err = wr.arb8(el, p, s.Lunit)
		length = true
	case *Boolean:
		err = wr.boolean(el, s, p)
	case *MultiUnion:
		err = wr.multiUnion(el, p)
	}
	if err != nil {
		return nil, err
	}
	if angle {
		el.SetAttr("aunit", s.Aunit)
	}
	if length {
		el.SetAttr("lunit", s.Lunit)
	}
	return el, nil
}

func lengthString(v float64, lunit string) (string, error) {
	x, err := units.FromMillimeters(v, lunit)
	if err != nil {
		return "", err
	}
	return FormatFloat(x), nil
}

func (wr *writer) zplanes(el *Element, zps []ZPlane, lunit string) error {
	for i := range zps {
		zel := NewElement("zplane")
		if err := encodeAttrs(zel, &zps[i], lunit, ""); err != nil {
			return err
		}
		el.Add(zel)
	}
	return nil
}

func (wr *writer) xtru(el *Element, p *Xtru, lunit string) error {
	for _, v := range p.Vertices {
		x, err := lengthString(v.X, lunit)
		if err != nil {
			return err
		}
		y, _ := lengthString(v.Y, lunit)
		el.Add(NewElement("twoDimVertex", "x", x, "y", y))
	}
	for i := range p.Sections {
		sc := &p.Sections[i]
		sel := NewElement("section")
		if err := encodeAttrs(sel, sc, lunit, ""); err != nil {
			return err
		}
		x, _ := lengthString(sc.Offset.X, lunit)
		y, _ := lengthString(sc.Offset.Y, lunit)
		sel.SetAttr("xOffset", x).SetAttr("yOffset", y)
		el.Add(sel)
	}
	return nil
}

// vertexRef returns the name of the position define for the vertex,
// generating one for unnamed vertices.
func (wr *writer) vertexRef(s *Solid, i int, v Vertex) (string, error) {
	base := v.Name
	if base == "" {
		base = s.Name + "_v" + strconv.Itoa(i)
	}
	name, isNew := uniqueName(wr.positions, base, v.Pos)
	if isNew {
		pel, err := positionElement("position", name, v.Pos, s.Lunit)
		if err != nil {
			return "", err
		}
		wr.genPositions = append(wr.genPositions, pel)
	}
	return name, nil
}

func (wr *writer) tessellated(el *Element, s *Solid, p *Tessellated) error {
	names := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		var err error
		if names[i], err = wr.vertexRef(s, i, v); err != nil {
			return err
		}
	}
	for _, f := range p.Facets {
		tag := "triangular"
		if len(f.Vertices) == 4 {
			tag = "quadrangular"
		}
		fel := NewElement(tag)
		for i, vi := range f.Vertices {
			if vi < 0 || vi >= len(names) {
				return fmt.Errorf("facet vertex index %d out of range", vi)
			}
			fel.SetAttr(fmt.Sprintf("vertex%d", i+1), names[vi])
		}
		fel.SetAttr("type", "ABSOLUTE")
		el.Add(fel)
	}
	return nil
}

func (wr *writer) tet(el *Element, s *Solid, p *Tet) error {
	for i, v := range p.Vertices {
		name, err := wr.vertexRef(s, i, v)
		if err != nil {
			return err
		}
		el.SetAttr(fmt.Sprintf("vertex%d", i+1), name)
	}
	return nil
}

func (wr *writer) arb8(el *Element, p *Arb8, lunit string) error {
	for i, v := range p.Vertices {
		x, err := lengthString(v.X, lunit)
		if err != nil {
			return err
		}
		y, _ := lengthString(v.Y, lunit)
		el.SetAttr(fmt.Sprintf("v%dx", i+1), x).SetAttr(fmt.Sprintf("v%dy", i+1), y)
	}
	dz, _ := lengthString(p.Dz, lunit)
	el.SetAttr("dz", dz)
	return nil
}

func (wr *writer) boolean(el *Element, s *Solid, p *Boolean) error {
	el.Add(NewElement("first", "ref", p.First), NewElement("second", "ref", p.Second))
	if !p.Position.IsZero() {
		name, err := wr.positionRef(s.Name+"_pos", p.Position)
		if err != nil {
			return err
		}
		el.Add(NewElement("positionref", "ref", name))
	}
	if !p.Rotation.IsZero() {
		name, err := wr.rotationRef(s.Name+"_rot", p.Rotation)
		if err != nil {
			return err
		}
		el.Add(NewElement("rotationref", "ref", name))
	}
	if !p.FirstPosition.IsZero() {
		fel, err := positionElement("firstposition", s.Name+"_firstpos", p.FirstPosition, wr.opts.Lunit)
		if err != nil {
			return err
		}
		el.Add(fel)
	}
	if !p.FirstRotation.IsZero() {
		fel, err := rotationElement("firstrotation", s.Name+"_firstrot", p.FirstRotation, wr.opts.Aunit)
		if err != nil {
			return err
		}
		el.Add(fel)
	}
	return nil
}

func (wr *writer) multiUnion(el *Element, p *MultiUnion) error {
	for _, n := range p.Nodes {
		nel := NewElement("multiUnionNode", "name", n.Name)
		nel.Add(NewElement("solid", "ref", n.Solid))
		if !n.Position.IsZero() {
			pel, err := positionElement("position", n.Name+"_pos", n.Position, wr.opts.Lunit)
			if err != nil {
				return err
			}
			nel.Add(pel)
		}
		if !n.Rotation.IsZero() {
			rel, err := rotationElement("rotation", n.Name+"_rot", n.Rotation, wr.opts.Aunit)
			if err != nil {
				return err
			}
			nel.Add(rel)
		}
		el.Add(nel)
	}
	return nil
}
