// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"
	"log/slog"
	"strings"

	"cogentcore.org/gdml/math64"
)

// DefaultLunit and DefaultAunit are the GDML schema defaults.
const (
	DefaultLunit = "mm"
	DefaultAunit = "rad"
)

func (rd *reader) readSolids(sec *Element) error {
	for _, el := range sec.Children {
		s, err := rd.readSolid(el)
		if err != nil {
			return rd.errorf(el, "", err)
		}
		if err := rd.doc.AddSolid(s); err != nil {
			return rd.errorf(el, "", ErrDuplicateName)
		}
	}
	return nil
}

func (rd *reader) readSolid(el *Element) (*Solid, error) {
	s := &Solid{Name: el.Name(), Lunit: DefaultLunit, Aunit: DefaultAunit, Line: el.Line}
	if u, ok := el.Attr("lunit"); ok {
		s.Lunit = u
	}
	if u, ok := el.Attr("aunit"); ok {
		s.Aunit = u
	}
	kind := KindForTag(el.Tag)
	if kind == KindUnsupported {
		slog.Warn("gdml: unsupported solid", "solid", s.Name, "kind", el.Tag, "line", el.Line)
		s.Params = &Unsupported{Tag: el.Tag, Element: el.Clone()}
		return s, nil
	}
	p := newParams(kind)
	if err := decodeAttrs(el, p, s.Lunit, s.Aunit, rd.eval); err != nil {
		return nil, err
	}
	var err error
	switch p := p.(type) {
	case *Polycone:
		p.ZPlanes, err = rd.zplanes(el, s.Lunit)
	case *Polyhedra:
		p.ZPlanes, err = rd.zplanes(el, s.Lunit)
	case *Xtru:
		err = rd.readXtru(el, p, s.Lunit)
	case *Tessellated:
		err = rd.readTessellated(el, p)
	case *Tet:
		err = rd.readTet(el, p)
	case *Arb8:
		err = rd.readArb8(el, p, s.Lunit)
	case *Boolean:
		err = rd.readBoolean(el, p)
	case *MultiUnion:
		err = rd.readMultiUnion(el, p)
	}
	if err != nil {
		return nil, err
	}
	s.Params = p
	return s, nil
}

func (rd *reader) zplanes(el *Element, lunit string) ([]ZPlane, error) {
	var zps []ZPlane
	for _, c := range el.ChildrenByTag("zplane") {
		var zp ZPlane
		if err := decodeAttrs(c, &zp, lunit, "", rd.eval); err != nil {
			return nil, err
		}
		zps = append(zps, zp)
	}
	return zps, nil
}

func (rd *reader) readXtru(el *Element, p *Xtru, lunit string) error {
	for _, c := range el.Children {
		switch c.Tag {
		case "twoDimVertex":
			x, _, err := lengthAttr(c, "x", lunit, rd.eval)
			if err != nil {
				return err
			}
			y, _, err := lengthAttr(c, "y", lunit, rd.eval)
			if err != nil {
				return err
			}
			p.Vertices = append(p.Vertices, math64.Vec2(x, y))
		case "section":
			sc := Section{Scale: 1}
			if err := decodeAttrs(c, &sc, lunit, "", rd.eval); err != nil {
				return err
			}
			var err error
			if sc.Offset.X, _, err = lengthAttr(c, "xOffset", lunit, rd.eval); err != nil {
				return err
			}
			if sc.Offset.Y, _, err = lengthAttr(c, "yOffset", lunit, rd.eval); err != nil {
				return err
			}
			p.Sections = append(p.Sections, sc)
		}
	}
	return nil
}

// vertexRef resolves a position define used as a vertex.
func (rd *reader) vertexRef(el *Element, attr string) (Vertex, error) {
	name := el.AttrValue(attr)
	pos, err := rd.doc.Resolver().Position(name, el.Name())
	if err != nil {
		return Vertex{}, &attrError{attr, err}
	}
	return Vertex{Name: name, Pos: pos.Pos}, nil
}

func (rd *reader) readTessellated(el *Element, p *Tessellated) error {
	index := map[string]int{}
	add := func(v Vertex) int {
		if v.Name != "" {
			if i, ok := index[v.Name]; ok {
				return i
			}
			index[v.Name] = len(p.Vertices)
		}
		p.Vertices = append(p.Vertices, v)
		return len(p.Vertices) - 1
	}
	for _, c := range el.Children {
		var n int
		switch c.Tag {
		case "triangular":
			n = 3
		case "quadrangular":
			n = 4
		default:
			continue
		}
		relative := strings.EqualFold(c.AttrValue("type"), "RELATIVE")
		var f Facet
		var first Vertex
		for i := range n {
			v, err := rd.vertexRef(c, fmt.Sprintf("vertex%d", i+1))
			if err != nil {
				return err
			}
			if relative && i > 0 {
				v = Vertex{Pos: first.Pos.Add(v.Pos)}
			}
			if i == 0 {
				first = v
			}
			f.Vertices = append(f.Vertices, add(v))
		}
		p.Facets = append(p.Facets, f)
	}
	return nil
}

func (rd *reader) readTet(el *Element, p *Tet) error {
	for i := range p.Vertices {
		v, err := rd.vertexRef(el, fmt.Sprintf("vertex%d", i+1))
		if err != nil {
			return err
		}
		p.Vertices[i] = v
	}
	return nil
}

func (rd *reader) readArb8(el *Element, p *Arb8, lunit string) error {
	for i := range p.Vertices {
		x, _, err := lengthAttr(el, fmt.Sprintf("v%dx", i+1), lunit, rd.eval)
		if err != nil {
			return err
		}
		y, _, err := lengthAttr(el, fmt.Sprintf("v%dy", i+1), lunit, rd.eval)
		if err != nil {
			return err
		}
		p.Vertices[i] = math64.Vec2(x, y)
	}
	var err error
	p.Dz, _, err = lengthAttr(el, "dz", lunit, rd.eval)
	return err
}

// placed reads the position and rotation of a boolean operand or
// multiunion node, given by the element tags with the prefix
// (such as "first"), inline or by reference.
func (rd *reader) placed(el *Element, prefix string) (pos, rot math64.Vector3, err error) {
	res := rd.doc.Resolver()
	for _, c := range el.Children {
		switch c.Tag {
		case prefix + "position":
			pos, err = rd.position(c)
		case prefix + "rotation":
			rot, err = rd.rotation(c)
		case prefix + "positionref":
			var p *Position
			if p, err = res.Position(c.AttrValue("ref"), el.Name()); err == nil {
				pos = p.Pos
			}
		case prefix + "rotationref":
			var r *Rotation
			if r, err = res.Rotation(c.AttrValue("ref"), el.Name()); err == nil {
				rot = r.Angles
			}
		}
		if err != nil {
			return
		}
	}
	return
}

func (rd *reader) readBoolean(el *Element, p *Boolean) error {
	if f := el.Child("first"); f != nil {
		p.First = f.AttrValue("ref")
	}
	if s := el.Child("second"); s != nil {
		p.Second = s.AttrValue("ref")
	}
	if p.First == "" || p.Second == "" {
		return fmt.Errorf("boolean needs first and second: %w", ErrInvalidDocument)
	}
	var err error
	if p.Position, p.Rotation, err = rd.placed(el, ""); err != nil {
		return err
	}
	p.FirstPosition, p.FirstRotation, err = rd.placed(el, "first")
	return err
}

func (rd *reader) readMultiUnion(el *Element, p *MultiUnion) error {
	for _, c := range el.ChildrenByTag("multiUnionNode") {
		n := MultiUnionNode{Name: c.Name(), SolidID: NoSolid}
		if s := c.Child("solid"); s != nil {
			n.Solid = s.AttrValue("ref")
		}
		var err error
		if n.Position, n.Rotation, err = rd.placed(c, ""); err != nil {
			return err
		}
		p.Nodes = append(p.Nodes, n)
	}
	return nil
}
