// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/units"
	"github.com/Masterminds/semver/v3"
)

// ReadFile reads the GDML document at path, resolving entity includes
// relative to its directory.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return readBytes(data, path, filepath.Dir(path))
}

// Read reads a GDML document from r. Entity includes are resolved
// relative to the current directory.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return readBytes(data, "", ".")
}

func readBytes(data []byte, file, dir string) (*Document, error) {
	data, ents, err := ResolveEntities(data, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	root, err := DecodeElement(bytes.NewReader(data))
	if err != nil {
		if file != "" {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return nil, err
	}
	doc := NewDocument()
	doc.File = file
	doc.Entities = ents
	rd := &reader{doc: doc}
	if err := rd.read(root); err != nil {
		return nil, err
	}
	return doc, nil
}

// reader fills in a document from its element tree.
type reader struct {
	doc *Document
}

func (rd *reader) errorf(el *Element, attr string, err error) error {
	var ae *attrError
	if errors.As(err, &ae) {
		attr, err = ae.attr, ae.err
	}
	return &ElementError{File: rd.doc.File, Line: el.Line, Element: el.Tag, Name: el.Name(), Attr: attr, Err: err}
}

func (rd *reader) eval(s string) (float64, error) {
	return rd.doc.Defines.Eval(s)
}

func (rd *reader) read(root *Element) error {
	if root.Tag != "gdml" {
		return rd.errorf(root, "", fmt.Errorf("root element is <%s>: %w", root.Tag, ErrInvalidDocument))
	}
	if s, ok := root.Attr("xsi:noNamespaceSchemaLocation"); ok {
		rd.doc.Schema = s
	}
	for _, sec := range root.Children {
		var err error
		switch sec.Tag {
		case "define":
			err = rd.readDefine(sec)
		case "materials":
			err = rd.readMaterials(sec)
		case "solids":
			err = rd.readSolids(sec)
		case "structure":
			err = rd.readStructure(sec)
		case "setup":
			err = rd.readSetup(sec)
		default:
			slog.Warn("gdml: ignoring unknown section", "section", sec.Tag, "line", sec.Line)
		}
		if err != nil {
			return err
		}
	}
	rd.doc.Link()
	if err := rd.doc.Materials.Validate(); err != nil {
		return &ElementError{File: rd.doc.File, Element: "materials", Err: err}
	}
	return nil
}

////////  define

// vector reads the x, y and z attributes, with absent values set to def.
func (rd *reader) vector(el *Element, def float64) (math64.Vector3, error) {
	v := math64.Vector3Scalar(def)
	for i, a := range [3]string{"x", "y", "z"} {
		x, ok, err := numberAttr(el, a, rd.eval)
		if err != nil {
			return v, err
		}
		if ok {
			switch i {
			case 0:
				v.X = x
			case 1:
				v.Y = x
			case 2:
				v.Z = x
			}
		}
	}
	return v, nil
}

// position reads a position element in millimeters.
func (rd *reader) position(el *Element) (math64.Vector3, error) {
	v, err := rd.vector(el, 0)
	if err != nil {
		return v, err
	}
	f, err := units.ToMillimeters(1, el.AttrValue("unit"))
	if err != nil {
		return v, &attrError{"unit", err}
	}
	return v.MulScalar(f), nil
}

// rotation reads a rotation element in degrees.
func (rd *reader) rotation(el *Element) (math64.Vector3, error) {
	v, err := rd.vector(el, 0)
	if err != nil {
		return v, err
	}
	f, err := units.ToDegrees(1, el.AttrValue("unit"))
	if err != nil {
		return v, &attrError{"unit", err}
	}
	return v.MulScalar(f), nil
}

func (rd *reader) readDefine(sec *Element) error {
	defs := &rd.doc.Defines
	for _, el := range sec.Children {
		var err error
		switch el.Tag {
		case "constant", "variable", "quantity":
			nv := &NamedValue{Name: el.Name(), Expr: el.AttrValue("value"), Unit: el.AttrValue("unit"), Type: el.AttrValue("type")}
			switch el.Tag {
			case "variable":
				nv.Kind = Variable
			case "quantity":
				nv.Kind = Quantity
			}
			err = defs.AddValue(nv)
			var ae *attrError
			if err != nil && !errors.Is(err, ErrDuplicateName) && !errors.As(err, &ae) {
				err = &attrError{"value", err}
			}
		case "position":
			var p math64.Vector3
			if p, err = rd.position(el); err == nil {
				err = defs.AddPosition(&Position{Name: el.Name(), Pos: p, Unit: el.AttrValue("unit")})
			}
		case "rotation":
			var r math64.Vector3
			if r, err = rd.rotation(el); err == nil {
				err = defs.AddRotation(&Rotation{Name: el.Name(), Angles: r, Unit: el.AttrValue("unit")})
			}
		case "scale":
			var s math64.Vector3
			if s, err = rd.vector(el, 1); err == nil {
				err = defs.AddScale(&Scale{Name: el.Name(), Factor: s})
			}
		default:
			defs.Preserved = append(defs.Preserved, el.Clone())
		}
		if err != nil {
			return rd.errorf(el, "", err)
		}
	}
	return nil
}

////////  materials

func (rd *reader) measure(el *Element) (*Measure, error) {
	if el == nil {
		return nil, nil
	}
	v, _, err := numberAttr(el, "value", rd.eval)
	if err != nil {
		return nil, err
	}
	return &Measure{Value: v, Unit: el.AttrValue("unit")}, nil
}

func (rd *reader) components(el *Element) ([]Component, error) {
	var comps []Component
	for _, c := range el.Children {
		var kind ComponentKind
		switch c.Tag {
		case "fraction":
			kind = Fraction
		case "composite":
			kind = Composite
		default:
			continue
		}
		n, _, err := numberAttr(c, "n", rd.eval)
		if err != nil {
			return nil, err
		}
		comps = append(comps, Component{Kind: kind, Ref: c.AttrValue("ref"), N: n})
	}
	return comps, nil
}

func (rd *reader) readMaterials(sec *Element) error {
	cat := &rd.doc.Materials
	for _, el := range sec.Children {
		var err error
		switch el.Tag {
		case "isotope":
			err = rd.readIsotope(el, cat)
		case "element":
			err = rd.readElement(el, cat)
		case "material":
			err = rd.readMaterial(el, cat)
		default:
			slog.Warn("gdml: ignoring materials element", "element", el.Tag, "line", el.Line)
		}
		if err != nil {
			return rd.errorf(el, "", err)
		}
	}
	return nil
}

func (rd *reader) readIsotope(el *Element, cat *Catalog) error {
	iso := &Isotope{Name: el.Name()}
	n, _, err := numberAttr(el, "N", rd.eval)
	if err != nil {
		return err
	}
	iso.N = int(n)
	if iso.Z, _, err = numberAttr(el, "Z", rd.eval); err != nil {
		return err
	}
	atom, err := rd.measure(el.Child("atom"))
	if err != nil {
		return err
	}
	if atom != nil {
		iso.Atom = *atom
	}
	return cat.AddIsotope(iso)
}

func (rd *reader) readElement(el *Element, cat *Catalog) error {
	ce := &ChemElement{Name: el.Name(), Formula: el.AttrValue("formula")}
	var err error
	if ce.Z, _, err = numberAttr(el, "Z", rd.eval); err != nil {
		return err
	}
	if ce.Atom, err = rd.measure(el.Child("atom")); err != nil {
		return err
	}
	if ce.Components, err = rd.components(el); err != nil {
		return err
	}
	return cat.AddElement(ce)
}

func (rd *reader) readMaterial(el *Element, cat *Catalog) error {
	m := &Material{Name: el.Name(), Formula: el.AttrValue("formula"), State: el.AttrValue("state")}
	var err error
	if m.Z, _, err = numberAttr(el, "Z", rd.eval); err != nil {
		return err
	}
	for _, f := range []struct {
		tag string
		m   **Measure
	}{{"D", &m.D}, {"atom", &m.Atom}, {"T", &m.T}, {"P", &m.P}, {"MEE", &m.MEE}} {
		if *f.m, err = rd.measure(el.Child(f.tag)); err != nil {
			return err
		}
	}
	if m.Components, err = rd.components(el); err != nil {
		return err
	}
	return cat.AddMaterial(m)
}

////////  structure

func (rd *reader) placementSpec(el *Element) (PlacementSpec, error) {
	var ps PlacementSpec
	for _, c := range el.Children {
		switch c.Tag {
		case "position":
			p, err := rd.position(c)
			if err != nil {
				return ps, err
			}
			ps.Position = &p
		case "positionref":
			ps.PositionRef = c.AttrValue("ref")
		case "rotation":
			r, err := rd.rotation(c)
			if err != nil {
				return ps, err
			}
			ps.Rotation = &r
		case "rotationref":
			ps.RotationRef = c.AttrValue("ref")
		case "scale":
			s, err := rd.vector(c, 1)
			if err != nil {
				return ps, err
			}
			ps.Scale = &s
		case "scaleref":
			ps.ScaleRef = c.AttrValue("ref")
		}
	}
	return ps, nil
}

func (rd *reader) readStructure(sec *Element) error {
	for _, el := range sec.Children {
		if el.Tag != "volume" && el.Tag != "assembly" {
			slog.Warn("gdml: ignoring structure element", "element", el.Tag, "name", el.Name(), "line", el.Line)
			continue
		}
		v := &Volume{Name: el.Name(), IsAssembly: el.Tag == "assembly", SolidID: NoSolid, Line: el.Line}
		for _, c := range el.Children {
			switch c.Tag {
			case "solidref":
				v.SolidRef = c.AttrValue("ref")
			case "materialref":
				v.MaterialRef = c.AttrValue("ref")
			case "auxiliary":
				v.Auxiliary = append(v.Auxiliary, c.Clone())
			case "physvol":
				pv, err := rd.physVol(c)
				if err != nil {
					return rd.errorf(c, "", err)
				}
				v.PhysVols = append(v.PhysVols, pv)
			default:
				slog.Warn("gdml: ignoring volume content", "volume", v.Name, "element", c.Tag, "line", c.Line)
			}
		}
		if err := rd.doc.AddVolume(v); err != nil {
			return rd.errorf(el, "", ErrDuplicateName)
		}
	}
	return nil
}

func (rd *reader) physVol(el *Element) (*PhysVol, error) {
	pv := &PhysVol{Name: el.Name(), VolumeID: NoVolume, Line: el.Line}
	if s, ok := el.Attr("copynumber"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			x, eerr := rd.eval(s)
			if eerr != nil {
				return nil, &attrError{"copynumber", eerr}
			}
			n = int(x)
		}
		pv.CopyNumber = n
	}
	if vr := el.Child("volumeref"); vr != nil {
		pv.VolumeRef = vr.AttrValue("ref")
	}
	var err error
	pv.Placement, err = rd.placementSpec(el)
	return pv, err
}

func (rd *reader) readSetup(el *Element) error {
	st := &Setup{Name: el.AttrValue("name"), Version: el.AttrValue("version")}
	if w := el.Child("world"); w != nil {
		st.World = w.AttrValue("ref")
	}
	if st.Version != "" {
		v, err := semver.NewVersion(st.Version)
		switch {
		case err != nil:
			slog.Warn("gdml: invalid setup version", "setup", st.Name, "version", st.Version)
		case v.Major() > 1:
			slog.Warn("gdml: setup version is newer than supported", "setup", st.Name, "version", st.Version)
		}
	}
	rd.doc.Setups = append(rd.doc.Setups, st)
	return nil
}
