// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/units"
)

// ErrNoWriter is returned when writing a solid of a kind
// that cannot be written.
var ErrNoWriter = errors.New("no writer for solid kind")

// WriteOptions are the options for writing a document.
type WriteOptions struct {

	// Lunit and Aunit are the units of generated positions and rotations,
	// including inline physvol placements. Solids use their own units.
	Lunit string
	Aunit string

	// Split writes the define, materials, solids and structure sections
	// to separate files, included by the main file through entities.
	Split bool

	// Compact writes every element at the start of its line,
	// without the two-space indentation.
	Compact bool
}

// encoder returns an encoder writing to w with the indentation of the options.
func (o *WriteOptions) encoder(w io.Writer) *Encoder {
	enc := NewEncoder(w)
	if o != nil && o.Compact {
		enc.Indent = ""
	}
	return enc
}

// DefaultWriteOptions returns millimeter and degree output in one file.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{Lunit: "mm", Aunit: "deg"}
}

// SplitSections are the sections written to separate files in split mode.
var SplitSections = []string{"define", "materials", "solids", "structure"}

// writer builds the section elements of a document.
type writer struct {
	doc  *Document
	opts *WriteOptions

	// defines generated while writing solids, and their names.
	genPositions []*Element
	genRotations []*Element
	positions    map[string]math64.Vector3
	rotations    map[string]math64.Vector3
}

// Write writes the document as a single GDML file.
func (d *Document) Write(w io.Writer, opts *WriteOptions) error {
	secs, err := d.sections(opts)
	if err != nil {
		return err
	}
	enc := opts.encoder(w)
	enc.Header()
	root := d.rootElement()
	root.Children = secs
	return enc.Encode(root, 0)
}

// WriteFile writes the document to the file, or in split mode to the
// file and one file per section named <base>_<section>.xml.
func (d *Document) WriteFile(path string, opts *WriteOptions) error {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	if !opts.Split {
		return writeFile(path, func(w io.Writer) error { return d.Write(w, opts) })
	}
	secs, err := d.sections(opts)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := filepath.Dir(path)
	var decls strings.Builder
	root := d.rootElement()
	var tail []*Element
	for _, sec := range secs {
		if !isSplitSection(sec.Tag) {
			tail = append(tail, sec)
			continue
		}
		fn := base + "_" + sec.Tag + ".xml"
		fmt.Fprintf(&decls, "<!ENTITY %s SYSTEM \"%s\">\n", sec.Tag, fn)
		err := writeFile(filepath.Join(dir, fn), func(w io.Writer) error {
			return opts.encoder(w).Encode(sec, 0)
		})
		if err != nil {
			return err
		}
	}
	return writeFile(path, func(w io.Writer) error {
		enc := opts.encoder(w)
		enc.Header()
		enc.Raw("<!DOCTYPE gdml [\n" + decls.String() + "]>\n")
		enc.Start(root, 0)
		for _, s := range SplitSections {
			enc.Raw(enc.Indent + "&" + s + ";\n")
		}
		for _, el := range tail {
			enc.Encode(el, 1)
		}
		return enc.End(root, 0)
	})
}

func isSplitSection(tag string) bool {
	for _, s := range SplitSections {
		if s == tag {
			return true
		}
	}
	return false
}

// writeFile creates the file and writes it with fn, closing it on all paths.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = fn(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (d *Document) rootElement() *Element {
	schema := d.Schema
	if schema == "" {
		schema = SchemaLocation
	}
	return NewElement("gdml",
		"xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance",
		"xsi:noNamespaceSchemaLocation", schema)
}

// sections returns the define, materials, solids, structure
// and setup elements of the document.
func (d *Document) sections(opts *WriteOptions) ([]*Element, error) {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	wr := &writer{doc: d, opts: opts, positions: map[string]math64.Vector3{}, rotations: map[string]math64.Vector3{}}
	for _, p := range d.Defines.Positions.Values() {
		wr.positions[p.Name] = p.Pos
	}
	for _, r := range d.Defines.Rotations.Values() {
		wr.rotations[r.Name] = r.Angles
	}
	solids := NewElement("solids")
	for _, s := range d.Solids {
		el, err := wr.solid(s)
		if err != nil {
			return nil, &ElementError{File: d.File, Line: s.Line, Element: s.Kind().String(), Name: s.Name, Err: err}
		}
		solids.Add(el)
	}
	define, err := wr.define()
	if err != nil {
		return nil, err
	}
	structure := NewElement("structure")
	for _, v := range d.Volumes {
		el, err := wr.volume(v)
		if err != nil {
			return nil, &ElementError{File: d.File, Element: "volume", Name: v.Name, Err: err}
		}
		structure.Add(el)
	}
	secs := []*Element{define, wr.materials(), solids, structure}
	for _, st := range d.Setups {
		secs = append(secs, NewElement("setup", "name", st.Name, "version", st.Version).
			Add(NewElement("world", "ref", st.World)))
	}
	return secs, nil
}

////////  define

func vectorElement(tag, name string, v math64.Vector3, unit string) *Element {
	el := NewElement(tag)
	if name != "" {
		el.SetAttr("name", name)
	}
	el.SetAttr("x", FormatFloat(v.X)).SetAttr("y", FormatFloat(v.Y)).SetAttr("z", FormatFloat(v.Z))
	if unit != "" {
		el.SetAttr("unit", unit)
	}
	return el
}

// positionElement returns a position element with v in millimeters
// converted to the unit.
func positionElement(tag, name string, v math64.Vector3, unit string) (*Element, error) {
	var err error
	var c [3]float64
	for i, x := range [3]float64{v.X, v.Y, v.Z} {
		if c[i], err = units.FromMillimeters(x, unit); err != nil {
			return nil, err
		}
	}
	if unit == "" {
		unit = DefaultLunit
	}
	return vectorElement(tag, name, math64.Vec3(c[0], c[1], c[2]), unit), nil
}

// rotationElement returns a rotation element with angles in degrees
// converted to the unit.
func rotationElement(tag, name string, a math64.Vector3, unit string) (*Element, error) {
	var err error
	var c [3]float64
	for i, x := range [3]float64{a.X, a.Y, a.Z} {
		if c[i], err = units.FromDegrees(x, unit); err != nil {
			return nil, err
		}
	}
	if unit == "" {
		unit = DefaultAunit
	}
	return vectorElement(tag, name, math64.Vec3(c[0], c[1], c[2]), unit), nil
}

func (wr *writer) define() (*Element, error) {
	def := NewElement("define")
	for _, nv := range wr.doc.Defines.Values.Values() {
		el := NewElement(nv.Kind.String(), "name", nv.Name, "value", nv.Expr)
		if nv.Unit != "" {
			el.SetAttr("unit", nv.Unit)
		}
		if nv.Type != "" {
			el.SetAttr("type", nv.Type)
		}
		def.Add(el)
	}
	for _, p := range wr.doc.Defines.Positions.Values() {
		el, err := positionElement("position", p.Name, p.Pos, p.Unit)
		if err != nil {
			return nil, &ElementError{Element: "position", Name: p.Name, Attr: "unit", Err: err}
		}
		def.Add(el)
	}
	def.Add(wr.genPositions...)
	for _, r := range wr.doc.Defines.Rotations.Values() {
		el, err := rotationElement("rotation", r.Name, r.Angles, r.Unit)
		if err != nil {
			return nil, &ElementError{Element: "rotation", Name: r.Name, Attr: "unit", Err: err}
		}
		def.Add(el)
	}
	def.Add(wr.genRotations...)
	for _, s := range wr.doc.Defines.Scales.Values() {
		def.Add(vectorElement("scale", s.Name, s.Factor, ""))
	}
	for _, el := range wr.doc.Defines.Preserved {
		def.Add(el.Clone())
	}
	return def, nil
}

// uniqueName returns base, or base with the first numeric suffix, that is
// either unused in names or already maps to the value v. It records the
// name for v.
func uniqueName(names map[string]math64.Vector3, base string, v math64.Vector3) (string, bool) {
	name := base
	for i := 1; ; i++ {
		old, has := names[name]
		if !has {
			names[name] = v
			return name, true
		}
		if old == v {
			return name, false
		}
		name = base + "_" + strconv.Itoa(i)
	}
}

// positionRef returns the name of a position define with value v,
// generating the define if needed.
func (wr *writer) positionRef(base string, v math64.Vector3) (string, error) {
	name, isNew := uniqueName(wr.positions, base, v)
	if isNew {
		el, err := positionElement("position", name, v, wr.opts.Lunit)
		if err != nil {
			return "", err
		}
		wr.genPositions = append(wr.genPositions, el)
	}
	return name, nil
}

// rotationRef returns the name of a rotation define with value v,
// generating the define if needed.
func (wr *writer) rotationRef(base string, v math64.Vector3) (string, error) {
	name, isNew := uniqueName(wr.rotations, base, v)
	if isNew {
		el, err := rotationElement("rotation", name, v, wr.opts.Aunit)
		if err != nil {
			return "", err
		}
		wr.genRotations = append(wr.genRotations, el)
	}
	return name, nil
}

////////  materials

func measureElement(tag string, m *Measure) *Element {
	if m == nil {
		return nil
	}
	el := NewElement(tag)
	if m.Unit != "" {
		el.SetAttr("unit", m.Unit)
	}
	return el.SetAttr("value", FormatFloat(m.Value))
}

func componentElements(comps []Component) []*Element {
	els := make([]*Element, len(comps))
	for i, c := range comps {
		els[i] = NewElement(c.Kind.String(), "n", FormatFloat(c.N), "ref", c.Ref)
	}
	return els
}

func (wr *writer) materials() *Element {
	cat := &wr.doc.Materials
	mats := NewElement("materials")
	for _, iso := range cat.Isotopes.Values() {
		mats.Add(NewElement("isotope", "name", iso.Name, "N", strconv.Itoa(iso.N), "Z", FormatFloat(iso.Z)).
			Add(measureElement("atom", &iso.Atom)))
	}
	for _, ce := range cat.Elements.Values() {
		el := NewElement("element", "name", ce.Name)
		if ce.Formula != "" {
			el.SetAttr("formula", ce.Formula)
		}
		if ce.Z != 0 {
			el.SetAttr("Z", FormatFloat(ce.Z))
		}
		el.Add(measureElement("atom", ce.Atom))
		el.Add(componentElements(ce.Components)...)
		mats.Add(el)
	}
	for _, m := range cat.Materials.Values() {
		el := NewElement("material", "name", m.Name)
		if m.Formula != "" {
			el.SetAttr("formula", m.Formula)
		}
		if m.Z != 0 {
			el.SetAttr("Z", FormatFloat(m.Z))
		}
		if m.State != "" {
			el.SetAttr("state", m.State)
		}
		el.Add(measureElement("T", m.T), measureElement("P", m.P), measureElement("MEE", m.MEE),
			measureElement("D", m.D), measureElement("atom", m.Atom))
		el.Add(componentElements(m.Components)...)
		mats.Add(el)
	}
	return mats
}

////////  structure

func (wr *writer) volume(v *Volume) (*Element, error) {
	if v.IsAssembly {
		el := NewElement("assembly", "name", v.Name)
		for _, pv := range v.PhysVols {
			pel, err := wr.physVol(pv)
			if err != nil {
				return nil, err
			}
			el.Add(pel)
		}
		return el, nil
	}
	el := NewElement("volume", "name", v.Name)
	if v.MaterialRef != "" {
		el.Add(NewElement("materialref", "ref", v.MaterialRef))
	}
	el.Add(NewElement("solidref", "ref", v.SolidRef))
	for _, pv := range v.PhysVols {
		pel, err := wr.physVol(pv)
		if err != nil {
			return nil, err
		}
		el.Add(pel)
	}
	for _, aux := range v.Auxiliary {
		el.Add(aux.Clone())
	}
	return el, nil
}

func (wr *writer) physVol(pv *PhysVol) (*Element, error) {
	el := NewElement("physvol")
	if pv.Name != "" {
		el.SetAttr("name", pv.Name)
	}
	if pv.CopyNumber > 1 {
		el.SetAttr("copynumber", strconv.Itoa(pv.CopyNumber))
	}
	el.Add(NewElement("volumeref", "ref", pv.VolumeRef))
	ps := &pv.Placement
	named := func(suffix string) string {
		if pv.Name == "" {
			return ""
		}
		return pv.Name + suffix
	}
	switch {
	case ps.Position != nil:
		pel, err := positionElement("position", named("_pos"), *ps.Position, wr.opts.Lunit)
		if err != nil {
			return nil, err
		}
		el.Add(pel)
	case ps.PositionRef != "":
		el.Add(NewElement("positionref", "ref", ps.PositionRef))
	}
	switch {
	case ps.Rotation != nil:
		rel, err := rotationElement("rotation", named("_rot"), *ps.Rotation, wr.opts.Aunit)
		if err != nil {
			return nil, err
		}
		el.Add(rel)
	case ps.RotationRef != "":
		el.Add(NewElement("rotationref", "ref", ps.RotationRef))
	}
	switch {
	case ps.Scale != nil:
		el.Add(vectorElement("scale", named("_scl"), *ps.Scale, ""))
	case ps.ScaleRef != "":
		el.Add(NewElement("scaleref", "ref", ps.ScaleRef))
	}
	return el, nil
}
