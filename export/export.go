// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export writes a scene graph, or one of its subtrees, back to
// GDML. The exported document holds only what the subtree uses: its
// volumes, their solids and operands, and the materials they reference.
package export

import (
	"fmt"
	"io"
	"log/slog"

	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/scene"
)

// ErrNoWriter is returned for a solid kind that cannot be written.
var ErrNoWriter = gdml.ErrNoWriter

// placementTol is the tolerance under which a node placement is taken to
// be unchanged from its physvol, so that the original values are written.
const placementTol = 1e-12

// Options are the options for exporting a scene graph.
type Options struct {

	// Lunit is the length unit of the output, mm by default.
	Lunit string

	// Aunit is the angle unit of the output, deg by default.
	Aunit string

	// KeepUnits writes every solid in the units it was read with
	// instead of Lunit and Aunit.
	KeepUnits bool

	// Split writes the define, materials, solids and structure
	// sections to separate files included by the main file.
	Split bool

	// Compact turns off the two-space indentation of the output.
	Compact bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{Lunit: "mm", Aunit: "deg"}
}

func (o *Options) writeOptions() *gdml.WriteOptions {
	wo := &gdml.WriteOptions{Lunit: o.Lunit, Aunit: o.Aunit, Split: o.Split, Compact: o.Compact}
	if wo.Lunit == "" {
		wo.Lunit = "mm"
	}
	if wo.Aunit == "" {
		wo.Aunit = "deg"
	}
	return wo
}

// Write writes the subtree of the graph at root as a GDML document.
// A nil root exports the whole graph. Split is ignored; see [File].
func Write(w io.Writer, g *scene.Graph, root *scene.Node, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	doc, err := Document(g, root, opts)
	if err != nil {
		return err
	}
	return doc.Write(w, opts.writeOptions())
}

// File writes the subtree of the graph at root to the GDML file at path,
// with one file per section in split mode.
func File(path string, g *scene.Graph, root *scene.Node, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	doc, err := Document(g, root, opts)
	if err != nil {
		return err
	}
	if err := doc.WriteFile(path, opts.writeOptions()); err != nil {
		return err
	}
	slog.Info("export: wrote", "file", path, "world", doc.Setups[0].World, "volumes", len(doc.Volumes), "solids", len(doc.Solids))
	return nil
}

// Document returns a new document for the subtree of the graph at root,
// which becomes the world volume. Solids come before the solids that use
// them and volumes before the volumes that place them.
func Document(g *scene.Graph, root *scene.Node, opts *Options) (*gdml.Document, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if root == nil {
		root = g.Root
	}
	if root == nil {
		return nil, fmt.Errorf("export: empty scene graph: %w", gdml.ErrInvalidDocument)
	}
	ex := &exporter{
		src:     g.Doc,
		doc:     gdml.NewDocument(),
		opts:    opts,
		solids:  map[*gdml.Solid]bool{},
		volumes: map[*gdml.Volume]bool{},
		active:  map[*gdml.Volume]bool{},
	}
	ex.doc.Schema = g.Doc.Schema
	if err := ex.defines(); err != nil {
		return nil, err
	}
	world, err := ex.node(root)
	if err != nil {
		return nil, err
	}
	if err := ex.materials(); err != nil {
		return nil, err
	}
	ex.doc.Setups = []*gdml.Setup{{Name: "Default", Version: "1.0", World: world}}
	ex.doc.Link()
	return ex.doc, nil
}

// exporter builds the exported document.
type exporter struct {
	src  *gdml.Document
	doc  *gdml.Document
	opts *Options

	// solids and volumes of the source that were exported
	solids  map[*gdml.Solid]bool
	volumes map[*gdml.Volume]bool

	// volumes being exported, for the cycle guard
	active map[*gdml.Volume]bool

	materialRefs []string
}

// defines copies the named values and preserved elements. Positions and
// rotations are written inline or generated as needed.
func (ex *exporter) defines() error {
	defs := &ex.src.Defines
	for _, nv := range defs.Values.Values() {
		c := *nv
		if err := ex.doc.Defines.AddValue(&c); err != nil {
			return fmt.Errorf("export: define %q: %w", nv.Name, err)
		}
	}
	for _, el := range defs.Preserved {
		ex.doc.Defines.Preserved = append(ex.doc.Defines.Preserved, el.Clone())
	}
	return nil
}

// node exports the volume of the node and returns its name. Links
// export their source; stubs export from the document definitions.
func (ex *exporter) node(n *scene.Node) (string, error) {
	v := n.Volume
	if ex.volumes[v] {
		return v.Name, nil
	}
	switch n.Kind {
	case scene.KindLink:
		return ex.node(n.Source)
	case scene.KindStub:
		return ex.defined(v)
	}
	if ex.active[v] {
		return "", fmt.Errorf("export: volume %q placed inside itself: %w", v.Name, scene.ErrCyclicReference)
	}
	ex.active[v] = true
	defer delete(ex.active, v)
	ev := ex.newVolume(v)
	if !v.IsAssembly {
		if err := ex.solidRef(v); err != nil {
			return "", err
		}
	}
	for _, c := range n.Children {
		name, err := ex.node(c)
		if err != nil {
			return "", err
		}
		ev.PhysVols = append(ev.PhysVols, ex.physVol(c.PhysVol, name, c.Placement, c.Scale, v.Name))
	}
	ex.volumes[v] = true
	return v.Name, ex.addVolume(ev)
}

// defined exports the volume and its physvols from the document
// definitions, for parts of the graph that were never expanded.
func (ex *exporter) defined(v *gdml.Volume) (string, error) {
	if ex.volumes[v] {
		return v.Name, nil
	}
	if ex.active[v] {
		return "", fmt.Errorf("export: volume %q placed inside itself: %w", v.Name, scene.ErrCyclicReference)
	}
	ex.active[v] = true
	defer delete(ex.active, v)
	ev := ex.newVolume(v)
	if !v.IsAssembly {
		if err := ex.solidRef(v); err != nil {
			return "", err
		}
	}
	res := ex.src.Resolver()
	for _, pv := range v.PhysVols {
		cv, err := res.Volume(pv.VolumeRef, v.Name)
		if err != nil {
			return "", err
		}
		name, err := ex.defined(cv)
		if err != nil {
			return "", err
		}
		pl, scale, err := res.Placement(&pv.Placement, v.Name)
		if err != nil {
			return "", err
		}
		ev.PhysVols = append(ev.PhysVols, ex.physVol(pv, name, pl, scale, v.Name))
	}
	ex.volumes[v] = true
	return v.Name, ex.addVolume(ev)
}

func (ex *exporter) newVolume(v *gdml.Volume) *gdml.Volume {
	ev := &gdml.Volume{Name: v.Name, IsAssembly: v.IsAssembly, SolidRef: v.SolidRef, MaterialRef: v.MaterialRef}
	for _, aux := range v.Auxiliary {
		ev.Auxiliary = append(ev.Auxiliary, aux.Clone())
	}
	if v.MaterialRef != "" {
		ex.materialRefs = append(ex.materialRefs, v.MaterialRef)
	}
	return ev
}

func (ex *exporter) addVolume(ev *gdml.Volume) error {
	if err := ex.doc.AddVolume(ev); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// physVol returns the exported physvol placing the named volume with
// the given placement. When the placement is that of the source physvol,
// its original position and angles are kept so that they are written
// without rounding.
func (ex *exporter) physVol(src *gdml.PhysVol, volume string, pl math64.Placement, scale math64.Vector3, from string) *gdml.PhysVol {
	pv := &gdml.PhysVol{VolumeRef: volume}
	pos, angles := pl.GDMLPosition(), pl.GDMLAngles()
	if src != nil {
		pv.Name = src.Name
		pv.CopyNumber = src.CopyNumber
		p0, a0, _, err := ex.src.Resolver().PlacementValues(&src.Placement, from)
		if err == nil && math64.PlacementFromGDML(p0, a0).IsEqualTol(pl, placementTol) {
			pos, angles = p0, a0
		}
	}
	if !pos.IsZero() {
		pv.Placement.Position = &pos
	}
	if !angles.IsZero() {
		pv.Placement.Rotation = &angles
	}
	if scale != math64.Vec3(1, 1, 1) {
		pv.Placement.Scale = &scale
	}
	return pv
}

// solidRef exports the solid of the volume.
func (ex *exporter) solidRef(v *gdml.Volume) error {
	s, err := ex.src.Resolver().Solid(v.SolidRef, v.Name)
	if err != nil {
		return err
	}
	return ex.solid(s)
}

// solid exports the solid after its operands, re-expressed in the
// output units unless they are kept.
func (ex *exporter) solid(s *gdml.Solid) error {
	if ex.solids[s] {
		return nil
	}
	if s.Kind() == gdml.KindUnsupported {
		tag := "unknown"
		if u, ok := s.Params.(*gdml.Unsupported); ok {
			tag = u.Tag
		}
		return &gdml.ElementError{File: ex.src.File, Line: s.Line, Element: tag, Name: s.Name, Err: ErrNoWriter}
	}
	ex.solids[s] = true
	res := ex.src.Resolver()
	for _, name := range operandNames(s) {
		o, err := res.Solid(name, s.Name)
		if err != nil {
			return err
		}
		if err := ex.solid(o); err != nil {
			return err
		}
	}
	c := s.Clone()
	if !ex.opts.KeepUnits {
		wo := ex.opts.writeOptions()
		c.Lunit, c.Aunit = wo.Lunit, wo.Aunit
	}
	if err := ex.doc.AddSolid(c); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func operandNames(s *gdml.Solid) []string {
	switch p := s.Params.(type) {
	case *gdml.Boolean:
		return []string{p.First, p.Second}
	case *gdml.MultiUnion:
		names := make([]string, len(p.Nodes))
		for i, n := range p.Nodes {
			names[i] = n.Solid
		}
		return names
	}
	return nil
}

// materials copies the materials referenced by the exported volumes,
// with the elements and isotopes they are made of.
func (ex *exporter) materials() error {
	cat := &ex.src.Materials
	isos, els, mats := cat.Closure(ex.materialRefs)
	out := &ex.doc.Materials
	for _, name := range isos {
		if err := out.AddIsotope(cat.Isotopes.ValueByKey(name)); err != nil {
			return err
		}
	}
	for _, name := range els {
		if err := out.AddElement(cat.Elements.ValueByKey(name)); err != nil {
			return err
		}
	}
	for _, name := range mats {
		if err := out.AddMaterial(cat.Materials.ValueByKey(name)); err != nil {
			return err
		}
	}
	for _, ref := range ex.materialRefs {
		if !gdml.IsExternal(ref) && out.Lookup(ref) == nil {
			slog.Warn("export: volume material is not defined", "material", ref)
		}
	}
	return nil
}
