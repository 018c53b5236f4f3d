// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package solid builds the [brep] shapes of GDML solids.

Each solid kind has a build function, registered in a dispatch table keyed by
[gdml.Kind]. Shapes are built the way a CAD kernel constructs them: tubes,
cones and cut tubes extend along +Z from z = 0, and their [Geometry.Offset]
moves them onto the GDML convention of a solid centered on its origin.
All other kinds are built centered, with a zero offset.

Geometry is cached per solid, so volumes and boolean operands that share a
solid share one *Geometry. [Builder.Rebuild] recomputes a solid after its
parameters were edited, updating the shared geometry in place.
*/
package solid

import (
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
)

var (
	// ErrUnsupportedSolidKind is returned for solids of a kind without a builder.
	ErrUnsupportedSolidKind = errors.New("unsupported solid kind")

	// ErrInvalidGeometry is returned for solid parameters that do not
	// describe a valid solid, such as rmin > rmax or a non-positive length.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrCyclicReference is returned for boolean solids that use themselves
	// as an operand, directly or through other solids.
	ErrCyclicReference = gdml.ErrCyclicReference
)

// Geometry is the built shape of a solid.
type Geometry struct {

	// Solid is the solid the shape was built from.
	Solid *gdml.Solid

	// Shape is the shape in its construction frame.
	Shape brep.Shape

	// Offset is the translation from the construction frame to the
	// GDML frame of the solid, which is centered on the solid origin.
	Offset math64.Vector3
}

// Centered returns the shape in the GDML frame of the solid.
func (g *Geometry) Centered() brep.Shape {
	return brep.Translate(g.Shape, g.Offset)
}

// Bounds returns the bounds of the solid in its GDML frame.
func (g *Geometry) Bounds() math64.Box3 {
	return g.Centered().Bounds()
}

// Volume returns the volume of the solid.
func (g *Geometry) Volume() float64 {
	return brep.Volume(g.Shape)
}

// buildFunc builds the shape of one kind of solid.
type buildFunc func(b *Builder, s *gdml.Solid) (*Geometry, error)

// builders is the dispatch table of build functions by kind.
var builders map[gdml.Kind]buildFunc

func init() {
	builders = map[gdml.Kind]buildFunc{
		gdml.KindBox:          buildBox,
		gdml.KindTube:         buildTube,
		gdml.KindCutTube:      buildCutTube,
		gdml.KindCone:         buildCone,
		gdml.KindSphere:       buildSphere,
		gdml.KindOrb:          buildOrb,
		gdml.KindTorus:        buildTorus,
		gdml.KindEllipsoid:    buildEllipsoid,
		gdml.KindElCone:       buildElCone,
		gdml.KindElTube:       buildElTube,
		gdml.KindTrap:         buildTrap,
		gdml.KindTrd:          buildTrd,
		gdml.KindPara:         buildPara,
		gdml.KindArb8:         buildArb8,
		gdml.KindPolycone:     buildPolycone,
		gdml.KindPolyhedra:    buildPolyhedra,
		gdml.KindXtru:         buildXtru,
		gdml.KindTessellated:  buildTessellated,
		gdml.KindTet:          buildTet,
		gdml.KindUnion:        buildBoolean,
		gdml.KindSubtraction:  buildBoolean,
		gdml.KindIntersection: buildBoolean,
		gdml.KindMultiUnion:   buildMultiUnion,
	}
}

// Supported returns whether solids of the kind can be built.
func Supported(k gdml.Kind) bool {
	_, ok := builders[k]
	return ok
}

// Builder builds and caches the geometry of the solids of a document.
type Builder struct {
	doc      *gdml.Document
	cache    map[*gdml.Solid]*Geometry
	building map[*gdml.Solid]bool
}

// NewBuilder returns a builder for the solids of the document, which
// is used to resolve boolean operands.
func NewBuilder(doc *gdml.Document) *Builder {
	return &Builder{doc: doc, cache: map[*gdml.Solid]*Geometry{}, building: map[*gdml.Solid]bool{}}
}

// Document returns the document of the builder.
func (b *Builder) Document() *gdml.Document {
	return b.doc
}

// Build returns the geometry of the solid, building it on first use.
// Errors are [*gdml.ElementError] values naming the solid.
func (b *Builder) Build(s *gdml.Solid) (*Geometry, error) {
	if g, ok := b.cache[s]; ok {
		return g, nil
	}
	if b.building[s] {
		return nil, b.errorf(s, fmt.Errorf("solid %q: %w", s.Name, ErrCyclicReference))
	}
	fn, ok := builders[s.Kind()]
	if !ok {
		tag := s.Kind().String()
		if u, isu := s.Params.(*gdml.Unsupported); isu {
			tag = u.Tag
		}
		return nil, b.errorf(s, fmt.Errorf("%s: %w", tag, ErrUnsupportedSolidKind))
	}
	b.building[s] = true
	defer delete(b.building, s)
	g, err := fn(b, s)
	if err != nil {
		var ee *gdml.ElementError
		if errors.As(err, &ee) {
			return nil, err
		}
		return nil, b.errorf(s, err)
	}
	g.Solid = s
	b.cache[s] = g
	slog.Debug("solid: built", "solid", s.Name, "kind", s.Kind(), "shape", g.Shape.Kind())
	return g, nil
}

// BuildName returns the geometry of the named solid.
func (b *Builder) BuildName(name, from string) (*Geometry, error) {
	if b.doc == nil {
		return nil, &gdml.RefError{Kind: gdml.RefSolid, Name: name, From: from}
	}
	s, err := b.doc.Resolver().Solid(name, from)
	if err != nil {
		return nil, err
	}
	return b.Build(s)
}

// Cached returns the cached geometry of the solid, or nil.
func (b *Builder) Cached(s *gdml.Solid) *Geometry {
	return b.cache[s]
}

// Rebuild recomputes the geometry of the solid, and of every cached solid
// that uses it as an operand, after the solid parameters were changed.
// Existing geometry is updated in place, so every holder of the *Geometry
// sees the new shape. If a solid fails to build, its previous geometry
// is kept and the first error is returned.
func (b *Builder) Rebuild(s *gdml.Solid) (*Geometry, error) {
	stale := []*gdml.Solid{s}
	for c := range b.cache {
		if c != s && b.dependsOn(c, s, map[*gdml.Solid]bool{}) {
			stale = append(stale, c)
		}
	}
	old := make(map[*gdml.Solid]*Geometry, len(stale))
	for _, c := range stale {
		old[c] = b.cache[c]
		delete(b.cache, c)
	}
	var first error
	for _, c := range stale {
		g, err := b.Build(c)
		o := old[c]
		switch {
		case err != nil:
			if first == nil {
				first = err
			}
			if o != nil {
				b.cache[c] = o
			}
		case o != nil:
			*o = *g
			b.cache[c] = o
		}
	}
	return b.cache[s], first
}

// operands returns the names of the solids that s is built from.
func operands(s *gdml.Solid) []string {
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

// dependsOn returns whether the solid s uses target, directly or indirectly.
func (b *Builder) dependsOn(s, target *gdml.Solid, seen map[*gdml.Solid]bool) bool {
	if seen[s] {
		return false
	}
	seen[s] = true
	if b.doc == nil {
		return false
	}
	for _, name := range operands(s) {
		o, err := b.doc.Resolver().Solid(name, s.Name)
		if err != nil {
			continue
		}
		if o == target || b.dependsOn(o, target, seen) {
			return true
		}
	}
	return false
}

func (b *Builder) errorf(s *gdml.Solid, err error) error {
	ee := &gdml.ElementError{Line: s.Line, Element: s.Kind().String(), Name: s.Name, Err: err}
	if b.doc != nil {
		ee.File = b.doc.File
	}
	if u, ok := s.Params.(*gdml.Unsupported); ok {
		ee.Element = u.Tag
	}
	return ee
}

// invalid returns an [ErrInvalidGeometry] error with the formatted reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidGeometry)
}

// centered returns a geometry for a shape built centered on the origin.
func centered(sh brep.Shape) *Geometry {
	return &Geometry{Shape: sh}
}

// alongZ returns a geometry for a shape built from z = 0 to z = h.
func alongZ(sh brep.Shape, h float64) *Geometry {
	return &Geometry{Shape: sh, Offset: math64.Vec3(0, 0, -h/2)}
}
