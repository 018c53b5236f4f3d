// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/gdml/math64"
)

// Resolver looks up the named entities of a document. It reads the
// indexes built while the document was loaded and does not modify them.
type Resolver struct {
	doc *Document
}

func (r *Resolver) notFound(kind RefKind, name, from string, names []string) error {
	return &RefError{Kind: kind, Name: name, From: from, Suggestion: suggest(name, names)}
}

// Resolve returns the entity of the given kind and name: a *Position,
// *Rotation, *Scale, *Solid, *Volume, or for RefMaterial a *Material,
// *ChemElement or *Isotope. A missing name returns a *RefError.
func (r *Resolver) Resolve(kind RefKind, name string) (any, error) {
	switch kind {
	case RefPosition:
		return r.Position(name, "")
	case RefRotation:
		return r.Rotation(name, "")
	case RefScale:
		return r.Scale(name, "")
	case RefSolid:
		return r.Solid(name, "")
	case RefVolume:
		return r.Volume(name, "")
	case RefMaterial:
		return r.Material(name, "")
	}
	return nil, fmt.Errorf("resolve: unknown kind %v", kind)
}

// Position returns the named position define.
func (r *Resolver) Position(name, from string) (*Position, error) {
	if p, ok := r.doc.Defines.Positions.ValueByKeyTry(name); ok {
		return p, nil
	}
	return nil, r.notFound(RefPosition, name, from, r.doc.Defines.Positions.Keys())
}

// Rotation returns the named rotation define.
func (r *Resolver) Rotation(name, from string) (*Rotation, error) {
	if p, ok := r.doc.Defines.Rotations.ValueByKeyTry(name); ok {
		return p, nil
	}
	return nil, r.notFound(RefRotation, name, from, r.doc.Defines.Rotations.Keys())
}

// Scale returns the named scale define.
func (r *Resolver) Scale(name, from string) (*Scale, error) {
	if p, ok := r.doc.Defines.Scales.ValueByKeyTry(name); ok {
		return p, nil
	}
	return nil, r.notFound(RefScale, name, from, r.doc.Defines.Scales.Keys())
}

// Solid returns the named solid.
func (r *Resolver) Solid(name, from string) (*Solid, error) {
	if id, ok := r.doc.solidIndex[name]; ok {
		return r.doc.Solids[id], nil
	}
	return nil, r.notFound(RefSolid, name, from, slices.Sorted(maps.Keys(r.doc.solidIndex)))
}

// Volume returns the named volume or assembly.
func (r *Resolver) Volume(name, from string) (*Volume, error) {
	if id, ok := r.doc.volumeIndex[name]; ok {
		return r.doc.Volumes[id], nil
	}
	return nil, r.notFound(RefVolume, name, from, slices.Sorted(maps.Keys(r.doc.volumeIndex)))
}

// Material returns the named material, element or isotope.
func (r *Resolver) Material(name, from string) (any, error) {
	if m := r.doc.Materials.Lookup(name); m != nil {
		return m, nil
	}
	cat := &r.doc.Materials
	return nil, r.notFound(RefMaterial, name, from, cat.Materials.Keys())
}

// Placement resolves a placement spec to a placement and a scale
// factor, which is (1, 1, 1) when absent.
func (r *Resolver) Placement(ps *PlacementSpec, from string) (math64.Placement, math64.Vector3, error) {
	pos, angles, scale, err := r.PlacementValues(ps, from)
	if err != nil {
		return math64.Placement{}, scale, err
	}
	return math64.PlacementFromGDML(pos, angles), scale, nil
}

// PlacementValues resolves a placement spec to its GDML position in mm,
// rotation angles in degrees and scale factor.
func (r *Resolver) PlacementValues(ps *PlacementSpec, from string) (pos, angles, scale math64.Vector3, err error) {
	scale = math64.Vec3(1, 1, 1)
	switch {
	case ps.Position != nil:
		pos = *ps.Position
	case ps.PositionRef != "":
		p, err := r.Position(ps.PositionRef, from)
		if err != nil {
			return pos, angles, scale, err
		}
		pos = p.Pos
	}
	switch {
	case ps.Rotation != nil:
		angles = *ps.Rotation
	case ps.RotationRef != "":
		rot, err := r.Rotation(ps.RotationRef, from)
		if err != nil {
			return pos, angles, scale, err
		}
		angles = rot.Angles
	}
	switch {
	case ps.Scale != nil:
		scale = *ps.Scale
	case ps.ScaleRef != "":
		s, err := r.Scale(ps.ScaleRef, from)
		if err != nil {
			return pos, angles, scale, err
		}
		scale = s.Factor
	}
	return pos, angles, scale, nil
}
