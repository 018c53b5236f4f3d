// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"
)

// SchemaLocation is the GDML schema URL written on the root element.
const SchemaLocation = "http://service-spi.web.cern.ch/service-spi/app/releases/GDML/schema/gdml.xsd"

// Entity is an external entity declared in the DOCTYPE of a document.
type Entity struct {
	Name string
	Path string
}

// Document is one GDML document: its define, materials, solids, structure
// and setup sections. Solids and volumes are kept in arenas indexed by
// [SolidID] and [VolumeID], with name indexes for reference resolution.
// Each document is independent; there are no shared tables.
type Document struct {

	// File is the path the document was read from, if any.
	File string

	// Schema is the schema location of the root element.
	Schema string

	// Entities are the external entities the document included.
	Entities []Entity

	Defines   Defines
	Materials Catalog
	Solids    []*Solid
	Volumes   []*Volume
	Setups    []*Setup

	solidIndex  map[string]SolidID
	volumeIndex map[string]VolumeID
}

// NewDocument returns a new empty document.
func NewDocument() *Document {
	return &Document{
		Schema:      SchemaLocation,
		solidIndex:  map[string]SolidID{},
		volumeIndex: map[string]VolumeID{},
	}
}

// AddSolid adds the solid to the document, assigning its ID.
func (d *Document) AddSolid(s *Solid) error {
	if _, has := d.solidIndex[s.Name]; has {
		return fmt.Errorf("solid %q: %w", s.Name, ErrDuplicateName)
	}
	s.ID = SolidID(len(d.Solids))
	d.Solids = append(d.Solids, s)
	d.solidIndex[s.Name] = s.ID
	return nil
}

// AddVolume adds the volume or assembly to the document, assigning its ID.
// Volumes and assemblies share one namespace.
func (d *Document) AddVolume(v *Volume) error {
	if _, has := d.volumeIndex[v.Name]; has {
		return fmt.Errorf("volume %q: %w", v.Name, ErrDuplicateName)
	}
	v.ID = VolumeID(len(d.Volumes))
	d.Volumes = append(d.Volumes, v)
	d.volumeIndex[v.Name] = v.ID
	return nil
}

// Solid returns the solid with the given ID, or nil.
func (d *Document) Solid(id SolidID) *Solid {
	if id < 0 || int(id) >= len(d.Solids) {
		return nil
	}
	return d.Solids[id]
}

// Volume returns the volume with the given ID, or nil.
func (d *Document) Volume(id VolumeID) *Volume {
	if id < 0 || int(id) >= len(d.Volumes) {
		return nil
	}
	return d.Volumes[id]
}

// Resolver returns the reference resolver of the document.
func (d *Document) Resolver() *Resolver {
	return &Resolver{doc: d}
}

// World returns the world volume of the first setup.
func (d *Document) World() (*Volume, error) {
	if len(d.Setups) == 0 {
		return nil, fmt.Errorf("no setup: %w", ErrInvalidDocument)
	}
	return d.Resolver().Volume(d.Setups[0].World, "setup")
}

// Link resolves the name references between solids and volumes to IDs.
// Unresolved references get [NoSolid] or [NoVolume] and are reported
// when they are used.
func (d *Document) Link() {
	sid := func(name string) SolidID {
		if id, ok := d.solidIndex[name]; ok {
			return id
		}
		return NoSolid
	}
	for _, s := range d.Solids {
		switch p := s.Params.(type) {
		case *Boolean:
			p.FirstID = sid(p.First)
			p.SecondID = sid(p.Second)
		case *MultiUnion:
			for i := range p.Nodes {
				p.Nodes[i].SolidID = sid(p.Nodes[i].Solid)
			}
		}
	}
	for _, v := range d.Volumes {
		v.SolidID = NoSolid
		if !v.IsAssembly {
			v.SolidID = sid(v.SolidRef)
		}
		for _, pv := range v.PhysVols {
			pv.VolumeID = NoVolume
			if id, ok := d.volumeIndex[pv.VolumeRef]; ok {
				pv.VolumeID = id
			}
		}
	}
}
