// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"cogentcore.org/gdml/base/ordmap"
)

// Measure is a value with an optional unit, as in
// <D value="1.032" unit="g/cm3"/>. Units are kept as written.
type Measure struct {
	Value float64
	Unit  string
}

// ComponentKind tags a component of an element or material.
type ComponentKind int32

const (
	// Fraction is a mass fraction.
	Fraction ComponentKind = iota

	// Composite is a number of atoms per molecule.
	Composite
)

func (k ComponentKind) String() string {
	if k == Composite {
		return "composite"
	}
	return "fraction"
}

// Component is one constituent of an element or material.
type Component struct {
	Kind ComponentKind
	Ref  string
	N    float64
}

// Isotope is an isotope record.
type Isotope struct {
	Name string
	N    int
	Z    float64
	Atom Measure
}

// ChemElement is an element record: either a simple element with an
// atomic mass, or a mixture of isotope fractions.
type ChemElement struct {
	Name       string
	Formula    string
	Z          float64
	Atom       *Measure
	Components []Component
}

// Material is a material record: either a simple material with Z and
// atomic mass, or a mixture of elements or other materials.
type Material struct {
	Name    string
	Formula string
	Z       float64
	State   string

	D    *Measure
	Atom *Measure
	T    *Measure
	P    *Measure
	MEE  *Measure

	Components []Component
}

// Catalog holds the isotopes, elements and materials of a document.
// Each is a separate namespace, kept in document order.
type Catalog struct {
	Isotopes  ordmap.Map[string, *Isotope]
	Elements  ordmap.Map[string, *ChemElement]
	Materials ordmap.Map[string, *Material]
}

// IsExternal returns whether the name refers to a material or element that
// Geant4 provides from its NIST database without a definition in the document.
func IsExternal(name string) bool {
	return strings.HasPrefix(name, "G4_")
}

// AddIsotope adds an isotope.
func (c *Catalog) AddIsotope(iso *Isotope) error {
	if c.Isotopes.Insert(iso.Name, iso) != nil {
		return ErrDuplicateName
	}
	return nil
}

// AddElement adds an element.
func (c *Catalog) AddElement(el *ChemElement) error {
	if c.Elements.Insert(el.Name, el) != nil {
		return ErrDuplicateName
	}
	return nil
}

// AddMaterial adds a material.
func (c *Catalog) AddMaterial(m *Material) error {
	if c.Materials.Insert(m.Name, m) != nil {
		return ErrDuplicateName
	}
	return nil
}

// Lookup returns the material, element or isotope with the given name,
// searched in that order, or nil.
func (c *Catalog) Lookup(name string) any {
	if m, ok := c.Materials.ValueByKeyTry(name); ok {
		return m
	}
	if e, ok := c.Elements.ValueByKeyTry(name); ok {
		return e
	}
	if i, ok := c.Isotopes.ValueByKeyTry(name); ok {
		return i
	}
	return nil
}

// Validate checks that every component reference is defined or external,
// and logs a warning for fractions that do not sum to one.
func (c *Catalog) Validate() error {
	for _, el := range c.Elements.Values() {
		for _, comp := range el.Components {
			if !c.Isotopes.Has(comp.Ref) {
				return &RefError{Kind: RefMaterial, Name: comp.Ref, From: el.Name,
					Suggestion: suggest(comp.Ref, c.Isotopes.Keys())}
			}
		}
		checkFractions(el.Name, el.Components)
	}
	for _, m := range c.Materials.Values() {
		for _, comp := range m.Components {
			if IsExternal(comp.Ref) || c.Materials.Has(comp.Ref) || c.Elements.Has(comp.Ref) {
				continue
			}
			return &RefError{Kind: RefMaterial, Name: comp.Ref, From: m.Name,
				Suggestion: suggest(comp.Ref, append(c.Elements.Keys(), c.Materials.Keys()...))}
		}
		checkFractions(m.Name, m.Components)
	}
	return nil
}

func checkFractions(name string, comps []Component) {
	sum, n := 0.0, 0
	for _, comp := range comps {
		if comp.Kind == Fraction {
			sum += comp.N
			n++
		}
	}
	if n > 0 && math.Abs(sum-1) > 1e-6 {
		slog.Warn("fractions do not sum to 1", "name", name, "sum", sum)
	}
}

// Closure returns the names of the materials, elements and isotopes needed to
// define the given materials, each in dependency order: every record comes
// after the records it references. Unknown and external names are skipped.
func (c *Catalog) Closure(materials []string) (isotopes, elements, mats []string) {
	seen := map[string]bool{}
	visitIso := func(name string) {
		if seen["i:"+name] || !c.Isotopes.Has(name) {
			return
		}
		seen["i:"+name] = true
		isotopes = append(isotopes, name)
	}
	visitEl := func(name string) {
		el, ok := c.Elements.ValueByKeyTry(name)
		if !ok || seen["e:"+name] {
			return
		}
		seen["e:"+name] = true
		for _, comp := range el.Components {
			visitIso(comp.Ref)
		}
		elements = append(elements, name)
	}
	var visitMat func(name string, path []string) error
	visitMat = func(name string, path []string) error {
		m, ok := c.Materials.ValueByKeyTry(name)
		if !ok {
			visitEl(name)
			return nil
		}
		if seen["m:"+name] {
			return nil
		}
		for _, p := range path {
			if p == name {
				return fmt.Errorf("material %q: %w", name, ErrCyclicReference)
			}
		}
		for _, comp := range m.Components {
			if comp.Ref == name {
				// a material named after its element
				visitEl(name)
				continue
			}
			if err := visitMat(comp.Ref, append(path, name)); err != nil {
				return err
			}
		}
		seen["m:"+name] = true
		mats = append(mats, name)
		return nil
	}
	for _, name := range materials {
		if err := visitMat(name, nil); err != nil {
			slog.Error("materials", "err", err)
		}
	}
	return
}
