// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"errors"
	"fmt"

	"cogentcore.org/gdml/base/ordmap"
	"cogentcore.org/gdml/expr"
	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/units"
)

// ConstantKind distinguishes the define elements that name a number.
type ConstantKind int32

const (
	Constant ConstantKind = iota
	Variable
	Quantity
)

var constantTags = [...]string{"constant", "variable", "quantity"}

func (k ConstantKind) String() string { return constantTags[k] }

// NamedValue is a constant, variable or quantity define.
// Expr is the source expression, kept for export; Value is its value,
// with quantities converted to millimeters or radians.
type NamedValue struct {
	Kind  ConstantKind
	Name  string
	Expr  string
	Unit  string
	Type  string
	Value float64
}

// Position is a position define, in millimeters.
type Position struct {
	Name string
	Pos  math64.Vector3
	Unit string
}

// Rotation is a rotation define: GDML angles in degrees.
type Rotation struct {
	Name   string
	Angles math64.Vector3
	Unit   string
}

// Scale is a scale define.
type Scale struct {
	Name   string
	Factor math64.Vector3
}

// Defines is the define section of a document. Constants, variables and
// quantities share one namespace, evaluated in document order; positions,
// rotations and scales each have their own namespace.
type Defines struct {
	Values    ordmap.Map[string, *NamedValue]
	Positions ordmap.Map[string, *Position]
	Rotations ordmap.Map[string, *Rotation]
	Scales    ordmap.Map[string, *Scale]

	// Preserved are define elements that are kept but not interpreted,
	// such as matrix, in document order.
	Preserved []*Element

	table expr.Table
}

// Scope returns the expression scope of the defined values.
func (d *Defines) Scope() expr.Scope {
	return &d.table
}

// Eval evaluates an expression against the values defined so far.
func (d *Defines) Eval(s string) (float64, error) {
	return d.table.Eval(s)
}

// AddValue evaluates and adds a constant, variable or quantity.
// The unit of a quantity must be a known unit symbol.
func (d *Defines) AddValue(nv *NamedValue) error {
	v, err := d.table.Eval(nv.Expr)
	if err != nil {
		return err
	}
	if nv.Kind == Quantity && nv.Unit != "" {
		f, err := expr.Eval(nv.Unit, nil)
		if err != nil {
			return &attrError{"unit", fmt.Errorf("quantity %q unit %q: %w", nv.Name, nv.Unit, errors.Join(units.ErrUnsupportedUnit, err))}
		}
		v *= f
	}
	if err := d.Values.Insert(nv.Name, nv); err != nil {
		return ErrDuplicateName
	}
	nv.Value = v
	return d.table.Set(nv.Name, v)
}

// AddPosition adds a position define.
func (d *Defines) AddPosition(p *Position) error {
	if d.Positions.Insert(p.Name, p) != nil {
		return ErrDuplicateName
	}
	return nil
}

// AddRotation adds a rotation define.
func (d *Defines) AddRotation(r *Rotation) error {
	if d.Rotations.Insert(r.Name, r) != nil {
		return ErrDuplicateName
	}
	return nil
}

// AddScale adds a scale define.
func (d *Defines) AddScale(s *Scale) error {
	if d.Scales.Insert(s.Name, s) != nil {
		return ErrDuplicateName
	}
	return nil
}
