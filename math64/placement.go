// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math64

import "fmt"

// Placement is the position and orientation of an element relative to
// its parent, as used by the CAD host: a translation in millimeters,
// a rotation, and a center of rotation.
// A zero Rot is treated as the identity rotation.
type Placement struct {

	// Pos is the translation in mm, relative to the parent.
	Pos Vector3

	// Rot is the rotation, relative to the parent.
	Rot Matrix3

	// Center is the point about which Rot is applied.
	Center Vector3
}

// NewPlacement returns a placement with the given translation and an identity rotation.
func NewPlacement(pos Vector3) Placement {
	return Placement{Pos: pos, Rot: Identity3()}
}

// Defaults sets the identity rotation if Rot is nil (all zeros).
func (p *Placement) Defaults() {
	if p.Rot == (Matrix3{}) {
		p.Rot = Identity3()
	}
}

// Rotation returns Rot, with a nil rotation returned as the identity.
func (p Placement) Rotation() Matrix3 {
	if p.Rot == (Matrix3{}) {
		return Identity3()
	}
	return p.Rot
}

// Affine returns the transform of the placement:
// translate(Pos) * translate(Center) * Rot * translate(-Center).
func (p Placement) Affine() Affine {
	r := p.Rotation()
	t := p.Pos.Add(p.Center).Sub(r.MulVector(p.Center))
	return Affine{M: r, T: t}
}

// Mul returns the placement of o expressed in the parent frame of p,
// i.e. the composition p * o. The result has a zero Center.
func (p Placement) Mul(o Placement) Placement {
	a := p.Affine().Mul(o.Affine())
	return Placement{Pos: a.T, Rot: a.M}
}

// Translated returns p * translate(offset): the placement moved by
// offset expressed in the rotated local frame.
func (p Placement) Translated(offset Vector3) Placement {
	return p.Mul(NewPlacement(offset))
}

// IsIdentity returns whether the placement is the identity within tol.
func (p Placement) IsIdentity(tol float64) bool {
	return p.Affine().IsIdentity(tol)
}

// IsEqualTol returns whether both placements have the same transform within tol.
func (p Placement) IsEqualTol(o Placement, tol float64) bool {
	return p.Affine().IsEqualTol(o.Affine(), tol)
}

func (p Placement) String() string {
	return fmt.Sprintf("Placement{Pos: %v, Angles: %v}", p.Pos, p.GDMLAngles())
}

// GDML rotations apply the X, then Y, then Z axis rotations with the
// opposite sign of the CAD host rotation convention: the GDML angles
// (a, b, c) in degrees correspond to the CAD rotation Rz(-c)*Ry(-b)*Rx(-a).
// [RotationFromGDML] and [Placement.GDMLAngles] are exact inverses for
// angles with |b| < 90.

// RotationFromGDML returns the CAD rotation for the GDML rotation angles in degrees.
func RotationFromGDML(angles Vector3) Matrix3 {
	return EulerXYZ(angles.Negate())
}

// PlacementFromGDML returns the placement for a GDML position in mm and
// rotation angles in degrees.
func PlacementFromGDML(pos, angles Vector3) Placement {
	return Placement{Pos: pos, Rot: RotationFromGDML(angles)}
}

// GDMLAngles returns the GDML rotation angles in degrees of the placement rotation.
func (p Placement) GDMLAngles() Vector3 {
	a := p.Affine().M.ToEulerXYZ().Negate()
	return Vector3{cleanZero(a.X), cleanZero(a.Y), cleanZero(a.Z)}
}

// GDMLPosition returns the GDML position in mm of the placement,
// which is the translation of its transform.
func (p Placement) GDMLPosition() Vector3 {
	t := p.Affine().T
	return Vector3{cleanZero(t.X), cleanZero(t.Y), cleanZero(t.Z)}
}

// cleanZero turns negative zero into zero, so that it prints as "0".
func cleanZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
