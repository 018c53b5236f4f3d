// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math64

// Affine is a linear transform followed by a translation: p' = M*p + T.
type Affine struct {
	M Matrix3
	T Vector3
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{M: Identity3()}
}

// Translation returns the transform translating by t.
func Translation(t Vector3) Affine {
	return Affine{M: Identity3(), T: t}
}

// Linear returns the transform applying m without translation.
func Linear(m Matrix3) Affine {
	return Affine{M: m}
}

// Apply returns the transformed point.
func (a Affine) Apply(p Vector3) Vector3 {
	return a.M.MulVector(p).Add(a.T)
}

// Mul returns the composition a * o, which applies o first, then a.
func (a Affine) Mul(o Affine) Affine {
	return Affine{M: a.M.Mul(o.M), T: a.M.MulVector(o.T).Add(a.T)}
}

// Inverse returns the inverse transform, and false if it is singular.
func (a Affine) Inverse() (Affine, bool) {
	mi, ok := a.M.Inverse()
	if !ok {
		return Affine{}, false
	}
	return Affine{M: mi, T: mi.MulVector(a.T).Negate()}, true
}

// IsIdentity returns whether the transform is the identity within tol.
func (a Affine) IsIdentity(tol float64) bool {
	return a.M.IsIdentity(tol) && a.T.IsEqualTol(Vector3{}, tol)
}

// IsEqualTol returns whether both transforms are equal within tol.
func (a Affine) IsEqualTol(o Affine, tol float64) bool {
	return a.M.IsEqualTol(o.M, tol) && a.T.IsEqualTol(o.T, tol)
}
