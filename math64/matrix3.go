// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math64

import "math"

// Matrix3 is a 3x3 matrix in row-major order, used for rotations
// and non-uniform scales.
type Matrix3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotationX returns the rotation about the X axis by angle radians.
func RotationX(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

// RotationY returns the rotation about the Y axis by angle radians.
func RotationY(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// RotationZ returns the rotation about the Z axis by angle radians.
func RotationZ(angle float64) Matrix3 {
	s, c := math.Sincos(angle)
	return Matrix3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// ScaleMatrix returns the diagonal scale matrix for s.
func ScaleMatrix(s Vector3) Matrix3 {
	return Matrix3{{s.X, 0, 0}, {0, s.Y, 0}, {0, 0, s.Z}}
}

// Mul returns the matrix product m * o.
func (m Matrix3) Mul(o Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// MulVector returns m * v.
func (m Matrix3) MulVector(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m, which is the inverse of a rotation.
func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Determinant returns the determinant of m.
func (m Matrix3) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the inverse of m, and false if m is singular.
func (m Matrix3) Inverse() (Matrix3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Matrix3{}, false
	}
	id := 1 / det
	var r Matrix3
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * id
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * id
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * id
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * id
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * id
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * id
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * id
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * id
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * id
	return r, true
}

// IsIdentity returns whether m is the identity within tol.
func (m Matrix3) IsIdentity(tol float64) bool {
	return m.IsEqualTol(Identity3(), tol)
}

// IsEqualTol returns whether every element of m is within tol of o.
func (m Matrix3) IsEqualTol(o Matrix3, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-o[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// EulerXYZ returns the rotation that applies the X, then Y, then Z axis
// rotations by the given angles in degrees: Rz(z) * Ry(y) * Rx(x).
func EulerXYZ(angles Vector3) Matrix3 {
	return RotationZ(DegToRad(angles.Z)).Mul(RotationY(DegToRad(angles.Y))).Mul(RotationX(DegToRad(angles.X)))
}

// ToEulerXYZ decomposes a rotation into the angles in degrees of [EulerXYZ].
// The Y angle is in [-90, 90]; at the ±90 singularity the X angle is zero.
func (m Matrix3) ToEulerXYZ() Vector3 {
	sy := -m[2][0]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(sy)
	var x, z float64
	if math.Abs(sy) < 1-1e-12 {
		x = math.Atan2(m[2][1], m[2][2])
		z = math.Atan2(m[1][0], m[0][0])
	} else {
		z = math.Atan2(-m[0][1], m[1][1])
	}
	return Vector3{RadToDeg(x), RadToDeg(y), RadToDeg(z)}
}
