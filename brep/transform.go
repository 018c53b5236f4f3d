// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Transformed is a shape moved by an affine transform.
type Transformed struct {
	Shape     Shape
	Transform math64.Affine
	inverse   math64.Affine
}

// NewTransformed returns the shape moved by the transform. Nested transforms
// are collapsed into one. It returns nil if the transform is singular.
func NewTransformed(s Shape, a math64.Affine) *Transformed {
	if t, ok := s.(*Transformed); ok {
		s = t.Shape
		a = a.Mul(t.Transform)
	}
	inv, ok := a.Inverse()
	if !ok {
		return nil
	}
	return &Transformed{Shape: s, Transform: a, inverse: inv}
}

func (tf *Transformed) Kind() string { return tf.Shape.Kind() }

func (tf *Transformed) Bounds() math64.Box3 {
	return tf.Shape.Bounds().Transform(tf.Transform)
}

func (tf *Transformed) Contains(p math64.Vector3) bool {
	return tf.Shape.Contains(tf.inverse.Apply(p))
}

func (tf *Transformed) Volume() float64 {
	return Volume(tf.Shape) * math.Abs(tf.Transform.M.Determinant())
}

func (tf *Transformed) Operands() []Shape { return []Shape{tf.Shape} }

// Translate returns the shape moved by the offset.
func Translate(s Shape, offset math64.Vector3) Shape {
	if offset.IsZero() {
		return s
	}
	return NewTransformed(s, math64.Translation(offset))
}

// Rotate returns the shape rotated about the origin.
func Rotate(s Shape, m math64.Matrix3) Shape {
	if m.IsIdentity(0) {
		return s
	}
	return NewTransformed(s, math64.Linear(m))
}

// Place returns the shape moved by the placement.
func Place(s Shape, p math64.Placement) Shape {
	if p.IsIdentity(0) {
		return s
	}
	return NewTransformed(s, p.Affine())
}

// Scale returns the shape scaled about the origin. Negative factors reflect.
// It returns nil if any factor is zero.
func Scale(s Shape, f math64.Vector3) Shape {
	if f == math64.Vec3(1, 1, 1) {
		return s
	}
	t := NewTransformed(s, math64.Linear(math64.ScaleMatrix(f)))
	if t == nil {
		return nil
	}
	return t
}
