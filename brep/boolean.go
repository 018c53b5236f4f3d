// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"cogentcore.org/gdml/math64"
)

// Union is the region inside either operand.
type Union struct {
	A, B Shape
}

func (u *Union) Kind() string { return "Union" }

func (u *Union) Bounds() math64.Box3 {
	return u.A.Bounds().Union(u.B.Bounds())
}

func (u *Union) Contains(p math64.Vector3) bool {
	return u.A.Contains(p) || u.B.Contains(p)
}

func (u *Union) Operands() []Shape { return []Shape{u.A, u.B} }

// Subtraction is the region inside A and outside B.
type Subtraction struct {
	A, B Shape
}

func (s *Subtraction) Kind() string { return "Subtraction" }

// Bounds returns the bounds of A, which always contain the difference.
func (s *Subtraction) Bounds() math64.Box3 {
	return s.A.Bounds()
}

func (s *Subtraction) Contains(p math64.Vector3) bool {
	return s.A.Contains(p) && !s.B.Contains(p)
}

func (s *Subtraction) Operands() []Shape { return []Shape{s.A, s.B} }

// Intersection is the region inside both operands.
type Intersection struct {
	A, B Shape
}

func (in *Intersection) Kind() string { return "Intersection" }

func (in *Intersection) Bounds() math64.Box3 {
	return in.A.Bounds().Intersect(in.B.Bounds())
}

func (in *Intersection) Contains(p math64.Vector3) bool {
	return in.A.Contains(p) && in.B.Contains(p)
}

func (in *Intersection) Operands() []Shape { return []Shape{in.A, in.B} }

// Fuse returns the union of a and b. A nil operand yields the other.
func Fuse(a, b Shape) Shape {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &Union{A: a, B: b}
}

// Cut returns a with b removed. A nil b yields a.
func Cut(a, b Shape) Shape {
	if b == nil {
		return a
	}
	return &Subtraction{A: a, B: b}
}

// Common returns the intersection of a and b.
func Common(a, b Shape) Shape {
	return &Intersection{A: a, B: b}
}

// FuseAll fuses the shapes pairwise in order: ((s0 + s1) + s2) + ...
func FuseAll(shapes ...Shape) Shape {
	var r Shape
	for _, s := range shapes {
		r = Fuse(r, s)
	}
	return r
}
