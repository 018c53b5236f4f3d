// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Polygon is a closed planar polygon; the last point connects to the first.
type Polygon []math64.Vector2

// SignedArea returns the shoelace area, positive for counter-clockwise order.
func (pg Polygon) SignedArea() float64 {
	a := 0.0
	n := len(pg)
	for i := range pg {
		a += pg[i].Cross(pg[(i+1)%n])
	}
	return a / 2
}

// Area returns the unsigned area.
func (pg Polygon) Area() float64 {
	return math.Abs(pg.SignedArea())
}

// Contains returns whether the point is inside the polygon,
// using the even-odd crossing rule. Points on an edge count as inside.
func (pg Polygon) Contains(p math64.Vector2) bool {
	n := len(pg)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := pg[i], pg[j]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b math64.Vector2) bool {
	const eps = 1e-12
	ab := b.Sub(a)
	ap := p.Sub(a)
	if math.Abs(ab.Cross(ap)) > eps*math.Max(1, ab.X*ab.X+ab.Y*ab.Y) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}

// Bounds returns the min and max corners of the polygon.
func (pg Polygon) Bounds() (min, max math64.Vector2) {
	min = math64.Vec2(math.Inf(1), math.Inf(1))
	max = math64.Vec2(math.Inf(-1), math.Inf(-1))
	for _, p := range pg {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return
}

// IsSelfIntersecting returns whether any two non-adjacent edges cross.
func (pg Polygon) IsSelfIntersecting() bool {
	n := len(pg)
	for i := 0; i < n; i++ {
		a1, a2 := pg[i], pg[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := pg[j], pg[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 math64.Vector2) bool {
	d1 := a2.Sub(a1).Cross(b1.Sub(a1))
	d2 := a2.Sub(a1).Cross(b2.Sub(a1))
	d3 := b2.Sub(b1).Cross(a1.Sub(b1))
	d4 := b2.Sub(b1).Cross(a2.Sub(b1))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// RegularPolygon returns the n-sided polygon with vertices at radius r,
// the first at angle start degrees, counter-clockwise.
func RegularPolygon(n int, r, start float64) Polygon {
	pg := make(Polygon, n)
	for i := range pg {
		a := math64.DegToRad(start + 360*float64(i)/float64(n))
		pg[i] = math64.Vec2(r*math.Cos(a), r*math.Sin(a))
	}
	return pg
}
