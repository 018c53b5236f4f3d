// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brep

import (
	"math"

	"cogentcore.org/gdml/math64"
)

// Revolution is a planar face revolved about the Z axis. The face is the
// Profile polygon in the (r, z) half-plane, with r >= 0 measured from the
// axis; it is swept from the angle Start through Sweep degrees,
// counter-clockwise about +Z. A Sweep of 360 or more is a full revolution.
type Revolution struct {
	Profile Polygon
	Start   float64
	Sweep   float64
}

// Wedge returns the revolution of the rectangle [0, radius] x [z0, z1],
// which is a cylindrical sector.
func Wedge(radius, z0, z1, start, sweep float64) *Revolution {
	return &Revolution{
		Profile: Polygon{{X: 0, Y: z0}, {X: radius, Y: z0}, {X: radius, Y: z1}, {X: 0, Y: z1}},
		Start:   start,
		Sweep:   sweep,
	}
}

func (rv *Revolution) Kind() string { return "Revolution" }

// InSweep returns whether the direction at angle phi degrees is within the sweep.
func (rv *Revolution) InSweep(phi float64) bool {
	if rv.Sweep >= 360 {
		return true
	}
	d := math.Mod(phi-rv.Start, 360)
	if d < 0 {
		d += 360
	}
	const eps = 1e-9
	return d <= rv.Sweep+eps || d >= 360-eps
}

func (rv *Revolution) Contains(p math64.Vector3) bool {
	r := math.Hypot(p.X, p.Y)
	if r > 0 && !rv.InSweep(math64.RadToDeg(math.Atan2(p.Y, p.X))) {
		return false
	}
	return rv.Profile.Contains(math64.Vec2(r, p.Z))
}

func (rv *Revolution) Bounds() math64.Box3 {
	mn, mx := rv.Profile.Bounds()
	rmin, rmax := math.Max(mn.X, 0), mx.X
	b := math64.B3Empty()
	add := func(r, deg float64) {
		a := math64.DegToRad(deg)
		x, y := r*math.Cos(a), r*math.Sin(a)
		b = b.ExpandByPoint(math64.Vec3(x, y, mn.Y)).ExpandByPoint(math64.Vec3(x, y, mx.Y))
	}
	if rv.Sweep >= 360 {
		return math64.B3(-rmax, -rmax, mn.Y, rmax, rmax, mx.Y)
	}
	end := rv.Start + rv.Sweep
	add(rmax, rv.Start)
	add(rmax, end)
	add(rmin, rv.Start)
	add(rmin, end)
	for a := math.Ceil(rv.Start/90) * 90; a < end; a += 90 {
		add(rmax, a)
	}
	return b
}

// Volume uses the theorem of Pappus: the first moment of the profile
// area about the axis times the swept angle.
func (rv *Revolution) Volume() float64 {
	m := 0.0
	pg := rv.Profile
	n := len(pg)
	for i := range pg {
		a, b := pg[i], pg[(i+1)%n]
		m += a.Cross(b) * (a.X + b.X)
	}
	m = math.Abs(m) / 6
	sweep := math.Min(rv.Sweep, 360)
	return m * math64.DegToRad(sweep)
}
