// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"cogentcore.org/gdml/math64"
)

// VolumeID is the index of a volume or assembly in its [Document].
type VolumeID int

// NoVolume is the ID of an unresolved volume reference.
const NoVolume VolumeID = -1

// Volume is a logical volume or, if IsAssembly, an assembly.
// Assemblies have no solid or material.
type Volume struct {
	ID         VolumeID
	Name       string
	IsAssembly bool

	SolidRef    string
	SolidID     SolidID
	MaterialRef string

	PhysVols []*PhysVol

	// Auxiliary are the auxiliary elements of the volume, kept verbatim.
	Auxiliary []*Element

	Line int
}

// PhysVol is a placement of a volume or assembly inside another.
type PhysVol struct {
	Name      string
	VolumeRef string
	VolumeID  VolumeID

	// CopyNumber is the copynumber attribute, or 0 if absent.
	CopyNumber int

	Placement PlacementSpec

	Line int
}

// Copy returns the effective copy number, which is 1 when absent.
func (pv *PhysVol) Copy() int {
	if pv.CopyNumber <= 0 {
		return 1
	}
	return pv.CopyNumber
}

// PlacementSpec is the position, rotation and scale of a physvol, each
// either inline or a reference to a define. Inline values are in
// millimeters and degrees; an inline value takes precedence over a reference.
type PlacementSpec struct {
	Position    *math64.Vector3
	PositionRef string
	Rotation    *math64.Vector3
	RotationRef string
	Scale       *math64.Vector3
	ScaleRef    string
}

// Setup is a setup element naming the world volume.
type Setup struct {
	Name    string
	Version string
	World   string
}
