// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"fmt"

	"cogentcore.org/gdml/math64"
	"github.com/jinzhu/copier"
)

// Kind is the kind of a GDML solid.
type Kind int32

const (
	KindUnsupported Kind = iota
	KindBox
	KindCone
	KindTube
	KindCutTube
	KindSphere
	KindOrb
	KindTorus
	KindTrap
	KindTrd
	KindPara
	KindEllipsoid
	KindElCone
	KindElTube
	KindPolycone
	KindPolyhedra
	KindXtru
	KindTessellated
	KindArb8
	KindTet
	KindUnion
	KindSubtraction
	KindIntersection
	KindMultiUnion

	kindN
)

// kindTags are the GDML element tags of each kind.
var kindTags = [kindN]string{
	"", "box", "cone", "tube", "cutTube", "sphere", "orb", "torus", "trap", "trd", "para",
	"ellipsoid", "elcone", "eltube", "polycone", "polyhedra", "xtru", "tessellated",
	"arb8", "tet", "union", "subtraction", "intersection", "multiUnion",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, kindN)
	for k := KindBox; k < kindN; k++ {
		m[kindTags[k]] = k
	}
	return m
}()

// String returns the GDML element tag of the kind.
func (k Kind) String() string {
	if k <= KindUnsupported || k >= kindN {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindTags[k]
}

// KindForTag returns the kind for a GDML element tag,
// and KindUnsupported for unknown tags.
func KindForTag(tag string) Kind {
	return tagKinds[tag]
}

// Kinds returns all supported kinds.
func Kinds() []Kind {
	ks := make([]Kind, 0, kindN-1)
	for k := KindBox; k < kindN; k++ {
		ks = append(ks, k)
	}
	return ks
}

// IsBoolean returns whether the kind is a two-operand boolean.
func (k Kind) IsBoolean() bool {
	return k == KindUnion || k == KindSubtraction || k == KindIntersection
}

// SolidID is the index of a solid in its [Document].
type SolidID int

// NoSolid is the ID of an unresolved solid reference.
const NoSolid SolidID = -1

// Solid is a named GDML solid. All lengths in Params are in millimeters
// and all angles in degrees, whatever units the document used;
// Lunit and Aunit record the units of the source element.
type Solid struct {
	ID     SolidID
	Name   string
	Lunit  string
	Aunit  string
	Params Params

	// Line is the source line of the element, for error messages.
	Line int
}

// Kind returns the kind of the solid parameters.
func (s *Solid) Kind() Kind {
	if s.Params == nil {
		return KindUnsupported
	}
	return s.Params.Kind()
}

// Clone returns a deep copy of the solid, which can be edited without
// affecting the original.
func (s *Solid) Clone() *Solid {
	c := *s
	switch p := s.Params.(type) {
	case nil:
	case *Unsupported:
		c.Params = &Unsupported{Tag: p.Tag, Element: p.Element.Clone()}
	default:
		np := newParams(p.Kind())
		if err := copier.CopyWithOption(np, p, copier.Option{DeepCopy: true}); err != nil {
			panic(fmt.Errorf("gdml: cloning solid %q: %w", s.Name, err))
		}
		c.Params = np
	}
	return &c
}

// Params holds the parameters of one kind of solid. The set of
// implementations is closed; each corresponds to one [Kind].
type Params interface {
	Kind() Kind
}

// Attribute fields are tagged `gdml:"attr[,length|angle|int]"`;
// length and angle values are converted with the element lunit and aunit.

// Box is a rectangular box with full side lengths.
type Box struct {
	X float64 `gdml:"x,length"`
	Y float64 `gdml:"y,length"`
	Z float64 `gdml:"z,length"`
}

// Tube is a cylindrical tube section of full length Z.
type Tube struct {
	RMin     float64 `gdml:"rmin,length"`
	RMax     float64 `gdml:"rmax,length"`
	Z        float64 `gdml:"z,length"`
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
}

// CutTube is a tube cut by two planes with the given outward normals
// through its low and high end faces.
type CutTube struct {
	RMin     float64 `gdml:"rmin,length"`
	RMax     float64 `gdml:"rmax,length"`
	Z        float64 `gdml:"z,length"`
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
	LowX     float64 `gdml:"lowX"`
	LowY     float64 `gdml:"lowY"`
	LowZ     float64 `gdml:"lowZ"`
	HighX    float64 `gdml:"highX"`
	HighY    float64 `gdml:"highY"`
	HighZ    float64 `gdml:"highZ"`
}

// Cone is a conical tube section of full length Z, with radii 1 at -Z/2
// and radii 2 at +Z/2.
type Cone struct {
	RMin1    float64 `gdml:"rmin1,length"`
	RMax1    float64 `gdml:"rmax1,length"`
	RMin2    float64 `gdml:"rmin2,length"`
	RMax2    float64 `gdml:"rmax2,length"`
	Z        float64 `gdml:"z,length"`
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
}

// Sphere is a spherical shell section.
type Sphere struct {
	RMin       float64 `gdml:"rmin,length"`
	RMax       float64 `gdml:"rmax,length"`
	StartPhi   float64 `gdml:"startphi,angle"`
	DeltaPhi   float64 `gdml:"deltaphi,angle"`
	StartTheta float64 `gdml:"starttheta,angle"`
	DeltaTheta float64 `gdml:"deltatheta,angle"`
}

// Orb is a full solid sphere.
type Orb struct {
	R float64 `gdml:"r,length"`
}

// Torus is a toroidal tube section with swept radius RTor.
type Torus struct {
	RMin     float64 `gdml:"rmin,length"`
	RMax     float64 `gdml:"rmax,length"`
	RTor     float64 `gdml:"rtor,length"`
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
}

// Trap is a general trapezoid with full lengths, as in G4Trap.
type Trap struct {
	Z      float64 `gdml:"z,length"`
	Theta  float64 `gdml:"theta,angle"`
	Phi    float64 `gdml:"phi,angle"`
	Y1     float64 `gdml:"y1,length"`
	X1     float64 `gdml:"x1,length"`
	X2     float64 `gdml:"x2,length"`
	Alpha1 float64 `gdml:"alpha1,angle"`
	Y2     float64 `gdml:"y2,length"`
	X3     float64 `gdml:"x3,length"`
	X4     float64 `gdml:"x4,length"`
	Alpha2 float64 `gdml:"alpha2,angle"`
}

// Trd is a trapezoid with full lengths x1, y1 at -z/2 and x2, y2 at +z/2.
type Trd struct {
	X1 float64 `gdml:"x1,length"`
	X2 float64 `gdml:"x2,length"`
	Y1 float64 `gdml:"y1,length"`
	Y2 float64 `gdml:"y2,length"`
	Z  float64 `gdml:"z,length"`
}

// Para is a parallelepiped with full lengths.
type Para struct {
	X     float64 `gdml:"x,length"`
	Y     float64 `gdml:"y,length"`
	Z     float64 `gdml:"z,length"`
	Alpha float64 `gdml:"alpha,angle"`
	Theta float64 `gdml:"theta,angle"`
	Phi   float64 `gdml:"phi,angle"`
}

// Ellipsoid has semi-axes Ax, By and Cz, optionally cut below ZCut1
// and above ZCut2 (zero cuts are ignored).
type Ellipsoid struct {
	Ax    float64 `gdml:"ax,length"`
	By    float64 `gdml:"by,length"`
	Cz    float64 `gdml:"cz,length"`
	ZCut1 float64 `gdml:"zcut1,length"`
	ZCut2 float64 `gdml:"zcut2,length"`
}

// ElCone is an elliptical cone with apex at ZMax, whose semi-axes at
// height z are Dx*(ZMax-z) and Dy*(ZMax-z), cut at ±ZCut.
// Dx and Dy are dimensionless.
type ElCone struct {
	Dx   float64 `gdml:"dx"`
	Dy   float64 `gdml:"dy"`
	ZMax float64 `gdml:"zmax,length"`
	ZCut float64 `gdml:"zcut,length"`
}

// ElTube is an elliptical tube with semi-axes Dx, Dy and half length Dz.
type ElTube struct {
	Dx float64 `gdml:"dx,length"`
	Dy float64 `gdml:"dy,length"`
	Dz float64 `gdml:"dz,length"`
}

// ZPlane is one plane of a polycone or polyhedra.
type ZPlane struct {
	RMin float64 `gdml:"rmin,length"`
	RMax float64 `gdml:"rmax,length"`
	Z    float64 `gdml:"z,length"`
}

// Polycone is a stack of conical sections between consecutive zplanes.
type Polycone struct {
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
	ZPlanes  []ZPlane
}

// Polyhedra is a stack of polygonal sections between consecutive zplanes,
// with NumSides sides over DeltaPhi. The radii are distances from the
// axis to the side faces.
type Polyhedra struct {
	StartPhi float64 `gdml:"startphi,angle"`
	DeltaPhi float64 `gdml:"deltaphi,angle"`
	NumSides int     `gdml:"numsides,int"`
	ZPlanes  []ZPlane
}

// Section is one z section of an extruded solid: the polygon is scaled
// by Scale and shifted by Offset at height ZPosition.
type Section struct {
	ZOrder    int            `gdml:"zOrder,int"`
	ZPosition float64        `gdml:"zPosition,length"`
	Offset    math64.Vector2 `gdml:"-"`
	Scale     float64        `gdml:"scalingFactor"`
}

// Xtru is a polygon extruded through two or more sections.
type Xtru struct {
	Vertices []math64.Vector2
	Sections []Section
}

// Vertex is a named point, defined as a position in the define section.
type Vertex struct {
	Name string
	Pos  math64.Vector3
}

// Facet is a triangular or quadrangular face of a tessellated solid,
// given as indexes into the vertices.
type Facet struct {
	Vertices []int
}

// Tessellated is a solid bounded by triangular and quadrangular facets.
type Tessellated struct {
	Vertices []Vertex
	Facets   []Facet
}

// Tet is a tetrahedron.
type Tet struct {
	Vertices [4]Vertex
}

// Arb8 is a twisted trapezoid with four vertices in the plane -Dz and
// four in the plane +Dz.
type Arb8 struct {
	Vertices [8]math64.Vector2
	Dz       float64
}

// Boolean combines the First and Second solids, with Second placed by
// Position and Rotation (in GDML convention) relative to First, and
// First optionally placed by FirstPosition and FirstRotation.
type Boolean struct {
	Op     Kind
	First  string
	Second string

	FirstID  SolidID
	SecondID SolidID

	Position      math64.Vector3
	Rotation      math64.Vector3
	FirstPosition math64.Vector3
	FirstRotation math64.Vector3
}

// MultiUnionNode is one placed solid of a [MultiUnion].
type MultiUnionNode struct {
	Name     string
	Solid    string
	SolidID  SolidID
	Position math64.Vector3
	Rotation math64.Vector3
}

// MultiUnion is the union of several placed solids.
type MultiUnion struct {
	Nodes []MultiUnionNode
}

// Unsupported is a solid element of a kind that is not implemented.
type Unsupported struct {
	Tag     string
	Element *Element
}

func (*Box) Kind() Kind         { return KindBox }
func (*Tube) Kind() Kind        { return KindTube }
func (*CutTube) Kind() Kind     { return KindCutTube }
func (*Cone) Kind() Kind        { return KindCone }
func (*Sphere) Kind() Kind      { return KindSphere }
func (*Orb) Kind() Kind         { return KindOrb }
func (*Torus) Kind() Kind       { return KindTorus }
func (*Trap) Kind() Kind        { return KindTrap }
func (*Trd) Kind() Kind         { return KindTrd }
func (*Para) Kind() Kind        { return KindPara }
func (*Ellipsoid) Kind() Kind   { return KindEllipsoid }
func (*ElCone) Kind() Kind      { return KindElCone }
func (*ElTube) Kind() Kind      { return KindElTube }
func (*Polycone) Kind() Kind    { return KindPolycone }
func (*Polyhedra) Kind() Kind   { return KindPolyhedra }
func (*Xtru) Kind() Kind        { return KindXtru }
func (*Tessellated) Kind() Kind { return KindTessellated }
func (*Tet) Kind() Kind         { return KindTet }
func (*Arb8) Kind() Kind        { return KindArb8 }
func (b *Boolean) Kind() Kind   { return b.Op }
func (*MultiUnion) Kind() Kind  { return KindMultiUnion }
func (*Unsupported) Kind() Kind { return KindUnsupported }

// newParams returns new empty parameters for the kind, or nil.
func newParams(k Kind) Params {
	switch k {
	case KindBox:
		return &Box{}
	case KindTube:
		return &Tube{}
	case KindCutTube:
		return &CutTube{}
	case KindCone:
		return &Cone{}
	case KindSphere:
		return &Sphere{}
	case KindOrb:
		return &Orb{}
	case KindTorus:
		return &Torus{}
	case KindTrap:
		return &Trap{}
	case KindTrd:
		return &Trd{}
	case KindPara:
		return &Para{}
	case KindEllipsoid:
		return &Ellipsoid{}
	case KindElCone:
		return &ElCone{}
	case KindElTube:
		return &ElTube{}
	case KindPolycone:
		return &Polycone{}
	case KindPolyhedra:
		return &Polyhedra{}
	case KindXtru:
		return &Xtru{}
	case KindTessellated:
		return &Tessellated{}
	case KindTet:
		return &Tet{}
	case KindArb8:
		return &Arb8{}
	case KindUnion, KindSubtraction, KindIntersection:
		return &Boolean{Op: k, FirstID: NoSolid, SecondID: NoSolid}
	case KindMultiUnion:
		return &MultiUnion{}
	}
	return nil
}

// Operands returns the names of the solids that the solid references.
func (s *Solid) Operands() []string {
	switch p := s.Params.(type) {
	case *Boolean:
		return []string{p.First, p.Second}
	case *MultiUnion:
		ops := make([]string, len(p.Nodes))
		for i, n := range p.Nodes {
			ops[i] = n.Solid
		}
		return ops
	}
	return nil
}
