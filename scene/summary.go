// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cmp"
	"slices"

	"cogentcore.org/gdml/solid"
)

// Summary is an overview of a scene graph, as reported by the info command.
type Summary struct {
	World      string         `yaml:"world"`
	Volumes    int            `yaml:"volumes"`
	Assemblies int            `yaml:"assemblies"`
	Nodes      int            `yaml:"nodes"`
	Links      int            `yaml:"links"`
	Stubs      int            `yaml:"stubs"`
	Errors     []string       `yaml:"errors,omitempty"`
	Solids     []SolidSummary `yaml:"solids"`
}

// SolidSummary describes one built solid.
type SolidSummary struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"`
	Volume float64 `yaml:"volume"`
}

// Summary returns the summary of the graph. Volumes and assemblies
// count distinct logical volumes; solids are those used by nodes,
// sorted by name.
func (g *Graph) Summary() *Summary {
	s := &Summary{}
	if g.Root != nil {
		s.World = g.Root.Volume.Name
	}
	seen := map[any]bool{}
	var geos []*solid.Geometry
	g.Walk(func(n *Node) bool {
		s.Nodes++
		switch n.Kind {
		case KindLink:
			s.Links++
		case KindStub:
			s.Stubs++
		}
		if n.Kind == KindVolume || n.Kind == KindAssembly {
			if !seen[n.Volume] {
				seen[n.Volume] = true
				if n.Kind == KindAssembly {
					s.Assemblies++
				} else {
					s.Volumes++
				}
			}
		}
		if n.Geometry != nil && !seen[n.Geometry] {
			seen[n.Geometry] = true
			geos = append(geos, n.Geometry)
		}
		return Continue
	})
	for _, geo := range geos {
		s.Solids = append(s.Solids, SolidSummary{Name: geo.Solid.Name, Kind: geo.Solid.Kind().String(), Volume: geo.Volume()})
	}
	for _, err := range g.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	slices.SortFunc(s.Solids, func(a, b SolidSummary) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return s
}
