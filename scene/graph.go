// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package scene builds the scene graph of a GDML document: the tree of placed
volumes rooted at the world volume of its setup.

Each physvol is realized as a fresh subtree, or for copynumber > 1 as a link
node that shares the geometry of the first instance of its volume while owning
its own placement. An [ExpansionPolicy] can leave physvols as stubs to be
expanded on demand. Errors in one branch, such as a dangling volumeref, skip
that branch and are collected in [Graph.Errors]; the rest of the document is
still built unless [Options.AbortOnError] is set.
*/
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/solid"
)

// ErrCyclicReference is returned for a volume that is placed inside itself.
var ErrCyclicReference = gdml.ErrCyclicReference

// NodeError is an error building the branch of the scene graph at Path.
type NodeError struct {
	Path string
	Err  error
}

func (e *NodeError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *NodeError) Unwrap() error { return e.Err }

// Options are the options for building a [Graph].
type Options struct {

	// Policy is the expansion policy; the zero value is [EagerAll].
	Policy ExpansionPolicy

	// AbortOnError makes [Build] return the first branch error
	// instead of skipping the branch.
	AbortOnError bool

	// Logger is used to report skipped branches; it defaults to [slog.Default].
	Logger *slog.Logger
}

// VolumeState is the build state of a logical volume.
type VolumeState int32

const (
	Unvisited VolumeState = iota
	Expanding
	Realized
)

// Graph is the scene graph of a document.
type Graph struct {

	// Doc is the document the graph was built from.
	Doc *gdml.Document

	// Root is the node of the world volume.
	Root *Node

	// Errors are the errors of the branches that were skipped,
	// each a [*NodeError].
	Errors []error

	// Builder builds and caches the solids of the document.
	Builder *solid.Builder

	opts   Options
	logger *slog.Logger
	state  map[*gdml.Volume]VolumeState
	first  map[*gdml.Volume]*Node
	abort  error
}

// Load reads the GDML file and builds its scene graph.
func Load(path string, opts Options) (*Graph, error) {
	doc, err := gdml.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Build builds the scene graph of the document from the world volume of
// its first setup. It returns an error if the world volume itself cannot
// be built, or with [Options.AbortOnError] for the first branch error.
func Build(doc *gdml.Document, opts Options) (*Graph, error) {
	world, err := doc.World()
	if err != nil {
		return nil, err
	}
	g := &Graph{
		Doc:     doc,
		Builder: solid.NewBuilder(doc),
		opts:    opts,
		logger:  opts.Logger,
		state:   map[*gdml.Volume]VolumeState{},
		first:   map[*gdml.Volume]*Node{},
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	root, err := g.realize(nil, world, nil, math64.NewPlacement(math64.Vector3{}), math64.Vec3(1, 1, 1), 0, false)
	if err != nil {
		return nil, err
	}
	if g.abort != nil {
		return nil, g.abort
	}
	g.Root = root
	g.logger.Debug("scene: built", "world", world.Name, "policy", opts.Policy, "errors", len(g.Errors))
	return g, nil
}

// State returns the build state of the volume.
func (g *Graph) State(v *gdml.Volume) VolumeState {
	return g.state[v]
}

// FirstInstance returns the first realized node of the volume, or nil.
func (g *Graph) FirstInstance(v *gdml.Volume) *Node {
	return g.first[v]
}

// Find returns the node at the given path, as returned by [Node.Path].
func (g *Graph) Find(path string) *Node {
	if g.Root == nil {
		return nil
	}
	root := "/" + EscapePathName(g.Root.Name)
	switch {
	case path == root:
		return g.Root
	case len(path) > len(root) && path[:len(root)+1] == root+"/":
		return g.Root.FindPath(path[len(root)+1:])
	}
	return nil
}

// Walk calls fn for every node, depth first. Returning [Break] skips
// the children of the node.
func (g *Graph) Walk(fn func(n *Node) bool) {
	if g.Root != nil {
		g.Root.WalkDown(fn)
	}
}

// fail records the error of the branch at path, which is then skipped.
func (g *Graph) fail(path string, err error) {
	ne := &NodeError{Path: path, Err: err}
	g.Errors = append(g.Errors, ne)
	g.logger.Error("scene: skipping branch", "path", path, "err", err)
	if g.opts.AbortOnError && g.abort == nil {
		g.abort = ne
	}
}

// realize builds the node of the volume with its subtree, as a child of
// parent (which the caller adds it to). Physvols at nested depths are
// realized or stubbed according to the policy, unless eager.
func (g *Graph) realize(parent *Node, v *gdml.Volume, pv *gdml.PhysVol, pl math64.Placement, scale math64.Vector3, depth int, eager bool) (*Node, error) {
	n := &Node{Name: nodeName(v, pv), Volume: v, PhysVol: pv, Placement: pl, Scale: scale, depth: depth}
	n.Parent = parent
	if v.IsAssembly {
		n.Kind = KindAssembly
	} else {
		n.Kind = KindVolume
		s := g.Doc.Solid(v.SolidID)
		if s == nil || s.Name != v.SolidRef {
			var err error
			if s, err = g.Doc.Resolver().Solid(v.SolidRef, v.Name); err != nil {
				return nil, err
			}
		}
		geo, err := g.Builder.Build(s)
		if err != nil {
			return nil, err
		}
		n.Geometry = geo
		n.Material = v.MaterialRef
		if v.MaterialRef != "" && !gdml.IsExternal(v.MaterialRef) {
			if _, err := g.Doc.Resolver().Material(v.MaterialRef, v.Name); err != nil {
				return nil, err
			}
		}
	}
	if g.first[v] == nil {
		g.first[v] = n
	}
	g.state[v] = Expanding
	for _, cpv := range v.PhysVols {
		if g.abort != nil {
			break
		}
		g.place(n, cpv, depth+1, eager)
	}
	g.state[v] = Realized
	return n, nil
}

// nodeName returns the name of the node placed by pv.
func nodeName(v *gdml.Volume, pv *gdml.PhysVol) string {
	if pv != nil && pv.Name != "" {
		return pv.Name
	}
	return v.Name
}

// place adds the node of the physvol to parent: a link, a stub or a
// realized subtree. Errors skip the physvol.
func (g *Graph) place(parent *Node, pv *gdml.PhysVol, depth int, eager bool) {
	path := parent.Path() + "/" + EscapePathName(pv.VolumeRef)
	if pv.Name != "" {
		path = parent.Path() + "/" + EscapePathName(pv.Name)
	}
	v := g.Doc.Volume(pv.VolumeID)
	if v == nil || v.Name != pv.VolumeRef {
		var err error
		if v, err = g.Doc.Resolver().Volume(pv.VolumeRef, parent.Volume.Name); err != nil {
			g.fail(path, err)
			return
		}
	}
	if parent.hasAncestorVolume(v) {
		g.fail(path, fmt.Errorf("volume %q placed inside itself: %w", v.Name, ErrCyclicReference))
		return
	}
	pl, scale, err := g.Doc.Resolver().Placement(&pv.Placement, parent.Volume.Name)
	if err != nil {
		g.fail(path, err)
		return
	}
	if pv.Copy() > 1 {
		if src := g.first[v]; src != nil {
			parent.AddChild(newLink(src, v, pv, pl, scale, depth))
			return
		}
		g.logger.Info("scene: no first instance for copy, realizing it", "path", path, "volume", v.Name, "copynumber", pv.Copy())
	}
	if !eager && !g.opts.Policy.Realize(depth) {
		parent.AddChild(&Node{Name: nodeName(v, pv), Kind: KindStub, Volume: v, PhysVol: pv, Placement: pl, Scale: scale, depth: depth})
		return
	}
	n, err := g.realize(parent, v, pv, pl, scale, depth, eager)
	if err != nil {
		g.fail(path, err)
		return
	}
	parent.AddChild(n)
}

// newLink returns a link node to the first instance src.
func newLink(src *Node, v *gdml.Volume, pv *gdml.PhysVol, pl math64.Placement, scale math64.Vector3, depth int) *Node {
	n := &Node{
		Name: nodeName(v, pv), Kind: KindLink, Volume: v, PhysVol: pv,
		Placement: pl, Scale: scale, Geometry: src.Geometry, Material: src.Material,
		Source: src, depth: depth,
	}
	if scale != math64.Vec3(1, 1, 1) {
		n.SetProperty("scale", scale)
	}
	return n
}

// Expand realizes the stub node in place, with its own physvols
// realized or stubbed according to the policy, and returns the new node.
// Nodes that are not stubs are returned unchanged.
func (g *Graph) Expand(stub *Node) (*Node, error) {
	return g.expand(stub, false)
}

// ExpandAll realizes the stub node and everything below it.
func (g *Graph) ExpandAll(stub *Node) (*Node, error) {
	return g.expand(stub, true)
}

func (g *Graph) expand(stub *Node, eager bool) (*Node, error) {
	if !stub.IsStub() {
		return stub, nil
	}
	parent := stub.Parent
	if parent == nil {
		return nil, errors.New("scene: expanding a detached stub")
	}
	nerr := len(g.Errors)
	n, err := g.realize(parent, stub.Volume, stub.PhysVol, stub.Placement, stub.Scale, stub.depth, eager)
	if err != nil {
		err = &NodeError{Path: stub.Path(), Err: err}
		g.Errors = append(g.Errors, err)
		return nil, err
	}
	parent.replaceChild(stub, n)
	g.logger.Debug("scene: expanded", "node", n.describe(), "errors", len(g.Errors)-nerr)
	return n, nil
}

// Stubs returns the stub nodes of the graph.
func (g *Graph) Stubs() []*Node {
	var stubs []*Node
	g.Walk(func(n *Node) bool {
		if n.IsStub() {
			stubs = append(stubs, n)
		}
		return Continue
	})
	return stubs
}

// Links returns the link nodes of the graph.
func (g *Graph) Links() []*Node {
	var links []*Node
	g.Walk(func(n *Node) bool {
		if n.IsLink() {
			links = append(links, n)
		}
		return Continue
	})
	return links
}

// Rebuild rebuilds the named solid after its parameters were edited,
// along with the solids that use it. Every node and link holding the
// geometry sees the new shape.
func (g *Graph) Rebuild(solidName string) (*solid.Geometry, error) {
	s, err := g.Doc.Resolver().Solid(solidName, "")
	if err != nil {
		return nil, err
	}
	return g.Builder.Rebuild(s)
}
