// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/gdml/brep"
	"cogentcore.org/gdml/gdml"
	"cogentcore.org/gdml/math64"
	"cogentcore.org/gdml/solid"
)

// NodeKind is the kind of a scene [Node].
type NodeKind int32

const (
	// KindVolume is a realized logical volume with a solid and material.
	KindVolume NodeKind = iota

	// KindAssembly is a realized assembly, which only groups its children.
	KindAssembly

	// KindLink is an additional instance (copynumber > 1) of a volume,
	// sharing the geometry of its [Node.Source].
	KindLink

	// KindStub is a physvol that has not been expanded yet.
	// See [Graph.Expand].
	KindStub
)

var nodeKindNames = [...]string{"volume", "assembly", "link", "stub"}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// Node is one placed volume in the scene graph.
type Node struct {

	// Name is the name of this node, unique among the children of its
	// parent: the physvol name, or the volume name for unnamed physvols.
	Name string

	// Kind is the kind of node.
	Kind NodeKind

	// Parent is the parent of this node; it is nil for the root.
	Parent *Node

	// Children are the placed volumes inside this one.
	Children []*Node

	// Properties is a property map for arbitrary key-value metadata,
	// such as a non-identity scale.
	Properties map[string]any

	// Volume is the logical volume or assembly of the node.
	Volume *gdml.Volume

	// PhysVol is the physvol that placed the node; nil for the root.
	PhysVol *gdml.PhysVol

	// Placement is the placement of the node in its parent, in the
	// centered GDML frame of its solid. It is owned by the node and can
	// be changed freely, including on links.
	Placement math64.Placement

	// Scale is the scale factor of the placement, (1, 1, 1) by default.
	Scale math64.Vector3

	// Geometry is the built solid of a volume or link. Links share the
	// *Geometry of their source, as do volumes that use the same solid.
	Geometry *solid.Geometry

	// Material is the material reference of a volume.
	Material string

	// Source is the first instance node that a link shares geometry with.
	Source *Node

	// depth is the physvol nesting depth, with 0 for the root.
	depth int

	// index is the last known index in the parent, used as a search hint.
	index int
}

// String returns the path of the node.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	return n.Path()
}

// IsLink returns whether the node is a link to another instance.
func (n *Node) IsLink() bool { return n.Kind == KindLink }

// IsStub returns whether the node has not been expanded yet.
func (n *Node) IsStub() bool { return n.Kind == KindStub }

// Depth returns the physvol nesting depth of the node.
func (n *Node) Depth() int { return n.depth }

// Parents:

// IndexInParent returns our index within our parent node,
// and -1 if we don't have a parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	kids := n.Parent.Children
	if n.index < len(kids) && kids[n.index] == n {
		return n.index
	}
	for i, k := range kids {
		if k == n {
			n.index = i
			return i
		}
	}
	return -1
}

// Children:

// ChildByName returns the first child that has the given name, and nil
// if no such element is found.
func (n *Node) ChildByName(name string) *Node {
	for _, k := range n.Children {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// AddChild adds the given child at the end of the children list,
// renaming it if its name is already used by a sibling.
func (n *Node) AddChild(kid *Node) {
	kid.Name = n.uniqueName(kid.Name)
	kid.Parent = n
	kid.index = len(n.Children)
	n.Children = append(n.Children, kid)
}

// replaceChild replaces the child old with kid, keeping the name of old.
func (n *Node) replaceChild(old, kid *Node) bool {
	i := old.IndexInParent()
	if i < 0 || old.Parent != n {
		return false
	}
	kid.Name = old.Name
	kid.Parent = n
	kid.index = i
	n.Children[i] = kid
	old.Parent = nil
	return true
}

// uniqueName returns name if no child uses it, and otherwise name with
// the lowest free numeric suffix.
func (n *Node) uniqueName(name string) string {
	if n.ChildByName(name) == nil {
		return name
	}
	for i := 1; ; i++ {
		nm := name + "_" + strconv.Itoa(i)
		if n.ChildByName(nm) == nil {
			return nm
		}
	}
}

// Paths:

// EscapePathName returns a name that replaces any / with \\
func EscapePathName(name string) string {
	return strings.ReplaceAll(name, "/", `\\`)
}

// UnescapePathName returns a name that replaces any \\ with /
func UnescapePathName(name string) string {
	return strings.ReplaceAll(name, `\\`, "/")
}

// Path returns the path to this node from the root,
// using node names separated by / delimiters.
func (n *Node) Path() string {
	if n.Parent != nil {
		return n.Parent.Path() + "/" + EscapePathName(n.Name)
	}
	return "/" + EscapePathName(n.Name)
}

// FindPath returns the node at the given path from this node, in the
// format of [Node.Path] without the leading name of this node.
// Index-based access such as [0] for the first child is also supported.
// It returns nil if no node is found at the given path.
func (n *Node) FindPath(path string) *Node {
	cur := n
	for _, pe := range strings.Split(strings.TrimSpace(path), "/") {
		if len(pe) == 0 {
			continue
		}
		cur = findPathChild(cur, UnescapePathName(pe))
		if cur == nil {
			return nil
		}
	}
	return cur
}

func findPathChild(n *Node, child string) *Node {
	if child[0] == '[' && child[len(child)-1] == ']' {
		idx, err := strconv.Atoi(child[1 : len(child)-1])
		if err != nil {
			return nil
		}
		if idx < 0 { // from end
			idx = len(n.Children) + idx
		}
		if idx < 0 || idx >= len(n.Children) {
			return nil
		}
		return n.Children[idx]
	}
	return n.ChildByName(child)
}

// Property Storage:

// SetProperty sets given the given property to the given value.
func (n *Node) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = map[string]any{}
	}
	n.Properties[key] = value
}

// Property returns the property value for the given key.
// It returns nil if it doesn't exist.
func (n *Node) Property(key string) any {
	return n.Properties[key]
}

// DeleteProperty deletes the property with the given key.
func (n *Node) DeleteProperty(key string) {
	if n.Properties == nil {
		return
	}
	delete(n.Properties, key)
}

// Tree Walking:

const (
	// Continue = true can be returned from walk functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from walk functions to stop processing
	// this branch of the tree.
	Break = false
)

// WalkUp calls the given function on the node and all of its parents.
// It stops walking if the function returns [Break]. It returns whether
// walking was finished.
func (n *Node) WalkUp(fun func(n *Node) bool) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if !fun(cur) {
			return false
		}
	}
	return true
}

// WalkDown calls the given function on the node and all of its
// descendants, depth first and in order. It stops walking the current
// branch if the function returns [Break]. It is non-recursive.
func (n *Node) WalkDown(fun func(n *Node) bool) {
	tm := map[*Node]int{} // traversal map: index of the current child
	cur := n
	tm[cur] = -1
outer:
	for {
		if fun(cur) && len(cur.Children) > 0 {
			tm[cur] = 0
			cur = cur.Children[0]
			tm[cur] = -1
			continue
		}
		tm[cur] = len(cur.Children)
		// ascent: move to the right and then up
		for {
			ci := tm[cur]
			if ci+1 < len(cur.Children) {
				ci++
				tm[cur] = ci
				cur = cur.Children[ci]
				tm[cur] = -1
				continue outer
			}
			delete(tm, cur)
			if cur == n || cur.Parent == nil {
				break outer
			}
			cur = cur.Parent
		}
	}
}

// WalkDownPost calls the given function on the node and all of its
// descendants, with children before their parent.
func (n *Node) WalkDownPost(fun func(n *Node)) {
	for _, k := range n.Children {
		k.WalkDownPost(fun)
	}
	fun(n)
}

// Transforms:

// LocalTransform returns the transform of the node in its parent frame:
// the placement followed by the scale.
func (n *Node) LocalTransform() math64.Affine {
	a := n.Placement.Affine()
	if n.Scale != math64.Vec3(1, 1, 1) && !n.Scale.IsZero() {
		a = a.Mul(math64.Linear(math64.ScaleMatrix(n.Scale)))
	}
	return a
}

// WorldTransform returns the transform of the node in the world frame,
// composing the placements of all of its parents.
func (n *Node) WorldTransform() math64.Affine {
	a := n.LocalTransform()
	for p := n.Parent; p != nil; p = p.Parent {
		a = p.LocalTransform().Mul(a)
	}
	return a
}

// Shape returns the solid of the node in its own GDML frame,
// or nil for assemblies and stubs.
func (n *Node) Shape() brep.Shape {
	if n.Geometry == nil {
		return nil
	}
	return n.Geometry.Centered()
}

// WorldShape returns the solid of the node placed in the world frame,
// or nil for assemblies, stubs and singular transforms.
func (n *Node) WorldShape() brep.Shape {
	sh := n.Shape()
	if sh == nil {
		return nil
	}
	t := brep.NewTransformed(sh, n.WorldTransform())
	if t == nil {
		return nil
	}
	return t
}

// hasAncestorVolume returns whether the node or any of its parents
// realizes the volume.
func (n *Node) hasAncestorVolume(v *gdml.Volume) bool {
	found := false
	n.WalkUp(func(k *Node) bool {
		if k.Volume == v && k.Kind != KindStub && k.Kind != KindLink {
			found = true
			return Break
		}
		return Continue
	})
	return found
}

// describe returns a one-line description of the node, for logging.
func (n *Node) describe() string {
	s := fmt.Sprintf("%s %s", n.Kind, n.Path())
	if n.Volume != nil {
		s += " (" + n.Volume.Name + ")"
	}
	return s
}
