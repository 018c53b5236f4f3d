// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "strconv"

// ExpansionMode is the mode of an [ExpansionPolicy].
type ExpansionMode int32

const (
	// ModeEagerAll realizes every physvol while building.
	ModeEagerAll ExpansionMode = iota

	// ModeLazyStub realizes only the world volume; its physvols are
	// left as stubs, each expanded one level at a time by [Graph.Expand].
	ModeLazyStub

	// ModeEagerUpToDepth realizes physvols down to a nesting depth
	// and leaves deeper ones as stubs.
	ModeEagerUpToDepth
)

// ExpansionPolicy controls which physvols are realized while building
// a [Graph] and which are left as stubs for later expansion. Large
// detector geometries can be opened quickly with [LazyStub] or
// [EagerUpToDepth] and expanded on demand.
type ExpansionPolicy struct {
	Mode ExpansionMode

	// Depth is the deepest realized physvol nesting level for
	// [ModeEagerUpToDepth]; the children of the world are at depth 1.
	Depth int
}

// EagerAll returns the policy that realizes everything.
func EagerAll() ExpansionPolicy {
	return ExpansionPolicy{Mode: ModeEagerAll}
}

// LazyStub returns the policy that leaves every physvol as a stub.
func LazyStub() ExpansionPolicy {
	return ExpansionPolicy{Mode: ModeLazyStub}
}

// EagerUpToDepth returns the policy that realizes physvols down to
// the given depth.
func EagerUpToDepth(depth int) ExpansionPolicy {
	return ExpansionPolicy{Mode: ModeEagerUpToDepth, Depth: depth}
}

// Realize returns whether a physvol at the given depth is realized.
func (p ExpansionPolicy) Realize(depth int) bool {
	switch p.Mode {
	case ModeLazyStub:
		return false
	case ModeEagerUpToDepth:
		return depth <= p.Depth
	}
	return true
}

func (p ExpansionPolicy) String() string {
	switch p.Mode {
	case ModeLazyStub:
		return "LazyStub"
	case ModeEagerUpToDepth:
		return "EagerUpToDepth(" + strconv.Itoa(p.Depth) + ")"
	}
	return "EagerAll"
}
