// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	// ErrDuplicateName is returned when a name is defined twice in one section.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound is returned for a reference to an undefined name.
	ErrNotFound = errors.New("not found")

	// ErrXMLSyntax is returned for malformed XML input.
	ErrXMLSyntax = errors.New("XML syntax error")

	// ErrCyclicReference is returned when following references leads
	// back to an element already being expanded.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrInvalidDocument is returned for well-formed XML that is not a GDML document.
	ErrInvalidDocument = errors.New("invalid GDML document")
)

// ElementError records an error and the GDML element that caused it.
type ElementError struct {
	File    string
	Line    int
	Element string
	Name    string
	Attr    string
	Err     error
}

func (e *ElementError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "<%s", e.Element)
	if e.Name != "" {
		fmt.Fprintf(&b, " name=%q", e.Name)
	}
	b.WriteString(">")
	if e.Attr != "" {
		fmt.Fprintf(&b, " attribute %q", e.Attr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ElementError) Unwrap() error { return e.Err }

// RefKind is the kind of entity that a reference names.
type RefKind int32

const (
	RefPosition RefKind = iota
	RefRotation
	RefScale
	RefSolid
	RefVolume
	RefMaterial
)

var refKindNames = [...]string{"position", "rotation", "scale", "solid", "volume", "material"}

func (k RefKind) String() string {
	if k < 0 || int(k) >= len(refKindNames) {
		return fmt.Sprintf("RefKind(%d)", k)
	}
	return refKindNames[k]
}

// RefError is returned for a reference that cannot be resolved.
// It wraps [ErrNotFound].
type RefError struct {
	Kind RefKind
	Name string

	// From is the name of the referring element, if known.
	From string

	// Suggestion is the most similar defined name, if any is close.
	Suggestion string
}

func (e *RefError) Error() string {
	s := fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	if e.From != "" {
		s += fmt.Sprintf(" (referenced by %q)", e.From)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}
	return s
}

func (e *RefError) Unwrap() error { return ErrNotFound }

// suggestThreshold is the minimum similarity for a did-you-mean suggestion.
const suggestThreshold = 0.6

// suggest returns the candidate most similar to name, or "".
func suggest(name string, candidates []string) string {
	best, bestSim := "", suggestThreshold
	lev := metrics.NewLevenshtein()
	for _, c := range candidates {
		if sim := strutil.Similarity(name, c, lev); sim >= bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}
