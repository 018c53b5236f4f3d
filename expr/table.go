// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"fmt"

	"cogentcore.org/gdml/base/ordmap"
)

// Table is an ordered table of named constants. Each definition is
// evaluated when it is added, against the constants added before it,
// so forward references are errors.
type Table struct {
	vals ordmap.Map[string, float64]
}

// Define evaluates the expression and adds the result under the given name.
// Defining an existing name is an error.
func (t *Table) Define(name, expression string) (float64, error) {
	v, err := ParseFloat(expression, t)
	if err != nil {
		return 0, fmt.Errorf("define %q: %w", name, err)
	}
	if err := t.Set(name, v); err != nil {
		return 0, err
	}
	return v, nil
}

// Set adds an already evaluated value under the given name.
func (t *Table) Set(name string, v float64) error {
	if err := t.vals.Insert(name, v); err != nil {
		return fmt.Errorf("define %q: already defined", name)
	}
	return nil
}

// Lookup implements [Scope].
func (t *Table) Lookup(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	return t.vals.ValueByKeyTry(name)
}

// Eval evaluates the expression against the table.
func (t *Table) Eval(expression string) (float64, error) {
	return ParseFloat(expression, t)
}

// Names returns the defined names in definition order.
func (t *Table) Names() []string {
	return t.vals.Keys()
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	return t.vals.Len()
}
