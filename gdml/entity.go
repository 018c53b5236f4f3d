// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	doctypeRe    = regexp.MustCompile(`(?s)<!DOCTYPE\s+[\w:.-]+\s*\[(.*?)\]\s*>`)
	entityDeclRe = regexp.MustCompile(`<!ENTITY\s+([\w:.-]+)\s+SYSTEM\s+["']([^"']*)["']\s*>`)
	xmlDeclRe    = regexp.MustCompile(`^\s*<\?xml[^>]*\?>`)
)

// maxEntityDepth bounds nested includes, which also stops include cycles.
const maxEntityDepth = 16

// ResolveEntities replaces the external entities declared in the DOCTYPE
// of data, such as <!ENTITY materials SYSTEM "materials.xml">, by the
// contents of their files, resolved relative to dir. The DOCTYPE is
// removed. It returns the expanded text and the entities found.
func ResolveEntities(data []byte, dir string) ([]byte, []Entity, error) {
	return resolveEntities(data, dir, 0)
}

func resolveEntities(data []byte, dir string, depth int) ([]byte, []Entity, error) {
	loc := doctypeRe.FindSubmatchIndex(data)
	if loc == nil {
		return data, nil, nil
	}
	if depth >= maxEntityDepth {
		return nil, nil, fmt.Errorf("entity includes nested too deeply: %w", ErrCyclicReference)
	}
	subset := data[loc[2]:loc[3]]
	body := append(append([]byte{}, data[:loc[0]]...), data[loc[1]:]...)
	var ents []Entity
	for _, m := range entityDeclRe.FindAllSubmatch(subset, -1) {
		ent := Entity{Name: string(m[1]), Path: string(m[2])}
		path := ent.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		inc, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("entity %q: %w", ent.Name, err)
		}
		inc = xmlDeclRe.ReplaceAll(inc, nil)
		inc, sub, err := resolveEntities(inc, filepath.Dir(path), depth+1)
		if err != nil {
			return nil, nil, fmt.Errorf("entity %q: %w", ent.Name, err)
		}
		body = bytes.ReplaceAll(body, []byte("&"+ent.Name+";"), inc)
		ents = append(ents, ent)
		ents = append(ents, sub...)
	}
	return body, ents, nil
}
