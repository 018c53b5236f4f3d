// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Element is a generic XML element, used as the intermediate form between
// GDML text and the typed [Document] model, and to carry elements that are
// preserved verbatim (such as define/matrix and auxiliary).
type Element struct {
	Tag      string
	Attrs    []xml.Attr
	Children []*Element
	Text     string

	// Line is the input line of the start tag, or 0 for generated elements.
	Line int
}

// NewElement returns a new element with the given tag and attribute
// name, value pairs.
func NewElement(tag string, attrs ...string) *Element {
	el := &Element{Tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.SetAttr(attrs[i], attrs[i+1])
	}
	return el
}

// Attr returns the value of the named attribute, and whether it is present.
func (el *Element) Attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute, or "" if absent.
func (el *Element) AttrValue(name string) string {
	v, _ := el.Attr(name)
	return v
}

// SetAttr sets the named attribute, appending it if not already present
// so that attribute order is stable.
func (el *Element) SetAttr(name, value string) *Element {
	for i := range el.Attrs {
		if el.Attrs[i].Name.Local == name {
			el.Attrs[i].Value = value
			return el
		}
	}
	el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return el
}

// Add appends the children and returns the element.
func (el *Element) Add(kids ...*Element) *Element {
	for _, k := range kids {
		if k != nil {
			el.Children = append(el.Children, k)
		}
	}
	return el
}

// Child returns the first child with the given tag, or nil.
func (el *Element) Child(tag string) *Element {
	for _, c := range el.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns all children with the given tag, in order.
func (el *Element) ChildrenByTag(tag string) []*Element {
	var els []*Element
	for _, c := range el.Children {
		if c.Tag == tag {
			els = append(els, c)
		}
	}
	return els
}

// Name returns the name attribute.
func (el *Element) Name() string {
	return el.AttrValue("name")
}

// Clone returns a deep copy of the element.
func (el *Element) Clone() *Element {
	c := *el
	c.Attrs = append([]xml.Attr(nil), el.Attrs...)
	c.Children = make([]*Element, len(el.Children))
	for i, k := range el.Children {
		c.Children[i] = k.Clone()
	}
	return &c
}

// DecodeElement reads the first root element from r with a
// charset-aware decoder. Syntax errors wrap [ErrXMLSyntax].
func DecodeElement(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	var stack []*Element
	var root *Element
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrXMLSyntax, err)
		}
		switch se := t.(type) {
		case xml.StartElement:
			line, _ := decoder.InputPos()
			el := &Element{Tag: se.Name.Local, Line: line}
			for _, a := range se.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: attrName(a.Name)}, Value: a.Value})
			}
			if len(stack) > 0 {
				par := stack[len(stack)-1]
				par.Children = append(par.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				if s := strings.TrimSpace(string(se)); s != "" {
					stack[len(stack)-1].Text += s
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrXMLSyntax)
	}
	return root, nil
}

// attrName keeps the xsi prefix of the schema location attribute,
// which encoding/xml resolves to its namespace URL.
func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if strings.HasSuffix(n.Space, "XMLSchema-instance") || n.Space == "xsi" {
		return "xsi:" + n.Local
	}
	return n.Local
}

// Encoder writes elements as indented XML. Elements without children
// or text are written self-closing, which encoding/xml does not support.
type Encoder struct {
	w      io.Writer
	Indent string
	err    error
}

// NewEncoder returns an encoder writing to w with two-space indentation.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, Indent: "  "}
}

func (e *Encoder) pf(format string, v ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, v...)
}

// Header writes the XML declaration.
func (e *Encoder) Header() error {
	e.pf("%s", `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	return e.err
}

// Raw writes the text unchanged.
func (e *Encoder) Raw(s string) error {
	e.pf("%s", s)
	return e.err
}

// Encode writes the element at the given nesting depth.
func (e *Encoder) Encode(el *Element, depth int) error {
	switch {
	case len(el.Children) == 0 && el.Text == "":
		e.startTag(el, depth)
		e.pf("/>\n")
	case len(el.Children) == 0:
		e.startTag(el, depth)
		e.pf(">%s</%s>\n", escape(el.Text), el.Tag)
	default:
		e.Start(el, depth)
		for _, c := range el.Children {
			e.Encode(c, depth+1)
		}
		e.End(el, depth)
	}
	return e.err
}

// Start writes the start tag of the element on its own line,
// without its children.
func (e *Encoder) Start(el *Element, depth int) error {
	e.startTag(el, depth)
	e.pf(">\n")
	return e.err
}

// End writes the end tag of the element.
func (e *Encoder) End(el *Element, depth int) error {
	e.pf("%s</%s>\n", strings.Repeat(e.Indent, depth), el.Tag)
	return e.err
}

func (e *Encoder) startTag(el *Element, depth int) {
	e.pf("%s<%s", strings.Repeat(e.Indent, depth), el.Tag)
	for _, a := range el.Attrs {
		e.pf(" %s=\"%s\"", a.Name.Local, escape(a.Value))
	}
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
