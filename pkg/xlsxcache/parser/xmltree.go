package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Node is one element of a parsed XML document: its local name,
// attributes keyed by local attribute name, child elements in document
// order, and the character data appearing directly inside the element.
// Namespace prefixes are dropped, so the r:id attribute of a sheet
// declaration is read as "id".
type Node struct {
	Name     string
	Attr     map[string]string
	Children []*Node
	Text     string
}

// ParseTree builds the element tree of an XML document.
func ParseTree(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var stack []*Node
	var root *Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			node := &Node{Name: t.Name.Local, Attr: attrMap(t.Attr)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			} else {
				root = node
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// Child returns the first child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
