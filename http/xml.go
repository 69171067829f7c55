package http

import (
	"encoding/xml"
	"strings"
)

// XMLNode is a generic XML element tree, the decoded form of XML bodies.
type XMLNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []XMLNode  `xml:",any"`
}

// Name returns the local element name.
func (n *XMLNode) Name() string {
	return n.XMLName.Local
}

// Text returns the trimmed character data of the element.
func (n *XMLNode) Text() string {
	return strings.TrimSpace(n.Content)
}

// Attr returns the value of the named attribute.
func (n *XMLNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given name, or nil.
func (n *XMLNode) Child(name string) *XMLNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// Find walks a slash-separated path of element names below n.
func (n *XMLNode) Find(path string) *XMLNode {
	node := n
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if part == "" {
			continue
		}
		if node = node.Child(part); node == nil {
			return nil
		}
	}
	return node
}

func decodeXML(data string) (*XMLNode, error) {
	var root XMLNode
	if err := xml.Unmarshal([]byte(data), &root); err != nil {
		return nil, err
	}
	return &root, nil
}
