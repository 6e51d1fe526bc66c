package xmldoc

import (
	"github.com/antchfx/xmlquery"
)

// Attr is one element attribute with its name already in Clark notation.
type Attr struct {
	Name  string
	Value string
}

// Tag returns the element's qualified name in Clark notation,
// "{uri}localname", or the bare local name for elements without a
// namespace.
func Tag(n *xmlquery.Node) string {
	if n.NamespaceURI == "" {
		return n.Data
	}
	return "{" + n.NamespaceURI + "}" + n.Data
}

// Text returns the text immediately inside the element, before its first
// child element. Empty when the element starts with a child element or
// has no content.
func Text(n *xmlquery.Node) string {
	c := n.FirstChild
	if c != nil && isText(c) {
		return c.Data
	}
	return ""
}

// Tail returns the text between the element's closing tag and its next
// sibling, or "" when there is none.
func Tail(n *xmlquery.Node) string {
	s := n.NextSibling
	if s != nil && isText(s) {
		return s.Data
	}
	return ""
}

// Attributes returns the element's attributes in document order, skipping
// namespace declarations.
func Attributes(n *xmlquery.Node) []Attr {
	out := make([]Attr, 0, len(n.Attr))
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		name := a.Name.Local
		if a.NamespaceURI != "" {
			name = "{" + a.NamespaceURI + "}" + a.Name.Local
		}
		out = append(out, Attr{Name: name, Value: a.Value})
	}
	return out
}

// ParentElement returns the element's parent element, or nil for the
// document root (the document node is not an element).
func ParentElement(n *xmlquery.Node) *xmlquery.Node {
	p := n.Parent
	if p == nil || p.Type != xmlquery.ElementNode {
		return nil
	}
	return p
}

func isText(n *xmlquery.Node) bool {
	return n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode
}
