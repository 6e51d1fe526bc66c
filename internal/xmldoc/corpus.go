package xmldoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// ErrUnknownPrefix reports a qualified name whose prefix no scanned
// document declared.
var ErrUnknownPrefix = errors.New("unknown namespace prefix")

// ErrInvalidXPath reports an expression the engine could not compile.
var ErrInvalidXPath = errors.New("invalid xpath")

// Corpus accumulates the matched elements and the declared namespaces
// across every file visited during one run. It is created empty at the
// start of a run and threaded through the walk; there are no globals.
type Corpus struct {
	Elements   []*xmlquery.Node
	Namespaces map[string]string
}

func NewCorpus() *Corpus {
	return &Corpus{Namespaces: make(map[string]string)}
}

// Load parses one XML file, merges the root element's namespace
// declarations into the corpus table, and appends every element matching
// filterXPath to the corpus in document order.
//
// Declarations from later files overwrite earlier ones for the same
// prefix, so the table always reflects the most recently loaded file.
// Any error (unreadable file, malformed XML, bad expression) is fatal to
// the run; there is no per-file recovery.
func (c *Corpus) Load(path, filterXPath string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	root := rootElement(doc)
	if root == nil {
		return fmt.Errorf("parse %s: no root element", path)
	}

	for _, a := range root.Attr {
		switch {
		case a.Name.Space == "xmlns":
			c.Namespaces[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			// Default namespace, kept under the empty prefix. It is not
			// addressable from XPath 1.0 expressions.
			c.Namespaces[""] = a.Value
		}
	}

	expr, err := CompileXPath(filterXPath, c.Namespaces)
	if err != nil {
		return fmt.Errorf("filter %s: %w", path, err)
	}
	c.Elements = append(c.Elements, xmlquery.QuerySelectorAll(root, expr)...)
	return nil
}

// CompileXPath compiles an expression with the corpus namespace bindings.
// The empty (default namespace) prefix is excluded: XPath 1.0 name tests
// cannot reference it.
func CompileXPath(expr string, ns map[string]string) (*xpath.Expr, error) {
	bindings := make(map[string]string, len(ns))
	for prefix, uri := range ns {
		if prefix == "" {
			continue
		}
		bindings[prefix] = uri
	}
	compiled, err := xpath.CompileWithNS(expr, bindings)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidXPath, expr, err)
	}
	return compiled, nil
}

// ExpandQName expands "prefix:localname" to Clark notation using the
// corpus namespace table. A name without a colon is returned unchanged.
func ExpandQName(qname string, ns map[string]string) (string, error) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return qname, nil
	}
	uri, found := ns[prefix]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	return "{" + uri + "}" + local, nil
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}
