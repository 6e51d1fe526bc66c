// Package extract resolves matched elements to their reporting ancestor
// and pulls the requested fields out of sub-elements matched by the
// results expressions.
package extract

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/sgoodwin/xsearch/internal/xmldoc"
)

// Options selects which fields each record carries.
type Options struct {
	ID     string // XPath evaluated once per parent; matched texts concatenate into the id field
	Tag    bool
	Attrib bool
	Text   bool
	Tail   bool

	// Expand emits one record per matched sub-element. The default mode
	// appends exactly one record per (parent, results-xpath) pair, every
	// match writing into that same record, so the last match wins.
	Expand bool
}

// ResolveParent climbs from a matched element toward the root. With an
// empty parentTag it returns the immediate parent element; otherwise the
// nearest ancestor whose Clark-notation tag equals parentTag. Returns nil
// when the matched element is the root, or when no ancestor qualifies.
func ResolveParent(n *xmlquery.Node, parentTag string) *xmlquery.Node {
	p := xmldoc.ParentElement(n)
	if p == nil || parentTag == "" {
		return p
	}
	if xmldoc.Tag(p) == parentTag {
		return p
	}
	return ResolveParent(p, parentTag)
}

// ResolveParents maps every element through ResolveParent and drops the
// unresolved ones; elements with no qualifying ancestor produce no row.
func ResolveParents(elements []*xmlquery.Node, parentTag string) []*xmlquery.Node {
	parents := make([]*xmlquery.Node, 0, len(elements))
	for _, el := range elements {
		if p := ResolveParent(el, parentTag); p != nil {
			parents = append(parents, p)
		}
	}
	return parents
}

// Extract evaluates every results expression relative to every parent, in
// order, and builds the field records. A (parent, xpath) pair with zero
// matches still contributes a record carrying only the id field (when
// requested); a parent with zero results expressions contributes one
// empty record.
func Extract(parents []*xmlquery.Node, opts Options, resultsXPaths []string, ns map[string]string) ([]*Record, error) {
	var idExpr *xpath.Expr
	if opts.ID != "" {
		e, err := xmldoc.CompileXPath(opts.ID, ns)
		if err != nil {
			return nil, fmt.Errorf("id xpath: %w", err)
		}
		idExpr = e
	}
	exprs := make([]*xpath.Expr, len(resultsXPaths))
	for i, rx := range resultsXPaths {
		e, err := xmldoc.CompileXPath(rx, ns)
		if err != nil {
			return nil, fmt.Errorf("results xpath: %w", err)
		}
		exprs[i] = e
	}

	var records []*Record
	for _, parent := range parents {
		var id string
		if idExpr != nil {
			var b strings.Builder
			for _, m := range xmlquery.QuerySelectorAll(parent, idExpr) {
				b.WriteString(xmldoc.Text(m))
			}
			id = b.String()
		}

		for _, expr := range exprs {
			matched := xmlquery.QuerySelectorAll(parent, expr)
			if opts.Expand {
				if len(matched) == 0 {
					records = append(records, newFieldRecord(idExpr != nil, id))
					continue
				}
				for _, el := range matched {
					rec := newFieldRecord(idExpr != nil, id)
					setFields(rec, el, opts)
					records = append(records, rec)
				}
				continue
			}
			rec := newFieldRecord(idExpr != nil, id)
			for _, el := range matched {
				setFields(rec, el, opts)
			}
			records = append(records, rec)
		}
		if len(exprs) == 0 {
			records = append(records, NewRecord())
		}
	}
	return records, nil
}

func newFieldRecord(withID bool, id string) *Record {
	rec := NewRecord()
	if withID {
		rec.Set("id", id)
	}
	return rec
}

func setFields(rec *Record, el *xmlquery.Node, opts Options) {
	if opts.Tag {
		rec.Set("tag", xmldoc.Tag(el))
	}
	if opts.Attrib {
		for _, a := range xmldoc.Attributes(el) {
			rec.Set("attrib:"+a.Name, a.Value)
		}
	}
	if opts.Text {
		rec.Set("text", xmldoc.Text(el))
	}
	if opts.Tail {
		rec.Set("tail", xmldoc.Tail(el))
	}
}
