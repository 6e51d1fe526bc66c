package xmldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
)

func parseRoot(t *testing.T, doc string) *xmlquery.Node {
	t.Helper()
	d, err := xmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := rootElement(d)
	if root == nil {
		t.Fatal("no root element")
	}
	return root
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadMergesRootNamespaces(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml",
		`<marc:collection xmlns:marc="http://www.loc.gov/MARC21/slim" xmlns="http://example.com/default">`+
			`<marc:record/></marc:collection>`)

	c := NewCorpus()
	if err := c.Load(path, "//marc:record"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := c.Namespaces["marc"]; got != "http://www.loc.gov/MARC21/slim" {
		t.Errorf("marc prefix: expected MARC21 uri, got %q", got)
	}
	if got := c.Namespaces[""]; got != "http://example.com/default" {
		t.Errorf("default prefix: expected example uri, got %q", got)
	}
	if len(c.Namespaces) != 2 {
		t.Errorf("expected exactly 2 entries, got %d: %v", len(c.Namespaces), c.Namespaces)
	}
	if len(c.Elements) != 1 {
		t.Fatalf("expected 1 matched element, got %d", len(c.Elements))
	}
	if got := Tag(c.Elements[0]); got != "{http://www.loc.gov/MARC21/slim}record" {
		t.Errorf("unexpected tag %q", got)
	}
}

func TestLoadLastFileWinsOnPrefixConflict(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", `<root xmlns:ns="http://example.com/a"><item/></root>`)
	b := writeFile(t, dir, "b.xml", `<root xmlns:ns="http://example.com/b"><item/></root>`)

	c := NewCorpus()
	if err := c.Load(a, "//item"); err != nil {
		t.Fatalf("load a: %v", err)
	}
	if got := c.Namespaces["ns"]; got != "http://example.com/a" {
		t.Errorf("after first load: expected a's uri, got %q", got)
	}
	if err := c.Load(b, "//item"); err != nil {
		t.Fatalf("load b: %v", err)
	}
	if got := c.Namespaces["ns"]; got != "http://example.com/b" {
		t.Errorf("after second load: expected b's uri, got %q", got)
	}
	if len(c.Elements) != 2 {
		t.Errorf("expected accumulated elements from both files, got %d", len(c.Elements))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	c := NewCorpus()
	if err := c.Load(filepath.Join(dir, "missing.xml"), "//x"); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeFile(t, dir, "bad.xml", `<root><unclosed></root>`)
	if err := c.Load(bad, "//x"); err == nil {
		t.Error("expected error for malformed xml")
	}

	ok := writeFile(t, dir, "ok.xml", `<root/>`)
	err := c.Load(ok, `//[bad`)
	if !errors.Is(err, ErrInvalidXPath) {
		t.Errorf("expected ErrInvalidXPath, got %v", err)
	}
}

func TestExpandQName(t *testing.T) {
	ns := map[string]string{"marc": "http://www.loc.gov/MARC21/slim"}

	got, err := ExpandQName("marc:record", ns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{http://www.loc.gov/MARC21/slim}record" {
		t.Errorf("unexpected expansion %q", got)
	}

	// No colon: used as a bare local name.
	got, err = ExpandQName("record", ns)
	if err != nil || got != "record" {
		t.Errorf("expected bare name passthrough, got %q, %v", got, err)
	}

	_, err = ExpandQName("ns:Record", ns)
	if !errors.Is(err, ErrUnknownPrefix) {
		t.Errorf("expected ErrUnknownPrefix, got %v", err)
	}
}

func TestCompileXPathSkipsDefaultPrefix(t *testing.T) {
	ns := map[string]string{"": "http://example.com/default", "a": "http://example.com/a"}
	if _, err := CompileXPath("//a:x", ns); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNodeHelpers(t *testing.T) {
	root := parseRoot(t, `<root><rec id="1" kind="x">lead<f>X</f>between<f>Y</f></rec>trail</root>`)
	rec := xmlquery.Find(root, "//rec")[0]
	fs := xmlquery.Find(root, "//f")

	if got := Tag(rec); got != "rec" {
		t.Errorf("tag: expected rec, got %q", got)
	}
	if got := Text(rec); got != "lead" {
		t.Errorf("text: expected lead, got %q", got)
	}
	if got := Tail(rec); got != "trail" {
		t.Errorf("tail: expected trail, got %q", got)
	}
	if got := Tail(fs[0]); got != "between" {
		t.Errorf("tail of first f: expected between, got %q", got)
	}
	if got := Tail(fs[1]); got != "" {
		t.Errorf("tail of last f: expected empty, got %q", got)
	}
	if got := Text(root); got != "" {
		t.Errorf("text of root: expected empty (starts with child element), got %q", got)
	}

	attrs := Attributes(rec)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Name != "id" || attrs[0].Value != "1" {
		t.Errorf("attr[0]: expected id=1, got %s=%s", attrs[0].Name, attrs[0].Value)
	}
	if attrs[1].Name != "kind" || attrs[1].Value != "x" {
		t.Errorf("attr[1]: expected kind=x, got %s=%s", attrs[1].Name, attrs[1].Value)
	}
}

func TestAttributesSkipNamespaceDeclarations(t *testing.T) {
	root := parseRoot(t, `<root xmlns:a="http://example.com/a" xmlns="http://example.com/d" name="n"/>`)
	attrs := Attributes(root)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d: %v", len(attrs), attrs)
	}
	if attrs[0].Name != "name" {
		t.Errorf("expected name attribute, got %q", attrs[0].Name)
	}
}

func TestAttributesNamespacedNamesAreClarkNotation(t *testing.T) {
	root := parseRoot(t,
		`<rec xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:type="full" plain="p"/>`)
	attrs := Attributes(root)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d: %v", len(attrs), attrs)
	}
	// The name carries the resolved URI, not the prefix.
	if attrs[0].Name != "{http://www.w3.org/2001/XMLSchema-instance}type" || attrs[0].Value != "full" {
		t.Errorf("attr[0]: expected Clark-notation xsi:type, got %s=%s", attrs[0].Name, attrs[0].Value)
	}
	if attrs[1].Name != "plain" || attrs[1].Value != "p" {
		t.Errorf("attr[1]: expected plain=p, got %s=%s", attrs[1].Name, attrs[1].Value)
	}
}

func TestParentElement(t *testing.T) {
	root := parseRoot(t, `<root><rec/></root>`)
	rec := xmlquery.Find(root, "//rec")[0]

	if p := ParentElement(rec); p != root {
		t.Error("expected rec's parent to be root")
	}
	if p := ParentElement(root); p != nil {
		t.Errorf("expected nil parent for root, got %v", p)
	}
}
