package xmlutil

import (
	"fmt"

	"github.com/beevik/etree"
)

// Namespace URIs SAML metadata and protocol messages use on the wire. They
// are not bound on a Context.
const (
	NSMetadata  = "urn:oasis:names:tc:SAML:2.0:metadata"
	NSDigSig    = "http://www.w3.org/2000/09/xmldsig#"
	NSAssertion = "urn:oasis:names:tc:SAML:2.0:assertion"
	NSProtocol  = "urn:oasis:names:tc:SAML:2.0:protocol"
)

// Context wraps a parsed document for element lookup. Paths given to
// FindElement and FindElements are passed to etree unchanged; no namespace
// prefixes are bound on a Context.
type Context struct {
	doc *etree.Document
}

// NewContext returns a Context over doc. doc should already have gone
// through Parse (comments stripped, round-trip validated).
func NewContext(doc *etree.Document) *Context {
	return &Context{doc: doc}
}

// Root returns the document's root element.
func (c *Context) Root() *etree.Element {
	return c.doc.Root()
}

// FindElement evaluates path against the document root and returns the
// first match, or nil if there is none.
func (c *Context) FindElement(path string) *etree.Element {
	if c.doc.Root() == nil {
		return nil
	}
	return c.doc.Root().FindElement(path)
}

// FindElements evaluates path against the document root and returns every
// match.
func (c *Context) FindElements(path string) []*etree.Element {
	if c.doc.Root() == nil {
		return nil
	}
	return c.doc.Root().FindElements(path)
}

// FindElementsFrom evaluates path relative to el rather than the document
// root.
func FindElementsFrom(el *etree.Element, path string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElements(path)
}

// LocalNameChildren returns el's direct children whose local name (ignoring
// any namespace prefix) equals name.
//
// Some XPath engines mishandle namespaced-element selection inside
// attribute predicates, so lookups for X509Certificate and AttributeValue
// go through this local-name() equivalent rather than a namespace-qualified
// path.
func LocalNameChildren(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			out = append(out, child)
		}
	}
	return out
}

// LocalNameDescendants returns every descendant of el (at any depth) whose
// local name equals name.
func LocalNameDescendants(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}

// Attr returns the value of the named attribute on el, and whether it was
// present at all.
func Attr(el *etree.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// errNotFound builds the error for a required element that is missing. No
// function in this package calls it.
func errNotFound(what string) error {
	return fmt.Errorf("%s.Context: %s not found", op, what)
}
