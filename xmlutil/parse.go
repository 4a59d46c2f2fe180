// Package xmlutil provides the XML parsing primitives the SAML core builds
// on: comment-stripping (to defeat signature-wrapping attacks that hide
// content behind comment nodes after a document is signed) and element
// lookup helpers over etree.
package xmlutil

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
	xmlroundtrip "github.com/mattermost/xml-roundtrip-validator"
)

const op = "xmlutil"

// Parse validates raw as well-formed, non-ambiguous XML and returns a
// comment-stripped document.
//
// xml-roundtrip-validator rejects documents that a lenient parser and a
// strict parser could read two different ways; StripComments removes the
// other half of that attack surface, comment nodes inserted after signing
// to split or hide content a naive consumer would otherwise read. Both run
// on every document before any further interpretation.
func Parse(raw []byte) (*etree.Document, error) {
	if err := xmlroundtrip.Validate(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%s.Parse: document failed round-trip validation: %w", op, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%s.Parse: failed to parse XML: %w", op, err)
	}

	StripComments(doc.Root())

	return doc, nil
}

// StripComments recursively removes every comment token from el and its
// children. It is idempotent: running it twice on the same tree is a no-op
// the second time.
func StripComments(el *etree.Element) {
	if el == nil {
		return
	}

	kept := el.Child[:0]
	for _, tok := range el.Child {
		if _, isComment := tok.(*etree.Comment); isComment {
			continue
		}
		if child, ok := tok.(*etree.Element); ok {
			StripComments(child)
		}
		kept = append(kept, tok)
	}
	el.Child = kept
}
