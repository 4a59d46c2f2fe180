package core

import "encoding/xml"

// ArtifactResolve requests that the recipient resolve an artifact handed
// back on the HTTP-Artifact binding into the protocol message it
// represents.
// See 3.5.1 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
type ArtifactResolve struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol ArtifactResolve"`

	RequestResponseCommon

	Artifact string
}

// ArtifactResponse carries the message resolved from an ArtifactResolve,
// almost always a samlp:Response wrapping an Assertion. The payload is
// untrusted IdP content, so it's parsed directly off the XML tree by
// ParseArtifactResponse rather than through this field.
// See 3.5.2 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
type ArtifactResponse struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol ArtifactResponse"`

	StatusResponseType

	Response *TBD
}

// CreateXMLDocument marshals an ArtifactResolve to XML.
func (r *ArtifactResolve) CreateXMLDocument(indent int) ([]byte, error) {
	return marshalIndented(r, indent)
}
