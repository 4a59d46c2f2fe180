package core

import "encoding/xml"

// LogoutRequest asks the recipient to terminate some or all of the
// sessions associated with the specified principal.
// See 3.7.1 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
type LogoutRequest struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutRequest"`

	RequestResponseCommon

	BaseID       *BaseID
	NameID       *NameID
	EncryptedID  *EncryptedID
	SessionIndex []string `xml:",omitempty"`
}

// LogoutResponse responds to a LogoutRequest.
// See 3.7.2 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
type LogoutResponse struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:protocol LogoutResponse"`

	StatusResponseType
}

// CreateXMLDocument marshals a LogoutRequest to XML.
func (r *LogoutRequest) CreateXMLDocument(indent int) ([]byte, error) {
	return marshalIndented(r, indent)
}

// CreateXMLDocument marshals a LogoutResponse to XML.
func (r *LogoutResponse) CreateXMLDocument(indent int) ([]byte, error) {
	return marshalIndented(r, indent)
}
