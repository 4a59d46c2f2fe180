package saml

import (
	"context"
	"net/url"

	"github.com/capsaml/saml/models/core"
)

// Redirecter signs and/or encodes an outbound message for the
// HTTP-Redirect binding, returning the final URL to send the browser to.
// No implementation ships in this module — this core only defines the
// contract and hands implementations the material they need (destination,
// cert, key) via the SP factory methods.
type Redirecter interface {
	SignedRedirectURL(relayState string) (*url.URL, error)
}

// POSTVerifier verifies and parses a base64-encoded HTTP-POST binding
// payload (a SAMLResponse or SAMLRequest form field), returning whether
// its signature validated.
type POSTVerifier interface {
	HandleResponse(rawBase64 string) (bool, error)
}

// SOAPRequester performs the back-channel SOAP exchange the
// HTTP-Artifact binding's ArtifactResolve/ArtifactResponse round trip
// requires.
type SOAPRequester interface {
	Do(ctx context.Context, req []byte) ([]byte, error)
}

// RedirectBindingMaterial carries everything a Redirecter implementation
// needs to sign and build a redirect URL: the outbound payload, the SP's
// own signing key/cert, and the SLS quirk flags recorded on the IdP this
// request targets.
type RedirectBindingMaterial struct {
	Destination string
	Payload     []byte
	CertPEM     []byte
	KeyPEM      []byte
	Quirks      QuirkFlags
}

// SSORedirectBinding returns the material needed to build a signed
// HTTP-Redirect AuthnRequest against the bound IdP.
func (sp *ServiceProvider) SSORedirectBinding(payload []byte) (*RedirectBindingMaterial, error) {
	destination, err := sp.ssoDestination(core.ServiceBindingHTTPRedirect)
	if err != nil {
		return nil, err
	}
	return sp.redirectBindingMaterial(destination, payload), nil
}

// SLORedirectBinding returns the material needed to build a signed
// HTTP-Redirect LogoutRequest/LogoutResponse against the bound IdP.
func (sp *ServiceProvider) SLORedirectBinding(payload []byte) (*RedirectBindingMaterial, error) {
	destination, err := sp.sloDestination(core.ServiceBindingHTTPRedirect)
	if err != nil {
		return nil, err
	}
	return sp.redirectBindingMaterial(destination, payload), nil
}

// POSTBindingMaterial carries what a POSTVerifier needs: nothing more
// than the signing cert(s) to check the embedded signature against, since
// HTTP-POST has no query-string signature step of its own.
type POSTBindingMaterial struct {
	IdPCertPEM []string
}

// POSTBinding returns the material needed to verify an HTTP-POST bound
// Response from the bound IdP.
func (sp *ServiceProvider) POSTBinding() (*POSTBindingMaterial, error) {
	if sp.idp == nil {
		return nil, ErrInvalidParameter
	}
	var certs []string
	if c, ok := sp.idp.Cert("signing"); ok {
		certs = append(certs, c)
	}
	return &POSTBindingMaterial{IdPCertPEM: certs}, nil
}

// SOAPBindingMaterial carries what a SOAPRequester needs to dial the
// IdP's Artifact Resolution Service and authenticate itself to it.
type SOAPBindingMaterial struct {
	Destination string
	CertPEM     []byte
	KeyPEM      []byte
}

// SOAPBinding returns the material needed to resolve an artifact over
// the bound IdP's SOAP Artifact Resolution Service.
func (sp *ServiceProvider) SOAPBinding() (*SOAPBindingMaterial, error) {
	destination, err := sp.artifactDestination()
	if err != nil {
		return nil, err
	}
	return &SOAPBindingMaterial{
		Destination: destination,
		CertPEM:     sp.cfg.CertPEM,
		KeyPEM:      sp.cfg.KeyPEM,
	}, nil
}

func (sp *ServiceProvider) redirectBindingMaterial(destination string, payload []byte) *RedirectBindingMaterial {
	m := &RedirectBindingMaterial{
		Destination: destination,
		Payload:     payload,
		CertPEM:     sp.cfg.CertPEM,
		KeyPEM:      sp.cfg.KeyPEM,
	}
	if sp.idp != nil {
		m.Quirks = sp.idp.Quirks()
	}
	return m
}
