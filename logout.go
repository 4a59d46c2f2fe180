package saml

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/capsaml/saml/models/core"
)

type logoutRequestOptions struct {
	sessionIndex []string
	indent       int
}

func logoutRequestOptionsDefault() logoutRequestOptions {
	return logoutRequestOptions{}
}

func getLogoutRequestOptions(opt ...Option) logoutRequestOptions {
	opts := logoutRequestOptionsDefault()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithSessionIndex records the SessionIndex(es) being terminated on an
// outbound LogoutRequest.
func WithSessionIndex(index ...string) Option {
	return func(o interface{}) {
		if o, ok := o.(*logoutRequestOptions); ok {
			o.sessionIndex = index
		}
	}
}

// CreateLogoutRequest builds a LogoutRequest asking the IdP to terminate
// the session(s) identified by nameID/sessionIndex, destined for the IdP's
// SingleLogoutService endpoint for binding.
//
// Options:
//   - WithSessionIndex
func (sp *ServiceProvider) CreateLogoutRequest(
	id, nameID string,
	binding core.ServiceBinding,
	opt ...Option,
) (*core.LogoutRequest, error) {
	const op = "saml.ServiceProvider.CreateLogoutRequest"

	if id == "" {
		return nil, fmt.Errorf("%s: no ID provided: %w", op, ErrInvalidParameter)
	}
	if nameID == "" {
		return nil, fmt.Errorf("%s: no nameID provided: %w", op, ErrInvalidParameter)
	}

	opts := getLogoutRequestOptions(opt...)

	destination, err := sp.sloDestination(binding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lr := &core.LogoutRequest{}
	lr.ID = id
	lr.Version = core.SAMLVersion2
	lr.Destination = destination
	lr.IssueInstant = authnRequestOptionsDefault().clock.Now().UTC()

	lr.Issuer = &core.Issuer{}
	lr.Issuer.Value = sp.cfg.EntityID.String()

	lr.NameID = &core.NameID{Value: nameID}
	lr.SessionIndex = opts.sessionIndex

	return lr, nil
}

// LogoutRequestRedirect builds a LogoutRequest and returns it Deflated,
// base64-encoded and appended to the IdP's HTTP-Redirect SLO endpoint.
func (sp *ServiceProvider) LogoutRequestRedirect(
	id, nameID, relayState string, opt ...Option,
) (*url.URL, *core.LogoutRequest, error) {
	const op = "saml.ServiceProvider.LogoutRequestRedirect"

	lr, err := sp.CreateLogoutRequest(id, nameID, core.ServiceBindingHTTPRedirect, opt...)
	if err != nil {
		return nil, nil, err
	}

	payload, err := deflateXML(lr)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to deflate/compress request: %w", op, err)
	}

	redirect, err := url.Parse(lr.Destination)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to parse destination URL: %w", op, err)
	}

	vals := redirect.Query()
	vals.Set("SAMLRequest", base64.StdEncoding.EncodeToString(payload))
	if relayState != "" {
		vals.Set("RelayState", relayState)
	}
	redirect.RawQuery = vals.Encode()

	return redirect, lr, nil
}

// CreateLogoutResponse builds a LogoutResponse answering a LogoutRequest
// with the given status and InResponseTo.
func (sp *ServiceProvider) CreateLogoutResponse(
	id, inResponseTo string,
	status core.StatusCodeType,
	binding core.ServiceBinding,
) (*core.LogoutResponse, error) {
	const op = "saml.ServiceProvider.CreateLogoutResponse"

	if id == "" {
		return nil, fmt.Errorf("%s: no ID provided: %w", op, ErrInvalidParameter)
	}

	destination, err := sp.sloDestination(binding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lr := &core.LogoutResponse{}
	lr.ID = id
	lr.Version = core.SAMLVersion2
	lr.Destination = destination
	lr.InResponseTo = inResponseTo
	lr.IssueInstant = authnRequestOptionsDefault().clock.Now().UTC()
	lr.Issuer = &core.Issuer{}
	lr.Issuer.Value = sp.cfg.EntityID.String()
	lr.Status = core.Status{StatusCode: core.StatusCode{Value: status}}

	return lr, nil
}

// deflateXML DEFLATE-compresses the XML encoding of any of this package's
// outbound protocol messages, at the same flate.DefaultCompression level
// AuthnRequest's Deflate uses.
func deflateXML(v interface{ CreateXMLDocument(int) ([]byte, error) }) ([]byte, error) {
	payload, err := v.CreateXMLDocument(0)
	if err != nil {
		return nil, err
	}

	buf := bytes.Buffer{}
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	defer fw.Close()

	if _, err := fw.Write(payload); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
