package saml

import (
	"crypto/x509"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/crewjam/errset"

	"github.com/capsaml/saml/xmlutil"
)

// nameIDFormatPattern extracts the short name from a NameID format URI such
// as urn:oasis:names:tc:SAML:2.0:nameid-format:transient.
var nameIDFormatPattern = regexp.MustCompile(`urn:oasis:names:tc:SAML:(?:2\.0|1\.1):nameid-format:(.*)`)

const (
	shortFormatUnspecified = "unspecified"
	fullFormatUnspecified  = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"

	shortBindingRedirect = "redirect"
	shortBindingSOAP     = "soap"
)

// IdPDescriptor is the immutable, parsed view of an IdP's SAML metadata.
// It is built once, at configuration time, and is safe to share across
// goroutines: nothing on it ever mutates after construction.
type IdPDescriptor struct {
	entityID string

	ssoURLs      map[ServiceBindingURI]string
	sloURLs      map[ServiceBindingURI]string
	artifactURLs map[ServiceBindingURI]string

	certs map[string]string // usage -> PEM

	formats       map[string]string // short name -> full URI
	defaultFormat string

	slsForceLcaseURLEncoding bool
	slsDoubleEncodedResponse bool

	certWarnings errset.ErrSet
}

// ServiceBindingURI is a SAML binding URI, e.g.
// urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect. It's distinct from
// core.ServiceBinding to keep the metadata-ingestion side of this package
// decoupled from the wire model types used for outbound messages.
type ServiceBindingURI string

// QuirkFlags carries the per-IdP interoperability quirks the IdP Descriptor
// records but never itself acts on; bindings consult them when handling the
// HTTP-Redirect SLO response.
type QuirkFlags struct {
	// SLSForceLcaseURLEncoding requires all percent-escape hex digits in
	// the signed redirect string to be lowercase. Required by some
	// Microsoft Azure AD LogoutResponse redirects.
	SLSForceLcaseURLEncoding bool
	// SLSDoubleEncodedResponse requires the received query parameter to
	// be URL-decoded twice before inspection.
	SLSDoubleEncodedResponse bool
}

// FromXML parses raw IdP metadata into an IdPDescriptor. If caBundle is
// non-nil, every certificate found is verified against it; verification
// failures are delivered as CertificateVerificationWarning and never abort
// construction.
func FromXML(raw []byte, caBundle *x509.CertPool, quirks QuirkFlags, opt ...Option) (*IdPDescriptor, error) {
	const op = "saml.FromXML"
	opts := getCoreOptions(opt...)

	doc, err := xmlutil.Parse(raw)
	if err != nil {
		return nil, &MetadataParseError{Reason: err.Error()}
	}

	ctx := xmlutil.NewContext(doc)

	entity := ctx.Root()
	if entity != nil && entity.Tag != "EntityDescriptor" {
		entity = ctx.FindElement("//EntityDescriptor")
	}
	if entity == nil {
		return nil, &MetadataParseError{Reason: "no EntityDescriptor element found"}
	}

	entityID, ok := xmlutil.Attr(entity, "entityID")
	if !ok || entityID == "" {
		return nil, &MetadataParseError{Reason: "EntityDescriptor missing entityID"}
	}

	idpSSO := xmlutil.LocalNameChildren(entity, "IDPSSODescriptor")
	if len(idpSSO) == 0 {
		return nil, &MetadataParseError{Reason: "no IDPSSODescriptor element found"}
	}
	descriptor := idpSSO[0]

	idp := &IdPDescriptor{
		entityID:                 entityID,
		ssoURLs:                  map[ServiceBindingURI]string{},
		sloURLs:                  map[ServiceBindingURI]string{},
		artifactURLs:             map[ServiceBindingURI]string{},
		certs:                    map[string]string{},
		formats:                  map[string]string{},
		slsForceLcaseURLEncoding: quirks.SLSForceLcaseURLEncoding,
		slsDoubleEncodedResponse: quirks.SLSDoubleEncodedResponse,
	}

	// 1-2. Endpoint maps.
	collectEndpoints(descriptor, "SingleSignOnService", idp.ssoURLs)
	collectEndpoints(descriptor, "SingleLogoutService", idp.sloURLs)
	collectEndpoints(descriptor, "ArtifactResolutionService", idp.artifactURLs)

	// 3-4. NameID formats.
	for _, f := range xmlutil.LocalNameChildren(descriptor, "NameIDFormat") {
		full := strings.TrimSpace(f.Text())
		m := nameIDFormatPattern.FindStringSubmatch(full)
		if m == nil {
			continue
		}
		short := m[1]
		if _, exists := idp.formats[short]; !exists {
			idp.formats[short] = full
		}
		if idp.defaultFormat == "" {
			idp.defaultFormat = short
		}
	}
	if len(idp.formats) == 0 {
		idp.formats[shortFormatUnspecified] = fullFormatUnspecified
		idp.defaultFormat = shortFormatUnspecified
	}

	// 5. Certificates.
	var warnings errset.ErrSet
	for _, kd := range xmlutil.LocalNameChildren(descriptor, "KeyDescriptor") {
		use, ok := xmlutil.Attr(kd, "use")
		if !ok || use == "" {
			use = "signing"
		}

		certEls := xmlutil.LocalNameDescendants(kd, "X509Certificate")
		if len(certEls) == 0 {
			continue
		}

		body := strings.TrimSpace(certEls[0].Text())
		pemBytes := RewrapBase64(body, 64)
		idp.certs[use] = string(pemBytes)

		if caBundle != nil {
			cert, err := LoadPEM(pemBytes)
			if err != nil {
				w := &CertificateVerificationWarning{Use: use, Reason: err.Error()}
				warnings = append(warnings, w)
				opts.warn(w)
				continue
			}
			if err := VerifyCertificate(cert, caBundle); err != nil {
				w := &CertificateVerificationWarning{Use: use, Reason: err.Error()}
				warnings = append(warnings, w)
				opts.warn(w)
			}
		}
	}
	idp.certWarnings = warnings

	if len(idp.ssoURLs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, &MetadataParseError{Reason: "no SingleSignOnService endpoints found"})
	}

	return idp, nil
}

// FromURL fetches IdP metadata over HTTP(S) via the configured HTTP client
// and delegates to FromXML. A non-2xx response fails with
// MetadataFetchError.
func FromURL(url string, caBundle *x509.CertPool, quirks QuirkFlags, opt ...Option) (*IdPDescriptor, error) {
	const op = "saml.FromURL"
	opts := getCoreOptions(opt...)

	res, err := opts.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch metadata: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &MetadataFetchError{
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("non-success response fetching %s", url),
		}
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response body: %w", op, err)
	}

	return FromXML(raw, caBundle, quirks, opt...)
}

// collectEndpoints records {@Binding -> @Location} for every direct child
// of descriptor named tag (SingleSignOnService, SingleLogoutService,
// ArtifactResolutionService all share this shape).
func collectEndpoints(descriptor *etree.Element, tag string, into map[ServiceBindingURI]string) {
	for _, el := range xmlutil.LocalNameChildren(descriptor, tag) {
		binding, ok := xmlutil.Attr(el, "Binding")
		if !ok || binding == "" {
			continue
		}
		location, ok := xmlutil.Attr(el, "Location")
		if !ok || location == "" {
			continue
		}
		into[ServiceBindingURI(binding)] = location
	}
}

// EntityID returns the IdP's entity identifier.
func (d *IdPDescriptor) EntityID() string {
	return d.entityID
}

// SSOURL returns the SingleSignOnService location registered for binding,
// and whether one was present at all.
func (d *IdPDescriptor) SSOURL(binding ServiceBindingURI) (string, bool) {
	u, ok := d.ssoURLs[binding]
	return u, ok
}

// SLOURL returns the SingleLogoutService location registered for binding.
func (d *IdPDescriptor) SLOURL(binding ServiceBindingURI) (string, bool) {
	u, ok := d.sloURLs[binding]
	return u, ok
}

// ArtifactURL returns the ArtifactResolutionService location registered
// for binding.
func (d *IdPDescriptor) ArtifactURL(binding ServiceBindingURI) (string, bool) {
	u, ok := d.artifactURLs[binding]
	return u, ok
}

// Cert returns the PEM certificate registered for the given usage
// ("signing" or "encryption").
func (d *IdPDescriptor) Cert(use string) (string, bool) {
	c, ok := d.certs[use]
	return c, ok
}

// Binding resolves a short binding name to its full URI. Only "redirect"
// and "soap" are recognized; any other short name reports !ok.
func (d *IdPDescriptor) Binding(short string) (ServiceBindingURI, bool) {
	switch short {
	case shortBindingRedirect:
		return ServiceBindingURI("urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"), true
	case shortBindingSOAP:
		return ServiceBindingURI("urn:oasis:names:tc:SAML:2.0:bindings:SOAP"), true
	default:
		return "", false
	}
}

// Format returns the full NameID-format URI for a short name. With an
// empty short name it returns the default format. If no formats are known
// at all (should not happen post-construction) it reports !ok.
func (d *IdPDescriptor) Format(short string) (string, bool) {
	if short == "" {
		short = d.defaultFormat
	}
	f, ok := d.formats[short]
	return f, ok
}

// DefaultFormat returns the short name of the default NameID format.
func (d *IdPDescriptor) DefaultFormat() string {
	return d.defaultFormat
}

// CertificateWarnings returns the aggregated, non-fatal certificate
// verification warnings collected during construction, or nil if there
// were none or no CA bundle was provided.
func (d *IdPDescriptor) CertificateWarnings() error {
	return d.certWarnings.ReturnValue()
}

// Quirks returns the interoperability quirk flags recorded for this IdP.
func (d *IdPDescriptor) Quirks() QuirkFlags {
	return QuirkFlags{
		SLSForceLcaseURLEncoding: d.slsForceLcaseURLEncoding,
		SLSDoubleEncodedResponse: d.slsDoubleEncodedResponse,
	}
}
