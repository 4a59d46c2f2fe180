package saml

import (
	"crypto/x509"
	"fmt"
	"net/url"

	dsig "github.com/russellhaering/goxmldsig/types"

	"github.com/capsaml/saml/models/core"
	"github.com/capsaml/saml/models/metadata"
)

type metadataOptions struct {
	wantAssertionsSigned bool
	nameIDFormats         []core.NameIDFormat
	acsServiceBinding     core.ServiceBinding
	additionalACSs        []metadata.Endpoint
}

func metadataOptionsDefault() metadataOptions {
	return metadataOptions{
		wantAssertionsSigned: true,
		nameIDFormats: []core.NameIDFormat{
			core.NameIDFormatEmail,
		},
		acsServiceBinding: core.ServiceBindingHTTPPost,
	}
}

func getMetadataOptions(opt ...Option) metadataOptions {
	opts := metadataOptionsDefault()
	ApplyOpts(&opts, opt...)
	return opts
}

// InsecureWantAssertionsUnsigned advertises WantAssertionsSigned=false in
// the SP's metadata. Named Insecure* per the teacher's convention of
// flagging anything that weakens the default security posture.
func InsecureWantAssertionsUnsigned() Option {
	return func(o interface{}) {
		if o, ok := o.(*metadataOptions); ok {
			o.wantAssertionsSigned = false
		}
	}
}

func WithAdditionalNameIDFormat(format core.NameIDFormat) Option {
	return func(o interface{}) {
		if o, ok := o.(*metadataOptions); ok {
			o.nameIDFormats = append(o.nameIDFormats, format)
		}
	}
}

func WithNameIDFormats(formats []core.NameIDFormat) Option {
	return func(o interface{}) {
		if o, ok := o.(*metadataOptions); ok {
			o.nameIDFormats = formats
		}
	}
}

func WithACSServiceBinding(b core.ServiceBinding) Option {
	return func(o interface{}) {
		if o, ok := o.(*metadataOptions); ok {
			o.acsServiceBinding = b
		}
	}
}

func WithAdditionalACSEndpoint(b core.ServiceBinding, location *url.URL) Option {
	return func(o interface{}) {
		if o, ok := o.(*metadataOptions); ok {
			o.additionalACSs = append(o.additionalACSs, metadata.Endpoint{
				Binding:  b,
				Location: location.String(),
			})
		}
	}
}

// ServiceProvider is the SP-side entry point: it holds the SP's own
// identity/config and, once primed with an IdPDescriptor, hands out
// outbound protocol messages and binding objects.
type ServiceProvider struct {
	cfg *Config
	idp *IdPDescriptor
}

// NewServiceProvider creates a new ServiceProvider. idp may be nil; it can
// be supplied later via SetIdPDescriptor once IdP metadata has been
// fetched or refreshed.
func NewServiceProvider(cfg *Config, idp *IdPDescriptor) (*ServiceProvider, error) {
	const op = "saml.NewServiceProvider"

	if cfg == nil {
		return nil, fmt.Errorf("%s: no provider config provided: %w", op, ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: insufficient provider config: %w", op, err)
	}

	return &ServiceProvider{
		cfg: cfg,
		idp: idp,
	}, nil
}

// Config returns the service provider config.
func (sp *ServiceProvider) Config() *Config {
	return sp.cfg
}

// IdP returns the IdP descriptor this service provider is bound to, or
// nil if none has been set yet.
func (sp *ServiceProvider) IdP() *IdPDescriptor {
	return sp.idp
}

// SetIdPDescriptor replaces the IdP descriptor this service provider
// issues requests against, e.g. after a metadata refresh.
func (sp *ServiceProvider) SetIdPDescriptor(idp *IdPDescriptor) {
	sp.idp = idp
}

// CreateMetadata creates the SP's own metadata XML document.
//
// The emitted element order follows the deployment profile for
// federation interoperability:
// KeyDescriptor, SingleLogoutService (SOAP, Redirect, POST),
// AssertionConsumerService (POST index=1 isDefault, Artifact index=2),
// Organization, ContactPerson.
//
// Options:
//   - InsecureWantAssertionsUnsigned
//   - WithNameIDFormats / WithAdditionalNameIDFormat
//   - WithACSServiceBinding
//   - WithAdditionalACSEndpoint
func (sp *ServiceProvider) CreateMetadata(opt ...Option) *metadata.EntityDescriptorSPSSO {
	validUntil := sp.cfg.ValidUntil()

	opts := getMetadataOptions(opt...)

	spsso := metadata.EntityDescriptorSPSSO{}
	spsso.EntityID = sp.cfg.EntityID.String()
	spsso.ValidUntil = &validUntil

	descriptor := &metadata.SPSSODescriptor{}
	descriptor.ValidUntil = &validUntil
	descriptor.ProtocolSupportEnumeration = metadata.ProtocolSupportEnumerationProtocol
	descriptor.NameIDFormat = opts.nameIDFormats
	descriptor.AuthnRequestsSigned = metadata.SAMLBool(sp.cfg.AuthnRequestsSigned)
	descriptor.WantAssertionsSigned = metadata.SAMLBool(opts.wantAssertionsSigned)

	if sp.cfg.ErrorURL != nil {
		descriptor.ErrorURL = sp.cfg.ErrorURL.String()
	}

	if len(sp.cfg.CertPEM) > 0 {
		descriptor.KeyDescriptor = []metadata.KeyDescriptor{
			{
				Use: metadata.KeyTypeSigning,
				KeyInfo: metadata.KeyInfo{
					KeyInfo: dsig.KeyInfo{
						X509Data: dsig.X509Data{
							X509Certificates: []dsig.X509Certificate{
								{Data: sp.cfg.CertText()},
							},
						},
					},
					KeyName: "sp-signing",
				},
			},
		}
	}

	descriptor.SingleLogoutService = sloEndpoints(sp.cfg)

	descriptor.AssertionConsumerService = []metadata.IndexedEndpoint{
		{
			Endpoint: metadata.Endpoint{
				Binding:  opts.acsServiceBinding,
				Location: sp.cfg.AssertionConsumerServiceURL.String(),
			},
			Index:     1,
			IsDefault: true,
		},
	}

	if sp.cfg.AssertionConsumerServiceArtifactURL != nil {
		descriptor.AssertionConsumerService = append(
			descriptor.AssertionConsumerService,
			metadata.IndexedEndpoint{
				Endpoint: metadata.Endpoint{
					Binding:  core.ServiceBindingHTTPArtifact,
					Location: sp.cfg.AssertionConsumerServiceArtifactURL.String(),
				},
				Index: 2,
			},
		)
	}

	for i, a := range opts.additionalACSs {
		descriptor.AssertionConsumerService = append(
			descriptor.AssertionConsumerService,
			metadata.IndexedEndpoint{
				Endpoint: a,
				Index:    i + 3,
			},
		)
	}

	descriptor.Organization = &metadata.Organization{
		OrganizationName:        []metadata.Localized{{Lang: "en", Value: sp.cfg.OrgName}},
		OrganizationDisplayName: []metadata.Localized{{Lang: "en", Value: sp.cfg.OrgDisplayName}},
		OrganizationURL:         []metadata.Localized{{Lang: "en", Value: sp.cfg.OrgURLOrDefault().String()}},
	}

	descriptor.ContactPerson = []metadata.ContactPerson{
		{
			ContactType:  metadata.ContactTypeOther,
			EmailAddress: []string{sp.cfg.OrgContact},
		},
	}

	spsso.SPSSODescriptor = []*metadata.SPSSODescriptor{descriptor}

	return &spsso
}

// sloEndpoints builds the SOAP, Redirect and POST SingleLogoutService
// entries for the SP's own metadata, in that fixed order. Binding
// endpoints the caller never configured are simply omitted.
func sloEndpoints(cfg *Config) []metadata.Endpoint {
	var eps []metadata.Endpoint
	if cfg.SLOSOAPURL != nil {
		eps = append(eps, metadata.Endpoint{Binding: core.ServiceBindingSOAP, Location: cfg.SLOSOAPURL.String()})
	}
	if cfg.SLORedirectURL != nil {
		eps = append(eps, metadata.Endpoint{Binding: core.ServiceBindingHTTPRedirect, Location: cfg.SLORedirectURL.String()})
	}
	if cfg.SLOPOSTURL != nil {
		eps = append(eps, metadata.Endpoint{Binding: core.ServiceBindingHTTPPost, Location: cfg.SLOPOSTURL.String()})
	}
	return eps
}

// FetchMetadata fetches and parses the IdP's metadata document and stores
// the resulting descriptor on the ServiceProvider, replacing whatever was
// there before.
func (sp *ServiceProvider) FetchMetadata(caBundle *x509.CertPool, quirks QuirkFlags, opt ...Option) (*IdPDescriptor, error) {
	const op = "saml.ServiceProvider.FetchMetadata"

	if sp.cfg.MetadataURL == nil {
		return nil, fmt.Errorf("%s: no metadata URL set: %w", op, ErrInvalidParameter)
	}

	idp, err := FromURL(sp.cfg.MetadataURL.String(), caBundle, quirks, opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sp.idp = idp
	return idp, nil
}

// ssoDestination resolves the IdP's SingleSignOnService endpoint for the
// given outbound binding. It requires an IdPDescriptor to already be set
// (via NewServiceProvider or FetchMetadata).
func (sp *ServiceProvider) ssoDestination(binding core.ServiceBinding) (string, error) {
	const op = "saml.ServiceProvider.ssoDestination"

	if sp.idp == nil {
		return "", fmt.Errorf("%s: no IdP descriptor set: %w", op, ErrInvalidParameter)
	}

	dest, ok := sp.idp.SSOURL(ServiceBindingURI(binding))
	if !ok {
		return "", fmt.Errorf(
			"%s: no SSO location for binding %q found: %w",
			op, binding, ErrBindingUnsupported,
		)
	}

	return dest, nil
}

// sloDestination resolves the IdP's SingleLogoutService endpoint for the
// given outbound binding.
func (sp *ServiceProvider) sloDestination(binding core.ServiceBinding) (string, error) {
	const op = "saml.ServiceProvider.sloDestination"

	if sp.idp == nil {
		return "", fmt.Errorf("%s: no IdP descriptor set: %w", op, ErrInvalidParameter)
	}

	dest, ok := sp.idp.SLOURL(ServiceBindingURI(binding))
	if !ok {
		return "", fmt.Errorf(
			"%s: no SLO location for binding %q found: %w",
			op, binding, ErrBindingUnsupported,
		)
	}

	return dest, nil
}

// artifactDestination resolves the IdP's ArtifactResolutionService
// endpoint. The Artifact Resolution profile is always bound to SOAP.
func (sp *ServiceProvider) artifactDestination() (string, error) {
	const op = "saml.ServiceProvider.artifactDestination"

	if sp.idp == nil {
		return "", fmt.Errorf("%s: no IdP descriptor set: %w", op, ErrInvalidParameter)
	}

	dest, ok := sp.idp.ArtifactURL(ServiceBindingURI(core.ServiceBindingSOAP))
	if !ok {
		return "", fmt.Errorf(
			"%s: no artifact resolution location found: %w",
			op, ErrBindingUnsupported,
		)
	}

	return dest, nil
}
