package saml

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-uuid"
)

type ValidUntilFunc func() time.Time

type GenerateAuthRequestIDFunc func() (string, error)

// Config holds an SP's identity and endpoint configuration. It is
// immutable once returned from NewConfig: every field is read by value or
// by an effectively-immutable pointer (the parsed cert/key), and nothing in
// this package ever mutates a Config after construction.
type Config struct {
	// EntityID is a globally unique identifier of the service provider. (required)
	EntityID *url.URL

	// AssertionConsumerServiceURL is the endpoint at the SP where the IDP
	// redirects with its authentication response, bound over HTTP-POST. (required)
	AssertionConsumerServiceURL *url.URL

	// AssertionConsumerServiceArtifactURL is the endpoint at the SP for the
	// HTTP-Artifact binding. Optional; when set, CreateMetadata advertises it
	// as an HTTP-Artifact AssertionConsumerService. CreateArtifactResolve
	// does not read it.
	AssertionConsumerServiceArtifactURL *url.URL

	// Issuer is a globally unique identifier of the identity provider. (required)
	Issuer *url.URL

	// MetadataURL is the endpoint an IDP serves its metadata XML document. (required)
	MetadataURL *url.URL

	// SLOSOAPURL, SLORedirectURL, SLOPOSTURL are the SP's single-logout
	// service endpoints, one per binding. All optional.
	SLOSOAPURL     *url.URL
	SLORedirectURL *url.URL
	SLOPOSTURL     *url.URL

	// ErrorURL is where the SP redirects a user on an unrecoverable SAML
	// error. Optional.
	ErrorURL *url.URL

	// CertPEM/KeyPEM are the SP's signing certificate and private key, PEM
	// encoded. (required)
	CertPEM []byte
	KeyPEM  []byte

	// CACertPEM is an optional CA trust bundle used to verify IdP response
	// certificates.
	CACertPEM []byte

	// OrgName, OrgDisplayName, OrgContact are the SP's organization
	// metadata fields. OrgURL falls back to EntityID's URL when unset.
	OrgName        string
	OrgDisplayName string
	OrgContact     string
	OrgURL         *url.URL

	// AuthnRequestsSigned and WantAssertionsSigned default to true when
	// left unset via NewConfig.
	AuthnRequestsSigned  bool
	WantAssertionsSigned bool

	// certText is the base64 body of CertPEM with PEM armor stripped,
	// derived once at construction and embedded verbatim in metadata.
	certText string

	// ValidUntil defines until when the generated SP metadata document is
	// valid.
	ValidUntil ValidUntilFunc

	// GenerateAuthRequestID generates an xsd:ID conformant identifier for
	// outbound protocol messages.
	GenerateAuthRequestID GenerateAuthRequestIDFunc
}

// NewConfig creates a new SAML Config. certPEM/keyPEM are the SP's signing
// material; AuthnRequestsSigned and WantAssertionsSigned default to true,
// matching the "default true when absent" rule for these flags.
func NewConfig(entityID, acs, issuer, metadataURL string, certPEM, keyPEM []byte) (*Config, error) {
	const op = "saml.NewConfig"

	if entityID == "" {
		return nil, fmt.Errorf("%s: invalid entityID: %w", op, ErrInvalidParameter)
	}
	entityURL, err := url.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid entityID: %w", op, err)
	}

	if acs == "" {
		return nil, fmt.Errorf("%s: ACS URL not set: %w", op, ErrInvalidParameter)
	}
	acsURL, err := url.Parse(acs)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid ACS URL: %w", op, err)
	}

	if issuer == "" {
		return nil, fmt.Errorf("%s: Issuer not set: %w", op, ErrInvalidParameter)
	}
	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid issuer: %w", op, err)
	}

	if metadataURL == "" {
		return nil, fmt.Errorf("%s: Metadata URL not set: %w", op, ErrInvalidParameter)
	}
	metaURL, err := url.Parse(metadataURL)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid metadata URL: %w", op, err)
	}

	cfg := &Config{
		EntityID:                    entityURL,
		Issuer:                      issuerURL,
		AssertionConsumerServiceURL: acsURL,
		MetadataURL:                 metaURL,
		CertPEM:                     certPEM,
		KeyPEM:                      keyPEM,
		AuthnRequestsSigned:         true,
		WantAssertionsSigned:        true,

		ValidUntil:            DefaultValidUntil,
		GenerateAuthRequestID: GenerateAuthRequestID,
	}

	if len(certPEM) > 0 {
		certText, err := StripArmor(certPEM)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid signing certificate: %w", op, err)
		}
		cfg.certText = certText
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid provider config: %w", op, err)
	}

	return cfg, nil
}

// LoadCertFile reads a PEM certificate/key pair from disk. It's a thin
// convenience wrapper; callers that source key material from elsewhere
// (a secrets manager, an env var) can skip it and populate CertPEM/KeyPEM
// directly.
func LoadCertFile(certPath, keyPath string) (certPEM, keyPEM []byte, err error) {
	const op = "saml.LoadCertFile"

	certPEM, err = os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read certificate: %w", op, err)
	}
	keyPEM, err = os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read key: %w", op, err)
	}
	return certPEM, keyPEM, nil
}

// CertText returns the base64 body of the SP's signing certificate, PEM
// armor stripped, exactly as it is embedded into emitted metadata.
func (c *Config) CertText() string {
	return c.certText
}

// GenerateAuthRequestID generates an auth XSD:ID conform ID.
// A UUID prefixed with an underscore.
func GenerateAuthRequestID() (string, error) {
	newID, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	// Request IDs have to be xsd:ID, which means they need to start with an underscore or letter,
	// which is not always given for UUIDs.
	return fmt.Sprintf("_%s", newID), nil
}

// Validate validates the provided configuration.
func (c *Config) Validate() error {
	const op = "saml.Config.Validate"

	if c.AssertionConsumerServiceURL == nil {
		return fmt.Errorf("%s: ACS URL not set: %w", op, ErrInvalidParameter)
	}

	if c.EntityID == nil {
		return fmt.Errorf("%s: EntityID not set: %w", op, ErrInvalidParameter)
	}

	if c.Issuer == nil {
		return fmt.Errorf("%s: Issuer not set: %w", op, ErrInvalidParameter)
	}

	if c.MetadataURL == nil {
		return fmt.Errorf("%s: Metadata URL not set: %w", op, ErrInvalidParameter)
	}

	if len(c.CertPEM) == 0 {
		return fmt.Errorf("%s: signing certificate not set: %w", op, ErrInvalidParameter)
	}

	if len(c.KeyPEM) == 0 {
		return fmt.Errorf("%s: signing key not set: %w", op, ErrInvalidParameter)
	}

	if c.ValidUntil == nil {
		return fmt.Errorf("%s: ValidUntil func not provided: %w", op, ErrInvalidParameter)
	}

	if c.GenerateAuthRequestID == nil {
		return fmt.Errorf(
			"%s: GenerateAuthRequestID func not provided: %w",
			op,
			ErrInvalidParameter,
		)
	}

	return nil
}

// OrgURLOrDefault returns OrgURL if set, otherwise EntityID — the
// fallback the SP metadata's Organization/OrganizationURL uses.
func (c *Config) OrgURLOrDefault() *url.URL {
	if c.OrgURL != nil {
		return c.OrgURL
	}
	return c.EntityID
}

// DefaultValidUntil returns a timestamp one year in the future.
func DefaultValidUntil() time.Time {
	return time.Now().Add(time.Hour * 24 * 365)
}
